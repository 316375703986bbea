package recurrence

// ruleAction is what a BY rule does to the candidate list for a frequency.
type ruleAction int

const (
	// actionNone marks combinations RFC 5545 forbids. They are evaluated
	// leniently: within the seed's span when dates are still coarse,
	// otherwise as a limit.
	actionNone ruleAction = iota
	actionLimit
	actionExpand
	// actionSpecial is the BYDAY behavior for MONTHLY and YEARLY: limit when
	// a day-of-month or day-of-year rule has already fixed the date,
	// otherwise expand within the month or year.
	actionSpecial
)

type byRule int

const (
	byMonth byRule = iota
	byWeekNo
	byYearDay
	byMonthDay
	byDay
	byHour
	byMinute
	bySecond
	bySetPos
	ruleCount
)

// ruleTable is the table of RFC 5545 section 3.3.10. Columns are listed in
// the order the rules are applied.
var ruleTable = map[Frequency][ruleCount]ruleAction{
	Secondly: {actionLimit, actionNone, actionLimit, actionLimit, actionLimit, actionLimit, actionLimit, actionLimit, actionLimit},
	Minutely: {actionLimit, actionNone, actionLimit, actionLimit, actionLimit, actionLimit, actionLimit, actionExpand, actionLimit},
	Hourly:   {actionLimit, actionNone, actionLimit, actionLimit, actionLimit, actionLimit, actionExpand, actionExpand, actionLimit},
	Daily:    {actionLimit, actionNone, actionNone, actionLimit, actionLimit, actionExpand, actionExpand, actionExpand, actionLimit},
	Weekly:   {actionLimit, actionNone, actionNone, actionNone, actionExpand, actionExpand, actionExpand, actionExpand, actionLimit},
	Monthly:  {actionLimit, actionNone, actionNone, actionExpand, actionSpecial, actionExpand, actionExpand, actionExpand, actionLimit},
	Yearly:   {actionExpand, actionExpand, actionExpand, actionExpand, actionSpecial, actionExpand, actionExpand, actionExpand, actionLimit},
}

func actionFor(f Frequency, r byRule) ruleAction {
	return ruleTable[f][r]
}

// span is the resolution of the dates in a candidate list.
type span int

const (
	spanDay span = iota
	spanWeek
	spanMonth
	spanYear
)

func initialSpan(f Frequency) span {
	switch f {
	case Yearly:
		return spanYear
	case Monthly:
		return spanMonth
	case Weekly:
		return spanWeek
	default:
		return spanDay
	}
}
