package recurrence

import (
	"strings"

	"github.com/samber/mo"
	"github.com/teambition/rrule-go"

	"github.com/cyp0633/icalrecur/datetime"
)

// ParsePattern reads an RRULE or EXRULE value such as
// "FREQ=WEEKLY;BYDAY=MO,WE;COUNT=4". A leading "RRULE:" or "EXRULE:" is
// accepted. UNTIL keeps its original form: a date, a floating date-time or
// a UTC date-time.
func ParsePattern(text string) (Pattern, error) {
	text = strings.TrimSpace(text)
	if name, rest, ok := strings.Cut(text, ":"); ok {
		switch strings.ToUpper(name) {
		case "RRULE", "EXRULE":
			text = rest
		}
	}

	fields := make(map[string]string)
	var parts []string
	for _, part := range strings.Split(text, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			return Pattern{}, invalidf("malformed rule part %q", part)
		}
		key = strings.ToUpper(strings.TrimSpace(key))
		value = strings.ToUpper(strings.TrimSpace(value))
		if strings.HasPrefix(key, "X-") {
			continue
		}
		fields[key] = value
		switch key {
		case "UNTIL":
			// parsed below to keep its value type
		case "BYEASTER":
			return Pattern{}, invalidf("BYEASTER is not an RFC 5545 rule part")
		default:
			parts = append(parts, key+"="+value)
		}
	}

	opt, err := rrule.StrToROption(strings.Join(parts, ";"))
	if err != nil {
		return Pattern{}, invalidf("%v", err)
	}

	p := Pattern{
		Frequency:  fromRRuleFrequency(opt.Freq),
		Interval:   1,
		WeekStart:  fromRRuleWeekday(opt.Wkst).Day,
		BySecond:   opt.Bysecond,
		ByMinute:   opt.Byminute,
		ByHour:     opt.Byhour,
		ByMonthDay: opt.Bymonthday,
		ByYearDay:  opt.Byyearday,
		ByWeekNo:   opt.Byweekno,
		ByMonth:    opt.Bymonth,
		BySetPos:   opt.Bysetpos,
	}
	for _, wd := range opt.Byweekday {
		p.ByDay = append(p.ByDay, fromRRuleWeekday(wd))
	}
	if _, ok := fields["INTERVAL"]; ok {
		p.Interval = opt.Interval
	}
	if _, ok := fields["COUNT"]; ok {
		p.Count = mo.Some(opt.Count)
	}
	if value, ok := fields["UNTIL"]; ok {
		until, err := datetime.Parse(value, nil)
		if err != nil {
			return Pattern{}, invalidf("UNTIL: %v", err)
		}
		p.Until = mo.Some(until)
	}

	if err := p.Validate(); err != nil {
		return Pattern{}, err
	}
	return p, nil
}

// String formats the pattern as an RRULE value without the property name.
// A zoned UNTIL is written in UTC.
func (p Pattern) String() string {
	opt := rrule.ROption{
		Freq:       p.Frequency.rrule(),
		Wkst:       WeekDay{Day: p.WeekStart}.rrule(),
		Count:      p.Count.OrElse(0),
		Bysetpos:   p.BySetPos,
		Bymonth:    p.ByMonth,
		Bymonthday: p.ByMonthDay,
		Byyearday:  p.ByYearDay,
		Byweekno:   p.ByWeekNo,
		Byhour:     p.ByHour,
		Byminute:   p.ByMinute,
		Bysecond:   p.BySecond,
	}
	if p.Interval > 1 {
		opt.Interval = p.Interval
	}
	for _, wd := range p.ByDay {
		opt.Byweekday = append(opt.Byweekday, wd.rrule())
	}

	s := opt.RRuleString()
	if until, ok := p.Until.Get(); ok {
		if until.HasTime() && !until.IsFloating() {
			until = until.AsUTC()
		}
		s += ";UNTIL=" + until.String()
	}
	return s
}
