package recurrence

import (
	"log/slog"
	"slices"
	"time"

	"github.com/samber/mo"

	"github.com/cyp0633/icalrecur/internal/calmath"
)

// generator produces the candidate date-times of one seed by applying the
// BY rules in RFC order. All values are clock readings carried in time.UTC.
type generator struct {
	freq      Frequency
	weekStart time.Weekday
	by        *byRuleValues
	logger    *slog.Logger

	skipped int
}

func newGenerator(p Pattern, logger *slog.Logger) *generator {
	return &generator{
		freq:      p.Frequency,
		weekStart: p.WeekStart,
		by:        newByRuleValues(p),
		logger:    logger,
	}
}

// candidates returns the sorted, de-duplicated candidates of seed.
func (g *generator) candidates(seed time.Time) []time.Time {
	g.skipped = 0
	sp := initialSpan(g.freq)
	dates := []time.Time{seed}
	if sp == spanWeek {
		dates[0] = calmath.StartOfWeek(seed, g.weekStart)
	}

	deferredMonth := false
	weekResolved := false

	if len(g.by.months) > 0 {
		switch {
		case sp == spanYear && actionFor(g.freq, byMonth) == actionExpand:
			dates, sp = g.expandMonths(dates), spanMonth
		case sp == spanWeek:
			deferredMonth = true
		default:
			dates = filter(dates, g.monthMatches)
		}
	}
	if len(g.by.weekNos) > 0 {
		if sp == spanDay {
			dates = filter(dates, g.weekNoMatches)
		} else {
			dates, sp, weekResolved = g.expandWeekNos(dates, sp), spanDay, true
		}
	}
	if len(g.by.yearDays) > 0 {
		if sp == spanDay {
			dates = filter(dates, g.yearDayMatches)
		} else {
			dates, sp = g.expandYearDays(dates, sp), spanDay
		}
	}
	if len(g.by.monthDays) > 0 {
		if sp == spanDay {
			dates = filter(dates, g.monthDayMatches)
		} else {
			dates, sp = g.expandMonthDays(dates, sp), spanDay
		}
	}
	if len(g.by.days) > 0 {
		if sp == spanDay {
			dates = filter(dates, func(t time.Time) bool { return g.weekdayMatches(t, weekResolved) })
		} else {
			dates, sp = g.expandWeekdays(dates, sp), spanDay
		}
	}
	if sp != spanDay {
		// Processed patterns always reach day resolution; fall back to the seed.
		dates = []time.Time{seed}
	}
	if deferredMonth {
		dates = filter(dates, g.monthMatches)
	}

	dates = g.applyClock(dates, byHour, g.by.hours, time.Time.Hour, setHour)
	dates = g.applyClock(dates, byMinute, g.by.minutes, time.Time.Minute, setMinute)
	dates = g.applyClock(dates, bySecond, g.by.seconds, time.Time.Second, setSecond)

	slices.SortFunc(dates, time.Time.Compare)
	dates = slices.CompactFunc(dates, time.Time.Equal)

	if len(g.by.setPos) > 0 {
		dates = g.selectSetPos(dates)
	}
	if g.skipped > 0 {
		g.logger.Debug("skipped invalid recurrence candidates",
			"seed", seed, "skipped", g.skipped)
	}
	return dates
}

func filter(dates []time.Time, keep func(time.Time) bool) []time.Time {
	return slices.DeleteFunc(dates, func(t time.Time) bool { return !keep(t) })
}

// collect appends the valid dates and counts the rejected ones.
func (g *generator) collect(out []time.Time, candidates ...mo.Option[time.Time]) []time.Time {
	for _, c := range candidates {
		if t, ok := c.Get(); ok {
			out = append(out, t)
		} else {
			g.skipped++
		}
	}
	return out
}

// dayAt builds a date with the clock of ref, failing for days the month
// does not have.
func dayAt(year int, month time.Month, day int, ref time.Time) mo.Option[time.Time] {
	if day < 1 || day > calmath.DaysInMonth(year, month) {
		return mo.None[time.Time]()
	}
	hh, mm, ss := ref.Clock()
	return mo.Some(time.Date(year, month, day, hh, mm, ss, 0, time.UTC))
}

func yearDayAt(year, yearDay int, ref time.Time) mo.Option[time.Time] {
	if yearDay < 1 || yearDay > calmath.DaysInYear(year) {
		return mo.None[time.Time]()
	}
	hh, mm, ss := ref.Clock()
	return mo.Some(time.Date(year, time.January, yearDay, hh, mm, ss, 0, time.UTC))
}

func (g *generator) weekAt(year, week int, ref time.Time) mo.Option[time.Time] {
	if week < 1 || week > calmath.WeeksInYear(year, g.weekStart) {
		return mo.None[time.Time]()
	}
	start := calmath.WeekStartDate(year, week, g.weekStart)
	return dayAt(start.Year(), start.Month(), start.Day(), ref)
}

// spanDays lists every day of the span containing t.
func (g *generator) spanDays(t time.Time, sp span) []time.Time {
	var first time.Time
	var n int
	switch sp {
	case spanYear:
		first = time.Date(t.Year(), time.January, 1, t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
		n = calmath.DaysInYear(t.Year())
	case spanMonth:
		first = time.Date(t.Year(), t.Month(), 1, t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
		n = calmath.DaysInMonth(t.Year(), t.Month())
	case spanWeek:
		first = calmath.StartOfWeek(t, g.weekStart)
		n = 7
	default:
		return []time.Time{t}
	}
	days := make([]time.Time, n)
	for i := range days {
		days[i] = first.AddDate(0, 0, i)
	}
	return days
}

func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

func (g *generator) expandMonths(dates []time.Time) []time.Time {
	out := make([]time.Time, 0, len(dates)*len(g.by.months))
	for _, d := range dates {
		for _, m := range g.by.months {
			out = g.collect(out, dayAt(d.Year(), time.Month(m), 1, d))
		}
	}
	return out
}

func (g *generator) monthMatches(t time.Time) bool {
	return slices.Contains(g.by.months, int(t.Month()))
}

// expandWeekNos yields every day of the selected weeks. Weeks belong to the
// seed's week-year, so week 1 may start in December and the last week may
// end in January.
func (g *generator) expandWeekNos(dates []time.Time, sp span) []time.Time {
	var out []time.Time
	for _, d := range dates {
		if sp == spanWeek {
			if g.weekNoMatches(d) {
				out = append(out, g.spanDays(d, spanWeek)...)
			}
			continue
		}
		year := d.Year()
		for _, wn := range g.by.weekNosFor(year, g.weekStart) {
			start, ok := g.weekAt(year, wn, d).Get()
			if !ok {
				g.skipped++
				continue
			}
			for _, day := range g.spanDays(start, spanWeek) {
				if sp == spanMonth && !sameMonth(day, d) {
					continue
				}
				out = append(out, day)
			}
		}
	}
	return out
}

func (g *generator) weekNoMatches(t time.Time) bool {
	year, week := calmath.WeekOfYear(t, g.weekStart)
	return slices.Contains(g.by.weekNosFor(year, g.weekStart), week)
}

func (g *generator) expandYearDays(dates []time.Time, sp span) []time.Time {
	var out []time.Time
	for _, d := range dates {
		if sp == spanWeek {
			out = append(out, filter(g.spanDays(d, spanWeek), g.yearDayMatches)...)
			continue
		}
		for _, yd := range g.by.yearDaysFor(d.Year()) {
			day, ok := yearDayAt(d.Year(), yd, d).Get()
			if !ok {
				g.skipped++
				continue
			}
			if sp == spanMonth && !sameMonth(day, d) {
				continue
			}
			out = append(out, day)
		}
	}
	return out
}

func (g *generator) yearDayMatches(t time.Time) bool {
	return slices.Contains(g.by.yearDaysFor(t.Year()), t.YearDay())
}

func (g *generator) expandMonthDays(dates []time.Time, sp span) []time.Time {
	var out []time.Time
	for _, d := range dates {
		switch sp {
		case spanWeek:
			out = append(out, filter(g.spanDays(d, spanWeek), g.monthDayMatches)...)
		case spanYear:
			for m := time.January; m <= time.December; m++ {
				for _, md := range g.by.monthDaysFor(d.Year(), m) {
					out = g.collect(out, dayAt(d.Year(), m, md, d))
				}
			}
		default:
			for _, md := range g.by.monthDaysFor(d.Year(), d.Month()) {
				out = g.collect(out, dayAt(d.Year(), d.Month(), md, d))
			}
		}
	}
	return out
}

func (g *generator) monthDayMatches(t time.Time) bool {
	return slices.Contains(g.by.monthDaysFor(t.Year(), t.Month()), t.Day())
}

// expandWeekdays applies BYDAY to coarse spans. Within a week every listed
// weekday is taken; within a month or year an ordinal picks the n-th match.
func (g *generator) expandWeekdays(dates []time.Time, sp span) []time.Time {
	var out []time.Time
	for _, d := range dates {
		days := g.spanDays(d, sp)
		if sp == spanWeek {
			out = append(out, filter(days, func(t time.Time) bool { return g.by.hasWeekday(t.Weekday()) })...)
			continue
		}
		for _, wd := range g.by.days {
			matches := filter(slices.Clone(days), func(t time.Time) bool { return t.Weekday() == wd.Day })
			if wd.Offset == 0 {
				out = append(out, matches...)
				continue
			}
			if t, ok := calmath.SelectOffset(matches, wd.Offset); ok {
				out = append(out, t)
			}
		}
	}
	return out
}

// weekdayMatches applies BYDAY as a limit. An ordinal is checked against the
// month (MONTHLY, or YEARLY with BYMONTH) or the year (YEARLY); it is ignored
// for days selected by week number and for finer frequencies.
func (g *generator) weekdayMatches(t time.Time, weekResolved bool) bool {
	for _, wd := range g.by.days {
		if wd.Day != t.Weekday() {
			continue
		}
		if wd.Offset == 0 || weekResolved {
			return true
		}
		switch {
		case g.freq == Monthly || (g.freq == Yearly && len(g.by.months) > 0):
			if ordinalMatches(t.Day(), calmath.DaysInMonth(t.Year(), t.Month()), wd.Offset) {
				return true
			}
		case g.freq == Yearly:
			if ordinalMatches(t.YearDay(), calmath.DaysInYear(t.Year()), wd.Offset) {
				return true
			}
		default:
			return true
		}
	}
	return false
}

// ordinalMatches reports whether the day at position pos of a span of size
// days is the offset-th occurrence of its weekday in that span.
func ordinalMatches(pos, size, offset int) bool {
	if offset > 0 {
		return (pos-1)/7+1 == offset
	}
	return -((size-pos)/7 + 1) == offset
}

func (g *generator) applyClock(dates []time.Time, rule byRule, values []int,
	get func(time.Time) int, set func(time.Time, int) time.Time) []time.Time {
	if len(values) == 0 {
		return dates
	}
	if actionFor(g.freq, rule) != actionExpand {
		return filter(dates, func(t time.Time) bool { return slices.Contains(values, get(t)) })
	}
	out := make([]time.Time, 0, len(dates)*len(values))
	for _, d := range dates {
		for _, v := range values {
			out = append(out, set(d, v))
		}
	}
	return out
}

func setHour(t time.Time, v int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), v, t.Minute(), t.Second(), 0, time.UTC)
}

func setMinute(t time.Time, v int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), v, t.Second(), 0, time.UTC)
}

func setSecond(t time.Time, v int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), v, 0, time.UTC)
}

func (g *generator) selectSetPos(dates []time.Time) []time.Time {
	positions := g.by.setPositions(len(dates))
	out := make([]time.Time, 0, len(positions))
	for _, i := range positions {
		out = append(out, dates[i])
	}
	return out
}
