// Package recurrence models RFC 5545 recurrence rules and expands them into
// concrete occurrence start times.
package recurrence

import (
	"slices"
	"time"

	"github.com/samber/mo"

	"github.com/cyp0633/icalrecur/datetime"
	"github.com/cyp0633/icalrecur/internal/calmath"
)

// Pattern is a parsed RRULE or EXRULE value.
//
// Count and Until are mutually exclusive. The BY lists hold raw values as
// written in the rule; negative positional values count from the end of
// their span.
type Pattern struct {
	Frequency Frequency
	Interval  int
	Count     mo.Option[int]
	Until     mo.Option[datetime.DateTime]
	WeekStart time.Weekday

	BySecond   []int
	ByMinute   []int
	ByHour     []int
	ByDay      []WeekDay
	ByMonthDay []int
	ByYearDay  []int
	ByWeekNo   []int
	ByMonth    []int
	BySetPos   []int
}

// NewPattern returns a pattern with interval 1 and weeks starting on Monday.
func NewPattern(freq Frequency) Pattern {
	return Pattern{Frequency: freq, Interval: 1, WeekStart: time.Monday}
}

type valueRange struct {
	name     string
	values   []int
	min, max int
	signed   bool
}

// Validate reports configuration errors. It does not evaluate the rule, so
// combinations that can never match (BYMONTH=2;BYMONTHDAY=31) pass.
func (p Pattern) Validate() error {
	if !p.Frequency.Valid() {
		return invalidf("missing or unknown frequency")
	}
	if p.Interval < 1 {
		return invalidf("interval must be at least 1, got %d", p.Interval)
	}
	if count, ok := p.Count.Get(); ok {
		if count < 1 {
			return invalidf("count must be at least 1, got %d", count)
		}
		if p.Until.IsPresent() {
			return invalidf("COUNT and UNTIL are mutually exclusive")
		}
	}

	for _, r := range []valueRange{
		{"BYSECOND", p.BySecond, 0, 60, false},
		{"BYMINUTE", p.ByMinute, 0, 59, false},
		{"BYHOUR", p.ByHour, 0, 23, false},
		{"BYMONTH", p.ByMonth, 1, 12, false},
		{"BYMONTHDAY", p.ByMonthDay, 1, 31, true},
		{"BYYEARDAY", p.ByYearDay, 1, 366, true},
		{"BYWEEKNO", p.ByWeekNo, 1, 53, true},
		{"BYSETPOS", p.BySetPos, 1, 366, true},
	} {
		for _, v := range r.values {
			abs := v
			if r.signed && v < 0 {
				abs = -v
			}
			if abs < r.min || abs > r.max {
				return invalidf("%s value %d out of range", r.name, v)
			}
		}
	}
	for _, wd := range p.ByDay {
		if wd.Day < time.Sunday || wd.Day > time.Saturday {
			return invalidf("BYDAY weekday %d out of range", wd.Day)
		}
		if wd.Offset < -53 || wd.Offset > 53 {
			return invalidf("BYDAY offset %d%s out of range", wd.Offset, weekdayName(wd.Day))
		}
	}
	return nil
}

// Clone returns a deep copy.
func (p Pattern) Clone() Pattern {
	c := p
	c.BySecond = slices.Clone(p.BySecond)
	c.ByMinute = slices.Clone(p.ByMinute)
	c.ByHour = slices.Clone(p.ByHour)
	c.ByDay = slices.Clone(p.ByDay)
	c.ByMonthDay = slices.Clone(p.ByMonthDay)
	c.ByYearDay = slices.Clone(p.ByYearDay)
	c.ByWeekNo = slices.Clone(p.ByWeekNo)
	c.ByMonth = slices.Clone(p.ByMonth)
	c.BySetPos = slices.Clone(p.BySetPos)
	return c
}

// Step moves dt by n intervals of the pattern's frequency. Negative n moves
// backwards. The clock reading is moved, so the time of day is kept for
// DAILY and coarser frequencies.
func (p Pattern) Step(dt datetime.DateTime, n int) datetime.DateTime {
	interval := max(p.Interval, 1)
	wall := dt.Wall()
	switch p.Frequency {
	case Weekly:
		wall = wall.AddDate(0, 0, 7*n*interval)
	case Monthly:
		wall = wall.AddDate(0, n*interval, 0)
	case Yearly:
		wall = wall.AddDate(n*interval, 0, 0)
	case Daily:
		wall = wall.AddDate(0, 0, n*interval)
	default:
		wall = wall.Add(time.Duration(n*interval) * p.Frequency.unit())
	}
	return datetime.FromWall(wall, dt.HasTime(), dt.Location())
}

// advance moves a seed by n intervals and aligns it to the start of the
// frequency's span, keeping the clock.
func (p Pattern) advance(seed time.Time, n int) time.Time {
	hh, mm, ss := seed.Clock()
	y, m, _ := seed.Date()
	step := n * p.Interval
	switch p.Frequency {
	case Yearly:
		return time.Date(y+step, time.January, 1, hh, mm, ss, 0, time.UTC)
	case Monthly:
		return time.Date(y, m+time.Month(step), 1, hh, mm, ss, 0, time.UTC)
	case Weekly:
		return calmath.StartOfWeek(seed.AddDate(0, 0, 7*step), p.WeekStart)
	case Daily:
		return seed.AddDate(0, 0, step)
	default:
		return seed.Add(time.Duration(step) * p.Frequency.unit())
	}
}
