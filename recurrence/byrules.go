package recurrence

import (
	"slices"
	"time"

	"github.com/cyp0633/icalrecur/internal/calmath"
)

// byRuleValues is the normalized view of a pattern's BY lists used during
// one evaluation. Positional lists are resolved against a maximum that
// changes from span to span (days in a month, weeks in a year), so their
// absolute forms are cached per maximum. Not safe for concurrent use.
type byRuleValues struct {
	months  []int
	hours   []int
	minutes []int
	seconds []int
	days    []WeekDay

	monthDays []int
	yearDays  []int
	weekNos   []int
	setPos    []int

	monthDayCache map[int][]int
	yearDayCache  map[int][]int
	weekNoCache   map[int][]int
}

func newByRuleValues(p Pattern) *byRuleValues {
	return &byRuleValues{
		months:        sortedSet(p.ByMonth),
		hours:         sortedSet(p.ByHour),
		minutes:       sortedSet(p.ByMinute),
		seconds:       sortedSet(p.BySecond),
		days:          slices.Clone(p.ByDay),
		monthDays:     p.ByMonthDay,
		yearDays:      p.ByYearDay,
		weekNos:       p.ByWeekNo,
		setPos:        p.BySetPos,
		monthDayCache: make(map[int][]int),
		yearDayCache:  make(map[int][]int),
		weekNoCache:   make(map[int][]int),
	}
}

func sortedSet(values []int) []int {
	out := slices.Clone(values)
	slices.Sort(out)
	return slices.Compact(out)
}

// resolveOrdinals turns negative ordinals into positions counted from the
// start of a span of size units and caches the result per size. Values that
// name no position in the span are kept; building their date fails later.
func resolveOrdinals(cache map[int][]int, raw []int, size int) []int {
	if out, ok := cache[size]; ok {
		return out
	}
	out := make([]int, 0, len(raw))
	for _, v := range raw {
		if v < 0 {
			v = size + v + 1
		}
		out = append(out, v)
	}
	out = sortedSet(out)
	cache[size] = out
	return out
}

func (b *byRuleValues) monthDaysFor(year int, month time.Month) []int {
	return resolveOrdinals(b.monthDayCache, b.monthDays, calmath.DaysInMonth(year, month))
}

func (b *byRuleValues) yearDaysFor(year int) []int {
	return resolveOrdinals(b.yearDayCache, b.yearDays, calmath.DaysInYear(year))
}

func (b *byRuleValues) weekNosFor(year int, weekStart time.Weekday) []int {
	return resolveOrdinals(b.weekNoCache, b.weekNos, calmath.WeeksInYear(year, weekStart))
}

// setPositions resolves BYSETPOS against the size of one candidate set. The
// size differs per seed, so it is not cached.
func (b *byRuleValues) setPositions(size int) []int {
	out := make([]int, 0, len(b.setPos))
	for _, v := range b.setPos {
		if n, ok := calmath.NormalizeOrdinal(v, size); ok {
			out = append(out, n-1)
		}
	}
	return sortedSet(out)
}

func (b *byRuleValues) hasWeekday(d time.Weekday) bool {
	return slices.ContainsFunc(b.days, func(wd WeekDay) bool { return wd.Day == d })
}
