// Package calmath holds Gregorian calendar arithmetic shared by the date-time
// and recurrence packages. All functions operate on wall-clock readings carried
// in time.UTC, so day arithmetic never crosses a DST transition.
package calmath

import (
	"time"
)

// MaxYear is the last year an iCalendar DATE value can express.
const MaxYear = 9999

// IsLeapYear reports whether year has 366 days.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInYear returns 365 or 366.
func DaysInYear(year int) int {
	if IsLeapYear(year) {
		return 366
	}
	return 365
}

// DaysInMonth returns the number of days in the given month of year.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Midnight truncates t to the start of its day, keeping the location.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DaysBetween returns the number of calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	da := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	db := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}

// StartOfWeek walks t back to the most recent weekStart, keeping the clock.
func StartOfWeek(t time.Time, weekStart time.Weekday) time.Time {
	diff := (int(t.Weekday()) - int(weekStart) + 7) % 7
	return t.AddDate(0, 0, -diff)
}

// firstWeekStart returns the first day of week 1 of year. Week 1 is the first
// week holding at least four days of the year, which is the week containing
// January 4th for any week start.
func firstWeekStart(year int, weekStart time.Weekday) time.Time {
	return StartOfWeek(time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC), weekStart)
}

// WeekOfYear returns the ISO-8601 style week-year and week number of t for
// the given week start.
func WeekOfYear(t time.Time, weekStart time.Weekday) (year, week int) {
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	year = y
	if next := firstWeekStart(year+1, weekStart); !day.Before(next) {
		return year + 1, 1
	}
	start := firstWeekStart(year, weekStart)
	if day.Before(start) {
		year--
		start = firstWeekStart(year, weekStart)
	}
	return year, DaysBetween(start, day)/7 + 1
}

// WeeksInYear returns 52 or 53.
func WeeksInYear(year int, weekStart time.Weekday) int {
	return DaysBetween(firstWeekStart(year, weekStart), firstWeekStart(year+1, weekStart)) / 7
}

// WeekStartDate returns the first day of the given week of week-year year.
func WeekStartDate(year, week int, weekStart time.Weekday) time.Time {
	return firstWeekStart(year, weekStart).AddDate(0, 0, (week-1)*7)
}

// NormalizeOrdinal resolves a 1-based signed ordinal against max: positive
// values count from the start, negative values from the end. Zero and values
// beyond max are rejected.
func NormalizeOrdinal(v, max int) (int, bool) {
	switch {
	case v > 0 && v <= max:
		return v, true
	case v < 0 && -v <= max:
		return max + v + 1, true
	default:
		return 0, false
	}
}

// SelectOffset returns the n-th item (1-based; negative counts from the end).
// An offset of zero selects nothing.
func SelectOffset[T any](items []T, n int) (T, bool) {
	var zero T
	idx, ok := NormalizeOrdinal(n, len(items))
	if !ok {
		return zero, false
	}
	return items[idx-1], true
}
