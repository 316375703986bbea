// Package datetime implements the iCalendar date and time value types: DATE
// and DATE-TIME values that are floating, UTC or bound to an IANA zone,
// nominal/exact durations and periods of time.
//
// All values are immutable. Zone resolution is lenient: wall-clock readings
// that do not exist or occur twice because of a DST transition resolve to a
// deterministic instant instead of failing.
package datetime

import (
	"fmt"
	"time"

	"github.com/cyp0633/icalrecur/internal/calmath"
)

// DateTime is an iCalendar DATE or DATE-TIME value.
//
// The wall-clock reading is stored separately from the zone so that floating
// values keep their clock reading wherever they are evaluated. A nil location
// means floating time; time.UTC means UTC.
type DateTime struct {
	wall    time.Time // clock reading carried in time.UTC
	hasTime bool
	loc     *time.Location
}

// NewDate returns a floating DATE value.
func NewDate(year int, month time.Month, day int) DateTime {
	return DateTime{wall: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// New returns a DATE-TIME value in loc. A nil loc yields a floating value. A
// reading that falls into a DST gap is moved forward past the gap.
func New(year int, month time.Month, day, hour, min, sec int, loc *time.Location) DateTime {
	return FromWall(time.Date(year, month, day, hour, min, sec, 0, time.UTC), true, loc)
}

// NewFloating returns a floating DATE-TIME value.
func NewFloating(year int, month time.Month, day, hour, min, sec int) DateTime {
	return New(year, month, day, hour, min, sec, nil)
}

// NewUTC returns a UTC DATE-TIME value.
func NewUTC(year int, month time.Month, day, hour, min, sec int) DateTime {
	return New(year, month, day, hour, min, sec, time.UTC)
}

// FromTime returns a DATE-TIME value holding the clock reading and location of t.
func FromTime(t time.Time) DateTime {
	return DateTime{wall: wallOf(t), hasTime: true, loc: t.Location()}
}

// FromWall builds a value from a clock reading, ignoring wall's own location.
// Zoned readings are normalized through lenient resolution.
func FromWall(wall time.Time, hasTime bool, loc *time.Location) DateTime {
	w := wallOf(wall)
	if !hasTime {
		return DateTime{wall: calmath.Midnight(w), loc: loc}
	}
	if loc != nil && loc != time.UTC {
		w = wallOf(resolve(w, loc))
	}
	return DateTime{wall: w, hasTime: true, loc: loc}
}

func (d DateTime) IsZero() bool             { return d.wall.IsZero() }
func (d DateTime) HasTime() bool            { return d.hasTime }
func (d DateTime) Location() *time.Location { return d.loc }
func (d DateTime) IsFloating() bool         { return d.loc == nil }
func (d DateTime) IsUTC() bool              { return d.loc == time.UTC }

// TzID returns the zone identifier, or "" for floating values.
func (d DateTime) TzID() string {
	if d.loc == nil {
		return ""
	}
	return d.loc.String()
}

// Wall returns the clock reading carried in time.UTC.
func (d DateTime) Wall() time.Time { return d.wall }

func (d DateTime) Year() int             { return d.wall.Year() }
func (d DateTime) Month() time.Month     { return d.wall.Month() }
func (d DateTime) Day() int              { return d.wall.Day() }
func (d DateTime) Hour() int             { return d.wall.Hour() }
func (d DateTime) Minute() int           { return d.wall.Minute() }
func (d DateTime) Second() int           { return d.wall.Second() }
func (d DateTime) Weekday() time.Weekday { return d.wall.Weekday() }
func (d DateTime) YearDay() int          { return d.wall.YearDay() }

// Date drops the time of day.
func (d DateTime) Date() DateTime {
	return DateTime{wall: calmath.Midnight(d.wall), loc: d.loc}
}

// WithHasTime switches between DATE and DATE-TIME. Switching to a DATE drops
// the time of day; switching to a DATE-TIME yields midnight.
func (d DateTime) WithHasTime(hasTime bool) DateTime {
	return FromWall(d.wall, hasTime, d.loc)
}

// Time resolves the value to an instant. Floating values are reported as
// their clock reading in UTC.
func (d DateTime) Time() time.Time {
	if d.loc == nil {
		return d.wall
	}
	return resolve(d.wall, d.loc)
}

// In converts the value to loc. Zoned and UTC values convert through their
// instant; floating values keep their clock reading and are reinterpreted in
// loc. A nil loc produces a floating value with the same clock reading. DATE
// values only change their zone tag.
func (d DateTime) In(loc *time.Location) DateTime {
	switch {
	case sameZone(d.loc, loc):
		return DateTime{wall: d.wall, hasTime: d.hasTime, loc: loc}
	case !d.hasTime, d.loc == nil, loc == nil:
		return FromWall(d.wall, d.hasTime, loc)
	default:
		return DateTime{wall: wallOf(resolve(d.wall, d.loc).In(loc)), hasTime: true, loc: loc}
	}
}

// ToTimeZone converts the value to the zone named by tzID; "" means floating.
func (d DateTime) ToTimeZone(tzID string) (DateTime, error) {
	loc, err := LoadZone(tzID)
	if err != nil {
		return DateTime{}, err
	}
	return d.In(loc), nil
}

// AsUTC is shorthand for In(time.UTC).
func (d DateTime) AsUTC() DateTime { return d.In(time.UTC) }

// Add applies a duration. The nominal part (weeks and days) moves the clock
// reading so the time of day survives DST transitions; the exact part (hours,
// minutes and seconds) is added to the instant and converted back.
func (d DateTime) Add(dur Duration) (DateTime, error) {
	if !d.hasTime && dur.HasTime() {
		return DateTime{}, fmt.Errorf("%w: %s + %s", ErrDateOnlyArithmetic, d, dur)
	}

	r := d
	if days := dur.Weeks*7 + dur.Days; days != 0 {
		r = FromWall(d.wall.AddDate(0, 0, days), d.hasTime, d.loc)
	}
	if exact := dur.ExactDuration(); exact != 0 {
		r = r.AddExact(exact)
	}
	return r, nil
}

// AddDays moves the clock reading by n calendar days.
func (d DateTime) AddDays(n int) DateTime {
	return FromWall(d.wall.AddDate(0, 0, n), d.hasTime, d.loc)
}

// AddExact adds elapsed time. A DATE value becomes a DATE-TIME.
func (d DateTime) AddExact(delta time.Duration) DateTime {
	if d.loc == nil || d.loc == time.UTC {
		return DateTime{wall: d.wall.Add(delta), hasTime: true, loc: d.loc}
	}
	return DateTime{wall: wallOf(resolve(d.wall, d.loc).Add(delta).In(d.loc)), hasTime: true, loc: d.loc}
}

// Sub returns the nominal duration d - o: whole calendar days between the two
// dates plus the difference of their clock readings. Values in different
// zones are compared in d's zone. Mixing DATE and DATE-TIME is an error.
func (d DateTime) Sub(o DateTime) (Duration, error) {
	if d.hasTime != o.hasTime {
		return Duration{}, fmt.Errorf("%w: %s - %s", ErrDateOnlyArithmetic, d, o)
	}
	if d.loc != nil && o.loc != nil && !sameZone(d.loc, o.loc) {
		o = o.In(d.loc)
	}

	days := calmath.DaysBetween(o.wall, d.wall)
	secs := secondsOfDay(d.wall) - secondsOfDay(o.wall)
	switch {
	case days > 0 && secs < 0:
		days--
		secs += secondsPerDay
	case days < 0 && secs > 0:
		days++
		secs -= secondsPerDay
	}
	return durationFromParts(days, secs), nil
}

// SubExact returns the elapsed time d - o. A floating operand is read in the
// zone of the other operand.
func (d DateTime) SubExact(o DateTime) time.Duration {
	switch {
	case d.loc == nil && o.loc != nil:
		d = d.In(o.loc)
	case o.loc == nil && d.loc != nil:
		o = o.In(d.loc)
	}
	return d.Time().Sub(o.Time())
}

// Compare returns -1, 0 or +1. Clock readings are compared when either value
// is floating or both share a zone; otherwise instants are compared.
func (d DateTime) Compare(o DateTime) int {
	if d.loc == nil || o.loc == nil || sameZone(d.loc, o.loc) {
		return d.wall.Compare(o.wall)
	}
	return d.Time().Compare(o.Time())
}

func (d DateTime) Before(o DateTime) bool { return d.Compare(o) < 0 }
func (d DateTime) After(o DateTime) bool  { return d.Compare(o) > 0 }

// Equal reports whether both values denote the same moment and kind.
func (d DateTime) Equal(o DateTime) bool {
	return d.hasTime == o.hasTime && d.Compare(o) == 0
}

// SameDate reports whether both values fall on the same calendar date, each
// read in its own zone.
func (d DateTime) SameDate(o DateTime) bool {
	dy, dm, dd := d.wall.Date()
	oy, om, od := o.wall.Date()
	return dy == oy && dm == om && dd == od
}

// String formats the value the way iCalendar writes it, prefixed with the
// TZID for zoned values.
func (d DateTime) String() string {
	if !d.hasTime {
		return d.wall.Format(dateLayout)
	}
	switch d.loc {
	case nil:
		return d.wall.Format(floatingLayout)
	case time.UTC:
		return d.wall.Format(utcLayout)
	default:
		return "TZID=" + d.loc.String() + ":" + d.wall.Format(floatingLayout)
	}
}

func secondsOfDay(t time.Time) int {
	h, m, s := t.Clock()
	return h*3600 + m*60 + s
}
