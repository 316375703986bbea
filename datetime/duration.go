package datetime

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Duration is an iCalendar DURATION split into a nominal part (weeks and
// days, applied to the clock reading) and an exact part (hours, minutes and
// seconds, applied to the instant). All non-zero fields share one sign.
type Duration struct {
	Weeks   int
	Days    int
	Hours   int
	Minutes int
	Seconds int
}

// DurationFromExact splits elapsed time into hours, minutes and seconds.
func DurationFromExact(d time.Duration) Duration {
	secs := int(d / time.Second)
	return durationFromParts(0, secs)
}

// DurationFromNominal splits elapsed time into whole days plus an exact remainder.
func DurationFromNominal(d time.Duration) Duration {
	secs := int(d / time.Second)
	days := secs / secondsPerDay
	return durationFromParts(days, secs-days*secondsPerDay)
}

func durationFromParts(days, secs int) Duration {
	return Duration{
		Days:    days,
		Hours:   secs / 3600,
		Minutes: secs % 3600 / 60,
		Seconds: secs % 60,
	}
}

func (d Duration) IsZero() bool { return d == Duration{} }

// HasTime reports whether the exact part is non-zero.
func (d Duration) HasTime() bool { return !d.Exact().IsZero() }

// HasDate reports whether the nominal part is non-zero.
func (d Duration) HasDate() bool { return d.Weeks != 0 || d.Days != 0 }

func (d Duration) IsNegative() bool {
	return d.Weeks < 0 || d.Days < 0 || d.Hours < 0 || d.Minutes < 0 || d.Seconds < 0
}

// Nominal returns only the weeks and days.
func (d Duration) Nominal() Duration { return Duration{Weeks: d.Weeks, Days: d.Days} }

// Exact returns only the hours, minutes and seconds.
func (d Duration) Exact() Duration {
	return Duration{Hours: d.Hours, Minutes: d.Minutes, Seconds: d.Seconds}
}

// ExactDuration converts the exact part to elapsed time.
func (d Duration) ExactDuration() time.Duration {
	return time.Duration(d.Hours)*time.Hour +
		time.Duration(d.Minutes)*time.Minute +
		time.Duration(d.Seconds)*time.Second
}

// TimeDuration converts the whole duration to elapsed time, counting a
// nominal day as 24 hours.
func (d Duration) TimeDuration() time.Duration {
	return time.Duration(d.Weeks*7+d.Days)*24*time.Hour + d.ExactDuration()
}

func (d Duration) Neg() Duration {
	return Duration{Weeks: -d.Weeks, Days: -d.Days, Hours: -d.Hours, Minutes: -d.Minutes, Seconds: -d.Seconds}
}

// String formats the duration in the RFC 5545 grammar, for example "P1W",
// "P2DT3H" or "-PT15M".
func (d Duration) String() string {
	if d.IsZero() {
		return "PT0S"
	}

	a := d
	var b strings.Builder
	if d.IsNegative() {
		a = d.Neg()
		b.WriteByte('-')
	}
	b.WriteByte('P')

	if a.Weeks != 0 && a.Days == 0 && !a.HasTime() {
		b.WriteString(strconv.Itoa(a.Weeks))
		b.WriteByte('W')
		return b.String()
	}
	if days := a.Weeks*7 + a.Days; days != 0 {
		b.WriteString(strconv.Itoa(days))
		b.WriteByte('D')
	}
	if a.HasTime() {
		b.WriteByte('T')
		for _, part := range []struct {
			n    int
			unit byte
		}{{a.Hours, 'H'}, {a.Minutes, 'M'}, {a.Seconds, 'S'}} {
			if part.n != 0 {
				b.WriteString(strconv.Itoa(part.n))
				b.WriteByte(part.unit)
			}
		}
	}
	return b.String()
}

// ParseDuration reads the RFC 5545 duration grammar:
//
//	dur-value = (["+"] / "-") "P" (dur-date / dur-time / dur-week)
//
// A week count may be combined with days, which some producers emit.
func ParseDuration(s string) (Duration, error) {
	text := strings.TrimSpace(strings.ToUpper(s))
	negative := false
	switch {
	case strings.HasPrefix(text, "-"):
		negative = true
		text = text[1:]
	case strings.HasPrefix(text, "+"):
		text = text[1:]
	}
	if !strings.HasPrefix(text, "P") || len(text) < 3 {
		return Duration{}, fmt.Errorf("%w: %q", ErrInvalidDuration, s)
	}
	text = text[1:]

	var d Duration
	var num strings.Builder
	inTime := false
	seen, timeSeen := 0, 0
	for _, ch := range text {
		switch {
		case ch >= '0' && ch <= '9':
			num.WriteRune(ch)
			continue
		case ch == 'T':
			if inTime || num.Len() > 0 {
				return Duration{}, fmt.Errorf("%w: %q", ErrInvalidDuration, s)
			}
			inTime = true
			continue
		}

		if num.Len() == 0 {
			return Duration{}, fmt.Errorf("%w: %q: missing number before %q", ErrInvalidDuration, s, ch)
		}
		n, err := strconv.Atoi(num.String())
		if err != nil {
			return Duration{}, fmt.Errorf("%w: %q: %v", ErrInvalidDuration, s, err)
		}
		num.Reset()

		switch {
		case ch == 'W' && !inTime:
			d.Weeks = n
		case ch == 'D' && !inTime:
			d.Days = n
		case ch == 'H' && inTime:
			d.Hours = n
		case ch == 'M' && inTime:
			d.Minutes = n
		case ch == 'S' && inTime:
			d.Seconds = n
		default:
			return Duration{}, fmt.Errorf("%w: %q: unexpected %q", ErrInvalidDuration, s, ch)
		}
		seen++
		if inTime {
			timeSeen++
		}
	}
	if num.Len() > 0 || seen == 0 || (inTime && timeSeen == 0) {
		return Duration{}, fmt.Errorf("%w: %q", ErrInvalidDuration, s)
	}

	if negative {
		d = d.Neg()
	}
	return d, nil
}
