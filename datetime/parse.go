package datetime

import (
	"fmt"
	"strings"
	"time"
)

const (
	dateLayout     = "20060102"
	floatingLayout = "20060102T150405"
	utcLayout      = "20060102T150405Z"
)

// Parse reads an iCalendar DATE or DATE-TIME value. A trailing "Z" yields a
// UTC value; otherwise the value is placed in loc (nil for floating).
func Parse(value string, loc *time.Location) (DateTime, error) {
	value = strings.TrimSpace(value)
	switch {
	case len(value) == len(dateLayout):
		t, err := time.Parse(dateLayout, value)
		if err != nil {
			return DateTime{}, fmt.Errorf("%w: %q", ErrInvalidValue, value)
		}
		return FromWall(t, false, loc), nil
	case strings.HasSuffix(value, "Z"):
		t, err := time.Parse(utcLayout, value)
		if err != nil {
			return DateTime{}, fmt.Errorf("%w: %q", ErrInvalidValue, value)
		}
		return FromWall(t, true, time.UTC), nil
	default:
		t, err := time.Parse(floatingLayout, value)
		if err != nil {
			return DateTime{}, fmt.Errorf("%w: %q", ErrInvalidValue, value)
		}
		return FromWall(t, true, loc), nil
	}
}

// ParseInZone is Parse with the zone given by TZID.
func ParseInZone(value, tzID string) (DateTime, error) {
	loc, err := LoadZone(tzID)
	if err != nil {
		return DateTime{}, err
	}
	return Parse(value, loc)
}

// ParsePeriod reads an iCalendar PERIOD value, either "start/end" or
// "start/duration".
func ParsePeriod(value string, loc *time.Location) (Period, error) {
	startText, endText, ok := strings.Cut(strings.TrimSpace(value), "/")
	if !ok {
		return Period{}, fmt.Errorf("%w: %q is not a period", ErrInvalidPeriod, value)
	}
	start, err := Parse(startText, loc)
	if err != nil {
		return Period{}, err
	}
	if strings.HasPrefix(endText, "P") || strings.HasPrefix(endText, "+P") || strings.HasPrefix(endText, "-P") {
		dur, err := ParseDuration(endText)
		if err != nil {
			return Period{}, err
		}
		return NewPeriodWithDuration(start, dur)
	}
	end, err := Parse(endText, loc)
	if err != nil {
		return Period{}, err
	}
	return NewPeriodWithEnd(start, end)
}
