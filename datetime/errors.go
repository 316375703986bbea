package datetime

import "errors"

var (
	// ErrDateOnlyArithmetic is returned when a time-of-day quantity is applied
	// to a DATE value, or when DATE and DATE-TIME values are subtracted.
	ErrDateOnlyArithmetic = errors.New("datetime: time-of-day arithmetic on a date-only value")
	// ErrUnknownZone is returned when a TZID cannot be resolved.
	ErrUnknownZone = errors.New("datetime: unknown time zone")
	// ErrInvalidDuration is returned for malformed duration text.
	ErrInvalidDuration = errors.New("datetime: invalid duration")
	// ErrInvalidPeriod is returned when a period would end before it starts.
	ErrInvalidPeriod = errors.New("datetime: invalid period")
	// ErrInvalidValue is returned for malformed DATE / DATE-TIME text.
	ErrInvalidValue = errors.New("datetime: invalid date-time value")
)
