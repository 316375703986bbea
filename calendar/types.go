// Package calendar expands the recurring components of iCalendar data
// decoded with go-ical.
package calendar

import (
	"errors"

	"github.com/samber/mo"

	"github.com/cyp0633/icalrecur/datetime"
)

var (
	// ErrUnsupportedComponent is returned for components that cannot recur.
	ErrUnsupportedComponent = errors.New("calendar: unsupported component")
	// ErrInvalidValue is returned for properties whose value cannot be read.
	ErrInvalidValue = errors.New("calendar: invalid property value")
)

// Instance is a single occurrence of a calendar component
type Instance struct {
	UID          string
	Component    string                       // VEVENT, VTODO or VJOURNAL
	Start        datetime.DateTime            // Start of this occurrence
	End          mo.Option[datetime.DateTime] // End, when the component has a length
	IsOverride   bool                         // True if a RECURRENCE-ID component replaced the generated occurrence
	RecurrenceID mo.Option[datetime.DateTime] // The generated start this instance stands for
}

// Overlaps reports whether the instance intersects [start, end).
func (i Instance) Overlaps(start, end datetime.DateTime) bool {
	if !end.IsZero() && !i.Start.Before(end) {
		return false
	}
	if start.IsZero() {
		return true
	}
	stop := i.End.OrElse(i.Start)
	if stop.Compare(i.Start) == 0 {
		return !i.Start.Before(start)
	}
	return stop.After(start)
}
