package calendar

import (
	"fmt"
	"io"
	"strings"

	"github.com/emersion/go-ical"
)

// Parse decodes a single VCALENDAR object.
func Parse(r io.Reader) (*ical.Calendar, error) {
	cal, err := ical.NewDecoder(r).Decode()
	if err != nil {
		return nil, fmt.Errorf("failed to decode calendar: %w", err)
	}
	return cal, nil
}

// ParseString is Parse over an in-memory document.
func ParseString(ics string) (*ical.Calendar, error) {
	return Parse(strings.NewReader(ics))
}

// Timezone returns the VTIMEZONE of cal with the given TZID, or nil.
func Timezone(cal *ical.Calendar, tzID string) *ical.Component {
	for _, child := range cal.Children {
		if child.Name != ical.CompTimezone {
			continue
		}
		if prop := child.Props.Get(ical.PropTimezoneID); prop != nil && prop.Value == tzID {
			return child
		}
	}
	return nil
}
