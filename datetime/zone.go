package datetime

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

const secondsPerDay = 24 * 60 * 60

var zones sync.Map // map[string]*time.Location

// LoadZone resolves a TZID against the IANA database. An empty id yields a
// nil location, which stands for floating time. Loaded locations are cached
// for the life of the process.
func LoadZone(tzID string) (*time.Location, error) {
	tzID = strings.TrimPrefix(strings.TrimSpace(tzID), "/")
	switch tzID {
	case "":
		return nil, nil
	case "UTC", "Z", "Etc/UTC", "GMT":
		return time.UTC, nil
	}

	if loc, ok := zones.Load(tzID); ok {
		return loc.(*time.Location), nil
	}
	loc, err := time.LoadLocation(tzID)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrUnknownZone, tzID, err)
	}
	actual, _ := zones.LoadOrStore(tzID, loc)
	return actual.(*time.Location), nil
}

// resolve maps a wall-clock reading to an instant in loc. Readings that fall
// into a spring-forward gap are interpreted with the offset in effect before
// the gap (so 02:30 becomes 03:30 after a one hour jump). Readings that occur
// twice resolve to the earlier instant.
func resolve(wall time.Time, loc *time.Location) time.Time {
	if loc == nil || loc == time.UTC {
		return wall
	}

	u := wall.Unix()
	before := offsetAt(u-secondsPerDay, loc)
	after := offsetAt(u+secondsPerDay, loc)

	candBefore := u - int64(before)
	candAfter := u - int64(after)
	okBefore := offsetAt(candBefore, loc) == before
	okAfter := offsetAt(candAfter, loc) == after

	chosen := candBefore
	switch {
	case okBefore && okAfter:
		chosen = min(candBefore, candAfter)
	case okAfter:
		chosen = candAfter
	}
	return time.Unix(chosen, int64(wall.Nanosecond())).In(loc)
}

func offsetAt(unix int64, loc *time.Location) int {
	_, off := time.Unix(unix, 0).In(loc).Zone()
	return off
}

// wallOf strips the location from t, keeping its clock reading.
func wallOf(t time.Time) time.Time {
	y, m, d := t.Date()
	hh, mm, ss := t.Clock()
	return time.Date(y, m, d, hh, mm, ss, t.Nanosecond(), time.UTC)
}

func sameZone(a, b *time.Location) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return a.String() == b.String()
}
