package datetime

import (
	"fmt"
	"slices"

	"github.com/samber/mo"
)

// Period is a span of time: a start plus either an explicit end or a
// duration. A period with neither denotes a single moment (or a single day
// when the start is a DATE).
type Period struct {
	start    DateTime
	end      mo.Option[DateTime]
	duration mo.Option[Duration]
}

// NewPeriod returns a period that only carries a start.
func NewPeriod(start DateTime) Period {
	return Period{start: start}
}

// NewPeriodWithEnd returns a period with an explicit end, which must not
// precede start.
func NewPeriodWithEnd(start, end DateTime) (Period, error) {
	if end.Before(start) {
		return Period{}, fmt.Errorf("%w: end %s before start %s", ErrInvalidPeriod, end, start)
	}
	return Period{start: start, end: mo.Some(end)}, nil
}

// NewPeriodWithDuration returns a period spanning dur from start.
func NewPeriodWithDuration(start DateTime, dur Duration) (Period, error) {
	if dur.IsNegative() {
		return Period{}, fmt.Errorf("%w: negative duration %s", ErrInvalidPeriod, dur)
	}
	if !start.HasTime() && dur.HasTime() {
		return Period{}, fmt.Errorf("%w: %s + %s", ErrDateOnlyArithmetic, start, dur)
	}
	return Period{start: start, duration: mo.Some(dur)}, nil
}

func (p Period) Start() DateTime { return p.start }

// HasEnd reports whether the period has an explicit end or a duration.
func (p Period) HasEnd() bool { return p.end.IsPresent() || p.duration.IsPresent() }

// End returns the explicit end, or start plus duration.
func (p Period) End() mo.Option[DateTime] {
	if p.end.IsPresent() {
		return p.end
	}
	if dur, ok := p.duration.Get(); ok {
		end, err := p.start.Add(dur)
		if err != nil {
			return mo.None[DateTime]()
		}
		return mo.Some(end)
	}
	return mo.None[DateTime]()
}

// Duration returns the explicit duration, or the nominal span between start
// and end.
func (p Period) Duration() mo.Option[Duration] {
	if p.duration.IsPresent() {
		return p.duration
	}
	if end, ok := p.end.Get(); ok {
		d, err := end.Sub(p.start)
		if err != nil {
			return mo.Some(DurationFromNominal(end.SubExact(p.start)))
		}
		return mo.Some(d)
	}
	return mo.None[Duration]()
}

// WithDuration returns a copy whose length is dur, unless the period already
// has an end.
func (p Period) WithDuration(dur Duration) Period {
	if p.HasEnd() {
		return p
	}
	return Period{start: p.start, duration: mo.Some(dur)}
}

// MatchesDateOnly reports whether the period excludes whole days when used as
// an exception: true when its start is a DATE.
func (p Period) MatchesDateOnly() bool { return !p.start.HasTime() }

// Contains reports whether dt lies within [start, end). A period without an
// end contains only its start.
func (p Period) Contains(dt DateTime) bool {
	if dt.Before(p.start) {
		return false
	}
	end, ok := p.End().Get()
	if !ok {
		return dt.Compare(p.start) == 0
	}
	return dt.Before(end)
}

// CollidesWith reports whether the two periods overlap.
func (p Period) CollidesWith(o Period) bool {
	pEnd := p.End().OrElse(p.start)
	oEnd := o.End().OrElse(o.start)
	if p.start.Compare(pEnd) == 0 {
		return o.Contains(p.start) || p.start.Compare(o.start) == 0
	}
	if o.start.Compare(oEnd) == 0 {
		return p.Contains(o.start)
	}
	return p.start.Before(oEnd) && o.start.Before(pEnd)
}

// Compare orders periods by start, then by end.
func (p Period) Compare(o Period) int {
	if c := p.start.Compare(o.start); c != 0 {
		return c
	}
	pEnd, pOK := p.End().Get()
	oEnd, oOK := o.End().Get()
	switch {
	case !pOK && !oOK:
		return 0
	case !pOK:
		return -1
	case !oOK:
		return 1
	default:
		return pEnd.Compare(oEnd)
	}
}

// Equal reports whether both periods have equal starts and ends.
func (p Period) Equal(o Period) bool {
	if !p.start.Equal(o.start) {
		return false
	}
	pEnd, pOK := p.End().Get()
	oEnd, oOK := o.End().Get()
	if pOK != oOK {
		return false
	}
	return !pOK || pEnd.Equal(oEnd)
}

func (p Period) String() string {
	if dur, ok := p.duration.Get(); ok {
		return p.start.String() + "/" + dur.String()
	}
	if end, ok := p.end.Get(); ok {
		return p.start.String() + "/" + end.String()
	}
	return p.start.String()
}

// PeriodList is an ordered set of periods, as carried by RDATE and EXDATE.
type PeriodList []Period

// SortPeriods orders periods and drops duplicates. The input is not modified.
func SortPeriods(periods []Period) PeriodList {
	out := slices.Clone(periods)
	slices.SortStableFunc(out, Period.Compare)
	return slices.CompactFunc(out, Period.Equal)
}

// Add inserts p keeping the list ordered and free of duplicates.
func (l PeriodList) Add(p Period) PeriodList {
	i, _ := slices.BinarySearchFunc(l, p, Period.Compare)
	for j := i; j < len(l) && l[j].Compare(p) == 0; j++ {
		if l[j].Equal(p) {
			return l
		}
	}
	return slices.Insert(l, i, p)
}

// Starts returns the start of every period.
func (l PeriodList) Starts() []DateTime {
	out := make([]DateTime, len(l))
	for i, p := range l {
		out[i] = p.start
	}
	return out
}
