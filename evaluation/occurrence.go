package evaluation

import (
	"slices"

	"github.com/cyp0633/icalrecur/datetime"
)

// Occurrence is one period of a recurring component.
type Occurrence struct {
	Period datetime.Period
	Source Recurring
}

func (o Occurrence) Compare(other Occurrence) int {
	return o.Period.Compare(other.Period)
}

// Occurrences returns the occurrences of r that overlap [start, end), sorted
// by start. When start equals end the occurrences in effect at that moment
// are returned. Zero bounds leave the window open.
func Occurrences(r Recurring, start, end datetime.DateTime, opts ...Option) ([]Occurrence, error) {
	periods, err := r.Evaluator(opts...).Evaluate(r.ReferenceDate(), start, end, true)
	if err != nil {
		return nil, err
	}

	out := make([]Occurrence, 0, len(periods))
	for _, p := range periods {
		if overlaps(p, start, end) {
			out = append(out, Occurrence{Period: p, Source: r})
		}
	}
	slices.SortStableFunc(out, Occurrence.Compare)
	return out, nil
}

func overlaps(p datetime.Period, start, end datetime.DateTime) bool {
	pStart := p.Start()
	pEnd := p.End().OrElse(pStart)
	if !start.IsZero() && !end.IsZero() && start.Compare(end) == 0 {
		return p.Contains(start) || pStart.Compare(start) == 0
	}
	if !end.IsZero() && !pStart.Before(end) {
		return false
	}
	if start.IsZero() {
		return true
	}
	if pStart.Compare(pEnd) == 0 {
		return !pStart.Before(start)
	}
	return pEnd.After(start)
}
