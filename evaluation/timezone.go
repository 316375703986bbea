package evaluation

import (
	"time"

	"github.com/samber/mo"

	"github.com/cyp0633/icalrecur/datetime"
)

// Observance kinds of a VTIMEZONE sub-component.
const (
	ObservanceStandard = "STANDARD"
	ObservanceDaylight = "DAYLIGHT"
)

// TimeZoneInfo is a STANDARD or DAYLIGHT observance of a VTIMEZONE. Start is
// the local onset, read with OffsetFrom in effect.
type TimeZoneInfo struct {
	Name       string
	TzID       string
	Start      datetime.DateTime
	OffsetFrom time.Duration
	OffsetTo   time.Duration
	TzNames    []string
	Recurrence
}

func (z TimeZoneInfo) ReferenceDate() datetime.DateTime { return z.Start }
func (z TimeZoneInfo) Recurrences() Recurrence          { return z.Recurrence }

func (z TimeZoneInfo) Evaluator(opts ...Option) Evaluator {
	return &TimeZoneInfoEvaluator{recurring: NewRecurringEvaluator(z.Recurrence, opts...)}
}

// Onset converts a local onset of this observance to an instant.
func (z TimeZoneInfo) Onset(local datetime.DateTime) time.Time {
	w := local.Wall()
	return time.Date(w.Year(), w.Month(), w.Day(), w.Hour(), w.Minute(), w.Second(), 0, time.UTC).Add(-z.OffsetFrom)
}

// TimeZoneInfoEvaluator always counts the observance's DTSTART as its first
// onset, whether or not the rules produce it.
type TimeZoneInfoEvaluator struct {
	recurring *RecurringEvaluator
}

func (e *TimeZoneInfoEvaluator) Evaluate(ref, periodStart, periodEnd datetime.DateTime, _ bool) ([]datetime.Period, error) {
	return e.recurring.Evaluate(ref, periodStart, periodEnd, true)
}

// MatchObservance returns the observance whose latest onset at or before at
// is the most recent one.
func MatchObservance(observances []TimeZoneInfo, at time.Time, opts ...Option) (mo.Option[TimeZoneInfo], error) {
	u := at.UTC().Add(36 * time.Hour)
	end := datetime.NewFloating(u.Year(), u.Month(), u.Day(), u.Hour(), u.Minute(), u.Second())

	best := mo.None[TimeZoneInfo]()
	var bestOnset time.Time
	for _, obs := range observances {
		if obs.Start.IsZero() {
			continue
		}
		periods, err := obs.Evaluator(opts...).Evaluate(obs.Start, datetime.DateTime{}, end, true)
		if err != nil {
			return mo.None[TimeZoneInfo](), err
		}
		for _, p := range periods {
			onset := obs.Onset(p.Start())
			if onset.After(at) {
				continue
			}
			if !best.IsPresent() || onset.After(bestOnset) {
				best, bestOnset = mo.Some(obs), onset
			}
		}
	}
	return best, nil
}
