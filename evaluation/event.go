package evaluation

import (
	"github.com/samber/mo"

	"github.com/cyp0633/icalrecur/datetime"
)

// Recurring is a component whose occurrences can be evaluated.
type Recurring interface {
	// ReferenceDate returns DTSTART, or a zero value when the component has none.
	ReferenceDate() datetime.DateTime
	Recurrences() Recurrence
	Evaluator(opts ...Option) Evaluator
}

// Event is a VEVENT.
type Event struct {
	UID      string
	Start    datetime.DateTime
	End      mo.Option[datetime.DateTime]
	Duration mo.Option[datetime.Duration]
	Recurrence
}

func (e Event) ReferenceDate() datetime.DateTime { return e.Start }
func (e Event) Recurrences() Recurrence          { return e.Recurrence }

// IsAllDay reports whether the event starts on a DATE.
func (e Event) IsAllDay() bool { return !e.Start.IsZero() && !e.Start.HasTime() }

// EffectiveDuration is DURATION, or DTEND - DTSTART, or one day for an
// all-day event without either, or zero. A negative length counts as zero.
func (e Event) EffectiveDuration() datetime.Duration {
	if d, ok := e.Duration.Get(); ok {
		return nonNegative(d)
	}
	if end, ok := e.End.Get(); ok {
		if d, err := end.Sub(e.Start); err == nil {
			return nonNegative(d)
		}
		return nonNegative(datetime.DurationFromNominal(end.SubExact(e.Start)))
	}
	if e.IsAllDay() {
		return datetime.Duration{Days: 1}
	}
	return datetime.Duration{}
}

// EffectiveEnd returns DTEND, or DTSTART plus the effective duration.
func (e Event) EffectiveEnd() datetime.DateTime {
	if end, ok := e.End.Get(); ok {
		return end
	}
	return addDuration(e.Start, e.EffectiveDuration())
}

func (e Event) Evaluator(opts ...Option) Evaluator {
	return &EventEvaluator{event: e, recurring: NewRecurringEvaluator(e.Recurrence, opts...)}
}

// EventEvaluator gives every occurrence of an event the event's duration.
type EventEvaluator struct {
	event     Event
	recurring *RecurringEvaluator
}

// Evaluate also returns occurrences that start before periodStart but are
// long enough to still be in progress at it.
func (e *EventEvaluator) Evaluate(ref, periodStart, periodEnd datetime.DateTime, includeRef bool) ([]datetime.Period, error) {
	dur := e.event.EffectiveDuration()
	periods, err := e.recurring.Evaluate(ref, widen(periodStart, dur), periodEnd, includeRef)
	if err != nil {
		return nil, err
	}
	return withDuration(periods, dur), nil
}

// widen moves a window start back by dur plus a day.
func widen(periodStart datetime.DateTime, dur datetime.Duration) datetime.DateTime {
	if periodStart.IsZero() {
		return periodStart
	}
	days := max(int(dur.TimeDuration().Hours()/24)+1, 1)
	return periodStart.AddDays(-days)
}

func nonNegative(d datetime.Duration) datetime.Duration {
	if d.IsNegative() {
		return datetime.Duration{}
	}
	return d
}

// withDuration fills the end of periods that have none. The nominal part of
// dur moves the clock reading, so occurrences keep their wall-clock length
// across DST transitions.
func withDuration(periods []datetime.Period, dur datetime.Duration) []datetime.Period {
	if dur.IsZero() {
		return periods
	}
	out := make([]datetime.Period, len(periods))
	for i, p := range periods {
		if p.HasEnd() {
			out[i] = p
			continue
		}
		start := p.Start()
		if !start.HasTime() && dur.HasTime() {
			start = start.WithHasTime(true)
		}
		filled, err := datetime.NewPeriodWithDuration(start, dur)
		if err != nil {
			out[i] = p
			continue
		}
		out[i] = filled
	}
	return out
}

func addDuration(dt datetime.DateTime, dur datetime.Duration) datetime.DateTime {
	if !dt.HasTime() && dur.HasTime() {
		dt = dt.WithHasTime(true)
	}
	out, err := dt.Add(dur)
	if err != nil {
		return dt
	}
	return out
}
