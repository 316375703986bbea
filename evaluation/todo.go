package evaluation

import (
	"slices"

	"github.com/samber/mo"

	"github.com/cyp0633/icalrecur/datetime"
)

const (
	StatusCompleted = "COMPLETED"
	StatusCancelled = "CANCELLED"
)

// Todo is a VTODO. Only to-dos with a DTSTART can recur.
type Todo struct {
	UID       string
	Start     datetime.DateTime
	Due       mo.Option[datetime.DateTime]
	Duration  mo.Option[datetime.Duration]
	Completed mo.Option[datetime.DateTime]
	Status    string
	Recurrence
}

func (t Todo) ReferenceDate() datetime.DateTime { return t.Start }
func (t Todo) Recurrences() Recurrence          { return t.Recurrence }

// EffectiveDuration is DURATION, or DUE - DTSTART, or zero. A negative
// length counts as zero.
func (t Todo) EffectiveDuration() datetime.Duration {
	if d, ok := t.Duration.Get(); ok {
		return nonNegative(d)
	}
	due, ok := t.Due.Get()
	if !ok || t.Start.IsZero() {
		return datetime.Duration{}
	}
	if d, err := due.Sub(t.Start); err == nil {
		return nonNegative(d)
	}
	return nonNegative(datetime.DurationFromNominal(due.SubExact(t.Start)))
}

func (t Todo) Evaluator(opts ...Option) Evaluator {
	return t.todoEvaluator(opts...)
}

func (t Todo) todoEvaluator(opts ...Option) *TodoEvaluator {
	return &TodoEvaluator{todo: t, recurring: NewRecurringEvaluator(t.Recurrence, opts...)}
}

// IsCompleted reports whether the to-do counts as done at the given moment.
// A completed recurring to-do is open again once one of its occurrences
// starts after the completion time.
func (t Todo) IsCompleted(at datetime.DateTime, opts ...Option) (bool, error) {
	if t.Status != StatusCompleted {
		return false, nil
	}
	completed, ok := t.Completed.Get()
	if !ok || completed.After(at) || !t.IsRecurring() {
		return true, nil
	}

	periods, err := t.EvaluateUntil(completed, at, opts...)
	if err != nil {
		return false, err
	}
	for _, p := range periods {
		if p.Start().After(completed) && !p.Start().After(at) {
			return false, nil
		}
	}
	return true, nil
}

// EvaluateUntil returns the occurrences from the one preceding completed up
// to the day of current.
func (t Todo) EvaluateUntil(completed, current datetime.DateTime, opts ...Option) ([]datetime.Period, error) {
	return t.todoEvaluator(opts...).EvaluateToPreviousOccurrence(completed, current)
}

// IsActive reports whether the to-do has started, is not cancelled and is
// not completed at the given moment.
func (t Todo) IsActive(at datetime.DateTime, opts ...Option) (bool, error) {
	if t.Status == StatusCancelled {
		return false, nil
	}
	if !t.Start.IsZero() && at.Before(t.Start) {
		return false, nil
	}
	completed, err := t.IsCompleted(at, opts...)
	if err != nil {
		return false, err
	}
	return !completed, nil
}

// TodoEvaluator evaluates to-dos, giving each occurrence the to-do's length.
type TodoEvaluator struct {
	todo      Todo
	recurring *RecurringEvaluator
}

func (e *TodoEvaluator) Evaluate(ref, periodStart, periodEnd datetime.DateTime, includeRef bool) ([]datetime.Period, error) {
	if ref.IsZero() {
		if e.todo.IsRecurring() {
			return nil, ErrNoStart
		}
		return nil, nil
	}
	dur := e.todo.EffectiveDuration()
	periods, err := e.recurring.Evaluate(ref, widen(periodStart, dur), periodEnd, includeRef)
	if err != nil {
		return nil, err
	}
	return withDuration(periods, dur), nil
}

// EvaluateToPreviousOccurrence evaluates from the occurrence boundary that
// precedes completed up to and including the day of current.
func (e *TodoEvaluator) EvaluateToPreviousOccurrence(completed, current datetime.DateTime) ([]datetime.Period, error) {
	start := e.todo.Start
	rec := e.todo.Recurrence

	beginning := completed
	for _, p := range slices.Concat(rec.Rules, rec.ExceptionRules) {
		if p.Count.IsPresent() {
			beginning = earliest(beginning, start)
			continue
		}
		beginning = earliest(beginning, p.Step(completed, -1))
	}
	if prev, ok := latestBefore(rec.RecurrenceDates.Starts(), completed).Get(); ok {
		beginning = earliest(beginning, prev)
	}
	if prev, ok := latestBefore(rec.ExceptionDates, completed).Get(); ok {
		beginning = earliest(beginning, prev)
	}

	return e.Evaluate(start, beginning, current.AddDays(1), true)
}

func earliest(a, b datetime.DateTime) datetime.DateTime {
	if b.Before(a) {
		return b
	}
	return a
}

func latestBefore(dates []datetime.DateTime, at datetime.DateTime) mo.Option[datetime.DateTime] {
	found := mo.None[datetime.DateTime]()
	for _, d := range dates {
		if !d.Before(at) {
			continue
		}
		if prev, ok := found.Get(); !ok || d.After(prev) {
			found = mo.Some(d)
		}
	}
	return found
}
