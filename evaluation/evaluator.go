// Package evaluation combines recurrence rules and date lists into the
// occurrences of calendar components.
package evaluation

import (
	"errors"
	"io"
	"log/slog"
	"slices"

	"github.com/cyp0633/icalrecur/datetime"
	"github.com/cyp0633/icalrecur/recurrence"
)

// ErrNoStart is returned when a component with recurrence properties has no
// DTSTART to anchor them.
var ErrNoStart = errors.New("evaluation: recurring component has no start")

// Evaluator expands something recurring into periods. A zero periodStart or
// periodEnd leaves that side of the window open.
type Evaluator interface {
	Evaluate(ref, periodStart, periodEnd datetime.DateTime, includeRef bool) ([]datetime.Period, error)
}

// Recurrence holds the recurrence properties of a component.
type Recurrence struct {
	Rules           []recurrence.Pattern // RRULE
	ExceptionRules  []recurrence.Pattern // EXRULE
	RecurrenceDates datetime.PeriodList  // RDATE
	ExceptionDates  []datetime.DateTime  // EXDATE
}

// IsRecurring reports whether any RRULE or RDATE is present.
func (r Recurrence) IsRecurring() bool {
	return len(r.Rules) > 0 || len(r.RecurrenceDates) > 0
}

// Source is one input of a recurrence set: a rule, an explicit period list
// or an explicit date list.
type Source interface {
	source()
}

type RuleSource struct{ Pattern recurrence.Pattern }

type PeriodSource struct{ Periods datetime.PeriodList }

type DateSource struct{ Dates []datetime.DateTime }

func (RuleSource) source()   {}
func (PeriodSource) source() {}
func (DateSource) source()   {}

type settings struct {
	opts   recurrence.EvaluationOptions
	logger *slog.Logger
}

func newSettings(opts []Option) settings {
	s := settings{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Option configures the evaluators of this package.
type Option func(*settings)

// WithLogger sets the logger used by evaluators
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithEvaluationOptions sets the options passed to every rule evaluation
func WithEvaluationOptions(opts recurrence.EvaluationOptions) Option {
	return func(s *settings) {
		s.opts = opts
	}
}

// RecurringEvaluator computes (RRULE ∪ RDATE) − EXRULE − EXDATE.
type RecurringEvaluator struct {
	recurrence Recurrence
	settings
}

func NewRecurringEvaluator(r Recurrence, opts ...Option) *RecurringEvaluator {
	return &RecurringEvaluator{recurrence: r, settings: newSettings(opts)}
}

// Evaluate returns the sorted, de-duplicated periods of the recurrence set
// starting inside the window. When includeRef is set ref is part of the
// set; rules count it towards their COUNT. An RRULE without COUNT or UNTIL
// needs a periodEnd.
func (e *RecurringEvaluator) Evaluate(ref, periodStart, periodEnd datetime.DateTime, includeRef bool) ([]datetime.Period, error) {
	var included []datetime.Period
	for _, src := range e.inclusions() {
		periods, err := e.evaluateSource(src, ref, periodStart, periodEnd, includeRef)
		if err != nil {
			return nil, err
		}
		included = append(included, periods...)
	}
	if includeRef && len(e.recurrence.Rules) == 0 && startsInWindow(ref, periodStart, periodEnd) {
		included = append(included, datetime.NewPeriod(ref))
	}

	if len(included) == 0 {
		return nil, nil
	}

	// Open-ended exclusion rules stop after the last included start.
	exclusionEnd := periodEnd
	if exclusionEnd.IsZero() {
		last := slices.MaxFunc(included, datetime.Period.Compare)
		exclusionEnd = last.Start().AddDays(1)
	}
	var excluded []datetime.Period
	for _, src := range e.exclusions() {
		periods, err := e.evaluateSource(src, ref, periodStart, exclusionEnd, false)
		if err != nil {
			return nil, err
		}
		excluded = append(excluded, periods...)
	}

	result := datetime.SortPeriods(included)
	if len(excluded) > 0 {
		before := len(result)
		result = slices.DeleteFunc(result, func(p datetime.Period) bool { return isExcluded(p, excluded) })
		e.logger.Debug("applied recurrence exclusions",
			"excluded", before-len(result), "remaining", len(result))
	}
	return result, nil
}

func (e *RecurringEvaluator) inclusions() []Source {
	var out []Source
	for _, p := range e.recurrence.Rules {
		out = append(out, RuleSource{Pattern: p})
	}
	if len(e.recurrence.RecurrenceDates) > 0 {
		out = append(out, PeriodSource{Periods: e.recurrence.RecurrenceDates})
	}
	return out
}

func (e *RecurringEvaluator) exclusions() []Source {
	var out []Source
	for _, p := range e.recurrence.ExceptionRules {
		out = append(out, RuleSource{Pattern: p})
	}
	if len(e.recurrence.ExceptionDates) > 0 {
		out = append(out, DateSource{Dates: e.recurrence.ExceptionDates})
	}
	return out
}

func (e *RecurringEvaluator) evaluateSource(src Source, ref, periodStart, periodEnd datetime.DateTime, includeRef bool) ([]datetime.Period, error) {
	switch s := src.(type) {
	case RuleSource:
		ev := recurrence.NewEvaluator(s.Pattern,
			recurrence.WithLogger(e.logger), recurrence.WithOptions(e.opts))
		return ev.Evaluate(ref, periodStart, periodEnd, includeRef)
	case PeriodSource:
		var out []datetime.Period
		for _, p := range s.Periods {
			if startsInWindow(p.Start(), periodStart, periodEnd) || spansWindowStart(p, periodStart, periodEnd) {
				out = append(out, p)
			}
		}
		return out, nil
	case DateSource:
		out := make([]datetime.Period, len(s.Dates))
		for i, d := range s.Dates {
			out[i] = datetime.NewPeriod(d)
		}
		return out, nil
	default:
		return nil, nil
	}
}

// isExcluded matches p against exclusions by start. A date-only exclusion
// removes every period starting on that day.
func isExcluded(p datetime.Period, exclusions []datetime.Period) bool {
	for _, ex := range exclusions {
		if ex.MatchesDateOnly() {
			if p.Start().SameDate(ex.Start()) {
				return true
			}
			continue
		}
		if p.Start().Compare(ex.Start()) == 0 {
			return true
		}
	}
	return false
}

// spansWindowStart reports whether p starts before periodStart and is still
// in progress at it.
func spansWindowStart(p datetime.Period, periodStart, periodEnd datetime.DateTime) bool {
	end, ok := p.End().Get()
	if !ok || periodStart.IsZero() || !p.Start().Before(periodStart) {
		return false
	}
	if !periodEnd.IsZero() && periodStart.Compare(periodEnd) == 0 {
		return p.Contains(periodStart)
	}
	return end.After(periodStart)
}

func startsInWindow(dt, periodStart, periodEnd datetime.DateTime) bool {
	if !periodStart.IsZero() && dt.Before(periodStart) {
		return false
	}
	if periodEnd.IsZero() {
		return true
	}
	if !periodStart.IsZero() && periodStart.Compare(periodEnd) == 0 {
		return dt.Compare(periodEnd) == 0
	}
	return dt.Before(periodEnd)
}
