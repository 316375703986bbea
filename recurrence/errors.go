package recurrence

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidPattern is returned for rules that can never be evaluated:
	// a missing frequency, an interval or COUNT below one, COUNT combined with
	// UNTIL, or a BY-value outside its legal range.
	ErrInvalidPattern = errors.New("recurrence: invalid pattern")

	// ErrEvaluation is the root of every failure raised while evaluating a
	// valid pattern.
	ErrEvaluation = errors.New("recurrence: evaluation failed")

	// ErrEvaluationOutOfRange is returned when evaluation walks past the last
	// representable year. Bound the query window to avoid it.
	ErrEvaluationOutOfRange = fmt.Errorf("%w: date out of range", ErrEvaluation)

	// ErrEvaluationLimitExceeded is returned when more consecutive increments
	// than EvaluationOptions.MaxUnmatchedIncrementsLimit produce no candidate.
	ErrEvaluationLimitExceeded = fmt.Errorf("%w: unmatched increment limit exceeded", ErrEvaluation)
)

// LimitExceededError reports where evaluation gave up.
type LimitExceededError struct {
	Limit int
	Seed  time.Time
}

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("%v: %d increments without a match, last seed %s",
		ErrEvaluationLimitExceeded, e.Limit, e.Seed.Format("2006-01-02T15:04:05"))
}

func (e *LimitExceededError) Unwrap() error { return ErrEvaluationLimitExceeded }

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidPattern, fmt.Sprintf(format, args...))
}
