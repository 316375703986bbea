package recurrence

import (
	"io"
	"log/slog"
)

// MaxIncrementCount is the number of consecutive empty increments after
// which an unbounded query gives up, provided the increments also span a
// full 28 year calendar cycle.
const MaxIncrementCount = 1000

// EvaluationOptions tunes pattern evaluation.
type EvaluationOptions struct {
	// MaxUnmatchedIncrementsLimit fails evaluation with
	// ErrEvaluationLimitExceeded once this many consecutive increments
	// produced no candidate. Zero disables the check.
	MaxUnmatchedIncrementsLimit int `yaml:"max_unmatched_increments_limit"`
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithLogger sets the logger for the evaluator
func WithLogger(logger *slog.Logger) Option {
	return func(e *Evaluator) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithOptions sets the evaluation options
func WithOptions(opts EvaluationOptions) Option {
	return func(e *Evaluator) {
		e.opts = opts
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
