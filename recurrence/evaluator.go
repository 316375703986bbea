package recurrence

import (
	"fmt"
	"iter"
	"log/slog"
	"time"

	"github.com/samber/mo"

	"github.com/cyp0633/icalrecur/datetime"
	"github.com/cyp0633/icalrecur/internal/calmath"
)

// Evaluator expands one Pattern into occurrence periods.
//
// An Evaluator holds no state between calls and may be shared. The
// sequences returned by Periods must not be iterated concurrently.
type Evaluator struct {
	pattern Pattern
	opts    EvaluationOptions
	logger  *slog.Logger
}

// NewEvaluator creates an evaluator for p. The pattern is copied.
func NewEvaluator(p Pattern, opts ...Option) *Evaluator {
	e := &Evaluator{
		pattern: p.Clone(),
		logger:  discardLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Pattern returns a copy of the evaluated pattern.
func (e *Evaluator) Pattern() Pattern { return e.pattern.Clone() }

// Evaluate collects Periods into a slice.
func (e *Evaluator) Evaluate(ref, periodStart, periodEnd datetime.DateTime, includeRef bool) ([]datetime.Period, error) {
	var out []datetime.Period
	for p, err := range e.Periods(ref, periodStart, periodEnd, includeRef) {
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// Periods lazily yields the occurrences of the pattern anchored at ref whose
// start lies in [periodStart, periodEnd). A zero periodStart or periodEnd
// leaves that side open; equal bounds select occurrences starting exactly at
// that moment. Occurrences before ref are never produced. When includeRef is
// set, ref itself is the first occurrence and counts towards COUNT even if
// the rule does not produce it.
//
// The sequence ends after COUNT occurrences, past UNTIL or past periodEnd.
// An error is yielded at most once, as the last element.
func (e *Evaluator) Periods(ref, periodStart, periodEnd datetime.DateTime, includeRef bool) iter.Seq2[datetime.Period, error] {
	return func(yield func(datetime.Period, error) bool) {
		if err := e.pattern.Validate(); err != nil {
			yield(datetime.Period{}, err)
			return
		}
		if ref.IsZero() {
			yield(datetime.Period{}, fmt.Errorf("%w: missing reference date", ErrEvaluation))
			return
		}
		newWalk(e, ref, periodStart, periodEnd).run(includeRef, yield)
	}
}

// process fills the rule parts RFC 5545 derives from the reference date.
func process(p Pattern, ref datetime.DateTime) Pattern {
	p = p.Clone()
	if ref.HasTime() {
		if len(p.BySecond) == 0 && p.Frequency > Secondly {
			p.BySecond = []int{ref.Second()}
		}
		if len(p.ByMinute) == 0 && p.Frequency > Minutely {
			p.ByMinute = []int{ref.Minute()}
		}
		if len(p.ByHour) == 0 && p.Frequency > Hourly {
			p.ByHour = []int{ref.Hour()}
		}
	} else {
		p.BySecond, p.ByMinute, p.ByHour = []int{0}, []int{0}, []int{0}
	}

	if len(p.ByDay) == 0 {
		noDayRule := len(p.ByMonthDay) == 0 && len(p.ByYearDay) == 0
		switch {
		case p.Frequency == Weekly || (len(p.ByWeekNo) > 0 && noDayRule):
			p.ByDay = []WeekDay{Every(ref.Weekday())}
		case noDayRule && len(p.ByWeekNo) == 0:
			if p.Frequency > Weekly {
				p.ByMonthDay = []int{ref.Day()}
			}
			if p.Frequency > Monthly && len(p.ByMonth) == 0 {
				p.ByMonth = []int{int(ref.Month())}
			}
		}
	}
	return p
}

// walk is the state of one Periods call.
type walk struct {
	e       *Evaluator
	pattern Pattern
	gen     *generator

	loc     *time.Location
	hasTime bool
	refWall time.Time

	start, end datetime.DateTime
	singular   bool
	until      mo.Option[datetime.DateTime]

	// slack is how far before its seed a candidate can lie.
	slack     time.Duration
	endWall   mo.Option[time.Time]
	untilWall mo.Option[time.Time]
}

func newWalk(e *Evaluator, ref, start, end datetime.DateTime) *walk {
	p := process(e.pattern, ref)
	w := &walk{
		e:       e,
		pattern: p,
		gen:     newGenerator(p, e.logger),
		loc:     ref.Location(),
		hasTime: ref.HasTime() || p.Frequency < Daily,
		refWall: ref.Wall(),
		start:   start,
		end:     end,
		until:   p.Until,
		slack:   24 * time.Hour,
	}
	if len(p.ByWeekNo) > 0 {
		w.slack += 7 * 24 * time.Hour
	}
	w.singular = !start.IsZero() && !end.IsZero() && start.Compare(end) == 0
	if !end.IsZero() {
		w.endWall = mo.Some(end.In(w.loc).Wall().Add(w.slack))
	}
	if until, ok := p.Until.Get(); ok {
		wall := until.In(w.loc).Wall()
		if !until.HasTime() {
			wall = wall.Add(24 * time.Hour)
		}
		w.untilWall = mo.Some(wall.Add(w.slack))
	}
	return w
}

func (w *walk) run(includeRef bool, yield func(datetime.Period, error) bool) {
	count, hasCount := w.pattern.Count.Get()
	var (
		emitted    int
		last       time.Time
		hasLast    bool
		unmatched  int
		streakFrom time.Time
	)

	if includeRef {
		ref := datetime.FromWall(w.refWall, w.hasTime, w.loc)
		emitted++
		last, hasLast = w.refWall, true
		if !w.pastUntil(ref) && w.position(ref) == 0 {
			if !yield(datetime.NewPeriod(ref), nil) {
				return
			}
		}
	}

	seed := w.refWall
	if !hasCount && !w.start.IsZero() {
		seed = w.fastForward(seed)
	}

	for {
		if hasCount && emitted >= count {
			return
		}
		if seed.Year() > calmath.MaxYear {
			yield(datetime.Period{}, fmt.Errorf("%w: passed year %d; bound the query window",
				ErrEvaluationOutOfRange, calmath.MaxYear))
			return
		}
		if w.seedBeyond(seed) {
			return
		}

		candidates := w.gen.candidates(seed)
		if len(candidates) == 0 {
			if unmatched == 0 {
				streakFrom = seed
			}
			unmatched++
			stop, err := w.checkUnmatched(unmatched, streakFrom, seed)
			if err != nil {
				yield(datetime.Period{}, err)
				return
			}
			if stop {
				return
			}
		} else {
			unmatched = 0
		}

		for _, c := range candidates {
			if c.Before(w.refWall) || (hasLast && !c.After(last)) {
				continue
			}
			if hasCount && emitted >= count {
				return
			}
			dt := datetime.FromWall(c, w.hasTime, w.loc)
			if w.pastUntil(dt) {
				return
			}
			emitted++
			last, hasLast = c, true

			switch w.position(dt) {
			case -1:
				continue
			case 1:
				return
			}
			if !yield(datetime.NewPeriod(dt), nil) {
				return
			}
		}
		seed = w.pattern.advance(seed, 1)
	}
}

// fastForward skips seeds whose candidates all lie before the window.
func (w *walk) fastForward(seed time.Time) time.Time {
	target := w.start.In(w.loc).Wall().Add(-w.slack)
	if !seed.Before(target) {
		return seed
	}
	from := seed
	if unit := w.pattern.Frequency.unit(); unit > 0 {
		step := time.Duration(w.pattern.Interval) * unit
		if n := int(target.Sub(seed) / step); n > 1 {
			seed = w.pattern.advance(seed, n-1)
		}
	}
	for {
		next := w.pattern.advance(seed, 1)
		if !next.Before(target) {
			break
		}
		seed = next
	}
	w.e.logger.Debug("fast-forwarded recurrence seed", "from", from, "to", seed)
	return seed
}

// seedBeyond reports whether no candidate of seed or any later seed can
// fall inside the window or before UNTIL.
func (w *walk) seedBeyond(seed time.Time) bool {
	if end, ok := w.endWall.Get(); ok && seed.After(end) {
		return true
	}
	if until, ok := w.untilWall.Get(); ok && seed.After(until) {
		return true
	}
	return false
}

func (w *walk) checkUnmatched(unmatched int, streakFrom, seed time.Time) (bool, error) {
	if limit := w.e.opts.MaxUnmatchedIncrementsLimit; limit > 0 {
		if unmatched > limit {
			return true, &LimitExceededError{Limit: limit, Seed: seed}
		}
		return false, nil
	}
	// The Gregorian calendar repeats every 28 years between century
	// exceptions, so a rule that matched nothing for that long never will.
	if w.end.IsZero() && unmatched >= MaxIncrementCount && seed.Year()-streakFrom.Year() >= 28 {
		w.e.logger.Debug("recurrence stopped after unmatched increments",
			"pattern", w.pattern.String(), "increments", unmatched, "seed", seed)
		return true, nil
	}
	return false, nil
}

// position returns -1 when dt precedes the window, 1 when it is at or past
// its end and 0 when it lies inside.
func (w *walk) position(dt datetime.DateTime) int {
	if !w.start.IsZero() && dt.Before(w.start) {
		return -1
	}
	switch {
	case w.end.IsZero():
		return 0
	case w.singular:
		if dt.After(w.end) {
			return 1
		}
		return 0
	case dt.Compare(w.end) >= 0:
		return 1
	default:
		return 0
	}
}

// pastUntil reports whether dt lies after the inclusive UNTIL bound. A DATE
// on either side compares calendar dates.
func (w *walk) pastUntil(dt datetime.DateTime) bool {
	until, ok := w.until.Get()
	if !ok {
		return false
	}
	if !until.HasTime() || !dt.HasTime() {
		return calmath.Midnight(dt.Wall()).After(calmath.Midnight(until.In(w.loc).Wall()))
	}
	return dt.After(until)
}
