package calendar

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/samber/mo"

	"github.com/cyp0633/icalrecur/datetime"
	"github.com/cyp0633/icalrecur/evaluation"
)

const (
	opExpand        = "expand"
	opHasOccurrence = "has-occurrence"
)

// Engine expands the recurring components of a calendar
type Engine struct {
	cache  *Cache
	config Config
	logger *slog.Logger
}

type EngineOption func(*Engine)

// WithLogger sets the logger of the engine and of the evaluations it runs
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine creates an engine with DefaultConfig
func NewEngine(opts ...EngineOption) *Engine {
	return NewEngineWithConfig(DefaultConfig, opts...)
}

// NewEngineWithConfig creates an engine with custom configuration
func NewEngineWithConfig(config Config, opts ...EngineOption) *Engine {
	e := &Engine{
		config: config,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	if config.CacheEnabled {
		e.cache = NewCache(config.Cache)
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Close releases the cache.
func (e *Engine) Close() {
	if e.cache != nil {
		e.cache.Close()
	}
}

// CacheStats reports the cache contents, or zero stats without a cache.
func (e *Engine) CacheStats() CacheStats {
	if e.cache == nil {
		return CacheStats{}
	}
	return e.cache.Stats()
}

func (e *Engine) evaluationOptions() []evaluation.Option {
	return []evaluation.Option{
		evaluation.WithLogger(e.logger),
		evaluation.WithEvaluationOptions(e.config.Evaluation),
	}
}

// Expand returns the instances of comp overlapping [start, end). A zero end
// is replaced by start (or DTSTART) plus the configured default window.
func (e *Engine) Expand(comp *ical.Component, start, end datetime.DateTime) ([]Instance, error) {
	c, err := Bind(comp)
	if err != nil {
		return nil, err
	}
	return e.expand(c, start, end)
}

func (e *Engine) expand(c Component, start, end datetime.DateTime) ([]Instance, error) {
	end = e.boundEnd(c, start, end)
	if e.cache != nil {
		if cached, ok := e.cache.Get(opExpand, c.fingerprint, start, end); ok {
			return slices.Clone(cached.([]Instance)), nil
		}
	}

	instances, err := e.instances(c, start, end)
	if err != nil {
		return nil, err
	}

	if e.cache != nil {
		e.cache.Set(opExpand, c.fingerprint, start, end, slices.Clone(instances))
	}
	return instances, nil
}

func (e *Engine) instances(c Component, start, end datetime.DateTime) ([]Instance, error) {
	recurring := c.Recurring.Recurrences().IsRecurring()

	// A to-do without DTSTART occurs once, at its DUE.
	if todo, ok := c.Recurring.(evaluation.Todo); ok && todo.Start.IsZero() && !recurring {
		due, ok := todo.Due.Get()
		if !ok {
			return nil, nil
		}
		inst := Instance{UID: c.UID, Component: c.Name, Start: due, End: mo.Some(due)}
		if !inst.Overlaps(start, end) {
			return nil, nil
		}
		return []Instance{inst}, nil
	}

	occurrences, err := evaluation.Occurrences(c.Recurring, start, end, e.evaluationOptions()...)
	if err != nil {
		return nil, fmt.Errorf("failed to expand %s %s: %w", c.Name, c.UID, err)
	}
	out := make([]Instance, 0, len(occurrences))
	for _, occ := range occurrences {
		inst := Instance{
			UID:       c.UID,
			Component: c.Name,
			Start:     occ.Period.Start(),
			End:       occ.Period.End(),
		}
		if recurring {
			inst.RecurrenceID = mo.Some(occ.Period.Start())
		}
		out = append(out, inst)
	}
	return out, nil
}

func (e *Engine) boundEnd(c Component, start, end datetime.DateTime) datetime.DateTime {
	if !end.IsZero() || e.config.DefaultWindow <= 0 {
		return end
	}
	anchor := start
	if anchor.IsZero() {
		anchor = c.Recurring.ReferenceDate()
	}
	if anchor.IsZero() {
		return end
	}
	days := max(int(e.config.DefaultWindow/(24*time.Hour)), 1)
	return anchor.AddDays(days)
}

// HasOccurrenceInRange checks if comp has any instance overlapping
// [start, end). Long ranges are probed with a shorter window first.
func (e *Engine) HasOccurrenceInRange(comp *ical.Component, start, end datetime.DateTime) (bool, error) {
	c, err := Bind(comp)
	if err != nil {
		return false, err
	}

	if e.cache != nil {
		if cached, ok := e.cache.Get(opHasOccurrence, c.fingerprint, start, end); ok {
			return cached.(bool), nil
		}
	}

	found, err := e.hasOccurrence(c, start, end)
	if err != nil {
		return false, err
	}

	if e.cache != nil {
		e.cache.Set(opHasOccurrence, c.fingerprint, start, end, found)
	}
	return found, nil
}

func (e *Engine) hasOccurrence(c Component, start, end datetime.DateTime) (bool, error) {
	if e.isLargeRange(start, end) {
		probeEnd := start.AddExact(e.config.LargeRangeLimit)
		if !start.HasTime() {
			probeEnd = start.AddDays(max(int(e.config.LargeRangeLimit/(24*time.Hour)), 1))
		}
		instances, err := e.instances(c, start, probeEnd)
		if err != nil {
			return false, err
		}
		if len(instances) > 0 {
			return true, nil
		}
		e.logger.Debug("probe window empty, checking full range",
			"uid", c.UID, "start", start.String(), "end", end.String())
	}

	instances, err := e.expand(c, start, end)
	if err != nil {
		return false, err
	}
	return len(instances) > 0, nil
}

func (e *Engine) isLargeRange(start, end datetime.DateTime) bool {
	if start.IsZero() || end.IsZero() || e.config.LargeRangeThreshold <= 0 || e.config.LargeRangeLimit <= 0 {
		return false
	}
	return end.SubExact(start) > e.config.LargeRangeThreshold
}

// Occurrences returns the instances of every VEVENT, VTODO and VJOURNAL of
// cal that overlap [start, end), sorted by start. A component carrying a
// RECURRENCE-ID replaces the generated instance it names. Components that
// cannot be read are logged and skipped.
func (e *Engine) Occurrences(cal *ical.Calendar, start, end datetime.DateTime) ([]Instance, error) {
	var masters []Component
	overrides := make(map[string][]Component)
	for _, child := range cal.Children {
		switch child.Name {
		case ical.CompEvent, ical.CompToDo, ical.CompJournal:
		default:
			continue
		}
		c, err := Bind(child)
		if err != nil {
			e.logger.Warn("skipping calendar component", "component", child.Name, "error", err)
			continue
		}
		if c.RecurrenceID.IsPresent() {
			overrides[c.UID] = append(overrides[c.UID], c)
			continue
		}
		masters = append(masters, c)
	}

	var out []Instance
	for _, m := range masters {
		instances, err := e.expand(m, start, end)
		if err != nil {
			return nil, err
		}
		for _, inst := range instances {
			if !isOverridden(inst, overrides[m.UID]) {
				out = append(out, inst)
			}
		}
	}
	for _, ovs := range overrides {
		for _, ov := range ovs {
			if inst := overrideInstance(ov); inst.Overlaps(start, end) {
				out = append(out, inst)
			}
		}
	}

	slices.SortStableFunc(out, func(a, b Instance) int {
		if c := a.Start.Compare(b.Start); c != 0 {
			return c
		}
		return strings.Compare(a.UID, b.UID)
	})
	return out, nil
}

func isOverridden(inst Instance, overrides []Component) bool {
	for _, ov := range overrides {
		rid, ok := ov.RecurrenceID.Get()
		if !ok {
			continue
		}
		if !rid.HasTime() {
			if inst.Start.SameDate(rid) {
				return true
			}
			continue
		}
		if inst.Start.Compare(rid) == 0 {
			return true
		}
	}
	return false
}

// overrideInstance is the single instance described by an overriding component.
func overrideInstance(c Component) Instance {
	inst := Instance{
		UID:          c.UID,
		Component:    c.Name,
		Start:        c.Recurring.ReferenceDate(),
		IsOverride:   true,
		RecurrenceID: c.RecurrenceID,
	}
	switch r := c.Recurring.(type) {
	case evaluation.Event:
		inst.End = mo.Some(r.EffectiveEnd())
	case evaluation.Todo:
		if r.Start.IsZero() {
			inst.Start = r.Due.OrElse(r.Start)
		}
		if due, ok := r.Due.Get(); ok {
			inst.End = mo.Some(due)
		}
	}
	if inst.Start.IsZero() {
		inst.Start = c.RecurrenceID.OrElse(inst.Start)
	}
	return inst
}

// ObservanceAt returns the STANDARD or DAYLIGHT observance of a VTIMEZONE
// in effect at the given instant.
func (e *Engine) ObservanceAt(tz *ical.Component, at time.Time) (mo.Option[evaluation.TimeZoneInfo], error) {
	observances, err := Observances(tz)
	if err != nil {
		return mo.None[evaluation.TimeZoneInfo](), err
	}
	return evaluation.MatchObservance(observances, at, e.evaluationOptions()...)
}
