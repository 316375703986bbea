package calendar

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"
	"github.com/samber/mo"

	"github.com/cyp0633/icalrecur/datetime"
	"github.com/cyp0633/icalrecur/evaluation"
	"github.com/cyp0633/icalrecur/recurrence"
)

const (
	propExceptionRule = "EXRULE"
	valueDate         = "DATE"
	valuePeriod       = "PERIOD"
)

// Component is a VEVENT, VTODO or VJOURNAL bound to its evaluation model.
type Component struct {
	UID          string
	Name         string
	Recurring    evaluation.Recurring
	RecurrenceID mo.Option[datetime.DateTime] // Set on components overriding one occurrence

	fingerprint string
}

// Bind reads the date and recurrence properties of comp. Components
// without a UID get a stable name-based UUID derived from their content.
func Bind(comp *ical.Component) (Component, error) {
	c := Component{Name: comp.Name, fingerprint: fingerprint(comp)}

	var err error
	switch comp.Name {
	case ical.CompEvent:
		c.Recurring, err = bindEvent(comp.Props)
	case ical.CompToDo:
		c.Recurring, err = bindTodo(comp.Props)
	case ical.CompJournal:
		c.Recurring, err = bindJournal(comp.Props)
	default:
		return Component{}, fmt.Errorf("%w: %s", ErrUnsupportedComponent, comp.Name)
	}
	if err != nil {
		return Component{}, fmt.Errorf("failed to bind %s: %w", comp.Name, err)
	}

	if c.RecurrenceID, err = dateTimeProp(comp.Props, ical.PropRecurrenceID); err != nil {
		return Component{}, err
	}
	c.UID = componentUID(comp.Props, c.fingerprint)
	switch r := c.Recurring.(type) {
	case evaluation.Event:
		r.UID = c.UID
		c.Recurring = r
	case evaluation.Todo:
		r.UID = c.UID
		c.Recurring = r
	case evaluation.Journal:
		r.UID = c.UID
		c.Recurring = r
	}
	return c, nil
}

func bindEvent(props ical.Props) (evaluation.Event, error) {
	start, err := requiredStart(props)
	if err != nil {
		return evaluation.Event{}, err
	}
	event := evaluation.Event{Start: start}
	if event.End, err = dateTimeProp(props, ical.PropDateTimeEnd); err != nil {
		return evaluation.Event{}, err
	}
	if event.Duration, err = durationProp(props); err != nil {
		return evaluation.Event{}, err
	}
	if event.Recurrence, err = recurrenceFromProps(props); err != nil {
		return evaluation.Event{}, err
	}
	return event, nil
}

func bindTodo(props ical.Props) (evaluation.Todo, error) {
	var todo evaluation.Todo
	start, err := dateTimeProp(props, ical.PropDateTimeStart)
	if err != nil {
		return evaluation.Todo{}, err
	}
	todo.Start = start.OrElse(datetime.DateTime{})
	if todo.Due, err = dateTimeProp(props, ical.PropDue); err != nil {
		return evaluation.Todo{}, err
	}
	if todo.Duration, err = durationProp(props); err != nil {
		return evaluation.Todo{}, err
	}
	if todo.Completed, err = dateTimeProp(props, ical.PropCompleted); err != nil {
		return evaluation.Todo{}, err
	}
	if status := props.Get(ical.PropStatus); status != nil {
		todo.Status = strings.ToUpper(strings.TrimSpace(status.Value))
	}
	if todo.Recurrence, err = recurrenceFromProps(props); err != nil {
		return evaluation.Todo{}, err
	}
	return todo, nil
}

func bindJournal(props ical.Props) (evaluation.Journal, error) {
	start, err := requiredStart(props)
	if err != nil {
		return evaluation.Journal{}, err
	}
	journal := evaluation.Journal{Start: start}
	if journal.Recurrence, err = recurrenceFromProps(props); err != nil {
		return evaluation.Journal{}, err
	}
	return journal, nil
}

// Observances reads the STANDARD and DAYLIGHT sub-components of a VTIMEZONE.
func Observances(tz *ical.Component) ([]evaluation.TimeZoneInfo, error) {
	if tz.Name != ical.CompTimezone {
		return nil, fmt.Errorf("%w: %s is not a %s", ErrUnsupportedComponent, tz.Name, ical.CompTimezone)
	}
	var tzID string
	if prop := tz.Props.Get(ical.PropTimezoneID); prop != nil {
		tzID = prop.Value
	}

	var out []evaluation.TimeZoneInfo
	for _, child := range tz.Children {
		if child.Name != ical.CompTimezoneStandard && child.Name != ical.CompTimezoneDaylight {
			continue
		}
		obs, err := bindObservance(child)
		if err != nil {
			return nil, fmt.Errorf("failed to bind %s of %s: %w", child.Name, tzID, err)
		}
		obs.TzID = tzID
		out = append(out, obs)
	}
	return out, nil
}

func bindObservance(comp *ical.Component) (evaluation.TimeZoneInfo, error) {
	start, err := requiredStart(comp.Props)
	if err != nil {
		return evaluation.TimeZoneInfo{}, err
	}
	obs := evaluation.TimeZoneInfo{Name: comp.Name, Start: start}
	if obs.OffsetFrom, err = offsetProp(comp.Props, ical.PropTimezoneOffsetFrom); err != nil {
		return evaluation.TimeZoneInfo{}, err
	}
	if obs.OffsetTo, err = offsetProp(comp.Props, ical.PropTimezoneOffsetTo); err != nil {
		return evaluation.TimeZoneInfo{}, err
	}
	for _, name := range comp.Props.Values(ical.PropTimezoneName) {
		obs.TzNames = append(obs.TzNames, name.Value)
	}
	if obs.Recurrence, err = recurrenceFromProps(comp.Props); err != nil {
		return evaluation.TimeZoneInfo{}, err
	}
	return obs, nil
}

func requiredStart(props ical.Props) (datetime.DateTime, error) {
	start, err := dateTimeProp(props, ical.PropDateTimeStart)
	if err != nil {
		return datetime.DateTime{}, err
	}
	dt, ok := start.Get()
	if !ok {
		return datetime.DateTime{}, fmt.Errorf("%w: missing %s", ErrInvalidValue, ical.PropDateTimeStart)
	}
	return dt, nil
}

func dateTimeProp(props ical.Props, name string) (mo.Option[datetime.DateTime], error) {
	prop := props.Get(name)
	if prop == nil || strings.TrimSpace(prop.Value) == "" {
		return mo.None[datetime.DateTime](), nil
	}
	dt, err := parseDateTime(prop.Value, prop.Params)
	if err != nil {
		return mo.None[datetime.DateTime](), fmt.Errorf("%w: %s: %w", ErrInvalidValue, name, err)
	}
	return mo.Some(dt), nil
}

func durationProp(props ical.Props) (mo.Option[datetime.Duration], error) {
	prop := props.Get(ical.PropDuration)
	if prop == nil {
		return mo.None[datetime.Duration](), nil
	}
	dur, err := datetime.ParseDuration(prop.Value)
	if err != nil {
		return mo.None[datetime.Duration](), fmt.Errorf("%w: %s: %w", ErrInvalidValue, ical.PropDuration, err)
	}
	return mo.Some(dur), nil
}

func offsetProp(props ical.Props, name string) (time.Duration, error) {
	prop := props.Get(name)
	if prop == nil {
		return 0, fmt.Errorf("%w: missing %s", ErrInvalidValue, name)
	}
	offset, err := parseUTCOffset(prop.Value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrInvalidValue, name, err)
	}
	return offset, nil
}

// parseUTCOffset reads a UTC-OFFSET value such as "-0500" or "+053000".
func parseUTCOffset(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if len(value) != 5 && len(value) != 7 {
		return 0, fmt.Errorf("malformed utc offset %q", value)
	}
	var sign time.Duration
	switch value[0] {
	case '+':
		sign = 1
	case '-':
		sign = -1
	default:
		return 0, fmt.Errorf("malformed utc offset %q", value)
	}

	var parts [3]int
	for i := 0; 1+2*i < len(value); i++ {
		n, err := strconv.Atoi(value[1+2*i : 3+2*i])
		if err != nil {
			return 0, fmt.Errorf("malformed utc offset %q", value)
		}
		parts[i] = n
	}
	if parts[1] > 59 || parts[2] > 59 {
		return 0, fmt.Errorf("malformed utc offset %q", value)
	}
	offset := time.Duration(parts[0])*time.Hour + time.Duration(parts[1])*time.Minute + time.Duration(parts[2])*time.Second
	return sign * offset, nil
}

// recurrenceFromProps collects RRULE, EXRULE, RDATE and EXDATE. Every
// property may repeat and RDATE/EXDATE may list several comma-separated
// values.
func recurrenceFromProps(props ical.Props) (evaluation.Recurrence, error) {
	var rec evaluation.Recurrence
	for _, name := range []string{ical.PropRecurrenceRule, propExceptionRule} {
		for _, prop := range props.Values(name) {
			p, err := recurrence.ParsePattern(prop.Value)
			if err != nil {
				return evaluation.Recurrence{}, fmt.Errorf("failed to parse %s %q: %w", name, prop.Value, err)
			}
			if name == ical.PropRecurrenceRule {
				rec.Rules = append(rec.Rules, p)
			} else {
				rec.ExceptionRules = append(rec.ExceptionRules, p)
			}
		}
	}

	for _, prop := range props.Values(ical.PropRecurrenceDates) {
		periods, err := parseRecurrenceDates(prop.Value, prop.Params)
		if err != nil {
			return evaluation.Recurrence{}, fmt.Errorf("%w: %s: %w", ErrInvalidValue, ical.PropRecurrenceDates, err)
		}
		for _, p := range periods {
			rec.RecurrenceDates = rec.RecurrenceDates.Add(p)
		}
	}

	for _, prop := range props.Values(ical.PropExceptionDates) {
		for _, value := range splitValues(prop.Value) {
			dt, err := parseDateTime(value, prop.Params)
			if err != nil {
				return evaluation.Recurrence{}, fmt.Errorf("%w: %s: %w", ErrInvalidValue, ical.PropExceptionDates, err)
			}
			rec.ExceptionDates = append(rec.ExceptionDates, dt)
		}
	}
	return rec, nil
}

// parseRecurrenceDates reads an RDATE value list, which holds periods
// when VALUE=PERIOD is given.
func parseRecurrenceDates(value string, params ical.Params) ([]datetime.Period, error) {
	isPeriod := strings.EqualFold(params.Get(ical.ParamValue), valuePeriod)
	var out []datetime.Period
	for _, v := range splitValues(value) {
		if isPeriod {
			p, err := datetime.ParsePeriod(v, zoneOf(params))
			if err != nil {
				return nil, err
			}
			out = append(out, p)
			continue
		}
		dt, err := parseDateTime(v, params)
		if err != nil {
			return nil, err
		}
		out = append(out, datetime.NewPeriod(dt))
	}
	return out, nil
}

// parseDateTime reads a DATE or DATE-TIME honouring the VALUE and TZID
// parameters. A TZID unknown to the zone database leaves the value floating.
func parseDateTime(value string, params ical.Params) (datetime.DateTime, error) {
	value = strings.TrimSpace(value)
	if strings.EqualFold(params.Get(ical.ParamValue), valueDate) && len(value) != len("20060102") {
		return datetime.DateTime{}, fmt.Errorf("%q is not a DATE", value)
	}
	return datetime.Parse(value, zoneOf(params))
}

func zoneOf(params ical.Params) *time.Location {
	tzID := params.Get(ical.ParamTimezoneID)
	if tzID == "" {
		return nil
	}
	loc, err := datetime.LoadZone(tzID)
	if err != nil {
		return nil
	}
	return loc
}

func splitValues(value string) []string {
	var out []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func componentUID(props ical.Props, fp string) string {
	if prop := props.Get(ical.PropUID); prop != nil && strings.TrimSpace(prop.Value) != "" {
		return strings.TrimSpace(prop.Value)
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(fp)).String()
}

// fingerprint renders the properties of comp in a canonical order.
func fingerprint(comp *ical.Component) string {
	var b strings.Builder
	b.WriteString(comp.Name)
	names := make([]string, 0, len(comp.Props))
	for name := range comp.Props {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		for _, prop := range comp.Props[name] {
			b.WriteByte('\n')
			b.WriteString(name)
			keys := make([]string, 0, len(prop.Params))
			for k := range prop.Params {
				keys = append(keys, k)
			}
			slices.Sort(keys)
			for _, k := range keys {
				b.WriteByte(';')
				b.WriteString(k)
				b.WriteByte('=')
				b.WriteString(strings.Join(prop.Params[k], ","))
			}
			b.WriteByte(':')
			b.WriteString(prop.Value)
		}
	}
	return b.String()
}
