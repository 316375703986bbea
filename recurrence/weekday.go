package recurrence

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
)

// WeekDay is one BYDAY entry: a weekday with an optional signed ordinal.
// Offset 0 means every such weekday in the span; 2 the second one; -1 the last.
type WeekDay struct {
	Day    time.Weekday
	Offset int
}

// Every returns a BYDAY entry without an ordinal.
func Every(day time.Weekday) WeekDay { return WeekDay{Day: day} }

// Nth returns a BYDAY entry selecting the n-th weekday of the span.
func Nth(n int, day time.Weekday) WeekDay { return WeekDay{Day: day, Offset: n} }

func (w WeekDay) String() string {
	return w.rrule().String()
}

var rruleWeekdays = [...]rrule.Weekday{rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA, rrule.SU}

func (w WeekDay) rrule() rrule.Weekday {
	return rruleWeekdays[(int(w.Day)+6)%7].Nth(w.Offset)
}

func fromRRuleWeekday(w rrule.Weekday) WeekDay {
	return WeekDay{Day: time.Weekday((w.Day() + 1) % 7), Offset: w.N()}
}

func weekdayName(d time.Weekday) string {
	return fmt.Sprint(WeekDay{Day: d})
}
