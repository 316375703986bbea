package evaluation

import "github.com/cyp0633/icalrecur/datetime"

// Journal is a VJOURNAL. Its occurrences have no end.
type Journal struct {
	UID   string
	Start datetime.DateTime
	Recurrence
}

func (j Journal) ReferenceDate() datetime.DateTime { return j.Start }
func (j Journal) Recurrences() Recurrence          { return j.Recurrence }

func (j Journal) Evaluator(opts ...Option) Evaluator {
	return NewRecurringEvaluator(j.Recurrence, opts...)
}
