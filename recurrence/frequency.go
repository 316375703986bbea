package recurrence

import (
	"time"

	"github.com/teambition/rrule-go"
)

// Frequency is the FREQ rule part. Values are ordered from finest to
// coarsest so that f > Weekly reads as "coarser than weekly".
type Frequency int

const (
	Secondly Frequency = iota + 1
	Minutely
	Hourly
	Daily
	Weekly
	Monthly
	Yearly
)

var frequencyNames = map[Frequency]string{
	Secondly: "SECONDLY",
	Minutely: "MINUTELY",
	Hourly:   "HOURLY",
	Daily:    "DAILY",
	Weekly:   "WEEKLY",
	Monthly:  "MONTHLY",
	Yearly:   "YEARLY",
}

func (f Frequency) String() string {
	if name, ok := frequencyNames[f]; ok {
		return name
	}
	return "NONE"
}

// Valid reports whether f is one of the seven RFC 5545 frequencies.
func (f Frequency) Valid() bool { return f >= Secondly && f <= Yearly }

var rruleFrequencies = map[rrule.Frequency]Frequency{
	rrule.SECONDLY: Secondly,
	rrule.MINUTELY: Minutely,
	rrule.HOURLY:   Hourly,
	rrule.DAILY:    Daily,
	rrule.WEEKLY:   Weekly,
	rrule.MONTHLY:  Monthly,
	rrule.YEARLY:   Yearly,
}

func fromRRuleFrequency(f rrule.Frequency) Frequency { return rruleFrequencies[f] }

func (f Frequency) rrule() rrule.Frequency {
	for rf, ours := range rruleFrequencies {
		if ours == f {
			return rf
		}
	}
	return rrule.YEARLY
}

// unit is the fixed length of one increment for frequencies up to DAILY.
func (f Frequency) unit() time.Duration {
	switch f {
	case Secondly:
		return time.Second
	case Minutely:
		return time.Minute
	case Hourly:
		return time.Hour
	case Daily:
		return 24 * time.Hour
	default:
		return 0
	}
}
