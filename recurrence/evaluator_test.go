package recurrence

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teambition/rrule-go"

	"github.com/cyp0633/icalrecur/datetime"
)

func floating(y int, m time.Month, d, hh, mm int) datetime.DateTime {
	return datetime.NewFloating(y, m, d, hh, mm, 0)
}

func mustPattern(t *testing.T, rule string) Pattern {
	t.Helper()
	p, err := ParsePattern(rule)
	require.NoError(t, err)
	return p
}

func evaluate(t *testing.T, rule string, ref, start, end datetime.DateTime) []datetime.DateTime {
	t.Helper()
	periods, err := NewEvaluator(mustPattern(t, rule)).Evaluate(ref, start, end, false)
	require.NoError(t, err)
	return starts(periods)
}

func starts(periods []datetime.Period) []datetime.DateTime {
	out := make([]datetime.DateTime, len(periods))
	for i, p := range periods {
		out[i] = p.Start()
	}
	return out
}

func TestEvaluator_Scenarios(t *testing.T) {
	ny, err := datetime.LoadZone("America/New_York")
	require.NoError(t, err)

	tests := []struct {
		name       string
		rule       string
		ref        datetime.DateTime
		start, end datetime.DateTime
		expected   []datetime.DateTime
	}{
		{
			name:  "daily count",
			rule:  "FREQ=DAILY;COUNT=5",
			ref:   floating(2024, time.January, 1, 9, 0),
			start: floating(2024, time.January, 1, 0, 0),
			end:   floating(2025, time.January, 1, 0, 0),
			expected: []datetime.DateTime{
				floating(2024, time.January, 1, 9, 0),
				floating(2024, time.January, 2, 9, 0),
				floating(2024, time.January, 3, 9, 0),
				floating(2024, time.January, 4, 9, 0),
				floating(2024, time.January, 5, 9, 0),
			},
		},
		{
			name:  "weekly by day",
			rule:  "FREQ=WEEKLY;BYDAY=MO,WE,FR",
			ref:   floating(2024, time.January, 1, 9, 0),
			start: floating(2024, time.January, 1, 0, 0),
			end:   floating(2024, time.January, 15, 0, 0),
			expected: []datetime.DateTime{
				floating(2024, time.January, 1, 9, 0),
				floating(2024, time.January, 3, 9, 0),
				floating(2024, time.January, 5, 9, 0),
				floating(2024, time.January, 8, 9, 0),
				floating(2024, time.January, 10, 9, 0),
				floating(2024, time.January, 12, 9, 0),
			},
		},
		{
			name:  "last day of month",
			rule:  "FREQ=MONTHLY;BYMONTHDAY=-1",
			ref:   datetime.NewDate(2024, time.January, 31),
			start: datetime.NewDate(2024, time.January, 1),
			end:   datetime.NewDate(2024, time.April, 1),
			expected: []datetime.DateTime{
				datetime.NewDate(2024, time.January, 31),
				datetime.NewDate(2024, time.February, 29),
				datetime.NewDate(2024, time.March, 31),
			},
		},
		{
			name: "first monday of the year",
			rule: "FREQ=YEARLY;BYDAY=1MO;COUNT=2",
			ref:  datetime.NewDate(2024, time.January, 1),
			expected: []datetime.DateTime{
				datetime.NewDate(2024, time.January, 1),
				datetime.NewDate(2025, time.January, 6),
			},
		},
		{
			name: "spring forward gap",
			rule: "FREQ=DAILY;COUNT=4",
			ref:  datetime.New(2024, time.March, 8, 2, 30, 0, ny),
			expected: []datetime.DateTime{
				datetime.New(2024, time.March, 8, 2, 30, 0, ny),
				datetime.New(2024, time.March, 9, 2, 30, 0, ny),
				datetime.New(2024, time.March, 10, 3, 30, 0, ny),
				datetime.New(2024, time.March, 11, 2, 30, 0, ny),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := evaluate(t, tt.rule, tt.ref, tt.start, tt.end)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestEvaluator_SpringForwardInstant(t *testing.T) {
	ny, err := datetime.LoadZone("America/New_York")
	require.NoError(t, err)

	got := evaluate(t, "FREQ=DAILY;COUNT=3", datetime.New(2024, time.March, 9, 2, 30, 0, ny), datetime.DateTime{}, datetime.DateTime{})
	require.Len(t, got, 3)
	assert.Equal(t, 3, got[1].Hour())
	assert.Equal(t, time.Date(2024, 3, 10, 7, 30, 0, 0, time.UTC), got[1].Time().UTC())
	assert.Equal(t, 2, got[2].Hour())
}

// Examples from RFC 5545 section 3.8.5.3.
func TestEvaluator_RFCExamples(t *testing.T) {
	ref := floating(1997, time.September, 2, 9, 0)

	tests := []struct {
		name     string
		rule     string
		ref      datetime.DateTime
		expected []datetime.DateTime
	}{
		{
			name: "friday the 13th",
			rule: "FREQ=MONTHLY;BYDAY=FR;BYMONTHDAY=13;COUNT=3",
			ref:  ref,
			expected: []datetime.DateTime{
				floating(1998, time.February, 13, 9, 0),
				floating(1998, time.March, 13, 9, 0),
				floating(1998, time.November, 13, 9, 0),
			},
		},
		{
			name: "last work day of the month",
			rule: "FREQ=MONTHLY;BYDAY=MO,TU,WE,TH,FR;BYSETPOS=-1;COUNT=3",
			ref:  floating(1997, time.September, 29, 9, 0),
			expected: []datetime.DateTime{
				floating(1997, time.September, 30, 9, 0),
				floating(1997, time.October, 31, 9, 0),
				floating(1997, time.November, 28, 9, 0),
			},
		},
		{
			name: "third instance of tuesday to thursday",
			rule: "FREQ=MONTHLY;COUNT=3;BYDAY=TU,WE,TH;BYSETPOS=3",
			ref:  floating(1997, time.September, 4, 9, 0),
			expected: []datetime.DateTime{
				floating(1997, time.September, 4, 9, 0),
				floating(1997, time.October, 7, 9, 0),
				floating(1997, time.November, 6, 9, 0),
			},
		},
		{
			name: "monday of week 20",
			rule: "FREQ=YEARLY;BYWEEKNO=20;BYDAY=MO;COUNT=3",
			ref:  floating(1997, time.May, 12, 9, 0),
			expected: []datetime.DateTime{
				floating(1997, time.May, 12, 9, 0),
				floating(1998, time.May, 11, 9, 0),
				floating(1999, time.May, 17, 9, 0),
			},
		},
		{
			name: "20th monday",
			rule: "FREQ=YEARLY;BYDAY=20MO;COUNT=3",
			ref:  floating(1997, time.May, 19, 9, 0),
			expected: []datetime.DateTime{
				floating(1997, time.May, 19, 9, 0),
				floating(1998, time.May, 18, 9, 0),
				floating(1999, time.May, 17, 9, 0),
			},
		},
		{
			name: "every third year on year days",
			rule: "FREQ=YEARLY;INTERVAL=3;COUNT=5;BYYEARDAY=1,100,200",
			ref:  floating(1997, time.January, 1, 9, 0),
			expected: []datetime.DateTime{
				floating(1997, time.January, 1, 9, 0),
				floating(1997, time.April, 10, 9, 0),
				floating(1997, time.July, 19, 9, 0),
				floating(2000, time.January, 1, 9, 0),
				floating(2000, time.April, 9, 9, 0),
			},
		},
		{
			name: "third to last day of month",
			rule: "FREQ=MONTHLY;BYMONTHDAY=-3;COUNT=3",
			ref:  floating(1997, time.September, 28, 9, 0),
			expected: []datetime.DateTime{
				floating(1997, time.September, 28, 9, 0),
				floating(1997, time.October, 29, 9, 0),
				floating(1997, time.November, 28, 9, 0),
			},
		},
		{
			name: "every 20 minutes in office hours",
			rule: "FREQ=DAILY;BYHOUR=9,10,11,12,13,14,15,16;BYMINUTE=0,20,40;COUNT=5",
			ref:  ref,
			expected: []datetime.DateTime{
				floating(1997, time.September, 2, 9, 0),
				floating(1997, time.September, 2, 9, 20),
				floating(1997, time.September, 2, 9, 40),
				floating(1997, time.September, 2, 10, 0),
				floating(1997, time.September, 2, 10, 20),
			},
		},
		{
			name: "every 15 minutes",
			rule: "FREQ=MINUTELY;INTERVAL=15;COUNT=4",
			ref:  ref,
			expected: []datetime.DateTime{
				floating(1997, time.September, 2, 9, 0),
				floating(1997, time.September, 2, 9, 15),
				floating(1997, time.September, 2, 9, 30),
				floating(1997, time.September, 2, 9, 45),
			},
		},
		{
			name: "week start monday",
			rule: "FREQ=WEEKLY;INTERVAL=2;COUNT=4;BYDAY=TU,SU;WKST=MO",
			ref:  floating(1997, time.August, 5, 9, 0),
			expected: []datetime.DateTime{
				floating(1997, time.August, 5, 9, 0),
				floating(1997, time.August, 10, 9, 0),
				floating(1997, time.August, 19, 9, 0),
				floating(1997, time.August, 24, 9, 0),
			},
		},
		{
			name: "week start sunday",
			rule: "FREQ=WEEKLY;INTERVAL=2;COUNT=4;BYDAY=TU,SU;WKST=SU",
			ref:  floating(1997, time.August, 5, 9, 0),
			expected: []datetime.DateTime{
				floating(1997, time.August, 5, 9, 0),
				floating(1997, time.August, 17, 9, 0),
				floating(1997, time.August, 19, 9, 0),
				floating(1997, time.August, 31, 9, 0),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := evaluate(t, tt.rule, tt.ref, datetime.DateTime{}, datetime.DateTime{})
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestEvaluator_WeekNumbers(t *testing.T) {
	t.Run("week one can start in december", func(t *testing.T) {
		got := evaluate(t, "FREQ=YEARLY;BYWEEKNO=1;BYDAY=MO;COUNT=2",
			floating(2024, time.January, 1, 9, 0), datetime.DateTime{}, datetime.DateTime{})
		assert.Equal(t, []datetime.DateTime{
			floating(2024, time.January, 1, 9, 0),
			floating(2024, time.December, 30, 9, 0),
		}, got)
	})

	t.Run("week 53 only exists in long years", func(t *testing.T) {
		got := evaluate(t, "FREQ=YEARLY;BYWEEKNO=53;BYDAY=MO",
			floating(2019, time.January, 7, 9, 0),
			floating(2019, time.January, 1, 0, 0),
			floating(2027, time.January, 1, 0, 0))
		assert.Equal(t, []datetime.DateTime{
			floating(2020, time.December, 28, 9, 0),
			floating(2026, time.December, 28, 9, 0),
		}, got)
	})

	t.Run("last week of the year", func(t *testing.T) {
		got := evaluate(t, "FREQ=YEARLY;BYWEEKNO=-1;BYDAY=SU;COUNT=2",
			floating(2024, time.January, 1, 9, 0), datetime.DateTime{}, datetime.DateTime{})
		assert.Equal(t, []datetime.DateTime{
			floating(2024, time.December, 29, 9, 0),
			floating(2025, time.December, 28, 9, 0),
		}, got)
	})
}

func TestEvaluator_Until(t *testing.T) {
	ny, err := datetime.LoadZone("America/New_York")
	require.NoError(t, err)

	tests := []struct {
		name     string
		rule     string
		ref      datetime.DateTime
		expected int
	}{
		{"inclusive utc bound", "FREQ=DAILY;UNTIL=20240105T090000Z", datetime.NewUTC(2024, time.January, 1, 9, 0, 0), 5},
		{"zoned reference", "FREQ=DAILY;UNTIL=20240104T140000Z", datetime.New(2024, time.January, 1, 9, 0, 0, ny), 4},
		{"zoned reference one second short", "FREQ=DAILY;UNTIL=20240104T135959Z", datetime.New(2024, time.January, 1, 9, 0, 0, ny), 3},
		{"date bound with timed reference", "FREQ=DAILY;UNTIL=20240103", floating(2024, time.January, 1, 9, 0), 3},
		{"date bound with date reference", "FREQ=WEEKLY;UNTIL=20240115", datetime.NewDate(2024, time.January, 1), 3},
		{"until before reference", "FREQ=DAILY;UNTIL=20231231", floating(2024, time.January, 1, 9, 0), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := mustPattern(t, tt.rule)
			until, _ := p.Until.Get()
			got := evaluate(t, tt.rule, tt.ref, datetime.DateTime{}, datetime.DateTime{})
			assert.Len(t, got, tt.expected)
			for _, dt := range got {
				if until.HasTime() {
					assert.False(t, dt.After(until), "%s after %s", dt, until)
				} else {
					assert.False(t, dt.Date().After(until), "%s after %s", dt, until)
				}
			}
		})
	}
}

func TestEvaluator_CountInvariant(t *testing.T) {
	rules := []string{
		"FREQ=SECONDLY;INTERVAL=7;COUNT=20",
		"FREQ=HOURLY;BYMINUTE=0,30;COUNT=15",
		"FREQ=DAILY;BYMONTH=2;COUNT=40",
		"FREQ=WEEKLY;BYDAY=SA,SU;COUNT=9",
		"FREQ=MONTHLY;BYMONTHDAY=31;COUNT=12",
		"FREQ=YEARLY;BYMONTH=2;BYMONTHDAY=29;COUNT=3",
		"FREQ=YEARLY;BYDAY=-1SU;BYMONTH=3,10;COUNT=8",
	}
	ref := floating(2023, time.January, 1, 12, 0)

	for _, rule := range rules {
		t.Run(rule, func(t *testing.T) {
			p := mustPattern(t, rule)
			count, _ := p.Count.Get()
			got := evaluate(t, rule, ref, datetime.DateTime{}, datetime.DateTime{})
			assert.Len(t, got, count)
			for i := 1; i < len(got); i++ {
				assert.True(t, got[i-1].Before(got[i]), "not ascending at %d", i)
			}
		})
	}
}

func TestEvaluator_LeapDay(t *testing.T) {
	got := evaluate(t, "FREQ=YEARLY;BYMONTH=2;BYMONTHDAY=29;COUNT=3",
		datetime.NewDate(2024, time.February, 29), datetime.DateTime{}, datetime.DateTime{})
	assert.Equal(t, []datetime.DateTime{
		datetime.NewDate(2024, time.February, 29),
		datetime.NewDate(2028, time.February, 29),
		datetime.NewDate(2032, time.February, 29),
	}, got)
}

func TestEvaluator_FastForward(t *testing.T) {
	tests := []struct {
		name       string
		rule       string
		ref        datetime.DateTime
		start, end datetime.DateTime
		expected   []datetime.DateTime
	}{
		{
			name:  "daily",
			rule:  "FREQ=DAILY",
			ref:   floating(2000, time.January, 1, 9, 0),
			start: floating(2024, time.March, 1, 0, 0),
			end:   floating(2024, time.March, 4, 0, 0),
			expected: []datetime.DateTime{
				floating(2024, time.March, 1, 9, 0),
				floating(2024, time.March, 2, 9, 0),
				floating(2024, time.March, 3, 9, 0),
			},
		},
		{
			name:  "every other week",
			rule:  "FREQ=WEEKLY;INTERVAL=2",
			ref:   floating(2024, time.January, 1, 9, 0),
			start: floating(2024, time.March, 1, 0, 0),
			end:   floating(2024, time.April, 1, 0, 0),
			expected: []datetime.DateTime{
				floating(2024, time.March, 11, 9, 0),
				floating(2024, time.March, 25, 9, 0),
			},
		},
		{
			name:  "quarterly",
			rule:  "FREQ=MONTHLY;INTERVAL=3",
			ref:   floating(2020, time.January, 15, 9, 0),
			start: floating(2024, time.January, 1, 0, 0),
			end:   floating(2024, time.December, 31, 0, 0),
			expected: []datetime.DateTime{
				floating(2024, time.January, 15, 9, 0),
				floating(2024, time.April, 15, 9, 0),
				floating(2024, time.July, 15, 9, 0),
				floating(2024, time.October, 15, 9, 0),
			},
		},
		{
			name:  "every five hours",
			rule:  "FREQ=HOURLY;INTERVAL=5",
			ref:   floating(2024, time.January, 1, 0, 0),
			start: floating(2024, time.January, 3, 0, 0),
			end:   floating(2024, time.January, 3, 12, 0),
			expected: []datetime.DateTime{
				floating(2024, time.January, 3, 2, 0),
				floating(2024, time.January, 3, 7, 0),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := evaluate(t, tt.rule, tt.ref, tt.start, tt.end)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestEvaluator_IncludeReference(t *testing.T) {
	e := NewEvaluator(mustPattern(t, "FREQ=MONTHLY;BYMONTHDAY=15;COUNT=3"))
	ref := datetime.NewDate(2024, time.January, 10)

	periods, err := e.Evaluate(ref, datetime.DateTime{}, datetime.DateTime{}, true)
	require.NoError(t, err)
	assert.Equal(t, []datetime.DateTime{
		datetime.NewDate(2024, time.January, 10),
		datetime.NewDate(2024, time.January, 15),
		datetime.NewDate(2024, time.February, 15),
	}, starts(periods))

	periods, err = e.Evaluate(ref, datetime.DateTime{}, datetime.DateTime{}, false)
	require.NoError(t, err)
	assert.Len(t, periods, 3)
	assert.Equal(t, datetime.NewDate(2024, time.March, 15), periods[2].Start())
}

func TestEvaluator_SingularWindow(t *testing.T) {
	ref := floating(2024, time.January, 1, 9, 0)

	got := evaluate(t, "FREQ=DAILY", ref, floating(2024, time.January, 3, 9, 0), floating(2024, time.January, 3, 9, 0))
	assert.Equal(t, []datetime.DateTime{floating(2024, time.January, 3, 9, 0)}, got)

	got = evaluate(t, "FREQ=DAILY", ref, floating(2024, time.January, 3, 10, 0), floating(2024, time.January, 3, 10, 0))
	assert.Empty(t, got)
}

func TestEvaluator_Idempotent(t *testing.T) {
	e := NewEvaluator(mustPattern(t, "FREQ=MONTHLY;BYDAY=MO,FR;BYSETPOS=1,-1"))
	ref := floating(2024, time.January, 1, 9, 0)
	start, end := floating(2024, time.January, 1, 0, 0), floating(2025, time.January, 1, 0, 0)

	first, err := e.Evaluate(ref, start, end, false)
	require.NoError(t, err)
	second, err := e.Evaluate(ref, start, end, false)
	require.NoError(t, err)
	assert.Len(t, first, 24)
	assert.Equal(t, first, second)
}

func TestEvaluator_WindowMonotonic(t *testing.T) {
	e := NewEvaluator(mustPattern(t, "FREQ=WEEKLY;BYDAY=TU,TH;BYHOUR=8,17"))
	ref := floating(2024, time.January, 2, 8, 0)

	small, err := e.Evaluate(ref, floating(2024, time.February, 1, 0, 0), floating(2024, time.March, 1, 0, 0), false)
	require.NoError(t, err)
	large, err := e.Evaluate(ref, floating(2024, time.January, 1, 0, 0), floating(2024, time.June, 1, 0, 0), false)
	require.NoError(t, err)

	require.NotEmpty(t, small)
	assert.Subset(t, starts(large), starts(small))
	assert.Greater(t, len(large), len(small))
}

func TestEvaluator_Errors(t *testing.T) {
	ref := floating(2024, time.January, 31, 9, 0)

	t.Run("interval zero", func(t *testing.T) {
		p := NewPattern(Daily)
		p.Interval = 0
		_, err := NewEvaluator(p).Evaluate(ref, datetime.DateTime{}, datetime.DateTime{}, false)
		assert.ErrorIs(t, err, ErrInvalidPattern)
	})

	t.Run("missing reference", func(t *testing.T) {
		_, err := NewEvaluator(NewPattern(Daily)).Evaluate(datetime.DateTime{}, datetime.DateTime{}, datetime.DateTime{}, false)
		assert.ErrorIs(t, err, ErrEvaluation)
	})

	t.Run("impossible rule with limit", func(t *testing.T) {
		e := NewEvaluator(mustPattern(t, "FREQ=YEARLY;BYMONTH=2;BYMONTHDAY=31"),
			WithOptions(EvaluationOptions{MaxUnmatchedIncrementsLimit: 10}))
		_, err := e.Evaluate(ref, datetime.DateTime{}, datetime.DateTime{}, false)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrEvaluationLimitExceeded)
		assert.ErrorIs(t, err, ErrEvaluation)

		var limitErr *LimitExceededError
		require.True(t, errors.As(err, &limitErr))
		assert.Equal(t, 10, limitErr.Limit)
		assert.Equal(t, 2034, limitErr.Seed.Year())
	})

	t.Run("impossible rule without limit stops", func(t *testing.T) {
		e := NewEvaluator(mustPattern(t, "FREQ=YEARLY;BYMONTH=2;BYMONTHDAY=31;COUNT=1"))
		periods, err := e.Evaluate(ref, datetime.DateTime{}, datetime.DateTime{}, false)
		require.NoError(t, err)
		assert.Empty(t, periods)
	})

	t.Run("impossible rule in bounded window", func(t *testing.T) {
		e := NewEvaluator(mustPattern(t, "FREQ=MONTHLY;BYMONTH=2;BYMONTHDAY=30"))
		periods, err := e.Evaluate(ref, floating(2024, time.January, 1, 0, 0), floating(2030, time.January, 1, 0, 0), false)
		require.NoError(t, err)
		assert.Empty(t, periods)
	})

	t.Run("out of range", func(t *testing.T) {
		e := NewEvaluator(mustPattern(t, "FREQ=YEARLY"))
		_, err := e.Evaluate(datetime.NewDate(9998, time.June, 1), datetime.DateTime{}, datetime.DateTime{}, false)
		assert.ErrorIs(t, err, ErrEvaluationOutOfRange)
		assert.ErrorIs(t, err, ErrEvaluation)
	})
}

func TestEvaluator_PeriodsStopsEarly(t *testing.T) {
	e := NewEvaluator(mustPattern(t, "FREQ=DAILY"))
	var got []datetime.DateTime
	for p, err := range e.Periods(floating(2024, time.January, 1, 9, 0), datetime.DateTime{}, datetime.DateTime{}, false) {
		require.NoError(t, err)
		got = append(got, p.Start())
		if len(got) == 3 {
			break
		}
	}
	assert.Len(t, got, 3)
}

func TestEvaluator_Logger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	e := NewEvaluator(mustPattern(t, "FREQ=DAILY"), WithLogger(logger))
	_, err := e.Evaluate(floating(2000, time.January, 1, 9, 0), floating(2024, time.January, 1, 0, 0), floating(2024, time.January, 2, 0, 0), false)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "fast-forwarded recurrence seed")
}

func TestEvaluator_MatchesRRuleGo(t *testing.T) {
	rules := []string{
		"FREQ=DAILY;INTERVAL=2;COUNT=10",
		"FREQ=WEEKLY;COUNT=10;WKST=SU;BYDAY=TU,TH",
		"FREQ=MONTHLY;COUNT=10;BYDAY=1FR",
		"FREQ=MONTHLY;COUNT=6;BYMONTHDAY=-1",
		"FREQ=MONTHLY;COUNT=10;BYDAY=MO,TU,WE,TH,FR;BYSETPOS=-2",
		"FREQ=MONTHLY;COUNT=10;BYDAY=-2MO",
		"FREQ=YEARLY;COUNT=10;BYMONTH=1,2;BYDAY=MO",
		"FREQ=YEARLY;COUNT=4;BYDAY=20MO",
		"FREQ=YEARLY;COUNT=6;BYMONTH=6,7;BYHOUR=9,18",
		"FREQ=HOURLY;INTERVAL=3;COUNT=10",
		"FREQ=MINUTELY;INTERVAL=90;COUNT=6",
	}

	for _, rule := range rules {
		t.Run(rule, func(t *testing.T) {
			want, err := rrule.StrToRRule("DTSTART:19970902T090000Z\nRRULE:" + rule)
			require.NoError(t, err)

			got := evaluate(t, rule, datetime.NewUTC(1997, time.September, 2, 9, 0, 0), datetime.DateTime{}, datetime.DateTime{})

			var wantText, gotText []string
			for _, tm := range want.All() {
				wantText = append(wantText, tm.UTC().Format(time.RFC3339))
			}
			for _, dt := range got {
				gotText = append(gotText, dt.Time().UTC().Format(time.RFC3339))
			}
			assert.Equal(t, wantText, gotText)
		})
	}
}
