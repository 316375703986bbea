package datetime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeriod_End(t *testing.T) {
	start := NewFloating(2024, time.January, 1, 9, 0, 0)

	p, err := NewPeriodWithDuration(start, Duration{Hours: 1})
	require.NoError(t, err)
	end, ok := p.End().Get()
	require.True(t, ok)
	assert.Equal(t, NewFloating(2024, time.January, 1, 10, 0, 0), end)

	p, err = NewPeriodWithEnd(start, NewFloating(2024, time.January, 2, 9, 30, 0))
	require.NoError(t, err)
	dur, ok := p.Duration().Get()
	require.True(t, ok)
	assert.Equal(t, Duration{Days: 1, Minutes: 30}, dur)

	_, err = NewPeriodWithEnd(start, NewFloating(2023, time.December, 31, 0, 0, 0))
	assert.ErrorIs(t, err, ErrInvalidPeriod)

	_, err = NewPeriodWithDuration(NewDate(2024, time.January, 1), Duration{Hours: 1})
	assert.ErrorIs(t, err, ErrDateOnlyArithmetic)

	bare := NewPeriod(start)
	assert.False(t, bare.HasEnd())
	assert.False(t, bare.End().IsPresent())
	assert.True(t, bare.WithDuration(Duration{Minutes: 5}).HasEnd())
}

func TestPeriod_ContainsAndCollides(t *testing.T) {
	morning, err := NewPeriodWithEnd(NewFloating(2024, time.January, 1, 9, 0, 0), NewFloating(2024, time.January, 1, 12, 0, 0))
	require.NoError(t, err)
	noon, err := NewPeriodWithDuration(NewFloating(2024, time.January, 1, 11, 0, 0), Duration{Hours: 2})
	require.NoError(t, err)
	afternoon, err := NewPeriodWithDuration(NewFloating(2024, time.January, 1, 12, 0, 0), Duration{Hours: 2})
	require.NoError(t, err)

	assert.True(t, morning.Contains(NewFloating(2024, time.January, 1, 9, 0, 0)))
	assert.False(t, morning.Contains(NewFloating(2024, time.January, 1, 12, 0, 0)))
	assert.True(t, morning.CollidesWith(noon))
	assert.False(t, morning.CollidesWith(afternoon))

	moment := NewPeriod(NewFloating(2024, time.January, 1, 10, 0, 0))
	assert.True(t, moment.CollidesWith(morning))
	assert.True(t, morning.CollidesWith(moment))
}

func TestSortPeriods(t *testing.T) {
	a := NewPeriod(NewFloating(2024, time.January, 3, 9, 0, 0))
	b := NewPeriod(NewFloating(2024, time.January, 1, 9, 0, 0))
	c := NewPeriod(NewFloating(2024, time.January, 2, 9, 0, 0))

	sorted := SortPeriods([]Period{a, b, c, a, b})
	require.Len(t, sorted, 3)
	assert.Equal(t, []DateTime{b.Start(), c.Start(), a.Start()}, sorted.Starts())

	sorted = sorted.Add(c)
	assert.Len(t, sorted, 3)
	sorted = sorted.Add(NewPeriod(NewFloating(2024, time.January, 2, 12, 0, 0)))
	require.Len(t, sorted, 4)
	assert.Equal(t, 12, sorted[2].Start().Hour())
}

func TestParsePeriod(t *testing.T) {
	p, err := ParsePeriod("19970101T180000Z/PT5H30M", nil)
	require.NoError(t, err)
	assert.Equal(t, "19970101T180000Z/PT5H30M", p.String())

	p, err = ParsePeriod("19970101T180000Z/19970102T070000Z", nil)
	require.NoError(t, err)
	end, ok := p.End().Get()
	require.True(t, ok)
	assert.Equal(t, NewUTC(1997, time.January, 2, 7, 0, 0), end)

	_, err = ParsePeriod("19970101T180000Z", nil)
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}
