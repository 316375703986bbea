package calmath

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDaysInMonth(t *testing.T) {
	assert.Equal(t, 29, DaysInMonth(2024, time.February))
	assert.Equal(t, 28, DaysInMonth(2023, time.February))
	assert.Equal(t, 31, DaysInMonth(2024, time.December))
	assert.Equal(t, 30, DaysInMonth(2024, time.April))
	assert.Equal(t, 366, DaysInYear(2000))
	assert.Equal(t, 365, DaysInYear(1900))
}

func TestWeekOfYear(t *testing.T) {
	tests := []struct {
		name      string
		date      time.Time
		weekStart time.Weekday
		wantYear  int
		wantWeek  int
	}{
		{"ISO week 1 starts in previous year", time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC), time.Monday, 2025, 1},
		{"first day of 2021 is in week 53 of 2020", time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC), time.Monday, 2020, 53},
		{"mid year", time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC), time.Monday, 2024, 20},
		{"sunday week start", time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC), time.Sunday, 2024, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			year, week := WeekOfYear(tt.date, tt.weekStart)
			assert.Equal(t, tt.wantYear, year)
			assert.Equal(t, tt.wantWeek, week)
		})
	}
}

func TestWeekOfYearMatchesISO(t *testing.T) {
	day := time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3000; i++ {
		wantYear, wantWeek := day.ISOWeek()
		year, week := WeekOfYear(day, time.Monday)
		if !assert.Equal(t, wantYear, year, day.String()) || !assert.Equal(t, wantWeek, week, day.String()) {
			return
		}
		day = day.AddDate(0, 0, 1)
	}
}

func TestWeeksInYear(t *testing.T) {
	assert.Equal(t, 53, WeeksInYear(2020, time.Monday))
	assert.Equal(t, 52, WeeksInYear(2024, time.Monday))
	assert.Equal(t, 53, WeeksInYear(2026, time.Monday))
	assert.Equal(t, time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC), WeekStartDate(2025, 1, time.Monday))
}

func TestNormalizeOrdinal(t *testing.T) {
	v, ok := NormalizeOrdinal(-1, 29)
	assert.True(t, ok)
	assert.Equal(t, 29, v)

	_, ok = NormalizeOrdinal(30, 29)
	assert.False(t, ok)

	_, ok = NormalizeOrdinal(0, 29)
	assert.False(t, ok)
}

func TestSelectOffset(t *testing.T) {
	items := []string{"a", "b", "c"}

	got, ok := SelectOffset(items, 2)
	assert.True(t, ok)
	assert.Equal(t, "b", got)

	got, ok = SelectOffset(items, -1)
	assert.True(t, ok)
	assert.Equal(t, "c", got)

	_, ok = SelectOffset(items, 4)
	assert.False(t, ok)
}

func TestStartOfWeek(t *testing.T) {
	wed := time.Date(2024, 1, 3, 9, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC), StartOfWeek(wed, time.Monday))
	assert.Equal(t, time.Date(2023, 12, 31, 9, 30, 0, 0, time.UTC), StartOfWeek(wed, time.Sunday))
}
