package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMonthGrid_LeapFebruary(t *testing.T) {
	cells := BuildMonthGrid(2024, time.February)

	require.NotEmpty(t, cells)
	assert.Zero(t, len(cells)%7, "cell count must be a multiple of 7")
	assert.GreaterOrEqual(t, len(cells), 35)

	inMonth := 0
	for _, c := range cells {
		if c.InCurrentMonth {
			inMonth++
			assert.Equal(t, time.February, c.Date.Month())
			assert.Equal(t, 2024, c.Date.Year())
		}
	}
	assert.Equal(t, 29, inMonth)

	// Feb 1 2024 is a Thursday, so the grid opens on Sunday Jan 28.
	assert.Equal(t, "2024-01-28", FormatDate(cells[0].Date))
	assert.False(t, cells[0].InCurrentMonth)
	assert.Equal(t, "2024-03-02", FormatDate(cells[len(cells)-1].Date))
}

func TestBuildMonthGrid_IndicesAndContiguity(t *testing.T) {
	cells := BuildMonthGrid(2024, time.September)

	for i, c := range cells {
		assert.Equal(t, i/7, c.WeekIndex, "cell %d", i)
		assert.Equal(t, i%7, c.WeekdayIndex, "cell %d", i)
		assert.Equal(t, time.Weekday(i%7), c.Date.Weekday(), "Sunday-first grid, cell %d", i)
		if i > 0 {
			assert.Equal(t, 1, DaysBetween(cells[i-1].Date, c.Date))
		}
	}
}

func TestBuildMonthGrid_MinimumFiveWeeks(t *testing.T) {
	// February 2015 starts on a Sunday and has 28 days: exactly four weeks.
	cells := BuildMonthGrid(2015, time.February)

	require.Len(t, cells, 35)
	assert.Equal(t, "2015-02-01", FormatDate(cells[0].Date))
	assert.True(t, cells[27].InCurrentMonth)
	for _, c := range cells[28:] {
		assert.False(t, c.InCurrentMonth)
		assert.Equal(t, 4, c.WeekIndex)
	}
}

func TestBuildMonthGrid_SixWeeks(t *testing.T) {
	// March 2025 starts on a Saturday and ends on a Monday.
	cells := BuildMonthGrid(2025, time.March)
	assert.Len(t, cells, 42)
}

func TestBuildMonthGrid_Idempotent(t *testing.T) {
	a := BuildMonthGrid(2024, time.December)
	b := BuildMonthGrid(2024, time.December)
	assert.Equal(t, a, b)
}

func TestBuildMonthGrid_InvalidMonthPanics(t *testing.T) {
	assert.Panics(t, func() { BuildMonthGrid(2024, 0) })
	assert.Panics(t, func() { BuildMonthGrid(2024, 13) })
	assert.Panics(t, func() { BuildMonthGrid(0, time.January) })
}

func TestBuildMonthGridFrom_MondayStart(t *testing.T) {
	cells := BuildMonthGridFrom(2024, time.September, time.Monday)

	// Sep 1 2024 is a Sunday: last column of the week starting Aug 26.
	assert.Equal(t, "2024-08-26", FormatDate(cells[0].Date))
	assert.Equal(t, time.Monday, cells[0].Date.Weekday())
	assert.Equal(t, 6, cells[6].WeekdayIndex)
	assert.True(t, cells[6].InCurrentMonth)
	assert.Zero(t, len(cells)%7)
}

func TestValidateMonth(t *testing.T) {
	tests := []struct {
		name    string
		year    int
		month   time.Month
		wantErr bool
	}{
		{"january", 2024, time.January, false},
		{"december", 2024, time.December, false},
		{"month zero", 2024, 0, true},
		{"month thirteen", 2024, 13, true},
		{"year zero", 0, time.June, true},
		{"year too large", 10000, time.June, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMonth(tt.year, tt.month)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseWeekStart(t *testing.T) {
	d, err := ParseWeekStart("monday")
	require.NoError(t, err)
	assert.Equal(t, time.Monday, d)

	d, err = ParseWeekStart("")
	require.NoError(t, err)
	assert.Equal(t, time.Sunday, d)

	_, err = ParseWeekStart("friday")
	assert.Error(t, err)
}

func TestWeekdayLabels(t *testing.T) {
	assert.Equal(t, []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}, WeekdayLabels(time.Sunday))
	assert.Equal(t, []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}, WeekdayLabels(time.Monday))
}
