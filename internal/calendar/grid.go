package calendar

import (
	"fmt"
	"time"
)

// MinWeekRows is the minimum number of week rows in a month grid.
// A February that starts on the first weekday spans exactly four weeks; the
// grid still shows five.
const MinWeekRows = 5

// CalendarCell is one day position in a month grid.
type CalendarCell struct {
	Date           time.Time `json:"date"`
	InCurrentMonth bool      `json:"in_current_month"`
	WeekIndex      int       `json:"week_index"`
	WeekdayIndex   int       `json:"weekday_index"` // 0-6, relative to the grid's first weekday
}

// ValidateMonth reports whether (year, month) can be passed to BuildMonthGrid.
func ValidateMonth(year int, month time.Month) error {
	if month < time.January || month > time.December {
		return fmt.Errorf("month must be between 1 and 12, got %d", int(month))
	}
	if year < 1 || year > 9999 {
		return fmt.Errorf("year must be between 1 and 9999, got %d", year)
	}
	return nil
}

// BuildMonthGrid returns the Sunday-first grid for the given month.
// It panics if the month is out of range; see ValidateMonth.
func BuildMonthGrid(year int, month time.Month) []CalendarCell {
	return BuildMonthGridFrom(year, month, time.Sunday)
}

// BuildMonthGridFrom returns the month grid with weeks starting on weekStart.
//
// The grid covers whole weeks from the week containing the 1st through the
// week containing the last day, padded with trailing weeks up to
// MinWeekRows. Padding days carry their real date with InCurrentMonth=false.
func BuildMonthGridFrom(year int, month time.Month, weekStart time.Weekday) []CalendarCell {
	if err := ValidateMonth(year, month); err != nil {
		panic("calendar: " + err.Error())
	}
	if weekStart < time.Sunday || weekStart > time.Saturday {
		panic(fmt.Sprintf("calendar: invalid week start %d", int(weekStart)))
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	gridStart := first.AddDate(0, 0, -weekdayOffset(first.Weekday(), weekStart))
	gridEnd := last.AddDate(0, 0, 6-weekdayOffset(last.Weekday(), weekStart))

	weeks := (DaysBetween(gridStart, gridEnd) + 1) / 7
	if weeks < MinWeekRows {
		weeks = MinWeekRows
	}

	cells := make([]CalendarCell, 0, weeks*7)
	for i := 0; i < weeks*7; i++ {
		day := gridStart.AddDate(0, 0, i)
		cells = append(cells, CalendarCell{
			Date:           day,
			InCurrentMonth: day.Year() == year && day.Month() == month,
			WeekIndex:      i / 7,
			WeekdayIndex:   i % 7,
		})
	}

	return cells
}

// weekdayOffset returns how many days d is past weekStart (0-6).
func weekdayOffset(d, weekStart time.Weekday) int {
	return (int(d) - int(weekStart) + 7) % 7
}

// ParseWeekStart parses "sunday" or "monday".
func ParseWeekStart(s string) (time.Weekday, error) {
	switch s {
	case "sunday", "Sunday", "":
		return time.Sunday, nil
	case "monday", "Monday":
		return time.Monday, nil
	default:
		return time.Sunday, fmt.Errorf("week start must be sunday or monday, got %q", s)
	}
}

// WeekdayLabels returns short weekday names in grid order.
func WeekdayLabels(weekStart time.Weekday) []string {
	labels := make([]string, 7)
	for i := range labels {
		labels[i] = time.Weekday((int(weekStart) + i) % 7).String()[:3]
	}
	return labels
}
