package calendar

import "time"

// DayAnnotation is a grid cell with its phase and widening-window flag,
// ready for a calendar renderer.
type DayAnnotation struct {
	Date             time.Time `json:"-"`
	DateString       string    `json:"date"`
	InCurrentMonth   bool      `json:"in_current_month"`
	WeekIndex        int       `json:"week_index"`
	WeekdayIndex     int       `json:"weekday_index"`
	Phase            Phase     `json:"phase,omitempty"`
	IsWideningWindow bool      `json:"is_widening_window"`
}

// HasPhase reports whether a phase was assigned.
func (a DayAnnotation) HasPhase() bool {
	return a.Phase != PhaseNone
}

// Inputs bundles everything the classifiers need for one user.
type Inputs struct {
	Config     CycleConfig
	Lookup     PhaseLookup
	Candidates DaySet
	DataLoaded bool
}

// AnnotateDay classifies a single cell.
func AnnotateDay(cell CalendarCell, in Inputs) DayAnnotation {
	phase, _ := ResolvePhase(cell.Date, in.Config, in.Lookup)
	return DayAnnotation{
		Date:             cell.Date,
		DateString:       FormatDate(cell.Date),
		InCurrentMonth:   cell.InCurrentMonth,
		WeekIndex:        cell.WeekIndex,
		WeekdayIndex:     cell.WeekdayIndex,
		Phase:            phase,
		IsWideningWindow: IsWideningWindow(cell.Date, in.Config, in.Candidates, in.DataLoaded),
	}
}

// AnnotateDate classifies a date outside of any grid.
func AnnotateDate(date time.Time, in Inputs) DayAnnotation {
	day := DateOnly(date)
	return AnnotateDay(CalendarCell{
		Date:           day,
		InCurrentMonth: true,
		WeekdayIndex:   int(day.Weekday()),
	}, in)
}

// AnnotateMonth builds the grid for (year, month) and classifies every cell.
// It panics on an invalid month, like BuildMonthGridFrom.
func AnnotateMonth(year int, month time.Month, weekStart time.Weekday, in Inputs) []DayAnnotation {
	cells := BuildMonthGridFrom(year, month, weekStart)
	days := make([]DayAnnotation, 0, len(cells))
	for _, cell := range cells {
		days = append(days, AnnotateDay(cell, in))
	}
	return days
}

// GridRange returns the first and last dates covered by the month grid.
func GridRange(year int, month time.Month, weekStart time.Weekday) (time.Time, time.Time) {
	cells := BuildMonthGridFrom(year, month, weekStart)
	return cells[0].Date, cells[len(cells)-1].Date
}
