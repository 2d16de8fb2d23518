package api

import (
	"time"

	"github.com/zapponejosh/cyclecal-api/internal/calendar"
	"github.com/zapponejosh/cyclecal-api/internal/database"
	"github.com/zapponejosh/cyclecal-api/internal/prediction"
)

// profileRequest is the body of PUT /api/v1/profiles/{userID}.
// Dates are plain YYYY-MM-DD strings.
type profileRequest struct {
	calendar.ProfileFields
}

type profileResponse struct {
	UserID                string       `json:"user_id"`
	CycleKind             string       `json:"cycle_kind"`
	LastPeriodStart       *string      `json:"last_period_start"`
	CycleLengthDays       *int         `json:"cycle_length_days"`
	PeriodLengthDays      *int         `json:"period_length_days"`
	HasRecurringSymptoms  *bool        `json:"has_recurring_symptoms"`
	UsesMoonCycle         bool         `json:"uses_moon_cycle"`
	WideningWindowEnabled bool         `json:"widening_window_enabled"`
	PredictionMode        string       `json:"prediction_mode"`
	CreatedAt             time.Time    `json:"created_at"`
	UpdatedAt             time.Time    `json:"updated_at"`
	LatestRun             *runResponse `json:"latest_run,omitempty"`
}

func newProfileResponse(p *database.Profile, run *database.PredictionRun) profileResponse {
	cfg := p.Config
	resp := profileResponse{
		UserID:                p.UserID,
		CycleKind:             string(cfg.CycleKind),
		CycleLengthDays:       cfg.CycleLengthDays,
		PeriodLengthDays:      cfg.PeriodLengthDays,
		HasRecurringSymptoms:  cfg.HasRecurringSymptoms,
		UsesMoonCycle:         cfg.UsesMoonCycle,
		WideningWindowEnabled: cfg.WideningWindowEnabled,
		PredictionMode:        string(prediction.ModeFor(cfg)),
		CreatedAt:             p.CreatedAt,
		UpdatedAt:             p.UpdatedAt,
	}
	if cfg.LastPeriodStart != nil {
		s := calendar.FormatDate(*cfg.LastPeriodStart)
		resp.LastPeriodStart = &s
	}
	if run != nil {
		r := newRunResponse(run)
		resp.LatestRun = &r
	}
	return resp
}

type runResponse struct {
	ID          int64     `json:"id"`
	GeneratedAt time.Time `json:"generated_at"`
	RangeStart  string    `json:"range_start"`
	RangeEnd    string    `json:"range_end"`
	PhaseDays   int       `json:"phase_days"`
	WindowDays  int       `json:"window_days"`
}

func newRunResponse(run *database.PredictionRun) runResponse {
	return runResponse{
		ID:          run.ID,
		GeneratedAt: run.GeneratedAt,
		RangeStart:  calendar.FormatDate(run.RangeStart),
		RangeEnd:    calendar.FormatDate(run.RangeEnd),
		PhaseDays:   run.PhaseDays,
		WindowDays:  run.WindowDays,
	}
}

type gridCell struct {
	Date           string `json:"date"`
	InCurrentMonth bool   `json:"in_current_month"`
	WeekIndex      int    `json:"week_index"`
	WeekdayIndex   int    `json:"weekday_index"`
}

type gridResponse struct {
	Year      int        `json:"year"`
	Month     int        `json:"month"`
	WeekStart string     `json:"week_start"`
	Weekdays  []string   `json:"weekdays"`
	Weeks     int        `json:"weeks"`
	Cells     []gridCell `json:"cells"`
}

type monthResponse struct {
	Year       int                      `json:"year"`
	Month      int                      `json:"month"`
	WeekStart  string                   `json:"week_start"`
	Weekdays   []string                 `json:"weekdays"`
	Weeks      int                      `json:"weeks"`
	DataLoaded bool                     `json:"data_loaded"`
	Days       []calendar.DayAnnotation `json:"days"`
}

type dayResponse struct {
	Date             string              `json:"date"`
	Weekday          string              `json:"weekday"`
	Phase            calendar.Phase      `json:"phase,omitempty"`
	PhaseInfo        *calendar.PhaseInfo `json:"phase_info,omitempty"`
	IsWideningWindow bool                `json:"is_widening_window"`
	DataLoaded       bool                `json:"data_loaded"`
}

// weekCount returns the number of rows in a grid of n cells.
func weekCount(n int) int {
	return n / 7
}
