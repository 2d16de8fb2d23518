package database

import (
	"time"

	"github.com/zapponejosh/cyclecal-api/internal/calendar"
)

// Profile is a user's stored cycle configuration.
type Profile struct {
	UserID    string               `json:"user_id"`
	Config    calendar.CycleConfig `json:"config"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
}

// PredictionRun records one generation of predictions for a user.
type PredictionRun struct {
	ID          int64     `json:"id"`
	UserID      string    `json:"user_id"`
	RangeStart  time.Time `json:"range_start"`
	RangeEnd    time.Time `json:"range_end"`
	PhaseDays   int       `json:"phase_days"`
	WindowDays  int       `json:"window_days"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Predictions is the generated data for one user and range, as written by
// ReplacePredictions.
type Predictions struct {
	GeneratedAt    time.Time
	From           time.Time
	To             time.Time
	Phases         calendar.PhaseMap
	WideningWindow calendar.DaySet
}
