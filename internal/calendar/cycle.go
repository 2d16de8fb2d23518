package calendar

import (
	"fmt"
	"time"
)

// CycleKind classifies how a user's cycle behaves.
type CycleKind string

const (
	CycleKindRegular   CycleKind = "regular"
	CycleKindIrregular CycleKind = "irregular"
	CycleKindNoPeriod  CycleKind = "no_period"
)

// ValidCycleKinds returns all valid cycle kinds.
func ValidCycleKinds() []CycleKind {
	return []CycleKind{
		CycleKindRegular,
		CycleKindIrregular,
		CycleKindNoPeriod,
	}
}

// IsValid checks if a cycle kind is valid.
func (k CycleKind) IsValid() bool {
	for _, valid := range ValidCycleKinds() {
		if k == valid {
			return true
		}
	}
	return false
}

// ParseCycleKind validates a cycle kind string.
func ParseCycleKind(s string) (CycleKind, error) {
	k := CycleKind(s)
	if !k.IsValid() {
		return "", fmt.Errorf("unknown cycle kind %q", s)
	}
	return k, nil
}

// CycleConfig is the read-only slice of a user profile the calendar needs.
// Nil pointers mean "unknown".
type CycleConfig struct {
	LastPeriodStart       *time.Time `json:"last_period_start,omitempty"`
	CycleLengthDays       *int       `json:"cycle_length_days,omitempty"`
	PeriodLengthDays      *int       `json:"period_length_days,omitempty"`
	CycleKind             CycleKind  `json:"cycle_kind"`
	HasRecurringSymptoms  *bool      `json:"has_recurring_symptoms,omitempty"`
	UsesMoonCycle         bool       `json:"uses_moon_cycle"`
	WideningWindowEnabled bool       `json:"widening_window_enabled"`
}

// WideningWindowApplies reports whether widening-window classification can
// ever be true for this configuration. Only irregular cycles qualify;
// symptomatic and moon-based no-period cycles are excluded.
func (c CycleConfig) WideningWindowApplies() bool {
	return c.CycleKind == CycleKindIrregular
}

// IsMoonBased reports whether phases for this profile follow the lunar
// cycle instead of bleeding or symptom dates.
func (c CycleConfig) IsMoonBased() bool {
	if c.CycleKind != CycleKindNoPeriod {
		return false
	}
	if c.UsesMoonCycle {
		return true
	}
	return c.HasRecurringSymptoms != nil && !*c.HasRecurringSymptoms
}

// IsSymptomatic reports whether a no-period profile tracks recurring symptoms.
func (c CycleConfig) IsSymptomatic() bool {
	return c.CycleKind == CycleKindNoPeriod &&
		!c.UsesMoonCycle &&
		c.HasRecurringSymptoms != nil && *c.HasRecurringSymptoms
}

// Validate checks field ranges. Missing fields are not errors.
func (c CycleConfig) Validate() error {
	if !c.CycleKind.IsValid() {
		return fmt.Errorf("cycle_kind must be one of regular, irregular, no_period; got %q", c.CycleKind)
	}
	if c.CycleLengthDays != nil && (*c.CycleLengthDays < 15 || *c.CycleLengthDays > 90) {
		return fmt.Errorf("cycle_length_days must be between 15 and 90, got %d", *c.CycleLengthDays)
	}
	if c.PeriodLengthDays != nil && (*c.PeriodLengthDays < 1 || *c.PeriodLengthDays > 14) {
		return fmt.Errorf("period_length_days must be between 1 and 14, got %d", *c.PeriodLengthDays)
	}
	return nil
}

// ProfileFields is the wire form of a CycleConfig, with the kind and date
// as plain strings. The API body and the import file both decode into it.
type ProfileFields struct {
	CycleKind             string  `json:"cycle_kind"`
	LastPeriodStart       *string `json:"last_period_start"`
	CycleLengthDays       *int    `json:"cycle_length_days"`
	PeriodLengthDays      *int    `json:"period_length_days"`
	HasRecurringSymptoms  *bool   `json:"has_recurring_symptoms"`
	UsesMoonCycle         bool    `json:"uses_moon_cycle"`
	WideningWindowEnabled bool    `json:"widening_window_enabled"`
}

// Config parses and validates the fields. An empty last_period_start is
// treated as unknown.
func (f ProfileFields) Config() (CycleConfig, error) {
	kind, err := ParseCycleKind(f.CycleKind)
	if err != nil {
		return CycleConfig{}, err
	}

	cfg := CycleConfig{
		CycleKind:             kind,
		CycleLengthDays:       f.CycleLengthDays,
		PeriodLengthDays:      f.PeriodLengthDays,
		HasRecurringSymptoms:  f.HasRecurringSymptoms,
		UsesMoonCycle:         f.UsesMoonCycle,
		WideningWindowEnabled: f.WideningWindowEnabled,
	}
	if f.LastPeriodStart != nil && *f.LastPeriodStart != "" {
		d, err := ParseDateString(*f.LastPeriodStart)
		if err != nil {
			return CycleConfig{}, fmt.Errorf("last_period_start must be YYYY-MM-DD, got %q", *f.LastPeriodStart)
		}
		cfg.LastPeriodStart = &d
	}
	if err := cfg.Validate(); err != nil {
		return CycleConfig{}, err
	}
	return cfg, nil
}
