package calendar

import "time"

// DefaultPhase is returned when neither the lookup nor the profile says
// anything about a tracked date.
//
// TODO: confirm with product whether an unknown day should stay follicular
// or render without a phase.
const DefaultPhase = PhaseFollicular

// ResolvePhase determines the phase shown for date. First match wins:
//
//  1. date before the day of cfg.LastPeriodStart: no phase
//  2. lookup has a phase for date: that phase, unchecked
//  3. DefaultPhase
//
// A nil lookup counts as "no data". Moon phases only ever come from lookup.
func ResolvePhase(date time.Time, cfg CycleConfig, lookup PhaseLookup) (Phase, bool) {
	if cfg.LastPeriodStart != nil && DateOnly(date).Before(DateOnly(*cfg.LastPeriodStart)) {
		return PhaseNone, false
	}

	if lookup != nil {
		if phase, ok := lookup.PhaseFor(date); ok {
			return phase, true
		}
	}

	return DefaultPhase, true
}
