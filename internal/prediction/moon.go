package prediction

import (
	"math"
	"time"

	"github.com/zapponejosh/cyclecal-api/internal/calendar"
)

// SynodicMonth is the mean length of a lunation in days.
const SynodicMonth = 29.530588853

// referenceNewMoon is the new moon of 6 January 2000, 18:14 UTC.
var referenceNewMoon = time.Date(2000, time.January, 6, 18, 14, 0, 0, time.UTC)

// MoonAge returns the age of the moon in days (0 up to SynodicMonth) at noon
// UTC on the civil date of t.
//
// This is the mean-lunation approximation; it can be off by up to about a
// day from the true phase, which is fine for a daily calendar.
func MoonAge(t time.Time) float64 {
	noon := calendar.DateOnly(t).Add(12 * time.Hour)
	days := noon.Sub(referenceNewMoon).Hours() / 24
	age := math.Mod(days, SynodicMonth)
	if age < 0 {
		age += SynodicMonth
	}
	return age
}

// MoonPhase maps the lunar age on t to a moon-based cycle phase.
// Each phase covers a quarter of the lunation centred on the new moon,
// first quarter, full moon and last quarter respectively.
func MoonPhase(t time.Time) calendar.Phase {
	fraction := MoonAge(t) / SynodicMonth

	switch {
	case fraction < 0.125 || fraction >= 0.875:
		return calendar.PhaseMenstrualMoon
	case fraction < 0.375:
		return calendar.PhaseFollicularMoon
	case fraction < 0.625:
		return calendar.PhaseOvulatoryMoon
	default:
		return calendar.PhaseLutealMoon
	}
}
