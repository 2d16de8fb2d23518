package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(s string) time.Time {
	d, err := ParseDateString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func timePtr(t time.Time) *time.Time { return &t }
func intPtr(n int) *int              { return &n }
func boolPtr(b bool) *bool           { return &b }

func TestResolvePhase_BeforeTrackingStarted(t *testing.T) {
	cfg := CycleConfig{CycleKind: CycleKindRegular, LastPeriodStart: timePtr(day("2024-09-01"))}
	lookup := PhaseMap{"2024-08-31": PhaseLuteal}

	phase, ok := ResolvePhase(day("2024-08-31"), cfg, lookup)
	assert.False(t, ok, "dates before the last period start get no phase even with lookup data")
	assert.Equal(t, PhaseNone, phase)
}

func TestResolvePhase_StartOfDayComparison(t *testing.T) {
	// Last period began in the afternoon; the morning of that day still counts.
	start := time.Date(2024, time.September, 1, 15, 30, 0, 0, time.UTC)
	cfg := CycleConfig{CycleKind: CycleKindRegular, LastPeriodStart: &start}

	phase, ok := ResolvePhase(time.Date(2024, time.September, 1, 8, 0, 0, 0, time.UTC), cfg, nil)
	assert.True(t, ok)
	assert.Equal(t, PhaseFollicular, phase)
}

func TestResolvePhase_LookupWins(t *testing.T) {
	cfg := CycleConfig{CycleKind: CycleKindRegular, LastPeriodStart: timePtr(day("2024-09-01"))}
	lookup := PhaseMap{}
	lookup.Set(day("2024-09-03"), PhaseMenstrual)
	lookup.Set(day("2024-09-20"), PhaseOvulatoryMoon)

	phase, ok := ResolvePhase(day("2024-09-03"), cfg, lookup)
	assert.True(t, ok)
	assert.Equal(t, PhaseMenstrual, phase)

	// Returned verbatim, even a moon phase for a bleeding-based profile.
	phase, _ = ResolvePhase(day("2024-09-20"), cfg, lookup)
	assert.Equal(t, PhaseOvulatoryMoon, phase)
}

func TestResolvePhase_Fallback(t *testing.T) {
	tests := []struct {
		name   string
		cfg    CycleConfig
		lookup PhaseLookup
	}{
		{"nil lookup, no start", CycleConfig{CycleKind: CycleKindIrregular}, nil},
		{"empty map", CycleConfig{CycleKind: CycleKindRegular}, PhaseMap{}},
		{"func miss", CycleConfig{CycleKind: CycleKindNoPeriod}, PhaseLookupFunc(func(time.Time) (Phase, bool) {
			return PhaseNone, false
		})},
		{"after start", CycleConfig{CycleKind: CycleKindRegular, LastPeriodStart: timePtr(day("2024-01-01"))}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			phase, ok := ResolvePhase(day("2024-09-02"), tt.cfg, tt.lookup)
			assert.True(t, ok)
			assert.Equal(t, PhaseFollicular, phase)
		})
	}
}

func TestResolvePhase_Scenario(t *testing.T) {
	cfg := CycleConfig{CycleKind: CycleKindRegular, LastPeriodStart: timePtr(day("2024-09-01"))}

	_, ok := ResolvePhase(day("2024-08-31"), cfg, nil)
	assert.False(t, ok)

	phase, ok := ResolvePhase(day("2024-09-02"), cfg, nil)
	assert.True(t, ok)
	assert.Equal(t, PhaseFollicular, phase)
}

func TestPhaseCatalog(t *testing.T) {
	phases := Phases()
	assert.Len(t, phases, 8)

	seen := map[Phase]bool{}
	for _, info := range phases {
		assert.False(t, seen[info.Phase], "duplicate %s", info.Phase)
		seen[info.Phase] = true
		assert.Regexp(t, `^#[0-9A-F]{6}$`, info.Color)
		assert.NotEmpty(t, info.Icon)
		assert.Equal(t, info.Moon, info.Phase.IsMoon())
	}

	assert.Equal(t, PhaseLuteal, PhaseLutealMoon.Base())
	assert.Equal(t, PhaseMenstrual, PhaseMenstrual.Base())
	assert.False(t, PhaseNone.IsValid())

	_, err := ParsePhase("waxing")
	assert.Error(t, err)
	p, err := ParsePhase("ovulatory_moon")
	assert.NoError(t, err)
	assert.Equal(t, PhaseOvulatoryMoon, p)
}
