package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsWideningWindow_Scenario(t *testing.T) {
	cfg := CycleConfig{CycleKind: CycleKindIrregular}
	candidates := NewDaySet(day("2024-09-10"), day("2024-09-11"))

	assert.True(t, IsWideningWindow(day("2024-09-10"), cfg, candidates, true))
	assert.True(t, IsWideningWindow(day("2024-09-11"), cfg, candidates, true))
	assert.False(t, IsWideningWindow(day("2024-09-12"), cfg, candidates, true))
}

func TestIsWideningWindow_IgnoresTimeOfDay(t *testing.T) {
	cfg := CycleConfig{CycleKind: CycleKindIrregular}
	candidates := NewDaySet(day("2024-09-10"))

	evening := time.Date(2024, time.September, 10, 22, 45, 0, 0, time.UTC)
	assert.True(t, IsWideningWindow(evening, cfg, candidates, true))
}

func TestIsWideningWindow_NotLoaded(t *testing.T) {
	cfg := CycleConfig{CycleKind: CycleKindIrregular}
	candidates := NewDaySet(day("2024-09-10"))

	assert.False(t, IsWideningWindow(day("2024-09-10"), cfg, candidates, false))
}

func TestIsWideningWindow_OnlyIrregular(t *testing.T) {
	candidates := NewDaySet(day("2024-09-10"))

	configs := map[string]CycleConfig{
		"regular":               {CycleKind: CycleKindRegular, WideningWindowEnabled: true},
		"no period symptomatic": {CycleKind: CycleKindNoPeriod, HasRecurringSymptoms: boolPtr(true), WideningWindowEnabled: true},
		"no period moon":        {CycleKind: CycleKindNoPeriod, HasRecurringSymptoms: boolPtr(false), UsesMoonCycle: true},
		"no period unknown":     {CycleKind: CycleKindNoPeriod},
	}

	for name, cfg := range configs {
		t.Run(name, func(t *testing.T) {
			assert.False(t, cfg.WideningWindowApplies())
			assert.False(t, IsWideningWindow(day("2024-09-10"), cfg, candidates, true))
		})
	}
}

func TestIsWideningWindow_NilCandidates(t *testing.T) {
	cfg := CycleConfig{CycleKind: CycleKindIrregular}
	assert.False(t, IsWideningWindow(day("2024-09-10"), cfg, nil, true))
}

func TestDaySet(t *testing.T) {
	s := NewDaySet(day("2024-09-11"), day("2024-09-10"))
	s.Add(time.Date(2024, time.September, 10, 23, 0, 0, 0, time.UTC))

	require.Equal(t, 2, s.Len())
	sorted := s.Sorted()
	assert.Equal(t, "2024-09-10", FormatDate(sorted[0]))
	assert.Equal(t, "2024-09-11", FormatDate(sorted[1]))
}

func TestCycleConfig_Classification(t *testing.T) {
	moon := CycleConfig{CycleKind: CycleKindNoPeriod, HasRecurringSymptoms: boolPtr(false)}
	assert.True(t, moon.IsMoonBased())
	assert.False(t, moon.IsSymptomatic())

	symptomatic := CycleConfig{CycleKind: CycleKindNoPeriod, HasRecurringSymptoms: boolPtr(true)}
	assert.False(t, symptomatic.IsMoonBased())
	assert.True(t, symptomatic.IsSymptomatic())

	regularWithMoonFlag := CycleConfig{CycleKind: CycleKindRegular, UsesMoonCycle: true}
	assert.False(t, regularWithMoonFlag.IsMoonBased())
}

func TestCycleConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     CycleConfig
		wantErr bool
	}{
		{"minimal", CycleConfig{CycleKind: CycleKindRegular}, false},
		{"full", CycleConfig{CycleKind: CycleKindIrregular, CycleLengthDays: intPtr(32), PeriodLengthDays: intPtr(6)}, false},
		{"bad kind", CycleConfig{CycleKind: "sometimes"}, true},
		{"cycle too short", CycleConfig{CycleKind: CycleKindRegular, CycleLengthDays: intPtr(10)}, true},
		{"period too long", CycleConfig{CycleKind: CycleKindRegular, PeriodLengthDays: intPtr(20)}, true},
		{"cycle too long", CycleConfig{CycleKind: CycleKindRegular, CycleLengthDays: intPtr(120)}, true},
		{"period zero", CycleConfig{CycleKind: CycleKindRegular, PeriodLengthDays: intPtr(0)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
