package commands

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zapponejosh/cyclecal-api/internal/calendar"
	"github.com/zapponejosh/cyclecal-api/internal/database"
	"github.com/zapponejosh/cyclecal-api/internal/logger"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--no-color"}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestPhasesCommand(t *testing.T) {
	out, err := execute(t, "phases")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 8)
	assert.Contains(t, out, "menstrual_moon")
	assert.Contains(t, out, "Waning Moon")
}

func TestMonthCommand_Regular(t *testing.T) {
	out, err := execute(t, "month", "2024-09",
		"--kind", "regular", "--last-period", "2024-09-01", "--cycle-length", "28")
	require.NoError(t, err)

	assert.Contains(t, out, "September 2024")
	assert.True(t, strings.Contains(out, "   Su   Mo"), "grid should start on Sunday:\n%s", out)
	assert.Contains(t, out, " 1m ")
	assert.Contains(t, out, "Menstrual")
	assert.Contains(t, out, "Luteal")
	assert.NotContains(t, out, "widening window")
}

func TestMonthCommand_MondayStart(t *testing.T) {
	out, err := execute(t, "--week-start", "monday", "month", "2024-09")
	require.NoError(t, err)

	assert.True(t, strings.Contains(out, "   Mo   Tu"), "grid should start on Monday:\n%s", out)
	assert.Contains(t, out, "26")
}

func TestMonthCommand_WideningWindow(t *testing.T) {
	out, err := execute(t, "month", "2024-09",
		"--kind", "irregular", "--last-period", "2024-08-01", "--cycle-length", "30", "--widening")
	require.NoError(t, err)

	// Projected start 2024-08-31 widened by two days either side.
	assert.Contains(t, out, " 1m~")
	assert.Contains(t, out, " 2m~")
	assert.NotContains(t, out, " 3m~")
	assert.Contains(t, out, "widening window")
}

func TestMonthCommand_Moon(t *testing.T) {
	out, err := execute(t, "month", "2024-09", "--kind", "no_period", "--moon")
	require.NoError(t, err)

	assert.Contains(t, out, "Full Moon")
	assert.NotContains(t, out, "Menstrual\n")
}

func TestMonthCommand_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"bad month", []string{"month", "2024-13"}, "YYYY-MM"},
		{"bad kind", []string{"month", "--kind", "sometimes"}, "sometimes"},
		{"bad date", []string{"month", "--last-period", "09/01/2024"}, "YYYY-MM-DD"},
		{"user without db", []string{"month", "--user", "u1"}, "--user requires --db"},
		{"db without user", []string{"month", "--db", filepath.Join(t.TempDir(), "x.db")}, "--db requires --user"},
		{"bad week start", []string{"--week-start", "friday", "phases"}, "friday"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestMonthCommand_StoredProfile(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cyclecal.db")
	ctx := context.Background()

	db, err := database.Open(database.DefaultConfig(dbPath), logger.Discard())
	require.NoError(t, err)
	_, err = db.Migrate(ctx)
	require.NoError(t, err)

	start, err := calendar.ParseDateString("2024-09-01")
	require.NoError(t, err)
	require.NoError(t, db.UpsertProfile(ctx, &database.Profile{
		UserID: "user-1",
		Config: calendar.CycleConfig{CycleKind: calendar.CycleKindIrregular, LastPeriodStart: &start},
	}))
	_, err = db.ReplacePredictions(ctx, "user-1", database.Predictions{
		From:   start,
		To:     start.AddDate(0, 0, 29),
		Phases: calendar.PhaseMap{"2024-09-01": calendar.PhaseMenstrual},
	})
	require.NoError(t, err)
	require.NoError(t, db.Close())

	out, err := execute(t, "month", "2024-09", "--db", dbPath, "--user", "user-1")
	require.NoError(t, err)
	assert.Contains(t, out, " 1m ")
	// Irregular days without a stored phase fall back to follicular.
	assert.Contains(t, out, " 2f ")

	_, err = execute(t, "month", "2024-09", "--db", dbPath, "--user", "ghost")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no profile")
}

func TestDayCommand(t *testing.T) {
	out, err := execute(t, "day", "2024-09-02",
		"--kind", "regular", "--last-period", "2024-09-01")
	require.NoError(t, err)
	assert.Contains(t, out, "2024-09-02 (Monday)")
	assert.Contains(t, out, "Menstrual")

	out, err = execute(t, "day", "2024-08-31",
		"--kind", "regular", "--last-period", "2024-09-01")
	require.NoError(t, err)
	assert.Contains(t, out, "Phase:           none")

	_, err = execute(t, "day", "2024-9-2")
	require.Error(t, err)
}

func TestPhaseMark(t *testing.T) {
	assert.Equal(t, " ", phaseMark(calendar.PhaseNone))
	assert.Equal(t, "o", phaseMark(calendar.PhaseOvulatory))
	assert.Equal(t, "L", phaseMark(calendar.PhaseLutealMoon))
}
