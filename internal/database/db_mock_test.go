package database

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zapponejosh/cyclecal-api/internal/calendar"
)

// mockDB wraps a sqlmock connection for failure paths SQLite won't produce
// on demand.
func mockDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	return &DB{DB: sqlDB, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}, mock
}

func TestReplacePredictions_RollsBackOnInsertFailure(t *testing.T) {
	db, mock := mockDB(t)
	diskErr := errors.New("disk I/O error")

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM phase_predictions")).
		WithArgs("user-1").
		WillReturnResult(sqlmock.NewResult(0, 12))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM widening_window_days")).
		WithArgs("user-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectPrepare(regexp.QuoteMeta("INSERT INTO phase_predictions")).
		ExpectExec().
		WithArgs("user-1", "2024-09-01", "menstrual").
		WillReturnError(diskErr)
	mock.ExpectRollback()

	run, err := db.ReplacePredictions(context.Background(), "user-1", Predictions{
		From:   mustDate(t, "2024-09-01"),
		To:     mustDate(t, "2024-09-30"),
		Phases: calendar.PhaseMap{"2024-09-01": calendar.PhaseMenstrual},
	})

	require.ErrorIs(t, err, diskErr)
	assert.Nil(t, run)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertProfiles_RollsBackOnStorageFailure(t *testing.T) {
	db, mock := mockDB(t)
	lockErr := errors.New("database is locked")

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO cycle_profiles")).
		WithArgs("first", "regular", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), false, false).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO cycle_profiles")).
		WithArgs("second", "regular", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), false, false).
		WillReturnError(lockErr)
	mock.ExpectRollback()

	err := db.UpsertProfiles(context.Background(), []*Profile{
		{UserID: "first", Config: calendar.CycleConfig{CycleKind: calendar.CycleKindRegular}},
		{UserID: "second", Config: calendar.CycleConfig{CycleKind: calendar.CycleKindRegular}},
	})

	require.ErrorIs(t, err, lockErr)
	assert.Contains(t, err.Error(), `profile "second"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProfile_QueryError(t *testing.T) {
	db, mock := mockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM cycle_profiles")).
		WithArgs("user-1").
		WillReturnError(errors.New("database is locked"))

	_, err := db.GetProfile(context.Background(), "user-1")

	require.Error(t, err)
	assert.False(t, IsNotFound(err), "a query failure is not a missing profile")
	assert.Contains(t, err.Error(), "query profile")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetLatestRun_NoRows(t *testing.T) {
	db, mock := mockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM prediction_runs")).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "range_start", "range_end", "phase_days", "window_days", "generated_at",
		}))

	_, err := db.GetLatestRun(context.Background(), "user-1")

	assert.True(t, IsNotFound(err), "err = %v, want not found", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHealth_QueryFails(t *testing.T) {
	db, mock := mockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1")).WillReturnError(errors.New("no connection"))

	err := db.Health(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "database query failed")
}
