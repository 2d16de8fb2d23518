package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/zapponejosh/cyclecal-api/internal/calendar"
)

// =============================================================================
// Helper Functions
// =============================================================================

// parseTimestamp parses a timestamp stored as SQLite TEXT.
// Returns nil if the value is empty or in no known format.
func parseTimestamp(ns sql.NullString) *time.Time {
	if !ns.Valid || ns.String == "" {
		return nil
	}

	for _, layout := range []string{
		time.RFC3339Nano,
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05.999999",
	} {
		if t, err := time.Parse(layout, ns.String); err == nil {
			return &t
		}
	}
	return nil
}

func parseDate(s string) (time.Time, error) {
	d, err := calendar.ParseDateString(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("stored date %q: %w", s, err)
	}
	return d, nil
}

func nullDate(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: calendar.DateKey(*t), Valid: true}
}

func nullInt(n *int) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*n), Valid: true}
}

func nullBool(b *bool) sql.NullBool {
	if b == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *b, Valid: true}
}

// =============================================================================
// Profile Queries
// =============================================================================

// UpsertProfile inserts or replaces the profile for p.UserID and reloads it,
// so timestamps reflect what was stored.
func (db *DB) UpsertProfile(ctx context.Context, p *Profile) error {
	if err := upsertProfile(ctx, db.DB, p); err != nil {
		return err
	}

	stored, err := db.GetProfile(ctx, p.UserID)
	if err != nil {
		return err
	}
	*p = *stored
	return nil
}

// UpsertProfiles stores every profile in one transaction. If any write
// fails, none of them are kept.
func (db *DB) UpsertProfiles(ctx context.Context, profiles []*Profile) error {
	return db.WithTx(ctx, func(tx *Tx) error {
		for _, p := range profiles {
			if err := upsertProfile(ctx, tx.Tx, p); err != nil {
				return fmt.Errorf("profile %q: %w", p.UserID, err)
			}
		}
		return nil
	})
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func upsertProfile(ctx context.Context, ex execer, p *Profile) error {
	if p.UserID == "" {
		return errors.New("user id is required")
	}
	if err := p.Config.Validate(); err != nil {
		return fmt.Errorf("invalid profile: %w", err)
	}

	query := `
		INSERT INTO cycle_profiles (
			user_id, cycle_kind, last_period_start,
			cycle_length_days, period_length_days,
			has_recurring_symptoms, uses_moon_cycle, widening_window_enabled
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			cycle_kind = excluded.cycle_kind,
			last_period_start = excluded.last_period_start,
			cycle_length_days = excluded.cycle_length_days,
			period_length_days = excluded.period_length_days,
			has_recurring_symptoms = excluded.has_recurring_symptoms,
			uses_moon_cycle = excluded.uses_moon_cycle,
			widening_window_enabled = excluded.widening_window_enabled,
			updated_at = datetime('now')
	`

	cfg := p.Config
	_, err := ex.ExecContext(ctx, query,
		p.UserID,
		string(cfg.CycleKind),
		nullDate(cfg.LastPeriodStart),
		nullInt(cfg.CycleLengthDays),
		nullInt(cfg.PeriodLengthDays),
		nullBool(cfg.HasRecurringSymptoms),
		cfg.UsesMoonCycle,
		cfg.WideningWindowEnabled,
	)
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

// GetProfile returns the profile for userID, or ErrNotFound.
func (db *DB) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	query := `
		SELECT
			user_id, cycle_kind, last_period_start,
			cycle_length_days, period_length_days,
			has_recurring_symptoms, uses_moon_cycle, widening_window_enabled,
			created_at, updated_at
		FROM cycle_profiles
		WHERE user_id = ?
	`

	var (
		p                          Profile
		kind                       string
		lastStart                  sql.NullString
		cycleLength, periodLen     sql.NullInt64
		symptoms                   sql.NullBool
		createdAtStr, updatedAtStr sql.NullString
	)

	err := db.QueryRowContext(ctx, query, userID).Scan(
		&p.UserID,
		&kind,
		&lastStart,
		&cycleLength,
		&periodLen,
		&symptoms,
		&p.Config.UsesMoonCycle,
		&p.Config.WideningWindowEnabled,
		&createdAtStr,
		&updatedAtStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query profile: %w", err)
	}

	p.Config.CycleKind = calendar.CycleKind(kind)
	if lastStart.Valid {
		d, err := parseDate(lastStart.String)
		if err != nil {
			return nil, err
		}
		p.Config.LastPeriodStart = &d
	}
	if cycleLength.Valid {
		n := int(cycleLength.Int64)
		p.Config.CycleLengthDays = &n
	}
	if periodLen.Valid {
		n := int(periodLen.Int64)
		p.Config.PeriodLengthDays = &n
	}
	if symptoms.Valid {
		b := symptoms.Bool
		p.Config.HasRecurringSymptoms = &b
	}
	if t := parseTimestamp(createdAtStr); t != nil {
		p.CreatedAt = *t
	}
	if t := parseTimestamp(updatedAtStr); t != nil {
		p.UpdatedAt = *t
	}

	return &p, nil
}

// ListProfileUserIDs returns every stored user ID in ascending order.
func (db *DB) ListProfileUserIDs(ctx context.Context) ([]string, error) {
	rows, err := db.QueryContext(ctx, "SELECT user_id FROM cycle_profiles ORDER BY user_id")
	if err != nil {
		return nil, fmt.Errorf("query profile ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan profile id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate profile ids: %w", err)
	}
	return ids, nil
}

// DeleteProfile removes a profile and, by cascade, its predictions.
// Returns ErrNotFound if there was nothing to delete.
func (db *DB) DeleteProfile(ctx context.Context, userID string) error {
	result, err := db.ExecContext(ctx, "DELETE FROM cycle_profiles WHERE user_id = ?", userID)
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// =============================================================================
// Prediction Queries
// =============================================================================

// ReplacePredictions discards all stored predictions for userID and writes p
// in their place, recording a prediction run. Everything happens in one
// transaction: readers see either the old data or the new.
func (db *DB) ReplacePredictions(ctx context.Context, userID string, p Predictions) (*PredictionRun, error) {
	generatedAt := p.GeneratedAt
	if generatedAt.IsZero() {
		generatedAt = time.Now()
	}
	run := &PredictionRun{
		UserID:      userID,
		RangeStart:  calendar.DateOnly(p.From),
		RangeEnd:    calendar.DateOnly(p.To),
		PhaseDays:   len(p.Phases),
		WindowDays:  p.WideningWindow.Len(),
		GeneratedAt: generatedAt.UTC(),
	}

	err := db.WithTx(ctx, func(tx *Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM phase_predictions WHERE user_id = ?", userID); err != nil {
			return fmt.Errorf("clear phase predictions: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM widening_window_days WHERE user_id = ?", userID); err != nil {
			return fmt.Errorf("clear widening window: %w", err)
		}

		if err := insertPhases(ctx, tx, userID, p.Phases); err != nil {
			return err
		}
		if err := insertWindowDays(ctx, tx, userID, p.WideningWindow); err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx, `
			INSERT INTO prediction_runs (user_id, range_start, range_end, phase_days, window_days, generated_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`,
			userID,
			calendar.DateKey(run.RangeStart),
			calendar.DateKey(run.RangeEnd),
			run.PhaseDays,
			run.WindowDays,
			run.GeneratedAt.Format(time.RFC3339Nano),
		)
		if err != nil {
			return fmt.Errorf("insert prediction run: %w", err)
		}

		run.ID, err = result.LastInsertId()
		if err != nil {
			return fmt.Errorf("get run id: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return run, nil
}

func insertPhases(ctx context.Context, tx *Tx, userID string, phases calendar.PhaseMap) error {
	if len(phases) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, "INSERT INTO phase_predictions (user_id, date, phase) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare phase insert: %w", err)
	}
	defer stmt.Close()

	for key, phase := range phases {
		if phase == calendar.PhaseNone {
			continue
		}
		if _, err := stmt.ExecContext(ctx, userID, key, string(phase)); err != nil {
			return fmt.Errorf("insert phase for %s: %w", key, err)
		}
	}
	return nil
}

func insertWindowDays(ctx context.Context, tx *Tx, userID string, days calendar.DaySet) error {
	if days.Len() == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, "INSERT INTO widening_window_days (user_id, date) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("prepare window insert: %w", err)
	}
	defer stmt.Close()

	for key := range days {
		if _, err := stmt.ExecContext(ctx, userID, key); err != nil {
			return fmt.Errorf("insert window day %s: %w", key, err)
		}
	}
	return nil
}

// GetPhaseMap returns the stored phases for userID between from and to
// inclusive. Days without a prediction are absent from the map.
func (db *DB) GetPhaseMap(ctx context.Context, userID string, from, to time.Time) (calendar.PhaseMap, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT date, phase
		FROM phase_predictions
		WHERE user_id = ? AND date BETWEEN ? AND ?
	`, userID, calendar.DateKey(from), calendar.DateKey(to))
	if err != nil {
		return nil, fmt.Errorf("query phase predictions: %w", err)
	}
	defer rows.Close()

	phases := calendar.PhaseMap{}
	for rows.Next() {
		var key, phase string
		if err := rows.Scan(&key, &phase); err != nil {
			return nil, fmt.Errorf("scan phase prediction: %w", err)
		}
		phases[key] = calendar.Phase(phase)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate phase predictions: %w", err)
	}
	return phases, nil
}

// GetWideningWindow returns the stored candidate days for userID between from
// and to inclusive.
func (db *DB) GetWideningWindow(ctx context.Context, userID string, from, to time.Time) (calendar.DaySet, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT date
		FROM widening_window_days
		WHERE user_id = ? AND date BETWEEN ? AND ?
	`, userID, calendar.DateKey(from), calendar.DateKey(to))
	if err != nil {
		return nil, fmt.Errorf("query widening window: %w", err)
	}
	defer rows.Close()

	days := calendar.NewDaySet()
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan widening window day: %w", err)
		}
		days[key] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate widening window: %w", err)
	}
	return days, nil
}

// GetLatestRun returns the most recent prediction run for userID, or
// ErrNotFound if predictions were never generated.
func (db *DB) GetLatestRun(ctx context.Context, userID string) (*PredictionRun, error) {
	query := `
		SELECT id, user_id, range_start, range_end, phase_days, window_days, generated_at
		FROM prediction_runs
		WHERE user_id = ?
		ORDER BY id DESC
		LIMIT 1
	`

	var (
		run                  PredictionRun
		rangeStart, rangeEnd string
		generatedAt          sql.NullString
	)
	err := db.QueryRowContext(ctx, query, userID).Scan(
		&run.ID,
		&run.UserID,
		&rangeStart,
		&rangeEnd,
		&run.PhaseDays,
		&run.WindowDays,
		&generatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query latest run: %w", err)
	}

	if run.RangeStart, err = parseDate(rangeStart); err != nil {
		return nil, err
	}
	if run.RangeEnd, err = parseDate(rangeEnd); err != nil {
		return nil, err
	}
	if t := parseTimestamp(generatedAt); t != nil {
		run.GeneratedAt = *t
	}
	return &run, nil
}

// CalendarInputs gathers the stored predictions for [from, to] into the form
// the calendar classifiers consume. DataLoaded is true once any prediction
// run exists for the user.
func (db *DB) CalendarInputs(ctx context.Context, p *Profile, from, to time.Time) (calendar.Inputs, error) {
	in := calendar.Inputs{Config: p.Config}

	_, err := db.GetLatestRun(ctx, p.UserID)
	switch {
	case err == nil:
		in.DataLoaded = true
	case IsNotFound(err):
		return in, nil
	default:
		return in, err
	}

	phases, err := db.GetPhaseMap(ctx, p.UserID, from, to)
	if err != nil {
		return in, err
	}
	in.Lookup = phases

	in.Candidates, err = db.GetWideningWindow(ctx, p.UserID, from, to)
	if err != nil {
		return in, err
	}

	return in, nil
}
