package prediction

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/zapponejosh/cyclecal-api/internal/calendar"
	"github.com/zapponejosh/cyclecal-api/internal/database"
)

// DefaultHorizonDays is how far past today predictions are generated.
const DefaultHorizonDays = 180

// lookbackDays keeps the last month of history even when today's grid
// starts later.
const lookbackDays = 31

// Store is the persistence the Refresher needs. *database.DB implements it.
type Store interface {
	GetProfile(ctx context.Context, userID string) (*database.Profile, error)
	ReplacePredictions(ctx context.Context, userID string, p database.Predictions) (*database.PredictionRun, error)
}

// Refresher regenerates and stores a user's predictions.
type Refresher struct {
	store       Store
	opts        Options
	horizonDays int
	logger      *slog.Logger
	now         func() time.Time
}

// NewRefresher creates a Refresher. A non-positive horizonDays falls back to
// DefaultHorizonDays.
func NewRefresher(store Store, opts Options, horizonDays int, logger *slog.Logger) *Refresher {
	if horizonDays <= 0 {
		horizonDays = DefaultHorizonDays
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Refresher{
		store:       store,
		opts:        opts,
		horizonDays: horizonDays,
		logger:      logger,
		now:         time.Now,
	}
}

// Window returns the date range a refresh at the current time covers. It
// starts no later than the first cell of the current month's grid for either
// supported week start, so padding days carry predictions too.
func (r *Refresher) Window() (time.Time, time.Time) {
	today := calendar.DateOnly(r.now())

	from := today.AddDate(0, 0, -lookbackDays)
	for _, weekStart := range []time.Weekday{time.Sunday, time.Monday} {
		gridFrom, _ := calendar.GridRange(today.Year(), today.Month(), weekStart)
		if gridFrom.Before(from) {
			from = gridFrom
		}
	}

	return from, today.AddDate(0, 0, r.horizonDays)
}

// Refresh generates predictions for userID over Window and replaces the
// stored ones. It returns database.ErrNotFound if the profile doesn't exist.
func (r *Refresher) Refresh(ctx context.Context, userID string) (*database.PredictionRun, error) {
	profile, err := r.store.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	from, to := r.Window()
	res := Generate(profile.Config, from, to, r.opts)

	run, err := r.store.ReplacePredictions(ctx, userID, database.Predictions{
		GeneratedAt:    r.now(),
		From:           res.From,
		To:             res.To,
		Phases:         res.Phases,
		WideningWindow: res.WideningWindow,
	})
	if err != nil {
		return nil, fmt.Errorf("store predictions for %s: %w", userID, err)
	}

	r.logger.Debug("predictions refreshed",
		slog.String("user_id", userID),
		slog.String("mode", string(ModeFor(profile.Config))),
		slog.Int("phase_days", run.PhaseDays),
		slog.Int("window_days", run.WindowDays),
	)

	return run, nil
}

// Summary reports the outcome of a RefreshAll run.
type Summary struct {
	Total     int
	Refreshed int
	Failed    int
}

// RefreshAll refreshes every user in userIDs, at most concurrency at a time.
// A failure for one user is logged and counted but does not stop the others.
// Cancelling ctx stops users that have not started yet.
func (r *Refresher) RefreshAll(ctx context.Context, userIDs []string, concurrency int) Summary {
	if concurrency < 1 {
		concurrency = 1
	}

	var refreshed, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for _, userID := range userIDs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			if _, err := r.Refresh(gctx, userID); err != nil {
				failed.Add(1)
				r.logger.Warn("refresh failed",
					slog.String("user_id", userID),
					slog.Any("error", err),
				)
				return nil
			}
			refreshed.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	return Summary{
		Total:     len(userIDs),
		Refreshed: int(refreshed.Load()),
		Failed:    int(failed.Load()),
	}
}
