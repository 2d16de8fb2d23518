// Package scheduler periodically regenerates predictions for every stored
// profile.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/zapponejosh/cyclecal-api/internal/prediction"
)

// runTimeout bounds a single refresh pass.
const runTimeout = 30 * time.Minute

// ProfileLister lists the users to refresh. *database.DB implements it.
type ProfileLister interface {
	ListProfileUserIDs(ctx context.Context) ([]string, error)
}

// BatchRefresher refreshes many users. *prediction.Refresher implements it.
type BatchRefresher interface {
	RefreshAll(ctx context.Context, userIDs []string, concurrency int) prediction.Summary
}

// Scheduler runs a refresh pass on a cron schedule.
type Scheduler struct {
	cron        *cron.Cron
	spec        string
	profiles    ProfileLister
	refresher   BatchRefresher
	concurrency int
	logger      *slog.Logger
}

// New creates a Scheduler for the standard five-field cron spec. Passes that
// would overlap a still-running one are skipped.
func New(spec string, profiles ProfileLister, refresher BatchRefresher, concurrency int, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		spec:        spec,
		profiles:    profiles,
		refresher:   refresher,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Start registers the refresh job and starts the cron engine.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()
		if _, err := s.RunOnce(ctx); err != nil {
			s.logger.Error("scheduled refresh failed", slog.Any("error", err))
		}
	})
	if err != nil {
		return fmt.Errorf("add refresh job %q: %w", s.spec, err)
	}

	s.cron.Start()
	s.logger.Info("refresh scheduler started", slog.String("schedule", s.spec))
	return nil
}

// Stop stops scheduling new passes and waits for a running one to finish
// or for ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	s.logger.Info("stopping refresh scheduler")
	select {
	case <-s.cron.Stop().Done():
		s.logger.Info("refresh scheduler stopped")
	case <-ctx.Done():
		s.logger.Warn("refresh scheduler stop timed out", slog.Any("error", ctx.Err()))
	}
}

// RunOnce refreshes every stored profile now.
func (s *Scheduler) RunOnce(ctx context.Context) (prediction.Summary, error) {
	start := time.Now()

	ids, err := s.profiles.ListProfileUserIDs(ctx)
	if err != nil {
		return prediction.Summary{}, fmt.Errorf("list profiles: %w", err)
	}

	summary := s.refresher.RefreshAll(ctx, ids, s.concurrency)

	s.logger.Info("refresh pass complete",
		slog.Int("total", summary.Total),
		slog.Int("refreshed", summary.Refreshed),
		slog.Int("failed", summary.Failed),
		slog.Duration("duration", time.Since(start)),
	)
	return summary, nil
}
