// Package main is the entry point for the cycle calendar API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zapponejosh/cyclecal-api/internal/api"
	"github.com/zapponejosh/cyclecal-api/internal/config"
	"github.com/zapponejosh/cyclecal-api/internal/database"
	"github.com/zapponejosh/cyclecal-api/internal/logger"
	"github.com/zapponejosh/cyclecal-api/internal/prediction"
	"github.com/zapponejosh/cyclecal-api/internal/scheduler"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	log := logger.Setup(cfg)

	if err := run(cfg, log); err != nil {
		log.Error("server exited with error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	log.Info("starting cycle calendar API",
		slog.String("env", cfg.Env),
		slog.Int("port", cfg.Port),
		slog.String("log_level", cfg.LogLevel),
		slog.String("week_start", cfg.WeekStart),
	)

	db, err := database.Open(database.DefaultConfig(cfg.DatabasePath), log)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.Migrate(context.Background()); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	refresher := prediction.NewRefresher(db,
		prediction.Options{WideningSpreadDays: cfg.WideningSpreadDays},
		cfg.PredictionHorizonDays,
		log,
	)

	var sched *scheduler.Scheduler
	if cfg.RefreshEnabled() {
		sched = scheduler.New(cfg.RefreshSchedule, db, refresher, cfg.RefreshConcurrency, log)
		if err := sched.Start(); err != nil {
			return err
		}
	} else {
		log.Info("scheduled refresh disabled")
	}

	if cfg.IsDevelopment() && cfg.APIKey == "" {
		log.Warn("API_KEY not set; profile endpoints are unauthenticated")
	}

	handlers := api.NewHandlers(db, refresher, cfg, log)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           api.SetupRoutes(handlers, cfg, log),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("http server listening", slog.String("addr", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
	case sig := <-shutdown:
		log.Info("shutdown initiated", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Error("graceful shutdown failed", slog.Any("error", err))
			server.Close()
		}
		if sched != nil {
			sched.Stop(ctx)
		}
	}

	log.Info("cycle calendar API stopped")
	return nil
}
