// Command import bulk-loads cycle profiles from a JSON file into the SQLite
// database.
//
// Usage:
//
//	go run ./cmd/import -json data/profiles.example.json -db data/cyclecal.db -refresh
//
// Every profile is validated before anything is written, and all profiles
// are stored in one transaction, so a bad entry or a storage failure leaves
// the database untouched. Existing profiles with the same user_id are
// replaced. With -refresh, predictions are generated for the imported users.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/zapponejosh/cyclecal-api/internal/calendar"
	"github.com/zapponejosh/cyclecal-api/internal/database"
	"github.com/zapponejosh/cyclecal-api/internal/logger"
	"github.com/zapponejosh/cyclecal-api/internal/prediction"
)

// ImportFile is the top-level layout of the input file.
type ImportFile struct {
	Metadata struct {
		Source      string `json:"source"`
		GeneratedAt string `json:"generated_at"`
	} `json:"metadata"`
	Profiles []ImportProfile `json:"profiles"`
}

// ImportProfile is one profile entry. Dates are YYYY-MM-DD.
type ImportProfile struct {
	UserID string `json:"user_id"`
	calendar.ProfileFields
}

func (p ImportProfile) toProfile() (*database.Profile, error) {
	if p.UserID == "" {
		return nil, errors.New("user_id is required")
	}
	cfg, err := p.Config()
	if err != nil {
		return nil, err
	}
	return &database.Profile{UserID: p.UserID, Config: cfg}, nil
}

func main() {
	jsonPath := flag.String("json", "data/profiles.example.json", "Path to profiles JSON file")
	dbPath := flag.String("db", "data/cyclecal.db", "Path to SQLite database")
	refresh := flag.Bool("refresh", false, "Generate predictions for imported profiles")
	horizon := flag.Int("horizon", prediction.DefaultHorizonDays, "Prediction horizon in days")
	spread := flag.Int("spread", prediction.DefaultWideningSpread, "Widening window spread in days")
	concurrency := flag.Int("concurrency", 4, "Profiles refreshed in parallel")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	level := "info"
	if *verbose {
		level = "debug"
	}
	log := logger.New(os.Stdout, level, "text")

	opts := options{
		refresh:     *refresh,
		horizon:     *horizon,
		spread:      *spread,
		concurrency: *concurrency,
	}
	if err := run(*jsonPath, *dbPath, opts, log); err != nil {
		log.Error("import failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("import complete")
}

type options struct {
	refresh     bool
	horizon     int
	spread      int
	concurrency int
}

func run(jsonPath, dbPath string, opts options, log *slog.Logger) error {
	ctx := context.Background()
	startTime := time.Now()

	// =========================================================================
	// Step 1: Read, parse and validate
	// =========================================================================
	log.Info("reading JSON file", slog.String("path", jsonPath))

	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("read JSON file: %w", err)
	}

	var file ImportFile
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse JSON: %w", err)
	}

	profiles := make([]*database.Profile, 0, len(file.Profiles))
	seen := make(map[string]bool, len(file.Profiles))
	var errs []error
	for i, entry := range file.Profiles {
		p, err := entry.toProfile()
		if err != nil {
			errs = append(errs, fmt.Errorf("profile %d (%q): %w", i+1, entry.UserID, err))
			continue
		}
		if seen[p.UserID] {
			errs = append(errs, fmt.Errorf("profile %d: duplicate user_id %q", i+1, p.UserID))
			continue
		}
		seen[p.UserID] = true
		profiles = append(profiles, p)
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	log.Info("parsed JSON",
		slog.Int("profiles", len(profiles)),
		slog.String("source", file.Metadata.Source),
		slog.String("generated_at", file.Metadata.GeneratedAt),
	)

	// =========================================================================
	// Step 2: Open database and run migrations
	// =========================================================================
	db, err := database.Open(database.DefaultConfig(dbPath), log)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if _, err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	// =========================================================================
	// Step 3: Store profiles
	// =========================================================================
	if err := db.UpsertProfiles(ctx, profiles); err != nil {
		return fmt.Errorf("store profiles: %w", err)
	}
	userIDs := make([]string, 0, len(profiles))
	for _, p := range profiles {
		userIDs = append(userIDs, p.UserID)
		log.Debug("profile stored", slog.String("user_id", p.UserID))
	}

	// =========================================================================
	// Step 4: Optionally generate predictions
	// =========================================================================
	var summary prediction.Summary
	if opts.refresh {
		refresher := prediction.NewRefresher(db, prediction.Options{WideningSpreadDays: opts.spread}, opts.horizon, log)
		summary = refresher.RefreshAll(ctx, userIDs, opts.concurrency)
	}

	elapsed := time.Since(startTime)

	fmt.Println()
	fmt.Println("=== Import Summary ===")
	fmt.Printf("Profiles imported:   %d\n", len(profiles))
	if opts.refresh {
		fmt.Printf("Predictions built:   %d\n", summary.Refreshed)
		fmt.Printf("Refresh failures:    %d\n", summary.Failed)
	}
	fmt.Printf("Time elapsed:        %v\n", elapsed.Round(time.Millisecond))

	if summary.Failed > 0 {
		return fmt.Errorf("%d profiles failed to refresh", summary.Failed)
	}
	return nil
}
