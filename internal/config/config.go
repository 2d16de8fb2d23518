// Package config handles application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/zapponejosh/cyclecal-api/internal/calendar"
)

// Config holds all application configuration.
// Fields are populated from environment variables.
type Config struct {
	// Server settings
	Port int    // HTTP port to listen on
	Env  string // development, staging, production

	// Database
	DatabasePath string // Path to SQLite file

	// Authentication
	APIKey string // Shared key for the profile endpoints

	// Logging
	LogLevel  string // debug, info, warn, error
	LogFormat string // json, text

	// Calendar
	WeekStart string // sunday, monday

	// Predictions
	PredictionHorizonDays int    // Days past today to generate
	WideningSpreadDays    int    // Half-width of the first widening window
	RefreshSchedule       string // Cron spec; empty disables scheduled refresh
	RefreshConcurrency    int    // Profiles refreshed in parallel
}

// Environment constants
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// DefaultRefreshSchedule runs the nightly refresh at 03:00.
const DefaultRefreshSchedule = "0 3 * * *"

// Load reads configuration from environment variables.
// A .env file is loaded first if present.
func Load() (*Config, error) {
	// Missing .env is fine; production sets real env vars.
	_ = godotenv.Load()

	cfg := &Config{}

	cfg.Port = getEnvInt("PORT", 8080)
	cfg.Env = getEnv("ENV", EnvDevelopment)

	cfg.DatabasePath = getEnv("DATABASE_PATH", "./data/cyclecal.db")

	cfg.APIKey = getEnv("API_KEY", "")

	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.LogFormat = getEnv("LOG_FORMAT", "text")

	cfg.WeekStart = getEnv("WEEK_START", "sunday")

	cfg.PredictionHorizonDays = getEnvInt("PREDICTION_HORIZON_DAYS", 180)
	cfg.WideningSpreadDays = getEnvInt("WIDENING_SPREAD_DAYS", 2)
	cfg.RefreshSchedule = getEnvAllowEmpty("REFRESH_SCHEDULE", DefaultRefreshSchedule)
	cfg.RefreshConcurrency = getEnvInt("REFRESH_CONCURRENCY", 4)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration is present and valid.
// Every problem is reported, not just the first.
func (c *Config) Validate() error {
	var errs []error

	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port))
	}

	switch c.Env {
	case EnvDevelopment, EnvStaging, EnvProduction:
	default:
		errs = append(errs, fmt.Errorf("ENV must be one of: development, staging, production; got %q", c.Env))
	}

	if c.DatabasePath == "" {
		errs = append(errs, errors.New("DATABASE_PATH is required"))
	}

	if c.Env == EnvProduction && c.APIKey == "" {
		errs = append(errs, errors.New("API_KEY is required in production"))
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be one of: debug, info, warn, error; got %q", c.LogLevel))
	}

	switch c.LogFormat {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be one of: json, text; got %q", c.LogFormat))
	}

	if _, err := calendar.ParseWeekStart(c.WeekStart); err != nil {
		errs = append(errs, fmt.Errorf("WEEK_START: %w", err))
	}

	if c.PredictionHorizonDays < 1 || c.PredictionHorizonDays > 730 {
		errs = append(errs, fmt.Errorf("PREDICTION_HORIZON_DAYS must be between 1 and 730, got %d", c.PredictionHorizonDays))
	}

	if c.WideningSpreadDays < 0 || c.WideningSpreadDays > 14 {
		errs = append(errs, fmt.Errorf("WIDENING_SPREAD_DAYS must be between 0 and 14, got %d", c.WideningSpreadDays))
	}

	if c.RefreshSchedule != "" {
		if _, err := cron.ParseStandard(c.RefreshSchedule); err != nil {
			errs = append(errs, fmt.Errorf("REFRESH_SCHEDULE %q: %w", c.RefreshSchedule, err))
		}
	}

	if c.RefreshConcurrency < 1 || c.RefreshConcurrency > 64 {
		errs = append(errs, fmt.Errorf("REFRESH_CONCURRENCY must be between 1 and 64, got %d", c.RefreshConcurrency))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// FirstWeekday returns the weekday that starts each calendar week.
// Invalid values fall back to Sunday; Validate reports them.
func (c *Config) FirstWeekday() time.Weekday {
	wd, _ := calendar.ParseWeekStart(c.WeekStart)
	return wd
}

// RefreshEnabled reports whether scheduled refresh is configured.
func (c *Config) RefreshEnabled() bool {
	return c.RefreshSchedule != ""
}

// getEnv reads an environment variable with a default fallback.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAllowEmpty is getEnv, except that a variable set to "" is kept.
func getEnvAllowEmpty(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

// getEnvInt reads an environment variable as an integer with a default fallback.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
