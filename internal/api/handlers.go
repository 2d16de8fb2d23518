package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/zapponejosh/cyclecal-api/internal/calendar"
	"github.com/zapponejosh/cyclecal-api/internal/config"
	"github.com/zapponejosh/cyclecal-api/internal/database"
	"github.com/zapponejosh/cyclecal-api/internal/logger"
	"github.com/zapponejosh/cyclecal-api/internal/prediction"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 16

// Handlers contains all HTTP handlers and their dependencies.
type Handlers struct {
	db        *database.DB
	refresher *prediction.Refresher
	cfg       *config.Config
	logger    *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(db *database.DB, refresher *prediction.Refresher, cfg *config.Config, logger *slog.Logger) *Handlers {
	return &Handlers{
		db:        db,
		refresher: refresher,
		cfg:       cfg,
		logger:    logger,
	}
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Health(r.Context()); err != nil {
		h.logger.Warn("health check failed", slog.Any("error", err))
		WriteError(w, http.StatusServiceUnavailable, "Database unhealthy", CodeUnhealthy)
		return
	}

	WriteSuccess(w, map[string]string{"status": "healthy"})
}

// ListPhases handles GET /api/v1/phases
func (h *Handlers) ListPhases(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, calendar.Phases())
}

// GetMonthGrid handles GET /api/v1/calendar/{year}/{month}
//
// Returns the bare grid without any phase data. ?week_start=monday overrides
// the configured first weekday.
func (h *Handlers) GetMonthGrid(w http.ResponseWriter, r *http.Request) {
	year, month, weekStart, ok := h.parseMonthRequest(w, r)
	if !ok {
		return
	}

	cells := calendar.BuildMonthGridFrom(year, month, weekStart)
	out := make([]gridCell, 0, len(cells))
	for _, c := range cells {
		out = append(out, gridCell{
			Date:           calendar.FormatDate(c.Date),
			InCurrentMonth: c.InCurrentMonth,
			WeekIndex:      c.WeekIndex,
			WeekdayIndex:   c.WeekdayIndex,
		})
	}

	WriteSuccess(w, gridResponse{
		Year:      year,
		Month:     int(month),
		WeekStart: strings.ToLower(weekStart.String()),
		Weekdays:  calendar.WeekdayLabels(weekStart),
		Weeks:     weekCount(len(cells)),
		Cells:     out,
	})
}

// =============================================================================
// Profiles
// =============================================================================

// GetProfile handles GET /api/v1/profiles/{userID}
func (h *Handlers) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	profile, ok := h.loadProfile(w, r)
	if !ok {
		return
	}

	run, err := h.db.GetLatestRun(ctx, profile.UserID)
	if err != nil && !database.IsNotFound(err) {
		logger.Error(ctx, "failed to load latest run", err)
		WriteInternalError(w, "Failed to retrieve profile")
		return
	}

	WriteSuccess(w, newProfileResponse(profile, run))
}

// PutProfile handles PUT /api/v1/profiles/{userID}
//
// Creates or replaces the profile and regenerates its predictions right
// away, so the calendar is populated without waiting for the scheduler.
func (h *Handlers) PutProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := chi.URLParam(r, "userID")

	var req profileRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	cfg, err := req.Config()
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	profile := &database.Profile{UserID: userID, Config: cfg}
	if err := h.db.UpsertProfile(ctx, profile); err != nil {
		logger.Error(ctx, "failed to save profile", err)
		WriteInternalError(w, "Failed to save profile")
		return
	}

	run, err := h.refresher.Refresh(ctx, userID)
	if err != nil {
		// The profile is saved; the scheduler will retry the refresh.
		logger.Error(ctx, "failed to refresh predictions after save", err)
	}

	logger.Info(ctx, "profile saved", slog.String("cycle_kind", string(cfg.CycleKind)))
	WriteSuccess(w, newProfileResponse(profile, run))
}

// DeleteProfile handles DELETE /api/v1/profiles/{userID}
func (h *Handlers) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := chi.URLParam(r, "userID")

	if err := h.db.DeleteProfile(ctx, userID); err != nil {
		if database.IsNotFound(err) {
			WriteNotFound(w, "Profile not found")
			return
		}
		logger.Error(ctx, "failed to delete profile", err)
		WriteInternalError(w, "Failed to delete profile")
		return
	}

	WriteSuccess(w, map[string]string{"message": "Profile deleted"})
}

// RefreshPredictions handles POST /api/v1/profiles/{userID}/predictions/refresh
func (h *Handlers) RefreshPredictions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := chi.URLParam(r, "userID")

	run, err := h.refresher.Refresh(ctx, userID)
	if err != nil {
		if database.IsNotFound(err) {
			WriteNotFound(w, "Profile not found")
			return
		}
		logger.Error(ctx, "failed to refresh predictions", err)
		WriteInternalError(w, "Failed to refresh predictions")
		return
	}

	WriteSuccess(w, newRunResponse(run))
}

// =============================================================================
// Annotated calendar
// =============================================================================

// GetProfileMonth handles GET /api/v1/profiles/{userID}/calendar/{year}/{month}
func (h *Handlers) GetProfileMonth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	year, month, weekStart, ok := h.parseMonthRequest(w, r)
	if !ok {
		return
	}

	profile, ok := h.loadProfile(w, r)
	if !ok {
		return
	}

	from, to := calendar.GridRange(year, month, weekStart)
	in, err := h.db.CalendarInputs(ctx, profile, from, to)
	if err != nil {
		logger.Error(ctx, "failed to load predictions", err)
		WriteInternalError(w, "Failed to retrieve calendar")
		return
	}

	days := calendar.AnnotateMonth(year, month, weekStart, in)
	WriteSuccess(w, monthResponse{
		Year:       year,
		Month:      int(month),
		WeekStart:  strings.ToLower(weekStart.String()),
		Weekdays:   calendar.WeekdayLabels(weekStart),
		Weeks:      weekCount(len(days)),
		DataLoaded: in.DataLoaded,
		Days:       days,
	})
}

// GetProfileDay handles GET /api/v1/profiles/{userID}/days/{YYYY-MM-DD}
func (h *Handlers) GetProfileDay(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	dateStr := chi.URLParam(r, "date")
	date, err := calendar.ParseDateString(dateStr)
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid date format: %s. Use YYYY-MM-DD", dateStr))
		return
	}

	profile, ok := h.loadProfile(w, r)
	if !ok {
		return
	}

	in, err := h.db.CalendarInputs(ctx, profile, date, date)
	if err != nil {
		logger.Error(ctx, "failed to load predictions", err, slog.String("date", dateStr))
		WriteInternalError(w, "Failed to retrieve day")
		return
	}

	day := calendar.AnnotateDate(date, in)
	resp := dayResponse{
		Date:             day.DateString,
		Weekday:          date.Weekday().String(),
		Phase:            day.Phase,
		IsWideningWindow: day.IsWideningWindow,
		DataLoaded:       in.DataLoaded,
	}
	if info, ok := day.Phase.Info(); ok {
		resp.PhaseInfo = &info
	}

	WriteSuccess(w, resp)
}

// =============================================================================
// Helpers
// =============================================================================

// parseMonthRequest reads {year}, {month} and ?week_start, writing a 400 and
// returning false if any is invalid.
func (h *Handlers) parseMonthRequest(w http.ResponseWriter, r *http.Request) (int, time.Month, time.Weekday, bool) {
	yearStr := chi.URLParam(r, "year")
	monthStr := chi.URLParam(r, "month")

	year, err := strconv.Atoi(yearStr)
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid year: %s", yearStr))
		return 0, 0, 0, false
	}
	monthNum, err := strconv.Atoi(monthStr)
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid month: %s", monthStr))
		return 0, 0, 0, false
	}
	month := time.Month(monthNum)
	if err := calendar.ValidateMonth(year, month); err != nil {
		WriteBadRequest(w, err.Error())
		return 0, 0, 0, false
	}

	weekStart := h.cfg.FirstWeekday()
	if ws := r.URL.Query().Get("week_start"); ws != "" {
		weekStart, err = calendar.ParseWeekStart(ws)
		if err != nil {
			WriteBadRequest(w, err.Error())
			return 0, 0, 0, false
		}
	}

	return year, month, weekStart, true
}

// loadProfile fetches the {userID} profile, writing a 404 or 500 and
// returning false on failure.
func (h *Handlers) loadProfile(w http.ResponseWriter, r *http.Request) (*database.Profile, bool) {
	ctx := r.Context()
	userID := chi.URLParam(r, "userID")

	profile, err := h.db.GetProfile(ctx, userID)
	if err != nil {
		if database.IsNotFound(err) {
			WriteNotFound(w, "Profile not found")
			return nil, false
		}
		logger.Error(ctx, "failed to load profile", err)
		WriteInternalError(w, "Failed to retrieve profile")
		return nil, false
	}
	return profile, true
}
