package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// =============================================================================
// Response Types - Match the actual API response structure
// =============================================================================

type APIResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *ErrorInfo      `json:"error,omitempty"`
}

type ErrorInfo struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// HealthResponse is the response for /health
type HealthResponse struct {
	Status string `json:"status"`
}

// PhaseInfo is one entry of /api/v1/phases
type PhaseInfo struct {
	Phase string `json:"phase"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// GridResponse is the response for /api/v1/calendar/{year}/{month}
type GridResponse struct {
	Year      int      `json:"year"`
	Month     int      `json:"month"`
	WeekStart string   `json:"week_start"`
	Weekdays  []string `json:"weekdays"`
	Weeks     int      `json:"weeks"`
	Cells     []struct {
		Date           string `json:"date"`
		InCurrentMonth bool   `json:"in_current_month"`
	} `json:"cells"`
}

// RunResponse is a prediction run summary
type RunResponse struct {
	RangeStart string `json:"range_start"`
	RangeEnd   string `json:"range_end"`
	PhaseDays  int    `json:"phase_days"`
	WindowDays int    `json:"window_days"`
}

// ProfileResponse is the response for /api/v1/profiles/{userID}
type ProfileResponse struct {
	UserID         string       `json:"user_id"`
	CycleKind      string       `json:"cycle_kind"`
	PredictionMode string       `json:"prediction_mode"`
	LatestRun      *RunResponse `json:"latest_run,omitempty"`
}

// MonthResponse is the response for /api/v1/profiles/{userID}/calendar/{year}/{month}
type MonthResponse struct {
	DataLoaded bool `json:"data_loaded"`
	Days       []struct {
		Date             string `json:"date"`
		InCurrentMonth   bool   `json:"in_current_month"`
		Phase            string `json:"phase"`
		IsWideningWindow bool   `json:"is_widening_window"`
	} `json:"days"`
}

// DayResponse is the response for /api/v1/profiles/{userID}/days/{date}
type DayResponse struct {
	Date             string     `json:"date"`
	Weekday          string     `json:"weekday"`
	Phase            string     `json:"phase"`
	IsWideningWindow bool       `json:"is_widening_window"`
	PhaseInfo        *PhaseInfo `json:"phase_info,omitempty"`
}

// =============================================================================
// Test Runner
// =============================================================================

type TestRunner struct {
	baseURL      string
	apiKey       string
	userID       string
	client       *http.Client
	verbose      bool
	successCount int
	errorCount   int
	errors       []string
}

func NewTestRunner(baseURL, apiKey string, verbose bool) *TestRunner {
	return &TestRunner{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		userID:  fmt.Sprintf("apitest-%d", time.Now().UnixNano()),
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		verbose: verbose,
	}
}

func (tr *TestRunner) Run() {
	fmt.Println("==============================================")
	fmt.Println("Cycle Calendar API Test Suite")
	fmt.Println("==============================================")
	fmt.Printf("Base URL: %s\n", tr.baseURL)
	fmt.Printf("User:     %s\n", tr.userID)
	fmt.Println()

	tr.testHealth()
	tr.testPhases()
	tr.testMonthGrids()
	tr.testProfileLifecycle()
	tr.testEdgeCases()

	tr.printSummary()
}

// =============================================================================
// Test Groups
// =============================================================================

func (tr *TestRunner) testHealth() {
	tr.printSection("Health Check")

	var health HealthResponse
	if err := tr.getData("/health", &health); err != nil {
		tr.recordError("Health", err.Error())
		return
	}

	if health.Status == "healthy" {
		tr.recordSuccess("Health check passed")
	} else {
		tr.recordError("Health", fmt.Sprintf("Unexpected status: %s", health.Status))
	}
}

func (tr *TestRunner) testPhases() {
	tr.printSection("Phase Catalog")

	var phases []PhaseInfo
	if err := tr.getData("/api/v1/phases", &phases); err != nil {
		tr.recordError("Phases", err.Error())
		return
	}

	if len(phases) == 8 {
		tr.recordSuccess("Phase catalog has 8 entries")
	} else {
		tr.recordError("Phases", fmt.Sprintf("Expected 8 phases, got %d", len(phases)))
	}
	if tr.verbose {
		for _, p := range phases {
			fmt.Printf("    %-16s %-12s %s\n", p.Phase, p.Name, p.Color)
		}
	}
}

func (tr *TestRunner) testMonthGrids() {
	tr.printSection("Month Grids")

	testCases := []struct {
		path        string
		cells       int
		firstCell   string
		description string
	}{
		{"/api/v1/calendar/2024/2", 35, "2024-01-28", "Leap February, Sunday start"},
		{"/api/v1/calendar/2026/2", 35, "2026-02-01", "February starting on Sunday"},
		{"/api/v1/calendar/2024/9?week_start=monday", 42, "2024-08-26", "September 2024, Monday start"},
		{"/api/v1/calendar/2025/3", 42, "2025-02-23", "Six-week March"},
		{"/api/v1/calendar/2024/12", 35, "2024-12-01", "December 2024"},
	}

	for _, tc := range testCases {
		var grid GridResponse
		if err := tr.getData(tc.path, &grid); err != nil {
			tr.recordError(tc.path, err.Error())
			continue
		}

		switch {
		case len(grid.Cells) != tc.cells:
			tr.recordError(tc.path, fmt.Sprintf("Expected %d cells, got %d", tc.cells, len(grid.Cells)))
		case grid.Cells[0].Date != tc.firstCell:
			tr.recordError(tc.path, fmt.Sprintf("Expected first cell %s, got %s", tc.firstCell, grid.Cells[0].Date))
		default:
			tr.recordSuccess(fmt.Sprintf("%s: %d cells from %s", tc.description, len(grid.Cells), tc.firstCell))
		}
	}
}

func (tr *TestRunner) testProfileLifecycle() {
	tr.printSection("Profile Lifecycle")

	profilePath := "/api/v1/profiles/" + tr.userID
	lastStart := time.Now().UTC().AddDate(0, 0, -10).Format("2006-01-02")

	// Create
	body := map[string]any{
		"cycle_kind":              "irregular",
		"last_period_start":       lastStart,
		"cycle_length_days":       30,
		"widening_window_enabled": true,
	}
	var profile ProfileResponse
	if err := tr.doData(http.MethodPut, profilePath, body, &profile); err != nil {
		tr.recordError("Create profile", err.Error())
		return
	}
	if profile.LatestRun != nil && profile.LatestRun.PhaseDays > 0 {
		tr.recordSuccess(fmt.Sprintf("Profile created (%s, %d phase days, %d window days)",
			profile.PredictionMode, profile.LatestRun.PhaseDays, profile.LatestRun.WindowDays))
	} else {
		tr.recordError("Create profile", "Expected predictions generated on save")
	}

	// Month view
	now := time.Now().UTC()
	var month MonthResponse
	monthPath := fmt.Sprintf("%s/calendar/%d/%d", profilePath, now.Year(), int(now.Month()))
	if err := tr.doData(http.MethodGet, monthPath, nil, &month); err != nil {
		tr.recordError("Month view", err.Error())
	} else if !month.DataLoaded {
		tr.recordError("Month view", "Expected data_loaded after refresh")
	} else {
		tr.recordSuccess(fmt.Sprintf("Month view returned %d days", len(month.Days)))
		if tr.verbose {
			for _, d := range month.Days {
				if d.InCurrentMonth {
					marker := ""
					if d.IsWideningWindow {
						marker = " (widening)"
					}
					fmt.Printf("    %s %s%s\n", d.Date, d.Phase, marker)
				}
			}
		}
	}

	// Day view
	var day DayResponse
	if err := tr.doData(http.MethodGet, profilePath+"/days/"+lastStart, nil, &day); err != nil {
		tr.recordError("Day view", err.Error())
	} else if day.Phase != "menstrual" {
		tr.recordError("Day view", fmt.Sprintf("Expected menstrual on %s, got %s", lastStart, day.Phase))
	} else {
		tr.recordSuccess(fmt.Sprintf("Day view: %s (%s) is %s", day.Date, day.Weekday, day.Phase))
	}

	// Manual refresh
	var run RunResponse
	if err := tr.doData(http.MethodPost, profilePath+"/predictions/refresh", nil, &run); err != nil {
		tr.recordError("Refresh", err.Error())
	} else {
		tr.recordSuccess(fmt.Sprintf("Refresh covered %s to %s", run.RangeStart, run.RangeEnd))
	}

	// Delete
	if err := tr.doData(http.MethodDelete, profilePath, nil, nil); err != nil {
		tr.recordError("Delete profile", err.Error())
		return
	}
	resp, err := tr.request(http.MethodGet, profilePath, nil)
	if err == nil {
		resp.Body.Close()
	}
	if resp != nil && resp.StatusCode == http.StatusNotFound {
		tr.recordSuccess("Profile deleted")
	} else {
		tr.recordError("Delete profile", "Expected 404 after delete")
	}
}

func (tr *TestRunner) testEdgeCases() {
	tr.printSection("Edge Cases")

	testCases := []struct {
		method      string
		path        string
		body        any
		want        int
		description string
	}{
		{http.MethodGet, "/api/v1/calendar/2024/13", nil, http.StatusBadRequest, "Month 13 rejected"},
		{http.MethodGet, "/api/v1/calendar/2024/5?week_start=friday", nil, http.StatusBadRequest, "Unsupported week start rejected"},
		{http.MethodGet, "/api/v1/profiles/" + tr.userID + "/days/2024-9-2", nil, http.StatusBadRequest, "Unpadded date rejected"},
		{http.MethodPut, "/api/v1/profiles/" + tr.userID, map[string]any{"cycle_kind": "sometimes"}, http.StatusBadRequest, "Unknown cycle kind rejected"},
		{http.MethodGet, "/api/v1/profiles/nobody-" + tr.userID, nil, http.StatusNotFound, "Missing profile returns 404"},
		{http.MethodGet, "/api/v1/nowhere", nil, http.StatusNotFound, "Unknown route returns 404"},
	}

	for _, tc := range testCases {
		resp, err := tr.request(tc.method, tc.path, tc.body)
		if err != nil {
			tr.recordError(tc.description, err.Error())
			continue
		}
		resp.Body.Close()

		if resp.StatusCode == tc.want {
			tr.recordSuccess(tc.description)
		} else {
			tr.recordError(tc.description, fmt.Sprintf("Expected HTTP %d, got %d", tc.want, resp.StatusCode))
		}
	}
}

// =============================================================================
// Helper Methods
// =============================================================================

func (tr *TestRunner) getData(path string, target any) error {
	return tr.doData(http.MethodGet, path, nil, target)
}

// doData sends a request and decodes the envelope's data into target.
func (tr *TestRunner) doData(method, path string, body, target any) error {
	resp, err := tr.request(method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read error: %w", err)
	}

	var apiResp APIResponse
	if err := json.Unmarshal(raw, &apiResp); err != nil {
		return fmt.Errorf("parse error: %w", err)
	}

	if !apiResp.Success {
		errMsg := "unknown error"
		if apiResp.Error != nil {
			errMsg = apiResp.Error.Message
		}
		return fmt.Errorf("API error (HTTP %d): %s", resp.StatusCode, errMsg)
	}

	if target == nil {
		return nil
	}
	return json.Unmarshal(apiResp.Data, target)
}

func (tr *TestRunner) request(method, path string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal error: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, tr.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if tr.apiKey != "" {
		req.Header.Set("X-API-Key", tr.apiKey)
	}
	return tr.client.Do(req)
}

func (tr *TestRunner) printSection(name string) {
	fmt.Println()
	fmt.Printf("--- %s ---\n", name)
	fmt.Println()
}

func (tr *TestRunner) recordSuccess(msg string) {
	tr.successCount++
	fmt.Printf("  ✓ %s\n", msg)
}

func (tr *TestRunner) recordError(context, msg string) {
	tr.errorCount++
	errStr := fmt.Sprintf("%s: %s", context, msg)
	tr.errors = append(tr.errors, errStr)
	fmt.Printf("  ✗ %s\n", errStr)
}

func (tr *TestRunner) printSummary() {
	fmt.Println()
	fmt.Println("==============================================")
	fmt.Println("Summary")
	fmt.Println("==============================================")
	fmt.Printf("  Passed: %d\n", tr.successCount)
	fmt.Printf("  Failed: %d\n", tr.errorCount)
	fmt.Println()

	if tr.errorCount > 0 {
		fmt.Println("Failures:")
		for _, err := range tr.errors {
			fmt.Printf("  • %s\n", err)
		}
		fmt.Println()
	}

	if tr.errorCount == 0 {
		fmt.Println("All tests passed! ✓")
	} else {
		fmt.Printf("Tests completed with %d failure(s)\n", tr.errorCount)
	}
}

// =============================================================================
// Main
// =============================================================================

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Base URL of the API")
	apiKey := flag.String("key", os.Getenv("API_KEY"), "API key for profile endpoints")
	verbose := flag.Bool("v", false, "Verbose output (show phase details)")
	flag.Parse()

	// Check if server is reachable
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(*baseURL + "/health")
	if err != nil {
		fmt.Printf("Error: Cannot connect to %s\n", *baseURL)
		fmt.Println("Make sure the API server is running.")
		os.Exit(1)
	}
	resp.Body.Close()

	runner := NewTestRunner(*baseURL, *apiKey, *verbose)
	runner.Run()

	if runner.errorCount > 0 {
		os.Exit(1)
	}
}
