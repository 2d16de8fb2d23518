package calendar

import "time"

// IsWideningWindow reports whether date should be flagged as a possible
// period-start day.
//
// A false result while dataLoaded is false is not authoritative: the
// candidate set simply has not been fetched yet.
func IsWideningWindow(date time.Time, cfg CycleConfig, candidates DaySet, dataLoaded bool) bool {
	if !dataLoaded {
		return false
	}
	if !cfg.WideningWindowApplies() {
		return false
	}
	return candidates.Contains(date)
}
