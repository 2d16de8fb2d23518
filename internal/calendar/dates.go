// Package calendar builds month grids and classifies each day of a cycle
// calendar by phase and widening-window membership.
//
// Everything in this package is pure: no I/O, no shared state. Callers fetch
// prediction data first and pass it in.
package calendar

import (
	"sort"
	"time"
)

// DateLayout is the ISO 8601 date format used for keys and the API.
const DateLayout = "2006-01-02"

// DateOnly strips the time of day, keeping the civil date of t.
// Results are in UTC so that equal days compare equal regardless of the
// zone they came from.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether a and b fall on the same civil date.
func SameDay(a, b time.Time) bool {
	return DateKey(a) == DateKey(b)
}

// DateKey returns the YYYY-MM-DD key for t.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDateString parses a date string in YYYY-MM-DD format
func ParseDateString(dateStr string) (time.Time, error) {
	return time.Parse(DateLayout, dateStr)
}

// FormatDate formats a date as YYYY-MM-DD
func FormatDate(date time.Time) string {
	return date.Format(DateLayout)
}

// DaysBetween returns the number of whole days from a to b (negative if b is
// before a), counted on civil dates.
func DaysBetween(a, b time.Time) int {
	return int(DateOnly(b).Sub(DateOnly(a)).Hours() / 24)
}

// DaySet is a set of civil days.
type DaySet map[string]struct{}

// NewDaySet returns a set containing the given dates.
func NewDaySet(dates ...time.Time) DaySet {
	s := make(DaySet, len(dates))
	for _, d := range dates {
		s.Add(d)
	}
	return s
}

// Add inserts the civil day of d.
func (s DaySet) Add(d time.Time) {
	s[DateKey(d)] = struct{}{}
}

// Contains reports whether the civil day of d is in the set.
// A nil set contains nothing.
func (s DaySet) Contains(d time.Time) bool {
	if s == nil {
		return false
	}
	_, ok := s[DateKey(d)]
	return ok
}

// Len returns the number of days in the set.
func (s DaySet) Len() int {
	return len(s)
}

// Sorted returns the days in ascending order.
func (s DaySet) Sorted() []time.Time {
	out := make([]time.Time, 0, len(s))
	for key := range s {
		d, err := ParseDateString(key)
		if err != nil {
			continue
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}
