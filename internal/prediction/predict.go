// Package prediction generates per-day phase maps and widening-window
// candidate days from a cycle profile. It stands in for the remote
// prediction service: the calendar package only consumes its output.
package prediction

import (
	"time"

	"github.com/zapponejosh/cyclecal-api/internal/calendar"
)

// Defaults used when a profile leaves a length unknown.
const (
	DefaultCycleLength    = 28
	DefaultPeriodLength   = 5
	DefaultWideningSpread = 2

	// lutealLength is the textbook span from ovulation to the next period.
	lutealLength = 14
)

// Options tunes generation.
type Options struct {
	// WideningSpreadDays is the half-width of the first widening window.
	// The k-th projected period start gets k times this spread.
	WideningSpreadDays int
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{WideningSpreadDays: DefaultWideningSpread}
}

// Result is the output of one generation run.
type Result struct {
	From           time.Time
	To             time.Time
	Phases         calendar.PhaseMap
	WideningWindow calendar.DaySet
}

// Mode describes which model a profile is predicted with.
type Mode string

const (
	ModeNone     Mode = "none"
	ModeBleeding Mode = "bleeding"
	ModeMoon     Mode = "moon"
)

// ModeFor picks the prediction model for cfg.
func ModeFor(cfg calendar.CycleConfig) Mode {
	switch {
	case cfg.IsMoonBased():
		return ModeMoon
	case cfg.CycleKind == calendar.CycleKindRegular,
		cfg.CycleKind == calendar.CycleKindIrregular,
		cfg.IsSymptomatic():
		if cfg.LastPeriodStart == nil {
			return ModeNone
		}
		return ModeBleeding
	default:
		return ModeNone
	}
}

// Generate predicts phases for every day in [from, to] and, for irregular
// profiles with the widening window enabled, the candidate period-start days.
// Days before the profile's last period start never get a phase.
func Generate(cfg calendar.CycleConfig, from, to time.Time, opts Options) Result {
	from, to = calendar.DateOnly(from), calendar.DateOnly(to)
	res := Result{
		From:           from,
		To:             to,
		Phases:         calendar.PhaseMap{},
		WideningWindow: calendar.NewDaySet(),
	}
	if to.Before(from) {
		return res
	}

	mode := ModeFor(cfg)
	if mode == ModeNone {
		return res
	}

	cycleLength, periodLength := lengths(cfg)

	var tracked time.Time
	if cfg.LastPeriodStart != nil {
		tracked = calendar.DateOnly(*cfg.LastPeriodStart)
	}

	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if !tracked.IsZero() && d.Before(tracked) {
			continue
		}
		switch mode {
		case ModeMoon:
			res.Phases.Set(d, MoonPhase(d))
		case ModeBleeding:
			cycleDay := calendar.DaysBetween(tracked, d)%cycleLength + 1
			res.Phases.Set(d, PhaseForCycleDay(cycleDay, cycleLength, periodLength))
		}
	}

	if cfg.WideningWindowApplies() && cfg.WideningWindowEnabled && !tracked.IsZero() {
		res.WideningWindow = WideningWindow(tracked, cycleLength, opts.WideningSpreadDays, from, to)
	}

	return res
}

// lengths returns the profile's cycle and period lengths with defaults
// applied. A period that would not leave room for the rest of the cycle is
// shortened.
func lengths(cfg calendar.CycleConfig) (int, int) {
	cycleLength := DefaultCycleLength
	if cfg.CycleLengthDays != nil && *cfg.CycleLengthDays > 0 {
		cycleLength = *cfg.CycleLengthDays
	}
	periodLength := DefaultPeriodLength
	if cfg.PeriodLengthDays != nil && *cfg.PeriodLengthDays > 0 {
		periodLength = *cfg.PeriodLengthDays
	}
	if periodLength >= cycleLength {
		periodLength = cycleLength - 1
	}
	return cycleLength, periodLength
}

// OvulationDay returns the 1-based cycle day of ovulation.
// It reports false when fewer than 8 days remain after the period.
func OvulationDay(cycleLength, periodLength int) (int, bool) {
	if cycleLength-periodLength < 8 {
		return 0, false
	}

	day := cycleLength - lutealLength
	if day < periodLength+2 {
		day = periodLength + 2
	}
	return day, true
}

// PhaseForCycleDay maps a 1-based cycle day to a bleeding-based phase.
//
// The ovulatory phase spans the ovulation day and one day either side. When
// ovulation cannot be placed, the days after the period split evenly into
// follicular and luteal.
func PhaseForCycleDay(cycleDay, cycleLength, periodLength int) calendar.Phase {
	if cycleDay <= periodLength {
		return calendar.PhaseMenstrual
	}

	ovulation, ok := OvulationDay(cycleLength, periodLength)
	if !ok {
		mid := periodLength + (cycleLength-periodLength)/2
		if cycleDay <= mid {
			return calendar.PhaseFollicular
		}
		return calendar.PhaseLuteal
	}

	switch {
	case cycleDay >= ovulation-1 && cycleDay <= ovulation+1:
		return calendar.PhaseOvulatory
	case cycleDay < ovulation:
		return calendar.PhaseFollicular
	default:
		return calendar.PhaseLuteal
	}
}

// ProjectedStarts returns the projected period starts after lastStart that
// could affect [from, to] once widened by maxSpread days.
func ProjectedStarts(lastStart time.Time, cycleLength, maxSpread int, from, to time.Time) []time.Time {
	if cycleLength <= 0 {
		return nil
	}
	var starts []time.Time
	for k := 1; ; k++ {
		start := calendar.DateOnly(lastStart).AddDate(0, 0, k*cycleLength)
		if start.AddDate(0, 0, -maxSpread).After(to) {
			break
		}
		if start.AddDate(0, 0, maxSpread).Before(from) {
			continue
		}
		starts = append(starts, start)
	}
	return starts
}

// WideningWindow returns the candidate period-start days within [from, to].
//
// Around the k-th projected start the window spans spread*k days either side,
// capped so that neighbouring windows never meet.
func WideningWindow(lastStart time.Time, cycleLength, spread int, from, to time.Time) calendar.DaySet {
	days := calendar.NewDaySet()
	if cycleLength <= 0 || spread < 0 {
		return days
	}

	maxSpread := cycleLength/2 - 1
	if maxSpread < 0 {
		maxSpread = 0
	}

	lastStart = calendar.DateOnly(lastStart)
	for _, start := range ProjectedStarts(lastStart, cycleLength, maxSpread, from, to) {
		k := calendar.DaysBetween(lastStart, start) / cycleLength
		width := spread * k
		if width > maxSpread {
			width = maxSpread
		}
		for offset := -width; offset <= width; offset++ {
			d := start.AddDate(0, 0, offset)
			if d.Before(from) || d.After(to) {
				continue
			}
			days.Add(d)
		}
	}

	return days
}
