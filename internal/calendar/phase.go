package calendar

import (
	"fmt"
	"time"
)

// Phase is a cycle phase tag. The zero value means "no phase".
type Phase string

// Bleeding-based phases and their moon-based counterparts.
const (
	PhaseNone Phase = ""

	PhaseMenstrual  Phase = "menstrual"
	PhaseFollicular Phase = "follicular"
	PhaseOvulatory  Phase = "ovulatory"
	PhaseLuteal     Phase = "luteal"

	PhaseMenstrualMoon  Phase = "menstrual_moon"
	PhaseFollicularMoon Phase = "follicular_moon"
	PhaseOvulatoryMoon  Phase = "ovulatory_moon"
	PhaseLutealMoon     Phase = "luteal_moon"
)

// PhaseInfo holds the display attributes of a phase.
type PhaseInfo struct {
	Phase Phase  `json:"phase"`
	Name  string `json:"name"`
	Color string `json:"color"` // #RRGGBB
	Icon  string `json:"icon"`
	Moon  bool   `json:"moon"`
}

var phaseCatalog = []PhaseInfo{
	{Phase: PhaseMenstrual, Name: "Menstrual", Color: "#E05A6D", Icon: "drop.fill"},
	{Phase: PhaseFollicular, Name: "Follicular", Color: "#F2A65A", Icon: "leaf.fill"},
	{Phase: PhaseOvulatory, Name: "Ovulatory", Color: "#5FB49C", Icon: "sun.max.fill"},
	{Phase: PhaseLuteal, Name: "Luteal", Color: "#8E7CC3", Icon: "cloud.fill"},
	{Phase: PhaseMenstrualMoon, Name: "New Moon", Color: "#B0445A", Icon: "moonphase.new.moon", Moon: true},
	{Phase: PhaseFollicularMoon, Name: "Waxing Moon", Color: "#C98A4B", Icon: "moonphase.waxing.crescent", Moon: true},
	{Phase: PhaseOvulatoryMoon, Name: "Full Moon", Color: "#4A9381", Icon: "moonphase.full.moon", Moon: true},
	{Phase: PhaseLutealMoon, Name: "Waning Moon", Color: "#6F619E", Icon: "moonphase.waning.crescent", Moon: true},
}

// Phases returns every phase in display order.
func Phases() []PhaseInfo {
	out := make([]PhaseInfo, len(phaseCatalog))
	copy(out, phaseCatalog)
	return out
}

// Info returns the display attributes of p.
// The second result is false for PhaseNone and unknown values.
func (p Phase) Info() (PhaseInfo, bool) {
	for _, info := range phaseCatalog {
		if info.Phase == p {
			return info, true
		}
	}
	return PhaseInfo{}, false
}

// IsValid checks if a phase is one of the eight known tags.
func (p Phase) IsValid() bool {
	_, ok := p.Info()
	return ok
}

// IsMoon reports whether p is a moon-based phase.
func (p Phase) IsMoon() bool {
	info, ok := p.Info()
	return ok && info.Moon
}

// Color returns the display color, or "" for unknown phases.
func (p Phase) Color() string {
	info, _ := p.Info()
	return info.Color
}

// Icon returns the icon identifier, or "" for unknown phases.
func (p Phase) Icon() string {
	info, _ := p.Info()
	return info.Icon
}

// Base maps a moon phase to its bleeding-based counterpart.
// Bleeding-based phases are returned unchanged.
func (p Phase) Base() Phase {
	switch p {
	case PhaseMenstrualMoon:
		return PhaseMenstrual
	case PhaseFollicularMoon:
		return PhaseFollicular
	case PhaseOvulatoryMoon:
		return PhaseOvulatory
	case PhaseLutealMoon:
		return PhaseLuteal
	default:
		return p
	}
}

// ParsePhase validates a phase string.
func ParsePhase(s string) (Phase, error) {
	p := Phase(s)
	if !p.IsValid() {
		return PhaseNone, fmt.Errorf("unknown phase %q", s)
	}
	return p, nil
}

// PhaseLookup supplies externally predicted phases per date.
type PhaseLookup interface {
	PhaseFor(date time.Time) (Phase, bool)
}

// PhaseLookupFunc adapts a function to PhaseLookup.
type PhaseLookupFunc func(date time.Time) (Phase, bool)

// PhaseFor calls f(date).
func (f PhaseLookupFunc) PhaseFor(date time.Time) (Phase, bool) {
	return f(date)
}

// PhaseMap is a PhaseLookup backed by a map keyed by YYYY-MM-DD.
type PhaseMap map[string]Phase

// Set records the phase for the civil day of date.
func (m PhaseMap) Set(date time.Time, p Phase) {
	m[DateKey(date)] = p
}

// PhaseFor returns the stored phase for the civil day of date.
func (m PhaseMap) PhaseFor(date time.Time) (Phase, bool) {
	if m == nil {
		return PhaseNone, false
	}
	p, ok := m[DateKey(date)]
	if !ok || p == PhaseNone {
		return PhaseNone, false
	}
	return p, true
}
