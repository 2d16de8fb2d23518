package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/zapponejosh/cyclecal-api/internal/calendar"
)

const (
	cellWidth    = 5
	windowMarker = "~"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	headerStyle  = lipgloss.NewStyle().Bold(true).Width(cellWidth).Align(lipgloss.Right)
	cellStyle    = lipgloss.NewStyle().Width(cellWidth).Align(lipgloss.Right)
	outsideStyle = cellStyle.Faint(true)
	mutedStyle   = lipgloss.NewStyle().Faint(true)
)

// phaseStyle colors a cell with the phase's display color.
func phaseStyle(p calendar.Phase) lipgloss.Style {
	return cellStyle.
		Foreground(lipgloss.Color("#101010")).
		Background(lipgloss.Color(p.Color()))
}

// phaseMark is the one-letter tag shown next to the day number. Moon phases
// use upper case.
func phaseMark(p calendar.Phase) string {
	if p == calendar.PhaseNone {
		return " "
	}
	mark := string(p.Base())[:1]
	if p.IsMoon() {
		return strings.ToUpper(mark)
	}
	return mark
}

// renderMonth draws an annotated month grid with a legend underneath.
func renderMonth(year int, month time.Month, weekStart time.Weekday, days []calendar.DayAnnotation) string {
	var sb strings.Builder

	title := fmt.Sprintf("%s %d", month, year)
	sb.WriteString(titleStyle.Width(cellWidth * 7).Align(lipgloss.Center).Render(title))
	sb.WriteString("\n")

	labels := calendar.WeekdayLabels(weekStart)
	header := make([]string, len(labels))
	for i, l := range labels {
		header[i] = headerStyle.Render(l[:2])
	}
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, header...))
	sb.WriteString("\n")

	row := make([]string, 0, 7)
	for _, d := range days {
		row = append(row, renderCell(d))
		if len(row) == 7 {
			sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, row...))
			sb.WriteString("\n")
			row = row[:0]
		}
	}

	if legend := renderLegend(days); legend != "" {
		sb.WriteString("\n")
		sb.WriteString(legend)
		sb.WriteString("\n")
	}

	return sb.String()
}

func renderCell(d calendar.DayAnnotation) string {
	window := " "
	if d.IsWideningWindow {
		window = windowMarker
	}
	text := fmt.Sprintf("%2d%s%s", d.Date.Day(), phaseMark(d.Phase), window)

	switch {
	case !d.InCurrentMonth:
		return outsideStyle.Render(text)
	case d.HasPhase():
		return phaseStyle(d.Phase).Render(text)
	default:
		return cellStyle.Render(text)
	}
}

// renderLegend lists the phases and markers that appear in the month.
func renderLegend(days []calendar.DayAnnotation) string {
	seen := map[calendar.Phase]bool{}
	window := false
	for _, d := range days {
		if !d.InCurrentMonth {
			continue
		}
		if d.HasPhase() {
			seen[d.Phase] = true
		}
		window = window || d.IsWideningWindow
	}

	var lines []string
	for _, info := range calendar.Phases() {
		if !seen[info.Phase] {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s %s %s", swatch(info.Phase), phaseMark(info.Phase), info.Name))
	}
	if window {
		lines = append(lines, mutedStyle.Render(fmt.Sprintf("   %s widening window", windowMarker)))
	}
	return strings.Join(lines, "\n")
}
