package commands

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/zapponejosh/cyclecal-api/internal/calendar"
)

func phasesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "phases",
		Short: "List the phase catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, info := range calendar.Phases() {
				fmt.Fprintf(out, "%s %s  %-16s %-12s %s\n",
					swatch(info.Phase), phaseMark(info.Phase), info.Phase, info.Name, info.Color)
			}
			return nil
		},
	}
}

func swatch(p calendar.Phase) string {
	return lipgloss.NewStyle().Background(lipgloss.Color(p.Color())).Render("  ")
}
