// Package commands implements the phasecal terminal calendar.
package commands

import (
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/zapponejosh/cyclecal-api/internal/calendar"
)

var (
	weekStartName string
	noColor       bool

	weekStart time.Weekday
)

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "phasecal",
		Short:        "Cycle phase calendar for the terminal",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ws, err := calendar.ParseWeekStart(weekStartName)
			if err != nil {
				return err
			}
			weekStart = ws
			if noColor || os.Getenv("NO_COLOR") != "" {
				lipgloss.SetColorProfile(termenv.Ascii)
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&weekStartName, "week-start", "sunday", "first day of the week (sunday or monday)")
	root.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	root.AddCommand(monthCmd(), dayCmd(), phasesCmd())
	return root
}
