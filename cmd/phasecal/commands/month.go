package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/zapponejosh/cyclecal-api/internal/calendar"
)

func monthCmd() *cobra.Command {
	var pf profileFlags

	cmd := &cobra.Command{
		Use:   "month [YYYY-MM]",
		Short: "Print a month with its cycle phases",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, month, err := parseMonthArg(args)
			if err != nil {
				return err
			}

			from, to := calendar.GridRange(year, month, weekStart)
			in, err := pf.inputs(cmd, from, to)
			if err != nil {
				return err
			}

			days := calendar.AnnotateMonth(year, month, weekStart, in)
			fmt.Fprint(cmd.OutOrStdout(), renderMonth(year, month, weekStart, days))
			return nil
		},
	}

	pf.bind(cmd)
	return cmd
}

// parseMonthArg reads an optional YYYY-MM argument, defaulting to the
// current month.
func parseMonthArg(args []string) (int, time.Month, error) {
	if len(args) == 0 {
		now := time.Now()
		return now.Year(), now.Month(), nil
	}

	t, err := time.Parse("2006-01", args[0])
	if err != nil {
		return 0, 0, fmt.Errorf("month must be YYYY-MM, got %q", args[0])
	}
	if err := calendar.ValidateMonth(t.Year(), t.Month()); err != nil {
		return 0, 0, err
	}
	return t.Year(), t.Month(), nil
}
