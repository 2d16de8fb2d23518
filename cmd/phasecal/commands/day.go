package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/zapponejosh/cyclecal-api/internal/calendar"
)

func dayCmd() *cobra.Command {
	var pf profileFlags

	cmd := &cobra.Command{
		Use:   "day [YYYY-MM-DD]",
		Short: "Print the phase of a single day",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date := calendar.DateOnly(time.Now())
			if len(args) == 1 {
				d, err := calendar.ParseDateString(args[0])
				if err != nil {
					return fmt.Errorf("date must be YYYY-MM-DD, got %q", args[0])
				}
				date = d
			}

			in, err := pf.inputs(cmd, date, date)
			if err != nil {
				return err
			}

			day := calendar.AnnotateDate(date, in)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s)\n", day.DateString, date.Weekday())
			if info, ok := day.Phase.Info(); ok {
				fmt.Fprintf(out, "Phase:           %s %s\n", swatch(info.Phase), info.Name)
			} else {
				fmt.Fprintln(out, "Phase:           none")
			}
			if day.IsWideningWindow {
				fmt.Fprintln(out, "Widening window: yes")
			}
			return nil
		},
	}

	pf.bind(cmd)
	return cmd
}
