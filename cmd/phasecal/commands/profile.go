package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/zapponejosh/cyclecal-api/internal/calendar"
	"github.com/zapponejosh/cyclecal-api/internal/database"
	"github.com/zapponejosh/cyclecal-api/internal/logger"
	"github.com/zapponejosh/cyclecal-api/internal/prediction"
)

// profileFlags selects where phases come from: a stored profile in the
// database (--db and --user) or a profile described on the command line.
type profileFlags struct {
	dbPath string
	userID string

	kind         string
	lastPeriod   string
	cycleLength  int
	periodLength int
	symptoms     bool
	moon         bool
	widening     bool
	spread       int
}

func (f *profileFlags) bind(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.dbPath, "db", "", "read a stored profile from this SQLite database")
	fl.StringVar(&f.userID, "user", "", "user ID of the stored profile (with --db)")

	fl.StringVar(&f.kind, "kind", string(calendar.CycleKindRegular), "cycle kind: regular, irregular or no_period")
	fl.StringVar(&f.lastPeriod, "last-period", "", "last period start date (YYYY-MM-DD)")
	fl.IntVar(&f.cycleLength, "cycle-length", 0, "cycle length in days")
	fl.IntVar(&f.periodLength, "period-length", 0, "period length in days")
	fl.BoolVar(&f.symptoms, "symptoms", false, "recurring symptoms without a period")
	fl.BoolVar(&f.moon, "moon", false, "follow the moon cycle")
	fl.BoolVar(&f.widening, "widening", false, "show the widening window for irregular cycles")
	fl.IntVar(&f.spread, "spread", prediction.DefaultWideningSpread, "widening window spread in days")
}

// config builds a profile from the command-line flags.
func (f *profileFlags) config(cmd *cobra.Command) (calendar.CycleConfig, error) {
	fields := calendar.ProfileFields{
		CycleKind:             f.kind,
		LastPeriodStart:       &f.lastPeriod,
		UsesMoonCycle:         f.moon,
		WideningWindowEnabled: f.widening,
	}
	if cmd.Flags().Changed("cycle-length") {
		fields.CycleLengthDays = &f.cycleLength
	}
	if cmd.Flags().Changed("period-length") {
		fields.PeriodLengthDays = &f.periodLength
	}
	if cmd.Flags().Changed("symptoms") {
		fields.HasRecurringSymptoms = &f.symptoms
	}
	return fields.Config()
}

// inputs returns the classifier inputs covering [from, to].
func (f *profileFlags) inputs(cmd *cobra.Command, from, to time.Time) (calendar.Inputs, error) {
	if f.dbPath != "" {
		return f.storedInputs(cmd, from, to)
	}
	if f.userID != "" {
		return calendar.Inputs{}, errors.New("--user requires --db")
	}

	cfg, err := f.config(cmd)
	if err != nil {
		return calendar.Inputs{}, err
	}

	res := prediction.Generate(cfg, from, to, prediction.Options{WideningSpreadDays: f.spread})
	return calendar.Inputs{
		Config:     cfg,
		Lookup:     res.Phases,
		Candidates: res.WideningWindow,
		DataLoaded: true,
	}, nil
}

func (f *profileFlags) storedInputs(cmd *cobra.Command, from, to time.Time) (calendar.Inputs, error) {
	if f.userID == "" {
		return calendar.Inputs{}, errors.New("--db requires --user")
	}
	ctx := cmd.Context()

	db, err := database.Open(database.DefaultConfig(f.dbPath), logger.Discard())
	if err != nil {
		return calendar.Inputs{}, err
	}
	defer db.Close()

	if _, err := db.Migrate(ctx); err != nil {
		return calendar.Inputs{}, err
	}

	profile, err := db.GetProfile(ctx, f.userID)
	if err != nil {
		if database.IsNotFound(err) {
			return calendar.Inputs{}, fmt.Errorf("no profile for user %q", f.userID)
		}
		return calendar.Inputs{}, err
	}

	in, err := db.CalendarInputs(ctx, profile, from, to)
	if err != nil {
		return calendar.Inputs{}, err
	}
	if !in.DataLoaded {
		fmt.Fprintf(cmd.ErrOrStderr(), "no predictions stored for %q yet; run a refresh first\n", f.userID)
	}
	return in, nil
}
