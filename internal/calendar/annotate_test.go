package calendar

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnnotateMonth_CombinesClassifiers(t *testing.T) {
	in := Inputs{
		Config: CycleConfig{
			CycleKind:       CycleKindIrregular,
			LastPeriodStart: timePtr(day("2024-09-01")),
		},
		Lookup:     PhaseMap{"2024-09-03": PhaseMenstrual},
		Candidates: NewDaySet(day("2024-09-10"), day("2024-09-11")),
		DataLoaded: true,
	}

	days := AnnotateMonth(2024, time.September, time.Sunday, in)
	require.Len(t, days, 35)

	byDate := make(map[string]DayAnnotation, len(days))
	for _, d := range days {
		byDate[d.DateString] = d
	}

	// Padding cell from August, before tracking began.
	assert.False(t, byDate["2024-08-31"].InCurrentMonth)
	assert.False(t, byDate["2024-08-31"].HasPhase())

	assert.Equal(t, PhaseMenstrual, byDate["2024-09-03"].Phase)
	assert.Equal(t, PhaseFollicular, byDate["2024-09-04"].Phase)
	assert.True(t, byDate["2024-09-10"].IsWideningWindow)
	assert.False(t, byDate["2024-09-12"].IsWideningWindow)
}

func TestAnnotateMonth_FirstWeek(t *testing.T) {
	in := Inputs{
		Config: CycleConfig{
			CycleKind:       CycleKindIrregular,
			LastPeriodStart: timePtr(day("2024-09-01")),
		},
		Lookup:     PhaseMap{"2024-09-01": PhaseMenstrual, "2024-09-02": PhaseMenstrual},
		Candidates: NewDaySet(day("2024-09-05")),
		DataLoaded: true,
	}

	want := []DayAnnotation{
		{DateString: "2024-09-01", InCurrentMonth: true, WeekdayIndex: 0, Phase: PhaseMenstrual},
		{DateString: "2024-09-02", InCurrentMonth: true, WeekdayIndex: 1, Phase: PhaseMenstrual},
		{DateString: "2024-09-03", InCurrentMonth: true, WeekdayIndex: 2, Phase: PhaseFollicular},
		{DateString: "2024-09-04", InCurrentMonth: true, WeekdayIndex: 3, Phase: PhaseFollicular},
		{DateString: "2024-09-05", InCurrentMonth: true, WeekdayIndex: 4, Phase: PhaseFollicular, IsWideningWindow: true},
		{DateString: "2024-09-06", InCurrentMonth: true, WeekdayIndex: 5, Phase: PhaseFollicular},
		{DateString: "2024-09-07", InCurrentMonth: true, WeekdayIndex: 6, Phase: PhaseFollicular},
	}

	got := AnnotateMonth(2024, time.September, time.Sunday, in)[:7]
	if diff := cmp.Diff(want, got, cmpopts.IgnoreFields(DayAnnotation{}, "Date")); diff != "" {
		t.Errorf("first week mismatch (-want +got):\n%s", diff)
	}
}

func TestAnnotateMonth_Deterministic(t *testing.T) {
	in := Inputs{
		Config:     CycleConfig{CycleKind: CycleKindIrregular},
		Lookup:     PhaseMap{"2024-02-14": PhaseOvulatory},
		Candidates: NewDaySet(day("2024-02-20")),
		DataLoaded: true,
	}

	first := AnnotateMonth(2024, time.February, time.Sunday, in)
	second := AnnotateMonth(2024, time.February, time.Sunday, in)
	assert.Equal(t, first, second)

	for _, cell := range BuildMonthGrid(2024, time.February) {
		assert.Equal(t, AnnotateDay(cell, in), AnnotateDay(cell, in))
	}
}

func TestAnnotateDate(t *testing.T) {
	in := Inputs{Config: CycleConfig{CycleKind: CycleKindRegular}}

	a := AnnotateDate(time.Date(2024, time.September, 2, 18, 0, 0, 0, time.UTC), in)
	assert.Equal(t, "2024-09-02", a.DateString)
	assert.Equal(t, PhaseFollicular, a.Phase)
	assert.Equal(t, int(time.Monday), a.WeekdayIndex)
	assert.False(t, a.IsWideningWindow)
}

func TestGridRange(t *testing.T) {
	from, to := GridRange(2024, time.February, time.Sunday)
	assert.Equal(t, "2024-01-28", FormatDate(from))
	assert.Equal(t, "2024-03-02", FormatDate(to))
}
