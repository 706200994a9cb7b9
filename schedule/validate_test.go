package schedule_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/shift-roster/schedule"
)

func recordWith(name string, cells map[int]schedule.Cell) schedule.EmployeeRecord {
	days := make(schedule.DaySequence, schedule.DaysInMonth)
	for i := range days {
		days[i] = schedule.Hours(8)
	}
	for day, c := range cells {
		days[day-1] = c
	}
	return schedule.EmployeeRecord{Name: name, Group: "ГР1", Days: days}
}

func TestValidate_UnknownToken_OneError(t *testing.T) {
	// GIVEN: A cell holding "xyz"
	// THEN: Exactly one ValidationError for that employee and day

	rec := recordWith("Раку О.А.", map[int]schedule.Cell{9: schedule.Code("xyz")})

	issues := schedule.Validate(rec)
	require.Len(t, issues, 1)
	assert.Equal(t, "Раку О.А.", issues[0].Employee)
	assert.Equal(t, 9, issues[0].Day)
	assert.Equal(t, "xyz", issues[0].Value)
	assert.Equal(t, schedule.ReasonUnknownCode, issues[0].Reason)
}

func TestValidate_AbsenceCodes_CaseInsensitive(t *testing.T) {
	rec := recordWith("e", map[int]schedule.Cell{
		1: schedule.Code("ГО"),
		2: schedule.Code("го"),
		3: schedule.Code("Б/Л"),
		4: schedule.Code("б/л"),
		5: schedule.Code("УВ"),
		6: schedule.Code("Ув"),
		7: schedule.Code(" го "),
		8: schedule.Blank(),
	})
	assert.Empty(t, schedule.Validate(rec))
}

func TestValidate_NegativeHours(t *testing.T) {
	rec := recordWith("e", map[int]schedule.Cell{20: schedule.Hours(-4)})

	issues := schedule.Validate(rec)
	require.Len(t, issues, 1)
	assert.Equal(t, 20, issues[0].Day)
	assert.Equal(t, "-4", issues[0].Value)
	assert.Equal(t, schedule.ReasonNegativeHours, issues[0].Reason)
}

func TestValidate_ZeroAndFractionalHoursAreLegal(t *testing.T) {
	rec := recordWith("e", map[int]schedule.Cell{
		1: schedule.Hours(0),
		2: schedule.Hours(11.5),
		3: schedule.Number(hours("0.25")),
	})
	assert.Empty(t, schedule.Validate(rec))
}

func TestValidate_ReportsEveryIllegalCell(t *testing.T) {
	rec := recordWith("e", map[int]schedule.Cell{
		3:  schedule.Code("отгул"),
		10: schedule.Code("xyz"),
		28: schedule.Hours(-1),
	})

	issues := schedule.Validate(rec)
	require.Len(t, issues, 3)
	assert.Equal(t, []int{3, 10, 28}, []int{issues[0].Day, issues[1].Day, issues[2].Day})
}

func TestCheckCell_Soundness(t *testing.T) {
	// Legal iff non-negative number, blank, or a normalized absence code.
	tests := []struct {
		cell  schedule.Cell
		legal bool
	}{
		{schedule.Blank(), true},
		{schedule.Hours(0), true},
		{schedule.Hours(11.5), true},
		{schedule.Hours(-0.5), false},
		{schedule.Code("го"), true},
		{schedule.Code("ГО"), true},
		{schedule.Code("б/л"), true},
		{schedule.Code("ув"), true},
		{schedule.Code("   "), true},
		{schedule.Code("б\\л"), false},
		{schedule.Code("vacation"), false},
		{schedule.ParseCell("8"), true},
		{schedule.ParseCell("-8"), false},
	}

	for _, tt := range tests {
		t.Run(tt.cell.String(), func(t *testing.T) {
			assert.Equal(t, tt.legal, schedule.IsLegal(tt.cell))
		})
	}
}

func TestValidateAll_KeepsRecordOrder(t *testing.T) {
	records := []schedule.EmployeeRecord{
		recordWith("first", map[int]schedule.Cell{5: schedule.Code("?")}),
		recordWith("second", nil),
		recordWith("third", map[int]schedule.Cell{1: schedule.Code("!")}),
	}

	issues := schedule.ValidateAll(records)
	require.Len(t, issues, 2)
	assert.Equal(t, "first", issues[0].Employee)
	assert.Equal(t, "third", issues[1].Employee)
}

func TestLookupAbsence(t *testing.T) {
	code, ok := schedule.LookupAbsence("  Б/Л")
	require.True(t, ok)
	assert.Equal(t, schedule.AbsenceSickLeave, code)
	assert.Equal(t, "medical leave", code.Description())

	_, ok = schedule.LookupAbsence("")
	assert.False(t, ok, "blank is legal but is not an absence code")
}
