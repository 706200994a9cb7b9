package export_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/warp/shift-roster/export"
	"github.com/warp/shift-roster/schedule"
	"github.com/warp/shift-roster/shifts"
)

func buildRecords(t *testing.T) []schedule.EmployeeRecord {
	t.Helper()
	preset, ok := shifts.Lookup(shifts.PresetSinglePattern)
	require.True(t, ok)
	input, err := preset.Input()
	require.NoError(t, err)
	roster, err := input.Build(nil)
	require.NoError(t, err)
	return roster.Records
}

func TestColumns(t *testing.T) {
	cols := export.Columns()
	require.Len(t, cols, 32)
	assert.Equal(t, "Ф.И.О. мастера смены", cols[0])
	assert.Equal(t, "ГР №", cols[1])
	assert.Equal(t, "1", cols[2])
	assert.Equal(t, "28", cols[29])
	assert.Equal(t, "Факт ФРВ", cols[30])
	assert.Equal(t, "от ФРВ", cols[31])
}

func TestParseFormat(t *testing.T) {
	f, err := export.ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, export.FormatXLSX, f)

	f, err = export.ParseFormat(" CSV ")
	require.NoError(t, err)
	assert.Equal(t, export.FormatCSV, f)
	assert.Equal(t, "production_schedule.csv", f.FileName())
	assert.Contains(t, f.ContentType(), "text/csv")

	_, err = export.ParseFormat("pdf")
	assert.ErrorIs(t, err, export.ErrUnknownFormat)
}

func TestWriteXLSX(t *testing.T) {
	// GIVEN: The single-pattern roster (one employee with ГО on day 12)
	// WHEN: Writing a workbook and reading it back
	// THEN: Header, day cells and totals are where the printed table has them

	records := buildRecords(t)

	var buf bytes.Buffer
	require.NoError(t, export.Write(&buf, export.FormatXLSX, records))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{export.SheetName}, f.GetSheetList())

	rows, err := f.GetRows(export.SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 1+len(records))
	assert.Equal(t, export.Columns(), rows[0])

	// Петров П.П.: {12: ГО, 27: 4}
	name, err := f.GetCellValue(export.SheetName, "A3")
	require.NoError(t, err)
	assert.Equal(t, "Петров П.П.", name)

	day1, _ := f.GetCellValue(export.SheetName, "C3")
	day3, _ := f.GetCellValue(export.SheetName, "E3")
	day12, _ := f.GetCellValue(export.SheetName, "N3")
	day27, _ := f.GetCellValue(export.SheetName, "AC3")
	total, _ := f.GetCellValue(export.SheetName, "AE3")
	deviation, _ := f.GetCellValue(export.SheetName, "AF3")

	assert.Equal(t, "11.5", day1)
	assert.Equal(t, "", day3)
	assert.Equal(t, "ГО", day12)
	assert.Equal(t, "4", day27)
	assert.Equal(t, "245.5", total)
	assert.Equal(t, "85.5", deviation)
}

func TestWriteXLSX_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WriteXLSX(&buf, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(export.SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestWriteCSV(t *testing.T) {
	// GIVEN: The single-pattern roster
	// WHEN: Writing CSV
	// THEN: The header matches Columns and rows read back with typed cells

	records := buildRecords(t)

	var buf bytes.Buffer
	require.NoError(t, export.Write(&buf, export.FormatCSV, records))

	header, _, _ := strings.Cut(buf.String(), "\n")
	assert.Equal(t, strings.Join(export.Columns(), ","), header)

	rows, err := export.ReadCSV(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, rows, len(records))

	row := rows[1]
	assert.Equal(t, "Петров П.П.", row.Name)
	assert.Equal(t, "ГР1", row.Group)
	assert.True(t, row.Day(3).IsBlank())
	assert.True(t, row.Day(12).IsCode())
	assert.Equal(t, "ГО", row.Day(12).Token())
	assert.Equal(t, "4", row.Day(27).String())
	assert.Equal(t, "245.5", row.Total)
	assert.Equal(t, "85.5", row.Deviation)

	assert.Equal(t, "253.0", rows[0].Total)
	assert.Equal(t, "93.0", rows[0].Deviation)
}

func TestNewRow_MatchesRecord(t *testing.T) {
	for _, rec := range buildRecords(t) {
		row := export.NewRow(rec)
		for day := 1; day <= schedule.DaysInMonth; day++ {
			assert.True(t, rec.Days.Day(day).Equal(row.Day(day)), "%s day %d", rec.Name, day)
		}
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	err := export.Write(&buf, export.Format("pdf"), nil)
	assert.ErrorIs(t, err, export.ErrUnknownFormat)
}
