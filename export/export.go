/*
Package export renders a built roster as a spreadsheet.

PURPOSE:
  Turns []schedule.EmployeeRecord into the table the workshop has always
  printed: one row per employee, name and group first, the 28 days, then
  actual hours and deviation from the norm.

FORMATS:
  xlsx: one sheet "График", styled header, frozen name columns
  csv:  same columns, UTF-8, comma separated

CELL RENDERING:
  Numbers are written as numbers (xlsx) or their decimal text (csv), codes
  are written verbatim, blanks stay empty. Totals carry one decimal place.

USAGE:
  err := export.Write(w, export.FormatXLSX, roster.Records)

SEE ALSO:
  - api/handlers.go: GET /api/roster/export
  - cmd/roster/main.go: roster export
*/
package export

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/warp/shift-roster/schedule"
)

// Column headers.
const (
	ColumnName      = "Ф.И.О. мастера смены"
	ColumnGroup     = "ГР №"
	ColumnTotal     = "Факт ФРВ"
	ColumnDeviation = "от ФРВ"
)

// SheetName is the worksheet name used by WriteXLSX.
const SheetName = "График"

// Format is an output format.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// ErrUnknownFormat is returned for formats other than xlsx and csv.
var ErrUnknownFormat = errors.New("unknown export format")

// ParseFormat accepts "xlsx" or "csv", case-insensitively. Empty means xlsx.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatXLSX:
		return FormatXLSX, nil
	case FormatCSV:
		return FormatCSV, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// ContentType is the MIME type for the format.
func (f Format) ContentType() string {
	if f == FormatCSV {
		return "text/csv; charset=utf-8"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// FileName is the suggested download name.
func (f Format) FileName() string {
	return "production_schedule." + string(f)
}

// Columns returns the header row: name, group, days 1..28, total, deviation.
func Columns() []string {
	cols := make([]string, 0, schedule.DaysInMonth+4)
	cols = append(cols, ColumnName, ColumnGroup)
	for day := 1; day <= schedule.DaysInMonth; day++ {
		cols = append(cols, strconv.Itoa(day))
	}
	return append(cols, ColumnTotal, ColumnDeviation)
}

// Write renders records in the given format.
func Write(w io.Writer, format Format, records []schedule.EmployeeRecord) error {
	switch format {
	case FormatXLSX:
		return WriteXLSX(w, records)
	case FormatCSV:
		return WriteCSV(w, records)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}
