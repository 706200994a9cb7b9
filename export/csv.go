package export

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"github.com/warp/shift-roster/schedule"
)

// CSVCell writes a schedule cell as its display text.
type CSVCell struct {
	schedule.Cell
}

// MarshalCSV implements gocsv.TypeMarshaller.
func (c CSVCell) MarshalCSV() (string, error) {
	return c.String(), nil
}

// UnmarshalCSV implements gocsv.TypeUnmarshaller.
func (c *CSVCell) UnmarshalCSV(s string) error {
	c.Cell = schedule.ParseCell(s)
	return nil
}

// Row is one CSV line. Field order is column order.
type Row struct {
	Name      string  `csv:"Ф.И.О. мастера смены"`
	Group     string  `csv:"ГР №"`
	D1        CSVCell `csv:"1"`
	D2        CSVCell `csv:"2"`
	D3        CSVCell `csv:"3"`
	D4        CSVCell `csv:"4"`
	D5        CSVCell `csv:"5"`
	D6        CSVCell `csv:"6"`
	D7        CSVCell `csv:"7"`
	D8        CSVCell `csv:"8"`
	D9        CSVCell `csv:"9"`
	D10       CSVCell `csv:"10"`
	D11       CSVCell `csv:"11"`
	D12       CSVCell `csv:"12"`
	D13       CSVCell `csv:"13"`
	D14       CSVCell `csv:"14"`
	D15       CSVCell `csv:"15"`
	D16       CSVCell `csv:"16"`
	D17       CSVCell `csv:"17"`
	D18       CSVCell `csv:"18"`
	D19       CSVCell `csv:"19"`
	D20       CSVCell `csv:"20"`
	D21       CSVCell `csv:"21"`
	D22       CSVCell `csv:"22"`
	D23       CSVCell `csv:"23"`
	D24       CSVCell `csv:"24"`
	D25       CSVCell `csv:"25"`
	D26       CSVCell `csv:"26"`
	D27       CSVCell `csv:"27"`
	D28       CSVCell `csv:"28"`
	Total     string  `csv:"Факт ФРВ"`
	Deviation string  `csv:"от ФРВ"`
}

func (r *Row) days() [schedule.DaysInMonth]*CSVCell {
	return [schedule.DaysInMonth]*CSVCell{
		&r.D1, &r.D2, &r.D3, &r.D4, &r.D5, &r.D6, &r.D7,
		&r.D8, &r.D9, &r.D10, &r.D11, &r.D12, &r.D13, &r.D14,
		&r.D15, &r.D16, &r.D17, &r.D18, &r.D19, &r.D20, &r.D21,
		&r.D22, &r.D23, &r.D24, &r.D25, &r.D26, &r.D27, &r.D28,
	}
}

// Day returns the cell for day 1..28.
func (r *Row) Day(day int) schedule.Cell {
	if day < 1 || day > schedule.DaysInMonth {
		return schedule.Blank()
	}
	return r.days()[day-1].Cell
}

// NewRow converts a record.
func NewRow(rec schedule.EmployeeRecord) Row {
	row := Row{
		Name:      rec.Name,
		Group:     rec.Group,
		Total:     rec.Total.StringFixed(1),
		Deviation: rec.Deviation.StringFixed(1),
	}
	for i, cell := range row.days() {
		cell.Cell = rec.Days.Day(i + 1)
	}
	return row
}

// WriteCSV renders records as CSV with a header line.
func WriteCSV(w io.Writer, records []schedule.EmployeeRecord) error {
	rows := make([]*Row, len(records))
	for i, rec := range records {
		row := NewRow(rec)
		rows[i] = &row
	}
	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

// ReadCSV parses a file written by WriteCSV.
func ReadCSV(r io.Reader) ([]Row, error) {
	var rows []Row
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	return rows, nil
}
