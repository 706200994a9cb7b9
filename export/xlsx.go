package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/warp/shift-roster/schedule"
)

// =============================================================================
// XLSX
// =============================================================================

type styles struct {
	header    int
	day       int
	code      int
	total     int
	overtime  int
	undertime int
}

func newStyles(f *excelize.File) (styles, error) {
	var s styles
	border := []excelize.Border{
		{Type: "left", Color: "A6A6A6", Style: 1},
		{Type: "top", Color: "A6A6A6", Style: 1},
		{Type: "right", Color: "A6A6A6", Style: 1},
		{Type: "bottom", Color: "A6A6A6", Style: 1},
	}
	center := &excelize.Alignment{Horizontal: "center", Vertical: "center"}
	oneDecimal := "0.0"

	defs := []struct {
		id    *int
		style *excelize.Style
	}{
		{&s.header, &excelize.Style{
			Font:      &excelize.Font{Bold: true},
			Fill:      excelize.Fill{Type: "pattern", Color: []string{"DCE6F1"}, Pattern: 1},
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
			Border:    border,
		}},
		{&s.day, &excelize.Style{Alignment: center, Border: border}},
		{&s.code, &excelize.Style{
			Font:      &excelize.Font{Italic: true, Color: "7F7F7F"},
			Alignment: center,
			Border:    border,
		}},
		{&s.total, &excelize.Style{Alignment: center, Border: border, CustomNumFmt: &oneDecimal}},
		{&s.overtime, &excelize.Style{
			Font:         &excelize.Font{Bold: true, Color: "C00000"},
			Alignment:    center,
			Border:       border,
			CustomNumFmt: &oneDecimal,
		}},
		{&s.undertime, &excelize.Style{
			Font:         &excelize.Font{Color: "1F4E79"},
			Alignment:    center,
			Border:       border,
			CustomNumFmt: &oneDecimal,
		}},
	}
	for _, d := range defs {
		id, err := f.NewStyle(d.style)
		if err != nil {
			return s, err
		}
		*d.id = id
	}
	return s, nil
}

// WriteXLSX renders records as a workbook with a single "График" sheet.
func WriteXLSX(w io.Writer, records []schedule.EmployeeRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return err
	}
	st, err := newStyles(f)
	if err != nil {
		return fmt.Errorf("failed to create styles: %w", err)
	}

	cols := Columns()
	header := make([]any, len(cols))
	for i, c := range cols {
		header[i] = c
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return err
	}
	last, _ := excelize.ColumnNumberToName(len(cols))
	if err := f.SetCellStyle(SheetName, "A1", last+"1", st.header); err != nil {
		return err
	}

	for i, rec := range records {
		if err := writeRecord(f, st, i+2, rec); err != nil {
			return fmt.Errorf("row %d (%s): %w", i+2, rec.Name, err)
		}
	}

	if err := layout(f, len(cols)); err != nil {
		return err
	}
	return f.Write(w)
}

func writeRecord(f *excelize.File, st styles, row int, rec schedule.EmployeeRecord) error {
	cell := func(col int) string {
		name, _ := excelize.CoordinatesToCellName(col, row)
		return name
	}

	if err := f.SetCellStr(SheetName, cell(1), rec.Name); err != nil {
		return err
	}
	if err := f.SetCellStr(SheetName, cell(2), rec.Group); err != nil {
		return err
	}

	for day := 1; day <= schedule.DaysInMonth; day++ {
		ref := cell(day + 2)
		value := rec.Days.Day(day)
		style := st.day
		var err error
		switch value.Kind() {
		case schedule.KindNumber:
			err = f.SetCellFloat(SheetName, ref, value.Value().InexactFloat64(), -1, 64)
		case schedule.KindCode:
			err = f.SetCellStr(SheetName, ref, value.Token())
			style = st.code
		}
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(SheetName, ref, ref, style); err != nil {
			return err
		}
	}

	totalRef := cell(schedule.DaysInMonth + 3)
	devRef := cell(schedule.DaysInMonth + 4)
	if err := f.SetCellFloat(SheetName, totalRef, rec.Total.InexactFloat64(), 1, 64); err != nil {
		return err
	}
	if err := f.SetCellFloat(SheetName, devRef, rec.Deviation.InexactFloat64(), 1, 64); err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, totalRef, totalRef, st.total); err != nil {
		return err
	}

	devStyle := st.total
	switch {
	case rec.Deviation.IsPositive():
		devStyle = st.overtime
	case rec.Deviation.IsNegative():
		devStyle = st.undertime
	}
	return f.SetCellStyle(SheetName, devRef, devRef, devStyle)
}

func layout(f *excelize.File, ncols int) error {
	if err := f.SetColWidth(SheetName, "A", "A", 28); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetName, "B", "B", 8); err != nil {
		return err
	}
	firstDay, _ := excelize.ColumnNumberToName(3)
	lastDay, _ := excelize.ColumnNumberToName(schedule.DaysInMonth + 2)
	if err := f.SetColWidth(SheetName, firstDay, lastDay, 5); err != nil {
		return err
	}
	totalCol, _ := excelize.ColumnNumberToName(ncols - 1)
	devCol, _ := excelize.ColumnNumberToName(ncols)
	if err := f.SetColWidth(SheetName, totalCol, devCol, 10); err != nil {
		return err
	}
	return f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		XSplit:      2,
		YSplit:      1,
		TopLeftCell: "C2",
		ActivePane:  "bottomRight",
	})
}
