// Package export renders reports and attendance for consumers outside the
// JSON API: spreadsheets and protobuf messages.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/Raj051299/cms-mobile-app/internal/cms/types"
)

const (
	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ReportSheet     = "Report"
)

// WriteXLSX writes rep as a single-sheet workbook: a header row of
// types.ReportColumns followed by one row per line.
func WriteXLSX(w io.Writer, rep types.Report) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", ReportSheet); err != nil {
		return fmt.Errorf("xlsx sheet: %w", err)
	}

	header := make([]any, len(types.ReportColumns))
	for i, c := range types.ReportColumns {
		header[i] = c
	}
	if err := f.SetSheetRow(ReportSheet, "A1", &header); err != nil {
		return fmt.Errorf("xlsx header: %w", err)
	}

	for i, line := range rep.Lines {
		cols := line.Columns()
		row := make([]any, len(cols))
		for j, c := range cols {
			row[j] = c.Value
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("xlsx row %d: %w", i, err)
		}
		if err := f.SetSheetRow(ReportSheet, cell, &row); err != nil {
			return fmt.Errorf("xlsx row %d: %w", i, err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("xlsx style: %w", err)
	}
	if err := f.SetRowStyle(ReportSheet, 1, 1, bold); err != nil {
		return fmt.Errorf("xlsx style: %w", err)
	}
	// Built-in number format 2 is "0.00".
	money, err := f.NewStyle(&excelize.Style{NumFmt: 2})
	if err != nil {
		return fmt.Errorf("xlsx style: %w", err)
	}
	if len(rep.Lines) > 0 {
		last, _ := excelize.CoordinatesToCellName(3, len(rep.Lines)+1)
		if err := f.SetCellStyle(ReportSheet, "B2", last, money); err != nil {
			return fmt.Errorf("xlsx style: %w", err)
		}
	}
	if err := f.SetColWidth(ReportSheet, "A", "A", 28); err != nil {
		return fmt.Errorf("xlsx width: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}
