package exporter

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"fmvtracker/internal/dataprocessing"
)

// Sheet is one worksheet of the consolidated report.
type Sheet struct {
	Name  string
	Table dataprocessing.Table
}

// ReportWriter serializes cleaned tables into a downloadable workbook.
type ReportWriter struct {
	logger *slog.Logger
}

// NewReportWriter creates a report writer.
func NewReportWriter(logger *slog.Logger) *ReportWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportWriter{logger: logger.With(slog.String("component", "exporter"))}
}

// WriteWorkbook writes the sheets, in order, as one xlsx workbook. The first
// sheet is expected to be the summary. At least one sheet is required.
func (w *ReportWriter) WriteWorkbook(out io.Writer, sheets []Sheet) error {
	if len(sheets) == 0 {
		return fmt.Errorf("no sheets to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range sheets {
		if i == 0 {
			// Rename the default sheet instead of adding a new one.
			if err := f.SetSheetName(f.GetSheetName(0), sheet.Name); err != nil {
				return fmt.Errorf("rename sheet %s: %w", sheet.Name, err)
			}
		} else {
			if _, err := f.NewSheet(sheet.Name); err != nil {
				return fmt.Errorf("add sheet %s: %w", sheet.Name, err)
			}
		}
		if err := writeSheet(f, sheet); err != nil {
			return err
		}
		w.logger.Debug("sheet written",
			slog.String("sheet", sheet.Name),
			slog.Int("rows", sheet.Table.Len()))
	}

	if err := f.Write(out); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// writeSheet writes the header row then each data row in column order.
func writeSheet(f *excelize.File, sheet Sheet) error {
	header := make([]any, len(sheet.Table.Columns))
	for i, col := range sheet.Table.Columns {
		header[i] = col
	}
	if err := f.SetSheetRow(sheet.Name, "A1", &header); err != nil {
		return fmt.Errorf("write header of %s: %w", sheet.Name, err)
	}

	for n, row := range sheet.Table.Rows {
		cells := make([]any, len(sheet.Table.Columns))
		for i, col := range sheet.Table.Columns {
			cells[i] = cellValue(row[col])
		}
		addr, err := excelize.CoordinatesToCellName(1, n+2)
		if err != nil {
			return fmt.Errorf("cell address for row %d: %w", n, err)
		}
		if err := f.SetSheetRow(sheet.Name, addr, &cells); err != nil {
			return fmt.Errorf("write row %d of %s: %w", n, sheet.Name, err)
		}
	}
	return nil
}
