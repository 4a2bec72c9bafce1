package exporter

import (
	"encoding/csv"
	"fmt"
	"io"

	"fmvtracker/internal/dataprocessing"
)

// utf8BOM helps Excel recognize UTF-8 CSV content.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteCSV writes one cleaned table as CSV with a UTF-8 BOM prefix.
func (w *ReportWriter) WriteCSV(out io.Writer, table dataprocessing.Table) error {
	if _, err := out.Write(utf8BOM); err != nil {
		return fmt.Errorf("write BOM: %w", err)
	}

	writer := csv.NewWriter(out)
	if err := writer.Write(table.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for n, row := range table.Rows {
		record := make([]string, len(table.Columns))
		for i, col := range table.Columns {
			record[i] = cellString(row[col])
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write record %d: %w", n, err)
		}
	}
	writer.Flush()
	return writer.Error()
}
