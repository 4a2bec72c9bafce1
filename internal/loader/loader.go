// Package loader reads uploaded spreadsheet files and bundled CSV templates
// into in-memory tables. It only resolves structure: header labels stay raw
// and every cell enters as text, ready for the cleaning pipeline.
package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"fmvtracker/internal/dataprocessing"
	apierrors "fmvtracker/internal/errors"
)

// sampleFiles maps each dataset kind to its bundled template file.
var sampleFiles = map[dataprocessing.Dataset]string{
	dataprocessing.DatasetLines:         "lines_esfs_template.csv",
	dataprocessing.DatasetDisbursements: "desembolsos_ifi_template.csv",
	dataprocessing.DatasetCompliance:    "splaft_template.csv",
	dataprocessing.DatasetContacts:      "contactos_template.csv",
}

// Loader reads tabular files into dataprocessing Tables.
type Loader struct {
	logger     *slog.Logger
	samplesDir string
}

// New creates a loader. samplesDir holds the bundled CSV templates.
func New(logger *slog.Logger, samplesDir string) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		logger:     logger.With(slog.String("component", "loader")),
		samplesDir: samplesDir,
	}
}

// ReadUpload parses an uploaded file, dispatching on its extension.
// Unrecognized extensions return ErrUnsupportedFormat; read failures are
// structural errors for the whole dataset.
func (l *Loader) ReadUpload(filename string, r io.Reader) (dataprocessing.Table, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return l.readCSV(r)
	case ".xlsx", ".xls":
		return l.readExcel(r)
	default:
		return dataprocessing.Table{}, apierrors.UnsupportedFormatError(filename)
	}
}

// ReadSample reads the bundled template for a dataset kind.
func (l *Loader) ReadSample(kind dataprocessing.Dataset) (dataprocessing.Table, error) {
	name, ok := sampleFiles[kind]
	if !ok {
		return dataprocessing.Table{}, fmt.Errorf("no sample template for dataset %q", kind)
	}
	path := filepath.Join(l.samplesDir, name)
	file, err := os.Open(path)
	if err != nil {
		return dataprocessing.Table{}, fmt.Errorf("open sample template %s: %w", path, err)
	}
	defer file.Close()

	l.logger.Info("loading sample template",
		slog.String("dataset", string(kind)),
		slog.String("path", path))
	return l.readCSV(file)
}

// readCSV parses CSV content. The first record is the header; short rows
// leave the remaining columns missing.
func (l *Loader) readCSV(r io.Reader) (dataprocessing.Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return dataprocessing.Table{}, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return dataprocessing.Table{}, nil
	}
	return tableFromRows(records[0], records[1:]), nil
}

// readExcel parses the first sheet that has any rows.
func (l *Loader) readExcel(r io.Reader) (dataprocessing.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return dataprocessing.Table{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil || len(rows) == 0 {
			continue
		}
		l.logger.Debug("reading worksheet",
			slog.String("sheet", sheet),
			slog.Int("rows", len(rows)))
		return tableFromRows(rows[0], rows[1:]), nil
	}
	return dataprocessing.Table{}, fmt.Errorf("workbook has no data sheets")
}

// tableFromRows builds a table keyed by the raw header labels. Blank header
// cells are skipped and blank data cells enter as missing rather than empty
// text. A duplicated header label keeps its first position but reads from
// the rightmost occurrence, matching the alias collision tie-break.
func tableFromRows(header []string, data [][]string) dataprocessing.Table {
	t := dataprocessing.Table{}
	source := make(map[string]int, len(header))
	for i, label := range header {
		if strings.TrimSpace(label) == "" {
			continue
		}
		t.AddColumn(label)
		source[label] = i
	}

	t.Rows = make([]dataprocessing.Row, 0, len(data))
	for _, record := range data {
		row := make(dataprocessing.Row, len(t.Columns))
		empty := true
		for _, col := range t.Columns {
			i := source[col]
			if i >= len(record) || strings.TrimSpace(record[i]) == "" {
				row[col] = nil
				continue
			}
			row[col] = record[i]
			empty = false
		}
		if empty {
			continue
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}
