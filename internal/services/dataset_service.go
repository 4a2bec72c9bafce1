// Package services orchestrates the tracker: loading dataset files through
// the cleaning pipeline, holding the latest cleaned tables in memory, and
// assembling the consolidated export.
package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"fmvtracker/internal/dataprocessing"
	apierrors "fmvtracker/internal/errors"
	"fmvtracker/internal/exporter"
	"fmvtracker/internal/loader"
)

// filterColumns names the designated equality-filter column per dataset.
var filterColumns = map[dataprocessing.Dataset]string{
	dataprocessing.DatasetLines:         "esfs",
	dataprocessing.DatasetDisbursements: "ifi",
	dataprocessing.DatasetCompliance:    "esfs",
	dataprocessing.DatasetContacts:      "institucion",
}

// DatasetService cleans uploads and keeps the latest canonical table per
// dataset kind. State is process-local; there is no persistence.
type DatasetService struct {
	loader     *loader.Loader
	summarizer *dataprocessing.Summarizer
	reports    *exporter.ReportWriter
	logger     *slog.Logger
	now        func() time.Time

	mu     sync.RWMutex
	tables map[dataprocessing.Dataset]dataprocessing.Table
	loaded map[dataprocessing.Dataset]bool
}

// NewDatasetService creates the service.
func NewDatasetService(ld *loader.Loader, sum *dataprocessing.Summarizer, rw *exporter.ReportWriter, logger *slog.Logger) *DatasetService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DatasetService{
		loader:     ld,
		summarizer: sum,
		reports:    rw,
		logger:     logger.With(slog.String("component", "dataset_service")),
		now:        time.Now,
		tables:     make(map[dataprocessing.Dataset]dataprocessing.Table),
		loaded:     make(map[dataprocessing.Dataset]bool),
	}
}

// Upload reads, cleans and stores one dataset file. Cell-level problems are
// absorbed into missing values; only structural failures return an error.
func (s *DatasetService) Upload(ctx context.Context, kind dataprocessing.Dataset, filename string, r io.Reader) (dataprocessing.Table, error) {
	raw, err := s.loader.ReadUpload(filename, r)
	if err != nil {
		apiErr := &apierrors.APIError{}
		if !errors.As(err, &apiErr) {
			err = apierrors.DatasetUnreadableError(string(kind), err)
		}
		return dataprocessing.Table{}, err
	}

	cleaned := dataprocessing.Clean(kind, raw)
	s.store(kind, cleaned)

	s.logger.InfoContext(ctx, "dataset uploaded",
		slog.String("dataset", string(kind)),
		slog.String("filename", filename),
		slog.Int("rows", cleaned.Len()))
	return cleaned, nil
}

// LoadSamples loads every bundled template concurrently. The four cleaners
// share nothing, so each dataset runs on its own goroutine.
func (s *DatasetService) LoadSamples(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, kind := range dataprocessing.Datasets {
		g.Go(func() error {
			raw, err := s.loader.ReadSample(kind)
			if err != nil {
				return apierrors.DatasetUnreadableError(string(kind), err)
			}
			cleaned := dataprocessing.Clean(kind, raw)
			s.store(kind, cleaned)
			s.logger.InfoContext(ctx, "sample dataset loaded",
				slog.String("dataset", string(kind)),
				slog.Int("rows", cleaned.Len()))
			return nil
		})
	}
	return g.Wait()
}

// Table returns the stored cleaned table for a dataset, optionally filtered
// by equality on the dataset's designated filter column. An unknown filter
// value or an absent filter column simply yields an empty or unfiltered
// table, never an error.
func (s *DatasetService) Table(kind dataprocessing.Dataset, filterValue string) (dataprocessing.Table, error) {
	s.mu.RLock()
	table, ok := s.tables[kind]
	s.mu.RUnlock()
	if !ok {
		return dataprocessing.Table{}, apierrors.ErrDatasetNotLoaded
	}
	if filterValue == "" {
		return table, nil
	}

	col := filterColumns[kind]
	if !table.HasColumn(col) {
		return table, nil
	}
	out := dataprocessing.Table{Columns: append([]string(nil), table.Columns...)}
	for _, row := range table.Rows {
		if v, ok := row.String(col); ok && strings.EqualFold(v, filterValue) {
			out.Rows = append(out.Rows, row)
		}
	}
	return out, nil
}

// Loaded reports which datasets currently hold a cleaned table.
func (s *DatasetService) Loaded() map[dataprocessing.Dataset]bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[dataprocessing.Dataset]bool, len(s.loaded))
	for k, v := range s.loaded {
		out[k] = v
	}
	return out
}

func (s *DatasetService) store(kind dataprocessing.Dataset, t dataprocessing.Table) {
	s.mu.Lock()
	s.tables[kind] = t
	s.loaded[kind] = true
	s.mu.Unlock()

	datasetsCleaned.WithLabelValues(string(kind)).Inc()
	rowsProcessed.WithLabelValues(string(kind)).Add(float64(t.Len()))
}

func (s *DatasetService) table(kind dataprocessing.Dataset) (dataprocessing.Table, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tables[kind]
	return t, ok
}
