package http

import (
	"context"
	"io"

	"fmvtracker/internal/dataprocessing"
	"fmvtracker/internal/services"
)

// DatasetServiceInterface defines what the handlers need from the service
// layer; it exists so handler tests can substitute a mock.
type DatasetServiceInterface interface {
	Upload(ctx context.Context, kind dataprocessing.Dataset, filename string, r io.Reader) (dataprocessing.Table, error)
	LoadSamples(ctx context.Context) error
	Table(kind dataprocessing.Dataset, filterValue string) (dataprocessing.Table, error)
	Loaded() map[dataprocessing.Dataset]bool
	Summarize() services.Summary
	ExportWorkbook(w io.Writer) error
	ExportCSV(w io.Writer, kind dataprocessing.Dataset) error
}
