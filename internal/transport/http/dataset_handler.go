// Package http exposes the tracker over REST: dataset upload, cleaned-table
// access with equality filters, aggregate summaries, and the consolidated
// report download.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"fmvtracker/internal/dataprocessing"
	apierrors "fmvtracker/internal/errors"
	"fmvtracker/internal/services"
)

// DatasetHandler handles dataset-related HTTP requests
type DatasetHandler struct {
	service        DatasetServiceInterface
	logger         *slog.Logger
	errorHandler   *apierrors.ErrorHandler
	maxUploadBytes int64
}

// NewDatasetHandler creates a new dataset handler
func NewDatasetHandler(service DatasetServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler, maxUploadBytes int64) *DatasetHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if maxUploadBytes <= 0 {
		maxUploadBytes = 10 << 20
	}
	return &DatasetHandler{
		service:        service,
		logger:         logger.With(slog.String("component", "dataset_handler")),
		errorHandler:   errorHandler,
		maxUploadBytes: maxUploadBytes,
	}
}

// Routes returns the dataset routes
func (h *DatasetHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Post("/samples", h.LoadSamples)
	r.Get("/summary", h.GetSummary)
	r.Get("/export", h.DownloadWorkbook)

	r.Route("/datasets/{dataset}", func(r chi.Router) {
		r.Use(h.DatasetCtx)
		r.Post("/", h.UploadDataset)
		r.Get("/", h.GetDataset)
		r.Get("/export", h.DownloadCSV)
	})

	return r
}

// DatasetCtx validates the dataset URL parameter.
func (h *DatasetHandler) DatasetCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "dataset")
		if _, ok := dataprocessing.ParseDataset(name); !ok {
			h.errorHandler.HandleError(w, r, apierrors.UnknownDatasetError(name))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// datasetParam reads the already-validated dataset kind from the URL.
func datasetParam(r *http.Request) dataprocessing.Dataset {
	kind, _ := dataprocessing.ParseDataset(chi.URLParam(r, "dataset"))
	return kind
}

// TableResponse is the JSON shape of a cleaned table.
type TableResponse struct {
	Dataset string               `json:"dataset"`
	Columns []string             `json:"columns"`
	Rows    []dataprocessing.Row `json:"rows"`
	Count   int                  `json:"count"`
}

// UploadDataset accepts a multipart upload ("file" field), cleans it and
// returns the canonical table.
func (h *DatasetHandler) UploadDataset(w http.ResponseWriter, r *http.Request) {
	kind := datasetParam(r)

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrInvalidRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrMissingFile)
		return
	}
	defer file.Close()

	cleaned, err := h.service.Upload(r.Context(), kind, header.Filename, file)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, TableResponse{
		Dataset: string(kind),
		Columns: cleaned.Columns,
		Rows:    cleaned.Rows,
		Count:   cleaned.Len(),
	})
}

// GetDataset returns the cleaned table, optionally filtered by equality on
// the dataset's designated filter column via the "filter" query parameter.
func (h *DatasetHandler) GetDataset(w http.ResponseWriter, r *http.Request) {
	kind := datasetParam(r)

	table, err := h.service.Table(kind, r.URL.Query().Get("filter"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, TableResponse{
		Dataset: string(kind),
		Columns: table.Columns,
		Rows:    table.Rows,
		Count:   table.Len(),
	})
}

// SummaryResponse wraps the aggregate metrics with the load state.
type SummaryResponse struct {
	Loaded  map[dataprocessing.Dataset]bool `json:"loaded"`
	Summary services.Summary                `json:"summary"`
}

// GetSummary returns the aggregates over every loaded dataset.
func (h *DatasetHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, SummaryResponse{
		Loaded:  h.service.Loaded(),
		Summary: h.service.Summarize(),
	})
}

// LoadSamples loads the bundled template datasets.
func (h *DatasetHandler) LoadSamples(w http.ResponseWriter, r *http.Request) {
	if err := h.service.LoadSamples(r.Context()); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]any{"loaded": h.service.Loaded()})
}

// DownloadWorkbook streams the consolidated multi-sheet report.
func (h *DatasetHandler) DownloadWorkbook(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", services.ExportFilename))

	if err := h.service.ExportWorkbook(w); err != nil {
		// Headers may already be out; log and reset what we can.
		w.Header().Del("Content-Disposition")
		h.errorHandler.HandleError(w, r, err)
		return
	}
}

// DownloadCSV streams one cleaned dataset as CSV.
func (h *DatasetHandler) DownloadCSV(w http.ResponseWriter, r *http.Request) {
	kind := datasetParam(r)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", string(kind)+".csv"))

	if err := h.service.ExportCSV(w, kind); err != nil {
		w.Header().Del("Content-Disposition")
		h.errorHandler.HandleError(w, r, err)
		return
	}
}
