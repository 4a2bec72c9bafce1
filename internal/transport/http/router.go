package http

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fmvtracker/internal/config"
	apierrors "fmvtracker/internal/errors"
	"fmvtracker/internal/middleware"
)

// NewRouter assembles the full HTTP surface: middleware chain, API routes,
// health and metrics endpoints.
func NewRouter(cfg *config.Config, service DatasetServiceInterface, logger *slog.Logger) chi.Router {
	if logger == nil {
		logger = slog.Default()
	}
	errorHandler := apierrors.NewErrorHandler(logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.StructuredLogger(logger))
	r.Use(middleware.Recoverer(logger, errorHandler))
	r.Use(middleware.RateLimit(cfg.Server.RateLimit, errorHandler))

	r.Get("/healthz", Healthz)
	r.Handle("/metrics", promhttp.Handler())

	datasetHandler := NewDatasetHandler(service, logger, errorHandler, cfg.Upload.MaxBytes)
	r.Mount("/api", datasetHandler.Routes())

	return r
}
