package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"fmvtracker/internal/config"
	"fmvtracker/internal/dataprocessing"
	"fmvtracker/internal/exporter"
	"fmvtracker/internal/infrastructure"
	"fmvtracker/internal/loader"
	"fmvtracker/internal/services"
	transporthttp "fmvtracker/internal/transport/http"
)

const AppName = "fmv-tracker"

// Application wires configuration, logging, the dataset pipeline and the
// HTTP server together.
type Application struct {
	Config    *config.Config
	Logger    *slog.Logger
	LogCloser io.Closer
	Service   *services.DatasetService
	Router    http.Handler
	Server    *http.Server
}

// NewApplication builds the application from configuration. Configuration is
// loaded from the YAML file and FMV_* environment variables.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, closer, err := infrastructure.NewLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}
	slog.SetDefault(logger)

	ld := loader.New(logger, cfg.Paths.SamplesDir)
	sum := dataprocessing.NewSummarizer(logger, dataprocessing.SummarizerConfig{})
	reports := exporter.NewReportWriter(logger)
	svc := services.NewDatasetService(ld, sum, reports, logger)

	app := &Application{
		Config:    cfg,
		Logger:    logger,
		LogCloser: closer,
		Service:   svc,
	}
	app.Router = transporthttp.NewRouter(cfg, svc, logger)
	app.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      app.Router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	return app, nil
}

// Start begins serving. Server errors cancel the supplied context.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "Starting application",
		slog.String("name", AppName),
		slog.Int("port", a.Config.Server.Port),
		slog.String("level", a.Config.Logging.Level),
		slog.String("samples_dir", a.Config.Paths.SamplesDir))

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	a.Logger.InfoContext(ctx, "Application started",
		slog.String("address", fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)))
	return nil
}

// Stop gracefully stops the HTTP server and flushes the log sink.
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	if a.LogCloser != nil {
		if err := a.LogCloser.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "close log sink: %v\n", err)
		}
	}
	return nil
}

// Run runs the application until interrupted.
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	select {
	case <-sigChan:
		a.Logger.InfoContext(ctx, "Received interrupt signal")
	case <-ctx.Done():
	}

	return a.Stop(context.Background())
}
