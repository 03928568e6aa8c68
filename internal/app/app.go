// Package app implements the application layer for dsget.
package app

import (
	"context"

	"go.trai.ch/dsget/internal/core/domain"
	"go.trai.ch/dsget/internal/core/ports"
	"go.trai.ch/dsget/internal/engine/acquire"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	logger       ports.Logger
	factory      ports.DownloaderFactory
	telemetry    ports.Telemetry
	settings     domain.Settings
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	log ports.Logger,
	factory ports.DownloaderFactory,
	telemetry ports.Telemetry,
) *App {
	return &App{
		configLoader: loader,
		logger:       log,
		factory:      factory,
		telemetry:    telemetry,
		settings:     domain.DefaultSettings(),
	}
}

// Components contains all the initialized application components.
// This struct provides controlled access to components needed by the CLI layer.
type Components struct {
	App    *App
	Logger ports.Logger
}

// SetupOptions carries the process-wide options resolved before a download.
// Level and format only override the defaults file when their Set flag is true.
type SetupOptions struct {
	ConfigPath   string
	LogLevel     string
	LogLevelSet  bool
	LogFormat    string
	LogFormatSet bool
}

// Setup loads the defaults file and configures logging.
func (a *App) Setup(_ context.Context, opts SetupOptions) error {
	settings, err := a.configLoader.Load(opts.ConfigPath)
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	if opts.LogLevelSet {
		settings.LogLevel = domain.ParseLogLevel(opts.LogLevel)
	}
	if opts.LogFormatSet {
		settings.LogFormat = domain.NormalizeLogFormat(opts.LogFormat)
	}

	a.settings = settings
	a.ConfigureLogging(settings.LogLevel, settings.LogFormat)
	return nil
}

// ConfigureLogging adjusts the process-wide log sink.
func (a *App) ConfigureLogging(level domain.LogLevel, format domain.LogFormat) {
	a.logger.SetLevel(level)
	a.logger.SetJSON(format == domain.LogFormatJSON)
}

// Settings returns the effective settings.
func (a *App) Settings() domain.Settings {
	return a.settings
}

// Download acquires the dataset snapshot described by req. An empty target
// directory falls back to the configured one. Errors are returned unchanged.
func (a *App) Download(ctx context.Context, req domain.DownloadRequest) (domain.SnapshotPath, error) {
	if req.TargetDir == "" {
		req.TargetDir = a.settings.TargetDir
	}
	if req.TargetDir == "" {
		req.TargetDir = domain.DefaultTargetDir
	}

	acquirer := acquire.New(a.factory.New(a.settings), a.logger)

	path, err := acquirer.Acquire(ctx, req)
	if err != nil {
		return "", err
	}

	a.logger.Info("Done. Snapshot stored at " + path.String())
	return path, nil
}

// Close flushes progress recording.
func (a *App) Close() error {
	if a.telemetry == nil {
		return nil
	}
	return a.telemetry.Close()
}
