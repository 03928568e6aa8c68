package hub

import (
	"go.trai.ch/dsget/internal/core/domain"
	"go.trai.ch/dsget/internal/core/ports"
)

var _ ports.DownloaderFactory = (*Factory)(nil)

// Factory builds Clients from resolved settings.
type Factory struct {
	logger    ports.Logger
	telemetry ports.Telemetry
	opts      []Option
}

// NewFactory creates a Factory. Extra opts are applied after the settings.
func NewFactory(logger ports.Logger, telemetry ports.Telemetry, opts ...Option) *Factory {
	return &Factory{
		logger:    logger,
		telemetry: telemetry,
		opts:      opts,
	}
}

// New returns a downloader for the endpoint, worker limit and timeout in settings.
func (f *Factory) New(settings domain.Settings) ports.SnapshotDownloader {
	opts := []Option{
		WithEndpoint(settings.Endpoint),
		WithMaxWorkers(settings.MaxWorkers),
		WithTimeout(settings.Timeout),
		WithLogger(f.logger),
	}
	if f.telemetry != nil {
		opts = append(opts, WithTelemetry(f.telemetry))
	}
	opts = append(opts, f.opts...)
	return NewClient(opts...)
}
