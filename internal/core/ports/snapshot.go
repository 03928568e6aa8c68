// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/dsget/internal/core/domain"
)

// SnapshotDownloader retrieves a remote repository snapshot into a local directory.
//
// Implementations own the transfer entirely: listing, filtering, resuming and
// retrying are their concern. Callers only see the resulting path or the error.
//
//go:generate go run go.uber.org/mock/mockgen -source=snapshot.go -destination=mocks/mock_snapshot.go -package=mocks
type SnapshotDownloader interface {
	// Download materializes the snapshot described by req and returns the local
	// directory holding it.
	Download(ctx context.Context, req domain.SnapshotRequest) (string, error)
}

// DownloaderFactory builds a SnapshotDownloader for the effective settings.
type DownloaderFactory interface {
	// New returns a downloader configured from settings.
	New(settings domain.Settings) SnapshotDownloader
}
