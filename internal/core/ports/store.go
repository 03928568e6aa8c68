package ports

import "go.trai.ch/dsget/internal/core/domain"

// ManifestStore records which files of a snapshot have been fetched.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type ManifestStore interface {
	// Get retrieves the entry for a snapshot-relative file path.
	// Returns nil, nil if not found.
	Get(path string) (*domain.ManifestEntry, error)

	// Put stores the entry and persists the manifest.
	Put(entry domain.ManifestEntry) error

	// Delete forgets the entry for path.
	Delete(path string) error
}
