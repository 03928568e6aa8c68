// Package manifest records which files of a local snapshot were fetched and
// what they looked like at the time.
package manifest

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.trai.ch/dsget/internal/core/domain"
	"go.trai.ch/dsget/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	// Dir is the bookkeeping directory inside a snapshot directory.
	Dir = ".cache/dsget"
	// FileName is the manifest file inside Dir.
	FileName = "manifest.json"

	dirPerm  = 0o750
	filePerm = 0o644
)

var _ ports.ManifestStore = (*Store)(nil)

// Store implements ports.ManifestStore using a flat JSON file.
type Store struct {
	path  string
	mu    sync.RWMutex
	cache map[string]domain.ManifestEntry
}

// PathFor returns the manifest location for a snapshot directory.
func PathFor(localDir string) string {
	return filepath.Join(localDir, filepath.FromSlash(Dir), FileName)
}

// Open loads the manifest of the snapshot stored in localDir.
func Open(localDir string) (*Store, error) {
	return NewStore(PathFor(localDir))
}

// NewStore creates a new Store backed by the file at the given path.
// A missing or empty file yields an empty manifest.
func NewStore(path string) (*Store, error) {
	s := &Store{
		path:  filepath.Clean(path),
		cache: make(map[string]domain.ManifestEntry),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	//nolint:gosec // Path is cleaned and provided by trusted caller
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.With(zerr.Wrap(err, "failed to read manifest"), "path", s.path)
	}

	if len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, &s.cache); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to unmarshal manifest"), "path", s.path)
	}

	return nil
}

// save writes the manifest through a temporary file. Callers hold mu.
func (s *Store) save() error {
	data, err := json.MarshalIndent(s.cache, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to marshal manifest")
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create manifest directory"), "path", dir)
	}

	tmp := s.path + ".tmp"
	//nolint:gosec // Path is cleaned and provided by trusted caller
	if err := os.WriteFile(tmp, data, filePerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write manifest"), "path", tmp)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to replace manifest"), "path", s.path)
	}

	return nil
}

// Get retrieves the entry for a snapshot-relative path.
func (s *Store) Get(path string) (*domain.ManifestEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.cache[path]
	if !ok {
		return nil, nil
	}
	return &entry, nil
}

// Put stores the entry and persists the manifest.
func (s *Store) Put(entry domain.ManifestEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache[entry.Path] = entry
	return s.save()
}

// Delete forgets the entry for path and persists the manifest.
func (s *Store) Delete(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cache[path]; !ok {
		return nil
	}
	delete(s.cache, path)
	return s.save()
}

// Len returns the number of recorded files.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cache)
}
