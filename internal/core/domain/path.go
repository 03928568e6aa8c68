package domain

import "path/filepath"

// SnapshotPath is a local directory holding a materialized snapshot.
type SnapshotPath string

// String returns the path as a plain string.
func (p SnapshotPath) String() string {
	return string(p)
}

// Parent returns the directory containing the snapshot.
func (p SnapshotPath) Parent() SnapshotPath {
	return SnapshotPath(filepath.Dir(string(p)))
}

// SameAs reports whether both paths point at the same location after cleaning.
// Relative paths are resolved against the working directory when possible.
func (p SnapshotPath) SameAs(other SnapshotPath) bool {
	a, errA := filepath.Abs(string(p))
	b, errB := filepath.Abs(string(other))
	if errA != nil || errB != nil {
		return filepath.Clean(string(p)) == filepath.Clean(string(other))
	}
	return a == b
}
