package domain

import "time"

// ManifestEntry records what was fetched for one file of a snapshot.
type ManifestEntry struct {
	Path        string    `json:"path,omitzero"`
	ETag        string    `json:"etag,omitzero"`
	Size        int64     `json:"size,omitzero"`
	Commit      string    `json:"commit,omitzero"`
	Fingerprint string    `json:"fingerprint,omitzero"`
	FetchedAt   time.Time `json:"fetched_at,omitzero"`
}
