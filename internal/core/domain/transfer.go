package domain

// TransferStatus is the outcome of fetching one file of a snapshot.
type TransferStatus string

const (
	// TransferDownloaded indicates the file was fetched from scratch.
	TransferDownloaded TransferStatus = "downloaded"
	// TransferResumed indicates a partial file was completed with a range request.
	TransferResumed TransferStatus = "resumed"
	// TransferCached indicates the local copy was already up to date.
	TransferCached TransferStatus = "cached"
	// TransferFailed indicates the fetch returned an error.
	TransferFailed TransferStatus = "failed"
)

// Fetched reports whether bytes were transferred for this status.
func (s TransferStatus) Fetched() bool {
	return s == TransferDownloaded || s == TransferResumed
}

// SnapshotFile is a single file listed in a remote snapshot.
type SnapshotFile struct {
	Path string
	Size int64
	ETag string
}
