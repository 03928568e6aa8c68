package domain

import "go.trai.ch/zerr"

var (
	// ErrRepoNotFound is returned when the Hub has no repository with the requested id.
	ErrRepoNotFound = zerr.New("repository not found")

	// ErrRevisionNotFound is returned when the repository exists but the revision does not.
	ErrRevisionNotFound = zerr.New("revision not found")

	// ErrUnauthorized is returned when the Hub rejects the credentials or the repository is gated.
	ErrUnauthorized = zerr.New("access to repository denied")

	// ErrUnexpectedStatus is returned for Hub responses that map to no other error.
	ErrUnexpectedStatus = zerr.New("unexpected hub response")

	// ErrSizeMismatch is returned when a fetched file does not have the advertised size.
	ErrSizeMismatch = zerr.New("downloaded size mismatch")

	// ErrInvalidPattern is returned when an allow or ignore pattern cannot be compiled.
	ErrInvalidPattern = zerr.New("invalid file pattern")

	// ErrUnsafePath is returned when a snapshot file would be written outside the local directory.
	ErrUnsafePath = zerr.New("unsafe file path in snapshot")

	// ErrInvalidConfig is returned when the defaults file holds unusable values.
	ErrInvalidConfig = zerr.New("invalid configuration")
)
