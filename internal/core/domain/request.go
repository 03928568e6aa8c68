package domain

import (
	"path/filepath"
	"strings"
)

// RepoType identifies the kind of Hub repository a snapshot is taken from.
type RepoType string

const (
	// RepoTypeModel is a model repository.
	RepoTypeModel RepoType = "model"
	// RepoTypeDataset is a dataset repository.
	RepoTypeDataset RepoType = "dataset"
	// RepoTypeSpace is a Space repository.
	RepoTypeSpace RepoType = "space"
)

// IsValid reports whether t is one of the known repository types.
func (t RepoType) IsValid() bool {
	switch t {
	case RepoTypeModel, RepoTypeDataset, RepoTypeSpace:
		return true
	default:
		return false
	}
}

const (
	// TokenEnvVar names the environment variable holding the default Hub token.
	TokenEnvVar = "HF_TOKEN"
	// EndpointEnvVar names the environment variable overriding the Hub endpoint.
	EndpointEnvVar = "HF_ENDPOINT"
	// DefaultTargetDir is the base directory used when none is configured.
	DefaultTargetDir = "data/raw"
	// DefaultRevisionLabel is how an unset revision is reported in logs.
	DefaultRevisionLabel = "default"

	// repoIDSeparatorSubstitute replaces path separators in sanitized repository ids.
	repoIDSeparatorSubstitute = "__"
)

// DownloadRequest describes one dataset snapshot acquisition.
// It is built once per invocation and must not be mutated after construction.
type DownloadRequest struct {
	RepoID         string
	Revision       string
	TargetDir      string
	AllowPatterns  []string
	IgnorePatterns []string
	Token          string
	ForceDownload  bool
	ResumeDownload bool
}

// RevisionLabel returns the revision for display, "default" when unset.
func (r DownloadRequest) RevisionLabel() string {
	if r.Revision == "" {
		return DefaultRevisionLabel
	}
	return r.Revision
}

// SnapshotRequest is what the snapshot collaborator receives.
// LocalDir is where files are materialized as regular files.
type SnapshotRequest struct {
	RepoID         string
	RepoType       RepoType
	Revision       string
	LocalDir       string
	AllowPatterns  []string
	IgnorePatterns []string
	Token          string
	ForceDownload  bool
	ResumeDownload bool
}

// SanitizeRepoID turns a namespaced repository id into a single path segment.
// Both slash flavours are replaced so the result is safe on every platform.
func SanitizeRepoID(repoID string) string {
	r := strings.NewReplacer("/", repoIDSeparatorSubstitute, `\`, repoIDSeparatorSubstitute)
	return r.Replace(repoID)
}

// Destination returns the local snapshot directory for repoID under targetDir.
func Destination(targetDir, repoID string) SnapshotPath {
	return SnapshotPath(filepath.Join(targetDir, SanitizeRepoID(repoID)))
}
