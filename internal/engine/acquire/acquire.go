// Package acquire turns a download request into a local dataset snapshot.
package acquire

import (
	"context"
	"os"

	"go.trai.ch/dsget/internal/core/domain"
	"go.trai.ch/dsget/internal/core/ports"
	"go.trai.ch/zerr"
)

// dirPerm is used for directories created ahead of the transfer.
const dirPerm = 0o750

// Acquirer resolves the local destination of a dataset snapshot and delegates
// the transfer to a SnapshotDownloader.
type Acquirer struct {
	downloader ports.SnapshotDownloader
	logger     ports.Logger
}

// New creates an Acquirer that fetches through downloader.
func New(downloader ports.SnapshotDownloader, logger ports.Logger) *Acquirer {
	return &Acquirer{
		downloader: downloader,
		logger:     logger,
	}
}

// Acquire downloads the dataset snapshot described by req and returns the
// directory reported by the downloader.
//
// The destination's parent is created before the downloader is called.
// Errors from the downloader are returned as is.
func (a *Acquirer) Acquire(ctx context.Context, req domain.DownloadRequest) (domain.SnapshotPath, error) {
	dest := domain.Destination(req.TargetDir, req.RepoID)

	if err := os.MkdirAll(dest.Parent().String(), dirPerm); err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to create target directory"), "path", dest.Parent().String())
	}

	a.logger.Info("Downloading dataset",
		"repo_id", req.RepoID,
		"destination", dest.String(),
		"revision", req.RevisionLabel(),
	)

	got, err := a.downloader.Download(ctx, domain.SnapshotRequest{
		RepoID:         req.RepoID,
		RepoType:       domain.RepoTypeDataset,
		Revision:       req.Revision,
		LocalDir:       dest.String(),
		AllowPatterns:  req.AllowPatterns,
		IgnorePatterns: req.IgnorePatterns,
		Token:          req.Token,
		ForceDownload:  req.ForceDownload,
		ResumeDownload: req.ResumeDownload,
	})
	if err != nil {
		return "", err
	}

	final := domain.SnapshotPath(got)
	if !final.SameAs(dest) {
		a.logger.Warn("Downloader stored snapshot outside the expected directory",
			"expected", dest.String(),
			"actual", final.String(),
		)
	}

	a.logger.Info("Dataset downloaded", "path", final.String())
	return final, nil
}
