package acquire_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/dsget/internal/core/domain"
	"go.trai.ch/dsget/internal/core/ports/mocks"
	"go.trai.ch/dsget/internal/engine/acquire"
	"go.uber.org/mock/gomock"
)

func quietLogger(ctrl *gomock.Controller) *mocks.MockLogger {
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any(), gomock.Any()).AnyTimes()
	log.EXPECT().Debug(gomock.Any(), gomock.Any()).AnyTimes()
	return log
}

func TestAcquire_DefaultRequest(t *testing.T) {
	ctrl := gomock.NewController(t)
	base := filepath.Join(t.TempDir(), "data")
	dest := filepath.Join(base, "lerobot__pusht")

	downloader := mocks.NewMockSnapshotDownloader(ctrl)
	downloader.EXPECT().
		Download(gomock.Any(), domain.SnapshotRequest{
			RepoID:         "lerobot/pusht",
			RepoType:       domain.RepoTypeDataset,
			LocalDir:       dest,
			ResumeDownload: true,
		}).
		DoAndReturn(func(_ context.Context, _ domain.SnapshotRequest) (string, error) {
			info, err := os.Stat(base)
			require.NoError(t, err, "parent must exist before the downloader runs")
			assert.True(t, info.IsDir())
			return dest, nil
		})

	a := acquire.New(downloader, quietLogger(ctrl))
	got, err := a.Acquire(context.Background(), domain.DownloadRequest{
		RepoID:         "lerobot/pusht",
		TargetDir:      base,
		ResumeDownload: true,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.SnapshotPath(dest), got)
}

func TestAcquire_ForwardsEveryField(t *testing.T) {
	ctrl := gomock.NewController(t)
	base := t.TempDir()

	req := domain.DownloadRequest{
		RepoID:         "org/name",
		Revision:       "v2.0",
		TargetDir:      base,
		AllowPatterns:  []string{"*.parquet", "meta/*", "*.parquet"},
		IgnorePatterns: []string{"videos/*"},
		Token:          "SECRET",
		ForceDownload:  true,
		ResumeDownload: false,
	}

	var captured domain.SnapshotRequest
	downloader := mocks.NewMockSnapshotDownloader(ctrl)
	downloader.EXPECT().Download(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, sr domain.SnapshotRequest) (string, error) {
			captured = sr
			return sr.LocalDir, nil
		})

	a := acquire.New(downloader, quietLogger(ctrl))
	_, err := a.Acquire(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "org/name", captured.RepoID)
	assert.Equal(t, domain.RepoTypeDataset, captured.RepoType)
	assert.Equal(t, "v2.0", captured.Revision)
	assert.Equal(t, filepath.Join(base, "org__name"), captured.LocalDir)
	assert.Equal(t, []string{"*.parquet", "meta/*", "*.parquet"}, captured.AllowPatterns)
	assert.Equal(t, []string{"videos/*"}, captured.IgnorePatterns)
	assert.Equal(t, "SECRET", captured.Token)
	assert.True(t, captured.ForceDownload)
	assert.False(t, captured.ResumeDownload)
}

func TestAcquire_DestinationIgnoresRevisionAndPatterns(t *testing.T) {
	ctrl := gomock.NewController(t)
	base := t.TempDir()

	var dirs []string
	downloader := mocks.NewMockSnapshotDownloader(ctrl)
	downloader.EXPECT().Download(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, sr domain.SnapshotRequest) (string, error) {
			dirs = append(dirs, sr.LocalDir)
			return sr.LocalDir, nil
		}).Times(3)

	a := acquire.New(downloader, quietLogger(ctrl))
	reqs := []domain.DownloadRequest{
		{RepoID: "a/b", TargetDir: base},
		{RepoID: "a/b", TargetDir: base, Revision: "main"},
		{RepoID: "a/b", TargetDir: base, AllowPatterns: []string{"*.json"}, IgnorePatterns: []string{"*.mp4"}},
	}
	for _, req := range reqs {
		_, err := a.Acquire(context.Background(), req)
		require.NoError(t, err)
	}

	want := filepath.Join(base, "a__b")
	assert.Equal(t, []string{want, want, want}, dirs)
}

func TestAcquire_IdempotentDirectoryCreation(t *testing.T) {
	ctrl := gomock.NewController(t)
	base := filepath.Join(t.TempDir(), "nested", "data")
	dest := filepath.Join(base, "a__b")
	require.NoError(t, os.MkdirAll(dest, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dest, "data.parquet"), []byte("x"), 0o600))

	downloader := mocks.NewMockSnapshotDownloader(ctrl)
	downloader.EXPECT().Download(gomock.Any(), gomock.Any()).Return(dest, nil).Times(2)

	a := acquire.New(downloader, quietLogger(ctrl))
	req := domain.DownloadRequest{RepoID: "a/b", TargetDir: base, ResumeDownload: true}

	for range 2 {
		got, err := a.Acquire(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, domain.SnapshotPath(dest), got)
	}
}

func TestAcquire_PropagatesDownloaderErrorUnchanged(t *testing.T) {
	ctrl := gomock.NewController(t)
	want := errors.New("network unreachable")

	downloader := mocks.NewMockSnapshotDownloader(ctrl)
	downloader.EXPECT().Download(gomock.Any(), gomock.Any()).Return("", want)

	log := mocks.NewMockLogger(ctrl)
	// Only the start-of-download line is expected on failure.
	log.EXPECT().Info("Downloading dataset", gomock.Any()).Times(1)

	a := acquire.New(downloader, log)
	got, err := a.Acquire(context.Background(), domain.DownloadRequest{RepoID: "a/b", TargetDir: t.TempDir()})
	require.Error(t, err)
	assert.Same(t, want, err)
	assert.Empty(t, got)
}

func TestAcquire_TrustsReturnedPath(t *testing.T) {
	ctrl := gomock.NewController(t)
	base := t.TempDir()
	elsewhere := filepath.Join(base, "somewhere-else")

	downloader := mocks.NewMockSnapshotDownloader(ctrl)
	downloader.EXPECT().Download(gomock.Any(), gomock.Any()).Return(elsewhere, nil)

	log := quietLogger(ctrl)
	log.EXPECT().Warn(gomock.Any(), gomock.Any()).Times(1)

	a := acquire.New(downloader, log)
	got, err := a.Acquire(context.Background(), domain.DownloadRequest{RepoID: "a/b", TargetDir: base})
	require.NoError(t, err)
	assert.Equal(t, domain.SnapshotPath(elsewhere), got)
}

func TestAcquire_ParentCreationFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	base := t.TempDir()
	blocker := filepath.Join(base, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	downloader := mocks.NewMockSnapshotDownloader(ctrl)

	a := acquire.New(downloader, quietLogger(ctrl))
	_, err := a.Acquire(context.Background(), domain.DownloadRequest{
		RepoID:    "a/b",
		TargetDir: filepath.Join(blocker, "sub"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create target directory")
}
