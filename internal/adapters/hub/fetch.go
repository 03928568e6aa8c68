package hub

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/dsget/internal/adapters/manifest"
	"go.trai.ch/dsget/internal/core/domain"
	"go.trai.ch/dsget/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	incompleteDir    = "download"
	incompleteSuffix = ".incomplete"

	filePerm = 0o644
)

// incompletePath is where the partial content of file is kept between runs.
// The etag is part of the name so bytes of one revision are never continued
// with bytes of another.
func incompletePath(localDir, file, etag string) string {
	return filepath.Join(partialDir(localDir, file), filepath.Base(filepath.FromSlash(file))+"."+etagKey(etag)+incompleteSuffix)
}

func partialDir(localDir, file string) string {
	return filepath.Dir(filepath.Join(localDir, filepath.FromSlash(manifest.Dir), incompleteDir, filepath.FromSlash(file)))
}

// etagKey returns etag when it is safe to use in a file name, its hash otherwise.
func etagKey(etag string) string {
	safe := etag != ""
	for _, r := range etag {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-' || r == '_') {
			safe = false
			break
		}
	}
	if safe {
		return etag
	}
	return fmt.Sprintf("%016x", xxhash.Sum64String(etag))
}

// removeStalePartials deletes partial downloads of file that belong to another
// etag, including the unkeyed layout, keeping only keep.
func removeStalePartials(localDir, file, keep string) error {
	dir := partialDir(localDir, file)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.With(zerr.Wrap(err, "failed to read download directory"), "path", dir)
	}

	base := filepath.Base(filepath.FromSlash(file))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, incompleteSuffix) {
			continue
		}
		stem := strings.TrimSuffix(name, incompleteSuffix)
		if stem != base && !isKeyedPartial(stem, base) {
			continue
		}
		path := filepath.Join(dir, name)
		if path == keep {
			continue
		}
		if err := removeIfExists(path); err != nil {
			return err
		}
	}
	return nil
}

// isKeyedPartial reports whether stem is base followed by a single etag key.
func isKeyedPartial(stem, base string) bool {
	key, ok := strings.CutPrefix(stem, base+".")
	return ok && key != "" && !strings.Contains(key, ".")
}

// fetchFile brings one snapshot file up to date and records it in the manifest.
func (c *Client) fetchFile(ctx context.Context, job *snapshotJob, file string) (domain.TransferStatus, error) {
	rel := filepath.FromSlash(file)
	if !filepath.IsLocal(rel) {
		return domain.TransferFailed, zerr.With(domain.ErrUnsafePath, "path", file)
	}
	target := filepath.Join(job.localDir, rel)

	remote, err := c.remoteFile(ctx, job, file)
	if err != nil {
		return domain.TransferFailed, err
	}

	if !job.req.ForceDownload {
		if ok, err := upToDate(job.store, target, remote); err != nil {
			return domain.TransferFailed, err
		} else if ok {
			return domain.TransferCached, nil
		}
	}

	// The recorded entry no longer describes what is on disk.
	if err := job.store.Delete(file); err != nil {
		return domain.TransferFailed, err
	}

	partial := incompletePath(job.localDir, file, remote.ETag)
	if err := removeStalePartials(job.localDir, file, partial); err != nil {
		return domain.TransferFailed, err
	}
	if job.req.ForceDownload || !job.req.ResumeDownload || remote.ETag == "" {
		if err := removeIfExists(partial); err != nil {
			return domain.TransferFailed, err
		}
	}

	status, err := c.transfer(ctx, job, file, partial, remote)
	if err != nil {
		return domain.TransferFailed, err
	}

	if err := checkSize(partial, remote.Size); err != nil {
		_ = os.Remove(partial)
		return domain.TransferFailed, zerr.With(err, "path", file)
	}

	if err := os.MkdirAll(filepath.Dir(target), dirPerm); err != nil {
		return domain.TransferFailed, zerr.With(zerr.Wrap(err, "failed to create file directory"), "path", file)
	}
	if err := os.Rename(partial, target); err != nil {
		return domain.TransferFailed, zerr.With(zerr.Wrap(err, "failed to move file into place"), "path", file)
	}

	fingerprint, err := manifest.Fingerprint(target)
	if err != nil {
		return domain.TransferFailed, err
	}

	entry := domain.ManifestEntry{
		Path:        file,
		ETag:        remote.ETag,
		Size:        remote.Size,
		Commit:      job.commit,
		Fingerprint: fingerprint,
		FetchedAt:   time.Now().UTC(),
	}
	if err := job.store.Put(entry); err != nil {
		return domain.TransferFailed, err
	}

	return status, nil
}

// upToDate reports whether the file at target still matches its manifest entry
// and the remote etag.
func upToDate(store ports.ManifestStore, target string, remote domain.SnapshotFile) (bool, error) {
	entry, err := store.Get(remote.Path)
	if err != nil || entry == nil {
		return false, err
	}
	if remote.ETag == "" || entry.ETag != remote.ETag {
		return false, nil
	}

	info, err := os.Stat(target)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, zerr.With(zerr.Wrap(err, "failed to stat file"), "path", target)
	}
	if !info.Mode().IsRegular() {
		return false, nil
	}
	if remote.Size >= 0 && info.Size() != remote.Size {
		return false, nil
	}

	fingerprint, err := manifest.Fingerprint(target)
	if err != nil {
		return false, err
	}
	return fingerprint == entry.Fingerprint, nil
}

// transfer streams the file into partial, continuing from its current length
// when the server confirms the range still belongs to the same etag.
func (c *Client) transfer(
	ctx context.Context,
	job *snapshotJob,
	file, partial string,
	remote domain.SnapshotFile,
) (domain.TransferStatus, error) {
	if err := os.MkdirAll(filepath.Dir(partial), dirPerm); err != nil {
		return domain.TransferFailed, zerr.With(zerr.Wrap(err, "failed to create download directory"), "path", file)
	}

	offset := fileSize(partial)
	if remote.Size >= 0 && offset > remote.Size {
		if err := removeIfExists(partial); err != nil {
			return domain.TransferFailed, err
		}
		offset = 0
	}

	rawURL := c.resolveURL(job.req.RepoType, job.req.RepoID, job.commit, file)
	req, err := c.newRequest(ctx, http.MethodGet, rawURL, job.req.Token)
	if err != nil {
		return domain.TransferFailed, err
	}
	if offset > 0 {
		req.Header.Set("Range", "bytes="+strconv.FormatInt(offset, 10)+"-")
		req.Header.Set("If-Range", `"`+remote.ETag+`"`)
	}

	resp, err := c.files.Do(req)
	if err != nil {
		return domain.TransferFailed, zerr.With(zerr.Wrap(err, "failed to download file"), "path", file)
	}
	defer resp.Body.Close() //nolint:errcheck // Best effort close in defer

	flags := os.O_CREATE | os.O_WRONLY
	status := domain.TransferDownloaded

	switch {
	case resp.StatusCode == http.StatusPartialContent && offset > 0:
		flags |= os.O_APPEND
		status = domain.TransferResumed
		c.logDebug("Resuming download", "path", file, "offset", offset)
	case resp.StatusCode == http.StatusOK:
		flags |= os.O_TRUNC
		if offset > 0 {
			c.logDebug("Range not honoured, restarting download", "path", file)
		}
	case resp.StatusCode == http.StatusRequestedRangeNotSatisfiable && offset > 0:
		// A partial as long as the file cannot be verified, so it is fetched again.
		c.logWarn("Discarding stale partial download", "path", file)
		if err := removeIfExists(partial); err != nil {
			return domain.TransferFailed, err
		}
		return c.transfer(ctx, job, file, partial, remote)
	default:
		return domain.TransferFailed, zerr.With(statusError(resp, false), "path", file)
	}

	//nolint:gosec // Path is built from a checked snapshot-relative path
	f, err := os.OpenFile(partial, flags, filePerm)
	if err != nil {
		return domain.TransferFailed, zerr.With(zerr.Wrap(err, "failed to open partial file"), "path", partial)
	}

	n, copyErr := io.Copy(f, resp.Body)
	closeErr := f.Close()
	if copyErr != nil {
		return domain.TransferFailed, zerr.With(zerr.Wrap(copyErr, "failed to write file"), "path", file)
	}
	if closeErr != nil {
		return domain.TransferFailed, zerr.With(zerr.Wrap(closeErr, "failed to close partial file"), "path", file)
	}
	if vertex, ok := ports.VertexFromContext(ctx); ok {
		_, _ = fmt.Fprintf(vertex.Stdout(), "%s: %d bytes\n", status, n)
	}

	return status, nil
}

func checkSize(path string, want int64) error {
	if want < 0 {
		return nil
	}
	if got := fileSize(path); got != want {
		return zerr.With(zerr.With(domain.ErrSizeMismatch, "expected", want), "actual", got)
	}
	return nil
}

func fileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return zerr.With(zerr.Wrap(err, "failed to remove partial file"), "path", path)
	}
	return nil
}
