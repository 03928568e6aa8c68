package hub

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
	"go.trai.ch/dsget/internal/core/domain"
	"go.trai.ch/zerr"
)

const (
	defaultRevision = "main"

	headerErrorCode  = "X-Error-Code"
	headerLinkedETag = "X-Linked-Etag"
	headerLinkedSize = "X-Linked-Size"
)

// repoInfo is the subset of the Hub repository info payload used here.
type repoInfo struct {
	ID       string    `json:"id"`
	SHA      string    `json:"sha"`
	Siblings []sibling `json:"siblings"`
}

type sibling struct {
	RFilename string `json:"rfilename"`
}

func (i *repoInfo) files() []string {
	out := make([]string, 0, len(i.Siblings))
	for _, s := range i.Siblings {
		if s.RFilename != "" {
			out = append(out, s.RFilename)
		}
	}
	return out
}

// commit returns the resolved commit, falling back to the requested revision.
func (i *repoInfo) commit(revision string) string {
	if i.SHA != "" {
		return i.SHA
	}
	if revision != "" {
		return revision
	}
	return defaultRevision
}

// newHTTPClient builds a retrying client. Metadata clients get an overall
// deadline; transfer clients only bound the wait for response headers so large
// files are not cut off.
func (c *Client) newHTTPClient(followRedirects, metadata bool) *retryablehttp.Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = c.retryMax
	rc.RetryWaitMin = c.retryWaitMin
	rc.RetryWaitMax = c.retryWaitMax
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	if c.logger != nil {
		rc.Logger = retryLogger{logger: c.logger}
	} else {
		rc.Logger = nil
	}
	if c.timeout > 0 {
		if metadata {
			rc.HTTPClient.Timeout = c.timeout
		} else if transport, ok := rc.HTTPClient.Transport.(*http.Transport); ok {
			transport.ResponseHeaderTimeout = c.timeout
		}
	}
	if !followRedirects {
		rc.HTTPClient.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}
	return rc
}

func (c *Client) newRequest(ctx context.Context, method, rawURL, token string) (*retryablehttp.Request, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to build hub request"), "url", rawURL)
	}
	req.Header.Set("User-Agent", c.userAgent)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// repoInfoURL builds {endpoint}/api/{type}s/{repo}/revision/{rev}.
func (c *Client) repoInfoURL(repoType domain.RepoType, repoID, revision string) string {
	if revision == "" {
		revision = defaultRevision
	}
	return c.endpoint + "/api/" + string(repoType) + "s/" + repoID + "/revision/" + url.PathEscape(revision)
}

// resolveURL builds {endpoint}/{prefix}{repo}/resolve/{rev}/{file}.
func (c *Client) resolveURL(repoType domain.RepoType, repoID, revision, file string) string {
	segments := strings.Split(file, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return c.endpoint + "/" + repoPrefix(repoType) + repoID + "/resolve/" + url.PathEscape(revision) + "/" + strings.Join(segments, "/")
}

func repoPrefix(t domain.RepoType) string {
	switch t {
	case domain.RepoTypeDataset:
		return "datasets/"
	case domain.RepoTypeSpace:
		return "spaces/"
	default:
		return ""
	}
}

// repoInfo fetches the file listing of the requested revision.
func (c *Client) repoInfo(ctx context.Context, req domain.SnapshotRequest) (*repoInfo, error) {
	rawURL := c.repoInfoURL(req.RepoType, req.RepoID, req.Revision)
	c.logDebug("Listing snapshot", "url", rawURL)

	httpReq, err := c.newRequest(ctx, http.MethodGet, rawURL, req.Token)
	if err != nil {
		return nil, err
	}

	resp, err := c.api.Do(httpReq)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to list snapshot"), "repo_id", req.RepoID)
	}
	defer resp.Body.Close() //nolint:errcheck // Best effort close in defer

	if resp.StatusCode != http.StatusOK {
		return nil, zerr.With(zerr.With(statusError(resp, req.Revision != ""), "repo_id", req.RepoID), "revision", req.Revision)
	}

	var info repoInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to decode snapshot listing"), "repo_id", req.RepoID)
	}
	return &info, nil
}

// remoteFile issues a HEAD on the resolve endpoint without following redirects,
// so the Hub's linked etag and size headers stay visible. Size is -1 when the
// Hub does not advertise one.
func (c *Client) remoteFile(ctx context.Context, job *snapshotJob, file string) (domain.SnapshotFile, error) {
	rawURL := c.resolveURL(job.req.RepoType, job.req.RepoID, job.commit, file)

	req, err := c.newRequest(ctx, http.MethodHead, rawURL, job.req.Token)
	if err != nil {
		return domain.SnapshotFile{}, err
	}
	req.Header.Set("Accept-Encoding", "identity")

	resp, err := c.head.Do(req)
	if err != nil {
		return domain.SnapshotFile{}, zerr.With(zerr.Wrap(err, "failed to fetch file metadata"), "path", file)
	}
	defer resp.Body.Close() //nolint:errcheck // Best effort close in defer
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusBadRequest {
		return domain.SnapshotFile{}, zerr.With(statusError(resp, false), "path", file)
	}

	meta := domain.SnapshotFile{
		Path: file,
		ETag: normalizeETag(firstHeader(resp.Header, headerLinkedETag, "ETag")),
		Size: -1,
	}
	if size, ok := parseSize(firstHeader(resp.Header, headerLinkedSize, "Content-Length")); ok {
		meta.Size = size
	} else if resp.ContentLength >= 0 && resp.StatusCode == http.StatusOK {
		meta.Size = resp.ContentLength
	}
	return meta, nil
}

// statusError maps a failed Hub response onto a domain error.
func statusError(resp *http.Response, revisionRequested bool) error {
	var err error
	switch resp.Header.Get(headerErrorCode) {
	case "RepoNotFound":
		err = domain.ErrRepoNotFound
	case "RevisionNotFound":
		err = domain.ErrRevisionNotFound
	case "GatedRepo":
		err = domain.ErrUnauthorized
	default:
		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			err = domain.ErrUnauthorized
		case http.StatusNotFound:
			if revisionRequested {
				err = domain.ErrRevisionNotFound
			} else {
				err = domain.ErrRepoNotFound
			}
		default:
			err = domain.ErrUnexpectedStatus
		}
	}
	return zerr.With(err, "status", resp.StatusCode)
}

func firstHeader(h http.Header, keys ...string) string {
	for _, k := range keys {
		if v := h.Get(k); v != "" {
			return v
		}
	}
	return ""
}

func normalizeETag(etag string) string {
	etag = strings.TrimPrefix(etag, "W/")
	return strings.Trim(etag, `"`)
}

func parseSize(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func trimSlash(s string) string {
	return strings.TrimRight(s, "/")
}
