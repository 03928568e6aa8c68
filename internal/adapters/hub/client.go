// Package hub implements ports.SnapshotDownloader against the Hugging Face Hub
// HTTP API.
package hub

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.trai.ch/dsget/internal/adapters/manifest"
	"go.trai.ch/dsget/internal/adapters/telemetry"
	"go.trai.ch/dsget/internal/build"
	"go.trai.ch/dsget/internal/core/domain"
	"go.trai.ch/dsget/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

const (
	defaultRetryMax     = 4
	defaultRetryWaitMin = 1 * time.Second
	defaultRetryWaitMax = 30 * time.Second

	dirPerm = 0o750
)

var _ ports.SnapshotDownloader = (*Client)(nil)

// Client downloads repository snapshots from a Hub endpoint.
type Client struct {
	endpoint   string
	userAgent  string
	maxWorkers int
	logger     ports.Logger
	telemetry  ports.Telemetry

	retryMax     int
	retryWaitMin time.Duration
	retryWaitMax time.Duration
	timeout      time.Duration

	api   *retryablehttp.Client
	head  *retryablehttp.Client
	files *retryablehttp.Client
}

// Option configures a Client.
type Option func(*Client)

// WithEndpoint sets the Hub base URL.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		if endpoint != "" {
			c.endpoint = trimSlash(endpoint)
		}
	}
}

// WithMaxWorkers bounds the number of files fetched at once.
func WithMaxWorkers(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxWorkers = n
		}
	}
}

// WithLogger sets the logger used for progress and retry messages.
func WithLogger(logger ports.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithTelemetry sets the recorder receiving one vertex per file.
func WithTelemetry(t ports.Telemetry) Option {
	return func(c *Client) {
		c.telemetry = t
	}
}

// WithRetry configures how transient HTTP failures are retried.
func WithRetry(maxRetries int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.retryMax = maxRetries
		c.retryWaitMin = waitMin
		c.retryWaitMax = waitMax
	}
}

// WithTimeout bounds each metadata request and the wait for response headers
// of a file transfer. Zero disables the limit.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d >= 0 {
			c.timeout = d
		}
	}
}

// NewClient creates a Client for the public Hub unless overridden by opts.
func NewClient(opts ...Option) *Client {
	c := &Client{
		endpoint:     domain.DefaultEndpoint,
		userAgent:    "dsget/" + build.Version,
		maxWorkers:   domain.DefaultMaxWorkers,
		telemetry:    telemetry.NewNoOp(),
		retryMax:     defaultRetryMax,
		retryWaitMin: defaultRetryWaitMin,
		retryWaitMax: defaultRetryWaitMax,
		timeout:      domain.DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.api = c.newHTTPClient(true, true)
	c.head = c.newHTTPClient(false, true)
	c.files = c.newHTTPClient(true, false)
	return c
}

// snapshotJob carries the state shared by all file transfers of one Download.
type snapshotJob struct {
	req      domain.SnapshotRequest
	localDir string
	commit   string
	store    ports.ManifestStore

	mu     sync.Mutex
	counts map[domain.TransferStatus]int
}

func (j *snapshotJob) record(status domain.TransferStatus) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.counts[status]++
}

// Download lists the snapshot, keeps the files selected by the allow and ignore
// patterns and materializes each of them as a regular file under req.LocalDir.
// It returns the cleaned local directory.
func (c *Client) Download(ctx context.Context, req domain.SnapshotRequest) (string, error) {
	if req.RepoType == "" {
		req.RepoType = domain.RepoTypeModel
	}
	if !req.RepoType.IsValid() {
		return "", zerr.With(zerr.New("unknown repository type"), "repo_type", string(req.RepoType))
	}
	if req.LocalDir == "" {
		return "", zerr.New("local directory is required")
	}

	filter, err := NewFilter(req.AllowPatterns, req.IgnorePatterns)
	if err != nil {
		return "", err
	}

	localDir := filepath.Clean(req.LocalDir)
	if err := os.MkdirAll(localDir, dirPerm); err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to create snapshot directory"), "path", localDir)
	}

	info, err := c.repoInfo(ctx, req)
	if err != nil {
		return "", err
	}

	files := filter.Select(info.files())
	c.logDebug("Snapshot resolved",
		"repo_id", req.RepoID,
		"commit", info.SHA,
		"listed", len(info.Siblings),
		"selected", len(files),
	)

	store, err := manifest.Open(localDir)
	if err != nil {
		return "", err
	}

	job := &snapshotJob{
		req:      req,
		localDir: localDir,
		commit:   info.commit(req.Revision),
		store:    store,
		counts:   make(map[domain.TransferStatus]int),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.maxWorkers)

	for _, file := range files {
		g.Go(func() error {
			return c.fetchRecorded(gctx, job, file)
		})
	}

	if err := g.Wait(); err != nil {
		return "", err
	}

	c.logInfo("Snapshot complete",
		"repo_id", req.RepoID,
		"commit", job.commit,
		"downloaded", job.counts[domain.TransferDownloaded],
		"resumed", job.counts[domain.TransferResumed],
		"cached", job.counts[domain.TransferCached],
	)

	return localDir, nil
}

// fetchRecorded wraps fetchFile in a telemetry vertex.
func (c *Client) fetchRecorded(ctx context.Context, job *snapshotJob, file string) error {
	ctx, vertex := c.telemetry.Record(ctx, file)

	status, err := c.fetchFile(ctx, job, file)
	if err != nil {
		job.record(domain.TransferFailed)
		vertex.Complete(err)
		return err
	}

	job.record(status)
	if !status.Fetched() {
		vertex.Cached()
	}
	vertex.Log(domain.LogLevelDebug, string(status))
	vertex.Complete(nil)
	return nil
}

func (c *Client) logDebug(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}

func (c *Client) logInfo(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Info(msg, args...)
	}
}

func (c *Client) logWarn(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Warn(msg, args...)
	}
}
