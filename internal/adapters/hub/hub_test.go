package hub_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"go.trai.ch/dsget/internal/adapters/hub"
	"go.trai.ch/dsget/internal/adapters/logger"
)

const (
	testRepo = "org/data"
	testSHA  = "0123456789abcdef0123456789abcdef01234567"
)

// fakeHub serves the listing and resolve endpoints for a single dataset.
type fakeHub struct {
	t *testing.T

	files map[string][]byte
	order []string
	token string

	// listingDelay holds back the listing response.
	listingDelay time.Duration

	mu       sync.Mutex
	gets     map[string]int
	ranges   map[string]string
	ifRanges map[string]string
	failGets map[string]bool
	auth     []string
}

func newFakeHub(t *testing.T, files map[string]string, order []string) *fakeHub {
	t.Helper()
	h := &fakeHub{
		t:      t,
		files:  make(map[string][]byte, len(files)),
		order:  order,
		gets:     make(map[string]int),
		ranges:   make(map[string]string),
		ifRanges: make(map[string]string),
		failGets: make(map[string]bool),
	}
	for k, v := range files {
		h.files[k] = []byte(v)
	}
	return h
}

func (h *fakeHub) start() *httptest.Server {
	h.t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(h.serve))
	h.t.Cleanup(srv.Close)
	return srv
}

func (h *fakeHub) serve(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	h.auth = append(h.auth, r.Header.Get("Authorization"))
	h.mu.Unlock()

	if h.token != "" && r.Header.Get("Authorization") != "Bearer "+h.token {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	listing := "/api/datasets/" + testRepo + "/revision/"
	resolve := "/datasets/" + testRepo + "/resolve/" + testSHA + "/"

	switch {
	case strings.HasPrefix(r.URL.Path, "/api/datasets/") && !strings.HasPrefix(r.URL.Path, listing):
		w.Header().Set("X-Error-Code", "RepoNotFound")
		w.WriteHeader(http.StatusNotFound)
	case strings.HasPrefix(r.URL.Path, listing):
		rev := strings.TrimPrefix(r.URL.Path, listing)
		if rev != "main" && rev != testSHA {
			w.Header().Set("X-Error-Code", "RevisionNotFound")
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if h.listingDelay > 0 {
			select {
			case <-time.After(h.listingDelay):
			case <-r.Context().Done():
				return
			}
		}
		h.writeListing(w)
	case strings.HasPrefix(r.URL.Path, resolve):
		h.serveFile(w, r, strings.TrimPrefix(r.URL.Path, resolve))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *fakeHub) writeListing(w http.ResponseWriter) {
	type sibling struct {
		RFilename string `json:"rfilename"`
	}
	siblings := make([]sibling, 0, len(h.order))
	for _, name := range h.order {
		siblings = append(siblings, sibling{RFilename: name})
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"id":       testRepo,
		"sha":      testSHA,
		"siblings": siblings,
	})
}

func (h *fakeHub) serveFile(w http.ResponseWriter, r *http.Request, name string) {
	h.mu.Lock()
	content, ok := h.files[name]
	failed := false
	if r.Method == http.MethodGet {
		h.gets[name]++
		if rng := r.Header.Get("Range"); rng != "" {
			h.ranges[name] = rng
			h.ifRanges[name] = r.Header.Get("If-Range")
		}
		failed = h.failGets[name]
	}
	h.mu.Unlock()

	if failed {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if !ok {
		w.Header().Set("X-Error-Code", "EntryNotFound")
		w.WriteHeader(http.StatusNotFound)
		return
	}

	w.Header().Set("ETag", `"`+etagOf(content)+`"`)
	w.Header().Set("X-Linked-Size", strconv.Itoa(len(content)))
	http.ServeContent(w, r, name, time.Time{}, bytes.NewReader(content))
}

func (h *fakeHub) setFile(name, content string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.files[name] = []byte(content)
}

func (h *fakeHub) failDownloads(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.failGets[name] = true
}

func (h *fakeHub) getCount(name string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.gets[name]
}

func (h *fakeHub) rangeHeader(name string) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.ranges[name]
}

func (h *fakeHub) ifRangeHeader(name string) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.ifRanges[name]
}

func (h *fakeHub) authHeaders() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.auth...)
}

func etagOf(content []byte) string {
	var sum uint32
	for _, b := range content {
		sum = sum*31 + uint32(b)
	}
	return "e" + strconv.FormatUint(uint64(sum), 16) + "-" + strconv.Itoa(len(content))
}

func newTestClient(endpoint string, opts ...hub.Option) *hub.Client {
	base := []hub.Option{
		hub.WithEndpoint(endpoint),
		hub.WithRetry(0, time.Millisecond, time.Millisecond),
		hub.WithLogger(logger.NewWithWriter(io.Discard)),
	}
	return hub.NewClient(append(base, opts...)...)
}
