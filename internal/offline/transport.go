package offline

import (
	"bytes"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/flop2top/sharma-and-associates/internal/metrics"
)

const apiCacheTTL = 5 * time.Minute

// assetExtensions are file types served cache-first.
var assetExtensions = map[string]bool{
	".css":   true,
	".js":    true,
	".png":   true,
	".jpg":   true,
	".jpeg":  true,
	".svg":   true,
	".gif":   true,
	".webp":  true,
	".ico":   true,
	".woff":  true,
	".woff2": true,
}

const offlinePage = `<!DOCTYPE html>
<html>
<head><title>You're Offline - Sharma &amp; Associates</title></head>
<body>
<h1>You're currently offline</h1>
<p>Please check your internet connection. Your form submissions will be sent automatically once you're back online.</p>
</body>
</html>`

// Transport is an http.RoundTripper that keeps the site usable without a
// network connection. Static assets are served cache-first, HTML navigations
// and API reads network-first with cache fallback, and failed API writes are
// queued for replay.
type Transport struct {
	store *Store
	next  http.RoundTripper
	log   *logrus.Entry
	now   func() time.Time
}

// NewTransport wraps next with offline behavior backed by store. A nil next
// uses http.DefaultTransport.
func NewTransport(log *logrus.Logger, store *Store, next http.RoundTripper) *Transport {
	if next == nil {
		next = http.DefaultTransport
	}
	return &Transport{
		store: store,
		next:  next,
		log:   log.WithField("component", "offline"),
		now:   time.Now,
	}
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	switch {
	case req.Method == http.MethodGet && isAsset(req.URL.Path):
		return t.assetGet(req)
	case req.Method == http.MethodGet && isNavigation(req):
		return t.navigationGet(req)
	case req.Method == http.MethodGet && isAPI(req.URL.Path):
		return t.apiGet(req)
	case req.Method != http.MethodGet && isAPI(req.URL.Path):
		return t.apiMutate(req)
	default:
		return t.next.RoundTrip(req)
	}
}

func isAsset(p string) bool {
	return strings.HasPrefix(p, "/assets/") || assetExtensions[strings.ToLower(path.Ext(p))]
}

func isNavigation(req *http.Request) bool {
	return strings.Contains(req.Header.Get("Accept"), "text/html")
}

func isAPI(p string) bool {
	return strings.HasPrefix(p, "/api/") || p == "/api"
}

// assetGet serves from cache first and falls back to the network.
func (t *Transport) assetGet(req *http.Request) (*http.Response, error) {
	if entry, err := t.store.GetCache(req.URL.String(), t.now()); err == nil && entry != nil {
		return entryResponse(req, entry), nil
	}

	resp, err := t.next.RoundTrip(req)
	if err == nil && resp.StatusCode == http.StatusOK {
		resp = t.populate(req, resp, time.Time{})
		return resp, nil
	}
	if err == nil {
		return resp, nil
	}
	return plainResponse(req, http.StatusServiceUnavailable, "text/plain", []byte("offline")), nil
}

// navigationGet tries the network first and falls back to the cached page,
// then the offline page.
func (t *Transport) navigationGet(req *http.Request) (*http.Response, error) {
	resp, err := t.next.RoundTrip(req)
	if err == nil {
		if resp.StatusCode == http.StatusOK {
			resp = t.populate(req, resp, time.Time{})
		}
		return resp, nil
	}

	if entry, cerr := t.store.GetCache(req.URL.String(), t.now()); cerr == nil && entry != nil {
		return entryResponse(req, entry), nil
	}
	return plainResponse(req, http.StatusServiceUnavailable, "text/html", []byte(offlinePage)), nil
}

// apiGet tries the network first; a 200 is cached with a five minute expiry
// checked at read time. On network failure an unexpired cached copy is
// served.
func (t *Transport) apiGet(req *http.Request) (*http.Response, error) {
	resp, err := t.next.RoundTrip(req)
	if err == nil {
		if resp.StatusCode == http.StatusOK {
			resp = t.populate(req, resp, t.now().Add(apiCacheTTL))
		}
		return resp, nil
	}

	if entry, cerr := t.store.GetCache(req.URL.String(), t.now()); cerr == nil && entry != nil {
		return entryResponse(req, entry), nil
	}
	return plainResponse(req, http.StatusServiceUnavailable, "application/json",
		[]byte(`{"success":false,"offline":true,"message":"You are offline and this data is not cached."}`)), nil
}

// apiMutate forwards the request, queueing exactly one record when the
// network is down.
func (t *Transport) apiMutate(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		var err error
		body, err = io.ReadAll(req.Body)
		req.Body.Close()
		if err != nil {
			return nil, err
		}
		req.Body = io.NopCloser(bytes.NewReader(body))
	}

	resp, err := t.next.RoundTrip(req)
	if err == nil {
		return resp, nil
	}

	queued := QueuedRequest{
		URL:       req.URL.String(),
		Method:    req.Method,
		Headers:   req.Header.Clone(),
		Body:      body,
		Timestamp: t.now(),
	}
	if _, qerr := t.store.Enqueue(queued); qerr != nil {
		t.log.Errorf("failed to queue %s %s: %v", req.Method, req.URL, qerr)
		return plainResponse(req, http.StatusServiceUnavailable, "application/json",
			[]byte(`{"success":false,"offline":true,"message":"You are offline and the request could not be saved."}`)), nil
	}
	if depth, derr := t.store.QueueDepth(); derr == nil {
		metrics.QueueDepth.Set(float64(depth))
	}
	t.log.WithField("url", req.URL.String()).Info("request queued for replay")

	return plainResponse(req, http.StatusAccepted, "application/json",
		[]byte(`{"success":false,"queued":true,"message":"You are offline. Your request has been saved and will be sent when you are back online."}`)), nil
}

// populate stores the response body in the cache and returns a replacement
// response with the body restored.
func (t *Transport) populate(req *http.Request, resp *http.Response, expiresAt time.Time) *http.Response {
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		resp.Body = io.NopCloser(bytes.NewReader(nil))
		return resp
	}

	entry := CacheEntry{
		Status:    resp.StatusCode,
		Header:    resp.Header.Clone(),
		Body:      body,
		StoredAt:  t.now(),
		ExpiresAt: expiresAt,
	}
	if err := t.store.PutCache(req.URL.String(), entry); err != nil {
		t.log.Warnf("failed to cache %s: %v", req.URL, err)
	}

	resp.Body = io.NopCloser(bytes.NewReader(body))
	resp.ContentLength = int64(len(body))
	return resp
}

func entryResponse(req *http.Request, entry *CacheEntry) *http.Response {
	header := http.Header(entry.Header).Clone()
	if header == nil {
		header = http.Header{}
	}
	header.Set("X-Served-From", "offline-cache")
	return &http.Response{
		StatusCode:    entry.Status,
		Status:        http.StatusText(entry.Status),
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(entry.Body)),
		ContentLength: int64(len(entry.Body)),
		Request:       req,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
	}
}

func plainResponse(req *http.Request, status int, contentType string, body []byte) *http.Response {
	header := http.Header{}
	header.Set("Content-Type", contentType)
	return &http.Response{
		StatusCode:    status,
		Status:        http.StatusText(status),
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
		Request:       req,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
	}
}
