package offline

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/flop2top/sharma-and-associates/internal/metrics"
)

const defaultMaxAttempts = 5

// Replayer re-issues queued requests once connectivity returns. A request is
// deleted after a successful replay, its attempt counter bumped on failure,
// and moved to the dead-letter bucket once it exhausts its attempts.
type Replayer struct {
	store       *Store
	client      *http.Client
	maxAttempts int
	log         *logrus.Entry
}

// NewReplayer creates a Replayer. A nil client uses a default with a 10
// second timeout; maxAttempts <= 0 uses the default of 5.
func NewReplayer(log *logrus.Logger, store *Store, client *http.Client, maxAttempts int) *Replayer {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	return &Replayer{
		store:       store,
		client:      client,
		maxAttempts: maxAttempts,
		log:         log.WithField("component", "replayer"),
	}
}

// Sync replays every queued request once. Records that still fail stay in
// the queue for the next sweep, so a sweep never duplicates a send.
func (r *Replayer) Sync(ctx context.Context) error {
	queued, err := r.store.Queued()
	if err != nil {
		return err
	}

	for _, rec := range queued {
		if err := ctx.Err(); err != nil {
			return err
		}
		if r.replay(ctx, rec) {
			if err := r.store.Delete(rec.ID); err != nil {
				r.log.Errorf("failed to remove replayed request %d: %v", rec.ID, err)
				continue
			}
			metrics.ReplaySuccess.Inc()
			r.log.WithField("url", rec.URL).Info("queued request replayed")
			continue
		}

		if rec.Attempts+1 >= r.maxAttempts {
			if err := r.store.DeadLetter(rec.ID); err != nil {
				r.log.Errorf("failed to dead-letter request %d: %v", rec.ID, err)
				continue
			}
			metrics.ReplayDeadLetter.Inc()
			r.log.WithField("url", rec.URL).Warn("queued request moved to dead letter")
			continue
		}
		if err := r.store.RecordAttempt(rec.ID); err != nil {
			r.log.Errorf("failed to record attempt for request %d: %v", rec.ID, err)
		}
	}

	if depth, err := r.store.QueueDepth(); err == nil {
		metrics.QueueDepth.Set(float64(depth))
	}
	return nil
}

// replay re-issues one queued request and reports whether it succeeded.
func (r *Replayer) replay(ctx context.Context, rec QueuedRequest) bool {
	req, err := http.NewRequestWithContext(ctx, rec.Method, rec.URL, bytes.NewReader(rec.Body))
	if err != nil {
		r.log.Errorf("invalid queued request %d: %v", rec.ID, err)
		return false
	}
	for name, values := range rec.Headers {
		for _, v := range values {
			req.Header.Add(name, v)
		}
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// Watch probes url on the given interval and runs a sweep on each
// offline-to-online transition. It blocks until the context is cancelled.
func (r *Replayer) Watch(ctx context.Context, url string, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	online := false
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			up := r.probe(ctx, url)
			if up && !online {
				r.log.Info("connectivity restored, replaying queued requests")
				if err := r.Sync(ctx); err != nil {
					r.log.Errorf("replay sweep failed: %v", err)
				}
			}
			online = up
		}
	}
}

func (r *Replayer) probe(ctx context.Context, url string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode < http.StatusInternalServerError
}
