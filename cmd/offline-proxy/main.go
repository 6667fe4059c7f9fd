// offline-proxy is a local forward proxy for kiosk and field-office browsers.
// It keeps the firm's website usable without connectivity: static assets and
// recent API reads are served from a local cache, and form submissions made
// while offline are queued and replayed once the connection returns.
package main

import (
	"context"
	"flag"
	"io"
	"net/http"
	"net/url"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/flop2top/sharma-and-associates/internal/offline"
)

func main() {
	var (
		listen      = flag.String("listen", ":8090", "address to serve on")
		upstream    = flag.String("upstream", "http://localhost:3001", "origin server base URL")
		storePath   = flag.String("store", "offline.db", "path to the offline store")
		version     = flag.Int("cache-version", 1, "cache version, bump to purge cached responses")
		probeEvery  = flag.Duration("probe-interval", 30*time.Second, "connectivity probe interval")
		maxAttempts = flag.Int("max-attempts", 5, "replay attempts before a request is dead-lettered")
	)
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	origin, err := url.Parse(*upstream)
	if err != nil {
		log.Fatalf("invalid upstream URL: %v", err)
	}

	store, err := offline.OpenStore(log, *storePath, *version)
	if err != nil {
		log.Fatalf("failed to open offline store: %v", err)
	}
	defer store.Close()

	transport := offline.NewTransport(log, store, nil)
	replayer := offline.NewReplayer(log, store, nil, *maxAttempts)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go replayer.Watch(ctx, *upstream+"/health", *probeEvery)

	server := &http.Server{
		Addr:    *listen,
		Handler: forwardHandler(log, origin, transport),
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	log.Infof("offline proxy listening on %s, upstream %s", *listen, *upstream)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("proxy server failed: %v", err)
	}
}

// forwardHandler rewrites incoming requests onto the origin and sends them
// through the offline transport.
func forwardHandler(log *logrus.Logger, origin *url.URL, transport http.RoundTripper) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		target := *r.URL
		target.Scheme = origin.Scheme
		target.Host = origin.Host

		req, err := http.NewRequestWithContext(r.Context(), r.Method, target.String(), r.Body)
		if err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		req.Header = r.Header.Clone()

		resp, err := transport.RoundTrip(req)
		if err != nil {
			log.Errorf("proxying %s %s failed: %v", r.Method, r.URL.Path, err)
			http.Error(w, "upstream unavailable", http.StatusBadGateway)
			return
		}
		defer resp.Body.Close()

		for name, values := range resp.Header {
			for _, v := range values {
				w.Header().Add(name, v)
			}
		}
		w.WriteHeader(resp.StatusCode)
		io.Copy(w, resp.Body)
	})
}
