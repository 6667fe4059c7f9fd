package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lawfirm",
		Subsystem: "http",
		Name:      "request_count",
	}, []string{"method", "path", "status"})
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "lawfirm",
		Subsystem: "http",
		Name:      "request_duration",
	}, []string{"method", "path"})
	BookingConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "lawfirm",
		Subsystem: "booking",
		Name:      "conflict_count",
	})
	NotifyErrCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lawfirm",
		Subsystem: "notify",
		Name:      "notify_err_count",
	}, []string{"kind"})
	QueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "lawfirm",
		Subsystem: "offline",
		Name:      "queue_depth",
	})
	ReplaySuccess = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "lawfirm",
		Subsystem: "offline",
		Name:      "replay_success_count",
	})
	ReplayDeadLetter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "lawfirm",
		Subsystem: "offline",
		Name:      "replay_deadletter_count",
	})
)

// Middleware records request counts and latencies per route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		RequestCount.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		RequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the Prometheus scrape endpoint.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
