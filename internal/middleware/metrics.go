package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RouteMetrics counts requests and observes latency per route pattern.
type RouteMetrics struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

func NewRouteMetrics(reg prometheus.Registerer) *RouteMetrics {
	factory := promauto.With(reg)
	return &RouteMetrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "arkilo",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
		latency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "arkilo",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}
}

// Wrap instruments h under the given mux pattern.
func (m *RouteMetrics) Wrap(pattern string, h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := record(w)
		h.ServeHTTP(rec, r)

		m.requests.WithLabelValues(pattern, strconv.Itoa(rec.status)).Inc()
		m.latency.WithLabelValues(pattern).Observe(time.Since(start).Seconds())
	})
}
