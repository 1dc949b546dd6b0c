package querycache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts cache activity. A nil *Metrics is a valid no-op.
type Metrics struct {
	hits        prometheus.Counter
	misses      prometheus.Counter
	fetchErrors prometheus.Counter
	rollbacks   prometheus.Counter
}

// NewMetrics registers the cache counters on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		hits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "arkilo",
			Subsystem: "querycache",
			Name:      "hits_total",
			Help:      "Reads served from fresh cached data.",
		}),
		misses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "arkilo",
			Subsystem: "querycache",
			Name:      "misses_total",
			Help:      "Reads that required a fetch.",
		}),
		fetchErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "arkilo",
			Subsystem: "querycache",
			Name:      "fetch_errors_total",
			Help:      "Fetches that failed after all retries.",
		}),
		rollbacks: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "arkilo",
			Subsystem: "querycache",
			Name:      "optimistic_rollbacks_total",
			Help:      "Optimistic writes restored after a failed commit.",
		}),
	}
}

func (m *Metrics) hit() {
	if m != nil {
		m.hits.Inc()
	}
}

func (m *Metrics) miss() {
	if m != nil {
		m.misses.Inc()
	}
}

func (m *Metrics) fetchError() {
	if m != nil {
		m.fetchErrors.Inc()
	}
}

func (m *Metrics) rollback() {
	if m != nil {
		m.rollbacks.Inc()
	}
}
