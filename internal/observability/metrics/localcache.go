package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// LocalCacheMetrics covers local cache operations.
type LocalCacheMetrics struct {
	operationsTotal *prometheus.CounterVec
	duration        *prometheus.HistogramVec
	corruptTotal    prometheus.Counter
}

// NewLocalCacheMetrics creates and registers the local cache metrics.
func NewLocalCacheMetrics(registry prometheus.Registerer) (*LocalCacheMetrics, error) {
	m := &LocalCacheMetrics{
		operationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tickwatch_localcache_operations_total",
				Help: "Local cache operations",
			},
			[]string{"operation", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tickwatch_localcache_operation_duration_seconds",
				Help:    "Local cache operation latency",
				Buckets: prometheus.ExponentialBuckets(BucketStart10ms/10, BucketFactor2, BucketCount10),
			},
			[]string{"operation"},
		),
		corruptTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tickwatch_localcache_corrupt_payloads_total",
			Help: "Persisted payloads that could not be decoded and were treated as empty",
		}),
	}
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

// Describe implements the Collector interface
func (m *LocalCacheMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.operationsTotal.Describe(ch)
	m.duration.Describe(ch)
	m.corruptTotal.Describe(ch)
}

// Collect implements the Collector interface
func (m *LocalCacheMetrics) Collect(ch chan<- prometheus.Metric) {
	m.operationsTotal.Collect(ch)
	m.duration.Collect(ch)
	m.corruptTotal.Collect(ch)
}

// RecordOperation records a cache operation outcome and latency in seconds.
func (m *LocalCacheMetrics) RecordOperation(operation, status string, seconds float64) {
	if m == nil {
		return
	}
	m.operationsTotal.WithLabelValues(operation, status).Inc()
	m.duration.WithLabelValues(operation).Observe(seconds)
}

// RecordCorrupt counts an undecodable payload.
func (m *LocalCacheMetrics) RecordCorrupt() {
	if m == nil {
		return
	}
	m.corruptTotal.Inc()
}
