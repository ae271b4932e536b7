package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// SightingsMetrics covers the fetch, fallback and submission pipeline.
type SightingsMetrics struct {
	fetchTotal       *prometheus.CounterVec
	fetchDuration    *prometheus.HistogramVec
	fallbackTotal    prometheus.Counter
	mergedTotal      prometheus.Counter
	workingSetSize   prometheus.Gauge
	submissionsTotal *prometheus.CounterVec
	requestsTotal    *prometheus.CounterVec
}

// NewSightingsMetrics creates and registers the pipeline metrics.
func NewSightingsMetrics(registry prometheus.Registerer) (*SightingsMetrics, error) {
	m := &SightingsMetrics{}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *SightingsMetrics) initMetrics() {
	m.fetchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tickwatch_fetch_total",
			Help: "Sightings fetch attempts per endpoint",
		},
		[]string{"endpoint", "status"},
	)
	m.fetchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tickwatch_fetch_duration_seconds",
			Help:    "Time taken to fetch sightings from an endpoint",
			Buckets: prometheus.ExponentialBuckets(BucketStart10ms, BucketFactor2, BucketCount10),
		},
		[]string{"endpoint"},
	)
	m.fallbackTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tickwatch_fallback_loads_total",
		Help: "Times the built-in dataset was loaded because every endpoint failed",
	})
	m.mergedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tickwatch_local_records_merged_total",
		Help: "Local cache records appended to the working set",
	})
	m.workingSetSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "tickwatch_working_set_records",
		Help: "Records currently in the working set",
	})
	m.submissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tickwatch_submissions_total",
			Help: "Report submissions by outcome",
		},
		[]string{"outcome"},
	)
	m.requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tickwatch_http_requests_total",
			Help: "Round trips to the sightings API by method and status code",
		},
		[]string{"method", "code"},
	)
}

// Describe implements the Collector interface
func (m *SightingsMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.fetchTotal.Describe(ch)
	m.fetchDuration.Describe(ch)
	m.fallbackTotal.Describe(ch)
	m.mergedTotal.Describe(ch)
	m.workingSetSize.Describe(ch)
	m.submissionsTotal.Describe(ch)
	m.requestsTotal.Describe(ch)
}

// Collect implements the Collector interface
func (m *SightingsMetrics) Collect(ch chan<- prometheus.Metric) {
	m.fetchTotal.Collect(ch)
	m.fetchDuration.Collect(ch)
	m.fallbackTotal.Collect(ch)
	m.mergedTotal.Collect(ch)
	m.workingSetSize.Collect(ch)
	m.submissionsTotal.Collect(ch)
	m.requestsTotal.Collect(ch)
}

// RecordFetch records one endpoint attempt and its duration in seconds.
func (m *SightingsMetrics) RecordFetch(endpoint, status string, seconds float64) {
	if m == nil {
		return
	}
	m.fetchTotal.WithLabelValues(endpoint, status).Inc()
	m.fetchDuration.WithLabelValues(endpoint).Observe(seconds)
}

// RecordFallback counts a fallback dataset load.
func (m *SightingsMetrics) RecordFallback() {
	if m == nil {
		return
	}
	m.fallbackTotal.Inc()
}

// RecordMerge counts records appended from the local cache.
func (m *SightingsMetrics) RecordMerge(appended int) {
	if m == nil {
		return
	}
	m.mergedTotal.Add(float64(appended))
}

// SetWorkingSetSize sets the working set gauge.
func (m *SightingsMetrics) SetWorkingSetSize(n int) {
	if m == nil {
		return
	}
	m.workingSetSize.Set(float64(n))
}

// RecordSubmission counts a report submission outcome.
func (m *SightingsMetrics) RecordSubmission(outcome string) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(outcome).Inc()
}

// RecordHTTPRequest counts one round trip. code is the status code, or
// "error" when no response arrived.
func (m *SightingsMetrics) RecordHTTPRequest(method, code string) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(method, code).Inc()
}
