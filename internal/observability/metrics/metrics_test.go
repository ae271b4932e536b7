package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSightingsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewSightingsMetrics(reg)
	require.NoError(t, err)

	m.RecordFetch("/sightings", StatusError, 0.2)
	m.RecordFetch("/api/sightings", StatusSuccess, 0.1)
	m.RecordFallback()
	m.RecordMerge(3)
	m.SetWorkingSetSize(58)
	m.RecordSubmission(SubmissionSavedLocally)
	m.RecordHTTPRequest("GET", "503")

	assert.InDelta(t, 1, testutil.ToFloat64(m.fetchTotal.WithLabelValues("/sightings", StatusError)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.fallbackTotal), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(m.mergedTotal), 0)
	assert.InDelta(t, 58, testutil.ToFloat64(m.workingSetSize), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.submissionsTotal.WithLabelValues(SubmissionSavedLocally)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.requestsTotal.WithLabelValues("GET", "503")), 0)

	_, err = NewSightingsMetrics(reg)
	assert.Error(t, err, "duplicate registration")
}

func TestNilMetricsAreNoOps(t *testing.T) {
	var s *SightingsMetrics
	var c *LocalCacheMetrics
	var q *MQTTMetrics
	assert.NotPanics(t, func() {
		s.RecordFetch("/sightings", StatusSuccess, 0)
		s.RecordFallback()
		s.RecordMerge(1)
		s.SetWorkingSetSize(1)
		s.RecordSubmission(SubmissionRemote)
		s.RecordHTTPRequest("GET", "error")
		c.RecordOperation(OpCacheSave, StatusSuccess, 0)
		c.RecordCorrupt()
		q.SetConnected(true)
		q.RecordPublish(StatusSuccess)
	})
}

func TestLocalCacheAndMQTTMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewLocalCacheMetrics(reg)
	require.NoError(t, err)
	q, err := NewMQTTMetrics(reg)
	require.NoError(t, err)

	c.RecordOperation(OpCacheSave, StatusSuccess, 0.001)
	c.RecordCorrupt()
	q.SetConnected(true)
	q.RecordPublish(StatusError)

	assert.InDelta(t, 1, testutil.ToFloat64(c.operationsTotal.WithLabelValues(OpCacheSave, StatusSuccess)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.corruptTotal), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(q.connectionStatus), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(q.messagesTotal.WithLabelValues(StatusError)), 0)
}
