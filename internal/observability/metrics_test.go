package observability

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/tickwatch/internal/observability/metrics"
)

func TestMetricsHandlerExposesCollectors(t *testing.T) {
	m, err := NewMetrics()
	require.NoError(t, err)

	m.Sightings.RecordFallback()
	m.LocalCache.RecordOperation(metrics.OpCacheLoadAll, metrics.StatusSuccess, 0.001)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "tickwatch_fallback_loads_total 1")
	assert.Contains(t, string(body), "tickwatch_localcache_operations_total")
	assert.Contains(t, string(body), "go_goroutines")
}
