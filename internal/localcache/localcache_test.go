package localcache

import (
	"context"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/tphakala/tickwatch/internal/conf"
	"github.com/tphakala/tickwatch/internal/observability/metrics"
	"github.com/tphakala/tickwatch/internal/sighting"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func openTestCache(t *testing.T, opts ...Option) *Cache {
	t.Helper()
	c, err := Open(&conf.CacheSettings{
		Backend: "sqlite",
		Path:    filepath.Join(t.TempDir(), "cache", "tickwatch.db"),
	}, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func report(location string) sighting.Sighting {
	return sighting.Sighting{
		Date:      "2025-06-01T10:30",
		Location:  location,
		Species:   "Marsh tick",
		LatinName: "Dermacentor reticulatus",
		Severity:  sighting.SeverityHigh,
		Lat:       sighting.Float(51.5074),
		Lng:       sighting.Float(-0.1278),
	}
}

var localIDPattern = regexp.MustCompile(`^local-\d+-[0-9a-f]{8}$`)

func TestLoadAllEmpty(t *testing.T) {
	c := openTestCache(t)

	records, err := c.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSaveAppendsInOrder(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()

	first, err := c.Save(ctx, report("London"))
	require.NoError(t, err)
	second, err := c.Save(ctx, report("Leeds"))
	require.NoError(t, err)

	assert.Regexp(t, localIDPattern, first.ID)
	assert.Regexp(t, localIDPattern, second.ID)
	assert.NotEqual(t, first.ID, second.ID)
	assert.True(t, first.IsLocal())

	records, err := c.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, first.ID, records[0].ID)
	assert.Equal(t, "Leeds", records[1].Location)
	assert.Equal(t, "Dermacentor reticulatus", records[1].LatinName)
	lat, lng, ok := records[1].Coordinates()
	require.True(t, ok)
	assert.InDelta(t, 51.5074, lat, 1e-9)
	assert.InDelta(t, -0.1278, lng, 1e-9)
}

func TestSaveDoesNotMutateInput(t *testing.T) {
	c := openTestCache(t)
	in := report("York")

	saved, err := c.Save(context.Background(), in)
	require.NoError(t, err)
	assert.Empty(t, in.ID)
	assert.NotEmpty(t, saved.ID)
}

func TestIDsIncreaseWithinSameMillisecond(t *testing.T) {
	frozen := time.UnixMilli(1_700_000_000_000)
	c := openTestCache(t, WithClock(func() time.Time { return frozen }))
	ctx := context.Background()

	a, err := c.Save(ctx, report("Bath"))
	require.NoError(t, err)
	b, err := c.Save(ctx, report("Bath"))
	require.NoError(t, err)

	assert.Contains(t, a.ID, "local-1700000000000-")
	assert.Contains(t, b.ID, "local-1700000000001-")
}

func TestCorruptPayloadReadsAsEmpty(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := metrics.NewLocalCacheMetrics(reg)
	require.NoError(t, err)
	c := openTestCache(t, WithMetrics(m))
	ctx := context.Background()

	require.NoError(t, c.db.Create(&Entry{Name: SightingsKey, Value: "{not json"}).Error)

	records, err := c.LoadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)

	// The next save overwrites the unreadable payload.
	_, err = c.Save(ctx, report("Cardiff"))
	require.NoError(t, err)
	records, err = c.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Cardiff", records[0].Location)
}

func TestClear(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()

	_, err := c.Save(ctx, report("Exeter"))
	require.NoError(t, err)
	require.NoError(t, c.Clear(ctx))

	records, err := c.LoadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestOpenRejectsUnknownBackend(t *testing.T) {
	_, err := Open(&conf.CacheSettings{Backend: "redis"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported cache backend")
}

func TestPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tickwatch.db")
	settings := &conf.CacheSettings{Backend: "sqlite", Path: path}

	c, err := Open(settings)
	require.NoError(t, err)
	saved, err := c.Save(context.Background(), report("Bristol"))
	require.NoError(t, err)
	require.NoError(t, c.Close())

	c, err = Open(settings)
	require.NoError(t, err)
	defer c.Close()
	records, err := c.LoadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, saved.ID, records[0].ID)
}
