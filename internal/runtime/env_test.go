package runtime

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/tickwatch/internal/conf"
	"github.com/tphakala/tickwatch/internal/logger"
	"github.com/tphakala/tickwatch/internal/store"
)

func testSettings(t *testing.T, baseURL string) *conf.Settings {
	t.Helper()
	return &conf.Settings{
		Remote: conf.RemoteSettings{
			BaseURL:     baseURL,
			PrimaryPath: "/sightings",
			RetryPath:   "/api/sightings",
			Timeout:     2 * time.Second,
		},
		Cache: conf.CacheSettings{
			Backend: "sqlite",
			Path:    filepath.Join(t.TempDir(), "cache.db"),
		},
		Submission: conf.SubmissionSettings{
			DefaultLatitude:  conf.DefaultLatitude,
			DefaultLongitude: conf.DefaultLongitude,
			MaxImageBytes:    conf.DefaultMaxImageBytes,
		},
		Share:   conf.ShareSettings{Method: "stdout"},
		Logging: logger.LoggingConfig{DefaultLevel: "error"},
	}
}

func TestNewContextDefaults(t *testing.T) {
	rc := NewContext("", "")
	assert.Equal(t, "dev", rc.Version)
	assert.Equal(t, "unknown", rc.BuildDate)

	rc = NewContext("v1.0.0", "2025-01-01")
	assert.Equal(t, "v1.0.0", rc.Version)
}

func TestOpenLoadAndShare(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"a1","date":"2024-06-01T10:00:00","location":"Leeds","species":"Marsh tick","latitude":53.8,"longitude":-1.55}]`))
	}))
	t.Cleanup(srv.Close)

	var out bytes.Buffer
	env, err := Open(NewContext("test", ""), testSettings(t, srv.URL), &out)
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, env.Close()) })

	outcome, err := env.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, store.SourceRemote, outcome.Source)
	assert.Equal(t, 1, outcome.Total)

	res, err := env.App.Share(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, "stdout", res.Via)
	assert.Contains(t, out.String(), "Check out this tick sighting in Leeds!")
}

func TestOpenFallsBackWhenRemoteDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	env, err := Open(NewContext("", ""), testSettings(t, srv.URL), &bytes.Buffer{})
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, env.Close()) })

	outcome, err := env.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, store.SourceFallback, outcome.Source)
	assert.Equal(t, 55, outcome.Total)
	require.Error(t, outcome.FetchErr)
}

func TestOpenRejectsUnknownBackend(t *testing.T) {
	settings := testSettings(t, "http://127.0.0.1:1")
	settings.Cache.Backend = "redis"

	_, err := Open(NewContext("", ""), settings, &bytes.Buffer{})
	require.Error(t, err)
}
