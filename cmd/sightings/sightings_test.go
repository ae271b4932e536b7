package sightings

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/tickwatch/internal/conf"
	"github.com/tphakala/tickwatch/internal/logger"
	"github.com/tphakala/tickwatch/internal/runtime"
)

const payload = `{"sightings":[
	{"id":"1","date":"2024-06-01T10:00:00","location":"Leeds","species":"Marsh tick","severity":"High","lat":53.8,"lng":-1.55},
	{"id":"2","date":"2023-06-02T11:00:00","location":"Leeds","species":"Southern rodent tick","severity":"Low","lat":53.81,"lng":-1.56},
	{"id":"3","date":"2024-07-03T12:00:00","location":"York","species":"Marsh tick","severity":"Med"}
]}`

func newEnv(t *testing.T) runtime.EnvFunc {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(payload))
	}))
	t.Cleanup(srv.Close)

	settings := &conf.Settings{
		Remote: conf.RemoteSettings{
			BaseURL:     srv.URL,
			PrimaryPath: "/sightings",
			RetryPath:   "/api/sightings",
			Timeout:     2 * time.Second,
		},
		Cache:      conf.CacheSettings{Backend: "sqlite", Path: filepath.Join(t.TempDir(), "cache.db")},
		Submission: conf.SubmissionSettings{MaxImageBytes: conf.DefaultMaxImageBytes},
		Share:      conf.ShareSettings{Method: "stdout"},
		Logging:    logger.LoggingConfig{DefaultLevel: "error"},
	}
	env, err := runtime.Open(runtime.NewContext("test", ""), settings, &bytes.Buffer{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = env.Close() })
	_, err = env.Load(context.Background())
	require.NoError(t, err)
	return func() *runtime.Env { return env }
}

func run(t *testing.T, cmd *cobra.Command, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.ExecuteContext(context.Background()))
	return out.String()
}

func TestListFiltersBySpecies(t *testing.T) {
	out := run(t, ListCommand(newEnv(t)), "--species", "Marsh tick")
	assert.Contains(t, out, "York")
	assert.Contains(t, out, "Leeds")
	assert.NotContains(t, out, "Southern rodent tick")
}

func TestListNoMatches(t *testing.T) {
	out := run(t, ListCommand(newEnv(t)), "--date", "1999")
	assert.Contains(t, out, "No sightings match")
}

func TestListRejectsUnknownSeverity(t *testing.T) {
	cmd := ListCommand(newEnv(t))
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--severity", "Extreme"})
	require.Error(t, cmd.Execute())
}

func TestMarkersSkipRecordsWithoutCoordinates(t *testing.T) {
	out := run(t, MarkersCommand(newEnv(t)))
	assert.Contains(t, out, `"skipped": 1`)
	assert.Contains(t, out, `"id": "1"`)
}

func TestShowIncludesTimeline(t *testing.T) {
	out := run(t, ShowCommand(newEnv(t)), "1")
	assert.Contains(t, out, "Marsh tick")
	assert.Contains(t, out, "Recent activity in Leeds:")
	assert.Contains(t, out, "https://www.google.com/maps/search/Leeds%2C%20UK")
}

func TestTimelineSingleSighting(t *testing.T) {
	out := run(t, TimelineCommand(newEnv(t)), "York")
	assert.Contains(t, out, "Not enough sightings in York")
}

func TestSeasonalByCity(t *testing.T) {
	out := run(t, SeasonalCommand(newEnv(t)), "--city", "Leeds", "--json")
	assert.Contains(t, out, `"total": 2`)
}
