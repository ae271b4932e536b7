package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/tickwatch/internal/app"
	"github.com/tphakala/tickwatch/internal/errors"
	"github.com/tphakala/tickwatch/internal/observability"
	"github.com/tphakala/tickwatch/internal/sighting"
)

var fixedNow = time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)

type stubRemote struct {
	mu      sync.Mutex
	records []sighting.Sighting
	fail    bool
	postErr error
}

func (r *stubRemote) FetchSightings(context.Context) ([]sighting.Sighting, string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return nil, "", errors.Newf("unavailable").Category(errors.CategoryFetch).Build()
	}
	return append([]sighting.Sighting(nil), r.records...), "/sightings", nil
}

func (r *stubRemote) PostSighting(context.Context, *sighting.Sighting) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.postErr
}

type stubCache struct {
	mu      sync.Mutex
	records []sighting.Sighting
}

func (c *stubCache) Save(_ context.Context, s sighting.Sighting) (sighting.Sighting, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s.ID = "local-1736942400000-00c0ffee"
	c.records = append(c.records, s)
	return s, nil
}

func (c *stubCache) LoadAll(context.Context) ([]sighting.Sighting, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]sighting.Sighting(nil), c.records...), nil
}

func testRecords() []sighting.Sighting {
	return []sighting.Sighting{
		{ID: "1", Date: "2025-01-10T09:00:00", Location: "Leeds", Species: "Marsh tick", Lat: sighting.Float(53.8), Lng: sighting.Float(-1.55)},
		{ID: "2", Date: "2024-06-01T10:00:00", Location: "Leeds", Species: "Passerine tick", Severity: "Med", Lat: sighting.Float(53.81), Lng: sighting.Float(-1.56)},
		{ID: "3", Date: "2023-03-05T08:00:00", Location: "York", Species: "Tree-hole tick"},
	}
}

func newTestServer(t *testing.T, remote *stubRemote, cfg *Config, opts ...ServerOption) *Server {
	t.Helper()
	a := app.New(remote, &stubCache{}, app.WithClock(func() time.Time { return fixedNow }))
	_, err := a.Refresh(context.Background())
	require.NoError(t, err)
	if cfg == nil {
		cfg = &Config{Listen: "127.0.0.1:0", BodyLimit: DefaultBodyLimit, ShutdownTimeout: time.Second}
	}
	return NewWithConfig(a, cfg, opts...)
}

func do(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, http.NoBody)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, &stubRemote{records: testRecords()}, nil, WithVersion("1.2.3"))

	rec := do(t, s, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "1.2.3", body["version"])
	assert.EqualValues(t, 3, body["records"])
}

func TestListSightingsFilters(t *testing.T) {
	s := newTestServer(t, &stubRemote{records: testRecords()}, nil)

	rec := do(t, s, http.MethodGet, "/api/v1/sightings?species=Marsh+tick", "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[SightingsResponse](t, rec)
	assert.Equal(t, 3, resp.Total)
	assert.Equal(t, "remote", string(resp.Source))
	require.Len(t, resp.View.List, 1)
	require.Len(t, resp.View.Markers, 1)
	assert.Equal(t, "1", resp.View.Markers[0].ID)

	rec = do(t, s, http.MethodGet, "/api/v1/sightings?severity=Med", "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp = decode[SightingsResponse](t, rec)
	require.Len(t, resp.View.List, 1)
	assert.Equal(t, "2", resp.View.List[0].ID)
}

func TestListSightingsRejectsUnknownSeverity(t *testing.T) {
	s := newTestServer(t, &stubRemote{records: testRecords()}, nil)

	rec := do(t, s, http.MethodGet, "/api/v1/sightings?severity=Extreme", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decode[ErrorResponse](t, rec)
	assert.Len(t, resp.CorrelationID, 12)
}

func TestListSightingsViewCache(t *testing.T) {
	cfg := &Config{BodyLimit: DefaultBodyLimit, CacheTTL: time.Minute}
	s := newTestServer(t, &stubRemote{records: testRecords()}, cfg)

	first := do(t, s, http.MethodGet, "/api/v1/sightings?date=2025", "")
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))

	second := do(t, s, http.MethodGet, "/api/v1/sightings?date=2025", "")
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.JSONEq(t, first.Body.String(), second.Body.String())
}

func TestListSightingsViewCacheExpiresEachMinute(t *testing.T) {
	var mu sync.Mutex
	now := fixedNow
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	a := app.New(&stubRemote{records: testRecords()}, &stubCache{}, app.WithClock(clock))
	_, err := a.Refresh(context.Background())
	require.NoError(t, err)
	s := NewWithConfig(a, &Config{BodyLimit: DefaultBodyLimit, CacheTTL: time.Hour})

	first := do(t, s, http.MethodGet, "/api/v1/sightings", "")
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
	assert.False(t, decode[SightingsResponse](t, first).Loading)

	mu.Lock()
	now = now.Add(30 * time.Second)
	mu.Unlock()
	assert.Equal(t, "HIT", do(t, s, http.MethodGet, "/api/v1/sightings", "").Header().Get("X-Cache"))

	mu.Lock()
	now = now.Add(time.Minute)
	mu.Unlock()
	later := do(t, s, http.MethodGet, "/api/v1/sightings", "")
	require.Equal(t, http.StatusOK, later.Code)
	assert.Equal(t, "MISS", later.Header().Get("X-Cache"), "a new minute rebuilds the view")
}

func TestGetSighting(t *testing.T) {
	s := newTestServer(t, &stubRemote{records: testRecords()}, nil)

	rec := do(t, s, http.MethodGet, "/api/v1/sightings/2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[map[string]any](t, rec)
	assert.Equal(t, "Leeds", resp["location"])
	assert.Equal(t, "https://www.google.com/maps/search/Leeds%2C%20UK", resp["directions"])

	rec = do(t, s, http.MethodGet, "/api/v1/sightings/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubmitSighting(t *testing.T) {
	form := `{"date":"2025-01-14","time":"10:30","location":"Leeds","species":"Marsh tick","severity":"Low"}`

	t.Run("remote", func(t *testing.T) {
		s := newTestServer(t, &stubRemote{records: testRecords()}, nil)
		rec := do(t, s, http.MethodPost, "/api/v1/sightings", form)
		require.Equal(t, http.StatusCreated, rec.Code)
		res := decode[app.SubmitResult](t, rec)
		assert.Equal(t, app.SubmittedRemote, res.Status)
	})

	t.Run("saved locally", func(t *testing.T) {
		remote := &stubRemote{
			records: testRecords(),
			postErr: errors.Newf("unexpected status 503").Category(errors.CategorySubmission).Build(),
		}
		s := newTestServer(t, remote, nil)
		rec := do(t, s, http.MethodPost, "/api/v1/sightings", form)
		require.Equal(t, http.StatusAccepted, rec.Code)
		res := decode[app.SubmitResult](t, rec)
		assert.Equal(t, app.SavedLocally, res.Status)
		assert.Equal(t, "Sighting saved locally! (API unavailable)", res.Message)

		list := decode[SightingsResponse](t, do(t, s, http.MethodGet, "/api/v1/sightings", ""))
		assert.Equal(t, 4, list.Total)
	})

	t.Run("validation", func(t *testing.T) {
		s := newTestServer(t, &stubRemote{records: testRecords()}, nil)
		rec := do(t, s, http.MethodPost, "/api/v1/sightings", `{"date":"14/01/2025","location":"Leeds"}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decode[ErrorResponse](t, rec)
		assert.True(t, resp.Fields.Has("date"))
		assert.True(t, resp.Fields.Has("species"))
	})
}

func TestTimelineRequiresLocation(t *testing.T) {
	s := newTestServer(t, &stubRemote{records: testRecords()}, nil)

	rec := do(t, s, http.MethodGet, "/api/v1/timeline", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodGet, "/api/v1/timeline?location=Leeds", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	entries, ok := body["entries"].([]any)
	require.True(t, ok)
	assert.Len(t, entries, 2)
}

func TestSeasonal(t *testing.T) {
	s := newTestServer(t, &stubRemote{records: testRecords()}, nil)

	rec := do(t, s, http.MethodGet, "/api/v1/seasonal?city=Leeds", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	counts, ok := body["counts"].([]any)
	require.True(t, ok)
	assert.Len(t, counts, 12)

	rec = do(t, s, http.MethodGet, "/api/v1/seasonal?year=20x4", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestShareMessage(t *testing.T) {
	s := newTestServer(t, &stubRemote{records: testRecords()}, nil)

	rec := do(t, s, http.MethodGet, "/api/v1/share/3", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Equal(t, "Check out this tick sighting in York!", body["text"])

	rec = do(t, s, http.MethodGet, "/api/v1/share/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRefreshReportsFallback(t *testing.T) {
	remote := &stubRemote{fail: true}
	s := newTestServer(t, remote, nil)

	rec := do(t, s, http.MethodPost, "/api/v1/refresh", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Contains(t, body, "warning")
}

func TestMetricsEndpoint(t *testing.T) {
	m, err := observability.NewMetrics()
	require.NoError(t, err)
	cfg := &Config{BodyLimit: DefaultBodyLimit, Metrics: true}
	s := newTestServer(t, &stubRemote{records: testRecords()}, cfg, WithMetrics(m))

	rec := do(t, s, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		category errors.ErrorCategory
		want     int
	}{
		{errors.CategoryValidation, http.StatusBadRequest},
		{errors.CategoryNotFound, http.StatusNotFound},
		{errors.CategoryFetch, http.StatusBadGateway},
		{errors.CategorySubmission, http.StatusBadGateway},
		{errors.CategoryDatabase, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			err := errors.Newf("boom").Category(tt.category).Build()
			assert.Equal(t, tt.want, statusFor(err))
		})
	}
	assert.Equal(t, http.StatusInternalServerError, statusFor(assert.AnError))
}

func TestRunShutsDownOnCancel(t *testing.T) {
	cfg := &Config{Listen: "127.0.0.1:0", BodyLimit: DefaultBodyLimit, ShutdownTimeout: time.Second}
	s := newTestServer(t, &stubRemote{records: testRecords()}, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
