// Package app owns the application state: the working set, the active
// filter, the current selection and the loading indicator. It coordinates
// the remote client, the built-in dataset and the local cache.
package app

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tphakala/tickwatch/internal/errors"
	"github.com/tphakala/tickwatch/internal/filter"
	"github.com/tphakala/tickwatch/internal/logger"
	"github.com/tphakala/tickwatch/internal/observability/metrics"
	"github.com/tphakala/tickwatch/internal/report"
	"github.com/tphakala/tickwatch/internal/share"
	"github.com/tphakala/tickwatch/internal/sighting"
	"github.com/tphakala/tickwatch/internal/store"
)

// Remote is the sightings API.
type Remote interface {
	FetchSightings(ctx context.Context) ([]sighting.Sighting, string, error)
	PostSighting(ctx context.Context, s *sighting.Sighting) error
}

// LocalCache keeps submissions that could not be delivered.
type LocalCache interface {
	Save(ctx context.Context, s sighting.Sighting) (sighting.Sighting, error)
	LoadAll(ctx context.Context) ([]sighting.Sighting, error)
}

// Sharer delivers share messages and reports which method was used.
type Sharer interface {
	Publish(ctx context.Context, msg share.Message) (string, error)
}

// App is the controller behind the CLI and the HTTP API.
type App struct {
	// mu serializes data-mutating operations (refresh and submit) so one
	// completes fully before the next begins.
	mu sync.Mutex

	stateMu  sync.RWMutex
	criteria filter.Criteria
	selected string

	loading atomic.Bool

	store   *store.Store
	remote  Remote
	cache   LocalCache
	sharer  Sharer
	policy  report.Policy
	metrics *metrics.SightingsMetrics
	now     func() time.Time
	log     logger.Logger
}

// Option configures an App.
type Option func(*App)

// WithPolicy sets the submission policy.
func WithPolicy(p report.Policy) Option {
	return func(a *App) { a.policy = p }
}

// WithMetrics records pipeline metrics.
func WithMetrics(m *metrics.SightingsMetrics) Option {
	return func(a *App) { a.metrics = m }
}

// WithSharer sets the share delivery chain.
func WithSharer(s Sharer) Option {
	return func(a *App) { a.sharer = s }
}

// WithClock replaces the clock used for severity classification.
func WithClock(now func() time.Time) Option {
	return func(a *App) { a.now = now }
}

// WithStore uses st instead of a new empty store.
func WithStore(st *store.Store) Option {
	return func(a *App) { a.store = st }
}

// New creates a controller with an empty working set.
func New(remote Remote, cache LocalCache, opts ...Option) *App {
	a := &App{
		remote: remote,
		cache:  cache,
		policy: report.DefaultPolicy(),
		now:    time.Now,
		log:    logger.Global().Module("app"),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.store == nil {
		a.store = store.New()
	}
	a.store.OnChange(func(c store.Change) {
		a.metrics.SetWorkingSetSize(c.Total)
	})
	return a
}

// Store exposes the working set.
func (a *App) Store() *store.Store {
	return a.store
}

// Loading reports whether a refresh or submission is in progress.
func (a *App) Loading() bool {
	return a.loading.Load()
}

// Now returns the controller's current time.
func (a *App) Now() time.Time {
	return a.now()
}

// notFound builds the error returned for unknown sighting ids.
func notFound(id string) error {
	return errors.Newf("sighting %q not found", id).
		Component("app").
		Category(errors.CategoryNotFound).
		Context("id", id).
		Build()
}
