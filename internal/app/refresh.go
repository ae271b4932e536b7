package app

import (
	"context"

	"github.com/tphakala/tickwatch/internal/logger"
	"github.com/tphakala/tickwatch/internal/sighting"
	"github.com/tphakala/tickwatch/internal/store"
)

// Outcome describes how the working set was populated.
type Outcome struct {
	Source   store.Source `json:"source"`
	Endpoint string       `json:"endpoint,omitempty"` // remote path that served the data
	Loaded   int          `json:"loaded"`             // records from the remote service or the built-in dataset
	Merged   int          `json:"merged"`             // local records appended
	Total    int          `json:"total"`
	FetchErr error        `json:"-"` // remote failure that triggered the fallback
}

// Refresh loads the working set from the remote service. When both remote
// endpoints fail the built-in dataset is loaded instead. Locally cached
// submissions are merged on every path. The loading indicator is cleared
// however Refresh returns.
//
// The returned error only reports a local cache read failure; the working
// set is still populated in that case.
func (a *App) Refresh(ctx context.Context) (Outcome, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.refreshLocked(ctx)
}

func (a *App) refreshLocked(ctx context.Context) (Outcome, error) {
	a.loading.Store(true)
	defer a.loading.Store(false)

	var out Outcome
	records, endpoint, err := a.remote.FetchSightings(ctx)
	if err != nil {
		fallback := sighting.Fallback()
		a.log.Warn("remote sightings unavailable, using built-in dataset",
			logger.Int("records", len(fallback)),
			logger.Error(err))
		a.store.LoadFallback(fallback)
		a.metrics.RecordFallback()
		out.Source = store.SourceFallback
		out.Loaded = len(fallback)
		out.FetchErr = err
	} else {
		a.store.Load(records)
		out.Source = store.SourceRemote
		out.Endpoint = endpoint
		out.Loaded = len(records)
		a.log.Info("sightings loaded",
			logger.String("endpoint", endpoint),
			logger.Int("records", len(records)))
	}

	merged, mergeErr := a.mergeLocal(ctx)
	out.Merged = merged
	out.Total = a.store.Len()
	return out, mergeErr
}

// MergeLocal appends cached submissions missing from the working set.
func (a *App) MergeLocal(ctx context.Context) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mergeLocal(ctx)
}

func (a *App) mergeLocal(ctx context.Context) (int, error) {
	cached, err := a.cache.LoadAll(ctx)
	if err != nil {
		a.log.Error("failed to read local cache", logger.Error(err))
		return 0, err
	}
	appended := a.store.MergeLocal(cached)
	a.metrics.RecordMerge(appended)
	return appended, nil
}
