// Package store holds the in-memory working set of sightings shown by the
// marker and list views.
package store

import (
	"slices"
	"sync"

	"github.com/tphakala/tickwatch/internal/logger"
	"github.com/tphakala/tickwatch/internal/sighting"
)

// Source identifies where the current working set came from.
type Source string

const (
	SourceEmpty    Source = ""
	SourceRemote   Source = "remote"
	SourceFallback Source = "fallback"
)

// ChangeKind describes the mutation that triggered a change notification.
type ChangeKind string

const (
	ChangeLoad  ChangeKind = "load"
	ChangeMerge ChangeKind = "merge"
)

// Change is passed to listeners after every successful load or merge.
type Change struct {
	Kind     ChangeKind
	Source   Source
	Version  uint64
	Total    int
	Appended int // records added by a merge
}

// Listener is notified after the store changes. Listeners run synchronously
// on the mutating goroutine, after the store lock has been released.
type Listener func(Change)

// Store is an ordered, id-indexed collection of sightings.
type Store struct {
	mu        sync.RWMutex
	records   []sighting.Sighting
	ids       map[string]struct{}
	source    Source
	version   uint64
	listeners []Listener
	log       logger.Logger
}

// New creates an empty store.
func New() *Store {
	return &Store{
		ids: make(map[string]struct{}),
		log: logger.Global().Module("store"),
	}
}

// OnChange registers a listener for load and merge notifications.
func (s *Store) OnChange(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// Load replaces the working set with records from the remote service.
func (s *Store) Load(records []sighting.Sighting) {
	s.replace(records, SourceRemote)
}

// LoadFallback replaces the working set with the built-in dataset. It is
// used only when the remote endpoint and its retry have both failed.
func (s *Store) LoadFallback(records []sighting.Sighting) {
	s.replace(records, SourceFallback)
}

func (s *Store) replace(records []sighting.Sighting, source Source) {
	s.mu.Lock()
	s.records = make([]sighting.Sighting, 0, len(records))
	s.ids = make(map[string]struct{}, len(records))
	for i := range records {
		s.records = append(s.records, records[i].Clone())
		s.ids[records[i].ID] = struct{}{}
	}
	s.source = source
	s.version++
	change := Change{Kind: ChangeLoad, Source: source, Version: s.version, Total: len(s.records)}
	listeners := slices.Clone(s.listeners)
	s.mu.Unlock()

	s.log.Debug("working set replaced",
		logger.String("source", string(source)),
		logger.Int("count", change.Total))
	notify(listeners, change)
}

// MergeLocal appends every cached record whose id is not already present,
// in cache order, and returns how many were appended. Existing records are
// never replaced or reordered, so merging the same set twice is a no-op.
func (s *Store) MergeLocal(cached []sighting.Sighting) int {
	s.mu.Lock()
	appended := 0
	for i := range cached {
		if _, exists := s.ids[cached[i].ID]; exists {
			continue
		}
		s.records = append(s.records, cached[i].Clone())
		s.ids[cached[i].ID] = struct{}{}
		appended++
	}
	s.version++
	change := Change{Kind: ChangeMerge, Source: s.source, Version: s.version, Total: len(s.records), Appended: appended}
	listeners := slices.Clone(s.listeners)
	s.mu.Unlock()

	if appended > 0 {
		s.log.Info("merged local sightings",
			logger.Int("appended", appended),
			logger.Int("skipped", len(cached)-appended),
			logger.Int("total", change.Total))
	}
	notify(listeners, change)
	return appended
}

func notify(listeners []Listener, change Change) {
	for _, l := range listeners {
		l(change)
	}
}

// All returns a copy of the working set in order.
func (s *Store) All() []sighting.Sighting {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]sighting.Sighting, len(s.records))
	for i := range s.records {
		out[i] = s.records[i].Clone()
	}
	return out
}

// Get returns the first record with the given id.
func (s *Store) Get(id string) (sighting.Sighting, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.ids[id]; !ok {
		return sighting.Sighting{}, false
	}
	for i := range s.records {
		if s.records[i].ID == id {
			return s.records[i].Clone(), true
		}
	}
	return sighting.Sighting{}, false
}

// Len returns the number of records in the working set.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Source reports where the last load came from.
func (s *Store) Source() Source {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.source
}

// Version increases on every load and merge.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Species returns the distinct species in first-seen order.
func (s *Store) Species() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]struct{})
	var out []string
	for i := range s.records {
		sp := s.records[i].Species
		if _, ok := seen[sp]; ok {
			continue
		}
		seen[sp] = struct{}{}
		out = append(out, sp)
	}
	return out
}
