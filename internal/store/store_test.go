package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/tphakala/tickwatch/internal/sighting"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func records(ids ...string) []sighting.Sighting {
	out := make([]sighting.Sighting, len(ids))
	for i, id := range ids {
		out[i] = sighting.Sighting{ID: id, Species: "Marsh tick", Date: "2024-01-01T00:00:00"}
	}
	return out
}

func storeIDs(s *Store) []string {
	all := s.All()
	out := make([]string, len(all))
	for i := range all {
		out[i] = all[i].ID
	}
	return out
}

func TestLoadReplacesWholesale(t *testing.T) {
	s := New()
	s.Load(records("1", "2", "3"))
	s.Load(records("4"))

	assert.Equal(t, []string{"4"}, storeIDs(s))
	assert.Equal(t, SourceRemote, s.Source())
}

func TestLoadFallback(t *testing.T) {
	s := New()
	s.Load(records("1"))
	s.LoadFallback(sighting.Fallback())

	assert.Equal(t, 55, s.Len())
	assert.Equal(t, SourceFallback, s.Source())
	_, ok := s.Get("1")
	assert.False(t, ok, "fallback replaces the previous load")
	_, ok = s.Get("01")
	assert.True(t, ok)
}

func TestMergeLocalAppendsMissingInOrder(t *testing.T) {
	s := New()
	s.Load(records("1", "2"))

	appended := s.MergeLocal(records("local-b", "2", "local-a"))

	assert.Equal(t, 2, appended)
	assert.Equal(t, []string{"1", "2", "local-b", "local-a"}, storeIDs(s))
}

func TestMergeLocalKeepsLoadedCopy(t *testing.T) {
	s := New()
	loaded := records("7")
	loaded[0].Location = "Remote"
	s.Load(loaded)

	cached := records("7")
	cached[0].Location = "Cached"
	s.MergeLocal(cached)

	got, ok := s.Get("7")
	require.True(t, ok)
	assert.Equal(t, "Remote", got.Location)
	assert.Equal(t, 1, s.Len())
}

func TestMergeLocalIdempotent(t *testing.T) {
	s := New()
	s.Load(records("1", "2"))
	cached := records("local-1", "local-2", "1")

	s.MergeLocal(cached)
	once := storeIDs(s)
	appended := s.MergeLocal(cached)

	assert.Zero(t, appended)
	assert.Equal(t, once, storeIDs(s))
}

func TestMergeLocalDeduplicatesWithinCache(t *testing.T) {
	s := New()
	assert.Equal(t, 1, s.MergeLocal(records("local-1", "local-1")))
	assert.Equal(t, []string{"local-1"}, storeIDs(s))
}

func TestListenersNotified(t *testing.T) {
	s := New()
	var changes []Change
	s.OnChange(func(c Change) { changes = append(changes, c) })

	s.Load(records("1"))
	s.MergeLocal(records("local-1"))
	s.LoadFallback(records("f"))

	require.Len(t, changes, 3)
	assert.Equal(t, ChangeLoad, changes[0].Kind)
	assert.Equal(t, SourceRemote, changes[0].Source)
	assert.Equal(t, ChangeMerge, changes[1].Kind)
	assert.Equal(t, 1, changes[1].Appended)
	assert.Equal(t, 2, changes[1].Total)
	assert.Equal(t, SourceFallback, changes[2].Source)
	assert.Less(t, changes[0].Version, changes[2].Version)
}

func TestListenerMayReadStore(t *testing.T) {
	s := New()
	var seen int
	s.OnChange(func(Change) { seen = s.Len() })

	s.Load(records("1", "2"))
	assert.Equal(t, 2, seen)
}

func TestAllReturnsCopies(t *testing.T) {
	s := New()
	in := records("1")
	in[0].Lat = sighting.Float(1)
	in[0].Lng = sighting.Float(2)
	s.Load(in)

	*in[0].Lat = 50
	out := s.All()
	*out[0].Lat = 60

	got, _ := s.Get("1")
	assert.InDelta(t, 1.0, *got.Lat, 1e-9)
}

func TestSpeciesFirstSeenOrder(t *testing.T) {
	s := New()
	s.Load([]sighting.Sighting{
		{ID: "1", Species: "Passerine tick"},
		{ID: "2", Species: "Marsh tick"},
		{ID: "3", Species: "Passerine tick"},
		{ID: "4", Species: "Tree-hole tick"},
	})
	assert.Equal(t, []string{"Passerine tick", "Marsh tick", "Tree-hole tick"}, s.Species())
}
