package sighting

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnmarshalLegacyCoordinates(t *testing.T) {
	var s Sighting
	err := json.Unmarshal([]byte(`{"id":7,"date":"2024-05-01T10:00:00","location":"York","species":"Marsh tick","latitude":53.96,"longitude":"-1.08"}`), &s)
	require.NoError(t, err)

	assert.Equal(t, "7", s.ID)
	lat, lng, ok := s.Coordinates()
	require.True(t, ok)
	assert.InDelta(t, 53.96, lat, 1e-9)
	assert.InDelta(t, -1.08, lng, 1e-9)
}

func TestUnmarshalPrefersLatLng(t *testing.T) {
	var s Sighting
	err := json.Unmarshal([]byte(`{"id":"a","lat":1.5,"lng":2.5,"latitude":9,"longitude":9}`), &s)
	require.NoError(t, err)

	lat, lng, ok := s.Coordinates()
	require.True(t, ok)
	assert.InDelta(t, 1.5, lat, 1e-9)
	assert.InDelta(t, 2.5, lng, 1e-9)
}

func TestZeroIsAValidCoordinate(t *testing.T) {
	var s Sighting
	require.NoError(t, json.Unmarshal([]byte(`{"id":"eq","lat":0,"lng":0}`), &s))

	lat, lng, ok := s.Coordinates()
	assert.True(t, ok)
	assert.Zero(t, lat)
	assert.Zero(t, lng)
}

func TestMissingCoordinates(t *testing.T) {
	for _, body := range []string{
		`{"id":"1"}`,
		`{"id":"1","lat":null,"lng":null}`,
		`{"id":"1","lat":51.5}`,
		`{"id":"1","lat":"","lng":""}`,
		`{"id":"1","latitude":"north","longitude":"west"}`,
	} {
		var s Sighting
		require.NoError(t, json.Unmarshal([]byte(body), &s), body)
		assert.False(t, s.HasCoordinates(), body)
		assert.Nil(t, s.Lat, body)
	}
}

func TestUnmarshalNormalizesSeverity(t *testing.T) {
	var s Sighting
	require.NoError(t, json.Unmarshal([]byte(`{"id":"1","severity":"Med"}`), &s))
	assert.Equal(t, SeverityMedium, s.Severity)
}

func TestUnmarshalRejectsObjectID(t *testing.T) {
	var s Sighting
	assert.Error(t, json.Unmarshal([]byte(`{"id":{"x":1}}`), &s))
}

func TestMarshalUsesLatLng(t *testing.T) {
	s := Sighting{ID: "1", Date: "2024-01-01T00:00:00", Location: "Bath", Species: "Marsh tick", Lat: Float(0), Lng: Float(-2.36)}
	data, err := json.Marshal(&s)
	require.NoError(t, err)

	assert.JSONEq(t, `{"id":"1","date":"2024-01-01T00:00:00","location":"Bath","species":"Marsh tick","lat":0,"lng":-2.36}`, string(data))
}

func TestEffectiveSeverity(t *testing.T) {
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	stored := Sighting{Date: "2010-01-01", Severity: "Med"}
	assert.Equal(t, SeverityMedium, stored.EffectiveSeverity(now))

	derived := Sighting{Date: "2025-02-20"}
	assert.Equal(t, SeverityRecent, derived.EffectiveSeverity(now))
}

func TestIsLocal(t *testing.T) {
	assert.True(t, (&Sighting{ID: "local-1700000000000-ab12cd34"}).IsLocal())
	assert.False(t, (&Sighting{ID: "12"}).IsLocal())
}

func TestCloneIsDeep(t *testing.T) {
	orig := Sighting{ID: "1", Lat: Float(1), Lng: Float(2)}
	c := orig.Clone()
	*c.Lat = 99
	assert.InDelta(t, 1.0, *orig.Lat, 1e-9)
}

func TestLatinName(t *testing.T) {
	assert.Equal(t, "Ixodes apronophorus", LatinName("Marsh tick"))
	assert.Equal(t, "Ixodes arboricola", LatinName("Tree-hole tick"))
	assert.Equal(t, UnknownLatinName, LatinName("Deer tick"))
	for _, sp := range KnownSpecies {
		assert.NotEqual(t, UnknownLatinName, LatinName(sp), sp)
	}
}

func TestFallbackDataset(t *testing.T) {
	records := Fallback()
	require.Len(t, records, 55)

	ids := make(map[string]bool, len(records))
	for i := range records {
		assert.False(t, ids[records[i].ID], "duplicate id %s", records[i].ID)
		ids[records[i].ID] = true
		assert.True(t, records[i].HasCoordinates(), records[i].ID)
		assert.Equal(t, LatinName(records[i].Species), records[i].LatinName, records[i].ID)
	}

	byID := func(id string) Sighting {
		for i := range records {
			if records[i].ID == id {
				return records[i]
			}
		}
		t.Fatalf("fallback record %s missing", id)
		return Sighting{}
	}
	assert.Equal(t, "Oxford", byID("43").Location)
	assert.Equal(t, "Cambridge", byID("44").Location)
	assert.Equal(t, "Brighton", byID("45").Location)

	// callers get copies
	*records[0].Lat = 0
	assert.NotZero(t, *Fallback()[0].Lat)
}
