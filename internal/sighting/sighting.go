// Package sighting defines the tick sighting record, its severity
// classification and the static reference data shipped with tickwatch.
package sighting

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// LocalIDPrefix marks records created by this client and kept in the local cache.
const LocalIDPrefix = "local-"

// Sighting is one observation of a tick.
//
// Coordinates are optional and 0 is a valid value, so presence is tracked
// with pointers rather than zero checks.
type Sighting struct {
	ID        string   `json:"id"`
	Date      string   `json:"date"`
	Location  string   `json:"location"`
	Species   string   `json:"species"`
	LatinName string   `json:"latinName,omitempty"`
	Severity  Severity `json:"severity,omitempty"`
	Lat       *float64 `json:"lat,omitempty"`
	Lng       *float64 `json:"lng,omitempty"`
	Notes     string   `json:"notes,omitempty"`
	Image     string   `json:"image,omitempty"`
}

// Float returns a pointer to v, for building coordinates.
func Float(v float64) *float64 {
	return &v
}

// Coordinates returns the position when both latitude and longitude are present.
func (s *Sighting) Coordinates() (lat, lng float64, ok bool) {
	if s.Lat == nil || s.Lng == nil {
		return 0, 0, false
	}
	return *s.Lat, *s.Lng, true
}

// HasCoordinates reports whether the record can be placed on a map.
func (s *Sighting) HasCoordinates() bool {
	_, _, ok := s.Coordinates()
	return ok
}

// EffectiveSeverity returns the stored severity, or the one derived from the
// date when none is stored.
func (s *Sighting) EffectiveSeverity(now time.Time) Severity {
	if s.Severity != "" {
		return NormalizeSeverity(s.Severity)
	}
	return Classify(s.Date, now)
}

// Time parses the record date in loc.
func (s *Sighting) Time(loc *time.Location) (time.Time, bool) {
	return ParseDate(s.Date, loc)
}

// IsLocal reports whether the record was created by this client.
func (s *Sighting) IsLocal() bool {
	return strings.HasPrefix(s.ID, LocalIDPrefix)
}

// wireSighting accepts the shapes the remote service has been seen to send.
type wireSighting struct {
	ID        json.RawMessage `json:"id"`
	Date      string          `json:"date"`
	Location  string          `json:"location"`
	Species   string          `json:"species"`
	LatinName string          `json:"latinName"`
	Severity  Severity        `json:"severity"`
	Lat       json.RawMessage `json:"lat"`
	Lng       json.RawMessage `json:"lng"`
	Latitude  json.RawMessage `json:"latitude"`
	Longitude json.RawMessage `json:"longitude"`
	Notes     string          `json:"notes"`
	Image     string          `json:"image"`
}

// UnmarshalJSON decodes a record, accepting string or numeric ids, the
// legacy latitude/longitude pair and the Med severity alias.
func (s *Sighting) UnmarshalJSON(data []byte) error {
	var w wireSighting
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	id, err := decodeID(w.ID)
	if err != nil {
		return err
	}

	*s = Sighting{
		ID:        id,
		Date:      w.Date,
		Location:  w.Location,
		Species:   w.Species,
		LatinName: w.LatinName,
		Severity:  NormalizeSeverity(w.Severity),
		Notes:     w.Notes,
		Image:     w.Image,
	}

	lat, lng := decodeCoordinate(w.Lat), decodeCoordinate(w.Lng)
	if lat == nil || lng == nil {
		lat, lng = decodeCoordinate(w.Latitude), decodeCoordinate(w.Longitude)
	}
	if lat != nil && lng != nil {
		s.Lat, s.Lng = lat, lng
	}
	return nil
}

func decodeID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	if raw[0] == '"' {
		var id string
		if err := json.Unmarshal(raw, &id); err != nil {
			return "", err
		}
		return id, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("sighting id must be a string or number: %w", err)
	}
	return n.String(), nil
}

// decodeCoordinate returns nil for absent, null, empty or non-finite values.
func decodeCoordinate(raw json.RawMessage) *float64 {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	var v float64
	if raw[0] == '"' {
		var str string
		if err := json.Unmarshal(raw, &str); err != nil {
			return nil
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(str), 64)
		if err != nil {
			return nil
		}
		v = f
	} else if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// Clone returns a deep copy.
func (s *Sighting) Clone() Sighting {
	c := *s
	if s.Lat != nil {
		c.Lat = Float(*s.Lat)
	}
	if s.Lng != nil {
		c.Lng = Float(*s.Lng)
	}
	return c
}
