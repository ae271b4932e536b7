package render

import (
	"time"

	"github.com/tphakala/tickwatch/internal/logger"
	"github.com/tphakala/tickwatch/internal/sighting"
)

// Marker is a circle marker on the map.
type Marker struct {
	ID       string            `json:"id"`
	Lat      float64           `json:"lat"`
	Lng      float64           `json:"lng"`
	Color    string            `json:"color"`
	Radius   int               `json:"radius"`
	Weight   int               `json:"weight"`
	Severity sighting.Severity `json:"severity"`
	Location string            `json:"location"`
	Species  string            `json:"species"`
	Date     string            `json:"date"`
	Selected bool              `json:"selected,omitempty"`
}

// ListEntry is one card in the results list.
type ListEntry struct {
	ID       string            `json:"id"`
	Species  string            `json:"species"`
	Location string            `json:"location"`
	Date     string            `json:"date"`
	Severity sighting.Severity `json:"severity"`
	Local    bool              `json:"local,omitempty"`
	Selected bool              `json:"selected,omitempty"`
}

// Markers places every record that has coordinates. Records without them
// are skipped here and still appear in List.
func Markers(records []sighting.Sighting, now time.Time) []Marker {
	out := make([]Marker, 0, len(records))
	skipped := 0
	for i := range records {
		s := &records[i]
		lat, lng, ok := s.Coordinates()
		if !ok {
			skipped++
			continue
		}
		sev := s.EffectiveSeverity(now)
		out = append(out, Marker{
			ID:       s.ID,
			Lat:      lat,
			Lng:      lng,
			Color:    SeverityColor(sev),
			Radius:   markerRadius,
			Weight:   markerWeight,
			Severity: sev,
			Location: s.Location,
			Species:  s.Species,
			Date:     formatDate(s, now.Location()),
		})
	}
	if skipped > 0 {
		logger.Global().Module("render").Debug("skipped sightings without coordinates",
			logger.Int("skipped", skipped),
			logger.Int("placed", len(out)))
	}
	return out
}

// List renders every record in order.
func List(records []sighting.Sighting, now time.Time) []ListEntry {
	out := make([]ListEntry, 0, len(records))
	for i := range records {
		s := &records[i]
		out = append(out, ListEntry{
			ID:       s.ID,
			Species:  s.Species,
			Location: s.Location,
			Date:     formatDate(s, now.Location()),
			Severity: s.EffectiveSeverity(now),
			Local:    s.IsLocal(),
		})
	}
	return out
}

// formatDate renders the calendar date, or the raw value when it does not parse.
func formatDate(s *sighting.Sighting, loc *time.Location) string {
	t, ok := s.Time(loc)
	if !ok {
		return s.Date
	}
	return t.Format(displayDateLayout)
}
