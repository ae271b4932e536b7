// Package render turns filtered sightings into the data the marker layer,
// the list, the details panel and the charts display.
package render

import (
	"time"

	"github.com/tphakala/tickwatch/internal/sighting"
)

// Map defaults for an initial view of the UK.
const (
	DefaultCenterLat = 54.5
	DefaultCenterLng = -3.0
	DefaultZoom      = 6
	SelectedZoom     = 9
)

// Marker radii and stroke weights, normal and selected.
const (
	markerRadius         = 8
	markerWeight         = 2
	selectedMarkerRadius = 12
	selectedMarkerWeight = 3
)

const displayDateLayout = "02 Jan 2006"

var severityColors = map[sighting.Severity]string{
	sighting.SeverityLow:    "#43A047",
	sighting.SeverityMedium: "#FFB300",
	sighting.SeverityHigh:   "#E53935",
	sighting.SeverityOlder:  "#7E57C2",
	sighting.SeverityRecent: "#656a71",
}

// SeverityColor returns the marker fill color for sev. Med and Medium share
// a color; unknown values get the Recent color.
func SeverityColor(sev sighting.Severity) string {
	if c, ok := severityColors[sighting.NormalizeSeverity(sev)]; ok {
		return c
	}
	return severityColors[sighting.SeverityRecent]
}

// LegendEntry is one row of the severity legend.
type LegendEntry struct {
	Severity sighting.Severity `json:"severity"`
	Color    string            `json:"color"`
}

// Legend lists every severity with its color, most recent first.
func Legend() []LegendEntry {
	out := make([]LegendEntry, 0, len(sighting.Severities))
	for _, s := range sighting.Severities {
		out = append(out, LegendEntry{Severity: s, Color: SeverityColor(s)})
	}
	return out
}

// View is the content of both presentation sinks for one filter state.
// Markers and List are always built from the same filtered slice.
type View struct {
	Center   [2]float64  `json:"center"`
	Zoom     int         `json:"zoom"`
	Markers  []Marker    `json:"markers"`
	List     []ListEntry `json:"list"`
	Selected string      `json:"selected,omitempty"`
	Skipped  int         `json:"skipped"` // filtered records without coordinates
}

// NewView builds both sinks from one filtered slice.
func NewView(filtered []sighting.Sighting, now time.Time) View {
	markers := Markers(filtered, now)
	return View{
		Center:  [2]float64{DefaultCenterLat, DefaultCenterLng},
		Zoom:    DefaultZoom,
		Markers: markers,
		List:    List(filtered, now),
		Skipped: len(filtered) - len(markers),
	}
}

// Select highlights id in both sinks and centers the map on its marker.
// Selecting an id absent from the view clears the highlight.
func (v *View) Select(id string) {
	v.Selected = ""
	for i := range v.Markers {
		m := &v.Markers[i]
		m.Selected = m.ID == id
		if m.Selected {
			m.Radius, m.Weight = selectedMarkerRadius, selectedMarkerWeight
			v.Center = [2]float64{m.Lat, m.Lng}
			v.Zoom = SelectedZoom
		} else {
			m.Radius, m.Weight = markerRadius, markerWeight
		}
	}
	for i := range v.List {
		v.List[i].Selected = v.List[i].ID == id
		if v.List[i].Selected {
			v.Selected = id
		}
	}
}
