package render

import (
	"time"

	"github.com/tphakala/tickwatch/internal/sighting"
)

// NotAvailable is shown for empty optional fields.
const NotAvailable = "N/A"

// Details is the content of the details panel for a selected sighting.
type Details struct {
	ID        string            `json:"id"`
	Date      string            `json:"date"`
	Time      string            `json:"time"`
	Location  string            `json:"location"`
	Species   string            `json:"species"`
	LatinName string            `json:"latinName"`
	Severity  sighting.Severity `json:"severity"`
	Color     string            `json:"color"`
	Notes     string            `json:"notes,omitempty"`
	Lat       *float64          `json:"lat,omitempty"`
	Lng       *float64          `json:"lng,omitempty"`
	Local     bool              `json:"local,omitempty"`
	Timeline  []TimelineEntry   `json:"timeline,omitempty"`
}

// NewDetails renders s for the details panel. The timeline is left for the
// caller, since it is drawn from the full working set rather than the
// filtered one.
func NewDetails(s *sighting.Sighting, now time.Time) Details {
	sev := s.EffectiveSeverity(now)
	d := Details{
		ID:        s.ID,
		Date:      s.Date,
		Location:  s.Location,
		Species:   s.Species,
		LatinName: s.LatinName,
		Severity:  sev,
		Color:     SeverityColor(sev),
		Notes:     s.Notes,
		Lat:       s.Lat,
		Lng:       s.Lng,
		Local:     s.IsLocal(),
	}
	if d.LatinName == "" {
		d.LatinName = NotAvailable
	}
	if t, ok := s.Time(now.Location()); ok {
		d.Date = t.Format(displayDateLayout)
		d.Time = t.Format("15:04")
	}
	return d
}
