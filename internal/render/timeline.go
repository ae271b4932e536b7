package render

import (
	"cmp"
	"slices"
	"time"

	"github.com/tphakala/tickwatch/internal/sighting"
)

// TimelineLimit caps the number of timeline entries.
const TimelineLimit = 5

// TimelineEntry is one line of a location's recent history.
type TimelineEntry struct {
	ID   string `json:"id"`
	Date string `json:"date"`
	Text string `json:"text"`
}

// Timeline returns up to TimelineLimit sightings at location, newest first.
// It returns nil unless more than one sighting exists there. Records whose
// date does not parse sort after all others.
func Timeline(records []sighting.Sighting, location string, loc *time.Location) []TimelineEntry {
	type dated struct {
		s  *sighting.Sighting
		t  time.Time
		ok bool
	}

	var matches []dated
	for i := range records {
		if records[i].Location != location {
			continue
		}
		t, ok := records[i].Time(loc)
		matches = append(matches, dated{s: &records[i], t: t, ok: ok})
	}
	if len(matches) <= 1 {
		return nil
	}

	slices.SortStableFunc(matches, func(a, b dated) int {
		switch {
		case a.ok && !b.ok:
			return -1
		case !a.ok && b.ok:
			return 1
		case !a.ok && !b.ok:
			return 0
		}
		return cmp.Compare(b.t.UnixNano(), a.t.UnixNano())
	})

	n := min(len(matches), TimelineLimit)
	out := make([]TimelineEntry, 0, n)
	for _, m := range matches[:n] {
		date := m.s.Date
		if m.ok {
			date = m.t.Format(displayDateLayout)
		}
		out = append(out, TimelineEntry{
			ID:   m.s.ID,
			Date: date,
			Text: m.s.Species + " reported",
		})
	}
	return out
}
