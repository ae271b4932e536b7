// Package filter selects sightings matching a conjunction of optional criteria.
package filter

import (
	"strings"
	"time"

	"github.com/tphakala/tickwatch/internal/sighting"
)

// Criteria holds the optional filter values. An empty field imposes no constraint.
type Criteria struct {
	// DatePrefix matches the start of the record date string, so "2024"
	// selects a year and "2024-11" a month.
	DatePrefix string            `json:"date,omitempty" query:"date"`
	Species    string            `json:"species,omitempty" query:"species"`
	Severity   sighting.Severity `json:"severity,omitempty" query:"severity"`
}

// IsZero reports whether no criterion is set.
func (c Criteria) IsZero() bool {
	return c.DatePrefix == "" && c.Species == "" && c.Severity == ""
}

// CacheKey returns a stable key for caching filtered results.
func (c Criteria) CacheKey() string {
	return c.DatePrefix + "\x00" + c.Species + "\x00" + string(sighting.NormalizeSeverity(c.Severity))
}

// Match reports whether s passes every set criterion.
func (c Criteria) Match(s *sighting.Sighting, now time.Time) bool {
	if c.DatePrefix != "" && !strings.HasPrefix(s.Date, c.DatePrefix) {
		return false
	}
	if c.Species != "" && s.Species != c.Species {
		return false
	}
	if c.Severity != "" && s.EffectiveSeverity(now) != sighting.NormalizeSeverity(c.Severity) {
		return false
	}
	return true
}

// Apply returns the records matching c, preserving input order. Severity is
// evaluated against now for records without a stored severity.
func Apply(records []sighting.Sighting, c Criteria, now time.Time) []sighting.Sighting {
	out := make([]sighting.Sighting, 0, len(records))
	for i := range records {
		if c.Match(&records[i], now) {
			out = append(out, records[i])
		}
	}
	return out
}
