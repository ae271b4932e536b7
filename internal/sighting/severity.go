package sighting

import (
	"fmt"
	"math"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Severity is a coarse urgency bucket derived from how recent a sighting is.
type Severity string

const (
	SeverityRecent Severity = "Recent"
	SeverityHigh   Severity = "High"
	SeverityMedium Severity = "Medium"
	SeverityLow    Severity = "Low"
	SeverityOlder  Severity = "Older"

	// severityMedAlias is the abbreviated spelling used by the color table
	// and by some remote records.
	severityMedAlias Severity = "Med"
)

// Severities lists the buckets from most to least recent.
var Severities = []Severity{SeverityRecent, SeverityHigh, SeverityMedium, SeverityLow, SeverityOlder}

// Day thresholds, inclusive, evaluated in order.
const (
	recentDays = 30
	highDays   = 180
	mediumDays = 365
	lowDays    = 1825
)

const hoursPerDay = 24

// NormalizeSeverity maps the Med alias to Medium; everything else is returned unchanged.
func NormalizeSeverity(s Severity) Severity {
	if s == severityMedAlias {
		return SeverityMedium
	}
	return s
}

// ParseSeverity parses user input case-insensitively, accepting the Med alias.
func ParseSeverity(input string) (Severity, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return "", fmt.Errorf("severity is empty")
	}
	// Casers carry state, so one is built per call.
	s := NormalizeSeverity(Severity(cases.Title(language.English).String(strings.ToLower(trimmed))))
	if !s.Valid() {
		return "", fmt.Errorf("unknown severity %q", input)
	}
	return s, nil
}

// Valid reports whether s is one of the five buckets (after normalization).
func (s Severity) Valid() bool {
	n := NormalizeSeverity(s)
	for _, known := range Severities {
		if n == known {
			return true
		}
	}
	return false
}

// Classify maps a sighting date to a severity bucket relative to now.
//
// Elapsed days are real-valued. Future dates are Recent. A date that cannot
// be parsed is Older: it fails every threshold and falls through to the last
// bucket instead of being rejected.
func Classify(date string, now time.Time) Severity {
	t, ok := ParseDate(date, now.Location())
	if !ok {
		return SeverityOlder
	}
	return classifyElapsed(now.Sub(t).Hours() / hoursPerDay)
}

func classifyElapsed(days float64) Severity {
	switch {
	case math.IsNaN(days) || math.IsInf(days, 0):
		return SeverityOlder
	case days <= recentDays:
		return SeverityRecent
	case days <= highDays:
		return SeverityHigh
	case days <= mediumDays:
		return SeverityMedium
	case days <= lowDays:
		return SeverityLow
	default:
		return SeverityOlder
	}
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

// ParseDate parses the timestamp layouts seen in sighting records. Layouts
// without a zone are read in loc; no timezone normalization happens.
func ParseDate(date string, loc *time.Location) (time.Time, bool) {
	date = strings.TrimSpace(date)
	if date == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, date, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
