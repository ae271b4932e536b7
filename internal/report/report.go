// Package report validates the sighting report form and turns it into a
// record ready for submission.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/tphakala/tickwatch/internal/conf"
	"github.com/tphakala/tickwatch/internal/errors"
	"github.com/tphakala/tickwatch/internal/sighting"
)

// Form fields, in display order.
const (
	FieldDate     = "date"
	FieldTime     = "time"
	FieldLocation = "location"
	FieldSpecies  = "species"
	FieldSeverity = "severity"
	FieldImage    = "image"
)

// Form is the user's sighting report.
type Form struct {
	Date      string `json:"date" form:"date"` // YYYY-MM-DD
	Time      string `json:"time" form:"time"` // HH:MM
	Location  string `json:"location" form:"location"`
	Species   string `json:"species" form:"species"`
	Severity  string `json:"severity" form:"severity"`
	Notes     string `json:"notes,omitempty" form:"notes"`
	ImageSize int64  `json:"imageSize,omitempty" form:"imageSize"` // bytes, 0 when no image is attached
}

// FieldError is a message shown next to one form field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldErrors collects every problem found in a form.
type FieldErrors []FieldError

func (fe FieldErrors) Error() string {
	msgs := make([]string, len(fe))
	for i, e := range fe {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, "; ")
}

// Has reports whether field failed validation.
func (fe FieldErrors) Has(field string) bool {
	for _, e := range fe {
		if e.Field == field {
			return true
		}
	}
	return false
}

// Policy holds the submission limits and defaults from configuration.
type Policy struct {
	MaxImageBytes    int64
	DefaultLatitude  float64
	DefaultLongitude float64
}

// NewPolicy builds a Policy from settings.
func NewPolicy(s *conf.SubmissionSettings) Policy {
	return Policy{
		MaxImageBytes:    s.MaxImageBytes,
		DefaultLatitude:  s.DefaultLatitude,
		DefaultLongitude: s.DefaultLongitude,
	}
}

// DefaultPolicy uses the built-in defaults: 5 MB images, London coordinates.
func DefaultPolicy() Policy {
	return Policy{
		MaxImageBytes:    conf.DefaultMaxImageBytes,
		DefaultLatitude:  conf.DefaultLatitude,
		DefaultLongitude: conf.DefaultLongitude,
	}
}

// Validate checks every field and returns a validation error wrapping
// FieldErrors when any fails.
func (p Policy) Validate(f *Form) error {
	var fe FieldErrors
	add := func(field, msg string) { fe = append(fe, FieldError{Field: field, Message: msg}) }

	date := strings.TrimSpace(f.Date)
	switch {
	case date == "":
		add(FieldDate, "Date is required")
	case !parses(time.DateOnly, date):
		add(FieldDate, "Date must be in YYYY-MM-DD format")
	}

	clock := strings.TrimSpace(f.Time)
	switch {
	case clock == "":
		add(FieldTime, "Time is required")
	case !parses("15:04", clock) && !parses(time.TimeOnly, clock):
		add(FieldTime, "Time must be in HH:MM format")
	}

	if strings.TrimSpace(f.Location) == "" {
		add(FieldLocation, "Location is required")
	}
	if strings.TrimSpace(f.Species) == "" {
		add(FieldSpecies, "Please select a species")
	}
	if _, err := sighting.ParseSeverity(f.Severity); err != nil {
		add(FieldSeverity, "Please select severity")
	}
	if p.MaxImageBytes > 0 && f.ImageSize > p.MaxImageBytes {
		add(FieldImage, fmt.Sprintf("Image size must be less than %dMB", p.MaxImageBytes/(1024*1024)))
	}

	if len(fe) == 0 {
		return nil
	}
	return errors.New(fe).
		Component("report").
		Category(errors.CategoryValidation).
		Context("fields", len(fe)).
		Build()
}

// Build validates f and returns the record to submit. The date joins the
// date and time fields, the Latin name comes from the species table and the
// coordinates from the location table, defaulting to the policy position.
func (p Policy) Build(f *Form) (sighting.Sighting, error) {
	if err := p.Validate(f); err != nil {
		return sighting.Sighting{}, err
	}

	sev, _ := sighting.ParseSeverity(f.Severity)
	species := strings.TrimSpace(f.Species)
	location := strings.TrimSpace(f.Location)

	lat, lng, ok := LookupCoordinates(location)
	if !ok {
		lat, lng = p.DefaultLatitude, p.DefaultLongitude
	}

	return sighting.Sighting{
		Date:      strings.TrimSpace(f.Date) + "T" + strings.TrimSpace(f.Time),
		Location:  location,
		Species:   species,
		LatinName: sighting.LatinName(species),
		Severity:  sev,
		Notes:     strings.TrimSpace(f.Notes),
		Lat:       sighting.Float(lat),
		Lng:       sighting.Float(lng),
	}, nil
}

// Fields extracts the per-field messages from a validation error.
func Fields(err error) FieldErrors {
	var fe FieldErrors
	if errors.As(err, &fe) {
		return fe
	}
	return nil
}

func parses(layout, value string) bool {
	_, err := time.Parse(layout, value)
	return err == nil
}
