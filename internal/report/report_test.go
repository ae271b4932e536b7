package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/tickwatch/internal/errors"
	"github.com/tphakala/tickwatch/internal/sighting"
)

func validForm() Form {
	return Form{
		Date:     "2025-05-04",
		Time:     "14:30",
		Location: "Bristol",
		Species:  "Marsh tick",
		Severity: "medium",
		Notes:    "  found on dog  ",
	}
}

func TestValidateAcceptsCompleteForm(t *testing.T) {
	f := validForm()
	assert.NoError(t, DefaultPolicy().Validate(&f))
}

func TestValidateEmptySpeciesOnly(t *testing.T) {
	f := validForm()
	f.Species = ""

	err := DefaultPolicy().Validate(&f)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryValidation))

	fields := Fields(err)
	require.Len(t, fields, 1)
	assert.Equal(t, FieldSpecies, fields[0].Field)
	assert.Equal(t, "Please select a species", fields[0].Message)
}

func TestValidateReportsEveryMissingField(t *testing.T) {
	f := Form{ImageSize: 6 * 1024 * 1024}

	fields := Fields(DefaultPolicy().Validate(&f))
	require.Len(t, fields, 6)
	assert.Equal(t, []string{
		"Date is required",
		"Time is required",
		"Location is required",
		"Please select a species",
		"Please select severity",
		"Image size must be less than 5MB",
	}, []string{fields[0].Message, fields[1].Message, fields[2].Message, fields[3].Message, fields[4].Message, fields[5].Message})
}

func TestValidateFormats(t *testing.T) {
	f := validForm()
	f.Date = "04/05/2025"
	f.Time = "2pm"
	f.Severity = "extreme"

	fields := Fields(DefaultPolicy().Validate(&f))
	assert.True(t, fields.Has(FieldDate))
	assert.True(t, fields.Has(FieldTime))
	assert.True(t, fields.Has(FieldSeverity))
	assert.False(t, fields.Has(FieldLocation))
}

func TestValidateImageAtLimit(t *testing.T) {
	f := validForm()
	f.ImageSize = 5 * 1024 * 1024
	assert.NoError(t, DefaultPolicy().Validate(&f))
}

func TestBuild(t *testing.T) {
	f := validForm()
	s, err := DefaultPolicy().Build(&f)
	require.NoError(t, err)

	assert.Empty(t, s.ID)
	assert.Equal(t, "2025-05-04T14:30", s.Date)
	assert.Equal(t, "Ixodes apronophorus", s.LatinName)
	assert.Equal(t, sighting.SeverityMedium, s.Severity)
	assert.Equal(t, "found on dog", s.Notes)
	lat, lng, ok := s.Coordinates()
	require.True(t, ok)
	assert.InDelta(t, 51.4545, lat, 1e-9)
	assert.InDelta(t, -2.5879, lng, 1e-9)
}

func TestBuildDefaultsToLondon(t *testing.T) {
	f := validForm()
	f.Location = "Little Snoring"
	f.Species = "Castor bean tick"

	s, err := DefaultPolicy().Build(&f)
	require.NoError(t, err)
	assert.Equal(t, sighting.UnknownLatinName, s.LatinName)
	assert.InDelta(t, 51.5074, *s.Lat, 1e-9)
	assert.InDelta(t, -0.1278, *s.Lng, 1e-9)
}

func TestBuildRejectsInvalidForm(t *testing.T) {
	f := validForm()
	f.Location = " "
	_, err := DefaultPolicy().Build(&f)
	require.Error(t, err)
	assert.True(t, Fields(err).Has(FieldLocation))
}

func TestLookupCoordinatesCaseInsensitive(t *testing.T) {
	lat, _, ok := LookupCoordinates("  london ")
	require.True(t, ok)
	assert.InDelta(t, 51.5074, lat, 1e-9)

	_, _, ok = LookupCoordinates("Atlantis")
	assert.False(t, ok)
}
