package render

import (
	"slices"
	"strings"
	"time"

	"github.com/tphakala/tickwatch/internal/sighting"
)

// MonthLabels are the x-axis labels of the seasonal chart.
var MonthLabels = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// SeasonalChart is a 12-bucket monthly histogram.
type SeasonalChart struct {
	Title   string     `json:"title"`
	Label   string     `json:"label"`
	Labels  [12]string `json:"labels"`
	Counts  [12]int    `json:"counts"`
	Total   int        `json:"total"`
	City    string     `json:"city,omitempty"`
	Year    string     `json:"year,omitempty"`
	Skipped int        `json:"skipped,omitempty"` // matching records with unparseable dates
}

// Seasonal counts sightings per calendar month. city matches the location
// exactly and year matches the date prefix; either may be empty.
func Seasonal(records []sighting.Sighting, city, year string, loc *time.Location) SeasonalChart {
	chart := SeasonalChart{
		Title:  seasonalTitle(city, year),
		Label:  "Tick Sightings",
		Labels: MonthLabels,
		City:   city,
		Year:   year,
	}
	for i := range records {
		s := &records[i]
		if city != "" && s.Location != city {
			continue
		}
		if year != "" && !strings.HasPrefix(s.Date, year) {
			continue
		}
		t, ok := s.Time(loc)
		if !ok {
			chart.Skipped++
			continue
		}
		chart.Counts[t.Month()-1]++
		chart.Total++
	}
	return chart
}

func seasonalTitle(city, year string) string {
	title := "Seasonal Activity"
	if city != "" {
		title += " - " + city
	}
	if year != "" {
		title += " (" + year + ")"
	}
	return title
}

// Years lists the distinct four-digit years found in record dates, newest first.
func Years(records []sighting.Sighting) []string {
	seen := make(map[string]struct{})
	var years []string
	for i := range records {
		d := records[i].Date
		if len(d) < 4 || !isDigits(d[:4]) {
			continue
		}
		y := d[:4]
		if _, ok := seen[y]; ok {
			continue
		}
		seen[y] = struct{}{}
		years = append(years, y)
	}
	slices.Sort(years)
	slices.Reverse(years)
	return years
}

// Cities lists the distinct non-empty locations in alphabetical order.
func Cities(records []sighting.Sighting) []string {
	seen := make(map[string]struct{})
	var cities []string
	for i := range records {
		c := records[i].Location
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		cities = append(cities, c)
	}
	slices.Sort(cities)
	return cities
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
