// Package share builds the directions link and share message for a sighting
// and delivers the message through the first publisher that succeeds.
package share

import (
	"net/url"
	"strings"

	"github.com/tphakala/tickwatch/internal/sighting"
)

// Title accompanies every shared message.
const Title = "UK Tick Sighting"

const directionsBase = "https://www.google.com/maps/search/"

// uriComponentUnescaper restores the characters encodeURIComponent leaves
// alone but QueryEscape encodes.
var uriComponentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// DirectionsURL returns a map search link for location in the UK.
func DirectionsURL(location string) string {
	return directionsBase + encodeURIComponent(location+", UK")
}

// Text is the human readable share message.
func Text(location string) string {
	return "Check out this tick sighting in " + location + "!"
}

func encodeURIComponent(s string) string {
	return uriComponentUnescaper.Replace(url.QueryEscape(s))
}

// Message is the payload handed to a publisher.
type Message struct {
	Title      string `json:"title"`
	Text       string `json:"text"`
	URL        string `json:"url"`
	SightingID string `json:"sightingId"`
	Location   string `json:"location"`
	Species    string `json:"species"`
	Date       string `json:"date"`
}

// NewMessage builds the share message for s, linking to its directions.
func NewMessage(s *sighting.Sighting) Message {
	return Message{
		Title:      Title,
		Text:       Text(s.Location),
		URL:        DirectionsURL(s.Location),
		SightingID: s.ID,
		Location:   s.Location,
		Species:    s.Species,
		Date:       s.Date,
	}
}

// Line is the single-line form used by the clipboard and plain writers.
func (m Message) Line() string {
	return m.Text + " " + m.URL
}
