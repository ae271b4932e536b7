package report

import (
	"strings"
	"sync"

	"github.com/tphakala/tickwatch/internal/sighting"
)

type point struct{ lat, lng float64 }

var (
	locationTable     map[string]point
	locationTableOnce sync.Once
)

// LookupCoordinates resolves a place name against the towns present in the
// built-in dataset, case-insensitively. The first sighting listed for a town
// sits at its centre.
func LookupCoordinates(location string) (lat, lng float64, ok bool) {
	locationTableOnce.Do(buildLocationTable)
	p, ok := locationTable[strings.ToLower(strings.TrimSpace(location))]
	return p.lat, p.lng, ok
}

func buildLocationTable() {
	locationTable = make(map[string]point)
	for _, s := range sighting.Fallback() {
		key := strings.ToLower(s.Location)
		if _, seen := locationTable[key]; seen {
			continue
		}
		if lat, lng, ok := s.Coordinates(); ok {
			locationTable[key] = point{lat, lng}
		}
	}
}
