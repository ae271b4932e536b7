package sighting

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed fallback.json
var fallbackJSON []byte

// fallbackRecords is decoded once; Fallback hands out copies.
var fallbackRecords = mustDecodeFallback()

func mustDecodeFallback() []Sighting {
	var records []Sighting
	if err := json.Unmarshal(fallbackJSON, &records); err != nil {
		panic(fmt.Sprintf("sighting: embedded fallback dataset is invalid: %v", err))
	}
	return records
}

// Fallback returns the built-in dataset used when every remote endpoint fails.
func Fallback() []Sighting {
	out := make([]Sighting, len(fallbackRecords))
	for i := range fallbackRecords {
		out[i] = fallbackRecords[i].Clone()
	}
	return out
}
