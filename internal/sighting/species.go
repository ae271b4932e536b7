package sighting

// UnknownLatinName is returned for species missing from the lookup table.
const UnknownLatinName = "Unknown"

// speciesLatinNames maps UK tick common names to their Latin names.
var speciesLatinNames = map[string]string{
	"Marsh tick":           "Ixodes apronophorus",
	"Southern rodent tick": "Ixodes acuminatus",
	"Passerine tick":       "Dermacentor frontalis",
	"Fox/badger tick":      "Ixodes canisuga",
	"Tree-hole tick":       "Ixodes arboricola",
}

// KnownSpecies lists the species offered by the report form, in display order.
var KnownSpecies = []string{
	"Marsh tick",
	"Southern rodent tick",
	"Passerine tick",
	"Fox/badger tick",
	"Tree-hole tick",
}

// LatinName looks up the Latin name for a common species name.
func LatinName(species string) string {
	if name, ok := speciesLatinNames[species]; ok {
		return name
	}
	return UnknownLatinName
}
