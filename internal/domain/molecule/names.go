package molecule

import (
	"sort"
	"strings"
)

// Query is one resolution request after input cleanup.
type Query struct {
	// DisplayName is the trimmed caller input, used for the exact catalog match.
	DisplayName string
	// NormalizedName is what external resolvers are asked for.
	NormalizedName string
}

// NewQuery trims name and derives its normalized form.
func NewQuery(name string) Query {
	display := strings.TrimSpace(name)
	return Query{DisplayName: display, NormalizedName: NormalizeName(display)}
}

// IsEmpty reports whether nothing is left after trimming.
func (q Query) IsEmpty() bool { return q.DisplayName == "" }

// nameMappings translates common display names to the spelling external
// resolvers recognise.
var nameMappings = map[string]string{
	"Metformin":     "metformin",
	"Nefazodone":    "nefazodone",
	"Troglitazone":  "troglitazone",
	"Aspirin":       "aspirin",
	"Atorvastatin":  "atorvastatin",
	"Lisinopril":    "lisinopril",
	"Ketoconazole":  "ketoconazole",
	"Diclofenac":    "diclofenac",
	"Amiodarone":    "amiodarone",
	"Warfarin":      "warfarin",
	"Phenytoin":     "phenytoin",
	"Carbamazepine": "carbamazepine",
	"Valproic Acid": "valproic acid",
	"Ibuprofen":     "ibuprofen",
	"Acetaminophen": "acetaminophen",
	"Simvastatin":   "simvastatin",
	"Lovastatin":    "lovastatin",
	"Pravastatin":   "pravastatin",
	"Rosuvastatin":  "rosuvastatin",
	"Fluvastatin":   "fluvastatin",
}

// MappedName returns the resolver spelling for name and whether it came from
// the mapping table.  Unmapped names fall back to lower case.
func MappedName(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if mapped, ok := nameMappings[name]; ok {
		return mapped, true
	}
	return strings.ToLower(name), false
}

// NormalizeName is MappedName without the provenance flag.
func NormalizeName(name string) string {
	mapped, _ := MappedName(name)
	return mapped
}

// MappedNames lists the display names with explicit mappings, sorted.
func MappedNames() []string {
	out := make([]string, 0, len(nameMappings))
	for k := range nameMappings {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

//Personal.AI order the ending
