package scraper

import (
	"slices"
	"sort"
)

// Region is a storefront country with the languages it is served in.
type Region struct {
	Code      string
	Name      string
	Languages []string
}

var regions = map[string]Region{
	"tr": {Code: "tr", Name: "Turkey", Languages: []string{"en", "tr"}},
	"us": {Code: "us", Name: "United States", Languages: []string{"en"}},
	"uk": {Code: "uk", Name: "United Kingdom", Languages: []string{"en"}},
	"de": {Code: "de", Name: "Germany", Languages: []string{"de", "en"}},
	"fr": {Code: "fr", Name: "France", Languages: []string{"fr", "en"}},
	"es": {Code: "es", Name: "Spain", Languages: []string{"es", "en"}},
	"it": {Code: "it", Name: "Italy", Languages: []string{"it", "en"}},
}

// Regions returns the supported regions sorted by code.
func Regions() []Region {
	out := make([]Region, 0, len(regions))
	for _, r := range regions {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })

	return out
}

// SupportsRegion reports whether country is served in language.
func SupportsRegion(country, language string) bool {
	r, ok := regions[country]
	return ok && slices.Contains(r.Languages, language)
}
