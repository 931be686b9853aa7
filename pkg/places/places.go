// Package places provides the country reference data and name resolution used
// by place detection and the countries browsing component. The default data
// set covers ISO 3166-1 countries with common name aliases and is embedded
// under data/countries.csv.
package places

import (
	"embed"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
)

//go:embed data/countries.csv
var dataFS embed.FS

const defaultDataPath = "data/countries.csv"

// Place describes one resolvable place.
type Place struct {
	Name      string   `json:"name"`
	Alpha2    string   `json:"alpha2"`
	Alpha3    string   `json:"alpha3"`
	Continent string   `json:"continent"`
	Aliases   []string `json:"aliases,omitempty"`
}

// ID returns the canonical place identifier, e.g. "country/USA".
func (p Place) ID() string {
	return "country/" + p.Alpha3
}

var (
	defaultOnce   sync.Once
	defaultPlaces []Place
	defaultErr    error
)

// Default returns the embedded country set, sorted by name.
func Default() ([]Place, error) {
	defaultOnce.Do(func() {
		f, err := dataFS.Open(defaultDataPath)
		if err != nil {
			defaultErr = err
			return
		}
		defer func() { _ = f.Close() }()

		places, err := Load(f)
		if err != nil {
			defaultErr = err
			return
		}
		defaultPlaces = places
	})

	if defaultErr != nil {
		return nil, defaultErr
	}
	return append([]Place{}, defaultPlaces...), nil
}

// Load parses place records from CSV with the columns
// name,alpha2,alpha3,continent,aliases where aliases is a pipe-separated
// list. The header row is required.
func Load(r io.Reader) ([]Place, error) {
	if r == nil {
		return nil, fmt.Errorf("places: missing reader")
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 5

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("places: parse data: %w", err)
	}
	if len(records) < 1 {
		return nil, fmt.Errorf("places: data is empty")
	}

	places := make([]Place, 0, len(records)-1)
	for _, record := range records[1:] {
		place := Place{
			Name:      strings.TrimSpace(record[0]),
			Alpha2:    strings.ToUpper(strings.TrimSpace(record[1])),
			Alpha3:    strings.ToUpper(strings.TrimSpace(record[2])),
			Continent: strings.TrimSpace(record[3]),
		}
		if place.Name == "" || place.Alpha2 == "" || place.Alpha3 == "" {
			return nil, fmt.Errorf("places: incomplete record %q", record)
		}
		if aliases := strings.TrimSpace(record[4]); aliases != "" {
			for _, alias := range strings.Split(aliases, "|") {
				if alias = strings.TrimSpace(alias); alias != "" {
					place.Aliases = append(place.Aliases, alias)
				}
			}
		}
		places = append(places, place)
	}

	sort.Slice(places, func(i, j int) bool {
		return places[i].Name < places[j].Name
	})
	return places, nil
}

// Resolver resolves raw cell values to places by name, alias, or ISO code.
type Resolver struct {
	byKey map[string]Place
}

// NewResolver builds a Resolver over the supplied places. With no arguments
// the embedded default set is used.
func NewResolver(custom ...[]Place) (*Resolver, error) {
	var source []Place
	if len(custom) > 0 && custom[len(custom)-1] != nil {
		source = custom[len(custom)-1]
	} else {
		defaults, err := Default()
		if err != nil {
			return nil, err
		}
		source = defaults
	}

	r := &Resolver{byKey: make(map[string]Place, len(source)*4)}
	for _, place := range source {
		r.index(place.Name, place)
		r.index(place.Alpha2, place)
		r.index(place.Alpha3, place)
		for _, alias := range place.Aliases {
			r.index(alias, place)
		}
	}
	return r, nil
}

func (r *Resolver) index(key string, place Place) {
	normalized := normalize(key)
	if normalized == "" {
		return
	}
	if _, taken := r.byKey[normalized]; taken {
		return
	}
	r.byKey[normalized] = place
}

// Resolve looks up a raw value. Matching is case-insensitive and ignores
// surrounding whitespace and trailing punctuation.
func (r *Resolver) Resolve(raw string) (Place, bool) {
	place, ok := r.byKey[normalize(raw)]
	return place, ok
}

func normalize(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	return strings.TrimRight(s, ".,;")
}
