package countries

import (
	"sort"
	"strings"

	"github.com/goliatone/go-importwizard/pkg/places"
)

// Search filters list by continent and query and returns up to limit places.
// Query matches names, ISO codes, and aliases; name-prefix matches rank first.
func Search(list []places.Place, query, continent string, limit int, opts Options) []places.Place {
	limit = clampLimit(limit, opts)
	if limit == 0 {
		return nil
	}

	if continent = strings.TrimSpace(continent); continent != "" {
		filtered := make([]places.Place, 0, len(list))
		for _, place := range list {
			if strings.EqualFold(place.Continent, continent) {
				filtered = append(filtered, place)
			}
		}
		list = filtered
	}

	query = strings.TrimSpace(query)
	if query == "" {
		if opts.EmptySearchMode == EmptySearchTop {
			if len(list) <= limit {
				return append([]places.Place{}, list...)
			}
			return append([]places.Place{}, list[:limit]...)
		}
		return nil
	}

	q := strings.ToLower(query)
	matches := make([]matchedPlace, 0, 32)
	for _, place := range list {
		lowerName := strings.ToLower(place.Name)
		if !placeMatches(place, lowerName, q) {
			continue
		}
		matches = append(matches, matchedPlace{
			place:    place,
			isPrefix: strings.HasPrefix(lowerName, q),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].isPrefix != matches[j].isPrefix {
			return matches[i].isPrefix
		}
		return matches[i].place.Name < matches[j].place.Name
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}

	out := make([]places.Place, 0, len(matches))
	for _, match := range matches {
		out = append(out, match.place)
	}
	return out
}

// SearchOptions runs Search and converts the results to JSON-ready options.
func SearchOptions(list []places.Place, query, continent string, limit int, opts Options) []Option {
	results := Search(list, query, continent, limit, opts)
	if len(results) == 0 {
		return nil
	}

	out := make([]Option, 0, len(results))
	for _, place := range results {
		out = append(out, Option{
			Value:     place.ID(),
			Label:     place.Name,
			Code:      place.Alpha2,
			Continent: place.Continent,
		})
	}
	return out
}

func placeMatches(place places.Place, lowerName, q string) bool {
	if strings.Contains(lowerName, q) {
		return true
	}
	if strings.EqualFold(place.Alpha2, q) || strings.EqualFold(place.Alpha3, q) {
		return true
	}
	for _, alias := range place.Aliases {
		if strings.Contains(strings.ToLower(alias), q) {
			return true
		}
	}
	return false
}

type matchedPlace struct {
	place    places.Place
	isPrefix bool
}
