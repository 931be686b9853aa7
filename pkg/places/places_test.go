package places

import (
	"strings"
	"testing"
)

func TestDefaultDataLoads(t *testing.T) {
	places, err := Default()
	if err != nil {
		t.Fatalf("default places: %v", err)
	}
	if len(places) < 50 {
		t.Fatalf("expected a substantial country set, got %d", len(places))
	}

	for i := 1; i < len(places); i++ {
		if places[i-1].Name > places[i].Name {
			t.Fatalf("places not sorted: %q before %q", places[i-1].Name, places[i].Name)
		}
	}
}

func TestResolveByNameCodeAndAlias(t *testing.T) {
	resolver, err := NewResolver()
	if err != nil {
		t.Fatalf("new resolver: %v", err)
	}

	cases := []struct {
		raw  string
		want string
	}{
		{"France", "country/FRA"},
		{"  france  ", "country/FRA"},
		{"FR", "country/FRA"},
		{"fra", "country/FRA"},
		{"USA", "country/USA"},
		{"United States of America", "country/USA"},
		{"UK", "country/GBR"},
		{"Viet Nam", "country/VNM"},
	}
	for _, tc := range cases {
		place, ok := resolver.Resolve(tc.raw)
		if !ok {
			t.Fatalf("expected %q to resolve", tc.raw)
		}
		if got := place.ID(); got != tc.want {
			t.Fatalf("resolve %q: got %q, want %q", tc.raw, got, tc.want)
		}
	}

	if _, ok := resolver.Resolve("Narnia"); ok {
		t.Fatalf("expected unknown place to miss")
	}
	if _, ok := resolver.Resolve(""); ok {
		t.Fatalf("expected empty value to miss")
	}
}

func TestLoadRejectsIncompleteRecords(t *testing.T) {
	data := "name,alpha2,alpha3,continent,aliases\nFrance,,FRA,Europe,\n"
	if _, err := Load(strings.NewReader(data)); err == nil {
		t.Fatalf("expected incomplete record to fail")
	}
}

func TestResolverWithCustomPlaces(t *testing.T) {
	custom := []Place{{Name: "Atlantis", Alpha2: "AT", Alpha3: "ATL", Continent: "Ocean"}}

	resolver, err := NewResolver(custom)
	if err != nil {
		t.Fatalf("new resolver: %v", err)
	}
	if _, ok := resolver.Resolve("France"); ok {
		t.Fatalf("expected default data to be absent")
	}
	place, ok := resolver.Resolve("atlantis")
	if !ok {
		t.Fatalf("expected custom place to resolve")
	}
	if place.ID() != "country/ATL" {
		t.Fatalf("id mismatch: got %q", place.ID())
	}
}
