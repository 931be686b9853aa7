package preview

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/goliatone/go-importwizard/pkg/mapping"
	"github.com/goliatone/go-importwizard/pkg/tabular"
	"github.com/goliatone/go-importwizard/pkg/template"
)

func samplePreview() Preview {
	return Preview{
		Template: template.Template{ID: "standard", Title: "Standard observations"},
		Fields:   []string{"place", "year", "value"},
		Mapping: mapping.Mapping{
			"place": mapping.ColumnEntry(tabular.Column{Name: "Place", Index: 0}),
			"year":  mapping.ColumnEntry(tabular.Column{Name: "Year", Index: 1}),
			"value": mapping.ConstantEntry("42"),
		},
		Rows:            [][]string{{"country/FRA", "2019", "42"}},
		TotalRows:       120,
		NeedsGeneration: true,
		ValueMap:        mapping.ValueMap{"France": "country/FRA"},
	}
}

func TestHTMLRenderer(t *testing.T) {
	out, err := NewHTMLRenderer().Render(context.Background(), samplePreview())
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	html := string(out)
	for _, want := range []string{
		"Standard observations",
		"<th>place</th>",
		"<td>country/FRA</td>",
		"Showing 1 of 120 rows.",
		"A translated CSV will be generated.",
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("output missing %q:\n%s", want, html)
		}
	}
}

func TestHTMLRendererSanitizesCells(t *testing.T) {
	p := samplePreview()
	p.Rows = [][]string{{"<script>alert(1)</script>France", "2019", "42"}}

	out, err := NewHTMLRenderer().Render(context.Background(), p)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(string(out), "<script>") {
		t.Fatalf("script tag survived sanitation:\n%s", out)
	}
	if !strings.Contains(string(out), "France") {
		t.Fatalf("text content lost during sanitation:\n%s", out)
	}
}

func TestJSONRenderer(t *testing.T) {
	out, err := NewJSONRenderer().Render(context.Background(), samplePreview())
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	var doc struct {
		Template        string              `json:"template"`
		Fields          []string            `json:"fields"`
		NeedsGeneration bool                `json:"needsGeneration"`
		Mapping         map[string]struct {
			Kind     string `json:"kind"`
			Column   string `json:"column"`
			Constant string `json:"constant"`
		} `json:"mapping"`
	}
	if err := json.Unmarshal(out, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if doc.Template != "standard" {
		t.Fatalf("template mismatch: %q", doc.Template)
	}
	if !doc.NeedsGeneration {
		t.Fatalf("expected needsGeneration to be true")
	}
	if doc.Mapping["value"].Kind != "constant" || doc.Mapping["value"].Constant != "42" {
		t.Fatalf("constant entry mismatch: %#v", doc.Mapping["value"])
	}
	if doc.Mapping["place"].Column != "Place" {
		t.Fatalf("column entry mismatch: %#v", doc.Mapping["place"])
	}
}

func TestRegistryDispatch(t *testing.T) {
	registry := DefaultRegistry()

	if got := registry.List(); len(got) != 2 || got[0] != "html" || got[1] != "json" {
		t.Fatalf("unexpected renderer list: %v", got)
	}
	if _, err := registry.Get("html"); err != nil {
		t.Fatalf("get html: %v", err)
	}
	if _, err := registry.Get("missing"); err == nil {
		t.Fatalf("expected miss for unknown renderer")
	}
	if err := registry.Register(NewJSONRenderer()); err == nil {
		t.Fatalf("expected duplicate registration to fail")
	}
}
