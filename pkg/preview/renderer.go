// Package preview renders the materialized preview of a wizard session: the
// effective mapping applied to a bounded slice of the input table. Renderers
// are registered by name and dispatched the same way correction surfaces are.
package preview

import (
	"context"

	"github.com/goliatone/go-importwizard/pkg/mapping"
	"github.com/goliatone/go-importwizard/pkg/template"
)

// Preview combines everything the generation step needs to show its result:
// the effective mapping, the translated rows, and whether a generated CSV is
// required at all.
type Preview struct {
	Template template.Template
	// Fields are the mapped target-field names in template declaration order.
	Fields []string
	// Mapping is the effective mapping (prediction overlaid with corrections).
	Mapping mapping.Mapping
	// Rows hold the translated preview rows, one cell per Fields entry.
	Rows [][]string
	// TotalRows is the row count of the full input, not just the preview.
	TotalRows int
	// NeedsGeneration reports whether a translated CSV must be produced.
	NeedsGeneration bool
	// ValueMap records the normalizations applied to place cells.
	ValueMap mapping.ValueMap
}

// Renderer serializes a Preview for one consumer surface.
type Renderer interface {
	// Name reports the renderer identifier used for registry dispatch.
	Name() string
	// ContentType reports the MIME type of Render output.
	ContentType() string
	// Render serializes the preview.
	Render(ctx context.Context, p Preview) ([]byte, error)
}
