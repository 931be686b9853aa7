package preview

import (
	"context"
	"encoding/json"

	"github.com/goliatone/go-importwizard/pkg/mapping"
)

// jsonRenderer serializes the preview for API consumers. Field order follows
// the template declaration so repeated renders stay byte-stable.
type jsonRenderer struct{}

// NewJSONRenderer returns the json preview renderer.
func NewJSONRenderer() Renderer {
	return &jsonRenderer{}
}

func (r *jsonRenderer) Name() string {
	return "json"
}

func (r *jsonRenderer) ContentType() string {
	return "application/json"
}

type jsonEntry struct {
	Kind     string `json:"kind"`
	Column   string `json:"column,omitempty"`
	Index    *int   `json:"index,omitempty"`
	Constant string `json:"constant,omitempty"`
}

type jsonDocument struct {
	Template        string               `json:"template"`
	Fields          []string             `json:"fields"`
	Mapping         map[string]jsonEntry `json:"mapping"`
	Rows            [][]string           `json:"rows"`
	TotalRows       int                  `json:"totalRows"`
	NeedsGeneration bool                 `json:"needsGeneration"`
	ValueMap        map[string]string    `json:"valueMap,omitempty"`
}

func (r *jsonRenderer) Render(ctx context.Context, p Preview) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc := jsonDocument{
		Template:        string(p.Template.ID),
		Fields:          append([]string(nil), p.Fields...),
		Mapping:         make(map[string]jsonEntry, len(p.Mapping)),
		Rows:            p.Rows,
		TotalRows:       p.TotalRows,
		NeedsGeneration: p.NeedsGeneration,
		ValueMap:        p.ValueMap,
	}
	for field, entry := range p.Mapping {
		doc.Mapping[field] = encodeEntry(entry)
	}

	return json.MarshalIndent(doc, "", "  ")
}

func encodeEntry(entry mapping.Entry) jsonEntry {
	out := jsonEntry{Kind: string(entry.Kind)}
	switch entry.Kind {
	case mapping.EntryKindColumn:
		out.Column = entry.Column.Name
		index := entry.Column.Index
		out.Index = &index
	case mapping.EntryKindConstant:
		out.Constant = entry.Constant
	}
	return out
}
