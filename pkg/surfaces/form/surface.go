// Package form provides the non-interactive correction surface: it
// materializes a corrected mapping from an already-parsed payload, which is
// how HTTP handlers feed user edits into a wizard session.
package form

import (
	"context"
	"fmt"

	"github.com/goliatone/go-importwizard/pkg/mapping"
	"github.com/goliatone/go-importwizard/pkg/tabular"
	"github.com/goliatone/go-importwizard/pkg/template"
	"github.com/goliatone/go-importwizard/pkg/wizard"
)

// Assignment is one submitted field resolution. Exactly one of Column and
// Constant must be set.
type Assignment struct {
	Column   string `json:"column,omitempty"`
	Constant string `json:"constant,omitempty"`
}

// Payload maps target-field names to their submitted assignments. It is the
// complete replacement mapping; fields absent from the payload end up
// unmapped.
type Payload map[string]Assignment

// Surface validates a payload against the active template and table columns
// and produces the corrected mapping.
type Surface struct {
	kind    template.Kind
	payload Payload
}

// Ensure the implementation satisfies the interface.
var _ wizard.Surface = (*Surface)(nil)

// New constructs a form surface for one submission.
func New(kind template.Kind, payload Payload) *Surface {
	return &Surface{kind: kind, payload: payload}
}

// Name reports the surface identifier.
func (s *Surface) Name() string {
	return "form"
}

// Kind reports the template kind this surface edits.
func (s *Surface) Kind() template.Kind {
	return s.kind
}

// Correct resolves the payload into a mapping. Unknown target fields and
// unresolvable columns are errors; the submission replaces any prior user
// mapping wholesale.
func (s *Surface) Correct(ctx context.Context, req wizard.SurfaceRequest) (mapping.Mapping, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	corrected := make(mapping.Mapping, len(s.payload))
	for field, assignment := range s.payload {
		if _, ok := req.Template.Field(field); !ok {
			return nil, fmt.Errorf("form: template %q has no field %q", req.Template.ID, field)
		}

		switch {
		case assignment.Column != "" && assignment.Constant != "":
			return nil, fmt.Errorf("form: field %q sets both column and constant", field)
		case assignment.Column != "":
			col, ok := findColumn(req, assignment.Column)
			if !ok {
				return nil, fmt.Errorf("form: field %q references unknown column %q", field, assignment.Column)
			}
			corrected[field] = mapping.ColumnEntry(col)
		case assignment.Constant != "":
			corrected[field] = mapping.ConstantEntry(assignment.Constant)
		default:
			return nil, fmt.Errorf("form: field %q has an empty assignment", field)
		}
	}

	if len(corrected) == 0 {
		return nil, nil
	}
	return corrected, nil
}

func findColumn(req wizard.SurfaceRequest, name string) (tabular.Column, bool) {
	for _, candidate := range req.Columns {
		if candidate.Name == name {
			return candidate, true
		}
	}
	return tabular.Column{}, false
}
