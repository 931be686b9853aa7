// Package detect derives a predicted column-to-schema mapping from a parsed
// table and a target template. Prediction is deterministic: equal inputs
// always produce equal mappings, and a recomputed prediction fully replaces
// any previous one.
package detect

import (
	"context"
	"fmt"

	"github.com/goliatone/go-importwizard/pkg/mapping"
	"github.com/goliatone/go-importwizard/pkg/tabular"
	"github.com/goliatone/go-importwizard/pkg/template"
)

// Detector predicts a mapping and the value map that normalizes matched place
// columns. Implementations must be pure over well-formed input.
type Detector interface {
	Predict(ctx context.Context, table *tabular.Table, tpl template.Template) (mapping.Mapping, mapping.ValueMap, error)
}

// Error reports a failed prediction. Callers treat the predicted mapping as
// empty and surface the error as a non-blocking warning.
type Error struct {
	Template template.Kind
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("detect: predict for template %q: %v", e.Template, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
