package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-importwizard/pkg/mapping"
	"github.com/goliatone/go-importwizard/pkg/template"
)

// CSVOption customises the CSV exporter.
type CSVOption func(*CSVExporter)

// WithNow overrides the clock stamped into manifests. Useful for tests.
func WithNow(now func() time.Time) CSVOption {
	return func(e *CSVExporter) {
		if now != nil {
			e.now = now
		}
	}
}

// CSVExporter writes the translated CSV: one column per mapped target field in
// template declaration order, constants filled in on every row, and the value
// map applied to place-typed cells.
type CSVExporter struct {
	now func() time.Time
}

// Ensure the implementation satisfies the interface.
var _ Exporter = (*CSVExporter)(nil)

// NewCSVExporter constructs the default exporter.
func NewCSVExporter(options ...CSVOption) *CSVExporter {
	e := &CSVExporter{now: time.Now}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(e)
	}
	return e
}

// Export builds the package for req. With Translate unset the original bytes
// are embedded unchanged and only the manifest marks the decision.
func (e *CSVExporter) Export(ctx context.Context, req Request) (Package, error) {
	if err := ctx.Err(); err != nil {
		return Package{}, err
	}
	if req.Table == nil {
		return Package{}, errors.New("export: table is required")
	}
	if err := req.Template.Validate(); err != nil {
		return Package{}, err
	}

	manifest := Manifest{
		Template:    req.Template.ID,
		Translated:  req.Translate,
		Rows:        len(req.Table.Rows),
		GeneratedAt: e.now().UTC(),
	}

	if !req.Translate {
		return Package{Data: req.Original.Raw(), Manifest: manifest}, nil
	}

	fields := mappedFields(req.Template, req.Mapping)
	if len(fields) == 0 {
		return Package{}, errors.New("export: mapping resolves no fields")
	}
	manifest.Fields = fields
	manifest.Mapping = describeMapping(fields, req.Mapping)

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write(fields); err != nil {
		return Package{}, fmt.Errorf("export: write header: %w", err)
	}

	record := make([]string, len(fields))
	for row := range req.Table.Rows {
		for i, field := range fields {
			record[i] = Translate(req, field, row)
		}
		if err := writer.Write(record); err != nil {
			return Package{}, fmt.Errorf("export: write row %d: %w", row+1, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return Package{}, fmt.Errorf("export: flush: %w", err)
	}

	return Package{Data: buf.Bytes(), Manifest: manifest}, nil
}

// Translate resolves one cell of the output: the mapped column value (place
// cells normalized through the value map) or the configured constant.
func Translate(req Request, field string, row int) string {
	entry, ok := req.Mapping[field]
	if !ok {
		return ""
	}
	switch entry.Kind {
	case mapping.EntryKindConstant:
		return entry.Constant
	case mapping.EntryKindColumn:
		cell := req.Table.Cell(row, entry.Column)
		if tplField, ok := req.Template.Field(field); ok && tplField.Type == template.FieldTypePlace {
			// Detection records value-map keys trimmed, so lookups must be too.
			return req.ValueMap.Apply(strings.TrimSpace(cell))
		}
		return cell
	default:
		return ""
	}
}

// mappedFields returns the mapped target fields in template declaration
// order so output columns are stable across runs.
func mappedFields(tpl template.Template, m mapping.Mapping) []string {
	var fields []string
	for _, field := range tpl.Fields {
		if _, ok := m[field.Name]; ok {
			fields = append(fields, field.Name)
		}
	}
	return fields
}

func describeMapping(fields []string, m mapping.Mapping) map[string]string {
	out := make(map[string]string, len(fields))
	for _, field := range fields {
		entry := m[field]
		switch entry.Kind {
		case mapping.EntryKindColumn:
			out[field] = "column:" + entry.Column.Name
		case mapping.EntryKindConstant:
			out[field] = "constant:" + entry.Constant
		}
	}
	return out
}
