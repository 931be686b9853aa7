// Package export produces the import package that concludes a wizard session:
// the translated CSV (or the untouched original when no translation is
// needed) plus a YAML manifest describing how it was produced.
package export

import (
	"context"
	"time"

	"github.com/goliatone/go-importwizard/pkg/mapping"
	"github.com/goliatone/go-importwizard/pkg/tabular"
	"github.com/goliatone/go-importwizard/pkg/template"

	"gopkg.in/yaml.v3"
)

// Request carries everything an exporter needs to build a package.
type Request struct {
	// Table is the parsed input.
	Table *tabular.Table
	// Original is the raw uploaded document, shipped unchanged when no
	// translation is required.
	Original tabular.Document
	// Template is the target schema.
	Template template.Template
	// Mapping is the effective mapping (prediction overlaid with corrections).
	Mapping mapping.Mapping
	// ValueMap normalizes place cells during translation.
	ValueMap mapping.ValueMap
	// Translate selects between generating a translated CSV and embedding the
	// original bytes.
	Translate bool
}

// Manifest records how a package was produced.
type Manifest struct {
	Template    template.Kind     `yaml:"template"`
	Translated  bool              `yaml:"translated"`
	Rows        int               `yaml:"rows"`
	Fields      []string          `yaml:"fields,omitempty"`
	Mapping     map[string]string `yaml:"mapping,omitempty"`
	GeneratedAt time.Time         `yaml:"generatedAt"`
}

// Encode serializes the manifest as YAML.
func (m Manifest) Encode() ([]byte, error) {
	return yaml.Marshal(m)
}

// Package is the generated import artifact.
type Package struct {
	// Data is the CSV payload, translated or original.
	Data []byte
	// Manifest describes the payload.
	Manifest Manifest
}

// Exporter builds import packages.
type Exporter interface {
	Export(ctx context.Context, req Request) (Package, error)
}
