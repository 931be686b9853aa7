// Package template defines the import templates a wizard session can target:
// named schema descriptors listing the fields a mapping must resolve, plus the
// registry that dispatches on them. Built-in templates are embedded under
// data/ and additional definitions can be loaded from YAML or derived from
// OpenAPI component schemas.
package template

import "fmt"

// Kind identifies a template. Built-in kinds are declared below; callers may
// register additional kinds as long as every registered kind also has a
// correction surface (see the wizard package's surface registry).
type Kind string

const (
	// KindStandard imports single observations: place, time, value.
	KindStandard Kind = "standard"
	// KindTimeseries imports one variable observed over time per place.
	KindTimeseries Kind = "timeseries"
	// KindEntities imports entity records rather than observations.
	KindEntities Kind = "entities"
)

// BuiltinKinds lists the kinds shipped with the embedded template set.
func BuiltinKinds() []Kind {
	return []Kind{KindStandard, KindTimeseries, KindEntities}
}

// FieldType hints at the kind of data a target field accepts. Detection uses
// it to pick value-based heuristics for columns whose headers do not match.
type FieldType string

const (
	FieldTypePlace  FieldType = "place"
	FieldTypeDate   FieldType = "date"
	FieldTypeYear   FieldType = "year"
	FieldTypeNumber FieldType = "number"
	FieldTypeText   FieldType = "text"
)

// Field describes one target schema concept a mapping can resolve.
type Field struct {
	Name     string    `yaml:"name" json:"name"`
	Label    string    `yaml:"label" json:"label"`
	Type     FieldType `yaml:"type" json:"type"`
	Required bool      `yaml:"required" json:"required"`
	// Aliases are header names that suggest this field during detection.
	Aliases []string `yaml:"aliases,omitempty" json:"aliases,omitempty"`
}

// Template is a named schema descriptor selecting which mapping surface and
// detection rules apply.
type Template struct {
	ID          Kind    `yaml:"id" json:"id"`
	Title       string  `yaml:"title" json:"title"`
	Description string  `yaml:"description,omitempty" json:"description,omitempty"`
	Fields      []Field `yaml:"fields" json:"fields"`
}

// Field looks up a target field by name.
func (t Template) Field(name string) (Field, bool) {
	for _, field := range t.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// RequiredFields returns the names of fields a complete mapping must resolve,
// in declaration order.
func (t Template) RequiredFields() []string {
	var required []string
	for _, field := range t.Fields {
		if field.Required {
			required = append(required, field.Name)
		}
	}
	return required
}

// Validate checks structural invariants: non-empty id, at least one field, no
// duplicate field names.
func (t Template) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("template: id is required")
	}
	if len(t.Fields) == 0 {
		return fmt.Errorf("template: %q declares no fields", t.ID)
	}
	seen := make(map[string]struct{}, len(t.Fields))
	for _, field := range t.Fields {
		if field.Name == "" {
			return fmt.Errorf("template: %q declares a field without a name", t.ID)
		}
		if _, dup := seen[field.Name]; dup {
			return fmt.Errorf("template: %q declares duplicate field %q", t.ID, field.Name)
		}
		seen[field.Name] = struct{}{}
	}
	return nil
}

// ConfigurationError reports a template kind with no registered definition or
// surface. It is fatal to the render path that triggered it.
type ConfigurationError struct {
	Template Kind
	Reason   string
}

func (e *ConfigurationError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("template: %q %s", e.Template, e.Reason)
	}
	return fmt.Sprintf("template: %q is not registered", e.Template)
}

// NewConfigurationError builds a ConfigurationError for the given kind.
func NewConfigurationError(kind Kind, reason string) *ConfigurationError {
	return &ConfigurationError{Template: kind, Reason: reason}
}
