package template

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// FromOpenAPI derives import templates from the component schemas of an
// OpenAPI document: every named object schema becomes one template whose
// properties are the target fields. This keeps import targets definable next
// to the API that will receive the data.
func FromOpenAPI(ctx context.Context, raw []byte) ([]Template, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, errors.New("template: openapi document is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("template: load openapi document: %w", err)
	}
	if spec.Components == nil || len(spec.Components.Schemas) == 0 {
		return nil, errors.New("template: openapi document declares no component schemas")
	}

	names := make([]string, 0, len(spec.Components.Schemas))
	for name := range spec.Components.Schemas {
		names = append(names, name)
	}
	sort.Strings(names)

	var templates []Template
	for _, name := range names {
		ref := spec.Components.Schemas[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		tpl, ok := templateFromSchema(name, ref.Value)
		if !ok {
			continue
		}
		templates = append(templates, tpl)
	}

	if len(templates) == 0 {
		return nil, errors.New("template: no object schemas usable as templates")
	}
	return templates, nil
}

// RegisterFromOpenAPI parses raw and registers every derived template.
func RegisterFromOpenAPI(ctx context.Context, registry *Registry, raw []byte) error {
	if registry == nil {
		return errors.New("template: registry is required")
	}
	templates, err := FromOpenAPI(ctx, raw)
	if err != nil {
		return err
	}
	for _, tpl := range templates {
		if err := registry.Register(tpl); err != nil {
			return err
		}
	}
	return nil
}

func templateFromSchema(name string, schema *openapi3.Schema) (Template, bool) {
	if schema == nil || !schema.Type.Is(openapi3.TypeObject) || len(schema.Properties) == 0 {
		return Template{}, false
	}

	required := make(map[string]struct{}, len(schema.Required))
	for _, field := range schema.Required {
		required[field] = struct{}{}
	}

	propNames := make([]string, 0, len(schema.Properties))
	for prop := range schema.Properties {
		propNames = append(propNames, prop)
	}
	sort.Strings(propNames)

	tpl := Template{
		ID:          Kind(slugify(name)),
		Title:       schema.Title,
		Description: schema.Description,
	}
	if tpl.Title == "" {
		tpl.Title = name
	}

	for _, prop := range propNames {
		ref := schema.Properties[prop]
		if ref == nil || ref.Value == nil {
			continue
		}
		_, isRequired := required[prop]
		tpl.Fields = append(tpl.Fields, Field{
			Name:     prop,
			Label:    labelFromProperty(prop, ref.Value),
			Type:     fieldTypeFromSchema(ref.Value),
			Required: isRequired,
		})
	}

	if len(tpl.Fields) == 0 {
		return Template{}, false
	}
	return tpl, true
}

func fieldTypeFromSchema(schema *openapi3.Schema) FieldType {
	switch {
	case schema.Type.Is(openapi3.TypeInteger), schema.Type.Is(openapi3.TypeNumber):
		return FieldTypeNumber
	case schema.Format == "date", schema.Format == "date-time":
		return FieldTypeDate
	}
	switch strings.ToLower(schema.Format) {
	case "place", "country":
		return FieldTypePlace
	case "year":
		return FieldTypeYear
	}
	return FieldTypeText
}

func labelFromProperty(name string, schema *openapi3.Schema) string {
	if schema.Title != "" {
		return schema.Title
	}
	if name == "" {
		return name
	}
	label := strings.NewReplacer("_", " ", "-", " ").Replace(name)
	return strings.ToUpper(label[:1]) + label[1:]
}

func slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.NewReplacer(" ", "-", "_", "-").Replace(slug)
	return slug
}
