// Package tui provides the interactive terminal correction surface: one
// select prompt per target field over the available source columns, with a
// constant-value escape hatch. Prompts run through a PromptDriver seam so the
// flow is testable without a terminal.
package tui

import (
	"context"
	"fmt"

	"github.com/goliatone/go-importwizard/pkg/mapping"
	"github.com/goliatone/go-importwizard/pkg/template"
	"github.com/goliatone/go-importwizard/pkg/wizard"
)

const (
	optionUnmapped = "(leave unmapped)"
	optionConstant = "(use a constant value)"
	// fixedOptions counts the sentinel entries before the column list.
	fixedOptions = 2
)

// Option customises the surface.
type Option func(*Surface)

// WithDriver swaps the prompt driver. The default drives a real terminal via
// survey.
func WithDriver(driver PromptDriver) Option {
	return func(s *Surface) {
		if driver != nil {
			s.driver = driver
		}
	}
}

// Surface drives interactive mapping correction for one template kind.
type Surface struct {
	kind   template.Kind
	driver PromptDriver
}

// Ensure the implementation satisfies the interface.
var _ wizard.Surface = (*Surface)(nil)

// New constructs a TUI surface for the given template kind.
func New(kind template.Kind, options ...Option) *Surface {
	s := &Surface{
		kind:   kind,
		driver: NewSurveyDriver(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s
}

// Name reports the surface identifier.
func (s *Surface) Name() string {
	return "tui"
}

// Kind reports the template kind this surface edits.
func (s *Surface) Kind() template.Kind {
	return s.kind
}

// Correct walks the template fields and prompts for each assignment. The
// returned mapping replaces the previous user mapping wholesale; fields left
// unmapped are simply absent.
func (s *Surface) Correct(ctx context.Context, req wizard.SurfaceRequest) (mapping.Mapping, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.driver == nil {
		return nil, fmt.Errorf("tui: prompt driver is nil")
	}

	title := req.Template.Title
	if title == "" {
		title = string(req.Template.ID)
	}
	if err := s.driver.Info(ctx, fmt.Sprintf("Correct the column mapping for %s.", title)); err != nil {
		return nil, err
	}

	options := make([]string, 0, len(req.Columns)+fixedOptions)
	options = append(options, optionUnmapped, optionConstant)
	for _, col := range req.Columns {
		options = append(options, col.Name)
	}

	corrected := make(mapping.Mapping, len(req.Template.Fields))
	for _, field := range req.Template.Fields {
		choice, err := s.driver.Select(ctx, SelectConfig{
			Message:      promptMessage(field),
			Options:      options,
			DefaultIndex: defaultIndex(field, req),
			Help:         field.Label,
			PageSize:     10,
		})
		if err != nil {
			return nil, err
		}

		switch {
		case choice == 0:
			// unmapped
		case choice == 1:
			constant, err := s.driver.Input(ctx, InputConfig{
				Message: fmt.Sprintf("Constant value for %q:", field.Name),
			})
			if err != nil {
				return nil, err
			}
			if constant != "" {
				corrected[field.Name] = mapping.ConstantEntry(constant)
			}
		case choice-fixedOptions < len(req.Columns):
			corrected[field.Name] = mapping.ColumnEntry(req.Columns[choice-fixedOptions])
		default:
			return nil, fmt.Errorf("tui: selection %d out of range for field %q", choice, field.Name)
		}
	}

	if len(corrected) == 0 {
		return nil, nil
	}
	return corrected, nil
}

func promptMessage(field template.Field) string {
	label := field.Label
	if label == "" {
		label = field.Name
	}
	if field.Required {
		return fmt.Sprintf("Map %s (required):", label)
	}
	return fmt.Sprintf("Map %s:", label)
}

// defaultIndex pre-selects the current assignment: the user mapping when
// present, otherwise the prediction, otherwise unmapped.
func defaultIndex(field template.Field, req wizard.SurfaceRequest) int {
	entry, ok := req.Current[field.Name]
	if !ok {
		entry, ok = req.Predicted[field.Name]
	}
	if !ok {
		return 0
	}

	switch entry.Kind {
	case mapping.EntryKindConstant:
		return 1
	case mapping.EntryKindColumn:
		for i, col := range req.Columns {
			if col == entry.Column {
				return i + fixedOptions
			}
		}
	}
	return 0
}
