package wizard

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/goliatone/go-importwizard/pkg/mapping"
	"github.com/goliatone/go-importwizard/pkg/tabular"
	"github.com/goliatone/go-importwizard/pkg/template"
)

// SurfaceRequest carries everything a correction surface needs to collect a
// corrected mapping from the user.
type SurfaceRequest struct {
	// Template is the active target schema.
	Template template.Template
	// Columns are the source columns available for assignment.
	Columns []tabular.Column
	// Predicted is the machine-derived mapping shown as the starting point.
	Predicted mapping.Mapping
	// Current is the user mapping collected so far, if any.
	Current mapping.Mapping
}

// Surface is a template-specific mapping correction surface. Correct returns
// the complete replacement user mapping, never an incremental patch.
type Surface interface {
	// Name reports the surface identifier for diagnostics.
	Name() string
	// Kind reports the template kind this surface edits.
	Kind() template.Kind
	// Correct collects the corrected mapping.
	Correct(ctx context.Context, req SurfaceRequest) (mapping.Mapping, error)
}

// SurfaceRegistry dispatches correction surfaces by template kind. Unlike a
// bare lookup table, wiring mistakes surface at configuration time through
// Validate rather than as silently missing editors at render time.
type SurfaceRegistry struct {
	mu       sync.RWMutex
	surfaces map[template.Kind]Surface
}

// NewSurfaceRegistry creates an empty registry instance.
func NewSurfaceRegistry() *SurfaceRegistry {
	return &SurfaceRegistry{
		surfaces: make(map[template.Kind]Surface),
	}
}

// Register adds a surface for its template kind. A second surface for the
// same kind is an error.
func (r *SurfaceRegistry) Register(surface Surface) error {
	if surface == nil {
		return fmt.Errorf("wizard: surface is required")
	}
	kind := surface.Kind()
	if kind == "" {
		return fmt.Errorf("wizard: surface %q reports no template kind", surface.Name())
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.surfaces[kind]; exists {
		return fmt.Errorf("wizard: surface for template %q already registered", kind)
	}

	r.surfaces[kind] = surface
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *SurfaceRegistry) MustRegister(surface Surface) {
	if err := r.Register(surface); err != nil {
		panic(err)
	}
}

// Get retrieves the surface for a template kind. A miss is a
// ConfigurationError naming the template.
func (r *SurfaceRegistry) Get(kind template.Kind) (Surface, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	surface, ok := r.surfaces[kind]
	if !ok {
		return nil, template.NewConfigurationError(kind, "has no correction surface")
	}
	return surface, nil
}

// Kinds returns the covered template kinds in sorted order.
func (r *SurfaceRegistry) Kinds() []template.Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]template.Kind, 0, len(r.surfaces))
	for kind := range r.surfaces {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Validate checks exhaustiveness: every template registered in templates must
// have a correction surface. The first gap is reported as a
// ConfigurationError.
func (r *SurfaceRegistry) Validate(templates *template.Registry) error {
	if templates == nil {
		return fmt.Errorf("wizard: template registry is required")
	}
	for _, kind := range templates.List() {
		if _, err := r.Get(kind); err != nil {
			return err
		}
	}
	return nil
}
