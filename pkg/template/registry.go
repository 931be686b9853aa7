package template

import (
	"fmt"
	"sort"
	"sync"
)

// Registry stores templates by kind, providing discovery and duplication
// safeguards. Implementations can embed or wrap this for dependency injection.
type Registry struct {
	mu        sync.RWMutex
	templates map[Kind]Template
}

// NewRegistry creates an empty registry instance.
func NewRegistry() *Registry {
	return &Registry{
		templates: make(map[Kind]Template),
	}
}

// Register adds a template by its ID. Duplicate kinds return an error.
func (r *Registry) Register(tpl Template) error {
	if err := tpl.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.templates[tpl.ID]; exists {
		return fmt.Errorf("template: %q already registered", tpl.ID)
	}

	r.templates[tpl.ID] = tpl
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(tpl Template) {
	if err := r.Register(tpl); err != nil {
		panic(err)
	}
}

// Get retrieves a template by kind. A miss is a ConfigurationError naming the
// missing kind.
func (r *Registry) Get(kind Kind) (Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tpl, ok := r.templates[kind]
	if !ok {
		return Template{}, NewConfigurationError(kind, "")
	}
	return tpl, nil
}

// List returns the registered kinds in sorted order.
func (r *Registry) List() []Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]Kind, 0, len(r.templates))
	for kind := range r.templates {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Has reports whether a template is registered.
func (r *Registry) Has(kind Kind) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.templates[kind]
	return ok
}
