package widgets

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/goliatone/go-sitewidgets/internal/view"
	"github.com/goliatone/go-sitewidgets/internal/widgetconfig"
)

// DefinitionFactory returns the catalog entry for a registered widget type.
type DefinitionFactory func() RegisterDefinitionInput

// Registration bundles a renderer with an optional catalog factory. When Definition is
// nil the catalog entry is derived from the renderer schema.
type Registration struct {
	Definition DefinitionFactory
	Renderer   Renderer
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithFallback sets the renderer returned for unregistered widget types.
func WithFallback(renderer Renderer) RegistryOption {
	return func(r *Registry) {
		if renderer != nil {
			r.fallback = renderer
		}
	}
}

// Registry dispatches widget type identifiers to renderers.
type Registry struct {
	mu            sync.RWMutex
	registrations map[string]Registration
	fallback      Renderer
}

// NewRegistry constructs an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		registrations: make(map[string]Registration),
		fallback:      placeholderRenderer{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Register adds a widget type. Registering the same type twice is an error.
func (r *Registry) Register(registration Registration) error {
	if registration.Renderer == nil {
		return ErrRendererRequired
	}
	key := canonicalKey(registration.Renderer.Type())
	if key == "" {
		return ErrRendererTypeRequired
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.registrations[key]; exists {
		return ErrRendererExists
	}
	r.registrations[key] = registration
	return nil
}

// MustRegister registers every renderer and panics on error.
func (r *Registry) MustRegister(renderers ...Renderer) {
	for _, renderer := range renderers {
		if err := r.Register(Registration{Renderer: renderer}); err != nil {
			panic(err)
		}
	}
}

// Lookup returns the renderer for typeID, or the fallback renderer when the type is not
// registered. It never returns nil.
func (r *Registry) Lookup(typeID string) Renderer {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if entry, ok := r.registrations[canonicalKey(typeID)]; ok {
		return entry.Renderer
	}
	return r.fallback
}

// Fallback returns the renderer used for unknown types.
func (r *Registry) Fallback() Renderer {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.fallback
}

// Has reports whether typeID is registered.
func (r *Registry) Has(typeID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.registrations[canonicalKey(typeID)]
	return ok
}

// List returns the registered type identifiers in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.registrations))
	for key := range r.registrations {
		out = append(out, key)
	}
	slices.Sort(out)
	return out
}

// Definitions returns the catalog entries of every registered type, sorted by name.
func (r *Registry) Definitions() []RegisterDefinitionInput {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]RegisterDefinitionInput, 0, len(r.registrations))
	for key, registration := range r.registrations {
		if registration.Definition != nil {
			out = append(out, registration.Definition())
			continue
		}
		schema := registration.Renderer.Schema()
		out = append(out, RegisterDefinitionInput{
			Name:     key,
			Schema:   schema.Document(),
			Defaults: schema.Defaults(),
		})
	}
	slices.SortFunc(out, func(a, b RegisterDefinitionInput) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out
}

func canonicalKey(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

type placeholderRenderer struct{}

func (placeholderRenderer) Type() string { return "unknown" }

func (placeholderRenderer) Schema() widgetconfig.Schema { return widgetconfig.Schema{} }

func (placeholderRenderer) RenderPublic(context.Context, widgetconfig.Config, PublicEnv) view.Node {
	return view.Fragment()
}

func (placeholderRenderer) RenderEditable(widgetconfig.Config, EditableEnv) view.Node {
	return view.El("div", view.Attrs("class", "widget-unknown"), view.Text("Unsupported widget"))
}
