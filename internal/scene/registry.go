package scene

import (
	"fmt"
	"strings"
	"sync"
)

// ErrNotRegistered is wrapped by Build when a type tag has no builder.
var ErrNotRegistered = fmt.Errorf("scene type not registered")

// Builder constructs a component from its scene configuration.
type Builder func(cfg Config) (Component, error)

// Registry maps scene type tags to builders. Lookups are pure: they
// never construct anything and never fail loudly, so callers decide
// how to degrade when a tag is unknown.
type Registry struct {
	mu       sync.RWMutex
	builders map[Kind]Builder
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{builders: make(map[Kind]Builder)}
}

// Register binds a builder to a type tag, replacing any previous one.
func (r *Registry) Register(kind Kind, b Builder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.builders[kind] = b
}

// Resolve looks up the builder for a type reference. The reference may
// be a bare tag ("title") or a path ("explainer/title"); only the last
// segment selects the variant. The boolean reports whether the tag is
// registered.
func (r *Registry) Resolve(ref string) (Builder, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.builders[KindOf(ref)]
	return b, ok
}

// Build resolves ref and constructs the component. An unregistered tag
// returns an error wrapping [ErrNotRegistered]; callers that want the
// graceful path use Resolve and fall back to [NewPlaceholder].
func (r *Registry) Build(ref string, cfg Config) (Component, error) {
	b, ok := r.Resolve(ref)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotRegistered, ref)
	}
	return b(cfg)
}

// Kinds lists the registered type tags.
func (r *Registry) Kinds() []Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kinds := make([]Kind, 0, len(r.builders))
	for k := range r.builders {
		kinds = append(kinds, k)
	}
	return kinds
}

// KindOf extracts the type tag from a scene type reference.
func KindOf(ref string) Kind {
	if i := strings.LastIndex(ref, "/"); i >= 0 {
		ref = ref[i+1:]
	}
	return Kind(ref)
}

// DefaultRegistry returns a registry with every built-in component.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(KindTitle, NewTitle)
	r.Register(KindBullets, NewBullets)
	r.Register(KindStat, NewStat)
	r.Register(KindDocument, NewDocument)
	r.Register(KindChart, NewChart)
	r.Register(KindOutro, NewOutro)
	return r
}
