package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/fsmkit/pkg/domain"
)

// Registry binds effect names, as written in declarative tables, to effects.
// A name bound to a nil effect is registered: it resolves to the empty effect.
type Registry struct {
	mu      sync.RWMutex
	effects map[string]domain.Effect
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		effects: make(map[string]domain.Effect),
	}
}

// Register binds name to effect, replacing any previous binding.
func (r *Registry) Register(name string, effect domain.Effect) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.effects[name] = effect
}

// RegisterInert binds each name to the empty effect unless it is already bound.
func (r *Registry) RegisterInert(names ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, name := range names {
		if _, ok := r.effects[name]; !ok {
			r.effects[name] = nil
		}
	}
}

// Has reports whether name is bound.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.effects[name]
	return ok
}

// Resolve looks up an effect by name.
// Returns domain.ErrUnknownEffect if the name is not registered.
func (r *Registry) Resolve(name string) (domain.Effect, error) {
	r.mu.RLock()
	effect, ok := r.effects[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownEffect, name)
	}
	return effect, nil
}

// Missing returns the names that are not bound, sorted and without repeats.
func (r *Registry) Missing(names ...string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool)
	var missing []string
	for _, name := range names {
		if _, ok := r.effects[name]; ok || seen[name] {
			continue
		}
		seen[name] = true
		missing = append(missing, name)
	}
	sort.Strings(missing)
	return missing
}

// Names returns the registered effect names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.effects))
	for name := range r.effects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
