package strategy

import (
	"fmt"
	"sort"
	"sync"
)

// Options holds strategy-specific settings from configuration.
type Options struct {
	ReinstallOn string
}

// Factory builds a strategy from its collaborators.
type Factory func(base Base, opts Options) (Strategy, error)

// Registry maps strategy tags to factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates a registry pre-loaded with the built-in strategies.
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]Factory)}
	r.Register(InstallName, func(base Base, _ Options) (Strategy, error) {
		return NewInstallStrategy(base)
	})
	r.Register(ReleaseName, func(base Base, opts Options) (Strategy, error) {
		return NewReleaseStrategy(base, opts.ReinstallOn)
	})
	return r
}

// Register adds a factory, replacing any existing one with the same tag.
func (r *Registry) Register(name string, factory Factory) {
	if name == "" || factory == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// New builds the strategy registered under name.
func (r *Registry) New(name string, base Base, opts Options) (Strategy, error) {
	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown deployment strategy %q", name)
	}
	return factory(base, opts)
}

// Names returns the sorted tags of all registered strategies.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
