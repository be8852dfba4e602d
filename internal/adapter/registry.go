package adapter

import (
	"fmt"
	"sort"
	"sync"
)

// Params carries the connection settings of one host to an adapter factory.
type Params struct {
	Host    string
	Address string
	User    string
	Port    int
	Root    string
	Options map[string]string
}

// Factory builds an adapter bound to a single host.
type Factory func(Params) (Adapter, error)

// Registry resolves adapter factories by the name used in configuration.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory under name.
func (r *Registry) Register(name string, factory Factory) error {
	if name == "" {
		return fmt.Errorf("adapter name is empty")
	}
	if factory == nil {
		return fmt.Errorf("adapter %q: factory is nil", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("adapter %q already registered", name)
	}
	r.factories[name] = factory
	return nil
}

// New builds an adapter for params using the factory registered under name.
func (r *Registry) New(name string, params Params) (Adapter, error) {
	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown adapter %q (registered: %v)", name, r.Names())
	}
	a, err := factory(params)
	if err != nil {
		return nil, fmt.Errorf("adapter %q for host %s: %w", name, params.Host, err)
	}
	return a, nil
}

// Names returns the sorted names of all registered adapters.
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
