package platform

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry holds all registered platform adapters. It must be created via
// NewRegistry and passed explicitly to components that need it.
type Registry struct {
	mu       sync.RWMutex
	adapters map[Type]Adapter
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		adapters: map[Type]Adapter{},
	}
}

// Register adds an adapter to the registry.
func (r *Registry) Register(adapter Adapter) error {
	if adapter == nil {
		return fmt.Errorf("adapter is nil")
	}
	t := normalizeType(adapter.Type().String())
	if t == "" {
		return fmt.Errorf("platform type is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.adapters[t]; exists {
		return fmt.Errorf("platform already registered: %s", t)
	}
	r.adapters[t] = adapter
	return nil
}

// MustRegister calls Register and panics on error.
func (r *Registry) MustRegister(adapter Adapter) {
	if err := r.Register(adapter); err != nil {
		panic(err)
	}
}

// Get returns the adapter for the given platform type.
func (r *Registry) Get(platformType Type) (Adapter, bool) {
	t := normalizeType(platformType.String())
	r.mu.RLock()
	defer r.mu.RUnlock()
	adapter, ok := r.adapters[t]
	return adapter, ok
}

// ParseType validates a raw platform slug against the registry.
func (r *Registry) ParseType(raw string) (Type, error) {
	t := normalizeType(raw)
	if t == "" {
		return "", fmt.Errorf("platform is required")
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if _, ok := r.adapters[t]; !ok {
		return "", fmt.Errorf("unknown platform: %s", raw)
	}
	return t, nil
}

// List returns all registered adapters ordered by type.
func (r *Registry) List() []Adapter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	items := make([]Adapter, 0, len(r.adapters))
	for _, a := range r.adapters {
		items = append(items, a)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Type() < items[j].Type()
	})
	return items
}

// Types returns all registered platform types ordered alphabetically.
func (r *Registry) Types() []Type {
	adapters := r.List()
	types := make([]Type, 0, len(adapters))
	for _, a := range adapters {
		types = append(types, a.Type())
	}
	return types
}

func normalizeType(raw string) Type {
	return Type(strings.ToLower(strings.TrimSpace(raw)))
}
