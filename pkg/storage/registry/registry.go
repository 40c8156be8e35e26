// Package registry holds the Provider Registry and pluggable chunk
// Distribution Strategy (spec §4.2). Grounded on dittofs's pkg/registry
// "construct once, read many" named-resource map.
package registry

import (
	"context"
	"fmt"
	"sync"

	"github.com/chunkvault/chunkvault/pkg/storage"
)

// Registry is a read-mostly collection of named storage.Provider instances,
// populated once at startup.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]storage.Provider
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{providers: make(map[string]storage.Provider)}
}

// Register adds a provider under its own ProviderID.
func (r *Registry) Register(p storage.Provider) error {
	if p == nil {
		return fmt.Errorf("registry: cannot register nil provider")
	}
	id := p.ProviderID()
	if id == "" {
		return fmt.Errorf("registry: provider has empty ProviderID")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.providers[id]; exists {
		return fmt.Errorf("registry: provider %q already registered", id)
	}
	r.providers[id] = p
	return nil
}

// Get returns the provider registered under id.
func (r *Registry) Get(id string) (storage.Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, exists := r.providers[id]
	if !exists {
		return nil, fmt.Errorf("registry: provider %q not found", id)
	}
	return p, nil
}

// IDs returns the registered provider IDs. The returned slice is a copy.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.providers))
	for id := range r.providers {
		ids = append(ids, id)
	}
	return ids
}

// Count returns the number of registered providers.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.providers)
}

// HealthChecker is implemented by providers that can self-report liveness.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// HealthCheckAll runs HealthCheck against every registered provider that
// implements HealthChecker, returning the first error encountered together
// with the offending provider's ID.
func (r *Registry) HealthCheckAll(ctx context.Context) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for id, p := range r.providers {
		hc, ok := p.(HealthChecker)
		if !ok {
			continue
		}
		if err := hc.HealthCheck(ctx); err != nil {
			return id, err
		}
	}
	return "", nil
}
