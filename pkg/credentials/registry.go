package credentials

import (
	"sort"
	"sync"
)

// Registry maps credential type identifiers to their contracts.
type Registry struct {
	mu        sync.RWMutex
	contracts map[string]Contract
}

// NewRegistry creates an empty credential contract registry.
func NewRegistry() *Registry {
	return &Registry{contracts: make(map[string]Contract)}
}

// NewDefaultRegistry creates a registry holding the built-in credential contracts.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	for credentialType, contract := range defaultContracts() {
		r.Register(credentialType, contract)
	}

	return r
}

// Register adds or replaces the contract of a credential type.
func (r *Registry) Register(credentialType string, contract Contract) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.contracts[credentialType] = contract
}

// Lookup returns the contract of a credential type.
func (r *Registry) Lookup(credentialType string) (Contract, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	contract, ok := r.contracts[credentialType]

	return contract, ok
}

// Types returns the registered credential types in ascending order.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.contracts))
	for credentialType := range r.contracts {
		types = append(types, credentialType)
	}

	sort.Strings(types)

	return types
}
