package core

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// AdapterRegistry resolves one adapter per vendor id. Callers typically
// build one adapter instance per property/tenant and register it under a
// composite key ("opera:prop_123").
type AdapterRegistry struct {
	mu       sync.RWMutex
	adapters map[string]PMSAdapter
}

func NewAdapterRegistry() *AdapterRegistry {
	return &AdapterRegistry{adapters: make(map[string]PMSAdapter)}
}

func (r *AdapterRegistry) Register(key string, adapter PMSAdapter) error {
	if adapter == nil {
		return fmt.Errorf("core: adapter is nil")
	}
	id := strings.TrimSpace(key)
	if id == "" {
		id = strings.TrimSpace(adapter.VendorID())
	}
	if id == "" {
		return fmt.Errorf("core: adapter key is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.adapters[id]; exists {
		return fmt.Errorf("core: adapter already registered: %s", id)
	}
	r.adapters[id] = adapter
	return nil
}

func (r *AdapterRegistry) Get(key string) (PMSAdapter, bool) {
	id := strings.TrimSpace(key)
	if id == "" {
		return nil, false
	}
	r.mu.RLock()
	adapter, ok := r.adapters[id]
	r.mu.RUnlock()
	return adapter, ok
}

func (r *AdapterRegistry) Keys() []string {
	r.mu.RLock()
	keys := make([]string, 0, len(r.adapters))
	for id := range r.adapters {
		keys = append(keys, id)
	}
	r.mu.RUnlock()
	sort.Strings(keys)
	return keys
}

func (r *AdapterRegistry) List() []PMSAdapter {
	keys := r.Keys()
	r.mu.RLock()
	defer r.mu.RUnlock()
	adapters := make([]PMSAdapter, 0, len(keys))
	for _, id := range keys {
		adapters = append(adapters, r.adapters[id])
	}
	return adapters
}
