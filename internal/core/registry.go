package core

import (
	"fmt"
	"sync"
)

var (
	registry   = make(map[Retailer]RetailerDefinition)
	registryMu sync.RWMutex
)

// Register adds a retailer definition to the registry.
// Panics if the retailer is already registered or is not a known retailer.
func Register(def RetailerDefinition) {
	registryMu.Lock()
	defer registryMu.Unlock()

	r := def.Info.Retailer
	if r.Domain() == "" {
		panic(fmt.Sprintf("unknown retailer: %q", r))
	}
	if _, exists := registry[r]; exists {
		panic(fmt.Sprintf("retailer already registered: %s", r))
	}

	// Populate Columns from Schema if not set
	if len(def.Info.Columns) == 0 && len(def.Schema) > 0 {
		def.Info.Columns = make([]string, len(def.Schema))
		for i, c := range def.Schema {
			def.Info.Columns[i] = c.Name
		}
	}
	if def.Info.Label == "" {
		def.Info.Label = string(r)
	}

	registry[r] = def
}

// Get returns the definition for a retailer.
// Returns false if not registered.
func Get(r Retailer) (RetailerDefinition, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	def, ok := registry[r]
	return def, ok
}

// All returns all registered definitions in detection order.
func All() []RetailerDefinition {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]RetailerDefinition, 0, len(registry))
	for _, r := range Retailers {
		if def, ok := registry[r]; ok {
			result = append(result, def)
		}
	}
	return result
}

// RetailerCount returns the number of registered retailers.
func RetailerCount() int {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return len(registry)
}

// Clear removes all registered retailers.
// Primarily useful for testing.
func Clear() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[Retailer]RetailerDefinition)
}
