package oracle

import (
	"fmt"
	"sort"
	"sync"
)

// Factory creates an Oracle from configuration.
type Factory func(cfg *Config) (Oracle, error)

type registry struct {
	factories map[string]Factory
	mu        sync.RWMutex
}

var providers = &registry{
	factories: make(map[string]Factory),
}

// Register adds a named provider factory to the global registry.
// Returns ErrProviderExists if the name is already taken.
// Thread-safe for concurrent registration.
func Register(name string, factory Factory) error {
	if name == "" {
		return ErrEmptyProviderName
	}

	providers.mu.Lock()
	defer providers.mu.Unlock()

	if _, exists := providers.factories[name]; exists {
		return fmt.Errorf("%w: %s", ErrProviderExists, name)
	}

	providers.factories[name] = factory
	return nil
}

// Providers returns the names of all registered providers, sorted.
func Providers() []string {
	providers.mu.RLock()
	defer providers.mu.RUnlock()

	names := make([]string, 0, len(providers.factories))
	for name := range providers.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New creates an Oracle using the factory registered for cfg.Provider.
func New(cfg *Config) (Oracle, error) {
	providers.mu.RLock()
	factory, exists := providers.factories[cfg.Provider]
	providers.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("%w: %q", ErrProviderNotFound, cfg.Provider)
	}

	o, err := factory(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create oracle %q: %w", cfg.Provider, err)
	}
	return o, nil
}
