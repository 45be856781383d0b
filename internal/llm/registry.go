package llm

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Factory creates a provider from its connection settings.
type Factory func(cfg ProviderConfig) Provider

// Registry maps provider names to factories. Names are case-insensitive.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// Register adds a factory under name.
func (r *Registry) Register(name string, f Factory) error {
	if f == nil {
		return fmt.Errorf("cannot register nil factory")
	}
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return fmt.Errorf("provider name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("provider already registered: %s", name)
	}
	r.factories[name] = f
	return nil
}

// New creates the named provider with cfg.
func (r *Registry) New(name string, cfg ProviderConfig) (Provider, error) {
	r.mu.RLock()
	f, ok := r.factories[strings.ToLower(name)]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown provider: %s", name)
	}
	return f(cfg), nil
}

// List returns the registered names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[strings.ToLower(name)]
	return ok
}

// Count returns the number of registered providers.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.factories)
}

// Unregister removes name from the registry.
func (r *Registry) Unregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name = strings.ToLower(name)
	if _, ok := r.factories[name]; !ok {
		return fmt.Errorf("provider not found: %s", name)
	}
	delete(r.factories, name)
	return nil
}

// DefaultRegistry holds the built-in providers.
var DefaultRegistry = newDefaultRegistry()

func newDefaultRegistry() *Registry {
	r := NewRegistry()
	builtin := map[string]Factory{
		ProviderAnthropic: func(cfg ProviderConfig) Provider { return NewAnthropic(cfg) },
		ProviderOpenAI:    func(cfg ProviderConfig) Provider { return NewOpenAI(cfg) },
		ProviderGemini:    func(cfg ProviderConfig) Provider { return NewGemini(cfg) },
		ProviderOllama:    func(cfg ProviderConfig) Provider { return NewOllama(cfg) },
	}
	for name, f := range builtin {
		if err := r.Register(name, f); err != nil {
			panic(err)
		}
	}
	return r
}

// New creates a built-in provider by name.
func New(name string, cfg ProviderConfig) (Provider, error) {
	return DefaultRegistry.New(name, cfg)
}

// List returns the names of the built-in providers.
func List() []string {
	return DefaultRegistry.List()
}
