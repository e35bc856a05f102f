package agent

import (
	"fmt"
	"sort"
	"sync"

	"github.com/morvo-ai/engine/agent/providers"
)

// Info describes a registered agent without instantiating it.
type Info struct {
	ID        string
	Name      string
	Specialty string
}

// Registry manages named agent configurations with lazy instantiation.
// Configs are stored at registration time; agents are created on first
// Get call against the shared provider. Thread-safe for concurrent access.
type Registry struct {
	mu       sync.RWMutex
	provider providers.Provider
	configs  map[string]Config
	agents   map[string]Agent
}

// NewRegistry creates an empty Registry whose agents run on the given
// provider.
func NewRegistry(provider providers.Provider) *Registry {
	return &Registry{
		provider: provider,
		configs:  make(map[string]Config),
		agents:   make(map[string]Agent),
	}
}

// NewFleetRegistry creates a Registry pre-loaded with the five default
// Morvo marketing agents.
func NewFleetRegistry(provider providers.Provider) (*Registry, error) {
	registry := NewRegistry(provider)
	for id, cfg := range DefaultConfigs() {
		if err := registry.Register(id, cfg); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

// Get retrieves a named agent, instantiating it lazily on first access.
func (r *Registry) Get(id string) (Agent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, registered := r.configs[id]; !registered {
		return nil, fmt.Errorf("%w: %s", ErrAgentNotFound, id)
	}

	if a, exists := r.agents[id]; exists {
		return a, nil
	}

	cfg := r.configs[id]
	a, err := New(&cfg, r.provider)
	if err != nil {
		return nil, fmt.Errorf("failed to create agent %q: %w", id, err)
	}

	r.agents[id] = a
	return a, nil
}

// List returns information about all registered agents, sorted by ID.
func (r *Registry) List() []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]Info, 0, len(r.configs))
	for id, cfg := range r.configs {
		infos = append(infos, Info{
			ID:        id,
			Name:      cfg.Name,
			Specialty: cfg.Specialty,
		})
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].ID < infos[j].ID
	})

	return infos
}

// Register adds a named agent configuration to the registry.
// The agent is not instantiated until Get is called.
func (r *Registry) Register(id string, cfg Config) error {
	if id == "" {
		return ErrEmptyAgentName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.configs[id]; exists {
		return fmt.Errorf("%w: %s", ErrAgentExists, id)
	}

	r.configs[id] = cfg
	return nil
}

// Replace updates the configuration for an existing named agent.
// Any cached agent instance is invalidated; the next Get re-instantiates.
func (r *Registry) Replace(id string, cfg Config) error {
	if id == "" {
		return ErrEmptyAgentName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.configs[id]; !exists {
		return fmt.Errorf("%w: %s", ErrAgentNotFound, id)
	}

	r.configs[id] = cfg
	delete(r.agents, id)
	return nil
}

// Unregister removes a named agent from the registry.
func (r *Registry) Unregister(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.configs[id]; !exists {
		return fmt.Errorf("%w: %s", ErrAgentNotFound, id)
	}

	delete(r.configs, id)
	delete(r.agents, id)
	return nil
}
