package memory

const (
	defaultMaxPerAgent = 50
	defaultRecentLimit = 10
	backendInMemory    = "memory"
	backendSQLite      = "sqlite"
)

// Config holds memory store initialization parameters.
type Config struct {
	Backend     string `json:"backend,omitempty" yaml:"backend"`           // "memory" or "sqlite"
	Path        string `json:"path,omitempty" yaml:"path"`                 // SQLite database file
	MaxPerAgent int    `json:"max_per_agent,omitempty" yaml:"max_per_agent"` // cap per (agent, company); 0 uses the default
}

// DefaultConfig returns the default memory configuration: an in-memory store
// capped at 50 records per agent and company.
func DefaultConfig() Config {
	return Config{
		Backend:     backendInMemory,
		MaxPerAgent: defaultMaxPerAgent,
	}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.Backend != "" {
		c.Backend = source.Backend
	}
	if source.Path != "" {
		c.Path = source.Path
	}
	if source.MaxPerAgent > 0 {
		c.MaxPerAgent = source.MaxPerAgent
	}
}

// NewStore creates a Store from configuration.
func NewStore(cfg *Config) (Store, error) {
	max := cfg.MaxPerAgent
	if max <= 0 {
		max = defaultMaxPerAgent
	}

	switch cfg.Backend {
	case "", backendInMemory:
		return NewMemoryStore(max), nil
	case backendSQLite:
		return NewSQLiteStore(cfg.Path, max)
	default:
		return nil, ErrUnknownBackend
	}
}
