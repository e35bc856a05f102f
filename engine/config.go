package engine

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/morvo-ai/engine/agent"
	"github.com/morvo-ai/engine/alerts"
	"github.com/morvo-ai/engine/contextsync"
	"github.com/morvo-ai/engine/datasource"
	"github.com/morvo-ai/engine/hub"
	"github.com/morvo-ai/engine/memory"
	"github.com/morvo-ai/engine/workflows"
)

// ProviderConfig selects the chat completion backend. An empty APIKey falls
// back to the OPENAI_API_KEY environment variable.
type ProviderConfig struct {
	APIKey  string `json:"api_key,omitempty" yaml:"api_key"`
	BaseURL string `json:"base_url,omitempty" yaml:"base_url"`
	Model   string `json:"model,omitempty" yaml:"model"`
}

func (c *ProviderConfig) Merge(source *ProviderConfig) {
	if source.APIKey != "" {
		c.APIKey = source.APIKey
	}
	if source.BaseURL != "" {
		c.BaseURL = source.BaseURL
	}
	if source.Model != "" {
		c.Model = source.Model
	}
}

// Config holds initialization parameters for all engine subsystems. Each
// subsystem section delegates to that subsystem's config-driven constructor.
type Config struct {
	Provider ProviderConfig        `json:"provider" yaml:"provider"`
	Memory   memory.Config         `json:"memory" yaml:"memory"`
	Hub      hub.Config            `json:"hub" yaml:"hub"`
	Context  contextsync.Config    `json:"context" yaml:"context"`
	Alerts   alerts.Config         `json:"alerts" yaml:"alerts"`
	Data     datasource.Config     `json:"data" yaml:"data"`
	Chain    workflows.ChainConfig `json:"chain" yaml:"chain"`

	// Agents overrides or extends the default fleet. Overrides for the
	// default agents are merged field by field.
	Agents map[string]agent.Config `json:"agents,omitempty" yaml:"agents"`

	// Companies lists the company IDs the alert monitor sweeps. An empty
	// list disables background monitoring.
	Companies []string `json:"companies,omitempty" yaml:"companies"`

	// Observer names the observer implementation for engine-level events.
	Observer string `json:"observer,omitempty" yaml:"observer"`
}

// DefaultConfig returns a Config with sensible defaults for all subsystems.
func DefaultConfig() Config {
	return Config{
		Memory:   memory.DefaultConfig(),
		Hub:      hub.DefaultConfig(),
		Context:  contextsync.DefaultConfig(),
		Alerts:   alerts.DefaultConfig(),
		Data:     datasource.DefaultConfig(),
		Chain:    workflows.DefaultChainConfig(),
		Observer: "slog",
	}
}

// Merge applies non-zero values from source into c, delegating to each
// subsystem's Merge method.
func (c *Config) Merge(source *Config) {
	c.Provider.Merge(&source.Provider)
	c.Memory.Merge(&source.Memory)
	c.Hub.Merge(&source.Hub)
	c.Context.Merge(&source.Context)
	c.Alerts.Merge(&source.Alerts)
	c.Data.Merge(&source.Data)
	c.Chain.Merge(&source.Chain)

	if len(source.Agents) > 0 {
		c.Agents = source.Agents
	}
	if len(source.Companies) > 0 {
		c.Companies = source.Companies
	}
	if source.Observer != "" {
		c.Observer = source.Observer
	}
}

// LoadConfig reads a YAML config file, merges it with defaults, and returns
// the resulting Config.
func LoadConfig(filename string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var loaded Config
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.Merge(&loaded)
	return &cfg, nil
}
