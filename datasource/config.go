package datasource

import "time"

const (
	defaultRefreshInterval = time.Hour
	defaultRetryInterval   = 5 * time.Minute
)

// Config defines configuration for the datasource manager.
type Config struct {
	// RefreshInterval is how long a cached result stays valid.
	RefreshInterval time.Duration `json:"refresh_interval" yaml:"refresh_interval"`

	// RetryInterval is the shortened window advertised after a failed
	// fetch so callers come back sooner.
	RetryInterval time.Duration `json:"retry_interval" yaml:"retry_interval"`

	// Observer names the observer implementation ("noop", "slog", ...).
	Observer string `json:"observer" yaml:"observer"`
}

// DefaultConfig returns a Config with production defaults: hourly refresh,
// five minute retry window.
func DefaultConfig() Config {
	return Config{
		RefreshInterval: defaultRefreshInterval,
		RetryInterval:   defaultRetryInterval,
		Observer:        "slog",
	}
}

func (c *Config) Merge(source *Config) {
	if source.RefreshInterval > 0 {
		c.RefreshInterval = source.RefreshInterval
	}
	if source.RetryInterval > 0 {
		c.RetryInterval = source.RetryInterval
	}
	if source.Observer != "" {
		c.Observer = source.Observer
	}
}
