package contextsync

const (
	defaultRecentLimit = 20
	alertTopic         = "alerts"
)

// Config defines configuration for the context synchronization manager.
type Config struct {
	// RecentLimit caps how many recent memories per agent feed a merge.
	RecentLimit int `json:"recent_limit" yaml:"recent_limit"`

	// Observer names the observer implementation ("noop", "slog", ...).
	Observer string `json:"observer" yaml:"observer"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		RecentLimit: defaultRecentLimit,
		Observer:    "slog",
	}
}

func (c *Config) Merge(source *Config) {
	if source.RecentLimit > 0 {
		c.RecentLimit = source.RecentLimit
	}
	if source.Observer != "" {
		c.Observer = source.Observer
	}
}
