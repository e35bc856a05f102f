package hub

// Config defines configuration for a Hub instance.
type Config struct {
	Name string `json:"name,omitempty" yaml:"name"`

	// ChannelBufferSize caps each agent's inbox.
	ChannelBufferSize int `json:"channel_buffer_size,omitempty" yaml:"channel_buffer_size"`

	// Observer names the observer implementation ("noop", "slog", ...).
	Observer string `json:"observer,omitempty" yaml:"observer"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Name:              "morvo",
		ChannelBufferSize: 100,
		Observer:          "slog",
	}
}

func (c *Config) Merge(source *Config) {
	if source.Name != "" {
		c.Name = source.Name
	}
	if source.ChannelBufferSize > 0 {
		c.ChannelBufferSize = source.ChannelBufferSize
	}
	if source.Observer != "" {
		c.Observer = source.Observer
	}
}
