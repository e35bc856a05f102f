package workflows

// ChainConfig configures sequential chain execution. The Observer field names
// an observer implementation so chains can be configured from JSON or YAML and
// resolved at runtime.
type ChainConfig struct {
	// CaptureIntermediateStates records state after each step into
	// ChainResult.Intermediate. Disabled by default to limit memory usage.
	CaptureIntermediateStates bool `json:"capture_intermediate_states" yaml:"capture_intermediate_states"`

	// Observer names the observer implementation ("noop", "slog", ...).
	Observer string `json:"observer" yaml:"observer"`
}

// DefaultChainConfig returns chain defaults: no intermediate capture,
// slog observer.
func DefaultChainConfig() ChainConfig {
	return ChainConfig{
		CaptureIntermediateStates: false,
		Observer:                  "slog",
	}
}

func (c *ChainConfig) Merge(source *ChainConfig) {
	if source.CaptureIntermediateStates {
		c.CaptureIntermediateStates = true
	}
	if source.Observer != "" {
		c.Observer = source.Observer
	}
}

// ParallelConfig configures concurrent execution.
//
// Worker pool sizing: MaxWorkers > 0 forces an exact count; MaxWorkers == 0
// auto-detects min(NumCPU*2, WorkerCap, item count).
type ParallelConfig struct {
	// MaxWorkers specifies exact worker pool size (0 = auto-detect).
	MaxWorkers int `json:"max_workers" yaml:"max_workers"`

	// WorkerCap limits auto-detected workers.
	WorkerCap int `json:"worker_cap" yaml:"worker_cap"`

	// FailFastNil controls error handling. Access through FailFast().
	// A pointer distinguishes "unset" (defaults to true) from an explicit
	// false in partial configs.
	FailFastNil *bool `json:"fail_fast" yaml:"fail_fast"`

	// Observer names the observer implementation ("noop", "slog", ...).
	Observer string `json:"observer" yaml:"observer"`
}

// FailFast reports whether the first task error cancels remaining work.
func (c *ParallelConfig) FailFast() bool {
	if c.FailFastNil == nil {
		return true
	}
	return *c.FailFastNil
}

// DefaultParallelConfig returns parallel defaults: auto-detected workers
// capped at 16, fail-fast enabled, slog observer. The cap suits I/O-bound
// work such as provider API calls.
func DefaultParallelConfig() ParallelConfig {
	failFast := true
	return ParallelConfig{
		MaxWorkers:  0,
		WorkerCap:   16,
		FailFastNil: &failFast,
		Observer:    "slog",
	}
}

func (c *ParallelConfig) Merge(source *ParallelConfig) {
	if source.MaxWorkers > 0 {
		c.MaxWorkers = source.MaxWorkers
	}
	if source.WorkerCap > 0 {
		c.WorkerCap = source.WorkerCap
	}
	if source.FailFastNil != nil {
		c.FailFastNil = source.FailFastNil
	}
	if source.Observer != "" {
		c.Observer = source.Observer
	}
}
