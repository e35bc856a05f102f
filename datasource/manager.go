package datasource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/morvo-ai/engine/observability"
	"github.com/morvo-ai/engine/workflows"
)

var ErrUnknownSource = errors.New("unknown data source")

const (
	EventFetch       observability.EventType = "datasource.fetch"
	EventCacheHit    observability.EventType = "datasource.cache.hit"
	EventFetchFailed observability.EventType = "datasource.fetch.failed"
)

// Manager caches fetches across registered sources. Safe for concurrent use.
type Manager struct {
	refreshInterval time.Duration
	retryInterval   time.Duration
	observer        observability.Observer
	observerName    string
	now             func() time.Time

	mu      sync.RWMutex
	sources map[string]Source
	cache   map[string]map[string]Result
}

// ManagerOption customizes a Manager.
type ManagerOption func(*Manager)

// WithClock overrides the manager's time source.
func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates a Manager with no registered sources.
func NewManager(cfg Config, opts ...ManagerOption) (*Manager, error) {
	observer, err := observability.GetObserver(cfg.Observer)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve observer: %w", err)
	}

	refreshInterval := cfg.RefreshInterval
	if refreshInterval <= 0 {
		refreshInterval = defaultRefreshInterval
	}
	retryInterval := cfg.RetryInterval
	if retryInterval <= 0 {
		retryInterval = defaultRetryInterval
	}

	m := &Manager{
		refreshInterval: refreshInterval,
		retryInterval:   retryInterval,
		observer:        observer,
		observerName:    cfg.Observer,
		now:             time.Now,
		sources:         make(map[string]Source),
		cache:           make(map[string]map[string]Result),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Register adds a source. Registering a name twice replaces the connector
// and drops its cache lane.
func (m *Manager) Register(source Source) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sources[source.Name()] = source
	m.cache[source.Name()] = make(map[string]Result)
}

// Sources lists the registered source names.
func (m *Manager) Sources() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.sources))
	for name := range m.sources {
		names = append(names, name)
	}
	return names
}

// Fetch retrieves one data type from a source, consulting the cache first.
//
// A cached result younger than the refresh interval is returned as-is unless
// forceRefresh is set. When the connector fails and a cached result exists,
// the stale data is returned with StatusStaleCache and a nil error; the error
// is only surfaced when there is nothing to fall back on.
func (m *Manager) Fetch(ctx context.Context, sourceName, dataType string, params map[string]any, forceRefresh bool) (Result, error) {
	m.mu.RLock()
	source, exists := m.sources[sourceName]
	m.mu.RUnlock()
	if !exists {
		return Result{}, fmt.Errorf("%w: %s", ErrUnknownSource, sourceName)
	}

	cacheKey := makeCacheKey(dataType, params)
	now := m.now().UTC()

	if !forceRefresh {
		if cached, ok := m.lookup(sourceName, cacheKey); ok && now.Sub(cached.Timestamp) <= m.refreshInterval {
			m.observer.OnEvent(ctx, observability.Event{
				Type:      EventCacheHit,
				Level:     observability.LevelVerbose,
				Timestamp: time.Now(),
				Source:    "datasource.Manager",
				Data: map[string]any{
					"source":    sourceName,
					"data_type": dataType,
				},
			})
			return cached, nil
		}
	}

	data, err := source.Fetch(ctx, dataType, params)
	if err != nil {
		m.observer.OnEvent(ctx, observability.Event{
			Type:      EventFetchFailed,
			Level:     observability.LevelWarning,
			Timestamp: time.Now(),
			Source:    "datasource.Manager",
			Data: map[string]any{
				"source":    sourceName,
				"data_type": dataType,
				"error":     err.Error(),
			},
		})

		if cached, ok := m.lookup(sourceName, cacheKey); ok {
			return Result{
				Source:       sourceName,
				DataType:     dataType,
				Timestamp:    now,
				Status:       StatusStaleCache,
				Data:         cached.Data,
				ErrorMessage: fmt.Sprintf("fetch error, using cached data: %v", err),
				NextRefresh:  now.Add(m.retryInterval),
			}, nil
		}

		return Result{
			Source:       sourceName,
			DataType:     dataType,
			Timestamp:    now,
			Status:       StatusError,
			Data:         map[string]any{},
			ErrorMessage: err.Error(),
			NextRefresh:  now.Add(m.retryInterval),
		}, fmt.Errorf("fetching %s from %s: %w", dataType, sourceName, err)
	}

	result := Result{
		Source:      sourceName,
		DataType:    dataType,
		Timestamp:   now,
		Status:      StatusSuccess,
		Data:        data,
		NextRefresh: now.Add(m.refreshInterval),
	}

	m.mu.Lock()
	m.cache[sourceName][cacheKey] = result
	m.mu.Unlock()

	m.observer.OnEvent(ctx, observability.Event{
		Type:      EventFetch,
		Level:     observability.LevelVerbose,
		Timestamp: time.Now(),
		Source:    "datasource.Manager",
		Data: map[string]any{
			"source":    sourceName,
			"data_type": dataType,
		},
	})

	return result, nil
}

// FetchMultiple resolves a batch of requests concurrently and returns the
// results keyed by Request.Key. Individual failures appear as error-status
// results rather than failing the batch.
func (m *Manager) FetchMultiple(ctx context.Context, requests []Request) (map[string]Result, error) {
	failFast := false
	cfg := workflows.ParallelConfig{
		FailFastNil: &failFast,
		WorkerCap:   len(requests),
		Observer:    m.observerName,
	}

	type keyed struct {
		key    string
		result Result
	}

	parallel, err := workflows.ProcessParallel(ctx, cfg, requests,
		func(ctx context.Context, request Request) (keyed, error) {
			result, err := m.Fetch(ctx, request.Source, request.DataType, request.Params, request.ForceRefresh)
			if err != nil && errors.Is(err, ErrUnknownSource) {
				return keyed{}, err
			}
			// Fetch failures already carry an error-status result.
			return keyed{key: request.Key(), result: result}, nil
		}, nil)
	if err != nil {
		return nil, fmt.Errorf("batch fetch: %w", err)
	}

	results := make(map[string]Result, len(parallel.Results))
	for _, entry := range parallel.Results {
		results[entry.key] = entry.result
	}
	return results, nil
}

// Close closes every source that holds resources.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var firstErr error
	for _, source := range m.sources {
		if closer, ok := source.(io.Closer); ok {
			if err := closer.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (m *Manager) lookup(sourceName, cacheKey string) (Result, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	lane, ok := m.cache[sourceName]
	if !ok {
		return Result{}, false
	}
	cached, ok := lane[cacheKey]
	return cached, ok
}

// makeCacheKey builds a stable key from the data type and parameters.
// json.Marshal sorts map keys, so equal parameter sets always collide.
func makeCacheKey(dataType string, params map[string]any) string {
	encoded, err := json.Marshal(params)
	if err != nil {
		return dataType
	}
	return dataType + ":" + string(encoded)
}
