package alerts

import (
	"context"
	"fmt"
	"time"

	"github.com/morvo-ai/engine/observability"
)

// Monitor sweeps a set of companies for opportunities on an interval. A
// failed sweep is retried after the configured backoff instead of waiting a
// full interval.
type Monitor struct {
	system    *System
	companies []string
	interval  time.Duration
	backoff   time.Duration
	observer  observability.Observer
}

// NewMonitor creates a monitor over the given companies.
func NewMonitor(system *System, companies []string, cfg Config) (*Monitor, error) {
	observer, err := observability.GetObserver(cfg.Observer)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve observer: %w", err)
	}

	interval := cfg.CheckInterval
	if interval <= 0 {
		interval = defaultCheckInterval
	}
	backoff := cfg.RetryBackoff
	if backoff <= 0 {
		backoff = defaultRetryBackoff
	}

	return &Monitor{
		system:    system,
		companies: companies,
		interval:  interval,
		backoff:   backoff,
		observer:  observer,
	}, nil
}

// Run sweeps until the context is cancelled. It blocks; start it in a
// goroutine for background monitoring.
func (m *Monitor) Run(ctx context.Context) error {
	for {
		wait := m.interval
		if err := m.Sweep(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			m.observer.OnEvent(ctx, observability.Event{
				Type:      EventSweepFailed,
				Level:     observability.LevelError,
				Timestamp: time.Now(),
				Source:    "alerts.Monitor",
				Data: map[string]any{
					"error":   err.Error(),
					"backoff": m.backoff.String(),
				},
			})
			wait = m.backoff
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

// Sweep runs all detectors for every monitored company and stores what they
// find.
func (m *Monitor) Sweep(ctx context.Context) error {
	m.observer.OnEvent(ctx, observability.Event{
		Type:      EventSweepStart,
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    "alerts.Monitor",
		Data:      map[string]any{"companies": len(m.companies)},
	})

	stored := 0
	for _, companyID := range m.companies {
		detected, err := m.system.CheckAll(ctx, companyID)
		if err != nil {
			return fmt.Errorf("sweeping %s: %w", companyID, err)
		}

		for _, alert := range detected {
			if _, err := m.system.StoreAlert(ctx, alert); err != nil {
				return fmt.Errorf("sweeping %s: %w", companyID, err)
			}
			stored++
		}
	}

	m.observer.OnEvent(ctx, observability.Event{
		Type:      EventSweepComplete,
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    "alerts.Monitor",
		Data: map[string]any{
			"companies": len(m.companies),
			"stored":    stored,
		},
	})

	return nil
}
