package contextsync

import (
	"context"
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/morvo-ai/engine/hub"
	"github.com/morvo-ai/engine/memory"
	"github.com/morvo-ai/engine/observability"
)

// Stats is a snapshot of synchronization activity.
type Stats struct {
	Syncs      int64
	Pushes     int64
	Broadcasts int64
	LastSync   time.Time
}

// Manager merges agent memories into a cross-agent context and distributes
// filtered views back to the fleet. The hub is optional; when present,
// critical broadcasts are also published on the alerts topic.
type Manager struct {
	store       memory.Store
	hub         hub.Hub
	observer    observability.Observer
	recentLimit int

	statsMutex sync.Mutex
	syncs      int64
	pushes     int64
	broadcasts int64
	lastSync   time.Time
}

// New creates a Manager backed by the given store. Pass a nil hub to disable
// live message delivery.
func New(store memory.Store, h hub.Hub, cfg Config) (*Manager, error) {
	observer, err := observability.GetObserver(cfg.Observer)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve observer: %w", err)
	}

	recentLimit := cfg.RecentLimit
	if recentLimit <= 0 {
		recentLimit = defaultRecentLimit
	}

	return &Manager{
		store:       store,
		hub:         h,
		observer:    observer,
		recentLimit: recentLimit,
	}, nil
}

// Synchronize merges the shareable slice of every agent's recent memories
// with a fresh context snapshot into a single cross-agent context for the
// company, then shares each agent's filtered view back through the store.
//
// Memories are applied oldest to newest so later observations override
// earlier ones; keys listed in SharedKeys and the common keys are extracted.
// The data snapshot overlays the memory-derived values unrestricted; per-key
// filtering happens at distribution. Pass nil to rebuild from memories alone.
func (m *Manager) Synchronize(ctx context.Context, companyID string, data map[string]any) (map[string]any, error) {
	m.observer.OnEvent(ctx, observability.Event{
		Type:      EventSyncStart,
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    "contextsync.Manager",
		Data: map[string]any{
			"company_id":    companyID,
			"agent_count":   len(AgentIDs),
			"snapshot_keys": len(data),
		},
	})

	merged := make(map[string]any)
	shareable := keySet(SharedKeys)
	for _, key := range commonKeys {
		shareable[key] = true
	}

	for _, agentID := range AgentIDs {
		records, err := m.store.Recent(ctx, agentID, companyID, m.recentLimit)
		if err != nil {
			return nil, fmt.Errorf("%w: reading %s memories: %v", ErrSyncFailed, agentID, err)
		}

		// Recent returns newest first; walk backwards so the newest
		// value for a key wins the merge.
		for i := len(records) - 1; i >= 0; i-- {
			for key, value := range records[i].Data {
				if shareable[key] {
					merged[key] = value
				}
			}
		}
	}

	maps.Copy(merged, data)

	distributed := 0
	for _, agentID := range AgentIDs {
		view, err := m.FilterForAgent(agentID, merged)
		if err != nil {
			return nil, err
		}
		if len(view) == 0 {
			continue
		}

		record := memory.SharedRecord{
			FromAgent: "sync",
			ToAgent:   agentID,
			CompanyID: companyID,
			Data:      view,
		}
		if _, err := m.store.Share(ctx, record); err != nil {
			return nil, fmt.Errorf("%w: sharing view with %s: %v", ErrSyncFailed, agentID, err)
		}
		distributed++
	}

	m.statsMutex.Lock()
	m.syncs++
	m.lastSync = time.Now().UTC()
	m.statsMutex.Unlock()

	m.observer.OnEvent(ctx, observability.Event{
		Type:      EventSyncComplete,
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    "contextsync.Manager",
		Data: map[string]any{
			"company_id":  companyID,
			"merged_keys": len(merged),
			"distributed": distributed,
		},
	})

	return merged, nil
}

// FilterForAgent reduces a merged context to the keys an agent consumes: the
// common keys plus the agent's specialty keys.
func (m *Manager) FilterForAgent(agentID string, contextData map[string]any) (map[string]any, error) {
	specialty, ok := relevantKeys[agentID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAgent, agentID)
	}

	view := make(map[string]any)
	for _, key := range commonKeys {
		if value, ok := contextData[key]; ok {
			view[key] = value
		}
	}
	for _, key := range specialty {
		if value, ok := contextData[key]; ok {
			view[key] = value
		}
	}
	return view, nil
}

// Synchronized assembles an agent's effective context for a company: views
// shared with the agent form the base, and the agent's own memories overlay
// them. Both layers apply oldest to newest so the most recent value for a
// key wins, with own memories beating shared ones.
//
// The result is restricted to the requested keys; an empty keys slice means
// the default SharedKeys set.
func (m *Manager) Synchronized(ctx context.Context, agentID, companyID string, keys []string) (map[string]any, error) {
	if !IsAgent(agentID) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAgent, agentID)
	}
	if len(keys) == 0 {
		keys = SharedKeys
	}
	wanted := keySet(keys)

	result := make(map[string]any)

	sharedRecords, err := m.store.SharedWith(ctx, agentID, m.recentLimit)
	if err != nil {
		return nil, fmt.Errorf("reading shared context for %s: %w", agentID, err)
	}
	for i := len(sharedRecords) - 1; i >= 0; i-- {
		if sharedRecords[i].CompanyID != companyID {
			continue
		}
		for key, value := range sharedRecords[i].Data {
			if wanted[key] {
				result[key] = value
			}
		}
	}

	ownRecords, err := m.store.Recent(ctx, agentID, companyID, m.recentLimit)
	if err != nil {
		return nil, fmt.Errorf("reading %s memories: %w", agentID, err)
	}
	for i := len(ownRecords) - 1; i >= 0; i-- {
		for key, value := range ownRecords[i].Data {
			if wanted[key] {
				result[key] = value
			}
		}
	}

	return result, nil
}

// Push shares a context fragment from one agent to each target agent. Every
// target receives only the keys its specialty consumes, annotated with the
// sender and update time, and is notified live through the hub when one is
// attached.
func (m *Manager) Push(ctx context.Context, fromAgent string, targets []string, companyID string, data map[string]any) error {
	for _, toAgent := range targets {
		if !IsAgent(toAgent) {
			return fmt.Errorf("%w: %s", ErrUnknownAgent, toAgent)
		}
	}

	updatedAt := time.Now().UTC().Format(time.RFC3339)
	for _, toAgent := range targets {
		view, err := m.FilterForAgent(toAgent, data)
		if err != nil {
			return err
		}
		view["updated_by"] = fromAgent
		view["updated_at"] = updatedAt

		record := memory.SharedRecord{
			FromAgent: fromAgent,
			ToAgent:   toAgent,
			CompanyID: companyID,
			Data:      view,
		}
		if _, err := m.store.Share(ctx, record); err != nil {
			return fmt.Errorf("sharing context from %s to %s: %w", fromAgent, toAgent, err)
		}

		if m.hub != nil {
			if err := m.hub.Send(ctx, fromAgent, toAgent, view); err != nil {
				// Store is the source of truth; live delivery is best effort.
				m.observer.OnEvent(ctx, observability.Event{
					Type:      EventPush,
					Level:     observability.LevelWarning,
					Timestamp: time.Now(),
					Source:    "contextsync.Manager",
					Data: map[string]any{
						"from":  fromAgent,
						"to":    toAgent,
						"error": err.Error(),
					},
				})
			}
		}
	}

	m.statsMutex.Lock()
	m.pushes++
	m.statsMutex.Unlock()

	m.observer.OnEvent(ctx, observability.Event{
		Type:      EventPush,
		Level:     observability.LevelVerbose,
		Timestamp: time.Now(),
		Source:    "contextsync.Manager",
		Data: map[string]any{
			"from":       fromAgent,
			"targets":    targets,
			"company_id": companyID,
			"keys":       len(data),
		},
	})

	return nil
}

// BroadcastCritical distributes an urgent update to every agent in the
// category's priority order and publishes it on the alerts topic. Each agent
// stores only the slice of the update its specialty consumes; the topic
// notification carries the full payload. It returns the delivery order used.
func (m *Manager) BroadcastCritical(ctx context.Context, category, companyID string, data map[string]any) ([]string, error) {
	order, ok := priorityOrders[category]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCategory, category)
	}

	payload := maps.Clone(data)
	if payload == nil {
		payload = make(map[string]any)
	}
	payload["category"] = category

	for _, agentID := range order {
		view, err := m.FilterForAgent(agentID, data)
		if err != nil {
			return nil, err
		}
		view["category"] = category

		record := memory.SharedRecord{
			FromAgent: "broadcast",
			ToAgent:   agentID,
			CompanyID: companyID,
			Data:      view,
		}
		if _, err := m.store.Share(ctx, record); err != nil {
			return nil, fmt.Errorf("broadcasting to %s: %w", agentID, err)
		}
	}

	if m.hub != nil {
		if err := m.hub.Publish(ctx, "contextsync", alertTopic, payload); err != nil {
			return nil, fmt.Errorf("publishing broadcast: %w", err)
		}
	}

	m.statsMutex.Lock()
	m.broadcasts++
	m.statsMutex.Unlock()

	m.observer.OnEvent(ctx, observability.Event{
		Type:      EventBroadcast,
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    "contextsync.Manager",
		Data: map[string]any{
			"category":   category,
			"company_id": companyID,
			"order":      order,
		},
	})

	return order, nil
}

// Stats returns a snapshot of synchronization activity.
func (m *Manager) Stats() Stats {
	m.statsMutex.Lock()
	defer m.statsMutex.Unlock()

	return Stats{
		Syncs:      m.syncs,
		Pushes:     m.pushes,
		Broadcasts: m.broadcasts,
		LastSync:   m.lastSync,
	}
}

func keySet(keys []string) map[string]bool {
	set := make(map[string]bool, len(keys))
	for _, key := range keys {
		set[key] = true
	}
	return set
}
