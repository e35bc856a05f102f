package memory

import (
	"context"
	"maps"
	"sort"
	"sync"
)

type memoryStore struct {
	maxPerAgent int

	mu      sync.RWMutex
	records map[string][]Record       // keyed by agentID + "/" + companyID, oldest first
	shared  map[string][]SharedRecord // keyed by target agentID, oldest first
}

// NewMemoryStore creates a Store backed by process memory. Records do not
// survive a restart; use the SQLite backend for persistence.
func NewMemoryStore(maxPerAgent int) Store {
	return &memoryStore{
		maxPerAgent: maxPerAgent,
		records:     make(map[string][]Record),
		shared:      make(map[string][]SharedRecord),
	}
}

func recordKey(agentID, companyID string) string {
	return agentID + "/" + companyID
}

func (s *memoryStore) Append(_ context.Context, rec Record) (string, error) {
	rec.stamp()
	rec.Data = maps.Clone(rec.Data)

	key := recordKey(rec.AgentID, rec.CompanyID)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[key] = append(s.records[key], rec)
	s.trimLocked(key, s.maxPerAgent)

	return rec.ID, nil
}

func (s *memoryStore) Recent(_ context.Context, agentID, companyID string, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.records[recordKey(agentID, companyID)]

	n := min(limit, len(stored))
	out := make([]Record, 0, n)
	for i := len(stored) - 1; i >= 0 && len(out) < n; i-- {
		rec := stored[i]
		rec.Data = maps.Clone(rec.Data)
		out = append(out, rec)
	}
	return out, nil
}

func (s *memoryStore) Share(_ context.Context, rec SharedRecord) (string, error) {
	rec.stamp()
	rec.Data = maps.Clone(rec.Data)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.shared[rec.ToAgent] = append(s.shared[rec.ToAgent], rec)
	return rec.ID, nil
}

func (s *memoryStore) SharedWith(_ context.Context, agentID string, limit int) ([]SharedRecord, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.shared[agentID]

	n := min(limit, len(stored))
	out := make([]SharedRecord, 0, n)
	for i := len(stored) - 1; i >= 0 && len(out) < n; i-- {
		rec := stored[i]
		rec.Data = maps.Clone(rec.Data)
		out = append(out, rec)
	}
	return out, nil
}

func (s *memoryStore) Trim(_ context.Context, agentID, companyID string, keep int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.trimLocked(recordKey(agentID, companyID), keep), nil
}

// trimLocked drops the oldest records beyond keep. Records are held oldest
// first, sorted defensively in case callers appended out of order.
func (s *memoryStore) trimLocked(key string, keep int) int {
	stored := s.records[key]
	if keep <= 0 || len(stored) <= keep {
		return 0
	}

	sort.SliceStable(stored, func(i, j int) bool {
		return stored[i].Timestamp.Before(stored[j].Timestamp)
	})

	removed := len(stored) - keep
	s.records[key] = append([]Record(nil), stored[removed:]...)
	return removed
}

func (s *memoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, stored := range s.records {
		for i, rec := range stored {
			if rec.ID == id {
				s.records[key] = append(stored[:i:i], stored[i+1:]...)
				return nil
			}
		}
	}
	for key, stored := range s.shared {
		for i, rec := range stored {
			if rec.ID == id {
				s.shared[key] = append(stored[:i:i], stored[i+1:]...)
				return nil
			}
		}
	}
	return nil
}

func (s *memoryStore) Close() error {
	return nil
}
