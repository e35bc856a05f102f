// Package memory persists the small JSON blobs the Morvo agents accumulate:
// per-agent memory records keyed by agent/company/timestamp, and cross-agent
// context records pushed from one agent to another. Stores cap each
// (agent, company) list at the N most-recent records, trimming oldest first.
package memory

import (
	"time"

	"github.com/google/uuid"
)

// Record is a single agent memory: a JSON blob tagged with the owning agent,
// the company it concerns, and the moment it was written.
type Record struct {
	ID        string         `json:"id"`
	AgentID   string         `json:"agent_id"`
	CompanyID string         `json:"company_id"`
	Kind      string         `json:"kind,omitempty"`
	Data      map[string]any `json:"data"`
	Timestamp time.Time      `json:"timestamp"`
}

// SharedRecord is context shared from one agent to another. Shared records
// form the base layer when an agent's synchronized context is assembled.
type SharedRecord struct {
	ID        string         `json:"id"`
	FromAgent string         `json:"from_agent"`
	ToAgent   string         `json:"to_agent"`
	CompanyID string         `json:"company_id"`
	Data      map[string]any `json:"data"`
	Timestamp time.Time      `json:"timestamp"`
}

// stamp fills in the ID and timestamp when the caller left them zero.
func (r *Record) stamp() {
	if r.ID == "" {
		r.ID = uuid.Must(uuid.NewV7()).String()
	}
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now().UTC()
	}
}

func (r *SharedRecord) stamp() {
	if r.ID == "" {
		r.ID = uuid.Must(uuid.NewV7()).String()
	}
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now().UTC()
	}
}
