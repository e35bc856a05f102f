package memory

import "context"

// Store persists agent memories and cross-agent context records.
// Implementations are safe for concurrent use.
//
// Append enforces the per-(agent, company) cap configured at construction:
// after a successful write the oldest records beyond the cap are removed.
type Store interface {
	// Append stores a record, assigning an ID and timestamp when unset,
	// and returns the record ID.
	Append(ctx context.Context, rec Record) (string, error)
	// Recent returns up to limit records for the agent and company,
	// newest first. A limit <= 0 applies the store default.
	Recent(ctx context.Context, agentID, companyID string, limit int) ([]Record, error)
	// Share stores a cross-agent context record and returns its ID.
	Share(ctx context.Context, rec SharedRecord) (string, error)
	// SharedWith returns up to limit records shared with the agent,
	// newest first.
	SharedWith(ctx context.Context, agentID string, limit int) ([]SharedRecord, error)
	// Trim removes the oldest records for the agent and company until at
	// most keep remain. Returns the number removed.
	Trim(ctx context.Context, agentID, companyID string, keep int) (int, error)
	// Delete removes a record by ID. Missing IDs are ignored.
	Delete(ctx context.Context, id string) error
	// Close releases store resources.
	Close() error
}
