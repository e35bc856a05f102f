package memory

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Table names follow the original platform schema: agent_memories for
// per-agent records, cross_agent_context for shared records. Timestamps are
// stored as Unix nanoseconds so ordering by created_at is chronological.
const schema = `
CREATE TABLE IF NOT EXISTS agent_memories (
	id         TEXT PRIMARY KEY,
	agent_id   TEXT NOT NULL,
	company_id TEXT NOT NULL,
	kind       TEXT NOT NULL DEFAULT '',
	data       TEXT NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_memories_owner
	ON agent_memories(agent_id, company_id, created_at);

CREATE TABLE IF NOT EXISTS cross_agent_context (
	id         TEXT PRIMARY KEY,
	from_agent TEXT NOT NULL,
	to_agent   TEXT NOT NULL,
	company_id TEXT NOT NULL,
	data       TEXT NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_context_target
	ON cross_agent_context(to_agent, created_at);
`

type sqliteStore struct {
	db          *sql.DB
	maxPerAgent int
}

// NewSQLiteStore creates a Store backed by a SQLite database at path,
// creating the file and parent directory as needed.
func NewSQLiteStore(path string, maxPerAgent int) (Store, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: sqlite path is empty", ErrSaveFailed)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &sqliteStore{db: db, maxPerAgent: maxPerAgent}, nil
}

func (s *sqliteStore) Append(ctx context.Context, rec Record) (string, error) {
	rec.stamp()

	data, err := json.Marshal(rec.Data)
	if err != nil {
		return "", fmt.Errorf("%w: encode record: %v", ErrSaveFailed, err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO agent_memories (id, agent_id, company_id, kind, data, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.AgentID, rec.CompanyID, rec.Kind, string(data),
		rec.Timestamp.UnixNano(),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}

	if _, err := s.Trim(ctx, rec.AgentID, rec.CompanyID, s.maxPerAgent); err != nil {
		return "", err
	}

	return rec.ID, nil
}

func (s *sqliteStore) Recent(ctx context.Context, agentID, companyID string, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, agent_id, company_id, kind, data, created_at
		 FROM agent_memories
		 WHERE agent_id = ? AND company_id = ?
		 ORDER BY created_at DESC
		 LIMIT ?`,
		agentID, companyID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadFailed, err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		var data string
		var created int64
		if err := rows.Scan(&rec.ID, &rec.AgentID, &rec.CompanyID, &rec.Kind, &data, &created); err != nil {
			return nil, fmt.Errorf("%w: scan: %v", ErrLoadFailed, err)
		}
		if err := json.Unmarshal([]byte(data), &rec.Data); err != nil {
			return nil, fmt.Errorf("%w: decode record %s: %v", ErrLoadFailed, rec.ID, err)
		}
		rec.Timestamp = time.Unix(0, created).UTC()
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *sqliteStore) Share(ctx context.Context, rec SharedRecord) (string, error) {
	rec.stamp()

	data, err := json.Marshal(rec.Data)
	if err != nil {
		return "", fmt.Errorf("%w: encode shared record: %v", ErrSaveFailed, err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO cross_agent_context (id, from_agent, to_agent, company_id, data, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.FromAgent, rec.ToAgent, rec.CompanyID, string(data),
		rec.Timestamp.UnixNano(),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}
	return rec.ID, nil
}

func (s *sqliteStore) SharedWith(ctx context.Context, agentID string, limit int) ([]SharedRecord, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, from_agent, to_agent, company_id, data, created_at
		 FROM cross_agent_context
		 WHERE to_agent = ?
		 ORDER BY created_at DESC
		 LIMIT ?`,
		agentID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadFailed, err)
	}
	defer rows.Close()

	var out []SharedRecord
	for rows.Next() {
		var rec SharedRecord
		var data string
		var created int64
		if err := rows.Scan(&rec.ID, &rec.FromAgent, &rec.ToAgent, &rec.CompanyID, &data, &created); err != nil {
			return nil, fmt.Errorf("%w: scan: %v", ErrLoadFailed, err)
		}
		if err := json.Unmarshal([]byte(data), &rec.Data); err != nil {
			return nil, fmt.Errorf("%w: decode shared record %s: %v", ErrLoadFailed, rec.ID, err)
		}
		rec.Timestamp = time.Unix(0, created).UTC()
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *sqliteStore) Trim(ctx context.Context, agentID, companyID string, keep int) (int, error) {
	if keep <= 0 {
		return 0, nil
	}

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM agent_memories
		 WHERE agent_id = ? AND company_id = ?
		   AND id NOT IN (
			SELECT id FROM agent_memories
			WHERE agent_id = ? AND company_id = ?
			ORDER BY created_at DESC
			LIMIT ?
		   )`,
		agentID, companyID, agentID, companyID, keep,
	)
	if err != nil {
		return 0, fmt.Errorf("trim memories: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return int(n), nil
}

func (s *sqliteStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM agent_memories WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete record %s: %w", id, err)
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM cross_agent_context WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete shared record %s: %w", id, err)
	}
	return nil
}

func (s *sqliteStore) Close() error {
	return s.db.Close()
}
