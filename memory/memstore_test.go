package memory_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/morvo-ai/engine/memory"
)

func TestMemoryStore_AppendAndRecent(t *testing.T) {
	store := memory.NewMemoryStore(50)
	defer store.Close()

	ctx := context.Background()

	id, err := store.Append(ctx, memory.Record{
		AgentID:   "M1",
		CompanyID: "acme",
		Kind:      "sync",
		Data:      map[string]any{"seo_data": map[string]any{"score": 72}},
	})
	if err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if id == "" {
		t.Error("Append() returned empty ID")
	}

	recs, err := store.Recent(ctx, "M1", "acme", 10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("Recent() returned %d records, want 1", len(recs))
	}
	if recs[0].ID != id {
		t.Errorf("Recent()[0].ID = %q, want %q", recs[0].ID, id)
	}
	if recs[0].Kind != "sync" {
		t.Errorf("Recent()[0].Kind = %q, want %q", recs[0].Kind, "sync")
	}
	if recs[0].Timestamp.IsZero() {
		t.Error("Append() should assign a timestamp")
	}
}

func TestMemoryStore_Recent_NewestFirst(t *testing.T) {
	store := memory.NewMemoryStore(50)
	defer store.Close()

	ctx := context.Background()
	base := time.Now().UTC()

	for i := 0; i < 3; i++ {
		_, err := store.Append(ctx, memory.Record{
			AgentID:   "M2",
			CompanyID: "acme",
			Data:      map[string]any{"n": i},
			Timestamp: base.Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatalf("Append(%d) error = %v", i, err)
		}
	}

	recs, err := store.Recent(ctx, "M2", "acme", 10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("Recent() returned %d records, want 3", len(recs))
	}
	for i, want := range []int{2, 1, 0} {
		if got := recs[i].Data["n"]; got != want {
			t.Errorf("Recent()[%d].Data[n] = %v, want %d", i, got, want)
		}
	}
}

func TestMemoryStore_Recent_Limit(t *testing.T) {
	store := memory.NewMemoryStore(50)
	defer store.Close()

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		if _, err := store.Append(ctx, memory.Record{AgentID: "M3", CompanyID: "acme"}); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	recs, err := store.Recent(ctx, "M3", "acme", 2)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(recs) != 2 {
		t.Errorf("Recent(limit=2) returned %d records, want 2", len(recs))
	}
}

func TestMemoryStore_Append_CapsPerAgent(t *testing.T) {
	store := memory.NewMemoryStore(3)
	defer store.Close()

	ctx := context.Background()
	base := time.Now().UTC()

	for i := 0; i < 5; i++ {
		_, err := store.Append(ctx, memory.Record{
			AgentID:   "M5",
			CompanyID: "acme",
			Data:      map[string]any{"n": i},
			Timestamp: base.Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatalf("Append(%d) error = %v", i, err)
		}
	}

	recs, err := store.Recent(ctx, "M5", "acme", 100)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("cap of 3 not enforced: got %d records", len(recs))
	}
	// Oldest two should have been trimmed.
	for _, rec := range recs {
		if n := rec.Data["n"].(int); n < 2 {
			t.Errorf("record n=%d should have been trimmed", n)
		}
	}
}

func TestMemoryStore_CapIsPerCompany(t *testing.T) {
	store := memory.NewMemoryStore(2)
	defer store.Close()

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := store.Append(ctx, memory.Record{AgentID: "M1", CompanyID: "acme"}); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
		if _, err := store.Append(ctx, memory.Record{AgentID: "M1", CompanyID: "globex"}); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	for _, company := range []string{"acme", "globex"} {
		recs, err := store.Recent(ctx, "M1", company, 100)
		if err != nil {
			t.Fatalf("Recent(%s) error = %v", company, err)
		}
		if len(recs) != 2 {
			t.Errorf("Recent(%s) returned %d records, want 2", company, len(recs))
		}
	}
}

func TestMemoryStore_ShareAndSharedWith(t *testing.T) {
	store := memory.NewMemoryStore(50)
	defer store.Close()

	ctx := context.Background()

	id, err := store.Share(ctx, memory.SharedRecord{
		FromAgent: "M1",
		ToAgent:   "M4",
		CompanyID: "acme",
		Data:      map[string]any{"seo_data": "rankings up"},
	})
	if err != nil {
		t.Fatalf("Share() error = %v", err)
	}
	if id == "" {
		t.Error("Share() returned empty ID")
	}

	shared, err := store.SharedWith(ctx, "M4", 10)
	if err != nil {
		t.Fatalf("SharedWith() error = %v", err)
	}
	if len(shared) != 1 {
		t.Fatalf("SharedWith() returned %d records, want 1", len(shared))
	}
	if shared[0].FromAgent != "M1" {
		t.Errorf("SharedWith()[0].FromAgent = %q, want %q", shared[0].FromAgent, "M1")
	}

	// Nothing shared with the sender.
	shared, err = store.SharedWith(ctx, "M1", 10)
	if err != nil {
		t.Fatalf("SharedWith() error = %v", err)
	}
	if len(shared) != 0 {
		t.Errorf("SharedWith(M1) returned %d records, want 0", len(shared))
	}
}

func TestMemoryStore_Delete(t *testing.T) {
	store := memory.NewMemoryStore(50)
	defer store.Close()

	ctx := context.Background()
	id, err := store.Append(ctx, memory.Record{AgentID: "M1", CompanyID: "acme"})
	if err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	if err := store.Delete(ctx, id); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := store.Delete(ctx, "missing"); err != nil {
		t.Errorf("Delete(missing) error = %v, want nil", err)
	}

	recs, err := store.Recent(ctx, "M1", "acme", 10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("Recent() returned %d records after delete, want 0", len(recs))
	}
}

func TestMemoryStore_ConcurrentAppend(t *testing.T) {
	store := memory.NewMemoryStore(200)
	defer store.Close()

	ctx := context.Background()
	done := make(chan error, 20)
	for i := 0; i < 20; i++ {
		go func(n int) {
			_, err := store.Append(ctx, memory.Record{
				AgentID:   "M1",
				CompanyID: "acme",
				Data:      map[string]any{"n": fmt.Sprint(n)},
			})
			done <- err
		}(i)
	}
	for i := 0; i < 20; i++ {
		if err := <-done; err != nil {
			t.Fatalf("concurrent Append() error = %v", err)
		}
	}

	recs, err := store.Recent(ctx, "M1", "acme", 100)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(recs) != 20 {
		t.Errorf("Recent() returned %d records, want 20", len(recs))
	}
}
