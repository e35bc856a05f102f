package datasource_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/morvo-ai/engine/datasource"
)

// fakeSource counts fetches and can be switched into failure mode.
type fakeSource struct {
	name    string
	fetches int
	fail    bool
}

func (s *fakeSource) Name() string { return s.name }

func (s *fakeSource) Fetch(ctx context.Context, dataType string, params map[string]any) (map[string]any, error) {
	s.fetches++
	if s.fail {
		return nil, errors.New("api unavailable")
	}
	return map[string]any{"data_type": dataType, "fetch": s.fetches}, nil
}

func newManager(t *testing.T, now *time.Time) (*datasource.Manager, *fakeSource) {
	t.Helper()

	cfg := datasource.DefaultConfig()
	cfg.Observer = "noop"
	cfg.RefreshInterval = time.Hour

	manager, err := datasource.NewManager(cfg, datasource.WithClock(func() time.Time { return *now }))
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	source := &fakeSource{name: "semrush"}
	manager.Register(source)
	return manager, source
}

func TestFetch_CachesWithinInterval(t *testing.T) {
	now := time.Now().UTC()
	manager, source := newManager(t, &now)
	ctx := context.Background()
	params := map[string]any{"domain": "acme.sa"}

	first, err := manager.Fetch(ctx, "semrush", "keywords", params, false)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if !first.Fresh() {
		t.Errorf("first.Status = %q, want success", first.Status)
	}

	second, err := manager.Fetch(ctx, "semrush", "keywords", params, false)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if source.fetches != 1 {
		t.Errorf("source fetched %d times, want 1 (cache hit)", source.fetches)
	}
	if second.Data["fetch"] != first.Data["fetch"] {
		t.Error("cached fetch should return the same result")
	}

	// Different params miss the cache.
	if _, err := manager.Fetch(ctx, "semrush", "keywords", map[string]any{"domain": "other.sa"}, false); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if source.fetches != 2 {
		t.Errorf("source fetched %d times, want 2 for new params", source.fetches)
	}
}

func TestFetch_RefreshesAfterInterval(t *testing.T) {
	now := time.Now().UTC()
	manager, source := newManager(t, &now)
	ctx := context.Background()

	if _, err := manager.Fetch(ctx, "semrush", "keywords", nil, false); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	now = now.Add(2 * time.Hour)
	if _, err := manager.Fetch(ctx, "semrush", "keywords", nil, false); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if source.fetches != 2 {
		t.Errorf("source fetched %d times, want 2 after interval elapsed", source.fetches)
	}
}

func TestFetch_ForceRefresh(t *testing.T) {
	now := time.Now().UTC()
	manager, source := newManager(t, &now)
	ctx := context.Background()

	if _, err := manager.Fetch(ctx, "semrush", "keywords", nil, false); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if _, err := manager.Fetch(ctx, "semrush", "keywords", nil, true); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if source.fetches != 2 {
		t.Errorf("source fetched %d times, want 2 with force refresh", source.fetches)
	}
}

func TestFetch_StaleCacheOnError(t *testing.T) {
	now := time.Now().UTC()
	manager, source := newManager(t, &now)
	ctx := context.Background()

	first, err := manager.Fetch(ctx, "semrush", "keywords", nil, false)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	source.fail = true
	stale, err := manager.Fetch(ctx, "semrush", "keywords", nil, true)
	if err != nil {
		t.Fatalf("Fetch() with cached fallback error = %v, want nil", err)
	}
	if stale.Status != datasource.StatusStaleCache {
		t.Errorf("stale.Status = %q, want %q", stale.Status, datasource.StatusStaleCache)
	}
	if stale.Data["fetch"] != first.Data["fetch"] {
		t.Error("stale result should carry the cached data")
	}
	if stale.ErrorMessage == "" {
		t.Error("stale result should explain the fetch failure")
	}
	if !stale.NextRefresh.Before(now.Add(time.Hour)) {
		t.Error("stale result should advertise a shortened retry window")
	}
}

func TestFetch_ErrorWithoutCache(t *testing.T) {
	now := time.Now().UTC()
	manager, source := newManager(t, &now)
	source.fail = true

	result, err := manager.Fetch(context.Background(), "semrush", "keywords", nil, false)
	if err == nil {
		t.Fatal("Fetch() without cached fallback should fail")
	}
	if result.Status != datasource.StatusError {
		t.Errorf("result.Status = %q, want %q", result.Status, datasource.StatusError)
	}
}

func TestFetch_UnknownSource(t *testing.T) {
	now := time.Now().UTC()
	manager, _ := newManager(t, &now)

	if _, err := manager.Fetch(context.Background(), "brand24", "mentions", nil, false); !errors.Is(err, datasource.ErrUnknownSource) {
		t.Errorf("Fetch() error = %v, want ErrUnknownSource", err)
	}
}

func TestFetchMultiple(t *testing.T) {
	now := time.Now().UTC()
	manager, _ := newManager(t, &now)

	analytics := &fakeSource{name: "analytics"}
	manager.Register(analytics)

	results, err := manager.FetchMultiple(context.Background(), []datasource.Request{
		{Source: "semrush", DataType: "keywords"},
		{Source: "analytics", DataType: "traffic"},
	})
	if err != nil {
		t.Fatalf("FetchMultiple() error = %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}
	if !results["semrush:keywords"].Fresh() {
		t.Error("semrush result should be fresh")
	}
	if !results["analytics:traffic"].Fresh() {
		t.Error("analytics result should be fresh")
	}
}

func TestFetchMultiple_PartialFailure(t *testing.T) {
	now := time.Now().UTC()
	manager, source := newManager(t, &now)
	source.fail = true

	analytics := &fakeSource{name: "analytics"}
	manager.Register(analytics)

	results, err := manager.FetchMultiple(context.Background(), []datasource.Request{
		{Source: "semrush", DataType: "keywords"},
		{Source: "analytics", DataType: "traffic"},
	})
	if err != nil {
		t.Fatalf("FetchMultiple() error = %v", err)
	}

	if results["semrush:keywords"].Status != datasource.StatusError {
		t.Errorf("failed source status = %q, want error", results["semrush:keywords"].Status)
	}
	if !results["analytics:traffic"].Fresh() {
		t.Error("healthy source should still return fresh data")
	}
}
