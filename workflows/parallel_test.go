package workflows_test

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/morvo-ai/engine/workflows"
)

func noopParallelConfig() workflows.ParallelConfig {
	cfg := workflows.DefaultParallelConfig()
	cfg.Observer = "noop"
	return cfg
}

func TestProcessParallel_PreservesOrder(t *testing.T) {
	items := []string{"seo", "social", "campaign", "content", "analytics"}

	processor := func(ctx context.Context, item string) (string, error) {
		return strings.ToUpper(item), nil
	}

	result, err := workflows.ProcessParallel(context.Background(), noopParallelConfig(), items, processor, nil)
	if err != nil {
		t.Fatalf("ProcessParallel() error = %v", err)
	}

	if len(result.Results) != len(items) {
		t.Fatalf("len(Results) = %d, want %d", len(result.Results), len(items))
	}
	for i, item := range items {
		if want := strings.ToUpper(item); result.Results[i] != want {
			t.Errorf("Results[%d] = %q, want %q", i, result.Results[i], want)
		}
	}
}

func TestProcessParallel_EmptyItems(t *testing.T) {
	processor := func(ctx context.Context, item int) (int, error) {
		t.Error("processor should not be called for empty items")
		return 0, nil
	}

	result, err := workflows.ProcessParallel(context.Background(), noopParallelConfig(), nil, processor, nil)
	if err != nil {
		t.Fatalf("ProcessParallel() error = %v", err)
	}
	if len(result.Results) != 0 || len(result.Errors) != 0 {
		t.Errorf("result = %+v, want empty", result)
	}
}

func TestProcessParallel_FailFast(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	boom := errors.New("boom")

	processor := func(ctx context.Context, item int) (int, error) {
		if item == 3 {
			return 0, boom
		}
		return item * 2, nil
	}

	result, err := workflows.ProcessParallel(context.Background(), noopParallelConfig(), items, processor, nil)
	if err == nil {
		t.Fatal("ProcessParallel() should fail")
	}

	var parErr *workflows.ParallelError[int]
	if !errors.As(err, &parErr) {
		t.Fatalf("error type = %T, want *ParallelError", err)
	}
	if !errors.Is(err, boom) {
		t.Error("errors.Is(err, boom) = false, want true")
	}
	if len(result.Errors) == 0 {
		t.Error("result.Errors should contain the failed task")
	}
}

func TestProcessParallel_CollectAllErrors(t *testing.T) {
	cfg := noopParallelConfig()
	failFast := false
	cfg.FailFastNil = &failFast

	items := []int{1, 2, 3, 4}
	processor := func(ctx context.Context, item int) (int, error) {
		if item%2 == 0 {
			return 0, errors.New("even item")
		}
		return item, nil
	}

	result, err := workflows.ProcessParallel(context.Background(), cfg, items, processor, nil)
	if err != nil {
		t.Fatalf("ProcessParallel() error = %v, want nil with partial failures", err)
	}

	if len(result.Results) != 2 {
		t.Errorf("len(Results) = %d, want 2", len(result.Results))
	}
	if len(result.Errors) != 2 {
		t.Fatalf("len(Errors) = %d, want 2", len(result.Errors))
	}
	if result.Errors[0].Index != 1 || result.Errors[1].Index != 3 {
		t.Errorf("error indices = %d,%d, want 1,3", result.Errors[0].Index, result.Errors[1].Index)
	}
}

func TestProcessParallel_AllFailed(t *testing.T) {
	cfg := noopParallelConfig()
	failFast := false
	cfg.FailFastNil = &failFast

	processor := func(ctx context.Context, item int) (int, error) {
		return 0, errors.New("always fails")
	}

	_, err := workflows.ProcessParallel(context.Background(), cfg, []int{1, 2, 3}, processor, nil)
	if err == nil {
		t.Error("ProcessParallel() should fail when all items fail")
	}
}

func TestProcessParallel_ExactWorkerCount(t *testing.T) {
	cfg := noopParallelConfig()
	cfg.MaxWorkers = 1

	var active, maxActive atomic.Int32
	processor := func(ctx context.Context, item int) (int, error) {
		current := active.Add(1)
		if current > maxActive.Load() {
			maxActive.Store(current)
		}
		defer active.Add(-1)
		return item, nil
	}

	if _, err := workflows.ProcessParallel(context.Background(), cfg, []int{1, 2, 3, 4}, processor, nil); err != nil {
		t.Fatalf("ProcessParallel() error = %v", err)
	}
	if maxActive.Load() != 1 {
		t.Errorf("max concurrent workers = %d, want 1", maxActive.Load())
	}
}

func TestProcessParallel_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	processor := func(ctx context.Context, item int) (int, error) {
		return item, nil
	}

	_, err := workflows.ProcessParallel(ctx, noopParallelConfig(), []int{1, 2, 3}, processor, nil)
	if err == nil {
		t.Error("ProcessParallel() with cancelled context should fail")
	}
}

func TestParallelError_Message(t *testing.T) {
	single := &workflows.ParallelError[string]{
		Errors: []workflows.TaskError[string]{
			{Index: 5, Item: "x", Err: errors.New("connection refused")},
		},
	}
	if got := single.Error(); !strings.Contains(got, "item 5") {
		t.Errorf("single error message = %q, want item index", got)
	}

	multi := &workflows.ParallelError[string]{
		Errors: []workflows.TaskError[string]{
			{Index: 0, Item: "a", Err: errors.New("timeout")},
			{Index: 1, Item: "b", Err: errors.New("timeout")},
			{Index: 2, Item: "c", Err: errors.New("not found")},
		},
	}
	got := multi.Error()
	if !strings.Contains(got, "3 items failed") || !strings.Contains(got, "2 error types") {
		t.Errorf("multi error message = %q, want counts", got)
	}
}
