// Package workflows provides generic execution patterns for multi-step agent
// work: sequential chains with state accumulation and parallel fan-out with
// ordered result collection.
//
// Chains implement a fold/reduce pattern. Each step receives the state
// accumulated by previous steps and returns an updated state:
//
//	tasks := []crew.Task{analyzeTask, writeTask, reviewTask}
//	result, err := workflows.ProcessChain(ctx, cfg, tasks, initial, processor, nil)
//
// Parallel execution distributes independent items across a worker pool and
// returns results in input order:
//
//	result, err := workflows.ProcessParallel(ctx, cfg, checks, runCheck, nil)
//
// Both patterns emit observability events at their execution boundaries and
// wrap failures with the failing item, its index, and the state at the time
// of failure.
package workflows
