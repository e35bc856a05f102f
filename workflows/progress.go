package workflows

// ProgressFunc reports chain or parallel execution progress. It is called
// after each successful step, never before the first step and never on error.
//
// completed is 1-indexed; state is a snapshot of the accumulated state (for
// chains) or the step result (for parallel execution).
type ProgressFunc[TContext any] func(
	completed int,
	total int,
	state TContext,
)
