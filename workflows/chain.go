package workflows

import (
	"context"
	"fmt"
	"time"

	"github.com/morvo-ai/engine/observability"
)

// StepProcessor processes a single item and updates the accumulated state.
// Each step receives the state produced by all previous steps and returns the
// updated state. Returning an error stops the chain.
//
// Example with an agent chat step:
//
//	processor := func(ctx context.Context, task string, conv Conversation) (Conversation, error) {
//	    reply, err := agent.Chat(ctx, task)
//	    if err != nil {
//	        return conv, err
//	    }
//	    return conv.Append(task, reply), nil
//	}
type StepProcessor[TItem, TContext any] func(
	ctx context.Context,
	item TItem,
	state TContext,
) (TContext, error)

// ChainResult contains the outcome of a chain execution. Final always holds a
// usable state: the fully accumulated state on success, or the last good state
// before the failing step. Intermediate is populated only when
// ChainConfig.CaptureIntermediateStates is set; index 0 is the initial state.
type ChainResult[TContext any] struct {
	Final        TContext
	Intermediate []TContext
	Steps        int
}

// ProcessChain executes items sequentially, folding state through each step.
//
// Processing is fail-fast: the first processor error stops the chain, wrapped
// in a ChainError carrying the step index, item, and state at failure.
// Context cancellation is checked before each step. An empty items slice
// returns immediately with Steps == 0.
//
// Start, per-step, and completion events are emitted through the observer
// named in cfg.
func ProcessChain[TItem, TContext any](
	ctx context.Context,
	cfg ChainConfig,
	items []TItem,
	initial TContext,
	processor StepProcessor[TItem, TContext],
	progress ProgressFunc[TContext],
) (ChainResult[TContext], error) {
	observer, err := observability.GetObserver(cfg.Observer)
	if err != nil {
		return ChainResult[TContext]{}, fmt.Errorf("failed to resolve observer: %w", err)
	}

	result := ChainResult[TContext]{
		Final: initial,
		Steps: 0,
	}

	observer.OnEvent(ctx, observability.Event{
		Type:      EventChainStart,
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    "workflows.ProcessChain",
		Data: map[string]any{
			"item_count":            len(items),
			"has_progress_callback": progress != nil,
			"capture_intermediate":  cfg.CaptureIntermediateStates,
		},
	})

	if len(items) == 0 {
		observer.OnEvent(ctx, observability.Event{
			Type:      EventChainComplete,
			Level:     observability.LevelInfo,
			Timestamp: time.Now(),
			Source:    "workflows.ProcessChain",
			Data: map[string]any{
				"steps_completed": 0,
				"error":           false,
			},
		})
		return result, nil
	}

	var intermediate []TContext
	if cfg.CaptureIntermediateStates {
		intermediate = make([]TContext, 0, len(items)+1)
		intermediate = append(intermediate, initial)
	}

	state := initial

	for i, item := range items {
		if err := ctx.Err(); err != nil {
			chainErr := &ChainError[TItem, TContext]{
				StepIndex: i,
				Item:      item,
				State:     state,
				Err:       fmt.Errorf("processing cancelled: %w", err),
			}
			observer.OnEvent(ctx, observability.Event{
				Type:      EventChainComplete,
				Level:     observability.LevelInfo,
				Timestamp: time.Now(),
				Source:    "workflows.ProcessChain",
				Data: map[string]any{
					"steps_completed": i,
					"error":           true,
					"error_type":      "cancellation",
				},
			})
			return result, chainErr
		}

		observer.OnEvent(ctx, observability.Event{
			Type:      EventStepStart,
			Level:     observability.LevelVerbose,
			Timestamp: time.Now(),
			Source:    "workflows.ProcessChain",
			Data: map[string]any{
				"step_index":  i,
				"total_steps": len(items),
			},
		})

		updated, err := processor(ctx, item, state)
		if err != nil {
			chainErr := &ChainError[TItem, TContext]{
				StepIndex: i,
				Item:      item,
				State:     state,
				Err:       err,
			}
			observer.OnEvent(ctx, observability.Event{
				Type:      EventStepComplete,
				Level:     observability.LevelVerbose,
				Timestamp: time.Now(),
				Source:    "workflows.ProcessChain",
				Data: map[string]any{
					"step_index":  i,
					"total_steps": len(items),
					"error":       true,
				},
			})
			observer.OnEvent(ctx, observability.Event{
				Type:      EventChainComplete,
				Level:     observability.LevelInfo,
				Timestamp: time.Now(),
				Source:    "workflows.ProcessChain",
				Data: map[string]any{
					"steps_completed": i,
					"error":           true,
					"error_type":      "processor",
				},
			})
			return result, chainErr
		}

		state = updated

		if cfg.CaptureIntermediateStates {
			intermediate = append(intermediate, state)
		}

		observer.OnEvent(ctx, observability.Event{
			Type:      EventStepComplete,
			Level:     observability.LevelVerbose,
			Timestamp: time.Now(),
			Source:    "workflows.ProcessChain",
			Data: map[string]any{
				"step_index":  i,
				"total_steps": len(items),
				"error":       false,
			},
		})

		if progress != nil {
			progress(i+1, len(items), state)
		}
	}

	result.Final = state
	result.Intermediate = intermediate
	result.Steps = len(items)

	observer.OnEvent(ctx, observability.Event{
		Type:      EventChainComplete,
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    "workflows.ProcessChain",
		Data: map[string]any{
			"steps_completed": len(items),
			"error":           false,
		},
	})

	return result, nil
}
