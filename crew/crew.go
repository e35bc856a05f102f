// Package crew runs ordered multi-agent task pipelines. Each task is handed
// to one agent, and every agent sees the outputs of the tasks that ran before
// it, so later specialists build on earlier analysis.
package crew

import (
	"context"
	"fmt"

	"github.com/morvo-ai/engine/agent"
	"github.com/morvo-ai/engine/core/protocol"
	"github.com/morvo-ai/engine/workflows"
)

// Task assigns a prompt to one agent in the pipeline.
type Task struct {
	Name    string `json:"name" yaml:"name"`
	AgentID string `json:"agent_id" yaml:"agent_id"`
	Prompt  string `json:"prompt" yaml:"prompt"`
}

// Result is one completed task.
type Result struct {
	Task    string
	AgentID string
	Prompt  string
	Output  string
}

// Transcript accumulates results as a pipeline runs.
type Transcript struct {
	CompanyID string
	Results   []Result
}

// Output returns the final task's output, or empty for an empty transcript.
func (t Transcript) Output() string {
	if len(t.Results) == 0 {
		return ""
	}
	return t.Results[len(t.Results)-1].Output
}

// conversation rebuilds the pipeline so far as chat history: each completed
// task is a user prompt and an assistant reply.
func (t Transcript) conversation() []protocol.Message {
	messages := make([]protocol.Message, 0, len(t.Results)*2)
	for _, result := range t.Results {
		messages = append(messages,
			protocol.NewMessage(protocol.RoleUser, result.Prompt),
			protocol.NewMessage(protocol.RoleAssistant, result.Output),
		)
	}
	return messages
}

// Crew executes task pipelines against a registry of agents.
type Crew struct {
	registry *agent.Registry
	chainCfg workflows.ChainConfig
}

// New creates a Crew. The chain configuration controls observability and
// intermediate transcript capture.
func New(registry *agent.Registry, chainCfg workflows.ChainConfig) *Crew {
	return &Crew{
		registry: registry,
		chainCfg: chainCfg,
	}
}

// Run executes the tasks in order, folding each output into the transcript.
// The run stops at the first task failure; the returned error carries the
// failing task and the transcript up to that point.
func (c *Crew) Run(ctx context.Context, companyID string, tasks []Task) (Transcript, error) {
	initial := Transcript{CompanyID: companyID}

	result, err := workflows.ProcessChain(ctx, c.chainCfg, tasks, initial,
		func(ctx context.Context, task Task, transcript Transcript) (Transcript, error) {
			a, err := c.registry.Get(task.AgentID)
			if err != nil {
				return transcript, fmt.Errorf("task %q: %w", task.Name, err)
			}

			messages := append(transcript.conversation(),
				protocol.NewMessage(protocol.RoleUser, task.Prompt))

			output, err := a.Chat(ctx, messages)
			if err != nil {
				return transcript, fmt.Errorf("task %q: %w", task.Name, err)
			}

			transcript.Results = append(transcript.Results, Result{
				Task:    task.Name,
				AgentID: task.AgentID,
				Prompt:  task.Prompt,
				Output:  output,
			})
			return transcript, nil
		}, nil)
	if err != nil {
		return result.Final, err
	}

	return result.Final, nil
}
