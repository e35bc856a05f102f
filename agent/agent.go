// Package agent defines the Morvo marketing agents and their registry.
package agent

import (
	"context"
	"fmt"

	"github.com/morvo-ai/engine/agent/providers"
	"github.com/morvo-ai/engine/core/protocol"
)

// Agent is a specialized marketing agent that can hold a conversation.
type Agent interface {
	// ID returns the fleet identifier (M1..M5).
	ID() string
	// Specialty returns the agent's marketing specialty.
	Specialty() string
	// Chat completes a conversation and returns the agent's reply. The
	// agent's system prompt is prepended when the conversation does not
	// open with a system message.
	Chat(ctx context.Context, messages []protocol.Message) (string, error)
}

type chatAgent struct {
	id           string
	specialty    string
	model        string
	systemPrompt string
	provider     providers.Provider
}

// New creates an Agent from configuration and a provider.
func New(cfg *Config, provider providers.Provider) (Agent, error) {
	if cfg.ID == "" {
		return nil, ErrEmptyAgentName
	}
	if provider == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoProvider, cfg.ID)
	}

	return &chatAgent{
		id:           cfg.ID,
		specialty:    cfg.Specialty,
		model:        cfg.Model,
		systemPrompt: cfg.SystemPrompt,
		provider:     provider,
	}, nil
}

func (a *chatAgent) ID() string {
	return a.id
}

func (a *chatAgent) Specialty() string {
	return a.specialty
}

func (a *chatAgent) Chat(ctx context.Context, messages []protocol.Message) (string, error) {
	if a.systemPrompt != "" && (len(messages) == 0 || messages[0].Role != protocol.RoleSystem) {
		withSystem := make([]protocol.Message, 0, len(messages)+1)
		withSystem = append(withSystem, protocol.NewMessage(protocol.RoleSystem, a.systemPrompt))
		withSystem = append(withSystem, messages...)
		messages = withSystem
	}

	reply, err := a.provider.Complete(ctx, a.model, messages)
	if err != nil {
		return "", fmt.Errorf("agent %s: %w", a.id, err)
	}
	return reply, nil
}
