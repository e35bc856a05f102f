package agent_test

import (
	"context"
	"errors"
	"testing"

	"github.com/morvo-ai/engine/agent"
	"github.com/morvo-ai/engine/core/protocol"
)

// stubProvider echoes a canned reply and records the conversation it saw.
type stubProvider struct {
	reply    string
	err      error
	messages []protocol.Message
	model    string
}

func (p *stubProvider) Complete(ctx context.Context, model string, messages []protocol.Message) (string, error) {
	p.model = model
	p.messages = messages
	return p.reply, p.err
}

func TestNew_Validation(t *testing.T) {
	provider := &stubProvider{}

	if _, err := agent.New(&agent.Config{}, provider); !errors.Is(err, agent.ErrEmptyAgentName) {
		t.Errorf("New() without ID error = %v, want ErrEmptyAgentName", err)
	}
	if _, err := agent.New(&agent.Config{ID: "M1"}, nil); !errors.Is(err, agent.ErrNoProvider) {
		t.Errorf("New() without provider error = %v, want ErrNoProvider", err)
	}
}

func TestChat_PrependsSystemPrompt(t *testing.T) {
	provider := &stubProvider{reply: "strategy looks solid"}
	a, err := agent.New(&agent.Config{
		ID:           "M1",
		Specialty:    "strategy",
		SystemPrompt: "You are the strategist.",
	}, provider)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	reply, err := a.Chat(context.Background(), protocol.InitMessages(protocol.RoleUser, "How are rankings?"))
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if reply != "strategy looks solid" {
		t.Errorf("reply = %q, want provider reply", reply)
	}

	if len(provider.messages) != 2 {
		t.Fatalf("provider saw %d messages, want 2", len(provider.messages))
	}
	if provider.messages[0].Role != protocol.RoleSystem {
		t.Errorf("messages[0].Role = %q, want system", provider.messages[0].Role)
	}
	if provider.messages[1].Content != "How are rankings?" {
		t.Errorf("messages[1].Content = %q, want the user prompt", provider.messages[1].Content)
	}
}

func TestChat_KeepsExistingSystemMessage(t *testing.T) {
	provider := &stubProvider{reply: "ok"}
	a, err := agent.New(&agent.Config{ID: "M1", SystemPrompt: "default"}, provider)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	messages := []protocol.Message{
		protocol.NewMessage(protocol.RoleSystem, "custom context"),
		protocol.NewMessage(protocol.RoleUser, "hello"),
	}
	if _, err := a.Chat(context.Background(), messages); err != nil {
		t.Fatalf("Chat() error = %v", err)
	}

	if len(provider.messages) != 2 {
		t.Fatalf("provider saw %d messages, want 2 (no extra system message)", len(provider.messages))
	}
	if provider.messages[0].Content != "custom context" {
		t.Errorf("messages[0].Content = %q, want the caller's system message", provider.messages[0].Content)
	}
}

func TestChat_ProviderError(t *testing.T) {
	boom := errors.New("rate limited")
	provider := &stubProvider{err: boom}
	a, err := agent.New(&agent.Config{ID: "M2"}, provider)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if _, err := a.Chat(context.Background(), nil); !errors.Is(err, boom) {
		t.Errorf("Chat() error = %v, want wrapped provider error", err)
	}
}
