package session_test

import (
	"sync"
	"testing"

	"github.com/morvo-ai/engine/core/protocol"
	"github.com/morvo-ai/engine/session"
)

func TestMemorySession_ID(t *testing.T) {
	a := session.NewMemorySession()
	b := session.NewMemorySession()

	if a.ID() == "" {
		t.Error("session ID should not be empty")
	}
	if a.ID() == b.ID() {
		t.Error("sessions should have unique IDs")
	}
}

func TestMemorySession_Messages(t *testing.T) {
	s := session.NewMemorySession()

	s.AddMessage(protocol.NewMessage(protocol.RoleUser, "hello"))
	s.AddMessage(protocol.NewMessage(protocol.RoleAssistant, "hi there"))

	messages := s.Messages()
	if len(messages) != 2 {
		t.Fatalf("len(messages) = %d, want 2", len(messages))
	}
	if messages[0].Role != protocol.RoleUser {
		t.Errorf("messages[0].Role = %q, want %q", messages[0].Role, protocol.RoleUser)
	}
	if messages[1].Content != "hi there" {
		t.Errorf("messages[1].Content = %q, want %q", messages[1].Content, "hi there")
	}

	// Mutating the copy must not affect the session.
	messages[0].Content = "mutated"
	if s.Messages()[0].Content != "hello" {
		t.Error("Messages() should return a defensive copy")
	}
}

func TestMemorySession_Clear(t *testing.T) {
	s := session.NewMemorySession()
	s.AddMessage(protocol.NewMessage(protocol.RoleUser, "hello"))
	s.Clear()

	if got := len(s.Messages()); got != 0 {
		t.Errorf("len(Messages()) after Clear = %d, want 0", got)
	}
}

func TestMemorySession_ConcurrentAccess(t *testing.T) {
	s := session.NewMemorySession()

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.AddMessage(protocol.NewMessage(protocol.RoleUser, "msg"))
			_ = s.Messages()
		}()
	}
	wg.Wait()

	if got := len(s.Messages()); got != 20 {
		t.Errorf("len(Messages()) = %d, want 20", got)
	}
}

func TestNew_DefaultConfig(t *testing.T) {
	cfg := session.DefaultConfig()
	s, err := session.New(&cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if s.ID() == "" {
		t.Error("session ID should not be empty")
	}
}
