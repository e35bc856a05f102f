package messaging_test

import (
	"testing"

	"github.com/morvo-ai/engine/messaging"
)

func TestNewMessage_Defaults(t *testing.T) {
	msg := messaging.NewMessage("M1", "M2", messaging.MessageTypeNotification, "payload").Build()

	if msg.ID == "" {
		t.Error("message ID should be generated")
	}
	if msg.From != "M1" || msg.To != "M2" {
		t.Errorf("routing = %s->%s, want M1->M2", msg.From, msg.To)
	}
	if msg.Type != messaging.MessageTypeNotification {
		t.Errorf("type = %q, want notification", msg.Type)
	}
	if msg.Priority != messaging.PriorityNormal {
		t.Errorf("priority = %d, want normal", msg.Priority)
	}
	if msg.Timestamp.IsZero() {
		t.Error("timestamp should be set")
	}
}

func TestNewMessage_UniqueIDs(t *testing.T) {
	first := messaging.NewNotification("M1", "M2", nil).Build()
	second := messaging.NewNotification("M1", "M2", nil).Build()

	if first.ID == second.ID {
		t.Errorf("IDs should be unique, both %q", first.ID)
	}
}

func TestBuilder_TopicAndPriority(t *testing.T) {
	msg := messaging.NewNotification("alerts", "M2", nil).
		Topic("alerts").
		Priority(messaging.PriorityCritical).
		Build()

	if msg.Topic != "alerts" {
		t.Errorf("topic = %q, want alerts", msg.Topic)
	}
	if msg.Priority != messaging.PriorityCritical {
		t.Errorf("priority = %d, want critical", msg.Priority)
	}
}

func TestClone_CopiesHeaders(t *testing.T) {
	msg := messaging.NewNotification("M1", "M2", nil).
		Headers(map[string]string{"trace": "abc"}).
		Build()

	clone := msg.Clone()
	clone.Headers["trace"] = "changed"

	if msg.Headers["trace"] != "abc" {
		t.Error("mutating a clone's headers should not affect the original")
	}
}
