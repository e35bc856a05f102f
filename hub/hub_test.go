package hub_test

import (
	"context"
	"testing"
	"time"

	"github.com/morvo-ai/engine/hub"
	"github.com/morvo-ai/engine/messaging"
)

func newTestHub(t *testing.T) hub.Hub {
	t.Helper()

	cfg := hub.DefaultConfig()
	cfg.Name = "test"
	cfg.Observer = "noop"

	h, err := hub.New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() {
		if err := h.Shutdown(2 * time.Second); err != nil {
			t.Errorf("Shutdown() error = %v", err)
		}
	})
	return h
}

func waitFor(t *testing.T, ch <-chan *messaging.Message) *messaging.Message {
	t.Helper()

	select {
	case msg := <-ch:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message delivery")
		return nil
	}
}

func TestHub_New_UnknownObserver(t *testing.T) {
	cfg := hub.DefaultConfig()
	cfg.Observer = "missing"

	if _, err := hub.New(context.Background(), cfg); err == nil {
		t.Error("New() with unknown observer should fail")
	}
}

func TestHub_RegisterAgent_Duplicate(t *testing.T) {
	h := newTestHub(t)

	if err := h.RegisterAgent("M1", nil); err != nil {
		t.Fatalf("RegisterAgent() error = %v", err)
	}
	if err := h.RegisterAgent("M1", nil); err == nil {
		t.Error("duplicate RegisterAgent() should fail")
	}
}

func TestHub_Send_DeliversToHandler(t *testing.T) {
	h := newTestHub(t)

	received := make(chan *messaging.Message, 1)
	err := h.RegisterAgent("M4", func(ctx context.Context, msg *messaging.Message, msgCtx *hub.MessageContext) (*messaging.Message, error) {
		received <- msg
		return nil, nil
	})
	if err != nil {
		t.Fatalf("RegisterAgent() error = %v", err)
	}

	if err := h.Send(context.Background(), "M1", "M4", "seo update"); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	msg := waitFor(t, received)
	if msg.From != "M1" {
		t.Errorf("msg.From = %q, want %q", msg.From, "M1")
	}
	if msg.Data != "seo update" {
		t.Errorf("msg.Data = %v, want %q", msg.Data, "seo update")
	}
	if msg.Type != messaging.MessageTypeNotification {
		t.Errorf("msg.Type = %q, want %q", msg.Type, messaging.MessageTypeNotification)
	}
}

func TestHub_Send_UnknownAgent(t *testing.T) {
	h := newTestHub(t)

	if err := h.Send(context.Background(), "M1", "M9", nil); err == nil {
		t.Error("Send() to unregistered agent should fail")
	}
}

func TestHub_HandlerFollowUp(t *testing.T) {
	h := newTestHub(t)

	received := make(chan *messaging.Message, 1)
	err := h.RegisterAgent("M1", func(ctx context.Context, msg *messaging.Message, msgCtx *hub.MessageContext) (*messaging.Message, error) {
		received <- msg
		return nil, nil
	})
	if err != nil {
		t.Fatalf("RegisterAgent() error = %v", err)
	}

	// M5 answers anything it receives by notifying the original sender.
	err = h.RegisterAgent("M5", func(ctx context.Context, msg *messaging.Message, msgCtx *hub.MessageContext) (*messaging.Message, error) {
		return messaging.NewNotification(msgCtx.AgentID, msg.From, "42 conversions").Build(), nil
	})
	if err != nil {
		t.Fatalf("RegisterAgent() error = %v", err)
	}

	if err := h.Send(context.Background(), "M1", "M5", "conversion count?"); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	msg := waitFor(t, received)
	if msg.From != "M5" {
		t.Errorf("msg.From = %q, want %q", msg.From, "M5")
	}
	if msg.Data != "42 conversions" {
		t.Errorf("msg.Data = %v, want %q", msg.Data, "42 conversions")
	}
}

func TestHub_PublishSubscribe(t *testing.T) {
	h := newTestHub(t)

	received := make(chan *messaging.Message, 1)
	err := h.RegisterAgent("M2", func(ctx context.Context, msg *messaging.Message, msgCtx *hub.MessageContext) (*messaging.Message, error) {
		received <- msg
		return nil, nil
	})
	if err != nil {
		t.Fatalf("RegisterAgent() error = %v", err)
	}
	if err := h.RegisterAgent("M3", nil); err != nil {
		t.Fatalf("RegisterAgent() error = %v", err)
	}

	if err := h.Subscribe("M2", "alerts"); err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	if err := h.Publish(context.Background(), "monitor", "alerts", "engagement spike"); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	msg := waitFor(t, received)
	if msg.Topic != "alerts" {
		t.Errorf("msg.Topic = %q, want %q", msg.Topic, "alerts")
	}
	if msg.Data != "engagement spike" {
		t.Errorf("msg.Data = %v, want %q", msg.Data, "engagement spike")
	}
}

func TestHub_Publish_SkipsSender(t *testing.T) {
	h := newTestHub(t)

	received := make(chan *messaging.Message, 1)
	err := h.RegisterAgent("M2", func(ctx context.Context, msg *messaging.Message, msgCtx *hub.MessageContext) (*messaging.Message, error) {
		received <- msg
		return nil, nil
	})
	if err != nil {
		t.Fatalf("RegisterAgent() error = %v", err)
	}
	if err := h.Subscribe("M2", "alerts"); err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	if err := h.Publish(context.Background(), "M2", "alerts", "own update"); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	select {
	case <-received:
		t.Error("a publication should not be delivered to its sender")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestHub_Publish_NoSubscribers(t *testing.T) {
	h := newTestHub(t)

	// Publishing to a topic without subscribers is not an error.
	if err := h.Publish(context.Background(), "monitor", "alerts", nil); err != nil {
		t.Errorf("Publish() error = %v", err)
	}
}

func TestHub_Metrics(t *testing.T) {
	h := newTestHub(t)

	delivered := make(chan *messaging.Message, 2)
	handler := func(ctx context.Context, msg *messaging.Message, msgCtx *hub.MessageContext) (*messaging.Message, error) {
		delivered <- msg
		return nil, nil
	}
	if err := h.RegisterAgent("M1", handler); err != nil {
		t.Fatalf("RegisterAgent() error = %v", err)
	}
	if err := h.RegisterAgent("M2", handler); err != nil {
		t.Fatalf("RegisterAgent() error = %v", err)
	}

	if err := h.Send(context.Background(), "M1", "M2", "hello"); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	waitFor(t, delivered)

	m := h.Metrics()
	if m.LocalAgents != 2 {
		t.Errorf("Metrics().LocalAgents = %d, want 2", m.LocalAgents)
	}
	if m.MessagesSent != 1 {
		t.Errorf("Metrics().MessagesSent = %d, want 1", m.MessagesSent)
	}
	if m.MessagesRecv != 1 {
		t.Errorf("Metrics().MessagesRecv = %d, want 1", m.MessagesRecv)
	}
}

func TestHub_Unregister(t *testing.T) {
	h := newTestHub(t)

	if err := h.RegisterAgent("M1", nil); err != nil {
		t.Fatalf("RegisterAgent() error = %v", err)
	}
	if err := h.UnregisterAgent("M1"); err != nil {
		t.Fatalf("UnregisterAgent() error = %v", err)
	}
	if err := h.UnregisterAgent("M1"); err == nil {
		t.Error("UnregisterAgent() of unknown agent should fail")
	}
	if err := h.Send(context.Background(), "M2", "M1", nil); err == nil {
		t.Error("Send() to unregistered agent should fail")
	}
}
