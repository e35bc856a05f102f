// Package hub routes messages between the live Morvo agent workers (M1-M5).
//
// The hub is the in-process coordination point for the agent fleet: the
// context layer pushes context updates through it, and the alert monitor
// announces fresh alerts on the "alerts" topic. It implements point-to-point
// delivery and topic-based publish-subscribe, with built-in metrics and
// lifecycle management.
//
// Workers register under their agent ID with a handler:
//
//	h, err := hub.New(ctx, hub.DefaultConfig())
//
//	handler := func(ctx context.Context, msg *messaging.Message, msgCtx *hub.MessageContext) (*messaging.Message, error) {
//	    recordUpdate(msgCtx.AgentID, msg.Data)
//	    return nil, nil
//	}
//
//	err = h.RegisterAgent("M2", handler)
//
// Communication patterns:
//
//	err := h.Send(ctx, "M1", "M4", data)             // point-to-point
//	h.Subscribe("M2", "alerts")                      // pub-sub
//	err := h.Publish(ctx, "monitor", "alerts", alert)
//
// Each agent's inbox is drained by its own consumer goroutine. Shut down
// with a timeout:
//
//	err := h.Shutdown(30 * time.Second)
package hub
