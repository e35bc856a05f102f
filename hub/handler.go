package hub

import (
	"context"

	"github.com/morvo-ai/engine/messaging"
)

// MessageContext carries routing metadata into a handler invocation.
type MessageContext struct {
	HubName string
	AgentID string
}

// MessageHandler processes a delivered message. Returning a non-nil message
// sends its payload onward to the To agent as a follow-up notification.
type MessageHandler func(
	ctx context.Context,
	message *messaging.Message,
	context *MessageContext,
) (*messaging.Message, error)
