// Package providers implements model API backends for agent conversations.
package providers

import (
	"context"

	"github.com/morvo-ai/engine/core/protocol"
)

// Provider completes a chat conversation against a model API and returns the
// assistant's reply.
type Provider interface {
	Complete(ctx context.Context, model string, messages []protocol.Message) (string, error)
}
