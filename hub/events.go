package hub

import "github.com/morvo-ai/engine/observability"

// Event types emitted by the hub.
const (
	EventAgentRegistered   observability.EventType = "hub.agent.registered"
	EventAgentUnregistered observability.EventType = "hub.agent.unregistered"
	EventSubscribed        observability.EventType = "hub.subscribed"
	EventPublished         observability.EventType = "hub.published"
	EventDeliveryFailed    observability.EventType = "hub.delivery.failed"
	EventHandlerFailed     observability.EventType = "hub.handler.failed"
	EventShutdown          observability.EventType = "hub.shutdown"
)
