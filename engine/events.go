package engine

import "github.com/morvo-ai/engine/observability"

// Event types emitted by the engine.
const (
	EventStart    observability.EventType = "engine.start"
	EventChat     observability.EventType = "engine.chat"
	EventShutdown observability.EventType = "engine.shutdown"
)
