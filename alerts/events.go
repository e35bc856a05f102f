package alerts

import "github.com/morvo-ai/engine/observability"

const (
	EventCheckStart    observability.EventType = "alerts.check.start"
	EventCheckComplete observability.EventType = "alerts.check.complete"
	EventDetected      observability.EventType = "alerts.detected"
	EventStored        observability.EventType = "alerts.stored"
	EventSweepStart    observability.EventType = "alerts.sweep.start"
	EventSweepComplete observability.EventType = "alerts.sweep.complete"
	EventSweepFailed   observability.EventType = "alerts.sweep.failed"
)
