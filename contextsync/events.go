package contextsync

import "github.com/morvo-ai/engine/observability"

const (
	EventSyncStart    observability.EventType = "context.sync.start"
	EventSyncComplete observability.EventType = "context.sync.complete"
	EventPush         observability.EventType = "context.push"
	EventBroadcast    observability.EventType = "context.broadcast"
)
