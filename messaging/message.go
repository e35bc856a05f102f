// Package messaging defines the message primitives routed between Morvo
// agents through the hub: typed envelopes with UUIDv7 identifiers and topics
// for publish-subscribe delivery.
package messaging

import (
	"fmt"
	"maps"
	"time"

	"github.com/google/uuid"
)

type MessageType string

const (
	MessageTypeNotification MessageType = "notification"
)

type Priority int

const (
	PriorityLow Priority = iota
	PriorityNormal
	PriorityHigh
	PriorityCritical
)

type Message struct {
	ID        string            `json:"id"`
	From      string            `json:"from"`
	To        string            `json:"to"`
	Type      MessageType       `json:"type"`
	Data      any               `json:"data"`
	Topic     string            `json:"topic,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
	Priority  Priority          `json:"priority,omitempty"`
	Headers   map[string]string `json:"headers,omitempty"`
}

func (msg *Message) Clone() *Message {
	clone := *msg
	clone.Headers = maps.Clone(msg.Headers)
	return &clone
}

func (msg *Message) String() string {
	return fmt.Sprintf(
		"Message{ID: %s, From: %s, To: %s, Type: %s, Topic: %s}",
		msg.ID,
		msg.From,
		msg.To,
		msg.Type,
		msg.Topic,
	)
}

func generateID() string {
	return uuid.Must(uuid.NewV7()).String()
}
