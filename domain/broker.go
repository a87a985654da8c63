package domain

import (
	"context"
	"time"
)

// MessageBroker defines the interface for in-process pub/sub between the
// interview service and observers such as the transcript logger.
type MessageBroker interface {
	// Publish sends a message to a specific topic with a routing key.
	Publish(ctx context.Context, topic string, routingKey string, message []byte) error

	// Subscribe listens for messages on a specific topic and routing key.
	Subscribe(ctx context.Context, topic string, routingKey string) (<-chan Message, error)

	// Close closes the message broker.
	Close() error
}

// Message represents a message received from the broker.
type Message struct {
	Topic      string
	RoutingKey string
	Payload    []byte
	Timestamp  time.Time
}

// TranscriptTopic carries one event per interview turn.
const TranscriptTopic = "interview.transcript"

// TranscriptEvent is published after each turn so observers can follow the
// interview without touching session state.
type TranscriptEvent struct {
	SessionID string        `json:"session_id"`
	Role      Role          `json:"role"`
	Question  string        `json:"question"`
	Answer    string        `json:"answer"`
	Label     EdgeCaseLabel `json:"label"`
	Followup  bool          `json:"followup"`
	Timestamp time.Time     `json:"timestamp"`
}
