// Package pubsub provides a generic publish/subscribe event system.
// The log pane, the demo form's status line and the config reloader are its
// subscribers.
package pubsub

import (
	"context"
	"time"
)

// EventType represents the type of event being published.
type EventType string

const (
	LoggedEvent    EventType = "logged"    // a log entry was written
	ChangedEvent   EventType = "changed"   // a field's buffer changed
	CommittedEvent EventType = "committed" // a field committed a value
	RejectedEvent  EventType = "rejected"  // a field rejected a command or commit
	FileEvent      EventType = "file"      // a watched file changed or the watch failed
)

// Event represents a published event with a typed payload.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Subscriber provides a subscription channel for events, optionally
// limited to some event types.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context, types ...EventType) <-chan Event[T]
}

// Publisher allows publishing events with a typed payload.
type Publisher[T any] interface {
	Publish(eventType EventType, payload T)
}
