// Package pubsub provides a generic publish/subscribe event system.
// It decouples the sentence engine (which runs scan cycles on timer
// goroutines) from the Bubble Tea update loop that consumes its results.
package pubsub

import (
	"context"
	"time"
)

// EventType represents the type of event being published.
type EventType string

const (
	// SentencesEvent signals that a scan replaced the sentence collection.
	SentencesEvent EventType = "sentences"
	// ActiveChangedEvent signals that the active sentence moved.
	ActiveChangedEvent EventType = "active_changed"
	// DocumentChangedEvent signals an external change to the document file.
	DocumentChangedEvent EventType = "document_changed"
	// LogEntryEvent carries a formatted log line.
	LogEntryEvent EventType = "log_entry"
)

// Event represents a published event with a typed payload.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Subscriber provides a subscription channel for events.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

// Publisher allows publishing events with a typed payload.
type Publisher[T any] interface {
	Publish(eventType EventType, payload T)
}
