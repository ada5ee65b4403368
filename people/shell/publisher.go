package shell

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/johnmillerATcodemag-com/Zeus.People-sub005/eventstore"
)

// Message is a committed event prepared for the message bus.
// RecordedAt is the store's timestamp and is zero for messages published right after an append.
// When the event occurred is part of the payload.
type Message struct {
	EventType     string
	AggregateType string
	AggregateID   uuid.UUID
	EventID       uuid.UUID
	Version       int
	RecordedAt    time.Time
	Payload       []byte
	Metadata      EventMetadata
}

// Publisher hands committed events to the outbound messaging collaborator.
// Implementations must preserve the order of messages; delivery is at least once.
type Publisher interface {
	Publish(ctx context.Context, messages ...Message) error
}

// MessageFrom builds the Message of a stored event.
func MessageFrom(storableEvent eventstore.StorableEvent, metadata EventMetadata) Message {
	return Message{
		EventType:     storableEvent.EventType,
		AggregateType: storableEvent.AggregateType,
		AggregateID:   storableEvent.AggregateID,
		EventID:       storableEvent.EventID,
		Version:       storableEvent.Version,
		RecordedAt:    storableEvent.Timestamp,
		Payload:       storableEvent.EventData,
		Metadata:      metadata,
	}
}
