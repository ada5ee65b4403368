package core

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvents is a slice of DomainEvent instances.
type DomainEvents = []DomainEvent

// DomainEvent represents a business event that has occurred in the domain.
//
// The concrete event types form a closed set. Each one is identified by its event type string,
// which is the tag the codec dispatches on.
type DomainEvent interface {
	// IsEventType returns the string identifier for this event type.
	IsEventType() string

	// HasOccurredAt returns when this event occurred.
	HasOccurredAt() time.Time

	// Meta returns identity, ownership and position of the event.
	Meta() EventMeta
}

// EventMeta is embedded in every domain event. It is part of the serialized payload, so a stored event
// can be checked against its envelope.
type EventMeta struct {
	EventID     uuid.UUID
	AggregateID uuid.UUID
	OccurredAt  OccurredAt
	Version     int
}

// Meta returns the metadata itself, so that embedding EventMeta provides it for every event.
func (m EventMeta) Meta() EventMeta {
	return m
}

// HasOccurredAt returns when this event occurred.
func (m EventMeta) HasOccurredAt() time.Time {
	return m.OccurredAt
}
