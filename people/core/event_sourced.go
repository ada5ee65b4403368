package core

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Aggregate types, stored in the AggregateType column of the envelope.
const (
	AcademicAggregateType   = "Academic"
	DepartmentAggregateType = "Department"
	RoomAggregateType       = "Room"
	ChairAggregateType      = "Chair"
)

// Aggregate is implemented by pointers to Academic, Department, Room and Chair.
type Aggregate interface {
	ID() uuid.UUID
	Version() int
	AggregateType() string
	UncommittedEvents() DomainEvents
	MarkCommitted()

	// Apply folds one stored event into the aggregate without checking business rules.
	Apply(event DomainEvent) error

	// Delete raises the aggregate's deletion event.
	Delete(at time.Time) error
}

// EventSourced is the event-sourcing capability every aggregate embeds.
// It tracks identity, version, timestamps and the events raised since the last commit.
// A stream starts with the aggregate's creation event and contains it only once.
type EventSourced struct {
	aggregateType    string
	createdEventType string
	id               uuid.UUID
	version          int
	createdAt        time.Time
	modifiedAt       time.Time
	uncommitted      DomainEvents
}

func eventSourced(aggregateType string, createdEventType string) EventSourced {
	return EventSourced{aggregateType: aggregateType, createdEventType: createdEventType}
}

// ID returns the aggregate id, which is uuid.Nil until the creation event was applied.
func (es *EventSourced) ID() uuid.UUID {
	return es.id
}

// Version equals the number of events ever applied to the aggregate, committed or not.
func (es *EventSourced) Version() int {
	return es.version
}

func (es *EventSourced) CreatedAt() time.Time {
	return es.createdAt
}

func (es *EventSourced) ModifiedAt() time.Time {
	return es.modifiedAt
}

// UncommittedEvents returns a copy of the events raised since the last successful append.
func (es *EventSourced) UncommittedEvents() DomainEvents {
	events := make(DomainEvents, len(es.uncommitted))
	copy(events, es.uncommitted)

	return events
}

// MarkCommitted clears the uncommitted events after they were appended to the store.
func (es *EventSourced) MarkCommitted() {
	es.uncommitted = nil
}

// metaForCreation is the metadata of the first event of a new aggregate.
func (es *EventSourced) metaForCreation(id uuid.UUID, at time.Time) EventMeta {
	return EventMeta{EventID: uuid.New(), AggregateID: id, OccurredAt: ToOccurredAt(at), Version: 1}
}

// nextMeta is the metadata of the next event raised by an existing aggregate.
func (es *EventSourced) nextMeta(at time.Time) EventMeta {
	return EventMeta{EventID: uuid.New(), AggregateID: es.id, OccurredAt: ToOccurredAt(at), Version: es.version + 1}
}

// replay checks that event continues this aggregate, lets when mutate the state and advances the version.
func (es *EventSourced) replay(event DomainEvent, when func(DomainEvent) error) error {
	meta := event.Meta()

	if es.version > 0 && meta.AggregateID != es.id {
		return fmt.Errorf("%w: %s belongs to %s, not %s", ErrUnexpectedEvent, event.IsEventType(), meta.AggregateID, es.id)
	}

	creation := event.IsEventType() == es.createdEventType

	switch {
	case es.version == 0 && !creation:
		return fmt.Errorf("%w: %s must start with %s, not %s",
			ErrUnexpectedEvent, es.aggregateType, es.createdEventType, event.IsEventType())
	case es.version > 0 && creation:
		return fmt.Errorf("%w: %s %s was already created", ErrUnexpectedEvent, es.aggregateType, es.id)
	}

	if meta.Version != es.version+1 {
		return fmt.Errorf("%w: %s has version %d, expected %d", ErrEventOutOfOrder, event.IsEventType(), meta.Version, es.version+1)
	}

	if err := when(event); err != nil {
		return err
	}

	if meta.Version == 1 {
		es.id = meta.AggregateID
		es.createdAt = meta.OccurredAt
	}

	es.version = meta.Version
	es.modifiedAt = meta.OccurredAt

	return nil
}

// raise applies a newly decided event and records it as uncommitted.
func (es *EventSourced) raise(event DomainEvent, when func(DomainEvent) error) error {
	if err := es.replay(event, when); err != nil {
		return err
	}

	es.uncommitted = append(es.uncommitted, event)

	return nil
}

func guardNotDeleted(aggregateType string, deleted bool) error {
	if deleted {
		return Violation(RuleAggregateDeleted, aggregateType+" is deleted")
	}

	return nil
}

func requireID(field string, id uuid.UUID) error {
	if id == uuid.Nil {
		return invalid(field, id.String(), "must not be nil")
	}

	return nil
}

func unexpectedEvent(aggregateType string, event DomainEvent) error {
	return fmt.Errorf("%w: %s cannot apply %s", ErrUnexpectedEvent, aggregateType, event.IsEventType())
}

// Reconstruct folds history into the blank aggregate. The result's version equals the last event's version.
func Reconstruct[A Aggregate](blank A, history DomainEvents) (A, error) {
	if len(history) == 0 {
		return blank, ErrEmptyHistory
	}

	for _, event := range history {
		if err := blank.Apply(event); err != nil {
			return blank, err
		}
	}

	return blank, nil
}
