package eventstore

import (
	"errors"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
)

const (
	// MaxTypeNameLength is the column width of AggregateType and EventType.
	MaxTypeNameLength = 100
)

var (
	ErrInvalidEventData        = errors.New("event data is not valid json")
	ErrEmptyEventType          = errors.New("event type must not be empty")
	ErrEventTypeTooLong        = errors.New("event type exceeds 100 characters")
	ErrEmptyAggregateType      = errors.New("aggregate type must not be empty")
	ErrAggregateTypeTooLong    = errors.New("aggregate type exceeds 100 characters")
	ErrNilAggregateID          = errors.New("aggregate id must not be nil")
	ErrNilEventID              = errors.New("event id must not be nil")
	ErrInvalidEventVersion     = errors.New("event version does not continue the stream")
	ErrAggregateIDMismatch     = errors.New("event belongs to a different aggregate")
	ErrAggregateTypeMismatch   = errors.New("event belongs to a different aggregate type")
	ErrDuplicateEventIDInBatch = errors.New("event id occurs more than once in the batch")
)

// StorableEvents is an alias type for a slice of StorableEvent.
type StorableEvents = []StorableEvent

// StorableEvent is the persisted envelope of a domain event.
//
// It is built on scalars and ids only, so it stays agnostic of how domain events are implemented.
// The pair (AggregateID, Version) is unique per store, as is EventID.
//
// While its properties are exported, it should only be constructed with BuildStorableEvent.
// ID, AggregateID, AggregateType and Version may be left empty; AppendEvents fills them in.
//
// Timestamp is the time the store recorded the event, taken from the store's clock when the
// event is appended; a value set by the caller is ignored. It never goes backwards in append
// order, which is what makes GetEventsFromTimestamp usable as a catch-up feed. The domain's own
// occurrence time lives in EventData.
type StorableEvent struct {
	ID            uuid.UUID
	AggregateID   uuid.UUID
	AggregateType string
	EventType     string
	EventData     []byte
	Version       int
	Timestamp     time.Time
	EventID       uuid.UUID
}

// BuildStorableEvent is a factory method for StorableEvent.
//
// Returns an error if eventData is not valid JSON, if eventType is empty or too long,
// or if eventID is nil.
func BuildStorableEvent(
	eventType string,
	eventData []byte,
	eventID uuid.UUID,
	version int,
) (StorableEvent, error) {

	if eventType == "" {
		return StorableEvent{}, ErrEmptyEventType
	}

	if len(eventType) > MaxTypeNameLength {
		return StorableEvent{}, ErrEventTypeTooLong
	}

	if !jsoniter.Valid(eventData) {
		return StorableEvent{}, ErrInvalidEventData
	}

	if eventID == uuid.Nil {
		return StorableEvent{}, ErrNilEventID
	}

	if version < 0 {
		return StorableEvent{}, ErrInvalidEventVersion
	}

	return StorableEvent{
		EventType: eventType,
		EventData: eventData,
		EventID:   eventID,
		Version:   version,
	}, nil
}

// PrepareForAppend validates a batch against the target stream and returns copies stamped with
// storage key, aggregate identity and consecutive versions expectedVersion+1 .. expectedVersion+len(events).
// Timestamps are cleared; the engine records its own.
//
// An event that already carries a version, aggregate id or aggregate type must agree with the stamped value.
// Both engines call this before writing anything, so an invalid batch never causes partial writes.
func PrepareForAppend(
	aggregateID uuid.UUID,
	aggregateType string,
	expectedVersion int,
	events StorableEvents,
) (StorableEvents, error) {

	if len(events) == 0 {
		return nil, ErrNoEventsToAppend
	}

	if expectedVersion < 0 {
		return nil, ErrNegativeExpectedVersion
	}

	if aggregateID == uuid.Nil {
		return nil, ErrNilAggregateID
	}

	if aggregateType == "" {
		return nil, ErrEmptyAggregateType
	}

	if len(aggregateType) > MaxTypeNameLength {
		return nil, ErrAggregateTypeTooLong
	}

	prepared := make(StorableEvents, 0, len(events))
	seenEventIDs := make(map[uuid.UUID]struct{}, len(events))

	for i, event := range events {
		version := expectedVersion + i + 1

		if event.Version != 0 && event.Version != version {
			return nil, ErrInvalidEventVersion
		}

		if event.AggregateID != uuid.Nil && event.AggregateID != aggregateID {
			return nil, ErrAggregateIDMismatch
		}

		if event.AggregateType != "" && event.AggregateType != aggregateType {
			return nil, ErrAggregateTypeMismatch
		}

		if event.EventID == uuid.Nil {
			return nil, ErrNilEventID
		}

		if _, seen := seenEventIDs[event.EventID]; seen {
			return nil, ErrDuplicateEventIDInBatch
		}
		seenEventIDs[event.EventID] = struct{}{}

		if event.ID == uuid.Nil {
			id, err := uuid.NewV7()
			if err != nil {
				return nil, err
			}
			event.ID = id
		}

		event.AggregateID = aggregateID
		event.AggregateType = aggregateType
		event.Version = version
		event.Timestamp = time.Time{}

		prepared = append(prepared, event)
	}

	return prepared, nil
}

// StreamVersion returns the version of the last event in a version-ordered stream, or 0 if it is empty.
func StreamVersion(stream StorableEvents) int {
	if len(stream) == 0 {
		return 0
	}

	return stream[len(stream)-1].Version
}
