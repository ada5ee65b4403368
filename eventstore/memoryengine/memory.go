// Package memoryengine provides an in-process implementation of the event store.
//
// It offers the same operations and concurrency semantics as postgresengine and is meant for
// unit tests, examples and embedding. Nothing is persisted beyond the lifetime of the EventStore.
package memoryengine

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/johnmillerATcodemag-com/Zeus.People-sub005/eventstore"
)

const (
	logMsgEventsAppended      = "eventstore operation: events appended"
	logMsgConcurrencyConflict = "eventstore operation: concurrency conflict detected"
	logAttrAggregateID        = "aggregate_id"
	logAttrEventCount         = "event_count"
	logAttrExpectedVersion    = "expected_version"
	logAttrActualVersion      = "actual_version"
)

// EventStore keeps all events in memory, guarded by a single RWMutex.
type EventStore struct {
	mu           sync.RWMutex
	streams      map[uuid.UUID]eventstore.StorableEvents
	log          eventstore.StorableEvents // all events in append order
	eventIDs     map[uuid.UUID]struct{}
	clock        func() time.Time
	lastRecorded time.Time
	logger       eventstore.Logger
}

// Option defines a functional option for configuring EventStore.
type Option func(*EventStore)

// WithLogger sets a logger receiving operation summaries and conflicts at info level.
func WithLogger(logger eventstore.Logger) Option {
	return func(es *EventStore) {
		es.logger = logger
	}
}

// WithClock replaces time.Now as the source of recorded timestamps.
// A clock reading earlier than the previous append is raised to it.
func WithClock(clock func() time.Time) Option {
	return func(es *EventStore) {
		es.clock = clock
	}
}

// NewEventStore creates an empty EventStore.
func NewEventStore(options ...Option) *EventStore {
	es := &EventStore{
		streams:  make(map[uuid.UUID]eventstore.StorableEvents),
		eventIDs: make(map[uuid.UUID]struct{}),
		clock:    time.Now,
	}

	for _, option := range options {
		option(es)
	}

	return es
}

// AppendEvents appends events to the aggregate's stream if its current version equals expectedVersion.
// Either all events are stored or none. All events of one append share the recorded timestamp.
func (es *EventStore) AppendEvents(
	ctx context.Context,
	aggregateID uuid.UUID,
	aggregateType string,
	expectedVersion int,
	events ...eventstore.StorableEvent,
) error {

	if err := ctx.Err(); err != nil {
		return eventstore.StorageError(eventstore.ErrAppendingEventFailed, err)
	}

	prepared, err := eventstore.PrepareForAppend(aggregateID, aggregateType, expectedVersion, events)
	if err != nil {
		return err
	}

	es.mu.Lock()
	defer es.mu.Unlock()

	stream := es.streams[aggregateID]
	if actual := eventstore.StreamVersion(stream); actual != expectedVersion {
		es.info(logMsgConcurrencyConflict,
			logAttrAggregateID, aggregateID.String(),
			logAttrExpectedVersion, expectedVersion,
			logAttrActualVersion, actual,
		)

		return eventstore.ErrConcurrencyConflict
	}

	for _, event := range prepared {
		if _, exists := es.eventIDs[event.EventID]; exists {
			return eventstore.StorageError(eventstore.ErrAppendingEventFailed, eventstore.ErrDuplicateEventID)
		}
	}

	recordedAt := es.clock().UTC()
	if recordedAt.Before(es.lastRecorded) {
		recordedAt = es.lastRecorded
	}
	es.lastRecorded = recordedAt

	for i := range prepared {
		prepared[i].Timestamp = recordedAt
		es.eventIDs[prepared[i].EventID] = struct{}{}
	}

	es.streams[aggregateID] = append(stream, prepared...)
	es.log = append(es.log, prepared...)

	es.info(logMsgEventsAppended, logAttrAggregateID, aggregateID.String(), logAttrEventCount, len(prepared))

	return nil
}

// GetEvents returns all events of the aggregate ordered by version.
func (es *EventStore) GetEvents(ctx context.Context, aggregateID uuid.UUID) (eventstore.StorableEvents, error) {
	return es.GetEventsFromVersion(ctx, aggregateID, 0)
}

// GetEventsFromVersion returns the events of the aggregate with a version greater than fromVersionExclusive.
func (es *EventStore) GetEventsFromVersion(
	ctx context.Context,
	aggregateID uuid.UUID,
	fromVersionExclusive int,
) (eventstore.StorableEvents, error) {

	if err := ctx.Err(); err != nil {
		return nil, eventstore.StorageError(eventstore.ErrQueryingEventsFailed, err)
	}

	es.mu.RLock()
	defer es.mu.RUnlock()

	result := make(eventstore.StorableEvents, 0)
	for _, event := range es.streams[aggregateID] {
		if event.Version > fromVersionExclusive {
			result = append(result, copyEvent(event))
		}
	}

	return result, nil
}

// GetEventsFromTimestamp returns the events of all aggregates recorded at or after cutoff, ordered by
// timestamp, then aggregate id, then version.
func (es *EventStore) GetEventsFromTimestamp(ctx context.Context, cutoff time.Time) (eventstore.StorableEvents, error) {
	return es.GetEventsFromTimestampLimited(ctx, cutoff, 0)
}

// GetEventsFromTimestampLimited is GetEventsFromTimestamp returning at most limit events.
// A limit of zero or less means no limit.
func (es *EventStore) GetEventsFromTimestampLimited(
	ctx context.Context,
	cutoff time.Time,
	limit int,
) (eventstore.StorableEvents, error) {

	if err := ctx.Err(); err != nil {
		return nil, eventstore.StorageError(eventstore.ErrQueryingEventsFailed, err)
	}

	es.mu.RLock()
	result := make(eventstore.StorableEvents, 0)
	for _, event := range es.log {
		if !event.Timestamp.Before(cutoff) {
			result = append(result, copyEvent(event))
		}
	}
	es.mu.RUnlock()

	sort.SliceStable(result, func(i, j int) bool {
		a, b := result[i], result[j]

		if !a.Timestamp.Equal(b.Timestamp) {
			return a.Timestamp.Before(b.Timestamp)
		}

		if a.AggregateID != b.AggregateID {
			return a.AggregateID.String() < b.AggregateID.String()
		}

		return a.Version < b.Version
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}

	return result, nil
}

// Len returns the number of stored events.
func (es *EventStore) Len() int {
	es.mu.RLock()
	defer es.mu.RUnlock()

	return len(es.log)
}

func (es *EventStore) info(msg string, args ...any) {
	if es.logger != nil {
		es.logger.Info(msg, args...)
	}
}

func copyEvent(event eventstore.StorableEvent) eventstore.StorableEvent {
	data := make([]byte, len(event.EventData))
	copy(data, event.EventData)
	event.EventData = data

	return event
}
