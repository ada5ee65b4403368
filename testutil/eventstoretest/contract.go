// Package eventstoretest holds the behavioural test suite every event store engine must pass,
// plus helpers to build storable events for tests.
package eventstoretest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnmillerATcodemag-com/Zeus.People-sub005/eventstore"
)

// Store is the behaviour shared by postgresengine.EventStore and memoryengine.EventStore.
type Store interface {
	AppendEvents(ctx context.Context, aggregateID uuid.UUID, aggregateType string, expectedVersion int, events ...eventstore.StorableEvent) error
	GetEvents(ctx context.Context, aggregateID uuid.UUID) (eventstore.StorableEvents, error)
	GetEventsFromVersion(ctx context.Context, aggregateID uuid.UUID, fromVersionExclusive int) (eventstore.StorableEvents, error)
	GetEventsFromTimestamp(ctx context.Context, cutoff time.Time) (eventstore.StorableEvents, error)
	GetEventsFromTimestampLimited(ctx context.Context, cutoff time.Time, limit int) (eventstore.StorableEvents, error)
}

// StoreFactory returns a store whose contents do not leak between subtests.
type StoreFactory func(t *testing.T) Store

// GivenEvent builds a StorableEvent with a fresh event id.
func GivenEvent(t testing.TB, eventType string) eventstore.StorableEvent {
	t.Helper()

	event, err := eventstore.BuildStorableEvent(
		eventType,
		[]byte(fmt.Sprintf(`{"Marker": %q}`, uuid.NewString())),
		uuid.New(),
		0,
	)
	require.NoError(t, err)

	return event
}

// GivenEvents builds n events with the types TestEvent1 .. TestEventN.
func GivenEvents(t testing.TB, n int) eventstore.StorableEvents {
	t.Helper()

	events := make(eventstore.StorableEvents, 0, n)
	for i := range n {
		events = append(events, GivenEvent(t, fmt.Sprintf("TestEvent%d", i+1)))
	}

	return events
}

// RunContractTests runs the engine-independent behaviour tests against the stores built by newStore.
//
//nolint:funlen
func RunContractTests(t *testing.T, newStore StoreFactory) {
	t.Run("GetEvents of unknown aggregate returns an empty stream", func(t *testing.T) {
		// setup
		store := newStore(t)

		// act
		stream, err := store.GetEvents(context.Background(), uuid.New())

		// assert
		require.NoError(t, err)
		assert.Empty(t, stream)
	})

	t.Run("appended events are returned in version order with consecutive versions", func(t *testing.T) {
		// setup
		store := newStore(t)
		ctx := context.Background()
		aggregateID := uuid.New()
		events := GivenEvents(t, 3)

		// act
		require.NoError(t, store.AppendEvents(ctx, aggregateID, "Academic", 0, events[0]))
		require.NoError(t, store.AppendEvents(ctx, aggregateID, "Academic", 1, events[1:]...))
		stream, err := store.GetEvents(ctx, aggregateID)

		// assert
		require.NoError(t, err)
		require.Len(t, stream, 3)

		for i, event := range stream {
			assert.Equal(t, i+1, event.Version)
			assert.Equal(t, aggregateID, event.AggregateID)
			assert.Equal(t, "Academic", event.AggregateType)
			assert.Equal(t, events[i].EventType, event.EventType)
			assert.Equal(t, events[i].EventID, event.EventID)
			assert.JSONEq(t, string(events[i].EventData), string(event.EventData))
			assert.NotEqual(t, uuid.Nil, event.ID)
		}
	})

	t.Run("append with a stale expected version fails and leaves the stream unchanged", func(t *testing.T) {
		// setup
		store := newStore(t)
		ctx := context.Background()
		aggregateID := uuid.New()
		events := GivenEvents(t, 2)
		require.NoError(t, store.AppendEvents(ctx, aggregateID, "Room", 0, events...))
		before, err := store.GetEvents(ctx, aggregateID)
		require.NoError(t, err)

		for _, expectedVersion := range []int{0, 1, 3} {
			// act
			appendErr := store.AppendEvents(ctx, aggregateID, "Room", expectedVersion, GivenEvent(t, "RoomDeleted"))

			// assert
			assert.ErrorIs(t, appendErr, eventstore.ErrConcurrencyConflict, "expected version %d", expectedVersion)
		}

		after, err := store.GetEvents(ctx, aggregateID)
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})

	t.Run("a conflicting multi event append writes nothing", func(t *testing.T) {
		// setup
		store := newStore(t)
		ctx := context.Background()
		aggregateID := uuid.New()
		require.NoError(t, store.AppendEvents(ctx, aggregateID, "Chair", 0, GivenEvent(t, "ChairCreated")))

		// act
		err := store.AppendEvents(ctx, aggregateID, "Chair", 0, GivenEvents(t, 3)...)

		// assert
		assert.ErrorIs(t, err, eventstore.ErrConcurrencyConflict)

		stream, getErr := store.GetEvents(ctx, aggregateID)
		require.NoError(t, getErr)
		assert.Len(t, stream, 1)
	})

	t.Run("concurrent appends at the same expected version: exactly one wins", func(t *testing.T) {
		// setup
		store := newStore(t)
		ctx := context.Background()
		aggregateID := uuid.New()
		require.NoError(t, store.AppendEvents(ctx, aggregateID, "Department", 0, GivenEvent(t, "DepartmentCreated")))

		const writers = 8
		errs := make([]error, writers)
		events := GivenEvents(t, writers)
		var wg sync.WaitGroup
		start := make(chan struct{})

		// act
		for i := range writers {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				<-start
				errs[i] = store.AppendEvents(ctx, aggregateID, "Department", 1, events[i])
			}(i)
		}
		close(start)
		wg.Wait()

		// assert
		successes := 0
		for _, err := range errs {
			if err == nil {
				successes++
				continue
			}
			assert.ErrorIs(t, err, eventstore.ErrConcurrencyConflict)
		}
		assert.Equal(t, 1, successes)

		stream, err := store.GetEvents(ctx, aggregateID)
		require.NoError(t, err)
		assert.Len(t, stream, 2)
	})

	t.Run("GetEventsFromVersion returns only later events", func(t *testing.T) {
		// setup
		store := newStore(t)
		ctx := context.Background()
		aggregateID := uuid.New()
		require.NoError(t, store.AppendEvents(ctx, aggregateID, "Academic", 0, GivenEvents(t, 5)...))

		// act
		tail, err := store.GetEventsFromVersion(ctx, aggregateID, 3)

		// assert
		require.NoError(t, err)
		require.Len(t, tail, 2)
		assert.Equal(t, 4, tail[0].Version)
		assert.Equal(t, 5, tail[1].Version)

		all, err := store.GetEventsFromVersion(ctx, aggregateID, 0)
		require.NoError(t, err)
		assert.Len(t, all, 5)

		none, err := store.GetEventsFromVersion(ctx, aggregateID, 5)
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("the store records a UTC timestamp per append that never goes backwards", func(t *testing.T) {
		// setup
		store := newStore(t)
		ctx := context.Background()
		first, second := uuid.New(), uuid.New()

		// act
		require.NoError(t, store.AppendEvents(ctx, first, "Academic", 0, GivenEvents(t, 2)...))
		require.NoError(t, store.AppendEvents(ctx, second, "Room", 0, GivenEvent(t, "RoomCreated")))

		// assert
		firstStream, err := store.GetEvents(ctx, first)
		require.NoError(t, err)
		secondStream, err := store.GetEvents(ctx, second)
		require.NoError(t, err)

		require.Len(t, firstStream, 2)
		require.Len(t, secondStream, 1)
		assert.False(t, firstStream[0].Timestamp.IsZero())
		assert.Equal(t, time.UTC, firstStream[0].Timestamp.Location())
		assert.True(t, firstStream[0].Timestamp.Equal(firstStream[1].Timestamp), "one append shares one timestamp")
		assert.False(t, secondStream[0].Timestamp.Before(firstStream[1].Timestamp))
	})

	t.Run("GetEventsFromTimestamp spans aggregates, includes the cutoff and orders by timestamp", func(t *testing.T) {
		// setup
		store := newStore(t)
		ctx := context.Background()
		first, second := uuid.New(), uuid.New()

		// arrange
		before := GivenEvent(t, "Before")
		atCutoff := GivenEvent(t, "AtCutoff")
		between := GivenEvent(t, "Between")
		later := GivenEvent(t, "Later")
		require.NoError(t, store.AppendEvents(ctx, first, "Academic", 0, before))
		require.NoError(t, store.AppendEvents(ctx, second, "Room", 0, atCutoff))
		require.NoError(t, store.AppendEvents(ctx, first, "Academic", 1, between))
		require.NoError(t, store.AppendEvents(ctx, second, "Room", 1, later))

		secondStream, err := store.GetEvents(ctx, second)
		require.NoError(t, err)
		cutoff := secondStream[0].Timestamp

		// act
		events, err := store.GetEventsFromTimestamp(ctx, cutoff)

		// assert
		require.NoError(t, err)

		ours := map[uuid.UUID]bool{before.EventID: true, atCutoff.EventID: true, between.EventID: true, later.EventID: true}
		types := make([]string, 0)
		for i, event := range events {
			if i > 0 {
				assert.False(t, event.Timestamp.Before(events[i-1].Timestamp))
			}
			if ours[event.EventID] {
				types = append(types, event.EventType)
			}
		}
		assert.NotContains(t, types, "Before")
		assert.Subset(t, types, []string{"AtCutoff", "Between", "Later"})
	})

	t.Run("GetEventsFromTimestampLimited returns the oldest events up to the limit", func(t *testing.T) {
		// setup
		store := newStore(t)
		ctx := context.Background()
		aggregateID := uuid.New()

		// arrange
		events := GivenEvents(t, 4)
		for i, event := range events {
			require.NoError(t, store.AppendEvents(ctx, aggregateID, "Academic", i, event))
		}

		stream, err := store.GetEvents(ctx, aggregateID)
		require.NoError(t, err)
		cutoff := stream[0].Timestamp

		// act
		all, err := store.GetEventsFromTimestamp(ctx, cutoff)
		require.NoError(t, err)
		limited, err := store.GetEventsFromTimestampLimited(ctx, cutoff, 2)
		require.NoError(t, err)
		unlimited, err := store.GetEventsFromTimestampLimited(ctx, cutoff, 0)
		require.NoError(t, err)

		// assert
		require.GreaterOrEqual(t, len(all), 4)
		require.Len(t, limited, 2)
		assert.Equal(t, all[0].EventID, limited[0].EventID)
		assert.Equal(t, all[1].EventID, limited[1].EventID)
		assert.Len(t, unlimited, len(all))
	})

	t.Run("invalid appends are rejected before anything is written", func(t *testing.T) {
		// setup
		store := newStore(t)
		ctx := context.Background()
		aggregateID := uuid.New()

		// act & assert
		assert.ErrorIs(t, store.AppendEvents(ctx, aggregateID, "Academic", 0), eventstore.ErrNoEventsToAppend)
		assert.ErrorIs(t, store.AppendEvents(ctx, aggregateID, "Academic", -1, GivenEvent(t, "X")), eventstore.ErrNegativeExpectedVersion)
		assert.ErrorIs(t, store.AppendEvents(ctx, uuid.Nil, "Academic", 0, GivenEvent(t, "X")), eventstore.ErrNilAggregateID)

		stream, err := store.GetEvents(ctx, aggregateID)
		require.NoError(t, err)
		assert.Empty(t, stream)
	})

	t.Run("an already stored event id cannot be appended again", func(t *testing.T) {
		// setup
		store := newStore(t)
		ctx := context.Background()
		event := GivenEvent(t, "AcademicRegistered")
		require.NoError(t, store.AppendEvents(ctx, uuid.New(), "Academic", 0, event))

		// act
		err := store.AppendEvents(ctx, uuid.New(), "Academic", 0, event)

		// assert
		assert.ErrorIs(t, err, eventstore.ErrDuplicateEventID)
		assert.ErrorIs(t, err, eventstore.ErrStorageFailure)
	})

	t.Run("a cancelled context is a storage failure", func(t *testing.T) {
		// setup
		store := newStore(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		// act
		_, getErr := store.GetEvents(ctx, uuid.New())
		appendErr := store.AppendEvents(ctx, uuid.New(), "Academic", 0, GivenEvent(t, "X"))

		// assert
		assert.ErrorIs(t, getErr, eventstore.ErrStorageFailure)
		assert.ErrorIs(t, appendErr, eventstore.ErrStorageFailure)
	})
}
