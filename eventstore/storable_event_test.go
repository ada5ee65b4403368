package eventstore_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnmillerATcodemag-com/Zeus.People-sub005/eventstore"
)

//nolint:funlen
func Test_BuildStorableEvent_ErrorCases(t *testing.T) {
	validData := []byte(`{"EmpNr": "715"}`)
	validID := uuid.New()

	tests := []struct {
		name        string
		eventType   string
		eventData   []byte
		eventID     uuid.UUID
		version     int
		expectedErr error
	}{
		{
			name:        "invalid event data",
			eventType:   "AcademicRegistered",
			eventData:   []byte(`{"invalid": json}`),
			eventID:     validID,
			expectedErr: eventstore.ErrInvalidEventData,
		},
		{
			name:        "empty event data",
			eventType:   "AcademicRegistered",
			eventData:   []byte(``),
			eventID:     validID,
			expectedErr: eventstore.ErrInvalidEventData,
		},
		{
			name:        "empty event type",
			eventType:   "",
			eventData:   validData,
			eventID:     validID,
			expectedErr: eventstore.ErrEmptyEventType,
		},
		{
			name:        "event type too long",
			eventType:   string(make([]byte, 101)),
			eventData:   validData,
			eventID:     validID,
			expectedErr: eventstore.ErrEventTypeTooLong,
		},
		{
			name:        "nil event id",
			eventType:   "AcademicRegistered",
			eventData:   validData,
			eventID:     uuid.Nil,
			expectedErr: eventstore.ErrNilEventID,
		},
		{
			name:        "negative version",
			eventType:   "AcademicRegistered",
			eventData:   validData,
			eventID:     validID,
			version:     -1,
			expectedErr: eventstore.ErrInvalidEventVersion,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := eventstore.BuildStorableEvent(tt.eventType, tt.eventData, tt.eventID, tt.version)

			assert.ErrorIs(t, err, tt.expectedErr)
		})
	}
}

func Test_PrepareForAppend_ClearsCallerTimestamps(t *testing.T) {
	// arrange
	event := givenStorableEvent(t, 0)
	event.Timestamp = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	// act
	prepared, err := eventstore.PrepareForAppend(uuid.New(), "Academic", 0, eventstore.StorableEvents{event})

	// assert
	require.NoError(t, err)
	assert.True(t, prepared[0].Timestamp.IsZero())
}

func Test_PrepareForAppend_AssignsConsecutiveVersions(t *testing.T) {
	// arrange
	aggregateID := uuid.New()
	events := eventstore.StorableEvents{
		givenStorableEvent(t, 0),
		givenStorableEvent(t, 0),
		givenStorableEvent(t, 0),
	}

	// act
	prepared, err := eventstore.PrepareForAppend(aggregateID, "Academic", 4, events)

	// assert
	require.NoError(t, err)
	require.Len(t, prepared, 3)

	for i, event := range prepared {
		assert.Equal(t, 5+i, event.Version)
		assert.Equal(t, aggregateID, event.AggregateID)
		assert.Equal(t, "Academic", event.AggregateType)
		assert.NotEqual(t, uuid.Nil, event.ID)
	}

	assert.Equal(t, 0, events[0].Version, "input must not be mutated")
	assert.Equal(t, 7, eventstore.StreamVersion(prepared))
}

func Test_PrepareForAppend_ErrorCases(t *testing.T) {
	aggregateID := uuid.New()
	duplicate := givenStorableEvent(t, 0)

	tests := []struct {
		name            string
		aggregateID     uuid.UUID
		aggregateType   string
		expectedVersion int
		events          eventstore.StorableEvents
		expectedErr     error
	}{
		{"no events", aggregateID, "Academic", 0, nil, eventstore.ErrNoEventsToAppend},
		{"negative expected version", aggregateID, "Academic", -1, eventstore.StorableEvents{givenStorableEvent(t, 0)}, eventstore.ErrNegativeExpectedVersion},
		{"nil aggregate id", uuid.Nil, "Academic", 0, eventstore.StorableEvents{givenStorableEvent(t, 0)}, eventstore.ErrNilAggregateID},
		{"empty aggregate type", aggregateID, "", 0, eventstore.StorableEvents{givenStorableEvent(t, 0)}, eventstore.ErrEmptyAggregateType},
		{"version gap", aggregateID, "Academic", 0, eventstore.StorableEvents{givenStorableEvent(t, 2)}, eventstore.ErrInvalidEventVersion},
		{"duplicate event id", aggregateID, "Academic", 0, eventstore.StorableEvents{duplicate, duplicate}, eventstore.ErrDuplicateEventIDInBatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := eventstore.PrepareForAppend(tt.aggregateID, tt.aggregateType, tt.expectedVersion, tt.events)

			assert.ErrorIs(t, err, tt.expectedErr)
		})
	}
}

func Test_PrepareForAppend_RejectsForeignAggregate(t *testing.T) {
	// arrange
	event := givenStorableEvent(t, 1)
	event.AggregateID = uuid.New()

	// act
	_, err := eventstore.PrepareForAppend(uuid.New(), "Academic", 0, eventstore.StorableEvents{event})

	// assert
	assert.ErrorIs(t, err, eventstore.ErrAggregateIDMismatch)
}

func Test_StorageError_WrapsStorageFailure(t *testing.T) {
	err := eventstore.StorageError(eventstore.ErrQueryingEventsFailed)

	assert.ErrorIs(t, err, eventstore.ErrStorageFailure)
	assert.ErrorIs(t, err, eventstore.ErrQueryingEventsFailed)
	assert.False(t, eventstore.IsConcurrencyConflict(err))
}

func givenStorableEvent(t *testing.T, version int) eventstore.StorableEvent {
	t.Helper()

	event, err := eventstore.BuildStorableEvent(
		"AcademicNameChanged",
		[]byte(`{"EmpName": "Smith J."}`),
		uuid.New(),
		version,
	)
	require.NoError(t, err)

	return event
}
