package shell

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrMappingToEventMetadataFailed is returned when metadata cannot be decoded.
var ErrMappingToEventMetadataFailed = errors.New("mapping to event metadata failed")

// MessageID represents a unique message identifier.
type MessageID = string

// CausationID represents the ID of the message that caused this event.
type CausationID = string

// CorrelationID represents the ID correlating related events.
type CorrelationID = string

// EventMetadata contains event tracking information. It travels with published events.
type EventMetadata struct {
	MessageID     MessageID
	CausationID   CausationID
	CorrelationID CorrelationID
}

type metadataContextKey string

const (
	correlationIDKey metadataContextKey = "shell.correlation_id"
	causationIDKey   metadataContextKey = "shell.causation_id"
)

// BuildEventMetadata creates EventMetadata from UUID values.
func BuildEventMetadata(messageID uuid.UUID, causationID uuid.UUID, correlationID uuid.UUID) EventMetadata {
	return EventMetadata{
		MessageID:     messageID.String(),
		CausationID:   causationID.String(),
		CorrelationID: correlationID.String(),
	}
}

// WithCorrelationID returns a context carrying the correlation id for the events it causes.
func WithCorrelationID(ctx context.Context, correlationID uuid.UUID) context.Context {
	return context.WithValue(ctx, correlationIDKey, correlationID)
}

// WithCausationID returns a context carrying the id of the command or message causing the events.
func WithCausationID(ctx context.Context, causationID uuid.UUID) context.Context {
	return context.WithValue(ctx, causationIDKey, causationID)
}

// EventMetadataFor builds the metadata of an event from the ids carried by ctx.
// Without them the event correlates with and is caused by itself.
func EventMetadataFor(ctx context.Context, eventID uuid.UUID) EventMetadata {
	correlationID, ok := ctx.Value(correlationIDKey).(uuid.UUID)
	if !ok {
		correlationID = eventID
	}

	causationID, ok := ctx.Value(causationIDKey).(uuid.UUID)
	if !ok {
		causationID = correlationID
	}

	return BuildEventMetadata(eventID, causationID, correlationID)
}

// EventMetadataFromJSON decodes metadata, e.g. from message headers.
func EventMetadataFromJSON(data []byte) (EventMetadata, error) {
	metadata := new(EventMetadata)
	if err := json.Unmarshal(data, metadata); err != nil {
		return EventMetadata{}, errors.Join(ErrMappingToEventMetadataFailed, err)
	}

	return *metadata, nil
}
