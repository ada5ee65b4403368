package shell

import "errors"

var (
	// ErrNotFound is returned when an aggregate has no stored events.
	ErrNotFound = errors.New("aggregate not found")

	// ErrDecodeFailure is joined into every error of converting a storable event back to a domain event.
	// It indicates corrupted data or an unknown schema version and is never skipped.
	ErrDecodeFailure = errors.New("decoding the stored event failed")

	// ErrUnknownEventType is returned for event types the codec does not know.
	ErrUnknownEventType = errors.New("unknown event type")

	// ErrMissingField is returned for a payload that lacks a field of its event type or carries a blank one.
	ErrMissingField = errors.New("event payload misses a required field")

	// ErrEnvelopeMismatch is returned when the envelope columns disagree with the event payload.
	ErrEnvelopeMismatch = errors.New("envelope does not match the event payload")

	// ErrEncodeFailure is returned when a domain event cannot be converted to a storable event.
	ErrEncodeFailure = errors.New("encoding the domain event failed")

	// ErrUncommittedEvents is returned by Refresh for an aggregate with pending changes.
	ErrUncommittedEvents = errors.New("aggregate has uncommitted events")

	// ErrNothingToAdd is returned by Add for an aggregate without uncommitted events.
	ErrNothingToAdd = errors.New("aggregate has no events to add")
)
