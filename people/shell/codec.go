package shell

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/johnmillerATcodemag-com/Zeus.People-sub005/eventstore"
	"github.com/johnmillerATcodemag-com/Zeus.People-sub005/people/core"
)

// Payloads are field-name keyed JSON. Value objects encode to their wrapped primitive.
var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Encode returns the event type tag and the JSON payload of a domain event.
func Encode(event core.DomainEvent) (string, []byte, error) {
	if event == nil {
		return "", nil, errors.Join(ErrEncodeFailure, errors.New("event is nil"))
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return "", nil, errors.Join(ErrEncodeFailure, err)
	}

	return event.IsEventType(), payload, nil
}

// Decode reconstructs the concrete domain event named by eventType.
// Value objects are rebuilt through their validating factories, so a payload with an invalid value fails.
// Every field of the event, the EventMeta ones included, is required. Ids, times and value objects
// must not be blank and the version starts at 1.
func Decode(eventType string, payload []byte) (core.DomainEvent, error) {
	switch eventType {
	case core.AcademicRegisteredEventType:
		return decodeAs[core.AcademicRegistered](eventType, payload)
	case core.AcademicNameChangedEventType:
		return decodeAs[core.AcademicNameChanged](eventType, payload)
	case core.AcademicRankChangedEventType:
		return decodeAs[core.AcademicRankChanged](eventType, payload)
	case core.AcademicTenureGrantedEventType:
		return decodeAs[core.AcademicTenureGranted](eventType, payload)
	case core.AcademicContractEndDateSetEventType:
		return decodeAs[core.AcademicContractEndDateSet](eventType, payload)
	case core.AcademicAssignedToDepartmentEventType:
		return decodeAs[core.AcademicAssignedToDepartment](eventType, payload)
	case core.AcademicRoomAssignedEventType:
		return decodeAs[core.AcademicRoomAssigned](eventType, payload)
	case core.AcademicRoomRemovedEventType:
		return decodeAs[core.AcademicRoomRemoved](eventType, payload)
	case core.AcademicExtensionAssignedEventType:
		return decodeAs[core.AcademicExtensionAssigned](eventType, payload)
	case core.AcademicHomePhoneChangedEventType:
		return decodeAs[core.AcademicHomePhoneChanged](eventType, payload)
	case core.AcademicChairAssignedEventType:
		return decodeAs[core.AcademicChairAssigned](eventType, payload)
	case core.AcademicChairReleasedEventType:
		return decodeAs[core.AcademicChairReleased](eventType, payload)
	case core.AcademicSubjectAddedEventType:
		return decodeAs[core.AcademicSubjectAdded](eventType, payload)
	case core.AcademicSubjectRatedEventType:
		return decodeAs[core.AcademicSubjectRated](eventType, payload)
	case core.AcademicDegreeAddedEventType:
		return decodeAs[core.AcademicDegreeAdded](eventType, payload)
	case core.AcademicAuditeeAddedEventType:
		return decodeAs[core.AcademicAuditeeAdded](eventType, payload)
	case core.AcademicJoinedCommitteeEventType:
		return decodeAs[core.AcademicJoinedCommittee](eventType, payload)
	case core.AcademicDeletedEventType:
		return decodeAs[core.AcademicDeleted](eventType, payload)

	case core.DepartmentCreatedEventType:
		return decodeAs[core.DepartmentCreated](eventType, payload)
	case core.DepartmentHeadAssignedEventType:
		return decodeAs[core.DepartmentHeadAssigned](eventType, payload)
	case core.DepartmentBudgetsChangedEventType:
		return decodeAs[core.DepartmentBudgetsChanged](eventType, payload)
	case core.DepartmentDeletedEventType:
		return decodeAs[core.DepartmentDeleted](eventType, payload)

	case core.RoomCreatedEventType:
		return decodeAs[core.RoomCreated](eventType, payload)
	case core.RoomDeletedEventType:
		return decodeAs[core.RoomDeleted](eventType, payload)

	case core.ChairCreatedEventType:
		return decodeAs[core.ChairCreated](eventType, payload)
	case core.ChairAssignedToProfessorEventType:
		return decodeAs[core.ChairAssignedToProfessor](eventType, payload)
	case core.ChairReleasedEventType:
		return decodeAs[core.ChairReleased](eventType, payload)
	case core.ChairDeletedEventType:
		return decodeAs[core.ChairDeleted](eventType, payload)

	default:
		return nil, errors.Join(ErrDecodeFailure, fmt.Errorf("%w: %q", ErrUnknownEventType, eventType))
	}
}

func decodeAs[E core.DomainEvent](eventType string, payload []byte) (core.DomainEvent, error) {
	var fields map[string]jsoniter.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil {
		return nil, errors.Join(ErrDecodeFailure, fmt.Errorf("%s: %w", eventType, err))
	}

	var event E
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, errors.Join(ErrDecodeFailure, fmt.Errorf("%s: %w", eventType, err))
	}

	missing := missingFields(reflect.ValueOf(event), fields)
	if event.Meta().Version < 1 {
		missing = append(missing, "Version")
	}

	if len(missing) > 0 {
		return nil, errors.Join(
			ErrDecodeFailure,
			fmt.Errorf("%w: %s of %s", ErrMissingField, strings.Join(missing, ", "), eventType),
		)
	}

	return event, nil
}

type blankable interface {
	IsZero() bool
}

// missingFields names the fields of event that are absent or null in the payload or decoded blank.
// Embedded structs contribute their fields, as they are flattened in the payload.
func missingFields(event reflect.Value, payload map[string]jsoniter.RawMessage) []string {
	var missing []string

	for i := range event.NumField() {
		field := event.Type().Field(i)

		if field.Anonymous {
			missing = append(missing, missingFields(event.Field(i), payload)...)
			continue
		}

		if !field.IsExported() {
			continue
		}

		raw, present := payload[field.Name]
		if !present || string(raw) == "null" || isBlank(event.Field(i).Interface()) {
			missing = append(missing, field.Name)
		}
	}

	return missing
}

func isBlank(value any) bool {
	switch v := value.(type) {
	case uuid.UUID:
		return v == uuid.Nil
	case blankable:
		return v.IsZero()
	default:
		return false
	}
}

// StorableEventFrom converts a domain event to a storable event.
// AppendEvents fills in the storage key, aggregate id and aggregate type.
func StorableEventFrom(event core.DomainEvent) (eventstore.StorableEvent, error) {
	eventType, payload, err := Encode(event)
	if err != nil {
		return eventstore.StorableEvent{}, err
	}

	meta := event.Meta()

	storableEvent, err := eventstore.BuildStorableEvent(eventType, payload, meta.EventID, meta.Version)
	if err != nil {
		return eventstore.StorableEvent{}, errors.Join(ErrEncodeFailure, err)
	}

	storableEvent.AggregateID = meta.AggregateID

	return storableEvent, nil
}

// StorableEventsFrom converts domain events to storable events, keeping their order.
func StorableEventsFrom(events core.DomainEvents) (eventstore.StorableEvents, error) {
	storableEvents := make(eventstore.StorableEvents, 0, len(events))

	for _, event := range events {
		storableEvent, err := StorableEventFrom(event)
		if err != nil {
			return nil, err
		}

		storableEvents = append(storableEvents, storableEvent)
	}

	return storableEvents, nil
}

// DomainEventFrom converts a storable event to its domain event and checks that the envelope
// agrees with the identity and version recorded in the payload. The envelope's timestamp is the
// store's own and is not compared with OccurredAt.
func DomainEventFrom(storableEvent eventstore.StorableEvent) (core.DomainEvent, error) {
	event, err := Decode(storableEvent.EventType, storableEvent.EventData)
	if err != nil {
		return nil, err
	}

	meta := event.Meta()

	switch {
	case meta.EventID != storableEvent.EventID:
		return nil, envelopeMismatch(storableEvent, "event id")
	case storableEvent.AggregateID != meta.AggregateID:
		return nil, envelopeMismatch(storableEvent, "aggregate id")
	case storableEvent.Version != meta.Version:
		return nil, envelopeMismatch(storableEvent, "version")
	}

	return event, nil
}

// DomainEventsFrom converts storable events to domain events, keeping their order.
func DomainEventsFrom(storableEvents eventstore.StorableEvents) (core.DomainEvents, error) {
	domainEvents := make(core.DomainEvents, 0, len(storableEvents))

	for _, storableEvent := range storableEvents {
		domainEvent, err := DomainEventFrom(storableEvent)
		if err != nil {
			return nil, err
		}

		domainEvents = append(domainEvents, domainEvent)
	}

	return domainEvents, nil
}

func envelopeMismatch(storableEvent eventstore.StorableEvent, field string) error {
	return errors.Join(
		ErrDecodeFailure,
		fmt.Errorf("%w: %s of %s %s", ErrEnvelopeMismatch, field, storableEvent.EventType, storableEvent.EventID),
	)
}
