package core

import (
	"time"

	"github.com/google/uuid"
)

// Room is identified for humans by its room number within a building.
type Room struct {
	EventSourced

	roomNr  RoomNr
	bldgNr  BldgNr
	deleted bool
}

// NewRoom returns a blank Room to replay stored events into.
func NewRoom() *Room {
	return &Room{EventSourced: eventSourced(RoomAggregateType, RoomCreatedEventType)}
}

// CreateRoom creates a room by raising RoomCreated.
// Uniqueness of room and building number is checked by the caller with rules.RoomUnique.
func CreateRoom(id uuid.UUID, roomNr RoomNr, bldgNr BldgNr, at time.Time) (*Room, error) {
	if err := requireID("room id", id); err != nil {
		return nil, err
	}

	if roomNr.IsZero() || bldgNr.IsZero() {
		return nil, invalid("room", id.String(), "room nr and bldg nr are required")
	}

	r := NewRoom()
	if err := r.raise(RoomCreated{EventMeta: r.metaForCreation(id, at), RoomNr: roomNr, BldgNr: bldgNr}, r.when); err != nil {
		return nil, err
	}

	return r, nil
}

func (r *Room) AggregateType() string {
	return RoomAggregateType
}

func (r *Room) Apply(event DomainEvent) error {
	return r.replay(event, r.when)
}

func (r *Room) Delete(at time.Time) error {
	if err := guardNotDeleted(RoomAggregateType, r.deleted); err != nil {
		return err
	}

	return r.raise(RoomDeleted{EventMeta: r.nextMeta(at)}, r.when)
}

func (r *Room) when(event DomainEvent) error {
	switch e := event.(type) {
	case RoomCreated:
		r.roomNr, r.bldgNr = e.RoomNr, e.BldgNr
	case RoomDeleted:
		r.deleted = true
	default:
		return unexpectedEvent(RoomAggregateType, event)
	}

	return nil
}

func (r *Room) RoomNr() RoomNr {
	return r.roomNr
}

func (r *Room) BldgNr() BldgNr {
	return r.bldgNr
}

func (r *Room) IsDeleted() bool {
	return r.deleted
}
