package createroom

import (
	"time"

	"github.com/google/uuid"

	"github.com/johnmillerATcodemag-com/Zeus.People-sub005/people/core"
)

const (
	commandType = "CreateRoom"
)

// Command represents the intent to create a room.
type Command struct {
	RoomID          uuid.UUID
	RoomNr          core.RoomNr
	BldgNr          core.BldgNr
	ExistingRoomIDs []uuid.UUID
	OccurredAt      core.OccurredAt
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(
	roomID uuid.UUID,
	roomNr core.RoomNr,
	bldgNr core.BldgNr,
	existingRoomIDs []uuid.UUID,
	occurredAt time.Time,
) Command {

	return Command{
		RoomID:          roomID,
		RoomNr:          roomNr,
		BldgNr:          bldgNr,
		ExistingRoomIDs: existingRoomIDs,
		OccurredAt:      core.ToOccurredAt(occurredAt),
	}
}
