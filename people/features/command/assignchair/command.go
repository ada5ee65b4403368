package assignchair

import (
	"time"

	"github.com/google/uuid"

	"github.com/johnmillerATcodemag-com/Zeus.People-sub005/people/core"
)

const (
	commandType = "AssignChair"
)

// Command represents the intent to give a chair to a professor.
type Command struct {
	ChairID       uuid.UUID
	ProfessorID   uuid.UUID
	KnownChairIDs []uuid.UUID
	OccurredAt    core.OccurredAt
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(chairID uuid.UUID, professorID uuid.UUID, knownChairIDs []uuid.UUID, occurredAt time.Time) Command {
	return Command{
		ChairID:       chairID,
		ProfessorID:   professorID,
		KnownChairIDs: knownChairIDs,
		OccurredAt:    core.ToOccurredAt(occurredAt),
	}
}
