package joincommittee

import (
	"time"

	"github.com/google/uuid"

	"github.com/johnmillerATcodemag-com/Zeus.People-sub005/people/core"
)

const (
	commandType = "JoinCommittee"
)

// Command represents the intent to add an academic to a committee.
type Command struct {
	AcademicID  uuid.UUID
	CommitteeID uuid.UUID
	OccurredAt  core.OccurredAt
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(academicID uuid.UUID, committeeID uuid.UUID, occurredAt time.Time) Command {
	return Command{
		AcademicID:  academicID,
		CommitteeID: committeeID,
		OccurredAt:  core.ToOccurredAt(occurredAt),
	}
}
