package assigndepartmenthead

import (
	"time"

	"github.com/google/uuid"

	"github.com/johnmillerATcodemag-com/Zeus.People-sub005/people/core"
)

const (
	commandType = "AssignDepartmentHead"
)

// Command represents the intent to make an academic the head of a department.
type Command struct {
	DepartmentID uuid.UUID
	AcademicID   uuid.UUID
	OccurredAt   core.OccurredAt
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(departmentID uuid.UUID, academicID uuid.UUID, occurredAt time.Time) Command {
	return Command{
		DepartmentID: departmentID,
		AcademicID:   academicID,
		OccurredAt:   core.ToOccurredAt(occurredAt),
	}
}
