package assigntodepartment

import (
	"time"

	"github.com/google/uuid"

	"github.com/johnmillerATcodemag-com/Zeus.People-sub005/people/core"
)

const (
	commandType = "AssignAcademicToDepartment"
)

// Command represents the intent to move an academic into a department.
type Command struct {
	AcademicID          uuid.UUID
	DepartmentID        uuid.UUID
	DepartmentMemberIDs []uuid.UUID
	OccurredAt          core.OccurredAt
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(academicID uuid.UUID, departmentID uuid.UUID, memberIDs []uuid.UUID, occurredAt time.Time) Command {
	return Command{
		AcademicID:          academicID,
		DepartmentID:        departmentID,
		DepartmentMemberIDs: memberIDs,
		OccurredAt:          core.ToOccurredAt(occurredAt),
	}
}
