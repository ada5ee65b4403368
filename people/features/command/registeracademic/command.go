package registeracademic

import (
	"time"

	"github.com/google/uuid"

	"github.com/johnmillerATcodemag-com/Zeus.People-sub005/people/core"
)

const (
	commandType = "RegisterAcademic"
)

// Command represents the intent to register an academic.
type Command struct {
	AcademicID          uuid.UUID
	EmpNr               core.EmpNr
	EmpName             core.EmpName
	Rank                core.Rank
	DepartmentID        uuid.UUID // uuid.Nil registers without a department
	DepartmentMemberIDs []uuid.UUID
	OccurredAt          core.OccurredAt
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a Command that registers the academic without a department.
func BuildCommand(academicID uuid.UUID, empNr core.EmpNr, empName core.EmpName, rank core.Rank, occurredAt time.Time) Command {
	return Command{
		AcademicID: academicID,
		EmpNr:      empNr,
		EmpName:    empName,
		Rank:       rank,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}

// InDepartment returns a copy of the command that also assigns the department.
func (c Command) InDepartment(departmentID uuid.UUID, memberIDs ...uuid.UUID) Command {
	c.DepartmentID = departmentID
	c.DepartmentMemberIDs = memberIDs

	return c
}
