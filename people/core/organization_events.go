package core

import (
	"github.com/google/uuid"
)

// Event type identifiers, used as the tag of the persisted envelope.
const (
	DepartmentCreatedEventType        = "DepartmentCreated"
	DepartmentHeadAssignedEventType   = "DepartmentHeadAssigned"
	DepartmentBudgetsChangedEventType = "DepartmentBudgetsChanged"
	DepartmentDeletedEventType        = "DepartmentDeleted"
	RoomCreatedEventType              = "RoomCreated"
	RoomDeletedEventType              = "RoomDeleted"
	ChairCreatedEventType             = "ChairCreated"
	ChairAssignedToProfessorEventType = "ChairAssignedToProfessor"
	ChairReleasedEventType            = "ChairReleased"
	ChairDeletedEventType             = "ChairDeleted"
)

// DepartmentCreated records a new department with its budgets.
type DepartmentCreated struct {
	EventMeta
	Name           Title
	ResearchBudget MoneyAmount
	TeachingBudget MoneyAmount
}

// IsEventType returns the event type identifier.
func (e DepartmentCreated) IsEventType() string {
	return DepartmentCreatedEventType
}

// DepartmentHeadAssigned records the professor heading the department.
type DepartmentHeadAssigned struct {
	EventMeta
	HeadID uuid.UUID
}

// IsEventType returns the event type identifier.
func (e DepartmentHeadAssigned) IsEventType() string {
	return DepartmentHeadAssignedEventType
}

// DepartmentBudgetsChanged records new research and teaching budgets.
type DepartmentBudgetsChanged struct {
	EventMeta
	ResearchBudget MoneyAmount
	TeachingBudget MoneyAmount
}

// IsEventType returns the event type identifier.
func (e DepartmentBudgetsChanged) IsEventType() string {
	return DepartmentBudgetsChangedEventType
}

// DepartmentDeleted records that the department was dissolved.
type DepartmentDeleted struct {
	EventMeta
}

// IsEventType returns the event type identifier.
func (e DepartmentDeleted) IsEventType() string {
	return DepartmentDeletedEventType
}

// RoomCreated records a room in a building.
type RoomCreated struct {
	EventMeta
	RoomNr RoomNr
	BldgNr BldgNr
}

// IsEventType returns the event type identifier.
func (e RoomCreated) IsEventType() string {
	return RoomCreatedEventType
}

// RoomDeleted records that the room no longer exists.
type RoomDeleted struct {
	EventMeta
}

// IsEventType returns the event type identifier.
func (e RoomDeleted) IsEventType() string {
	return RoomDeletedEventType
}

// ChairCreated records a new chair.
type ChairCreated struct {
	EventMeta
	Name Title
}

// IsEventType returns the event type identifier.
func (e ChairCreated) IsEventType() string {
	return ChairCreatedEventType
}

// ChairAssignedToProfessor records the professor holding the chair.
type ChairAssignedToProfessor struct {
	EventMeta
	ProfessorID uuid.UUID
}

// IsEventType returns the event type identifier.
func (e ChairAssignedToProfessor) IsEventType() string {
	return ChairAssignedToProfessorEventType
}

// ChairReleased records that the chair is vacant again.
type ChairReleased struct {
	EventMeta
	ProfessorID uuid.UUID
}

// IsEventType returns the event type identifier.
func (e ChairReleased) IsEventType() string {
	return ChairReleasedEventType
}

// ChairDeleted records that the chair was abolished.
type ChairDeleted struct {
	EventMeta
}

// IsEventType returns the event type identifier.
func (e ChairDeleted) IsEventType() string {
	return ChairDeletedEventType
}
