package core

import (
	"time"

	"github.com/google/uuid"
)

// Event type identifiers, used as the tag of the persisted envelope.
const (
	AcademicRegisteredEventType           = "AcademicRegistered"
	AcademicNameChangedEventType          = "AcademicNameChanged"
	AcademicRankChangedEventType          = "AcademicRankChanged"
	AcademicTenureGrantedEventType        = "AcademicTenureGranted"
	AcademicContractEndDateSetEventType   = "AcademicContractEndDateSet"
	AcademicAssignedToDepartmentEventType = "AcademicAssignedToDepartment"
	AcademicRoomAssignedEventType         = "AcademicRoomAssigned"
	AcademicRoomRemovedEventType          = "AcademicRoomRemoved"
	AcademicExtensionAssignedEventType    = "AcademicExtensionAssigned"
	AcademicHomePhoneChangedEventType     = "AcademicHomePhoneChanged"
	AcademicChairAssignedEventType        = "AcademicChairAssigned"
	AcademicChairReleasedEventType        = "AcademicChairReleased"
	AcademicSubjectAddedEventType         = "AcademicSubjectAdded"
	AcademicSubjectRatedEventType         = "AcademicSubjectRated"
	AcademicDegreeAddedEventType          = "AcademicDegreeAdded"
	AcademicAuditeeAddedEventType         = "AcademicAuditeeAdded"
	AcademicJoinedCommitteeEventType      = "AcademicJoinedCommittee"
	AcademicDeletedEventType              = "AcademicDeleted"
)

// AcademicRegistered records that an academic joined the staff.
type AcademicRegistered struct {
	EventMeta
	EmpNr   EmpNr
	EmpName EmpName
	Rank    Rank
}

// IsEventType returns the event type identifier.
func (e AcademicRegistered) IsEventType() string {
	return AcademicRegisteredEventType
}

// AcademicNameChanged records a new display name.
type AcademicNameChanged struct {
	EventMeta
	EmpName EmpName
}

// IsEventType returns the event type identifier.
func (e AcademicNameChanged) IsEventType() string {
	return AcademicNameChangedEventType
}

// AcademicRankChanged records a promotion or a change of rank.
type AcademicRankChanged struct {
	EventMeta
	Rank Rank
}

// IsEventType returns the event type identifier.
func (e AcademicRankChanged) IsEventType() string {
	return AcademicRankChangedEventType
}

// AcademicTenureGranted records that the academic is tenured from now on. Any contract end date is void.
type AcademicTenureGranted struct {
	EventMeta
}

// IsEventType returns the event type identifier.
func (e AcademicTenureGranted) IsEventType() string {
	return AcademicTenureGrantedEventType
}

// AcademicContractEndDateSet records the end of a fixed-term contract.
type AcademicContractEndDateSet struct {
	EventMeta
	ContractEndDate time.Time
}

// IsEventType returns the event type identifier.
func (e AcademicContractEndDateSet) IsEventType() string {
	return AcademicContractEndDateSetEventType
}

// AcademicAssignedToDepartment records the department the academic works for.
type AcademicAssignedToDepartment struct {
	EventMeta
	DepartmentID uuid.UUID
}

// IsEventType returns the event type identifier.
func (e AcademicAssignedToDepartment) IsEventType() string {
	return AcademicAssignedToDepartmentEventType
}

// AcademicRoomAssigned records the office of the academic.
type AcademicRoomAssigned struct {
	EventMeta
	RoomID uuid.UUID
}

// IsEventType returns the event type identifier.
func (e AcademicRoomAssigned) IsEventType() string {
	return AcademicRoomAssignedEventType
}

// AcademicRoomRemoved records that the academic moved out of their office.
type AcademicRoomRemoved struct {
	EventMeta
	RoomID uuid.UUID
}

// IsEventType returns the event type identifier.
func (e AcademicRoomRemoved) IsEventType() string {
	return AcademicRoomRemovedEventType
}

// AcademicExtensionAssigned records the telephone extension of the academic.
type AcademicExtensionAssigned struct {
	EventMeta
	ExtNr       ExtNr
	AccessLevel AccessLevel
}

// IsEventType returns the event type identifier.
func (e AcademicExtensionAssigned) IsEventType() string {
	return AcademicExtensionAssignedEventType
}

// AcademicHomePhoneChanged records the home phone number.
type AcademicHomePhoneChanged struct {
	EventMeta
	HomePhone PhoneNumber
}

// IsEventType returns the event type identifier.
func (e AcademicHomePhoneChanged) IsEventType() string {
	return AcademicHomePhoneChangedEventType
}

// AcademicChairAssigned records that a professor holds a chair.
type AcademicChairAssigned struct {
	EventMeta
	ChairID uuid.UUID
}

// IsEventType returns the event type identifier.
func (e AcademicChairAssigned) IsEventType() string {
	return AcademicChairAssignedEventType
}

// AcademicChairReleased records that a professor no longer holds their chair.
type AcademicChairReleased struct {
	EventMeta
	ChairID uuid.UUID
}

// IsEventType returns the event type identifier.
func (e AcademicChairReleased) IsEventType() string {
	return AcademicChairReleasedEventType
}

// AcademicSubjectAdded records a subject the academic teaches.
type AcademicSubjectAdded struct {
	EventMeta
	SubjectID uuid.UUID
}

// IsEventType returns the event type identifier.
func (e AcademicSubjectAdded) IsEventType() string {
	return AcademicSubjectAddedEventType
}

// AcademicSubjectRated records how the academic rates a subject they teach.
type AcademicSubjectRated struct {
	EventMeta
	SubjectID uuid.UUID
	Rating    Rating
}

// IsEventType returns the event type identifier.
func (e AcademicSubjectRated) IsEventType() string {
	return AcademicSubjectRatedEventType
}

// AcademicDegreeAdded records a degree the academic holds.
type AcademicDegreeAdded struct {
	EventMeta
	DegreeID uuid.UUID
}

// IsEventType returns the event type identifier.
func (e AcademicDegreeAdded) IsEventType() string {
	return AcademicDegreeAddedEventType
}

// AcademicAuditeeAdded records that the academic audits the teaching of another academic.
type AcademicAuditeeAdded struct {
	EventMeta
	AuditeeID uuid.UUID
}

// IsEventType returns the event type identifier.
func (e AcademicAuditeeAdded) IsEventType() string {
	return AcademicAuditeeAddedEventType
}

// AcademicJoinedCommittee records committee membership.
type AcademicJoinedCommittee struct {
	EventMeta
	CommitteeID uuid.UUID
}

// IsEventType returns the event type identifier.
func (e AcademicJoinedCommittee) IsEventType() string {
	return AcademicJoinedCommitteeEventType
}

// AcademicDeleted records that the academic left the staff. No further changes are accepted.
type AcademicDeleted struct {
	EventMeta
}

// IsEventType returns the event type identifier.
func (e AcademicDeleted) IsEventType() string {
	return AcademicDeletedEventType
}
