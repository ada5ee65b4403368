package core

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Academic is a member of the academic staff.
//
// A tenured academic has no contract end date. Only professors hold chairs or serve on committees,
// and an academic holds at most one chair. An academic is a teacher once they teach at least one subject.
type Academic struct {
	EventSourced

	empNr           EmpNr
	empName         EmpName
	rank            Rank
	tenured         bool
	contractEndDate time.Time
	departmentID    uuid.UUID
	roomID          uuid.UUID
	chairID         uuid.UUID
	extNr           ExtNr
	accessLevel     AccessLevel
	homePhone       PhoneNumber
	subjectIDs      []uuid.UUID
	ratings         map[uuid.UUID]Rating
	degreeIDs       []uuid.UUID
	auditeeIDs      []uuid.UUID
	committeeIDs    []uuid.UUID
	deleted         bool
}

// NewAcademic returns a blank Academic to replay stored events into.
func NewAcademic() *Academic {
	return &Academic{EventSourced: eventSourced(AcademicAggregateType, AcademicRegisteredEventType)}
}

// RegisterAcademic creates an academic by raising AcademicRegistered.
func RegisterAcademic(id uuid.UUID, empNr EmpNr, empName EmpName, rank Rank, at time.Time) (*Academic, error) {
	if err := requireID("academic id", id); err != nil {
		return nil, err
	}

	if empNr.IsZero() || empName.IsZero() || rank.IsZero() {
		return nil, invalid("academic", id.String(), "emp nr, emp name and rank are required")
	}

	a := NewAcademic()
	event := AcademicRegistered{EventMeta: a.metaForCreation(id, at), EmpNr: empNr, EmpName: empName, Rank: rank}

	if err := a.raise(event, a.when); err != nil {
		return nil, err
	}

	return a, nil
}

func (a *Academic) AggregateType() string {
	return AcademicAggregateType
}

// Apply folds one stored event into the academic without checking business rules.
func (a *Academic) Apply(event DomainEvent) error {
	return a.replay(event, a.when)
}

// ChangeName raises AcademicNameChanged unless the name is unchanged.
func (a *Academic) ChangeName(empName EmpName, at time.Time) error {
	if err := a.guard(); err != nil {
		return err
	}

	if empName.IsZero() {
		return invalid("emp name", "", "must not be empty")
	}

	if empName == a.empName {
		return nil
	}

	return a.raise(AcademicNameChanged{EventMeta: a.nextMeta(at), EmpName: empName}, a.when)
}

// ChangeRank raises AcademicRankChanged. A chair holder must stay a professor.
func (a *Academic) ChangeRank(rank Rank, at time.Time) error {
	if err := a.guard(); err != nil {
		return err
	}

	if rank.IsZero() {
		return invalid("rank", "", "must not be empty")
	}

	if rank == a.rank {
		return nil
	}

	if a.chairID != uuid.Nil && !rank.IsProfessor() {
		return Violation(RuleChairRequiresProfessor, "release the chair before changing the rank of its holder")
	}

	return a.raise(AcademicRankChanged{EventMeta: a.nextMeta(at), Rank: rank}, a.when)
}

// GrantTenure raises AcademicTenureGranted, which voids any contract end date.
func (a *Academic) GrantTenure(at time.Time) error {
	if err := a.guard(); err != nil {
		return err
	}

	if a.tenured {
		return nil
	}

	return a.raise(AcademicTenureGranted{EventMeta: a.nextMeta(at)}, a.when)
}

// SetContractEndDate raises AcademicContractEndDateSet. The date must be after the day of registration
// and is rejected for tenured academics.
func (a *Academic) SetContractEndDate(endDate time.Time, at time.Time) error {
	if err := a.guard(); err != nil {
		return err
	}

	if a.tenured {
		return Violation(RuleTenureExcludesContract, "a tenured academic has no contract end date")
	}

	date := ToDate(endDate)
	if !date.After(ToDate(a.createdAt)) {
		return Violation(RuleContractEndDate, "the contract must end after the day of registration")
	}

	if date.Equal(a.contractEndDate) {
		return nil
	}

	return a.raise(AcademicContractEndDateSet{EventMeta: a.nextMeta(at), ContractEndDate: date}, a.when)
}

// AssignToDepartment raises AcademicAssignedToDepartment unless already assigned to it.
// Uniqueness of the name within the department is checked by the caller with rules.UniqueNameInDepartment.
func (a *Academic) AssignToDepartment(departmentID uuid.UUID, at time.Time) error {
	if err := a.guard(); err != nil {
		return err
	}

	if err := requireID("department id", departmentID); err != nil {
		return err
	}

	if departmentID == a.departmentID {
		return nil
	}

	return a.raise(AcademicAssignedToDepartment{EventMeta: a.nextMeta(at), DepartmentID: departmentID}, a.when)
}

// AssignRoom raises AcademicRoomAssigned. An assigned room must be removed before another one is assigned.
func (a *Academic) AssignRoom(roomID uuid.UUID, at time.Time) error {
	if err := a.guard(); err != nil {
		return err
	}

	if err := requireID("room id", roomID); err != nil {
		return err
	}

	if roomID == a.roomID {
		return nil
	}

	if a.roomID != uuid.Nil {
		return Violation(RuleRoomOccupancy, "the academic already occupies room "+a.roomID.String())
	}

	return a.raise(AcademicRoomAssigned{EventMeta: a.nextMeta(at), RoomID: roomID}, a.when)
}

// RemoveRoom raises AcademicRoomRemoved for the currently assigned room.
func (a *Academic) RemoveRoom(roomID uuid.UUID, at time.Time) error {
	if err := a.guard(); err != nil {
		return err
	}

	if a.roomID == uuid.Nil || roomID != a.roomID {
		return Violation(RuleRoomOccupancy, "the academic does not occupy room "+roomID.String())
	}

	return a.raise(AcademicRoomRemoved{EventMeta: a.nextMeta(at), RoomID: roomID}, a.when)
}

func (a *Academic) AssignExtension(extNr ExtNr, accessLevel AccessLevel, at time.Time) error {
	if err := a.guard(); err != nil {
		return err
	}

	if extNr.IsZero() || accessLevel.IsZero() {
		return invalid("extension", extNr.String(), "ext nr and access level are required")
	}

	if extNr == a.extNr && accessLevel == a.accessLevel {
		return nil
	}

	return a.raise(AcademicExtensionAssigned{EventMeta: a.nextMeta(at), ExtNr: extNr, AccessLevel: accessLevel}, a.when)
}

func (a *Academic) ChangeHomePhone(homePhone PhoneNumber, at time.Time) error {
	if err := a.guard(); err != nil {
		return err
	}

	if homePhone.IsZero() {
		return invalid("phone number", "", "must not be empty")
	}

	if homePhone == a.homePhone {
		return nil
	}

	return a.raise(AcademicHomePhoneChanged{EventMeta: a.nextMeta(at), HomePhone: homePhone}, a.when)
}

// AssignChair raises AcademicChairAssigned. Only professors hold a chair, and at most one.
func (a *Academic) AssignChair(chairID uuid.UUID, at time.Time) error {
	if err := a.guard(); err != nil {
		return err
	}

	if err := requireID("chair id", chairID); err != nil {
		return err
	}

	if !a.rank.IsProfessor() {
		return Violation(RuleChairRequiresProfessor, "only a professor can hold a chair")
	}

	if chairID == a.chairID {
		return nil
	}

	if a.chairID != uuid.Nil {
		return Violation(RuleChairCardinality, "the professor already holds chair "+a.chairID.String())
	}

	return a.raise(AcademicChairAssigned{EventMeta: a.nextMeta(at), ChairID: chairID}, a.when)
}

// ReleaseChair raises AcademicChairReleased for the chair the academic holds.
func (a *Academic) ReleaseChair(chairID uuid.UUID, at time.Time) error {
	if err := a.guard(); err != nil {
		return err
	}

	if a.chairID == uuid.Nil || chairID != a.chairID {
		return Violation(RuleChairAssignment, "the academic does not hold chair "+chairID.String())
	}

	return a.raise(AcademicChairReleased{EventMeta: a.nextMeta(at), ChairID: chairID}, a.when)
}

func (a *Academic) AddSubject(subjectID uuid.UUID, at time.Time) error {
	if err := a.guard(); err != nil {
		return err
	}

	if err := requireID("subject id", subjectID); err != nil {
		return err
	}

	if slices.Contains(a.subjectIDs, subjectID) {
		return nil
	}

	return a.raise(AcademicSubjectAdded{EventMeta: a.nextMeta(at), SubjectID: subjectID}, a.when)
}

// RateSubject raises AcademicSubjectRated for a subject the academic teaches.
func (a *Academic) RateSubject(subjectID uuid.UUID, rating Rating, at time.Time) error {
	if err := a.guard(); err != nil {
		return err
	}

	if rating.IsZero() {
		return invalid("rating", rating.String(), "is required")
	}

	if !slices.Contains(a.subjectIDs, subjectID) {
		return Violation(RuleSubjectMustBeTaught, "the academic does not teach subject "+subjectID.String())
	}

	if current, rated := a.ratings[subjectID]; rated && current == rating {
		return nil
	}

	return a.raise(AcademicSubjectRated{EventMeta: a.nextMeta(at), SubjectID: subjectID, Rating: rating}, a.when)
}

func (a *Academic) AddDegree(degreeID uuid.UUID, at time.Time) error {
	if err := a.guard(); err != nil {
		return err
	}

	if err := requireID("degree id", degreeID); err != nil {
		return err
	}

	if slices.Contains(a.degreeIDs, degreeID) {
		return nil
	}

	return a.raise(AcademicDegreeAdded{EventMeta: a.nextMeta(at), DegreeID: degreeID}, a.when)
}

// AddAuditee raises AcademicAuditeeAdded. The auditor must be a teacher and cannot audit themselves.
// Whether the reverse pair exists is checked by the caller with rules.AuditIsAntiSymmetric.
func (a *Academic) AddAuditee(auditeeID uuid.UUID, at time.Time) error {
	if err := a.guard(); err != nil {
		return err
	}

	if err := requireID("auditee id", auditeeID); err != nil {
		return err
	}

	if !a.IsTeacher() {
		return Violation(RuleAuditorMustTeach, "only a teacher can audit")
	}

	if auditeeID == a.id {
		return Violation(RuleAntiSymmetricAudit, "an academic cannot audit themselves")
	}

	if slices.Contains(a.auditeeIDs, auditeeID) {
		return nil
	}

	return a.raise(AcademicAuditeeAdded{EventMeta: a.nextMeta(at), AuditeeID: auditeeID}, a.when)
}

// JoinCommittee raises AcademicJoinedCommittee. Only teaching professors serve on committees.
func (a *Academic) JoinCommittee(committeeID uuid.UUID, at time.Time) error {
	if err := a.guard(); err != nil {
		return err
	}

	if err := requireID("committee id", committeeID); err != nil {
		return err
	}

	if !a.IsProfessor() || !a.IsTeacher() {
		return Violation(RuleCommitteeEligibility, "only a professor who teaches can serve on a committee")
	}

	if slices.Contains(a.committeeIDs, committeeID) {
		return nil
	}

	return a.raise(AcademicJoinedCommittee{EventMeta: a.nextMeta(at), CommitteeID: committeeID}, a.when)
}

// Delete raises AcademicDeleted. Afterwards every domain method is rejected.
func (a *Academic) Delete(at time.Time) error {
	if err := a.guard(); err != nil {
		return err
	}

	return a.raise(AcademicDeleted{EventMeta: a.nextMeta(at)}, a.when)
}

func (a *Academic) guard() error {
	return guardNotDeleted(AcademicAggregateType, a.deleted)
}

func (a *Academic) when(event DomainEvent) error {
	switch e := event.(type) {
	case AcademicRegistered:
		a.empNr, a.empName, a.rank = e.EmpNr, e.EmpName, e.Rank
		a.ratings = make(map[uuid.UUID]Rating)
	case AcademicNameChanged:
		a.empName = e.EmpName
	case AcademicRankChanged:
		a.rank = e.Rank
	case AcademicTenureGranted:
		a.tenured = true
		a.contractEndDate = time.Time{}
	case AcademicContractEndDateSet:
		a.contractEndDate = e.ContractEndDate
	case AcademicAssignedToDepartment:
		a.departmentID = e.DepartmentID
	case AcademicRoomAssigned:
		a.roomID = e.RoomID
	case AcademicRoomRemoved:
		a.roomID = uuid.Nil
	case AcademicExtensionAssigned:
		a.extNr, a.accessLevel = e.ExtNr, e.AccessLevel
	case AcademicHomePhoneChanged:
		a.homePhone = e.HomePhone
	case AcademicChairAssigned:
		a.chairID = e.ChairID
	case AcademicChairReleased:
		a.chairID = uuid.Nil
	case AcademicSubjectAdded:
		a.subjectIDs = append(a.subjectIDs, e.SubjectID)
	case AcademicSubjectRated:
		a.ratings[e.SubjectID] = e.Rating
	case AcademicDegreeAdded:
		a.degreeIDs = append(a.degreeIDs, e.DegreeID)
	case AcademicAuditeeAdded:
		a.auditeeIDs = append(a.auditeeIDs, e.AuditeeID)
	case AcademicJoinedCommittee:
		a.committeeIDs = append(a.committeeIDs, e.CommitteeID)
	case AcademicDeleted:
		a.deleted = true
	default:
		return unexpectedEvent(AcademicAggregateType, event)
	}

	return nil
}

func (a *Academic) EmpNr() EmpNr {
	return a.empNr
}

func (a *Academic) EmpName() EmpName {
	return a.empName
}

func (a *Academic) Rank() Rank {
	return a.rank
}

// IsProfessor reports whether the academic has rank P.
func (a *Academic) IsProfessor() bool {
	return a.rank.IsProfessor()
}

// IsTeacher reports whether the academic teaches at least one subject.
func (a *Academic) IsTeacher() bool {
	return len(a.subjectIDs) > 0
}

func (a *Academic) IsTenured() bool {
	return a.tenured
}

// ContractEndDate returns the end of a fixed-term contract, if there is one.
func (a *Academic) ContractEndDate() (time.Time, bool) {
	return a.contractEndDate, !a.contractEndDate.IsZero()
}

func (a *Academic) DepartmentID() uuid.UUID {
	return a.departmentID
}

func (a *Academic) RoomID() uuid.UUID {
	return a.roomID
}

func (a *Academic) ChairID() uuid.UUID {
	return a.chairID
}

func (a *Academic) Extension() (ExtNr, AccessLevel) {
	return a.extNr, a.accessLevel
}

func (a *Academic) HomePhone() PhoneNumber {
	return a.homePhone
}

func (a *Academic) SubjectIDs() []uuid.UUID {
	return slices.Clone(a.subjectIDs)
}

// RatingOf returns the academic's rating of a subject, if they rated it.
func (a *Academic) RatingOf(subjectID uuid.UUID) (Rating, bool) {
	rating, ok := a.ratings[subjectID]
	return rating, ok
}

func (a *Academic) DegreeIDs() []uuid.UUID {
	return slices.Clone(a.degreeIDs)
}

func (a *Academic) AuditeeIDs() []uuid.UUID {
	return slices.Clone(a.auditeeIDs)
}

// Audits reports whether the academic audits the academic with the given id.
func (a *Academic) Audits(academicID uuid.UUID) bool {
	return slices.Contains(a.auditeeIDs, academicID)
}

func (a *Academic) CommitteeIDs() []uuid.UUID {
	return slices.Clone(a.committeeIDs)
}

func (a *Academic) IsDeleted() bool {
	return a.deleted
}
