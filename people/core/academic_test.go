package core_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnmillerATcodemag-com/Zeus.People-sub005/people/core"
)

func Test_RegisterAcademic_RaisesTheFirstEvent(t *testing.T) {
	// arrange
	id := uuid.New()
	empNr := mustValue(core.NewEmpNr("E100"))
	empName := mustValue(core.NewEmpName("Smith J."))

	// act
	academic, err := core.RegisterAcademic(id, empNr, empName, core.RankProfessor, registeredAt)

	// assert
	require.NoError(t, err)
	assert.Equal(t, id, academic.ID())
	assert.Equal(t, 1, academic.Version())
	assert.Equal(t, registeredAt, academic.CreatedAt())
	assert.Equal(t, registeredAt, academic.ModifiedAt())
	assert.True(t, academic.IsProfessor())
	assert.False(t, academic.IsTeacher())

	events := academic.UncommittedEvents()
	require.Len(t, events, 1)
	registered, ok := events[0].(core.AcademicRegistered)
	require.True(t, ok)
	assert.Equal(t, id, registered.AggregateID)
	assert.Equal(t, 1, registered.Version)
	assert.NotEqual(t, uuid.Nil, registered.EventID)
	assert.Equal(t, empName, registered.EmpName)
}

func Test_RegisterAcademic_RejectsMissingValues(t *testing.T) {
	empNr := mustValue(core.NewEmpNr("E100"))
	empName := mustValue(core.NewEmpName("Smith J."))

	_, err := core.RegisterAcademic(uuid.Nil, empNr, empName, core.RankLecturer, registeredAt)
	assert.ErrorIs(t, err, core.ErrInvalidValue)

	_, err = core.RegisterAcademic(uuid.New(), empNr, core.EmpName{}, core.RankLecturer, registeredAt)
	assert.ErrorIs(t, err, core.ErrInvalidValue)

	_, err = core.RegisterAcademic(uuid.New(), empNr, empName, core.Rank{}, registeredAt)
	assert.ErrorIs(t, err, core.ErrInvalidValue)
}

func Test_Academic_EachMutationRaisesExactlyOneEvent(t *testing.T) {
	// setup
	academic := givenAcademic(t, "Smith J.", core.RankSeniorLecturer)
	subjectID := uuid.New()

	// act
	require.NoError(t, academic.ChangeName(mustValue(core.NewEmpName("Smith John")), later(1)))
	require.NoError(t, academic.ChangeRank(core.RankProfessor, later(2)))
	require.NoError(t, academic.AssignToDepartment(uuid.New(), later(3)))
	require.NoError(t, academic.AssignExtension(mustValue(core.NewExtNr("1234")), core.AccessLevelInternal, later(4)))
	require.NoError(t, academic.ChangeHomePhone(mustValue(core.NewPhoneNumber("0733651111")), later(5)))
	require.NoError(t, academic.AddSubject(subjectID, later(6)))
	require.NoError(t, academic.RateSubject(subjectID, mustValue(core.NewRating(6)), later(7)))
	require.NoError(t, academic.AddDegree(uuid.New(), later(8)))

	// assert
	events := academic.UncommittedEvents()
	require.Len(t, events, 9)
	for i, event := range events {
		assert.Equal(t, i+1, event.Meta().Version)
	}

	assert.Equal(t, 9, academic.Version())
	assert.Equal(t, later(8), academic.ModifiedAt())
	assert.Equal(t, "Smith John", academic.EmpName().String())
	assert.True(t, academic.IsProfessor())
	assert.True(t, academic.IsTeacher())

	rating, rated := academic.RatingOf(subjectID)
	assert.True(t, rated)
	assert.Equal(t, 6, rating.Int())
}

func Test_Academic_UnchangedValuesRaiseNoEvent(t *testing.T) {
	// setup
	academic := givenAcademic(t, "Smith J.", core.RankProfessor)
	departmentID := uuid.New()
	require.NoError(t, academic.AssignToDepartment(departmentID, later(1)))
	require.NoError(t, academic.GrantTenure(later(2)))
	versionBefore := academic.Version()

	// act
	require.NoError(t, academic.ChangeName(mustValue(core.NewEmpName("Smith J.")), later(3)))
	require.NoError(t, academic.ChangeRank(core.RankProfessor, later(3)))
	require.NoError(t, academic.AssignToDepartment(departmentID, later(3)))
	require.NoError(t, academic.GrantTenure(later(3)))

	// assert
	assert.Equal(t, versionBefore, academic.Version())
	assert.Len(t, academic.UncommittedEvents(), versionBefore)
}

func Test_Academic_TenureAndContractEndDateExcludeEachOther(t *testing.T) {
	// setup
	academic := givenAcademic(t, "Smith J.", core.RankLecturer)

	// act & assert
	err := academic.SetContractEndDate(registeredAt, later(1))
	assert.True(t, core.IsRuleViolation(err, core.RuleContractEndDate))

	endDate := registeredAt.AddDate(1, 0, 0)
	require.NoError(t, academic.SetContractEndDate(endDate, later(1)))
	got, hasEndDate := academic.ContractEndDate()
	assert.True(t, hasEndDate)
	assert.Equal(t, core.ToDate(endDate), got)

	require.NoError(t, academic.GrantTenure(later(2)))
	_, hasEndDate = academic.ContractEndDate()
	assert.False(t, hasEndDate)
	assert.True(t, academic.IsTenured())

	err = academic.SetContractEndDate(endDate, later(3))
	assert.ErrorIs(t, err, core.ErrBusinessRuleViolation)
	assert.True(t, core.IsRuleViolation(err, core.RuleTenureExcludesContract))
}

func Test_Academic_RoomIsAddedAndRemovedButNeverOverwritten(t *testing.T) {
	// setup
	academic := givenAcademic(t, "Smith J.", core.RankLecturer)
	first, second := uuid.New(), uuid.New()
	require.NoError(t, academic.AssignRoom(first, later(1)))
	versionBefore := academic.Version()

	// act & assert
	err := academic.AssignRoom(second, later(2))
	assert.True(t, core.IsRuleViolation(err, core.RuleRoomOccupancy))

	err = academic.RemoveRoom(second, later(2))
	assert.True(t, core.IsRuleViolation(err, core.RuleRoomOccupancy))
	assert.Equal(t, versionBefore, academic.Version())

	require.NoError(t, academic.RemoveRoom(first, later(3)))
	require.NoError(t, academic.AssignRoom(second, later(4)))
	assert.Equal(t, second, academic.RoomID())
}

func Test_Academic_ChairRequiresProfessorRank(t *testing.T) {
	// setup
	lecturer := givenAcademic(t, "Jones A.", core.RankLecturer)
	professor := givenAcademic(t, "Smith J.", core.RankProfessor)
	databases, ai := uuid.New(), uuid.New()

	// act & assert
	err := lecturer.AssignChair(databases, later(1))
	assert.True(t, core.IsRuleViolation(err, core.RuleChairRequiresProfessor))

	require.NoError(t, professor.AssignChair(databases, later(1)))

	err = professor.AssignChair(ai, later(2))
	assert.True(t, core.IsRuleViolation(err, core.RuleChairCardinality))

	err = professor.ChangeRank(core.RankSeniorLecturer, later(3))
	assert.True(t, core.IsRuleViolation(err, core.RuleChairRequiresProfessor))

	err = professor.ReleaseChair(ai, later(4))
	assert.True(t, core.IsRuleViolation(err, core.RuleChairAssignment))

	require.NoError(t, professor.ReleaseChair(databases, later(4)))
	require.NoError(t, professor.ChangeRank(core.RankSeniorLecturer, later(5)))
	assert.Equal(t, uuid.Nil, professor.ChairID())
}

func Test_Academic_RateSubjectRequiresTheSubjectToBeTaught(t *testing.T) {
	academic := givenAcademic(t, "Smith J.", core.RankLecturer)

	err := academic.RateSubject(uuid.New(), mustValue(core.NewRating(1)), later(1))

	assert.True(t, core.IsRuleViolation(err, core.RuleSubjectMustBeTaught))
	assert.Equal(t, 1, academic.Version())
}

func Test_Academic_RateSubjectRejectsAZeroRating(t *testing.T) {
	// setup
	academic := givenTeacher(t, "Smith J.", core.RankLecturer)
	subjectID := academic.SubjectIDs()[0]

	// act
	err := academic.RateSubject(subjectID, core.Rating{}, later(1))

	// assert
	assert.ErrorIs(t, err, core.ErrInvalidValue)
	assert.Equal(t, 2, academic.Version())

	_, rated := academic.RatingOf(subjectID)
	assert.False(t, rated)

	_, reconstructErr := core.Reconstruct(core.NewAcademic(), academic.UncommittedEvents())
	assert.NoError(t, reconstructErr)
}

func Test_Academic_AddAuditee(t *testing.T) {
	// setup
	auditor := givenAcademic(t, "Smith J.", core.RankSeniorLecturer)
	auditee := givenTeacher(t, "Jones A.", core.RankLecturer)

	// act & assert
	err := auditor.AddAuditee(auditee.ID(), later(1))
	assert.True(t, core.IsRuleViolation(err, core.RuleAuditorMustTeach))

	require.NoError(t, auditor.AddSubject(uuid.New(), later(2)))

	err = auditor.AddAuditee(auditor.ID(), later(3))
	assert.True(t, core.IsRuleViolation(err, core.RuleAntiSymmetricAudit))

	require.NoError(t, auditor.AddAuditee(auditee.ID(), later(4)))
	assert.True(t, auditor.Audits(auditee.ID()))
	assert.False(t, auditee.Audits(auditor.ID()))
	assert.Equal(t, []uuid.UUID{auditee.ID()}, auditor.AuditeeIDs())
}

func Test_Academic_JoinCommitteeRequiresTeachingProfessor(t *testing.T) {
	professor := givenAcademic(t, "Smith J.", core.RankProfessor)
	teacher := givenTeacher(t, "Jones A.", core.RankSeniorLecturer)
	committeeID := uuid.New()

	assert.True(t, core.IsRuleViolation(professor.JoinCommittee(committeeID, later(1)), core.RuleCommitteeEligibility))
	assert.True(t, core.IsRuleViolation(teacher.JoinCommittee(committeeID, later(1)), core.RuleCommitteeEligibility))

	require.NoError(t, professor.AddSubject(uuid.New(), later(2)))
	require.NoError(t, professor.JoinCommittee(committeeID, later(3)))
	assert.Equal(t, []uuid.UUID{committeeID}, professor.CommitteeIDs())
}

func Test_Academic_DeletedAcademicRejectsEveryMethod(t *testing.T) {
	// setup
	academic := givenAcademic(t, "Smith J.", core.RankProfessor)
	require.NoError(t, academic.Delete(later(1)))
	at := later(2)

	// act
	errs := []error{
		academic.ChangeName(mustValue(core.NewEmpName("Other")), at),
		academic.ChangeRank(core.RankLecturer, at),
		academic.GrantTenure(at),
		academic.SetContractEndDate(at.AddDate(1, 0, 0), at),
		academic.AssignToDepartment(uuid.New(), at),
		academic.AssignRoom(uuid.New(), at),
		academic.RemoveRoom(uuid.New(), at),
		academic.AssignExtension(mustValue(core.NewExtNr("123")), core.AccessLevelLocal, at),
		academic.ChangeHomePhone(mustValue(core.NewPhoneNumber("1234567")), at),
		academic.AssignChair(uuid.New(), at),
		academic.ReleaseChair(uuid.New(), at),
		academic.AddSubject(uuid.New(), at),
		academic.RateSubject(uuid.New(), mustValue(core.NewRating(3)), at),
		academic.AddDegree(uuid.New(), at),
		academic.AddAuditee(uuid.New(), at),
		academic.JoinCommittee(uuid.New(), at),
		academic.Delete(at),
	}

	// assert
	for i, err := range errs {
		assert.True(t, core.IsRuleViolation(err, core.RuleAggregateDeleted), "method %d", i)
	}

	assert.True(t, academic.IsDeleted())
	assert.Equal(t, 2, academic.Version())
}

func Test_MarkCommitted_ClearsUncommittedEvents(t *testing.T) {
	academic := givenAcademic(t, "Smith J.", core.RankProfessor)

	academic.MarkCommitted()

	assert.Empty(t, academic.UncommittedEvents())
	assert.Equal(t, 1, academic.Version())
}

func Test_UncommittedEvents_ReturnsACopy(t *testing.T) {
	academic := givenAcademic(t, "Smith J.", core.RankProfessor)

	events := academic.UncommittedEvents()
	events[0] = nil

	assert.NotNil(t, academic.UncommittedEvents()[0])
}

func Test_ToOccurredAt_NormalizesToUTCMicroseconds(t *testing.T) {
	cet := time.FixedZone("CET", 3600)
	at := time.Date(2024, 3, 1, 12, 0, 0, 123456789, cet)

	assert.Equal(t, time.Date(2024, 3, 1, 11, 0, 0, 123456000, time.UTC), core.ToOccurredAt(at))
}
