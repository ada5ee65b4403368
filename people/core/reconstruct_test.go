package core_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnmillerATcodemag-com/Zeus.People-sub005/people/core"
)

func givenBusyAcademic(t *testing.T) *core.Academic {
	t.Helper()

	academic := givenTeacher(t, "Smith J.", core.RankProfessor)
	subjectID := academic.SubjectIDs()[0]

	require.NoError(t, academic.AssignToDepartment(uuid.New(), later(2)))
	require.NoError(t, academic.SetContractEndDate(registeredAt.AddDate(2, 0, 0), later(3)))
	require.NoError(t, academic.GrantTenure(later(4)))
	require.NoError(t, academic.AssignRoom(uuid.New(), later(5)))
	require.NoError(t, academic.AssignChair(uuid.New(), later(6)))
	require.NoError(t, academic.RateSubject(subjectID, mustValue(core.NewRating(7)), later(7)))
	require.NoError(t, academic.AddAuditee(uuid.New(), later(8)))
	require.NoError(t, academic.JoinCommittee(uuid.New(), later(9)))

	return academic
}

func Test_Reconstruct_ProducesTheSameStateAsRaising(t *testing.T) {
	// setup
	original := givenBusyAcademic(t)
	history := original.UncommittedEvents()
	original.MarkCommitted()

	// act
	reconstructed, err := core.Reconstruct(core.NewAcademic(), history)

	// assert
	require.NoError(t, err)
	assert.Equal(t, original, reconstructed)
	assert.Equal(t, history[len(history)-1].Meta().Version, reconstructed.Version())
	assert.Empty(t, reconstructed.UncommittedEvents())
}

func Test_Reconstruct_IsIdempotent(t *testing.T) {
	// setup
	history := givenBusyAcademic(t).UncommittedEvents()

	// act
	first, err := core.Reconstruct(core.NewAcademic(), history)
	require.NoError(t, err)
	second, err := core.Reconstruct(core.NewAcademic(), history)
	require.NoError(t, err)

	// assert
	assert.Equal(t, first, second)
}

func Test_Reconstruct_RejectsEmptyHistory(t *testing.T) {
	_, err := core.Reconstruct(core.NewRoom(), nil)

	assert.ErrorIs(t, err, core.ErrEmptyHistory)
}

func Test_Reconstruct_RejectsGapsAndForeignEvents(t *testing.T) {
	// setup
	history := givenBusyAcademic(t).UncommittedEvents()
	other := givenAcademic(t, "Jones A.", core.RankLecturer)
	require.NoError(t, other.AddDegree(uuid.New(), later(1)))

	// act
	_, gapErr := core.Reconstruct(core.NewAcademic(), append(core.DomainEvents{history[0]}, history[2:]...))
	_, foreignErr := core.Reconstruct(core.NewAcademic(), core.DomainEvents{history[0], other.UncommittedEvents()[1]})
	_, wrongTypeErr := core.Reconstruct(core.NewChair(), history)

	// assert
	assert.ErrorIs(t, gapErr, core.ErrEventOutOfOrder)
	assert.ErrorIs(t, foreignErr, core.ErrUnexpectedEvent)
	assert.ErrorIs(t, wrongTypeErr, core.ErrUnexpectedEvent)
}

func Test_Reconstruct_OrganizationAggregates(t *testing.T) {
	department := givenDepartment(t, "Computer Science")
	require.NoError(t, department.AssignHead(uuid.New(), later(1)))

	chair := givenChair(t, "Databases")
	require.NoError(t, chair.AssignToProfessor(uuid.New(), later(1)))

	reconstructedDepartment, err := core.Reconstruct(core.NewDepartment(), department.UncommittedEvents())
	require.NoError(t, err)
	department.MarkCommitted()
	assert.Equal(t, department, reconstructedDepartment)

	reconstructedChair, err := core.Reconstruct(core.NewChair(), chair.UncommittedEvents())
	require.NoError(t, err)
	chair.MarkCommitted()
	assert.Equal(t, chair, reconstructedChair)
}

func Test_Reconstruct_RequiresTheCreationEventFirst(t *testing.T) {
	// setup
	academicID := uuid.New()
	rated := core.AcademicSubjectRated{
		EventMeta: core.EventMeta{EventID: uuid.New(), AggregateID: academicID, OccurredAt: later(1), Version: 1},
		SubjectID: uuid.New(),
		Rating:    mustValue(core.NewRating(4)),
	}
	headAssigned := core.DepartmentHeadAssigned{
		EventMeta: core.EventMeta{EventID: uuid.New(), AggregateID: uuid.New(), OccurredAt: later(1), Version: 1},
		HeadID:    uuid.New(),
	}

	// act
	var academicErr error
	assert.NotPanics(t, func() {
		_, academicErr = core.Reconstruct(core.NewAcademic(), core.DomainEvents{rated})
	})
	department, departmentErr := core.Reconstruct(core.NewDepartment(), core.DomainEvents{headAssigned})

	// assert
	assert.ErrorIs(t, academicErr, core.ErrUnexpectedEvent)
	assert.ErrorIs(t, departmentErr, core.ErrUnexpectedEvent)
	assert.Zero(t, department.Version())
	assert.Equal(t, uuid.Nil, department.ID())
}

func Test_Reconstruct_RejectsASecondCreationEvent(t *testing.T) {
	// setup
	room := givenRoom(t)
	created := room.UncommittedEvents()[0].(core.RoomCreated)

	// arrange
	again := created
	again.EventID = uuid.New()
	again.Version = 2
	again.RoomNr = mustValue(core.NewRoomNr("999"))

	// act
	reconstructed, err := core.Reconstruct(core.NewRoom(), core.DomainEvents{created, again})

	// assert
	assert.ErrorIs(t, err, core.ErrUnexpectedEvent)
	assert.Equal(t, 1, reconstructed.Version())
	assert.Equal(t, created.RoomNr, reconstructed.RoomNr())
}
