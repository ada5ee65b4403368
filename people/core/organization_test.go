package core_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnmillerATcodemag-com/Zeus.People-sub005/people/core"
)

func Test_Department_Lifecycle(t *testing.T) {
	// setup
	department := givenDepartment(t, "Computer Science")
	headID := uuid.New()
	research := mustValue(core.NewMoneyAmount("250000.50"))
	teaching := mustValue(core.NewMoneyAmount("0"))

	// act
	require.NoError(t, department.AssignHead(headID, later(1)))
	require.NoError(t, department.AssignHead(headID, later(2)))
	require.NoError(t, department.ChangeBudgets(research, teaching, later(3)))
	require.NoError(t, department.Delete(later(4)))

	// assert
	assert.Equal(t, "Computer Science", department.Name().String())
	assert.Equal(t, headID, department.HeadID())
	assert.Equal(t, research, department.ResearchBudget())
	assert.Equal(t, teaching, department.TeachingBudget())
	assert.True(t, department.IsDeleted())
	assert.Equal(t, 4, department.Version())

	err := department.AssignHead(uuid.New(), later(5))
	assert.True(t, core.IsRuleViolation(err, core.RuleAggregateDeleted))
}

func Test_CreateDepartment_RequiresAName(t *testing.T) {
	_, err := core.CreateDepartment(uuid.New(), core.Title{}, core.MoneyAmount{}, core.MoneyAmount{}, registeredAt)

	assert.ErrorIs(t, err, core.ErrInvalidValue)
}

func Test_Room_Lifecycle(t *testing.T) {
	// setup
	roomNr := mustValue(core.NewRoomNr("101"))
	bldgNr := mustValue(core.NewBldgNr("B1"))

	// act
	room, err := core.CreateRoom(uuid.New(), roomNr, bldgNr, registeredAt)
	require.NoError(t, err)
	require.NoError(t, room.Delete(later(1)))

	// assert
	assert.Equal(t, roomNr, room.RoomNr())
	assert.Equal(t, bldgNr, room.BldgNr())
	assert.True(t, room.IsDeleted())
	assert.True(t, core.IsRuleViolation(room.Delete(later(2)), core.RuleAggregateDeleted))

	_, err = core.CreateRoom(uuid.New(), core.RoomNr{}, bldgNr, registeredAt)
	assert.ErrorIs(t, err, core.ErrInvalidValue)
}

func Test_Chair_IsHeldByOneProfessorAtATime(t *testing.T) {
	// setup
	chair := givenChair(t, "Databases")
	first, second := uuid.New(), uuid.New()

	// act & assert
	require.NoError(t, chair.AssignToProfessor(first, later(1)))
	require.NoError(t, chair.AssignToProfessor(first, later(2)))
	assert.True(t, chair.IsAssigned())

	err := chair.AssignToProfessor(second, later(3))
	assert.True(t, core.IsRuleViolation(err, core.RuleChairAssignment))

	err = chair.Delete(later(3))
	assert.True(t, core.IsRuleViolation(err, core.RuleChairAssignment))

	require.NoError(t, chair.Release(later(4)))
	require.NoError(t, chair.AssignToProfessor(second, later(5)))
	assert.Equal(t, second, chair.ProfessorID())

	released := chair.UncommittedEvents()[2].(core.ChairReleased)
	assert.Equal(t, first, released.ProfessorID)
}

func Test_Chair_ReleaseRequiresAHolder(t *testing.T) {
	chair := givenChair(t, "AI")

	assert.True(t, core.IsRuleViolation(chair.Release(later(1)), core.RuleChairAssignment))
	require.NoError(t, chair.Delete(later(1)))
	assert.True(t, chair.IsDeleted())
}
