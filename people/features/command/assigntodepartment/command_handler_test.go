package assigntodepartment_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnmillerATcodemag-com/Zeus.People-sub005/people/core"
	"github.com/johnmillerATcodemag-com/Zeus.People-sub005/people/features/command/assigntodepartment"
	. "github.com/johnmillerATcodemag-com/Zeus.People-sub005/testutil/peoplefixtures" //nolint:revive
)

func Test_CommandHandler_Handle_Success(t *testing.T) {
	// setup
	ctx := context.Background()
	repos := NewRepositories(t)
	handler := assigntodepartment.NewCommandHandler(repos.Academics, repos.Departments)

	// arrange
	department := repos.GivenDepartment(t, "Computer Science")
	smith := repos.GivenAcademic(t, "Smith J.", core.RankProfessor, InDepartment(department.ID()))
	jones := repos.GivenAcademic(t, "Jones A.", core.RankLecturer)

	// act
	result, err := handler.Handle(ctx, assigntodepartment.BuildCommand(jones.ID(), department.ID(), []uuid.UUID{smith.ID()}, At(10)))

	// assert
	require.NoError(t, err)
	assert.False(t, result.Idempotent)
	assert.Equal(t, department.ID(), repos.Reload(t, jones.ID()).DepartmentID())
}

func Test_CommandHandler_Handle_Error_NameTakenInDepartment(t *testing.T) {
	// setup
	ctx := context.Background()
	repos := NewRepositories(t)
	handler := assigntodepartment.NewCommandHandler(repos.Academics, repos.Departments)

	// arrange
	department := repos.GivenDepartment(t, "Computer Science")
	member := repos.GivenAcademic(t, "Smith J.", core.RankProfessor, InDepartment(department.ID()))
	namesake := repos.GivenAcademic(t, "Smith J.", core.RankLecturer)

	// act
	_, err := handler.Handle(ctx, assigntodepartment.BuildCommand(namesake.ID(), department.ID(), []uuid.UUID{member.ID()}, At(10)))

	// assert
	var violation *core.RuleViolation
	require.ErrorAs(t, err, &violation)
	assert.Equal(t, core.RuleUniqueNameInDepartment, violation.Rule)
	assert.Equal(t, uuid.Nil, repos.Reload(t, namesake.ID()).DepartmentID())
}

func Test_CommandHandler_Handle_Error_DeletedDepartment(t *testing.T) {
	// setup
	ctx := context.Background()
	repos := NewRepositories(t)
	handler := assigntodepartment.NewCommandHandler(repos.Academics, repos.Departments)

	// arrange
	department := repos.GivenDepartment(t, "Computer Science")
	require.NoError(t, repos.Departments.Delete(ctx, department.ID(), At(5)))
	jones := repos.GivenAcademic(t, "Jones A.", core.RankLecturer)

	// act
	_, err := handler.Handle(ctx, assigntodepartment.BuildCommand(jones.ID(), department.ID(), nil, At(10)))

	// assert
	assert.ErrorIs(t, err, core.ErrBusinessRuleViolation)
}

func Test_CommandHandler_Handle_Idempotent(t *testing.T) {
	// setup
	ctx := context.Background()
	repos := NewRepositories(t)
	handler := assigntodepartment.NewCommandHandler(repos.Academics, repos.Departments)

	// arrange
	department := repos.GivenDepartment(t, "Computer Science")
	jones := repos.GivenAcademic(t, "Jones A.", core.RankLecturer, InDepartment(department.ID()))

	// act
	result, err := handler.Handle(ctx, assigntodepartment.BuildCommand(jones.ID(), department.ID(), nil, At(10)))

	// assert
	require.NoError(t, err)
	assert.True(t, result.Idempotent)
	assert.Equal(t, jones.Version(), repos.Reload(t, jones.ID()).Version())
}
