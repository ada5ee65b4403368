package joincommittee_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnmillerATcodemag-com/Zeus.People-sub005/people/core"
	"github.com/johnmillerATcodemag-com/Zeus.People-sub005/people/features/command/joincommittee"
	"github.com/johnmillerATcodemag-com/Zeus.People-sub005/people/shell"
	. "github.com/johnmillerATcodemag-com/Zeus.People-sub005/testutil/peoplefixtures" //nolint:revive
)

func Test_CommandHandler_Handle_Success(t *testing.T) {
	// setup
	ctx := context.Background()
	repos := NewRepositories(t)
	handler := joincommittee.NewCommandHandler(repos.Academics)

	// arrange
	smith := repos.GivenAcademic(t, "Smith J.", core.RankProfessor, Teaching())
	committeeID := uuid.New()

	// act
	result, err := handler.Handle(ctx, joincommittee.BuildCommand(smith.ID(), committeeID, At(10)))

	// assert
	require.NoError(t, err)
	assert.False(t, result.Idempotent)
	assert.Equal(t, []uuid.UUID{committeeID}, repos.Reload(t, smith.ID()).CommitteeIDs())
}

func Test_CommandHandler_Handle_Error_Ineligible(t *testing.T) {
	testCases := []struct {
		name      string
		rank      core.Rank
		mutations []AcademicMutation
	}{
		{name: "professor who does not teach", rank: core.RankProfessor},
		{name: "teaching senior lecturer", rank: core.RankSeniorLecturer, mutations: []AcademicMutation{Teaching()}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// setup
			ctx := context.Background()
			repos := NewRepositories(t)
			handler := joincommittee.NewCommandHandler(repos.Academics)

			// arrange
			candidate := repos.GivenAcademic(t, "Smith J.", tc.rank, tc.mutations...)

			// act
			result, err := handler.Handle(ctx, joincommittee.BuildCommand(candidate.ID(), uuid.New(), At(10)))

			// assert
			var violation *core.RuleViolation
			require.ErrorAs(t, err, &violation)
			assert.Equal(t, core.RuleCommitteeEligibility, violation.Rule)
			assert.Equal(t, 1, result.RetryAttempts)
			assert.Empty(t, repos.Reload(t, candidate.ID()).CommitteeIDs())
		})
	}
}

func Test_CommandHandler_Handle_Error_UnknownAcademic(t *testing.T) {
	// setup
	ctx := context.Background()
	repos := NewRepositories(t)
	handler := joincommittee.NewCommandHandler(repos.Academics)

	// act
	_, err := handler.Handle(ctx, joincommittee.BuildCommand(uuid.New(), uuid.New(), At(10)))

	// assert
	assert.ErrorIs(t, err, shell.ErrNotFound)
}

func Test_CommandHandler_Handle_Idempotent(t *testing.T) {
	// setup
	ctx := context.Background()
	repos := NewRepositories(t)
	handler := joincommittee.NewCommandHandler(repos.Academics)

	// arrange
	smith := repos.GivenAcademic(t, "Smith J.", core.RankProfessor, Teaching())
	command := joincommittee.BuildCommand(smith.ID(), uuid.New(), At(10))
	_, err := handler.Handle(ctx, command)
	require.NoError(t, err)

	// act
	result, err := handler.Handle(ctx, command)

	// assert
	require.NoError(t, err)
	assert.True(t, result.Idempotent)
}
