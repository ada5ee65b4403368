package joincommittee

import (
	"context"

	"github.com/johnmillerATcodemag-com/Zeus.People-sub005/people/core"
	"github.com/johnmillerATcodemag-com/Zeus.People-sub005/people/core/rules"
	"github.com/johnmillerATcodemag-com/Zeus.People-sub005/people/shell"
)

// CommandHandler adds the academic to the committee through the repository's Update,
// which retries concurrency conflicts.
type CommandHandler struct {
	academics *shell.Repository[*core.Academic]
}

func NewCommandHandler(academics *shell.Repository[*core.Academic]) CommandHandler {
	return CommandHandler{academics: academics}
}

// Handle checks committee eligibility against the freshly loaded academic on every attempt.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult, error) {
	return h.academics.Update(ctx, command.AcademicID, func(academic *core.Academic) error {
		if err := rules.CommitteeEligible(academic).Err(); err != nil {
			return err
		}

		return academic.JoinCommittee(command.CommitteeID, command.OccurredAt)
	})
}
