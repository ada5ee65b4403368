package assignchair

import (
	"context"

	"github.com/johnmillerATcodemag-com/Zeus.People-sub005/eventstore"
	"github.com/johnmillerATcodemag-com/Zeus.People-sub005/people/core"
	"github.com/johnmillerATcodemag-com/Zeus.People-sub005/people/core/rules"
	"github.com/johnmillerATcodemag-com/Zeus.People-sub005/people/shell"
)

type CommandHandler struct {
	academics    *shell.Repository[*core.Academic]
	chairs       *shell.Repository[*core.Chair]
	retryOptions []shell.RetryOption
}

// Option configures a CommandHandler.
type Option func(*CommandHandler)

// WithRetryOptions sets a custom retry configuration for the handler.
func WithRetryOptions(opts ...shell.RetryOption) Option {
	return func(h *CommandHandler) {
		h.retryOptions = opts
	}
}

// NewCommandHandler creates a new CommandHandler with optional configuration.
func NewCommandHandler(
	academics *shell.Repository[*core.Academic],
	chairs *shell.Repository[*core.Chair],
	opts ...Option,
) CommandHandler {

	handler := CommandHandler{
		academics: academics,
		chairs:    chairs,
	}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle executes the command, retrying concurrency conflicts with exponential backoff.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult, error) {
	var isIdempotent bool

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		idempotent, execErr := h.executeCommand(retryCtx, command)
		isIdempotent = idempotent

		return execErr
	}, h.retryOptions...)

	if isIdempotent {
		return shell.NewIdempotentResult(retryMetrics), err
	}

	if err != nil {
		return shell.NewErrorResult(retryMetrics), err
	}

	return shell.NewSuccessResult(retryMetrics), nil
}

func (h CommandHandler) executeCommand(ctx context.Context, command Command) (bool, error) {
	ctx = eventstore.WithStrongConsistency(ctx)

	chair, err := h.chairs.Load(ctx, command.ChairID)
	if err != nil {
		return false, err
	}

	professor, err := h.academics.Load(ctx, command.ProfessorID)
	if err != nil {
		return false, err
	}

	knownChairs, err := h.chairs.LoadMany(ctx, command.KnownChairIDs)
	if err != nil {
		return false, err
	}

	if err = rules.ChairCardinality(professor.ID(), chair.ID(), knownChairs).Err(); err != nil {
		return false, err
	}

	// Both sides are mutated before anything is saved, so a violation on either side appends nothing.
	if err = professor.AssignChair(chair.ID(), command.OccurredAt); err != nil {
		return false, err
	}

	if err = chair.AssignToProfessor(professor.ID(), command.OccurredAt); err != nil {
		return false, err
	}

	if len(chair.UncommittedEvents()) == 0 && len(professor.UncommittedEvents()) == 0 {
		return true, nil
	}

	if err = h.chairs.Save(ctx, chair); err != nil {
		return false, err
	}

	return false, h.academics.Save(ctx, professor)
}
