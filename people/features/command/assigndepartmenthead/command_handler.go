package assigndepartmenthead

import (
	"context"

	"github.com/johnmillerATcodemag-com/Zeus.People-sub005/eventstore"
	"github.com/johnmillerATcodemag-com/Zeus.People-sub005/people/core"
	"github.com/johnmillerATcodemag-com/Zeus.People-sub005/people/core/rules"
	"github.com/johnmillerATcodemag-com/Zeus.People-sub005/people/shell"
)

// CommandHandler orchestrates Load -> Check rules -> Mutate -> Save, with retry.
// Only the department's stream is appended to.
type CommandHandler struct {
	academics    *shell.Repository[*core.Academic]
	departments  *shell.Repository[*core.Department]
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
	departments *shell.Repository[*core.Department],
	opts ...Option,
) CommandHandler {

	handler := CommandHandler{
		academics:   academics,
		departments: departments,
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

	department, err := h.departments.Load(ctx, command.DepartmentID)
	if err != nil {
		return false, err
	}

	candidate, err := h.academics.Load(ctx, command.AcademicID)
	if err != nil {
		return false, err
	}

	if err = rules.DepartmentHeadEligible(candidate, department).Err(); err != nil {
		return false, err
	}

	if err = department.AssignHead(candidate.ID(), command.OccurredAt); err != nil {
		return false, err
	}

	if len(department.UncommittedEvents()) == 0 {
		return true, nil
	}

	return false, h.departments.Save(ctx, department)
}
