package createroom

import (
	"context"

	"github.com/johnmillerATcodemag-com/Zeus.People-sub005/eventstore"
	"github.com/johnmillerATcodemag-com/Zeus.People-sub005/people/core"
	"github.com/johnmillerATcodemag-com/Zeus.People-sub005/people/core/rules"
	"github.com/johnmillerATcodemag-com/Zeus.People-sub005/people/shell"
)

// CommandHandler orchestrates Check rules -> Create -> Add, with retry.
type CommandHandler struct {
	rooms        *shell.Repository[*core.Room]
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
func NewCommandHandler(rooms *shell.Repository[*core.Room], opts ...Option) CommandHandler {
	handler := CommandHandler{
		rooms: rooms,
	}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle executes the command, retrying concurrency conflicts with exponential backoff.
// Creating a room id that already exists is idempotent.
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

	exists, err := h.rooms.Exists(ctx, command.RoomID)
	if err != nil {
		return false, err
	}

	if exists {
		return true, nil
	}

	existing, err := h.rooms.LoadMany(ctx, command.ExistingRoomIDs)
	if err != nil {
		return false, err
	}

	if err = rules.RoomUnique(command.RoomID, command.RoomNr, command.BldgNr, existing).Err(); err != nil {
		return false, err
	}

	room, err := core.CreateRoom(command.RoomID, command.RoomNr, command.BldgNr, command.OccurredAt)
	if err != nil {
		return false, err
	}

	_, err = h.rooms.Add(ctx, room)

	return false, err
}
