package shell

import (
	"errors"

	"github.com/johnmillerATcodemag-com/Zeus.People-sub005/eventstore"
	"github.com/johnmillerATcodemag-com/Zeus.People-sub005/people/core"
)

// Outcome tells a caller what to do about the result of an operation.
type Outcome int

const (
	// OutcomeOK means the operation succeeded.
	OutcomeOK Outcome = iota

	// OutcomeRejected means nothing happened: fix the input (validation, business rule, not found).
	OutcomeRejected

	// OutcomeRetry means something changed underneath the caller: reload and try again.
	OutcomeRetry

	// OutcomeFailed means the system is broken: storage or decode failures, or anything unknown.
	OutcomeFailed
)

// OutcomeOf classifies err.
func OutcomeOf(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, ErrDecodeFailure), errors.Is(err, eventstore.ErrStorageFailure):
		return OutcomeFailed
	case errors.Is(err, eventstore.ErrConcurrencyConflict):
		return OutcomeRetry
	case errors.Is(err, core.ErrInvalidValue), errors.Is(err, core.ErrBusinessRuleViolation), errors.Is(err, ErrNotFound):
		return OutcomeRejected
	default:
		return OutcomeFailed
	}
}

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeRejected:
		return "rejected"
	case OutcomeRetry:
		return "retry"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}
