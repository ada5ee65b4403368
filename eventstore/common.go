package eventstore

import (
	"errors"
)

// ErrConcurrencyConflict signals that the stream of an aggregate was changed since it was read.
// It is the only recoverable storage error: reload the aggregate, reapply the mutation, append again.
var ErrConcurrencyConflict = errors.New("concurrency conflict, the expected version did not match")

// ErrStorageFailure is joined into every error caused by the underlying storage, including timeouts.
var ErrStorageFailure = errors.New("storage failure")

var (
	ErrEmptyEventsTableName      = errors.New("events table name must not be empty")
	ErrNilDatabaseConnection     = errors.New("database connection must not be nil")
	ErrNoEventsToAppend          = errors.New("no events supplied to append")
	ErrNegativeExpectedVersion   = errors.New("expected version must not be negative")
	ErrQueryingEventsFailed      = errors.New("querying events failed")
	ErrAppendingEventFailed      = errors.New("appending the event failed")
	ErrScanningDBRowFailed       = errors.New("scanning db row failed")
	ErrBuildingQueryFailed       = errors.New("building query failed")
	ErrGettingRowsAffectedFailed = errors.New("getting rows affected failed")
	ErrCreatingSchemaFailed      = errors.New("creating the events schema failed")
	ErrDuplicateEventID          = errors.New("an event with this event id is already stored")
)

// StorageError joins ErrStorageFailure with the given detail errors.
func StorageError(errs ...error) error {
	all := make([]error, 0, len(errs)+1)
	all = append(all, ErrStorageFailure)
	all = append(all, errs...)

	return errors.Join(all...)
}

// IsConcurrencyConflict reports whether err is (or wraps) ErrConcurrencyConflict.
func IsConcurrencyConflict(err error) bool {
	return errors.Is(err, ErrConcurrencyConflict)
}
