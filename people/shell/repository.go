package shell

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/johnmillerATcodemag-com/Zeus.People-sub005/eventstore"
	"github.com/johnmillerATcodemag-com/Zeus.People-sub005/people/core"
)

const (
	logMsgEventsSaved    = "repository operation: events saved"
	logMsgPublishFailed  = "repository operation: publishing committed events failed"
	logAttrAggregateID   = "aggregate_id"
	logAttrAggregateType = "aggregate_type"
	logAttrEventCount    = "event_count"
	logAttrVersion       = "version"
	logAttrError         = "error"
)

// EventStore is what the repository needs from an event store engine.
// Both postgresengine.EventStore and memoryengine.EventStore satisfy it.
type EventStore interface {
	AppendEvents(
		ctx context.Context,
		aggregateID uuid.UUID,
		aggregateType string,
		expectedVersion int,
		events ...eventstore.StorableEvent,
	) error
	GetEvents(ctx context.Context, aggregateID uuid.UUID) (eventstore.StorableEvents, error)
	GetEventsFromVersion(ctx context.Context, aggregateID uuid.UUID, fromVersion int) (eventstore.StorableEvents, error)
}

// Repository is the write side for one aggregate type.
// Aggregates are loaded only by replaying their stream and saved only by appending their uncommitted events.
type Repository[A core.Aggregate] struct {
	store        EventStore
	blank        func() A
	publisher    Publisher
	retryOptions []RetryOption
	logger       eventstore.ContextualLogger
}

// RepositoryOption configures a Repository.
type RepositoryOption func(*repositoryConfig) error

type repositoryConfig struct {
	publisher    Publisher
	retryOptions []RetryOption
	logger       eventstore.ContextualLogger
}

// WithPublisher hands every committed event to publisher, in append order.
// Publish failures are logged and do not fail the operation.
func WithPublisher(publisher Publisher) RepositoryOption {
	return func(config *repositoryConfig) error {
		config.publisher = publisher
		return nil
	}
}

// WithRetryOptions configures the conflict retries of Update and Delete.
func WithRetryOptions(options ...RetryOption) RepositoryOption {
	return func(config *repositoryConfig) error {
		config.retryOptions = append(config.retryOptions, options...)
		return nil
	}
}

// WithRepositoryLogger sets the logger for saved events and publish failures.
func WithRepositoryLogger(logger eventstore.ContextualLogger) RepositoryOption {
	return func(config *repositoryConfig) error {
		config.logger = logger
		return nil
	}
}

// NewRepository creates a Repository. blank returns the empty aggregate that stored events are replayed into.
func NewRepository[A core.Aggregate](store EventStore, blank func() A, options ...RepositoryOption) (*Repository[A], error) {
	if store == nil {
		return nil, errors.New("event store must not be nil")
	}

	config := &repositoryConfig{}
	for _, option := range options {
		if err := option(config); err != nil {
			return nil, err
		}
	}

	return &Repository[A]{
		store:        store,
		blank:        blank,
		publisher:    config.publisher,
		retryOptions: config.retryOptions,
		logger:       config.logger,
	}, nil
}

// Load replays the aggregate's stream. It returns ErrNotFound if the stream is empty
// or belongs to another aggregate type.
func (r *Repository[A]) Load(ctx context.Context, id uuid.UUID) (A, error) {
	aggregate := r.blank()

	stream, err := r.store.GetEvents(ctx, id)
	if err != nil {
		return aggregate, err
	}

	if len(stream) == 0 || stream[0].AggregateType != aggregate.AggregateType() {
		return aggregate, fmt.Errorf("%w: %s %s", ErrNotFound, aggregate.AggregateType(), id)
	}

	history, err := DomainEventsFrom(stream)
	if err != nil {
		return aggregate, err
	}

	aggregate, err = core.Reconstruct(aggregate, history)
	if err != nil {
		return aggregate, errors.Join(ErrDecodeFailure, err)
	}

	return aggregate, nil
}

// LoadMany loads every aggregate in ids, in order. A missing one fails the whole call with ErrNotFound.
func (r *Repository[A]) LoadMany(ctx context.Context, ids []uuid.UUID) ([]A, error) {
	aggregates := make([]A, 0, len(ids))

	for _, id := range ids {
		aggregate, err := r.Load(ctx, id)
		if err != nil {
			return nil, err
		}

		aggregates = append(aggregates, aggregate)
	}

	return aggregates, nil
}

// Exists reports whether the aggregate has a stream of this repository's aggregate type.
func (r *Repository[A]) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	_, err := r.Load(ctx, id)

	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

// Add appends the events of a new aggregate and returns its id.
func (r *Repository[A]) Add(ctx context.Context, aggregate A) (uuid.UUID, error) {
	pending := aggregate.UncommittedEvents()
	if len(pending) == 0 || aggregate.Version() != len(pending) {
		return uuid.Nil, ErrNothingToAdd
	}

	if err := r.Save(ctx, aggregate); err != nil {
		return uuid.Nil, err
	}

	return aggregate.ID(), nil
}

// Save appends the uncommitted events, expecting the stream to be at the version the aggregate
// was loaded at. On success the uncommitted events are cleared. Saving without changes does nothing.
func (r *Repository[A]) Save(ctx context.Context, aggregate A) error {
	pending := aggregate.UncommittedEvents()
	if len(pending) == 0 {
		return nil
	}

	storableEvents, err := StorableEventsFrom(pending)
	if err != nil {
		return err
	}

	aggregateType := aggregate.AggregateType()
	for i := range storableEvents {
		storableEvents[i].AggregateType = aggregateType
	}

	expectedVersion := aggregate.Version() - len(pending)
	if err = r.store.AppendEvents(ctx, aggregate.ID(), aggregateType, expectedVersion, storableEvents...); err != nil {
		return err
	}

	aggregate.MarkCommitted()

	r.logInfo(ctx, logMsgEventsSaved,
		logAttrAggregateType, aggregateType,
		logAttrAggregateID, aggregate.ID().String(),
		logAttrEventCount, len(storableEvents),
		logAttrVersion, aggregate.Version(),
	)

	r.publish(ctx, storableEvents)

	return nil
}

// Update loads the aggregate, applies mutate and saves the result. The whole cycle is retried
// with exponential backoff on concurrency conflicts. Errors of mutate abort without retry.
// The result is idempotent if mutate raised no events.
func (r *Repository[A]) Update(ctx context.Context, id uuid.UUID, mutate func(A) error) (HandlerResult, error) {
	idempotent := false

	retryMetrics, err := RetryWithExponentialBackoff(ctx, func(ctx context.Context) error {
		aggregate, loadErr := r.Load(ctx, id)
		if loadErr != nil {
			return loadErr
		}

		if mutateErr := mutate(aggregate); mutateErr != nil {
			return mutateErr
		}

		idempotent = len(aggregate.UncommittedEvents()) == 0

		return r.Save(ctx, aggregate)
	}, r.retryOptions...)

	if err != nil {
		return NewErrorResult(retryMetrics), err
	}

	if idempotent {
		return NewIdempotentResult(retryMetrics), nil
	}

	return NewSuccessResult(retryMetrics), nil
}

// Delete raises the aggregate's deletion event through Update. The stream is retained.
func (r *Repository[A]) Delete(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := r.Update(ctx, id, func(aggregate A) error {
		return aggregate.Delete(at)
	})

	return err
}

// Refresh applies the events appended since the aggregate was loaded.
func (r *Repository[A]) Refresh(ctx context.Context, aggregate A) error {
	if len(aggregate.UncommittedEvents()) > 0 {
		return ErrUncommittedEvents
	}

	stream, err := r.store.GetEventsFromVersion(ctx, aggregate.ID(), aggregate.Version())
	if err != nil {
		return err
	}

	events, err := DomainEventsFrom(stream)
	if err != nil {
		return err
	}

	for _, event := range events {
		if err = aggregate.Apply(event); err != nil {
			return errors.Join(ErrDecodeFailure, err)
		}
	}

	return nil
}

func (r *Repository[A]) publish(ctx context.Context, storableEvents eventstore.StorableEvents) {
	if r.publisher == nil {
		return
	}

	messages := make([]Message, 0, len(storableEvents))
	for _, storableEvent := range storableEvents {
		messages = append(messages, MessageFrom(storableEvent, EventMetadataFor(ctx, storableEvent.EventID)))
	}

	if err := r.publisher.Publish(ctx, messages...); err != nil {
		r.logWarn(ctx, logMsgPublishFailed, logAttrError, err.Error(), logAttrEventCount, len(messages))
	}
}

func (r *Repository[A]) logInfo(ctx context.Context, msg string, args ...any) {
	if r.logger != nil {
		r.logger.InfoContext(ctx, msg, args...)
	}
}

func (r *Repository[A]) logWarn(ctx context.Context, msg string, args ...any) {
	if r.logger != nil {
		r.logger.WarnContext(ctx, msg, args...)
	}
}
