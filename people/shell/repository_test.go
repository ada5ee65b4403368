package shell_test

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnmillerATcodemag-com/Zeus.People-sub005/eventstore"
	"github.com/johnmillerATcodemag-com/Zeus.People-sub005/eventstore/memoryengine"
	"github.com/johnmillerATcodemag-com/Zeus.People-sub005/people/core"
	"github.com/johnmillerATcodemag-com/Zeus.People-sub005/people/shell"
	"github.com/johnmillerATcodemag-com/Zeus.People-sub005/testutil/observability/spies"
)

var registeredAt = time.Date(2024, 1, 10, 9, 30, 0, 0, time.UTC)

type publisherSpy struct {
	mu       sync.Mutex
	messages []shell.Message
	err      error
}

func (p *publisherSpy) Publish(_ context.Context, messages ...shell.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.err != nil {
		return p.err
	}

	p.messages = append(p.messages, messages...)

	return nil
}

// conflictingStore fails the first appends with a concurrency conflict.
type conflictingStore struct {
	*memoryengine.EventStore
	conflicts int
}

func (s *conflictingStore) AppendEvents(
	ctx context.Context,
	aggregateID uuid.UUID,
	aggregateType string,
	expectedVersion int,
	events ...eventstore.StorableEvent,
) error {

	if s.conflicts > 0 {
		s.conflicts--
		return eventstore.ErrConcurrencyConflict
	}

	return s.EventStore.AppendEvents(ctx, aggregateID, aggregateType, expectedVersion, events...)
}

func givenRegisteredAcademic(t *testing.T, name string, rank core.Rank) *core.Academic {
	t.Helper()

	academic, err := core.RegisterAcademic(
		uuid.New(),
		mustValue(core.NewEmpNr("E"+uuid.NewString()[:8])),
		mustValue(core.NewEmpName(name)),
		rank,
		registeredAt,
	)
	require.NoError(t, err)

	return academic
}

func newAcademicRepository(t *testing.T, store shell.EventStore, options ...shell.RepositoryOption) *shell.Repository[*core.Academic] {
	t.Helper()

	repository, err := shell.NewRepository(store, core.NewAcademic, options...)
	require.NoError(t, err)

	return repository
}

func Test_Repository_AddThenLoad(t *testing.T) {
	// setup
	ctx := context.Background()
	store := memoryengine.NewEventStore()
	repository := newAcademicRepository(t, store)
	academic := givenRegisteredAcademic(t, "Smith J.", core.RankProfessor)
	require.NoError(t, academic.AddSubject(uuid.New(), registeredAt.Add(time.Hour)))

	// act
	id, err := repository.Add(ctx, academic)
	require.NoError(t, err)

	loaded, err := repository.Load(ctx, id)

	// assert
	require.NoError(t, err)
	assert.Equal(t, academic.ID(), id)
	assert.Empty(t, academic.UncommittedEvents())
	assert.Equal(t, academic, loaded)
	assert.Equal(t, 2, loaded.Version())

	stream, err := store.GetEvents(ctx, id)
	require.NoError(t, err)
	require.Len(t, stream, 2)
	assert.Equal(t, core.AcademicAggregateType, stream[0].AggregateType)
	assert.Equal(t, core.AcademicRegisteredEventType, stream[0].EventType)
	assert.Equal(t, core.AcademicSubjectAddedEventType, stream[1].EventType)
}

func Test_Repository_Add_RequiresANewAggregate(t *testing.T) {
	ctx := context.Background()
	repository := newAcademicRepository(t, memoryengine.NewEventStore())
	academic := givenRegisteredAcademic(t, "Smith J.", core.RankProfessor)
	academic.MarkCommitted()

	_, err := repository.Add(ctx, academic)

	assert.ErrorIs(t, err, shell.ErrNothingToAdd)
}

func Test_Repository_Load_ReportsMissingAggregates(t *testing.T) {
	// setup
	ctx := context.Background()
	store := memoryengine.NewEventStore()
	repository := newAcademicRepository(t, store)

	title := mustValue(core.NewTitle("Databases"))
	chair, err := core.CreateChair(uuid.New(), title, registeredAt)
	require.NoError(t, err)
	chairs, err := shell.NewRepository(store, core.NewChair)
	require.NoError(t, err)
	_, err = chairs.Add(ctx, chair)
	require.NoError(t, err)

	// act
	_, missingErr := repository.Load(ctx, uuid.New())
	_, otherTypeErr := repository.Load(ctx, chair.ID())

	// assert
	assert.ErrorIs(t, missingErr, shell.ErrNotFound)
	assert.ErrorIs(t, otherTypeErr, shell.ErrNotFound)
	assert.Equal(t, shell.OutcomeRejected, shell.OutcomeOf(missingErr))
}

func Test_Repository_LoadManyAndExists(t *testing.T) {
	// setup
	ctx := context.Background()
	repository := newAcademicRepository(t, memoryengine.NewEventStore())

	// arrange
	smith := givenRegisteredAcademic(t, "Smith J.", core.RankProfessor)
	jones := givenRegisteredAcademic(t, "Jones A.", core.RankLecturer)
	_, err := repository.Add(ctx, smith)
	require.NoError(t, err)
	_, err = repository.Add(ctx, jones)
	require.NoError(t, err)

	// act
	loaded, err := repository.LoadMany(ctx, []uuid.UUID{jones.ID(), smith.ID()})
	_, missingErr := repository.LoadMany(ctx, []uuid.UUID{smith.ID(), uuid.New()})
	exists, existsErr := repository.Exists(ctx, smith.ID())
	absent, absentErr := repository.Exists(ctx, uuid.New())

	// assert
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, jones.ID(), loaded[0].ID())
	assert.Equal(t, smith.ID(), loaded[1].ID())
	assert.ErrorIs(t, missingErr, shell.ErrNotFound)

	require.NoError(t, existsErr)
	require.NoError(t, absentErr)
	assert.True(t, exists)
	assert.False(t, absent)
}

func Test_Repository_StaleSaveConflictsAndLeavesTheStreamUnchanged(t *testing.T) {
	// setup
	ctx := context.Background()
	store := memoryengine.NewEventStore()
	repository := newAcademicRepository(t, store)
	academic := givenRegisteredAcademic(t, "Smith J.", core.RankLecturer)
	_, err := repository.Add(ctx, academic)
	require.NoError(t, err)

	first, err := repository.Load(ctx, academic.ID())
	require.NoError(t, err)
	second, err := repository.Load(ctx, academic.ID())
	require.NoError(t, err)

	require.NoError(t, first.AddDegree(uuid.New(), registeredAt.Add(time.Hour)))
	require.NoError(t, second.ChangeRank(core.RankSeniorLecturer, registeredAt.Add(time.Hour)))
	require.NoError(t, repository.Save(ctx, first))

	before, err := store.GetEvents(ctx, academic.ID())
	require.NoError(t, err)

	// act
	err = repository.Save(ctx, second)

	// assert
	assert.ErrorIs(t, err, eventstore.ErrConcurrencyConflict)
	assert.Equal(t, shell.OutcomeRetry, shell.OutcomeOf(err))
	assert.Len(t, second.UncommittedEvents(), 1)

	after, err := store.GetEvents(ctx, academic.ID())
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func Test_Repository_Update_RetriesConflicts(t *testing.T) {
	// setup
	ctx := context.Background()
	store := &conflictingStore{EventStore: memoryengine.NewEventStore()}
	repository := newAcademicRepository(t, store, shell.WithRetryOptions(shell.WithBaseDelay(time.Millisecond)))
	academic := givenRegisteredAcademic(t, "Smith J.", core.RankLecturer)
	_, err := repository.Add(ctx, academic)
	require.NoError(t, err)
	store.conflicts = 2
	calls := 0

	// act
	result, err := repository.Update(ctx, academic.ID(), func(a *core.Academic) error {
		calls++
		return a.AddDegree(uuid.New(), registeredAt.Add(time.Hour))
	})

	// assert
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 3, result.RetryAttempts)
	assert.False(t, result.Idempotent)

	loaded, err := repository.Load(ctx, academic.ID())
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Version())
	assert.Len(t, loaded.DegreeIDs(), 1)
}

func Test_Repository_Update_DoesNotRetryRuleViolations(t *testing.T) {
	// setup
	ctx := context.Background()
	repository := newAcademicRepository(t, memoryengine.NewEventStore())
	academic := givenRegisteredAcademic(t, "Jones A.", core.RankLecturer)
	_, err := repository.Add(ctx, academic)
	require.NoError(t, err)
	calls := 0

	// act
	result, err := repository.Update(ctx, academic.ID(), func(a *core.Academic) error {
		calls++
		return a.AssignChair(uuid.New(), registeredAt.Add(time.Hour))
	})

	// assert
	assert.True(t, core.IsRuleViolation(err, core.RuleChairRequiresProfessor))
	assert.Equal(t, shell.OutcomeRejected, shell.OutcomeOf(err))
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, result.RetryAttempts)
}

func Test_Repository_Update_ReportsIdempotentMutations(t *testing.T) {
	ctx := context.Background()
	store := memoryengine.NewEventStore()
	repository := newAcademicRepository(t, store)
	academic := givenRegisteredAcademic(t, "Smith J.", core.RankProfessor)
	_, err := repository.Add(ctx, academic)
	require.NoError(t, err)

	result, err := repository.Update(ctx, academic.ID(), func(a *core.Academic) error {
		return a.ChangeRank(core.RankProfessor, registeredAt.Add(time.Hour))
	})

	require.NoError(t, err)
	assert.True(t, result.Idempotent)
	assert.Equal(t, 1, store.Len())
}

func Test_Repository_ConcurrentUpdatesAllSucceedWithRetries(t *testing.T) {
	// setup
	ctx := context.Background()
	store := memoryengine.NewEventStore()
	repository := newAcademicRepository(t, store, shell.WithRetryOptions(
		shell.WithMaxAttempts(20),
		shell.WithBaseDelay(time.Millisecond),
	))
	academic := givenRegisteredAcademic(t, "Smith J.", core.RankProfessor)
	_, err := repository.Add(ctx, academic)
	require.NoError(t, err)

	const writers = 5
	var wg sync.WaitGroup
	errs := make(chan error, writers)

	// act
	for range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, updateErr := repository.Update(ctx, academic.ID(), func(a *core.Academic) error {
				return a.AddDegree(uuid.New(), registeredAt.Add(time.Hour))
			})
			errs <- updateErr
		}()
	}
	wg.Wait()
	close(errs)

	// assert
	for updateErr := range errs {
		assert.NoError(t, updateErr)
	}

	loaded, err := repository.Load(ctx, academic.ID())
	require.NoError(t, err)
	assert.Equal(t, 1+writers, loaded.Version())
	assert.Len(t, loaded.DegreeIDs(), writers)
}

func Test_Repository_Delete_KeepsTheStream(t *testing.T) {
	ctx := context.Background()
	repository := newAcademicRepository(t, memoryengine.NewEventStore())
	academic := givenRegisteredAcademic(t, "Smith J.", core.RankProfessor)
	_, err := repository.Add(ctx, academic)
	require.NoError(t, err)

	require.NoError(t, repository.Delete(ctx, academic.ID(), registeredAt.Add(time.Hour)))

	loaded, err := repository.Load(ctx, academic.ID())
	require.NoError(t, err)
	assert.True(t, loaded.IsDeleted())

	err = repository.Delete(ctx, academic.ID(), registeredAt.Add(2*time.Hour))
	assert.True(t, core.IsRuleViolation(err, core.RuleAggregateDeleted))
}

func Test_Repository_Refresh_CatchesUp(t *testing.T) {
	// setup
	ctx := context.Background()
	repository := newAcademicRepository(t, memoryengine.NewEventStore())
	academic := givenRegisteredAcademic(t, "Smith J.", core.RankProfessor)
	_, err := repository.Add(ctx, academic)
	require.NoError(t, err)

	_, err = repository.Update(ctx, academic.ID(), func(a *core.Academic) error {
		return a.GrantTenure(registeredAt.Add(time.Hour))
	})
	require.NoError(t, err)

	// act
	err = repository.Refresh(ctx, academic)

	// assert
	require.NoError(t, err)
	assert.Equal(t, 2, academic.Version())
	assert.True(t, academic.IsTenured())

	require.NoError(t, academic.AddDegree(uuid.New(), registeredAt.Add(2*time.Hour)))
	assert.ErrorIs(t, repository.Refresh(ctx, academic), shell.ErrUncommittedEvents)
}

func Test_Repository_PublishesCommittedEventsInOrder(t *testing.T) {
	// setup
	publisher := &publisherSpy{}
	repository := newAcademicRepository(t, memoryengine.NewEventStore(), shell.WithPublisher(publisher))
	correlationID := uuid.New()
	ctx := shell.WithCorrelationID(context.Background(), correlationID)

	academic := givenRegisteredAcademic(t, "Smith J.", core.RankProfessor)
	require.NoError(t, academic.GrantTenure(registeredAt.Add(time.Hour)))

	// act
	_, err := repository.Add(ctx, academic)

	// assert
	require.NoError(t, err)
	require.Len(t, publisher.messages, 2)

	for i, message := range publisher.messages {
		assert.Equal(t, i+1, message.Version)
		assert.Equal(t, academic.ID(), message.AggregateID)
		assert.Equal(t, core.AcademicAggregateType, message.AggregateType)
		assert.Equal(t, message.EventID.String(), message.Metadata.MessageID)
		assert.Equal(t, correlationID.String(), message.Metadata.CorrelationID)
	}

	assert.Equal(t, core.AcademicRegisteredEventType, publisher.messages[0].EventType)
	assert.Equal(t, core.AcademicTenureGrantedEventType, publisher.messages[1].EventType)
}

func Test_Repository_PublishFailuresAreLoggedNotReturned(t *testing.T) {
	// setup
	ctx := context.Background()
	logSpy := spies.NewLogHandlerSpy(false)
	publisher := &publisherSpy{err: errors.New("broker unavailable")}
	repository := newAcademicRepository(t, memoryengine.NewEventStore(),
		shell.WithPublisher(publisher),
		shell.WithRepositoryLogger(slog.New(logSpy)),
	)

	// act
	_, err := repository.Add(ctx, givenRegisteredAcademic(t, "Smith J.", core.RankProfessor))

	// assert
	require.NoError(t, err)
	assert.True(t, logSpy.HasInfoLog("repository operation: events saved").WithAttributeValue("event_count", "1").Assert())
	assert.True(t, logSpy.HasWarnLog("repository operation: publishing committed events failed").
		WithAttributeValue("error", "broker unavailable").Assert())
}
