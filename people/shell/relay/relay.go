// Package relay delivers committed events to the message bus by polling the event log.
//
// The relay complements the repository's publish-after-append, which is best effort: whatever
// the repository failed to publish is delivered here. Delivery is at least once, in the order of
// the timestamps the store recorded.
//
// A recorded timestamp is taken when the append starts, so a slow transaction can become visible
// after a faster one with a later timestamp. Every run therefore reads again from the checkpoint
// minus a lookback window and skips the events the checkpoint remembers as delivered.
package relay

import (
	"context"
	"errors"
	"time"

	"github.com/johnmillerATcodemag-com/Zeus.People-sub005/eventstore"
	"github.com/johnmillerATcodemag-com/Zeus.People-sub005/people/shell"
	"github.com/johnmillerATcodemag-com/Zeus.People-sub005/people/shell/checkpoint"
)

const (
	defaultBatchSize    = 500
	defaultPollInterval = time.Second
	defaultLookback     = 5 * time.Second

	// MetricEventsRelayed records how many events one run published.
	MetricEventsRelayed = "relay_events_published"

	// MetricRunDuration records the duration of one run.
	MetricRunDuration = "relay_run_duration_seconds"

	// MetricRunFailures counts failed runs. Label: stage.
	MetricRunFailures = "relay_run_failures_total"

	logMsgRelayed     = "relay operation: events published"
	logMsgRunFailed   = "relay operation: run failed"
	logAttrEventCount = "event_count"
	logAttrCheckpoint = "checkpoint"
	logAttrError      = "error"
	logAttrStage      = "stage"
	labelStage        = "stage"
	stageLoad         = "load_checkpoint"
	stageRead         = "read_events"
	stagePublish      = "publish"
	stageSaveProgress = "save_checkpoint"
)

var (
	ErrNilEventSource  = errors.New("event source must not be nil")
	ErrNilPublisher    = errors.New("publisher must not be nil")
	ErrNilCheckpoints  = errors.New("checkpoint store must not be nil")
	ErrInvalidBatch    = errors.New("batch size must be positive")
	ErrInvalidPoll     = errors.New("poll interval must be positive")
	ErrInvalidLookback = errors.New("lookback must not be negative")
)

// EventSource is the cross-aggregate read of the event store.
type EventSource interface {
	GetEventsFromTimestampLimited(ctx context.Context, cutoff time.Time, limit int) (eventstore.StorableEvents, error)
}

// Relay publishes the event log from a checkpoint onwards.
type Relay struct {
	source       EventSource
	publisher    shell.Publisher
	checkpoints  checkpoint.Store
	batchSize    int
	pollInterval time.Duration
	lookback     time.Duration
	eventual     bool
	logger       eventstore.ContextualLogger
	metrics      eventstore.MetricsCollector
}

// Option configures a Relay.
type Option func(*Relay) error

// WithBatchSize limits how many events one run publishes.
func WithBatchSize(size int) Option {
	return func(r *Relay) error {
		if size <= 0 {
			return ErrInvalidBatch
		}

		r.batchSize = size

		return nil
	}
}

// WithPollInterval sets the pause between runs of Run.
func WithPollInterval(interval time.Duration) Option {
	return func(r *Relay) error {
		if interval <= 0 {
			return ErrInvalidPoll
		}

		r.pollInterval = interval

		return nil
	}
}

// WithLookback sets how far before the checkpoint each run reads again to catch events that
// committed late. Zero trusts the recorded timestamps to appear in commit order.
func WithLookback(lookback time.Duration) Option {
	return func(r *Relay) error {
		if lookback < 0 {
			return ErrInvalidLookback
		}

		r.lookback = lookback

		return nil
	}
}

// WithEventualConsistency allows reading from a replica. Events that are not replicated yet are
// picked up by a later run as long as the replica lag stays within the lookback.
func WithEventualConsistency() Option {
	return func(r *Relay) error {
		r.eventual = true
		return nil
	}
}

func WithLogger(logger eventstore.ContextualLogger) Option {
	return func(r *Relay) error {
		r.logger = logger
		return nil
	}
}

func WithMetrics(collector eventstore.MetricsCollector) Option {
	return func(r *Relay) error {
		r.metrics = collector
		return nil
	}
}

// New creates a Relay.
func New(source EventSource, publisher shell.Publisher, checkpoints checkpoint.Store, options ...Option) (*Relay, error) {
	switch {
	case source == nil:
		return nil, ErrNilEventSource
	case publisher == nil:
		return nil, ErrNilPublisher
	case checkpoints == nil:
		return nil, ErrNilCheckpoints
	}

	r := &Relay{
		source:       source,
		publisher:    publisher,
		checkpoints:  checkpoints,
		batchSize:    defaultBatchSize,
		pollInterval: defaultPollInterval,
		lookback:     defaultLookback,
	}

	for _, option := range options {
		if err := option(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// RunOnce publishes the next batch of undelivered events and advances the checkpoint.
// It returns the number of published events. If publishing fails the checkpoint stays where it was.
func (r *Relay) RunOnce(ctx context.Context) (int, error) {
	start := time.Now()

	current, err := r.checkpoints.Load(ctx)
	if err != nil {
		return 0, r.fail(ctx, stageLoad, err)
	}

	readCtx := ctx
	if r.eventual {
		readCtx = eventstore.WithEventualConsistency(ctx)
	}

	// Every remembered delivery may come back, the rest of the limit is room for new events.
	events, err := r.source.GetEventsFromTimestampLimited(readCtx, r.cutoff(current), r.batchSize+len(current.Deliveries))
	if err != nil {
		return 0, r.fail(ctx, stageRead, err)
	}

	batch := r.undelivered(current, events)
	if len(batch) == 0 {
		return 0, nil
	}

	messages := make([]shell.Message, 0, len(batch))
	for _, event := range batch {
		messages = append(messages, shell.MessageFrom(event, shell.EventMetadataFor(ctx, event.EventID)))
	}

	if err = r.publisher.Publish(ctx, messages...); err != nil {
		return 0, r.fail(ctx, stagePublish, err)
	}

	next := r.advance(current, batch)
	if err = r.checkpoints.Save(ctx, next); err != nil {
		return len(batch), r.fail(ctx, stageSaveProgress, err)
	}

	r.recordValue(ctx, MetricEventsRelayed, float64(len(batch)))
	r.recordDuration(ctx, MetricRunDuration, time.Since(start))
	r.logInfo(ctx, logMsgRelayed, logAttrEventCount, len(batch), logAttrCheckpoint, next.Timestamp.Format(time.RFC3339Nano))

	return len(batch), nil
}

// Run calls RunOnce until ctx is canceled. A full batch is followed immediately by the next run,
// otherwise Run waits for the poll interval. Failed runs are logged and retried after the interval.
func (r *Relay) Run(ctx context.Context) error {
	for {
		published, err := r.RunOnce(ctx)

		if ctx.Err() != nil {
			return nil
		}

		if err == nil && published == r.batchSize {
			continue
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(r.pollInterval):
		}
	}
}

func (r *Relay) cutoff(current checkpoint.Checkpoint) time.Time {
	if current.IsZero() {
		return time.Time{}
	}

	return current.Timestamp.Add(-r.lookback)
}

func (r *Relay) undelivered(current checkpoint.Checkpoint, events eventstore.StorableEvents) eventstore.StorableEvents {
	batch := make(eventstore.StorableEvents, 0, min(len(events), r.batchSize))

	for _, event := range events {
		if len(batch) == r.batchSize {
			break
		}

		if current.Delivered(event.EventID) {
			continue
		}

		batch = append(batch, event)
	}

	return batch
}

// advance moves the checkpoint to the latest timestamp delivered so far. It remembers every
// delivery the next run's read window can still return and forgets the older ones.
func (r *Relay) advance(current checkpoint.Checkpoint, batch eventstore.StorableEvents) checkpoint.Checkpoint {
	next := checkpoint.Checkpoint{Timestamp: current.Timestamp}
	for _, event := range batch {
		if event.Timestamp.After(next.Timestamp) {
			next.Timestamp = event.Timestamp
		}
	}

	horizon := next.Timestamp.Add(-r.lookback)

	for _, delivery := range current.Deliveries {
		if !delivery.Timestamp.Before(horizon) {
			next.Deliveries = append(next.Deliveries, delivery)
		}
	}

	for _, event := range batch {
		if !event.Timestamp.Before(horizon) {
			next.Deliveries = append(next.Deliveries, checkpoint.Delivery{EventID: event.EventID, Timestamp: event.Timestamp})
		}
	}

	return next
}

func (r *Relay) fail(ctx context.Context, stage string, err error) error {
	r.incrementCounter(ctx, MetricRunFailures, map[string]string{labelStage: stage})

	if r.logger != nil {
		r.logger.ErrorContext(ctx, logMsgRunFailed, logAttrStage, stage, logAttrError, err.Error())
	}

	return err
}

func (r *Relay) incrementCounter(ctx context.Context, metric string, labels map[string]string) {
	if r.metrics == nil {
		return
	}

	if contextual, ok := r.metrics.(eventstore.ContextualMetricsCollector); ok {
		contextual.IncrementCounterContext(ctx, metric, labels)
		return
	}

	r.metrics.IncrementCounter(metric, labels)
}

func (r *Relay) recordValue(ctx context.Context, metric string, value float64) {
	if r.metrics == nil {
		return
	}

	if contextual, ok := r.metrics.(eventstore.ContextualMetricsCollector); ok {
		contextual.RecordValueContext(ctx, metric, value, map[string]string{})
		return
	}

	r.metrics.RecordValue(metric, value, map[string]string{})
}

func (r *Relay) recordDuration(ctx context.Context, metric string, duration time.Duration) {
	if r.metrics == nil {
		return
	}

	if contextual, ok := r.metrics.(eventstore.ContextualMetricsCollector); ok {
		contextual.RecordDurationContext(ctx, metric, duration, map[string]string{})
		return
	}

	r.metrics.RecordDuration(metric, duration, map[string]string{})
}

func (r *Relay) logInfo(ctx context.Context, msg string, args ...any) {
	if r.logger != nil {
		r.logger.InfoContext(ctx, msg, args...)
	}
}
