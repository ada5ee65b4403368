package observable

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/johnmillerATcodemag-com/Zeus.People-sub005/eventstore"
	"github.com/johnmillerATcodemag-com/Zeus.People-sub005/people/shell"
)

const (
	// CommandHandlerDurationMetric tracks command handler execution duration.
	CommandHandlerDurationMetric = "commandhandler_handle_duration_seconds"
	// CommandHandlerCallsMetric counts command handler calls per status.
	CommandHandlerCallsMetric = "commandhandler_handle_calls_total"
	// CommandHandlerRetriesMetric counts calls that needed retries.
	CommandHandlerRetriesMetric = "commandhandler_retry_attempts_total"
	// CommandHandlerRetryDelayMetric tracks the backoff time spent per call.
	CommandHandlerRetryDelayMetric = "commandhandler_retry_delay_seconds"
	// CommandHandlerMaxRetriesReachedMetric counts calls that gave up after conflicts.
	CommandHandlerMaxRetriesReachedMetric = "commandhandler_max_retries_reached_total"

	StatusSuccess             = "success"
	StatusIdempotent          = "idempotent"
	StatusRejected            = "rejected"
	StatusConcurrencyConflict = "concurrency_conflict"
	StatusCanceled            = "canceled"
	StatusTimeout             = "timeout"
	StatusError               = "error"

	SpanNameCommandHandle = "commandhandler.handle"

	logMsgCommandStarted   = "command handler started"
	logMsgCommandCompleted = "command handler completed"
	logMsgCommandFailed    = "command handler failed"

	labelCommandType   = "command_type"
	labelStatus        = "status"
	labelRetryAttempts = "retry_attempts"
	labelErrorType     = "error_type"

	logAttrCommandType = "command_type"
	logAttrStatus      = "status"
	logAttrDurationMS  = "duration_ms"
	logAttrAttempts    = "attempts"
	logAttrError       = "error"
)

// Command is implemented by every command of the features packages.
type Command interface {
	CommandType() string
}

// CommandHandler is the shape of every command handler of the features packages.
type CommandHandler[C Command] interface {
	Handle(ctx context.Context, command C) (shell.HandlerResult, error)
}

// CommandWrapper instruments a command handler. It is itself a CommandHandler.
type CommandWrapper[C Command] struct {
	coreHandler      CommandHandler[C]
	commandType      string
	metricsCollector eventstore.MetricsCollector
	tracingCollector eventstore.TracingCollector
	logger           eventstore.ContextualLogger
}

// CommandOption defines a functional option for configuring CommandWrapper.
type CommandOption[C Command] func(*CommandWrapper[C]) error

func WithCommandMetrics[C Command](collector eventstore.MetricsCollector) CommandOption[C] {
	return func(w *CommandWrapper[C]) error {
		w.metricsCollector = collector
		return nil
	}
}

func WithCommandTracing[C Command](collector eventstore.TracingCollector) CommandOption[C] {
	return func(w *CommandWrapper[C]) error {
		w.tracingCollector = collector
		return nil
	}
}

func WithCommandLogging[C Command](logger eventstore.ContextualLogger) CommandOption[C] {
	return func(w *CommandWrapper[C]) error {
		w.logger = logger
		return nil
	}
}

// NewCommandWrapper wraps coreHandler. The command type label is taken from the zero value of C.
func NewCommandWrapper[C Command](coreHandler CommandHandler[C], opts ...CommandOption[C]) (*CommandWrapper[C], error) {
	if coreHandler == nil {
		return nil, errors.New("command handler must not be nil")
	}

	var zeroCommand C

	wrapper := &CommandWrapper[C]{
		coreHandler: coreHandler,
		commandType: zeroCommand.CommandType(),
	}

	for _, opt := range opts {
		if err := opt(wrapper); err != nil {
			return nil, err
		}
	}

	return wrapper, nil
}

// Handle delegates to the wrapped handler and records the call.
func (w *CommandWrapper[C]) Handle(ctx context.Context, command C) (shell.HandlerResult, error) {
	start := time.Now()

	ctx, span := w.startSpan(ctx)
	w.logInfo(ctx, logMsgCommandStarted, logAttrCommandType, w.commandType)

	result, err := w.coreHandler.Handle(ctx, command)
	duration := time.Since(start)
	status := StatusOf(result, err)

	w.recordRetryMetrics(ctx, result)
	w.recordDuration(ctx, CommandHandlerDurationMetric, duration, w.labels(status))
	w.incrementCounter(ctx, CommandHandlerCallsMetric, w.labels(status))
	w.finishSpan(span, status, duration, err)

	if err != nil {
		w.logError(ctx, logMsgCommandFailed,
			logAttrCommandType, w.commandType,
			logAttrStatus, status,
			logAttrAttempts, result.RetryAttempts,
			logAttrError, err.Error(),
		)

		return result, err
	}

	w.logInfo(ctx, logMsgCommandCompleted,
		logAttrCommandType, w.commandType,
		logAttrStatus, status,
		logAttrDurationMS, toMilliseconds(duration),
	)

	return result, nil
}

// StatusOf classifies one handler call.
func StatusOf(result shell.HandlerResult, err error) string {
	switch {
	case err == nil && result.Idempotent:
		return StatusIdempotent
	case err == nil:
		return StatusSuccess
	case errors.Is(err, context.Canceled):
		return StatusCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return StatusTimeout
	case errors.Is(err, eventstore.ErrConcurrencyConflict):
		return StatusConcurrencyConflict
	case shell.OutcomeOf(err) == shell.OutcomeRejected:
		return StatusRejected
	default:
		return StatusError
	}
}

func (w *CommandWrapper[C]) labels(status string) map[string]string {
	return map[string]string{labelCommandType: w.commandType, labelStatus: status}
}

func (w *CommandWrapper[C]) recordRetryMetrics(ctx context.Context, result shell.HandlerResult) {
	if result.RetryAttempts > 1 {
		w.incrementCounter(ctx, CommandHandlerRetriesMetric, map[string]string{
			labelCommandType:   w.commandType,
			labelRetryAttempts: strconv.Itoa(result.RetryAttempts - 1),
			labelErrorType:     result.LastErrorType,
		})
		w.recordDuration(ctx, CommandHandlerRetryDelayMetric, result.TotalRetryDelay, map[string]string{
			labelCommandType: w.commandType,
		})
	}

	if result.RetriesExhausted {
		w.incrementCounter(ctx, CommandHandlerMaxRetriesReachedMetric, map[string]string{
			labelCommandType: w.commandType,
		})
	}
}

func (w *CommandWrapper[C]) recordDuration(ctx context.Context, metric string, duration time.Duration, labels map[string]string) {
	if w.metricsCollector == nil {
		return
	}

	if contextual, ok := w.metricsCollector.(eventstore.ContextualMetricsCollector); ok {
		contextual.RecordDurationContext(ctx, metric, duration, labels)
		return
	}

	w.metricsCollector.RecordDuration(metric, duration, labels)
}

func (w *CommandWrapper[C]) incrementCounter(ctx context.Context, metric string, labels map[string]string) {
	if w.metricsCollector == nil {
		return
	}

	if contextual, ok := w.metricsCollector.(eventstore.ContextualMetricsCollector); ok {
		contextual.IncrementCounterContext(ctx, metric, labels)
		return
	}

	w.metricsCollector.IncrementCounter(metric, labels)
}

func (w *CommandWrapper[C]) startSpan(ctx context.Context) (context.Context, eventstore.SpanContext) {
	if w.tracingCollector == nil {
		return ctx, nil
	}

	return w.tracingCollector.StartSpan(ctx, SpanNameCommandHandle, map[string]string{labelCommandType: w.commandType})
}

func (w *CommandWrapper[C]) finishSpan(span eventstore.SpanContext, status string, duration time.Duration, err error) {
	if w.tracingCollector == nil || span == nil {
		return
	}

	attrs := map[string]string{logAttrDurationMS: strconv.FormatFloat(toMilliseconds(duration), 'f', 3, 64)}
	if err != nil {
		attrs[logAttrError] = err.Error()
	}

	w.tracingCollector.FinishSpan(span, status, attrs)
}

func (w *CommandWrapper[C]) logInfo(ctx context.Context, msg string, args ...any) {
	if w.logger != nil {
		w.logger.InfoContext(ctx, msg, args...)
	}
}

func (w *CommandWrapper[C]) logError(ctx context.Context, msg string, args ...any) {
	if w.logger != nil {
		w.logger.ErrorContext(ctx, msg, args...)
	}
}

func toMilliseconds(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / 1e6
}
