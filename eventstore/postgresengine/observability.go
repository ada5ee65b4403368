package postgresengine

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/johnmillerATcodemag-com/Zeus.People-sub005/eventstore"
)

const (
	logMsgBuildSelectQueryFailed   = "failed to build select query"
	logMsgDBQueryFailed            = "database query execution failed"
	logMsgCloseRowsFailed          = "failed to close database rows"
	logMsgScanRowFailed            = "failed to scan database row"
	logMsgBuildStorableEventFailed = "failed to build storable event from database row"
	logMsgBuildInsertQueryFailed   = "failed to build insert query"
	logMsgInvalidAppend            = "rejected invalid append"
	logMsgDBExecFailed             = "database execution failed during event append"
	logMsgRowsAffectedFailed       = "failed to get rows affected count"
	logMsgQueryCompleted           = "query completed"
	logMsgEventsAppended           = "events appended"
	logMsgConcurrencyConflict      = "concurrency conflict detected"
	logMsgSchemaCreated            = "schema created"
	logMsgSQLExecuted              = "executed sql for: "
	logMsgOperation                = "eventstore operation: "

	logAttrError           = "error"
	logAttrQuery           = "query"
	logAttrOperation       = "operation"
	logAttrAggregateID     = "aggregate_id"
	logAttrEventType       = "event_type"
	logAttrEventCount      = "event_count"
	logAttrVersion         = "version"
	logAttrDurationMS      = "duration_ms"
	logAttrExpectedEvents  = "expected_events"
	logAttrRowsAffected    = "rows_affected"
	logAttrExpectedVersion = "expected_version"
	logAttrTable           = "table"

	operationAppend                 = "append"
	operationGetEvents              = "get_events"
	operationGetEventsFromVersion   = "get_events_from_version"
	operationGetEventsFromTimestamp = "get_events_from_timestamp"
	operationCreateSchema           = "create_schema"

	spanNameAppend = "eventstore.append"
	spanNameQuery  = "eventstore.query"

	spanAttrOperation       = "operation"
	spanAttrAggregateType   = "aggregate_type"
	spanAttrEventCount      = "event_count"
	spanAttrEventType       = "event_type"
	spanAttrExpectedVersion = "expected_version"
	spanAttrRowsAffected    = "rows_affected"
	spanAttrDurationMS      = "duration_ms"
	spanAttrErrorType       = "error_type"

	labelOperation     = "operation"
	labelStatus        = "status"
	labelErrorType     = "error_type"
	labelAggregateType = "aggregate_type"

	statusSuccess = "success"
	statusError   = "error"

	errorTypeBuildQuery          = "build_query"
	errorTypeDatabaseExec        = "database_exec"
	errorTypeDatabaseQuery       = "database_query"
	errorTypeRowsAffected        = "rows_affected"
	errorTypeRowScan             = "row_scan"
	errorTypeConcurrencyConflict = "concurrency_conflict"
	errorTypeDuplicateEventID    = "duplicate_event_id"
)

// === Logging ===
// Both loggers are optional and receive the same messages when configured.

func (es *EventStore) logQueryWithDuration(ctx context.Context, sqlQuery string, action string, duration time.Duration) {
	args := []any{logAttrDurationMS, toMilliseconds(duration), logAttrQuery, sqlQuery}

	if es.logger != nil {
		es.logger.Debug(logMsgSQLExecuted+action, args...)
	}

	if es.contextualLogger != nil {
		es.contextualLogger.DebugContext(ctx, logMsgSQLExecuted+action, args...)
	}
}

func (es *EventStore) logOperation(ctx context.Context, action string, args ...any) {
	if es.logger != nil {
		es.logger.Info(logMsgOperation+action, args...)
	}

	if es.contextualLogger != nil {
		es.contextualLogger.InfoContext(ctx, logMsgOperation+action, args...)
	}
}

func (es *EventStore) logWarn(ctx context.Context, message string, args ...any) {
	if es.logger != nil {
		es.logger.Warn(message, args...)
	}

	if es.contextualLogger != nil {
		es.contextualLogger.WarnContext(ctx, message, args...)
	}
}

func (es *EventStore) logError(ctx context.Context, message string, err error, args ...any) {
	allArgs := []any{logAttrError, err.Error()}
	allArgs = append(allArgs, args...)

	if es.logger != nil {
		es.logger.Error(message, allArgs...)
	}

	if es.contextualLogger != nil {
		es.contextualLogger.ErrorContext(ctx, message, allArgs...)
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

func formatMilliseconds(d time.Duration) string {
	return fmt.Sprintf("%.3f", toMilliseconds(d))
}

// === Metrics ===

func (es *EventStore) recordDuration(ctx context.Context, metric string, duration time.Duration, labels map[string]string) {
	if es.metricsCollector == nil {
		return
	}

	if contextual, ok := es.metricsCollector.(eventstore.ContextualMetricsCollector); ok {
		contextual.RecordDurationContext(ctx, metric, duration, labels)
		return
	}

	es.metricsCollector.RecordDuration(metric, duration, labels)
}

func (es *EventStore) recordValue(ctx context.Context, metric string, value float64, labels map[string]string) {
	if es.metricsCollector == nil {
		return
	}

	if contextual, ok := es.metricsCollector.(eventstore.ContextualMetricsCollector); ok {
		contextual.RecordValueContext(ctx, metric, value, labels)
		return
	}

	es.metricsCollector.RecordValue(metric, value, labels)
}

func (es *EventStore) incrementCounter(ctx context.Context, metric string, labels map[string]string) {
	if es.metricsCollector == nil {
		return
	}

	if contextual, ok := es.metricsCollector.(eventstore.ContextualMetricsCollector); ok {
		contextual.IncrementCounterContext(ctx, metric, labels)
		return
	}

	es.metricsCollector.IncrementCounter(metric, labels)
}

// queryMetricsObserver encapsulates the metrics collection for query operations.
type queryMetricsObserver struct {
	es        *EventStore
	ctx       context.Context
	operation string
}

// appendMetricsObserver encapsulates the metrics collection for append operations.
type appendMetricsObserver struct {
	es            *EventStore
	ctx           context.Context
	aggregateType string
}

func (es *EventStore) startQueryMetrics(ctx context.Context, operation string) *queryMetricsObserver {
	return &queryMetricsObserver{es: es, ctx: ctx, operation: operation}
}

func (es *EventStore) startAppendMetrics(ctx context.Context, aggregateType string) *appendMetricsObserver {
	return &appendMetricsObserver{es: es, ctx: ctx, aggregateType: aggregateType}
}

func (qmo *queryMetricsObserver) labels(status string) map[string]string {
	return map[string]string{labelOperation: qmo.operation, labelStatus: status}
}

func (qmo *queryMetricsObserver) recordSuccess(stream eventstore.StorableEvents, duration time.Duration) {
	qmo.es.recordDuration(qmo.ctx, eventstore.MetricQueryDuration, duration, qmo.labels(statusSuccess))
	qmo.es.recordValue(qmo.ctx, eventstore.MetricEventsQueried, float64(len(stream)), qmo.labels(statusSuccess))
}

func (qmo *queryMetricsObserver) recordError(errorType string, duration time.Duration) {
	qmo.es.recordDuration(qmo.ctx, eventstore.MetricQueryDuration, duration, qmo.labels(statusError))

	labels := qmo.labels(statusError)
	labels[labelErrorType] = errorType
	qmo.es.incrementCounter(qmo.ctx, eventstore.MetricStorageErrors, labels)
}

func (amo *appendMetricsObserver) labels(status string) map[string]string {
	return map[string]string{
		labelOperation:     operationAppend,
		labelStatus:        status,
		labelAggregateType: amo.aggregateType,
	}
}

func (amo *appendMetricsObserver) recordSuccess(eventCount int, duration time.Duration) {
	amo.es.recordDuration(amo.ctx, eventstore.MetricAppendDuration, duration, amo.labels(statusSuccess))
	amo.es.recordValue(amo.ctx, eventstore.MetricEventsAppended, float64(eventCount), amo.labels(statusSuccess))
}

func (amo *appendMetricsObserver) recordError(errorType string, duration time.Duration) {
	amo.es.recordDuration(amo.ctx, eventstore.MetricAppendDuration, duration, amo.labels(statusError))

	labels := amo.labels(statusError)
	labels[labelErrorType] = errorType
	amo.es.incrementCounter(amo.ctx, eventstore.MetricStorageErrors, labels)
}

func (amo *appendMetricsObserver) recordConcurrencyConflict() {
	amo.es.incrementCounter(amo.ctx, eventstore.MetricConcurrencyConflicts, map[string]string{
		labelOperation:     operationAppend,
		labelAggregateType: amo.aggregateType,
	})
}

// === Tracing ===
// The observers are safe to use when no tracing collector is configured; all methods are no-ops then.

type queryTracingObserver struct {
	es   *EventStore
	span eventstore.SpanContext
}

type appendTracingObserver struct {
	es   *EventStore
	span eventstore.SpanContext
}

func (es *EventStore) startSpan(
	ctx context.Context,
	name string,
	attrs map[string]string,
) (context.Context, eventstore.SpanContext) {

	if es.tracingCollector == nil {
		return ctx, nil
	}

	return es.tracingCollector.StartSpan(ctx, name, attrs)
}

func (es *EventStore) finishSpan(span eventstore.SpanContext, status string, attrs map[string]string) {
	if es.tracingCollector == nil || span == nil {
		return
	}

	es.tracingCollector.FinishSpan(span, status, attrs)
}

func (es *EventStore) startQueryTracing(ctx context.Context, operation string) (*queryTracingObserver, context.Context) {
	newCtx, span := es.startSpan(ctx, spanNameQuery, map[string]string{spanAttrOperation: operation})

	return &queryTracingObserver{es: es, span: span}, newCtx
}

func (es *EventStore) startAppendTracing(
	ctx context.Context,
	aggregateType string,
	events eventstore.StorableEvents,
	expectedVersion int,
) (*appendTracingObserver, context.Context) {

	attrs := map[string]string{
		spanAttrOperation:       operationAppend,
		spanAttrAggregateType:   aggregateType,
		spanAttrEventCount:      fmt.Sprintf("%d", len(events)),
		spanAttrExpectedVersion: fmt.Sprintf("%d", expectedVersion),
	}

	if len(events) > 0 {
		attrs[spanAttrEventType] = events[0].EventType
	}

	newCtx, span := es.startSpan(ctx, spanNameAppend, attrs)

	return &appendTracingObserver{es: es, span: span}, newCtx
}

func (qto *queryTracingObserver) finishSuccess(stream eventstore.StorableEvents, duration time.Duration) {
	qto.es.finishSpan(qto.span, statusSuccess, map[string]string{
		spanAttrEventCount: fmt.Sprintf("%d", len(stream)),
		spanAttrDurationMS: formatMilliseconds(duration),
	})
}

func (qto *queryTracingObserver) finishError(errorType string, duration time.Duration) {
	attrs := map[string]string{spanAttrErrorType: errorType}
	if duration > 0 {
		attrs[spanAttrDurationMS] = formatMilliseconds(duration)
	}

	qto.es.finishSpan(qto.span, statusError, attrs)
}

func (ato *appendTracingObserver) finishSuccess(rowsAffected int64, duration time.Duration) {
	ato.es.finishSpan(ato.span, statusSuccess, map[string]string{
		spanAttrRowsAffected: fmt.Sprintf("%d", rowsAffected),
		spanAttrDurationMS:   formatMilliseconds(duration),
	})
}

func (ato *appendTracingObserver) finishError(errorType string, duration time.Duration) {
	attrs := map[string]string{spanAttrErrorType: errorType}
	if duration > 0 {
		attrs[spanAttrDurationMS] = formatMilliseconds(duration)
	}

	ato.es.finishSpan(ato.span, statusError, attrs)
}
