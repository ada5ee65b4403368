package eventstore

import (
	"context"
	"time"
)

// Logger is satisfied by *slog.Logger and receives SQL debugging, operational summaries,
// warnings and errors of the engines.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// ContextualLogger is the context-aware variant of Logger, also satisfied by *slog.Logger.
// Implementations can use the context for trace/span correlation.
type ContextualLogger interface {
	DebugContext(ctx context.Context, msg string, args ...any)
	InfoContext(ctx context.Context, msg string, args ...any)
	WarnContext(ctx context.Context, msg string, args ...any)
	ErrorContext(ctx context.Context, msg string, args ...any)
}

// MetricsCollector collects durations, counters and values for store operations.
// It keeps the engines free of any metrics backend; see oteladapters and promadapters.
type MetricsCollector interface {
	RecordDuration(metric string, duration time.Duration, labels map[string]string)
	IncrementCounter(metric string, labels map[string]string)
	RecordValue(metric string, value float64, labels map[string]string)
}

// ContextualMetricsCollector is optional. Engines prefer it over MetricsCollector when available.
type ContextualMetricsCollector interface {
	MetricsCollector
	RecordDurationContext(ctx context.Context, metric string, duration time.Duration, labels map[string]string)
	IncrementCounterContext(ctx context.Context, metric string, labels map[string]string)
	RecordValueContext(ctx context.Context, metric string, value float64, labels map[string]string)
}

// SpanContext represents an active tracing span that can be updated with a status and attributes.
type SpanContext interface {
	SetStatus(status string)
	AddAttribute(key, value string)
}

// TracingCollector starts and finishes spans around store operations.
type TracingCollector interface {
	StartSpan(ctx context.Context, name string, attrs map[string]string) (context.Context, SpanContext)
	FinishSpan(spanCtx SpanContext, status string, attrs map[string]string)
}

// Metric names shared by all engines.
const (
	MetricAppendDuration       = "eventstore_append_duration_seconds"
	MetricQueryDuration        = "eventstore_query_duration_seconds"
	MetricEventsAppended       = "eventstore_events_appended"
	MetricEventsQueried        = "eventstore_events_queried"
	MetricConcurrencyConflicts = "eventstore_concurrency_conflicts_total"
	MetricStorageErrors        = "eventstore_storage_errors_total"
)
