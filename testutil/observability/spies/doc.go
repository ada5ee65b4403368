// Package spies provides test doubles that capture what the event store and the repository
// log, measure and trace: a slog.Handler spy, a MetricsCollector spy and a TracingCollector spy.
package spies
