// Package oteladapters provides OpenTelemetry implementations of the eventstore observability
// interfaces: MetricsCollector (histograms, counters, gauges), TracingCollector (spans) and two
// ContextualLogger variants (the otelslog bridge and the plain OpenTelemetry log API).
//
//	meter := otel.GetMeterProvider().Meter("zeus-people")
//	tracer := otel.GetTracerProvider().Tracer("zeus-people")
//
//	store, _ := postgresengine.NewEventStoreFromPGXPool(
//		pool,
//		postgresengine.WithMetrics(oteladapters.NewMetricsCollector(meter)),
//		postgresengine.WithTracing(oteladapters.NewTracingCollector(tracer)),
//		postgresengine.WithContextualLogger(oteladapters.NewSlogBridgeLogger("zeus-people")),
//	)
package oteladapters
