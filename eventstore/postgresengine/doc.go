// Package postgresengine provides the PostgreSQL implementation of the event store.
//
// Events are stored one row per event in a single table (default "Events") with the columns
// Id, AggregateId, AggregateType, EventType, EventData, Version, Timestamp and EventId.
// The unique index on (AggregateId, Version) anchors optimistic concurrency.
//
// Key features:
//   - Multiple database adapter support (pgx pool with optional replica, sql.DB, sqlx.DB)
//   - Atomic multi-event appends with expected-version checks
//   - Per-aggregate, per-version and cross-aggregate timestamp reads
//   - Optional logging, metrics and tracing through the eventstore observability interfaces
//
// Usage examples:
//
//	db, _ := pgxpool.New(context.Background(), dsn)
//	store, _ := postgresengine.NewEventStoreFromPGXPool(db, postgresengine.WithLogger(slog.Default()))
//	_ = store.CreateSchema(ctx)
//
//	stream, _ := store.GetEvents(ctx, academicID)
//	err := store.AppendEvents(ctx, academicID, "Academic", eventstore.StreamVersion(stream), newEvent)
//	if errors.Is(err, eventstore.ErrConcurrencyConflict) {
//		// reload and retry
//	}
package postgresengine
