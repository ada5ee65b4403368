// Package eventstore provides the engine-independent parts of an append-only,
// version-indexed event log keyed by aggregate identity.
//
// It defines the persisted envelope (StorableEvent), the storage error taxonomy,
// read consistency routing and the dependency-free observability interfaces
// implemented by oteladapters and promadapters.
//
// Engines (postgresengine, memoryengine) offer the same operations:
//
//	AppendEvents(ctx, aggregateID, aggregateType, expectedVersion, events)
//	GetEvents(ctx, aggregateID)
//	GetEventsFromVersion(ctx, aggregateID, fromVersionExclusive)
//	GetEventsFromTimestamp(ctx, cutoff)
//	GetEventsFromTimestampLimited(ctx, cutoff, limit)
//
// The timestamp of a stored event is the time the engine recorded it, not the time the
// domain event occurred.
//
// Optimistic concurrency: AppendEvents succeeds only if the highest stored version of the
// aggregate equals expectedVersion; otherwise nothing is written and ErrConcurrencyConflict
// is returned.
//
//	stream, err := store.GetEvents(ctx, academicID)
//	if err != nil {
//		// handle error
//	}
//
//	event, _ := eventstore.BuildStorableEvent(eventType, payload, eventID, 0)
//	err = store.AppendEvents(ctx, academicID, "Academic", eventstore.StreamVersion(stream), event)
package eventstore
