package eventstore

import "context"

// ConsistencyLevel defines which database node a read may be served from.
type ConsistencyLevel int

const (
	// StrongConsistency reads from the primary. It is the default, because replaying an aggregate
	// before an append must see every committed event, otherwise the append is bound to conflict.
	StrongConsistency ConsistencyLevel = iota

	// EventualConsistency allows reads from a replica. Suitable for catch-up subscriptions and
	// projection rebuilds that tolerate replication lag.
	EventualConsistency
)

type contextKey string

// ConsistencyLevelKey is the context key used to store the consistency level.
const ConsistencyLevelKey contextKey = "eventstore.consistency_level"

// WithStrongConsistency returns a context that routes reads to the primary.
//
//	ctx = eventstore.WithStrongConsistency(ctx)
//	stream, err := store.GetEvents(ctx, academicID)
func WithStrongConsistency(ctx context.Context) context.Context {
	return context.WithValue(ctx, ConsistencyLevelKey, StrongConsistency)
}

// WithEventualConsistency returns a context that allows reads from a replica.
//
//	ctx = eventstore.WithEventualConsistency(ctx)
//	events, err := store.GetEventsFromTimestamp(ctx, checkpoint)
func WithEventualConsistency(ctx context.Context) context.Context {
	return context.WithValue(ctx, ConsistencyLevelKey, EventualConsistency)
}

// GetConsistencyLevel extracts the consistency level from the context, defaulting to StrongConsistency.
func GetConsistencyLevel(ctx context.Context) ConsistencyLevel {
	if level, ok := ctx.Value(ConsistencyLevelKey).(ConsistencyLevel); ok {
		return level
	}

	return StrongConsistency
}

func (c ConsistencyLevel) String() string {
	switch c {
	case StrongConsistency:
		return "strong"
	case EventualConsistency:
		return "eventual"
	default:
		return "unknown"
	}
}
