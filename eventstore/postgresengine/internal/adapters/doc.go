// Package adapters provides database adapter implementations for the PostgreSQL event store.
//
// The event store works with pgxpool.Pool, sql.DB and sqlx.DB through the common DBAdapter
// interface. Adapters also translate driver specific errors, so the engine can detect a
// violated unique constraint without knowing which driver raised it.
package adapters
