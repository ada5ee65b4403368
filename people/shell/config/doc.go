// Package config loads the runtime configuration of the Zeus.People binaries and builds the
// infrastructure they need from it: loggers, PostgreSQL connections and the event store.
//
// Configuration comes from an optional YAML file, overridden by environment variables with the
// ZEUS_ prefix, where nested keys are joined by underscores:
//
//	postgres.dsn         -> ZEUS_POSTGRES_DSN
//	kafka.brokers        -> ZEUS_KAFKA_BROKERS (comma separated)
//	relay.poll_interval  -> ZEUS_RELAY_POLL_INTERVAL (e.g. "2s")
//
// Every key has a default suitable for local development.
package config
