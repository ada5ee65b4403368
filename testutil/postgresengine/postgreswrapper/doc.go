// Package postgreswrapper builds postgresengine event stores on a real PostgreSQL database for tests.
//
// The adapter is picked from the ADAPTER_TYPE environment variable (pgx.pool, sql.db or sqlx.db, default pgx.pool)
// and the database from ZEUS_TEST_POSTGRES_DSN. Each wrapper works on its own freshly created events table,
// which is dropped again on Close. Tests are skipped when the database is not reachable.
package postgreswrapper
