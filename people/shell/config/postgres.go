package config

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver

	"github.com/johnmillerATcodemag-com/Zeus.People-sub005/eventstore/postgresengine"
)

var ErrConnectingDatabaseFailed = errors.New("connecting to database failed")

// PGXPoolConfig parses dsn and applies the pool settings of the postgres section.
func (c PostgresConfig) PGXPoolConfig(dsn string) (*pgxpool.Config, error) {
	dbConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, errors.Join(ErrConnectingDatabaseFailed, err)
	}

	dbConfig.MaxConns = int32(c.MaxConns)
	dbConfig.MinConns = int32(c.MinConns)
	dbConfig.MaxConnLifetime = c.MaxConnLifetime
	dbConfig.MaxConnIdleTime = c.MaxConnIdleTime
	dbConfig.HealthCheckPeriod = c.HealthCheckPeriod
	dbConfig.ConnConfig.ConnectTimeout = c.ConnectTimeout

	return dbConfig, nil
}

// NewPGXPool opens and pings a pgx pool for dsn.
func (c PostgresConfig) NewPGXPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	dbConfig, err := c.PGXPoolConfig(dsn)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, dbConfig)
	if err != nil {
		return nil, errors.Join(ErrConnectingDatabaseFailed, err)
	}

	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Join(ErrConnectingDatabaseFailed, err)
	}

	return pool, nil
}

// NewSQLDB opens and pings a database/sql handle backed by lib/pq.
func (c PostgresConfig) NewSQLDB(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open("postgres", c.DSN)
	if err != nil {
		return nil, errors.Join(ErrConnectingDatabaseFailed, err)
	}

	c.configureSQLPool(db)

	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Join(ErrConnectingDatabaseFailed, err)
	}

	return db, nil
}

// NewSQLXDB opens and pings a sqlx handle backed by lib/pq.
func (c PostgresConfig) NewSQLXDB(ctx context.Context) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", c.DSN)
	if err != nil {
		return nil, errors.Join(ErrConnectingDatabaseFailed, err)
	}

	c.configureSQLPool(db.DB)

	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Join(ErrConnectingDatabaseFailed, err)
	}

	return db, nil
}

func (c PostgresConfig) configureSQLPool(db *sql.DB) {
	db.SetMaxOpenConns(c.MaxConns)
	db.SetMaxIdleConns(c.MinConns)
	db.SetConnMaxLifetime(c.MaxConnLifetime)
	db.SetConnMaxIdleTime(c.MaxConnIdleTime)
}

// NewEventStore connects with the configured adapter and returns the event store together with
// a function closing every connection it opened.
func (c Config) NewEventStore(ctx context.Context, options ...postgresengine.Option) (*postgresengine.EventStore, func(), error) {
	options = append([]postgresengine.Option{postgresengine.WithTableName(c.EventStore.Table)}, options...)

	switch c.Postgres.Adapter {
	case AdapterSQL:
		db, err := c.Postgres.NewSQLDB(ctx)
		if err != nil {
			return nil, nil, err
		}

		store, err := postgresengine.NewEventStoreFromSQLDB(db, options...)
		closeFn := func() { _ = db.Close() }

		return withCleanup(store, closeFn, err)

	case AdapterSQLX:
		db, err := c.Postgres.NewSQLXDB(ctx)
		if err != nil {
			return nil, nil, err
		}

		store, err := postgresengine.NewEventStoreFromSQLX(db, options...)
		closeFn := func() { _ = db.Close() }

		return withCleanup(store, closeFn, err)

	default:
		primary, err := c.Postgres.NewPGXPool(ctx, c.Postgres.DSN)
		if err != nil {
			return nil, nil, err
		}

		if c.Postgres.ReplicaDSN == "" {
			store, storeErr := postgresengine.NewEventStoreFromPGXPool(primary, options...)
			return withCleanup(store, primary.Close, storeErr)
		}

		replica, err := c.Postgres.NewPGXPool(ctx, c.Postgres.ReplicaDSN)
		if err != nil {
			primary.Close()
			return nil, nil, err
		}

		store, err := postgresengine.NewEventStoreFromPGXPoolAndReplica(primary, replica, options...)
		closeFn := func() {
			replica.Close()
			primary.Close()
		}

		return withCleanup(store, closeFn, err)
	}
}

func withCleanup(
	store *postgresengine.EventStore,
	closeFn func(),
	err error,
) (*postgresengine.EventStore, func(), error) {

	if err != nil {
		closeFn()
		return nil, nil, err
	}

	return store, closeFn, nil
}
