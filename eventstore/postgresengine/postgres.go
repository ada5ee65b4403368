package postgresengine

import (
	"context"
	"database/sql"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/johnmillerATcodemag-com/Zeus.People-sub005/eventstore"
	"github.com/johnmillerATcodemag-com/Zeus.People-sub005/eventstore/postgresengine/internal/adapters"
)

const (
	defaultEventTableName = "Events"

	colID            = "Id"
	colAggregateID   = "AggregateId"
	colAggregateType = "AggregateType"
	colEventType     = "EventType"
	colEventData     = "EventData"
	colVersion       = "Version"
	colTimestamp     = "Timestamp"
	colEventID       = "EventId"

	cteContext      = "context"
	cteVals         = "vals"
	dialectPostgres = "postgres"
	aliasMaxVersion = "max_version"
	castUUID        = "?::uuid"
	castText        = "?::text"
	castInteger     = "?::integer"
	castTimestamp   = "?::timestamp with time zone"
	sqlRecordedAt   = "statement_timestamp()"
)

type (
	sqlQueryString    = string
	rowsAffectedInt64 = int64
)

// EventStore is the PostgreSQL implementation of the append-only, version-indexed event log.
//
// Each aggregate's events form one stream, ordered by Version. Appends are guarded by the
// expected version of that stream, checked inside the same INSERT statement that writes the events.
type EventStore struct {
	db               adapters.DBAdapter
	eventTableName   string
	logger           eventstore.Logger
	contextualLogger eventstore.ContextualLogger
	metricsCollector eventstore.MetricsCollector
	tracingCollector eventstore.TracingCollector
}

type queryResultRow struct {
	id            string
	aggregateID   string
	aggregateType string
	eventType     string
	eventData     []byte
	version       int
	timestamp     time.Time
	eventID       string
}

// NewEventStoreFromPGXPool creates a new EventStore using a pgx Pool with optional configuration.
func NewEventStoreFromPGXPool(db *pgxpool.Pool, options ...Option) (*EventStore, error) {
	if db == nil {
		return nil, eventstore.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewPGXAdapter(db), options...)
}

// NewEventStoreFromPGXPoolAndReplica creates a new EventStore that appends to the primary pool and
// serves reads from the replica pool when the context carries eventstore.WithEventualConsistency.
func NewEventStoreFromPGXPoolAndReplica(db *pgxpool.Pool, replica *pgxpool.Pool, options ...Option) (*EventStore, error) {
	if db == nil || replica == nil {
		return nil, eventstore.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewPGXAdapterWithReplica(db, replica), options...)
}

// NewEventStoreFromSQLDB creates a new EventStore using a sql.DB with optional configuration.
func NewEventStoreFromSQLDB(db *sql.DB, options ...Option) (*EventStore, error) {
	if db == nil {
		return nil, eventstore.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewSQLAdapter(db), options...)
}

// NewEventStoreFromSQLX creates a new EventStore using a sqlx.DB with optional configuration.
func NewEventStoreFromSQLX(db *sqlx.DB, options ...Option) (*EventStore, error) {
	if db == nil {
		return nil, eventstore.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewSQLXAdapter(db), options...)
}

func newEventStore(db adapters.DBAdapter, options ...Option) (*EventStore, error) {
	es := &EventStore{
		db:             db,
		eventTableName: defaultEventTableName,
	}

	for _, option := range options {
		if err := option(es); err != nil {
			return nil, err
		}
	}

	return es, nil
}

// TableName returns the name of the events table this store reads from and writes to.
func (es *EventStore) TableName() string {
	return es.eventTableName
}

// GetEvents returns all events of the aggregate ordered by version.
// An aggregate without events yields an empty stream, not an error.
func (es *EventStore) GetEvents(ctx context.Context, aggregateID uuid.UUID) (eventstore.StorableEvents, error) {
	selectStmt := es.selectEvents().
		Where(goqu.C(colAggregateID).Eq(goqu.L(castUUID, aggregateID.String()))).
		Order(goqu.C(colVersion).Asc())

	return es.query(ctx, operationGetEvents, selectStmt)
}

// GetEventsFromVersion returns the events of the aggregate with a version greater than fromVersionExclusive,
// ordered by version.
func (es *EventStore) GetEventsFromVersion(
	ctx context.Context,
	aggregateID uuid.UUID,
	fromVersionExclusive int,
) (eventstore.StorableEvents, error) {

	selectStmt := es.selectEvents().
		Where(
			goqu.C(colAggregateID).Eq(goqu.L(castUUID, aggregateID.String())),
			goqu.C(colVersion).Gt(fromVersionExclusive),
		).
		Order(goqu.C(colVersion).Asc())

	return es.query(ctx, operationGetEventsFromVersion, selectStmt)
}

// GetEventsFromTimestamp returns the events of all aggregates recorded at or after cutoff,
// ordered by timestamp. Events sharing a timestamp are ordered by aggregate id and version,
// so the order is stable between calls.
func (es *EventStore) GetEventsFromTimestamp(ctx context.Context, cutoff time.Time) (eventstore.StorableEvents, error) {
	return es.query(ctx, operationGetEventsFromTimestamp, es.selectFromTimestamp(cutoff))
}

// GetEventsFromTimestampLimited is GetEventsFromTimestamp returning at most limit events.
// A limit of zero or less means no limit.
func (es *EventStore) GetEventsFromTimestampLimited(
	ctx context.Context,
	cutoff time.Time,
	limit int,
) (eventstore.StorableEvents, error) {

	selectStmt := es.selectFromTimestamp(cutoff)
	if limit > 0 {
		selectStmt = selectStmt.Limit(uint(limit))
	}

	return es.query(ctx, operationGetEventsFromTimestamp, selectStmt)
}

func (es *EventStore) selectFromTimestamp(cutoff time.Time) *goqu.SelectDataset {
	return es.selectEvents().
		Where(goqu.C(colTimestamp).Gte(goqu.L(castTimestamp, cutoff.UTC()))).
		Order(goqu.C(colTimestamp).Asc(), goqu.C(colAggregateID).Asc(), goqu.C(colVersion).Asc())
}

// AppendEvents appends events to the aggregate's stream if its highest stored version equals expectedVersion.
//
// The events get the consecutive versions expectedVersion+1 .. expectedVersion+len(events).
// All events are written by a single INSERT ... SELECT statement which only yields rows if the version
// check holds, so either all events are written or none. The Timestamp column is taken from the
// database clock at the start of that statement, so all events of one append share it. If the check fails, or a concurrent writer
// wins the race for the unique (AggregateId, Version) index, eventstore.ErrConcurrencyConflict is returned.
func (es *EventStore) AppendEvents(
	ctx context.Context,
	aggregateID uuid.UUID,
	aggregateType string,
	expectedVersion int,
	events ...eventstore.StorableEvent,
) error {

	prepared, prepareErr := eventstore.PrepareForAppend(aggregateID, aggregateType, expectedVersion, events)
	if prepareErr != nil {
		es.logError(ctx, logMsgInvalidAppend, prepareErr, logAttrAggregateID, aggregateID.String())
		return prepareErr
	}

	tracer, ctx := es.startAppendTracing(ctx, aggregateType, prepared, expectedVersion)
	metrics := es.startAppendMetrics(ctx, aggregateType)

	sqlQuery, buildQueryErr := es.buildAppendQuery(prepared, aggregateID, expectedVersion)
	if buildQueryErr != nil {
		es.logError(ctx, logMsgBuildInsertQueryFailed, buildQueryErr, logAttrEventCount, len(prepared))
		tracer.finishError(errorTypeBuildQuery, 0)
		metrics.recordError(errorTypeBuildQuery, 0)

		return buildQueryErr
	}

	start := time.Now()
	result, execErr := es.db.Exec(ctx, sqlQuery)
	duration := time.Since(start)
	es.logQueryWithDuration(ctx, sqlQuery, operationAppend, duration)

	if execErr != nil {
		if constraint, isUniqueViolation := adapters.UniqueViolation(execErr); isUniqueViolation {
			if constraint == es.eventIDIndexName() {
				es.logError(ctx, logMsgDBExecFailed, execErr, logAttrAggregateID, aggregateID.String())
				tracer.finishError(errorTypeDuplicateEventID, duration)
				metrics.recordError(errorTypeDuplicateEventID, duration)

				return eventstore.StorageError(eventstore.ErrAppendingEventFailed, eventstore.ErrDuplicateEventID, execErr)
			}

			// a concurrent writer committed the same version between our version check and our insert
			return es.concurrencyConflict(ctx, tracer, metrics, aggregateID, expectedVersion, len(prepared), 0)
		}

		es.logError(ctx, logMsgDBExecFailed, execErr, logAttrQuery, sqlQuery)
		tracer.finishError(errorTypeDatabaseExec, duration)
		metrics.recordError(errorTypeDatabaseExec, duration)

		return eventstore.StorageError(eventstore.ErrAppendingEventFailed, execErr)
	}

	rowsAffected, rowsAffectedErr := result.RowsAffected()
	if rowsAffectedErr != nil {
		es.logError(ctx, logMsgRowsAffectedFailed, rowsAffectedErr)
		tracer.finishError(errorTypeRowsAffected, duration)
		metrics.recordError(errorTypeRowsAffected, duration)

		return eventstore.StorageError(eventstore.ErrGettingRowsAffectedFailed, rowsAffectedErr)
	}

	if rowsAffected < int64(len(prepared)) {
		return es.concurrencyConflict(ctx, tracer, metrics, aggregateID, expectedVersion, len(prepared), rowsAffected)
	}

	es.logOperation(
		ctx,
		logMsgEventsAppended,
		logAttrAggregateID, aggregateID.String(),
		logAttrEventCount, len(prepared),
		logAttrVersion, eventstore.StreamVersion(prepared),
		logAttrDurationMS, toMilliseconds(duration),
	)
	tracer.finishSuccess(rowsAffected, duration)
	metrics.recordSuccess(len(prepared), duration)

	return nil
}

func (es *EventStore) concurrencyConflict(
	ctx context.Context,
	tracer *appendTracingObserver,
	metrics *appendMetricsObserver,
	aggregateID uuid.UUID,
	expectedVersion int,
	expectedEvents int,
	rowsAffected rowsAffectedInt64,
) error {

	es.logOperation(
		ctx,
		logMsgConcurrencyConflict,
		logAttrAggregateID, aggregateID.String(),
		logAttrExpectedEvents, expectedEvents,
		logAttrRowsAffected, rowsAffected,
		logAttrExpectedVersion, expectedVersion,
	)
	tracer.finishError(errorTypeConcurrencyConflict, 0)
	metrics.recordConcurrencyConflict()

	return eventstore.ErrConcurrencyConflict
}

func (es *EventStore) query(
	ctx context.Context,
	operation string,
	selectStmt *goqu.SelectDataset,
) (eventstore.StorableEvents, error) {

	tracer, ctx := es.startQueryTracing(ctx, operation)
	metrics := es.startQueryMetrics(ctx, operation)

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		es.logError(ctx, logMsgBuildSelectQueryFailed, toSQLErr)
		tracer.finishError(errorTypeBuildQuery, 0)
		metrics.recordError(errorTypeBuildQuery, 0)

		return nil, eventstore.StorageError(eventstore.ErrBuildingQueryFailed, toSQLErr)
	}

	start := time.Now()
	rows, queryErr := es.db.Query(ctx, sqlQuery)
	if queryErr != nil {
		duration := time.Since(start)
		es.logQueryWithDuration(ctx, sqlQuery, operation, duration)
		es.logError(ctx, logMsgDBQueryFailed, queryErr, logAttrQuery, sqlQuery)
		tracer.finishError(errorTypeDatabaseQuery, duration)
		metrics.recordError(errorTypeDatabaseQuery, duration)

		return nil, eventstore.StorageError(eventstore.ErrQueryingEventsFailed, queryErr)
	}
	defer es.closeRows(ctx, rows)

	stream, scanErr := es.processQueryResults(ctx, rows)
	duration := time.Since(start)
	es.logQueryWithDuration(ctx, sqlQuery, operation, duration)

	if scanErr != nil {
		tracer.finishError(errorTypeRowScan, duration)
		metrics.recordError(errorTypeRowScan, duration)

		return nil, scanErr
	}

	es.logOperation(
		ctx,
		logMsgQueryCompleted,
		logAttrOperation, operation,
		logAttrEventCount, len(stream),
		logAttrDurationMS, toMilliseconds(duration),
	)
	tracer.finishSuccess(stream, duration)
	metrics.recordSuccess(stream, duration)

	return stream, nil
}

// processQueryResults converts database rows to eventstore.StorableEvents.
func (es *EventStore) processQueryResults(ctx context.Context, rows adapters.DBRows) (eventstore.StorableEvents, error) {
	stream := make(eventstore.StorableEvents, 0)
	row := queryResultRow{}

	for rows.Next() {
		scanErr := rows.Scan(
			&row.id,
			&row.aggregateID,
			&row.aggregateType,
			&row.eventType,
			&row.eventData,
			&row.version,
			&row.timestamp,
			&row.eventID,
		)
		if scanErr != nil {
			es.logError(ctx, logMsgScanRowFailed, scanErr)
			return nil, eventstore.StorageError(eventstore.ErrScanningDBRowFailed, scanErr)
		}

		event, convertErr := row.toStorableEvent()
		if convertErr != nil {
			es.logError(ctx, logMsgBuildStorableEventFailed, convertErr, logAttrEventType, row.eventType)
			return nil, eventstore.StorageError(eventstore.ErrScanningDBRowFailed, convertErr)
		}

		stream = append(stream, event)
	}

	if iterErr := rows.Err(); iterErr != nil {
		es.logError(ctx, logMsgDBQueryFailed, iterErr)
		return nil, eventstore.StorageError(eventstore.ErrQueryingEventsFailed, iterErr)
	}

	return stream, nil
}

func (row queryResultRow) toStorableEvent() (eventstore.StorableEvent, error) {
	ids := make([]uuid.UUID, 3)

	for i, raw := range []string{row.id, row.aggregateID, row.eventID} {
		id, err := uuid.Parse(raw)
		if err != nil {
			return eventstore.StorableEvent{}, err
		}
		ids[i] = id
	}

	// the driver reuses the scan buffer for the next row
	data := make([]byte, len(row.eventData))
	copy(data, row.eventData)

	return eventstore.StorableEvent{
		ID:            ids[0],
		AggregateID:   ids[1],
		AggregateType: row.aggregateType,
		EventType:     row.eventType,
		EventData:     data,
		Version:       row.version,
		Timestamp:     row.timestamp.UTC(),
		EventID:       ids[2],
	}, nil
}

// closeRows safely closes database rows and logs any errors.
func (es *EventStore) closeRows(ctx context.Context, rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		es.logWarn(ctx, logMsgCloseRowsFailed, logAttrError, closeErr.Error())
	}
}

func (es *EventStore) selectEvents() *goqu.SelectDataset {
	return goqu.Dialect(dialectPostgres).
		From(goqu.T(es.eventTableName)).
		Select(
			goqu.Cast(goqu.C(colID), "TEXT"),
			goqu.Cast(goqu.C(colAggregateID), "TEXT"),
			goqu.C(colAggregateType),
			goqu.C(colEventType),
			goqu.C(colEventData),
			goqu.C(colVersion),
			goqu.C(colTimestamp),
			goqu.Cast(goqu.C(colEventID), "TEXT"),
		)
}

// buildAppendQuery builds one INSERT ... SELECT for all events, which only yields rows
// if the stream's current version equals expectedVersion:
//
//	WITH context AS (SELECT MAX("Version") AS max_version FROM "Events" WHERE "AggregateId" = ...),
//	     vals AS (SELECT ... UNION ALL SELECT ...)
//	INSERT INTO "Events" (...) SELECT vals.* FROM context, vals WHERE COALESCE(max_version, 0) = expectedVersion
func (es *EventStore) buildAppendQuery(
	events eventstore.StorableEvents,
	aggregateID uuid.UUID,
	expectedVersion int,
) (sqlQueryString, error) {

	builder := goqu.Dialect(dialectPostgres)

	cteStmt := builder.
		From(goqu.T(es.eventTableName)).
		Select(goqu.MAX(colVersion).As(aliasMaxVersion)).
		Where(goqu.C(colAggregateID).Eq(goqu.L(castUUID, aggregateID.String())))

	valuesStmt := es.buildValueSelect(builder, events[0])
	for _, event := range events[1:] {
		valuesStmt = valuesStmt.UnionAll(es.buildValueSelect(builder, event))
	}

	columns := []any{colID, colAggregateID, colAggregateType, colEventType, colEventData, colVersion, colTimestamp, colEventID}
	valsColumns := make([]any, len(columns))
	for i, col := range columns {
		valsColumns[i] = goqu.I(cteVals + "." + col.(string))
	}

	insertStmt := builder.
		Insert(goqu.T(es.eventTableName)).
		Cols(columns...).
		With(cteContext, cteStmt).
		With(cteVals, valuesStmt).
		FromQuery(
			builder.From(cteContext, cteVals).
				Select(valsColumns...).
				Where(goqu.COALESCE(goqu.C(aliasMaxVersion), 0).Eq(goqu.V(expectedVersion))),
		)

	sqlQuery, _, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		return "", eventstore.StorageError(eventstore.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func (es *EventStore) buildValueSelect(builder goqu.DialectWrapper, event eventstore.StorableEvent) *goqu.SelectDataset {
	return builder.Select(
		goqu.L(castUUID, event.ID.String()).As(colID),
		goqu.L(castUUID, event.AggregateID.String()).As(colAggregateID),
		goqu.L(castText, event.AggregateType).As(colAggregateType),
		goqu.L(castText, event.EventType).As(colEventType),
		goqu.L(castText, string(event.EventData)).As(colEventData),
		goqu.L(castInteger, event.Version).As(colVersion),
		goqu.L(sqlRecordedAt).As(colTimestamp),
		goqu.L(castUUID, event.EventID.String()).As(colEventID),
	)
}
