package postgresengine

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/johnmillerATcodemag-com/Zeus.People-sub005/eventstore"
)

func (es *EventStore) indexName(suffix string) string {
	return "IX_" + es.eventTableName + "_" + suffix
}

func (es *EventStore) eventIDIndexName() string {
	return es.indexName(colEventID)
}

// SchemaStatements returns the idempotent DDL for the events table and its indexes.
func (es *EventStore) SchemaStatements() []string {
	table := pgx.Identifier{es.eventTableName}.Sanitize()
	index := func(suffix string) string {
		return pgx.Identifier{es.indexName(suffix)}.Sanitize()
	}

	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	"Id" uuid PRIMARY KEY,
	"AggregateId" uuid NOT NULL,
	"AggregateType" varchar(%d) NOT NULL,
	"EventType" varchar(%d) NOT NULL,
	"EventData" text NOT NULL,
	"Version" integer NOT NULL,
	"Timestamp" timestamp with time zone NOT NULL,
	"EventId" uuid NOT NULL
)`, table, eventstore.MaxTypeNameLength, eventstore.MaxTypeNameLength),
		fmt.Sprintf(`CREATE UNIQUE INDEX IF NOT EXISTS %s ON %s ("AggregateId", "Version")`, index("AggregateId_Version"), table),
		fmt.Sprintf(`CREATE UNIQUE INDEX IF NOT EXISTS %s ON %s ("EventId")`, index("EventId"), table),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s ("AggregateId")`, index("AggregateId"), table),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s ("Timestamp")`, index("Timestamp"), table),
	}
}

// CreateSchema creates the events table and its indexes if they do not exist yet.
func (es *EventStore) CreateSchema(ctx context.Context) error {
	for _, statement := range es.SchemaStatements() {
		if _, err := es.db.Exec(ctx, statement); err != nil {
			es.logError(ctx, logMsgDBExecFailed, err, logAttrQuery, statement)
			return eventstore.StorageError(eventstore.ErrCreatingSchemaFailed, err)
		}
	}

	es.logOperation(ctx, operationCreateSchema+" "+logMsgSchemaCreated, logAttrTable, es.eventTableName)

	return nil
}
