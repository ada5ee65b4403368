package recordaudit

import (
	"time"

	"github.com/google/uuid"

	"github.com/johnmillerATcodemag-com/Zeus.People-sub005/people/core"
)

const (
	commandType = "RecordAudit"
)

// Command represents the intent to record that the auditor audits the auditee.
type Command struct {
	AuditorID  uuid.UUID
	AuditeeID  uuid.UUID
	OccurredAt core.OccurredAt
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(auditorID uuid.UUID, auditeeID uuid.UUID, occurredAt time.Time) Command {
	return Command{
		AuditorID:  auditorID,
		AuditeeID:  auditeeID,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
