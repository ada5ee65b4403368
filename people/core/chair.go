package core

import (
	"time"

	"github.com/google/uuid"
)

// Chair is a named professorship. It is held by at most one professor at a time.
type Chair struct {
	EventSourced

	name        Title
	professorID uuid.UUID
	deleted     bool
}

// NewChair returns a blank Chair to replay stored events into.
func NewChair() *Chair {
	return &Chair{EventSourced: eventSourced(ChairAggregateType, ChairCreatedEventType)}
}

// CreateChair creates an unassigned chair by raising ChairCreated.
func CreateChair(id uuid.UUID, name Title, at time.Time) (*Chair, error) {
	if err := requireID("chair id", id); err != nil {
		return nil, err
	}

	if name.IsZero() {
		return nil, invalid("chair name", "", "must not be empty")
	}

	c := NewChair()
	if err := c.raise(ChairCreated{EventMeta: c.metaForCreation(id, at), Name: name}, c.when); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Chair) AggregateType() string {
	return ChairAggregateType
}

func (c *Chair) Apply(event DomainEvent) error {
	return c.replay(event, c.when)
}

// AssignToProfessor raises ChairAssignedToProfessor. A chair held by someone else must be released first.
// That the professor holds no other chair is checked by the caller with rules.ChairCardinality.
func (c *Chair) AssignToProfessor(professorID uuid.UUID, at time.Time) error {
	if err := c.guard(); err != nil {
		return err
	}

	if err := requireID("professor id", professorID); err != nil {
		return err
	}

	if professorID == c.professorID {
		return nil
	}

	if c.professorID != uuid.Nil {
		return Violation(RuleChairAssignment, "the chair is held by "+c.professorID.String())
	}

	return c.raise(ChairAssignedToProfessor{EventMeta: c.nextMeta(at), ProfessorID: professorID}, c.when)
}

// Release raises ChairReleased for the current holder.
func (c *Chair) Release(at time.Time) error {
	if err := c.guard(); err != nil {
		return err
	}

	if c.professorID == uuid.Nil {
		return Violation(RuleChairAssignment, "the chair is not assigned")
	}

	return c.raise(ChairReleased{EventMeta: c.nextMeta(at), ProfessorID: c.professorID}, c.when)
}

// Delete raises ChairDeleted. An assigned chair must be released first.
func (c *Chair) Delete(at time.Time) error {
	if err := c.guard(); err != nil {
		return err
	}

	if c.professorID != uuid.Nil {
		return Violation(RuleChairAssignment, "release the chair before deleting it")
	}

	return c.raise(ChairDeleted{EventMeta: c.nextMeta(at)}, c.when)
}

func (c *Chair) guard() error {
	return guardNotDeleted(ChairAggregateType, c.deleted)
}

func (c *Chair) when(event DomainEvent) error {
	switch e := event.(type) {
	case ChairCreated:
		c.name = e.Name
	case ChairAssignedToProfessor:
		c.professorID = e.ProfessorID
	case ChairReleased:
		c.professorID = uuid.Nil
	case ChairDeleted:
		c.deleted = true
	default:
		return unexpectedEvent(ChairAggregateType, event)
	}

	return nil
}

func (c *Chair) Name() Title {
	return c.name
}

// ProfessorID returns the holder of the chair, uuid.Nil while unassigned.
func (c *Chair) ProfessorID() uuid.UUID {
	return c.professorID
}

func (c *Chair) IsAssigned() bool {
	return c.professorID != uuid.Nil
}

func (c *Chair) IsDeleted() bool {
	return c.deleted
}
