package core

import (
	"time"

	"github.com/google/uuid"
)

// Department groups academics and owns the research and teaching budgets.
type Department struct {
	EventSourced

	name           Title
	researchBudget MoneyAmount
	teachingBudget MoneyAmount
	headID         uuid.UUID
	deleted        bool
}

// NewDepartment returns a blank Department to replay stored events into.
func NewDepartment() *Department {
	return &Department{EventSourced: eventSourced(DepartmentAggregateType, DepartmentCreatedEventType)}
}

// CreateDepartment creates a department by raising DepartmentCreated.
func CreateDepartment(
	id uuid.UUID,
	name Title,
	researchBudget MoneyAmount,
	teachingBudget MoneyAmount,
	at time.Time,
) (*Department, error) {

	if err := requireID("department id", id); err != nil {
		return nil, err
	}

	if name.IsZero() {
		return nil, invalid("department name", "", "must not be empty")
	}

	d := NewDepartment()
	event := DepartmentCreated{
		EventMeta:      d.metaForCreation(id, at),
		Name:           name,
		ResearchBudget: researchBudget,
		TeachingBudget: teachingBudget,
	}

	if err := d.raise(event, d.when); err != nil {
		return nil, err
	}

	return d, nil
}

func (d *Department) AggregateType() string {
	return DepartmentAggregateType
}

// Apply folds one stored event into the department without checking business rules.
func (d *Department) Apply(event DomainEvent) error {
	return d.replay(event, d.when)
}

// AssignHead raises DepartmentHeadAssigned.
// Eligibility of the head is checked by the caller with rules.DepartmentHeadEligible.
func (d *Department) AssignHead(headID uuid.UUID, at time.Time) error {
	if err := d.guard(); err != nil {
		return err
	}

	if err := requireID("head id", headID); err != nil {
		return err
	}

	if headID == d.headID {
		return nil
	}

	return d.raise(DepartmentHeadAssigned{EventMeta: d.nextMeta(at), HeadID: headID}, d.when)
}

func (d *Department) ChangeBudgets(researchBudget MoneyAmount, teachingBudget MoneyAmount, at time.Time) error {
	if err := d.guard(); err != nil {
		return err
	}

	if researchBudget == d.researchBudget && teachingBudget == d.teachingBudget {
		return nil
	}

	event := DepartmentBudgetsChanged{
		EventMeta:      d.nextMeta(at),
		ResearchBudget: researchBudget,
		TeachingBudget: teachingBudget,
	}

	return d.raise(event, d.when)
}

func (d *Department) Delete(at time.Time) error {
	if err := d.guard(); err != nil {
		return err
	}

	return d.raise(DepartmentDeleted{EventMeta: d.nextMeta(at)}, d.when)
}

func (d *Department) guard() error {
	return guardNotDeleted(DepartmentAggregateType, d.deleted)
}

func (d *Department) when(event DomainEvent) error {
	switch e := event.(type) {
	case DepartmentCreated:
		d.name, d.researchBudget, d.teachingBudget = e.Name, e.ResearchBudget, e.TeachingBudget
	case DepartmentHeadAssigned:
		d.headID = e.HeadID
	case DepartmentBudgetsChanged:
		d.researchBudget, d.teachingBudget = e.ResearchBudget, e.TeachingBudget
	case DepartmentDeleted:
		d.deleted = true
	default:
		return unexpectedEvent(DepartmentAggregateType, event)
	}

	return nil
}

func (d *Department) Name() Title {
	return d.name
}

func (d *Department) ResearchBudget() MoneyAmount {
	return d.researchBudget
}

func (d *Department) TeachingBudget() MoneyAmount {
	return d.teachingBudget
}

// HeadID returns the head of the department, uuid.Nil if none was assigned.
func (d *Department) HeadID() uuid.UUID {
	return d.headID
}

func (d *Department) IsDeleted() bool {
	return d.deleted
}
