// Package peoplefixtures builds persisted Zeus.People aggregates on an in-memory event store
// for command handler tests.
package peoplefixtures

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/johnmillerATcodemag-com/Zeus.People-sub005/eventstore/memoryengine"
	"github.com/johnmillerATcodemag-com/Zeus.People-sub005/people/core"
	"github.com/johnmillerATcodemag-com/Zeus.People-sub005/people/shell"
)

// FakeClock is the instant all fixtures are created at.
var FakeClock = time.Date(2024, 1, 10, 9, 30, 0, 0, time.UTC)

// At returns FakeClock shifted by the given number of minutes.
func At(minutes int) time.Time {
	return FakeClock.Add(time.Duration(minutes) * time.Minute)
}

// MustValue unwraps a value object factory result. Fixture input is always valid.
func MustValue[T any](value T, err error) T {
	if err != nil {
		panic(err)
	}

	return value
}

// Repositories bundles one repository per aggregate type over a shared store.
type Repositories struct {
	Store       *memoryengine.EventStore
	Academics   *shell.Repository[*core.Academic]
	Departments *shell.Repository[*core.Department]
	Rooms       *shell.Repository[*core.Room]
	Chairs      *shell.Repository[*core.Chair]
}

func NewRepositories(t *testing.T, options ...shell.RepositoryOption) Repositories {
	t.Helper()

	store := memoryengine.NewEventStore()

	academics, err := shell.NewRepository(store, core.NewAcademic, options...)
	require.NoError(t, err)

	departments, err := shell.NewRepository(store, core.NewDepartment, options...)
	require.NoError(t, err)

	rooms, err := shell.NewRepository(store, core.NewRoom, options...)
	require.NoError(t, err)

	chairs, err := shell.NewRepository(store, core.NewChair, options...)
	require.NoError(t, err)

	return Repositories{
		Store:       store,
		Academics:   academics,
		Departments: departments,
		Rooms:       rooms,
		Chairs:      chairs,
	}
}

// AcademicMutation is applied to a freshly registered academic before it is stored.
type AcademicMutation func(academic *core.Academic) error

// Teaching adds a subject.
func Teaching() AcademicMutation {
	return func(academic *core.Academic) error {
		return academic.AddSubject(uuid.New(), At(1))
	}
}

// InDepartment assigns the academic to the department.
func InDepartment(departmentID uuid.UUID) AcademicMutation {
	return func(academic *core.Academic) error {
		return academic.AssignToDepartment(departmentID, At(2))
	}
}

// Auditing records that the academic audits auditeeID.
func Auditing(auditeeID uuid.UUID) AcademicMutation {
	return func(academic *core.Academic) error {
		return academic.AddAuditee(auditeeID, At(3))
	}
}

// HoldingChair assigns the chair to the academic. Only the academic side is changed.
func HoldingChair(chairID uuid.UUID) AcademicMutation {
	return func(academic *core.Academic) error {
		return academic.AssignChair(chairID, At(4))
	}
}

func (r Repositories) GivenAcademic(t *testing.T, name string, rank core.Rank, mutations ...AcademicMutation) *core.Academic {
	t.Helper()

	academic, err := core.RegisterAcademic(
		uuid.New(),
		MustValue(core.NewEmpNr("E"+uuid.NewString()[:8])),
		MustValue(core.NewEmpName(name)),
		rank,
		FakeClock,
	)
	require.NoError(t, err)

	for _, mutate := range mutations {
		require.NoError(t, mutate(academic))
	}

	_, err = r.Academics.Add(context.Background(), academic)
	require.NoError(t, err)

	return academic
}

func (r Repositories) GivenDepartment(t *testing.T, name string) *core.Department {
	t.Helper()

	budget := MustValue(core.NewMoneyAmount("250000.00"))

	department, err := core.CreateDepartment(uuid.New(), MustValue(core.NewTitle(name)), budget, budget, FakeClock)
	require.NoError(t, err)

	_, err = r.Departments.Add(context.Background(), department)
	require.NoError(t, err)

	return department
}

func (r Repositories) GivenRoom(t *testing.T, roomNr string, bldgNr string) *core.Room {
	t.Helper()

	room, err := core.CreateRoom(uuid.New(), MustValue(core.NewRoomNr(roomNr)), MustValue(core.NewBldgNr(bldgNr)), FakeClock)
	require.NoError(t, err)

	_, err = r.Rooms.Add(context.Background(), room)
	require.NoError(t, err)

	return room
}

func (r Repositories) GivenChair(t *testing.T, name string) *core.Chair {
	t.Helper()

	chair, err := core.CreateChair(uuid.New(), MustValue(core.NewTitle(name)), FakeClock)
	require.NoError(t, err)

	_, err = r.Chairs.Add(context.Background(), chair)
	require.NoError(t, err)

	return chair
}

// Reload reads the current state of an academic.
func (r Repositories) Reload(t *testing.T, id uuid.UUID) *core.Academic {
	t.Helper()

	academic, err := r.Academics.Load(context.Background(), id)
	require.NoError(t, err)

	return academic
}
