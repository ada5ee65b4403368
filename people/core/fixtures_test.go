package core_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/johnmillerATcodemag-com/Zeus.People-sub005/people/core"
)

var registeredAt = time.Date(2024, 1, 10, 9, 30, 0, 0, time.UTC)

func givenAcademic(t *testing.T, name string, rank core.Rank) *core.Academic {
	t.Helper()

	empName, err := core.NewEmpName(name)
	require.NoError(t, err)

	empNr, err := core.NewEmpNr("E" + uuid.NewString()[:8])
	require.NoError(t, err)

	academic, err := core.RegisterAcademic(uuid.New(), empNr, empName, rank, registeredAt)
	require.NoError(t, err)

	return academic
}

func givenTeacher(t *testing.T, name string, rank core.Rank) *core.Academic {
	t.Helper()

	academic := givenAcademic(t, name, rank)
	require.NoError(t, academic.AddSubject(uuid.New(), registeredAt.Add(time.Hour)))

	return academic
}

func givenDepartment(t *testing.T, name string) *core.Department {
	t.Helper()

	title, err := core.NewTitle(name)
	require.NoError(t, err)

	budget, err := core.NewMoneyAmount("100000")
	require.NoError(t, err)

	department, err := core.CreateDepartment(uuid.New(), title, budget, budget, registeredAt)
	require.NoError(t, err)

	return department
}

func givenChair(t *testing.T, name string) *core.Chair {
	t.Helper()

	title, err := core.NewTitle(name)
	require.NoError(t, err)

	chair, err := core.CreateChair(uuid.New(), title, registeredAt)
	require.NoError(t, err)

	return chair
}

func later(n int) time.Time {
	return registeredAt.Add(time.Duration(n) * time.Minute)
}

func givenRoom(t *testing.T) *core.Room {
	t.Helper()

	roomNr, err := core.NewRoomNr("101")
	require.NoError(t, err)

	bldgNr, err := core.NewBldgNr("B1")
	require.NoError(t, err)

	room, err := core.CreateRoom(uuid.New(), roomNr, bldgNr, registeredAt)
	require.NoError(t, err)

	return room
}
