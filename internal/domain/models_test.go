package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTaskStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to TaskStatus
		ok       bool
	}{
		{TaskAssigned, TaskInProgress, true},
		{TaskAssigned, TaskCancelled, true},
		{TaskAssigned, TaskCompleted, false}, // no skipping
		{TaskInProgress, TaskCompleted, true},
		{TaskInProgress, TaskCancelled, true},
		{TaskInProgress, TaskAssigned, false}, // no going back
		{TaskCompleted, TaskCancelled, false},
		{TaskCompleted, TaskInProgress, false},
		{TaskCancelled, TaskAssigned, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.ok, c.from.CanTransition(c.to), "%s -> %s", c.from, c.to)
	}
}

func TestTaskStatusTerminal(t *testing.T) {
	assert.False(t, TaskAssigned.Terminal())
	assert.False(t, TaskInProgress.Terminal())
	assert.True(t, TaskCompleted.Terminal())
	assert.True(t, TaskCancelled.Terminal())
}

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole(RoleAccountant))
	assert.True(t, ValidRole(RoleCustomer))
	assert.False(t, ValidRole(UserRole("admin")))
	assert.False(t, ValidRole(UserRole("")))
}
