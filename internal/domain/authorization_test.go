package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleOrdering(t *testing.T) {
	assert.True(t, RoleSystemAdmin.OutranksOrEquals(RolePropertySuperintendent))
	assert.True(t, RolePropertySuperintendent.OutranksOrEquals(RoleWorker))
	assert.True(t, RoleWorker.OutranksOrEquals(RoleTenant))
	assert.False(t, RoleTenant.OutranksOrEquals(RoleWorker))
	assert.True(t, RoleWorker.OutranksOrEquals(RoleWorker))
}

func TestParseRoleRoundTrip(t *testing.T) {
	for _, role := range []Role{RoleSystemAdmin, RolePropertySuperintendent, RoleWorker, RoleTenant} {
		parsed, err := ParseRole(role.String())
		require.NoError(t, err)
		assert.Equal(t, role, parsed)
	}
	_, err := ParseRole("Janitor")
	assert.Error(t, err)
}

func TestCanRolePerformTransition(t *testing.T) {
	cases := []struct {
		name    string
		role    Role
		from    RequestStatus
		to      RequestStatus
		allowed bool
	}{
		{"tenant submits draft", RoleTenant, RequestStatusDraft, RequestStatusSubmitted, true},
		{"worker cannot submit draft", RoleWorker, RequestStatusDraft, RequestStatusSubmitted, false},
		{"superintendent cannot submit draft", RolePropertySuperintendent, RequestStatusDraft, RequestStatusSubmitted, false},

		{"superintendent schedules", RolePropertySuperintendent, RequestStatusSubmitted, RequestStatusScheduled, true},
		{"admin schedules", RoleSystemAdmin, RequestStatusSubmitted, RequestStatusScheduled, true},
		{"tenant cannot schedule", RoleTenant, RequestStatusSubmitted, RequestStatusScheduled, false},
		{"worker cannot schedule", RoleWorker, RequestStatusSubmitted, RequestStatusScheduled, false},

		{"superintendent reschedules after failure", RolePropertySuperintendent, RequestStatusFailed, RequestStatusScheduled, true},
		{"worker cannot reschedule after failure", RoleWorker, RequestStatusFailed, RequestStatusScheduled, false},

		{"superintendent declines", RolePropertySuperintendent, RequestStatusSubmitted, RequestStatusDeclined, true},
		{"tenant cannot decline", RoleTenant, RequestStatusSubmitted, RequestStatusDeclined, false},

		{"worker completes", RoleWorker, RequestStatusScheduled, RequestStatusDone, true},
		{"worker reports issue", RoleWorker, RequestStatusScheduled, RequestStatusFailed, true},
		{"tenant cannot complete", RoleTenant, RequestStatusScheduled, RequestStatusDone, false},
		{"superintendent cannot complete", RolePropertySuperintendent, RequestStatusScheduled, RequestStatusDone, false},

		{"superintendent closes done", RolePropertySuperintendent, RequestStatusDone, RequestStatusClosed, true},
		{"superintendent closes declined", RolePropertySuperintendent, RequestStatusDeclined, RequestStatusClosed, true},
		{"worker cannot close", RoleWorker, RequestStatusDone, RequestStatusClosed, false},

		// Role privilege never bypasses the status graph.
		{"admin cannot reopen closed", RoleSystemAdmin, RequestStatusClosed, RequestStatusDone, false},
		{"admin cannot skip draft to scheduled", RoleSystemAdmin, RequestStatusDraft, RequestStatusScheduled, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.allowed, CanRolePerformTransition(tc.role, tc.from, tc.to))
		})
	}
}

func TestRoleCanPerform(t *testing.T) {
	assert.True(t, RoleCanPerform(RoleTenant, RequestStatusDraft, ActionEdit))
	assert.True(t, RoleCanPerform(RoleTenant, RequestStatusSubmitted, ActionCancel))
	assert.False(t, RoleCanPerform(RoleTenant, RequestStatusSubmitted, ActionEdit))
	assert.True(t, RoleCanPerform(RolePropertySuperintendent, RequestStatusSubmitted, ActionEdit))
	assert.True(t, RoleCanPerform(RoleSystemAdmin, RequestStatusScheduled, ActionReschedule))
	assert.False(t, RoleCanPerform(RoleWorker, RequestStatusSubmitted, ActionSchedule))
	assert.Empty(t, AllowedActions(RoleTenant, RequestStatusClosed))
}
