package permissions

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var allActions = []Action{ManageProject, ManageMembers, ManageTickets, UpdateTickets, Comment, Read}

func TestRoleActionTable(t *testing.T) {
	expected := map[Role]map[Action]bool{
		RoleAdmin: {
			ManageProject: true,
			ManageMembers: true,
			ManageTickets: true,
			UpdateTickets: true,
			Comment:       true,
			Read:          true,
		},
		RoleManager: {
			ManageProject: false,
			ManageMembers: true,
			ManageTickets: true,
			UpdateTickets: true,
			Comment:       true,
			Read:          true,
		},
		RoleDeveloper: {
			ManageProject: false,
			ManageMembers: false,
			ManageTickets: false,
			UpdateTickets: true,
			Comment:       true,
			Read:          true,
		},
		RoleViewer: {
			ManageProject: false,
			ManageMembers: false,
			ManageTickets: false,
			UpdateTickets: false,
			Comment:       false,
			Read:          true,
		},
	}

	for role, actions := range expected {
		for action, want := range actions {
			assert.Equal(t, want, Allowed(role, action), "role %s action %s", role, action)
		}
	}
}

func TestLegacyMemberRoleIsReadOnly(t *testing.T) {
	assert.True(t, Allowed(RoleMember, Read))

	for _, action := range allActions {
		if action == Read {
			continue
		}
		assert.False(t, Allowed(RoleMember, action), "legacy Member must be denied %s", action)
	}
}

func TestUnknownRoleGrantsNothing(t *testing.T) {
	for _, action := range allActions {
		assert.False(t, Allowed(Role("Intern"), action))
	}
}

func TestOwnerAllowsEverything(t *testing.T) {
	owner := ActorRole{IsOwner: true}

	for _, action := range allActions {
		assert.True(t, owner.Allows(action), "owner must be allowed %s", action)
	}
}

func TestNonMemberDeniedEverything(t *testing.T) {
	nonMember := ActorRole{}

	for _, action := range allActions {
		assert.False(t, nonMember.Allows(action), "non-member must be denied %s", action)
	}
}

func TestMemberDelegatesToRoleTable(t *testing.T) {
	viewer := ActorRole{IsMember: true, Role: RoleViewer}

	assert.True(t, viewer.Allows(Read))
	assert.False(t, viewer.Allows(UpdateTickets))
	assert.False(t, viewer.Allows(ManageTickets))
	assert.False(t, viewer.Allows(ManageMembers))
	assert.False(t, viewer.Allows(ManageProject))
	assert.False(t, viewer.Allows(Comment))

	developer := ActorRole{IsMember: true, Role: RoleDeveloper}

	assert.True(t, developer.Allows(UpdateTickets))
	assert.False(t, developer.Allows(ManageTickets))
}

func TestAssignable(t *testing.T) {
	for _, role := range []Role{RoleAdmin, RoleManager, RoleDeveloper, RoleViewer} {
		assert.True(t, Assignable(role))
	}

	assert.False(t, Assignable(RoleMember), "legacy Member is accepted on read but never assignable")
	assert.False(t, Assignable(Role("Owner")), "Owner is a marker, not a role")
}
