package permissions

// Role is a project member's role. RoleMember is a legacy value that may
// still exist on old membership rows; it is accepted when read but is
// never offered by the role-assignment endpoints.
type Role string

const (
	RoleAdmin     Role = "Admin"
	RoleManager   Role = "Manager"
	RoleDeveloper Role = "Developer"
	RoleViewer    Role = "Viewer"
	RoleMember    Role = "Member" // legacy
)

type Action string

const (
	ManageProject Action = "manage_project" // delete, update project settings
	ManageMembers Action = "manage_members" // add/remove members, change roles
	ManageTickets Action = "manage_tickets" // create/delete tickets
	UpdateTickets Action = "update_tickets" // move columns, edit details
	Comment       Action = "comment"
	Read          Action = "read"
)

var rolePermissions = map[Role][]Action{
	RoleAdmin: {
		ManageProject,
		ManageMembers,
		ManageTickets,
		UpdateTickets,
		Comment,
		Read,
	},
	RoleManager: {
		ManageMembers,
		ManageTickets,
		UpdateTickets,
		Comment,
		Read,
	},
	RoleDeveloper: {
		UpdateTickets,
		Comment,
		Read,
	},
	RoleViewer: {
		Read,
	},
	RoleMember: {
		Read,
	},
}

// Allowed reports whether the role grants the action. Unknown roles
// grant nothing.
func Allowed(role Role, action Action) bool {
	for _, a := range rolePermissions[role] {
		if a == action {
			return true
		}
	}
	return false
}

// AssignableRoles are the roles the member-management endpoints accept.
var AssignableRoles = []Role{RoleAdmin, RoleManager, RoleDeveloper, RoleViewer}

func Assignable(role Role) bool {
	for _, r := range AssignableRoles {
		if r == role {
			return true
		}
	}
	return false
}

// ActorRole is a caller's resolved authorization identity for one
// project, computed once per request: project owner, member with a
// role, or neither.
type ActorRole struct {
	IsOwner  bool
	IsMember bool
	Role     Role
}

// Allows applies the role table. The owner is allowed every action
// unconditionally; a non-member is denied everything, including Read.
func (a ActorRole) Allows(action Action) bool {
	if a.IsOwner {
		return true
	}
	if !a.IsMember {
		return false
	}
	return Allowed(a.Role, action)
}
