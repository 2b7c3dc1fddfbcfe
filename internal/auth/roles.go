package auth

// Staff role constants.
const (
	RoleWaiter  = "waiter"
	RoleManager = "manager"
)

// AllStaffRoles returns all valid staff roles.
func AllStaffRoles() []string {
	return []string{RoleWaiter, RoleManager}
}

// ManageRoles returns roles that can enter results and drive the bracket.
func ManageRoles() []string {
	return []string{RoleManager}
}
