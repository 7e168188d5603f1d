package policy

import "strings"

// CanReassign reports whether the actor may move a record to another owner.
func CanReassign(actor Actor) bool {
	return actor.Privileged()
}

// CheckRoleChange gates a role edit. The superadmin checks run first so the
// answer for a superadmin target is the same no matter who asks.
func CheckRoleChange(actor Actor, targetRole, requested Role) error {
	if targetRole == RoleSuperadmin {
		return Forbidden("the superadmin account cannot be modified")
	}
	if requested == RoleSuperadmin {
		return Forbidden("the superadmin role cannot be assigned")
	}
	if !actor.Privileged() {
		return Forbidden("you do not have permission to change roles")
	}
	if !requested.Assignable() {
		return ValidationFailed("role is not assignable")
	}
	return nil
}

// CheckActiveChange gates activating or deactivating an account.
func CheckActiveChange(actor Actor, targetRole Role) error {
	if targetRole == RoleSuperadmin {
		return Forbidden("the superadmin account cannot be deactivated")
	}
	if !actor.Privileged() {
		return Forbidden("you do not have permission to change account status")
	}
	return nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
