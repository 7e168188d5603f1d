package policy

// Role is the closed set of account roles. Anything outside this set is
// rejected at the parse boundary so the rest of the code can switch on it
// without a default arm.
type Role string

const (
	RoleUser        Role = "user"
	RoleHR          Role = "hr"
	RoleAdmin       Role = "admin"
	RoleFinance     Role = "finance"
	RoleTechSupport Role = "tech_support"
	RoleSuperadmin  Role = "superadmin"
)

// AssignableRoles are the roles an admin can hand out. The superadmin role is
// seeded once and never assigned through the API.
var AssignableRoles = []Role{RoleUser, RoleHR, RoleAdmin, RoleFinance, RoleTechSupport}

// ParseRole validates a raw role string against the closed set.
func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case RoleUser, RoleHR, RoleAdmin, RoleFinance, RoleTechSupport, RoleSuperadmin:
		return Role(raw), nil
	}
	return "", ValidationFailed("unknown role: " + raw)
}

// Assignable reports whether the role can be granted through the API.
func (r Role) Assignable() bool {
	for _, a := range AssignableRoles {
		if r == a {
			return true
		}
	}
	return false
}

// Privileged reports whether the role sees and manages records across the
// whole team rather than only its own.
func (r Role) Privileged() bool {
	return r == RoleHR || r == RoleAdmin || r == RoleSuperadmin
}

// Actor is the identity every policy decision runs against.
type Actor struct {
	ID   string
	Role Role
}

func (a Actor) Privileged() bool {
	return a.Role.Privileged()
}
