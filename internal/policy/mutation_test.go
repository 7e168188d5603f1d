package policy

import "testing"

func TestCheckRoleChange(t *testing.T) {
	admin := Actor{ID: "1", Role: RoleAdmin}
	employee := Actor{ID: "7", Role: RoleUser}

	tests := []struct {
		name       string
		actor      Actor
		targetRole Role
		requested  Role
		wantCode   Code
	}{
		{name: "admin promotes to hr", actor: admin, targetRole: RoleUser, requested: RoleHR},
		{name: "admin demotes", actor: admin, targetRole: RoleHR, requested: RoleUser},
		{name: "superadmin target locked", actor: admin, targetRole: RoleSuperadmin, requested: RoleUser, wantCode: CodeForbidden},
		{name: "superadmin role not grantable", actor: admin, targetRole: RoleUser, requested: RoleSuperadmin, wantCode: CodeForbidden},
		{name: "employee cannot change roles", actor: employee, targetRole: RoleUser, requested: RoleHR, wantCode: CodeForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckRoleChange(tt.actor, tt.targetRole, tt.requested)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if CodeOf(err) != tt.wantCode {
				t.Errorf("code = %q, want %q", CodeOf(err), tt.wantCode)
			}
		})
	}
}

// The superadmin guard runs before the privilege check so an unprivileged
// caller learns nothing extra from probing the superadmin account.
func TestCheckRoleChangeSuperadminGuardFirst(t *testing.T) {
	admin := CheckRoleChange(Actor{ID: "1", Role: RoleAdmin}, RoleSuperadmin, RoleUser)
	employee := CheckRoleChange(Actor{ID: "7", Role: RoleUser}, RoleSuperadmin, RoleUser)
	if admin == nil || employee == nil {
		t.Fatal("expected denials for superadmin target")
	}
	if admin.Error() != employee.Error() {
		t.Errorf("denials differ by actor: %q vs %q", admin.Error(), employee.Error())
	}
}

func TestCheckActiveChange(t *testing.T) {
	tests := []struct {
		name       string
		actor      Actor
		targetRole Role
		wantCode   Code
	}{
		{name: "hr deactivates user", actor: Actor{ID: "1", Role: RoleHR}, targetRole: RoleUser},
		{name: "admin deactivates finance", actor: Actor{ID: "1", Role: RoleAdmin}, targetRole: RoleFinance},
		{name: "superadmin locked", actor: Actor{ID: "1", Role: RoleAdmin}, targetRole: RoleSuperadmin, wantCode: CodeForbidden},
		{name: "employee blocked", actor: Actor{ID: "7", Role: RoleUser}, targetRole: RoleUser, wantCode: CodeForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckActiveChange(tt.actor, tt.targetRole)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if CodeOf(err) != tt.wantCode {
				t.Errorf("code = %q, want %q", CodeOf(err), tt.wantCode)
			}
		})
	}
}

func TestCanReassign(t *testing.T) {
	if CanReassign(Actor{ID: "7", Role: RoleUser}) {
		t.Error("regular user must not reassign")
	}
	if !CanReassign(Actor{ID: "1", Role: RoleHR}) {
		t.Error("hr should reassign")
	}
	if !CanReassign(Actor{ID: "2", Role: RoleSuperadmin}) {
		t.Error("superadmin should reassign")
	}
}
