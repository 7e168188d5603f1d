package policy

import "testing"

func TestParseRole(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Role
		wantErr bool
	}{
		{name: "user", raw: "user", want: RoleUser},
		{name: "hr", raw: "hr", want: RoleHR},
		{name: "admin", raw: "admin", want: RoleAdmin},
		{name: "finance", raw: "finance", want: RoleFinance},
		{name: "tech support", raw: "tech_support", want: RoleTechSupport},
		{name: "superadmin", raw: "superadmin", want: RoleSuperadmin},
		{name: "unknown", raw: "manager", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
		{name: "case sensitive", raw: "Admin", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRole(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseRole(%q) expected error, got %q", tt.raw, got)
				}
				if CodeOf(err) != CodeValidationFailed {
					t.Errorf("ParseRole(%q) code = %q, want %q", tt.raw, CodeOf(err), CodeValidationFailed)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRole(%q) unexpected error: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("ParseRole(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestRolePrivileged(t *testing.T) {
	privileged := map[Role]bool{
		RoleUser:        false,
		RoleHR:          true,
		RoleAdmin:       true,
		RoleFinance:     false,
		RoleTechSupport: false,
		RoleSuperadmin:  true,
	}
	for role, want := range privileged {
		if got := role.Privileged(); got != want {
			t.Errorf("%s.Privileged() = %v, want %v", role, got, want)
		}
	}
}

func TestRoleAssignable(t *testing.T) {
	if RoleSuperadmin.Assignable() {
		t.Error("superadmin must not be assignable")
	}
	for _, role := range AssignableRoles {
		if !role.Assignable() {
			t.Errorf("%s should be assignable", role)
		}
	}
}
