package user

import (
	"context"
	"testing"

	"team-crm/internal/common/models"
	"team-crm/internal/features/audit"
	"team-crm/internal/policy"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type fakeUserRepo struct {
	byID map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: make(map[string]*models.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	cp := *user
	r.byID[user.ID.Hex()] = &cp
	return nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range r.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, u := range r.byID {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeUserRepo) FindByRole(ctx context.Context, role string) (*models.User, error) {
	for _, u := range r.byID {
		if string(u.Role) == role {
			cp := *u
			return &cp, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeUserRepo) List(ctx context.Context) ([]models.User, error) {
	var out []models.User
	for _, u := range r.byID {
		out = append(out, *u)
	}
	return out, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, id string, user *models.User) error {
	cp := *user
	r.byID[id] = &cp
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id string) error {
	delete(r.byID, id)
	return nil
}

func (r *fakeUserRepo) CountByRole(ctx context.Context, role string) (int64, error) {
	var n int64
	for _, u := range r.byID {
		if string(u.Role) == role {
			n++
		}
	}
	return n, nil
}

type fakeAudit struct{}

func (fakeAudit) LogChange(ctx context.Context, actor policy.Actor, action, entityType, entityID string, changes map[string]models.Change) error {
	return nil
}

func (fakeAudit) History(ctx context.Context, entityType, entityID string, limit int64) ([]audit.AuditLog, error) {
	return nil, nil
}

func addUser(repo *fakeUserRepo, role policy.Role) *models.User {
	u := &models.User{
		ID:       primitive.NewObjectID(),
		Username: "u-" + primitive.NewObjectID().Hex()[:8],
		Email:    primitive.NewObjectID().Hex() + "@example.com",
		Role:     role,
		Active:   true,
	}
	repo.byID[u.ID.Hex()] = u
	return u
}

func newUserService(repo *fakeUserRepo) *UserServiceImpl {
	return &UserServiceImpl{UserRepo: repo, AuditService: fakeAudit{}}
}

func TestCreateUser(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newUserService(repo)
	hr := policy.Actor{ID: primitive.NewObjectID().Hex(), Role: policy.RoleHR}

	u, err := svc.CreateUser(context.Background(), hr, CreateUserInput{
		Username:  "jdoe",
		Email:     "jdoe@example.com",
		Password:  "secret123",
		Password2: "secret123",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Role != policy.RoleUser {
		t.Errorf("role = %q, want default user", u.Role)
	}
	if !u.Active {
		t.Error("new account should be active")
	}
	if u.Password == "secret123" {
		t.Error("password stored in plain text")
	}
}

func TestCreateUserGuards(t *testing.T) {
	repo := newFakeUserRepo()
	existing := addUser(repo, policy.RoleUser)
	svc := newUserService(repo)
	hr := policy.Actor{ID: primitive.NewObjectID().Hex(), Role: policy.RoleHR}

	tests := []struct {
		name     string
		actor    policy.Actor
		input    CreateUserInput
		wantCode policy.Code
	}{
		{
			name:     "regular user cannot create",
			actor:    policy.Actor{ID: primitive.NewObjectID().Hex(), Role: policy.RoleUser},
			input:    CreateUserInput{Username: "x", Email: "x@example.com", Password: "p", Password2: "p"},
			wantCode: policy.CodeForbidden,
		},
		{
			name:     "password mismatch",
			actor:    hr,
			input:    CreateUserInput{Username: "x", Email: "x@example.com", Password: "p1", Password2: "p2"},
			wantCode: policy.CodeValidationFailed,
		},
		{
			name:     "duplicate email",
			actor:    hr,
			input:    CreateUserInput{Username: "fresh", Email: existing.Email, Password: "p", Password2: "p"},
			wantCode: policy.CodeValidationFailed,
		},
		{
			name:     "duplicate username",
			actor:    hr,
			input:    CreateUserInput{Username: existing.Username, Email: "fresh@example.com", Password: "p", Password2: "p"},
			wantCode: policy.CodeValidationFailed,
		},
		{
			name:     "superadmin role not grantable",
			actor:    hr,
			input:    CreateUserInput{Username: "x", Email: "x@example.com", Password: "p", Password2: "p", Role: "superadmin"},
			wantCode: policy.CodeValidationFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateUser(context.Background(), tt.actor, tt.input)
			if policy.CodeOf(err) != tt.wantCode {
				t.Errorf("code = %q, want %q (err: %v)", policy.CodeOf(err), tt.wantCode, err)
			}
		})
	}
}

func TestUpdateUserRoleGuards(t *testing.T) {
	repo := newFakeUserRepo()
	target := addUser(repo, policy.RoleUser)
	super := addUser(repo, policy.RoleSuperadmin)
	svc := newUserService(repo)
	admin := policy.Actor{ID: primitive.NewObjectID().Hex(), Role: policy.RoleAdmin}

	role := "hr"
	got, err := svc.UpdateUser(context.Background(), admin, target.ID.Hex(), UpdateUserInput{Role: &role})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Role != policy.RoleHR {
		t.Errorf("role = %q, want hr", got.Role)
	}

	_, err = svc.UpdateUser(context.Background(), admin, super.ID.Hex(), UpdateUserInput{Role: &role})
	if policy.CodeOf(err) != policy.CodeForbidden {
		t.Errorf("demoting superadmin: code = %q, want %q", policy.CodeOf(err), policy.CodeForbidden)
	}

	grant := "superadmin"
	_, err = svc.UpdateUser(context.Background(), admin, target.ID.Hex(), UpdateUserInput{Role: &grant})
	if policy.CodeOf(err) != policy.CodeForbidden {
		t.Errorf("granting superadmin: code = %q, want %q", policy.CodeOf(err), policy.CodeForbidden)
	}
}

func TestUpdateUserSelfService(t *testing.T) {
	repo := newFakeUserRepo()
	target := addUser(repo, policy.RoleUser)
	svc := newUserService(repo)
	self := policy.Actor{ID: target.ID.Hex(), Role: policy.RoleUser}

	phone := "555-0101"
	got, err := svc.UpdateUser(context.Background(), self, target.ID.Hex(), UpdateUserInput{Phone: &phone})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Phone != phone {
		t.Errorf("phone = %q, want %q", got.Phone, phone)
	}

	role := "admin"
	_, err = svc.UpdateUser(context.Background(), self, target.ID.Hex(), UpdateUserInput{Role: &role})
	if policy.CodeOf(err) != policy.CodeForbidden {
		t.Errorf("self promotion: code = %q, want %q", policy.CodeOf(err), policy.CodeForbidden)
	}

	inactive := false
	_, err = svc.UpdateUser(context.Background(), self, target.ID.Hex(), UpdateUserInput{Active: &inactive})
	if policy.CodeOf(err) != policy.CodeForbidden {
		t.Errorf("self deactivation: code = %q, want %q", policy.CodeOf(err), policy.CodeForbidden)
	}
}

func TestDeleteUserGuards(t *testing.T) {
	repo := newFakeUserRepo()
	target := addUser(repo, policy.RoleUser)
	super := addUser(repo, policy.RoleSuperadmin)
	svc := newUserService(repo)

	err := svc.DeleteUser(context.Background(), policy.Actor{ID: target.ID.Hex(), Role: policy.RoleUser}, target.ID.Hex())
	if policy.CodeOf(err) != policy.CodeForbidden {
		t.Errorf("self delete: code = %q, want %q", policy.CodeOf(err), policy.CodeForbidden)
	}

	admin := policy.Actor{ID: primitive.NewObjectID().Hex(), Role: policy.RoleAdmin}
	err = svc.DeleteUser(context.Background(), admin, super.ID.Hex())
	if policy.CodeOf(err) != policy.CodeForbidden {
		t.Errorf("delete superadmin: code = %q, want %q", policy.CodeOf(err), policy.CodeForbidden)
	}

	if err := svc.DeleteUser(context.Background(), admin, target.ID.Hex()); err != nil {
		t.Errorf("admin delete regular user: %v", err)
	}
	if _, ok := repo.byID[target.ID.Hex()]; ok {
		t.Error("user not removed from the store")
	}
}

func TestListUsersScopes(t *testing.T) {
	repo := newFakeUserRepo()
	self := addUser(repo, policy.RoleUser)
	addUser(repo, policy.RoleUser)
	addUser(repo, policy.RoleHR)
	svc := newUserService(repo)

	own, err := svc.ListUsers(context.Background(), policy.Actor{ID: self.ID.Hex(), Role: policy.RoleUser})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(own) != 1 || own[0].ID != self.ID {
		t.Errorf("regular user sees %d users, want only themselves", len(own))
	}

	all, err := svc.ListUsers(context.Background(), policy.Actor{ID: primitive.NewObjectID().Hex(), Role: policy.RoleHR})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("hr sees %d users, want 3", len(all))
	}
}
