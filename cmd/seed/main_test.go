package main

import (
	"context"
	"testing"

	"team-crm/internal/common/models"
	"team-crm/internal/config"
	"team-crm/internal/policy"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
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

func TestSeedSuperadminCreatesOnce(t *testing.T) {
	repo := newFakeUserRepo()
	cfg := &config.Config{SuperadminEmail: "root@example.com"}

	created := seedSuperadmin(context.Background(), cfg, repo, zap.NewNop())
	if created == nil {
		t.Fatal("expected a superadmin to be created")
	}
	if created.Role != policy.RoleSuperadmin {
		t.Errorf("role = %q, want superadmin", created.Role)
	}
	if len(repo.byID) != 1 {
		t.Errorf("user count = %d, want 1", len(repo.byID))
	}
}

// The account is sole per role, so a rerun with a different SUPERADMIN_EMAIL
// must reuse the existing superadmin instead of creating a second one.
func TestSeedSuperadminKeyedOnRole(t *testing.T) {
	repo := newFakeUserRepo()
	existing := &models.User{
		ID:     primitive.NewObjectID(),
		Email:  "old@example.com",
		Role:   policy.RoleSuperadmin,
		Active: true,
	}
	repo.byID[existing.ID.Hex()] = existing
	cfg := &config.Config{SuperadminEmail: "new@example.com"}

	got := seedSuperadmin(context.Background(), cfg, repo, zap.NewNop())
	if got == nil || got.ID != existing.ID {
		t.Fatal("existing superadmin should be reused")
	}
	if len(repo.byID) != 1 {
		t.Errorf("superadmin reseed left %d users, want 1", len(repo.byID))
	}
}
