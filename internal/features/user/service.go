package user

import (
	"context"
	"errors"
	"time"

	"team-crm/internal/common/models"
	"team-crm/internal/features/audit"
	"team-crm/internal/policy"
	"team-crm/pkg/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type CreateUserInput struct {
	Username   string
	Email      string
	Password   string
	Password2  string
	FirstName  string
	LastName   string
	Role       string
	Department string
	Phone      string
	Address    string
	DOB        *time.Time
	DOJ        *time.Time
	Age        int
}

// UpdateUserInput carries optional field updates. Role and Active are
// privileged-only and go through the mutation guard.
type UpdateUserInput struct {
	Username   *string
	Email      *string
	FirstName  *string
	LastName   *string
	Role       *string
	Department *string
	Phone      *string
	Address    *string
	DOB        *time.Time
	DOJ        *time.Time
	Age        *int
	Active     *bool
}

type UserService interface {
	ListUsers(ctx context.Context, actor policy.Actor) ([]models.User, error)
	GetUserByID(ctx context.Context, actor policy.Actor, id string) (*models.User, error)
	CreateUser(ctx context.Context, actor policy.Actor, input CreateUserInput) (*models.User, error)
	UpdateUser(ctx context.Context, actor policy.Actor, id string, input UpdateUserInput) (*models.User, error)
	DeleteUser(ctx context.Context, actor policy.Actor, id string) error
}

type UserServiceImpl struct {
	UserRepo     UserRepository
	AuditService audit.AuditService
}

func NewUserService(userRepo UserRepository, auditService audit.AuditService) UserService {
	return &UserServiceImpl{
		UserRepo:     userRepo,
		AuditService: auditService,
	}
}

func (s *UserServiceImpl) ListUsers(ctx context.Context, actor policy.Actor) ([]models.User, error) {
	if !actor.Privileged() {
		// Self-scoped actors see only themselves.
		self, err := s.findUser(ctx, actor.ID)
		if err != nil {
			return nil, err
		}
		return []models.User{*self}, nil
	}
	return s.UserRepo.List(ctx)
}

func (s *UserServiceImpl) GetUserByID(ctx context.Context, actor policy.Actor, id string) (*models.User, error) {
	target, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actor, policy.ActionView, policy.KindUser, target); err != nil {
		return nil, err
	}
	return target, nil
}

func (s *UserServiceImpl) CreateUser(ctx context.Context, actor policy.Actor, input CreateUserInput) (*models.User, error) {
	if err := policy.Authorize(actor, policy.ActionCreate, policy.KindUser, nil); err != nil {
		return nil, err
	}
	if input.Password != input.Password2 {
		return nil, policy.ValidationFailed("password fields didn't match")
	}
	if err := s.checkUnique(ctx, input.Email, input.Username, ""); err != nil {
		return nil, err
	}

	role := policy.RoleUser
	if input.Role != "" {
		parsed, err := policy.ParseRole(input.Role)
		if err != nil {
			return nil, err
		}
		if !parsed.Assignable() {
			return nil, policy.ValidationFailed("role is not assignable")
		}
		role = parsed
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &models.User{
		ID:         primitive.NewObjectID(),
		Username:   input.Username,
		Email:      input.Email,
		Password:   hashed,
		FirstName:  input.FirstName,
		LastName:   input.LastName,
		Role:       role,
		Department: input.Department,
		Phone:      input.Phone,
		Address:    input.Address,
		DOB:        input.DOB,
		DOJ:        input.DOJ,
		Age:        input.Age,
		Active:     true,
		DateJoined: now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.UserRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	changes := map[string]models.Change{
		"username": {New: user.Username},
		"email":    {New: user.Email},
		"role":     {New: string(user.Role)},
	}
	_ = s.AuditService.LogChange(ctx, actor, models.AuditActionCreate, "user", user.ID.Hex(), changes)

	return user, nil
}

func (s *UserServiceImpl) UpdateUser(ctx context.Context, actor policy.Actor, id string, input UpdateUserInput) (*models.User, error) {
	target, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actor, policy.ActionUpdate, policy.KindUser, target); err != nil {
		return nil, err
	}

	changes := make(map[string]models.Change)

	if input.Username != nil && *input.Username != target.Username {
		if err := s.checkUnique(ctx, "", *input.Username, target.ID.Hex()); err != nil {
			return nil, err
		}
		changes["username"] = models.Change{Old: target.Username, New: *input.Username}
		target.Username = *input.Username
	}
	if input.Email != nil && *input.Email != target.Email {
		if err := s.checkUnique(ctx, *input.Email, "", target.ID.Hex()); err != nil {
			return nil, err
		}
		changes["email"] = models.Change{Old: target.Email, New: *input.Email}
		target.Email = *input.Email
	}
	if input.Role != nil && *input.Role != string(target.Role) {
		requested, err := policy.ParseRole(*input.Role)
		if err != nil {
			return nil, err
		}
		if err := policy.CheckRoleChange(actor, target.Role, requested); err != nil {
			return nil, err
		}
		changes["role"] = models.Change{Old: string(target.Role), New: string(requested)}
		target.Role = requested
	}
	if input.Active != nil && *input.Active != target.Active {
		if err := policy.CheckActiveChange(actor, target.Role); err != nil {
			return nil, err
		}
		changes["active"] = models.Change{Old: target.Active, New: *input.Active}
		target.Active = *input.Active
	}

	// Contact fields are editable by the owner themselves.
	if input.FirstName != nil && *input.FirstName != target.FirstName {
		changes["first_name"] = models.Change{Old: target.FirstName, New: *input.FirstName}
		target.FirstName = *input.FirstName
	}
	if input.LastName != nil && *input.LastName != target.LastName {
		changes["last_name"] = models.Change{Old: target.LastName, New: *input.LastName}
		target.LastName = *input.LastName
	}
	if input.Department != nil && *input.Department != target.Department {
		changes["department"] = models.Change{Old: target.Department, New: *input.Department}
		target.Department = *input.Department
	}
	if input.Phone != nil && *input.Phone != target.Phone {
		changes["phone"] = models.Change{Old: target.Phone, New: *input.Phone}
		target.Phone = *input.Phone
	}
	if input.Address != nil && *input.Address != target.Address {
		changes["address"] = models.Change{Old: target.Address, New: *input.Address}
		target.Address = *input.Address
	}
	if input.DOB != nil {
		target.DOB = input.DOB
	}
	if input.DOJ != nil {
		target.DOJ = input.DOJ
	}
	if input.Age != nil && *input.Age != target.Age {
		changes["age"] = models.Change{Old: target.Age, New: *input.Age}
		target.Age = *input.Age
	}

	target.UpdatedAt = time.Now()

	if err := s.UserRepo.Update(ctx, id, target); err != nil {
		return nil, err
	}

	if len(changes) > 0 {
		_ = s.AuditService.LogChange(ctx, actor, models.AuditActionUpdate, "user", id, changes)
	}

	return target, nil
}

func (s *UserServiceImpl) DeleteUser(ctx context.Context, actor policy.Actor, id string) error {
	target, err := s.findUser(ctx, id)
	if err != nil {
		return err
	}
	if err := policy.Authorize(actor, policy.ActionDelete, policy.KindUser, target); err != nil {
		return err
	}

	if err := s.UserRepo.Delete(ctx, id); err != nil {
		return err
	}

	changes := map[string]models.Change{
		"deleted":  {Old: false, New: true},
		"username": {Old: target.Username, New: ""},
	}
	_ = s.AuditService.LogChange(ctx, actor, models.AuditActionDelete, "user", id, changes)

	return nil
}

func (s *UserServiceImpl) findUser(ctx context.Context, id string) (*models.User, error) {
	target, err := s.UserRepo.FindByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, policy.NotFound("user not found")
	}
	if err != nil {
		return nil, err
	}
	return target, nil
}

func (s *UserServiceImpl) checkUnique(ctx context.Context, email, username, selfID string) error {
	if email != "" {
		existing, err := s.UserRepo.FindByEmail(ctx, email)
		if err == nil && existing.ID.Hex() != selfID {
			return policy.ValidationFailed("a user with this email already exists")
		}
		if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
			return err
		}
	}
	if username != "" {
		existing, err := s.UserRepo.FindByUsername(ctx, username)
		if err == nil && existing.ID.Hex() != selfID {
			return policy.ValidationFailed("a user with this username already exists")
		}
		if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
			return err
		}
	}
	return nil
}
