package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"team-crm/internal/common/models"
	"team-crm/internal/features/audit"
	"team-crm/internal/features/user"
	"team-crm/internal/policy"
	"team-crm/pkg/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	Password2 string
	FirstName string
	LastName  string
}

type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	CurrentUser(ctx context.Context, actor policy.Actor) (*models.User, error)
}

type AuthServiceImpl struct {
	UserRepo     user.UserRepository
	AuditService audit.AuditService
}

func NewAuthService(userRepo user.UserRepository, auditService audit.AuditService) AuthService {
	return &AuthServiceImpl{
		UserRepo:     userRepo,
		AuditService: auditService,
	}
}

func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	usr, err := s.UserRepo.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, errors.New("invalid email or password")
	}
	if !utils.CheckPassword(usr.Password, password) {
		return nil, errors.New("invalid email or password")
	}
	if !usr.Active {
		return nil, errors.New("user account is disabled")
	}

	token, err := utils.GenerateToken(usr.ID, string(usr.Role))
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: usr}, nil
}

// Register self-serves a plain user account; elevated roles are only granted
// through the user feature by a privileged actor.
func (s *AuthServiceImpl) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	if input.Password != input.Password2 {
		return nil, policy.ValidationFailed("password fields didn't match")
	}
	if _, err := s.UserRepo.FindByEmail(ctx, input.Email); err == nil {
		return nil, policy.ValidationFailed("a user with this email already exists")
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}
	if _, err := s.UserRepo.FindByUsername(ctx, input.Username); err == nil {
		return nil, policy.ValidationFailed("a user with this username already exists")
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	newUser := &models.User{
		ID:         primitive.NewObjectID(),
		Username:   input.Username,
		Email:      input.Email,
		Password:   hashed,
		FirstName:  input.FirstName,
		LastName:   input.LastName,
		Role:       policy.RoleUser,
		Active:     true,
		DateJoined: now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.UserRepo.Create(ctx, newUser); err != nil {
		return nil, err
	}

	changes := map[string]models.Change{
		"username": {New: newUser.Username},
		"email":    {New: newUser.Email},
	}
	_ = s.AuditService.LogChange(ctx, newUser.Actor(), models.AuditActionCreate, "user", newUser.ID.Hex(), changes)

	token, err := utils.GenerateToken(newUser.ID, string(newUser.Role))
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: newUser}, nil
}

func (s *AuthServiceImpl) CurrentUser(ctx context.Context, actor policy.Actor) (*models.User, error) {
	usr, err := s.UserRepo.FindByID(ctx, actor.ID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, policy.NotFound("user not found")
	}
	if err != nil {
		return nil, err
	}
	return usr, nil
}
