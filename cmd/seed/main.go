package main

import (
	"context"
	"errors"
	"os"
	"time"

	"team-crm/internal/common/models"
	"team-crm/internal/config"
	"team-crm/internal/database"
	"team-crm/internal/features/sales"
	"team-crm/internal/features/user"
	"team-crm/internal/logger"
	"team-crm/internal/policy"
	"team-crm/pkg/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// Seed creates the superadmin account and, when SEED_DEMO=true, a small demo
// data set. Safe to run repeatedly; existing records are left alone.
func Seed(
	lc fx.Lifecycle,
	cfg *config.Config,
	userRepo user.UserRepository,
	clientRepo sales.ClientRepository,
	logger *zap.Logger,
	shutdowner fx.Shutdowner,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				defer func() {
					if err := shutdowner.Shutdown(); err != nil {
						logger.Error("Failed to shutdown", zap.Error(err))
					}
				}()

				logger.Info("Starting database seeding...")

				superadmin := seedSuperadmin(ctx, cfg, userRepo, logger)
				if superadmin == nil {
					return
				}

				if os.Getenv("SEED_DEMO") == "true" {
					seedDemoData(ctx, userRepo, clientRepo, superadmin, logger)
				}

				logger.Info("Seeding complete")
			}()
			return nil
		},
	})
}

func seedSuperadmin(ctx context.Context, cfg *config.Config, userRepo user.UserRepository, logger *zap.Logger) *models.User {
	// Keyed on role, not email, so the account stays sole even when
	// SUPERADMIN_EMAIL changes between runs.
	existing, err := userRepo.FindByRole(ctx, string(policy.RoleSuperadmin))
	if err == nil {
		logger.Info("Superadmin exists, skipping", zap.String("email", existing.Email))
		return existing
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		logger.Error("Failed to look up superadmin", zap.Error(err))
		return nil
	}

	password := os.Getenv("SUPERADMIN_PASSWORD")
	if password == "" {
		password = "changeme"
		logger.Warn("SUPERADMIN_PASSWORD not set, using default; change it immediately")
	}
	hashed, err := utils.HashPassword(password)
	if err != nil {
		logger.Error("Failed to hash superadmin password", zap.Error(err))
		return nil
	}

	now := time.Now()
	superadmin := &models.User{
		ID:         primitive.NewObjectID(),
		Username:   "superadmin",
		Email:      cfg.SuperadminEmail,
		Password:   hashed,
		FirstName:  "Super",
		LastName:   "Admin",
		Role:       policy.RoleSuperadmin,
		Active:     true,
		DateJoined: now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := userRepo.Create(ctx, superadmin); err != nil {
		logger.Error("Failed to create superadmin", zap.Error(err))
		return nil
	}
	logger.Info("Superadmin created", zap.String("email", cfg.SuperadminEmail))
	return superadmin
}

func seedDemoData(ctx context.Context, userRepo user.UserRepository, clientRepo sales.ClientRepository, superadmin *models.User, logger *zap.Logger) {
	demoUsers := []struct {
		username string
		email    string
		role     policy.Role
	}{
		{"hr.lead", "hr.lead@example.com", policy.RoleHR},
		{"sales.one", "sales.one@example.com", policy.RoleUser},
		{"sales.two", "sales.two@example.com", policy.RoleUser},
	}

	hashed, err := utils.HashPassword("password123")
	if err != nil {
		logger.Error("Failed to hash demo password", zap.Error(err))
		return
	}

	now := time.Now()
	created := make(map[string]primitive.ObjectID)
	for _, du := range demoUsers {
		if existing, err := userRepo.FindByEmail(ctx, du.email); err == nil {
			created[du.username] = existing.ID
			continue
		}
		u := &models.User{
			ID:         primitive.NewObjectID(),
			Username:   du.username,
			Email:      du.email,
			Password:   hashed,
			Role:       du.role,
			Active:     true,
			DateJoined: now,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := userRepo.Create(ctx, u); err != nil {
			logger.Error("Failed to create demo user", zap.String("email", du.email), zap.Error(err))
			continue
		}
		created[du.username] = u.ID
		logger.Info("Demo user created", zap.String("email", du.email))
	}

	assignee, ok := created["sales.one"]
	if !ok {
		return
	}
	demoClients := []sales.Client{
		{ClientName: "Acme Industrial", CompanyName: "Acme Industrial Ltd", Email: "contact@acme.example", Status: policy.ClientStatusProspect},
		{ClientName: "Borealis Labs", CompanyName: "Borealis Labs Inc", Email: "hello@borealis.example", Status: policy.ClientStatusNegotiation, DealValue: 12000},
	}
	for i := range demoClients {
		c := &demoClients[i]
		c.ID = primitive.NewObjectID()
		c.AssignedTo = assignee
		c.CreatedBy = superadmin.ID
		c.CreatedAt = now
		c.UpdatedAt = now
		if err := clientRepo.Create(ctx, c); err != nil {
			logger.Error("Failed to create demo client", zap.String("client", c.ClientName), zap.Error(err))
			continue
		}
		logger.Info("Demo client created", zap.String("client", c.ClientName))
	}
}

func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			logger.NewLogger,
			database.NewDatabase,
			user.NewUserRepository,
			sales.NewClientRepository,
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(Seed),
	)

	app.Run()
}
