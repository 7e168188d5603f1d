package main

import (
	"context"
	"fmt"
	"log"

	common_api "team-crm/internal/common/api"
	"team-crm/internal/config"
	"team-crm/internal/database"
	"team-crm/internal/features/activity"
	"team-crm/internal/features/audit"
	"team-crm/internal/features/auth"
	"team-crm/internal/features/leave"
	"team-crm/internal/features/meeting"
	"team-crm/internal/features/notification"
	"team-crm/internal/features/reminder"
	"team-crm/internal/features/report"
	"team-crm/internal/features/sales"
	"team-crm/internal/features/system"
	"team-crm/internal/features/task"
	"team-crm/internal/features/user"
	"team-crm/internal/logger"
	"team-crm/internal/middleware"
	"team-crm/pkg/utils"

	_ "team-crm/docs" // Import swagger docs

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(middleware.CORSMiddleware())

	return app
}

// AsRoute tags a constructor so Fx adds its result to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),
		fx.ResultTags(`group:"routes"`),
	)
}

// RegisterAllRoutes takes the group "routes" and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route) {
	log.Printf("Registering %d routes...\n", len(routes))
	for _, route := range routes {
		route.Setup(app)
	}
	log.Println("All routes registered successfully")
}

var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`),
)

// StartServer starts Fiber in a goroutine and shuts it down on app exit.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			utils.SetSecret(cfg.JWTSecret)
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}

// StartReminders runs the reminder scheduler for the app's lifetime.
func StartReminders(lc fx.Lifecycle, reminderService *reminder.ReminderService) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return reminderService.Start()
		},
		OnStop: func(ctx context.Context) error {
			reminderService.Stop()
			return nil
		},
	})
}

// @title           Team CRM API
// @version         1.0
// @description     Internal CRM backend for team, sales and HR workflows.

// @host            localhost:8080
// @BasePath        /
func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			logger.NewLogger,
			NewFiberServer,
			database.NewDatabase,

			// Repositories
			audit.NewAuditRepository,
			user.NewUserRepository,
			task.NewTaskRepository,
			leave.NewLeaveRepository,
			meeting.NewMeetingRepository,
			sales.NewClientRepository,
			sales.NewFollowUpRepository,
			sales.NewSalesActivityRepository,
			activity.NewWorkActivityRepository,
			notification.NewNotificationRepository,

			// Services
			audit.NewAuditService,
			auth.NewAuthService,
			user.NewUserService,
			task.NewTaskService,
			leave.NewLeaveService,
			meeting.NewMeetingService,
			sales.NewSalesService,
			activity.NewWorkActivityService,
			notification.NewHub,
			notification.NewNotificationService,
			report.NewReportService,
			reminder.NewReminderService,

			// Interface adapters so feature packages stay decoupled
			func(r user.UserRepository) task.UserFinder { return r },
			func(r user.UserRepository) meeting.UserFinder { return r },
			func(s notification.NotificationService) task.Notifier { return s },
			func(s notification.NotificationService) leave.Notifier { return s },
			func(s notification.NotificationService) meeting.Notifier { return s },
			func(s notification.NotificationService) sales.Notifier { return s },
			func(s notification.NotificationService) reminder.Notifier { return s },

			// Controllers
			audit.NewAuditController,
			auth.NewAuthController,
			user.NewUserController,
			task.NewTaskController,
			leave.NewLeaveController,
			meeting.NewMeetingController,
			sales.NewSalesController,
			activity.NewWorkActivityController,
			notification.NewNotificationController,
			report.NewReportController,

			// API Routes
			AsRoute(audit.NewAuditApi),
			AsRoute(auth.NewAuthApi),
			AsRoute(user.NewUserApi),
			AsRoute(task.NewTaskApi),
			AsRoute(leave.NewLeaveApi),
			AsRoute(meeting.NewMeetingApi),
			AsRoute(sales.NewSalesApi),
			AsRoute(activity.NewWorkActivityApi),
			AsRoute(notification.NewNotificationApi),
			AsRoute(report.NewReportApi),
			AsRoute(system.NewHealthApi),
			AsRoute(system.NewSwaggerApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			RegisterAllRoutesWithAnnotation,
			StartServer,
			StartReminders,
		),
	)

	app.Run()
}
