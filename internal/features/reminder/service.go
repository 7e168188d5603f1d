package reminder

import (
	"context"
	"fmt"
	"time"

	"team-crm/internal/config"
	"team-crm/internal/features/sales"
	"team-crm/internal/features/task"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Notifier pushes a notification to a user; satisfied by the notification service.
type Notifier interface {
	Notify(ctx context.Context, userID, title, message, notifType string) error
}

// ReminderService runs the daily sweep: due follow-ups and overdue tasks each
// turn into a notification for the responsible user.
type ReminderService struct {
	FollowUpRepo sales.FollowUpRepository
	ClientRepo   sales.ClientRepository
	TaskRepo     task.TaskRepository
	Notifier     Notifier
	Logger       *zap.Logger
	Schedule     string

	scheduler *cron.Cron
}

func NewReminderService(
	followUpRepo sales.FollowUpRepository,
	clientRepo sales.ClientRepository,
	taskRepo task.TaskRepository,
	notifier Notifier,
	logger *zap.Logger,
	cfg *config.Config,
) *ReminderService {
	return &ReminderService{
		FollowUpRepo: followUpRepo,
		ClientRepo:   clientRepo,
		TaskRepo:     taskRepo,
		Notifier:     notifier,
		Logger:       logger,
		Schedule:     cfg.ReminderSchedule,
	}
}

// Start registers the sweep with the scheduler and kicks it off.
func (s *ReminderService) Start() error {
	s.scheduler = cron.New()
	if _, err := s.scheduler.AddFunc(s.Schedule, func() {
		if err := s.Run(context.Background()); err != nil {
			s.Logger.Error("reminder sweep failed", zap.Error(err))
		}
	}); err != nil {
		return fmt.Errorf("invalid reminder schedule %q: %w", s.Schedule, err)
	}
	s.scheduler.Start()
	s.Logger.Info("reminder scheduler started", zap.String("schedule", s.Schedule))
	return nil
}

func (s *ReminderService) Stop() {
	if s.scheduler != nil {
		ctx := s.scheduler.Stop()
		<-ctx.Done()
	}
}

// Run performs one sweep. Exposed so an operator can trigger it out of band.
func (s *ReminderService) Run(ctx context.Context) error {
	now := time.Now()

	followUps, err := s.FollowUpRepo.ListDue(ctx, now)
	if err != nil {
		return fmt.Errorf("list due follow-ups: %w", err)
	}
	for i := range followUps {
		fu := &followUps[i]
		client, err := s.ClientRepo.FindByID(ctx, fu.ClientID.Hex())
		if err != nil {
			s.Logger.Warn("follow-up without client", zap.String("follow_up_id", fu.ID.Hex()), zap.Error(err))
			continue
		}
		if err := s.Notifier.Notify(ctx, client.AssignedTo.Hex(), "Follow-up due",
			fmt.Sprintf("Follow-up for %s was due %s", client.ClientName, fu.DueDate.Format("2006-01-02")),
			"warning"); err != nil {
			s.Logger.Warn("follow-up reminder failed", zap.String("follow_up_id", fu.ID.Hex()), zap.Error(err))
		}
	}

	tasks, err := s.TaskRepo.ListOverdue(ctx, now)
	if err != nil {
		return fmt.Errorf("list overdue tasks: %w", err)
	}
	for i := range tasks {
		t := &tasks[i]
		if err := s.Notifier.Notify(ctx, t.AssignedTo.Hex(), "Task overdue",
			fmt.Sprintf("%q is past its deadline", t.Title),
			"alert"); err != nil {
			s.Logger.Warn("task reminder failed", zap.String("task_id", t.ID.Hex()), zap.Error(err))
		}
	}

	s.Logger.Info("reminder sweep finished",
		zap.Int("follow_ups", len(followUps)),
		zap.Int("overdue_tasks", len(tasks)))
	return nil
}
