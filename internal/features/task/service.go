package task

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"team-crm/internal/common/models"
	"team-crm/internal/features/audit"
	"team-crm/internal/policy"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// UserFinder resolves assignees; satisfied by user.UserRepository.
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// Notifier pushes a notification to a user; satisfied by the notification service.
type Notifier interface {
	Notify(ctx context.Context, userID, title, message, notifType string) error
}

type CreateTaskInput struct {
	Title       string
	Description string
	Status      string
	Priority    string
	AssignedTo  string
	Deadline    *time.Time
	Progress    *int
}

type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *string
	AssignedTo  *string
	Deadline    *time.Time
	Progress    *int
}

type TaskService interface {
	ListTasks(ctx context.Context, actor policy.Actor) ([]Task, error)
	GetTask(ctx context.Context, actor policy.Actor, id string) (*Task, error)
	CreateTask(ctx context.Context, actor policy.Actor, input CreateTaskInput) (*Task, error)
	UpdateTask(ctx context.Context, actor policy.Actor, id string, input UpdateTaskInput) (*Task, error)
	DeleteTask(ctx context.Context, actor policy.Actor, id string) error
	AddNote(ctx context.Context, actor policy.Actor, id, content string) (*Task, error)
}

type TaskServiceImpl struct {
	TaskRepo     TaskRepository
	Users        UserFinder
	AuditService audit.AuditService
	Notifier     Notifier
	Now          func() time.Time
}

func NewTaskService(taskRepo TaskRepository, users UserFinder, auditService audit.AuditService, notifier Notifier) TaskService {
	return &TaskServiceImpl{
		TaskRepo:     taskRepo,
		Users:        users,
		AuditService: auditService,
		Notifier:     notifier,
		Now:          time.Now,
	}
}

func (s *TaskServiceImpl) ListTasks(ctx context.Context, actor policy.Actor) ([]Task, error) {
	var (
		tasks []Task
		err   error
	)
	if actor.Privileged() {
		tasks, err = s.TaskRepo.ListAll(ctx)
	} else {
		tasks, err = s.TaskRepo.ListByAssignee(ctx, actor.ID)
	}
	if err != nil {
		return nil, err
	}

	now := s.Now()
	for i := range tasks {
		tasks[i].decorate(now)
	}
	return tasks, nil
}

func (s *TaskServiceImpl) GetTask(ctx context.Context, actor policy.Actor, id string) (*Task, error) {
	task, err := s.findTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actor, policy.ActionView, policy.KindTask, task); err != nil {
		return nil, err
	}
	task.decorate(s.Now())
	return task, nil
}

func (s *TaskServiceImpl) CreateTask(ctx context.Context, actor policy.Actor, input CreateTaskInput) (*Task, error) {
	if err := policy.Authorize(actor, policy.ActionCreate, policy.KindTask, nil); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, policy.ValidationFailed("title is required")
	}

	assignee, err := s.findAssignee(ctx, input.AssignedTo)
	if err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = policy.TaskStatusPending
	}
	if err := policy.CheckTaskStatus(status); err != nil {
		return nil, err
	}

	priority := input.Priority
	if priority == "" {
		priority = PriorityMedium
	}

	progress := 0
	if input.Progress != nil {
		progress = *input.Progress
	}
	if err := checkProgress(progress); err != nil {
		return nil, err
	}

	creatorID, _ := primitive.ObjectIDFromHex(actor.ID)
	now := s.Now()
	task := &Task{
		ID:          primitive.NewObjectID(),
		Title:       input.Title,
		Description: input.Description,
		Status:      status,
		Priority:    priority,
		AssignedTo:  assignee.ID,
		CreatedBy:   creatorID,
		Deadline:    input.Deadline,
		Progress:    progress,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	stampCompletion(task, "", now)

	if err := s.TaskRepo.Create(ctx, task); err != nil {
		return nil, err
	}

	changes := map[string]models.Change{
		"title":       {New: task.Title},
		"assigned_to": {New: task.AssignedTo.Hex()},
	}
	_ = s.AuditService.LogChange(ctx, actor, models.AuditActionCreate, "task", task.ID.Hex(), changes)
	_ = s.Notifier.Notify(ctx, assignee.ID.Hex(), "New task assigned",
		fmt.Sprintf("You have been assigned: %s", task.Title), "task")

	task.decorate(now)
	return task, nil
}

func (s *TaskServiceImpl) UpdateTask(ctx context.Context, actor policy.Actor, id string, input UpdateTaskInput) (*Task, error) {
	task, err := s.findTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actor, policy.ActionUpdate, policy.KindTask, task); err != nil {
		return nil, err
	}

	previousStatus := task.Status
	changes := make(map[string]models.Change)

	if input.Title != nil && *input.Title != task.Title {
		changes["title"] = models.Change{Old: task.Title, New: *input.Title}
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil && *input.Status != task.Status {
		if err := policy.CheckTaskStatus(*input.Status); err != nil {
			return nil, err
		}
		changes["status"] = models.Change{Old: task.Status, New: *input.Status}
		task.Status = *input.Status
	}
	if input.Priority != nil && *input.Priority != task.Priority {
		changes["priority"] = models.Change{Old: task.Priority, New: *input.Priority}
		task.Priority = *input.Priority
	}
	if input.AssignedTo != nil && *input.AssignedTo != task.AssignedTo.Hex() {
		if !policy.CanReassign(actor) {
			return nil, policy.Forbidden("only admin or hr may reassign a task")
		}
		assignee, err := s.findAssignee(ctx, *input.AssignedTo)
		if err != nil {
			return nil, err
		}
		changes["assigned_to"] = models.Change{Old: task.AssignedTo.Hex(), New: assignee.ID.Hex()}
		task.AssignedTo = assignee.ID
		_ = s.Notifier.Notify(ctx, assignee.ID.Hex(), "Task reassigned to you",
			fmt.Sprintf("You have been assigned: %s", task.Title), "task")
	}
	if input.Deadline != nil {
		task.Deadline = input.Deadline
	}
	if input.Progress != nil && *input.Progress != task.Progress {
		if err := checkProgress(*input.Progress); err != nil {
			return nil, err
		}
		changes["progress"] = models.Change{Old: task.Progress, New: *input.Progress}
		task.Progress = *input.Progress
	}

	now := s.Now()
	// Completion always wins over caller-supplied progress.
	stampCompletion(task, previousStatus, now)
	task.UpdatedAt = now

	if err := s.TaskRepo.Update(ctx, id, task); err != nil {
		return nil, err
	}

	if len(changes) > 0 {
		_ = s.AuditService.LogChange(ctx, actor, models.AuditActionUpdate, "task", id, changes)
	}

	task.decorate(now)
	return task, nil
}

func (s *TaskServiceImpl) DeleteTask(ctx context.Context, actor policy.Actor, id string) error {
	task, err := s.findTask(ctx, id)
	if err != nil {
		return err
	}
	if err := policy.Authorize(actor, policy.ActionDelete, policy.KindTask, task); err != nil {
		return err
	}

	if err := s.TaskRepo.Delete(ctx, id); err != nil {
		return err
	}

	changes := map[string]models.Change{"deleted": {Old: false, New: true}}
	_ = s.AuditService.LogChange(ctx, actor, models.AuditActionDelete, "task", id, changes)
	return nil
}

func (s *TaskServiceImpl) AddNote(ctx context.Context, actor policy.Actor, id, content string) (*Task, error) {
	task, err := s.findTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actor, policy.ActionUpdate, policy.KindTask, task); err != nil {
		return nil, err
	}
	if strings.TrimSpace(content) == "" {
		return nil, policy.ValidationFailed("content is required")
	}

	authorID, _ := primitive.ObjectIDFromHex(actor.ID)
	authorName := ""
	if author, err := s.Users.FindByID(ctx, actor.ID); err == nil {
		authorName = author.FullName()
	}

	note := TaskNote{
		ID:         primitive.NewObjectID(),
		Content:    strings.TrimSpace(content),
		AuthorID:   authorID,
		AuthorName: authorName,
		CreatedAt:  s.Now(),
	}
	if err := s.TaskRepo.AddNote(ctx, id, note); err != nil {
		return nil, err
	}

	task.Notes = append(task.Notes, note)
	task.decorate(s.Now())
	return task, nil
}

func (s *TaskServiceImpl) findTask(ctx context.Context, id string) (*Task, error) {
	task, err := s.TaskRepo.FindByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, policy.NotFound("task not found")
	}
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskServiceImpl) findAssignee(ctx context.Context, id string) (*models.User, error) {
	if id == "" {
		return nil, policy.ValidationFailed("assigned_to is required")
	}
	assignee, err := s.Users.FindByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, policy.ValidationFailed("invalid assigned_to user")
	}
	if err != nil {
		return nil, err
	}
	return assignee, nil
}

// stampCompletion forces progress to 100 and records the completion time when
// a task lands in completed status.
func stampCompletion(task *Task, previousStatus string, now time.Time) {
	if task.Status != policy.TaskStatusCompleted {
		return
	}
	task.Progress = 100
	if task.CompletedAt == nil || previousStatus != policy.TaskStatusCompleted {
		completed := now
		task.CompletedAt = &completed
	}
}

func checkProgress(progress int) error {
	if progress < 0 || progress > 100 {
		return policy.ValidationFailed("progress must be between 0 and 100")
	}
	return nil
}
