package task

import (
	"context"
	"testing"
	"time"

	"team-crm/internal/common/models"
	"team-crm/internal/features/audit"
	"team-crm/internal/policy"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type fakeTaskRepo struct {
	byID map[string]*Task
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{byID: make(map[string]*Task)}
}

func (r *fakeTaskRepo) Create(ctx context.Context, task *Task) error {
	cp := *task
	r.byID[task.ID.Hex()] = &cp
	return nil
}

func (r *fakeTaskRepo) FindByID(ctx context.Context, id string) (*Task, error) {
	task, ok := r.byID[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *task
	return &cp, nil
}

func (r *fakeTaskRepo) ListAll(ctx context.Context) ([]Task, error) {
	var out []Task
	for _, t := range r.byID {
		out = append(out, *t)
	}
	return out, nil
}

func (r *fakeTaskRepo) ListByAssignee(ctx context.Context, userID string) ([]Task, error) {
	var out []Task
	for _, t := range r.byID {
		if t.AssignedTo.Hex() == userID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *fakeTaskRepo) ListOverdue(ctx context.Context, now time.Time) ([]Task, error) {
	var out []Task
	for _, t := range r.byID {
		if policy.TaskOverdue(t.Deadline, t.Status, now) {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *fakeTaskRepo) Update(ctx context.Context, id string, task *Task) error {
	cp := *task
	r.byID[id] = &cp
	return nil
}

func (r *fakeTaskRepo) AddNote(ctx context.Context, id string, note TaskNote) error {
	t, ok := r.byID[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	t.Notes = append(t.Notes, note)
	return nil
}

func (r *fakeTaskRepo) Delete(ctx context.Context, id string) error {
	delete(r.byID, id)
	return nil
}

type fakeUserFinder struct {
	users map[string]*models.User
}

func (f *fakeUserFinder) FindByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return u, nil
}

type fakeAudit struct{ entries int }

func (a *fakeAudit) LogChange(ctx context.Context, actor policy.Actor, action, entityType, entityID string, changes map[string]models.Change) error {
	a.entries++
	return nil
}

func (a *fakeAudit) History(ctx context.Context, entityType, entityID string, limit int64) ([]audit.AuditLog, error) {
	return nil, nil
}

type fakeNotifier struct {
	userIDs []string
}

func (n *fakeNotifier) Notify(ctx context.Context, userID, title, message, notifType string) error {
	n.userIDs = append(n.userIDs, userID)
	return nil
}

func testUser(id primitive.ObjectID) *models.User {
	return &models.User{ID: id, Username: "worker", FirstName: "Test", LastName: "Worker", Role: policy.RoleUser, Active: true}
}

func newTaskService(repo *fakeTaskRepo, users *fakeUserFinder, notifier *fakeNotifier, now time.Time) *TaskServiceImpl {
	return &TaskServiceImpl{
		TaskRepo:     repo,
		Users:        users,
		AuditService: &fakeAudit{},
		Notifier:     notifier,
		Now:          func() time.Time { return now },
	}
}

func TestCreateTask(t *testing.T) {
	now := time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)
	assigneeID := primitive.NewObjectID()
	repo := newFakeTaskRepo()
	notifier := &fakeNotifier{}
	users := &fakeUserFinder{users: map[string]*models.User{assigneeID.Hex(): testUser(assigneeID)}}
	svc := newTaskService(repo, users, notifier, now)
	hr := policy.Actor{ID: primitive.NewObjectID().Hex(), Role: policy.RoleHR}

	task, err := svc.CreateTask(context.Background(), hr, CreateTaskInput{
		Title:      "Prepare onboarding",
		AssignedTo: assigneeID.Hex(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.Status != policy.TaskStatusPending {
		t.Errorf("status = %q, want pending", task.Status)
	}
	if task.Priority != PriorityMedium {
		t.Errorf("priority = %q, want medium", task.Priority)
	}
	if len(notifier.userIDs) != 1 || notifier.userIDs[0] != assigneeID.Hex() {
		t.Errorf("assignee not notified, got %v", notifier.userIDs)
	}
}

func TestCreateTaskRejectsOverdueStatus(t *testing.T) {
	now := time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)
	assigneeID := primitive.NewObjectID()
	users := &fakeUserFinder{users: map[string]*models.User{assigneeID.Hex(): testUser(assigneeID)}}
	svc := newTaskService(newFakeTaskRepo(), users, &fakeNotifier{}, now)
	hr := policy.Actor{ID: primitive.NewObjectID().Hex(), Role: policy.RoleHR}

	_, err := svc.CreateTask(context.Background(), hr, CreateTaskInput{
		Title:      "Backdated",
		AssignedTo: assigneeID.Hex(),
		Status:     policy.TaskStatusOverdue,
	})
	if policy.CodeOf(err) != policy.CodeValidationFailed {
		t.Errorf("code = %q, want %q", policy.CodeOf(err), policy.CodeValidationFailed)
	}
}

func TestCreateTaskRequiresPrivilege(t *testing.T) {
	now := time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)
	svc := newTaskService(newFakeTaskRepo(), &fakeUserFinder{}, &fakeNotifier{}, now)

	_, err := svc.CreateTask(context.Background(),
		policy.Actor{ID: primitive.NewObjectID().Hex(), Role: policy.RoleUser},
		CreateTaskInput{Title: "Self assigned"})
	if policy.CodeOf(err) != policy.CodeForbidden {
		t.Errorf("code = %q, want %q", policy.CodeOf(err), policy.CodeForbidden)
	}
}

// Moving a task to completed forces progress to 100 and stamps the
// completion time, whatever progress the caller sent.
func TestUpdateTaskCompletionStamp(t *testing.T) {
	now := time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)
	repo := newFakeTaskRepo()
	assignee := primitive.NewObjectID()
	task := &Task{
		ID:         primitive.NewObjectID(),
		Title:      "Ship release",
		Status:     policy.TaskStatusInProgress,
		Priority:   PriorityHigh,
		AssignedTo: assignee,
		Progress:   60,
	}
	repo.byID[task.ID.Hex()] = task
	svc := newTaskService(repo, &fakeUserFinder{}, &fakeNotifier{}, now)

	status := policy.TaskStatusCompleted
	progress := 70
	got, err := svc.UpdateTask(context.Background(),
		policy.Actor{ID: assignee.Hex(), Role: policy.RoleUser},
		task.ID.Hex(), UpdateTaskInput{Status: &status, Progress: &progress})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Progress != 100 {
		t.Errorf("progress = %d, want 100", got.Progress)
	}
	if got.CompletedAt == nil || !got.CompletedAt.Equal(now) {
		t.Errorf("completed_at = %v, want %v", got.CompletedAt, now)
	}
}

func TestUpdateTaskReassignRequiresPrivilege(t *testing.T) {
	now := time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)
	repo := newFakeTaskRepo()
	assignee := primitive.NewObjectID()
	task := &Task{
		ID:         primitive.NewObjectID(),
		Title:      "Audit accounts",
		Status:     policy.TaskStatusPending,
		Priority:   PriorityMedium,
		AssignedTo: assignee,
	}
	repo.byID[task.ID.Hex()] = task
	svc := newTaskService(repo, &fakeUserFinder{}, &fakeNotifier{}, now)

	other := primitive.NewObjectID().Hex()
	_, err := svc.UpdateTask(context.Background(),
		policy.Actor{ID: assignee.Hex(), Role: policy.RoleUser},
		task.ID.Hex(), UpdateTaskInput{AssignedTo: &other})
	if policy.CodeOf(err) != policy.CodeForbidden {
		t.Errorf("code = %q, want %q", policy.CodeOf(err), policy.CodeForbidden)
	}
}

func TestListTasksScopes(t *testing.T) {
	now := time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)
	repo := newFakeTaskRepo()
	mine := primitive.NewObjectID()
	other := primitive.NewObjectID()
	for i, owner := range []primitive.ObjectID{mine, other, other} {
		task := &Task{ID: primitive.NewObjectID(), Title: "t", Status: policy.TaskStatusPending, AssignedTo: owner, Progress: i}
		repo.byID[task.ID.Hex()] = task
	}
	svc := newTaskService(repo, &fakeUserFinder{}, &fakeNotifier{}, now)

	own, err := svc.ListTasks(context.Background(), policy.Actor{ID: mine.Hex(), Role: policy.RoleUser})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(own) != 1 {
		t.Errorf("regular user sees %d tasks, want 1", len(own))
	}

	all, err := svc.ListTasks(context.Background(), policy.Actor{ID: primitive.NewObjectID().Hex(), Role: policy.RoleAdmin})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("admin sees %d tasks, want 3", len(all))
	}
}

func TestListTasksDerivesOverdue(t *testing.T) {
	now := time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)
	past := now.Add(-48 * time.Hour)
	repo := newFakeTaskRepo()
	assignee := primitive.NewObjectID()
	task := &Task{
		ID:         primitive.NewObjectID(),
		Title:      "Late delivery",
		Status:     policy.TaskStatusInProgress,
		AssignedTo: assignee,
		Deadline:   &past,
	}
	repo.byID[task.ID.Hex()] = task
	svc := newTaskService(repo, &fakeUserFinder{}, &fakeNotifier{}, now)

	got, err := svc.ListTasks(context.Background(), policy.Actor{ID: assignee.Hex(), Role: policy.RoleUser})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || !got[0].IsOverdue {
		t.Error("past-deadline open task should be flagged overdue")
	}
}
