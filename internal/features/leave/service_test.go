package leave

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

type fakeLeaveRepo struct {
	byID        map[string]*LeaveRequest
	stampStatus bool // whether UpdateStatusIfPending matches
	stamped     *StatusStamp
}

func newFakeLeaveRepo() *fakeLeaveRepo {
	return &fakeLeaveRepo{byID: make(map[string]*LeaveRequest), stampStatus: true}
}

func (r *fakeLeaveRepo) Create(ctx context.Context, lr *LeaveRequest) error {
	cp := *lr
	r.byID[lr.ID.Hex()] = &cp
	return nil
}

func (r *fakeLeaveRepo) FindByID(ctx context.Context, id string) (*LeaveRequest, error) {
	lr, ok := r.byID[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *lr
	return &cp, nil
}

func (r *fakeLeaveRepo) ListAll(ctx context.Context) ([]LeaveRequest, error) {
	var out []LeaveRequest
	for _, lr := range r.byID {
		out = append(out, *lr)
	}
	return out, nil
}

func (r *fakeLeaveRepo) ListByUser(ctx context.Context, userID string) ([]LeaveRequest, error) {
	var out []LeaveRequest
	for _, lr := range r.byID {
		if lr.UserID.Hex() == userID {
			out = append(out, *lr)
		}
	}
	return out, nil
}

func (r *fakeLeaveRepo) ListByStatus(ctx context.Context, status string) ([]LeaveRequest, error) {
	var out []LeaveRequest
	for _, lr := range r.byID {
		if lr.Status == status {
			out = append(out, *lr)
		}
	}
	return out, nil
}

func (r *fakeLeaveRepo) Update(ctx context.Context, id string, lr *LeaveRequest) error {
	cp := *lr
	r.byID[id] = &cp
	return nil
}

func (r *fakeLeaveRepo) UpdateStatusIfPending(ctx context.Context, id string, stamp StatusStamp) (bool, error) {
	if !r.stampStatus {
		return false, nil
	}
	lr, ok := r.byID[id]
	if !ok || lr.Status != policy.LeaveStatusPending {
		return false, nil
	}
	lr.Status = stamp.Status
	lr.RejectionReason = stamp.RejectionReason
	r.stamped = &stamp
	return true, nil
}

func (r *fakeLeaveRepo) Delete(ctx context.Context, id string) error {
	delete(r.byID, id)
	return nil
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
	titles  []string
}

func (n *fakeNotifier) Notify(ctx context.Context, userID, title, message, notifType string) error {
	n.userIDs = append(n.userIDs, userID)
	n.titles = append(n.titles, title)
	return nil
}

func newLeaveService(repo *fakeLeaveRepo, notifier *fakeNotifier, now time.Time) *LeaveServiceImpl {
	return &LeaveServiceImpl{
		LeaveRepo:    repo,
		AuditService: &fakeAudit{},
		Notifier:     notifier,
		Now:          func() time.Time { return now },
	}
}

func TestDurationDays(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }

	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int
	}{
		{name: "inclusive range", start: day(1), end: day(3), want: 3},
		{name: "single day", start: day(5), end: day(5), want: 1},
		{name: "ignores clock time", start: day(1).Add(23 * time.Hour), end: day(2), want: 2},
		{name: "inverted is zero", start: day(3), end: day(1), want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DurationDays(tt.start, tt.end); got != tt.want {
				t.Errorf("DurationDays() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCreateLeaveRequestDefaults(t *testing.T) {
	now := time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)
	repo := newFakeLeaveRepo()
	svc := newLeaveService(repo, &fakeNotifier{}, now)
	actor := policy.Actor{ID: primitive.NewObjectID().Hex(), Role: policy.RoleUser}

	lr, err := svc.CreateLeaveRequest(context.Background(), actor, CreateLeaveInput{
		StartDate: now.AddDate(0, 0, 1),
		EndDate:   now.AddDate(0, 0, 3),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lr.Status != policy.LeaveStatusPending {
		t.Errorf("status = %q, want %q", lr.Status, policy.LeaveStatusPending)
	}
	if lr.LeaveType != DefaultLeaveType {
		t.Errorf("leave_type = %q, want %q", lr.LeaveType, DefaultLeaveType)
	}
	if lr.DurationDays != 3 {
		t.Errorf("duration_days = %d, want 3", lr.DurationDays)
	}
}

func TestCreateLeaveRequestPastStart(t *testing.T) {
	now := time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)
	svc := newLeaveService(newFakeLeaveRepo(), &fakeNotifier{}, now)
	actor := policy.Actor{ID: primitive.NewObjectID().Hex(), Role: policy.RoleUser}

	_, err := svc.CreateLeaveRequest(context.Background(), actor, CreateLeaveInput{
		StartDate: now.AddDate(0, 0, -2),
		EndDate:   now.AddDate(0, 0, 1),
	})
	if policy.CodeOf(err) != policy.CodeValidationFailed {
		t.Errorf("code = %q, want %q", policy.CodeOf(err), policy.CodeValidationFailed)
	}
}

func TestUpdateLeaveRequestAfterDecision(t *testing.T) {
	now := time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)
	repo := newFakeLeaveRepo()
	svc := newLeaveService(repo, &fakeNotifier{}, now)

	owner := primitive.NewObjectID()
	lr := &LeaveRequest{
		ID:        primitive.NewObjectID(),
		UserID:    owner,
		StartDate: now.AddDate(0, 0, 1),
		EndDate:   now.AddDate(0, 0, 2),
		Status:    policy.LeaveStatusApproved,
	}
	repo.byID[lr.ID.Hex()] = lr

	reason := "family event"
	_, err := svc.UpdateLeaveRequest(context.Background(),
		policy.Actor{ID: owner.Hex(), Role: policy.RoleUser},
		lr.ID.Hex(), UpdateLeaveInput{Reason: &reason})
	if policy.CodeOf(err) != policy.CodeInvalidTransition {
		t.Errorf("code = %q, want %q", policy.CodeOf(err), policy.CodeInvalidTransition)
	}
}

// Leave content is owner-only; being HR does not grant edit rights on
// someone else's request.
func TestUpdateLeaveRequestPrivilegedNonOwner(t *testing.T) {
	now := time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)
	repo := newFakeLeaveRepo()
	svc := newLeaveService(repo, &fakeNotifier{}, now)

	lr := &LeaveRequest{
		ID:        primitive.NewObjectID(),
		UserID:    primitive.NewObjectID(),
		StartDate: now.AddDate(0, 0, 1),
		EndDate:   now.AddDate(0, 0, 2),
		Status:    policy.LeaveStatusPending,
	}
	repo.byID[lr.ID.Hex()] = lr

	reason := "adjusted"
	_, err := svc.UpdateLeaveRequest(context.Background(),
		policy.Actor{ID: primitive.NewObjectID().Hex(), Role: policy.RoleHR},
		lr.ID.Hex(), UpdateLeaveInput{Reason: &reason})
	if policy.CodeOf(err) != policy.CodeForbidden {
		t.Errorf("code = %q, want %q", policy.CodeOf(err), policy.CodeForbidden)
	}
}

func TestUpdateStatusApproves(t *testing.T) {
	now := time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)
	repo := newFakeLeaveRepo()
	notifier := &fakeNotifier{}
	svc := newLeaveService(repo, notifier, now)

	owner := primitive.NewObjectID()
	lr := &LeaveRequest{
		ID:        primitive.NewObjectID(),
		UserID:    owner,
		StartDate: now.AddDate(0, 0, 1),
		EndDate:   now.AddDate(0, 0, 2),
		Status:    policy.LeaveStatusPending,
	}
	repo.byID[lr.ID.Hex()] = lr

	hr := policy.Actor{ID: primitive.NewObjectID().Hex(), Role: policy.RoleHR}
	got, err := svc.UpdateStatus(context.Background(), hr, lr.ID.Hex(), policy.LeaveStatusApproved, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != policy.LeaveStatusApproved {
		t.Errorf("status = %q, want approved", got.Status)
	}
	if got.ApprovedBy == nil || got.ApprovedBy.Hex() != hr.ID {
		t.Error("approved_by not stamped with the deciding actor")
	}
	if got.ApprovedAt == nil {
		t.Error("approved_at not stamped")
	}
	if len(notifier.userIDs) != 1 || notifier.userIDs[0] != owner.Hex() {
		t.Errorf("owner not notified, got %v", notifier.userIDs)
	}
}

// Two approvers racing on the same request: the second conditional write
// matches nothing and surfaces as a conflict naming the settled status.
func TestUpdateStatusDoubleDecision(t *testing.T) {
	now := time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)
	repo := newFakeLeaveRepo()
	svc := newLeaveService(repo, &fakeNotifier{}, now)

	lr := &LeaveRequest{
		ID:        primitive.NewObjectID(),
		UserID:    primitive.NewObjectID(),
		StartDate: now.AddDate(0, 0, 1),
		EndDate:   now.AddDate(0, 0, 2),
		Status:    policy.LeaveStatusPending,
	}
	repo.byID[lr.ID.Hex()] = lr
	// Another decision lands between the read and the conditional write.
	repo.stampStatus = false

	hr := policy.Actor{ID: primitive.NewObjectID().Hex(), Role: policy.RoleHR}
	_, err := svc.UpdateStatus(context.Background(), hr, lr.ID.Hex(), policy.LeaveStatusApproved, "")
	if policy.CodeOf(err) != policy.CodeConflict {
		t.Errorf("code = %q, want %q (err: %v)", policy.CodeOf(err), policy.CodeConflict, err)
	}
}

func TestPendingRequiresPrivilege(t *testing.T) {
	now := time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)
	svc := newLeaveService(newFakeLeaveRepo(), &fakeNotifier{}, now)

	_, err := svc.Pending(context.Background(), policy.Actor{ID: primitive.NewObjectID().Hex(), Role: policy.RoleUser})
	if policy.CodeOf(err) != policy.CodeForbidden {
		t.Errorf("code = %q, want %q", policy.CodeOf(err), policy.CodeForbidden)
	}
}
