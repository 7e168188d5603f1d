package meeting

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

type fakeMeetingRepo struct {
	byID map[string]*Meeting
}

func newFakeMeetingRepo() *fakeMeetingRepo {
	return &fakeMeetingRepo{byID: make(map[string]*Meeting)}
}

func (r *fakeMeetingRepo) Create(ctx context.Context, m *Meeting) error {
	cp := *m
	r.byID[m.ID.Hex()] = &cp
	return nil
}

func (r *fakeMeetingRepo) FindByID(ctx context.Context, id string) (*Meeting, error) {
	m, ok := r.byID[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *m
	return &cp, nil
}

func (r *fakeMeetingRepo) ListAll(ctx context.Context) ([]Meeting, error) {
	var out []Meeting
	for _, m := range r.byID {
		out = append(out, *m)
	}
	return out, nil
}

func (r *fakeMeetingRepo) ListForUser(ctx context.Context, userID string) ([]Meeting, error) {
	var out []Meeting
	for _, m := range r.byID {
		if m.CreatedBy.Hex() == userID {
			out = append(out, *m)
			continue
		}
		for _, p := range m.Participants {
			if p.Hex() == userID {
				out = append(out, *m)
				break
			}
		}
	}
	return out, nil
}

func (r *fakeMeetingRepo) Update(ctx context.Context, id string, m *Meeting) error {
	cp := *m
	r.byID[id] = &cp
	return nil
}

func (r *fakeMeetingRepo) Delete(ctx context.Context, id string) error {
	delete(r.byID, id)
	return nil
}

type fakeUserFinder struct {
	users map[string]bool
}

func (f *fakeUserFinder) FindByID(ctx context.Context, id string) (*models.User, error) {
	if !f.users[id] {
		return nil, mongo.ErrNoDocuments
	}
	oid, _ := primitive.ObjectIDFromHex(id)
	return &models.User{ID: oid, Role: policy.RoleUser, Active: true}, nil
}

type fakeAudit struct{}

func (fakeAudit) LogChange(ctx context.Context, actor policy.Actor, action, entityType, entityID string, changes map[string]models.Change) error {
	return nil
}

func (fakeAudit) History(ctx context.Context, entityType, entityID string, limit int64) ([]audit.AuditLog, error) {
	return nil, nil
}

type fakeNotifier struct {
	userIDs []string
}

func (n *fakeNotifier) Notify(ctx context.Context, userID, title, message, notifType string) error {
	n.userIDs = append(n.userIDs, userID)
	return nil
}

func newMeetingService(repo *fakeMeetingRepo, users *fakeUserFinder, notifier *fakeNotifier, now time.Time) *MeetingServiceImpl {
	return &MeetingServiceImpl{
		MeetingRepo:  repo,
		UserFinder:   users,
		AuditService: fakeAudit{},
		Notifier:     notifier,
		Now:          func() time.Time { return now },
	}
}

func TestCreateMeeting(t *testing.T) {
	now := time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)
	creator := primitive.NewObjectID()
	p1 := primitive.NewObjectID()
	p2 := primitive.NewObjectID()
	users := &fakeUserFinder{users: map[string]bool{p1.Hex(): true, p2.Hex(): true}}
	notifier := &fakeNotifier{}
	svc := newMeetingService(newFakeMeetingRepo(), users, notifier, now)

	m, err := svc.CreateMeeting(context.Background(),
		policy.Actor{ID: creator.Hex(), Role: policy.RoleUser},
		CreateMeetingInput{
			Title:        "Sprint planning",
			StartTime:    now.Add(time.Hour),
			EndTime:      now.Add(2 * time.Hour),
			Participants: []string{p1.Hex(), p2.Hex(), p1.Hex()},
		})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Status != policy.MeetingStatusScheduled {
		t.Errorf("status = %q, want scheduled", m.Status)
	}
	if len(m.Participants) != 2 {
		t.Errorf("participants = %d, want 2 after dedupe", len(m.Participants))
	}
	if len(notifier.userIDs) != 2 {
		t.Errorf("%d invitations sent, want 2", len(notifier.userIDs))
	}
}

func TestCreateMeetingValidation(t *testing.T) {
	now := time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)
	svc := newMeetingService(newFakeMeetingRepo(), &fakeUserFinder{}, &fakeNotifier{}, now)
	actor := policy.Actor{ID: primitive.NewObjectID().Hex(), Role: policy.RoleUser}

	tests := []struct {
		name  string
		input CreateMeetingInput
	}{
		{name: "missing title", input: CreateMeetingInput{StartTime: now, EndTime: now.Add(time.Hour)}},
		{name: "end before start", input: CreateMeetingInput{Title: "x", StartTime: now.Add(time.Hour), EndTime: now}},
		{name: "zero times", input: CreateMeetingInput{Title: "x"}},
		{name: "unknown participant", input: CreateMeetingInput{
			Title: "x", StartTime: now, EndTime: now.Add(time.Hour),
			Participants: []string{primitive.NewObjectID().Hex()},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateMeeting(context.Background(), actor, tt.input)
			if policy.CodeOf(err) != policy.CodeValidationFailed {
				t.Errorf("code = %q, want %q (err: %v)", policy.CodeOf(err), policy.CodeValidationFailed, err)
			}
		})
	}
}

func TestUpdateMeetingByParticipant(t *testing.T) {
	now := time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)
	repo := newFakeMeetingRepo()
	creator := primitive.NewObjectID()
	participant := primitive.NewObjectID()
	m := &Meeting{
		ID:           primitive.NewObjectID(),
		Title:        "Weekly sync",
		StartTime:    now.Add(time.Hour),
		EndTime:      now.Add(2 * time.Hour),
		Status:       policy.MeetingStatusScheduled,
		CreatedBy:    creator,
		Participants: []primitive.ObjectID{participant},
	}
	repo.byID[m.ID.Hex()] = m
	svc := newMeetingService(repo, &fakeUserFinder{}, &fakeNotifier{}, now)
	actor := policy.Actor{ID: participant.Hex(), Role: policy.RoleUser}

	status := policy.MeetingStatusCompleted
	got, err := svc.UpdateMeeting(context.Background(), actor, m.ID.Hex(), UpdateMeetingInput{Status: &status})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != policy.MeetingStatusCompleted {
		t.Errorf("status = %q, want completed", got.Status)
	}

	err = svc.DeleteMeeting(context.Background(), actor, m.ID.Hex())
	if policy.CodeOf(err) != policy.CodeForbidden {
		t.Errorf("participant delete: code = %q, want %q", policy.CodeOf(err), policy.CodeForbidden)
	}

	if err := svc.DeleteMeeting(context.Background(), policy.Actor{ID: creator.Hex(), Role: policy.RoleUser}, m.ID.Hex()); err != nil {
		t.Errorf("creator delete: %v", err)
	}
}
