package meeting

import (
	"context"
	"errors"
	"strings"
	"time"

	"team-crm/internal/common/models"
	"team-crm/internal/features/audit"
	"team-crm/internal/policy"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// UserFinder resolves participant IDs; satisfied by user.UserRepository.
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// Notifier pushes a notification to a user; satisfied by the notification service.
type Notifier interface {
	Notify(ctx context.Context, userID, title, message, notifType string) error
}

type CreateMeetingInput struct {
	Title        string
	Description  string
	Location     string
	MeetingLink  string
	StartTime    time.Time
	EndTime      time.Time
	Participants []string
}

type UpdateMeetingInput struct {
	Title        *string
	Description  *string
	Location     *string
	MeetingLink  *string
	StartTime    *time.Time
	EndTime      *time.Time
	Status       *string
	Participants []string
}

type MeetingService interface {
	ListMeetings(ctx context.Context, actor policy.Actor) ([]Meeting, error)
	GetMeeting(ctx context.Context, actor policy.Actor, id string) (*Meeting, error)
	CreateMeeting(ctx context.Context, actor policy.Actor, input CreateMeetingInput) (*Meeting, error)
	UpdateMeeting(ctx context.Context, actor policy.Actor, id string, input UpdateMeetingInput) (*Meeting, error)
	DeleteMeeting(ctx context.Context, actor policy.Actor, id string) error
}

type MeetingServiceImpl struct {
	MeetingRepo  MeetingRepository
	UserFinder   UserFinder
	AuditService audit.AuditService
	Notifier     Notifier
	Now          func() time.Time
}

func NewMeetingService(meetingRepo MeetingRepository, userFinder UserFinder, auditService audit.AuditService, notifier Notifier) MeetingService {
	return &MeetingServiceImpl{
		MeetingRepo:  meetingRepo,
		UserFinder:   userFinder,
		AuditService: auditService,
		Notifier:     notifier,
		Now:          time.Now,
	}
}

func (s *MeetingServiceImpl) ListMeetings(ctx context.Context, actor policy.Actor) ([]Meeting, error) {
	if actor.Privileged() {
		return s.MeetingRepo.ListAll(ctx)
	}
	return s.MeetingRepo.ListForUser(ctx, actor.ID)
}

func (s *MeetingServiceImpl) GetMeeting(ctx context.Context, actor policy.Actor, id string) (*Meeting, error) {
	m, err := s.findMeeting(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actor, policy.ActionView, policy.KindMeeting, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *MeetingServiceImpl) CreateMeeting(ctx context.Context, actor policy.Actor, input CreateMeetingInput) (*Meeting, error) {
	if err := policy.Authorize(actor, policy.ActionCreate, policy.KindMeeting, nil); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, policy.ValidationFailed("title is required")
	}
	if input.StartTime.IsZero() || input.EndTime.IsZero() {
		return nil, policy.ValidationFailed("start_time and end_time are required")
	}
	if !input.EndTime.After(input.StartTime) {
		return nil, policy.ValidationFailed("end_time must be after start_time")
	}

	creatorID, err := primitive.ObjectIDFromHex(actor.ID)
	if err != nil {
		return nil, policy.ValidationFailed("invalid actor id")
	}

	participants, err := s.resolveParticipants(ctx, input.Participants)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	m := &Meeting{
		ID:           primitive.NewObjectID(),
		Title:        input.Title,
		Description:  input.Description,
		Location:     input.Location,
		MeetingLink:  input.MeetingLink,
		StartTime:    input.StartTime,
		EndTime:      input.EndTime,
		Status:       policy.MeetingStatusScheduled,
		CreatedBy:    creatorID,
		Participants: participants,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.MeetingRepo.Create(ctx, m); err != nil {
		return nil, err
	}

	changes := map[string]models.Change{
		"title":  {New: m.Title},
		"status": {New: m.Status},
	}
	_ = s.AuditService.LogChange(ctx, actor, models.AuditActionCreate, "meeting", m.ID.Hex(), changes)

	for _, p := range m.Participants {
		if p.Hex() == actor.ID {
			continue
		}
		_ = s.Notifier.Notify(ctx, p.Hex(), "Meeting invitation",
			"You have been invited to \""+m.Title+"\"", "info")
	}
	return m, nil
}

func (s *MeetingServiceImpl) UpdateMeeting(ctx context.Context, actor policy.Actor, id string, input UpdateMeetingInput) (*Meeting, error) {
	m, err := s.findMeeting(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actor, policy.ActionUpdate, policy.KindMeeting, m); err != nil {
		return nil, err
	}

	changes := make(map[string]models.Change)
	if input.Title != nil && *input.Title != m.Title {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, policy.ValidationFailed("title cannot be blank")
		}
		changes["title"] = models.Change{Old: m.Title, New: *input.Title}
		m.Title = *input.Title
	}
	if input.Description != nil && *input.Description != m.Description {
		changes["description"] = models.Change{Old: m.Description, New: *input.Description}
		m.Description = *input.Description
	}
	if input.Location != nil && *input.Location != m.Location {
		changes["location"] = models.Change{Old: m.Location, New: *input.Location}
		m.Location = *input.Location
	}
	if input.MeetingLink != nil && *input.MeetingLink != m.MeetingLink {
		changes["meeting_link"] = models.Change{Old: m.MeetingLink, New: *input.MeetingLink}
		m.MeetingLink = *input.MeetingLink
	}
	if input.StartTime != nil {
		changes["start_time"] = models.Change{Old: m.StartTime, New: *input.StartTime}
		m.StartTime = *input.StartTime
	}
	if input.EndTime != nil {
		changes["end_time"] = models.Change{Old: m.EndTime, New: *input.EndTime}
		m.EndTime = *input.EndTime
	}
	if !m.EndTime.After(m.StartTime) {
		return nil, policy.ValidationFailed("end_time must be after start_time")
	}
	if input.Status != nil && *input.Status != m.Status {
		if err := policy.CheckMeetingStatus(*input.Status); err != nil {
			return nil, err
		}
		changes["status"] = models.Change{Old: m.Status, New: *input.Status}
		m.Status = *input.Status
	}
	if input.Participants != nil {
		participants, err := s.resolveParticipants(ctx, input.Participants)
		if err != nil {
			return nil, err
		}
		changes["participants"] = models.Change{Old: len(m.Participants), New: len(participants)}
		m.Participants = participants
	}

	m.UpdatedAt = s.Now()
	if err := s.MeetingRepo.Update(ctx, id, m); err != nil {
		return nil, err
	}

	if len(changes) > 0 {
		_ = s.AuditService.LogChange(ctx, actor, models.AuditActionUpdate, "meeting", id, changes)
	}
	return m, nil
}

func (s *MeetingServiceImpl) DeleteMeeting(ctx context.Context, actor policy.Actor, id string) error {
	m, err := s.findMeeting(ctx, id)
	if err != nil {
		return err
	}
	if err := policy.Authorize(actor, policy.ActionDelete, policy.KindMeeting, m); err != nil {
		return err
	}

	if err := s.MeetingRepo.Delete(ctx, id); err != nil {
		return err
	}

	changes := map[string]models.Change{"deleted": {Old: false, New: true}}
	_ = s.AuditService.LogChange(ctx, actor, models.AuditActionDelete, "meeting", id, changes)

	for _, p := range m.Participants {
		if p.Hex() == actor.ID {
			continue
		}
		_ = s.Notifier.Notify(ctx, p.Hex(), "Meeting cancelled",
			"\""+m.Title+"\" has been removed from the calendar", "warning")
	}
	return nil
}

func (s *MeetingServiceImpl) resolveParticipants(ctx context.Context, ids []string) ([]primitive.ObjectID, error) {
	participants := make([]primitive.ObjectID, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true

		objectID, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return nil, policy.ValidationFailed("invalid participant id: " + id)
		}
		if _, err := s.UserFinder.FindByID(ctx, id); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, policy.ValidationFailed("participant does not exist: " + id)
			}
			return nil, err
		}
		participants = append(participants, objectID)
	}
	return participants, nil
}

func (s *MeetingServiceImpl) findMeeting(ctx context.Context, id string) (*Meeting, error) {
	m, err := s.MeetingRepo.FindByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, policy.NotFound("meeting not found")
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}
