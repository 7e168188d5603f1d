package notification

import (
	"context"
	"time"

	"team-crm/internal/policy"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationService interface {
	Notify(ctx context.Context, userID, title, message, notifType string) error
	ListMine(ctx context.Context, actor policy.Actor) ([]Notification, error)
	MarkRead(ctx context.Context, actor policy.Actor, id string) error
	MarkAllRead(ctx context.Context, actor policy.Actor) error
}

type NotificationServiceImpl struct {
	NotificationRepo NotificationRepository
	Hub              *Hub
	Now              func() time.Time
}

func NewNotificationService(notificationRepo NotificationRepository, hub *Hub) NotificationService {
	return &NotificationServiceImpl{
		NotificationRepo: notificationRepo,
		Hub:              hub,
		Now:              time.Now,
	}
}

// Notify persists the notification and pushes it to any live websocket
// session of the recipient.
func (s *NotificationServiceImpl) Notify(ctx context.Context, userID, title, message, notifType string) error {
	ownerID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return policy.ValidationFailed("invalid recipient id")
	}
	if notifType == "" {
		notifType = TypeInfo
	}

	n := &Notification{
		ID:        primitive.NewObjectID(),
		UserID:    ownerID,
		Title:     title,
		Message:   message,
		Type:      notifType,
		CreatedAt: s.Now(),
	}
	if err := s.NotificationRepo.Create(ctx, n); err != nil {
		return err
	}

	s.Hub.Push(userID, n)
	return nil
}

func (s *NotificationServiceImpl) ListMine(ctx context.Context, actor policy.Actor) ([]Notification, error) {
	return s.NotificationRepo.ListByUser(ctx, actor.ID)
}

func (s *NotificationServiceImpl) MarkRead(ctx context.Context, actor policy.Actor, id string) error {
	matched, err := s.NotificationRepo.MarkRead(ctx, id, actor.ID)
	if err != nil {
		return err
	}
	if !matched {
		return policy.NotFound("notification not found")
	}
	return nil
}

func (s *NotificationServiceImpl) MarkAllRead(ctx context.Context, actor policy.Actor) error {
	return s.NotificationRepo.MarkAllRead(ctx, actor.ID)
}
