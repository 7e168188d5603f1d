package activity

import (
	"context"
	"strings"
	"time"

	"team-crm/internal/policy"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CreateWorkActivityInput struct {
	Description string
	Category    string
	OccurredAt  time.Time
}

type WorkActivityService interface {
	ListActivities(ctx context.Context, actor policy.Actor, userFilter string) ([]WorkActivity, error)
	CreateActivity(ctx context.Context, actor policy.Actor, input CreateWorkActivityInput) (*WorkActivity, error)
}

type WorkActivityServiceImpl struct {
	ActivityRepo WorkActivityRepository
	Now          func() time.Time
}

func NewWorkActivityService(activityRepo WorkActivityRepository) WorkActivityService {
	return &WorkActivityServiceImpl{
		ActivityRepo: activityRepo,
		Now:          time.Now,
	}
}

func (s *WorkActivityServiceImpl) ListActivities(ctx context.Context, actor policy.Actor, userFilter string) ([]WorkActivity, error) {
	if !actor.Privileged() {
		// Work logs are personal; the user filter is a privileged view.
		return s.ActivityRepo.ListByUser(ctx, actor.ID)
	}
	if userFilter != "" {
		return s.ActivityRepo.ListByUser(ctx, userFilter)
	}
	return s.ActivityRepo.ListAll(ctx)
}

func (s *WorkActivityServiceImpl) CreateActivity(ctx context.Context, actor policy.Actor, input CreateWorkActivityInput) (*WorkActivity, error) {
	if strings.TrimSpace(input.Description) == "" {
		return nil, policy.ValidationFailed("description is required")
	}

	userID, err := primitive.ObjectIDFromHex(actor.ID)
	if err != nil {
		return nil, policy.ValidationFailed("invalid actor id")
	}

	occurredAt := input.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = s.Now()
	}

	w := &WorkActivity{
		ID:          primitive.NewObjectID(),
		UserID:      userID,
		Description: input.Description,
		Category:    input.Category,
		OccurredAt:  occurredAt,
		CreatedAt:   s.Now(),
	}
	if err := s.ActivityRepo.Create(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}
