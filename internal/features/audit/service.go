package audit

import (
	"context"
	"time"

	common_models "team-crm/internal/common/models"
	"team-crm/internal/policy"
)

type AuditService interface {
	LogChange(ctx context.Context, actor policy.Actor, action, entityType, entityID string, changes map[string]common_models.Change) error
	History(ctx context.Context, entityType, entityID string, limit int64) ([]AuditLog, error)
}

type AuditServiceImpl struct {
	Repo AuditRepository
}

func NewAuditService(repo AuditRepository) AuditService {
	return &AuditServiceImpl{Repo: repo}
}

func (s *AuditServiceImpl) LogChange(ctx context.Context, actor policy.Actor, action, entityType, entityID string, changes map[string]common_models.Change) error {
	entry := &AuditLog{
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		ActorID:    actor.ID,
		Changes:    changes,
		CreatedAt:  time.Now(),
	}
	return s.Repo.Create(ctx, entry)
}

func (s *AuditServiceImpl) History(ctx context.Context, entityType, entityID string, limit int64) ([]AuditLog, error) {
	return s.Repo.ListByEntity(ctx, entityType, entityID, limit)
}
