package audit

import (
	"context"
	"time"

	"team-crm/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	common_models "team-crm/internal/common/models"
)

// AuditLog records a single entity mutation.
type AuditLog struct {
	ID         primitive.ObjectID              `bson:"_id,omitempty" json:"id"`
	Action     string                          `bson:"action" json:"action"`
	EntityType string                          `bson:"entity_type" json:"entity_type"`
	EntityID   string                          `bson:"entity_id" json:"entity_id"`
	ActorID    string                          `bson:"actor_id,omitempty" json:"actor_id,omitempty"`
	Changes    map[string]common_models.Change `bson:"changes,omitempty" json:"changes,omitempty"`
	CreatedAt  time.Time                       `bson:"created_at" json:"created_at"`
}

type AuditRepository interface {
	Create(ctx context.Context, entry *AuditLog) error
	ListByEntity(ctx context.Context, entityType, entityID string, limit int64) ([]AuditLog, error)
}

type AuditRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewAuditRepository(mongodb *database.MongodbDB) AuditRepository {
	return &AuditRepositoryImpl{
		Collection: mongodb.DB.Collection("audit_logs"),
	}
}

func (r *AuditRepositoryImpl) Create(ctx context.Context, entry *AuditLog) error {
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	_, err := r.Collection.InsertOne(ctx, entry)
	return err
}

func (r *AuditRepositoryImpl) ListByEntity(ctx context.Context, entityType, entityID string, limit int64) ([]AuditLog, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := r.Collection.Find(ctx, bson.M{"entity_type": entityType, "entity_id": entityID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []AuditLog
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
