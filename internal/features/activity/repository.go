package activity

import (
	"context"

	"team-crm/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type WorkActivityRepository interface {
	Create(ctx context.Context, w *WorkActivity) error
	ListAll(ctx context.Context) ([]WorkActivity, error)
	ListByUser(ctx context.Context, userID string) ([]WorkActivity, error)
}

type WorkActivityRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewWorkActivityRepository(mongodb *database.MongodbDB) WorkActivityRepository {
	return &WorkActivityRepositoryImpl{
		Collection: mongodb.DB.Collection("work_activities"),
	}
}

func (r *WorkActivityRepositoryImpl) Create(ctx context.Context, w *WorkActivity) error {
	_, err := r.Collection.InsertOne(ctx, w)
	return err
}

func (r *WorkActivityRepositoryImpl) ListAll(ctx context.Context) ([]WorkActivity, error) {
	return r.list(ctx, bson.M{})
}

func (r *WorkActivityRepositoryImpl) ListByUser(ctx context.Context, userID string) ([]WorkActivity, error) {
	objectID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return []WorkActivity{}, nil
	}
	return r.list(ctx, bson.M{"user_id": objectID})
}

func (r *WorkActivityRepositoryImpl) list(ctx context.Context, filter bson.M) ([]WorkActivity, error) {
	opts := options.Find().SetSort(bson.D{{Key: "occurred_at", Value: -1}})
	cursor, err := r.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var activities []WorkActivity
	if err = cursor.All(ctx, &activities); err != nil {
		return nil, err
	}
	return activities, nil
}
