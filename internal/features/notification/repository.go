package notification

import (
	"context"

	"team-crm/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *Notification) error
	ListByUser(ctx context.Context, userID string) ([]Notification, error)
	MarkRead(ctx context.Context, id, userID string) (bool, error)
	MarkAllRead(ctx context.Context, userID string) error
}

type NotificationRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewNotificationRepository(mongodb *database.MongodbDB) NotificationRepository {
	return &NotificationRepositoryImpl{
		Collection: mongodb.DB.Collection("notifications"),
	}
}

func (r *NotificationRepositoryImpl) Create(ctx context.Context, n *Notification) error {
	_, err := r.Collection.InsertOne(ctx, n)
	return err
}

func (r *NotificationRepositoryImpl) ListByUser(ctx context.Context, userID string) ([]Notification, error) {
	objectID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return []Notification{}, nil
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(100)
	cursor, err := r.Collection.Find(ctx, bson.M{"user_id": objectID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var notifications []Notification
	if err = cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkRead flips the read flag, scoped to the owner so one user cannot touch
// another's notifications. Reports whether a row matched.
func (r *NotificationRepositoryImpl) MarkRead(ctx context.Context, id, userID string) (bool, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}
	ownerID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return false, nil
	}

	res, err := r.Collection.UpdateOne(ctx,
		bson.M{"_id": objectID, "user_id": ownerID},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (r *NotificationRepositoryImpl) MarkAllRead(ctx context.Context, userID string) error {
	ownerID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil
	}
	_, err = r.Collection.UpdateMany(ctx,
		bson.M{"user_id": ownerID, "read": false},
		bson.M{"$set": bson.M{"read": true}},
	)
	return err
}
