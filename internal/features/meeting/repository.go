package meeting

import (
	"context"

	"team-crm/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MeetingRepository interface {
	Create(ctx context.Context, m *Meeting) error
	FindByID(ctx context.Context, id string) (*Meeting, error)
	ListAll(ctx context.Context) ([]Meeting, error)
	ListForUser(ctx context.Context, userID string) ([]Meeting, error)
	Update(ctx context.Context, id string, m *Meeting) error
	Delete(ctx context.Context, id string) error
}

type MeetingRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewMeetingRepository(mongodb *database.MongodbDB) MeetingRepository {
	return &MeetingRepositoryImpl{
		Collection: mongodb.DB.Collection("meetings"),
	}
}

func (r *MeetingRepositoryImpl) Create(ctx context.Context, m *Meeting) error {
	_, err := r.Collection.InsertOne(ctx, m)
	return err
}

func (r *MeetingRepositoryImpl) FindByID(ctx context.Context, id string) (*Meeting, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, mongo.ErrNoDocuments
	}
	var m Meeting
	if err := r.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MeetingRepositoryImpl) ListAll(ctx context.Context) ([]Meeting, error) {
	return r.list(ctx, bson.M{})
}

// ListForUser fetches meetings where the user is the creator or a participant.
func (r *MeetingRepositoryImpl) ListForUser(ctx context.Context, userID string) ([]Meeting, error) {
	objectID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return []Meeting{}, nil
	}
	return r.list(ctx, bson.M{"$or": []bson.M{
		{"created_by": objectID},
		{"participants": objectID},
	}})
}

func (r *MeetingRepositoryImpl) list(ctx context.Context, filter bson.M) ([]Meeting, error) {
	opts := options.Find().SetSort(bson.D{{Key: "start_time", Value: -1}})
	cursor, err := r.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var meetings []Meeting
	if err = cursor.All(ctx, &meetings); err != nil {
		return nil, err
	}
	return meetings, nil
}

func (r *MeetingRepositoryImpl) Update(ctx context.Context, id string, m *Meeting) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	update := bson.M{
		"$set": bson.M{
			"title":        m.Title,
			"description":  m.Description,
			"location":     m.Location,
			"meeting_link": m.MeetingLink,
			"start_time":   m.StartTime,
			"end_time":     m.EndTime,
			"status":       m.Status,
			"participants": m.Participants,
			"updated_at":   m.UpdatedAt,
		},
	}

	_, err = r.Collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	return err
}

func (r *MeetingRepositoryImpl) Delete(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.Collection.DeleteOne(ctx, bson.M{"_id": objectID})
	return err
}
