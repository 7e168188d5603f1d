package leave

import (
	"context"
	"time"

	"team-crm/internal/database"
	"team-crm/internal/policy"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// StatusStamp is the decision payload applied by the conditional status update.
type StatusStamp struct {
	Status          string
	RejectionReason string
	ApprovedBy      primitive.ObjectID
	ApprovedAt      time.Time
}

type LeaveRepository interface {
	Create(ctx context.Context, lr *LeaveRequest) error
	FindByID(ctx context.Context, id string) (*LeaveRequest, error)
	ListAll(ctx context.Context) ([]LeaveRequest, error)
	ListByUser(ctx context.Context, userID string) ([]LeaveRequest, error)
	ListByStatus(ctx context.Context, status string) ([]LeaveRequest, error)
	Update(ctx context.Context, id string, lr *LeaveRequest) error
	// UpdateStatusIfPending applies the decision only when the stored status is
	// still pending, and reports whether a row matched. This is the conditional
	// write that turns a double-approval race into a conflict.
	UpdateStatusIfPending(ctx context.Context, id string, stamp StatusStamp) (bool, error)
	Delete(ctx context.Context, id string) error
}

type LeaveRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewLeaveRepository(mongodb *database.MongodbDB) LeaveRepository {
	return &LeaveRepositoryImpl{
		Collection: mongodb.DB.Collection("leave_requests"),
	}
}

func (r *LeaveRepositoryImpl) Create(ctx context.Context, lr *LeaveRequest) error {
	_, err := r.Collection.InsertOne(ctx, lr)
	return err
}

func (r *LeaveRepositoryImpl) FindByID(ctx context.Context, id string) (*LeaveRequest, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, mongo.ErrNoDocuments
	}
	var lr LeaveRequest
	if err := r.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&lr); err != nil {
		return nil, err
	}
	return &lr, nil
}

func (r *LeaveRepositoryImpl) ListAll(ctx context.Context) ([]LeaveRequest, error) {
	return r.list(ctx, bson.M{})
}

func (r *LeaveRepositoryImpl) ListByUser(ctx context.Context, userID string) ([]LeaveRequest, error) {
	objectID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return []LeaveRequest{}, nil
	}
	return r.list(ctx, bson.M{"user_id": objectID})
}

func (r *LeaveRepositoryImpl) ListByStatus(ctx context.Context, status string) ([]LeaveRequest, error) {
	return r.list(ctx, bson.M{"status": status})
}

func (r *LeaveRepositoryImpl) list(ctx context.Context, filter bson.M) ([]LeaveRequest, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var requests []LeaveRequest
	if err = cursor.All(ctx, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *LeaveRepositoryImpl) Update(ctx context.Context, id string, lr *LeaveRequest) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	update := bson.M{
		"$set": bson.M{
			"start_date": lr.StartDate,
			"end_date":   lr.EndDate,
			"leave_type": lr.LeaveType,
			"reason":     lr.Reason,
			"updated_at": lr.UpdatedAt,
		},
	}

	_, err = r.Collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	return err
}

func (r *LeaveRepositoryImpl) UpdateStatusIfPending(ctx context.Context, id string, stamp StatusStamp) (bool, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, mongo.ErrNoDocuments
	}

	set := bson.M{
		"status":      stamp.Status,
		"approved_by": stamp.ApprovedBy,
		"approved_at": stamp.ApprovedAt,
		"updated_at":  stamp.ApprovedAt,
	}
	if stamp.RejectionReason != "" {
		set["rejection_reason"] = stamp.RejectionReason
	}

	res, err := r.Collection.UpdateOne(ctx,
		bson.M{"_id": objectID, "status": policy.LeaveStatusPending},
		bson.M{"$set": set},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (r *LeaveRepositoryImpl) Delete(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.Collection.DeleteOne(ctx, bson.M{"_id": objectID})
	return err
}
