package sales

import (
	"context"
	"time"

	"team-crm/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ClientRepository interface {
	Create(ctx context.Context, client *Client) error
	FindByID(ctx context.Context, id string) (*Client, error)
	ListAll(ctx context.Context) ([]Client, error)
	ListByAssignee(ctx context.Context, userID string) ([]Client, error)
	Update(ctx context.Context, id string, client *Client) error
	Delete(ctx context.Context, id string) error
	CountByStatus(ctx context.Context) (map[string]FunnelStage, error)
}

type FollowUpRepository interface {
	Create(ctx context.Context, fu *FollowUp) error
	FindByID(ctx context.Context, id string) (*FollowUp, error)
	ListAll(ctx context.Context) ([]FollowUp, error)
	ListByClient(ctx context.Context, clientID string) ([]FollowUp, error)
	ListDue(ctx context.Context, before time.Time) ([]FollowUp, error)
	CountPending(ctx context.Context) (int64, error)
	Update(ctx context.Context, id string, fu *FollowUp) error
	Delete(ctx context.Context, id string) error
}

type SalesActivityRepository interface {
	Create(ctx context.Context, a *SalesActivity) error
	FindByID(ctx context.Context, id string) (*SalesActivity, error)
	ListAll(ctx context.Context) ([]SalesActivity, error)
	ListByClient(ctx context.Context, clientID string) ([]SalesActivity, error)
	Update(ctx context.Context, id string, a *SalesActivity) error
	Delete(ctx context.Context, id string) error
}

type ClientRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewClientRepository(mongodb *database.MongodbDB) ClientRepository {
	return &ClientRepositoryImpl{
		Collection: mongodb.DB.Collection("clients"),
	}
}

func (r *ClientRepositoryImpl) Create(ctx context.Context, client *Client) error {
	_, err := r.Collection.InsertOne(ctx, client)
	return err
}

func (r *ClientRepositoryImpl) FindByID(ctx context.Context, id string) (*Client, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, mongo.ErrNoDocuments
	}
	var client Client
	if err := r.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&client); err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *ClientRepositoryImpl) ListAll(ctx context.Context) ([]Client, error) {
	return r.list(ctx, bson.M{})
}

func (r *ClientRepositoryImpl) ListByAssignee(ctx context.Context, userID string) ([]Client, error) {
	objectID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return []Client{}, nil
	}
	return r.list(ctx, bson.M{"assigned_to": objectID})
}

func (r *ClientRepositoryImpl) list(ctx context.Context, filter bson.M) ([]Client, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var clients []Client
	if err = cursor.All(ctx, &clients); err != nil {
		return nil, err
	}
	return clients, nil
}

func (r *ClientRepositoryImpl) Update(ctx context.Context, id string, client *Client) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	set := bson.M{
		"client_name":  client.ClientName,
		"company_name": client.CompanyName,
		"email":        client.Email,
		"phone":        client.Phone,
		"status":       client.Status,
		"deal_value":   client.DealValue,
		"services":     client.Services,
		"notes":        client.Notes,
		"assigned_to":  client.AssignedTo,
		"updated_at":   client.UpdatedAt,
	}
	if client.ClosedDate != nil {
		set["closed_date"] = client.ClosedDate
	}

	_, err = r.Collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": set})
	return err
}

func (r *ClientRepositoryImpl) Delete(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.Collection.DeleteOne(ctx, bson.M{"_id": objectID})
	return err
}

// CountByStatus aggregates the funnel: document count and deal value per stage.
func (r *ClientRepositoryImpl) CountByStatus(ctx context.Context) (map[string]FunnelStage, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":        "$status",
			"count":      bson.M{"$sum": 1},
			"deal_value": bson.M{"$sum": "$deal_value"},
		}}},
	}
	cursor, err := r.Collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Status    string  `bson:"_id"`
		Count     int64   `bson:"count"`
		DealValue float64 `bson:"deal_value"`
	}
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	stages := make(map[string]FunnelStage, len(rows))
	for _, row := range rows {
		stages[row.Status] = FunnelStage{Status: row.Status, Count: row.Count, DealValue: row.DealValue}
	}
	return stages, nil
}

type FollowUpRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewFollowUpRepository(mongodb *database.MongodbDB) FollowUpRepository {
	return &FollowUpRepositoryImpl{
		Collection: mongodb.DB.Collection("follow_ups"),
	}
}

func (r *FollowUpRepositoryImpl) Create(ctx context.Context, fu *FollowUp) error {
	_, err := r.Collection.InsertOne(ctx, fu)
	return err
}

func (r *FollowUpRepositoryImpl) FindByID(ctx context.Context, id string) (*FollowUp, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, mongo.ErrNoDocuments
	}
	var fu FollowUp
	if err := r.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&fu); err != nil {
		return nil, err
	}
	return &fu, nil
}

func (r *FollowUpRepositoryImpl) ListAll(ctx context.Context) ([]FollowUp, error) {
	return r.list(ctx, bson.M{})
}

func (r *FollowUpRepositoryImpl) ListByClient(ctx context.Context, clientID string) ([]FollowUp, error) {
	objectID, err := primitive.ObjectIDFromHex(clientID)
	if err != nil {
		return []FollowUp{}, nil
	}
	return r.list(ctx, bson.M{"client_id": objectID})
}

// ListDue returns incomplete follow-ups whose due date has passed.
func (r *FollowUpRepositoryImpl) ListDue(ctx context.Context, before time.Time) ([]FollowUp, error) {
	return r.list(ctx, bson.M{
		"completed": false,
		"due_date":  bson.M{"$lte": before},
	})
}

func (r *FollowUpRepositoryImpl) CountPending(ctx context.Context) (int64, error) {
	return r.Collection.CountDocuments(ctx, bson.M{"completed": false})
}

func (r *FollowUpRepositoryImpl) list(ctx context.Context, filter bson.M) ([]FollowUp, error) {
	opts := options.Find().SetSort(bson.D{{Key: "due_date", Value: 1}})
	cursor, err := r.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var followUps []FollowUp
	if err = cursor.All(ctx, &followUps); err != nil {
		return nil, err
	}
	return followUps, nil
}

func (r *FollowUpRepositoryImpl) Update(ctx context.Context, id string, fu *FollowUp) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	update := bson.M{
		"$set": bson.M{
			"due_date":   fu.DueDate,
			"notes":      fu.Notes,
			"completed":  fu.Completed,
			"updated_at": fu.UpdatedAt,
		},
	}

	_, err = r.Collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	return err
}

func (r *FollowUpRepositoryImpl) Delete(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.Collection.DeleteOne(ctx, bson.M{"_id": objectID})
	return err
}

type SalesActivityRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewSalesActivityRepository(mongodb *database.MongodbDB) SalesActivityRepository {
	return &SalesActivityRepositoryImpl{
		Collection: mongodb.DB.Collection("sales_activities"),
	}
}

func (r *SalesActivityRepositoryImpl) Create(ctx context.Context, a *SalesActivity) error {
	_, err := r.Collection.InsertOne(ctx, a)
	return err
}

func (r *SalesActivityRepositoryImpl) FindByID(ctx context.Context, id string) (*SalesActivity, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, mongo.ErrNoDocuments
	}
	var a SalesActivity
	if err := r.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *SalesActivityRepositoryImpl) ListAll(ctx context.Context) ([]SalesActivity, error) {
	return r.list(ctx, bson.M{})
}

func (r *SalesActivityRepositoryImpl) ListByClient(ctx context.Context, clientID string) ([]SalesActivity, error) {
	objectID, err := primitive.ObjectIDFromHex(clientID)
	if err != nil {
		return []SalesActivity{}, nil
	}
	return r.list(ctx, bson.M{"client_id": objectID})
}

func (r *SalesActivityRepositoryImpl) list(ctx context.Context, filter bson.M) ([]SalesActivity, error) {
	opts := options.Find().SetSort(bson.D{{Key: "occurred_at", Value: -1}})
	cursor, err := r.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var activities []SalesActivity
	if err = cursor.All(ctx, &activities); err != nil {
		return nil, err
	}
	return activities, nil
}

func (r *SalesActivityRepositoryImpl) Update(ctx context.Context, id string, a *SalesActivity) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	update := bson.M{
		"$set": bson.M{
			"activity_type": a.ActivityType,
			"description":   a.Description,
			"occurred_at":   a.OccurredAt,
			"updated_at":    a.UpdatedAt,
		},
	}

	_, err = r.Collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	return err
}

func (r *SalesActivityRepositoryImpl) Delete(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.Collection.DeleteOne(ctx, bson.M{"_id": objectID})
	return err
}
