package task

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

type TaskRepository interface {
	Create(ctx context.Context, task *Task) error
	FindByID(ctx context.Context, id string) (*Task, error)
	ListAll(ctx context.Context) ([]Task, error)
	ListByAssignee(ctx context.Context, userID string) ([]Task, error)
	ListOverdue(ctx context.Context, now time.Time) ([]Task, error)
	Update(ctx context.Context, id string, task *Task) error
	AddNote(ctx context.Context, id string, note TaskNote) error
	Delete(ctx context.Context, id string) error
}

type TaskRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewTaskRepository(mongodb *database.MongodbDB) TaskRepository {
	return &TaskRepositoryImpl{
		Collection: mongodb.DB.Collection("tasks"),
	}
}

func (r *TaskRepositoryImpl) Create(ctx context.Context, task *Task) error {
	_, err := r.Collection.InsertOne(ctx, task)
	return err
}

func (r *TaskRepositoryImpl) FindByID(ctx context.Context, id string) (*Task, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, mongo.ErrNoDocuments
	}
	var task Task
	if err := r.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepositoryImpl) ListAll(ctx context.Context) ([]Task, error) {
	return r.list(ctx, bson.M{})
}

func (r *TaskRepositoryImpl) ListByAssignee(ctx context.Context, userID string) ([]Task, error) {
	objectID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return []Task{}, nil
	}
	return r.list(ctx, bson.M{"assigned_to": objectID})
}

// ListOverdue returns open tasks whose deadline has passed. The overdue flag
// itself stays derived; this query only feeds reminders.
func (r *TaskRepositoryImpl) ListOverdue(ctx context.Context, now time.Time) ([]Task, error) {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return r.list(ctx, bson.M{
		"deadline": bson.M{"$lt": dayStart},
		"status":   bson.M{"$ne": policy.TaskStatusCompleted},
	})
}

func (r *TaskRepositoryImpl) list(ctx context.Context, filter bson.M) ([]Task, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tasks []Task
	if err = cursor.All(ctx, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *TaskRepositoryImpl) Update(ctx context.Context, id string, task *Task) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	update := bson.M{
		"$set": bson.M{
			"title":        task.Title,
			"description":  task.Description,
			"status":       task.Status,
			"priority":     task.Priority,
			"assigned_to":  task.AssignedTo,
			"deadline":     task.Deadline,
			"progress":     task.Progress,
			"completed_at": task.CompletedAt,
			"updated_at":   task.UpdatedAt,
		},
	}

	_, err = r.Collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	return err
}

func (r *TaskRepositoryImpl) AddNote(ctx context.Context, id string, note TaskNote) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	update := bson.M{
		"$push": bson.M{"notes": note},
		"$set":  bson.M{"updated_at": time.Now()},
	}
	_, err = r.Collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	return err
}

func (r *TaskRepositoryImpl) Delete(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.Collection.DeleteOne(ctx, bson.M{"_id": objectID})
	return err
}
