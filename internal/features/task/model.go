package task

import (
	"time"

	"team-crm/internal/policy"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Task priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

type TaskNote struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Content    string             `bson:"content" json:"content"`
	AuthorID   primitive.ObjectID `bson:"author_id" json:"author"`
	AuthorName string             `bson:"author_name,omitempty" json:"author_name,omitempty"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}

type Task struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Status      string             `bson:"status" json:"status"`
	Priority    string             `bson:"priority" json:"priority"`
	AssignedTo  primitive.ObjectID `bson:"assigned_to" json:"assigned_to"`
	CreatedBy   primitive.ObjectID `bson:"created_by,omitempty" json:"created_by,omitempty"`
	Deadline    *time.Time         `bson:"deadline,omitempty" json:"deadline,omitempty"`
	Progress    int                `bson:"progress" json:"progress"`
	Notes       []TaskNote         `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
	CompletedAt *time.Time         `bson:"completed_at,omitempty" json:"completed_at,omitempty"`

	// IsOverdue is derived from the deadline at read time, never stored.
	IsOverdue bool `bson:"-" json:"is_overdue"`
}

func (t *Task) OwnerID() string          { return t.AssignedTo.Hex() }
func (t *Task) CreatorID() string        { return objectIDHex(t.CreatedBy) }
func (t *Task) ParticipantIDs() []string { return nil }

// decorate fills the derived projection for a read.
func (t *Task) decorate(now time.Time) {
	t.IsOverdue = policy.TaskOverdue(t.Deadline, t.Status, now)
}

func objectIDHex(id primitive.ObjectID) string {
	if id.IsZero() {
		return ""
	}
	return id.Hex()
}
