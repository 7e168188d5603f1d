package activity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkActivity is a lightweight "what I did" entry on a user's own timeline,
// distinct from the audit trail which records policy-relevant mutations.
type WorkActivity struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"user_id" json:"user"`
	Description string             `bson:"description" json:"description"`
	Category    string             `bson:"category,omitempty" json:"category,omitempty"`
	OccurredAt  time.Time          `bson:"occurred_at" json:"occurred_at"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}

func (w *WorkActivity) OwnerID() string          { return w.UserID.Hex() }
func (w *WorkActivity) CreatorID() string        { return "" }
func (w *WorkActivity) ParticipantIDs() []string { return nil }
