package meeting

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Meeting struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title        string               `bson:"title" json:"title"`
	Description  string               `bson:"description,omitempty" json:"description,omitempty"`
	Location     string               `bson:"location,omitempty" json:"location,omitempty"`
	MeetingLink  string               `bson:"meeting_link,omitempty" json:"meeting_link,omitempty"`
	StartTime    time.Time            `bson:"start_time" json:"start_time"`
	EndTime      time.Time            `bson:"end_time" json:"end_time"`
	Status       string               `bson:"status" json:"status"`
	CreatedBy    primitive.ObjectID   `bson:"created_by" json:"created_by"`
	Participants []primitive.ObjectID `bson:"participants" json:"participants"`
	CreatedAt    time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time            `bson:"updated_at" json:"updated_at"`
}

func (m *Meeting) OwnerID() string   { return "" }
func (m *Meeting) CreatorID() string { return m.CreatedBy.Hex() }

func (m *Meeting) ParticipantIDs() []string {
	ids := make([]string, 0, len(m.Participants))
	for _, p := range m.Participants {
		ids = append(ids, p.Hex())
	}
	return ids
}
