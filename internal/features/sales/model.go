package sales

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Client struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientName  string             `bson:"client_name" json:"client_name"`
	CompanyName string             `bson:"company_name,omitempty" json:"company_name,omitempty"`
	Email       string             `bson:"email,omitempty" json:"email,omitempty"`
	Phone       string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Status      string             `bson:"status" json:"status"`
	DealValue   float64            `bson:"deal_value" json:"deal_value"`
	ClosedDate  *time.Time         `bson:"closed_date,omitempty" json:"closed_date,omitempty"`
	Services    []string           `bson:"services,omitempty" json:"services,omitempty"`
	Notes       string             `bson:"notes,omitempty" json:"notes,omitempty"`
	AssignedTo  primitive.ObjectID `bson:"assigned_to" json:"assigned_to"`
	CreatedBy   primitive.ObjectID `bson:"created_by" json:"created_by"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

func (c *Client) OwnerID() string          { return c.AssignedTo.Hex() }
func (c *Client) CreatorID() string        { return c.CreatedBy.Hex() }
func (c *Client) ParticipantIDs() []string { return nil }

type FollowUp struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID  primitive.ObjectID `bson:"client_id" json:"client_id"`
	DueDate   time.Time          `bson:"due_date" json:"due_date"`
	Notes     string             `bson:"notes,omitempty" json:"notes,omitempty"`
	Completed bool               `bson:"completed" json:"completed"`
	CreatedBy primitive.ObjectID `bson:"created_by" json:"created_by"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`

	// ClientAssignee is resolved from the parent client before policy checks,
	// never stored with the follow-up itself.
	ClientAssignee string `bson:"-" json:"-"`
}

func (f *FollowUp) OwnerID() string          { return f.ClientAssignee }
func (f *FollowUp) CreatorID() string        { return f.CreatedBy.Hex() }
func (f *FollowUp) ParticipantIDs() []string { return nil }

type SalesActivity struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID     primitive.ObjectID `bson:"client_id" json:"client_id"`
	ActivityType string             `bson:"activity_type" json:"activity_type"`
	Description  string             `bson:"description,omitempty" json:"description,omitempty"`
	OccurredAt   time.Time          `bson:"occurred_at" json:"occurred_at"`
	CreatedBy    primitive.ObjectID `bson:"created_by" json:"created_by"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`

	// ClientAssignee mirrors the follow-up resolution.
	ClientAssignee string `bson:"-" json:"-"`
}

func (a *SalesActivity) OwnerID() string          { return a.ClientAssignee }
func (a *SalesActivity) CreatorID() string        { return a.CreatedBy.Hex() }
func (a *SalesActivity) ParticipantIDs() []string { return nil }

// FunnelStage is one row of the sales analytics breakdown.
type FunnelStage struct {
	Status    string  `json:"status"`
	Count     int64   `json:"count"`
	DealValue float64 `json:"deal_value"`
}

type Analytics struct {
	TotalClients     int64         `json:"total_clients"`
	Funnel           []FunnelStage `json:"funnel"`
	ClosedDealValue  float64       `json:"closed_deal_value"`
	ConversionRate   float64       `json:"conversion_rate"`
	AvgDaysToClose   float64       `json:"avg_days_to_close"`
	PendingFollowUps int64         `json:"pending_follow_ups"`
}
