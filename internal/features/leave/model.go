package leave

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultLeaveType is applied when a request does not name one.
const DefaultLeaveType = "Paid Leave"

type LeaveRequest struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID  `bson:"user_id" json:"user"`
	StartDate       time.Time           `bson:"start_date" json:"start_date"`
	EndDate         time.Time           `bson:"end_date" json:"end_date"`
	LeaveType       string              `bson:"leave_type" json:"leave_type"`
	Reason          string              `bson:"reason,omitempty" json:"reason,omitempty"`
	Status          string              `bson:"status" json:"status"`
	ApprovedBy      *primitive.ObjectID `bson:"approved_by,omitempty" json:"approved_by,omitempty"`
	ApprovedAt      *time.Time          `bson:"approved_at,omitempty" json:"approved_at,omitempty"`
	RejectionReason string              `bson:"rejection_reason,omitempty" json:"rejection_reason,omitempty"`
	CreatedAt       time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time           `bson:"updated_at" json:"updated_at"`

	// DurationDays is derived from the date range, never stored on its own.
	DurationDays int `bson:"-" json:"duration_days"`
}

func (l *LeaveRequest) OwnerID() string          { return l.UserID.Hex() }
func (l *LeaveRequest) CreatorID() string        { return "" }
func (l *LeaveRequest) ParticipantIDs() []string { return nil }

// Duration is the inclusive day count of the requested range.
func (l *LeaveRequest) Duration() int {
	return DurationDays(l.StartDate, l.EndDate)
}

// DurationDays counts calendar days inclusively: Jan 1 through Jan 3 is 3 days.
func DurationDays(start, end time.Time) int {
	startDay := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	endDay := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	if endDay.Before(startDay) {
		return 0
	}
	return int(endDay.Sub(startDay)/(24*time.Hour)) + 1
}

func (l *LeaveRequest) decorate() {
	l.DurationDays = l.Duration()
}
