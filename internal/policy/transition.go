package policy

import "time"

// Kind names an entity class for the access rule table.
type Kind string

const (
	KindUser          Kind = "user"
	KindTask          Kind = "task"
	KindLeaveRequest  Kind = "leave_request"
	KindMeeting       Kind = "meeting"
	KindClient        Kind = "client"
	KindFollowUp      Kind = "follow_up"
	KindSalesActivity Kind = "sales_activity"
)

// Leave request lifecycle.
const (
	LeaveStatusPending  = "pending"
	LeaveStatusApproved = "approved"
	LeaveStatusRejected = "rejected"
)

// Task lifecycle. Overdue is a derived projection, never a stored status.
const (
	TaskStatusPending    = "pending"
	TaskStatusInProgress = "in_progress"
	TaskStatusCompleted  = "completed"
	TaskStatusOverdue    = "overdue"
)

// Sales pipeline stages.
const (
	ClientStatusProspect    = "Prospect"
	ClientStatusNegotiation = "Negotiation"
	ClientStatusClosed      = "Closed"
	ClientStatusLost        = "Lost"
)

// Meeting lifecycle.
const (
	MeetingStatusScheduled   = "scheduled"
	MeetingStatusCompleted   = "completed"
	MeetingStatusCancelled   = "cancelled"
	MeetingStatusRescheduled = "rescheduled"
)

// DefaultClosedDealValue is stamped on a deal closed without an agreed value.
const DefaultClosedDealValue = 5000

// leaveTransitions is the full transition table. Approved and rejected are
// terminal, hence their empty target sets.
var leaveTransitions = map[string][]string{
	LeaveStatusPending:  {LeaveStatusApproved, LeaveStatusRejected},
	LeaveStatusApproved: {},
	LeaveStatusRejected: {},
}

// clientTransitions is the pipeline stage table. Open stages move freely
// between each other and into Closed or Lost; Closed and Lost are terminal.
var clientTransitions = map[string][]string{
	ClientStatusProspect:    {ClientStatusNegotiation, ClientStatusClosed, ClientStatusLost},
	ClientStatusNegotiation: {ClientStatusProspect, ClientStatusClosed, ClientStatusLost},
	ClientStatusClosed:      {},
	ClientStatusLost:        {},
}

// CheckLeaveTransition gates the approve/reject decision: privileged actors
// only, pending requests only, and a rejection always carries a reason.
func CheckLeaveTransition(actor Actor, current, requested, rejectionReason string) error {
	if !actor.Privileged() {
		return Forbidden("you do not have permission to decide leave requests")
	}
	if requested != LeaveStatusApproved && requested != LeaveStatusRejected {
		return ValidationFailed("status must be approved or rejected")
	}
	targets, ok := leaveTransitions[current]
	if !ok {
		return InvalidTransition("unknown leave status: " + current)
	}
	allowed := false
	for _, t := range targets {
		if t == requested {
			allowed = true
			break
		}
	}
	if !allowed {
		return InvalidTransition("cannot move a " + current + " leave request to " + requested)
	}
	if requested == LeaveStatusRejected && isBlank(rejectionReason) {
		return ValidationFailed("a rejection requires a reason")
	}
	return nil
}

// CheckLeaveMutable rejects content edits once a request has been decided.
func CheckLeaveMutable(current string) error {
	if current != LeaveStatusPending {
		return InvalidTransition("a " + current + " leave request can no longer be changed")
	}
	return nil
}

// ValidateLeaveDates enforces the date range rules. New requests cannot start
// in the past; edits to an already-filed range only need to stay ordered.
func ValidateLeaveDates(start, end time.Time, creating bool, now time.Time) error {
	if end.Before(start) {
		return ValidationFailed("end_date cannot be before start_date")
	}
	if creating && truncateDay(start).Before(truncateDay(now)) {
		return ValidationFailed("start_date cannot be in the past")
	}
	return nil
}

// CheckTaskStatus accepts only storable statuses. Overdue is computed from
// the deadline at read time and cannot be written.
func CheckTaskStatus(status string) error {
	switch status {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return nil
	case TaskStatusOverdue:
		return ValidationFailed("overdue is derived from the deadline and cannot be set")
	}
	return ValidationFailed("unknown task status: " + status)
}

// TaskOverdue derives the overdue projection at day granularity: a task due
// today is not overdue until tomorrow. Completed tasks are never overdue
// regardless of deadline.
func TaskOverdue(deadline *time.Time, status string, now time.Time) bool {
	if deadline == nil || status == TaskStatusCompleted {
		return false
	}
	return truncateDay(*deadline).Before(truncateDay(now))
}

// CheckClientStatus accepts any known pipeline stage.
func CheckClientStatus(status string) error {
	if _, ok := clientTransitions[status]; !ok {
		return ValidationFailed("unknown client status: " + status)
	}
	return nil
}

// CheckClientTransition validates a pipeline move. Same-stage writes are
// no-ops and always fine; a record with an unknown stored stage may migrate
// to any known one.
func CheckClientTransition(current, requested string) error {
	if requested == current {
		return nil
	}
	if err := CheckClientStatus(requested); err != nil {
		return err
	}
	if _, ok := clientTransitions[current]; !ok {
		return nil
	}
	for _, t := range clientTransitions[current] {
		if t == requested {
			return nil
		}
	}
	return InvalidTransition("cannot move a " + current + " client to " + requested)
}

// ClosedDealValue resolves the deal value stamped when a deal closes: the
// supplied value wins, then the value already on the record, then the default.
func ClosedDealValue(supplied *float64, current float64) float64 {
	if supplied != nil && *supplied > 0 {
		return *supplied
	}
	if current > 0 {
		return current
	}
	return DefaultClosedDealValue
}

// CheckMeetingStatus accepts any status in the fixed set; meetings move
// freely between them.
func CheckMeetingStatus(status string) error {
	switch status {
	case MeetingStatusScheduled, MeetingStatusCompleted, MeetingStatusCancelled, MeetingStatusRescheduled:
		return nil
	}
	return ValidationFailed("unknown meeting status: " + status)
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
