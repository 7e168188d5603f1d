package leave

import (
	"context"
	"errors"
	"fmt"
	"time"

	"team-crm/internal/common/models"
	"team-crm/internal/features/audit"
	"team-crm/internal/policy"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Notifier pushes a notification to a user; satisfied by the notification service.
type Notifier interface {
	Notify(ctx context.Context, userID, title, message, notifType string) error
}

type CreateLeaveInput struct {
	StartDate time.Time
	EndDate   time.Time
	LeaveType string
	Reason    string
}

type UpdateLeaveInput struct {
	StartDate *time.Time
	EndDate   *time.Time
	LeaveType *string
	Reason    *string
}

// ListLeaveFilter narrows a list after the visibility cut.
type ListLeaveFilter struct {
	Status string
	UserID string
}

type LeaveService interface {
	ListLeaveRequests(ctx context.Context, actor policy.Actor, filter ListLeaveFilter) ([]LeaveRequest, error)
	GetLeaveRequest(ctx context.Context, actor policy.Actor, id string) (*LeaveRequest, error)
	CreateLeaveRequest(ctx context.Context, actor policy.Actor, input CreateLeaveInput) (*LeaveRequest, error)
	UpdateLeaveRequest(ctx context.Context, actor policy.Actor, id string, input UpdateLeaveInput) (*LeaveRequest, error)
	DeleteLeaveRequest(ctx context.Context, actor policy.Actor, id string) error
	UpdateStatus(ctx context.Context, actor policy.Actor, id, status, rejectionReason string) (*LeaveRequest, error)
	MyLeaves(ctx context.Context, actor policy.Actor) ([]LeaveRequest, error)
	Pending(ctx context.Context, actor policy.Actor) ([]LeaveRequest, error)
}

type LeaveServiceImpl struct {
	LeaveRepo    LeaveRepository
	AuditService audit.AuditService
	Notifier     Notifier
	Now          func() time.Time
}

func NewLeaveService(leaveRepo LeaveRepository, auditService audit.AuditService, notifier Notifier) LeaveService {
	return &LeaveServiceImpl{
		LeaveRepo:    leaveRepo,
		AuditService: auditService,
		Notifier:     notifier,
		Now:          time.Now,
	}
}

func (s *LeaveServiceImpl) ListLeaveRequests(ctx context.Context, actor policy.Actor, filter ListLeaveFilter) ([]LeaveRequest, error) {
	var (
		list []LeaveRequest
		err  error
	)
	if actor.Privileged() {
		if filter.Status != "" {
			list, err = s.LeaveRepo.ListByStatus(ctx, filter.Status)
		} else {
			list, err = s.LeaveRepo.ListAll(ctx)
		}
	} else {
		// Self-scoped actors only ever see their own requests; the user filter
		// cannot widen that.
		list, err = s.LeaveRepo.ListByUser(ctx, actor.ID)
	}
	if err != nil {
		return nil, err
	}

	out := make([]LeaveRequest, 0, len(list))
	for _, lr := range list {
		if filter.Status != "" && lr.Status != filter.Status {
			continue
		}
		if filter.UserID != "" && lr.UserID.Hex() != filter.UserID {
			continue
		}
		lr.decorate()
		out = append(out, lr)
	}
	return out, nil
}

func (s *LeaveServiceImpl) GetLeaveRequest(ctx context.Context, actor policy.Actor, id string) (*LeaveRequest, error) {
	lr, err := s.findLeave(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actor, policy.ActionView, policy.KindLeaveRequest, lr); err != nil {
		return nil, err
	}
	lr.decorate()
	return lr, nil
}

func (s *LeaveServiceImpl) CreateLeaveRequest(ctx context.Context, actor policy.Actor, input CreateLeaveInput) (*LeaveRequest, error) {
	if err := policy.Authorize(actor, policy.ActionCreate, policy.KindLeaveRequest, nil); err != nil {
		return nil, err
	}
	if input.StartDate.IsZero() || input.EndDate.IsZero() {
		return nil, policy.ValidationFailed("start_date and end_date are required")
	}
	if err := policy.ValidateLeaveDates(input.StartDate, input.EndDate, true, s.Now()); err != nil {
		return nil, err
	}

	userID, err := primitive.ObjectIDFromHex(actor.ID)
	if err != nil {
		return nil, policy.ValidationFailed("invalid actor id")
	}

	leaveType := input.LeaveType
	if leaveType == "" {
		leaveType = DefaultLeaveType
	}

	now := s.Now()
	lr := &LeaveRequest{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
		LeaveType: leaveType,
		Reason:    input.Reason,
		Status:    policy.LeaveStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.LeaveRepo.Create(ctx, lr); err != nil {
		return nil, err
	}

	changes := map[string]models.Change{
		"status":     {New: lr.Status},
		"leave_type": {New: lr.LeaveType},
	}
	_ = s.AuditService.LogChange(ctx, actor, models.AuditActionCreate, "leave_request", lr.ID.Hex(), changes)

	lr.decorate()
	return lr, nil
}

func (s *LeaveServiceImpl) UpdateLeaveRequest(ctx context.Context, actor policy.Actor, id string, input UpdateLeaveInput) (*LeaveRequest, error) {
	lr, err := s.findLeave(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actor, policy.ActionUpdate, policy.KindLeaveRequest, lr); err != nil {
		return nil, err
	}
	if err := policy.CheckLeaveMutable(lr.Status); err != nil {
		return nil, err
	}

	start, end := lr.StartDate, lr.EndDate
	if input.StartDate != nil {
		start = *input.StartDate
	}
	if input.EndDate != nil {
		end = *input.EndDate
	}
	if err := policy.ValidateLeaveDates(start, end, false, s.Now()); err != nil {
		return nil, err
	}

	changes := make(map[string]models.Change)
	if input.StartDate != nil && !input.StartDate.Equal(lr.StartDate) {
		changes["start_date"] = models.Change{Old: lr.StartDate, New: *input.StartDate}
		lr.StartDate = *input.StartDate
	}
	if input.EndDate != nil && !input.EndDate.Equal(lr.EndDate) {
		changes["end_date"] = models.Change{Old: lr.EndDate, New: *input.EndDate}
		lr.EndDate = *input.EndDate
	}
	if input.LeaveType != nil && *input.LeaveType != lr.LeaveType {
		changes["leave_type"] = models.Change{Old: lr.LeaveType, New: *input.LeaveType}
		lr.LeaveType = *input.LeaveType
	}
	if input.Reason != nil && *input.Reason != lr.Reason {
		changes["reason"] = models.Change{Old: lr.Reason, New: *input.Reason}
		lr.Reason = *input.Reason
	}

	lr.UpdatedAt = s.Now()
	if err := s.LeaveRepo.Update(ctx, id, lr); err != nil {
		return nil, err
	}

	if len(changes) > 0 {
		_ = s.AuditService.LogChange(ctx, actor, models.AuditActionUpdate, "leave_request", id, changes)
	}

	lr.decorate()
	return lr, nil
}

func (s *LeaveServiceImpl) DeleteLeaveRequest(ctx context.Context, actor policy.Actor, id string) error {
	lr, err := s.findLeave(ctx, id)
	if err != nil {
		return err
	}
	if err := policy.Authorize(actor, policy.ActionDelete, policy.KindLeaveRequest, lr); err != nil {
		return err
	}
	if err := policy.CheckLeaveMutable(lr.Status); err != nil {
		return err
	}

	if err := s.LeaveRepo.Delete(ctx, id); err != nil {
		return err
	}

	changes := map[string]models.Change{"deleted": {Old: false, New: true}}
	_ = s.AuditService.LogChange(ctx, actor, models.AuditActionDelete, "leave_request", id, changes)
	return nil
}

func (s *LeaveServiceImpl) UpdateStatus(ctx context.Context, actor policy.Actor, id, status, rejectionReason string) (*LeaveRequest, error) {
	lr, err := s.findLeave(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.CheckLeaveTransition(actor, lr.Status, status, rejectionReason); err != nil {
		return nil, err
	}

	approverID, err := primitive.ObjectIDFromHex(actor.ID)
	if err != nil {
		return nil, policy.ValidationFailed("invalid actor id")
	}

	now := s.Now()
	matched, err := s.LeaveRepo.UpdateStatusIfPending(ctx, id, StatusStamp{
		Status:          status,
		RejectionReason: rejectionReason,
		ApprovedBy:      approverID,
		ApprovedAt:      now,
	})
	if err != nil {
		return nil, err
	}
	if !matched {
		// Somebody got there first: re-read and report what actually happened.
		current, err := s.findLeave(ctx, id)
		if err != nil {
			return nil, err
		}
		return nil, policy.Conflict(fmt.Sprintf("leave request is no longer pending (now %s)", current.Status))
	}

	changes := map[string]models.Change{
		"status": {Old: policy.LeaveStatusPending, New: status},
	}
	_ = s.AuditService.LogChange(ctx, actor, models.AuditActionUpdate, "leave_request", id, changes)
	_ = s.Notifier.Notify(ctx, lr.UserID.Hex(), "Leave request "+status,
		fmt.Sprintf("Your leave request from %s to %s was %s",
			lr.StartDate.Format("2006-01-02"), lr.EndDate.Format("2006-01-02"), status), "info")

	lr.Status = status
	lr.RejectionReason = rejectionReason
	lr.ApprovedBy = &approverID
	lr.ApprovedAt = &now
	lr.UpdatedAt = now
	lr.decorate()
	return lr, nil
}

func (s *LeaveServiceImpl) MyLeaves(ctx context.Context, actor policy.Actor) ([]LeaveRequest, error) {
	list, err := s.LeaveRepo.ListByUser(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	for i := range list {
		list[i].decorate()
	}
	return list, nil
}

func (s *LeaveServiceImpl) Pending(ctx context.Context, actor policy.Actor) ([]LeaveRequest, error) {
	if !actor.Privileged() {
		return nil, policy.Forbidden("you do not have permission to view pending leave requests")
	}
	list, err := s.LeaveRepo.ListByStatus(ctx, policy.LeaveStatusPending)
	if err != nil {
		return nil, err
	}
	for i := range list {
		list[i].decorate()
	}
	return list, nil
}

func (s *LeaveServiceImpl) findLeave(ctx context.Context, id string) (*LeaveRequest, error) {
	lr, err := s.LeaveRepo.FindByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, policy.NotFound("leave request not found")
	}
	if err != nil {
		return nil, err
	}
	return lr, nil
}
