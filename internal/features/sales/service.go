package sales

import (
	"context"
	"errors"
	"strings"
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

type CreateClientInput struct {
	ClientName  string
	CompanyName string
	Email       string
	Phone       string
	Status      string
	DealValue   *float64
	Services    []string
	Notes       string
	AssignedTo  string
}

type UpdateClientInput struct {
	ClientName  *string
	CompanyName *string
	Email       *string
	Phone       *string
	Status      *string
	DealValue   *float64
	Services    []string
	Notes       *string
	AssignedTo  *string
}

type CreateFollowUpInput struct {
	ClientID string
	DueDate  time.Time
	Notes    string
}

type UpdateFollowUpInput struct {
	DueDate   *time.Time
	Notes     *string
	Completed *bool
}

type CreateActivityInput struct {
	ClientID     string
	ActivityType string
	Description  string
	OccurredAt   time.Time
}

type UpdateActivityInput struct {
	ActivityType *string
	Description  *string
	OccurredAt   *time.Time
}

// ListClientFilter narrows a client list after the visibility cut.
type ListClientFilter struct {
	Query  string
	Status string
}

// ListActivityFilter narrows an activity list after the visibility cut.
type ListActivityFilter struct {
	ClientID string
	Type     string
}

type SalesService interface {
	ListClients(ctx context.Context, actor policy.Actor, filter ListClientFilter) ([]Client, error)
	GetClient(ctx context.Context, actor policy.Actor, id string) (*Client, error)
	CreateClient(ctx context.Context, actor policy.Actor, input CreateClientInput) (*Client, error)
	UpdateClient(ctx context.Context, actor policy.Actor, id string, input UpdateClientInput) (*Client, error)
	DeleteClient(ctx context.Context, actor policy.Actor, id string) error

	ListFollowUps(ctx context.Context, actor policy.Actor, clientID string) ([]FollowUp, error)
	CreateFollowUp(ctx context.Context, actor policy.Actor, input CreateFollowUpInput) (*FollowUp, error)
	UpdateFollowUp(ctx context.Context, actor policy.Actor, id string, input UpdateFollowUpInput) (*FollowUp, error)
	DeleteFollowUp(ctx context.Context, actor policy.Actor, id string) error

	ListActivities(ctx context.Context, actor policy.Actor, filter ListActivityFilter) ([]SalesActivity, error)
	CreateActivity(ctx context.Context, actor policy.Actor, input CreateActivityInput) (*SalesActivity, error)
	UpdateActivity(ctx context.Context, actor policy.Actor, id string, input UpdateActivityInput) (*SalesActivity, error)
	DeleteActivity(ctx context.Context, actor policy.Actor, id string) error

	GetAnalytics(ctx context.Context, actor policy.Actor) (*Analytics, error)
}

type SalesServiceImpl struct {
	ClientRepo   ClientRepository
	FollowUpRepo FollowUpRepository
	ActivityRepo SalesActivityRepository
	AuditService audit.AuditService
	Notifier     Notifier
	Now          func() time.Time
}

func NewSalesService(clientRepo ClientRepository, followUpRepo FollowUpRepository, activityRepo SalesActivityRepository, auditService audit.AuditService, notifier Notifier) SalesService {
	return &SalesServiceImpl{
		ClientRepo:   clientRepo,
		FollowUpRepo: followUpRepo,
		ActivityRepo: activityRepo,
		AuditService: auditService,
		Notifier:     notifier,
		Now:          time.Now,
	}
}

func (s *SalesServiceImpl) ListClients(ctx context.Context, actor policy.Actor, filter ListClientFilter) ([]Client, error) {
	var (
		clients []Client
		err     error
	)
	if actor.Privileged() {
		clients, err = s.ClientRepo.ListAll(ctx)
	} else {
		clients, err = s.ClientRepo.ListByAssignee(ctx, actor.ID)
	}
	if err != nil {
		return nil, err
	}

	out := make([]Client, 0, len(clients))
	for _, c := range clients {
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		if !policy.MatchesQuery(filter.Query, c.ClientName, c.CompanyName, c.Email) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *SalesServiceImpl) GetClient(ctx context.Context, actor policy.Actor, id string) (*Client, error) {
	client, err := s.findClient(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actor, policy.ActionView, policy.KindClient, client); err != nil {
		return nil, err
	}
	return client, nil
}

func (s *SalesServiceImpl) CreateClient(ctx context.Context, actor policy.Actor, input CreateClientInput) (*Client, error) {
	if err := policy.Authorize(actor, policy.ActionCreate, policy.KindClient, nil); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.ClientName) == "" {
		return nil, policy.ValidationFailed("client_name is required")
	}

	creatorID, err := primitive.ObjectIDFromHex(actor.ID)
	if err != nil {
		return nil, policy.ValidationFailed("invalid actor id")
	}

	assignedTo := creatorID
	if input.AssignedTo != "" && input.AssignedTo != actor.ID {
		if !policy.CanReassign(actor) {
			return nil, policy.Forbidden("you do not have permission to assign clients to others")
		}
		assignedTo, err = primitive.ObjectIDFromHex(input.AssignedTo)
		if err != nil {
			return nil, policy.ValidationFailed("invalid assignee id")
		}
	}

	status := input.Status
	if status == "" {
		status = policy.ClientStatusProspect
	}
	if err := policy.CheckClientStatus(status); err != nil {
		return nil, err
	}

	now := s.Now()
	client := &Client{
		ID:          primitive.NewObjectID(),
		ClientName:  input.ClientName,
		CompanyName: input.CompanyName,
		Email:       input.Email,
		Phone:       input.Phone,
		Status:      status,
		Services:    input.Services,
		Notes:       input.Notes,
		AssignedTo:  assignedTo,
		CreatedBy:   creatorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if input.DealValue != nil {
		client.DealValue = *input.DealValue
	}
	if status == policy.ClientStatusClosed {
		client.DealValue = policy.ClosedDealValue(input.DealValue, 0)
		closed := now
		client.ClosedDate = &closed
	}

	if err := s.ClientRepo.Create(ctx, client); err != nil {
		return nil, err
	}

	changes := map[string]models.Change{
		"client_name": {New: client.ClientName},
		"status":      {New: client.Status},
	}
	_ = s.AuditService.LogChange(ctx, actor, models.AuditActionCreate, "client", client.ID.Hex(), changes)

	return client, nil
}

func (s *SalesServiceImpl) UpdateClient(ctx context.Context, actor policy.Actor, id string, input UpdateClientInput) (*Client, error) {
	client, err := s.findClient(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actor, policy.ActionUpdate, policy.KindClient, client); err != nil {
		return nil, err
	}

	changes := make(map[string]models.Change)
	if input.ClientName != nil && *input.ClientName != client.ClientName {
		if strings.TrimSpace(*input.ClientName) == "" {
			return nil, policy.ValidationFailed("client_name cannot be blank")
		}
		changes["client_name"] = models.Change{Old: client.ClientName, New: *input.ClientName}
		client.ClientName = *input.ClientName
	}
	if input.CompanyName != nil && *input.CompanyName != client.CompanyName {
		changes["company_name"] = models.Change{Old: client.CompanyName, New: *input.CompanyName}
		client.CompanyName = *input.CompanyName
	}
	if input.Email != nil && *input.Email != client.Email {
		changes["email"] = models.Change{Old: client.Email, New: *input.Email}
		client.Email = *input.Email
	}
	if input.Phone != nil && *input.Phone != client.Phone {
		changes["phone"] = models.Change{Old: client.Phone, New: *input.Phone}
		client.Phone = *input.Phone
	}
	if input.Notes != nil && *input.Notes != client.Notes {
		changes["notes"] = models.Change{Old: client.Notes, New: *input.Notes}
		client.Notes = *input.Notes
	}
	if input.Services != nil {
		changes["services"] = models.Change{Old: client.Services, New: input.Services}
		client.Services = input.Services
	}
	if input.DealValue != nil && *input.DealValue != client.DealValue {
		changes["deal_value"] = models.Change{Old: client.DealValue, New: *input.DealValue}
		client.DealValue = *input.DealValue
	}
	if input.AssignedTo != nil && *input.AssignedTo != client.AssignedTo.Hex() {
		if !policy.CanReassign(actor) {
			return nil, policy.Forbidden("you do not have permission to reassign clients")
		}
		assignee, err := primitive.ObjectIDFromHex(*input.AssignedTo)
		if err != nil {
			return nil, policy.ValidationFailed("invalid assignee id")
		}
		changes["assigned_to"] = models.Change{Old: client.AssignedTo.Hex(), New: *input.AssignedTo}
		client.AssignedTo = assignee
	}
	if input.Status != nil && *input.Status != client.Status {
		if err := policy.CheckClientTransition(client.Status, *input.Status); err != nil {
			return nil, err
		}
		changes["status"] = models.Change{Old: client.Status, New: *input.Status}
		client.Status = *input.Status
		if client.Status == policy.ClientStatusClosed {
			client.DealValue = policy.ClosedDealValue(input.DealValue, client.DealValue)
			closed := s.Now()
			client.ClosedDate = &closed
			changes["deal_value"] = models.Change{New: client.DealValue}
		}
	}

	client.UpdatedAt = s.Now()
	if err := s.ClientRepo.Update(ctx, id, client); err != nil {
		return nil, err
	}

	if len(changes) > 0 {
		_ = s.AuditService.LogChange(ctx, actor, models.AuditActionUpdate, "client", id, changes)
	}
	return client, nil
}

func (s *SalesServiceImpl) DeleteClient(ctx context.Context, actor policy.Actor, id string) error {
	client, err := s.findClient(ctx, id)
	if err != nil {
		return err
	}
	if err := policy.Authorize(actor, policy.ActionDelete, policy.KindClient, client); err != nil {
		return err
	}

	if err := s.ClientRepo.Delete(ctx, id); err != nil {
		return err
	}

	changes := map[string]models.Change{"deleted": {Old: false, New: true}}
	_ = s.AuditService.LogChange(ctx, actor, models.AuditActionDelete, "client", id, changes)
	return nil
}

func (s *SalesServiceImpl) ListFollowUps(ctx context.Context, actor policy.Actor, clientID string) ([]FollowUp, error) {
	var (
		followUps []FollowUp
		err       error
	)
	if clientID != "" {
		followUps, err = s.FollowUpRepo.ListByClient(ctx, clientID)
	} else {
		followUps, err = s.FollowUpRepo.ListAll(ctx)
	}
	if err != nil {
		return nil, err
	}
	if err := s.resolveFollowUpAssignees(ctx, followUps); err != nil {
		return nil, err
	}

	refs := make([]*FollowUp, len(followUps))
	for i := range followUps {
		refs[i] = &followUps[i]
	}
	visible := policy.Visible(actor, refs)
	out := make([]FollowUp, 0, len(visible))
	for _, fu := range visible {
		out = append(out, *fu)
	}
	return out, nil
}

func (s *SalesServiceImpl) CreateFollowUp(ctx context.Context, actor policy.Actor, input CreateFollowUpInput) (*FollowUp, error) {
	if err := policy.Authorize(actor, policy.ActionCreate, policy.KindFollowUp, nil); err != nil {
		return nil, err
	}
	client, err := s.findClient(ctx, input.ClientID)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actor, policy.ActionView, policy.KindClient, client); err != nil {
		return nil, err
	}
	if input.DueDate.IsZero() {
		return nil, policy.ValidationFailed("due_date is required")
	}

	creatorID, err := primitive.ObjectIDFromHex(actor.ID)
	if err != nil {
		return nil, policy.ValidationFailed("invalid actor id")
	}

	now := s.Now()
	fu := &FollowUp{
		ID:        primitive.NewObjectID(),
		ClientID:  client.ID,
		DueDate:   input.DueDate,
		Notes:     input.Notes,
		CreatedBy: creatorID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.FollowUpRepo.Create(ctx, fu); err != nil {
		return nil, err
	}

	changes := map[string]models.Change{"due_date": {New: fu.DueDate}}
	_ = s.AuditService.LogChange(ctx, actor, models.AuditActionCreate, "follow_up", fu.ID.Hex(), changes)

	if client.AssignedTo.Hex() != actor.ID {
		_ = s.Notifier.Notify(ctx, client.AssignedTo.Hex(), "Follow-up scheduled",
			"A follow-up was scheduled for "+client.ClientName, "info")
	}

	fu.ClientAssignee = client.AssignedTo.Hex()
	return fu, nil
}

func (s *SalesServiceImpl) UpdateFollowUp(ctx context.Context, actor policy.Actor, id string, input UpdateFollowUpInput) (*FollowUp, error) {
	fu, err := s.findFollowUp(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actor, policy.ActionUpdate, policy.KindFollowUp, fu); err != nil {
		return nil, err
	}

	changes := make(map[string]models.Change)
	if input.DueDate != nil {
		changes["due_date"] = models.Change{Old: fu.DueDate, New: *input.DueDate}
		fu.DueDate = *input.DueDate
	}
	if input.Notes != nil && *input.Notes != fu.Notes {
		changes["notes"] = models.Change{Old: fu.Notes, New: *input.Notes}
		fu.Notes = *input.Notes
	}
	if input.Completed != nil && *input.Completed != fu.Completed {
		changes["completed"] = models.Change{Old: fu.Completed, New: *input.Completed}
		fu.Completed = *input.Completed
	}

	fu.UpdatedAt = s.Now()
	if err := s.FollowUpRepo.Update(ctx, id, fu); err != nil {
		return nil, err
	}

	if len(changes) > 0 {
		_ = s.AuditService.LogChange(ctx, actor, models.AuditActionUpdate, "follow_up", id, changes)
	}
	return fu, nil
}

func (s *SalesServiceImpl) DeleteFollowUp(ctx context.Context, actor policy.Actor, id string) error {
	fu, err := s.findFollowUp(ctx, id)
	if err != nil {
		return err
	}
	if err := policy.Authorize(actor, policy.ActionDelete, policy.KindFollowUp, fu); err != nil {
		return err
	}

	if err := s.FollowUpRepo.Delete(ctx, id); err != nil {
		return err
	}

	changes := map[string]models.Change{"deleted": {Old: false, New: true}}
	_ = s.AuditService.LogChange(ctx, actor, models.AuditActionDelete, "follow_up", id, changes)
	return nil
}

func (s *SalesServiceImpl) ListActivities(ctx context.Context, actor policy.Actor, filter ListActivityFilter) ([]SalesActivity, error) {
	var (
		activities []SalesActivity
		err        error
	)
	if filter.ClientID != "" {
		activities, err = s.ActivityRepo.ListByClient(ctx, filter.ClientID)
	} else {
		activities, err = s.ActivityRepo.ListAll(ctx)
	}
	if err != nil {
		return nil, err
	}
	if err := s.resolveActivityAssignees(ctx, activities); err != nil {
		return nil, err
	}

	refs := make([]*SalesActivity, len(activities))
	for i := range activities {
		refs[i] = &activities[i]
	}
	visible := policy.Visible(actor, refs)
	out := make([]SalesActivity, 0, len(visible))
	for _, a := range visible {
		if filter.Type != "" && a.ActivityType != filter.Type {
			continue
		}
		out = append(out, *a)
	}
	return out, nil
}

func (s *SalesServiceImpl) CreateActivity(ctx context.Context, actor policy.Actor, input CreateActivityInput) (*SalesActivity, error) {
	if err := policy.Authorize(actor, policy.ActionCreate, policy.KindSalesActivity, nil); err != nil {
		return nil, err
	}
	client, err := s.findClient(ctx, input.ClientID)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actor, policy.ActionView, policy.KindClient, client); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.ActivityType) == "" {
		return nil, policy.ValidationFailed("activity_type is required")
	}

	creatorID, err := primitive.ObjectIDFromHex(actor.ID)
	if err != nil {
		return nil, policy.ValidationFailed("invalid actor id")
	}

	occurredAt := input.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = s.Now()
	}

	now := s.Now()
	activity := &SalesActivity{
		ID:           primitive.NewObjectID(),
		ClientID:     client.ID,
		ActivityType: input.ActivityType,
		Description:  input.Description,
		OccurredAt:   occurredAt,
		CreatedBy:    creatorID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.ActivityRepo.Create(ctx, activity); err != nil {
		return nil, err
	}

	changes := map[string]models.Change{"activity_type": {New: activity.ActivityType}}
	_ = s.AuditService.LogChange(ctx, actor, models.AuditActionCreate, "sales_activity", activity.ID.Hex(), changes)

	activity.ClientAssignee = client.AssignedTo.Hex()
	return activity, nil
}

func (s *SalesServiceImpl) UpdateActivity(ctx context.Context, actor policy.Actor, id string, input UpdateActivityInput) (*SalesActivity, error) {
	activity, err := s.findActivity(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actor, policy.ActionUpdate, policy.KindSalesActivity, activity); err != nil {
		return nil, err
	}

	changes := make(map[string]models.Change)
	if input.ActivityType != nil && *input.ActivityType != activity.ActivityType {
		changes["activity_type"] = models.Change{Old: activity.ActivityType, New: *input.ActivityType}
		activity.ActivityType = *input.ActivityType
	}
	if input.Description != nil && *input.Description != activity.Description {
		changes["description"] = models.Change{Old: activity.Description, New: *input.Description}
		activity.Description = *input.Description
	}
	if input.OccurredAt != nil {
		changes["occurred_at"] = models.Change{Old: activity.OccurredAt, New: *input.OccurredAt}
		activity.OccurredAt = *input.OccurredAt
	}

	activity.UpdatedAt = s.Now()
	if err := s.ActivityRepo.Update(ctx, id, activity); err != nil {
		return nil, err
	}

	if len(changes) > 0 {
		_ = s.AuditService.LogChange(ctx, actor, models.AuditActionUpdate, "sales_activity", id, changes)
	}
	return activity, nil
}

func (s *SalesServiceImpl) DeleteActivity(ctx context.Context, actor policy.Actor, id string) error {
	activity, err := s.findActivity(ctx, id)
	if err != nil {
		return err
	}
	if err := policy.Authorize(actor, policy.ActionDelete, policy.KindSalesActivity, activity); err != nil {
		return err
	}

	if err := s.ActivityRepo.Delete(ctx, id); err != nil {
		return err
	}

	changes := map[string]models.Change{"deleted": {Old: false, New: true}}
	_ = s.AuditService.LogChange(ctx, actor, models.AuditActionDelete, "sales_activity", id, changes)
	return nil
}

// GetAnalytics builds the funnel summary. Privileged actors only; the numbers
// cover the whole book.
func (s *SalesServiceImpl) GetAnalytics(ctx context.Context, actor policy.Actor) (*Analytics, error) {
	if !actor.Privileged() {
		return nil, policy.Forbidden("you do not have permission to view sales analytics")
	}

	stages, err := s.ClientRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	pending, err := s.FollowUpRepo.CountPending(ctx)
	if err != nil {
		return nil, err
	}

	analytics := &Analytics{
		Funnel:           make([]FunnelStage, 0, 4),
		PendingFollowUps: pending,
	}
	var closedStageCount int64
	for _, status := range []string{
		policy.ClientStatusProspect,
		policy.ClientStatusNegotiation,
		policy.ClientStatusClosed,
		policy.ClientStatusLost,
	} {
		stage, ok := stages[status]
		if !ok {
			stage = FunnelStage{Status: status}
		}
		analytics.Funnel = append(analytics.Funnel, stage)
		analytics.TotalClients += stage.Count
		if status == policy.ClientStatusClosed {
			analytics.ClosedDealValue = stage.DealValue
			closedStageCount = stage.Count
		}
	}
	if analytics.TotalClients > 0 {
		analytics.ConversionRate = float64(closedStageCount) / float64(analytics.TotalClients)
	}

	clients, err := s.ClientRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	var closedDays float64
	var closedCount int64
	for i := range clients {
		c := &clients[i]
		if c.Status != policy.ClientStatusClosed || c.ClosedDate == nil {
			continue
		}
		closedDays += c.ClosedDate.Sub(c.CreatedAt).Hours() / 24
		closedCount++
	}
	if closedCount > 0 {
		analytics.AvgDaysToClose = closedDays / float64(closedCount)
	}
	return analytics, nil
}

// resolveFollowUpAssignees fills the derived owner for policy checks by
// mapping each follow-up to its parent client's assignee.
func (s *SalesServiceImpl) resolveFollowUpAssignees(ctx context.Context, followUps []FollowUp) error {
	ids := make([]primitive.ObjectID, 0, len(followUps))
	for i := range followUps {
		ids = append(ids, followUps[i].ClientID)
	}
	assignees, err := s.assigneesForClients(ctx, ids)
	if err != nil {
		return err
	}
	for i := range followUps {
		followUps[i].ClientAssignee = assignees[followUps[i].ClientID]
	}
	return nil
}

func (s *SalesServiceImpl) resolveActivityAssignees(ctx context.Context, activities []SalesActivity) error {
	ids := make([]primitive.ObjectID, 0, len(activities))
	for i := range activities {
		ids = append(ids, activities[i].ClientID)
	}
	assignees, err := s.assigneesForClients(ctx, ids)
	if err != nil {
		return err
	}
	for i := range activities {
		activities[i].ClientAssignee = assignees[activities[i].ClientID]
	}
	return nil
}

func (s *SalesServiceImpl) assigneesForClients(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error) {
	assignees := make(map[primitive.ObjectID]string, len(ids))
	for _, id := range ids {
		if _, done := assignees[id]; done {
			continue
		}
		client, err := s.ClientRepo.FindByID(ctx, id.Hex())
		if errors.Is(err, mongo.ErrNoDocuments) {
			continue
		}
		if err != nil {
			return nil, err
		}
		assignees[id] = client.AssignedTo.Hex()
	}
	return assignees, nil
}

func (s *SalesServiceImpl) findClient(ctx context.Context, id string) (*Client, error) {
	client, err := s.ClientRepo.FindByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, policy.NotFound("client not found")
	}
	if err != nil {
		return nil, err
	}
	return client, nil
}

func (s *SalesServiceImpl) findFollowUp(ctx context.Context, id string) (*FollowUp, error) {
	fu, err := s.FollowUpRepo.FindByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, policy.NotFound("follow-up not found")
	}
	if err != nil {
		return nil, err
	}
	client, err := s.ClientRepo.FindByID(ctx, fu.ClientID.Hex())
	if err == nil {
		fu.ClientAssignee = client.AssignedTo.Hex()
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}
	return fu, nil
}

func (s *SalesServiceImpl) findActivity(ctx context.Context, id string) (*SalesActivity, error) {
	activity, err := s.ActivityRepo.FindByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, policy.NotFound("sales activity not found")
	}
	if err != nil {
		return nil, err
	}
	client, err := s.ClientRepo.FindByID(ctx, activity.ClientID.Hex())
	if err == nil {
		activity.ClientAssignee = client.AssignedTo.Hex()
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}
	return activity, nil
}
