package sales

import (
	"time"

	common_api "team-crm/internal/common/api"
	"team-crm/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type SalesController struct {
	SalesService SalesService
}

func NewSalesController(salesService SalesService) *SalesController {
	return &SalesController{
		SalesService: salesService,
	}
}

type CreateClientRequest struct {
	ClientName  string   `json:"client_name"`
	CompanyName string   `json:"company_name,omitempty"`
	Email       string   `json:"email,omitempty"`
	Phone       string   `json:"phone,omitempty"`
	Status      string   `json:"status,omitempty"`
	DealValue   *float64 `json:"deal_value,omitempty"`
	Services    []string `json:"services,omitempty"`
	Notes       string   `json:"notes,omitempty"`
	AssignedTo  string   `json:"assigned_to,omitempty"`
}

type UpdateClientRequest struct {
	ClientName  *string  `json:"client_name,omitempty"`
	CompanyName *string  `json:"company_name,omitempty"`
	Email       *string  `json:"email,omitempty"`
	Phone       *string  `json:"phone,omitempty"`
	Status      *string  `json:"status,omitempty"`
	DealValue   *float64 `json:"deal_value,omitempty"`
	Services    []string `json:"services,omitempty"`
	Notes       *string  `json:"notes,omitempty"`
	AssignedTo  *string  `json:"assigned_to,omitempty"`
}

type CreateFollowUpRequest struct {
	ClientID string    `json:"client_id"`
	DueDate  time.Time `json:"due_date"`
	Notes    string    `json:"notes,omitempty"`
}

type UpdateFollowUpRequest struct {
	DueDate   *time.Time `json:"due_date,omitempty"`
	Notes     *string    `json:"notes,omitempty"`
	Completed *bool      `json:"completed,omitempty"`
}

type CreateActivityRequest struct {
	ClientID     string    `json:"client_id"`
	ActivityType string    `json:"activity_type"`
	Description  string    `json:"description,omitempty"`
	OccurredAt   time.Time `json:"occurred_at,omitempty"`
}

type UpdateActivityRequest struct {
	ActivityType *string    `json:"activity_type,omitempty"`
	Description  *string    `json:"description,omitempty"`
	OccurredAt   *time.Time `json:"occurred_at,omitempty"`
}

// ListClients godoc
// @Summary      List clients
// @Description  Privileged actors see the whole book; others see their own assignments
// @Tags         sales
// @Produce      json
// @Param        q query string false "Search client name, company name or email"
// @Param        status query string false "Filter by pipeline stage"
// @Success      200  {object} map[string]interface{}
// @Router       /api/sales/clients [get]
func (ctrl *SalesController) ListClients(c *fiber.Ctx) error {
	clients, err := ctrl.SalesService.ListClients(c.Context(), middleware.Actor(c), ListClientFilter{
		Query:  c.Query("q"),
		Status: c.Query("status"),
	})
	if err != nil {
		return common_api.Error(c, err)
	}
	return c.JSON(fiber.Map{"clients": clients, "total": len(clients)})
}

// GetClient godoc
// @Summary      Get client by ID
// @Tags         sales
// @Produce      json
// @Param        id path string true "Client ID"
// @Success      200  {object} Client
// @Router       /api/sales/clients/{id} [get]
func (ctrl *SalesController) GetClient(c *fiber.Ctx) error {
	client, err := ctrl.SalesService.GetClient(c.Context(), middleware.Actor(c), c.Params("id"))
	if err != nil {
		return common_api.Error(c, err)
	}
	return c.JSON(client)
}

// CreateClient godoc
// @Summary      Create client
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        input body CreateClientRequest true "Client Input"
// @Success      201  {object} Client
// @Router       /api/sales/clients [post]
func (ctrl *SalesController) CreateClient(c *fiber.Ctx) error {
	var req CreateClientRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	client, err := ctrl.SalesService.CreateClient(c.Context(), middleware.Actor(c), CreateClientInput{
		ClientName:  req.ClientName,
		CompanyName: req.CompanyName,
		Email:       req.Email,
		Phone:       req.Phone,
		Status:      req.Status,
		DealValue:   req.DealValue,
		Services:    req.Services,
		Notes:       req.Notes,
		AssignedTo:  req.AssignedTo,
	})
	if err != nil {
		return common_api.Error(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(client)
}

// UpdateClient godoc
// @Summary      Update client
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        id path string true "Client ID"
// @Param        input body UpdateClientRequest true "Client Update Input"
// @Success      200  {object} Client
// @Router       /api/sales/clients/{id} [put]
func (ctrl *SalesController) UpdateClient(c *fiber.Ctx) error {
	var req UpdateClientRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	client, err := ctrl.SalesService.UpdateClient(c.Context(), middleware.Actor(c), c.Params("id"), UpdateClientInput{
		ClientName:  req.ClientName,
		CompanyName: req.CompanyName,
		Email:       req.Email,
		Phone:       req.Phone,
		Status:      req.Status,
		DealValue:   req.DealValue,
		Services:    req.Services,
		Notes:       req.Notes,
		AssignedTo:  req.AssignedTo,
	})
	if err != nil {
		return common_api.Error(c, err)
	}
	return c.JSON(client)
}

// DeleteClient godoc
// @Summary      Delete client
// @Tags         sales
// @Param        id path string true "Client ID"
// @Success      204
// @Router       /api/sales/clients/{id} [delete]
func (ctrl *SalesController) DeleteClient(c *fiber.Ctx) error {
	if err := ctrl.SalesService.DeleteClient(c.Context(), middleware.Actor(c), c.Params("id")); err != nil {
		return common_api.Error(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListFollowUps godoc
// @Summary      List follow-ups
// @Tags         sales
// @Produce      json
// @Param        client query string false "Filter by client ID"
// @Success      200  {object} map[string]interface{}
// @Router       /api/sales/follow-ups [get]
func (ctrl *SalesController) ListFollowUps(c *fiber.Ctx) error {
	followUps, err := ctrl.SalesService.ListFollowUps(c.Context(), middleware.Actor(c), c.Query("client"))
	if err != nil {
		return common_api.Error(c, err)
	}
	return c.JSON(fiber.Map{"follow_ups": followUps, "total": len(followUps)})
}

// CreateFollowUp godoc
// @Summary      Schedule a follow-up for a client
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        input body CreateFollowUpRequest true "Follow-up Input"
// @Success      201  {object} FollowUp
// @Router       /api/sales/follow-ups [post]
func (ctrl *SalesController) CreateFollowUp(c *fiber.Ctx) error {
	var req CreateFollowUpRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	fu, err := ctrl.SalesService.CreateFollowUp(c.Context(), middleware.Actor(c), CreateFollowUpInput{
		ClientID: req.ClientID,
		DueDate:  req.DueDate,
		Notes:    req.Notes,
	})
	if err != nil {
		return common_api.Error(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fu)
}

// UpdateFollowUp godoc
// @Summary      Update follow-up
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        id path string true "Follow-up ID"
// @Param        input body UpdateFollowUpRequest true "Follow-up Update Input"
// @Success      200  {object} FollowUp
// @Router       /api/sales/follow-ups/{id} [put]
func (ctrl *SalesController) UpdateFollowUp(c *fiber.Ctx) error {
	var req UpdateFollowUpRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	fu, err := ctrl.SalesService.UpdateFollowUp(c.Context(), middleware.Actor(c), c.Params("id"), UpdateFollowUpInput{
		DueDate:   req.DueDate,
		Notes:     req.Notes,
		Completed: req.Completed,
	})
	if err != nil {
		return common_api.Error(c, err)
	}
	return c.JSON(fu)
}

// DeleteFollowUp godoc
// @Summary      Delete follow-up
// @Tags         sales
// @Param        id path string true "Follow-up ID"
// @Success      204
// @Router       /api/sales/follow-ups/{id} [delete]
func (ctrl *SalesController) DeleteFollowUp(c *fiber.Ctx) error {
	if err := ctrl.SalesService.DeleteFollowUp(c.Context(), middleware.Actor(c), c.Params("id")); err != nil {
		return common_api.Error(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListActivities godoc
// @Summary      List sales activities
// @Tags         sales
// @Produce      json
// @Param        client query string false "Filter by client ID"
// @Param        type query string false "Filter by activity type"
// @Success      200  {object} map[string]interface{}
// @Router       /api/sales/activities [get]
func (ctrl *SalesController) ListActivities(c *fiber.Ctx) error {
	activities, err := ctrl.SalesService.ListActivities(c.Context(), middleware.Actor(c), ListActivityFilter{
		ClientID: c.Query("client"),
		Type:     c.Query("type"),
	})
	if err != nil {
		return common_api.Error(c, err)
	}
	return c.JSON(fiber.Map{"activities": activities, "total": len(activities)})
}

// CreateActivity godoc
// @Summary      Record a sales activity
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        input body CreateActivityRequest true "Activity Input"
// @Success      201  {object} SalesActivity
// @Router       /api/sales/activities [post]
func (ctrl *SalesController) CreateActivity(c *fiber.Ctx) error {
	var req CreateActivityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	activity, err := ctrl.SalesService.CreateActivity(c.Context(), middleware.Actor(c), CreateActivityInput{
		ClientID:     req.ClientID,
		ActivityType: req.ActivityType,
		Description:  req.Description,
		OccurredAt:   req.OccurredAt,
	})
	if err != nil {
		return common_api.Error(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(activity)
}

// UpdateActivity godoc
// @Summary      Update sales activity
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        id path string true "Activity ID"
// @Param        input body UpdateActivityRequest true "Activity Update Input"
// @Success      200  {object} SalesActivity
// @Router       /api/sales/activities/{id} [put]
func (ctrl *SalesController) UpdateActivity(c *fiber.Ctx) error {
	var req UpdateActivityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	activity, err := ctrl.SalesService.UpdateActivity(c.Context(), middleware.Actor(c), c.Params("id"), UpdateActivityInput{
		ActivityType: req.ActivityType,
		Description:  req.Description,
		OccurredAt:   req.OccurredAt,
	})
	if err != nil {
		return common_api.Error(c, err)
	}
	return c.JSON(activity)
}

// DeleteActivity godoc
// @Summary      Delete sales activity
// @Tags         sales
// @Param        id path string true "Activity ID"
// @Success      204
// @Router       /api/sales/activities/{id} [delete]
func (ctrl *SalesController) DeleteActivity(c *fiber.Ctx) error {
	if err := ctrl.SalesService.DeleteActivity(c.Context(), middleware.Actor(c), c.Params("id")); err != nil {
		return common_api.Error(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetAnalytics godoc
// @Summary      Sales funnel analytics
// @Tags         sales
// @Produce      json
// @Success      200  {object} Analytics
// @Router       /api/sales/analytics [get]
func (ctrl *SalesController) GetAnalytics(c *fiber.Ctx) error {
	analytics, err := ctrl.SalesService.GetAnalytics(c.Context(), middleware.Actor(c))
	if err != nil {
		return common_api.Error(c, err)
	}
	return c.JSON(analytics)
}
