package leave

import (
	"time"

	common_api "team-crm/internal/common/api"
	"team-crm/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type LeaveController struct {
	LeaveService LeaveService
}

func NewLeaveController(leaveService LeaveService) *LeaveController {
	return &LeaveController{
		LeaveService: leaveService,
	}
}

type CreateLeaveRequestBody struct {
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	LeaveType string    `json:"leave_type,omitempty"`
	Reason    string    `json:"reason,omitempty"`
}

type UpdateLeaveRequestBody struct {
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	LeaveType *string    `json:"leave_type,omitempty"`
	Reason    *string    `json:"reason,omitempty"`
}

type UpdateLeaveStatusBody struct {
	Status          string `json:"status"`
	RejectionReason string `json:"rejection_reason,omitempty"`
}

// ListLeaveRequests godoc
// @Summary      List leave requests
// @Description  Privileged actors see everyone's requests; others see their own
// @Tags         leaves
// @Produce      json
// @Param        status query string false "Filter by status"
// @Param        user query string false "Filter by user ID"
// @Success      200  {object} map[string]interface{}
// @Router       /api/leaves [get]
func (ctrl *LeaveController) ListLeaveRequests(c *fiber.Ctx) error {
	filter := ListLeaveFilter{
		Status: c.Query("status"),
		UserID: c.Query("user"),
	}
	leaves, err := ctrl.LeaveService.ListLeaveRequests(c.Context(), middleware.Actor(c), filter)
	if err != nil {
		return common_api.Error(c, err)
	}
	return c.JSON(fiber.Map{"leaves": leaves, "total": len(leaves)})
}

// GetLeaveRequest godoc
// @Summary      Get leave request by ID
// @Tags         leaves
// @Produce      json
// @Param        id path string true "Leave Request ID"
// @Success      200  {object} LeaveRequest
// @Router       /api/leaves/{id} [get]
func (ctrl *LeaveController) GetLeaveRequest(c *fiber.Ctx) error {
	lr, err := ctrl.LeaveService.GetLeaveRequest(c.Context(), middleware.Actor(c), c.Params("id"))
	if err != nil {
		return common_api.Error(c, err)
	}
	return c.JSON(lr)
}

// CreateLeaveRequest godoc
// @Summary      Request leave
// @Tags         leaves
// @Accept       json
// @Produce      json
// @Param        input body CreateLeaveRequestBody true "Leave Request Input"
// @Success      201  {object} LeaveRequest
// @Router       /api/leaves [post]
func (ctrl *LeaveController) CreateLeaveRequest(c *fiber.Ctx) error {
	var req CreateLeaveRequestBody
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	lr, err := ctrl.LeaveService.CreateLeaveRequest(c.Context(), middleware.Actor(c), CreateLeaveInput{
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		LeaveType: req.LeaveType,
		Reason:    req.Reason,
	})
	if err != nil {
		return common_api.Error(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(lr)
}

// UpdateLeaveRequest godoc
// @Summary      Edit a pending leave request
// @Tags         leaves
// @Accept       json
// @Produce      json
// @Param        id path string true "Leave Request ID"
// @Param        input body UpdateLeaveRequestBody true "Leave Update Input"
// @Success      200  {object} LeaveRequest
// @Router       /api/leaves/{id} [put]
func (ctrl *LeaveController) UpdateLeaveRequest(c *fiber.Ctx) error {
	var req UpdateLeaveRequestBody
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	lr, err := ctrl.LeaveService.UpdateLeaveRequest(c.Context(), middleware.Actor(c), c.Params("id"), UpdateLeaveInput{
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		LeaveType: req.LeaveType,
		Reason:    req.Reason,
	})
	if err != nil {
		return common_api.Error(c, err)
	}
	return c.JSON(lr)
}

// DeleteLeaveRequest godoc
// @Summary      Withdraw a pending leave request
// @Tags         leaves
// @Param        id path string true "Leave Request ID"
// @Success      204
// @Router       /api/leaves/{id} [delete]
func (ctrl *LeaveController) DeleteLeaveRequest(c *fiber.Ctx) error {
	if err := ctrl.LeaveService.DeleteLeaveRequest(c.Context(), middleware.Actor(c), c.Params("id")); err != nil {
		return common_api.Error(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UpdateStatus godoc
// @Summary      Approve or reject a leave request
// @Tags         leaves
// @Accept       json
// @Produce      json
// @Param        id path string true "Leave Request ID"
// @Param        input body UpdateLeaveStatusBody true "Decision"
// @Success      200  {object} LeaveRequest
// @Router       /api/leaves/{id}/status [put]
func (ctrl *LeaveController) UpdateStatus(c *fiber.Ctx) error {
	var req UpdateLeaveStatusBody
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	lr, err := ctrl.LeaveService.UpdateStatus(c.Context(), middleware.Actor(c), c.Params("id"), req.Status, req.RejectionReason)
	if err != nil {
		return common_api.Error(c, err)
	}
	return c.JSON(lr)
}

// MyLeaves godoc
// @Summary      List the caller's leave requests
// @Tags         leaves
// @Produce      json
// @Success      200  {object} map[string]interface{}
// @Router       /api/leaves/my [get]
func (ctrl *LeaveController) MyLeaves(c *fiber.Ctx) error {
	leaves, err := ctrl.LeaveService.MyLeaves(c.Context(), middleware.Actor(c))
	if err != nil {
		return common_api.Error(c, err)
	}
	return c.JSON(fiber.Map{"leaves": leaves, "total": len(leaves)})
}

// PendingLeaves godoc
// @Summary      List pending leave requests awaiting a decision
// @Tags         leaves
// @Produce      json
// @Success      200  {object} map[string]interface{}
// @Router       /api/leaves/pending [get]
func (ctrl *LeaveController) PendingLeaves(c *fiber.Ctx) error {
	leaves, err := ctrl.LeaveService.Pending(c.Context(), middleware.Actor(c))
	if err != nil {
		return common_api.Error(c, err)
	}
	return c.JSON(fiber.Map{"leaves": leaves, "total": len(leaves)})
}
