package leave

import (
	"team-crm/internal/config"
	"team-crm/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type LeaveApi struct {
	controller *LeaveController
	config     *config.Config
}

func NewLeaveApi(controller *LeaveController, config *config.Config) *LeaveApi {
	return &LeaveApi{
		controller: controller,
		config:     config,
	}
}

// Setup registers all leave-related routes
func (h *LeaveApi) Setup(app *fiber.App) {
	leaves := app.Group("/api/leaves", middleware.AuthMiddleware(h.config.SkipAuth))

	leaves.Post("/", h.controller.CreateLeaveRequest)
	leaves.Get("/", h.controller.ListLeaveRequests)
	leaves.Get("/my", h.controller.MyLeaves)
	leaves.Get("/pending", h.controller.PendingLeaves)
	leaves.Get("/:id", h.controller.GetLeaveRequest)
	leaves.Put("/:id", h.controller.UpdateLeaveRequest)
	leaves.Put("/:id/status", h.controller.UpdateStatus)
	leaves.Delete("/:id", h.controller.DeleteLeaveRequest)
}
