package sales

import (
	"team-crm/internal/config"
	"team-crm/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type SalesApi struct {
	controller *SalesController
	config     *config.Config
}

func NewSalesApi(controller *SalesController, config *config.Config) *SalesApi {
	return &SalesApi{
		controller: controller,
		config:     config,
	}
}

// Setup registers all sales-related routes
func (h *SalesApi) Setup(app *fiber.App) {
	sales := app.Group("/api/sales", middleware.AuthMiddleware(h.config.SkipAuth))

	sales.Get("/analytics", h.controller.GetAnalytics)

	sales.Post("/clients", h.controller.CreateClient)
	sales.Get("/clients", h.controller.ListClients)
	sales.Get("/clients/:id", h.controller.GetClient)
	sales.Put("/clients/:id", h.controller.UpdateClient)
	sales.Delete("/clients/:id", h.controller.DeleteClient)

	sales.Post("/follow-ups", h.controller.CreateFollowUp)
	sales.Get("/follow-ups", h.controller.ListFollowUps)
	sales.Put("/follow-ups/:id", h.controller.UpdateFollowUp)
	sales.Delete("/follow-ups/:id", h.controller.DeleteFollowUp)

	sales.Post("/activities", h.controller.CreateActivity)
	sales.Get("/activities", h.controller.ListActivities)
	sales.Put("/activities/:id", h.controller.UpdateActivity)
	sales.Delete("/activities/:id", h.controller.DeleteActivity)
}
