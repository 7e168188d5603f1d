package activity

import (
	"team-crm/internal/config"
	"team-crm/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type WorkActivityApi struct {
	controller *WorkActivityController
	config     *config.Config
}

func NewWorkActivityApi(controller *WorkActivityController, config *config.Config) *WorkActivityApi {
	return &WorkActivityApi{
		controller: controller,
		config:     config,
	}
}

// Setup registers all work activity routes
func (h *WorkActivityApi) Setup(app *fiber.App) {
	activities := app.Group("/api/activities", middleware.AuthMiddleware(h.config.SkipAuth))

	activities.Post("/", h.controller.CreateActivity)
	activities.Get("/", h.controller.ListActivities)
}
