package system

import (
	"team-crm/internal/database"

	"github.com/gofiber/fiber/v2"
)

type HealthApi struct {
	mongodb *database.MongodbDB
}

func NewHealthApi(mongodb *database.MongodbDB) *HealthApi {
	return &HealthApi{mongodb: mongodb}
}

// Setup registers health routes
func (h *HealthApi) Setup(app *fiber.App) {
	app.Get("/api/health", h.health)
}

// health godoc
// @Summary      Service health
// @Description  Reports service liveness and database reachability
// @Tags         system
// @Produce      json
// @Success      200  {object} map[string]interface{}
// @Router       /api/health [get]
func (h *HealthApi) health(c *fiber.Ctx) error {
	dbStatus := "up"
	if err := h.mongodb.DB.Client().Ping(c.Context(), nil); err != nil {
		dbStatus = "down"
	}

	status := fiber.StatusOK
	if dbStatus != "up" {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(fiber.Map{
		"status":   "ok",
		"database": dbStatus,
	})
}
