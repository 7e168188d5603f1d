package system

import (
	common_api "team-crm/internal/common/api"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"

	_ "team-crm/docs"
)

type SwaggerApi struct{}

func NewSwaggerApi() common_api.Route {
	return &SwaggerApi{}
}

func (h *SwaggerApi) Setup(app *fiber.App) {
	app.Get("/swagger/*", swagger.HandlerDefault)
}
