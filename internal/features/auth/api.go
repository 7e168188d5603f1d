package auth

import (
	"team-crm/internal/config"
	"team-crm/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type AuthApi struct {
	controller *AuthController
	config     *config.Config
}

func NewAuthApi(controller *AuthController, config *config.Config) *AuthApi {
	return &AuthApi{
		controller: controller,
		config:     config,
	}
}

func (h *AuthApi) Setup(app *fiber.App) {
	auth := app.Group("/api/auth")

	auth.Post("/login", h.controller.Login)
	auth.Post("/register", h.controller.Register)
	auth.Get("/me", middleware.AuthMiddleware(h.config.SkipAuth), h.controller.Me)
}
