package notification

import (
	"team-crm/internal/config"
	"team-crm/internal/middleware"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type NotificationApi struct {
	controller *NotificationController
	config     *config.Config
}

func NewNotificationApi(controller *NotificationController, config *config.Config) *NotificationApi {
	return &NotificationApi{
		controller: controller,
		config:     config,
	}
}

// Setup registers notification routes and the websocket endpoint
func (h *NotificationApi) Setup(app *fiber.App) {
	notifications := app.Group("/api/notifications", middleware.AuthMiddleware(h.config.SkipAuth))

	notifications.Get("/", h.controller.ListNotifications)
	notifications.Put("/read-all", h.controller.MarkAllRead)
	notifications.Put("/:id/read", h.controller.MarkRead)

	app.Get("/api/ws", websocket.New(h.controller.HandleWebSocket))
}
