package notification

import (
	common_api "team-crm/internal/common/api"
	"team-crm/internal/middleware"
	"team-crm/pkg/utils"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type NotificationController struct {
	NotificationService NotificationService
	Hub                 *Hub
	Logger              *zap.Logger
}

func NewNotificationController(notificationService NotificationService, hub *Hub, logger *zap.Logger) *NotificationController {
	return &NotificationController{
		NotificationService: notificationService,
		Hub:                 hub,
		Logger:              logger,
	}
}

// ListNotifications godoc
// @Summary      List the caller's notifications
// @Tags         notifications
// @Produce      json
// @Success      200  {object} map[string]interface{}
// @Router       /api/notifications [get]
func (ctrl *NotificationController) ListNotifications(c *fiber.Ctx) error {
	notifications, err := ctrl.NotificationService.ListMine(c.Context(), middleware.Actor(c))
	if err != nil {
		return common_api.Error(c, err)
	}
	return c.JSON(fiber.Map{"notifications": notifications, "total": len(notifications)})
}

// MarkRead godoc
// @Summary      Mark a notification as read
// @Tags         notifications
// @Param        id path string true "Notification ID"
// @Success      204
// @Router       /api/notifications/{id}/read [put]
func (ctrl *NotificationController) MarkRead(c *fiber.Ctx) error {
	if err := ctrl.NotificationService.MarkRead(c.Context(), middleware.Actor(c), c.Params("id")); err != nil {
		return common_api.Error(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// MarkAllRead godoc
// @Summary      Mark all notifications as read
// @Tags         notifications
// @Success      204
// @Router       /api/notifications/read-all [put]
func (ctrl *NotificationController) MarkAllRead(c *fiber.Ctx) error {
	if err := ctrl.NotificationService.MarkAllRead(c.Context(), middleware.Actor(c)); err != nil {
		return common_api.Error(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleWebSocket keeps the connection registered with the hub until the
// client goes away. The browser websocket API cannot set headers, so the
// token rides in the query string.
func (ctrl *NotificationController) HandleWebSocket(c *websocket.Conn) {
	claims, err := utils.ValidateToken(c.Query("token"))
	if err != nil {
		_ = c.WriteMessage(websocket.TextMessage, []byte(`{"error":"invalid token"}`))
		_ = c.Close()
		return
	}

	ctrl.Hub.Register(claims.UserID, c)
	defer ctrl.Hub.Unregister(claims.UserID, c)

	for {
		if _, _, err := c.ReadMessage(); err != nil {
			ctrl.Logger.Debug("websocket closed", zap.String("user_id", claims.UserID), zap.Error(err))
			break
		}
	}
}
