package meeting

import (
	"team-crm/internal/config"
	"team-crm/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type MeetingApi struct {
	controller *MeetingController
	config     *config.Config
}

func NewMeetingApi(controller *MeetingController, config *config.Config) *MeetingApi {
	return &MeetingApi{
		controller: controller,
		config:     config,
	}
}

// Setup registers all meeting-related routes
func (h *MeetingApi) Setup(app *fiber.App) {
	meetings := app.Group("/api/meetings", middleware.AuthMiddleware(h.config.SkipAuth))

	meetings.Post("/", h.controller.CreateMeeting)
	meetings.Get("/", h.controller.ListMeetings)
	meetings.Get("/:id", h.controller.GetMeeting)
	meetings.Put("/:id", h.controller.UpdateMeeting)
	meetings.Delete("/:id", h.controller.DeleteMeeting)
}
