package task

import (
	"team-crm/internal/config"
	"team-crm/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type TaskApi struct {
	controller *TaskController
	config     *config.Config
}

func NewTaskApi(controller *TaskController, config *config.Config) *TaskApi {
	return &TaskApi{
		controller: controller,
		config:     config,
	}
}

// Setup registers all task-related routes
func (h *TaskApi) Setup(app *fiber.App) {
	tasks := app.Group("/api/tasks", middleware.AuthMiddleware(h.config.SkipAuth))

	tasks.Post("/", h.controller.CreateTask)
	tasks.Get("/", h.controller.ListTasks)
	tasks.Get("/:id", h.controller.GetTask)
	tasks.Put("/:id", h.controller.UpdateTask)
	tasks.Delete("/:id", h.controller.DeleteTask)
	tasks.Post("/:id/notes", h.controller.AddNote)
}
