package task

import (
	"time"

	common_api "team-crm/internal/common/api"
	"team-crm/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type TaskController struct {
	TaskService TaskService
}

func NewTaskController(taskService TaskService) *TaskController {
	return &TaskController{
		TaskService: taskService,
	}
}

type CreateTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status,omitempty"`
	Priority    string     `json:"priority,omitempty"`
	AssignedTo  string     `json:"assigned_to"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	Progress    *int       `json:"progress,omitempty"`
}

type UpdateTaskRequest struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Status      *string    `json:"status,omitempty"`
	Priority    *string    `json:"priority,omitempty"`
	AssignedTo  *string    `json:"assigned_to,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	Progress    *int       `json:"progress,omitempty"`
}

type AddNoteRequest struct {
	Content string `json:"content"`
}

// ListTasks godoc
// @Summary      List tasks
// @Description  Privileged actors get all tasks; assignees get their own
// @Tags         tasks
// @Produce      json
// @Success      200  {object} map[string]interface{}
// @Router       /api/tasks [get]
func (ctrl *TaskController) ListTasks(c *fiber.Ctx) error {
	tasks, err := ctrl.TaskService.ListTasks(c.Context(), middleware.Actor(c))
	if err != nil {
		return common_api.Error(c, err)
	}
	return c.JSON(fiber.Map{"tasks": tasks, "total": len(tasks)})
}

// GetTask godoc
// @Summary      Get task by ID
// @Tags         tasks
// @Produce      json
// @Param        id path string true "Task ID"
// @Success      200  {object} Task
// @Router       /api/tasks/{id} [get]
func (ctrl *TaskController) GetTask(c *fiber.Ctx) error {
	task, err := ctrl.TaskService.GetTask(c.Context(), middleware.Actor(c), c.Params("id"))
	if err != nil {
		return common_api.Error(c, err)
	}
	return c.JSON(task)
}

// CreateTask godoc
// @Summary      Create task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        input body CreateTaskRequest true "Create Task Input"
// @Success      201  {object} Task
// @Router       /api/tasks [post]
func (ctrl *TaskController) CreateTask(c *fiber.Ctx) error {
	var req CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	task, err := ctrl.TaskService.CreateTask(c.Context(), middleware.Actor(c), CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		AssignedTo:  req.AssignedTo,
		Deadline:    req.Deadline,
		Progress:    req.Progress,
	})
	if err != nil {
		return common_api.Error(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(task)
}

// UpdateTask godoc
// @Summary      Update task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        id path string true "Task ID"
// @Param        input body UpdateTaskRequest true "Update Task Input"
// @Success      200  {object} Task
// @Router       /api/tasks/{id} [put]
func (ctrl *TaskController) UpdateTask(c *fiber.Ctx) error {
	var req UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	task, err := ctrl.TaskService.UpdateTask(c.Context(), middleware.Actor(c), c.Params("id"), UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		AssignedTo:  req.AssignedTo,
		Deadline:    req.Deadline,
		Progress:    req.Progress,
	})
	if err != nil {
		return common_api.Error(c, err)
	}
	return c.JSON(task)
}

// DeleteTask godoc
// @Summary      Delete task
// @Tags         tasks
// @Param        id path string true "Task ID"
// @Success      204
// @Router       /api/tasks/{id} [delete]
func (ctrl *TaskController) DeleteTask(c *fiber.Ctx) error {
	if err := ctrl.TaskService.DeleteTask(c.Context(), middleware.Actor(c), c.Params("id")); err != nil {
		return common_api.Error(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AddNote godoc
// @Summary      Add a note to a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        id path string true "Task ID"
// @Param        input body AddNoteRequest true "Note content"
// @Success      201  {object} Task
// @Router       /api/tasks/{id}/notes [post]
func (ctrl *TaskController) AddNote(c *fiber.Ctx) error {
	var req AddNoteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	task, err := ctrl.TaskService.AddNote(c.Context(), middleware.Actor(c), c.Params("id"), req.Content)
	if err != nil {
		return common_api.Error(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(task)
}
