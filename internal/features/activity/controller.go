package activity

import (
	"time"

	common_api "team-crm/internal/common/api"
	"team-crm/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type WorkActivityController struct {
	ActivityService WorkActivityService
}

func NewWorkActivityController(activityService WorkActivityService) *WorkActivityController {
	return &WorkActivityController{
		ActivityService: activityService,
	}
}

type CreateWorkActivityRequest struct {
	Description string    `json:"description"`
	Category    string    `json:"category,omitempty"`
	OccurredAt  time.Time `json:"occurred_at,omitempty"`
}

// ListActivities godoc
// @Summary      List work activities
// @Description  Privileged actors may filter by user; everyone else sees their own log
// @Tags         activities
// @Produce      json
// @Param        user query string false "Filter by user ID"
// @Success      200  {object} map[string]interface{}
// @Router       /api/activities [get]
func (ctrl *WorkActivityController) ListActivities(c *fiber.Ctx) error {
	activities, err := ctrl.ActivityService.ListActivities(c.Context(), middleware.Actor(c), c.Query("user"))
	if err != nil {
		return common_api.Error(c, err)
	}
	return c.JSON(fiber.Map{"activities": activities, "total": len(activities)})
}

// CreateActivity godoc
// @Summary      Log a work activity
// @Tags         activities
// @Accept       json
// @Produce      json
// @Param        input body CreateWorkActivityRequest true "Activity Input"
// @Success      201  {object} WorkActivity
// @Router       /api/activities [post]
func (ctrl *WorkActivityController) CreateActivity(c *fiber.Ctx) error {
	var req CreateWorkActivityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	activity, err := ctrl.ActivityService.CreateActivity(c.Context(), middleware.Actor(c), CreateWorkActivityInput{
		Description: req.Description,
		Category:    req.Category,
		OccurredAt:  req.OccurredAt,
	})
	if err != nil {
		return common_api.Error(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(activity)
}
