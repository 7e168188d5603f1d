package meeting

import (
	"time"

	common_api "team-crm/internal/common/api"
	"team-crm/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type MeetingController struct {
	MeetingService MeetingService
}

func NewMeetingController(meetingService MeetingService) *MeetingController {
	return &MeetingController{
		MeetingService: meetingService,
	}
}

type CreateMeetingRequest struct {
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	Location     string    `json:"location,omitempty"`
	MeetingLink  string    `json:"meeting_link,omitempty"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	Participants []string  `json:"participants,omitempty"`
}

type UpdateMeetingRequest struct {
	Title        *string    `json:"title,omitempty"`
	Description  *string    `json:"description,omitempty"`
	Location     *string    `json:"location,omitempty"`
	MeetingLink  *string    `json:"meeting_link,omitempty"`
	StartTime    *time.Time `json:"start_time,omitempty"`
	EndTime      *time.Time `json:"end_time,omitempty"`
	Status       *string    `json:"status,omitempty"`
	Participants []string   `json:"participants,omitempty"`
}

// ListMeetings godoc
// @Summary      List meetings
// @Description  Privileged actors see every meeting; others see meetings they created or attend
// @Tags         meetings
// @Produce      json
// @Success      200  {object} map[string]interface{}
// @Router       /api/meetings [get]
func (ctrl *MeetingController) ListMeetings(c *fiber.Ctx) error {
	meetings, err := ctrl.MeetingService.ListMeetings(c.Context(), middleware.Actor(c))
	if err != nil {
		return common_api.Error(c, err)
	}
	return c.JSON(fiber.Map{"meetings": meetings, "total": len(meetings)})
}

// GetMeeting godoc
// @Summary      Get meeting by ID
// @Tags         meetings
// @Produce      json
// @Param        id path string true "Meeting ID"
// @Success      200  {object} Meeting
// @Router       /api/meetings/{id} [get]
func (ctrl *MeetingController) GetMeeting(c *fiber.Ctx) error {
	m, err := ctrl.MeetingService.GetMeeting(c.Context(), middleware.Actor(c), c.Params("id"))
	if err != nil {
		return common_api.Error(c, err)
	}
	return c.JSON(m)
}

// CreateMeeting godoc
// @Summary      Schedule a meeting
// @Tags         meetings
// @Accept       json
// @Produce      json
// @Param        input body CreateMeetingRequest true "Meeting Input"
// @Success      201  {object} Meeting
// @Router       /api/meetings [post]
func (ctrl *MeetingController) CreateMeeting(c *fiber.Ctx) error {
	var req CreateMeetingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	m, err := ctrl.MeetingService.CreateMeeting(c.Context(), middleware.Actor(c), CreateMeetingInput{
		Title:        req.Title,
		Description:  req.Description,
		Location:     req.Location,
		MeetingLink:  req.MeetingLink,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Participants: req.Participants,
	})
	if err != nil {
		return common_api.Error(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(m)
}

// UpdateMeeting godoc
// @Summary      Update meeting
// @Tags         meetings
// @Accept       json
// @Produce      json
// @Param        id path string true "Meeting ID"
// @Param        input body UpdateMeetingRequest true "Meeting Update Input"
// @Success      200  {object} Meeting
// @Router       /api/meetings/{id} [put]
func (ctrl *MeetingController) UpdateMeeting(c *fiber.Ctx) error {
	var req UpdateMeetingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	m, err := ctrl.MeetingService.UpdateMeeting(c.Context(), middleware.Actor(c), c.Params("id"), UpdateMeetingInput{
		Title:        req.Title,
		Description:  req.Description,
		Location:     req.Location,
		MeetingLink:  req.MeetingLink,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Status:       req.Status,
		Participants: req.Participants,
	})
	if err != nil {
		return common_api.Error(c, err)
	}
	return c.JSON(m)
}

// DeleteMeeting godoc
// @Summary      Cancel meeting
// @Tags         meetings
// @Param        id path string true "Meeting ID"
// @Success      204
// @Router       /api/meetings/{id} [delete]
func (ctrl *MeetingController) DeleteMeeting(c *fiber.Ctx) error {
	if err := ctrl.MeetingService.DeleteMeeting(c.Context(), middleware.Actor(c), c.Params("id")); err != nil {
		return common_api.Error(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
