package audit

import (
	"strconv"

	common_api "team-crm/internal/common/api"
	"team-crm/internal/middleware"
	"team-crm/internal/policy"

	"github.com/gofiber/fiber/v2"
)

type AuditController struct {
	AuditService AuditService
}

func NewAuditController(auditService AuditService) *AuditController {
	return &AuditController{
		AuditService: auditService,
	}
}

// History godoc
// @Summary      Change history of an entity
// @Description  Privileged actors only
// @Tags         audit
// @Produce      json
// @Param        entity_type query string true "Entity type (user, task, leave_request, ...)"
// @Param        entity_id query string true "Entity ID"
// @Param        limit query int false "Max entries, newest first"
// @Success      200  {object} map[string]interface{}
// @Router       /api/audit [get]
func (ctrl *AuditController) History(c *fiber.Ctx) error {
	actor := middleware.Actor(c)
	if !actor.Privileged() {
		return common_api.Error(c, policy.Forbidden("you do not have permission to view audit history"))
	}

	entityType := c.Query("entity_type")
	entityID := c.Query("entity_id")
	if entityType == "" || entityID == "" {
		return common_api.Error(c, policy.ValidationFailed("entity_type and entity_id are required"))
	}

	limit, _ := strconv.ParseInt(c.Query("limit", "50"), 10, 64)

	entries, err := ctrl.AuditService.History(c.Context(), entityType, entityID, limit)
	if err != nil {
		return common_api.Error(c, err)
	}
	return c.JSON(fiber.Map{"entries": entries, "total": len(entries)})
}
