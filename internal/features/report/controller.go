package report

import (
	common_api "team-crm/internal/common/api"
	"team-crm/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ReportController struct {
	ReportService ReportService
}

func NewReportController(reportService ReportService) *ReportController {
	return &ReportController{
		ReportService: reportService,
	}
}

// ExportClients godoc
// @Summary      Export the visible client book as an Excel workbook
// @Tags         reports
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200
// @Router       /api/reports/clients [get]
func (ctrl *ReportController) ExportClients(c *fiber.Ctx) error {
	data, filename, err := ctrl.ReportService.ExportClients(c.Context(), middleware.Actor(c))
	if err != nil {
		return common_api.Error(c, err)
	}

	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	return c.Send(data)
}
