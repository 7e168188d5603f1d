package report

import (
	"context"
	"fmt"
	"time"

	"team-crm/internal/features/sales"
	"team-crm/internal/policy"

	"github.com/xuri/excelize/v2"
)

type ReportService interface {
	ExportClients(ctx context.Context, actor policy.Actor) ([]byte, string, error)
}

type ReportServiceImpl struct {
	SalesService sales.SalesService
	Now          func() time.Time
}

func NewReportService(salesService sales.SalesService) ReportService {
	return &ReportServiceImpl{
		SalesService: salesService,
		Now:          time.Now,
	}
}

// ExportClients renders the caller's visible client book as a workbook with a
// funnel summary sheet. Privileged actors export the whole book and get the
// analytics sheet; everyone else exports just their own assignments.
func (s *ReportServiceImpl) ExportClients(ctx context.Context, actor policy.Actor) ([]byte, string, error) {
	clients, err := s.SalesService.ListClients(ctx, actor, sales.ListClientFilter{})
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Clients"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, "", err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	columns := []string{"Client", "Company", "Email", "Phone", "Status", "Deal Value", "Closed", "Assigned To"}
	for i, col := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, col)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for rowIdx, client := range clients {
		closed := ""
		if client.ClosedDate != nil {
			closed = client.ClosedDate.Format("2006-01-02")
		}
		values := []interface{}{
			client.ClientName,
			client.CompanyName,
			client.Email,
			client.Phone,
			client.Status,
			client.DealValue,
			closed,
			client.AssignedTo.Hex(),
		}
		for colIdx, val := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, val)
		}
	}

	for i := range columns {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, col, col, 18)
	}

	if actor.Privileged() {
		if err := s.addFunnelSheet(ctx, actor, f, headerStyle); err != nil {
			return nil, "", err
		}
	}

	buffer, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("clients_%s.xlsx", s.Now().Format("20060102_150405"))
	return buffer.Bytes(), filename, nil
}

func (s *ReportServiceImpl) addFunnelSheet(ctx context.Context, actor policy.Actor, f *excelize.File, headerStyle int) error {
	analytics, err := s.SalesService.GetAnalytics(ctx, actor)
	if err != nil {
		return err
	}

	sheetName := "Funnel"
	if _, err := f.NewSheet(sheetName); err != nil {
		return err
	}

	for i, col := range []string{"Stage", "Clients", "Deal Value"} {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, col)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for rowIdx, stage := range analytics.Funnel {
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", rowIdx+2), stage.Status)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", rowIdx+2), stage.Count)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", rowIdx+2), stage.DealValue)
	}

	totalRow := len(analytics.Funnel) + 2
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", totalRow), "Total")
	f.SetCellValue(sheetName, fmt.Sprintf("B%d", totalRow), analytics.TotalClients)
	f.SetCellValue(sheetName, fmt.Sprintf("C%d", totalRow), analytics.ClosedDealValue)
	return nil
}
