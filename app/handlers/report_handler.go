package handlers

import (
	"log"
	"time"

	businessflow "github.com/JohnConnorCode/roofing-made-easy/business_flow"
	"github.com/gofiber/fiber/v3"
)

// ReportHandlerInterface defines the contract for reporting handlers
type ReportHandlerInterface interface {
	Summary(c fiber.Ctx) error
	ExportLeads(c fiber.Ctx) error
}

// ReportHandler handles the back office reporting endpoints
type ReportHandler struct {
	reportFlow businessflow.ReportFlow
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportFlow businessflow.ReportFlow) *ReportHandler {
	return &ReportHandler{reportFlow: reportFlow}
}

// Summary returns aggregate funnel and revenue figures
// @Summary Report Summary
// @Tags Reports
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.ReportSummaryResponse} "Summary"
// @Router /api/v1/admin/reports/summary [get]
func (h *ReportHandler) Summary(c fiber.Ctx) error {
	result, err := h.reportFlow.Summary(createRequestContext(c, "/api/v1/admin/reports/summary"))
	if err != nil {
		log.Println("Report summary failed", err)
		return businessErrorResponse(c, err, "Failed to build report", "REPORT_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Report summary", result)
}

// ExportLeads streams the lead list as a spreadsheet download
// @Summary Export Leads
// @Tags Reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary "Spreadsheet"
// @Router /api/v1/admin/reports/leads.xlsx [get]
func (h *ReportHandler) ExportLeads(c fiber.Ctx) error {
	data, err := h.reportFlow.ExportLeadsXLSX(createRequestContext(c, "/api/v1/admin/reports/leads.xlsx"))
	if err != nil {
		log.Println("Lead export failed", err)
		return businessErrorResponse(c, err, "Failed to export leads", "REPORT_EXPORT_FAILED")
	}

	filename := "leads-" + time.Now().UTC().Format("2006-01-02") + ".xlsx"
	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	return c.Send(data)
}
