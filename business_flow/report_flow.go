package businessflow

import (
	"context"

	"github.com/JohnConnorCode/roofing-made-easy/app/dto"
	"github.com/JohnConnorCode/roofing-made-easy/models"
	"github.com/JohnConnorCode/roofing-made-easy/repository"
	"github.com/JohnConnorCode/roofing-made-easy/utils"
	"github.com/xuri/excelize/v2"
)

// ReportFlow represents the back office reporting workflow
type ReportFlow interface {
	Summary(ctx context.Context) (*dto.ReportSummaryResponse, error)
	ExportLeadsXLSX(ctx context.Context) ([]byte, error)
}

// ReportFlowImpl aggregates funnel and revenue figures from the repositories
type ReportFlowImpl struct {
	leadRepo     repository.LeadRepository
	estimateRepo repository.EstimateRepository
	invoiceRepo  repository.InvoiceRepository
	jobRepo      repository.JobRepository
}

func NewReportFlow(
	leadRepo repository.LeadRepository,
	estimateRepo repository.EstimateRepository,
	invoiceRepo repository.InvoiceRepository,
	jobRepo repository.JobRepository,
) ReportFlow {
	return &ReportFlowImpl{
		leadRepo:     leadRepo,
		estimateRepo: estimateRepo,
		invoiceRepo:  invoiceRepo,
		jobRepo:      jobRepo,
	}
}

func (rf *ReportFlowImpl) Summary(ctx context.Context) (*dto.ReportSummaryResponse, error) {
	out := &dto.ReportSummaryResponse{}

	countLeads := func(status models.LeadStatus) (int64, error) {
		return rf.leadRepo.Count(ctx, models.LeadFilter{Status: &status})
	}

	var err error
	if out.Funnel.New, err = countLeads(models.LeadStatusNew); err != nil {
		return nil, NewBusinessError("REPORT_FAILED", "Failed to count leads", err)
	}
	if out.Funnel.Contacted, err = countLeads(models.LeadStatusContacted); err != nil {
		return nil, NewBusinessError("REPORT_FAILED", "Failed to count leads", err)
	}
	if out.Funnel.Quoted, err = countLeads(models.LeadStatusQuoted); err != nil {
		return nil, NewBusinessError("REPORT_FAILED", "Failed to count leads", err)
	}
	if out.Funnel.Scheduled, err = countLeads(models.LeadStatusScheduled); err != nil {
		return nil, NewBusinessError("REPORT_FAILED", "Failed to count leads", err)
	}
	if out.Funnel.Won, err = countLeads(models.LeadStatusWon); err != nil {
		return nil, NewBusinessError("REPORT_FAILED", "Failed to count leads", err)
	}
	if out.Funnel.Lost, err = countLeads(models.LeadStatusLost); err != nil {
		return nil, NewBusinessError("REPORT_FAILED", "Failed to count leads", err)
	}
	out.TotalLeads = out.Funnel.New + out.Funnel.Contacted + out.Funnel.Quoted +
		out.Funnel.Scheduled + out.Funnel.Won + out.Funnel.Lost

	if out.TotalEstimates, err = rf.estimateRepo.Count(ctx, models.EstimateFilter{}); err != nil {
		return nil, NewBusinessError("REPORT_FAILED", "Failed to count estimates", err)
	}

	// Invoice sums skip voided rows.
	invoices, err := rf.invoiceRepo.ByFilter(ctx, models.InvoiceFilter{}, "created_at ASC", 0, 0)
	if err != nil {
		return nil, NewBusinessError("REPORT_FAILED", "Failed to list invoices", err)
	}
	for _, invoice := range invoices {
		switch invoice.Status {
		case models.InvoiceStatusVoid:
			continue
		case models.InvoiceStatusPaid:
			out.PaidTotal += invoice.AmountTotal
		case models.InvoiceStatusSent:
			out.OpenInvoices++
		}
		out.InvoicedTotal += invoice.AmountTotal
	}

	countJobs := func(status models.JobStatus) (int64, error) {
		return rf.jobRepo.Count(ctx, models.JobFilter{Status: &status})
	}
	if out.JobsScheduled, err = countJobs(models.JobStatusScheduled); err != nil {
		return nil, NewBusinessError("REPORT_FAILED", "Failed to count jobs", err)
	}
	if out.JobsCompleted, err = countJobs(models.JobStatusCompleted); err != nil {
		return nil, NewBusinessError("REPORT_FAILED", "Failed to count jobs", err)
	}

	if closed := out.Funnel.Won + out.Funnel.Lost; closed > 0 {
		out.ConversionRate = float64(out.Funnel.Won) / float64(closed)
	}

	return out, nil
}

// ExportLeadsXLSX renders the full lead list as a spreadsheet.
func (rf *ReportFlowImpl) ExportLeadsXLSX(ctx context.Context) ([]byte, error) {
	leads, err := rf.leadRepo.ByFilter(ctx, models.LeadFilter{}, "created_at DESC", 0, 0)
	if err != nil {
		return nil, NewBusinessError("REPORT_EXPORT_FAILED", "Failed to list leads", err)
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const sheet = "Leads"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, NewBusinessError("REPORT_EXPORT_FAILED", "Failed to create sheet", err)
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	header := []any{
		"UUID", "Status", "Job Type", "First Name", "Last Name", "Email", "Phone",
		"City", "State", "Roof Size (sqft)", "Source", "Created At",
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, NewBusinessError("REPORT_EXPORT_FAILED", "Failed to write header", err)
	}

	for i, lead := range leads {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, NewBusinessError("REPORT_EXPORT_FAILED", "Failed to address row", err)
		}
		row := []any{
			lead.UUID.String(),
			string(lead.Status),
			lead.JobType,
			utils.Deref(lead.FirstName),
			utils.Deref(lead.LastName),
			utils.Deref(lead.Email),
			utils.Deref(lead.Phone),
			utils.Deref(lead.City),
			utils.Deref(lead.State),
			floatOrEmpty(lead.RoofSizeSqft),
			utils.Deref(lead.Source),
			formatTime(lead.CreatedAt),
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, NewBusinessError("REPORT_EXPORT_FAILED", "Failed to write row", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, NewBusinessError("REPORT_EXPORT_FAILED", "Failed to encode spreadsheet", err)
	}
	return buf.Bytes(), nil
}

func floatOrEmpty(v *float64) any {
	if v == nil {
		return ""
	}
	return *v
}
