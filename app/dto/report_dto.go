package dto

// LeadFunnelCounts breaks leads down by pipeline status
type LeadFunnelCounts struct {
	New       int64 `json:"new"`
	Contacted int64 `json:"contacted"`
	Quoted    int64 `json:"quoted"`
	Scheduled int64 `json:"scheduled"`
	Won       int64 `json:"won"`
	Lost      int64 `json:"lost"`
}

// ReportSummaryResponse aggregates funnel and revenue figures
type ReportSummaryResponse struct {
	TotalLeads     int64            `json:"total_leads"`
	TotalEstimates int64            `json:"total_estimates"`
	Funnel         LeadFunnelCounts `json:"funnel"`

	InvoicedTotal float64 `json:"invoiced_total"`
	PaidTotal     float64 `json:"paid_total"`
	OpenInvoices  int64   `json:"open_invoices"`

	JobsScheduled int64 `json:"jobs_scheduled"`
	JobsCompleted int64 `json:"jobs_completed"`

	// Won leads over closed leads (won + lost); 0 when no leads are closed.
	ConversionRate float64 `json:"conversion_rate"`
}
