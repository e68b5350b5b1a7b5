package businessflow

import (
	"encoding/json"
	"time"

	"github.com/JohnConnorCode/roofing-made-easy/app/dto"
	"github.com/JohnConnorCode/roofing-made-easy/config"
	"github.com/JohnConnorCode/roofing-made-easy/models"
)

const RequestIDKey = "X-Request-ID"

// ClientMetadata carries per-request client information into the flows for
// audit logging.
type ClientMetadata struct {
	IPAddress string `json:"ip_address"`
	UserAgent string `json:"user_agent"`
	RequestID string `json:"request_id"`
}

func NewClientMetadata(ipAddress, userAgent, requestID string) *ClientMetadata {
	return &ClientMetadata{
		IPAddress: ipAddress,
		UserAgent: userAgent,
		RequestID: requestID,
	}
}

// redisKey builds a namespaced cache key.
func redisKey(cfg config.CacheConfig, key string) string {
	return cfg.RedisPrefix + key
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

func ToLeadDTO(lead *models.Lead) *dto.LeadDTO {
	if lead == nil {
		return nil
	}
	return &dto.LeadDTO{
		ID:           lead.ID,
		UUID:         lead.UUID.String(),
		Status:       string(lead.Status),
		JobType:      lead.JobType,
		FirstName:    lead.FirstName,
		LastName:     lead.LastName,
		Email:        lead.Email,
		Phone:        lead.Phone,
		AddressLine:  lead.AddressLine,
		City:         lead.City,
		State:        lead.State,
		PostalCode:   lead.PostalCode,
		Material:     lead.Material,
		Pitch:        lead.Pitch,
		Stories:      lead.Stories,
		Urgency:      lead.Urgency,
		RoofSizeSqft: lead.RoofSizeSqft,
		Issues:       lead.IssueList(),
		Source:       lead.Source,
		Notes:        lead.Notes,
		CreatedAt:    formatTime(lead.CreatedAt),
	}
}

// ToEstimateDTO converts a persisted estimate. The adjustment snapshot is
// decoded best effort; a corrupt snapshot yields an empty list rather than
// an error.
func ToEstimateDTO(estimate *models.Estimate, leadUUID string) *dto.EstimateDTO {
	if estimate == nil {
		return nil
	}
	out := &dto.EstimateDTO{
		UUID:         estimate.UUID.String(),
		LeadUUID:     leadUUID,
		PriceLow:     estimate.PriceLow,
		PriceLikely:  estimate.PriceLikely,
		PriceHigh:    estimate.PriceHigh,
		BaseCost:     estimate.BaseCost,
		MaterialCost: estimate.MaterialCost,
		LaborCost:    estimate.LaborCost,
		Adjustments:  []dto.AdjustmentDTO{},
		CreatedAt:    formatTime(estimate.CreatedAt),
	}
	if len(estimate.Adjustments) > 0 {
		var adjustments []dto.AdjustmentDTO
		if err := json.Unmarshal(estimate.Adjustments, &adjustments); err == nil {
			out.Adjustments = adjustments
		}
	}
	return out
}

func ToAdminDTO(admin *models.Admin) *dto.AdminDTO {
	if admin == nil {
		return nil
	}
	return &dto.AdminDTO{
		ID:          admin.ID,
		UUID:        admin.UUID.String(),
		Username:    admin.Username,
		DisplayName: admin.DisplayName,
		IsActive:    admin.IsActive,
		CreatedAt:   formatTime(admin.CreatedAt),
	}
}

func ToAdminSessionDTO(accessToken, refreshToken string, accessTTL time.Duration) *dto.AdminSessionDTO {
	return &dto.AdminSessionDTO{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(accessTTL.Seconds()),
		TokenType:    "Bearer",
		CreatedAt:    formatTime(time.Now()),
	}
}

func ToPricingRuleDTO(rule *models.PricingRule) *dto.PricingRuleDTO {
	if rule == nil {
		return nil
	}
	return &dto.PricingRuleDTO{
		ID:           rule.ID,
		RuleKey:      rule.RuleKey,
		RuleCategory: rule.RuleCategory,
		BaseRate:     rule.BaseRate,
		Unit:         rule.Unit,
		Multiplier:   rule.Multiplier,
		FlatFee:      rule.FlatFee,
		MinCharge:    rule.MinCharge,
		IsActive:     rule.IsActive,
		DisplayName:  rule.DisplayName,
		UpdatedAt:    formatTime(rule.UpdatedAt),
	}
}

func ToSettingsDTO(settings *models.Settings) *dto.SettingsDTO {
	if settings == nil {
		return nil
	}
	return &dto.SettingsDTO{
		CompanyName:     settings.CompanyName,
		CompanyPhone:    settings.CompanyPhone,
		CompanyEmail:    settings.CompanyEmail,
		CompanyAddress:  settings.CompanyAddress,
		LicenseNumber:   settings.LicenseNumber,
		InvoiceTaxRate:  settings.InvoiceTaxRate,
		NotifyEmail:     settings.NotifyEmail,
		NotifyOnNewLead: settings.NotifyOnNewLead,
		UpdatedAt:       formatTime(settings.UpdatedAt),
	}
}

func ToInvoiceDTO(invoice *models.Invoice, leadUUID string) *dto.InvoiceDTO {
	if invoice == nil {
		return nil
	}
	out := &dto.InvoiceDTO{
		ID:             invoice.ID,
		UUID:           invoice.UUID.String(),
		LeadUUID:       leadUUID,
		Number:         invoice.Number,
		Status:         string(invoice.Status),
		AmountSubtotal: invoice.AmountSubtotal,
		AmountTax:      invoice.AmountTax,
		AmountTotal:    invoice.AmountTotal,
		DueDate:        formatTimePtr(invoice.DueDate),
		SentAt:         formatTimePtr(invoice.SentAt),
		PaidAt:         formatTimePtr(invoice.PaidAt),
		CreatedAt:      formatTime(invoice.CreatedAt),
	}
	if len(invoice.LineItems) > 0 {
		var items []dto.LineItemDTO
		if err := json.Unmarshal(invoice.LineItems, &items); err == nil {
			out.LineItems = items
		}
	}
	return out
}

func ToJobDTO(job *models.Job, leadUUID string) *dto.JobDTO {
	if job == nil {
		return nil
	}
	return &dto.JobDTO{
		ID:           job.ID,
		UUID:         job.UUID.String(),
		LeadUUID:     leadUUID,
		Status:       string(job.Status),
		ScheduledFor: formatTimePtr(job.ScheduledFor),
		CompletedAt:  formatTimePtr(job.CompletedAt),
		CrewName:     job.CrewName,
		Notes:        job.Notes,
		CreatedAt:    formatTime(job.CreatedAt),
	}
}

func ToFinancingDTO(application *models.FinancingApplication, leadUUID string) *dto.FinancingApplicationDTO {
	if application == nil {
		return nil
	}
	return &dto.FinancingApplicationDTO{
		ID:              application.ID,
		UUID:            application.UUID.String(),
		LeadUUID:        leadUUID,
		Status:          string(application.Status),
		Provider:        application.Provider,
		AmountRequested: application.AmountRequested,
		TermMonths:      application.TermMonths,
		MonthlyPayment:  application.MonthlyPayment,
		DecidedAt:       formatTimePtr(application.DecidedAt),
		CreatedAt:       formatTime(application.CreatedAt),
	}
}

func ToClaimDTO(claim *models.InsuranceClaim, leadUUID string) *dto.InsuranceClaimDTO {
	if claim == nil {
		return nil
	}
	return &dto.InsuranceClaimDTO{
		ID:             claim.ID,
		UUID:           claim.UUID.String(),
		LeadUUID:       leadUUID,
		Status:         string(claim.Status),
		Carrier:        claim.Carrier,
		PolicyNumber:   claim.PolicyNumber,
		ClaimNumber:    claim.ClaimNumber,
		DamageType:     claim.DamageType,
		IncidentDate:   formatTimePtr(claim.IncidentDate),
		AdjusterVisit:  formatTimePtr(claim.AdjusterVisit),
		ApprovedAmount: claim.ApprovedAmount,
		Notes:          claim.Notes,
		CreatedAt:      formatTime(claim.CreatedAt),
	}
}

// leadUUIDOf resolves the lead UUID for a child record, preferring the
// preloaded association.
func leadUUIDOf(lead *models.Lead) string {
	if lead == nil {
		return ""
	}
	return lead.UUID.String()
}
