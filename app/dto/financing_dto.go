package dto

// FinancingApplicationDTO represents a financing request
type FinancingApplicationDTO struct {
	ID       uint   `json:"id" example:"3"`
	UUID     string `json:"uuid" example:"f47ac10b-58cc-4372-a567-0e02b2c3d479"`
	LeadUUID string `json:"lead_uuid,omitempty"`
	Status   string `json:"status" example:"submitted"`

	Provider        *string  `json:"provider,omitempty" example:"Hearth"`
	AmountRequested float64  `json:"amount_requested" example:"24750"`
	TermMonths      *int     `json:"term_months,omitempty" example:"60"`
	MonthlyPayment  *float64 `json:"monthly_payment,omitempty"`

	DecidedAt *string `json:"decided_at,omitempty"`
	CreatedAt string  `json:"created_at" example:"2024-01-15T10:30:00Z"`
}

// CreateFinancingApplicationRequest submits a financing request for a lead
type CreateFinancingApplicationRequest struct {
	LeadUUID        string  `json:"lead_uuid" validate:"required,uuid4" example:"550e8400-e29b-41d4-a716-446655440000"`
	AmountRequested float64 `json:"amount_requested" validate:"required,gt=0" example:"24750"`
	TermMonths      *int    `json:"term_months,omitempty" validate:"omitempty,min=6,max=240"`
	Provider        *string `json:"provider,omitempty" validate:"omitempty,max=120"`
}

// DecideFinancingApplicationRequest records a provider decision
type DecideFinancingApplicationRequest struct {
	Status         string   `json:"status" validate:"required,oneof=approved declined withdrawn" example:"approved"`
	MonthlyPayment *float64 `json:"monthly_payment,omitempty" validate:"omitempty,gt=0"`
}

// Common error codes for financing operations
const (
	ErrorFinancingNotFound = "FINANCING_APPLICATION_NOT_FOUND"
	ErrorFinancingState    = "INVALID_FINANCING_STATE"
)
