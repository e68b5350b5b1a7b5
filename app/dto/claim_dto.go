package dto

// InsuranceClaimDTO represents a storm damage claim
type InsuranceClaimDTO struct {
	ID       uint   `json:"id" example:"5"`
	UUID     string `json:"uuid" example:"f47ac10b-58cc-4372-a567-0e02b2c3d479"`
	LeadUUID string `json:"lead_uuid,omitempty"`
	Status   string `json:"status" example:"filed"`

	Carrier      *string `json:"carrier,omitempty" example:"State Farm"`
	PolicyNumber *string `json:"policy_number,omitempty"`
	ClaimNumber  *string `json:"claim_number,omitempty"`
	DamageType   *string `json:"damage_type,omitempty" example:"hail"`

	IncidentDate   *string  `json:"incident_date,omitempty" example:"2026-08-01T00:00:00Z"`
	AdjusterVisit  *string  `json:"adjuster_visit,omitempty"`
	ApprovedAmount *float64 `json:"approved_amount,omitempty"`
	Notes          *string  `json:"notes,omitempty"`
	CreatedAt      string   `json:"created_at" example:"2024-01-15T10:30:00Z"`
}

// CreateInsuranceClaimRequest files a claim for a lead
type CreateInsuranceClaimRequest struct {
	LeadUUID     string  `json:"lead_uuid" validate:"required,uuid4" example:"550e8400-e29b-41d4-a716-446655440000"`
	Carrier      string  `json:"carrier" validate:"required,min=1,max=120" example:"State Farm"`
	PolicyNumber string  `json:"policy_number" validate:"required,min=1,max=60"`
	DamageType   *string `json:"damage_type,omitempty" validate:"omitempty,max=60"`
	IncidentDate *string `json:"incident_date,omitempty"`
	Notes        *string `json:"notes,omitempty" validate:"omitempty,max=5000"`
}

// UpdateInsuranceClaimRequest advances or annotates a claim
type UpdateInsuranceClaimRequest struct {
	Status         *string  `json:"status,omitempty" validate:"omitempty,oneof=draft filed adjuster_scheduled approved denied paid"`
	ClaimNumber    *string  `json:"claim_number,omitempty" validate:"omitempty,max=60"`
	AdjusterVisit  *string  `json:"adjuster_visit,omitempty"`
	ApprovedAmount *float64 `json:"approved_amount,omitempty" validate:"omitempty,gte=0"`
	Notes          *string  `json:"notes,omitempty" validate:"omitempty,max=5000"`
}

// Common error codes for claim operations
const (
	ErrorClaimNotFound = "INSURANCE_CLAIM_NOT_FOUND"
	ErrorClaimState    = "INVALID_CLAIM_STATE"
)
