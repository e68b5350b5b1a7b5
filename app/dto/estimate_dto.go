// Package dto contains Data Transfer Objects for API request and response structures
package dto

// CreateEstimateRequest represents the funnel intake payload
type CreateEstimateRequest struct {
	JobType      string   `json:"job_type" validate:"required,oneof=full_replacement repair partial_replacement gutter_replacement" example:"full_replacement"`
	Material     *string  `json:"material,omitempty" validate:"omitempty,oneof=asphalt_shingle metal tile slate wood_shake flat_membrane" example:"metal"`
	Pitch        *string  `json:"pitch,omitempty" validate:"omitempty,oneof=flat low moderate steep" example:"moderate"`
	Stories      *int     `json:"stories,omitempty" validate:"omitempty,min=1,max=10" example:"2"`
	Urgency      *string  `json:"urgency,omitempty" validate:"omitempty,oneof=emergency soon flexible" example:"soon"`
	RoofSizeSqft *float64 `json:"roof_size_sqft,omitempty" validate:"omitempty,gt=0,lte=100000" example:"2400"`

	HasSkylights   *bool `json:"has_skylights,omitempty"`
	HasChimneys    *bool `json:"has_chimneys,omitempty"`
	HasSolarPanels *bool `json:"has_solar_panels,omitempty"`

	Issues []string `json:"issues,omitempty" validate:"omitempty,max=10,dive,oneof=leak storm_damage missing_shingles sagging mold"`

	Source *string `json:"source,omitempty" validate:"omitempty,max=60" example:"organic"`
}

// AdjustmentDTO represents one priced line item in an estimate
type AdjustmentDTO struct {
	Name        string  `json:"name"`
	RuleKey     string  `json:"rule_key"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description,omitempty"`
	Category    string  `json:"category"`
}

// EstimateDTO represents a computed estimate returned to clients
type EstimateDTO struct {
	UUID     string `json:"uuid" example:"f47ac10b-58cc-4372-a567-0e02b2c3d479"`
	LeadUUID string `json:"lead_uuid" example:"550e8400-e29b-41d4-a716-446655440000"`

	PriceLow    float64 `json:"price_low" example:"21038"`
	PriceLikely float64 `json:"price_likely" example:"24750"`
	PriceHigh   float64 `json:"price_high" example:"30938"`

	BaseCost     float64 `json:"base_cost" example:"9000"`
	MaterialCost float64 `json:"material_cost" example:"9900"`
	LaborCost    float64 `json:"labor_cost" example:"14850"`

	Adjustments []AdjustmentDTO `json:"adjustments"`
	CreatedAt   string          `json:"created_at" example:"2024-01-15T10:30:00Z"`
}

// CreateEstimateResponse wraps the created lead and its estimate
type CreateEstimateResponse struct {
	Lead     LeadDTO     `json:"lead"`
	Estimate EstimateDTO `json:"estimate"`
}

// Common error codes for estimate operations
const (
	ErrorEstimateNotFound = "ESTIMATE_NOT_FOUND"
	ErrorInvalidIntake    = "INVALID_INTAKE"
)
