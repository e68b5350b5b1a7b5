package dto

// PricingRuleDTO represents one configurable pricing rule
type PricingRuleDTO struct {
	ID           uint     `json:"id" example:"7"`
	RuleKey      string   `json:"rule_key" example:"material_metal"`
	RuleCategory string   `json:"rule_category" example:"material"`
	BaseRate     *float64 `json:"base_rate,omitempty" example:"4.5"`
	Unit         *string  `json:"unit,omitempty" example:"sqft"`
	Multiplier   float64  `json:"multiplier" example:"2.2"`
	FlatFee      float64  `json:"flat_fee" example:"0"`
	MinCharge    *float64 `json:"min_charge,omitempty"`
	IsActive     *bool    `json:"is_active" example:"true"`
	DisplayName  string   `json:"display_name" example:"Metal Roofing"`
	UpdatedAt    string   `json:"updated_at" example:"2024-01-15T10:30:00Z"`
}

// UpsertPricingRuleRequest creates or overwrites a rule by key
type UpsertPricingRuleRequest struct {
	RuleKey      string   `json:"rule_key" validate:"required,min=2,max=60" example:"material_metal"`
	RuleCategory string   `json:"rule_category" validate:"required,oneof=job_type material pitch stories urgency feature issue range minimum" example:"material"`
	BaseRate     *float64 `json:"base_rate,omitempty" validate:"omitempty,gte=0"`
	Unit         *string  `json:"unit,omitempty" validate:"omitempty,oneof=sqft linear_ft flat"`
	Multiplier   *float64 `json:"multiplier,omitempty" validate:"omitempty,gt=0"`
	FlatFee      *float64 `json:"flat_fee,omitempty" validate:"omitempty,gte=0"`
	MinCharge    *float64 `json:"min_charge,omitempty" validate:"omitempty,gte=0"`
	IsActive     *bool    `json:"is_active,omitempty"`
	DisplayName  string   `json:"display_name" validate:"required,min=1,max=120" example:"Metal Roofing"`
}

// UpdatePricingRuleRequest partially updates an existing rule
type UpdatePricingRuleRequest struct {
	BaseRate    *float64 `json:"base_rate,omitempty" validate:"omitempty,gte=0"`
	Unit        *string  `json:"unit,omitempty" validate:"omitempty,oneof=sqft linear_ft flat"`
	Multiplier  *float64 `json:"multiplier,omitempty" validate:"omitempty,gt=0"`
	FlatFee     *float64 `json:"flat_fee,omitempty" validate:"omitempty,gte=0"`
	MinCharge   *float64 `json:"min_charge,omitempty" validate:"omitempty,gte=0"`
	IsActive    *bool    `json:"is_active,omitempty"`
	DisplayName *string  `json:"display_name,omitempty" validate:"omitempty,min=1,max=120"`
}

// ListPricingRulesResponse wraps the configured rule set
type ListPricingRulesResponse struct {
	Rules []PricingRuleDTO `json:"rules"`
	Total int64            `json:"total"`
}

// Common error codes for pricing rule operations
const (
	ErrorPricingRuleNotFound = "PRICING_RULE_NOT_FOUND"
)
