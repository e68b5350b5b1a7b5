package dto

// SettingsDTO represents the company settings row
type SettingsDTO struct {
	CompanyName    string  `json:"company_name" example:"Roofing Made Easy LLC"`
	CompanyPhone   *string `json:"company_phone,omitempty"`
	CompanyEmail   *string `json:"company_email,omitempty"`
	CompanyAddress *string `json:"company_address,omitempty"`
	LicenseNumber  *string `json:"license_number,omitempty"`

	InvoiceTaxRate *float64 `json:"invoice_tax_rate,omitempty" example:"0.07"`

	NotifyEmail     *string `json:"notify_email,omitempty"`
	NotifyOnNewLead *bool   `json:"notify_on_new_lead,omitempty"`

	UpdatedAt string `json:"updated_at" example:"2024-01-15T10:30:00Z"`
}

// UpdateSettingsRequest overwrites the settings row
type UpdateSettingsRequest struct {
	CompanyName    string  `json:"company_name" validate:"required,min=1,max=255" example:"Roofing Made Easy LLC"`
	CompanyPhone   *string `json:"company_phone,omitempty" validate:"omitempty,max=30"`
	CompanyEmail   *string `json:"company_email,omitempty" validate:"omitempty,email,max=255"`
	CompanyAddress *string `json:"company_address,omitempty" validate:"omitempty,max=2000"`
	LicenseNumber  *string `json:"license_number,omitempty" validate:"omitempty,max=100"`

	InvoiceTaxRate *float64 `json:"invoice_tax_rate,omitempty" validate:"omitempty,gte=0,lte=1"`

	NotifyEmail     *string `json:"notify_email,omitempty" validate:"omitempty,email,max=255"`
	NotifyOnNewLead *bool   `json:"notify_on_new_lead,omitempty"`
}
