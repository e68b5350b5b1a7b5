package dto

// LeadDTO represents a funnel lead
type LeadDTO struct {
	ID      uint   `json:"id" example:"123"`
	UUID    string `json:"uuid" example:"550e8400-e29b-41d4-a716-446655440000"`
	Status  string `json:"status" example:"new"`
	JobType string `json:"job_type" example:"full_replacement"`

	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Email     *string `json:"email,omitempty"`
	Phone     *string `json:"phone,omitempty"`

	AddressLine *string `json:"address_line,omitempty"`
	City        *string `json:"city,omitempty"`
	State       *string `json:"state,omitempty"`
	PostalCode  *string `json:"postal_code,omitempty"`

	Material     *string  `json:"material,omitempty"`
	Pitch        *string  `json:"pitch,omitempty"`
	Stories      *int     `json:"stories,omitempty"`
	Urgency      *string  `json:"urgency,omitempty"`
	RoofSizeSqft *float64 `json:"roof_size_sqft,omitempty"`
	Issues       []string `json:"issues,omitempty"`

	Source    *string `json:"source,omitempty"`
	Notes     *string `json:"notes,omitempty"`
	CreatedAt string  `json:"created_at" example:"2024-01-15T10:30:00Z"`
}

// AttachContactRequest adds contact details to an anonymous funnel lead
type AttachContactRequest struct {
	FirstName string  `json:"first_name" validate:"required,min=1,max=100" example:"Sarah"`
	LastName  string  `json:"last_name" validate:"required,min=1,max=100" example:"Mitchell"`
	Email     string  `json:"email" validate:"required,email,max=255" example:"sarah@example.com"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,min=7,max=20" example:"+15551234567"`

	AddressLine *string `json:"address_line,omitempty" validate:"omitempty,max=255"`
	City        *string `json:"city,omitempty" validate:"omitempty,max=100"`
	State       *string `json:"state,omitempty" validate:"omitempty,max=50"`
	PostalCode  *string `json:"postal_code,omitempty" validate:"omitempty,max=20"`
}

// UpdateLeadStatusRequest moves a lead through its pipeline
type UpdateLeadStatusRequest struct {
	Status string  `json:"status" validate:"required,oneof=new contacted quoted scheduled won lost" example:"contacted"`
	Notes  *string `json:"notes,omitempty" validate:"omitempty,max=5000"`
}

// ListLeadsRequest represents query parameters for listing leads
type ListLeadsRequest struct {
	Status  *string `query:"status" validate:"omitempty,oneof=new contacted quoted scheduled won lost"`
	JobType *string `query:"job_type" validate:"omitempty,max=40"`
	Page    int     `query:"page" validate:"omitempty,min=1"`
	PerPage int     `query:"per_page" validate:"omitempty,min=1,max=200"`
}

// ListLeadsResponse wraps a page of leads
type ListLeadsResponse struct {
	Leads   []LeadDTO `json:"leads"`
	Total   int64     `json:"total"`
	Page    int       `json:"page"`
	PerPage int       `json:"per_page"`
}

// Common error codes for lead operations
const (
	ErrorLeadNotFound      = "LEAD_NOT_FOUND"
	ErrorInvalidTransition = "INVALID_STATUS_TRANSITION"
	ErrorContactMissing    = "CONTACT_MISSING"
)
