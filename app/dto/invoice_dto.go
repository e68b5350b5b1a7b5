package dto

// LineItemDTO is one billed row on an invoice
type LineItemDTO struct {
	Description string  `json:"description" validate:"required,min=1,max=255" example:"Full roof replacement"`
	Quantity    float64 `json:"quantity" validate:"required,gt=0" example:"1"`
	UnitPrice   float64 `json:"unit_price" validate:"gte=0" example:"24750"`
}

// InvoiceDTO represents an invoice returned to clients
type InvoiceDTO struct {
	ID       uint   `json:"id" example:"42"`
	UUID     string `json:"uuid" example:"f47ac10b-58cc-4372-a567-0e02b2c3d479"`
	LeadUUID string `json:"lead_uuid,omitempty"`
	Number   string `json:"number" example:"RME-2026-0042"`
	Status   string `json:"status" example:"draft"`

	AmountSubtotal float64 `json:"amount_subtotal" example:"24750"`
	AmountTax      float64 `json:"amount_tax" example:"1732.5"`
	AmountTotal    float64 `json:"amount_total" example:"26482.5"`

	LineItems []LineItemDTO `json:"line_items,omitempty"`

	DueDate   *string `json:"due_date,omitempty" example:"2026-09-30T00:00:00Z"`
	SentAt    *string `json:"sent_at,omitempty"`
	PaidAt    *string `json:"paid_at,omitempty"`
	CreatedAt string  `json:"created_at" example:"2024-01-15T10:30:00Z"`
}

// CreateInvoiceRequest creates a draft invoice for a lead
type CreateInvoiceRequest struct {
	LeadUUID  string        `json:"lead_uuid" validate:"required,uuid4" example:"550e8400-e29b-41d4-a716-446655440000"`
	LineItems []LineItemDTO `json:"line_items" validate:"required,min=1,max=50,dive"`
	DueDate   *string       `json:"due_date,omitempty" validate:"omitempty" example:"2026-09-30T00:00:00Z"`
}

// ListInvoicesRequest represents query parameters for listing invoices
type ListInvoicesRequest struct {
	Status  *string `query:"status" validate:"omitempty,oneof=draft sent paid void"`
	Page    int     `query:"page" validate:"omitempty,min=1"`
	PerPage int     `query:"per_page" validate:"omitempty,min=1,max=200"`
}

// ListInvoicesResponse wraps a page of invoices
type ListInvoicesResponse struct {
	Invoices []InvoiceDTO `json:"invoices"`
	Total    int64        `json:"total"`
	Page     int          `json:"page"`
	PerPage  int          `json:"per_page"`
}

// Common error codes for invoice operations
const (
	ErrorInvoiceNotFound = "INVOICE_NOT_FOUND"
	ErrorInvoiceState    = "INVALID_INVOICE_STATE"
)
