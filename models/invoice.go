package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/JohnConnorCode/roofing-made-easy/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InvoiceStatus represents invoice lifecycle state.
type InvoiceStatus string

const (
	InvoiceStatusDraft InvoiceStatus = "draft"
	InvoiceStatusSent  InvoiceStatus = "sent"
	InvoiceStatusPaid  InvoiceStatus = "paid"
	InvoiceStatusVoid  InvoiceStatus = "void"
)

// Valid checks if the status is valid.
func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPaid, InvoiceStatusVoid:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether a lifecycle transition is allowed.
func (s InvoiceStatus) CanTransitionTo(next InvoiceStatus) bool {
	switch s {
	case InvoiceStatusDraft:
		return next == InvoiceStatusSent || next == InvoiceStatusVoid
	case InvoiceStatusSent:
		return next == InvoiceStatusPaid || next == InvoiceStatusVoid
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for InvoiceStatus.
func (s *InvoiceStatus) Scan(value any) error {
	if value == nil {
		*s = ""
		return nil
	}
	switch v := value.(type) {
	case string:
		*s = InvoiceStatus(v)
	case []byte:
		*s = InvoiceStatus(string(v))
	default:
		return fmt.Errorf("cannot scan %T into InvoiceStatus", value)
	}
	return nil
}

// Value implements the driver.Valuer interface for InvoiceStatus.
func (s InvoiceStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid InvoiceStatus: %s", s)
	}
	return string(s), nil
}

// InvoiceLineItem is one row of an invoice, stored in the line_items array.
type InvoiceLineItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Amount      float64 `json:"amount"`
}

// Invoice bills a lead for roofing work.
type Invoice struct {
	ID     uint          `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID   uuid.UUID     `gorm:"type:uuid;uniqueIndex;not null;default:gen_random_uuid()" json:"uuid"`
	LeadID uint          `gorm:"not null;index" json:"lead_id"`
	Number string        `gorm:"type:varchar(30);uniqueIndex;not null" json:"number"`
	Status InvoiceStatus `gorm:"type:varchar(20);not null;default:'draft';index" json:"status"`

	AmountSubtotal float64 `gorm:"type:numeric(12,2);not null" json:"amount_subtotal"`
	AmountTax      float64 `gorm:"type:numeric(12,2);not null" json:"amount_tax"`
	AmountTotal    float64 `gorm:"type:numeric(12,2);not null" json:"amount_total"`

	LineItems json.RawMessage `gorm:"type:jsonb" json:"line_items,omitempty"`

	DueDate *time.Time `json:"due_date,omitempty"`
	SentAt  *time.Time `json:"sent_at,omitempty"`
	PaidAt  *time.Time `json:"paid_at,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	Lead *Lead `gorm:"foreignKey:LeadID;references:ID;constraint:OnDelete:CASCADE" json:"lead,omitempty"`
}

func (Invoice) TableName() string { return "invoices" }

// BeforeCreate ensures UUID, status, and timestamps are set.
func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.UUID == uuid.Nil {
		i.UUID = uuid.New()
	}
	if i.Status == "" {
		i.Status = InvoiceStatusDraft
	}
	if i.CreatedAt.IsZero() {
		i.CreatedAt = utils.UTCNow()
	}
	if i.UpdatedAt.IsZero() {
		i.UpdatedAt = utils.UTCNow()
	}
	return nil
}

// InvoiceFilter represents filter criteria for invoice queries.
type InvoiceFilter struct {
	ID            *uint          `json:"id,omitempty"`
	UUID          *uuid.UUID     `json:"uuid,omitempty"`
	LeadID        *uint          `json:"lead_id,omitempty"`
	Number        *string        `json:"number,omitempty"`
	Status        *InvoiceStatus `json:"status,omitempty"`
	CreatedAfter  *time.Time     `json:"created_after,omitempty"`
	CreatedBefore *time.Time     `json:"created_before,omitempty"`
}
