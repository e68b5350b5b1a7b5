package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/JohnConnorCode/roofing-made-easy/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FinancingStatus represents financing application state.
type FinancingStatus string

const (
	FinancingStatusSubmitted FinancingStatus = "submitted"
	FinancingStatusApproved  FinancingStatus = "approved"
	FinancingStatusDeclined  FinancingStatus = "declined"
	FinancingStatusWithdrawn FinancingStatus = "withdrawn"
)

// Valid checks if the status is valid.
func (s FinancingStatus) Valid() bool {
	switch s {
	case FinancingStatusSubmitted, FinancingStatusApproved, FinancingStatusDeclined, FinancingStatusWithdrawn:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for FinancingStatus.
func (s *FinancingStatus) Scan(value any) error {
	if value == nil {
		*s = ""
		return nil
	}
	switch v := value.(type) {
	case string:
		*s = FinancingStatus(v)
	case []byte:
		*s = FinancingStatus(string(v))
	default:
		return fmt.Errorf("cannot scan %T into FinancingStatus", value)
	}
	return nil
}

// Value implements the driver.Valuer interface for FinancingStatus.
func (s FinancingStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid FinancingStatus: %s", s)
	}
	return string(s), nil
}

// FinancingApplication tracks a customer's request to finance a project.
type FinancingApplication struct {
	ID     uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID   uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null;default:gen_random_uuid()" json:"uuid"`
	LeadID uint            `gorm:"not null;index" json:"lead_id"`
	Status FinancingStatus `gorm:"type:varchar(20);not null;default:'submitted';index" json:"status"`

	Provider        *string  `gorm:"type:varchar(120)" json:"provider,omitempty"`
	AmountRequested float64  `gorm:"type:numeric(12,2);not null" json:"amount_requested"`
	TermMonths      *int     `json:"term_months,omitempty"`
	MonthlyPayment  *float64 `gorm:"type:numeric(12,2)" json:"monthly_payment,omitempty"`

	DecidedAt *time.Time `json:"decided_at,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	Lead *Lead `gorm:"foreignKey:LeadID;references:ID;constraint:OnDelete:CASCADE" json:"lead,omitempty"`
}

func (FinancingApplication) TableName() string { return "financing_applications" }

// BeforeCreate ensures UUID, status, and timestamps are set.
func (f *FinancingApplication) BeforeCreate(tx *gorm.DB) error {
	if f.UUID == uuid.Nil {
		f.UUID = uuid.New()
	}
	if f.Status == "" {
		f.Status = FinancingStatusSubmitted
	}
	if f.CreatedAt.IsZero() {
		f.CreatedAt = utils.UTCNow()
	}
	if f.UpdatedAt.IsZero() {
		f.UpdatedAt = utils.UTCNow()
	}
	return nil
}

// FinancingApplicationFilter represents filter criteria for financing queries.
type FinancingApplicationFilter struct {
	ID     *uint            `json:"id,omitempty"`
	UUID   *uuid.UUID       `json:"uuid,omitempty"`
	LeadID *uint            `json:"lead_id,omitempty"`
	Status *FinancingStatus `json:"status,omitempty"`
}
