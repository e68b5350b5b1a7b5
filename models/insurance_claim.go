package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/JohnConnorCode/roofing-made-easy/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClaimStatus represents insurance claim state.
type ClaimStatus string

const (
	ClaimStatusDraft             ClaimStatus = "draft"
	ClaimStatusFiled             ClaimStatus = "filed"
	ClaimStatusAdjusterScheduled ClaimStatus = "adjuster_scheduled"
	ClaimStatusApproved          ClaimStatus = "approved"
	ClaimStatusDenied            ClaimStatus = "denied"
	ClaimStatusPaid              ClaimStatus = "paid"
)

// Valid checks if the status is valid.
func (s ClaimStatus) Valid() bool {
	switch s {
	case ClaimStatusDraft, ClaimStatusFiled, ClaimStatusAdjusterScheduled,
		ClaimStatusApproved, ClaimStatusDenied, ClaimStatusPaid:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether a lifecycle transition is allowed.
func (s ClaimStatus) CanTransitionTo(next ClaimStatus) bool {
	switch s {
	case ClaimStatusDraft:
		return next == ClaimStatusFiled
	case ClaimStatusFiled:
		return next == ClaimStatusAdjusterScheduled || next == ClaimStatusApproved || next == ClaimStatusDenied
	case ClaimStatusAdjusterScheduled:
		return next == ClaimStatusApproved || next == ClaimStatusDenied
	case ClaimStatusApproved:
		return next == ClaimStatusPaid
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for ClaimStatus.
func (s *ClaimStatus) Scan(value any) error {
	if value == nil {
		*s = ""
		return nil
	}
	switch v := value.(type) {
	case string:
		*s = ClaimStatus(v)
	case []byte:
		*s = ClaimStatus(string(v))
	default:
		return fmt.Errorf("cannot scan %T into ClaimStatus", value)
	}
	return nil
}

// Value implements the driver.Valuer interface for ClaimStatus.
func (s ClaimStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid ClaimStatus: %s", s)
	}
	return string(s), nil
}

// InsuranceClaim tracks a storm damage claim tied to a lead.
type InsuranceClaim struct {
	ID     uint        `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID   uuid.UUID   `gorm:"type:uuid;uniqueIndex;not null;default:gen_random_uuid()" json:"uuid"`
	LeadID uint        `gorm:"not null;index" json:"lead_id"`
	Status ClaimStatus `gorm:"type:varchar(30);not null;default:'draft';index" json:"status"`

	Carrier      *string `gorm:"type:varchar(120)" json:"carrier,omitempty"`
	PolicyNumber *string `gorm:"type:varchar(60)" json:"policy_number,omitempty"`
	ClaimNumber  *string `gorm:"type:varchar(60)" json:"claim_number,omitempty"`
	DamageType   *string `gorm:"type:varchar(60)" json:"damage_type,omitempty"`

	IncidentDate   *time.Time `json:"incident_date,omitempty"`
	AdjusterVisit  *time.Time `json:"adjuster_visit,omitempty"`
	ApprovedAmount *float64   `gorm:"type:numeric(12,2)" json:"approved_amount,omitempty"`
	Notes          *string    `gorm:"type:text" json:"notes,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	Lead *Lead `gorm:"foreignKey:LeadID;references:ID;constraint:OnDelete:CASCADE" json:"lead,omitempty"`
}

func (InsuranceClaim) TableName() string { return "insurance_claims" }

// BeforeCreate ensures UUID, status, and timestamps are set.
func (c *InsuranceClaim) BeforeCreate(tx *gorm.DB) error {
	if c.UUID == uuid.Nil {
		c.UUID = uuid.New()
	}
	if c.Status == "" {
		c.Status = ClaimStatusDraft
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = utils.UTCNow()
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = utils.UTCNow()
	}
	return nil
}

// InsuranceClaimFilter represents filter criteria for claim queries.
type InsuranceClaimFilter struct {
	ID     *uint        `json:"id,omitempty"`
	UUID   *uuid.UUID   `json:"uuid,omitempty"`
	LeadID *uint        `json:"lead_id,omitempty"`
	Status *ClaimStatus `json:"status,omitempty"`
}
