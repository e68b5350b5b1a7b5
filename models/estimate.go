package models

import (
	"encoding/json"
	"time"

	"github.com/JohnConnorCode/roofing-made-easy/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Estimate is one persisted pricing engine result. The adjustment list and
// the input/rule snapshots are stored verbatim for audit and display.
type Estimate struct {
	ID     uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID   uuid.UUID `gorm:"type:uuid;uniqueIndex;not null;default:gen_random_uuid()" json:"uuid"`
	LeadID uint      `gorm:"not null;index" json:"lead_id"`

	PriceLow    float64 `gorm:"type:numeric(12,2);not null" json:"price_low"`
	PriceLikely float64 `gorm:"type:numeric(12,2);not null" json:"price_likely"`
	PriceHigh   float64 `gorm:"type:numeric(12,2);not null" json:"price_high"`

	BaseCost     float64 `gorm:"type:numeric(12,2);not null" json:"base_cost"`
	MaterialCost float64 `gorm:"type:numeric(12,2);not null" json:"material_cost"`
	LaborCost    float64 `gorm:"type:numeric(12,2);not null" json:"labor_cost"`

	Adjustments   json.RawMessage `gorm:"type:jsonb" json:"adjustments,omitempty"`
	InputSnapshot json.RawMessage `gorm:"type:jsonb" json:"input_snapshot,omitempty"`
	RuleSnapshot  json.RawMessage `gorm:"type:jsonb" json:"rule_snapshot,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"created_at"`

	Lead *Lead `gorm:"foreignKey:LeadID;references:ID;constraint:OnDelete:CASCADE" json:"lead,omitempty"`
}

func (Estimate) TableName() string { return "estimates" }

// BeforeCreate ensures UUID and timestamps are set.
func (e *Estimate) BeforeCreate(tx *gorm.DB) error {
	if e.UUID == uuid.Nil {
		e.UUID = uuid.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = utils.UTCNow()
	}
	return nil
}

// EstimateFilter represents filter criteria for estimate queries.
type EstimateFilter struct {
	ID            *uint      `json:"id,omitempty"`
	UUID          *uuid.UUID `json:"uuid,omitempty"`
	LeadID        *uint      `json:"lead_id,omitempty"`
	CreatedAfter  *time.Time `json:"created_after,omitempty"`
	CreatedBefore *time.Time `json:"created_before,omitempty"`
}
