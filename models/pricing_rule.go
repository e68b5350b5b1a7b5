// Package models contains the GORM data models for the application.
package models

import (
	"time"

	"github.com/JohnConnorCode/roofing-made-easy/pricing"
	"github.com/JohnConnorCode/roofing-made-easy/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PricingRule is one persisted pricing factor. The active set is loaded
// wholesale into the pricing engine at request time.
type PricingRule struct {
	ID           uint     `gorm:"primaryKey;autoIncrement" json:"id"`
	RuleKey      string   `gorm:"type:varchar(100);uniqueIndex;not null" json:"rule_key"`
	RuleCategory string   `gorm:"type:varchar(30);not null;index" json:"rule_category"`
	BaseRate     *float64 `gorm:"type:numeric(12,4)" json:"base_rate,omitempty"`
	Unit         *string  `gorm:"type:varchar(20)" json:"unit,omitempty"`
	Multiplier   float64  `gorm:"type:numeric(10,4);not null;default:1" json:"multiplier"`
	FlatFee      float64  `gorm:"type:numeric(12,2);not null;default:0" json:"flat_fee"`
	MinCharge    *float64 `gorm:"type:numeric(12,2)" json:"min_charge,omitempty"`
	IsActive     *bool    `gorm:"not null;default:true;index" json:"is_active"`
	DisplayName  string   `gorm:"type:varchar(255);not null" json:"display_name"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (PricingRule) TableName() string { return "pricing_rules" }

// BeforeCreate ensures timestamps are set.
func (p *PricingRule) BeforeCreate(tx *gorm.DB) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = utils.UTCNow()
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = utils.UTCNow()
	}
	return nil
}

// ToRule converts the persisted row into the engine's rule representation.
func (p *PricingRule) ToRule() pricing.Rule {
	r := pricing.Rule{
		Key:         p.RuleKey,
		Category:    pricing.Category(p.RuleCategory),
		Multiplier:  decimal.NewFromFloat(p.Multiplier),
		FlatFee:     decimal.NewFromFloat(p.FlatFee),
		Active:      utils.IsTrue(p.IsActive),
		DisplayName: p.DisplayName,
	}
	if p.BaseRate != nil {
		r.BaseRate = decimal.NewNullDecimal(decimal.NewFromFloat(*p.BaseRate))
	}
	if p.Unit != nil {
		r.Unit = pricing.Unit(*p.Unit)
	}
	if p.MinCharge != nil {
		r.MinCharge = decimal.NewNullDecimal(decimal.NewFromFloat(*p.MinCharge))
	}
	return r
}

// ToRules converts a row slice into engine rules, preserving order.
func ToRules(rows []*PricingRule) []pricing.Rule {
	out := make([]pricing.Rule, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.ToRule())
	}
	return out
}

// PricingRuleFilter represents filter criteria for pricing rule queries.
type PricingRuleFilter struct {
	ID           *uint   `json:"id,omitempty"`
	RuleKey      *string `json:"rule_key,omitempty"`
	RuleCategory *string `json:"rule_category,omitempty"`
	IsActive     *bool   `json:"is_active,omitempty"`
}
