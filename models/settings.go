package models

import (
	"time"

	"github.com/JohnConnorCode/roofing-made-easy/utils"
	"gorm.io/gorm"
)

// SettingsRowID is the primary key of the single settings row. Reads and
// upserts always target this row.
const SettingsRowID uint = 1

// Settings holds company, contact, pricing, and notification configuration
// in a single persisted row.
type Settings struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// Company.
	CompanyName    string  `gorm:"type:varchar(255);not null;default:''" json:"company_name"`
	CompanyPhone   *string `gorm:"type:varchar(30)" json:"company_phone,omitempty"`
	CompanyEmail   *string `gorm:"type:varchar(255)" json:"company_email,omitempty"`
	CompanyAddress *string `gorm:"type:text" json:"company_address,omitempty"`
	LicenseNumber  *string `gorm:"type:varchar(100)" json:"license_number,omitempty"`

	// Pricing.
	InvoiceTaxRate *float64 `gorm:"type:numeric(6,4)" json:"invoice_tax_rate,omitempty"`

	// Notifications.
	NotifyEmail     *string `gorm:"type:varchar(255)" json:"notify_email,omitempty"`
	NotifyOnNewLead *bool   `gorm:"not null;default:true" json:"notify_on_new_lead"`

	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Settings) TableName() string { return "settings" }

// BeforeCreate pins the singleton row ID.
func (s *Settings) BeforeCreate(tx *gorm.DB) error {
	s.ID = SettingsRowID
	if s.UpdatedAt.IsZero() {
		s.UpdatedAt = utils.UTCNow()
	}
	return nil
}

// TaxRate returns the configured invoice tax rate or the default.
func (s *Settings) TaxRate() float64 {
	if s.InvoiceTaxRate != nil {
		return *s.InvoiceTaxRate
	}
	return utils.DefaultInvoiceTaxRate
}
