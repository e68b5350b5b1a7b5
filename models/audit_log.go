package models

import (
	"encoding/json"
	"time"

	"github.com/JohnConnorCode/roofing-made-easy/utils"
	"gorm.io/gorm"
)

// Audit actions recorded by the business flows.
const (
	AuditActionEstimateCreated    = "estimate_created"
	AuditActionContactAttached    = "contact_attached"
	AuditActionLeadStatusChanged  = "lead_status_changed"
	AuditActionEstimateResent     = "estimate_resent"
	AuditActionAdminLogin         = "admin_login"
	AuditActionAdminLoginFailed   = "admin_login_failed"
	AuditActionTokenRefreshed     = "token_refreshed"
	AuditActionPricingRuleChanged = "pricing_rule_changed"
	AuditActionSettingsUpdated    = "settings_updated"
	AuditActionInvoiceCreated     = "invoice_created"
	AuditActionInvoiceSent        = "invoice_sent"
	AuditActionInvoicePaid        = "invoice_paid"
	AuditActionInvoiceVoided      = "invoice_voided"
	AuditActionJobScheduled       = "job_scheduled"
	AuditActionJobStatusChanged   = "job_status_changed"
	AuditActionFinancingSubmitted = "financing_submitted"
	AuditActionFinancingDecided   = "financing_decided"
	AuditActionClaimFiled         = "claim_filed"
	AuditActionClaimUpdated       = "claim_updated"
)

// AuditLog records a notable action for traceability.
type AuditLog struct {
	ID          uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	AdminID     *uint   `gorm:"index" json:"admin_id,omitempty"`
	LeadID      *uint   `gorm:"index" json:"lead_id,omitempty"`
	Action      string  `gorm:"type:varchar(60);not null;index" json:"action"`
	Description *string `gorm:"type:text" json:"description,omitempty"`
	Success     bool    `gorm:"not null;default:true" json:"success"`

	IPAddress *string         `gorm:"type:varchar(45)" json:"ip_address,omitempty"`
	UserAgent *string         `gorm:"type:text" json:"user_agent,omitempty"`
	Metadata  json.RawMessage `gorm:"type:jsonb" json:"metadata,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"created_at"`

	Admin *Admin `gorm:"foreignKey:AdminID;references:ID;constraint:OnDelete:SET NULL" json:"admin,omitempty"`
	Lead  *Lead  `gorm:"foreignKey:LeadID;references:ID;constraint:OnDelete:SET NULL" json:"lead,omitempty"`
}

func (AuditLog) TableName() string { return "audit_logs" }

// BeforeCreate sets the timestamp.
func (l *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if l.CreatedAt.IsZero() {
		l.CreatedAt = utils.UTCNow()
	}
	return nil
}

// AuditLogFilter represents filter criteria for audit log queries.
type AuditLogFilter struct {
	AdminID       *uint      `json:"admin_id,omitempty"`
	LeadID        *uint      `json:"lead_id,omitempty"`
	Action        *string    `json:"action,omitempty"`
	Success       *bool      `json:"success,omitempty"`
	CreatedAfter  *time.Time `json:"created_after,omitempty"`
	CreatedBefore *time.Time `json:"created_before,omitempty"`
}
