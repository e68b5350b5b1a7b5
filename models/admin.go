package models

import (
	"time"

	"github.com/JohnConnorCode/roofing-made-easy/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Admin is a back office user that manages leads, invoices, and pricing.
type Admin struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID         uuid.UUID `gorm:"type:uuid;uniqueIndex;not null;default:gen_random_uuid()" json:"uuid"`
	Username     string    `gorm:"type:varchar(60);uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	DisplayName  *string   `gorm:"type:varchar(120)" json:"display_name,omitempty"`
	IsActive     *bool     `gorm:"not null;default:true" json:"is_active"`

	LastLoginAt *time.Time `json:"last_login_at,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Admin) TableName() string { return "admins" }

// BeforeCreate ensures UUID, active flag, and timestamps are set.
func (a *Admin) BeforeCreate(tx *gorm.DB) error {
	if a.UUID == uuid.Nil {
		a.UUID = uuid.New()
	}
	if a.IsActive == nil {
		a.IsActive = utils.ToPtr(true)
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = utils.UTCNow()
	}
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = utils.UTCNow()
	}
	return nil
}

// AdminFilter represents filter criteria for admin queries.
type AdminFilter struct {
	ID       *uint      `json:"id,omitempty"`
	UUID     *uuid.UUID `json:"uuid,omitempty"`
	Username *string    `json:"username,omitempty"`
	IsActive *bool      `json:"is_active,omitempty"`
}
