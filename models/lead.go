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

// LeadStatus represents the CRM pipeline state of a lead.
type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "new"
	LeadStatusContacted LeadStatus = "contacted"
	LeadStatusQuoted    LeadStatus = "quoted"
	LeadStatusScheduled LeadStatus = "scheduled"
	LeadStatusWon       LeadStatus = "won"
	LeadStatusLost      LeadStatus = "lost"
)

// Valid checks if the status is valid.
func (s LeadStatus) Valid() bool {
	switch s {
	case LeadStatusNew, LeadStatusContacted, LeadStatusQuoted,
		LeadStatusScheduled, LeadStatusWon, LeadStatusLost:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether a pipeline transition is allowed. Lost is
// reachable from any non-terminal state; won only from scheduled.
func (s LeadStatus) CanTransitionTo(next LeadStatus) bool {
	if s == next {
		return false
	}
	switch s {
	case LeadStatusNew:
		return next == LeadStatusContacted || next == LeadStatusQuoted || next == LeadStatusLost
	case LeadStatusContacted:
		return next == LeadStatusQuoted || next == LeadStatusLost
	case LeadStatusQuoted:
		return next == LeadStatusScheduled || next == LeadStatusLost
	case LeadStatusScheduled:
		return next == LeadStatusWon || next == LeadStatusLost
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for LeadStatus.
func (s *LeadStatus) Scan(value any) error {
	if value == nil {
		*s = ""
		return nil
	}
	switch v := value.(type) {
	case string:
		*s = LeadStatus(v)
	case []byte:
		*s = LeadStatus(string(v))
	default:
		return fmt.Errorf("cannot scan %T into LeadStatus", value)
	}
	return nil
}

// Value implements the driver.Valuer interface for LeadStatus.
func (s LeadStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid LeadStatus: %s", s)
	}
	return string(s), nil
}

// Lead is one prospective customer captured by the funnel, carrying the
// intake fields the pricing engine consumes.
type Lead struct {
	ID     uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID   uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null;default:gen_random_uuid()" json:"uuid"`
	Status LeadStatus `gorm:"type:varchar(20);not null;default:'new';index" json:"status"`

	// Contact, optional until the funnel's contact step.
	FirstName *string `gorm:"type:varchar(100)" json:"first_name,omitempty"`
	LastName  *string `gorm:"type:varchar(100)" json:"last_name,omitempty"`
	Email     *string `gorm:"type:varchar(255);index" json:"email,omitempty"`
	Phone     *string `gorm:"type:varchar(30)" json:"phone,omitempty"`

	// Property.
	AddressLine *string `gorm:"type:varchar(255)" json:"address_line,omitempty"`
	City        *string `gorm:"type:varchar(100)" json:"city,omitempty"`
	State       *string `gorm:"type:varchar(50)" json:"state,omitempty"`
	PostalCode  *string `gorm:"type:varchar(20)" json:"postal_code,omitempty"`

	// Intake.
	JobType        string          `gorm:"type:varchar(30);not null;index" json:"job_type"`
	Material       *string         `gorm:"type:varchar(30)" json:"material,omitempty"`
	Pitch          *string         `gorm:"type:varchar(20)" json:"pitch,omitempty"`
	Stories        *int            `json:"stories,omitempty"`
	Urgency        *string         `gorm:"type:varchar(20)" json:"urgency,omitempty"`
	RoofSizeSqft   *float64        `gorm:"type:numeric(10,2)" json:"roof_size_sqft,omitempty"`
	HasSkylights   *bool           `json:"has_skylights,omitempty"`
	HasChimneys    *bool           `json:"has_chimneys,omitempty"`
	HasSolarPanels *bool           `json:"has_solar_panels,omitempty"`
	Issues         json.RawMessage `gorm:"type:jsonb" json:"issues,omitempty"`

	Source *string `gorm:"type:varchar(50)" json:"source,omitempty"`
	Notes  *string `gorm:"type:text" json:"notes,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Lead) TableName() string { return "leads" }

// BeforeCreate ensures UUID, status, and timestamps are set.
func (l *Lead) BeforeCreate(tx *gorm.DB) error {
	if l.UUID == uuid.Nil {
		l.UUID = uuid.New()
	}
	if l.Status == "" {
		l.Status = LeadStatusNew
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = utils.UTCNow()
	}
	if l.UpdatedAt.IsZero() {
		l.UpdatedAt = utils.UTCNow()
	}
	return nil
}

// IssueList decodes the persisted issue array.
func (l *Lead) IssueList() []string {
	if len(l.Issues) == 0 {
		return nil
	}
	var out []string
	if err := json.Unmarshal(l.Issues, &out); err != nil {
		return nil
	}
	return out
}

// LeadFilter represents filter criteria for lead queries.
type LeadFilter struct {
	ID            *uint       `json:"id,omitempty"`
	UUID          *uuid.UUID  `json:"uuid,omitempty"`
	Status        *LeadStatus `json:"status,omitempty"`
	JobType       *string     `json:"job_type,omitempty"`
	Email         *string     `json:"email,omitempty"`
	Source        *string     `json:"source,omitempty"`
	CreatedAfter  *time.Time  `json:"created_after,omitempty"`
	CreatedBefore *time.Time  `json:"created_before,omitempty"`
}
