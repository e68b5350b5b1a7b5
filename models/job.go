package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/JohnConnorCode/roofing-made-easy/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// JobStatus represents scheduled job state.
type JobStatus string

const (
	JobStatusScheduled  JobStatus = "scheduled"
	JobStatusInProgress JobStatus = "in_progress"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusCancelled  JobStatus = "cancelled"
)

// Valid checks if the status is valid.
func (s JobStatus) Valid() bool {
	switch s {
	case JobStatusScheduled, JobStatusInProgress, JobStatusCompleted, JobStatusCancelled:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether a lifecycle transition is allowed.
func (s JobStatus) CanTransitionTo(next JobStatus) bool {
	switch s {
	case JobStatusScheduled:
		return next == JobStatusInProgress || next == JobStatusCancelled
	case JobStatusInProgress:
		return next == JobStatusCompleted || next == JobStatusCancelled
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for JobStatus.
func (s *JobStatus) Scan(value any) error {
	if value == nil {
		*s = ""
		return nil
	}
	switch v := value.(type) {
	case string:
		*s = JobStatus(v)
	case []byte:
		*s = JobStatus(string(v))
	default:
		return fmt.Errorf("cannot scan %T into JobStatus", value)
	}
	return nil
}

// Value implements the driver.Valuer interface for JobStatus.
func (s JobStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid JobStatus: %s", s)
	}
	return string(s), nil
}

// Job is a scheduled piece of roofing work for a won lead.
type Job struct {
	ID     uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID   uuid.UUID `gorm:"type:uuid;uniqueIndex;not null;default:gen_random_uuid()" json:"uuid"`
	LeadID uint      `gorm:"not null;index" json:"lead_id"`
	Status JobStatus `gorm:"type:varchar(20);not null;default:'scheduled';index" json:"status"`

	ScheduledFor *time.Time `gorm:"index" json:"scheduled_for,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	CrewName     *string    `gorm:"type:varchar(120)" json:"crew_name,omitempty"`
	Notes        *string    `gorm:"type:text" json:"notes,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	Lead *Lead `gorm:"foreignKey:LeadID;references:ID;constraint:OnDelete:CASCADE" json:"lead,omitempty"`
}

func (Job) TableName() string { return "jobs" }

// BeforeCreate ensures UUID, status, and timestamps are set.
func (j *Job) BeforeCreate(tx *gorm.DB) error {
	if j.UUID == uuid.Nil {
		j.UUID = uuid.New()
	}
	if j.Status == "" {
		j.Status = JobStatusScheduled
	}
	if j.CreatedAt.IsZero() {
		j.CreatedAt = utils.UTCNow()
	}
	if j.UpdatedAt.IsZero() {
		j.UpdatedAt = utils.UTCNow()
	}
	return nil
}

// JobFilter represents filter criteria for job queries.
type JobFilter struct {
	ID              *uint      `json:"id,omitempty"`
	UUID            *uuid.UUID `json:"uuid,omitempty"`
	LeadID          *uint      `json:"lead_id,omitempty"`
	Status          *JobStatus `json:"status,omitempty"`
	ScheduledAfter  *time.Time `json:"scheduled_after,omitempty"`
	ScheduledBefore *time.Time `json:"scheduled_before,omitempty"`
}
