package dto

// JobDTO represents a scheduled piece of work
type JobDTO struct {
	ID       uint   `json:"id" example:"12"`
	UUID     string `json:"uuid" example:"f47ac10b-58cc-4372-a567-0e02b2c3d479"`
	LeadUUID string `json:"lead_uuid,omitempty"`
	Status   string `json:"status" example:"scheduled"`

	ScheduledFor *string `json:"scheduled_for,omitempty" example:"2026-09-15T08:00:00Z"`
	CompletedAt  *string `json:"completed_at,omitempty"`
	CrewName     *string `json:"crew_name,omitempty" example:"North crew"`
	Notes        *string `json:"notes,omitempty"`
	CreatedAt    string  `json:"created_at" example:"2024-01-15T10:30:00Z"`
}

// CreateJobRequest schedules work for a lead
type CreateJobRequest struct {
	LeadUUID     string  `json:"lead_uuid" validate:"required,uuid4" example:"550e8400-e29b-41d4-a716-446655440000"`
	ScheduledFor string  `json:"scheduled_for" validate:"required" example:"2026-09-15T08:00:00Z"`
	CrewName     *string `json:"crew_name,omitempty" validate:"omitempty,max=120"`
	Notes        *string `json:"notes,omitempty" validate:"omitempty,max=5000"`
}

// UpdateJobRequest reschedules or transitions a job
type UpdateJobRequest struct {
	Status       *string `json:"status,omitempty" validate:"omitempty,oneof=scheduled in_progress completed cancelled"`
	ScheduledFor *string `json:"scheduled_for,omitempty"`
	CrewName     *string `json:"crew_name,omitempty" validate:"omitempty,max=120"`
	Notes        *string `json:"notes,omitempty" validate:"omitempty,max=5000"`
}

// ListJobsRequest represents query parameters for listing jobs
type ListJobsRequest struct {
	Status  *string `query:"status" validate:"omitempty,oneof=scheduled in_progress completed cancelled"`
	Page    int     `query:"page" validate:"omitempty,min=1"`
	PerPage int     `query:"per_page" validate:"omitempty,min=1,max=200"`
}

// ListJobsResponse wraps a page of jobs
type ListJobsResponse struct {
	Jobs    []JobDTO `json:"jobs"`
	Total   int64    `json:"total"`
	Page    int      `json:"page"`
	PerPage int      `json:"per_page"`
}

// Common error codes for job operations
const (
	ErrorJobNotFound = "JOB_NOT_FOUND"
	ErrorJobState    = "INVALID_JOB_STATE"
)
