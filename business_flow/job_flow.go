package businessflow

import (
	"context"
	"fmt"
	"time"

	"github.com/JohnConnorCode/roofing-made-easy/app/dto"
	"github.com/JohnConnorCode/roofing-made-easy/models"
	"github.com/JohnConnorCode/roofing-made-easy/repository"
	"github.com/JohnConnorCode/roofing-made-easy/utils"
	"gorm.io/gorm"
)

// JobFlow represents the work scheduling workflow
type JobFlow interface {
	CreateJob(ctx context.Context, req *dto.CreateJobRequest, adminID uint, metadata *ClientMetadata) (*dto.JobDTO, error)
	ListJobs(ctx context.Context, req *dto.ListJobsRequest) (*dto.ListJobsResponse, error)
	GetJob(ctx context.Context, jobUUID string) (*dto.JobDTO, error)
	UpdateJob(ctx context.Context, jobUUID string, req *dto.UpdateJobRequest, adminID uint, metadata *ClientMetadata) (*dto.JobDTO, error)
}

// JobFlowImpl schedules and transitions jobs for won leads
type JobFlowImpl struct {
	jobRepo   repository.JobRepository
	leadRepo  repository.LeadRepository
	auditRepo repository.AuditLogRepository
	db        *gorm.DB
}

func NewJobFlow(jobRepo repository.JobRepository, leadRepo repository.LeadRepository, auditRepo repository.AuditLogRepository, db *gorm.DB) JobFlow {
	return &JobFlowImpl{
		jobRepo:   jobRepo,
		leadRepo:  leadRepo,
		auditRepo: auditRepo,
		db:        db,
	}
}

func (jf *JobFlowImpl) CreateJob(ctx context.Context, req *dto.CreateJobRequest, adminID uint, metadata *ClientMetadata) (*dto.JobDTO, error) {
	if req == nil {
		return nil, NewBusinessError("JOB_VALIDATION_FAILED", "Job payload is required", ErrScheduleRequired)
	}

	scheduledFor, err := time.Parse(time.RFC3339, req.ScheduledFor)
	if err != nil {
		return nil, NewBusinessError("JOB_VALIDATION_FAILED", "Scheduled time must be RFC3339", err)
	}

	lead, err := jf.leadRepo.ByUUID(ctx, req.LeadUUID)
	if err != nil {
		return nil, NewBusinessError("LEAD_LOOKUP_FAILED", "Failed to lookup lead", err)
	}
	if lead == nil {
		return nil, NewBusinessError(dto.ErrorLeadNotFound, "Lead not found", ErrLeadNotFound)
	}

	job := &models.Job{
		LeadID:       lead.ID,
		Status:       models.JobStatusScheduled,
		ScheduledFor: &scheduledFor,
		CrewName:     req.CrewName,
		Notes:        req.Notes,
	}

	err = repository.WithTransaction(ctx, jf.db, func(txCtx context.Context) error {
		if err := jf.jobRepo.Save(txCtx, job); err != nil {
			return fmt.Errorf("failed to save job: %w", err)
		}

		_ = createAuditLog(txCtx, jf.auditRepo, auditEntry{
			Action:      models.AuditActionJobScheduled,
			Description: fmt.Sprintf("Job %s scheduled for lead %s", job.UUID, lead.UUID),
			AdminID:     &adminID,
			LeadID:      &lead.ID,
			Success:     true,
			Metadata:    map[string]any{"scheduled_for": scheduledFor.Format(time.RFC3339)},
		}, metadata)

		return nil
	})
	if err != nil {
		return nil, NewBusinessError("JOB_CREATION_FAILED", "Failed to create job", err)
	}

	return ToJobDTO(job, lead.UUID.String()), nil
}

func (jf *JobFlowImpl) ListJobs(ctx context.Context, req *dto.ListJobsRequest) (*dto.ListJobsResponse, error) {
	page, perPage := 1, DefaultPageSize
	filter := models.JobFilter{}
	if req != nil {
		page, perPage = normalizePage(req.Page, req.PerPage)
		if req.Status != nil {
			status := models.JobStatus(*req.Status)
			filter.Status = &status
		}
	}

	total, err := jf.jobRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("JOB_LIST_FAILED", "Failed to count jobs", err)
	}

	rows, err := jf.jobRepo.ByFilter(ctx, filter, "scheduled_for ASC", perPage, (page-1)*perPage)
	if err != nil {
		return nil, NewBusinessError("JOB_LIST_FAILED", "Failed to list jobs", err)
	}

	jobs := make([]dto.JobDTO, 0, len(rows))
	for _, row := range rows {
		jobs = append(jobs, *ToJobDTO(row, leadUUIDOf(row.Lead)))
	}

	return &dto.ListJobsResponse{
		Jobs:    jobs,
		Total:   total,
		Page:    page,
		PerPage: perPage,
	}, nil
}

func (jf *JobFlowImpl) GetJob(ctx context.Context, jobUUID string) (*dto.JobDTO, error) {
	job, err := jf.jobRepo.ByUUID(ctx, jobUUID)
	if err != nil {
		return nil, NewBusinessError("JOB_LOOKUP_FAILED", "Failed to lookup job", err)
	}
	if job == nil {
		return nil, NewBusinessError(dto.ErrorJobNotFound, "Job not found", ErrJobNotFound)
	}

	leadUUID := ""
	if lead, err := jf.leadRepo.ByID(ctx, job.LeadID); err == nil && lead != nil {
		leadUUID = lead.UUID.String()
	}
	return ToJobDTO(job, leadUUID), nil
}

// UpdateJob reschedules or transitions a job. The completed timestamp is
// stamped when the job reaches completed.
func (jf *JobFlowImpl) UpdateJob(ctx context.Context, jobUUID string, req *dto.UpdateJobRequest, adminID uint, metadata *ClientMetadata) (*dto.JobDTO, error) {
	if req == nil {
		return nil, NewBusinessError("JOB_VALIDATION_FAILED", "Job payload is required", ErrInvalidJobState)
	}

	job, err := jf.jobRepo.ByUUID(ctx, jobUUID)
	if err != nil {
		return nil, NewBusinessError("JOB_LOOKUP_FAILED", "Failed to lookup job", err)
	}
	if job == nil {
		return nil, NewBusinessError(dto.ErrorJobNotFound, "Job not found", ErrJobNotFound)
	}

	previous := job.Status
	if req.Status != nil {
		next := models.JobStatus(*req.Status)
		if !next.Valid() {
			return nil, NewBusinessError(dto.ErrorJobState, "Unknown job status", ErrInvalidJobState)
		}
		if next != job.Status {
			if !job.Status.CanTransitionTo(next) {
				return nil, NewBusinessErrorf(dto.ErrorJobState,
					"Cannot move job from %s to %s", ErrInvalidJobState, job.Status, next)
			}
			job.Status = next
			if next == models.JobStatusCompleted {
				now := utils.UTCNow()
				job.CompletedAt = &now
			}
		}
	}
	if req.ScheduledFor != nil {
		scheduledFor, err := time.Parse(time.RFC3339, *req.ScheduledFor)
		if err != nil {
			return nil, NewBusinessError("JOB_VALIDATION_FAILED", "Scheduled time must be RFC3339", err)
		}
		job.ScheduledFor = &scheduledFor
	}
	if req.CrewName != nil {
		job.CrewName = req.CrewName
	}
	if req.Notes != nil {
		job.Notes = req.Notes
	}
	job.UpdatedAt = utils.UTCNow()

	err = repository.WithTransaction(ctx, jf.db, func(txCtx context.Context) error {
		if err := jf.jobRepo.Update(txCtx, job); err != nil {
			return fmt.Errorf("failed to update job: %w", err)
		}

		_ = createAuditLog(txCtx, jf.auditRepo, auditEntry{
			Action:      models.AuditActionJobStatusChanged,
			Description: fmt.Sprintf("Job %s updated (%s to %s)", job.UUID, previous, job.Status),
			AdminID:     &adminID,
			LeadID:      &job.LeadID,
			Success:     true,
		}, metadata)

		return nil
	})
	if err != nil {
		return nil, NewBusinessError("JOB_UPDATE_FAILED", "Failed to update job", err)
	}

	leadUUID := ""
	if lead, err := jf.leadRepo.ByID(ctx, job.LeadID); err == nil && lead != nil {
		leadUUID = lead.UUID.String()
	}
	return ToJobDTO(job, leadUUID), nil
}
