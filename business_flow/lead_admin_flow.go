package businessflow

import (
	"context"
	"fmt"

	"github.com/JohnConnorCode/roofing-made-easy/app/dto"
	"github.com/JohnConnorCode/roofing-made-easy/app/services"
	"github.com/JohnConnorCode/roofing-made-easy/models"
	"github.com/JohnConnorCode/roofing-made-easy/repository"
	"github.com/JohnConnorCode/roofing-made-easy/utils"
	"gorm.io/gorm"
)

const (
	DefaultPageSize = 25
	MaxPageSize     = 200
)

// LeadAdminFlow represents the back office lead management workflow
type LeadAdminFlow interface {
	ListLeads(ctx context.Context, req *dto.ListLeadsRequest) (*dto.ListLeadsResponse, error)
	GetLead(ctx context.Context, leadUUID string) (*dto.LeadDTO, error)
	UpdateLeadStatus(ctx context.Context, leadUUID string, req *dto.UpdateLeadStatusRequest, adminID uint, metadata *ClientMetadata) (*dto.LeadDTO, error)
	ResendEstimate(ctx context.Context, leadUUID string, adminID uint, metadata *ClientMetadata) (*dto.EstimateDTO, error)
}

// LeadAdminFlowImpl drives the CRM pipeline over the lead repository
type LeadAdminFlowImpl struct {
	leadRepo        repository.LeadRepository
	estimateRepo    repository.EstimateRepository
	auditRepo       repository.AuditLogRepository
	notificationSvc services.NotificationService
	db              *gorm.DB
}

func NewLeadAdminFlow(
	leadRepo repository.LeadRepository,
	estimateRepo repository.EstimateRepository,
	auditRepo repository.AuditLogRepository,
	notificationSvc services.NotificationService,
	db *gorm.DB,
) LeadAdminFlow {
	return &LeadAdminFlowImpl{
		leadRepo:        leadRepo,
		estimateRepo:    estimateRepo,
		auditRepo:       auditRepo,
		notificationSvc: notificationSvc,
		db:              db,
	}
}

// normalizePage clamps pagination to sane bounds.
func normalizePage(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPageSize
	}
	if perPage > MaxPageSize {
		perPage = MaxPageSize
	}
	return page, perPage
}

func (lf *LeadAdminFlowImpl) ListLeads(ctx context.Context, req *dto.ListLeadsRequest) (*dto.ListLeadsResponse, error) {
	page, perPage := 1, DefaultPageSize
	filter := models.LeadFilter{}
	if req != nil {
		page, perPage = normalizePage(req.Page, req.PerPage)
		if req.Status != nil {
			status := models.LeadStatus(*req.Status)
			filter.Status = &status
		}
		filter.JobType = req.JobType
	}

	total, err := lf.leadRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("LEAD_LIST_FAILED", "Failed to count leads", err)
	}

	leads, err := lf.leadRepo.ByFilter(ctx, filter, "created_at DESC", perPage, (page-1)*perPage)
	if err != nil {
		return nil, NewBusinessError("LEAD_LIST_FAILED", "Failed to list leads", err)
	}

	out := make([]dto.LeadDTO, 0, len(leads))
	for _, lead := range leads {
		out = append(out, *ToLeadDTO(lead))
	}

	return &dto.ListLeadsResponse{
		Leads:   out,
		Total:   total,
		Page:    page,
		PerPage: perPage,
	}, nil
}

func (lf *LeadAdminFlowImpl) GetLead(ctx context.Context, leadUUID string) (*dto.LeadDTO, error) {
	lead, err := lf.leadRepo.ByUUID(ctx, leadUUID)
	if err != nil {
		return nil, NewBusinessError("LEAD_LOOKUP_FAILED", "Failed to lookup lead", err)
	}
	if lead == nil {
		return nil, NewBusinessError(dto.ErrorLeadNotFound, "Lead not found", ErrLeadNotFound)
	}
	return ToLeadDTO(lead), nil
}

// UpdateLeadStatus moves a lead through the pipeline, rejecting transitions
// the lifecycle does not allow.
func (lf *LeadAdminFlowImpl) UpdateLeadStatus(ctx context.Context, leadUUID string, req *dto.UpdateLeadStatusRequest, adminID uint, metadata *ClientMetadata) (*dto.LeadDTO, error) {
	if req == nil {
		return nil, NewBusinessError("LEAD_STATUS_VALIDATION_FAILED", "Status payload is required", ErrInvalidStatusTransition)
	}

	lead, err := lf.leadRepo.ByUUID(ctx, leadUUID)
	if err != nil {
		return nil, NewBusinessError("LEAD_LOOKUP_FAILED", "Failed to lookup lead", err)
	}
	if lead == nil {
		return nil, NewBusinessError(dto.ErrorLeadNotFound, "Lead not found", ErrLeadNotFound)
	}

	next := models.LeadStatus(req.Status)
	if !next.Valid() {
		return nil, NewBusinessError(dto.ErrorInvalidTransition, "Unknown lead status", ErrInvalidStatusTransition)
	}
	if !lead.Status.CanTransitionTo(next) {
		return nil, NewBusinessErrorf(dto.ErrorInvalidTransition,
			"Cannot move lead from %s to %s", ErrInvalidStatusTransition, lead.Status, next)
	}

	previous := lead.Status
	lead.Status = next
	if req.Notes != nil {
		lead.Notes = req.Notes
	}
	lead.UpdatedAt = utils.UTCNow()

	err = repository.WithTransaction(ctx, lf.db, func(txCtx context.Context) error {
		if err := lf.leadRepo.Update(txCtx, lead); err != nil {
			return fmt.Errorf("failed to update lead: %w", err)
		}

		_ = createAuditLog(txCtx, lf.auditRepo, auditEntry{
			Action:      models.AuditActionLeadStatusChanged,
			Description: fmt.Sprintf("Lead %s moved from %s to %s", lead.UUID, previous, next),
			AdminID:     &adminID,
			LeadID:      &lead.ID,
			Success:     true,
			Metadata: map[string]any{
				"from": string(previous),
				"to":   string(next),
			},
		}, metadata)

		return nil
	})
	if err != nil {
		return nil, NewBusinessError("LEAD_STATUS_UPDATE_FAILED", "Failed to update lead status", err)
	}

	return ToLeadDTO(lead), nil
}

// ResendEstimate emails the latest estimate to the lead's contact address.
func (lf *LeadAdminFlowImpl) ResendEstimate(ctx context.Context, leadUUID string, adminID uint, metadata *ClientMetadata) (*dto.EstimateDTO, error) {
	lead, err := lf.leadRepo.ByUUID(ctx, leadUUID)
	if err != nil {
		return nil, NewBusinessError("LEAD_LOOKUP_FAILED", "Failed to lookup lead", err)
	}
	if lead == nil {
		return nil, NewBusinessError(dto.ErrorLeadNotFound, "Lead not found", ErrLeadNotFound)
	}
	if lead.Email == nil || *lead.Email == "" {
		return nil, NewBusinessError(dto.ErrorContactMissing, "Lead has no contact email", ErrContactMissing)
	}

	estimate, err := lf.estimateRepo.LatestByLead(ctx, lead.ID)
	if err != nil {
		return nil, NewBusinessError("ESTIMATE_LOOKUP_FAILED", "Failed to lookup estimate", err)
	}
	if estimate == nil {
		return nil, NewBusinessError(dto.ErrorEstimateNotFound, "Lead has no estimate", ErrEstimateNotFound)
	}

	subject := "Your roofing estimate"
	message := fmt.Sprintf(
		"Here is your estimate again.\n\nEstimated range: $%.2f - $%.2f\nMost likely: $%.2f\n",
		estimate.PriceLow, estimate.PriceHigh, estimate.PriceLikely,
	)
	if err := lf.notificationSvc.SendEmail(*lead.Email, subject, message); err != nil {
		return nil, NewBusinessError("ESTIMATE_RESEND_FAILED", "Failed to resend estimate", err)
	}

	_ = createAuditLog(ctx, lf.auditRepo, auditEntry{
		Action:      models.AuditActionEstimateResent,
		Description: fmt.Sprintf("Estimate %s resent to lead %s", estimate.UUID, lead.UUID),
		AdminID:     &adminID,
		LeadID:      &lead.ID,
		Success:     true,
	}, metadata)

	return ToEstimateDTO(estimate, lead.UUID.String()), nil
}
