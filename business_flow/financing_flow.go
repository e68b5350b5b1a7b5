package businessflow

import (
	"context"
	"fmt"

	"github.com/JohnConnorCode/roofing-made-easy/app/dto"
	"github.com/JohnConnorCode/roofing-made-easy/models"
	"github.com/JohnConnorCode/roofing-made-easy/repository"
	"github.com/JohnConnorCode/roofing-made-easy/utils"
	"gorm.io/gorm"
)

// FinancingFlow represents the customer financing workflow
type FinancingFlow interface {
	SubmitApplication(ctx context.Context, req *dto.CreateFinancingApplicationRequest, metadata *ClientMetadata) (*dto.FinancingApplicationDTO, error)
	DecideApplication(ctx context.Context, applicationUUID string, req *dto.DecideFinancingApplicationRequest, adminID uint, metadata *ClientMetadata) (*dto.FinancingApplicationDTO, error)
	GetApplication(ctx context.Context, applicationUUID string) (*dto.FinancingApplicationDTO, error)
}

// FinancingFlowImpl records financing requests and provider decisions
type FinancingFlowImpl struct {
	financingRepo repository.FinancingApplicationRepository
	leadRepo      repository.LeadRepository
	auditRepo     repository.AuditLogRepository
	db            *gorm.DB
}

func NewFinancingFlow(
	financingRepo repository.FinancingApplicationRepository,
	leadRepo repository.LeadRepository,
	auditRepo repository.AuditLogRepository,
	db *gorm.DB,
) FinancingFlow {
	return &FinancingFlowImpl{
		financingRepo: financingRepo,
		leadRepo:      leadRepo,
		auditRepo:     auditRepo,
		db:            db,
	}
}

func (ff *FinancingFlowImpl) SubmitApplication(ctx context.Context, req *dto.CreateFinancingApplicationRequest, metadata *ClientMetadata) (*dto.FinancingApplicationDTO, error) {
	if req == nil {
		return nil, NewBusinessError("FINANCING_VALIDATION_FAILED", "Application payload is required", ErrFinancingNotFound)
	}

	lead, err := ff.leadRepo.ByUUID(ctx, req.LeadUUID)
	if err != nil {
		return nil, NewBusinessError("LEAD_LOOKUP_FAILED", "Failed to lookup lead", err)
	}
	if lead == nil {
		return nil, NewBusinessError(dto.ErrorLeadNotFound, "Lead not found", ErrLeadNotFound)
	}

	application := &models.FinancingApplication{
		LeadID:          lead.ID,
		Status:          models.FinancingStatusSubmitted,
		Provider:        req.Provider,
		AmountRequested: req.AmountRequested,
		TermMonths:      req.TermMonths,
	}

	err = repository.WithTransaction(ctx, ff.db, func(txCtx context.Context) error {
		if err := ff.financingRepo.Save(txCtx, application); err != nil {
			return fmt.Errorf("failed to save financing application: %w", err)
		}

		_ = createAuditLog(txCtx, ff.auditRepo, auditEntry{
			Action:      models.AuditActionFinancingSubmitted,
			Description: fmt.Sprintf("Financing application %s submitted for lead %s", application.UUID, lead.UUID),
			LeadID:      &lead.ID,
			Success:     true,
			Metadata:    map[string]any{"amount_requested": application.AmountRequested},
		}, metadata)

		return nil
	})
	if err != nil {
		return nil, NewBusinessError("FINANCING_SUBMIT_FAILED", "Failed to submit financing application", err)
	}

	return ToFinancingDTO(application, lead.UUID.String()), nil
}

// DecideApplication records a terminal provider decision for a submitted
// application.
func (ff *FinancingFlowImpl) DecideApplication(ctx context.Context, applicationUUID string, req *dto.DecideFinancingApplicationRequest, adminID uint, metadata *ClientMetadata) (*dto.FinancingApplicationDTO, error) {
	if req == nil {
		return nil, NewBusinessError("FINANCING_VALIDATION_FAILED", "Decision payload is required", ErrFinancingNotFound)
	}

	application, err := ff.financingRepo.ByUUID(ctx, applicationUUID)
	if err != nil {
		return nil, NewBusinessError("FINANCING_LOOKUP_FAILED", "Failed to lookup financing application", err)
	}
	if application == nil {
		return nil, NewBusinessError(dto.ErrorFinancingNotFound, "Financing application not found", ErrFinancingNotFound)
	}
	if application.Status != models.FinancingStatusSubmitted {
		return nil, NewBusinessErrorf(dto.ErrorFinancingState,
			"Application already %s", ErrFinancingDecided, application.Status)
	}

	now := utils.UTCNow()
	application.Status = models.FinancingStatus(req.Status)
	application.MonthlyPayment = req.MonthlyPayment
	application.DecidedAt = &now
	application.UpdatedAt = now

	err = repository.WithTransaction(ctx, ff.db, func(txCtx context.Context) error {
		if err := ff.financingRepo.Update(txCtx, application); err != nil {
			return fmt.Errorf("failed to update financing application: %w", err)
		}

		_ = createAuditLog(txCtx, ff.auditRepo, auditEntry{
			Action:      models.AuditActionFinancingDecided,
			Description: fmt.Sprintf("Financing application %s %s", application.UUID, application.Status),
			AdminID:     &adminID,
			LeadID:      &application.LeadID,
			Success:     true,
		}, metadata)

		return nil
	})
	if err != nil {
		return nil, NewBusinessError("FINANCING_DECISION_FAILED", "Failed to record financing decision", err)
	}

	leadUUID := ""
	if lead, err := ff.leadRepo.ByID(ctx, application.LeadID); err == nil && lead != nil {
		leadUUID = lead.UUID.String()
	}
	return ToFinancingDTO(application, leadUUID), nil
}

func (ff *FinancingFlowImpl) GetApplication(ctx context.Context, applicationUUID string) (*dto.FinancingApplicationDTO, error) {
	application, err := ff.financingRepo.ByUUID(ctx, applicationUUID)
	if err != nil {
		return nil, NewBusinessError("FINANCING_LOOKUP_FAILED", "Failed to lookup financing application", err)
	}
	if application == nil {
		return nil, NewBusinessError(dto.ErrorFinancingNotFound, "Financing application not found", ErrFinancingNotFound)
	}

	leadUUID := ""
	if lead, err := ff.leadRepo.ByID(ctx, application.LeadID); err == nil && lead != nil {
		leadUUID = lead.UUID.String()
	}
	return ToFinancingDTO(application, leadUUID), nil
}
