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

// ClaimFlow represents the insurance claim workflow
type ClaimFlow interface {
	FileClaim(ctx context.Context, req *dto.CreateInsuranceClaimRequest, metadata *ClientMetadata) (*dto.InsuranceClaimDTO, error)
	UpdateClaim(ctx context.Context, claimUUID string, req *dto.UpdateInsuranceClaimRequest, adminID uint, metadata *ClientMetadata) (*dto.InsuranceClaimDTO, error)
	GetClaim(ctx context.Context, claimUUID string) (*dto.InsuranceClaimDTO, error)
}

// ClaimFlowImpl tracks storm damage claims through the carrier lifecycle
type ClaimFlowImpl struct {
	claimRepo repository.InsuranceClaimRepository
	leadRepo  repository.LeadRepository
	auditRepo repository.AuditLogRepository
	db        *gorm.DB
}

func NewClaimFlow(
	claimRepo repository.InsuranceClaimRepository,
	leadRepo repository.LeadRepository,
	auditRepo repository.AuditLogRepository,
	db *gorm.DB,
) ClaimFlow {
	return &ClaimFlowImpl{
		claimRepo: claimRepo,
		leadRepo:  leadRepo,
		auditRepo: auditRepo,
		db:        db,
	}
}

func (cf *ClaimFlowImpl) FileClaim(ctx context.Context, req *dto.CreateInsuranceClaimRequest, metadata *ClientMetadata) (*dto.InsuranceClaimDTO, error) {
	if req == nil {
		return nil, NewBusinessError("CLAIM_VALIDATION_FAILED", "Claim payload is required", ErrClaimNotFound)
	}

	lead, err := cf.leadRepo.ByUUID(ctx, req.LeadUUID)
	if err != nil {
		return nil, NewBusinessError("LEAD_LOOKUP_FAILED", "Failed to lookup lead", err)
	}
	if lead == nil {
		return nil, NewBusinessError(dto.ErrorLeadNotFound, "Lead not found", ErrLeadNotFound)
	}

	var incidentDate *time.Time
	if req.IncidentDate != nil {
		parsed, err := time.Parse(time.RFC3339, *req.IncidentDate)
		if err != nil {
			return nil, NewBusinessError("CLAIM_VALIDATION_FAILED", "Incident date must be RFC3339", err)
		}
		incidentDate = &parsed
	}

	claim := &models.InsuranceClaim{
		LeadID:       lead.ID,
		Status:       models.ClaimStatusFiled,
		Carrier:      utils.ToPtr(req.Carrier),
		PolicyNumber: utils.ToPtr(req.PolicyNumber),
		DamageType:   req.DamageType,
		IncidentDate: incidentDate,
		Notes:        req.Notes,
	}

	err = repository.WithTransaction(ctx, cf.db, func(txCtx context.Context) error {
		if err := cf.claimRepo.Save(txCtx, claim); err != nil {
			return fmt.Errorf("failed to save claim: %w", err)
		}

		_ = createAuditLog(txCtx, cf.auditRepo, auditEntry{
			Action:      models.AuditActionClaimFiled,
			Description: fmt.Sprintf("Claim %s filed for lead %s", claim.UUID, lead.UUID),
			LeadID:      &lead.ID,
			Success:     true,
			Metadata:    map[string]any{"carrier": req.Carrier},
		}, metadata)

		return nil
	})
	if err != nil {
		return nil, NewBusinessError("CLAIM_CREATION_FAILED", "Failed to file claim", err)
	}

	return ToClaimDTO(claim, lead.UUID.String()), nil
}

// UpdateClaim advances or annotates a claim, enforcing the carrier
// lifecycle on status changes.
func (cf *ClaimFlowImpl) UpdateClaim(ctx context.Context, claimUUID string, req *dto.UpdateInsuranceClaimRequest, adminID uint, metadata *ClientMetadata) (*dto.InsuranceClaimDTO, error) {
	if req == nil {
		return nil, NewBusinessError("CLAIM_VALIDATION_FAILED", "Claim payload is required", ErrClaimNotFound)
	}

	claim, err := cf.claimRepo.ByUUID(ctx, claimUUID)
	if err != nil {
		return nil, NewBusinessError("CLAIM_LOOKUP_FAILED", "Failed to lookup claim", err)
	}
	if claim == nil {
		return nil, NewBusinessError(dto.ErrorClaimNotFound, "Claim not found", ErrClaimNotFound)
	}

	previous := claim.Status
	if req.Status != nil {
		next := models.ClaimStatus(*req.Status)
		if !next.Valid() {
			return nil, NewBusinessError(dto.ErrorClaimState, "Unknown claim status", ErrInvalidClaimTransition)
		}
		if next != claim.Status {
			if !claim.Status.CanTransitionTo(next) {
				return nil, NewBusinessErrorf(dto.ErrorClaimState,
					"Cannot move claim from %s to %s", ErrInvalidClaimTransition, claim.Status, next)
			}
			claim.Status = next
		}
	}
	if req.ClaimNumber != nil {
		claim.ClaimNumber = req.ClaimNumber
	}
	if req.AdjusterVisit != nil {
		visit, err := time.Parse(time.RFC3339, *req.AdjusterVisit)
		if err != nil {
			return nil, NewBusinessError("CLAIM_VALIDATION_FAILED", "Adjuster visit must be RFC3339", err)
		}
		claim.AdjusterVisit = &visit
	}
	if req.ApprovedAmount != nil {
		claim.ApprovedAmount = req.ApprovedAmount
	}
	if req.Notes != nil {
		claim.Notes = req.Notes
	}
	claim.UpdatedAt = utils.UTCNow()

	err = repository.WithTransaction(ctx, cf.db, func(txCtx context.Context) error {
		if err := cf.claimRepo.Update(txCtx, claim); err != nil {
			return fmt.Errorf("failed to update claim: %w", err)
		}

		_ = createAuditLog(txCtx, cf.auditRepo, auditEntry{
			Action:      models.AuditActionClaimUpdated,
			Description: fmt.Sprintf("Claim %s updated (%s to %s)", claim.UUID, previous, claim.Status),
			AdminID:     &adminID,
			LeadID:      &claim.LeadID,
			Success:     true,
		}, metadata)

		return nil
	})
	if err != nil {
		return nil, NewBusinessError("CLAIM_UPDATE_FAILED", "Failed to update claim", err)
	}

	leadUUID := ""
	if lead, err := cf.leadRepo.ByID(ctx, claim.LeadID); err == nil && lead != nil {
		leadUUID = lead.UUID.String()
	}
	return ToClaimDTO(claim, leadUUID), nil
}

func (cf *ClaimFlowImpl) GetClaim(ctx context.Context, claimUUID string) (*dto.InsuranceClaimDTO, error) {
	claim, err := cf.claimRepo.ByUUID(ctx, claimUUID)
	if err != nil {
		return nil, NewBusinessError("CLAIM_LOOKUP_FAILED", "Failed to lookup claim", err)
	}
	if claim == nil {
		return nil, NewBusinessError(dto.ErrorClaimNotFound, "Claim not found", ErrClaimNotFound)
	}

	leadUUID := ""
	if lead, err := cf.leadRepo.ByID(ctx, claim.LeadID); err == nil && lead != nil {
		leadUUID = lead.UUID.String()
	}
	return ToClaimDTO(claim, leadUUID), nil
}
