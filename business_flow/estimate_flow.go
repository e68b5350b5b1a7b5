package businessflow

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/JohnConnorCode/roofing-made-easy/app/dto"
	"github.com/JohnConnorCode/roofing-made-easy/app/services"
	"github.com/JohnConnorCode/roofing-made-easy/models"
	"github.com/JohnConnorCode/roofing-made-easy/pricing"
	"github.com/JohnConnorCode/roofing-made-easy/repository"
	"github.com/JohnConnorCode/roofing-made-easy/utils"
	"gorm.io/gorm"
)

// EstimateFlow represents the funnel estimate workflow used by handlers
type EstimateFlow interface {
	CreateEstimate(ctx context.Context, req *dto.CreateEstimateRequest, metadata *ClientMetadata) (*dto.CreateEstimateResponse, error)
	GetEstimate(ctx context.Context, estimateUUID string) (*dto.EstimateDTO, error)
	AttachContact(ctx context.Context, leadUUID string, req *dto.AttachContactRequest, metadata *ClientMetadata) (*dto.LeadDTO, error)
}

// EstimateFlowImpl computes estimates against the configured rule set and
// persists the lead alongside its priced result
type EstimateFlowImpl struct {
	leadRepo        repository.LeadRepository
	estimateRepo    repository.EstimateRepository
	pricingRuleRepo repository.PricingRuleRepository
	settingsRepo    repository.SettingsRepository
	auditRepo       repository.AuditLogRepository
	notificationSvc services.NotificationService
	db              *gorm.DB
}

func NewEstimateFlow(
	leadRepo repository.LeadRepository,
	estimateRepo repository.EstimateRepository,
	pricingRuleRepo repository.PricingRuleRepository,
	settingsRepo repository.SettingsRepository,
	auditRepo repository.AuditLogRepository,
	notificationSvc services.NotificationService,
	db *gorm.DB,
) EstimateFlow {
	return &EstimateFlowImpl{
		leadRepo:        leadRepo,
		estimateRepo:    estimateRepo,
		pricingRuleRepo: pricingRuleRepo,
		settingsRepo:    settingsRepo,
		auditRepo:       auditRepo,
		notificationSvc: notificationSvc,
		db:              db,
	}
}

// CreateEstimate prices the intake, persists the lead and estimate in one
// transaction, and notifies the configured address after commit.
func (ef *EstimateFlowImpl) CreateEstimate(ctx context.Context, req *dto.CreateEstimateRequest, metadata *ClientMetadata) (*dto.CreateEstimateResponse, error) {
	if req == nil {
		return nil, NewBusinessError(dto.ErrorInvalidIntake, "Intake payload is required", ErrInvalidJobType)
	}
	if !pricing.JobType(req.JobType).Valid() {
		return nil, NewBusinessError(dto.ErrorInvalidIntake, "Unknown job type", ErrInvalidJobType)
	}

	engine, err := ef.loadEngine(ctx)
	if err != nil {
		return nil, err
	}

	result := engine.Calculate(buildPricingInput(req))

	lead := leadFromIntake(req)
	estimate, err := estimateFromResult(&result)
	if err != nil {
		return nil, NewBusinessError("ESTIMATE_SNAPSHOT_FAILED", "Failed to snapshot estimate", err)
	}

	err = repository.WithTransaction(ctx, ef.db, func(txCtx context.Context) error {
		if err := ef.leadRepo.Save(txCtx, lead); err != nil {
			return fmt.Errorf("failed to save lead: %w", err)
		}
		estimate.LeadID = lead.ID
		if err := ef.estimateRepo.Save(txCtx, estimate); err != nil {
			return fmt.Errorf("failed to save estimate: %w", err)
		}

		_ = createAuditLog(txCtx, ef.auditRepo, auditEntry{
			Action:      models.AuditActionEstimateCreated,
			Description: fmt.Sprintf("Estimate %s created for lead %s", estimate.UUID, lead.UUID),
			LeadID:      &lead.ID,
			Success:     true,
			Metadata: map[string]any{
				"job_type":     req.JobType,
				"price_likely": estimate.PriceLikely,
			},
		}, metadata)

		return nil
	})
	if err != nil {
		return nil, NewBusinessError("ESTIMATE_CREATION_FAILED", "Failed to create estimate", err)
	}

	// Notify after commit so a mail failure never rolls back the lead.
	ef.notifyNewLead(ctx, lead, estimate)

	return &dto.CreateEstimateResponse{
		Lead:     *ToLeadDTO(lead),
		Estimate: *ToEstimateDTO(estimate, lead.UUID.String()),
	}, nil
}

func (ef *EstimateFlowImpl) GetEstimate(ctx context.Context, estimateUUID string) (*dto.EstimateDTO, error) {
	estimate, err := ef.estimateRepo.ByUUID(ctx, estimateUUID)
	if err != nil {
		return nil, NewBusinessError("ESTIMATE_LOOKUP_FAILED", "Failed to lookup estimate", err)
	}
	if estimate == nil {
		return nil, NewBusinessError(dto.ErrorEstimateNotFound, "Estimate not found", ErrEstimateNotFound)
	}

	leadUUID := ""
	if lead, err := ef.leadRepo.ByID(ctx, estimate.LeadID); err == nil && lead != nil {
		leadUUID = lead.UUID.String()
	}

	return ToEstimateDTO(estimate, leadUUID), nil
}

// AttachContact fills in the contact step of the funnel and advances a new
// lead to contacted.
func (ef *EstimateFlowImpl) AttachContact(ctx context.Context, leadUUID string, req *dto.AttachContactRequest, metadata *ClientMetadata) (*dto.LeadDTO, error) {
	if req == nil {
		return nil, NewBusinessError("CONTACT_VALIDATION_FAILED", "Contact payload is required", ErrContactMissing)
	}

	lead, err := ef.leadRepo.ByUUID(ctx, leadUUID)
	if err != nil {
		return nil, NewBusinessError("LEAD_LOOKUP_FAILED", "Failed to lookup lead", err)
	}
	if lead == nil {
		return nil, NewBusinessError(dto.ErrorLeadNotFound, "Lead not found", ErrLeadNotFound)
	}

	lead.FirstName = utils.ToPtr(req.FirstName)
	lead.LastName = utils.ToPtr(req.LastName)
	lead.Email = utils.ToPtr(req.Email)
	lead.Phone = req.Phone
	lead.AddressLine = req.AddressLine
	lead.City = req.City
	lead.State = req.State
	lead.PostalCode = req.PostalCode
	lead.UpdatedAt = utils.UTCNow()
	if lead.Status == models.LeadStatusNew {
		lead.Status = models.LeadStatusContacted
	}

	err = repository.WithTransaction(ctx, ef.db, func(txCtx context.Context) error {
		if err := ef.leadRepo.Update(txCtx, lead); err != nil {
			return fmt.Errorf("failed to update lead: %w", err)
		}

		_ = createAuditLog(txCtx, ef.auditRepo, auditEntry{
			Action:      models.AuditActionContactAttached,
			Description: fmt.Sprintf("Contact attached to lead %s", lead.UUID),
			LeadID:      &lead.ID,
			Success:     true,
		}, metadata)

		return nil
	})
	if err != nil {
		return nil, NewBusinessError("CONTACT_ATTACH_FAILED", "Failed to attach contact", err)
	}

	return ToLeadDTO(lead), nil
}

// loadEngine builds a pricing engine from the active rule rows. A lookup
// failure or empty set falls back to the built-in defaults.
func (ef *EstimateFlowImpl) loadEngine(ctx context.Context) (*pricing.Engine, error) {
	rows, err := ef.pricingRuleRepo.ListActive(ctx)
	if err != nil {
		return pricing.NewEngine(pricing.DefaultRules()), nil
	}
	return pricing.NewEngine(models.ToRules(rows)), nil
}

func (ef *EstimateFlowImpl) notifyNewLead(ctx context.Context, lead *models.Lead, estimate *models.Estimate) {
	if ef.notificationSvc == nil || ef.settingsRepo == nil {
		return
	}
	settings, err := ef.settingsRepo.Current(ctx)
	if err != nil || settings == nil {
		return
	}
	if !utils.IsTrue(settings.NotifyOnNewLead) || settings.NotifyEmail == nil {
		return
	}
	subject := fmt.Sprintf("New lead: %s", lead.JobType)
	message := fmt.Sprintf(
		"A new lead came through the funnel.\n\nLead: %s\nJob type: %s\nEstimate: $%.2f - $%.2f (likely $%.2f)\n",
		lead.UUID, lead.JobType, estimate.PriceLow, estimate.PriceHigh, estimate.PriceLikely,
	)
	_ = ef.notificationSvc.SendEmail(*settings.NotifyEmail, subject, message)
}

func buildPricingInput(req *dto.CreateEstimateRequest) pricing.Input {
	in := pricing.Input{
		JobType:        pricing.JobType(req.JobType),
		HasSkylights:   utils.IsTrue(req.HasSkylights),
		HasChimneys:    utils.IsTrue(req.HasChimneys),
		HasSolarPanels: utils.IsTrue(req.HasSolarPanels),
		RoofSizeSqft:   req.RoofSizeSqft,
	}
	if req.Material != nil {
		in.Material = pricing.Material(*req.Material)
	}
	if req.Pitch != nil {
		in.Pitch = pricing.Pitch(*req.Pitch)
	}
	if req.Stories != nil {
		in.Stories = *req.Stories
	}
	if req.Urgency != nil {
		in.Urgency = pricing.Urgency(*req.Urgency)
	}
	for _, issue := range req.Issues {
		in.Issues = append(in.Issues, pricing.Issue(issue))
	}
	return in
}

func leadFromIntake(req *dto.CreateEstimateRequest) *models.Lead {
	lead := &models.Lead{
		Status:         models.LeadStatusNew,
		JobType:        req.JobType,
		Material:       req.Material,
		Pitch:          req.Pitch,
		Stories:        req.Stories,
		Urgency:        req.Urgency,
		RoofSizeSqft:   req.RoofSizeSqft,
		HasSkylights:   req.HasSkylights,
		HasChimneys:    req.HasChimneys,
		HasSolarPanels: req.HasSolarPanels,
		Source:         req.Source,
	}
	if len(req.Issues) > 0 {
		if raw, err := json.Marshal(req.Issues); err == nil {
			lead.Issues = raw
		}
	}
	return lead
}

// estimateFromResult flattens the engine output into a persistable row,
// snapshotting the adjustments, input, and rule set as JSON.
func estimateFromResult(result *pricing.Result) (*models.Estimate, error) {
	adjustments := make([]dto.AdjustmentDTO, 0, len(result.Adjustments))
	for _, a := range result.Adjustments {
		adjustments = append(adjustments, dto.AdjustmentDTO{
			Name:        a.Name,
			RuleKey:     a.RuleKey,
			Amount:      a.Impact.InexactFloat64(),
			Description: a.Description,
			Category:    string(a.Category),
		})
	}

	adjustmentsRaw, err := json.Marshal(adjustments)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal adjustments: %w", err)
	}
	inputRaw, err := json.Marshal(result.Input)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal input snapshot: %w", err)
	}
	rulesRaw, err := json.Marshal(result.Rules)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal rule snapshot: %w", err)
	}

	return &models.Estimate{
		PriceLow:      result.PriceLow.InexactFloat64(),
		PriceLikely:   result.PriceLikely.InexactFloat64(),
		PriceHigh:     result.PriceHigh.InexactFloat64(),
		BaseCost:      result.BaseCost.InexactFloat64(),
		MaterialCost:  result.MaterialCost.InexactFloat64(),
		LaborCost:     result.LaborCost.InexactFloat64(),
		Adjustments:   adjustmentsRaw,
		InputSnapshot: inputRaw,
		RuleSnapshot:  rulesRaw,
	}, nil
}
