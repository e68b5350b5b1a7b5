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

// PricingRuleFlow represents the admin pricing configuration workflow
type PricingRuleFlow interface {
	ListRules(ctx context.Context, includeInactive bool) (*dto.ListPricingRulesResponse, error)
	UpsertRule(ctx context.Context, req *dto.UpsertPricingRuleRequest, adminID uint, metadata *ClientMetadata) (*dto.PricingRuleDTO, error)
	UpdateRule(ctx context.Context, ruleKey string, req *dto.UpdatePricingRuleRequest, adminID uint, metadata *ClientMetadata) (*dto.PricingRuleDTO, error)
	DeactivateRule(ctx context.Context, ruleKey string, adminID uint, metadata *ClientMetadata) error
}

// PricingRuleFlowImpl manages the persisted rule set the estimate engine
// loads at request time
type PricingRuleFlowImpl struct {
	pricingRuleRepo repository.PricingRuleRepository
	auditRepo       repository.AuditLogRepository
	db              *gorm.DB
}

func NewPricingRuleFlow(pricingRuleRepo repository.PricingRuleRepository, auditRepo repository.AuditLogRepository, db *gorm.DB) PricingRuleFlow {
	return &PricingRuleFlowImpl{
		pricingRuleRepo: pricingRuleRepo,
		auditRepo:       auditRepo,
		db:              db,
	}
}

func (pf *PricingRuleFlowImpl) ListRules(ctx context.Context, includeInactive bool) (*dto.ListPricingRulesResponse, error) {
	var (
		rows []*models.PricingRule
		err  error
	)
	if includeInactive {
		rows, err = pf.pricingRuleRepo.ByFilter(ctx, models.PricingRuleFilter{}, "id ASC", 0, 0)
	} else {
		rows, err = pf.pricingRuleRepo.ListActive(ctx)
	}
	if err != nil {
		return nil, NewBusinessError("PRICING_RULE_LIST_FAILED", "Failed to list pricing rules", err)
	}

	rules := make([]dto.PricingRuleDTO, 0, len(rows))
	for _, row := range rows {
		rules = append(rules, *ToPricingRuleDTO(row))
	}

	return &dto.ListPricingRulesResponse{
		Rules: rules,
		Total: int64(len(rules)),
	}, nil
}

// UpsertRule creates or overwrites a rule by key.
func (pf *PricingRuleFlowImpl) UpsertRule(ctx context.Context, req *dto.UpsertPricingRuleRequest, adminID uint, metadata *ClientMetadata) (*dto.PricingRuleDTO, error) {
	if req == nil {
		return nil, NewBusinessError("PRICING_RULE_VALIDATION_FAILED", "Rule payload is required", ErrPricingRuleNotFound)
	}

	rule := &models.PricingRule{
		RuleKey:      req.RuleKey,
		RuleCategory: req.RuleCategory,
		BaseRate:     req.BaseRate,
		Unit:         req.Unit,
		Multiplier:   1,
		MinCharge:    req.MinCharge,
		IsActive:     req.IsActive,
		DisplayName:  req.DisplayName,
		UpdatedAt:    utils.UTCNow(),
	}
	if req.Multiplier != nil {
		rule.Multiplier = *req.Multiplier
	}
	if req.FlatFee != nil {
		rule.FlatFee = *req.FlatFee
	}
	if rule.IsActive == nil {
		rule.IsActive = utils.ToPtr(true)
	}

	err := repository.WithTransaction(ctx, pf.db, func(txCtx context.Context) error {
		if err := pf.pricingRuleRepo.UpsertByKey(txCtx, rule); err != nil {
			return fmt.Errorf("failed to upsert pricing rule: %w", err)
		}

		_ = createAuditLog(txCtx, pf.auditRepo, auditEntry{
			Action:      models.AuditActionPricingRuleChanged,
			Description: fmt.Sprintf("Pricing rule %s upserted", rule.RuleKey),
			AdminID:     &adminID,
			Success:     true,
			Metadata:    map[string]any{"rule_key": rule.RuleKey},
		}, metadata)

		return nil
	})
	if err != nil {
		return nil, NewBusinessError("PRICING_RULE_UPSERT_FAILED", "Failed to save pricing rule", err)
	}

	// Re-read so the caller sees the persisted row, including its ID.
	saved, err := pf.pricingRuleRepo.ByRuleKey(ctx, rule.RuleKey)
	if err != nil || saved == nil {
		return ToPricingRuleDTO(rule), nil
	}
	return ToPricingRuleDTO(saved), nil
}

// UpdateRule partially updates an existing rule by key.
func (pf *PricingRuleFlowImpl) UpdateRule(ctx context.Context, ruleKey string, req *dto.UpdatePricingRuleRequest, adminID uint, metadata *ClientMetadata) (*dto.PricingRuleDTO, error) {
	if req == nil {
		return nil, NewBusinessError("PRICING_RULE_VALIDATION_FAILED", "Rule payload is required", ErrPricingRuleNotFound)
	}

	rule, err := pf.pricingRuleRepo.ByRuleKey(ctx, ruleKey)
	if err != nil {
		return nil, NewBusinessError("PRICING_RULE_LOOKUP_FAILED", "Failed to lookup pricing rule", err)
	}
	if rule == nil {
		return nil, NewBusinessError(dto.ErrorPricingRuleNotFound, "Pricing rule not found", ErrPricingRuleNotFound)
	}

	if req.BaseRate != nil {
		rule.BaseRate = req.BaseRate
	}
	if req.Unit != nil {
		rule.Unit = req.Unit
	}
	if req.Multiplier != nil {
		rule.Multiplier = *req.Multiplier
	}
	if req.FlatFee != nil {
		rule.FlatFee = *req.FlatFee
	}
	if req.MinCharge != nil {
		rule.MinCharge = req.MinCharge
	}
	if req.IsActive != nil {
		rule.IsActive = req.IsActive
	}
	if req.DisplayName != nil {
		rule.DisplayName = *req.DisplayName
	}
	rule.UpdatedAt = utils.UTCNow()

	err = repository.WithTransaction(ctx, pf.db, func(txCtx context.Context) error {
		if err := pf.pricingRuleRepo.Update(txCtx, rule); err != nil {
			return fmt.Errorf("failed to update pricing rule: %w", err)
		}

		_ = createAuditLog(txCtx, pf.auditRepo, auditEntry{
			Action:      models.AuditActionPricingRuleChanged,
			Description: fmt.Sprintf("Pricing rule %s updated", rule.RuleKey),
			AdminID:     &adminID,
			Success:     true,
			Metadata:    map[string]any{"rule_key": rule.RuleKey},
		}, metadata)

		return nil
	})
	if err != nil {
		return nil, NewBusinessError("PRICING_RULE_UPDATE_FAILED", "Failed to update pricing rule", err)
	}

	return ToPricingRuleDTO(rule), nil
}

// DeactivateRule removes a rule from the active set without deleting the row.
func (pf *PricingRuleFlowImpl) DeactivateRule(ctx context.Context, ruleKey string, adminID uint, metadata *ClientMetadata) error {
	rule, err := pf.pricingRuleRepo.ByRuleKey(ctx, ruleKey)
	if err != nil {
		return NewBusinessError("PRICING_RULE_LOOKUP_FAILED", "Failed to lookup pricing rule", err)
	}
	if rule == nil {
		return NewBusinessError(dto.ErrorPricingRuleNotFound, "Pricing rule not found", ErrPricingRuleNotFound)
	}

	err = repository.WithTransaction(ctx, pf.db, func(txCtx context.Context) error {
		if err := pf.pricingRuleRepo.DeactivateByKey(txCtx, ruleKey); err != nil {
			return fmt.Errorf("failed to deactivate pricing rule: %w", err)
		}

		_ = createAuditLog(txCtx, pf.auditRepo, auditEntry{
			Action:      models.AuditActionPricingRuleChanged,
			Description: fmt.Sprintf("Pricing rule %s deactivated", ruleKey),
			AdminID:     &adminID,
			Success:     true,
			Metadata:    map[string]any{"rule_key": ruleKey},
		}, metadata)

		return nil
	})
	if err != nil {
		return NewBusinessError("PRICING_RULE_DEACTIVATE_FAILED", "Failed to deactivate pricing rule", err)
	}
	return nil
}
