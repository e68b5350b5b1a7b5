// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/JohnConnorCode/roofing-made-easy/models"
	"github.com/JohnConnorCode/roofing-made-easy/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PricingRuleRepositoryImpl implements PricingRuleRepository interface
type PricingRuleRepositoryImpl struct {
	*BaseRepository[models.PricingRule, models.PricingRuleFilter]
}

// NewPricingRuleRepository creates a new pricing rule repository
func NewPricingRuleRepository(db *gorm.DB) PricingRuleRepository {
	return &PricingRuleRepositoryImpl{
		BaseRepository: NewBaseRepository[models.PricingRule, models.PricingRuleFilter](db),
	}
}

// ByRuleKey retrieves a pricing rule by its unique rule key
func (r *PricingRuleRepositoryImpl) ByRuleKey(ctx context.Context, ruleKey string) (*models.PricingRule, error) {
	rules, err := r.ByFilter(ctx, models.PricingRuleFilter{RuleKey: &ruleKey}, "", 1, 0)
	if err != nil {
		return nil, err
	}

	if len(rules) == 0 {
		return nil, nil
	}

	return rules[0], nil
}

// ListActive retrieves all active pricing rules ordered by insertion
func (r *PricingRuleRepositoryImpl) ListActive(ctx context.Context) ([]*models.PricingRule, error) {
	active := true
	return r.ByFilter(ctx, models.PricingRuleFilter{IsActive: &active}, "id ASC", 0, 0)
}

// Update persists all fields of an existing pricing rule
func (r *PricingRuleRepositoryImpl) Update(ctx context.Context, rule *models.PricingRule) error {
	return r.update(ctx, rule)
}

// UpsertByKey inserts a pricing rule or overwrites the existing row with the same rule key
func (r *PricingRuleRepositoryImpl) UpsertByKey(ctx context.Context, rule *models.PricingRule) error {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	rule.UpdatedAt = utils.UTCNow()
	err = db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "rule_key"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"rule_category", "base_rate", "unit", "multiplier", "flat_fee",
			"min_charge", "is_active", "display_name", "updated_at",
		}),
	}).Create(rule).Error
	if err != nil {
		return fmt.Errorf("failed to upsert pricing rule %s: %w", rule.RuleKey, err)
	}

	return nil
}

// DeactivateByKey marks the rule with the given key inactive
func (r *PricingRuleRepositoryImpl) DeactivateByKey(ctx context.Context, ruleKey string) error {
	return r.updateColumns(ctx,
		map[string]any{"rule_key": ruleKey},
		map[string]any{"is_active": false, "updated_at": utils.UTCNow()},
	)
}

// applyFilter applies filter criteria to a GORM query
func (r *PricingRuleRepositoryImpl) applyFilter(query *gorm.DB, filter models.PricingRuleFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.RuleKey != nil {
		query = query.Where("rule_key = ?", *filter.RuleKey)
	}
	if filter.RuleCategory != nil {
		query = query.Where("rule_category = ?", *filter.RuleCategory)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	return query
}

// ByFilter retrieves pricing rules based on filter criteria
func (r *PricingRuleRepositoryImpl) ByFilter(ctx context.Context, filter models.PricingRuleFilter, orderBy string, limit, offset int) ([]*models.PricingRule, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.PricingRule{})

	query = r.applyFilter(query, filter)

	if orderBy == "" {
		orderBy = "id ASC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rules []*models.PricingRule
	err := query.Find(&rules).Error
	if err != nil {
		return nil, err
	}

	return rules, nil
}

// Count returns the number of pricing rules matching the filter
func (r *PricingRuleRepositoryImpl) Count(ctx context.Context, filter models.PricingRuleFilter) (int64, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.PricingRule{})

	query = r.applyFilter(query, filter)

	var count int64
	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any pricing rule matching the filter exists
func (r *PricingRuleRepositoryImpl) Exists(ctx context.Context, filter models.PricingRuleFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ByID retrieves a pricing rule by its ID
func (r *PricingRuleRepositoryImpl) ByID(ctx context.Context, id uint) (*models.PricingRule, error) {
	db := r.getDB(ctx)

	var rule models.PricingRule
	err := db.Last(&rule, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &rule, nil
}
