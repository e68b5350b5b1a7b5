// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"errors"

	"github.com/JohnConnorCode/roofing-made-easy/models"
	"github.com/JohnConnorCode/roofing-made-easy/utils"
	"gorm.io/gorm"
)

// EstimateRepositoryImpl implements EstimateRepository interface
type EstimateRepositoryImpl struct {
	*BaseRepository[models.Estimate, models.EstimateFilter]
}

// NewEstimateRepository creates a new estimate repository
func NewEstimateRepository(db *gorm.DB) EstimateRepository {
	return &EstimateRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Estimate, models.EstimateFilter](db),
	}
}

// ByID retrieves an estimate by its ID
func (r *EstimateRepositoryImpl) ByID(ctx context.Context, id uint) (*models.Estimate, error) {
	db := r.getDB(ctx)

	var estimate models.Estimate
	err := db.Last(&estimate, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &estimate, nil
}

// ByUUID retrieves an estimate by UUID
func (r *EstimateRepositoryImpl) ByUUID(ctx context.Context, uuidStr string) (*models.Estimate, error) {
	parsed, err := utils.ParseUUID(uuidStr)
	if err != nil {
		return nil, err
	}

	estimates, err := r.ByFilter(ctx, models.EstimateFilter{UUID: &parsed}, "", 1, 0)
	if err != nil {
		return nil, err
	}

	if len(estimates) == 0 {
		return nil, nil
	}

	return estimates[0], nil
}

// LatestByLead retrieves the most recent estimate for a lead
func (r *EstimateRepositoryImpl) LatestByLead(ctx context.Context, leadID uint) (*models.Estimate, error) {
	estimates, err := r.ByFilter(ctx, models.EstimateFilter{LeadID: &leadID}, "created_at DESC", 1, 0)
	if err != nil {
		return nil, err
	}

	if len(estimates) == 0 {
		return nil, nil
	}

	return estimates[0], nil
}

// applyFilter applies filter criteria to a GORM query
func (r *EstimateRepositoryImpl) applyFilter(query *gorm.DB, filter models.EstimateFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}
	if filter.LeadID != nil {
		query = query.Where("lead_id = ?", *filter.LeadID)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at > ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at < ?", *filter.CreatedBefore)
	}
	return query
}

// ByFilter retrieves estimates based on filter criteria
func (r *EstimateRepositoryImpl) ByFilter(ctx context.Context, filter models.EstimateFilter, orderBy string, limit, offset int) ([]*models.Estimate, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Estimate{})

	query = r.applyFilter(query, filter)

	if orderBy == "" {
		orderBy = "created_at DESC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var estimates []*models.Estimate
	err := query.Find(&estimates).Error
	if err != nil {
		return nil, err
	}

	return estimates, nil
}

// Count returns the number of estimates matching the filter
func (r *EstimateRepositoryImpl) Count(ctx context.Context, filter models.EstimateFilter) (int64, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Estimate{})

	query = r.applyFilter(query, filter)

	var count int64
	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any estimate matching the filter exists
func (r *EstimateRepositoryImpl) Exists(ctx context.Context, filter models.EstimateFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
