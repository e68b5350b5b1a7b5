// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"errors"

	"github.com/JohnConnorCode/roofing-made-easy/models"
	"github.com/JohnConnorCode/roofing-made-easy/utils"
	"gorm.io/gorm"
)

// InsuranceClaimRepositoryImpl implements InsuranceClaimRepository interface
type InsuranceClaimRepositoryImpl struct {
	*BaseRepository[models.InsuranceClaim, models.InsuranceClaimFilter]
}

// NewInsuranceClaimRepository creates a new insurance claim repository
func NewInsuranceClaimRepository(db *gorm.DB) InsuranceClaimRepository {
	return &InsuranceClaimRepositoryImpl{
		BaseRepository: NewBaseRepository[models.InsuranceClaim, models.InsuranceClaimFilter](db),
	}
}

// ByID retrieves an insurance claim by its ID
func (r *InsuranceClaimRepositoryImpl) ByID(ctx context.Context, id uint) (*models.InsuranceClaim, error) {
	db := r.getDB(ctx)

	var claim models.InsuranceClaim
	err := db.Last(&claim, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &claim, nil
}

// ByUUID retrieves an insurance claim by UUID
func (r *InsuranceClaimRepositoryImpl) ByUUID(ctx context.Context, uuidStr string) (*models.InsuranceClaim, error) {
	parsed, err := utils.ParseUUID(uuidStr)
	if err != nil {
		return nil, err
	}

	claims, err := r.ByFilter(ctx, models.InsuranceClaimFilter{UUID: &parsed}, "", 1, 0)
	if err != nil {
		return nil, err
	}

	if len(claims) == 0 {
		return nil, nil
	}

	return claims[0], nil
}

// Update persists all fields of an existing insurance claim
func (r *InsuranceClaimRepositoryImpl) Update(ctx context.Context, claim *models.InsuranceClaim) error {
	return r.update(ctx, claim)
}

// applyFilter applies filter criteria to a GORM query
func (r *InsuranceClaimRepositoryImpl) applyFilter(query *gorm.DB, filter models.InsuranceClaimFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}
	if filter.LeadID != nil {
		query = query.Where("lead_id = ?", *filter.LeadID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	return query
}

// ByFilter retrieves insurance claims based on filter criteria
func (r *InsuranceClaimRepositoryImpl) ByFilter(ctx context.Context, filter models.InsuranceClaimFilter, orderBy string, limit, offset int) ([]*models.InsuranceClaim, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.InsuranceClaim{})

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

	var claims []*models.InsuranceClaim
	err := query.Find(&claims).Error
	if err != nil {
		return nil, err
	}

	return claims, nil
}

// Count returns the number of insurance claims matching the filter
func (r *InsuranceClaimRepositoryImpl) Count(ctx context.Context, filter models.InsuranceClaimFilter) (int64, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.InsuranceClaim{})

	query = r.applyFilter(query, filter)

	var count int64
	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any insurance claim matching the filter exists
func (r *InsuranceClaimRepositoryImpl) Exists(ctx context.Context, filter models.InsuranceClaimFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
