// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"errors"

	"github.com/JohnConnorCode/roofing-made-easy/models"
	"github.com/JohnConnorCode/roofing-made-easy/utils"
	"gorm.io/gorm"
)

// FinancingApplicationRepositoryImpl implements FinancingApplicationRepository interface
type FinancingApplicationRepositoryImpl struct {
	*BaseRepository[models.FinancingApplication, models.FinancingApplicationFilter]
}

// NewFinancingApplicationRepository creates a new financing application repository
func NewFinancingApplicationRepository(db *gorm.DB) FinancingApplicationRepository {
	return &FinancingApplicationRepositoryImpl{
		BaseRepository: NewBaseRepository[models.FinancingApplication, models.FinancingApplicationFilter](db),
	}
}

// ByID retrieves a financing application by its ID
func (r *FinancingApplicationRepositoryImpl) ByID(ctx context.Context, id uint) (*models.FinancingApplication, error) {
	db := r.getDB(ctx)

	var app models.FinancingApplication
	err := db.Last(&app, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &app, nil
}

// ByUUID retrieves a financing application by UUID
func (r *FinancingApplicationRepositoryImpl) ByUUID(ctx context.Context, uuidStr string) (*models.FinancingApplication, error) {
	parsed, err := utils.ParseUUID(uuidStr)
	if err != nil {
		return nil, err
	}

	apps, err := r.ByFilter(ctx, models.FinancingApplicationFilter{UUID: &parsed}, "", 1, 0)
	if err != nil {
		return nil, err
	}

	if len(apps) == 0 {
		return nil, nil
	}

	return apps[0], nil
}

// Update persists all fields of an existing financing application
func (r *FinancingApplicationRepositoryImpl) Update(ctx context.Context, app *models.FinancingApplication) error {
	return r.update(ctx, app)
}

// applyFilter applies filter criteria to a GORM query
func (r *FinancingApplicationRepositoryImpl) applyFilter(query *gorm.DB, filter models.FinancingApplicationFilter) *gorm.DB {
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

// ByFilter retrieves financing applications based on filter criteria
func (r *FinancingApplicationRepositoryImpl) ByFilter(ctx context.Context, filter models.FinancingApplicationFilter, orderBy string, limit, offset int) ([]*models.FinancingApplication, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.FinancingApplication{})

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

	var apps []*models.FinancingApplication
	err := query.Find(&apps).Error
	if err != nil {
		return nil, err
	}

	return apps, nil
}

// Count returns the number of financing applications matching the filter
func (r *FinancingApplicationRepositoryImpl) Count(ctx context.Context, filter models.FinancingApplicationFilter) (int64, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.FinancingApplication{})

	query = r.applyFilter(query, filter)

	var count int64
	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any financing application matching the filter exists
func (r *FinancingApplicationRepositoryImpl) Exists(ctx context.Context, filter models.FinancingApplicationFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
