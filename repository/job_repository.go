// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/JohnConnorCode/roofing-made-easy/models"
	"github.com/JohnConnorCode/roofing-made-easy/utils"
	"gorm.io/gorm"
)

// JobRepositoryImpl implements JobRepository interface
type JobRepositoryImpl struct {
	*BaseRepository[models.Job, models.JobFilter]
}

// NewJobRepository creates a new job repository
func NewJobRepository(db *gorm.DB) JobRepository {
	return &JobRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Job, models.JobFilter](db),
	}
}

// ByID retrieves a job by its ID
func (r *JobRepositoryImpl) ByID(ctx context.Context, id uint) (*models.Job, error) {
	db := r.getDB(ctx)

	var job models.Job
	err := db.Last(&job, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &job, nil
}

// ByUUID retrieves a job by UUID
func (r *JobRepositoryImpl) ByUUID(ctx context.Context, uuidStr string) (*models.Job, error) {
	parsed, err := utils.ParseUUID(uuidStr)
	if err != nil {
		return nil, err
	}

	jobs, err := r.ByFilter(ctx, models.JobFilter{UUID: &parsed}, "", 1, 0)
	if err != nil {
		return nil, err
	}

	if len(jobs) == 0 {
		return nil, nil
	}

	return jobs[0], nil
}

// ListScheduledBetween retrieves jobs scheduled inside the window
func (r *JobRepositoryImpl) ListScheduledBetween(ctx context.Context, from, to time.Time) ([]*models.Job, error) {
	db := r.getDB(ctx)

	var jobs []*models.Job
	err := db.Model(&models.Job{}).
		Where("scheduled_for >= ? AND scheduled_for < ?", from, to).
		Order("scheduled_for ASC").
		Find(&jobs).Error
	if err != nil {
		return nil, err
	}

	return jobs, nil
}

// Update persists all fields of an existing job
func (r *JobRepositoryImpl) Update(ctx context.Context, job *models.Job) error {
	return r.update(ctx, job)
}

// applyFilter applies filter criteria to a GORM query
func (r *JobRepositoryImpl) applyFilter(query *gorm.DB, filter models.JobFilter) *gorm.DB {
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
	if filter.ScheduledAfter != nil {
		query = query.Where("scheduled_for > ?", *filter.ScheduledAfter)
	}
	if filter.ScheduledBefore != nil {
		query = query.Where("scheduled_for < ?", *filter.ScheduledBefore)
	}
	return query
}

// ByFilter retrieves jobs based on filter criteria
func (r *JobRepositoryImpl) ByFilter(ctx context.Context, filter models.JobFilter, orderBy string, limit, offset int) ([]*models.Job, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Job{})

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

	var jobs []*models.Job
	err := query.Find(&jobs).Error
	if err != nil {
		return nil, err
	}

	return jobs, nil
}

// Count returns the number of jobs matching the filter
func (r *JobRepositoryImpl) Count(ctx context.Context, filter models.JobFilter) (int64, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Job{})

	query = r.applyFilter(query, filter)

	var count int64
	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any job matching the filter exists
func (r *JobRepositoryImpl) Exists(ctx context.Context, filter models.JobFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
