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

// SettingsRepositoryImpl implements SettingsRepository interface.
// Settings live in a single pinned row.
type SettingsRepositoryImpl struct {
	*BaseRepository[models.Settings, struct{}]
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &SettingsRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Settings, struct{}](db),
	}
}

// Current retrieves the settings row, or nil when none has been saved yet
func (r *SettingsRepositoryImpl) Current(ctx context.Context) (*models.Settings, error) {
	db := r.getDB(ctx)

	var settings models.Settings
	err := db.First(&settings, models.SettingsRowID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &settings, nil
}

// Upsert writes the settings row, creating it on first save
func (r *SettingsRepositoryImpl) Upsert(ctx context.Context, settings *models.Settings) error {
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

	settings.ID = models.SettingsRowID
	settings.UpdatedAt = utils.UTCNow()
	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(settings).Error
	if err != nil {
		return fmt.Errorf("failed to upsert settings: %w", err)
	}

	return nil
}
