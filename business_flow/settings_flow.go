package businessflow

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/JohnConnorCode/roofing-made-easy/app/dto"
	"github.com/JohnConnorCode/roofing-made-easy/config"
	"github.com/JohnConnorCode/roofing-made-easy/models"
	"github.com/JohnConnorCode/roofing-made-easy/repository"
	"github.com/JohnConnorCode/roofing-made-easy/utils"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const settingsCacheKey = "settings:current"

// SettingsFlow represents the company settings workflow
type SettingsFlow interface {
	GetSettings(ctx context.Context) (*dto.SettingsDTO, error)
	UpdateSettings(ctx context.Context, req *dto.UpdateSettingsRequest, adminID uint, metadata *ClientMetadata) (*dto.SettingsDTO, error)
}

// SettingsFlowImpl serves the settings row through a best effort cache.
// Cache failures fall through to the database and never fail the request.
type SettingsFlowImpl struct {
	settingsRepo repository.SettingsRepository
	auditRepo    repository.AuditLogRepository
	redisClient  *redis.Client
	cacheConfig  config.CacheConfig
	db           *gorm.DB
}

func NewSettingsFlow(
	settingsRepo repository.SettingsRepository,
	auditRepo repository.AuditLogRepository,
	redisClient *redis.Client,
	cacheConfig config.CacheConfig,
	db *gorm.DB,
) SettingsFlow {
	return &SettingsFlowImpl{
		settingsRepo: settingsRepo,
		auditRepo:    auditRepo,
		redisClient:  redisClient,
		cacheConfig:  cacheConfig,
		db:           db,
	}
}

func (sf *SettingsFlowImpl) GetSettings(ctx context.Context) (*dto.SettingsDTO, error) {
	if cached := sf.readCache(ctx); cached != nil {
		return cached, nil
	}

	settings, err := sf.settingsRepo.Current(ctx)
	if err != nil {
		return nil, NewBusinessError("SETTINGS_LOOKUP_FAILED", "Failed to load settings", err)
	}
	if settings == nil {
		// No row yet; serve defaults without persisting them.
		settings = &models.Settings{
			ID:          models.SettingsRowID,
			CompanyName: "",
			UpdatedAt:   utils.UTCNow(),
		}
	}

	out := ToSettingsDTO(settings)
	sf.writeCache(ctx, out)
	return out, nil
}

func (sf *SettingsFlowImpl) UpdateSettings(ctx context.Context, req *dto.UpdateSettingsRequest, adminID uint, metadata *ClientMetadata) (*dto.SettingsDTO, error) {
	if req == nil {
		return nil, NewBusinessError("SETTINGS_VALIDATION_FAILED", "Settings payload is required", nil)
	}

	settings := &models.Settings{
		ID:              models.SettingsRowID,
		CompanyName:     req.CompanyName,
		CompanyPhone:    req.CompanyPhone,
		CompanyEmail:    req.CompanyEmail,
		CompanyAddress:  req.CompanyAddress,
		LicenseNumber:   req.LicenseNumber,
		InvoiceTaxRate:  req.InvoiceTaxRate,
		NotifyEmail:     req.NotifyEmail,
		NotifyOnNewLead: req.NotifyOnNewLead,
		UpdatedAt:       utils.UTCNow(),
	}
	if settings.NotifyOnNewLead == nil {
		settings.NotifyOnNewLead = utils.ToPtr(true)
	}

	err := repository.WithTransaction(ctx, sf.db, func(txCtx context.Context) error {
		if err := sf.settingsRepo.Upsert(txCtx, settings); err != nil {
			return fmt.Errorf("failed to upsert settings: %w", err)
		}

		_ = createAuditLog(txCtx, sf.auditRepo, auditEntry{
			Action:      models.AuditActionSettingsUpdated,
			Description: "Company settings updated",
			AdminID:     &adminID,
			Success:     true,
		}, metadata)

		return nil
	})
	if err != nil {
		return nil, NewBusinessError("SETTINGS_UPDATE_FAILED", "Failed to update settings", err)
	}

	sf.invalidateCache(ctx)
	return ToSettingsDTO(settings), nil
}

func (sf *SettingsFlowImpl) readCache(ctx context.Context) *dto.SettingsDTO {
	if sf.redisClient == nil || !sf.cacheConfig.Enabled {
		return nil
	}
	raw, err := sf.redisClient.Get(ctx, redisKey(sf.cacheConfig, settingsCacheKey)).Bytes()
	if err != nil {
		return nil
	}
	var out dto.SettingsDTO
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return &out
}

func (sf *SettingsFlowImpl) writeCache(ctx context.Context, settings *dto.SettingsDTO) {
	if sf.redisClient == nil || !sf.cacheConfig.Enabled || settings == nil {
		return
	}
	raw, err := json.Marshal(settings)
	if err != nil {
		return
	}
	_ = sf.redisClient.Set(ctx, redisKey(sf.cacheConfig, settingsCacheKey), raw, sf.cacheConfig.DefaultTTL).Err()
}

func (sf *SettingsFlowImpl) invalidateCache(ctx context.Context) {
	if sf.redisClient == nil || !sf.cacheConfig.Enabled {
		return
	}
	_ = sf.redisClient.Del(ctx, redisKey(sf.cacheConfig, settingsCacheKey)).Err()
}
