package handlers

import (
	"log"

	"github.com/JohnConnorCode/roofing-made-easy/app/dto"
	"github.com/JohnConnorCode/roofing-made-easy/app/middleware"
	businessflow "github.com/JohnConnorCode/roofing-made-easy/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// SettingsHandlerInterface defines the contract for settings handlers
type SettingsHandlerInterface interface {
	GetSettings(c fiber.Ctx) error
	UpdateSettings(c fiber.Ctx) error
}

// SettingsHandler handles the company settings endpoints
type SettingsHandler struct {
	settingsFlow businessflow.SettingsFlow
	validator    *validator.Validate
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsFlow businessflow.SettingsFlow) *SettingsHandler {
	return &SettingsHandler{
		settingsFlow: settingsFlow,
		validator:    validator.New(),
	}
}

// GetSettings returns the company settings
// @Summary Get Settings
// @Tags Settings
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.SettingsDTO} "Settings"
// @Router /api/v1/admin/settings [get]
func (h *SettingsHandler) GetSettings(c fiber.Ctx) error {
	result, err := h.settingsFlow.GetSettings(createRequestContext(c, "/api/v1/admin/settings"))
	if err != nil {
		log.Println("Settings lookup failed", err)
		return businessErrorResponse(c, err, "Failed to load settings", "SETTINGS_LOOKUP_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Settings", result)
}

// UpdateSettings overwrites the company settings row
// @Summary Update Settings
// @Tags Settings
// @Accept json
// @Produce json
// @Param request body dto.UpdateSettingsRequest true "Settings data"
// @Success 200 {object} dto.APIResponse{data=dto.SettingsDTO} "Settings updated"
// @Router /api/v1/admin/settings [put]
func (h *SettingsHandler) UpdateSettings(c fiber.Ctx) error {
	var req dto.UpdateSettingsRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if stop, err := validateRequest(c, h.validator, &req); stop {
		return err
	}

	adminID, _ := middleware.GetAdminIDFromContext(c)
	result, err := h.settingsFlow.UpdateSettings(createRequestContext(c, "/api/v1/admin/settings"), &req, adminID, clientMetadata(c))
	if err != nil {
		log.Println("Settings update failed", err)
		return businessErrorResponse(c, err, "Failed to update settings", "SETTINGS_UPDATE_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Settings updated", result)
}
