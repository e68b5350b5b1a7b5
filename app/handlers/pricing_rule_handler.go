package handlers

import (
	"log"

	"github.com/JohnConnorCode/roofing-made-easy/app/dto"
	"github.com/JohnConnorCode/roofing-made-easy/app/middleware"
	businessflow "github.com/JohnConnorCode/roofing-made-easy/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// PricingRuleHandlerInterface defines the contract for pricing configuration handlers
type PricingRuleHandlerInterface interface {
	ListRules(c fiber.Ctx) error
	UpsertRule(c fiber.Ctx) error
	UpdateRule(c fiber.Ctx) error
	DeactivateRule(c fiber.Ctx) error
}

// PricingRuleHandler handles the admin pricing rule endpoints
type PricingRuleHandler struct {
	pricingRuleFlow businessflow.PricingRuleFlow
	validator       *validator.Validate
}

// NewPricingRuleHandler creates a new pricing rule handler
func NewPricingRuleHandler(pricingRuleFlow businessflow.PricingRuleFlow) *PricingRuleHandler {
	return &PricingRuleHandler{
		pricingRuleFlow: pricingRuleFlow,
		validator:       validator.New(),
	}
}

// ListRules returns the configured rule set
// @Summary List Pricing Rules
// @Tags Pricing
// @Produce json
// @Param include_inactive query bool false "Include deactivated rules"
// @Success 200 {object} dto.APIResponse{data=dto.ListPricingRulesResponse} "Rules"
// @Router /api/v1/admin/pricing-rules [get]
func (h *PricingRuleHandler) ListRules(c fiber.Ctx) error {
	includeInactive := c.Query("include_inactive") == "true"

	result, err := h.pricingRuleFlow.ListRules(createRequestContext(c, "/api/v1/admin/pricing-rules"), includeInactive)
	if err != nil {
		log.Println("Pricing rule listing failed", err)
		return businessErrorResponse(c, err, "Failed to list pricing rules", "PRICING_RULE_LIST_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Pricing rules", result)
}

// UpsertRule creates or overwrites a rule by key
// @Summary Upsert Pricing Rule
// @Tags Pricing
// @Accept json
// @Produce json
// @Param request body dto.UpsertPricingRuleRequest true "Rule data"
// @Success 200 {object} dto.APIResponse{data=dto.PricingRuleDTO} "Rule saved"
// @Router /api/v1/admin/pricing-rules [put]
func (h *PricingRuleHandler) UpsertRule(c fiber.Ctx) error {
	var req dto.UpsertPricingRuleRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if stop, err := validateRequest(c, h.validator, &req); stop {
		return err
	}

	adminID, _ := middleware.GetAdminIDFromContext(c)
	result, err := h.pricingRuleFlow.UpsertRule(createRequestContext(c, "/api/v1/admin/pricing-rules"), &req, adminID, clientMetadata(c))
	if err != nil {
		log.Println("Pricing rule upsert failed", err)
		return businessErrorResponse(c, err, "Failed to save pricing rule", "PRICING_RULE_UPSERT_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Pricing rule saved", result)
}

// UpdateRule partially updates an existing rule
// @Summary Update Pricing Rule
// @Tags Pricing
// @Accept json
// @Produce json
// @Param key path string true "Rule key"
// @Param request body dto.UpdatePricingRuleRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.PricingRuleDTO} "Rule updated"
// @Failure 404 {object} dto.APIResponse "Rule not found"
// @Router /api/v1/admin/pricing-rules/{key} [patch]
func (h *PricingRuleHandler) UpdateRule(c fiber.Ctx) error {
	ruleKey := c.Params("key")
	if ruleKey == "" {
		return errorResponse(c, fiber.StatusBadRequest, "Rule key is required", "INVALID_REQUEST", nil)
	}

	var req dto.UpdatePricingRuleRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if stop, err := validateRequest(c, h.validator, &req); stop {
		return err
	}

	adminID, _ := middleware.GetAdminIDFromContext(c)
	result, err := h.pricingRuleFlow.UpdateRule(createRequestContext(c, "/api/v1/admin/pricing-rules/:key"), ruleKey, &req, adminID, clientMetadata(c))
	if err != nil {
		log.Println("Pricing rule update failed", err)
		return businessErrorResponse(c, err, "Failed to update pricing rule", "PRICING_RULE_UPDATE_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Pricing rule updated", result)
}

// DeactivateRule removes a rule from the active set
// @Summary Deactivate Pricing Rule
// @Tags Pricing
// @Produce json
// @Param key path string true "Rule key"
// @Success 200 {object} dto.APIResponse "Rule deactivated"
// @Failure 404 {object} dto.APIResponse "Rule not found"
// @Router /api/v1/admin/pricing-rules/{key} [delete]
func (h *PricingRuleHandler) DeactivateRule(c fiber.Ctx) error {
	ruleKey := c.Params("key")
	if ruleKey == "" {
		return errorResponse(c, fiber.StatusBadRequest, "Rule key is required", "INVALID_REQUEST", nil)
	}

	adminID, _ := middleware.GetAdminIDFromContext(c)
	if err := h.pricingRuleFlow.DeactivateRule(createRequestContext(c, "/api/v1/admin/pricing-rules/:key"), ruleKey, adminID, clientMetadata(c)); err != nil {
		log.Println("Pricing rule deactivation failed", err)
		return businessErrorResponse(c, err, "Failed to deactivate pricing rule", "PRICING_RULE_DEACTIVATE_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Pricing rule deactivated", nil)
}
