package handlers

import (
	"log"

	"github.com/JohnConnorCode/roofing-made-easy/app/dto"
	"github.com/JohnConnorCode/roofing-made-easy/app/middleware"
	businessflow "github.com/JohnConnorCode/roofing-made-easy/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// ClaimHandlerInterface defines the contract for insurance claim handlers
type ClaimHandlerInterface interface {
	FileClaim(c fiber.Ctx) error
	UpdateClaim(c fiber.Ctx) error
	GetClaim(c fiber.Ctx) error
}

// ClaimHandler handles the insurance claim endpoints
type ClaimHandler struct {
	claimFlow businessflow.ClaimFlow
	validator *validator.Validate
}

// NewClaimHandler creates a new claim handler
func NewClaimHandler(claimFlow businessflow.ClaimFlow) *ClaimHandler {
	return &ClaimHandler{
		claimFlow: claimFlow,
		validator: validator.New(),
	}
}

// FileClaim files an insurance claim for a lead
// @Summary File Claim
// @Tags Claims
// @Accept json
// @Produce json
// @Param request body dto.CreateInsuranceClaimRequest true "Claim data"
// @Success 201 {object} dto.APIResponse{data=dto.InsuranceClaimDTO} "Claim filed"
// @Failure 404 {object} dto.APIResponse "Lead not found"
// @Router /api/v1/claims [post]
func (h *ClaimHandler) FileClaim(c fiber.Ctx) error {
	var req dto.CreateInsuranceClaimRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if stop, err := validateRequest(c, h.validator, &req); stop {
		return err
	}

	result, err := h.claimFlow.FileClaim(createRequestContext(c, "/api/v1/claims"), &req, clientMetadata(c))
	if err != nil {
		log.Println("Claim filing failed", err)
		return businessErrorResponse(c, err, "Failed to file claim", "CLAIM_CREATION_FAILED")
	}

	return successResponse(c, fiber.StatusCreated, "Claim filed", result)
}

// UpdateClaim advances or annotates a claim
// @Summary Update Claim
// @Tags Claims
// @Accept json
// @Produce json
// @Param uuid path string true "Claim UUID"
// @Param request body dto.UpdateInsuranceClaimRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.InsuranceClaimDTO} "Claim updated"
// @Failure 409 {object} dto.APIResponse "Invalid transition"
// @Router /api/v1/admin/claims/{uuid} [patch]
func (h *ClaimHandler) UpdateClaim(c fiber.Ctx) error {
	claimUUID := c.Params("uuid")
	if claimUUID == "" {
		return errorResponse(c, fiber.StatusBadRequest, "Claim UUID is required", "INVALID_REQUEST", nil)
	}

	var req dto.UpdateInsuranceClaimRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if stop, err := validateRequest(c, h.validator, &req); stop {
		return err
	}

	adminID, _ := middleware.GetAdminIDFromContext(c)
	result, err := h.claimFlow.UpdateClaim(createRequestContext(c, "/api/v1/admin/claims/:uuid"), claimUUID, &req, adminID, clientMetadata(c))
	if err != nil {
		log.Println("Claim update failed", err)
		return businessErrorResponse(c, err, "Failed to update claim", "CLAIM_UPDATE_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Claim updated", result)
}

// GetClaim returns one claim by UUID
// @Summary Get Claim
// @Tags Claims
// @Produce json
// @Param uuid path string true "Claim UUID"
// @Success 200 {object} dto.APIResponse{data=dto.InsuranceClaimDTO} "Claim"
// @Failure 404 {object} dto.APIResponse "Claim not found"
// @Router /api/v1/admin/claims/{uuid} [get]
func (h *ClaimHandler) GetClaim(c fiber.Ctx) error {
	claimUUID := c.Params("uuid")
	if claimUUID == "" {
		return errorResponse(c, fiber.StatusBadRequest, "Claim UUID is required", "INVALID_REQUEST", nil)
	}

	result, err := h.claimFlow.GetClaim(createRequestContext(c, "/api/v1/admin/claims/:uuid"), claimUUID)
	if err != nil {
		return businessErrorResponse(c, err, "Failed to load claim", "CLAIM_LOOKUP_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Claim", result)
}
