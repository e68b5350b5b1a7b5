package handlers

import (
	"log"

	"github.com/JohnConnorCode/roofing-made-easy/app/dto"
	"github.com/JohnConnorCode/roofing-made-easy/app/middleware"
	businessflow "github.com/JohnConnorCode/roofing-made-easy/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// FinancingHandlerInterface defines the contract for financing handlers
type FinancingHandlerInterface interface {
	SubmitApplication(c fiber.Ctx) error
	DecideApplication(c fiber.Ctx) error
	GetApplication(c fiber.Ctx) error
}

// FinancingHandler handles the customer financing endpoints
type FinancingHandler struct {
	financingFlow businessflow.FinancingFlow
	validator     *validator.Validate
}

// NewFinancingHandler creates a new financing handler
func NewFinancingHandler(financingFlow businessflow.FinancingFlow) *FinancingHandler {
	return &FinancingHandler{
		financingFlow: financingFlow,
		validator:     validator.New(),
	}
}

// SubmitApplication submits a financing request for a lead
// @Summary Submit Financing Application
// @Tags Financing
// @Accept json
// @Produce json
// @Param request body dto.CreateFinancingApplicationRequest true "Application data"
// @Success 201 {object} dto.APIResponse{data=dto.FinancingApplicationDTO} "Application submitted"
// @Failure 404 {object} dto.APIResponse "Lead not found"
// @Router /api/v1/financing [post]
func (h *FinancingHandler) SubmitApplication(c fiber.Ctx) error {
	var req dto.CreateFinancingApplicationRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if stop, err := validateRequest(c, h.validator, &req); stop {
		return err
	}

	result, err := h.financingFlow.SubmitApplication(createRequestContext(c, "/api/v1/financing"), &req, clientMetadata(c))
	if err != nil {
		log.Println("Financing submission failed", err)
		return businessErrorResponse(c, err, "Failed to submit application", "FINANCING_SUBMIT_FAILED")
	}

	return successResponse(c, fiber.StatusCreated, "Application submitted", result)
}

// DecideApplication records a provider decision
// @Summary Decide Financing Application
// @Tags Financing
// @Accept json
// @Produce json
// @Param uuid path string true "Application UUID"
// @Param request body dto.DecideFinancingApplicationRequest true "Decision"
// @Success 200 {object} dto.APIResponse{data=dto.FinancingApplicationDTO} "Decision recorded"
// @Failure 409 {object} dto.APIResponse "Application already decided"
// @Router /api/v1/admin/financing/{uuid}/decision [post]
func (h *FinancingHandler) DecideApplication(c fiber.Ctx) error {
	applicationUUID := c.Params("uuid")
	if applicationUUID == "" {
		return errorResponse(c, fiber.StatusBadRequest, "Application UUID is required", "INVALID_REQUEST", nil)
	}

	var req dto.DecideFinancingApplicationRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if stop, err := validateRequest(c, h.validator, &req); stop {
		return err
	}

	adminID, _ := middleware.GetAdminIDFromContext(c)
	result, err := h.financingFlow.DecideApplication(createRequestContext(c, "/api/v1/admin/financing/:uuid/decision"), applicationUUID, &req, adminID, clientMetadata(c))
	if err != nil {
		log.Println("Financing decision failed", err)
		return businessErrorResponse(c, err, "Failed to record decision", "FINANCING_DECISION_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Decision recorded", result)
}

// GetApplication returns one application by UUID
// @Summary Get Financing Application
// @Tags Financing
// @Produce json
// @Param uuid path string true "Application UUID"
// @Success 200 {object} dto.APIResponse{data=dto.FinancingApplicationDTO} "Application"
// @Failure 404 {object} dto.APIResponse "Application not found"
// @Router /api/v1/admin/financing/{uuid} [get]
func (h *FinancingHandler) GetApplication(c fiber.Ctx) error {
	applicationUUID := c.Params("uuid")
	if applicationUUID == "" {
		return errorResponse(c, fiber.StatusBadRequest, "Application UUID is required", "INVALID_REQUEST", nil)
	}

	result, err := h.financingFlow.GetApplication(createRequestContext(c, "/api/v1/admin/financing/:uuid"), applicationUUID)
	if err != nil {
		return businessErrorResponse(c, err, "Failed to load application", "FINANCING_LOOKUP_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Application", result)
}
