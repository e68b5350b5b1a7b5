package handlers

import (
	"log"

	"github.com/JohnConnorCode/roofing-made-easy/app/dto"
	"github.com/JohnConnorCode/roofing-made-easy/app/middleware"
	businessflow "github.com/JohnConnorCode/roofing-made-easy/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// EstimateHandlerInterface defines the contract for funnel estimate handlers
type EstimateHandlerInterface interface {
	CreateEstimate(c fiber.Ctx) error
	GetEstimate(c fiber.Ctx) error
	AttachContact(c fiber.Ctx) error
}

// EstimateHandler handles the public funnel endpoints
type EstimateHandler struct {
	estimateFlow businessflow.EstimateFlow
	validator    *validator.Validate
}

// NewEstimateHandler creates a new estimate handler
func NewEstimateHandler(estimateFlow businessflow.EstimateFlow) *EstimateHandler {
	return &EstimateHandler{
		estimateFlow: estimateFlow,
		validator:    validator.New(),
	}
}

// CreateEstimate handles the funnel intake submission
// @Summary Create Estimate
// @Description Price a roofing intake and create a lead with its estimate
// @Tags Funnel
// @Accept json
// @Produce json
// @Param request body dto.CreateEstimateRequest true "Intake data"
// @Success 201 {object} dto.APIResponse{data=dto.CreateEstimateResponse} "Estimate created"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/estimates [post]
func (h *EstimateHandler) CreateEstimate(c fiber.Ctx) error {
	var req dto.CreateEstimateRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if stop, err := validateRequest(c, h.validator, &req); stop {
		return err
	}

	result, err := h.estimateFlow.CreateEstimate(createRequestContext(c, "/api/v1/estimates"), &req, clientMetadata(c))
	if err != nil {
		log.Println("Estimate creation failed", err)
		return businessErrorResponse(c, err, "Failed to create estimate", "ESTIMATE_CREATION_FAILED")
	}

	middleware.CountEstimate()

	return successResponse(c, fiber.StatusCreated, "Estimate created", result)
}

// GetEstimate returns a single estimate by UUID
// @Summary Get Estimate
// @Tags Funnel
// @Produce json
// @Param uuid path string true "Estimate UUID"
// @Success 200 {object} dto.APIResponse{data=dto.EstimateDTO} "Estimate"
// @Failure 404 {object} dto.APIResponse "Estimate not found"
// @Router /api/v1/estimates/{uuid} [get]
func (h *EstimateHandler) GetEstimate(c fiber.Ctx) error {
	estimateUUID := c.Params("uuid")
	if estimateUUID == "" {
		return errorResponse(c, fiber.StatusBadRequest, "Estimate UUID is required", "INVALID_REQUEST", nil)
	}

	result, err := h.estimateFlow.GetEstimate(createRequestContext(c, "/api/v1/estimates/:uuid"), estimateUUID)
	if err != nil {
		return businessErrorResponse(c, err, "Failed to load estimate", "ESTIMATE_LOOKUP_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Estimate", result)
}

// AttachContact adds contact details to a funnel lead
// @Summary Attach Contact
// @Tags Funnel
// @Accept json
// @Produce json
// @Param uuid path string true "Lead UUID"
// @Param request body dto.AttachContactRequest true "Contact data"
// @Success 200 {object} dto.APIResponse{data=dto.LeadDTO} "Contact attached"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 404 {object} dto.APIResponse "Lead not found"
// @Router /api/v1/leads/{uuid}/contact [post]
func (h *EstimateHandler) AttachContact(c fiber.Ctx) error {
	leadUUID := c.Params("uuid")
	if leadUUID == "" {
		return errorResponse(c, fiber.StatusBadRequest, "Lead UUID is required", "INVALID_REQUEST", nil)
	}

	var req dto.AttachContactRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if stop, err := validateRequest(c, h.validator, &req); stop {
		return err
	}

	result, err := h.estimateFlow.AttachContact(createRequestContext(c, "/api/v1/leads/:uuid/contact"), leadUUID, &req, clientMetadata(c))
	if err != nil {
		log.Println("Contact attach failed", err)
		return businessErrorResponse(c, err, "Failed to attach contact", "CONTACT_ATTACH_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Contact attached", result)
}
