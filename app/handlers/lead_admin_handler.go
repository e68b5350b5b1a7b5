package handlers

import (
	"log"

	"github.com/JohnConnorCode/roofing-made-easy/app/dto"
	"github.com/JohnConnorCode/roofing-made-easy/app/middleware"
	businessflow "github.com/JohnConnorCode/roofing-made-easy/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// LeadAdminHandlerInterface defines the contract for lead CRM handlers
type LeadAdminHandlerInterface interface {
	ListLeads(c fiber.Ctx) error
	GetLead(c fiber.Ctx) error
	UpdateLeadStatus(c fiber.Ctx) error
	ResendEstimate(c fiber.Ctx) error
}

// LeadAdminHandler handles the back office lead endpoints
type LeadAdminHandler struct {
	leadAdminFlow businessflow.LeadAdminFlow
	validator     *validator.Validate
}

// NewLeadAdminHandler creates a new lead admin handler
func NewLeadAdminHandler(leadAdminFlow businessflow.LeadAdminFlow) *LeadAdminHandler {
	return &LeadAdminHandler{
		leadAdminFlow: leadAdminFlow,
		validator:     validator.New(),
	}
}

// ListLeads returns a page of leads
// @Summary List Leads
// @Tags Leads
// @Produce json
// @Param status query string false "Filter by status"
// @Param job_type query string false "Filter by job type"
// @Param page query int false "Page number"
// @Param per_page query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.ListLeadsResponse} "Leads"
// @Router /api/v1/admin/leads [get]
func (h *LeadAdminHandler) ListLeads(c fiber.Ctx) error {
	var req dto.ListLeadsRequest
	if err := c.Bind().Query(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid query parameters", "INVALID_REQUEST", err.Error())
	}

	if stop, err := validateRequest(c, h.validator, &req); stop {
		return err
	}

	result, err := h.leadAdminFlow.ListLeads(createRequestContext(c, "/api/v1/admin/leads"), &req)
	if err != nil {
		log.Println("Lead listing failed", err)
		return businessErrorResponse(c, err, "Failed to list leads", "LEAD_LIST_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Leads", result)
}

// GetLead returns one lead by UUID
// @Summary Get Lead
// @Tags Leads
// @Produce json
// @Param uuid path string true "Lead UUID"
// @Success 200 {object} dto.APIResponse{data=dto.LeadDTO} "Lead"
// @Failure 404 {object} dto.APIResponse "Lead not found"
// @Router /api/v1/admin/leads/{uuid} [get]
func (h *LeadAdminHandler) GetLead(c fiber.Ctx) error {
	leadUUID := c.Params("uuid")
	if leadUUID == "" {
		return errorResponse(c, fiber.StatusBadRequest, "Lead UUID is required", "INVALID_REQUEST", nil)
	}

	result, err := h.leadAdminFlow.GetLead(createRequestContext(c, "/api/v1/admin/leads/:uuid"), leadUUID)
	if err != nil {
		return businessErrorResponse(c, err, "Failed to load lead", "LEAD_LOOKUP_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Lead", result)
}

// UpdateLeadStatus moves a lead through the pipeline
// @Summary Update Lead Status
// @Tags Leads
// @Accept json
// @Produce json
// @Param uuid path string true "Lead UUID"
// @Param request body dto.UpdateLeadStatusRequest true "New status"
// @Success 200 {object} dto.APIResponse{data=dto.LeadDTO} "Lead updated"
// @Failure 409 {object} dto.APIResponse "Invalid transition"
// @Router /api/v1/admin/leads/{uuid}/status [patch]
func (h *LeadAdminHandler) UpdateLeadStatus(c fiber.Ctx) error {
	leadUUID := c.Params("uuid")
	if leadUUID == "" {
		return errorResponse(c, fiber.StatusBadRequest, "Lead UUID is required", "INVALID_REQUEST", nil)
	}

	var req dto.UpdateLeadStatusRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if stop, err := validateRequest(c, h.validator, &req); stop {
		return err
	}

	adminID, _ := middleware.GetAdminIDFromContext(c)
	result, err := h.leadAdminFlow.UpdateLeadStatus(createRequestContext(c, "/api/v1/admin/leads/:uuid/status"), leadUUID, &req, adminID, clientMetadata(c))
	if err != nil {
		log.Println("Lead status update failed", err)
		return businessErrorResponse(c, err, "Failed to update lead status", "LEAD_STATUS_UPDATE_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Lead updated", result)
}

// ResendEstimate emails the latest estimate to the lead
// @Summary Resend Estimate
// @Tags Leads
// @Produce json
// @Param uuid path string true "Lead UUID"
// @Success 200 {object} dto.APIResponse{data=dto.EstimateDTO} "Estimate resent"
// @Failure 400 {object} dto.APIResponse "Lead has no contact email"
// @Router /api/v1/admin/leads/{uuid}/resend-estimate [post]
func (h *LeadAdminHandler) ResendEstimate(c fiber.Ctx) error {
	leadUUID := c.Params("uuid")
	if leadUUID == "" {
		return errorResponse(c, fiber.StatusBadRequest, "Lead UUID is required", "INVALID_REQUEST", nil)
	}

	adminID, _ := middleware.GetAdminIDFromContext(c)
	result, err := h.leadAdminFlow.ResendEstimate(createRequestContext(c, "/api/v1/admin/leads/:uuid/resend-estimate"), leadUUID, adminID, clientMetadata(c))
	if err != nil {
		log.Println("Estimate resend failed", err)
		return businessErrorResponse(c, err, "Failed to resend estimate", "ESTIMATE_RESEND_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Estimate resent", result)
}
