package handlers

import (
	"context"
	"log"

	"github.com/JohnConnorCode/roofing-made-easy/app/dto"
	"github.com/JohnConnorCode/roofing-made-easy/app/middleware"
	businessflow "github.com/JohnConnorCode/roofing-made-easy/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// InvoiceHandlerInterface defines the contract for invoice handlers
type InvoiceHandlerInterface interface {
	CreateInvoice(c fiber.Ctx) error
	ListInvoices(c fiber.Ctx) error
	GetInvoice(c fiber.Ctx) error
	SendInvoice(c fiber.Ctx) error
	MarkInvoicePaid(c fiber.Ctx) error
	VoidInvoice(c fiber.Ctx) error
}

// InvoiceHandler handles the back office invoicing endpoints
type InvoiceHandler struct {
	invoiceFlow businessflow.InvoiceFlow
	validator   *validator.Validate
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceFlow businessflow.InvoiceFlow) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceFlow: invoiceFlow,
		validator:   validator.New(),
	}
}

// CreateInvoice issues a draft invoice for a lead
// @Summary Create Invoice
// @Tags Invoices
// @Accept json
// @Produce json
// @Param request body dto.CreateInvoiceRequest true "Invoice data"
// @Success 201 {object} dto.APIResponse{data=dto.InvoiceDTO} "Invoice created"
// @Failure 404 {object} dto.APIResponse "Lead not found"
// @Router /api/v1/admin/invoices [post]
func (h *InvoiceHandler) CreateInvoice(c fiber.Ctx) error {
	var req dto.CreateInvoiceRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if stop, err := validateRequest(c, h.validator, &req); stop {
		return err
	}

	adminID, _ := middleware.GetAdminIDFromContext(c)
	result, err := h.invoiceFlow.CreateInvoice(createRequestContext(c, "/api/v1/admin/invoices"), &req, adminID, clientMetadata(c))
	if err != nil {
		log.Println("Invoice creation failed", err)
		return businessErrorResponse(c, err, "Failed to create invoice", "INVOICE_CREATION_FAILED")
	}

	return successResponse(c, fiber.StatusCreated, "Invoice created", result)
}

// ListInvoices returns a page of invoices
// @Summary List Invoices
// @Tags Invoices
// @Produce json
// @Param status query string false "Filter by status"
// @Param page query int false "Page number"
// @Param per_page query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.ListInvoicesResponse} "Invoices"
// @Router /api/v1/admin/invoices [get]
func (h *InvoiceHandler) ListInvoices(c fiber.Ctx) error {
	var req dto.ListInvoicesRequest
	if err := c.Bind().Query(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid query parameters", "INVALID_REQUEST", err.Error())
	}

	if stop, err := validateRequest(c, h.validator, &req); stop {
		return err
	}

	result, err := h.invoiceFlow.ListInvoices(createRequestContext(c, "/api/v1/admin/invoices"), &req)
	if err != nil {
		log.Println("Invoice listing failed", err)
		return businessErrorResponse(c, err, "Failed to list invoices", "INVOICE_LIST_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Invoices", result)
}

// GetInvoice returns one invoice by UUID
// @Summary Get Invoice
// @Tags Invoices
// @Produce json
// @Param uuid path string true "Invoice UUID"
// @Success 200 {object} dto.APIResponse{data=dto.InvoiceDTO} "Invoice"
// @Failure 404 {object} dto.APIResponse "Invoice not found"
// @Router /api/v1/admin/invoices/{uuid} [get]
func (h *InvoiceHandler) GetInvoice(c fiber.Ctx) error {
	invoiceUUID := c.Params("uuid")
	if invoiceUUID == "" {
		return errorResponse(c, fiber.StatusBadRequest, "Invoice UUID is required", "INVALID_REQUEST", nil)
	}

	result, err := h.invoiceFlow.GetInvoice(createRequestContext(c, "/api/v1/admin/invoices/:uuid"), invoiceUUID)
	if err != nil {
		return businessErrorResponse(c, err, "Failed to load invoice", "INVOICE_LOOKUP_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Invoice", result)
}

// SendInvoice transitions a draft to sent and emails the lead
// @Summary Send Invoice
// @Tags Invoices
// @Produce json
// @Param uuid path string true "Invoice UUID"
// @Success 200 {object} dto.APIResponse{data=dto.InvoiceDTO} "Invoice sent"
// @Failure 409 {object} dto.APIResponse "Invalid invoice state"
// @Router /api/v1/admin/invoices/{uuid}/send [post]
func (h *InvoiceHandler) SendInvoice(c fiber.Ctx) error {
	return h.transition(c, "send", h.invoiceFlow.SendInvoice)
}

// MarkInvoicePaid transitions a sent invoice to paid
// @Summary Mark Invoice Paid
// @Tags Invoices
// @Produce json
// @Param uuid path string true "Invoice UUID"
// @Success 200 {object} dto.APIResponse{data=dto.InvoiceDTO} "Invoice paid"
// @Failure 409 {object} dto.APIResponse "Invalid invoice state"
// @Router /api/v1/admin/invoices/{uuid}/pay [post]
func (h *InvoiceHandler) MarkInvoicePaid(c fiber.Ctx) error {
	return h.transition(c, "pay", h.invoiceFlow.MarkInvoicePaid)
}

// VoidInvoice cancels an invoice
// @Summary Void Invoice
// @Tags Invoices
// @Produce json
// @Param uuid path string true "Invoice UUID"
// @Success 200 {object} dto.APIResponse{data=dto.InvoiceDTO} "Invoice voided"
// @Failure 409 {object} dto.APIResponse "Invalid invoice state"
// @Router /api/v1/admin/invoices/{uuid}/void [post]
func (h *InvoiceHandler) VoidInvoice(c fiber.Ctx) error {
	return h.transition(c, "void", h.invoiceFlow.VoidInvoice)
}

type invoiceTransition func(ctx context.Context, invoiceUUID string, adminID uint, metadata *businessflow.ClientMetadata) (*dto.InvoiceDTO, error)

func (h *InvoiceHandler) transition(c fiber.Ctx, verb string, fn invoiceTransition) error {
	invoiceUUID := c.Params("uuid")
	if invoiceUUID == "" {
		return errorResponse(c, fiber.StatusBadRequest, "Invoice UUID is required", "INVALID_REQUEST", nil)
	}

	adminID, _ := middleware.GetAdminIDFromContext(c)
	result, err := fn(createRequestContext(c, "/api/v1/admin/invoices/:uuid/"+verb), invoiceUUID, adminID, clientMetadata(c))
	if err != nil {
		log.Println("Invoice transition failed", err)
		return businessErrorResponse(c, err, "Failed to update invoice", "INVOICE_UPDATE_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Invoice updated", result)
}
