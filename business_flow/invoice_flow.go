package businessflow

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/JohnConnorCode/roofing-made-easy/app/dto"
	"github.com/JohnConnorCode/roofing-made-easy/app/services"
	"github.com/JohnConnorCode/roofing-made-easy/models"
	"github.com/JohnConnorCode/roofing-made-easy/repository"
	"github.com/JohnConnorCode/roofing-made-easy/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InvoiceFlow represents the invoicing workflow
type InvoiceFlow interface {
	CreateInvoice(ctx context.Context, req *dto.CreateInvoiceRequest, adminID uint, metadata *ClientMetadata) (*dto.InvoiceDTO, error)
	ListInvoices(ctx context.Context, req *dto.ListInvoicesRequest) (*dto.ListInvoicesResponse, error)
	GetInvoice(ctx context.Context, invoiceUUID string) (*dto.InvoiceDTO, error)
	SendInvoice(ctx context.Context, invoiceUUID string, adminID uint, metadata *ClientMetadata) (*dto.InvoiceDTO, error)
	MarkInvoicePaid(ctx context.Context, invoiceUUID string, adminID uint, metadata *ClientMetadata) (*dto.InvoiceDTO, error)
	VoidInvoice(ctx context.Context, invoiceUUID string, adminID uint, metadata *ClientMetadata) (*dto.InvoiceDTO, error)
}

// InvoiceFlowImpl issues and transitions invoices. Amounts are computed
// with decimal arithmetic and rounded to cents once, at the total.
type InvoiceFlowImpl struct {
	invoiceRepo     repository.InvoiceRepository
	leadRepo        repository.LeadRepository
	settingsRepo    repository.SettingsRepository
	auditRepo       repository.AuditLogRepository
	notificationSvc services.NotificationService
	db              *gorm.DB
}

func NewInvoiceFlow(
	invoiceRepo repository.InvoiceRepository,
	leadRepo repository.LeadRepository,
	settingsRepo repository.SettingsRepository,
	auditRepo repository.AuditLogRepository,
	notificationSvc services.NotificationService,
	db *gorm.DB,
) InvoiceFlow {
	return &InvoiceFlowImpl{
		invoiceRepo:     invoiceRepo,
		leadRepo:        leadRepo,
		settingsRepo:    settingsRepo,
		auditRepo:       auditRepo,
		notificationSvc: notificationSvc,
		db:              db,
	}
}

func (iv *InvoiceFlowImpl) CreateInvoice(ctx context.Context, req *dto.CreateInvoiceRequest, adminID uint, metadata *ClientMetadata) (*dto.InvoiceDTO, error) {
	if req == nil || len(req.LineItems) == 0 {
		return nil, NewBusinessError("INVOICE_VALIDATION_FAILED", "Invoice requires at least one line item", ErrInvoiceItemsRequired)
	}

	lead, err := iv.leadRepo.ByUUID(ctx, req.LeadUUID)
	if err != nil {
		return nil, NewBusinessError("LEAD_LOOKUP_FAILED", "Failed to lookup lead", err)
	}
	if lead == nil {
		return nil, NewBusinessError(dto.ErrorLeadNotFound, "Lead not found", ErrLeadNotFound)
	}

	taxRate := utils.DefaultInvoiceTaxRate
	if settings, err := iv.settingsRepo.Current(ctx); err == nil && settings != nil {
		taxRate = settings.TaxRate()
	}

	subtotal := decimal.Zero
	items := make([]models.InvoiceLineItem, 0, len(req.LineItems))
	for _, item := range req.LineItems {
		amount := decimal.NewFromFloat(item.Quantity).Mul(decimal.NewFromFloat(item.UnitPrice))
		subtotal = subtotal.Add(amount)
		items = append(items, models.InvoiceLineItem{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Amount:      amount.Round(2).InexactFloat64(),
		})
	}
	tax := subtotal.Mul(decimal.NewFromFloat(taxRate)).Round(2)
	subtotal = subtotal.Round(2)
	total := subtotal.Add(tax)

	itemsRaw, err := json.Marshal(items)
	if err != nil {
		return nil, NewBusinessError("INVOICE_CREATION_FAILED", "Failed to encode line items", err)
	}

	var dueDate *time.Time
	if req.DueDate != nil {
		parsed, err := time.Parse(time.RFC3339, *req.DueDate)
		if err != nil {
			return nil, NewBusinessError("INVOICE_VALIDATION_FAILED", "Due date must be RFC3339", err)
		}
		dueDate = &parsed
	}

	invoice := &models.Invoice{
		LeadID:         lead.ID,
		Status:         models.InvoiceStatusDraft,
		AmountSubtotal: subtotal.InexactFloat64(),
		AmountTax:      tax.InexactFloat64(),
		AmountTotal:    total.InexactFloat64(),
		LineItems:      itemsRaw,
		DueDate:        dueDate,
	}

	// Numbering runs inside the transaction so the unique index on number
	// catches concurrent issuance.
	err = repository.WithTransaction(ctx, iv.db, func(txCtx context.Context) error {
		number, err := iv.invoiceRepo.NextNumber(txCtx)
		if err != nil {
			return fmt.Errorf("failed to allocate invoice number: %w", err)
		}
		invoice.Number = number

		if err := iv.invoiceRepo.Save(txCtx, invoice); err != nil {
			return fmt.Errorf("failed to save invoice: %w", err)
		}

		_ = createAuditLog(txCtx, iv.auditRepo, auditEntry{
			Action:      models.AuditActionInvoiceCreated,
			Description: fmt.Sprintf("Invoice %s created for lead %s", invoice.Number, lead.UUID),
			AdminID:     &adminID,
			LeadID:      &lead.ID,
			Success:     true,
			Metadata:    map[string]any{"number": invoice.Number, "total": invoice.AmountTotal},
		}, metadata)

		return nil
	})
	if err != nil {
		return nil, NewBusinessError("INVOICE_CREATION_FAILED", "Failed to create invoice", err)
	}

	return ToInvoiceDTO(invoice, lead.UUID.String()), nil
}

func (iv *InvoiceFlowImpl) ListInvoices(ctx context.Context, req *dto.ListInvoicesRequest) (*dto.ListInvoicesResponse, error) {
	page, perPage := 1, DefaultPageSize
	filter := models.InvoiceFilter{}
	if req != nil {
		page, perPage = normalizePage(req.Page, req.PerPage)
		if req.Status != nil {
			status := models.InvoiceStatus(*req.Status)
			filter.Status = &status
		}
	}

	total, err := iv.invoiceRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("INVOICE_LIST_FAILED", "Failed to count invoices", err)
	}

	rows, err := iv.invoiceRepo.ByFilter(ctx, filter, "created_at DESC", perPage, (page-1)*perPage)
	if err != nil {
		return nil, NewBusinessError("INVOICE_LIST_FAILED", "Failed to list invoices", err)
	}

	invoices := make([]dto.InvoiceDTO, 0, len(rows))
	for _, row := range rows {
		invoices = append(invoices, *ToInvoiceDTO(row, leadUUIDOf(row.Lead)))
	}

	return &dto.ListInvoicesResponse{
		Invoices: invoices,
		Total:    total,
		Page:     page,
		PerPage:  perPage,
	}, nil
}

func (iv *InvoiceFlowImpl) GetInvoice(ctx context.Context, invoiceUUID string) (*dto.InvoiceDTO, error) {
	invoice, lead, err := iv.lookup(ctx, invoiceUUID)
	if err != nil {
		return nil, err
	}
	return ToInvoiceDTO(invoice, leadUUIDOf(lead)), nil
}

// SendInvoice transitions a draft to sent and emails the lead.
func (iv *InvoiceFlowImpl) SendInvoice(ctx context.Context, invoiceUUID string, adminID uint, metadata *ClientMetadata) (*dto.InvoiceDTO, error) {
	invoice, lead, err := iv.lookup(ctx, invoiceUUID)
	if err != nil {
		return nil, err
	}
	if !invoice.Status.CanTransitionTo(models.InvoiceStatusSent) {
		return nil, NewBusinessErrorf(dto.ErrorInvoiceState,
			"Cannot send invoice in %s state", ErrInvalidInvoiceState, invoice.Status)
	}
	if lead == nil || lead.Email == nil || *lead.Email == "" {
		return nil, NewBusinessError(dto.ErrorContactMissing, "Lead has no contact email", ErrContactMissing)
	}

	now := utils.UTCNow()
	invoice.Status = models.InvoiceStatusSent
	invoice.SentAt = &now
	invoice.UpdatedAt = now

	err = iv.transition(ctx, invoice, lead, models.AuditActionInvoiceSent,
		fmt.Sprintf("Invoice %s sent", invoice.Number), adminID, metadata)
	if err != nil {
		return nil, err
	}

	subject := fmt.Sprintf("Invoice %s", invoice.Number)
	message := fmt.Sprintf(
		"Your invoice is ready.\n\nInvoice: %s\nSubtotal: $%.2f\nTax: $%.2f\nTotal due: $%.2f\n",
		invoice.Number, invoice.AmountSubtotal, invoice.AmountTax, invoice.AmountTotal,
	)
	_ = iv.notificationSvc.SendEmail(*lead.Email, subject, message)

	return ToInvoiceDTO(invoice, lead.UUID.String()), nil
}

func (iv *InvoiceFlowImpl) MarkInvoicePaid(ctx context.Context, invoiceUUID string, adminID uint, metadata *ClientMetadata) (*dto.InvoiceDTO, error) {
	invoice, lead, err := iv.lookup(ctx, invoiceUUID)
	if err != nil {
		return nil, err
	}
	if !invoice.Status.CanTransitionTo(models.InvoiceStatusPaid) {
		return nil, NewBusinessErrorf(dto.ErrorInvoiceState,
			"Cannot mark invoice paid in %s state", ErrInvalidInvoiceState, invoice.Status)
	}

	now := utils.UTCNow()
	invoice.Status = models.InvoiceStatusPaid
	invoice.PaidAt = &now
	invoice.UpdatedAt = now

	err = iv.transition(ctx, invoice, lead, models.AuditActionInvoicePaid,
		fmt.Sprintf("Invoice %s paid", invoice.Number), adminID, metadata)
	if err != nil {
		return nil, err
	}
	return ToInvoiceDTO(invoice, leadUUIDOf(lead)), nil
}

func (iv *InvoiceFlowImpl) VoidInvoice(ctx context.Context, invoiceUUID string, adminID uint, metadata *ClientMetadata) (*dto.InvoiceDTO, error) {
	invoice, lead, err := iv.lookup(ctx, invoiceUUID)
	if err != nil {
		return nil, err
	}
	if !invoice.Status.CanTransitionTo(models.InvoiceStatusVoid) {
		return nil, NewBusinessErrorf(dto.ErrorInvoiceState,
			"Cannot void invoice in %s state", ErrInvalidInvoiceState, invoice.Status)
	}

	invoice.Status = models.InvoiceStatusVoid
	invoice.UpdatedAt = utils.UTCNow()

	err = iv.transition(ctx, invoice, lead, models.AuditActionInvoiceVoided,
		fmt.Sprintf("Invoice %s voided", invoice.Number), adminID, metadata)
	if err != nil {
		return nil, err
	}
	return ToInvoiceDTO(invoice, leadUUIDOf(lead)), nil
}

func (iv *InvoiceFlowImpl) lookup(ctx context.Context, invoiceUUID string) (*models.Invoice, *models.Lead, error) {
	invoice, err := iv.invoiceRepo.ByUUID(ctx, invoiceUUID)
	if err != nil {
		return nil, nil, NewBusinessError("INVOICE_LOOKUP_FAILED", "Failed to lookup invoice", err)
	}
	if invoice == nil {
		return nil, nil, NewBusinessError(dto.ErrorInvoiceNotFound, "Invoice not found", ErrInvoiceNotFound)
	}

	lead, err := iv.leadRepo.ByID(ctx, invoice.LeadID)
	if err != nil {
		return nil, nil, NewBusinessError("LEAD_LOOKUP_FAILED", "Failed to lookup lead", err)
	}
	return invoice, lead, nil
}

func (iv *InvoiceFlowImpl) transition(ctx context.Context, invoice *models.Invoice, lead *models.Lead, action, description string, adminID uint, metadata *ClientMetadata) error {
	err := repository.WithTransaction(ctx, iv.db, func(txCtx context.Context) error {
		if err := iv.invoiceRepo.Update(txCtx, invoice); err != nil {
			return fmt.Errorf("failed to update invoice: %w", err)
		}

		entry := auditEntry{
			Action:      action,
			Description: description,
			AdminID:     &adminID,
			Success:     true,
			Metadata:    map[string]any{"number": invoice.Number},
		}
		if lead != nil {
			entry.LeadID = &lead.ID
		}
		_ = createAuditLog(txCtx, iv.auditRepo, entry, metadata)

		return nil
	})
	if err != nil {
		return NewBusinessError("INVOICE_UPDATE_FAILED", "Failed to update invoice", err)
	}
	return nil
}
