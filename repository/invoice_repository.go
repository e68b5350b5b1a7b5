// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/JohnConnorCode/roofing-made-easy/models"
	"github.com/JohnConnorCode/roofing-made-easy/utils"
	"gorm.io/gorm"
)

// InvoiceRepositoryImpl implements InvoiceRepository interface
type InvoiceRepositoryImpl struct {
	*BaseRepository[models.Invoice, models.InvoiceFilter]
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *gorm.DB) InvoiceRepository {
	return &InvoiceRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Invoice, models.InvoiceFilter](db),
	}
}

// ByID retrieves an invoice by its ID
func (r *InvoiceRepositoryImpl) ByID(ctx context.Context, id uint) (*models.Invoice, error) {
	db := r.getDB(ctx)

	var invoice models.Invoice
	err := db.Last(&invoice, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &invoice, nil
}

// ByUUID retrieves an invoice by UUID
func (r *InvoiceRepositoryImpl) ByUUID(ctx context.Context, uuidStr string) (*models.Invoice, error) {
	parsed, err := utils.ParseUUID(uuidStr)
	if err != nil {
		return nil, err
	}

	invoices, err := r.ByFilter(ctx, models.InvoiceFilter{UUID: &parsed}, "", 1, 0)
	if err != nil {
		return nil, err
	}

	if len(invoices) == 0 {
		return nil, nil
	}

	return invoices[0], nil
}

// ByNumber retrieves an invoice by its human readable number
func (r *InvoiceRepositoryImpl) ByNumber(ctx context.Context, number string) (*models.Invoice, error) {
	invoices, err := r.ByFilter(ctx, models.InvoiceFilter{Number: &number}, "", 1, 0)
	if err != nil {
		return nil, err
	}

	if len(invoices) == 0 {
		return nil, nil
	}

	return invoices[0], nil
}

// NextNumber generates the next sequential invoice number for the current year.
// Callers should run this inside a transaction together with the insert so the
// unique index on number catches races.
func (r *InvoiceRepositoryImpl) NextNumber(ctx context.Context) (string, error) {
	db := r.getDB(ctx)

	year := utils.UTCNow().Year()
	prefix := fmt.Sprintf("%s-%d-", utils.InvoiceNumberPrefix, year)

	var count int64
	err := db.Model(&models.Invoice{}).Where("number LIKE ?", prefix+"%").Count(&count).Error
	if err != nil {
		return "", fmt.Errorf("failed to count invoices for %d: %w", year, err)
	}

	return fmt.Sprintf("%s%04d", prefix, count+1), nil
}

// Update persists all fields of an existing invoice
func (r *InvoiceRepositoryImpl) Update(ctx context.Context, invoice *models.Invoice) error {
	return r.update(ctx, invoice)
}

// applyFilter applies filter criteria to a GORM query
func (r *InvoiceRepositoryImpl) applyFilter(query *gorm.DB, filter models.InvoiceFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}
	if filter.LeadID != nil {
		query = query.Where("lead_id = ?", *filter.LeadID)
	}
	if filter.Number != nil {
		query = query.Where("number = ?", *filter.Number)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at > ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at < ?", *filter.CreatedBefore)
	}
	return query
}

// ByFilter retrieves invoices based on filter criteria
func (r *InvoiceRepositoryImpl) ByFilter(ctx context.Context, filter models.InvoiceFilter, orderBy string, limit, offset int) ([]*models.Invoice, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Invoice{})

	query = r.applyFilter(query, filter)

	if orderBy == "" {
		orderBy = "created_at DESC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var invoices []*models.Invoice
	err := query.Find(&invoices).Error
	if err != nil {
		return nil, err
	}

	return invoices, nil
}

// Count returns the number of invoices matching the filter
func (r *InvoiceRepositoryImpl) Count(ctx context.Context, filter models.InvoiceFilter) (int64, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Invoice{})

	query = r.applyFilter(query, filter)

	var count int64
	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any invoice matching the filter exists
func (r *InvoiceRepositoryImpl) Exists(ctx context.Context, filter models.InvoiceFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
