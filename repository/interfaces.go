// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"time"

	"github.com/JohnConnorCode/roofing-made-easy/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, filter F) (bool, error)
}

// PricingRuleRepository defines operations for pricing rules
type PricingRuleRepository interface {
	Repository[models.PricingRule, models.PricingRuleFilter]
	ByRuleKey(ctx context.Context, ruleKey string) (*models.PricingRule, error)
	ListActive(ctx context.Context) ([]*models.PricingRule, error)
	Update(ctx context.Context, rule *models.PricingRule) error
	UpsertByKey(ctx context.Context, rule *models.PricingRule) error
	DeactivateByKey(ctx context.Context, ruleKey string) error
}

// LeadRepository defines operations for leads
type LeadRepository interface {
	Repository[models.Lead, models.LeadFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Lead, error)
	Update(ctx context.Context, lead *models.Lead) error
	UpdateStatus(ctx context.Context, id uint, status models.LeadStatus) error
}

// EstimateRepository defines operations for estimates
type EstimateRepository interface {
	Repository[models.Estimate, models.EstimateFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Estimate, error)
	LatestByLead(ctx context.Context, leadID uint) (*models.Estimate, error)
}

// SettingsRepository defines operations for the company settings row
type SettingsRepository interface {
	Current(ctx context.Context) (*models.Settings, error)
	Upsert(ctx context.Context, settings *models.Settings) error
}

// InvoiceRepository defines operations for invoices
type InvoiceRepository interface {
	Repository[models.Invoice, models.InvoiceFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Invoice, error)
	ByNumber(ctx context.Context, number string) (*models.Invoice, error)
	NextNumber(ctx context.Context) (string, error)
	Update(ctx context.Context, invoice *models.Invoice) error
}

// JobRepository defines operations for scheduled jobs
type JobRepository interface {
	Repository[models.Job, models.JobFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Job, error)
	ListScheduledBetween(ctx context.Context, from, to time.Time) ([]*models.Job, error)
	Update(ctx context.Context, job *models.Job) error
}

// FinancingApplicationRepository defines operations for financing applications
type FinancingApplicationRepository interface {
	Repository[models.FinancingApplication, models.FinancingApplicationFilter]
	ByUUID(ctx context.Context, uuid string) (*models.FinancingApplication, error)
	Update(ctx context.Context, app *models.FinancingApplication) error
}

// InsuranceClaimRepository defines operations for insurance claims
type InsuranceClaimRepository interface {
	Repository[models.InsuranceClaim, models.InsuranceClaimFilter]
	ByUUID(ctx context.Context, uuid string) (*models.InsuranceClaim, error)
	Update(ctx context.Context, claim *models.InsuranceClaim) error
}

// AdminRepository defines operations for admins
type AdminRepository interface {
	Repository[models.Admin, models.AdminFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Admin, error)
	ByUsername(ctx context.Context, username string) (*models.Admin, error)
	UpdateLastLogin(ctx context.Context, adminID uint, at time.Time) error
	UpdatePassword(ctx context.Context, adminID uint, passwordHash string) error
}

// AuditLogRepository defines operations for audit logs
type AuditLogRepository interface {
	Repository[models.AuditLog, models.AuditLogFilter]
	ListByLead(ctx context.Context, leadID uint, limit, offset int) ([]*models.AuditLog, error)
	ListByAction(ctx context.Context, action string, limit, offset int) ([]*models.AuditLog, error)
	ListFailedActions(ctx context.Context, limit, offset int) ([]*models.AuditLog, error)
}
