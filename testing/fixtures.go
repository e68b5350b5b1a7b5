// Package testing provides test utilities and database setup for testing the pricing and CRM system
package testing

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/JohnConnorCode/roofing-made-easy/models"
	"github.com/JohnConnorCode/roofing-made-easy/utils"
	"golang.org/x/crypto/bcrypt"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// CreateTestLead creates a lead with intake data and the given status
func (tf *TestFixtures) CreateTestLead(status models.LeadStatus) (*models.Lead, error) {
	randomDigits := fmt.Sprintf("%09d", rand.Intn(900000000)+100000000)
	issues, _ := json.Marshal([]string{"leak"})

	lead := &models.Lead{
		Status:       status,
		FirstName:    utils.ToPtr("Dana"),
		LastName:     utils.ToPtr("Miller"),
		Email:        utils.ToPtr(fmt.Sprintf("dana.miller.%s@example.com", randomDigits)),
		Phone:        utils.ToPtr(fmt.Sprintf("+1555%s", randomDigits[:7])),
		AddressLine:  utils.ToPtr("42 Shingle Lane"),
		City:         utils.ToPtr("Austin"),
		State:        utils.ToPtr("TX"),
		PostalCode:   utils.ToPtr("78701"),
		JobType:      "full_replacement",
		Material:     utils.ToPtr("asphalt_shingle"),
		Pitch:        utils.ToPtr("moderate"),
		Stories:      utils.ToPtr(2),
		Urgency:      utils.ToPtr("soon"),
		RoofSizeSqft: utils.ToPtr(2200.0),
		HasSkylights: utils.ToPtr(true),
		Issues:       issues,
		Source:       utils.ToPtr("test"),
	}

	if err := tf.DB.DB.Create(lead).Error; err != nil {
		return nil, fmt.Errorf("failed to create test lead: %w", err)
	}
	return lead, nil
}

// CreateTestEstimate creates an estimate attached to the given lead
func (tf *TestFixtures) CreateTestEstimate(leadID uint) (*models.Estimate, error) {
	adjustments, _ := json.Marshal([]map[string]any{
		{"name": "Skylights", "rule_key": "feature_skylight", "impact": 240.0, "category": "feature"},
	})

	estimate := &models.Estimate{
		LeadID:       leadID,
		PriceLow:     10200,
		PriceLikely:  12000,
		PriceHigh:    14400,
		BaseCost:     9000,
		MaterialCost: 2000,
		LaborCost:    1000,
		Adjustments:  adjustments,
	}

	if err := tf.DB.DB.Create(estimate).Error; err != nil {
		return nil, fmt.Errorf("failed to create test estimate: %w", err)
	}
	return estimate, nil
}

// CreateTestInvoice creates an invoice for the given lead with the given status
func (tf *TestFixtures) CreateTestInvoice(leadID uint, status models.InvoiceStatus) (*models.Invoice, error) {
	items, _ := json.Marshal([]map[string]any{
		{"description": "Full roof replacement", "quantity": 1, "unit_price": 12000.0, "amount": 12000.0},
	})

	invoice := &models.Invoice{
		LeadID:         leadID,
		Number:         fmt.Sprintf("INV-%d-%04d", time.Now().Year(), rand.Intn(10000)),
		Status:         status,
		AmountSubtotal: 12000,
		AmountTax:      840,
		AmountTotal:    12840,
		LineItems:      items,
	}
	if status == models.InvoiceStatusSent || status == models.InvoiceStatusPaid {
		invoice.SentAt = utils.ToPtr(utils.UTCNow())
	}
	if status == models.InvoiceStatusPaid {
		invoice.PaidAt = utils.ToPtr(utils.UTCNow())
	}

	if err := tf.DB.DB.Create(invoice).Error; err != nil {
		return nil, fmt.Errorf("failed to create test invoice: %w", err)
	}
	return invoice, nil
}

// CreateTestJob creates a scheduled job for the given lead
func (tf *TestFixtures) CreateTestJob(leadID uint, status models.JobStatus) (*models.Job, error) {
	job := &models.Job{
		LeadID:       leadID,
		Status:       status,
		ScheduledFor: utils.ToPtr(utils.UTCNow().Add(72 * time.Hour)),
		CrewName:     utils.ToPtr("Crew A"),
	}

	if err := tf.DB.DB.Create(job).Error; err != nil {
		return nil, fmt.Errorf("failed to create test job: %w", err)
	}
	return job, nil
}

// CreateTestFinancingApplication creates a submitted application for the given lead
func (tf *TestFixtures) CreateTestFinancingApplication(leadID uint) (*models.FinancingApplication, error) {
	application := &models.FinancingApplication{
		LeadID:          leadID,
		Status:          models.FinancingStatusSubmitted,
		Provider:        utils.ToPtr("Sunlight Financial"),
		AmountRequested: 12000,
		TermMonths:      utils.ToPtr(60),
	}

	if err := tf.DB.DB.Create(application).Error; err != nil {
		return nil, fmt.Errorf("failed to create test financing application: %w", err)
	}
	return application, nil
}

// CreateTestInsuranceClaim creates a filed claim for the given lead
func (tf *TestFixtures) CreateTestInsuranceClaim(leadID uint) (*models.InsuranceClaim, error) {
	claim := &models.InsuranceClaim{
		LeadID:       leadID,
		Status:       models.ClaimStatusFiled,
		Carrier:      utils.ToPtr("State Farm"),
		PolicyNumber: utils.ToPtr("POL-123456"),
		DamageType:   utils.ToPtr("hail"),
		IncidentDate: utils.ToPtr(utils.UTCNow().Add(-240 * time.Hour)),
	}

	if err := tf.DB.DB.Create(claim).Error; err != nil {
		return nil, fmt.Errorf("failed to create test insurance claim: %w", err)
	}
	return claim, nil
}

// CreateTestAdmin creates an active admin with the given credentials
func (tf *TestFixtures) CreateTestAdmin(username, password string) (*models.Admin, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &models.Admin{
		Username:     username,
		PasswordHash: string(hash),
		DisplayName:  utils.ToPtr("Test Admin"),
		IsActive:     utils.ToPtr(true),
	}

	if err := tf.DB.DB.Create(admin).Error; err != nil {
		return nil, fmt.Errorf("failed to create test admin: %w", err)
	}
	return admin, nil
}

// CreateTestPricingRule creates an active pricing rule with the given key
func (tf *TestFixtures) CreateTestPricingRule(ruleKey string, multiplier float64) (*models.PricingRule, error) {
	rule := &models.PricingRule{
		RuleKey:      ruleKey,
		RuleCategory: "material",
		Multiplier:   multiplier,
		IsActive:     utils.ToPtr(true),
		DisplayName:  "Test Rule",
	}

	if err := tf.DB.DB.Create(rule).Error; err != nil {
		return nil, fmt.Errorf("failed to create test pricing rule: %w", err)
	}
	return rule, nil
}

// CreateTestSettings persists the singleton settings row
func (tf *TestFixtures) CreateTestSettings() (*models.Settings, error) {
	settings := &models.Settings{
		ID:              models.SettingsRowID,
		CompanyName:     "Test Roofing Co",
		NotifyOnNewLead: utils.ToPtr(false),
		InvoiceTaxRate:  utils.ToPtr(0.07),
	}

	if err := tf.DB.DB.Create(settings).Error; err != nil {
		return nil, fmt.Errorf("failed to create test settings: %w", err)
	}
	return settings, nil
}
