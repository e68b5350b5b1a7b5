// Package tests contains integration tests for invoice issuance and lifecycle
package tests

import (
	"context"
	"testing"

	"github.com/JohnConnorCode/roofing-made-easy/app/dto"
	"github.com/JohnConnorCode/roofing-made-easy/app/services"
	businessflow "github.com/JohnConnorCode/roofing-made-easy/business_flow"
	"github.com/JohnConnorCode/roofing-made-easy/models"
	"github.com/JohnConnorCode/roofing-made-easy/repository"
	testingutil "github.com/JohnConnorCode/roofing-made-easy/testing"
	"github.com/JohnConnorCode/roofing-made-easy/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestInvoiceFlow(testDB *testingutil.TestDB) businessflow.InvoiceFlow {
	notificationService := services.NewNotificationService(
		services.NewMockEmailProvider(),
		services.NewMockSMSProvider(),
	)

	return businessflow.NewInvoiceFlow(
		repository.NewInvoiceRepository(testDB.DB),
		repository.NewLeadRepository(testDB.DB),
		repository.NewSettingsRepository(testDB.DB),
		repository.NewAuditLogRepository(testDB.DB),
		notificationService,
		testDB.DB,
	)
}

func TestInvoiceFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		flow := newTestInvoiceFlow(testDB)
		ctx := context.Background()
		adminID := uint(1)

		lead, err := fixtures.CreateTestLead(models.LeadStatusWon)
		require.NoError(t, err)

		t.Run("CreateComputesTotalsWithDefaultTax", func(t *testing.T) {
			req := &dto.CreateInvoiceRequest{
				LeadUUID: lead.UUID.String(),
				LineItems: []dto.LineItemDTO{
					{Description: "Full roof replacement", Quantity: 1, UnitPrice: 12000},
					{Description: "Skylight flashing", Quantity: 2, UnitPrice: 150.50},
				},
			}

			invoice, err := flow.CreateInvoice(ctx, req, adminID, testMetadata())
			require.NoError(t, err)
			require.NotNil(t, invoice)

			// 12000 + 2*150.50 = 12301.00, default tax 7%
			assert.Equal(t, "draft", invoice.Status)
			assert.Equal(t, 12301.00, invoice.AmountSubtotal)
			assert.Equal(t, 861.07, invoice.AmountTax)
			assert.Equal(t, 13162.07, invoice.AmountTotal)
			assert.NotEmpty(t, invoice.Number)
			assert.Len(t, invoice.LineItems, 2)
		})

		t.Run("CreateUsesConfiguredTaxRate", func(t *testing.T) {
			settingsRepo := repository.NewSettingsRepository(testDB.DB)
			require.NoError(t, settingsRepo.Upsert(ctx, &models.Settings{
				CompanyName:    "Roofing Made Easy LLC",
				InvoiceTaxRate: utils.ToPtr(0.10),
			}))

			req := &dto.CreateInvoiceRequest{
				LeadUUID: lead.UUID.String(),
				LineItems: []dto.LineItemDTO{
					{Description: "Repair", Quantity: 1, UnitPrice: 1000},
				},
			}

			invoice, err := flow.CreateInvoice(ctx, req, adminID, testMetadata())
			require.NoError(t, err)
			assert.Equal(t, 1000.00, invoice.AmountSubtotal)
			assert.Equal(t, 100.00, invoice.AmountTax)
			assert.Equal(t, 1100.00, invoice.AmountTotal)
		})

		t.Run("CreateUnknownLead", func(t *testing.T) {
			req := &dto.CreateInvoiceRequest{
				LeadUUID: "00000000-0000-4000-8000-000000000000",
				LineItems: []dto.LineItemDTO{
					{Description: "Repair", Quantity: 1, UnitPrice: 100},
				},
			}

			invoice, err := flow.CreateInvoice(ctx, req, adminID, testMetadata())
			require.Error(t, err)
			assert.Nil(t, invoice)
			assert.True(t, businessflow.IsLeadNotFound(err))
		})

		t.Run("SendThenPayLifecycle", func(t *testing.T) {
			req := &dto.CreateInvoiceRequest{
				LeadUUID: lead.UUID.String(),
				LineItems: []dto.LineItemDTO{
					{Description: "Repair", Quantity: 1, UnitPrice: 500},
				},
			}
			created, err := flow.CreateInvoice(ctx, req, adminID, testMetadata())
			require.NoError(t, err)

			sent, err := flow.SendInvoice(ctx, created.UUID, adminID, testMetadata())
			require.NoError(t, err)
			assert.Equal(t, "sent", sent.Status)
			assert.NotNil(t, sent.SentAt)

			paid, err := flow.MarkInvoicePaid(ctx, sent.UUID, adminID, testMetadata())
			require.NoError(t, err)
			assert.Equal(t, "paid", paid.Status)
			assert.NotNil(t, paid.PaidAt)
		})

		t.Run("PayingDraftIsRejected", func(t *testing.T) {
			req := &dto.CreateInvoiceRequest{
				LeadUUID: lead.UUID.String(),
				LineItems: []dto.LineItemDTO{
					{Description: "Repair", Quantity: 1, UnitPrice: 500},
				},
			}
			created, err := flow.CreateInvoice(ctx, req, adminID, testMetadata())
			require.NoError(t, err)

			paid, err := flow.MarkInvoicePaid(ctx, created.UUID, adminID, testMetadata())
			require.Error(t, err)
			assert.Nil(t, paid)
			assert.True(t, businessflow.IsInvalidInvoiceState(err))
		})

		t.Run("VoidingPaidIsRejected", func(t *testing.T) {
			req := &dto.CreateInvoiceRequest{
				LeadUUID: lead.UUID.String(),
				LineItems: []dto.LineItemDTO{
					{Description: "Repair", Quantity: 1, UnitPrice: 500},
				},
			}
			created, err := flow.CreateInvoice(ctx, req, adminID, testMetadata())
			require.NoError(t, err)

			_, err = flow.SendInvoice(ctx, created.UUID, adminID, testMetadata())
			require.NoError(t, err)
			_, err = flow.MarkInvoicePaid(ctx, created.UUID, adminID, testMetadata())
			require.NoError(t, err)

			voided, err := flow.VoidInvoice(ctx, created.UUID, adminID, testMetadata())
			require.Error(t, err)
			assert.Nil(t, voided)
			assert.True(t, businessflow.IsInvalidInvoiceState(err))
		})

		t.Run("SendRequiresLeadEmail", func(t *testing.T) {
			// A funnel lead that never reached the contact step has no email.
			bare := &models.Lead{JobType: "repair"}
			require.NoError(t, testDB.DB.Create(bare).Error)

			req := &dto.CreateInvoiceRequest{
				LeadUUID: bare.UUID.String(),
				LineItems: []dto.LineItemDTO{
					{Description: "Repair", Quantity: 1, UnitPrice: 500},
				},
			}
			created, err := flow.CreateInvoice(ctx, req, adminID, testMetadata())
			require.NoError(t, err)

			sent, err := flow.SendInvoice(ctx, created.UUID, adminID, testMetadata())
			require.Error(t, err)
			assert.Nil(t, sent)

			var bizErr *businessflow.BusinessError
			require.ErrorAs(t, err, &bizErr)
			assert.Equal(t, dto.ErrorContactMissing, bizErr.Code)
		})

		t.Run("ListByStatus", func(t *testing.T) {
			status := "paid"
			result, err := flow.ListInvoices(ctx, &dto.ListInvoicesRequest{Status: &status})
			require.NoError(t, err)
			require.NotEmpty(t, result.Invoices)
			for _, inv := range result.Invoices {
				assert.Equal(t, "paid", inv.Status)
			}
			assert.Equal(t, int64(len(result.Invoices)), result.Total)
		})

		return nil
	})
	require.NoError(t, err)
}
