// Package tests contains test cases for models and repository packages to avoid circular imports
package tests

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/JohnConnorCode/roofing-made-easy/models"
	"github.com/JohnConnorCode/roofing-made-easy/repository"
	testingutil "github.com/JohnConnorCode/roofing-made-easy/testing"
	"github.com/JohnConnorCode/roofing-made-easy/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeadRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		leadRepo := repository.NewLeadRepository(testDB.DB)
		ctx := testingutil.CreateTestContext()

		t.Run("ByUUID", func(t *testing.T) {
			lead, err := fixtures.CreateTestLead(models.LeadStatusNew)
			require.NoError(t, err)

			found, err := leadRepo.ByUUID(ctx, lead.UUID.String())
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, lead.ID, found.ID)
		})

		t.Run("ByUUIDNotFound", func(t *testing.T) {
			found, err := leadRepo.ByUUID(ctx, "00000000-0000-4000-8000-000000000000")
			require.NoError(t, err)
			assert.Nil(t, found)
		})

		t.Run("UpdateStatus", func(t *testing.T) {
			lead, err := fixtures.CreateTestLead(models.LeadStatusNew)
			require.NoError(t, err)

			err = leadRepo.UpdateStatus(ctx, lead.ID, models.LeadStatusContacted)
			require.NoError(t, err)

			found, err := leadRepo.ByID(ctx, lead.ID)
			require.NoError(t, err)
			assert.Equal(t, models.LeadStatusContacted, found.Status)
		})

		t.Run("FilterByStatus", func(t *testing.T) {
			_, err := fixtures.CreateTestLead(models.LeadStatusQuoted)
			require.NoError(t, err)

			status := models.LeadStatusQuoted
			leads, err := leadRepo.ByFilter(ctx, models.LeadFilter{Status: &status}, "created_at DESC", 10, 0)
			require.NoError(t, err)
			require.NotEmpty(t, leads)
			for _, l := range leads {
				assert.Equal(t, models.LeadStatusQuoted, l.Status)
			}
		})

		return nil
	})
	require.NoError(t, err)
}

func TestInvoiceRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		invoiceRepo := repository.NewInvoiceRepository(testDB.DB)
		ctx := testingutil.CreateTestContext()

		t.Run("NextNumberSequence", func(t *testing.T) {
			year := utils.UTCNow().Year()

			first, err := invoiceRepo.NextNumber(ctx)
			require.NoError(t, err)
			assert.Equal(t, fmt.Sprintf("%s-%d-0001", utils.InvoiceNumberPrefix, year), first)

			lead, err := fixtures.CreateTestLead(models.LeadStatusWon)
			require.NoError(t, err)

			invoice := &models.Invoice{
				LeadID:         lead.ID,
				Number:         first,
				AmountSubtotal: 100,
				AmountTax:      7,
				AmountTotal:    107,
			}
			require.NoError(t, invoiceRepo.Save(ctx, invoice))

			second, err := invoiceRepo.NextNumber(ctx)
			require.NoError(t, err)
			assert.Equal(t, fmt.Sprintf("%s-%d-0002", utils.InvoiceNumberPrefix, year), second)
		})

		t.Run("ByNumber", func(t *testing.T) {
			lead, err := fixtures.CreateTestLead(models.LeadStatusWon)
			require.NoError(t, err)

			invoice, err := fixtures.CreateTestInvoice(lead.ID, models.InvoiceStatusSent)
			require.NoError(t, err)

			found, err := invoiceRepo.ByNumber(ctx, invoice.Number)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, invoice.ID, found.ID)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestPricingRuleRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		ruleRepo := repository.NewPricingRuleRepository(testDB.DB)
		ctx := testingutil.CreateTestContext()

		t.Run("UpsertByKeyInsertsThenUpdates", func(t *testing.T) {
			rule := &models.PricingRule{
				RuleKey:      "material_metal",
				RuleCategory: "material",
				Multiplier:   2.1,
				IsActive:     utils.ToPtr(true),
				DisplayName:  "Metal roofing",
			}
			require.NoError(t, ruleRepo.UpsertByKey(ctx, rule))

			rule.Multiplier = 2.4
			require.NoError(t, ruleRepo.UpsertByKey(ctx, rule))

			found, err := ruleRepo.ByRuleKey(ctx, "material_metal")
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, 2.4, found.Multiplier)

			count, err := ruleRepo.Count(ctx, models.PricingRuleFilter{})
			require.NoError(t, err)
			assert.Equal(t, int64(1), count)
		})

		t.Run("DeactivateByKey", func(t *testing.T) {
			require.NoError(t, ruleRepo.DeactivateByKey(ctx, "material_metal"))

			active, err := ruleRepo.ListActive(ctx)
			require.NoError(t, err)
			for _, r := range active {
				assert.NotEqual(t, "material_metal", r.RuleKey)
			}
		})

		return nil
	})
	require.NoError(t, err)
}

func TestSettingsRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		settingsRepo := repository.NewSettingsRepository(testDB.DB)
		ctx := testingutil.CreateTestContext()

		t.Run("CurrentEmpty", func(t *testing.T) {
			current, err := settingsRepo.Current(ctx)
			require.NoError(t, err)
			assert.Nil(t, current)
		})

		t.Run("UpsertThenCurrent", func(t *testing.T) {
			settings := &models.Settings{
				CompanyName:    "Roofing Made Easy LLC",
				InvoiceTaxRate: utils.ToPtr(0.08),
			}
			require.NoError(t, settingsRepo.Upsert(ctx, settings))

			// Second upsert must overwrite, not insert
			settings.CompanyName = "Roofing Made Easy Inc"
			require.NoError(t, settingsRepo.Upsert(ctx, settings))

			current, err := settingsRepo.Current(ctx)
			require.NoError(t, err)
			require.NotNil(t, current)
			assert.Equal(t, models.SettingsRowID, current.ID)
			assert.Equal(t, "Roofing Made Easy Inc", current.CompanyName)
			assert.Equal(t, 0.08, current.TaxRate())
		})

		return nil
	})
	require.NoError(t, err)
}

func TestWithTransactionRollback(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		leadRepo := repository.NewLeadRepository(testDB.DB)
		ctx := testingutil.CreateTestContext()

		lead, err := fixtures.CreateTestLead(models.LeadStatusNew)
		require.NoError(t, err)

		boom := errors.New("boom")
		err = repository.WithTransaction(ctx, testDB.DB, func(txCtx context.Context) error {
			if err := leadRepo.UpdateStatus(txCtx, lead.ID, models.LeadStatusContacted); err != nil {
				return err
			}
			return boom
		})
		require.ErrorIs(t, err, boom)

		found, err := leadRepo.ByID(ctx, lead.ID)
		require.NoError(t, err)
		assert.Equal(t, models.LeadStatusNew, found.Status)

		return nil
	})
	require.NoError(t, err)
}

func TestJobRepositoryScheduledBetween(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		jobRepo := repository.NewJobRepository(testDB.DB)
		ctx := testingutil.CreateTestContext()

		lead, err := fixtures.CreateTestLead(models.LeadStatusScheduled)
		require.NoError(t, err)

		job, err := fixtures.CreateTestJob(lead.ID, models.JobStatusScheduled)
		require.NoError(t, err)

		from := utils.UTCNow()
		to := from.Add(7 * 24 * time.Hour)
		jobs, err := jobRepo.ListScheduledBetween(ctx, from, to)
		require.NoError(t, err)
		require.Len(t, jobs, 1)
		assert.Equal(t, job.ID, jobs[0].ID)

		// Window that ends before the job is scheduled
		early, err := jobRepo.ListScheduledBetween(ctx, from, from.Add(time.Hour))
		require.NoError(t, err)
		assert.Empty(t, early)

		return nil
	})
	require.NoError(t, err)
}
