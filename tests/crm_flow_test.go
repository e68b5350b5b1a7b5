// Package tests contains integration tests for the back office CRM flows
package tests

import (
	"context"
	"testing"
	"time"

	"github.com/JohnConnorCode/roofing-made-easy/app/dto"
	"github.com/JohnConnorCode/roofing-made-easy/app/services"
	businessflow "github.com/JohnConnorCode/roofing-made-easy/business_flow"
	"github.com/JohnConnorCode/roofing-made-easy/config"
	"github.com/JohnConnorCode/roofing-made-easy/models"
	"github.com/JohnConnorCode/roofing-made-easy/repository"
	testingutil "github.com/JohnConnorCode/roofing-made-easy/testing"
	"github.com/JohnConnorCode/roofing-made-easy/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNotificationService() services.NotificationService {
	return services.NewNotificationService(
		services.NewMockEmailProvider(),
		services.NewMockSMSProvider(),
	)
}

func TestLeadAdminFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		flow := businessflow.NewLeadAdminFlow(
			repository.NewLeadRepository(testDB.DB),
			repository.NewEstimateRepository(testDB.DB),
			repository.NewAuditLogRepository(testDB.DB),
			newTestNotificationService(),
			testDB.DB,
		)
		ctx := context.Background()
		adminID := uint(1)

		t.Run("ListLeadsPaginates", func(t *testing.T) {
			for i := 0; i < 3; i++ {
				_, err := fixtures.CreateTestLead(models.LeadStatusNew)
				require.NoError(t, err)
			}

			result, err := flow.ListLeads(ctx, &dto.ListLeadsRequest{Page: 1, PerPage: 2})
			require.NoError(t, err)
			assert.Len(t, result.Leads, 2)
			assert.GreaterOrEqual(t, result.Total, int64(3))
			assert.Equal(t, 1, result.Page)
			assert.Equal(t, 2, result.PerPage)
		})

		t.Run("UpdateLeadStatusValidTransition", func(t *testing.T) {
			lead, err := fixtures.CreateTestLead(models.LeadStatusNew)
			require.NoError(t, err)

			updated, err := flow.UpdateLeadStatus(ctx, lead.UUID.String(), &dto.UpdateLeadStatusRequest{
				Status: "contacted",
			}, adminID, testMetadata())
			require.NoError(t, err)
			assert.Equal(t, "contacted", updated.Status)
		})

		t.Run("UpdateLeadStatusRejectsSkip", func(t *testing.T) {
			lead, err := fixtures.CreateTestLead(models.LeadStatusNew)
			require.NoError(t, err)

			updated, err := flow.UpdateLeadStatus(ctx, lead.UUID.String(), &dto.UpdateLeadStatusRequest{
				Status: "won",
			}, adminID, testMetadata())
			require.Error(t, err)
			assert.Nil(t, updated)
			assert.True(t, businessflow.IsInvalidStatusTransition(err))
		})

		t.Run("ResendEstimate", func(t *testing.T) {
			lead, err := fixtures.CreateTestLead(models.LeadStatusQuoted)
			require.NoError(t, err)
			_, err = fixtures.CreateTestEstimate(lead.ID)
			require.NoError(t, err)

			estimate, err := flow.ResendEstimate(ctx, lead.UUID.String(), adminID, testMetadata())
			require.NoError(t, err)
			require.NotNil(t, estimate)
			assert.Equal(t, lead.UUID.String(), estimate.LeadUUID)
		})

		t.Run("ResendEstimateWithoutEstimate", func(t *testing.T) {
			lead, err := fixtures.CreateTestLead(models.LeadStatusNew)
			require.NoError(t, err)

			estimate, err := flow.ResendEstimate(ctx, lead.UUID.String(), adminID, testMetadata())
			require.Error(t, err)
			assert.Nil(t, estimate)
			assert.True(t, businessflow.IsEstimateNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestPricingRuleFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		flow := businessflow.NewPricingRuleFlow(
			repository.NewPricingRuleRepository(testDB.DB),
			repository.NewAuditLogRepository(testDB.DB),
			testDB.DB,
		)
		ctx := context.Background()
		adminID := uint(1)

		t.Run("UpsertThenList", func(t *testing.T) {
			rule, err := flow.UpsertRule(ctx, &dto.UpsertPricingRuleRequest{
				RuleKey:      "material_metal",
				RuleCategory: "material",
				Multiplier:   utils.ToPtr(2.2),
				DisplayName:  "Metal Roofing",
			}, adminID, testMetadata())
			require.NoError(t, err)
			assert.Equal(t, "material_metal", rule.RuleKey)
			assert.Equal(t, 2.2, rule.Multiplier)
			assert.True(t, utils.IsTrue(rule.IsActive))

			list, err := flow.ListRules(ctx, false)
			require.NoError(t, err)
			assert.Equal(t, int64(1), list.Total)
		})

		t.Run("PartialUpdate", func(t *testing.T) {
			rule, err := flow.UpdateRule(ctx, "material_metal", &dto.UpdatePricingRuleRequest{
				Multiplier: utils.ToPtr(2.5),
			}, adminID, testMetadata())
			require.NoError(t, err)
			assert.Equal(t, 2.5, rule.Multiplier)
			assert.Equal(t, "Metal Roofing", rule.DisplayName)
		})

		t.Run("UpdateUnknownKey", func(t *testing.T) {
			rule, err := flow.UpdateRule(ctx, "material_gold", &dto.UpdatePricingRuleRequest{
				Multiplier: utils.ToPtr(9.9),
			}, adminID, testMetadata())
			require.Error(t, err)
			assert.Nil(t, rule)
			assert.True(t, businessflow.IsPricingRuleNotFound(err))
		})

		t.Run("DeactivateHidesFromActiveList", func(t *testing.T) {
			require.NoError(t, flow.DeactivateRule(ctx, "material_metal", adminID, testMetadata()))

			active, err := flow.ListRules(ctx, false)
			require.NoError(t, err)
			assert.Equal(t, int64(0), active.Total)

			all, err := flow.ListRules(ctx, true)
			require.NoError(t, err)
			assert.Equal(t, int64(1), all.Total)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestSettingsFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		// Nil redis client: the flow must serve straight from the database.
		flow := businessflow.NewSettingsFlow(
			repository.NewSettingsRepository(testDB.DB),
			repository.NewAuditLogRepository(testDB.DB),
			nil,
			config.CacheConfig{},
			testDB.DB,
		)
		ctx := context.Background()
		adminID := uint(1)

		t.Run("GetServesDefaultsWhenUnset", func(t *testing.T) {
			settings, err := flow.GetSettings(ctx)
			require.NoError(t, err)
			require.NotNil(t, settings)
			assert.True(t, utils.IsTrue(settings.NotifyOnNewLead))
		})

		t.Run("UpdateOverwrites", func(t *testing.T) {
			updated, err := flow.UpdateSettings(ctx, &dto.UpdateSettingsRequest{
				CompanyName:    "Roofing Made Easy LLC",
				CompanyEmail:   utils.ToPtr("office@roofingmadeeasy.example"),
				InvoiceTaxRate: utils.ToPtr(0.0825),
				NotifyEmail:    utils.ToPtr("leads@roofingmadeeasy.example"),
			}, adminID, testMetadata())
			require.NoError(t, err)
			assert.Equal(t, "Roofing Made Easy LLC", updated.CompanyName)
			require.NotNil(t, updated.InvoiceTaxRate)
			assert.Equal(t, 0.0825, *updated.InvoiceTaxRate)

			settings, err := flow.GetSettings(ctx)
			require.NoError(t, err)
			assert.Equal(t, "Roofing Made Easy LLC", settings.CompanyName)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestJobFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		flow := businessflow.NewJobFlow(
			repository.NewJobRepository(testDB.DB),
			repository.NewLeadRepository(testDB.DB),
			repository.NewAuditLogRepository(testDB.DB),
			testDB.DB,
		)
		ctx := context.Background()
		adminID := uint(1)

		lead, err := fixtures.CreateTestLead(models.LeadStatusScheduled)
		require.NoError(t, err)

		scheduledFor := utils.UTCNow().Add(96 * time.Hour).Format(time.RFC3339)

		t.Run("CreateJob", func(t *testing.T) {
			job, err := flow.CreateJob(ctx, &dto.CreateJobRequest{
				LeadUUID:     lead.UUID.String(),
				ScheduledFor: scheduledFor,
				CrewName:     utils.ToPtr("North crew"),
			}, adminID, testMetadata())
			require.NoError(t, err)
			assert.Equal(t, "scheduled", job.Status)
			require.NotNil(t, job.ScheduledFor)
		})

		t.Run("CompleteRequiresInProgress", func(t *testing.T) {
			job, err := flow.CreateJob(ctx, &dto.CreateJobRequest{
				LeadUUID:     lead.UUID.String(),
				ScheduledFor: scheduledFor,
			}, adminID, testMetadata())
			require.NoError(t, err)

			updated, err := flow.UpdateJob(ctx, job.UUID, &dto.UpdateJobRequest{
				Status: utils.ToPtr("completed"),
			}, adminID, testMetadata())
			require.Error(t, err)
			assert.Nil(t, updated)

			started, err := flow.UpdateJob(ctx, job.UUID, &dto.UpdateJobRequest{
				Status: utils.ToPtr("in_progress"),
			}, adminID, testMetadata())
			require.NoError(t, err)
			assert.Equal(t, "in_progress", started.Status)

			done, err := flow.UpdateJob(ctx, job.UUID, &dto.UpdateJobRequest{
				Status: utils.ToPtr("completed"),
			}, adminID, testMetadata())
			require.NoError(t, err)
			assert.Equal(t, "completed", done.Status)
			assert.NotNil(t, done.CompletedAt)
		})

		t.Run("ListByStatus", func(t *testing.T) {
			status := "completed"
			result, err := flow.ListJobs(ctx, &dto.ListJobsRequest{Status: &status})
			require.NoError(t, err)
			require.NotEmpty(t, result.Jobs)
			for _, j := range result.Jobs {
				assert.Equal(t, "completed", j.Status)
			}
		})

		return nil
	})
	require.NoError(t, err)
}

func TestFinancingFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		flow := businessflow.NewFinancingFlow(
			repository.NewFinancingApplicationRepository(testDB.DB),
			repository.NewLeadRepository(testDB.DB),
			repository.NewAuditLogRepository(testDB.DB),
			testDB.DB,
		)
		ctx := context.Background()
		adminID := uint(1)

		lead, err := fixtures.CreateTestLead(models.LeadStatusQuoted)
		require.NoError(t, err)

		t.Run("SubmitAndDecide", func(t *testing.T) {
			application, err := flow.SubmitApplication(ctx, &dto.CreateFinancingApplicationRequest{
				LeadUUID:        lead.UUID.String(),
				AmountRequested: 24750,
				TermMonths:      utils.ToPtr(60),
				Provider:        utils.ToPtr("Hearth"),
			}, testMetadata())
			require.NoError(t, err)
			assert.Equal(t, "submitted", application.Status)

			decided, err := flow.DecideApplication(ctx, application.UUID, &dto.DecideFinancingApplicationRequest{
				Status:         "approved",
				MonthlyPayment: utils.ToPtr(495.25),
			}, adminID, testMetadata())
			require.NoError(t, err)
			assert.Equal(t, "approved", decided.Status)
			require.NotNil(t, decided.MonthlyPayment)
			assert.Equal(t, 495.25, *decided.MonthlyPayment)
			assert.NotNil(t, decided.DecidedAt)
		})

		t.Run("DecidingTwiceIsRejected", func(t *testing.T) {
			application, err := flow.SubmitApplication(ctx, &dto.CreateFinancingApplicationRequest{
				LeadUUID:        lead.UUID.String(),
				AmountRequested: 10000,
			}, testMetadata())
			require.NoError(t, err)

			_, err = flow.DecideApplication(ctx, application.UUID, &dto.DecideFinancingApplicationRequest{
				Status: "declined",
			}, adminID, testMetadata())
			require.NoError(t, err)

			again, err := flow.DecideApplication(ctx, application.UUID, &dto.DecideFinancingApplicationRequest{
				Status: "approved",
			}, adminID, testMetadata())
			require.Error(t, err)
			assert.Nil(t, again)

			var bizErr *businessflow.BusinessError
			require.ErrorAs(t, err, &bizErr)
			assert.Equal(t, dto.ErrorFinancingState, bizErr.Code)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestClaimFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		flow := businessflow.NewClaimFlow(
			repository.NewInsuranceClaimRepository(testDB.DB),
			repository.NewLeadRepository(testDB.DB),
			repository.NewAuditLogRepository(testDB.DB),
			testDB.DB,
		)
		ctx := context.Background()
		adminID := uint(1)

		lead, err := fixtures.CreateTestLead(models.LeadStatusContacted)
		require.NoError(t, err)

		t.Run("FileAndAdvance", func(t *testing.T) {
			claim, err := flow.FileClaim(ctx, &dto.CreateInsuranceClaimRequest{
				LeadUUID:     lead.UUID.String(),
				Carrier:      "State Farm",
				PolicyNumber: "POL-778899",
				DamageType:   utils.ToPtr("hail"),
			}, testMetadata())
			require.NoError(t, err)
			assert.Equal(t, "filed", claim.Status)

			visit := utils.UTCNow().Add(48 * time.Hour).Format(time.RFC3339)
			scheduled, err := flow.UpdateClaim(ctx, claim.UUID, &dto.UpdateInsuranceClaimRequest{
				Status:        utils.ToPtr("adjuster_scheduled"),
				AdjusterVisit: &visit,
			}, adminID, testMetadata())
			require.NoError(t, err)
			assert.Equal(t, "adjuster_scheduled", scheduled.Status)
			assert.NotNil(t, scheduled.AdjusterVisit)

			approved, err := flow.UpdateClaim(ctx, claim.UUID, &dto.UpdateInsuranceClaimRequest{
				Status:         utils.ToPtr("approved"),
				ApprovedAmount: utils.ToPtr(18500.0),
			}, adminID, testMetadata())
			require.NoError(t, err)
			assert.Equal(t, "approved", approved.Status)
		})

		t.Run("InvalidTransitionIsRejected", func(t *testing.T) {
			claim, err := fixtures.CreateTestInsuranceClaim(lead.ID)
			require.NoError(t, err)

			updated, err := flow.UpdateClaim(ctx, claim.UUID.String(), &dto.UpdateInsuranceClaimRequest{
				Status: utils.ToPtr("paid"),
			}, adminID, testMetadata())
			require.Error(t, err)
			assert.Nil(t, updated)

			var bizErr *businessflow.BusinessError
			require.ErrorAs(t, err, &bizErr)
			assert.Equal(t, dto.ErrorClaimState, bizErr.Code)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestReportFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		flow := businessflow.NewReportFlow(
			repository.NewLeadRepository(testDB.DB),
			repository.NewEstimateRepository(testDB.DB),
			repository.NewInvoiceRepository(testDB.DB),
			repository.NewJobRepository(testDB.DB),
		)
		ctx := context.Background()

		won, err := fixtures.CreateTestLead(models.LeadStatusWon)
		require.NoError(t, err)
		_, err = fixtures.CreateTestLead(models.LeadStatusLost)
		require.NoError(t, err)
		_, err = fixtures.CreateTestLead(models.LeadStatusNew)
		require.NoError(t, err)

		_, err = fixtures.CreateTestEstimate(won.ID)
		require.NoError(t, err)

		_, err = fixtures.CreateTestInvoice(won.ID, models.InvoiceStatusPaid)
		require.NoError(t, err)
		_, err = fixtures.CreateTestInvoice(won.ID, models.InvoiceStatusSent)
		require.NoError(t, err)
		voided, err := fixtures.CreateTestInvoice(won.ID, models.InvoiceStatusDraft)
		require.NoError(t, err)
		voided.Status = models.InvoiceStatusVoid
		require.NoError(t, testDB.DB.Save(voided).Error)

		_, err = fixtures.CreateTestJob(won.ID, models.JobStatusScheduled)
		require.NoError(t, err)

		t.Run("Summary", func(t *testing.T) {
			summary, err := flow.Summary(ctx)
			require.NoError(t, err)

			assert.Equal(t, int64(3), summary.TotalLeads)
			assert.Equal(t, int64(1), summary.TotalEstimates)
			assert.Equal(t, int64(1), summary.Funnel.Won)
			assert.Equal(t, int64(1), summary.Funnel.Lost)
			assert.Equal(t, int64(1), summary.Funnel.New)

			// Void invoices are excluded from revenue figures
			assert.Equal(t, 25680.0, summary.InvoicedTotal)
			assert.Equal(t, 12840.0, summary.PaidTotal)
			assert.Equal(t, int64(1), summary.OpenInvoices)

			assert.Equal(t, int64(1), summary.JobsScheduled)
			assert.Equal(t, 0.5, summary.ConversionRate)
		})

		t.Run("ExportLeadsXLSX", func(t *testing.T) {
			data, err := flow.ExportLeadsXLSX(ctx)
			require.NoError(t, err)
			require.NotEmpty(t, data)
			// XLSX files are zip archives
			assert.Equal(t, byte('P'), data[0])
			assert.Equal(t, byte('K'), data[1])
		})

		return nil
	})
	require.NoError(t, err)
}
