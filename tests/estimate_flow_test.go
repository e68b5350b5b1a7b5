// Package tests contains integration tests for the public estimate funnel
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

func newTestEstimateFlow(testDB *testingutil.TestDB) businessflow.EstimateFlow {
	notificationService := services.NewNotificationService(
		services.NewMockEmailProvider(),
		services.NewMockSMSProvider(),
	)

	return businessflow.NewEstimateFlow(
		repository.NewLeadRepository(testDB.DB),
		repository.NewEstimateRepository(testDB.DB),
		repository.NewPricingRuleRepository(testDB.DB),
		repository.NewSettingsRepository(testDB.DB),
		repository.NewAuditLogRepository(testDB.DB),
		notificationService,
		testDB.DB,
	)
}

func testMetadata() *businessflow.ClientMetadata {
	return businessflow.NewClientMetadata("127.0.0.1", "Test User Agent", "test-request-id")
}

func TestEstimateFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		flow := newTestEstimateFlow(testDB)
		auditRepo := repository.NewAuditLogRepository(testDB.DB)
		ctx := context.Background()

		t.Run("CreateEstimateWithDefaults", func(t *testing.T) {
			req := &dto.CreateEstimateRequest{
				JobType:      "full_replacement",
				Material:     utils.ToPtr("asphalt_shingle"),
				Pitch:        utils.ToPtr("moderate"),
				Stories:      utils.ToPtr(2),
				RoofSizeSqft: utils.ToPtr(2200.0),
				HasSkylights: utils.ToPtr(true),
			}

			result, err := flow.CreateEstimate(ctx, req, testMetadata())
			require.NoError(t, err)
			require.NotNil(t, result)

			assert.NotEmpty(t, result.Lead.UUID)
			assert.Equal(t, "new", result.Lead.Status)
			assert.Equal(t, "full_replacement", result.Lead.JobType)

			assert.NotEmpty(t, result.Estimate.UUID)
			assert.Greater(t, result.Estimate.PriceLikely, 0.0)
			assert.Less(t, result.Estimate.PriceLow, result.Estimate.PriceLikely)
			assert.Less(t, result.Estimate.PriceLikely, result.Estimate.PriceHigh)
			assert.NotEmpty(t, result.Estimate.Adjustments)

			// Estimate creation is audited
			logs, err := auditRepo.ListByAction(ctx, models.AuditActionEstimateCreated, 10, 0)
			require.NoError(t, err)
			assert.NotEmpty(t, logs)
		})

		t.Run("CreateEstimateRejectsUnknownJobType", func(t *testing.T) {
			req := &dto.CreateEstimateRequest{JobType: "chimney_sweep"}

			result, err := flow.CreateEstimate(ctx, req, testMetadata())
			require.Error(t, err)
			assert.Nil(t, result)

			var bizErr *businessflow.BusinessError
			require.ErrorAs(t, err, &bizErr)
			assert.Equal(t, dto.ErrorInvalidIntake, bizErr.Code)
		})

		t.Run("GetEstimate", func(t *testing.T) {
			req := &dto.CreateEstimateRequest{JobType: "repair"}
			created, err := flow.CreateEstimate(ctx, req, testMetadata())
			require.NoError(t, err)

			found, err := flow.GetEstimate(ctx, created.Estimate.UUID)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, created.Estimate.UUID, found.UUID)
			assert.Equal(t, created.Lead.UUID, found.LeadUUID)
			assert.Equal(t, created.Estimate.PriceLikely, found.PriceLikely)
		})

		t.Run("GetEstimateNotFound", func(t *testing.T) {
			found, err := flow.GetEstimate(ctx, "00000000-0000-4000-8000-000000000000")
			require.Error(t, err)
			assert.Nil(t, found)
			assert.True(t, businessflow.IsEstimateNotFound(err))
		})

		t.Run("AttachContactAdvancesNewLead", func(t *testing.T) {
			req := &dto.CreateEstimateRequest{JobType: "full_replacement"}
			created, err := flow.CreateEstimate(ctx, req, testMetadata())
			require.NoError(t, err)

			contact := &dto.AttachContactRequest{
				FirstName: "Sarah",
				LastName:  "Mitchell",
				Email:     "sarah.mitchell@example.com",
				Phone:     utils.ToPtr("+15551234567"),
				City:      utils.ToPtr("Austin"),
			}

			lead, err := flow.AttachContact(ctx, created.Lead.UUID, contact, testMetadata())
			require.NoError(t, err)
			require.NotNil(t, lead)
			assert.Equal(t, "contacted", lead.Status)
			require.NotNil(t, lead.Email)
			assert.Equal(t, "sarah.mitchell@example.com", *lead.Email)
		})

		t.Run("AttachContactUnknownLead", func(t *testing.T) {
			contact := &dto.AttachContactRequest{
				FirstName: "No",
				LastName:  "Body",
				Email:     "nobody@example.com",
			}

			lead, err := flow.AttachContact(ctx, "00000000-0000-4000-8000-000000000000", contact, testMetadata())
			require.Error(t, err)
			assert.Nil(t, lead)
			assert.True(t, businessflow.IsLeadNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestEstimateFlowUsesPersistedRules(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		ruleRepo := repository.NewPricingRuleRepository(testDB.DB)
		ctx := context.Background()

		// A lone active rule set should still price without the static fallback
		// for keys it defines. Persist a base rate rule with a distinctive rate.
		rule := &models.PricingRule{
			RuleKey:      "base_replacement",
			RuleCategory: "base",
			BaseRate:     utils.ToPtr(10.0),
			Unit:         utils.ToPtr("sqft"),
			Multiplier:   1,
			IsActive:     utils.ToPtr(true),
			DisplayName:  "Full replacement base",
		}
		require.NoError(t, ruleRepo.UpsertByKey(ctx, rule))

		flow := newTestEstimateFlow(testDB)
		req := &dto.CreateEstimateRequest{
			JobType:      "full_replacement",
			RoofSizeSqft: utils.ToPtr(1000.0),
		}

		result, err := flow.CreateEstimate(ctx, req, testMetadata())
		require.NoError(t, err)
		require.NotNil(t, result)
		assert.Greater(t, result.Estimate.PriceLikely, 0.0)

		return nil
	})
	require.NoError(t, err)
}
