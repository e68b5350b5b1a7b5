// Package tests contains test cases for models and repository packages to avoid circular imports
package tests

import (
	"testing"

	"github.com/JohnConnorCode/roofing-made-easy/models"
	testingutil "github.com/JohnConnorCode/roofing-made-easy/testing"
	"github.com/JohnConnorCode/roofing-made-easy/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeadStatusTransitions(t *testing.T) {
	cases := []struct {
		from    models.LeadStatus
		to      models.LeadStatus
		allowed bool
	}{
		{models.LeadStatusNew, models.LeadStatusContacted, true},
		{models.LeadStatusNew, models.LeadStatusQuoted, true},
		{models.LeadStatusNew, models.LeadStatusLost, true},
		{models.LeadStatusNew, models.LeadStatusWon, false},
		{models.LeadStatusContacted, models.LeadStatusQuoted, true},
		{models.LeadStatusContacted, models.LeadStatusLost, true},
		{models.LeadStatusContacted, models.LeadStatusNew, false},
		{models.LeadStatusQuoted, models.LeadStatusScheduled, true},
		{models.LeadStatusScheduled, models.LeadStatusWon, true},
		{models.LeadStatusScheduled, models.LeadStatusLost, true},
		{models.LeadStatusWon, models.LeadStatusLost, false},
		{models.LeadStatusLost, models.LeadStatusNew, false},
	}

	for _, tc := range cases {
		got := tc.from.CanTransitionTo(tc.to)
		assert.Equal(t, tc.allowed, got, "%s -> %s", tc.from, tc.to)
	}
}

func TestInvoiceStatusTransitions(t *testing.T) {
	cases := []struct {
		from    models.InvoiceStatus
		to      models.InvoiceStatus
		allowed bool
	}{
		{models.InvoiceStatusDraft, models.InvoiceStatusSent, true},
		{models.InvoiceStatusDraft, models.InvoiceStatusVoid, true},
		{models.InvoiceStatusDraft, models.InvoiceStatusPaid, false},
		{models.InvoiceStatusSent, models.InvoiceStatusPaid, true},
		{models.InvoiceStatusSent, models.InvoiceStatusVoid, true},
		{models.InvoiceStatusSent, models.InvoiceStatusDraft, false},
		{models.InvoiceStatusPaid, models.InvoiceStatusVoid, false},
		{models.InvoiceStatusVoid, models.InvoiceStatusSent, false},
	}

	for _, tc := range cases {
		got := tc.from.CanTransitionTo(tc.to)
		assert.Equal(t, tc.allowed, got, "%s -> %s", tc.from, tc.to)
	}
}

func TestJobStatusTransitions(t *testing.T) {
	cases := []struct {
		from    models.JobStatus
		to      models.JobStatus
		allowed bool
	}{
		{models.JobStatusScheduled, models.JobStatusInProgress, true},
		{models.JobStatusScheduled, models.JobStatusCancelled, true},
		{models.JobStatusScheduled, models.JobStatusCompleted, false},
		{models.JobStatusInProgress, models.JobStatusCompleted, true},
		{models.JobStatusInProgress, models.JobStatusCancelled, true},
		{models.JobStatusCompleted, models.JobStatusInProgress, false},
		{models.JobStatusCancelled, models.JobStatusScheduled, false},
	}

	for _, tc := range cases {
		got := tc.from.CanTransitionTo(tc.to)
		assert.Equal(t, tc.allowed, got, "%s -> %s", tc.from, tc.to)
	}
}

func TestClaimStatusTransitions(t *testing.T) {
	cases := []struct {
		from    models.ClaimStatus
		to      models.ClaimStatus
		allowed bool
	}{
		{models.ClaimStatusDraft, models.ClaimStatusFiled, true},
		{models.ClaimStatusFiled, models.ClaimStatusAdjusterScheduled, true},
		{models.ClaimStatusFiled, models.ClaimStatusApproved, true},
		{models.ClaimStatusFiled, models.ClaimStatusDenied, true},
		{models.ClaimStatusAdjusterScheduled, models.ClaimStatusApproved, true},
		{models.ClaimStatusAdjusterScheduled, models.ClaimStatusDenied, true},
		{models.ClaimStatusApproved, models.ClaimStatusPaid, true},
		{models.ClaimStatusDenied, models.ClaimStatusPaid, false},
		{models.ClaimStatusPaid, models.ClaimStatusDraft, false},
		{models.ClaimStatusDraft, models.ClaimStatusApproved, false},
	}

	for _, tc := range cases {
		got := tc.from.CanTransitionTo(tc.to)
		assert.Equal(t, tc.allowed, got, "%s -> %s", tc.from, tc.to)
	}
}

func TestLeadModel(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)

		t.Run("TableName", func(t *testing.T) {
			assert.Equal(t, "leads", models.Lead{}.TableName())
		})

		t.Run("CreateSetsDefaults", func(t *testing.T) {
			lead, err := fixtures.CreateTestLead(models.LeadStatusNew)
			require.NoError(t, err)
			assert.NotZero(t, lead.ID)
			assert.NotEqual(t, uuid.Nil, lead.UUID)
			assert.Equal(t, models.LeadStatusNew, lead.Status)
			assert.False(t, lead.CreatedAt.IsZero())
		})

		t.Run("IssueList", func(t *testing.T) {
			lead, err := fixtures.CreateTestLead(models.LeadStatusNew)
			require.NoError(t, err)
			assert.Equal(t, []string{"leak"}, lead.IssueList())
		})

		return nil
	})
	require.NoError(t, err)
}

func TestEstimateModel(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)

		lead, err := fixtures.CreateTestLead(models.LeadStatusNew)
		require.NoError(t, err)

		estimate, err := fixtures.CreateTestEstimate(lead.ID)
		require.NoError(t, err)
		assert.NotZero(t, estimate.ID)
		assert.NotEqual(t, uuid.Nil, estimate.UUID)
		assert.Equal(t, lead.ID, estimate.LeadID)
		assert.Less(t, estimate.PriceLow, estimate.PriceLikely)
		assert.Less(t, estimate.PriceLikely, estimate.PriceHigh)

		return nil
	})
	require.NoError(t, err)
}

func TestInvoiceModel(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)

		lead, err := fixtures.CreateTestLead(models.LeadStatusWon)
		require.NoError(t, err)

		t.Run("CreateDraft", func(t *testing.T) {
			invoice, err := fixtures.CreateTestInvoice(lead.ID, models.InvoiceStatusDraft)
			require.NoError(t, err)
			assert.Equal(t, models.InvoiceStatusDraft, invoice.Status)
			assert.Nil(t, invoice.SentAt)
			assert.Nil(t, invoice.PaidAt)
		})

		t.Run("NumberIsUnique", func(t *testing.T) {
			first, err := fixtures.CreateTestInvoice(lead.ID, models.InvoiceStatusDraft)
			require.NoError(t, err)

			dup := &models.Invoice{
				LeadID:         lead.ID,
				Number:         first.Number,
				AmountSubtotal: 1,
				AmountTax:      0,
				AmountTotal:    1,
			}
			err = testDB.DB.Create(dup).Error
			assert.Error(t, err)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestSettingsModel(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)

		settings, err := fixtures.CreateTestSettings()
		require.NoError(t, err)
		assert.Equal(t, models.SettingsRowID, settings.ID)
		assert.Equal(t, 0.07, settings.TaxRate())
		assert.False(t, utils.IsTrue(settings.NotifyOnNewLead))

		return nil
	})
	require.NoError(t, err)
}
