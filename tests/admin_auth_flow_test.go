// Package tests contains integration tests for back office authentication
package tests

import (
	"context"
	"testing"
	"time"

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

func newTestAdminAuthFlow(t *testing.T, testDB *testingutil.TestDB) (businessflow.AdminAuthFlow, services.TokenService) {
	tokenService, err := services.NewTokenService(
		15*time.Minute,
		24*time.Hour,
		"test-issuer",
		"test-audience",
		false,
		"",
		"",
		"test-secret-key-for-jwt-signing-32-chars",
	)
	require.NoError(t, err)

	flow := businessflow.NewAdminAuthFlow(
		repository.NewAdminRepository(testDB.DB),
		repository.NewAuditLogRepository(testDB.DB),
		tokenService,
	)
	return flow, tokenService
}

func TestAdminAuthFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		flow, tokenService := newTestAdminAuthFlow(t, testDB)
		auditRepo := repository.NewAuditLogRepository(testDB.DB)
		adminRepo := repository.NewAdminRepository(testDB.DB)
		ctx := context.Background()

		t.Run("SuccessfulLogin", func(t *testing.T) {
			admin, err := fixtures.CreateTestAdmin("office-manager", "SecurePass123!")
			require.NoError(t, err)

			result, err := flow.Login(ctx, &dto.AdminLoginRequest{
				Username: "office-manager",
				Password: "SecurePass123!",
			}, testMetadata())
			require.NoError(t, err)
			require.NotNil(t, result)

			assert.Equal(t, admin.Username, result.Admin.Username)
			assert.NotEmpty(t, result.Session.AccessToken)
			assert.NotEmpty(t, result.Session.RefreshToken)
			assert.Equal(t, "Bearer", result.Session.TokenType)

			claims, err := tokenService.ValidateAdminToken(result.Session.AccessToken)
			require.NoError(t, err)
			assert.Equal(t, admin.ID, claims.AdminID)

			// Last login is stamped
			refreshed, err := adminRepo.ByID(ctx, admin.ID)
			require.NoError(t, err)
			assert.NotNil(t, refreshed.LastLoginAt)
		})

		t.Run("WrongPassword", func(t *testing.T) {
			_, err := fixtures.CreateTestAdmin("estimator", "SecurePass123!")
			require.NoError(t, err)

			result, err := flow.Login(ctx, &dto.AdminLoginRequest{
				Username: "estimator",
				Password: "WrongPass123!",
			}, testMetadata())
			require.Error(t, err)
			assert.Nil(t, result)
			assert.True(t, businessflow.IsIncorrectPassword(err))

			logs, err := auditRepo.ListByAction(ctx, models.AuditActionAdminLoginFailed, 10, 0)
			require.NoError(t, err)
			assert.NotEmpty(t, logs)
		})

		t.Run("UnknownUsername", func(t *testing.T) {
			result, err := flow.Login(ctx, &dto.AdminLoginRequest{
				Username: "ghost",
				Password: "SecurePass123!",
			}, testMetadata())
			require.Error(t, err)
			assert.Nil(t, result)
			assert.True(t, businessflow.IsAdminNotFound(err))
		})

		t.Run("InactiveAccount", func(t *testing.T) {
			admin, err := fixtures.CreateTestAdmin("former-employee", "SecurePass123!")
			require.NoError(t, err)

			admin.IsActive = utils.ToPtr(false)
			require.NoError(t, testDB.DB.Save(admin).Error)

			result, err := flow.Login(ctx, &dto.AdminLoginRequest{
				Username: "former-employee",
				Password: "SecurePass123!",
			}, testMetadata())
			require.Error(t, err)
			assert.Nil(t, result)
			assert.True(t, businessflow.IsAdminInactive(err))
		})

		t.Run("RefreshRotatesTokenPair", func(t *testing.T) {
			_, err := fixtures.CreateTestAdmin("dispatcher", "SecurePass123!")
			require.NoError(t, err)

			login, err := flow.Login(ctx, &dto.AdminLoginRequest{
				Username: "dispatcher",
				Password: "SecurePass123!",
			}, testMetadata())
			require.NoError(t, err)

			session, err := flow.Refresh(ctx, &dto.RefreshTokenRequest{
				RefreshToken: login.Session.RefreshToken,
			}, testMetadata())
			require.NoError(t, err)
			require.NotNil(t, session)
			assert.NotEmpty(t, session.AccessToken)
			assert.NotEqual(t, login.Session.RefreshToken, session.RefreshToken)

			// Refresh tokens are single use
			again, err := flow.Refresh(ctx, &dto.RefreshTokenRequest{
				RefreshToken: login.Session.RefreshToken,
			}, testMetadata())
			require.Error(t, err)
			assert.Nil(t, again)
		})

		t.Run("RefreshRejectsGarbage", func(t *testing.T) {
			session, err := flow.Refresh(ctx, &dto.RefreshTokenRequest{
				RefreshToken: "not-a-jwt",
			}, testMetadata())
			require.Error(t, err)
			assert.Nil(t, session)
		})

		return nil
	})
	require.NoError(t, err)
}
