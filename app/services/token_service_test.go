// Package services provides external service integrations and technical concerns like notifications and tokens
package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestTokenService creates a token service for testing with symmetric key
func createTestTokenService() (TokenService, error) {
	return NewTokenService(
		15*time.Minute,
		7*24*time.Hour,
		"test-issuer",
		"test-audience",
		false, // useRSAKeys
		"",    // privateKeyPEM
		"",    // publicKeyPEM
		"test-secret-key-for-jwt-signing-32-chars", // secretKey
	)
}

func TestNewTokenService(t *testing.T) {
	tests := []struct {
		name        string
		useRSAKeys  bool
		secretKey   string
		expectError bool
	}{
		{
			name:        "valid symmetric key configuration",
			useRSAKeys:  false,
			secretKey:   "test-secret-key-for-jwt-signing-32-chars",
			expectError: false,
		},
		{
			name:        "missing secret key",
			useRSAKeys:  false,
			secretKey:   "",
			expectError: true,
		},
		{
			name:        "rsa mode without keys",
			useRSAKeys:  true,
			secretKey:   "",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := NewTokenService(
				15*time.Minute,
				7*24*time.Hour,
				"test-issuer",
				"test-audience",
				tt.useRSAKeys,
				"",
				"",
				tt.secretKey,
			)
			if tt.expectError {
				require.Error(t, err)
				assert.Nil(t, svc)
			} else {
				require.NoError(t, err)
				assert.NotNil(t, svc)
			}
		})
	}
}

func TestGenerateAndValidateAdminTokens(t *testing.T) {
	svc, err := createTestTokenService()
	require.NoError(t, err)

	access, refresh, err := svc.GenerateAdminTokens(42)
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)
	assert.NotEqual(t, access, refresh)

	accessClaims, err := svc.ValidateAdminToken(access)
	require.NoError(t, err)
	assert.Equal(t, uint(42), accessClaims.AdminID)
	assert.Equal(t, "access", accessClaims.TokenType)
	assert.NotEmpty(t, accessClaims.TokenID)
	assert.True(t, accessClaims.ExpiresAt.After(accessClaims.IssuedAt))

	refreshClaims, err := svc.ValidateAdminToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, "refresh", refreshClaims.TokenType)
	assert.NotEqual(t, accessClaims.TokenID, refreshClaims.TokenID)
}

func TestValidateAdminTokenRejectsGarbage(t *testing.T) {
	svc, err := createTestTokenService()
	require.NoError(t, err)

	claims, err := svc.ValidateAdminToken("not-a-jwt")
	require.Error(t, err)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidateAdminTokenExpired(t *testing.T) {
	svc, err := NewTokenService(
		-1*time.Minute, // already expired at issuance
		7*24*time.Hour,
		"test-issuer",
		"test-audience",
		false,
		"",
		"",
		"test-secret-key-for-jwt-signing-32-chars",
	)
	require.NoError(t, err)

	access, _, err := svc.GenerateAdminTokens(7)
	require.NoError(t, err)

	claims, err := svc.ValidateAdminToken(access)
	require.Error(t, err)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestRefreshAdminToken(t *testing.T) {
	svc, err := createTestTokenService()
	require.NoError(t, err)

	_, refresh, err := svc.GenerateAdminTokens(42)
	require.NoError(t, err)

	newAccess, newRefresh, err := svc.RefreshAdminToken(refresh)
	require.NoError(t, err)
	assert.NotEmpty(t, newAccess)
	assert.NotEmpty(t, newRefresh)
	assert.NotEqual(t, refresh, newRefresh)

	claims, err := svc.ValidateAdminToken(newAccess)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.AdminID)

	// The consumed refresh token is revoked
	_, _, err = svc.RefreshAdminToken(refresh)
	require.Error(t, err)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	svc, err := createTestTokenService()
	require.NoError(t, err)

	access, _, err := svc.GenerateAdminTokens(42)
	require.NoError(t, err)

	_, _, err = svc.RefreshAdminToken(access)
	require.Error(t, err)
}

func TestRevokeToken(t *testing.T) {
	svc, err := createTestTokenService()
	require.NoError(t, err)

	access, _, err := svc.GenerateAdminTokens(42)
	require.NoError(t, err)

	require.NoError(t, svc.RevokeToken(access))

	claims, err := svc.ValidateAdminToken(access)
	require.Error(t, err)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

func TestAccessTokenTTL(t *testing.T) {
	svc, err := createTestTokenService()
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, svc.AccessTokenTTL())
}
