package businessflow

import (
	"context"
	"fmt"

	"github.com/JohnConnorCode/roofing-made-easy/app/dto"
	"github.com/JohnConnorCode/roofing-made-easy/app/services"
	"github.com/JohnConnorCode/roofing-made-easy/models"
	"github.com/JohnConnorCode/roofing-made-easy/repository"
	"github.com/JohnConnorCode/roofing-made-easy/utils"
	"golang.org/x/crypto/bcrypt"
)

// AdminAuthFlow represents the back office authentication flow used by handlers
type AdminAuthFlow interface {
	Login(ctx context.Context, req *dto.AdminLoginRequest, metadata *ClientMetadata) (*dto.AdminLoginResponse, error)
	Refresh(ctx context.Context, req *dto.RefreshTokenRequest, metadata *ClientMetadata) (*dto.AdminSessionDTO, error)
}

// AdminAuthFlowImpl verifies admin credentials and issues token pairs
type AdminAuthFlowImpl struct {
	adminRepo    repository.AdminRepository
	auditRepo    repository.AuditLogRepository
	tokenService services.TokenService
}

func NewAdminAuthFlow(adminRepo repository.AdminRepository, auditRepo repository.AuditLogRepository, tokenService services.TokenService) AdminAuthFlow {
	return &AdminAuthFlowImpl{
		adminRepo:    adminRepo,
		auditRepo:    auditRepo,
		tokenService: tokenService,
	}
}

func (af *AdminAuthFlowImpl) Login(ctx context.Context, req *dto.AdminLoginRequest, metadata *ClientMetadata) (*dto.AdminLoginResponse, error) {
	if req == nil || req.Username == "" || req.Password == "" {
		return nil, NewBusinessError("ADMIN_LOGIN_VALIDATION_FAILED", "Username and password are required", ErrIncorrectPassword)
	}

	admin, err := af.adminRepo.ByUsername(ctx, req.Username)
	if err != nil {
		return nil, NewBusinessError("ADMIN_LOOKUP_FAILED", "Failed to lookup admin", err)
	}
	if admin == nil {
		af.auditFailure(ctx, nil, req.Username, "unknown username", metadata)
		return nil, NewBusinessError(dto.ErrorAdminNotFound, "Admin not found", ErrAdminNotFound)
	}
	if !utils.IsTrue(admin.IsActive) {
		af.auditFailure(ctx, &admin.ID, req.Username, "account inactive", metadata)
		return nil, NewBusinessError(dto.ErrorAccountInactive, "Admin account is inactive", ErrAdminInactive)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		af.auditFailure(ctx, &admin.ID, req.Username, "wrong password", metadata)
		return nil, NewBusinessError(dto.ErrorIncorrectPassword, "Incorrect password", ErrIncorrectPassword)
	}

	accessToken, refreshToken, err := af.tokenService.GenerateAdminTokens(admin.ID)
	if err != nil {
		return nil, NewBusinessError("TOKEN_GENERATION_FAILED", "Failed to generate tokens", err)
	}

	now := utils.UTCNow()
	_ = af.adminRepo.UpdateLastLogin(ctx, admin.ID, now)
	admin.LastLoginAt = &now

	_ = createAuditLog(ctx, af.auditRepo, auditEntry{
		Action:      models.AuditActionAdminLogin,
		Description: fmt.Sprintf("Admin %s logged in", admin.Username),
		AdminID:     &admin.ID,
		Success:     true,
	}, metadata)

	return &dto.AdminLoginResponse{
		Admin:   *ToAdminDTO(admin),
		Session: *ToAdminSessionDTO(accessToken, refreshToken, af.tokenService.AccessTokenTTL()),
	}, nil
}

// Refresh rotates a refresh token. The consumed token is revoked so each
// refresh token is single use.
func (af *AdminAuthFlowImpl) Refresh(ctx context.Context, req *dto.RefreshTokenRequest, metadata *ClientMetadata) (*dto.AdminSessionDTO, error) {
	if req == nil || req.RefreshToken == "" {
		return nil, NewBusinessError(dto.ErrorInvalidToken, "Refresh token is required", services.ErrTokenInvalid)
	}

	accessToken, refreshToken, err := af.tokenService.RefreshAdminToken(req.RefreshToken)
	if err != nil {
		return nil, NewBusinessError(dto.ErrorInvalidToken, "Invalid or expired refresh token", err)
	}

	if claims, err := af.tokenService.ValidateAdminToken(accessToken); err == nil && claims != nil {
		_ = createAuditLog(ctx, af.auditRepo, auditEntry{
			Action:      models.AuditActionTokenRefreshed,
			Description: "Admin session refreshed",
			AdminID:     &claims.AdminID,
			Success:     true,
		}, metadata)
	}

	return ToAdminSessionDTO(accessToken, refreshToken, af.tokenService.AccessTokenTTL()), nil
}

func (af *AdminAuthFlowImpl) auditFailure(ctx context.Context, adminID *uint, username, reason string, metadata *ClientMetadata) {
	_ = createAuditLog(ctx, af.auditRepo, auditEntry{
		Action:      models.AuditActionAdminLoginFailed,
		Description: fmt.Sprintf("Login failed for %s: %s", username, reason),
		AdminID:     adminID,
		Success:     false,
	}, metadata)
}
