package handlers

import (
	"log"

	"github.com/JohnConnorCode/roofing-made-easy/app/dto"
	businessflow "github.com/JohnConnorCode/roofing-made-easy/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// AuthAdminHandlerInterface defines the contract for admin authentication handlers
type AuthAdminHandlerInterface interface {
	Login(c fiber.Ctx) error
	Refresh(c fiber.Ctx) error
}

// AuthAdminHandler handles admin authentication HTTP requests
type AuthAdminHandler struct {
	adminAuthFlow businessflow.AdminAuthFlow
	validator     *validator.Validate
}

// NewAuthAdminHandler creates a new admin authentication handler
func NewAuthAdminHandler(adminAuthFlow businessflow.AdminAuthFlow) *AuthAdminHandler {
	return &AuthAdminHandler{
		adminAuthFlow: adminAuthFlow,
		validator:     validator.New(),
	}
}

// Login authenticates an admin and issues a token pair
// @Summary Admin Login
// @Tags Admin Auth
// @Accept json
// @Produce json
// @Param request body dto.AdminLoginRequest true "Credentials"
// @Success 200 {object} dto.APIResponse{data=dto.AdminLoginResponse} "Logged in"
// @Failure 401 {object} dto.APIResponse "Invalid credentials"
// @Router /api/v1/admin/auth/login [post]
func (h *AuthAdminHandler) Login(c fiber.Ctx) error {
	var req dto.AdminLoginRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if stop, err := validateRequest(c, h.validator, &req); stop {
		return err
	}

	result, err := h.adminAuthFlow.Login(createRequestContext(c, "/api/v1/admin/auth/login"), &req, clientMetadata(c))
	if err != nil {
		// Admin lookup failures surface as 401 to avoid username probing.
		if businessflow.IsAdminNotFound(err) || businessflow.IsIncorrectPassword(err) {
			return errorResponse(c, fiber.StatusUnauthorized, "Invalid credentials", "INVALID_CREDENTIALS", nil)
		}
		if businessflow.IsAdminInactive(err) {
			return errorResponse(c, fiber.StatusUnauthorized, "Account is inactive", dto.ErrorAccountInactive, nil)
		}
		log.Println("Admin login failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Login failed", "LOGIN_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Logged in", result)
}

// Refresh exchanges a refresh token for a new pair
// @Summary Refresh Tokens
// @Tags Admin Auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} dto.APIResponse{data=dto.AdminSessionDTO} "New session"
// @Failure 401 {object} dto.APIResponse "Invalid token"
// @Router /api/v1/admin/auth/refresh [post]
func (h *AuthAdminHandler) Refresh(c fiber.Ctx) error {
	var req dto.RefreshTokenRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if stop, err := validateRequest(c, h.validator, &req); stop {
		return err
	}

	result, err := h.adminAuthFlow.Refresh(createRequestContext(c, "/api/v1/admin/auth/refresh"), &req, clientMetadata(c))
	if err != nil {
		return errorResponse(c, fiber.StatusUnauthorized, "Invalid or expired refresh token", dto.ErrorInvalidToken, nil)
	}

	return successResponse(c, fiber.StatusOK, "Session refreshed", result)
}
