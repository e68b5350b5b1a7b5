// Package dto
package dto

// AdminDTO represents a back office user
type AdminDTO struct {
	ID          uint    `json:"id" example:"1"`
	UUID        string  `json:"uuid" example:"f47ac10b-58cc-4372-a567-0e02b2c3d479"`
	Username    string  `json:"username" example:"admin"`
	DisplayName *string `json:"display_name,omitempty"`
	IsActive    *bool   `json:"is_active" example:"true"`
	CreatedAt   string  `json:"created_at" example:"2024-01-15T10:30:00Z"`
}

// AdminSessionDTO represents an issued token pair
type AdminSessionDTO struct {
	AccessToken  string `json:"access_token" example:"jwt"`
	RefreshToken string `json:"refresh_token" example:"jwt"`
	ExpiresIn    int    `json:"expires_in" example:"86400"`
	TokenType    string `json:"token_type" example:"Bearer"`
	CreatedAt    string `json:"created_at" example:"2024-01-15T10:30:00Z"`
}

// AdminLoginRequest represents the admin login payload
type AdminLoginRequest struct {
	Username string `json:"username" validate:"required,min=3,max=60" example:"admin"`
	Password string `json:"password" validate:"required,min=8,max=100" example:"SecurePass123!"`
}

// AdminLoginResponse carries the admin and the new session
type AdminLoginResponse struct {
	Admin   AdminDTO        `json:"admin"`
	Session AdminSessionDTO `json:"session"`
}

// RefreshTokenRequest exchanges a refresh token for a new pair
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required" example:"jwt"`
}

// Common error codes for admin auth operations
const (
	ErrorAdminNotFound     = "ADMIN_NOT_FOUND"
	ErrorIncorrectPassword = "INCORRECT_PASSWORD"
	ErrorAccountInactive   = "ACCOUNT_INACTIVE"
	ErrorInvalidToken      = "INVALID_TOKEN"
)
