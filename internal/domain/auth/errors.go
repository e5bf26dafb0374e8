package auth

import "github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/pkg/apperr"

var (
	ErrEmailAlreadyExists   = apperr.Conflict("EMAIL_EXISTS", "Email already registered")
	ErrInvalidCredentials   = apperr.Validation("INVALID_CREDENTIALS", "Invalid email or password")
	ErrInvalidRefreshToken  = apperr.Validation("INVALID_REFRESH_TOKEN", "Invalid or expired refresh token")
	ErrRefreshTokenRequired = apperr.Validation("REFRESH_TOKEN_REQUIRED", "Refresh token is required")
	ErrUserNotFound         = apperr.NotFound("USER_NOT_FOUND", "User not found")
	ErrTokenStore           = apperr.Internal("TOKEN_STORE", "token store error")
)
