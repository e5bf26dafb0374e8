package user

import "github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/pkg/apperr"

var (
	ErrUserNotFound       = apperr.NotFound("USER_NOT_FOUND", "User not found")
	ErrEmailAlreadyExists = apperr.Conflict("EMAIL_EXISTS", "Email already registered")
	ErrInternal           = apperr.Internal("USER_STORE", "user store error")
)
