package company

import "github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/pkg/apperr"

var (
	ErrCompanyNotFound    = apperr.NotFound("COMPANY_NOT_FOUND", "Company not found")
	ErrEmailAlreadyExists = apperr.Conflict("COMPANY_EMAIL_EXISTS", "Company email already exists")
	ErrInvalidStatus      = apperr.Validation("INVALID_COMPANY_STATUS", "Unknown company status")
	ErrInvalidTransition  = apperr.Conflict("INVALID_COMPANY_TRANSITION", "Company status does not allow this change")
	ErrNotApproved        = apperr.Conflict("COMPANY_NOT_APPROVED", "Company is not approved to sell")
	ErrInternal           = apperr.Internal("COMPANY_STORE", "company store error")
)
