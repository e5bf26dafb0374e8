package credit

import "github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/pkg/apperr"

var (
	// ErrInsufficientBalance is returned when active credits cannot cover a debit.
	ErrInsufficientBalance = apperr.Conflict("INSUFFICIENT_BALANCE", "Insufficient active credit balance")

	// ErrReferenceConflict is returned when a deduction reference is reused with different terms.
	ErrReferenceConflict = apperr.Conflict("DEDUCTION_REFERENCE_CONFLICT", "Deduction reference already used with different terms")

	ErrInvalidAmount        = apperr.Validation("INVALID_AMOUNT", "amount_kg_co2 must be greater than 0")
	ErrUnknownCreditType    = apperr.Validation("UNKNOWN_CREDIT_TYPE", "Unknown credit type")
	ErrMissingReference     = apperr.Validation("MISSING_REFERENCE", "A deduction reference is required")
	ErrCreditNotFound       = apperr.NotFound("CREDIT_NOT_FOUND", "Credit not found")
	ErrDuplicateTransaction = apperr.Conflict("DUPLICATE_TRANSACTION", "A credit with this transaction id already exists")
	ErrInternal             = apperr.Internal("CREDIT_STORE", "credit store error")
)
