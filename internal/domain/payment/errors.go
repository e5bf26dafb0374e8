package payment

import "github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/pkg/apperr"

var (
	ErrPaymentNotFound = apperr.NotFound("PAYMENT_NOT_FOUND", "Payment not found")

	// ErrNotPending is returned when an operation needs a pending payment.
	ErrNotPending = apperr.Conflict("PAYMENT_NOT_PENDING", "Payment is not pending")

	// ErrStatusChanged is returned when a compare-and-swap loses to a concurrent transition.
	ErrStatusChanged = apperr.Conflict("PAYMENT_STATUS_CHANGED", "Payment status changed concurrently")

	ErrNotCompleted         = apperr.Conflict("PAYMENT_NOT_COMPLETED", "A reference can only be attached to a completed payment")
	ErrIllegalTransition    = apperr.Conflict("PAYMENT_ILLEGAL_TRANSITION", "Payment status transition is not allowed")
	ErrDuplicateTransaction = apperr.Conflict("DUPLICATE_TRANSACTION", "A payment with this transaction id already exists")
	ErrInternal             = apperr.Internal("PAYMENT_STORE", "payment store error")
)
