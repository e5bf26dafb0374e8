package errorhandler

import (
	"context"
	"errors"
	"net/http"

	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/pkg/apperr"
	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/pkg/logger"
	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/pkg/response"
)

// Respond writes the response for a domain error.
// Internal errors are logged with the request id and reported generically.
func Respond(ctx context.Context, w http.ResponseWriter, err error) {
	var ae *apperr.Error
	if !errors.As(err, &ae) || ae.Kind == apperr.KindInternal {
		logger.FromContext(ctx).Error().
			Err(err).
			Str("request_id", logger.RequestID(ctx)).
			Msg("Request failed")
		response.InternalError(w)
		return
	}

	switch ae.Kind {
	case apperr.KindValidation:
		if len(ae.Fields) > 0 {
			response.ErrorWithDetails(w, http.StatusUnprocessableEntity, ae.Code, ae.Message, ae.Fields)
			return
		}
		response.Error(w, http.StatusBadRequest, ae.Code, ae.Message)
	case apperr.KindNotFound:
		response.Error(w, http.StatusNotFound, ae.Code, ae.Message)
	case apperr.KindConflict:
		logger.FromContext(ctx).Debug().Str("code", ae.Code).Msg(ae.Message)
		response.Error(w, http.StatusConflict, ae.Code, ae.Message)
	}
}

// LogDatabaseError logs a store failure that is not surfaced to the caller.
func LogDatabaseError(ctx context.Context, operation string, err error) {
	logger.FromContext(ctx).Error().
		Str("operation", operation).
		Err(err).
		Msg("Database error")
}
