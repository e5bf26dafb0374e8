package emission

import "github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/pkg/apperr"

var (
	ErrNegativeKwh    = apperr.Validation("NEGATIVE_KWH", "electricity_kwh cannot be negative")
	ErrNegativePpm    = apperr.Validation("NEGATIVE_PPM", "combustion_ppm cannot be negative")
	ErrNegativeFactor = apperr.Validation("NEGATIVE_FACTOR", "Emission factors cannot be negative")
	ErrInvalidPeriod  = apperr.Validation("INVALID_PERIOD", "period must be daily, monthly or yearly")
	ErrInvalidSource  = apperr.Validation("INVALID_SOURCE", "source must be iot or simulated")
	ErrInternal       = apperr.Internal("EMISSION_STORE", "emission store error")
)
