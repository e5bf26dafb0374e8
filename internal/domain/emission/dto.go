package emission

import (
	"time"

	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/domain/calibration"
)

// IngestRequest is a device upload.
type IngestRequest struct {
	calibration.RawReading
	Source     string     `json:"source" validate:"omitempty,emission_source"`
	RecordedAt *time.Time `json:"recorded_at,omitempty"`
}

// IngestResponse reports what was stored and how it was derived.
type IngestResponse struct {
	Record      *Record                 `json:"record"`
	Measurement calibration.Measurement `json:"measurement"`
	FactorLabel string                  `json:"factor_source"`
}

// UpdateFactorsRequest publishes a new factor set.
type UpdateFactorsRequest struct {
	ElectricityKwhFactor float64 `json:"electricity_kwh_factor" validate:"gte=0"`
	CombustionPpmFactor  float64 `json:"combustion_ppm_factor" validate:"gte=0"`
	SourceLabel          string  `json:"source_label" validate:"required,max=200"`
}

// TotalResponse is the emission total since a date.
type TotalResponse struct {
	Since time.Time `json:"since"`
	Totals
}
