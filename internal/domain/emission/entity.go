package emission

import (
	"time"

	"github.com/google/uuid"
)

// DefaultSourceLabel marks factors taken from static configuration.
const DefaultSourceLabel = "Default Configuration"

// Source identifies where a reading came from.
type Source string

const (
	SourceIoT       Source = "iot"
	SourceSimulated Source = "simulated"
)

// Period is an aggregation bucket size.
type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodMonthly Period = "monthly"
	PeriodYearly  Period = "yearly"
)

// FactorSet is one version of the emission conversion factors.
type FactorSet struct {
	ID                   uuid.UUID     `db:"id" json:"id"`
	ElectricityKwhFactor float64       `db:"electricity_kwh_factor" json:"electricity_kwh_factor"`
	CombustionPpmFactor  float64       `db:"combustion_ppm_factor" json:"combustion_ppm_factor"`
	SourceLabel          string        `db:"source_label" json:"source_label"`
	IsActive             bool          `db:"is_active" json:"is_active"`
	CreatedBy            uuid.NullUUID `db:"created_by" json:"-"`
	CreatedAt            time.Time     `db:"created_at" json:"created_at"`
}

// IsDefault reports whether the set comes from configuration rather than the store.
func (f FactorSet) IsDefault() bool {
	return f.ID == uuid.Nil
}

// DefaultFactors builds the configuration fallback set.
func DefaultFactors(kwhFactor, ppmFactor float64) FactorSet {
	return FactorSet{
		ElectricityKwhFactor: kwhFactor,
		CombustionPpmFactor:  ppmFactor,
		SourceLabel:          DefaultSourceLabel,
		IsActive:             true,
	}
}

// Record is an append-only emission measurement. CO2 values are frozen at
// ingestion time with the factor set that was current then.
type Record struct {
	ID               uuid.UUID     `db:"id" json:"id"`
	OwnerID          uuid.UUID     `db:"owner_id" json:"owner_id"`
	RecordedAt       time.Time     `db:"recorded_at" json:"recorded_at"`
	ElectricityKwh   float64       `db:"electricity_kwh" json:"electricity_kwh"`
	ElectricityCo2Kg float64       `db:"electricity_co2_kg" json:"electricity_co2_kg"`
	CombustionPpm    float64       `db:"combustion_ppm" json:"combustion_ppm"`
	CombustionCo2Kg  float64       `db:"combustion_co2_kg" json:"combustion_co2_kg"`
	TotalCo2Kg       float64       `db:"total_co2_kg" json:"total_co2_kg"`
	Source           Source        `db:"source" json:"source"`
	FactorSetID      uuid.NullUUID `db:"factor_set_id" json:"factor_set_id,omitempty"`
}

// Totals sums records over a window.
type Totals struct {
	TotalCo2Kg       float64 `db:"total_co2_kg" json:"total_co2_kg"`
	ElectricityCo2Kg float64 `db:"electricity_co2_kg" json:"electricity_co2_kg"`
	CombustionCo2Kg  float64 `db:"combustion_co2_kg" json:"combustion_co2_kg"`
	ElectricityKwh   float64 `db:"electricity_kwh" json:"electricity_kwh"`
	RecordCount      int     `db:"record_count" json:"record_count"`
}

// Bucket is one aggregated period.
type Bucket struct {
	Period string `db:"period" json:"period"`
	Totals
}

// DailyTotal is the emission total of one UTC day.
type DailyTotal struct {
	Day        time.Time `db:"day" json:"day"`
	TotalCo2Kg float64   `db:"total_co2_kg" json:"total_co2_kg"`
}
