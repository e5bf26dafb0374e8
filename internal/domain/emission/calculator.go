package emission

import (
	"time"

	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/pkg/precision"
)

// Breakdown is the CO2 attributable to one reading.
type Breakdown struct {
	ElectricityCo2Kg float64 `json:"electricity_co2_kg"`
	CombustionCo2Kg  float64 `json:"combustion_co2_kg"`
	TotalCo2Kg       float64 `json:"total_co2_kg"`
}

// ElectricityCo2 converts consumed energy to kg of CO2.
func ElectricityCo2(kwh float64, f FactorSet) (float64, error) {
	if kwh < 0 {
		return 0, ErrNegativeKwh
	}
	return precision.Round(kwh*f.ElectricityKwhFactor, precision.Co2Kg), nil
}

// CombustionCo2 converts a combustion ppm reading to kg of CO2.
func CombustionCo2(ppm float64, f FactorSet) (float64, error) {
	if ppm < 0 {
		return 0, ErrNegativePpm
	}
	return precision.Round(ppm*f.CombustionPpmFactor, precision.Co2Kg), nil
}

// TotalCo2 computes both parts. The total is rounded once from the unrounded
// parts, so it can differ from the sum of the rounded parts in the last place.
func TotalCo2(kwh, ppm float64, f FactorSet) (Breakdown, error) {
	elec, err := ElectricityCo2(kwh, f)
	if err != nil {
		return Breakdown{}, err
	}
	comb, err := CombustionCo2(ppm, f)
	if err != nil {
		return Breakdown{}, err
	}
	return Breakdown{
		ElectricityCo2Kg: elec,
		CombustionCo2Kg:  comb,
		TotalCo2Kg:       precision.Round(kwh*f.ElectricityKwhFactor+ppm*f.CombustionPpmFactor, precision.Co2Kg),
	}, nil
}

// Explanation documents how emissions are computed, for audit.
type Explanation struct {
	Methodology string            `json:"methodology"`
	Formulas    map[string]string `json:"formulas"`
	Factors     ExplainedFactors  `json:"factors"`
	SourceLabel string            `json:"source_label"`
	EffectiveAt *time.Time        `json:"effective_at,omitempty"`
}

type ExplainedFactors struct {
	ElectricityKgPerKwh float64 `json:"electricity_kg_per_kwh"`
	CombustionKgPerPpm  float64 `json:"combustion_kg_per_ppm"`
}

// Explain describes the calculation performed with f.
func Explain(f FactorSet) Explanation {
	e := Explanation{
		Methodology: "Direct multiplication of measured activity by a versioned emission factor. " +
			"Each stored record keeps the factor set that was current when it was ingested.",
		Formulas: map[string]string{
			"electricity_co2_kg": "electricity_kwh × electricity_kwh_factor",
			"combustion_co2_kg":  "combustion_ppm × combustion_ppm_factor",
			"total_co2_kg":       "electricity_co2_kg + combustion_co2_kg",
			"current_amps":       "|raw_voltage − offset| ÷ sensitivity",
			"electricity_kwh":    "system_voltage × amps × power_factor × hours ÷ 1000",
		},
		Factors: ExplainedFactors{
			ElectricityKgPerKwh: f.ElectricityKwhFactor,
			CombustionKgPerPpm:  f.CombustionPpmFactor,
		},
		SourceLabel: f.SourceLabel,
	}
	if !f.IsDefault() {
		at := f.CreatedAt
		e.EffectiveAt = &at
	}
	return e
}
