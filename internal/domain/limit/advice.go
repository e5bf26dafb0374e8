package limit

import "github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/pkg/precision"

// Tips returns sustainability suggestions for a status and emission mix.
func Tips(s Status, electricityKg, combustionKg float64) []string {
	var tips []string
	switch s {
	case StatusSafe:
		tips = append(tips, "Great job! Keep maintaining your low-carbon lifestyle.")
	case StatusWarning:
		tips = append(tips, "You're approaching your limit. Review your highest-consumption appliances.")
	default:
		tips = append(tips, "Offset your excess emissions by purchasing renewable energy credits.")
	}

	if electricityKg > combustionKg {
		tips = append(tips,
			"Switch to LED bulbs and energy-efficient appliances.",
			"Consider rooftop solar panels to cut grid electricity use.",
			"Unplug devices on standby and use smart power strips.",
		)
	} else {
		tips = append(tips,
			"Have your heating system serviced to improve combustion efficiency.",
			"Combine trips or use public transport to reduce vehicle emissions.",
			"Improve insulation to reduce fuel needed for heating.",
		)
	}
	return tips
}

// Warning is a display-only projection of year-end emissions.
type Warning struct {
	AnnualLimitKg   float64 `json:"annual_limit_kg"`
	CurrentKg       float64 `json:"current_emissions_kg"`
	PredictedKg     float64 `json:"predicted_additional_kg"`
	ProjectedKg     float64 `json:"projected_total_kg"`
	ProjectedPct    float64 `json:"projected_percentage"`
	WillExceed      bool    `json:"will_exceed"`
	ProjectedStatus Status  `json:"projected_status"`
	Message         string  `json:"message"`
}

// EarlyWarning projects current emissions plus a forecast against the limit.
func EarlyWarning(annualLimitKg, currentKg float64, predictedKg []float64) Warning {
	predicted := precision.Sum(precision.Co2Kg, predictedKg...)
	projected := precision.Sum(precision.Co2Kg, currentKg, predicted)

	pct := 0.0
	if annualLimitKg > 0 {
		pct = precision.Round(projected/annualLimitKg*100, precision.Percent)
	}

	w := Warning{
		AnnualLimitKg:   annualLimitKg,
		CurrentKg:       currentKg,
		PredictedKg:     predicted,
		ProjectedKg:     projected,
		ProjectedPct:    pct,
		WillExceed:      projected > annualLimitKg,
		ProjectedStatus: StatusFor(pct),
	}
	switch {
	case w.WillExceed:
		w.Message = "At the current trend you will exceed your annual limit. Reduce consumption or plan a credit purchase."
	case w.ProjectedStatus == StatusWarning:
		w.Message = "At the current trend you will approach your annual limit."
	default:
		w.Message = "At the current trend you will stay within your annual limit."
	}
	return w
}
