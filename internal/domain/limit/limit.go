// Package limit evaluates a household's net emissions against its annual budget.
//
// Everything here is a pure function of its inputs; persistence and the
// credit catalog are supplied by the caller.
package limit

import (
	"fmt"

	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/pkg/precision"
)

// Status of a household against its budget.
type Status string

const (
	StatusSafe     Status = "safe"
	StatusWarning  Status = "warning"
	StatusExceeded Status = "exceeded"
)

// Grade is a letter score derived from percentage used.
type Grade string

const (
	GradeAPlus Grade = "A+"
	GradeA     Grade = "A"
	GradeB     Grade = "B"
	GradeC     Grade = "C"
	GradeD     Grade = "D"
	GradeF     Grade = "F"
)

// Household is the part of an account that determines its budget.
type Household struct {
	AreaSqm   float64 `json:"area_sqm"`
	Occupants int     `json:"occupants"`
}

// Factors convert a household into an annual budget in kg CO2.
type Factors struct {
	BasePerSqm  float64 `json:"base_per_sqm"`
	PerOccupant float64 `json:"per_occupant"`
}

func DefaultFactors() Factors {
	return Factors{BasePerSqm: 50, PerOccupant: 1000}
}

// CreditOffer is one purchasable credit type.
type CreditOffer struct {
	Type        string  `json:"credit_type"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	PricePerKg  float64 `json:"price_per_kg"`
}

// Options configure an evaluation.
type Options struct {
	Factors Factors
	Offers  []CreditOffer
}

// Explanation spells out how the budget was derived.
type Explanation struct {
	Formula         string  `json:"formula"`
	AreaSqm         float64 `json:"area_sqm"`
	Occupants       int     `json:"occupants"`
	AreaAllowanceKg float64 `json:"area_allowance_kg"`
	OccupantsKg     float64 `json:"occupant_allowance_kg"`
	AnnualLimitKg   float64 `json:"annual_limit_kg"`
}

// PurchaseOption prices covering amountKg with one credit type.
type PurchaseOption struct {
	CreditOffer
	AmountKgCo2 float64 `json:"amount_kg_co2"`
	TotalPrice  float64 `json:"total_price"`
}

// Result is the full status of a household.
type Result struct {
	Status            Status           `json:"status"`
	Color             string           `json:"color"`
	Grade             Grade            `json:"carbon_score"`
	Message           string           `json:"message"`
	AnnualLimitKg     float64          `json:"annual_limit_kg"`
	TotalEmittedKg    float64          `json:"total_emitted_kg"`
	ActiveCreditsKg   float64          `json:"active_credits_kg"`
	NetEmissionsKg    float64          `json:"net_emissions_kg"`
	PercentageUsed    float64          `json:"percentage_used"`
	ExcessCo2Kg       float64          `json:"excess_co2_kg"`
	RemainingBudgetKg float64          `json:"remaining_budget_kg"`
	NeedsCredits      bool             `json:"needs_credits"`
	Explanation       Explanation      `json:"limit_explanation"`
	PurchaseOptions   []PurchaseOption `json:"purchase_options,omitempty"`
}

// AnnualLimit returns area × base + occupants × per-occupant.
func AnnualLimit(h Household, f Factors) float64 {
	return precision.Sum(precision.Co2Kg, h.AreaSqm*f.BasePerSqm, float64(h.Occupants)*f.PerOccupant)
}

// Explain documents the budget of h.
func Explain(h Household, f Factors) Explanation {
	return Explanation{
		Formula:         fmt.Sprintf("area_sqm × %g + occupants × %g", f.BasePerSqm, f.PerOccupant),
		AreaSqm:         h.AreaSqm,
		Occupants:       h.Occupants,
		AreaAllowanceKg: precision.Round(h.AreaSqm*f.BasePerSqm, precision.Co2Kg),
		OccupantsKg:     precision.Round(float64(h.Occupants)*f.PerOccupant, precision.Co2Kg),
		AnnualLimitKg:   AnnualLimit(h, f),
	}
}

// StatusFor maps percentage used to a status: safe up to 70, warning up to 100.
func StatusFor(pct float64) Status {
	switch {
	case pct <= 70:
		return StatusSafe
	case pct <= 100:
		return StatusWarning
	default:
		return StatusExceeded
	}
}

// GradeFor maps percentage used to a letter grade.
func GradeFor(pct float64) Grade {
	switch {
	case pct < 50:
		return GradeAPlus
	case pct < 70:
		return GradeA
	case pct < 85:
		return GradeB
	case pct <= 100:
		return GradeC
	case pct < 120:
		return GradeD
	default:
		return GradeF
	}
}

// Color is the display color of a status.
func Color(s Status) string {
	switch s {
	case StatusSafe:
		return "green"
	case StatusWarning:
		return "yellow"
	default:
		return "red"
	}
}

// Message is the headline shown with a status.
func Message(s Status, pct, excess float64) string {
	switch s {
	case StatusSafe:
		return fmt.Sprintf("You have used %.1f%% of your annual carbon budget.", pct)
	case StatusWarning:
		return fmt.Sprintf("You have used %.1f%% of your annual carbon budget. Consider reducing consumption or offsetting.", pct)
	default:
		return fmt.Sprintf("You have exceeded your annual carbon budget by %.2f kg CO2. Purchase credits to offset the excess.", excess)
	}
}

// Evaluate computes the status of h given this year's emissions and active credits.
func Evaluate(h Household, totalEmittedKg, activeCreditsKg float64, opts Options) Result {
	annual := AnnualLimit(h, opts.Factors)
	net := precision.Sub(totalEmittedKg, activeCreditsKg, precision.Co2Kg)
	if net < 0 {
		net = 0
	}

	pct := 0.0
	if annual > 0 {
		pct = precision.Round(net/annual*100, precision.Percent)
	}

	excess := 0.0
	if net > annual {
		excess = precision.Sub(net, annual, precision.Money)
	}
	remaining := 0.0
	if annual > net {
		remaining = precision.Sub(annual, net, precision.Money)
	}

	status := StatusFor(pct)
	res := Result{
		Status:            status,
		Color:             Color(status),
		Grade:             GradeFor(pct),
		Message:           Message(status, pct, excess),
		AnnualLimitKg:     precision.Round(annual, precision.Money),
		TotalEmittedKg:    precision.Round(totalEmittedKg, precision.Money),
		ActiveCreditsKg:   precision.Round(activeCreditsKg, precision.Money),
		NetEmissionsKg:    precision.Round(net, precision.Money),
		PercentageUsed:    pct,
		ExcessCo2Kg:       excess,
		RemainingBudgetKg: remaining,
		NeedsCredits:      excess > 0,
		Explanation:       Explain(h, opts.Factors),
	}
	if excess > 0 {
		res.PurchaseOptions = PurchaseOptions(excess, opts.Offers)
	}
	return res
}

// PurchaseOptions prices covering amountKg with each offer, in catalog order.
func PurchaseOptions(amountKg float64, offers []CreditOffer) []PurchaseOption {
	if amountKg <= 0 {
		return nil
	}
	options := make([]PurchaseOption, 0, len(offers))
	for _, o := range offers {
		options = append(options, PurchaseOption{
			CreditOffer: o,
			AmountKgCo2: amountKg,
			TotalPrice:  precision.Mul(amountKg, o.PricePerKg, precision.Money),
		})
	}
	return options
}
