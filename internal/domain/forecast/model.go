// Package forecast projects a household's daily emissions from its history.
//
// The model is a least-squares trend over daily totals. It is a plain value
// returned by Train and passed to Predict, so concurrent requests never share
// fitted state.
package forecast

import (
	"math"
	"sort"
	"time"

	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/pkg/apperr"
	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/pkg/precision"
)

// MinTrainingDays is the minimum number of daily totals Train accepts.
const MinTrainingDays = 7

const day = 24 * time.Hour

var ErrInsufficientHistory = apperr.Validation("INSUFFICIENT_HISTORY", "At least 7 days of emission records are needed to train the model")

// DailyTotal is the emission total of one UTC day.
type DailyTotal struct {
	Day        time.Time `json:"day"`
	TotalCo2Kg float64   `json:"total_co2_kg"`
}

// Model is a fitted trend: kg = Intercept + Slope * days since Origin.
type Model struct {
	Origin    time.Time `json:"origin"`
	Intercept float64   `json:"intercept"`
	Slope     float64   `json:"slope_per_day"`
	R2        float64   `json:"r2_score"`
	Samples   int       `json:"training_samples"`
	MeanKg    float64   `json:"mean_daily_kg"`
}

// Point is one predicted day.
type Point struct {
	Date           string  `json:"date"`
	PredictedCo2Kg float64 `json:"predicted_co2_kg"`
}

// Train fits a trend over history. Days may be missing; each total is
// placed at its distance in days from the earliest one.
func Train(history []DailyTotal) (Model, error) {
	if len(history) < MinTrainingDays {
		return Model{}, ErrInsufficientHistory
	}

	pts := make([]DailyTotal, len(history))
	copy(pts, history)
	sort.Slice(pts, func(i, j int) bool { return pts[i].Day.Before(pts[j].Day) })
	origin := truncateDay(pts[0].Day)

	n := float64(len(pts))
	var sumX, sumY, sumXY, sumXX float64
	xs := make([]float64, len(pts))
	for i, p := range pts {
		x := truncateDay(p.Day).Sub(origin).Hours() / 24
		xs[i] = x
		sumX += x
		sumY += p.TotalCo2Kg
		sumXY += x * p.TotalCo2Kg
		sumXX += x * x
	}

	meanX, meanY := sumX/n, sumY/n
	slope := 0.0
	if den := sumXX - n*meanX*meanX; den != 0 {
		slope = (sumXY - n*meanX*meanY) / den
	}
	intercept := meanY - slope*meanX

	var ssRes, ssTot float64
	for i, p := range pts {
		fit := intercept + slope*xs[i]
		ssRes += (p.TotalCo2Kg - fit) * (p.TotalCo2Kg - fit)
		ssTot += (p.TotalCo2Kg - meanY) * (p.TotalCo2Kg - meanY)
	}
	r2 := 1.0
	if ssTot > 0 {
		r2 = 1 - ssRes/ssTot
	}

	return Model{
		Origin:    origin,
		Intercept: precision.Round(intercept, precision.Co2Kg),
		Slope:     precision.Round(slope, precision.Co2Kg),
		R2:        precision.Round(r2, precision.Co2Kg),
		Samples:   len(pts),
		MeanKg:    precision.Round(meanY, precision.Co2Kg),
	}, nil
}

// Predict returns days predictions starting the day after from. Predictions
// are never negative.
func Predict(m Model, from time.Time, days int) []Point {
	start := truncateDay(from)
	out := make([]Point, 0, days)
	for i := 1; i <= days; i++ {
		d := start.Add(time.Duration(i) * day)
		x := d.Sub(m.Origin).Hours() / 24
		kg := math.Max(0, m.Intercept+m.Slope*x)
		out = append(out, Point{
			Date:           d.Format(time.DateOnly),
			PredictedCo2Kg: precision.Round(kg, precision.Money),
		})
	}
	return out
}

// Explanation describes a model for display.
type Explanation struct {
	ModelType string   `json:"model_type"`
	Formula   string   `json:"formula"`
	Features  []string `json:"features"`
	Model     Model    `json:"model"`
	Notes     string   `json:"notes"`
}

// Explain returns the coefficients and how they are used.
func Explain(m Model) Explanation {
	return Explanation{
		ModelType: "Linear Regression",
		Formula:   "predicted_kg = intercept + slope_per_day * days_since_origin",
		Features:  []string{"days_since_origin"},
		Model:     m,
		Notes:     "Used only to forecast. Recorded emissions are always computed from measured readings.",
	}
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
