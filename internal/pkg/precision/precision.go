// Package precision rounds measured and monetary quantities through decimal
// arithmetic so that stored values do not drift with binary float artifacts.
package precision

import "github.com/shopspring/decimal"

// Decimal places used across the domain.
const (
	Amps    int32 = 4
	Watts   int32 = 4
	Kwh     int32 = 6
	Ppm     int32 = 4
	Co2Kg   int32 = 4
	Percent int32 = 2
	Money   int32 = 2
)

// Round rounds v half away from zero to the given number of places.
func Round(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

// Sum adds values exactly and rounds the result once.
func Sum(places int32, values ...float64) float64 {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(decimal.NewFromFloat(v))
	}
	return total.Round(places).InexactFloat64()
}

// Sub returns a-b rounded to places.
func Sub(a, b float64, places int32) float64 {
	return decimal.NewFromFloat(a).Sub(decimal.NewFromFloat(b)).Round(places).InexactFloat64()
}

// Mul returns a*b rounded to places.
func Mul(a, b float64, places int32) float64 {
	return decimal.NewFromFloat(a).Mul(decimal.NewFromFloat(b)).Round(places).InexactFloat64()
}

// Cmp compares a and b after rounding both to places.
// It returns -1, 0 or +1.
func Cmp(a, b float64, places int32) int {
	return decimal.NewFromFloat(a).Round(places).Cmp(decimal.NewFromFloat(b).Round(places))
}
