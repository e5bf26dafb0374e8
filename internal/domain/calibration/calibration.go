// Package calibration converts raw sensor readings into physical quantities.
//
// The current sensor is a Hall-effect module whose output voltage sits at a
// fixed offset at zero current and moves linearly with amperage. The CO2
// sensor reports a ppm value that is clamped into the range it can measure.
package calibration

import (
	"math"

	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/pkg/apperr"
	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/pkg/precision"
)

const (
	// DefaultPowerFactor applies when a reading carries no power factor.
	DefaultPowerFactor = 0.9
	// DefaultDurationSeconds is the sampling window assumed for raw readings.
	DefaultDurationSeconds = 300.0
)

var (
	ErrNoReading = apperr.Validation("READING_REQUIRED",
		"At least one of raw_current_volts, raw_co2_ppm, electricity_kwh or combustion_ppm is required")
	ErrNegativeReading = apperr.Validation("NEGATIVE_READING", "Readings cannot be negative")
	ErrInvalidDuration = apperr.Validation("INVALID_DURATION", "duration_seconds must be positive")
)

// Profile holds the constants of one sensor installation.
type Profile struct {
	VoltageOffset  float64 // V at zero current
	Sensitivity    float64 // V per A
	NoiseFloorAmps float64
	SystemVoltage  float64
	Co2BaselinePpm float64
	Co2CeilingPpm  float64
}

// DefaultProfile returns the constants of the reference ACS712-5A installation.
func DefaultProfile() Profile {
	return Profile{
		VoltageOffset:  2.5,
		Sensitivity:    0.185,
		NoiseFloorAmps: 0.05,
		SystemVoltage:  230,
		Co2BaselinePpm: 400,
		Co2CeilingPpm:  10000,
	}
}

// CalibrateCurrent converts the sensor output voltage to amps.
// Readings under the noise floor are reported as zero.
func (p Profile) CalibrateCurrent(rawVoltage float64) float64 {
	if p.Sensitivity <= 0 {
		return 0
	}
	amps := math.Abs(rawVoltage-p.VoltageOffset) / p.Sensitivity
	if amps < p.NoiseFloorAmps {
		return 0
	}
	return precision.Round(amps, precision.Amps)
}

// AmpsToPower returns real power in watts.
func (p Profile) AmpsToPower(amps, powerFactor float64) float64 {
	if powerFactor <= 0 {
		powerFactor = DefaultPowerFactor
	}
	return precision.Round(p.SystemVoltage*amps*powerFactor, precision.Watts)
}

// PowerToEnergy converts watts held for hours into kWh.
func PowerToEnergy(watts, hours float64) float64 {
	return precision.Round(watts*hours/1000, precision.Kwh)
}

// CalibrateCo2Ppm clamps a raw CO2 reading into the measurable range.
func (p Profile) CalibrateCo2Ppm(raw float64) float64 {
	v := math.Max(p.Co2BaselinePpm, math.Min(raw, p.Co2CeilingPpm))
	return precision.Round(v, precision.Ppm)
}
