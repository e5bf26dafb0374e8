package calibration

import "github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/pkg/precision"

// RawReading is a single device upload. Either raw sensor values or
// precomputed quantities may be present; raw values win when both are.
type RawReading struct {
	RawCurrentVolts *float64 `json:"raw_current_volts,omitempty"`
	RawCo2Ppm       *float64 `json:"raw_co2_ppm,omitempty"`
	DurationSeconds *float64 `json:"duration_seconds,omitempty"`
	PowerFactor     *float64 `json:"power_factor,omitempty"`
	ElectricityKwh  *float64 `json:"electricity_kwh,omitempty"`
	CombustionPpm   *float64 `json:"combustion_ppm,omitempty"`
}

// Measurement is the calibrated form of a RawReading.
type Measurement struct {
	ElectricityKwh float64 `json:"electricity_kwh"`
	CombustionPpm  float64 `json:"combustion_ppm"`
	CurrentAmps    float64 `json:"current_amps"`
	PowerWatts     float64 `json:"power_watts"`
	FromRaw        bool    `json:"from_raw"`
}

// Convert turns a device upload into electricity energy and combustion ppm.
func (p Profile) Convert(r RawReading) (Measurement, error) {
	if r.RawCurrentVolts == nil && r.RawCo2Ppm == nil && r.ElectricityKwh == nil && r.CombustionPpm == nil {
		return Measurement{}, ErrNoReading
	}

	var m Measurement

	switch {
	case r.RawCurrentVolts != nil:
		duration := DefaultDurationSeconds
		if r.DurationSeconds != nil {
			duration = *r.DurationSeconds
		}
		if duration <= 0 {
			return Measurement{}, ErrInvalidDuration
		}
		pf := 0.0
		if r.PowerFactor != nil {
			pf = *r.PowerFactor
		}
		m.CurrentAmps = p.CalibrateCurrent(*r.RawCurrentVolts)
		m.PowerWatts = p.AmpsToPower(m.CurrentAmps, pf)
		m.ElectricityKwh = PowerToEnergy(m.PowerWatts, duration/3600)
		m.FromRaw = true
	case r.ElectricityKwh != nil:
		m.ElectricityKwh = precision.Round(*r.ElectricityKwh, precision.Kwh)
	}

	switch {
	case r.RawCo2Ppm != nil:
		m.CombustionPpm = p.CalibrateCo2Ppm(*r.RawCo2Ppm)
		m.FromRaw = true
	case r.CombustionPpm != nil:
		m.CombustionPpm = precision.Round(*r.CombustionPpm, precision.Ppm)
	}

	if m.ElectricityKwh < 0 || m.CombustionPpm < 0 {
		return Measurement{}, ErrNegativeReading
	}
	return m, nil
}
