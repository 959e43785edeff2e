package simulation

import (
	"errors"
	"fmt"
)

// Params defines the physical constants of a prosumer installation.
// Units:
// - powers: kW
// - energies: kWh
// - efficiencies: 0..1, applied to stored energy only
// - SOC: percent 0..100
type Params struct {
	PVPeakKW   float64 `mapstructure:"pv_peak_kw"`
	BaseLoadKW float64 `mapstructure:"base_load_kw"`

	BatteryCapacityKWh  float64 `mapstructure:"battery_capacity_kwh"`
	InitialSOCPct       float64 `mapstructure:"initial_soc_pct"`
	MaxChargeKW         float64 `mapstructure:"max_charge_kw"`
	MaxDischargeKW      float64 `mapstructure:"max_discharge_kw"`
	ChargeEfficiency    float64 `mapstructure:"charge_efficiency"`
	DischargeEfficiency float64 `mapstructure:"discharge_efficiency"`

	EVFastKW      float64 `mapstructure:"ev_fast_kw"`
	EVScheduledKW float64 `mapstructure:"ev_scheduled_kw"`
	// Scheduled EV charging runs in [EVWindowStartHour, EVWindowEndHour)
	// of the simulated local day; the window may wrap midnight.
	EVWindowStartHour int `mapstructure:"ev_window_start_hour"`
	EVWindowEndHour   int `mapstructure:"ev_window_end_hour"`

	TokenRate float64 `mapstructure:"token_rate"`
	CO2Factor float64 `mapstructure:"co2_factor"`

	// GridCapacityKW caps the net grid power reachable by trades; 0 is unbounded.
	GridCapacityKW float64 `mapstructure:"grid_capacity_kw"`

	NominalVoltageV    float64 `mapstructure:"nominal_voltage_v"`
	NominalFrequencyHz float64 `mapstructure:"nominal_frequency_hz"`
	// CalibrationWarnPct is the |bias_pct| above which a calibration warning is raised.
	CalibrationWarnPct float64 `mapstructure:"calibration_warn_pct"`
}

// DefaultParams returns the reference installation.
func DefaultParams() Params {
	return Params{
		PVPeakKW:            4.0,
		BaseLoadKW:          1.5,
		BatteryCapacityKWh:  10.0,
		InitialSOCPct:       20.0,
		MaxChargeKW:         3.0,
		MaxDischargeKW:      3.0,
		ChargeEfficiency:    0.96,
		DischargeEfficiency: 0.96,
		EVFastKW:            3.0,
		EVScheduledKW:       3.0,
		EVWindowStartHour:   0,
		EVWindowEndHour:     6,
		TokenRate:           0.08,
		CO2Factor:           0.45,
		GridCapacityKW:      0,
		NominalVoltageV:     230,
		NominalFrequencyHz:  50,
		CalibrationWarnPct:  5,
	}
}

// Validate rejects physically meaningless parameter sets.
func (p Params) Validate() error {
	if p.PVPeakKW < 0 {
		return errors.New("pv_peak_kw must be >= 0")
	}
	if p.BaseLoadKW < 0 {
		return errors.New("base_load_kw must be >= 0")
	}
	if p.BatteryCapacityKWh <= 0 {
		return errors.New("battery_capacity_kwh must be > 0")
	}
	if p.InitialSOCPct < 0 || p.InitialSOCPct > 100 {
		return errors.New("initial_soc_pct must be within [0,100]")
	}
	if p.MaxChargeKW < 0 || p.MaxDischargeKW < 0 {
		return errors.New("max_charge_kw and max_discharge_kw must be >= 0")
	}
	if p.ChargeEfficiency <= 0 || p.ChargeEfficiency > 1 {
		return errors.New("charge_efficiency must be in (0, 1]")
	}
	if p.DischargeEfficiency <= 0 || p.DischargeEfficiency > 1 {
		return errors.New("discharge_efficiency must be in (0, 1]")
	}
	if p.EVFastKW < 0 || p.EVScheduledKW < 0 {
		return errors.New("ev draws must be >= 0")
	}
	if !validHour(p.EVWindowStartHour) || !validHour(p.EVWindowEndHour) {
		return fmt.Errorf("ev window hours must be within [0,24], got %d-%d", p.EVWindowStartHour, p.EVWindowEndHour)
	}
	if p.TokenRate < 0 || p.CO2Factor < 0 {
		return errors.New("token_rate and co2_factor must be >= 0")
	}
	if p.GridCapacityKW < 0 {
		return errors.New("grid_capacity_kw must be >= 0")
	}
	if p.NominalVoltageV <= 0 || p.NominalFrequencyHz <= 0 {
		return errors.New("nominal voltage and frequency must be > 0")
	}
	if p.CalibrationWarnPct < 0 {
		return errors.New("calibration_warn_pct must be >= 0")
	}
	return nil
}

func validHour(h int) bool { return h >= 0 && h <= 24 }
