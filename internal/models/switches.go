package models

import "math"

// EVMode selects how a plugged-in EV draws power.
type EVMode string

const (
	EVModeOff       EVMode = "off"
	EVModeFast      EVMode = "fast"
	EVModeScheduled EVMode = "scheduled"
)

// Valid reports whether m is a known EV mode.
func (m EVMode) Valid() bool {
	switch m {
	case EVModeOff, EVModeFast, EVModeScheduled:
		return true
	}
	return false
}

// Switch names accepted by set-switch commands.
const (
	SwitchDaytime           = "daytime"
	SwitchGridConnected     = "grid_connected"
	SwitchMarketEnabled     = "market_enabled"
	SwitchBatteryReservePct = "battery_reserve_pct"
	SwitchManualLoadDeltaKW = "manual_load_delta_kw"
	SwitchSunCloudFactor    = "sun_cloud_factor"
	SwitchEVPlug            = "ev_plug"
	SwitchEVMode            = "ev_mode"
	SwitchFaultInject       = "fault_inject"
	SwitchTimeAcceleration  = "time_acceleration"
)

// SwitchNames lists every switch in declaration order.
var SwitchNames = []string{
	SwitchDaytime,
	SwitchGridConnected,
	SwitchMarketEnabled,
	SwitchBatteryReservePct,
	SwitchManualLoadDeltaKW,
	SwitchSunCloudFactor,
	SwitchEVPlug,
	SwitchEVMode,
	SwitchFaultInject,
	SwitchTimeAcceleration,
}

// FaultInject distorts reported telemetry only.
type FaultInject struct {
	BiasPct float64 `json:"bias_pct" yaml:"bias_pct"`
}

// Switches are the mutable configuration knobs of one meter.
type Switches struct {
	Daytime           bool        `json:"daytime" yaml:"daytime"`
	GridConnected     bool        `json:"grid_connected" yaml:"grid_connected"`
	MarketEnabled     bool        `json:"market_enabled" yaml:"market_enabled"`
	BatteryReservePct float64     `json:"battery_reserve_pct" yaml:"battery_reserve_pct"`
	ManualLoadDeltaKW float64     `json:"manual_load_delta_kw" yaml:"manual_load_delta_kw"`
	SunCloudFactor    float64     `json:"sun_cloud_factor" yaml:"sun_cloud_factor"`
	EVPlug            bool        `json:"ev_plug" yaml:"ev_plug"`
	EVMode            EVMode      `json:"ev_mode" yaml:"ev_mode"`
	FaultInject       FaultInject `json:"fault_inject" yaml:"fault_inject"`
	TimeAcceleration  float64     `json:"time_acceleration" yaml:"time_acceleration"`
}

// DefaultSwitches is the nighttime baseline profile.
func DefaultSwitches() Switches {
	return Switches{
		Daytime:           false,
		GridConnected:     true,
		MarketEnabled:     false,
		BatteryReservePct: 20,
		ManualLoadDeltaKW: 0,
		SunCloudFactor:    1,
		EVPlug:            false,
		EVMode:            EVModeOff,
		TimeAcceleration:  1,
	}
}

// maxBiasPct bounds fault injection to a plausible instrument error.
const maxBiasPct = 100

// MaxTimeAcceleration caps the simulated seconds per wall second. At the
// cap a one hour wall gap still scales to a representable duration.
const MaxTimeAcceleration = 1e6

// Validate checks every switch against its declared range.
func (s Switches) Validate() error {
	if !finite(s.BatteryReservePct) || s.BatteryReservePct < 0 || s.BatteryReservePct > 100 {
		return Invalid(SwitchBatteryReservePct, "must be within [0,100], got %v", s.BatteryReservePct)
	}
	if !finite(s.ManualLoadDeltaKW) {
		return Invalid(SwitchManualLoadDeltaKW, "must be a finite number")
	}
	if !finite(s.SunCloudFactor) || s.SunCloudFactor < 0 || s.SunCloudFactor > 1 {
		return Invalid(SwitchSunCloudFactor, "must be within [0,1], got %v", s.SunCloudFactor)
	}
	if !s.EVMode.Valid() {
		return Invalid(SwitchEVMode, "must be one of off, fast, scheduled, got %q", s.EVMode)
	}
	if !finite(s.FaultInject.BiasPct) || math.Abs(s.FaultInject.BiasPct) > maxBiasPct {
		return Invalid(SwitchFaultInject, "bias_pct must be within [-%d,%d]", maxBiasPct, maxBiasPct)
	}
	if !finite(s.TimeAcceleration) || s.TimeAcceleration < 0 || s.TimeAcceleration > MaxTimeAcceleration {
		return Invalid(SwitchTimeAcceleration, "must be within [0,%g], got %v", float64(MaxTimeAcceleration), s.TimeAcceleration)
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
