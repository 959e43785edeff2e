package models

import "time"

// Telemetry is what the meter reports. It is synthesized from the true
// flows and may be distorted by fault injection.
type Telemetry struct {
	VoltageV          float64 `json:"v_rms"`
	CurrentA          float64 `json:"i_rms"`
	ActivePowerKW     float64 `json:"p_active_kw"`
	ReactivePowerKVAr float64 `json:"q_reactive_kvar"`
	ApparentPowerKVA  float64 `json:"apparent_power_kva"`
	PowerFactor       float64 `json:"power_factor"`
	FrequencyHz       float64 `json:"frequency_hz"`
	THDPct            float64 `json:"thd_voltage_pct"`
	FlowDirection     string  `json:"flow_dir"` // import | export | idle
}

// Flow directions reported in telemetry.
const (
	FlowImport = "import"
	FlowExport = "export"
	FlowIdle   = "idle"
)

// PhysicalState is the ground truth of one meter after a tick.
// Signs: battery +charge/-discharge, grid +import/-export.
type PhysicalState struct {
	SimTime time.Time `json:"sim_time"`

	PVAvailableKW float64 `json:"pv_available_kw"`
	PVPowerKW     float64 `json:"pv_power_kw"`
	CurtailedKW   float64 `json:"curtailed_kw"`

	LoadDemandKW   float64 `json:"load_demand_kw"`
	LoadPowerKW    float64 `json:"load_power_kw"`
	UnservedLoadKW float64 `json:"unserved_load_kw"`
	EVPowerKW      float64 `json:"ev_power_kw"`

	BatteryPowerKW     float64 `json:"battery_power_kw"`
	BatterySOCPct      float64 `json:"battery_soc_pct"`
	BatteryCapacityKWh float64 `json:"battery_capacity_kwh"`

	GridPowerKW   float64 `json:"grid_power_kw"`
	TradeExportKW float64 `json:"trade_export_kw"`
	TradeImportKW float64 `json:"trade_import_kw"`

	CumImportKWh   float64 `json:"cum_import_kwh"`
	CumExportKWh   float64 `json:"cum_export_kwh"`
	CumTokenEarned float64 `json:"cum_token_earned"`
	CumCO2SavedKg  float64 `json:"cum_co2_saved_kg"`
	CumPVKWh       float64 `json:"cum_pv_kwh"`

	MarketPrice float64   `json:"market_price"`
	Telemetry   Telemetry `json:"telemetry"`
	Alarms      []string  `json:"alarms,omitempty"`
}

// StoredEnergyKWh is the energy currently held by the battery.
func (s PhysicalState) StoredEnergyKWh() float64 {
	return s.BatterySOCPct / 100 * s.BatteryCapacityKWh
}

// Clone returns a deep copy safe to hand to readers.
func (s PhysicalState) Clone() PhysicalState {
	out := s
	if s.Alarms != nil {
		out.Alarms = append([]string(nil), s.Alarms...)
	}
	return out
}

// BMS states derived from battery power.
const (
	BMSCharging    = "charging"
	BMSDischarging = "discharging"
	BMSIdle        = "idle"
)

// Derived holds values computed from a PhysicalState for dashboards.
type Derived struct {
	NetPowerKW            float64  `json:"net_power_kw"`
	SelfConsumptionPct    float64  `json:"self_consumption_pct"`
	AutonomyHours         *float64 `json:"autonomy_hours"`
	TimeToFullHours       *float64 `json:"time_to_full_hours"`
	TimeToEmptyHours      *float64 `json:"time_to_empty_hours"`
	AvailableChargeKWh    float64  `json:"available_charge_kwh"`
	AvailableDischargeKWh float64  `json:"available_discharge_kwh"`
	BMSStatus             string   `json:"bms_status"`
	GridStatus            string   `json:"grid_status"` // connected | island
}

// MarketSummary is the market block of a snapshot.
type MarketSummary struct {
	PendingOrders int        `json:"pending_orders"`
	CurrentPrice  float64    `json:"current_market_price"`
	LastTrade     *Execution `json:"last_trade,omitempty"`
}

// Snapshot is an immutable copy of a meter's state plus derived fields.
// One snapshot is one timeseries point.
type Snapshot struct {
	MeterID   string    `json:"meter_id"`
	Timestamp time.Time `json:"timestamp"`
	PhysicalState
	Derived  Derived       `json:"derived"`
	Market   MarketSummary `json:"market"`
	Switches Switches      `json:"switches"`
}

// Constants is the read-only static configuration surface.
type Constants struct {
	TokenRate           float64 `json:"token_rate"`
	CO2Factor           float64 `json:"co2_factor"`
	PVPeakKW            float64 `json:"pv_peak_kw"`
	BaseLoadKW          float64 `json:"base_load_kw"`
	BatteryCapacityKWh  float64 `json:"battery_capacity_kwh"`
	MaxChargeKW         float64 `json:"max_charge_kw"`
	MaxDischargeKW      float64 `json:"max_discharge_kw"`
	ChargeEfficiency    float64 `json:"charge_efficiency"`
	DischargeEfficiency float64 `json:"discharge_efficiency"`
	EVFastKW            float64 `json:"ev_fast_kw"`
	EVScheduledKW       float64 `json:"ev_scheduled_kw"`
	NominalVoltageV     float64 `json:"nominal_voltage_v"`
	NominalFrequencyHz  float64 `json:"nominal_frequency_hz"`
	EventLogCapacity    int     `json:"event_log_capacity"`
	TickSeconds         float64 `json:"tick_seconds"`
}

// Health is the liveness document.
type Health struct {
	Status           string             `json:"status"`
	TickRate         float64            `json:"tick_rate"`
	Meters           int                `json:"meters"`
	TimeAcceleration map[string]float64 `json:"time_acceleration"`
	QueueLengths     map[string]int     `json:"queue_lengths"`
}
