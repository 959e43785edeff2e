package models

import "time"

// Severity of a meter event.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Valid reports whether s is a known severity.
func (s Severity) Valid() bool {
	switch s {
	case SeverityInfo, SeverityWarning, SeverityError:
		return true
	}
	return false
}

// Event categories.
const (
	CategoryCurtailed         = "curtailed_kw"
	CategoryUndervoltageRisk  = "undervoltage_risk"
	CategoryLowBattery        = "low_battery"
	CategorySensorCalibration = "sensor_calibration_warning"
	CategoryOrderAccepted     = "order_accepted"
	CategoryOrderFilled       = "order_filled"
	CategoryOrderExecuted     = "order_executed"
	CategoryOrderFailed       = "order_failed"
	CategoryOrderExpired      = "order_expired"
	CategoryOrderCancelled    = "order_cancelled"
	CategorySwitchChanged     = "switch_changed"
	CategoryProfileApplied    = "profile_applied"
	CategoryTickSkipped       = "tick_skipped"
	CategoryMeterProvisioned  = "meter_provisioned"
)

// Event is a single entry of a meter's event log.
type Event struct {
	EventID   string    `json:"event_id"`
	Timestamp time.Time `json:"timestamp"` // simulated time
	MeterID   string    `json:"meter_id"`
	Severity  Severity  `json:"severity"`
	Category  string    `json:"category"`
	Message   string    `json:"message"`
	Metadata  any       `json:"metadata,omitempty"`
}

// Notice is an event produced by the engine before it is stamped with
// an id, meter and timestamp by the owning meter.
type Notice struct {
	Severity Severity
	Category string
	Message  string
	Metadata map[string]any
}
