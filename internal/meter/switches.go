package meter

import (
	"encoding/json"

	"github.com/JYunth/wattswap-sim-backend/internal/models"
)

// applySwitch sets one switch from a decoded JSON value. The value must
// match the switch's declared type; range checks are left to
// Switches.Validate.
func applySwitch(sw *models.Switches, name string, value any) error {
	switch name {
	case models.SwitchDaytime:
		return setBool(&sw.Daytime, name, value)
	case models.SwitchGridConnected:
		return setBool(&sw.GridConnected, name, value)
	case models.SwitchMarketEnabled:
		return setBool(&sw.MarketEnabled, name, value)
	case models.SwitchEVPlug:
		return setBool(&sw.EVPlug, name, value)
	case models.SwitchBatteryReservePct:
		return setFloat(&sw.BatteryReservePct, name, value)
	case models.SwitchManualLoadDeltaKW:
		return setFloat(&sw.ManualLoadDeltaKW, name, value)
	case models.SwitchSunCloudFactor:
		return setFloat(&sw.SunCloudFactor, name, value)
	case models.SwitchTimeAcceleration:
		return setFloat(&sw.TimeAcceleration, name, value)
	case models.SwitchEVMode:
		s, ok := value.(string)
		if !ok {
			return models.Invalid(name, "expected a string, got %T", value)
		}
		sw.EVMode = models.EVMode(s)
		return nil
	case models.SwitchFaultInject:
		return setFaultInject(&sw.FaultInject, value)
	}
	return models.Invalid("switch", "unknown switch %q", name)
}

// switchValue reads one switch for change events.
func switchValue(sw models.Switches, name string) any {
	switch name {
	case models.SwitchDaytime:
		return sw.Daytime
	case models.SwitchGridConnected:
		return sw.GridConnected
	case models.SwitchMarketEnabled:
		return sw.MarketEnabled
	case models.SwitchEVPlug:
		return sw.EVPlug
	case models.SwitchBatteryReservePct:
		return sw.BatteryReservePct
	case models.SwitchManualLoadDeltaKW:
		return sw.ManualLoadDeltaKW
	case models.SwitchSunCloudFactor:
		return sw.SunCloudFactor
	case models.SwitchTimeAcceleration:
		return sw.TimeAcceleration
	case models.SwitchEVMode:
		return string(sw.EVMode)
	case models.SwitchFaultInject:
		return sw.FaultInject.BiasPct
	}
	return nil
}

func setBool(dst *bool, name string, value any) error {
	b, ok := value.(bool)
	if !ok {
		return models.Invalid(name, "expected a boolean, got %T", value)
	}
	*dst = b
	return nil
}

func setFloat(dst *float64, name string, value any) error {
	f, ok := toFloat(value)
	if !ok {
		return models.Invalid(name, "expected a number, got %T", value)
	}
	*dst = f
	return nil
}

// setFaultInject accepts {"bias_pct": n} or a bare bias number.
func setFaultInject(dst *models.FaultInject, value any) error {
	switch v := value.(type) {
	case models.FaultInject:
		*dst = v
		return nil
	case map[string]any:
		for k := range v {
			if k != "bias_pct" {
				return models.Invalid(models.SwitchFaultInject, "unknown field %q", k)
			}
		}
		raw, ok := v["bias_pct"]
		if !ok {
			return models.Invalid(models.SwitchFaultInject, "bias_pct is required")
		}
		return setFloat(&dst.BiasPct, models.SwitchFaultInject, raw)
	}
	return setFloat(&dst.BiasPct, models.SwitchFaultInject, value)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
