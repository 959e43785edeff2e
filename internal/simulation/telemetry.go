package simulation

import (
	"math"

	"github.com/JYunth/wattswap-sim-backend/internal/models"
)

// Baseline curves relating true grid flow to instrument readings.
const (
	voltageDroopVPerKW    = 0.5
	frequencyDroopHzPerKW = 0.01
	idlePowerFactor       = 0.99
	powerFactorSlope      = 0.004 // per kW of throughput
	powerFactorKneeKW     = 10
	baseTHDPct            = 2.0
	thdPctPerLoadKW       = 0.15
	minVoltageV           = 1.0
)

// Telemetry derives reported readings from the true flows. biasPct
// scales the magnitudes the instrument reports (V, I, P, Q, S); the
// physical state passed in is never modified.
func (m *Model) Telemetry(st models.PhysicalState, biasPct float64) models.Telemetry {
	g := st.GridPowerKW
	v := math.Max(m.p.NominalVoltageV-voltageDroopVPerKW*g, minVoltageV)
	pf := idlePowerFactor - powerFactorSlope*math.Min(math.Abs(g), powerFactorKneeKW)
	apparent := math.Abs(g) / pf
	reactive := math.Sqrt(math.Max(apparent*apparent-g*g, 0))
	current := math.Abs(g) * 1000 / v

	k := 1 + biasPct/100
	return models.Telemetry{
		VoltageV:          v * k,
		CurrentA:          current * k,
		ActivePowerKW:     g * k,
		ReactivePowerKVAr: reactive * k,
		ApparentPowerKVA:  apparent * k,
		PowerFactor:       pf,
		FrequencyHz:       m.p.NominalFrequencyHz - frequencyDroopHzPerKW*g,
		THDPct:            baseTHDPct + thdPctPerLoadKW*st.LoadPowerKW,
		FlowDirection:     flowDirection(g),
	}
}

func flowDirection(gridKW float64) string {
	switch {
	case gridKW > epsilon:
		return models.FlowImport
	case gridKW < -epsilon:
		return models.FlowExport
	default:
		return models.FlowIdle
	}
}
