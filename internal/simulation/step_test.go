package simulation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JYunth/wattswap-sim-backend/internal/models"
)

func daytime() models.Switches {
	sw := models.DefaultSwitches()
	sw.Daytime = true
	sw.MarketEnabled = true
	return sw
}

func TestStep_ExportDivertsCharging(t *testing.T) {
	m := newTestModel(t)
	s := m.Advance(daytime(), m.InitialState(t0), time.Hour)

	assert.InDelta(t, 2.5, s.ExportCapacityKWh(), tol)
	assert.InDelta(t, 1.5, s.Export(1.5), tol)

	st, _ := s.Finish()
	assert.InDelta(t, 1.0, st.BatteryPowerKW, tol)
	assert.InDelta(t, -1.5, st.GridPowerKW, tol)
	assert.InDelta(t, 1.5, st.TradeExportKW, tol)
	assert.InDelta(t, 29.6, st.BatterySOCPct, 1e-9)
	assert.InDelta(t, 1.5, st.CumExportKWh, tol)
	assert.InDelta(t, 0.12, st.CumTokenEarned, tol)
	assert.InDelta(t, 0.675, st.CumCO2SavedKg, tol)
	assertBalanced(t, st)
}

func TestStep_ExportNeverBreaksReserve(t *testing.T) {
	m := newTestModel(t)
	st := m.InitialState(t0)
	st.BatterySOCPct = 60

	s := m.Advance(models.DefaultSwitches(), st, time.Hour)
	// discharge rating leaves 1.5 kW on top of the 1.5 kW household draw
	assert.InDelta(t, 1.5, s.ExportCapacityKWh(), tol)
	assert.InDelta(t, 1.5, s.Export(2), tol)
	assert.Equal(t, 0.0, s.Export(1))

	next, _ := s.Finish()
	assert.InDelta(t, -3.0, next.BatteryPowerKW, tol)
	assert.InDelta(t, 28.75, next.BatterySOCPct, 1e-9)
	assert.GreaterOrEqual(t, next.BatterySOCPct, 20.0)
	assertBalanced(t, next)

	atReserve := m.InitialState(t0)
	s = m.Advance(models.DefaultSwitches(), atReserve, time.Hour)
	assert.Equal(t, 0.0, s.ExportCapacityKWh())
}

func TestStep_ImportChargesBattery(t *testing.T) {
	m := newTestModel(t)
	s := m.Advance(models.DefaultSwitches(), m.InitialState(t0), time.Hour)

	assert.InDelta(t, 3.0, s.ImportCapacityKWh(), tol)
	assert.InDelta(t, 2.0, s.Import(2), tol)
	assert.InDelta(t, 1.0, s.Import(5), tol)

	st, _ := s.Finish()
	assert.InDelta(t, 3.0, st.BatteryPowerKW, tol)
	assert.InDelta(t, 4.5, st.GridPowerKW, tol)
	assert.InDelta(t, 3.0, st.TradeImportKW, tol)
	assert.InDelta(t, 48.8, st.BatterySOCPct, 1e-9)
	assert.InDelta(t, 4.5, st.CumImportKWh, tol)
	assertBalanced(t, st)
}

func TestStep_IslandHasNoTradeCapacity(t *testing.T) {
	m := newTestModel(t)
	sw := daytime()
	sw.GridConnected = false
	s := m.Advance(sw, m.InitialState(t0), time.Hour)

	assert.Equal(t, 0.0, s.ExportCapacityKWh())
	assert.Equal(t, 0.0, s.ImportCapacityKWh())
	assert.Equal(t, 0.0, s.Import(1))
}

func TestStep_GridCapacityPolicy(t *testing.T) {
	p := DefaultParams()
	p.GridCapacityKW = 2
	m, err := NewModel(p)
	require.NoError(t, err)

	s := m.Advance(daytime(), m.InitialState(t0), time.Hour)
	assert.InDelta(t, 2.0, s.ExportCapacityKWh(), tol)

	s = m.Advance(models.DefaultSwitches(), m.InitialState(t0), time.Hour)
	assert.InDelta(t, 0.5, s.ImportCapacityKWh(), tol)
}

func TestStep_Times(t *testing.T) {
	m := newTestModel(t)
	s := m.Advance(models.DefaultSwitches(), m.InitialState(t0), 90*time.Second)
	assert.Equal(t, t0, s.StartTime())
	assert.Equal(t, t0.Add(90*time.Second), s.SimTime())
	assert.InDelta(t, 0.025, s.Hours(), tol)
}

func TestTelemetry_Curves(t *testing.T) {
	m := newTestModel(t)

	idle := m.Telemetry(models.PhysicalState{}, 0)
	assert.Equal(t, 230.0, idle.VoltageV)
	assert.Equal(t, 50.0, idle.FrequencyHz)
	assert.InDelta(t, 0.99, idle.PowerFactor, tol)
	assert.Equal(t, models.FlowIdle, idle.FlowDirection)

	imp := m.Telemetry(models.PhysicalState{GridPowerKW: 10, LoadPowerKW: 10}, 0)
	assert.InDelta(t, 225.0, imp.VoltageV, tol)
	assert.InDelta(t, 49.9, imp.FrequencyHz, tol)
	assert.InDelta(t, 0.95, imp.PowerFactor, tol)
	assert.InDelta(t, 10000.0/225, imp.CurrentA, 1e-9)
	assert.InDelta(t, 10/0.95, imp.ApparentPowerKVA, 1e-9)
	assert.InDelta(t, 3.5, imp.THDPct, tol)
	assert.Equal(t, models.FlowImport, imp.FlowDirection)

	exp := m.Telemetry(models.PhysicalState{GridPowerKW: -2}, 10)
	assert.InDelta(t, 231*1.1, exp.VoltageV, 1e-9)
	assert.InDelta(t, -2.2, exp.ActivePowerKW, 1e-9)
	assert.Equal(t, models.FlowExport, exp.FlowDirection)
}
