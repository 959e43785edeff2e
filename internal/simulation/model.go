package simulation

import (
	"time"

	"github.com/JYunth/wattswap-sim-backend/internal/models"
)

// Model is the deterministic physical model of one prosumer installation.
// It holds no per-meter state and is safe for concurrent use.
type Model struct {
	p Params
}

// NewModel validates params and returns a model.
func NewModel(p Params) (*Model, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Model{p: p}, nil
}

// Params returns the model constants.
func (m *Model) Params() Params { return m.p }

// InitialState is the state of a freshly provisioned meter at start.
func (m *Model) InitialState(start time.Time) models.PhysicalState {
	st := models.PhysicalState{
		SimTime:            start,
		BatterySOCPct:      m.p.InitialSOCPct,
		BatteryCapacityKWh: m.p.BatteryCapacityKWh,
	}
	st.Telemetry = m.Telemetry(st, 0)
	return st
}

// Advance runs the household dispatch for one tick of simulated time dt
// and integrates the household energy counters. The returned Step can
// still take trade fills before Finish produces the final state.
func (m *Model) Advance(sw models.Switches, prev models.PhysicalState, dt time.Duration) *Step {
	if dt < 0 {
		dt = 0
	}
	dtH := dt.Hours()

	st := prev.Clone()
	st.SimTime = prev.SimTime.Add(dt)
	st.BatteryCapacityKWh = m.p.BatteryCapacityKWh
	st.TradeExportKW, st.TradeImportKW = 0, 0

	// 1-3: generation, load, net before storage
	pvAvail := 0.0
	if sw.Daytime {
		pvAvail = m.p.PVPeakKW * sw.SunCloudFactor
	}
	ev := m.evLoadKW(sw, prev.SimTime)
	demand := max(m.p.BaseLoadKW+sw.ManualLoadDeltaKW+ev, 0)
	net := pvAvail - demand

	// 4: battery dispatch
	stored := min(prev.StoredEnergyKWh(), m.p.BatteryCapacityKWh)
	floor := sw.BatteryReservePct / 100 * m.p.BatteryCapacityKWh
	var battery, surplus, deficit float64
	if net >= 0 {
		battery = min(net, m.p.MaxChargeKW, m.chargeHeadroomKW(stored, dtH))
		surplus = net - battery
	} else {
		d := min(-net, m.p.MaxDischargeKW, m.dischargeHeadroomKW(stored, floor, dtH))
		if d > 0 {
			battery = -d
		}
		deficit = -net - d
	}

	// 5: grid settlement or island degradation
	pv, load, grid := pvAvail, demand, 0.0
	var curtailed, unserved float64
	if sw.GridConnected {
		grid = deficit - surplus
	} else {
		curtailed, unserved = surplus, deficit
		pv -= surplus
		load -= deficit
	}

	st.PVAvailableKW = pvAvail
	st.PVPowerKW = pv
	st.CurtailedKW = curtailed
	st.LoadDemandKW = demand
	st.LoadPowerKW = load
	st.UnservedLoadKW = unserved
	st.EVPowerKW = ev
	st.BatteryPowerKW = battery
	st.GridPowerKW = grid

	s := &Step{
		model:      m,
		sw:         sw,
		state:      st,
		prevAlarms: prev.Alarms,
		start:      prev.SimTime,
		dtH:        dtH,
		startKWh:   stored,
		floorKWh:   floor,
		deficitKW:  deficit,
	}
	s.applyBattery()

	// 6: integration of the household flow
	s.state.CumImportKWh += max(grid, 0) * dtH
	s.creditExport(max(-grid, 0) * dtH)
	s.state.CumPVKWh += pv * dtH
	return s
}

func (m *Model) evLoadKW(sw models.Switches, at time.Time) float64 {
	if !sw.EVPlug {
		return 0
	}
	switch sw.EVMode {
	case models.EVModeFast:
		return m.p.EVFastKW
	case models.EVModeScheduled:
		if m.inEVWindow(at.Hour()) {
			return m.p.EVScheduledKW
		}
	}
	return 0
}

func (m *Model) inEVWindow(hour int) bool {
	start, end := m.p.EVWindowStartHour, m.p.EVWindowEndHour
	switch {
	case start == end:
		return false
	case start < end:
		return hour >= start && hour < end
	default: // wraps midnight
		return hour >= start || hour < end
	}
}

// chargeHeadroomKW is the bus-side power that fills the battery within dtH.
func (m *Model) chargeHeadroomKW(storedKWh, dtH float64) float64 {
	room := m.p.BatteryCapacityKWh - storedKWh
	if room <= 0 {
		return 0
	}
	if dtH <= 0 {
		return m.p.MaxChargeKW
	}
	return room / (m.p.ChargeEfficiency * dtH)
}

// dischargeHeadroomKW is the bus-side power that empties the battery down
// to floorKWh within dtH.
func (m *Model) dischargeHeadroomKW(storedKWh, floorKWh, dtH float64) float64 {
	avail := storedKWh - floorKWh
	if avail <= 0 {
		return 0
	}
	if dtH <= 0 {
		return m.p.MaxDischargeKW
	}
	return avail * m.p.DischargeEfficiency / dtH
}

// storedDeltaKWh converts bus-side battery power into stored energy change.
func (m *Model) storedDeltaKWh(batteryKW, dtH float64) float64 {
	if batteryKW >= 0 {
		return batteryKW * m.p.ChargeEfficiency * dtH
	}
	return batteryKW / m.p.DischargeEfficiency * dtH
}

func clampPct(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 100 {
		return 100
	}
	return x
}
