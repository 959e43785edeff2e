package simulation

import (
	"fmt"
	"math"
	"time"

	"github.com/JYunth/wattswap-sim-backend/internal/models"
)

// epsilon below which powers and energies count as zero.
const epsilon = 1e-9

// Step is one tick in progress. Advance creates it with the household
// flow applied; the market engine draws trade energy through Export and
// Import; Finish synthesizes telemetry and evaluates alarms.
//
// A Step is owned by the meter applying the tick and is not safe for
// concurrent use.
type Step struct {
	model      *Model
	sw         models.Switches
	state      models.PhysicalState
	prevAlarms []string

	start     time.Time
	dtH       float64
	startKWh  float64
	floorKWh  float64
	deficitKW float64
}

// StartTime is the simulated time at the beginning of the tick.
func (s *Step) StartTime() time.Time { return s.start }

// SimTime is the simulated time at the end of the tick.
func (s *Step) SimTime() time.Time { return s.state.SimTime }

// Hours is the simulated length of the tick.
func (s *Step) Hours() float64 { return s.dtH }

// State is a copy of the in-progress state.
func (s *Step) State() models.PhysicalState { return s.state.Clone() }

// SetMarketPrice records the price prevailing during the tick.
func (s *Step) SetMarketPrice(p float64) { s.state.MarketPrice = p }

// ExportCapacityKWh is the extra energy that can be exported this tick:
// battery charging that can be diverted plus discharge headroom above
// the reserve floor, bounded by the battery power rating.
func (s *Step) ExportCapacityKWh() float64 {
	if s.dtH <= 0 || !s.sw.GridConnected {
		return 0
	}
	p := s.model.p
	minBattery := -min(p.MaxDischargeKW, s.model.dischargeHeadroomKW(s.startKWh, s.floorKWh, s.dtH))
	kw := s.state.BatteryPowerKW - minBattery
	if p.GridCapacityKW > 0 {
		kw = min(kw, s.state.GridPowerKW+p.GridCapacityKW)
	}
	return max(kw, 0) * s.dtH
}

// ImportCapacityKWh is the extra energy that can be bought into the
// battery this tick, bounded by charge rating and headroom to full.
func (s *Step) ImportCapacityKWh() float64 {
	if s.dtH <= 0 || !s.sw.GridConnected {
		return 0
	}
	p := s.model.p
	maxBattery := min(p.MaxChargeKW, s.model.chargeHeadroomKW(s.startKWh, s.dtH))
	kw := maxBattery - s.state.BatteryPowerKW
	if p.GridCapacityKW > 0 {
		kw = min(kw, p.GridCapacityKW-s.state.GridPowerKW)
	}
	return max(kw, 0) * s.dtH
}

// Export sends up to kwh to the grid on top of the household flow and
// returns the energy actually exported.
func (s *Step) Export(kwh float64) float64 {
	x := min(kwh, s.ExportCapacityKWh())
	if x <= epsilon {
		return 0
	}
	kw := x / s.dtH
	s.state.BatteryPowerKW -= kw
	s.state.GridPowerKW -= kw
	s.state.TradeExportKW += kw
	s.applyBattery()
	s.creditExport(x)
	return x
}

// Import buys up to kwh from the grid into the battery and returns the
// energy actually imported.
func (s *Step) Import(kwh float64) float64 {
	x := min(kwh, s.ImportCapacityKWh())
	if x <= epsilon {
		return 0
	}
	kw := x / s.dtH
	s.state.BatteryPowerKW += kw
	s.state.GridPowerKW += kw
	s.state.TradeImportKW += kw
	s.applyBattery()
	s.state.CumImportKWh += x
	return x
}

// Finish synthesizes telemetry, evaluates alarms and returns the final
// state plus notices for alarms that became active this tick.
func (s *Step) Finish() (models.PhysicalState, []models.Notice) {
	s.state.Telemetry = s.model.Telemetry(s.state, s.sw.FaultInject.BiasPct)

	var (
		active  []string
		notices []models.Notice
	)
	for _, a := range s.alarms() {
		active = append(active, a.Category)
		if !contains(s.prevAlarms, a.Category) {
			notices = append(notices, a)
		}
	}
	s.state.Alarms = active
	return s.state.Clone(), notices
}

func (s *Step) applyBattery() {
	stored := s.startKWh + s.model.storedDeltaKWh(s.state.BatteryPowerKW, s.dtH)
	s.state.BatterySOCPct = clampPct(stored / s.model.p.BatteryCapacityKWh * 100)
}

func (s *Step) creditExport(kwh float64) {
	if kwh <= 0 {
		return
	}
	s.state.CumExportKWh += kwh
	s.state.CumTokenEarned += kwh * s.model.p.TokenRate
	s.state.CumCO2SavedKg += kwh * s.model.p.CO2Factor
}

// alarms lists the degradation conditions active at the end of the tick.
func (s *Step) alarms() []models.Notice {
	st := s.state
	var out []models.Notice
	if st.CurtailedKW > epsilon {
		out = append(out, models.Notice{
			Severity: models.SeverityInfo,
			Category: models.CategoryCurtailed,
			Message:  fmt.Sprintf("curtailing %.2f kW of PV surplus in island mode", st.CurtailedKW),
			Metadata: map[string]any{"curtailed_kw": st.CurtailedKW},
		})
	}
	if st.UnservedLoadKW > epsilon {
		out = append(out, models.Notice{
			Severity: models.SeverityError,
			Category: models.CategoryUndervoltageRisk,
			Message:  fmt.Sprintf("%.2f kW of load unserved in island mode", st.UnservedLoadKW),
			Metadata: map[string]any{"unserved_load_kw": st.UnservedLoadKW, "load_demand_kw": st.LoadDemandKW},
		})
	}
	if s.deficitKW > epsilon && st.StoredEnergyKWh() <= s.floorKWh+epsilon {
		out = append(out, models.Notice{
			Severity: models.SeverityWarning,
			Category: models.CategoryLowBattery,
			Message:  fmt.Sprintf("battery at reserve floor (%.1f%%), load deficit %.2f kW", st.BatterySOCPct, s.deficitKW),
			Metadata: map[string]any{"soc_pct": st.BatterySOCPct, "reserve_pct": s.sw.BatteryReservePct},
		})
	}
	if bias := s.sw.FaultInject.BiasPct; math.Abs(bias) > s.model.p.CalibrationWarnPct {
		out = append(out, models.Notice{
			Severity: models.SeverityWarning,
			Category: models.CategorySensorCalibration,
			Message:  fmt.Sprintf("reported telemetry biased by %.1f%%", bias),
			Metadata: map[string]any{"bias_pct": bias},
		})
	}
	return out
}

func contains(ss []string, want string) bool {
	for _, s := range ss {
		if s == want {
			return true
		}
	}
	return false
}
