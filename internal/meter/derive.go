package meter

import (
	"github.com/JYunth/wattswap-sim-backend/internal/models"
	"github.com/JYunth/wattswap-sim-backend/internal/simulation"
)

const flowEpsilon = 1e-9

// derive computes the dashboard block of a snapshot. Battery figures are
// measured against the reserve floor, as dispatch is.
func derive(st models.PhysicalState, sw models.Switches, p simulation.Params) models.Derived {
	stored := st.StoredEnergyKWh()
	floor := sw.BatteryReservePct / 100 * p.BatteryCapacityKWh

	d := models.Derived{
		NetPowerKW:            st.PVPowerKW - st.LoadPowerKW,
		AvailableChargeKWh:    max(p.BatteryCapacityKWh-stored, 0),
		AvailableDischargeKWh: max(stored-floor, 0) * p.DischargeEfficiency,
		BMSStatus:             models.BMSIdle,
		GridStatus:            "connected",
	}
	if !sw.GridConnected {
		d.GridStatus = "island"
	}

	if st.PVPowerKW > flowEpsilon {
		exported := max(-st.GridPowerKW, 0) - st.TradeExportKW
		used := st.PVPowerKW - min(max(exported, 0), st.PVPowerKW)
		d.SelfConsumptionPct = used / st.PVPowerKW * 100
	}
	if st.LoadPowerKW > flowEpsilon {
		d.AutonomyHours = ptr(d.AvailableDischargeKWh / st.LoadPowerKW)
	}

	switch b := st.BatteryPowerKW; {
	case b > flowEpsilon:
		d.BMSStatus = models.BMSCharging
		d.TimeToFullHours = ptr(d.AvailableChargeKWh / (b * p.ChargeEfficiency))
	case b < -flowEpsilon:
		d.BMSStatus = models.BMSDischarging
		d.TimeToEmptyHours = ptr(d.AvailableDischargeKWh / -b)
	}
	return d
}

func ptr(f float64) *float64 { return &f }
