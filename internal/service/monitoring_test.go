package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/JYunth/wattswap-sim-backend/internal/models"
	"github.com/JYunth/wattswap-sim-backend/internal/simulation"
)

func newMonitoring(t *testing.T, snaps *fakeSnapshotRepo, ids ...string) *MonitoringService {
	t.Helper()
	reg := newTestRegistry(t, nil, ids...)
	if snaps == nil {
		return NewMonitoringService(reg, nil, nil, simulation.DefaultParams(), 500, time.Second)
	}
	return NewMonitoringService(reg, snaps, nil, simulation.DefaultParams(), 500, time.Second)
}

func TestMonitoringService_Snapshot(t *testing.T) {
	svc := newMonitoring(t, nil, "demo_meter")

	snap, err := svc.Snapshot("demo_meter")
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if snap.MeterID != "demo_meter" || !snap.Timestamp.Equal(simStart) {
		t.Fatalf("unexpected snapshot header: %s %v", snap.MeterID, snap.Timestamp)
	}
	if snap.BatterySOCPct != 20 || snap.Market.CurrentPrice != 8.5 {
		t.Fatalf("unexpected initial state: soc=%v price=%v", snap.BatterySOCPct, snap.Market.CurrentPrice)
	}

	if _, err := svc.Snapshot("ghost"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMonitoringService_Timeseries_FromHistory(t *testing.T) {
	repo := &fakeSnapshotRepo{rangeOut: []models.Snapshot{{MeterID: "m1"}, {MeterID: "m1"}}}
	svc := newMonitoring(t, repo, "m1")

	from := time.Date(2025, 6, 1, 17, 30, 0, 0, time.FixedZone("IST", 19800))
	got, err := svc.Timeseries(context.Background(), "m1", TimeRange{From: from})
	if err != nil {
		t.Fatalf("Timeseries: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("want 2 points, got %d", len(got))
	}
	if !repo.gotFrom.Equal(simStart) || repo.gotFrom.Location() != time.UTC || !repo.gotTo.IsZero() {
		t.Fatalf("range not normalized: from=%v to=%v", repo.gotFrom, repo.gotTo)
	}

	_, err = svc.Timeseries(context.Background(), "m1", TimeRange{From: simStart, To: simStart.Add(-time.Second)})
	if !errors.Is(err, models.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := svc.Timeseries(context.Background(), "ghost", TimeRange{}); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMonitoringService_Timeseries_WithoutHistory(t *testing.T) {
	svc := newMonitoring(t, nil, "m1")

	got, err := svc.Timeseries(context.Background(), "m1", TimeRange{})
	if err != nil || len(got) != 1 {
		t.Fatalf("want the current snapshot, got %d points, err %v", len(got), err)
	}
	got, _ = svc.Timeseries(context.Background(), "m1", TimeRange{From: simStart.Add(time.Hour)})
	if len(got) != 0 {
		t.Fatalf("current snapshot is outside the range, got %d points", len(got))
	}
}

func TestMonitoringService_SwitchesAndAcceleration(t *testing.T) {
	svc := newMonitoring(t, nil, "m1")

	sw, err := svc.Switches("m1")
	if err != nil {
		t.Fatalf("Switches: %v", err)
	}
	if sw != models.DefaultSwitches() {
		t.Fatalf("expected default switches, got %+v", sw)
	}
	accel, err := svc.TimeAcceleration("m1")
	if err != nil || accel != 1 {
		t.Fatalf("TimeAcceleration = %v, %v", accel, err)
	}
	if _, err := svc.Switches("ghost"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.TimeAcceleration("ghost"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMonitoringService_ConstantsAndHealth(t *testing.T) {
	svc := newMonitoring(t, nil, "b", "a")

	c := svc.Constants()
	if c.TokenRate != 0.08 || c.CO2Factor != 0.45 || c.BatteryCapacityKWh != 10 || c.EventLogCapacity != 500 || c.TickSeconds != 1 {
		t.Fatalf("unexpected constants: %+v", c)
	}

	if ids := svc.MeterIDs(); len(ids) != 2 || ids[0] != "a" {
		t.Fatalf("MeterIDs = %v", ids)
	}

	m, _ := svc.registry.Get("a")
	if _, err := m.SetSwitch(models.SwitchMarketEnabled, true); err != nil {
		t.Fatal(err)
	}
	if _, err := m.SetSwitch(models.SwitchTimeAcceleration, 60.0); err != nil {
		t.Fatal(err)
	}
	if _, err := m.PlaceOrder(models.OrderRequest{
		Side: models.OrderSideBuy, Kind: models.OrderKindMarket, QuantityKWh: 1, DurationSec: 600, TTLSec: 600,
	}); err != nil {
		t.Fatal(err)
	}

	h := svc.Health()
	if h.Status != "ok" || h.Meters != 2 || h.TickRate != 1 {
		t.Fatalf("unexpected health: %+v", h)
	}
	if h.TimeAcceleration["a"] != 60 || h.TimeAcceleration["b"] != 1 {
		t.Fatalf("unexpected accelerations: %v", h.TimeAcceleration)
	}
	if h.QueueLengths["orders"] != 1 || h.QueueLengths["events"] != 0 {
		t.Fatalf("unexpected queues: %v", h.QueueLengths)
	}
}
