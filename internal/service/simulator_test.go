package service

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/JYunth/wattswap-sim-backend/internal/meter"
	"github.com/JYunth/wattswap-sim-backend/internal/metrics"
	"github.com/JYunth/wattswap-sim-backend/internal/models"
)

type simFixture struct {
	sim     *SimulatorService
	archive *EventBuffer
	events  *fakeEventRepo
	history *fakeSnapshotRepo
	rec     *metrics.Recorder
}

func newSimFixture(t *testing.T, retention time.Duration, extra []meter.Option, ids ...string) simFixture {
	t.Helper()
	f := simFixture{
		archive: NewEventBuffer(100),
		events:  &fakeEventRepo{},
		history: &fakeSnapshotRepo{},
		rec:     metrics.NewRecorder(),
	}
	opts := append([]meter.Option{meter.WithEventSink(f.archive.Add)}, extra...)
	reg := newTestRegistry(t, opts, ids...)
	f.sim = NewSimulatorService(reg, SimulatorConfig{
		Snapshots: f.history,
		Events:    f.events,
		Archive:   f.archive,
		Retention: retention,
		Metrics:   f.rec,
	})
	return f
}

func TestSimulator_TickAdvancesEveryMeter(t *testing.T) {
	f := newSimFixture(t, 30*time.Minute, nil, "m1", "m2")

	snaps := f.sim.Tick(context.Background(), time.Hour)
	if len(snaps) != 2 {
		t.Fatalf("want 2 snapshots, got %d", len(snaps))
	}
	for _, s := range snaps {
		if !s.Timestamp.Equal(simStart.Add(time.Hour)) {
			t.Errorf("%s: sim time %v", s.MeterID, s.Timestamp)
		}
		// night baseline at the reserve floor: the grid carries the load
		if d := s.CumImportKWh - 1.5; d > 1e-9 || d < -1e-9 {
			t.Errorf("%s: cum import %v, want 1.5", s.MeterID, s.CumImportKWh)
		}
	}

	if f.history.count() != 2 {
		t.Fatalf("history writes = %d, want 2", f.history.count())
	}
	if cut := f.history.pruned["m1"]; !cut.Equal(simStart.Add(30 * time.Minute)) {
		t.Fatalf("prune cutoff = %v", cut)
	}

	cats := f.events.categories()
	if !slices.Contains(cats, models.CategoryMeterProvisioned) || !slices.Contains(cats, models.CategoryLowBattery) {
		t.Fatalf("archived categories = %v", cats)
	}
	if f.archive.Len() != 0 {
		t.Fatalf("archive backlog = %d after flush", f.archive.Len())
	}

	if got := testutil.ToFloat64(f.rec.Ticks.WithLabelValues("m1", "applied")); got != 1 {
		t.Errorf("applied ticks = %v", got)
	}
	if got := testutil.ToFloat64(f.rec.BatterySOC.WithLabelValues("m2")); got != 20 {
		t.Errorf("soc gauge = %v", got)
	}
}

func TestSimulator_SkippedTickIsCountedAndLoopContinues(t *testing.T) {
	corrupted := models.DefaultSwitches()
	corrupted.EVMode = "warp"
	f := newSimFixture(t, 0, []meter.Option{meter.WithSwitches(corrupted)}, "m1")

	snaps := f.sim.Tick(context.Background(), time.Hour)
	if len(snaps) != 1 || !snaps[0].Timestamp.Equal(simStart) {
		t.Fatalf("skipped tick must not advance time: %+v", snaps)
	}
	if got := testutil.ToFloat64(f.rec.Ticks.WithLabelValues("m1", "skipped")); got != 1 {
		t.Errorf("skipped ticks = %v", got)
	}
	if !slices.Contains(f.events.categories(), models.CategoryTickSkipped) {
		t.Errorf("tick_skipped not archived: %v", f.events.categories())
	}
	if f.history.pruned != nil {
		t.Errorf("retention 0 must not prune")
	}
}

func TestSimulator_FailedArchiveWriteRequeues(t *testing.T) {
	f := newSimFixture(t, 0, nil, "m1")
	f.events.appendErr = errors.New("disk full")
	f.history.appendErr = errors.New("disk full")

	f.sim.Tick(context.Background(), time.Minute)
	if f.archive.Len() == 0 {
		t.Fatal("events should be requeued after a failed write")
	}

	f.events.appendErr = nil
	f.history.appendErr = nil
	f.sim.Tick(context.Background(), time.Minute)
	if f.archive.Len() != 0 {
		t.Fatalf("backlog = %d after recovery", f.archive.Len())
	}
	if f.events.categories()[0] != models.CategoryMeterProvisioned {
		t.Fatalf("requeued events should keep their order: %v", f.events.categories())
	}
}

func TestSimulator_RunStopsOnCancel(t *testing.T) {
	f := newSimFixture(t, 0, nil, "m1")
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		f.sim.Run(ctx, 5*time.Millisecond)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for f.history.count() < 2 {
		select {
		case <-deadline:
			t.Fatal("no ticks recorded")
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}

	m, _ := f.sim.registry.Get("m1")
	if !m.Snapshot().Timestamp.After(simStart) {
		t.Fatal("wall time did not advance the meter")
	}
}
