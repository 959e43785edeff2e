package service

import (
	"context"
	"time"

	"github.com/JYunth/wattswap-sim-backend/internal/logger"
	"github.com/JYunth/wattswap-sim-backend/internal/meter"
	"github.com/JYunth/wattswap-sim-backend/internal/metrics"
	"github.com/JYunth/wattswap-sim-backend/internal/models"
	"github.com/JYunth/wattswap-sim-backend/internal/repository"
)

// SimulatorConfig holds the optional collaborators of the tick loop.
// Nil stores disable history and archiving.
type SimulatorConfig struct {
	Snapshots repository.SnapshotRepo
	Events    repository.EventRepo
	Archive   *EventBuffer
	Retention time.Duration // simulated time kept in history; 0 keeps all
	Metrics   *metrics.Recorder
	Log       *logger.Logger
}

// SimulatorService is the clock: it advances every meter by the measured
// wall time between ticks.
type SimulatorService struct {
	registry *meter.Registry
	cfg      SimulatorConfig
	log      *logger.Logger
	now      func() time.Time
}

func NewSimulatorService(reg *meter.Registry, cfg SimulatorConfig) *SimulatorService {
	return &SimulatorService{
		registry: reg,
		cfg:      cfg,
		log:      orNop(cfg.Log),
		now:      time.Now,
	}
}

// Run ticks at the given interval until ctx is canceled.
func (s *SimulatorService) Run(ctx context.Context, tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()

	last := s.now()
	s.log.Infow("simulator_started", "tick", tick.String(), "meters", s.registry.Len())
	for {
		select {
		case <-ctx.Done():
			s.flushEvents(context.WithoutCancel(ctx))
			s.log.Infow("simulator_stopped")
			return
		case now := <-t.C:
			s.Tick(ctx, now.Sub(last))
			last = now
		}
	}
}

// Tick applies wallDt to every meter, then records history, metrics and
// archived events. Failures are logged and never stop the loop.
func (s *SimulatorService) Tick(ctx context.Context, wallDt time.Duration) []models.Snapshot {
	began := s.now()

	meters := s.registry.Meters()
	snaps := make([]models.Snapshot, 0, len(meters))
	for _, m := range meters {
		err := m.ApplyTick(wallDt)
		s.cfg.Metrics.ObserveTick(m.ID(), err != nil)
		if err != nil {
			s.log.Warnw("tick_skipped", "meter_id", m.ID(), "error", err)
		}
		snap := m.Snapshot()
		s.cfg.Metrics.ObserveSnapshot(snap)
		snaps = append(snaps, snap)
	}
	s.cfg.Metrics.ObserveTickDuration(s.now().Sub(began))

	s.recordHistory(ctx, snaps)
	s.flushEvents(ctx)
	return snaps
}

func (s *SimulatorService) recordHistory(ctx context.Context, snaps []models.Snapshot) {
	if s.cfg.Snapshots == nil || len(snaps) == 0 {
		return
	}
	if err := s.cfg.Snapshots.Append(ctx, snaps...); err != nil {
		s.log.Errorw("history_write_failed", "meters", len(snaps), "error", err)
		return
	}
	if s.cfg.Retention <= 0 {
		return
	}
	for _, snap := range snaps {
		cutoff := snap.Timestamp.Add(-s.cfg.Retention)
		if _, err := s.cfg.Snapshots.Prune(ctx, snap.MeterID, cutoff); err != nil {
			s.log.Errorw("history_prune_failed", "meter_id", snap.MeterID, "error", err)
		}
	}
}

func (s *SimulatorService) flushEvents(ctx context.Context) {
	if s.cfg.Events == nil || s.cfg.Archive == nil {
		return
	}
	events, dropped := s.cfg.Archive.Drain()
	if dropped > 0 {
		s.log.Warnw("event_archive_overflow", "dropped", dropped)
	}
	if len(events) == 0 {
		return
	}
	if err := s.cfg.Events.Append(ctx, events...); err != nil {
		s.log.Errorw("event_archive_write_failed", "events", len(events), "error", err)
		s.cfg.Archive.Requeue(events)
	}
}
