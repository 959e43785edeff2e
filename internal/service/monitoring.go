package service

import (
	"context"
	"time"

	"github.com/JYunth/wattswap-sim-backend/internal/meter"
	"github.com/JYunth/wattswap-sim-backend/internal/models"
	"github.com/JYunth/wattswap-sim-backend/internal/repository"
	"github.com/JYunth/wattswap-sim-backend/internal/simulation"
)

type MonitoringService struct {
	registry  *meter.Registry
	snapshots repository.SnapshotRepo
	archive   *EventBuffer
	constants models.Constants
	tick      time.Duration
}

func NewMonitoringService(reg *meter.Registry, snapshots repository.SnapshotRepo, archive *EventBuffer,
	p simulation.Params, eventCapacity int, tick time.Duration) *MonitoringService {
	return &MonitoringService{
		registry:  reg,
		snapshots: snapshots,
		archive:   archive,
		constants: constantsOf(p, eventCapacity, tick),
		tick:      tick,
	}
}

func constantsOf(p simulation.Params, eventCapacity int, tick time.Duration) models.Constants {
	return models.Constants{
		TokenRate:           p.TokenRate,
		CO2Factor:           p.CO2Factor,
		PVPeakKW:            p.PVPeakKW,
		BaseLoadKW:          p.BaseLoadKW,
		BatteryCapacityKWh:  p.BatteryCapacityKWh,
		MaxChargeKW:         p.MaxChargeKW,
		MaxDischargeKW:      p.MaxDischargeKW,
		ChargeEfficiency:    p.ChargeEfficiency,
		DischargeEfficiency: p.DischargeEfficiency,
		EVFastKW:            p.EVFastKW,
		EVScheduledKW:       p.EVScheduledKW,
		NominalVoltageV:     p.NominalVoltageV,
		NominalFrequencyHz:  p.NominalFrequencyHz,
		EventLogCapacity:    eventCapacity,
		TickSeconds:         tick.Seconds(),
	}
}

// Snapshot returns the current state of one meter.
func (s *MonitoringService) Snapshot(meterID string) (models.Snapshot, error) {
	m, err := s.registry.Get(meterID)
	if err != nil {
		return models.Snapshot{}, err
	}
	return m.Snapshot(), nil
}

// Timeseries returns stored snapshots within r, oldest first. Without a
// history store only the current snapshot can be returned.
func (s *MonitoringService) Timeseries(ctx context.Context, meterID string, r TimeRange) ([]models.Snapshot, error) {
	m, err := s.registry.Get(meterID)
	if err != nil {
		return nil, err
	}
	r, err = normalizeRange(r)
	if err != nil {
		return nil, err
	}
	if s.snapshots != nil {
		return s.snapshots.Range(ctx, meterID, r.From, r.To)
	}

	cur := m.Snapshot()
	if (!r.From.IsZero() && cur.Timestamp.Before(r.From)) || (!r.To.IsZero() && cur.Timestamp.After(r.To)) {
		return []models.Snapshot{}, nil
	}
	return []models.Snapshot{cur}, nil
}

func (s *MonitoringService) Switches(meterID string) (models.Switches, error) {
	m, err := s.registry.Get(meterID)
	if err != nil {
		return models.Switches{}, err
	}
	return m.Switches(), nil
}

func (s *MonitoringService) TimeAcceleration(meterID string) (float64, error) {
	m, err := s.registry.Get(meterID)
	if err != nil {
		return 0, err
	}
	return m.TimeAcceleration(), nil
}

func (s *MonitoringService) MeterIDs() []string { return s.registry.IDs() }

func (s *MonitoringService) Constants() models.Constants { return s.constants }

// Health reports liveness plus per-meter acceleration and queue depths:
// "orders" is the number of pending orders across meters, "events" the
// archive backlog.
func (s *MonitoringService) Health() models.Health {
	h := models.Health{
		Status:           "ok",
		Meters:           s.registry.Len(),
		TimeAcceleration: make(map[string]float64),
		QueueLengths:     map[string]int{"orders": 0, "events": s.archive.Len()},
	}
	if s.tick > 0 {
		h.TickRate = 1 / s.tick.Seconds()
	}
	for _, m := range s.registry.Meters() {
		h.TimeAcceleration[m.ID()] = m.TimeAcceleration()
		h.QueueLengths["orders"] += m.PendingOrders()
	}
	return h
}
