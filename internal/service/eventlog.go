package service

import (
	"context"

	"github.com/JYunth/wattswap-sim-backend/internal/meter"
	"github.com/JYunth/wattswap-sim-backend/internal/models"
	"github.com/JYunth/wattswap-sim-backend/internal/repository"
)

type EventLogService struct {
	registry  *meter.Registry
	eventRepo repository.EventRepo
}

func NewEventLogService(reg *meter.Registry, eventRepo repository.EventRepo) *EventLogService {
	return &EventLogService{registry: reg, eventRepo: eventRepo}
}

// RecentEvents returns up to limit events from the meter's ring, most
// recent first. limit <= 0 returns the whole ring.
func (s *EventLogService) RecentEvents(meterID string, limit int) ([]models.Event, error) {
	m, err := s.registry.Get(meterID)
	if err != nil {
		return nil, err
	}
	events := m.Events(limit)
	reverse(events)
	return events, nil
}

// ListEvents queries the archive, most recent first. Without an archive
// it filters the rings of the selected meters instead.
func (s *EventLogService) ListEvents(ctx context.Context, f LogFilter) ([]models.Event, error) {
	f, err := normalizeAndValidateFilter(f)
	if err != nil {
		return nil, err
	}
	if f.MeterID != "" {
		if _, err := s.registry.Get(f.MeterID); err != nil {
			return nil, err
		}
	}
	if s.eventRepo != nil {
		return s.eventRepo.List(ctx, repository.EventQuery{
			MeterID:  f.MeterID,
			From:     f.From,
			To:       f.To,
			Severity: models.Severity(f.Severity),
			Category: f.Category,
			Limit:    f.Limit,
		})
	}
	return s.filterRings(f), nil
}

func (s *EventLogService) filterRings(f LogFilter) []models.Event {
	ids := s.registry.IDs()
	if f.MeterID != "" {
		ids = []string{f.MeterID}
	}
	out := make([]models.Event, 0)
	for _, id := range ids {
		m, err := s.registry.Get(id)
		if err != nil {
			continue
		}
		events := m.Events(0)
		for i := len(events) - 1; i >= 0; i-- {
			if matches(events[i], f) {
				out = append(out, events[i])
			}
		}
	}
	sortNewestFirst(out)
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out
}

func matches(e models.Event, f LogFilter) bool {
	if !f.From.IsZero() && e.Timestamp.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && e.Timestamp.After(f.To) {
		return false
	}
	if f.Severity != "" && string(e.Severity) != f.Severity {
		return false
	}
	if f.Category != "" && e.Category != f.Category {
		return false
	}
	return true
}
