package service

import (
	"github.com/JYunth/wattswap-sim-backend/internal/config"
	"github.com/JYunth/wattswap-sim-backend/internal/logger"
	"github.com/JYunth/wattswap-sim-backend/internal/meter"
	"github.com/JYunth/wattswap-sim-backend/internal/models"
)

type ControlService struct {
	registry *meter.Registry
	profiles config.Profiles
	log      *logger.Logger
}

func NewControlService(reg *meter.Registry, profiles config.Profiles, log *logger.Logger) *ControlService {
	return &ControlService{registry: reg, profiles: profiles, log: orNop(log)}
}

// SetSwitch applies one switch value. Type or range violations are
// ValidationErrors and leave the meter untouched.
func (s *ControlService) SetSwitch(meterID, name string, value any) (models.Switches, error) {
	m, err := s.registry.Get(meterID)
	if err != nil {
		return models.Switches{}, err
	}
	sw, err := m.SetSwitch(name, value)
	if err != nil {
		return models.Switches{}, err
	}
	s.log.Infow("switch_changed", "meter_id", meterID, "switch", name, "value", value)
	return sw, nil
}

// ApplyProfile sets every switch of a named preset in one command.
func (s *ControlService) ApplyProfile(meterID, profile string) (models.Switches, error) {
	m, err := s.registry.Get(meterID)
	if err != nil {
		return models.Switches{}, err
	}
	sw, err := s.profiles.Lookup(profile)
	if err != nil {
		return models.Switches{}, err
	}
	out, err := m.ApplyProfile(profile, sw)
	if err != nil {
		return models.Switches{}, err
	}
	s.log.Infow("profile_applied", "meter_id", meterID, "profile", profile)
	return out, nil
}

// Profiles returns a copy of the known presets.
func (s *ControlService) Profiles() config.Profiles {
	out := make(config.Profiles, len(s.profiles))
	for k, v := range s.profiles {
		out[k] = v
	}
	return out
}

// ProvisionMeter creates meterID unless it exists and returns its snapshot.
func (s *ControlService) ProvisionMeter(meterID string) (models.Snapshot, bool, error) {
	m, created, err := s.registry.Ensure(meterID)
	if err != nil {
		return models.Snapshot{}, false, err
	}
	if created {
		s.log.Infow("meter_provisioned", "meter_id", meterID)
	}
	return m.Snapshot(), created, nil
}
