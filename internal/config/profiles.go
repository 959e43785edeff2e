package config

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/JYunth/wattswap-sim-backend/internal/models"
)

// BaselineProfile is the preset matching the default switches.
const BaselineProfile = "nighttime_baseline"

// Profiles are named switch presets.
type Profiles map[string]models.Switches

// Names returns the preset names in sorted order.
func (p Profiles) Names() []string {
	out := make([]string, 0, len(p))
	for name := range p {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Lookup returns a preset or a NotFound error.
func (p Profiles) Lookup(name string) (models.Switches, error) {
	sw, ok := p[name]
	if !ok {
		return models.Switches{}, fmt.Errorf("profile %q: %w", name, models.ErrNotFound)
	}
	return sw, nil
}

// DefaultProfiles are the presets compiled into the binary.
func DefaultProfiles() Profiles {
	base := models.DefaultSwitches()

	sunny := base
	sunny.Daytime = true
	sunny.MarketEnabled = true

	cloudy := sunny
	cloudy.SunCloudFactor = 0.35

	island := base
	island.GridConnected = false
	island.ManualLoadDeltaKW = 1

	ev := base
	ev.EVPlug = true
	ev.EVMode = models.EVModeFast

	return Profiles{
		BaselineProfile:  base,
		"sunny_day":      sunny,
		"cloudy_day":     cloudy,
		"island_evening": island,
		"ev_fast_charge": ev,
	}
}

type profilesDoc struct {
	Profiles map[string]yaml.Node `yaml:"profiles"`
}

// LoadProfiles reads presets from a YAML file and merges them over the
// built-in ones. Each preset only lists the switches it changes; the
// rest keep their defaults.
func LoadProfiles(path string) (Profiles, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profiles: %w", err)
	}
	return ParseProfiles(raw)
}

// ParseProfiles is LoadProfiles over an in-memory document.
func ParseProfiles(raw []byte) (Profiles, error) {
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)

	var doc profilesDoc
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode profiles: %w", err)
	}

	out := DefaultProfiles()
	for name, node := range doc.Profiles {
		sw := models.DefaultSwitches()
		if err := node.Decode(&sw); err != nil {
			return nil, fmt.Errorf("profile %s: %w", name, err)
		}
		if err := sw.Validate(); err != nil {
			return nil, fmt.Errorf("profile %s: %w", name, err)
		}
		out[name] = sw
	}
	return out, nil
}
