// Package config loads service configuration with viper. Every key has
// a default, so the service starts without a config file; environment
// variables prefixed WATTSWAP_ override file values (WATTSWAP_DB_PATH
// for db.path).
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/JYunth/wattswap-sim-backend/internal/market"
	"github.com/JYunth/wattswap-sim-backend/internal/simulation"
)

// EnvPrefix namespaces environment overrides.
const EnvPrefix = "WATTSWAP"

type Config struct {
	Port       string            `mapstructure:"port"`
	Log        LogConfig         `mapstructure:"log"`
	DB         DBConfig          `mapstructure:"db"`
	Simulation SimulationConfig  `mapstructure:"simulation"`
	Physics    simulation.Params `mapstructure:"physics"`
	Market     MarketConfig      `mapstructure:"market"`
	Auth       AuthConfig        `mapstructure:"auth"`
	HTTP       HTTPConfig        `mapstructure:"http"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type DBConfig struct {
	Path string `mapstructure:"path"`
}

type SimulationConfig struct {
	Tick             time.Duration `mapstructure:"tick"`
	Meters           []string      `mapstructure:"meters"`
	StartTime        string        `mapstructure:"start_time"`
	Timezone         string        `mapstructure:"timezone"`
	EventLogCapacity int           `mapstructure:"event_log_capacity"`
	HistoryRetention time.Duration `mapstructure:"history_retention"`
	ProfilesFile     string        `mapstructure:"profiles_file"`
}

// MarketConfig is the price curve plus the trading policy limit.
type MarketConfig struct {
	market.PriceConfig `mapstructure:",squash"`
	GridCapacityKW     float64 `mapstructure:"grid_capacity_kw"`
}

type AuthConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	SigningKey string        `mapstructure:"signing_key"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
}

type HTTPConfig struct {
	CORSOrigins    []string `mapstructure:"cors_origins"`
	RateLimitRPS   float64  `mapstructure:"rate_limit_rps"`
	RateLimitBurst int      `mapstructure:"rate_limit_burst"`
}

// Load reads path, or configs/config.yml when path is empty. A missing
// default file is not an error; a missing explicit file is.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath("configs")
		v.SetConfigName("config")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	c.Physics.GridCapacityKW = c.Market.GridCapacityKW

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("db.path", "wattswap.db")

	v.SetDefault("simulation.tick", time.Second)
	v.SetDefault("simulation.meters", []string{"demo_meter"})
	v.SetDefault("simulation.start_time", "")
	v.SetDefault("simulation.timezone", "UTC")
	v.SetDefault("simulation.event_log_capacity", 500)
	v.SetDefault("simulation.history_retention", time.Hour)
	v.SetDefault("simulation.profiles_file", "configs/profiles.yml")

	p := simulation.DefaultParams()
	v.SetDefault("physics.pv_peak_kw", p.PVPeakKW)
	v.SetDefault("physics.base_load_kw", p.BaseLoadKW)
	v.SetDefault("physics.battery_capacity_kwh", p.BatteryCapacityKWh)
	v.SetDefault("physics.initial_soc_pct", p.InitialSOCPct)
	v.SetDefault("physics.max_charge_kw", p.MaxChargeKW)
	v.SetDefault("physics.max_discharge_kw", p.MaxDischargeKW)
	v.SetDefault("physics.charge_efficiency", p.ChargeEfficiency)
	v.SetDefault("physics.discharge_efficiency", p.DischargeEfficiency)
	v.SetDefault("physics.ev_fast_kw", p.EVFastKW)
	v.SetDefault("physics.ev_scheduled_kw", p.EVScheduledKW)
	v.SetDefault("physics.ev_window_start_hour", p.EVWindowStartHour)
	v.SetDefault("physics.ev_window_end_hour", p.EVWindowEndHour)
	v.SetDefault("physics.token_rate", p.TokenRate)
	v.SetDefault("physics.co2_factor", p.CO2Factor)
	v.SetDefault("physics.nominal_voltage_v", p.NominalVoltageV)
	v.SetDefault("physics.nominal_frequency_hz", p.NominalFrequencyHz)
	v.SetDefault("physics.calibration_warn_pct", p.CalibrationWarnPct)

	pc := market.DefaultPriceConfig()
	v.SetDefault("market.base_price", pc.BasePrice)
	v.SetDefault("market.amplitude", pc.Amplitude)
	v.SetDefault("market.jitter", pc.Jitter)
	v.SetDefault("market.price_step", pc.Step)
	v.SetDefault("market.seed", pc.Seed)
	v.SetDefault("market.grid_capacity_kw", 0.0)

	v.SetDefault("auth.enabled", false)
	v.SetDefault("auth.signing_key", "change-me")
	v.SetDefault("auth.token_ttl", time.Hour)

	v.SetDefault("http.cors_origins", []string{"*"})
	v.SetDefault("http.rate_limit_rps", 20.0)
	v.SetDefault("http.rate_limit_burst", 40)
}

// Validate rejects settings the service cannot run with.
func (c *Config) Validate() error {
	if c.Simulation.Tick <= 0 {
		return errors.New("simulation.tick must be > 0")
	}
	if c.Simulation.HistoryRetention < 0 {
		return errors.New("simulation.history_retention must be >= 0")
	}
	if _, err := c.Simulation.Location(); err != nil {
		return err
	}
	if _, err := c.Simulation.Start(time.Now()); err != nil {
		return err
	}
	if err := c.Physics.Validate(); err != nil {
		return fmt.Errorf("physics: %w", err)
	}
	if c.Market.BasePrice <= 0 {
		return errors.New("market.base_price must be > 0")
	}
	if c.Market.Amplitude < 0 || c.Market.Jitter < 0 {
		return errors.New("market.amplitude and market.jitter must be >= 0")
	}
	if c.Auth.Enabled && c.Auth.SigningKey == "" {
		return errors.New("auth.signing_key is required when auth is enabled")
	}
	if c.HTTP.RateLimitRPS < 0 || c.HTTP.RateLimitBurst < 0 {
		return errors.New("http rate limits must be >= 0")
	}
	return nil
}

// Location is the simulated local time zone.
func (s SimulationConfig) Location() (*time.Location, error) {
	if s.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return nil, fmt.Errorf("simulation.timezone: %w", err)
	}
	return loc, nil
}

// Start is the initial simulated time: start_time when set (RFC 3339, or
// a local timestamp without offset), otherwise now, in the simulated zone.
func (s SimulationConfig) Start(now time.Time) (time.Time, error) {
	loc, err := s.Location()
	if err != nil {
		return time.Time{}, err
	}
	if s.StartTime == "" {
		return now.In(loc).Truncate(time.Second), nil
	}
	if t, err := time.Parse(time.RFC3339, s.StartTime); err == nil {
		return t.In(loc), nil
	}
	t, err := time.ParseInLocation("2006-01-02T15:04:05", s.StartTime, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("simulation.start_time: %w", err)
	}
	return t, nil
}
