package service

import (
	"context"
	"fmt"
	"time"

	"github.com/JYunth/wattswap-sim-backend/internal/config"
	"github.com/JYunth/wattswap-sim-backend/internal/logger"
	"github.com/JYunth/wattswap-sim-backend/internal/market"
	"github.com/JYunth/wattswap-sim-backend/internal/meter"
	"github.com/JYunth/wattswap-sim-backend/internal/metrics"
	"github.com/JYunth/wattswap-sim-backend/internal/models"
	"github.com/JYunth/wattswap-sim-backend/internal/repository"
	"github.com/JYunth/wattswap-sim-backend/internal/simulation"
)

// Authorization issues operator tokens and checks per-meter scope.
type Authorization interface {
	SignUp(ctx context.Context, username, password string, meters []string) (int, error)
	GenerateToken(ctx context.Context, username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
	Authorize(ctx context.Context, operatorID int, meterID string) error
}

// Monitoring exposes read-only meter state.
type Monitoring interface {
	Snapshot(meterID string) (models.Snapshot, error)
	Timeseries(ctx context.Context, meterID string, r TimeRange) ([]models.Snapshot, error)
	Switches(meterID string) (models.Switches, error)
	TimeAcceleration(meterID string) (float64, error)
	MeterIDs() []string
	Constants() models.Constants
	Health() models.Health
}

// Control mutates switches and provisions meters.
type Control interface {
	SetSwitch(meterID, name string, value any) (models.Switches, error)
	ApplyProfile(meterID, profile string) (models.Switches, error)
	Profiles() config.Profiles
	ProvisionMeter(meterID string) (models.Snapshot, bool, error)
}

// Trading places, queries and cancels energy orders.
type Trading interface {
	PlaceOrder(meterID string, req models.OrderRequest) (models.Order, error)
	GetOrder(orderID string) (models.Order, error)
	CancelOrder(orderID string) (models.Order, error)
	ListOrders(meterID string) ([]models.Order, error)
}

// EventLog reads the in-memory ring and the archive.
type EventLog interface {
	RecentEvents(meterID string, limit int) ([]models.Event, error)
	ListEvents(ctx context.Context, f LogFilter) ([]models.Event, error)
}

// Simulator drives every meter from the wall clock.
// Stop via context cancellation in main() for graceful shutdown.
type Simulator interface {
	Run(ctx context.Context, tick time.Duration)
	Tick(ctx context.Context, wallDt time.Duration) []models.Snapshot
}

type Service struct {
	Monitoring
	Control
	Trading
	EventLog
	Simulator
	Authorization
}

// Deps carries everything the services share besides the repositories.
type Deps struct {
	Model            *simulation.Model
	Price            market.PriceFunc
	Start            time.Time
	Meters           []string
	Profiles         config.Profiles
	EventCapacity    int
	Tick             time.Duration
	HistoryRetention time.Duration
	SigningKey       string
	TokenTTL         time.Duration
	Metrics          *metrics.Recorder
	Log              *logger.Logger
}

// NewService builds the meter registry, provisions d.Meters and wires
// the sub-services. repos may be nil for a run without storage.
func NewService(repos *repository.Repository, d Deps) (*Service, error) {
	if repos == nil {
		repos = &repository.Repository{}
	}
	log := orNop(d.Log)
	if d.Profiles == nil {
		d.Profiles = config.DefaultProfiles()
	}

	var archive *EventBuffer
	opts := []meter.Option{
		meter.WithEventCapacity(d.EventCapacity),
		meter.WithEventSink(d.Metrics.ObserveEvent),
	}
	if repos.Events != nil {
		archive = NewEventBuffer(defaultArchiveBacklog)
		opts = append(opts, meter.WithEventSink(archive.Add))
	}
	reg := meter.NewRegistry(d.Model, d.Price, d.Start, opts...)
	for _, id := range d.Meters {
		if _, _, err := reg.Ensure(id); err != nil {
			return nil, fmt.Errorf("provision meter: %w", err)
		}
		log.Infow("meter_provisioned", "meter_id", id)
	}

	return &Service{
		Monitoring: NewMonitoringService(reg, repos.Snapshots, archive, d.Model.Params(), d.EventCapacity, d.Tick),
		Control:    NewControlService(reg, d.Profiles, log),
		Trading:    NewTradingService(reg),
		EventLog:   NewEventLogService(reg, repos.Events),
		Simulator: NewSimulatorService(reg, SimulatorConfig{
			Snapshots: repos.Snapshots,
			Events:    repos.Events,
			Archive:   archive,
			Retention: d.HistoryRetention,
			Metrics:   d.Metrics,
			Log:       log,
		}),
		Authorization: NewAuthService(repos.Operators, d.SigningKey, d.TokenTTL),
	}, nil
}

func orNop(l *logger.Logger) *logger.Logger {
	if l == nil {
		return logger.Nop()
	}
	return l
}
