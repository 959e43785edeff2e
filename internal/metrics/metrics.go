// Package metrics exposes simulator and market activity to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JYunth/wattswap-sim-backend/internal/models"
)

const namespace = "wattswap"

// Recorder holds every collector on a private registry. A nil *Recorder
// is valid and records nothing.
type Recorder struct {
	registry *prometheus.Registry

	TickDuration prometheus.Histogram
	Ticks        *prometheus.CounterVec
	Events       *prometheus.CounterVec

	BatterySOC    *prometheus.GaugeVec
	GridPower     *prometheus.GaugeVec
	CumExport     *prometheus.GaugeVec
	CumImport     *prometheus.GaugeVec
	MarketPrice   *prometheus.GaugeVec
	PendingOrders *prometheus.GaugeVec
}

// NewRecorder registers the collectors plus Go runtime and process stats.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),

		TickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tick_duration_seconds",
			Help:      "Wall time spent applying one tick to every meter",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}),
		Ticks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "meter_ticks_total",
			Help:      "Meter ticks by result",
		}, []string{"meter_id", "result"}),
		Events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "meter_events_total",
			Help:      "Events recorded by meters",
		}, []string{"meter_id", "severity", "category"}),

		BatterySOC:    gauge("battery_soc_pct", "Battery state of charge"),
		GridPower:     gauge("grid_power_kw", "Net grid power, positive on import"),
		CumExport:     gauge("cum_export_kwh", "Energy exported since start"),
		CumImport:     gauge("cum_import_kwh", "Energy imported since start"),
		MarketPrice:   gauge("market_price", "Simulated market price per kWh"),
		PendingOrders: gauge("pending_orders", "Orders that can still fill"),
	}
	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.TickDuration, r.Ticks, r.Events,
		r.BatterySOC, r.GridPower, r.CumExport, r.CumImport, r.MarketPrice, r.PendingOrders,
	)
	return r
}

func gauge(name, help string) *prometheus.GaugeVec {
	return prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      name,
		Help:      help,
	}, []string{"meter_id"})
}

// Registry exposes the underlying registry for tests and extra collectors.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// ObserveTickDuration records how long one clock tick took.
func (r *Recorder) ObserveTickDuration(d time.Duration) {
	if r == nil {
		return
	}
	r.TickDuration.Observe(d.Seconds())
}

// ObserveTick counts one meter tick; skipped ticks are those that returned an error.
func (r *Recorder) ObserveTick(meterID string, skipped bool) {
	if r == nil {
		return
	}
	result := "applied"
	if skipped {
		result = "skipped"
	}
	r.Ticks.WithLabelValues(meterID, result).Inc()
}

// ObserveEvent counts a recorded event. Its signature matches meter.EventSink.
func (r *Recorder) ObserveEvent(e models.Event) {
	if r == nil {
		return
	}
	r.Events.WithLabelValues(e.MeterID, string(e.Severity), e.Category).Inc()
}

// ObserveSnapshot publishes the gauges of one meter.
func (r *Recorder) ObserveSnapshot(s models.Snapshot) {
	if r == nil {
		return
	}
	r.BatterySOC.WithLabelValues(s.MeterID).Set(s.BatterySOCPct)
	r.GridPower.WithLabelValues(s.MeterID).Set(s.GridPowerKW)
	r.CumExport.WithLabelValues(s.MeterID).Set(s.CumExportKWh)
	r.CumImport.WithLabelValues(s.MeterID).Set(s.CumImportKWh)
	r.MarketPrice.WithLabelValues(s.MeterID).Set(s.Market.CurrentPrice)
	r.PendingOrders.WithLabelValues(s.MeterID).Set(float64(s.Market.PendingOrders))
}
