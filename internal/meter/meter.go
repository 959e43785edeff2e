// Package meter owns the mutable state of simulated prosumer meters.
//
// A Meter serializes every tick and command behind one lock, held for
// the whole unit of work. Readers take the read lock only long enough
// to copy state out.
package meter

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JYunth/wattswap-sim-backend/internal/eventlog"
	"github.com/JYunth/wattswap-sim-backend/internal/market"
	"github.com/JYunth/wattswap-sim-backend/internal/models"
	"github.com/JYunth/wattswap-sim-backend/internal/simulation"
)

// EventSink observes every event a meter records. Sinks run after the
// meter lock is released and must not call back into the same meter
// synchronously while holding their own locks.
type EventSink func(models.Event)

// Option customizes a Meter.
type Option func(*Meter)

// WithSwitches sets the initial switches. They are not validated here;
// an invalid set makes every tick skip until a command repairs it.
func WithSwitches(sw models.Switches) Option {
	return func(m *Meter) { m.switches = sw }
}

// WithEventCapacity sets the ring size of the in-memory event log.
func WithEventCapacity(n int) Option {
	return func(m *Meter) { m.events = eventlog.NewRing(n) }
}

// WithEventSink registers an observer for recorded events.
func WithEventSink(s EventSink) Option {
	return func(m *Meter) {
		if s != nil {
			m.sinks = append(m.sinks, s)
		}
	}
}

// Meter is the single writer of one meter's switches, physical state,
// orders and event log.
type Meter struct {
	id    string
	model *simulation.Model

	mu       sync.RWMutex
	switches models.Switches
	state    models.PhysicalState
	market   *market.Engine
	events   *eventlog.Ring

	sinks []EventSink
}

// New provisions a meter whose simulated clock starts at start.
func New(id string, model *simulation.Model, price market.PriceFunc, start time.Time, opts ...Option) *Meter {
	m := &Meter{
		id:       id,
		model:    model,
		switches: models.DefaultSwitches(),
		state:    model.InitialState(start),
		market:   market.NewEngine(id, price),
	}
	for _, o := range opts {
		o(m)
	}
	if m.events == nil {
		m.events = eventlog.NewRing(eventlog.DefaultCapacity)
	}
	m.state.MarketPrice = m.market.Price(start)
	return m
}

// ID returns the meter id.
func (m *Meter) ID() string { return m.id }

// ApplyTick advances the meter by wallDt of wall time scaled by the
// current time acceleration. A tick that cannot run is skipped, logged
// as a tick_skipped error event and reported through the returned error.
func (m *Meter) ApplyTick(wallDt time.Duration) error {
	m.mu.Lock()
	recorded, err := m.tickLocked(wallDt)
	m.mu.Unlock()

	m.publish(recorded)
	return err
}

func (m *Meter) tickLocked(wallDt time.Duration) (recorded []models.Event, err error) {
	var orders *market.Checkpoint
	defer func() {
		if r := recover(); r != nil {
			m.market.Restore(orders)
			err = fmt.Errorf("meter %s: tick aborted: %v", m.id, r)
			recorded = append(recorded, m.record(skipNotice(err)))
		}
	}()

	if verr := m.switches.Validate(); verr != nil {
		err = fmt.Errorf("meter %s: corrupted switches: %w", m.id, verr)
		return []models.Event{m.record(skipNotice(err))}, err
	}
	if wallDt < 0 {
		wallDt = 0
	}
	simDt := scale(wallDt, m.switches.TimeAcceleration)

	step := m.model.Advance(m.switches, m.state, simDt)
	step.SetMarketPrice(m.market.Price(step.SimTime()))
	orders = m.market.Checkpoint()
	trades := m.market.Settle(step, m.switches)
	next, physical := step.Finish()

	m.state = next
	for _, n := range physical {
		recorded = append(recorded, m.record(n))
	}
	for _, n := range trades {
		recorded = append(recorded, m.record(n))
	}
	return recorded, nil
}

// scale multiplies d by factor, saturating at the largest Duration
// instead of wrapping when a long wall gap meets a high acceleration.
func scale(d time.Duration, factor float64) time.Duration {
	ns := float64(d) * factor
	if ns >= math.MaxInt64 {
		return math.MaxInt64
	}
	if ns <= 0 {
		return 0
	}
	return time.Duration(ns)
}

func skipNotice(err error) models.Notice {
	return models.Notice{
		Severity: models.SeverityError,
		Category: models.CategoryTickSkipped,
		Message:  err.Error(),
	}
}

func (m *Meter) announce() {
	m.mu.Lock()
	ev := m.record(models.Notice{
		Severity: models.SeverityInfo,
		Category: models.CategoryMeterProvisioned,
		Message:  fmt.Sprintf("meter %s provisioned", m.id),
	})
	m.mu.Unlock()

	m.publish([]models.Event{ev})
}

// SetSwitch validates value against the switch's type and range and
// applies it. Rejected values leave the switches untouched.
func (m *Meter) SetSwitch(name string, value any) (models.Switches, error) {
	m.mu.Lock()
	next := m.switches
	if err := applySwitch(&next, name, value); err != nil {
		m.mu.Unlock()
		return models.Switches{}, err
	}
	if err := next.Validate(); err != nil {
		m.mu.Unlock()
		return models.Switches{}, err
	}
	from, to := switchValue(m.switches, name), switchValue(next, name)
	m.switches = next
	ev := m.record(models.Notice{
		Severity: models.SeverityInfo,
		Category: models.CategorySwitchChanged,
		Message:  fmt.Sprintf("switch %s changed from %v to %v", name, from, to),
		Metadata: map[string]any{"switch": name, "from": from, "to": to},
	})
	m.mu.Unlock()

	m.publish([]models.Event{ev})
	return next, nil
}

// ApplyProfile replaces every switch at once.
func (m *Meter) ApplyProfile(name string, sw models.Switches) (models.Switches, error) {
	if err := sw.Validate(); err != nil {
		return models.Switches{}, err
	}
	m.mu.Lock()
	m.switches = sw
	ev := m.record(models.Notice{
		Severity: models.SeverityInfo,
		Category: models.CategoryProfileApplied,
		Message:  fmt.Sprintf("profile %s applied", name),
		Metadata: map[string]any{"profile": name},
	})
	m.mu.Unlock()

	m.publish([]models.Event{ev})
	return sw, nil
}

// PlaceOrder admits an order at the meter's current simulated time.
func (m *Meter) PlaceOrder(req models.OrderRequest) (models.Order, error) {
	m.mu.Lock()
	o, notices, err := m.market.Place(req, m.switches, m.state.SimTime)
	recorded := m.recordAll(notices)
	m.mu.Unlock()

	m.publish(recorded)
	return o, err
}

// CancelOrder cancels an open order; terminal orders are returned as is.
func (m *Meter) CancelOrder(orderID string) (models.Order, error) {
	m.mu.Lock()
	o, notices, err := m.market.Cancel(orderID, m.state.SimTime)
	recorded := m.recordAll(notices)
	m.mu.Unlock()

	m.publish(recorded)
	return o, err
}

// Snapshot copies the current state together with derived fields.
func (m *Meter) Snapshot() models.Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	st := m.state.Clone()
	return models.Snapshot{
		MeterID:       m.id,
		Timestamp:     st.SimTime,
		PhysicalState: st,
		Derived:       derive(st, m.switches, m.model.Params()),
		Market: models.MarketSummary{
			PendingOrders: m.market.Pending(),
			CurrentPrice:  st.MarketPrice,
			LastTrade:     m.market.LastTrade(),
		},
		Switches: m.switches,
	}
}

// Switches returns the current switches.
func (m *Meter) Switches() models.Switches {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.switches
}

// TimeAcceleration is the factor applied from the next tick on.
func (m *Meter) TimeAcceleration() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.switches.TimeAcceleration
}

// Events returns up to limit of the most recent events, oldest first.
func (m *Meter) Events(limit int) []models.Event {
	return m.events.Last(limit)
}

// Order returns one order of this meter.
func (m *Meter) Order(orderID string) (models.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.market.Get(orderID)
}

// Orders returns every order in placement order.
func (m *Meter) Orders() []models.Order {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.market.List()
}

// PendingOrders counts orders that can still fill.
func (m *Meter) PendingOrders() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.market.Pending()
}

// record stamps n and appends it to the ring. Caller holds mu.
func (m *Meter) record(n models.Notice) models.Event {
	ev := models.Event{
		EventID:   uuid.NewString(),
		Timestamp: m.state.SimTime,
		MeterID:   m.id,
		Severity:  n.Severity,
		Category:  n.Category,
		Message:   n.Message,
	}
	if len(n.Metadata) > 0 {
		ev.Metadata = n.Metadata
	}
	m.events.Append(ev)
	return ev
}

func (m *Meter) recordAll(ns []models.Notice) []models.Event {
	out := make([]models.Event, 0, len(ns))
	for _, n := range ns {
		out = append(out, m.record(n))
	}
	return out
}

func (m *Meter) publish(events []models.Event) {
	for _, ev := range events {
		for _, s := range m.sinks {
			s(ev)
		}
	}
}
