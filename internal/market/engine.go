package market

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/JYunth/wattswap-sim-backend/internal/models"
)

// fillEpsilon is the kWh tolerance under which an order counts as fully filled.
const fillEpsilon = 1e-9

// DefaultRetainedOrders is how many terminal orders an engine keeps
// before dropping the oldest. Open orders are never dropped.
const DefaultRetainedOrders = 1000

// Settlement is the physical side of one tick as seen by the market:
// how much extra energy can move and the calls that move it.
type Settlement interface {
	StartTime() time.Time
	SimTime() time.Time
	ExportCapacityKWh() float64
	Export(kwh float64) float64
	ImportCapacityKWh() float64
	Import(kwh float64) float64
}

// Engine owns the orders of one meter. It is not safe for concurrent
// use; the meter actor serializes every call.
type Engine struct {
	meterID   string
	price     PriceFunc
	orders    []*models.Order
	byID      map[string]*models.Order
	lastTrade *models.Execution
	newID     func() string
	retain    int
}

// NewEngine returns an empty order book for meterID priced by price.
func NewEngine(meterID string, price PriceFunc) *Engine {
	return &Engine{
		meterID: meterID,
		price:   price,
		byID:    make(map[string]*models.Order),
		newID:   uuid.NewString,
		retain:  DefaultRetainedOrders,
	}
}

// Price is the market price at simulated time t.
func (e *Engine) Price(t time.Time) float64 { return e.price(t) }

// Place validates req and admits it at simulated time now. Malformed
// requests return a validation error and store nothing. Requests that
// fail a trading precondition are stored as failed orders.
func (e *Engine) Place(req models.OrderRequest, sw models.Switches, now time.Time) (models.Order, []models.Notice, error) {
	if err := validateRequest(req); err != nil {
		return models.Order{}, nil, err
	}

	o := &models.Order{
		OrderID:       e.newID(),
		MeterID:       e.meterID,
		Side:          req.Side,
		Kind:          req.Kind,
		QuantityKWh:   req.QuantityKWh,
		MinFillKWh:    req.MinFillKWh,
		DurationSec:   req.DurationSec,
		TTLSec:        req.TTLSec,
		CreatedAt:     now,
		UpdatedAt:     now,
		Status:        models.OrderStatusAccepted,
		NotionalValue: decimal.Zero,
	}
	if req.Kind == models.OrderKindLimit && req.LimitPrice != nil {
		p := *req.LimitPrice
		o.LimitPrice = &p
	}
	e.orders = append(e.orders, o)
	e.byID[o.OrderID] = o

	if reason := admissionFailure(req, sw); reason != "" {
		o.Status = models.OrderStatusFailed
		o.FailureReason = reason
		e.prune()
		return o.Clone(), []models.Notice{orderNotice(o, models.SeverityError, models.CategoryOrderFailed,
			fmt.Sprintf("order %s rejected: %s", o.OrderID, reason))}, nil
	}
	return o.Clone(), []models.Notice{orderNotice(o, models.SeverityInfo, models.CategoryOrderAccepted,
		fmt.Sprintf("%s %s order for %.3f kWh accepted", o.Kind, o.Side, o.QuantityKWh))}, nil
}

// Settle advances every open order against one tick, in insertion order.
// Each fill moves energy through s before the next order sizes its fill.
func (e *Engine) Settle(s Settlement, sw models.Switches) []models.Notice {
	var notices []models.Notice
	start, end := s.StartTime(), s.SimTime()
	price := e.price(end)
	tradable := sw.MarketEnabled && sw.GridConnected

	for _, o := range e.orders {
		if o.Status.IsTerminal() {
			continue
		}
		elapsedStart := math.Max(start.Sub(o.CreatedAt).Seconds(), 0)
		elapsedEnd := end.Sub(o.CreatedAt).Seconds()

		if tradable && elapsedStart < o.DurationSec && priceAcceptable(o, price) {
			overlap := math.Min(elapsedEnd, o.DurationSec) - elapsedStart
			want := math.Min(o.QuantityKWh/o.DurationSec*overlap, o.RemainingKWh())
			if n, ok := e.fill(o, s, want, price, end); ok {
				notices = append(notices, n)
			}
		}

		if n, ok := e.transition(o, elapsedEnd, end); ok {
			notices = append(notices, n)
		}
	}
	e.prune()
	return notices
}

// Checkpoint captures the open orders and the last trade so a tick that
// aborts halfway through Settle can be rolled back with Restore.
type Checkpoint struct {
	open      []models.Order
	lastTrade *models.Execution
}

// Checkpoint copies the state Settle can mutate. Terminal orders are
// final and are not copied.
func (e *Engine) Checkpoint() *Checkpoint {
	cp := &Checkpoint{lastTrade: e.LastTrade()}
	for _, o := range e.orders {
		if !o.Status.IsTerminal() {
			cp.open = append(cp.open, o.Clone())
		}
	}
	return cp
}

// Restore rolls the open orders and the last trade back to cp.
func (e *Engine) Restore(cp *Checkpoint) {
	if cp == nil {
		return
	}
	for _, saved := range cp.open {
		if o, ok := e.byID[saved.OrderID]; ok {
			*o = saved.Clone()
		}
	}
	e.lastTrade = cp.lastTrade
}

func (e *Engine) fill(o *models.Order, s Settlement, want, price float64, at time.Time) (models.Notice, bool) {
	if want <= fillEpsilon {
		return models.Notice{}, false
	}
	var got float64
	if o.Side == models.OrderSideSell {
		got = s.Export(want)
	} else {
		got = s.Import(want)
	}
	if got <= 0 {
		return models.Notice{}, false
	}

	o.FilledKWh = math.Min(o.FilledKWh+got, o.QuantityKWh)
	if o.QuantityKWh-o.FilledKWh <= fillEpsilon {
		o.FilledKWh = o.QuantityKWh
	}
	px := decimal.NewFromFloat(price).Round(4)
	exec := models.Execution{
		At:    at,
		KWh:   got,
		Price: px,
		Value: px.Mul(decimal.NewFromFloat(got)).Round(6),
	}
	o.Executions = append(o.Executions, exec)
	o.NotionalValue = o.NotionalValue.Add(exec.Value)
	o.UpdatedAt = at
	e.lastTrade = &exec

	if o.FilledKWh >= o.QuantityKWh {
		// reported by transition as order_executed
		return models.Notice{}, false
	}
	n := orderNotice(o, models.SeverityInfo, models.CategoryOrderFilled,
		fmt.Sprintf("order %s filled %.4f kWh at %s (%.4f/%.4f kWh)", o.OrderID, got, px, o.FilledKWh, o.QuantityKWh))
	n.Metadata["fill_kwh"] = got
	n.Metadata["price"] = price
	return n, true
}

// transition applies the status rules after a tick's fill.
func (e *Engine) transition(o *models.Order, elapsed float64, at time.Time) (models.Notice, bool) {
	switch {
	case o.FilledKWh >= o.QuantityKWh:
		return e.terminate(o, models.OrderStatusExecuted, at, models.SeverityInfo, models.CategoryOrderExecuted,
			fmt.Sprintf("order %s executed: %.4f kWh", o.OrderID, o.FilledKWh)), true
	case elapsed > o.TTLSec && o.FilledKWh < o.MinFillKWh:
		return e.terminate(o, models.OrderStatusExpired, at, models.SeverityWarning, models.CategoryOrderExpired,
			fmt.Sprintf("order %s expired after ttl with %.4f of minimum %.4f kWh", o.OrderID, o.FilledKWh, o.MinFillKWh)), true
	case elapsed >= o.DurationSec:
		if o.FilledKWh > 0 && o.FilledKWh >= o.MinFillKWh {
			return e.terminate(o, models.OrderStatusExecuted, at, models.SeverityInfo, models.CategoryOrderExecuted,
				fmt.Sprintf("order %s executed partially: %.4f of %.4f kWh", o.OrderID, o.FilledKWh, o.QuantityKWh)), true
		}
		return e.terminate(o, models.OrderStatusExpired, at, models.SeverityWarning, models.CategoryOrderExpired,
			fmt.Sprintf("order %s expired: fill window closed with %.4f kWh", o.OrderID, o.FilledKWh)), true
	case o.FilledKWh > 0 && o.Status == models.OrderStatusAccepted:
		o.Status = models.OrderStatusPartiallyFilled
	}
	return models.Notice{}, false
}

func (e *Engine) terminate(o *models.Order, st models.OrderStatus, at time.Time, sev models.Severity, category, msg string) models.Notice {
	o.Status = st
	o.UpdatedAt = at
	n := orderNotice(o, sev, category, msg)
	n.Metadata["filled_kwh"] = o.FilledKWh
	return n
}

// Cancel moves an open order to cancelled. Cancelling a terminal order
// is a no-op that reports its current status.
func (e *Engine) Cancel(orderID string, now time.Time) (models.Order, []models.Notice, error) {
	o, ok := e.byID[orderID]
	if !ok {
		return models.Order{}, nil, models.OrderNotFound(orderID)
	}
	if !o.Status.Cancellable() {
		return o.Clone(), nil, nil
	}
	o.Status = models.OrderStatusCancelled
	o.UpdatedAt = now
	n := orderNotice(o, models.SeverityInfo, models.CategoryOrderCancelled,
		fmt.Sprintf("order %s cancelled with %.4f kWh filled", o.OrderID, o.FilledKWh))
	out := o.Clone()
	e.prune()
	return out, []models.Notice{n}, nil
}

// Get returns a copy of one order.
func (e *Engine) Get(orderID string) (models.Order, error) {
	o, ok := e.byID[orderID]
	if !ok {
		return models.Order{}, models.OrderNotFound(orderID)
	}
	return o.Clone(), nil
}

// List returns copies of the retained orders in insertion order.
func (e *Engine) List() []models.Order {
	out := make([]models.Order, 0, len(e.orders))
	for _, o := range e.orders {
		out = append(out, o.Clone())
	}
	return out
}

// Pending counts orders that can still fill.
func (e *Engine) Pending() int {
	n := 0
	for _, o := range e.orders {
		if !o.Status.IsTerminal() {
			n++
		}
	}
	return n
}

// LastTrade is the most recent execution, nil before the first fill.
func (e *Engine) LastTrade() *models.Execution {
	if e.lastTrade == nil {
		return nil
	}
	t := *e.lastTrade
	return &t
}

// prune drops the oldest terminal orders beyond the retention limit.
func (e *Engine) prune() {
	excess := -e.retain
	for _, o := range e.orders {
		if o.Status.IsTerminal() {
			excess++
		}
	}
	if excess <= 0 {
		return
	}
	kept := e.orders[:0]
	for _, o := range e.orders {
		if excess > 0 && o.Status.IsTerminal() {
			delete(e.byID, o.OrderID)
			excess--
			continue
		}
		kept = append(kept, o)
	}
	clear(e.orders[len(kept):])
	e.orders = kept
}

func priceAcceptable(o *models.Order, price float64) bool {
	if o.Kind != models.OrderKindLimit {
		return true
	}
	if o.Side == models.OrderSideBuy {
		return price <= *o.LimitPrice
	}
	return price >= *o.LimitPrice
}

func admissionFailure(req models.OrderRequest, sw models.Switches) string {
	switch {
	case !sw.MarketEnabled:
		return "market disabled"
	case !sw.GridConnected:
		return "grid disconnected: trading requires grid settlement"
	case req.QuantityKWh <= 0:
		return "quantity_kwh must be greater than 0"
	case req.Kind == models.OrderKindLimit && req.LimitPrice == nil:
		return "limit_price is required for limit orders"
	}
	return ""
}

func validateRequest(req models.OrderRequest) error {
	if req.Side != models.OrderSideBuy && req.Side != models.OrderSideSell {
		return models.Invalid("side", "must be buy or sell, got %q", req.Side)
	}
	if req.Kind != models.OrderKindMarket && req.Kind != models.OrderKindLimit {
		return models.Invalid("kind", "must be market or limit, got %q", req.Kind)
	}
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"quantity_kwh", req.QuantityKWh},
		{"duration_sec", req.DurationSec},
		{"min_fill_kwh", req.MinFillKWh},
		{"ttl_sec", req.TTLSec},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return models.Invalid(f.name, "must be a finite number")
		}
	}
	if req.DurationSec <= 0 {
		return models.Invalid("duration_sec", "must be greater than 0")
	}
	if req.TTLSec <= 0 {
		return models.Invalid("ttl_sec", "must be greater than 0")
	}
	if req.MinFillKWh < 0 {
		return models.Invalid("min_fill_kwh", "must be >= 0")
	}
	if req.QuantityKWh > 0 && req.MinFillKWh > req.QuantityKWh {
		return models.Invalid("min_fill_kwh", "must not exceed quantity_kwh")
	}
	if lp := req.LimitPrice; lp != nil {
		if math.IsNaN(*lp) || math.IsInf(*lp, 0) || *lp <= 0 {
			return models.Invalid("limit_price", "must be a finite number greater than 0")
		}
	}
	return nil
}

func orderNotice(o *models.Order, sev models.Severity, category, msg string) models.Notice {
	return models.Notice{
		Severity: sev,
		Category: category,
		Message:  msg,
		Metadata: map[string]any{
			"order_id": o.OrderID,
			"side":     string(o.Side),
			"kind":     string(o.Kind),
		},
	}
}
