package meter

import (
	"regexp"
	"sort"
	"sync"
	"time"

	"github.com/JYunth/wattswap-sim-backend/internal/market"
	"github.com/JYunth/wattswap-sim-backend/internal/models"
	"github.com/JYunth/wattswap-sim-backend/internal/simulation"
)

var meterIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// ValidID reports whether id is an acceptable meter id.
func ValidID(id string) bool { return meterIDPattern.MatchString(id) }

// Registry maps meter ids to meters. Meters never share mutable state;
// the registry only guards its own maps.
type Registry struct {
	model *simulation.Model
	price market.PriceFunc
	start time.Time
	opts  []Option

	mu     sync.RWMutex
	meters map[string]*Meter
}

// NewRegistry returns an empty registry. Every meter it provisions uses
// model, price and opts, and starts its simulated clock at start.
func NewRegistry(model *simulation.Model, price market.PriceFunc, start time.Time, opts ...Option) *Registry {
	return &Registry{
		model:  model,
		price:  price,
		start:  start,
		opts:   opts,
		meters: make(map[string]*Meter),
	}
}

// Ensure returns the meter for id, provisioning it on first reference.
// created reports whether this call provisioned it; a new meter starts
// its event log with a meter_provisioned entry.
func (r *Registry) Ensure(id string) (m *Meter, created bool, err error) {
	if !ValidID(id) {
		return nil, false, models.Invalid("meter_id", "must match %s", meterIDPattern)
	}
	r.mu.Lock()
	if existing, ok := r.meters[id]; ok {
		r.mu.Unlock()
		return existing, false, nil
	}
	m = New(id, r.model, r.price, r.start, r.opts...)
	r.meters[id] = m
	r.mu.Unlock()

	m.announce()
	return m, true, nil
}

// Get returns a provisioned meter.
func (r *Registry) Get(id string) (*Meter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.meters[id]
	if !ok {
		return nil, models.MeterNotFound(id)
	}
	return m, nil
}

// IDs returns every meter id in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.meters))
	for id := range r.meters {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Meters returns every meter ordered by id.
func (r *Registry) Meters() []*Meter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Meter, 0, len(r.meters))
	for _, m := range r.meters {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

// Len is the number of provisioned meters.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.meters)
}

// PlaceOrder places an order on a meter.
func (r *Registry) PlaceOrder(meterID string, req models.OrderRequest) (models.Order, error) {
	m, err := r.Get(meterID)
	if err != nil {
		return models.Order{}, err
	}
	return m.PlaceOrder(req)
}

// Order looks an order up by id across meters.
func (r *Registry) Order(orderID string) (models.Order, error) {
	m, err := r.meterForOrder(orderID)
	if err != nil {
		return models.Order{}, err
	}
	return m.Order(orderID)
}

// CancelOrder cancels an order by id.
func (r *Registry) CancelOrder(orderID string) (models.Order, error) {
	m, err := r.meterForOrder(orderID)
	if err != nil {
		return models.Order{}, err
	}
	return m.CancelOrder(orderID)
}

// meterForOrder scans the meters for the one holding orderID, so an
// order dropped by its engine is simply no longer found.
func (r *Registry) meterForOrder(orderID string) (*Meter, error) {
	for _, m := range r.Meters() {
		if _, err := m.Order(orderID); err == nil {
			return m, nil
		}
	}
	return nil, models.OrderNotFound(orderID)
}
