package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderSide is the trading direction from the meter's point of view.
type OrderSide string

const (
	OrderSideBuy  OrderSide = "buy"
	OrderSideSell OrderSide = "sell"
)

// OrderKind selects market or limit semantics.
type OrderKind string

const (
	OrderKindMarket OrderKind = "market"
	OrderKindLimit  OrderKind = "limit"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusAccepted        OrderStatus = "accepted"
	OrderStatusPartiallyFilled OrderStatus = "partially_filled"
	OrderStatusExecuted        OrderStatus = "executed"
	OrderStatusFailed          OrderStatus = "failed"
	OrderStatusCancelled       OrderStatus = "cancelled"
	OrderStatusExpired         OrderStatus = "expired"
)

// IsTerminal reports whether no further transition can leave s.
func (s OrderStatus) IsTerminal() bool {
	switch s {
	case OrderStatusExecuted, OrderStatusFailed, OrderStatusCancelled, OrderStatusExpired:
		return true
	}
	return false
}

// Cancellable reports whether a cancel command transitions s.
func (s OrderStatus) Cancellable() bool {
	return s == OrderStatusAccepted || s == OrderStatusPartiallyFilled
}

// OrderRequest carries the parameters of a place-order command.
type OrderRequest struct {
	Side        OrderSide `json:"side"`
	Kind        OrderKind `json:"kind"`
	QuantityKWh float64   `json:"quantity_kwh"`
	DurationSec float64   `json:"duration_sec"`
	LimitPrice  *float64  `json:"limit_price,omitempty"`
	MinFillKWh  float64   `json:"min_fill_kwh"`
	TTLSec      float64   `json:"ttl_sec"`
}

// Execution is one fill of an order.
type Execution struct {
	At    time.Time       `json:"at"`
	KWh   float64         `json:"kwh"`
	Price decimal.Decimal `json:"price"`
	Value decimal.Decimal `json:"value"`
}

// Order is an energy order owned by one meter's market engine.
type Order struct {
	OrderID       string          `json:"order_id"`
	MeterID       string          `json:"meter_id"`
	Side          OrderSide       `json:"side"`
	Kind          OrderKind       `json:"kind"`
	QuantityKWh   float64         `json:"quantity_kwh"`
	FilledKWh     float64         `json:"filled_kwh"`
	LimitPrice    *float64        `json:"limit_price,omitempty"`
	MinFillKWh    float64         `json:"min_fill_kwh"`
	DurationSec   float64         `json:"duration_sec"`
	TTLSec        float64         `json:"ttl_sec"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	Status        OrderStatus     `json:"status"`
	FailureReason string          `json:"failure_reason,omitempty"`
	NotionalValue decimal.Decimal `json:"notional_value"`
	Executions    []Execution     `json:"executions"`
}

// RemainingKWh is the quantity still to be filled.
func (o Order) RemainingKWh() float64 {
	r := o.QuantityKWh - o.FilledKWh
	if r < 0 {
		return 0
	}
	return r
}

// AveragePrice is the volume-weighted price of all executions.
func (o Order) AveragePrice() decimal.Decimal {
	if o.FilledKWh <= 0 {
		return decimal.Zero
	}
	return o.NotionalValue.Div(decimal.NewFromFloat(o.FilledKWh)).Round(4)
}

// Clone returns a deep copy safe to hand to readers.
func (o Order) Clone() Order {
	out := o
	if o.LimitPrice != nil {
		p := *o.LimitPrice
		out.LimitPrice = &p
	}
	out.Executions = append([]Execution(nil), o.Executions...)
	return out
}
