package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/JYunth/wattswap-sim-backend/internal/models"
	"github.com/JYunth/wattswap-sim-backend/internal/service"
)

func TestOrderHandlers_Place(t *testing.T) {
	trd := &mockTrading{order: models.Order{
		OrderID:       "o-1",
		MeterID:       "demo_meter",
		Side:          models.OrderSideSell,
		Kind:          models.OrderKindLimit,
		QuantityKWh:   2,
		FilledKWh:     1.5,
		Status:        models.OrderStatusPartiallyFilled,
		NotionalValue: decimal.RequireFromString("13.5"),
	}}
	r := newTestRouter(&service.Service{Trading: trd})

	w := doJSON(t, r, http.MethodPost, "/api/v1/meters/demo_meter/orders",
		`{"side":"sell","kind":"limit","quantity_kwh":2,"duration_sec":900,"limit_price":9.2,"ttl_sec":3600}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	req := trd.lastReq
	if trd.lastMeterID != "demo_meter" || req.Side != models.OrderSideSell || req.Kind != models.OrderKindLimit ||
		req.QuantityKWh != 2 || req.DurationSec != 900 || req.TTLSec != 3600 || req.LimitPrice == nil || *req.LimitPrice != 9.2 {
		t.Fatalf("request not forwarded: %+v", req)
	}

	var out struct {
		OrderID      string          `json:"order_id"`
		Status       string          `json:"status"`
		RemainingKWh float64         `json:"remaining_kwh"`
		AveragePrice decimal.Decimal `json:"average_price"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if out.OrderID != "o-1" || out.Status != "partially_filled" || out.RemainingKWh != 0.5 {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
	if !out.AveragePrice.Equal(decimal.NewFromInt(9)) {
		t.Fatalf("average price = %s", out.AveragePrice)
	}

	doJSON(t, r, http.MethodPost, "/api/v1/meters/demo_meter/orders", `{"side":"buy","quantity_kwh":1,"duration_sec":60,"ttl_sec":60}`)
	if trd.lastReq.Kind != models.OrderKindMarket {
		t.Fatalf("kind should default to market, got %q", trd.lastReq.Kind)
	}
}

func TestOrderHandlers_PlaceErrors(t *testing.T) {
	trd := &mockTrading{}
	r := newTestRouter(&service.Service{Trading: trd})

	w := doJSON(t, r, http.MethodPost, "/api/v1/meters/demo_meter/orders", `{"quantity_kwh":1}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing side: got %d", w.Code)
	}

	trd.err = models.Invalid("quantity_kwh", "must be > 0")
	w = doJSON(t, r, http.MethodPost, "/api/v1/meters/demo_meter/orders", `{"side":"buy","quantity_kwh":0}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("validation: got %d", w.Code)
	}

	trd.err = models.MeterNotFound("ghost")
	w = doJSON(t, r, http.MethodPost, "/api/v1/meters/ghost/orders", `{"side":"buy","quantity_kwh":1}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown meter: got %d", w.Code)
	}
}

func TestOrderHandlers_FailedAdmissionIsStillOK(t *testing.T) {
	trd := &mockTrading{order: models.Order{
		OrderID:       "o-2",
		Status:        models.OrderStatusFailed,
		FailureReason: "market disabled",
		NotionalValue: decimal.Zero,
	}}
	r := newTestRouter(&service.Service{Trading: trd})

	w := doJSON(t, r, http.MethodPost, "/api/v1/meters/demo_meter/orders", `{"side":"sell","quantity_kwh":1,"duration_sec":60,"ttl_sec":60}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	var out models.Order
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if out.Status != models.OrderStatusFailed || out.FailureReason != "market disabled" {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestOrderHandlers_GetListCancel(t *testing.T) {
	o := models.Order{OrderID: "o-3", MeterID: "demo_meter", Status: models.OrderStatusCancelled, NotionalValue: decimal.Zero}
	trd := &mockTrading{order: o, orders: []models.Order{o}}
	r := newTestRouter(&service.Service{Trading: trd})

	w := doJSON(t, r, http.MethodGet, "/api/v1/orders/o-3", "")
	if w.Code != http.StatusOK || trd.lastOrderID != "o-3" {
		t.Fatalf("get: %d", w.Code)
	}

	w = doJSON(t, r, http.MethodGet, "/api/v1/meters/demo_meter/orders", "")
	var list struct {
		Count  int            `json:"count"`
		Orders []models.Order `json:"orders"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &list)
	if w.Code != http.StatusOK || list.Count != 1 || list.Orders[0].OrderID != "o-3" {
		t.Fatalf("list: %s", w.Body.String())
	}

	w = doJSON(t, r, http.MethodPost, "/api/v1/orders/o-3/cancel", "")
	if w.Code != http.StatusOK || trd.cancelled != 1 {
		t.Fatalf("cancel: %d", w.Code)
	}

	trd.err = models.OrderNotFound("missing")
	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/v1/orders/missing"},
		{http.MethodPost, "/api/v1/orders/missing/cancel"},
	} {
		if w := doJSON(t, r, tc.method, tc.path, ""); w.Code != http.StatusNotFound {
			t.Fatalf("%s %s: got %d", tc.method, tc.path, w.Code)
		}
	}
}
