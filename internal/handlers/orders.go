package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/JYunth/wattswap-sim-backend/internal/models"
)

// PlaceOrderRequest is the body of a place-order call. Kind defaults to market.
type PlaceOrderRequest struct {
	Side        string   `json:"side" binding:"required" enums:"buy,sell" example:"sell"`
	Kind        string   `json:"kind" enums:"market,limit" example:"limit"`
	QuantityKWh float64  `json:"quantity_kwh" example:"2.5"`
	DurationSec float64  `json:"duration_sec" example:"900"`
	LimitPrice  *float64 `json:"limit_price,omitempty" example:"9.2"`
	MinFillKWh  float64  `json:"min_fill_kwh" example:"0.1"`
	TTLSec      float64  `json:"ttl_sec" example:"3600"`
}

func (r PlaceOrderRequest) toModel() models.OrderRequest {
	kind := models.OrderKind(r.Kind)
	if kind == "" {
		kind = models.OrderKindMarket
	}
	return models.OrderRequest{
		Side:        models.OrderSide(r.Side),
		Kind:        kind,
		QuantityKWh: r.QuantityKWh,
		DurationSec: r.DurationSec,
		LimitPrice:  r.LimitPrice,
		MinFillKWh:  r.MinFillKWh,
		TTLSec:      r.TTLSec,
	}
}

// orderView adds the figures dashboards compute from an order.
type orderView struct {
	models.Order
	RemainingKWh float64         `json:"remaining_kwh"`
	AveragePrice decimal.Decimal `json:"average_price"`
}

func viewOf(o models.Order) orderView {
	return orderView{Order: o, RemainingKWh: o.RemainingKWh(), AveragePrice: o.AveragePrice()}
}

// @Summary      Place an order
// @Description  Admission failures (market disabled, grid disconnected, non-positive quantity_kwh, limit order without limit_price) return 200 with status "failed" and a failure_reason.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        meter_id  path  string             true  "Meter id"
// @Param        body      body  PlaceOrderRequest  true  "Order"
// @Success      200  {object}  orderView
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      429  {object}  map[string]string
// @Router       /api/v1/meters/{meter_id}/orders [post]
// @Security     BearerAuth
func (h *Handler) placeOrder(c *gin.Context) {
	var req PlaceOrderRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	id := c.Param("meter_id")
	o, err := h.services.PlaceOrder(id, req.toModel())
	if err != nil {
		h.writeServiceError(c, "order_place_failed", err, "meter_id", id)
		return
	}
	if h.log != nil {
		h.log.Infow("order_placed", "meter_id", id, "order_id", o.OrderID, "status", o.Status)
	}
	c.JSON(http.StatusOK, viewOf(o))
}

// @Summary      List orders of a meter
// @Tags         orders
// @Produce      json
// @Param        meter_id  path  string  true  "Meter id"
// @Success      200  {object}  map[string]interface{}  "count, orders"
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/meters/{meter_id}/orders [get]
func (h *Handler) listOrders(c *gin.Context) {
	id := c.Param("meter_id")
	orders, err := h.services.ListOrders(id)
	if err != nil {
		h.writeServiceError(c, "order_list_failed", err, "meter_id", id)
		return
	}
	views := make([]orderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, viewOf(o))
	}
	c.JSON(http.StatusOK, gin.H{"count": len(views), "orders": views})
}

// @Summary      Get an order
// @Tags         orders
// @Produce      json
// @Param        order_id  path  string  true  "Order id"
// @Success      200  {object}  orderView
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/orders/{order_id} [get]
func (h *Handler) getOrder(c *gin.Context) {
	id := c.Param("order_id")
	o, err := h.services.GetOrder(id)
	if err != nil {
		h.writeServiceError(c, "order_get_failed", err, "order_id", id)
		return
	}
	c.JSON(http.StatusOK, viewOf(o))
}

// @Summary      Cancel an order
// @Description  Terminal orders are returned unchanged.
// @Tags         orders
// @Produce      json
// @Param        order_id  path  string  true  "Order id"
// @Success      200  {object}  orderView
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/orders/{order_id}/cancel [post]
// @Security     BearerAuth
func (h *Handler) cancelOrder(c *gin.Context) {
	id := c.Param("order_id")
	if h.cfg.AuthEnabled {
		o, err := h.services.GetOrder(id)
		if err != nil {
			h.writeServiceError(c, "order_cancel_failed", err, "order_id", id)
			return
		}
		if !h.authorizeMeter(c, c.GetInt("userId"), o.MeterID) {
			return
		}
	}
	o, err := h.services.CancelOrder(id)
	if err != nil {
		h.writeServiceError(c, "order_cancel_failed", err, "order_id", id)
		return
	}
	c.JSON(http.StatusOK, viewOf(o))
}
