package service

import (
	"github.com/JYunth/wattswap-sim-backend/internal/meter"
	"github.com/JYunth/wattswap-sim-backend/internal/models"
)

type TradingService struct {
	registry *meter.Registry
}

func NewTradingService(reg *meter.Registry) *TradingService {
	return &TradingService{registry: reg}
}

// PlaceOrder admits an order on a meter. A failed admission is still a
// stored order and comes back with a nil error.
func (s *TradingService) PlaceOrder(meterID string, req models.OrderRequest) (models.Order, error) {
	return s.registry.PlaceOrder(meterID, req)
}

func (s *TradingService) GetOrder(orderID string) (models.Order, error) {
	return s.registry.Order(orderID)
}

func (s *TradingService) CancelOrder(orderID string) (models.Order, error) {
	return s.registry.CancelOrder(orderID)
}

// ListOrders returns every order of a meter in placement order.
func (s *TradingService) ListOrders(meterID string) ([]models.Order, error) {
	m, err := s.registry.Get(meterID)
	if err != nil {
		return nil, err
	}
	return m.Orders(), nil
}
