package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JYunth/wattswap-sim-backend/internal/config"
	"github.com/JYunth/wattswap-sim-backend/internal/models"
	"github.com/JYunth/wattswap-sim-backend/internal/service"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error
	authorizeErr  error

	lastSignUpUsername string
	lastSignUpPassword string
	lastSignUpMeters   []string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
	authorized         []string
}

func (m *mockAuth) SignUp(_ context.Context, username, password string, meters []string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	m.lastSignUpMeters = meters
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(_ context.Context, username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}
func (m *mockAuth) Authorize(_ context.Context, operatorID int, meterID string) error {
	m.authorized = append(m.authorized, fmt.Sprintf("%d:%s", operatorID, meterID))
	return m.authorizeErr
}

type mockMonitoring struct {
	snap      models.Snapshot
	snapErr   error
	points    []models.Snapshot
	seriesErr error
	switches  models.Switches
	accel     float64
	ids       []string
	constants models.Constants
	health    models.Health

	lastMeterID string
	lastRange   service.TimeRange
}

func (m *mockMonitoring) Snapshot(meterID string) (models.Snapshot, error) {
	m.lastMeterID = meterID
	return m.snap, m.snapErr
}
func (m *mockMonitoring) Timeseries(_ context.Context, meterID string, r service.TimeRange) ([]models.Snapshot, error) {
	m.lastMeterID = meterID
	m.lastRange = r
	return m.points, m.seriesErr
}
func (m *mockMonitoring) Switches(meterID string) (models.Switches, error) {
	m.lastMeterID = meterID
	return m.switches, m.snapErr
}
func (m *mockMonitoring) TimeAcceleration(meterID string) (float64, error) {
	m.lastMeterID = meterID
	return m.accel, m.snapErr
}
func (m *mockMonitoring) MeterIDs() []string          { return m.ids }
func (m *mockMonitoring) Constants() models.Constants { return m.constants }
func (m *mockMonitoring) Health() models.Health       { return m.health }

type mockControl struct {
	switches models.Switches
	err      error
	profiles config.Profiles
	snap     models.Snapshot
	created  bool

	lastMeterID string
	lastSwitch  string
	lastValue   any
	lastProfile string
	calls       int
}

func (m *mockControl) SetSwitch(meterID, name string, value any) (models.Switches, error) {
	m.calls++
	m.lastMeterID, m.lastSwitch, m.lastValue = meterID, name, value
	return m.switches, m.err
}
func (m *mockControl) ApplyProfile(meterID, profile string) (models.Switches, error) {
	m.calls++
	m.lastMeterID, m.lastProfile = meterID, profile
	return m.switches, m.err
}
func (m *mockControl) Profiles() config.Profiles { return m.profiles }
func (m *mockControl) ProvisionMeter(meterID string) (models.Snapshot, bool, error) {
	m.calls++
	m.lastMeterID = meterID
	return m.snap, m.created, m.err
}

type mockTrading struct {
	order  models.Order
	orders []models.Order
	err    error

	lastMeterID string
	lastOrderID string
	lastReq     models.OrderRequest
	cancelled   int
}

func (m *mockTrading) PlaceOrder(meterID string, req models.OrderRequest) (models.Order, error) {
	m.lastMeterID, m.lastReq = meterID, req
	return m.order, m.err
}
func (m *mockTrading) GetOrder(orderID string) (models.Order, error) {
	m.lastOrderID = orderID
	return m.order, m.err
}
func (m *mockTrading) CancelOrder(orderID string) (models.Order, error) {
	m.cancelled++
	m.lastOrderID = orderID
	return m.order, m.err
}
func (m *mockTrading) ListOrders(meterID string) ([]models.Order, error) {
	m.lastMeterID = meterID
	return m.orders, m.err
}

type mockEventLog struct {
	resp []models.Event
	err  error

	lastMeterID string
	lastLimit   int
	lastFilter  service.LogFilter
}

func (m *mockEventLog) RecentEvents(meterID string, limit int) ([]models.Event, error) {
	m.lastMeterID, m.lastLimit = meterID, limit
	return m.resp, m.err
}
func (m *mockEventLog) ListEvents(_ context.Context, f service.LogFilter) ([]models.Event, error) {
	m.lastFilter = f
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	return newTestRouterWith(s, Config{})
}

func newTestRouterWith(s *service.Service, cfg Config) *gin.Engine {
	h := NewHandler(s, nil, cfg)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
