package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/JYunth/wattswap-sim-backend/internal/logger"
	"github.com/JYunth/wattswap-sim-backend/internal/service"
)

// Config tunes the HTTP boundary.
type Config struct {
	// AuthEnabled requires a bearer token on mutating routes.
	AuthEnabled    bool
	RateLimitRPS   float64 // 0 disables throttling
	RateLimitBurst int
	// Metrics serves /metrics when set.
	Metrics http.Handler
	// AllowedOrigins restricts WebSocket upgrades; empty allows all.
	AllowedOrigins []string
}

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
	cfg      Config
	limiter  *clientLimiter
	upgrader websocket.Upgrader
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger, cfg Config) *Handler {
	return &Handler{
		services: services,
		log:      log,
		cfg:      cfg,
		limiter:  newClientLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
		upgrader: newUpgrader(cfg.AllowedOrigins),
	}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", h.health)
	if h.cfg.Metrics != nil {
		router.GET("/metrics", gin.WrapH(h.cfg.Metrics))
	}

	h.registerAuthRoutes(router)
	h.registerAPIRoutes(router)

	// live snapshots, same port
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth", h.rateLimit)
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
	}
}

// Reads stay open for dashboards; every mutating route goes through
// the rate limiter and, when enabled, the bearer token check.
func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	api.GET("/constants", h.getConstants)
	api.GET("/profiles", h.getProfiles)
	api.GET("/logs", h.getLogs)

	meters := api.Group("/meters")
	{
		meters.GET("", h.listMeters)
		meters.POST("/:meter_id", h.mutating(h.provisionMeter)...)
		meters.GET("/:meter_id/snapshot", h.getSnapshot)
		meters.GET("/:meter_id/timeseries", h.getTimeseries)
		meters.GET("/:meter_id/switches", h.getSwitches)
		meters.PUT("/:meter_id/switches/:switch", h.mutating(h.setSwitch)...)
		meters.POST("/:meter_id/profile", h.mutating(h.applyProfile)...)
		meters.GET("/:meter_id/time-acceleration", h.getTimeAcceleration)
		meters.GET("/:meter_id/events", h.getMeterEvents)
		meters.GET("/:meter_id/orders", h.listOrders)
		meters.POST("/:meter_id/orders", h.mutating(h.placeOrder)...)
	}

	orders := api.Group("/orders")
	{
		orders.GET("/:order_id", h.getOrder)
		orders.POST("/:order_id/cancel", h.mutating(h.cancelOrder)...)
	}
}

func (h *Handler) mutating(final gin.HandlerFunc) []gin.HandlerFunc {
	return []gin.HandlerFunc{h.rateLimit, h.requireOperator, final}
}
