package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/JYunth/wattswap-sim-backend/internal/service"
)

func (h *Handler) userIdMiddleware(c *gin.Context) {
	userId, ok := h.authenticate(c)
	if !ok {
		return
	}
	c.Set("userId", userId)
	c.Next()
}

// authenticate resolves the bearer token to an operator id, aborting
// with 401 when it cannot.
func (h *Handler) authenticate(c *gin.Context) (int, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "missing Authorization header",
		})
		return 0, false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid Authorization header format",
		})
		return 0, false
	}

	userId, err := h.services.ParseToken(parts[1])
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid or expired token",
		})
		return 0, false
	}
	return userId, true
}

// requireOperator enforces the bearer token only when auth is enabled.
// Routes naming a meter also check that meter is in the operator's scope.
func (h *Handler) requireOperator(c *gin.Context) {
	if !h.cfg.AuthEnabled {
		c.Next()
		return
	}
	userId, ok := h.authenticate(c)
	if !ok {
		return
	}
	c.Set("userId", userId)
	if meterID := c.Param("meter_id"); meterID != "" && !h.authorizeMeter(c, userId, meterID) {
		return
	}
	c.Next()
}

// authorizeMeter aborts the request unless the operator may command meterID.
func (h *Handler) authorizeMeter(c *gin.Context, userId int, meterID string) bool {
	err := h.services.Authorize(c.Request.Context(), userId, meterID)
	switch {
	case err == nil:
		return true
	case errors.Is(err, service.ErrForbidden):
		if h.log != nil {
			h.log.Infow("operator_out_of_scope", "user_id", userId, "meter_id", meterID)
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": fmt.Sprintf("operator may not command meter %s", meterID)})
	case errors.Is(err, service.ErrUserNotFound):
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unknown operator"})
	case errors.Is(err, service.ErrAuthUnavailable):
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		if h.log != nil {
			h.log.Errorw("operator_scope_check_failed", "user_id", userId, "meter_id", meterID, "err", err)
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": errInternal})
	}
	return false
}

func (h *Handler) rateLimit(c *gin.Context) {
	if h.limiter == nil || h.limiter.allow(c.ClientIP()) {
		c.Next()
		return
	}
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
}

// clientLimiter keeps one token bucket per client address. A bucket
// left alone for a full refill period is indistinguishable from a new
// one, so such buckets are swept at most once per period.
type clientLimiter struct {
	mu        sync.Mutex
	limit     rate.Limit
	burst     int
	idle      time.Duration
	now       func() time.Time
	lastSweep time.Time
	clients   map[string]*clientBucket
}

type clientBucket struct {
	lim  *rate.Limiter
	seen time.Time
}

// newClientLimiter returns nil when rps is not positive.
func newClientLimiter(rps float64, burst int) *clientLimiter {
	if rps <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return &clientLimiter{
		limit:   rate.Limit(rps),
		burst:   burst,
		idle:    time.Duration(float64(burst) / rps * float64(time.Second)),
		now:     time.Now,
		clients: make(map[string]*clientBucket),
	}
}

func (l *clientLimiter) allow(client string) bool {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()
	if now.Sub(l.lastSweep) >= l.idle {
		l.sweep(now)
	}
	b, ok := l.clients[client]
	if !ok {
		b = &clientBucket{lim: rate.NewLimiter(l.limit, l.burst)}
		l.clients[client] = b
	}
	b.seen = now
	return b.lim.AllowN(now, 1)
}

// sweep drops buckets idle for at least one refill period. Caller holds mu.
func (l *clientLimiter) sweep(now time.Time) {
	for client, b := range l.clients {
		if now.Sub(b.seen) >= l.idle {
			delete(l.clients, client)
		}
	}
	l.lastSweep = now
}
