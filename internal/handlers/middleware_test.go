package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/JYunth/wattswap-sim-backend/internal/models"
	"github.com/JYunth/wattswap-sim-backend/internal/service"
)

// minimal router wiring only the middleware + a protected endpoint
func newMiddlewareOnlyRouter(s *service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(s, nil, Config{})
	r.GET("/secure", h.userIdMiddleware, func(c *gin.Context) {
		uid, _ := c.Get("userId")
		c.JSON(http.StatusOK, gin.H{"ok": true, "userId": uid})
	})
	return r
}

func TestUserIDMiddleware_Errors(t *testing.T) {
	type want struct {
		code   int
		errMsg string
	}
	cases := []struct {
		name   string
		header string
		want   want
	}{
		{
			name:   "missing header",
			header: "",
			want:   want{code: http.StatusUnauthorized, errMsg: "missing Authorization header"},
		},
		{
			name:   "invalid scheme",
			header: "Token abc",
			// actual implementation returns "invalid Authorization header format"
			want: want{code: http.StatusUnauthorized, errMsg: "invalid Authorization header format"},
		},
		{
			name:   "bearer without token",
			header: "Bearer",
			want:   want{code: http.StatusUnauthorized, errMsg: "invalid Authorization header format"},
		},
		{
			name:   "expired/invalid token",
			header: "Bearer expired",
			want:   want{code: http.StatusUnauthorized, errMsg: "invalid or expired token"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			auth := &mockAuth{parseErr: nil}
			if tc.name == "expired/invalid token" {
				auth.parseErr = errors.New("expired")
			}
			s := &service.Service{Authorization: auth}
			r := newMiddlewareOnlyRouter(s)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/secure", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			r.ServeHTTP(w, req)

			if w.Code != tc.want.code {
				t.Fatalf("status: got %d, want %d (body=%s)", w.Code, tc.want.code, w.Body.String())
			}

			var out struct {
				Error string `json:"error"`
			}
			_ = json.Unmarshal(w.Body.Bytes(), &out)
			if out.Error != tc.want.errMsg {
				t.Fatalf("error message: got %q, want %q", out.Error, tc.want.errMsg)
			}
		})
	}
}

func TestUserIDMiddleware_SuccessSetsUserIDAndProceeds(t *testing.T) {
	auth := &mockAuth{parseID: 123, parseErr: nil}
	s := &service.Service{Authorization: auth}
	r := newMiddlewareOnlyRouter(s)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body=%s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp struct {
		OK     bool `json:"ok"`
		UserID int  `json:"userId"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !resp.OK || resp.UserID != 123 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if auth.lastParseToken != "good-token" {
		t.Fatalf("ParseToken got %q, want %q", auth.lastParseToken, "good-token")
	}
}

func TestRequireOperator_OnlyWhenAuthEnabled(t *testing.T) {
	ctl := &mockControl{}
	auth := &mockAuth{parseID: 7}
	s := &service.Service{Authorization: auth, Control: ctl}

	open := newTestRouterWith(s, Config{})
	w := httptest.NewRecorder()
	open.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/meters/demo_meter", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("auth disabled: got %d, body=%s", w.Code, w.Body.String())
	}

	gated := newTestRouterWith(s, Config{AuthEnabled: true})
	w = httptest.NewRecorder()
	gated.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/meters/demo_meter", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("auth enabled without token: got %d", w.Code)
	}
	if ctl.calls != 1 {
		t.Fatalf("provision reached %d times, want 1", ctl.calls)
	}

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/meters/demo_meter", nil)
	req.Header = authHeader("operator-token")
	gated.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("auth enabled with token: got %d, body=%s", w.Code, w.Body.String())
	}
	if auth.lastParseToken != "operator-token" {
		t.Fatalf("ParseToken got %q", auth.lastParseToken)
	}

	// reads stay open
	s.Monitoring = &mockMonitoring{ids: []string{"demo_meter"}}
	w = httptest.NewRecorder()
	gated.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/meters", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("read with auth enabled: got %d", w.Code)
	}
}

func TestRateLimit_PerClient(t *testing.T) {
	ctl := &mockControl{}
	s := &service.Service{Control: ctl}
	r := newTestRouterWith(s, Config{RateLimitRPS: 0.001, RateLimitBurst: 2})

	send := func(addr string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/meters/demo_meter", nil)
		req.RemoteAddr = addr
		r.ServeHTTP(w, req)
		return w.Code
	}

	for i := 0; i < 2; i++ {
		if code := send("10.0.0.1:4000"); code != http.StatusOK {
			t.Fatalf("request %d: got %d", i, code)
		}
	}
	if code := send("10.0.0.1:4001"); code != http.StatusTooManyRequests {
		t.Fatalf("third request: got %d, want 429", code)
	}
	if code := send("10.0.0.2:4000"); code != http.StatusOK {
		t.Fatalf("other client: got %d", code)
	}
	if ctl.calls != 3 {
		t.Fatalf("provision calls = %d, want 3", ctl.calls)
	}
}

func TestNewClientLimiter_DisabledWithoutRate(t *testing.T) {
	if l := newClientLimiter(0, 5); l != nil {
		t.Fatalf("expected nil limiter, got %+v", l)
	}
	l := newClientLimiter(1, 0)
	if l == nil || l.burst != 1 {
		t.Fatalf("burst should default to 1, got %+v", l)
	}
}

func TestClientLimiter_SweepsIdleBuckets(t *testing.T) {
	l := newClientLimiter(1, 2)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		if !l.allow("10.0.0.1") {
			t.Fatalf("request %d denied", i)
		}
	}
	if l.allow("10.0.0.1") {
		t.Fatal("third request in the same instant should be denied")
	}
	l.allow("10.0.0.2")
	if len(l.clients) != 2 {
		t.Fatalf("clients = %d, want 2", len(l.clients))
	}

	now = now.Add(time.Second)
	l.allow("10.0.0.3")
	if len(l.clients) != 3 {
		t.Fatalf("buckets swept before a refill period: %d left", len(l.clients))
	}

	now = now.Add(2 * time.Second)
	if !l.allow("10.0.0.3") {
		t.Fatal("refilled client denied")
	}
	if len(l.clients) != 1 {
		t.Fatalf("clients after sweep = %d, want 1", len(l.clients))
	}
	if _, ok := l.clients["10.0.0.3"]; !ok {
		t.Fatal("active client was swept")
	}
	if !l.allow("10.0.0.1") || !l.allow("10.0.0.1") {
		t.Fatal("swept client should start with a full bucket")
	}
}

func TestRequireOperator_MeterScope(t *testing.T) {
	cases := []struct {
		name         string
		authorizeErr error
		want         int
		wantCalls    int
	}{
		{"in scope", nil, http.StatusOK, 1},
		{"out of scope", fmt.Errorf("%w: operator 7 on meter west_feeder", service.ErrForbidden), http.StatusForbidden, 0},
		{"deleted operator", service.ErrUserNotFound, http.StatusUnauthorized, 0},
		{"store down", errors.New("database is locked"), http.StatusInternalServerError, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctl := &mockControl{}
			auth := &mockAuth{parseID: 7, authorizeErr: tc.authorizeErr}
			r := newTestRouterWith(&service.Service{Authorization: auth, Control: ctl}, Config{AuthEnabled: true})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPut, "/api/v1/meters/west_feeder/switches/daytime", strings.NewReader(`{"value":true}`))
			req.Header = authHeader("operator-token")
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)

			if w.Code != tc.want {
				t.Fatalf("status = %d, want %d, body=%s", w.Code, tc.want, w.Body.String())
			}
			if ctl.calls != tc.wantCalls {
				t.Fatalf("control reached %d times, want %d", ctl.calls, tc.wantCalls)
			}
			if len(auth.authorized) != 1 || auth.authorized[0] != "7:west_feeder" {
				t.Fatalf("scope checked for %v", auth.authorized)
			}
		})
	}
}

func TestCancelOrder_ChecksScopeOfOwningMeter(t *testing.T) {
	trading := &mockTrading{order: models.Order{OrderID: "ord-1", MeterID: "east_feeder", Status: models.OrderStatusAccepted}}
	auth := &mockAuth{parseID: 7, authorizeErr: service.ErrForbidden}
	s := &service.Service{Authorization: auth, Trading: trading}

	send := func(r http.Handler) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/ord-1/cancel", nil)
		req.Header = authHeader("operator-token")
		r.ServeHTTP(w, req)
		return w.Code
	}

	if code := send(newTestRouterWith(s, Config{AuthEnabled: true})); code != http.StatusForbidden {
		t.Fatalf("out of scope cancel: got %d, want 403", code)
	}
	if trading.cancelled != 0 {
		t.Fatalf("order cancelled despite scope: %d", trading.cancelled)
	}
	if len(auth.authorized) != 1 || auth.authorized[0] != "7:east_feeder" {
		t.Fatalf("scope checked for %v", auth.authorized)
	}

	auth.authorizeErr = nil
	if code := send(newTestRouterWith(s, Config{AuthEnabled: true})); code != http.StatusOK {
		t.Fatalf("in scope cancel: got %d", code)
	}
	if trading.cancelled != 1 {
		t.Fatalf("cancel calls = %d, want 1", trading.cancelled)
	}

	// without auth nothing is looked up before cancelling
	auth.authorized = nil
	if code := send(newTestRouterWith(s, Config{})); code != http.StatusOK {
		t.Fatalf("open cancel: got %d", code)
	}
	if len(auth.authorized) != 0 {
		t.Fatalf("scope checked with auth disabled: %v", auth.authorized)
	}
}
