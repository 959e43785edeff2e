package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNormalizeAddr(t *testing.T) {
	cases := map[string]string{"": "", "8080": ":8080", ":9090": ":9090"}
	for in, want := range cases {
		if got := normalizeAddr(in); got != want {
			t.Fatalf("normalizeAddr(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNewHTTPServer_Limits(t *testing.T) {
	srv := newHTTPServer(":8080", http.NotFoundHandler())
	if srv.MaxHeaderBytes != maxHeaderBytes || srv.ReadHeaderTimeout != readHeaderTimeout || srv.IdleTimeout != idleTimeout {
		t.Fatalf("unexpected server settings: %+v", srv)
	}
}

func TestShutdown_BeforeRun(t *testing.T) {
	var s Server
	if err := s.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown before run: %v", err)
	}
}

func TestWithCORS(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	preflight := func(h http.Handler, origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/meters/demo_meter/orders", nil)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w
	}

	open := WithCORS(ok, nil)
	if got := preflight(open, "https://dash.example").Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("open policy: allow-origin = %q", got)
	}

	strict := WithCORS(ok, []string{"https://dash.example"})
	if got := preflight(strict, "https://dash.example").Header().Get("Access-Control-Allow-Origin"); got != "https://dash.example" {
		t.Fatalf("listed origin: allow-origin = %q", got)
	}
	if got := preflight(strict, "https://evil.example").Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("unlisted origin: allow-origin = %q", got)
	}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	strict.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("same-origin request: got %d", w.Code)
	}
}
