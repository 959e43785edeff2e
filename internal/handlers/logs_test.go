package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/JYunth/wattswap-sim-backend/internal/models"
	"github.com/JYunth/wattswap-sim-backend/internal/service"
)

func TestLogsHandler_ListAndValidation(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	events := []models.Event{
		{EventID: "e2", Timestamp: now.Add(time.Second), MeterID: "demo_meter", Severity: models.SeverityInfo, Category: models.CategoryOrderExecuted, Message: "executed"},
		{EventID: "e1", Timestamp: now, MeterID: "demo_meter", Severity: models.SeverityInfo, Category: models.CategoryOrderAccepted, Message: "accepted"},
	}
	logs := &mockEventLog{resp: events}
	r := newTestRouter(&service.Service{EventLog: logs})

	for _, q := range []string{"from=notatime", "to=31-12-2025", "limit=-1", "limit=ten", "from=2025-06-02&to=2025-06-01"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/logs?"+q, nil))
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", q, w.Code)
		}
	}

	w := httptest.NewRecorder()
	q := "/api/v1/logs?meter_id=demo_meter&from=" + now.Format(time.RFC3339) + "&to=2025-06-01&severity=INFO&category=order_executed&limit=5"
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, q, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("logs status=%d, body=%s", w.Code, w.Body.String())
	}
	var out struct {
		Count  int            `json:"count"`
		Events []models.Event `json:"events"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if out.Count != 2 || out.Events[0].EventID != "e2" {
		t.Fatalf("unexpected response: %+v", out)
	}
	f := logs.lastFilter
	if f.MeterID != "demo_meter" || f.Severity != "INFO" || f.Category != "order_executed" || f.Limit != 5 {
		t.Fatalf("filter not forwarded: %+v", f)
	}
	if !f.From.Equal(now) {
		t.Fatalf("from = %v", f.From)
	}
	if want := time.Date(2025, 6, 1, 23, 59, 59, 999999999, time.UTC); !f.To.Equal(want) {
		t.Fatalf("date-only 'to' should be end of day, got %v", f.To)
	}
}

func TestLogsHandler_ServiceErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", models.Invalid("severity", "bad"), http.StatusBadRequest},
		{"unknown_meter", models.MeterNotFound("ghost"), http.StatusNotFound},
		{"storage", errBoom, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRouter(&service.Service{EventLog: &mockEventLog{err: tc.err}})
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/logs", nil))
			if w.Code != tc.want {
				t.Fatalf("got %d, want %d", w.Code, tc.want)
			}
			if tc.want == http.StatusInternalServerError && w.Body.String() != `{"error":"internal error"}` {
				t.Fatalf("internal error leaked: %s", w.Body.String())
			}
		})
	}
}

func TestMeterEvents_DefaultLimit(t *testing.T) {
	logs := &mockEventLog{resp: []models.Event{{EventID: "e1", MeterID: "demo_meter"}}}
	r := newTestRouter(&service.Service{EventLog: logs})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/meters/demo_meter/events", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if logs.lastMeterID != "demo_meter" || logs.lastLimit != defaultEventLimit {
		t.Fatalf("got meter=%q limit=%d", logs.lastMeterID, logs.lastLimit)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/meters/demo_meter/events?limit=3", nil))
	if w.Code != http.StatusOK || logs.lastLimit != 3 {
		t.Fatalf("status=%d limit=%d", w.Code, logs.lastLimit)
	}

	logs.err = models.MeterNotFound("demo_meter")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/meters/demo_meter/events", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestParseQueryTime(t *testing.T) {
	cases := map[string]time.Time{
		"2025-08-27T15:04:05+02:00": time.Date(2025, 8, 27, 13, 4, 5, 0, time.UTC),
		"2025-08-27 15:04:05":       time.Date(2025, 8, 27, 15, 4, 5, 0, time.UTC),
		"2025-08-27":                time.Date(2025, 8, 27, 0, 0, 0, 0, time.UTC),
	}
	for in, want := range cases {
		got, err := parseQueryTime(in)
		if err != nil || !got.Equal(want) {
			t.Fatalf("%s: got %v, %v", in, got, err)
		}
	}
	if _, err := parseQueryTime("yesterday"); err == nil {
		t.Fatal("expected error")
	}
}
