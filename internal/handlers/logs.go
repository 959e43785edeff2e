package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/JYunth/wattswap-sim-backend/internal/service"
)

const (
	errFromInvalid  = "invalid 'from' time; use RFC3339 or YYYY-MM-DD"
	errToInvalid    = "invalid 'to' time; use RFC3339 or YYYY-MM-DD"
	errLimitInvalid = "invalid 'limit'; use a non-negative integer"

	layoutDateTime = "2006-01-02 15:04:05"
	layoutDate     = "2006-01-02"

	defaultEventLimit = 50
)

// isDateOnly reports whether the query string represents a date without time component.
func isDateOnly(s string) bool {
	return !strings.ContainsAny(s, "T ")
}

// @Summary      Recent events of a meter
// @Description  Most recent first, from the in-memory log.
// @Tags         logs
// @Produce      json
// @Param        meter_id  path   string  true   "Meter id"
// @Param        limit     query  int     false  "Maximum events (default 50, 0 for all retained)"
// @Success      200  {object}  map[string]interface{}  "count, events"
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/meters/{meter_id}/events [get]
func (h *Handler) getMeterEvents(c *gin.Context) {
	limit, ok := parseLimit(c, defaultEventLimit)
	if !ok {
		return
	}
	id := c.Param("meter_id")
	events, err := h.services.RecentEvents(id, limit)
	if err != nil {
		h.writeServiceError(c, "meter_events_failed", err, "meter_id", id)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":  len(events),
		"events": events,
	})
}

// @Summary      List logs
// @Description  Filter archived events by meter, simulated time (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD'), severity and category. If 'to' is date-only, it is treated as end-of-day inclusive.
// @Tags         logs
// @Produce      json
// @Param        meter_id  query  string  false  "Meter id"
// @Param        from      query  string  false  "Start of range"  example(2025-08-01)
// @Param        to        query  string  false  "End of range. Date-only treated as end of day."  example(2025-08-31)
// @Param        severity  query  string  false  "Severity"  Enums(info,warning,error)
// @Param        category  query  string  false  "Category"  example(order_executed)
// @Param        limit     query  int     false  "Maximum events, 0 for all"
// @Success      200  {object}  map[string]interface{}  "count, events"
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/logs [get]
func (h *Handler) getLogs(c *gin.Context) {
	from, to, ok := parseRange(c)
	if !ok {
		return
	}
	limit, ok := parseLimit(c, 0)
	if !ok {
		return
	}
	f := service.LogFilter{
		MeterID:  c.Query("meter_id"),
		From:     from,
		To:       to,
		Severity: c.Query("severity"),
		Category: c.Query("category"),
		Limit:    limit,
	}
	events, err := h.services.ListEvents(c.Request.Context(), f)
	if err != nil {
		h.writeServiceError(c, "logs_list_failed", err,
			"meter_id", f.MeterID, "from", from, "to", to, "severity", f.Severity, "category", f.Category)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":  len(events),
		"events": events,
	})
}

func parseLimit(c *gin.Context, def int) (int, bool) {
	qs := c.Query("limit")
	if qs == "" {
		return def, true
	}
	n, err := strconv.Atoi(qs)
	if err != nil || n < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": errLimitInvalid})
		return 0, false
	}
	return n, true
}

func parseQueryTime(s string) (time.Time, error) {
	// Try multiple accepted formats, normalizing to UTC.
	for _, layout := range []string{time.RFC3339, layoutDateTime, layoutDate} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf(
		"invalid time format %q, expected one of: "+
			"RFC3339 (e.g. 2025-08-27T15:04:05Z), "+
			"'YYYY-MM-DD HH:MM:SS', "+
			"'YYYY-MM-DD'",
		s,
	)
}
