package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/JYunth/wattswap-sim-backend/internal/service"
)

// SetSwitchRequest carries one switch value. Its JSON type must match
// the switch: bool, number, "off|fast|scheduled" or {"bias_pct": n}.
type SetSwitchRequest struct {
	Value any `json:"value" swaggertype:"object"`
}

// ApplyProfileRequest names a switch preset.
type ApplyProfileRequest struct {
	Profile string `json:"profile" binding:"required" example:"sunny_day"`
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  models.Health
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Health())
}

// @Summary      Static simulation constants
// @Tags         system
// @Produce      json
// @Success      200  {object}  models.Constants
// @Router       /api/v1/constants [get]
func (h *Handler) getConstants(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Constants())
}

// @Summary      Switch presets
// @Tags         control
// @Produce      json
// @Success      200  {object}  map[string]models.Switches
// @Router       /api/v1/profiles [get]
func (h *Handler) getProfiles(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Profiles())
}

// @Summary      List meters
// @Tags         meters
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, meters"
// @Router       /api/v1/meters [get]
func (h *Handler) listMeters(c *gin.Context) {
	ids := h.services.MeterIDs()
	c.JSON(http.StatusOK, gin.H{"count": len(ids), "meters": ids})
}

// @Summary      Provision a meter
// @Description  Creates the meter on first reference; repeated calls return it unchanged.
// @Tags         meters
// @Produce      json
// @Param        meter_id  path  string  true  "Meter id"
// @Success      200  {object}  models.Snapshot
// @Success      201  {object}  models.Snapshot
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /api/v1/meters/{meter_id} [post]
// @Security     BearerAuth
func (h *Handler) provisionMeter(c *gin.Context) {
	id := c.Param("meter_id")
	snap, created, err := h.services.ProvisionMeter(id)
	if err != nil {
		h.writeServiceError(c, "meter_provision_failed", err, "meter_id", id)
		return
	}
	code := http.StatusOK
	if created {
		code = http.StatusCreated
	}
	c.JSON(code, snap)
}

// @Summary      Current snapshot
// @Tags         meters
// @Produce      json
// @Param        meter_id  path  string  true  "Meter id"
// @Success      200  {object}  models.Snapshot
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/meters/{meter_id}/snapshot [get]
func (h *Handler) getSnapshot(c *gin.Context) {
	id := c.Param("meter_id")
	snap, err := h.services.Snapshot(id)
	if err != nil {
		h.writeServiceError(c, "snapshot_failed", err, "meter_id", id)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// @Summary      Snapshot history
// @Description  Snapshots between from and to (simulated time), oldest first.
// @Tags         meters
// @Produce      json
// @Param        meter_id  path   string  true   "Meter id"
// @Param        from      query  string  false  "Start (RFC3339, 'YYYY-MM-DD HH:MM:SS' or 'YYYY-MM-DD')"
// @Param        to        query  string  false  "End; date-only means end of day"
// @Success      200  {object}  map[string]interface{}  "count, points"
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/meters/{meter_id}/timeseries [get]
func (h *Handler) getTimeseries(c *gin.Context) {
	id := c.Param("meter_id")
	from, to, ok := parseRange(c)
	if !ok {
		return
	}
	points, err := h.services.Timeseries(c.Request.Context(), id, service.TimeRange{From: from, To: to})
	if err != nil {
		h.writeServiceError(c, "timeseries_failed", err, "meter_id", id)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(points), "points": points})
}

// @Summary      Current switches
// @Tags         control
// @Produce      json
// @Param        meter_id  path  string  true  "Meter id"
// @Success      200  {object}  models.Switches
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/meters/{meter_id}/switches [get]
func (h *Handler) getSwitches(c *gin.Context) {
	id := c.Param("meter_id")
	sw, err := h.services.Switches(id)
	if err != nil {
		h.writeServiceError(c, "switches_failed", err, "meter_id", id)
		return
	}
	c.JSON(http.StatusOK, sw)
}

// @Summary      Set one switch
// @Tags         control
// @Accept       json
// @Produce      json
// @Param        meter_id  path  string            true  "Meter id"
// @Param        switch    path  string            true  "Switch name"  Enums(daytime,grid_connected,market_enabled,battery_reserve_pct,manual_load_delta_kw,sun_cloud_factor,ev_plug,ev_mode,fault_inject,time_acceleration)
// @Param        body      body  SetSwitchRequest  true  "New value"
// @Success      200  {object}  models.Switches
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      429  {object}  map[string]string
// @Router       /api/v1/meters/{meter_id}/switches/{switch} [put]
// @Security     BearerAuth
func (h *Handler) setSwitch(c *gin.Context) {
	var body map[string]any
	if ok := h.bindJSONOrBadRequest(c, &body); !ok {
		return
	}
	value, present := body["value"]
	if !present {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + "value is required"})
		return
	}
	id, name := c.Param("meter_id"), c.Param("switch")
	sw, err := h.services.SetSwitch(id, name, value)
	if err != nil {
		h.writeServiceError(c, "set_switch_failed", err, "meter_id", id, "switch", name)
		return
	}
	c.JSON(http.StatusOK, sw)
}

// @Summary      Apply a switch preset
// @Tags         control
// @Accept       json
// @Produce      json
// @Param        meter_id  path  string               true  "Meter id"
// @Param        body      body  ApplyProfileRequest  true  "Preset"
// @Success      200  {object}  models.Switches
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/meters/{meter_id}/profile [post]
// @Security     BearerAuth
func (h *Handler) applyProfile(c *gin.Context) {
	var req ApplyProfileRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	id := c.Param("meter_id")
	sw, err := h.services.ApplyProfile(id, req.Profile)
	if err != nil {
		h.writeServiceError(c, "apply_profile_failed", err, "meter_id", id, "profile", req.Profile)
		return
	}
	c.JSON(http.StatusOK, sw)
}

// @Summary      Time acceleration
// @Tags         control
// @Produce      json
// @Param        meter_id  path  string  true  "Meter id"
// @Success      200  {object}  map[string]float64
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/meters/{meter_id}/time-acceleration [get]
func (h *Handler) getTimeAcceleration(c *gin.Context) {
	id := c.Param("meter_id")
	accel, err := h.services.TimeAcceleration(id)
	if err != nil {
		h.writeServiceError(c, "time_acceleration_failed", err, "meter_id", id)
		return
	}
	c.JSON(http.StatusOK, gin.H{"time_acceleration": accel})
}

// parseRange reads optional from/to query times. It writes the 400 itself.
func parseRange(c *gin.Context) (from, to time.Time, ok bool) {
	var err error
	if qs := c.Query("from"); qs != "" {
		if from, err = parseQueryTime(qs); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errFromInvalid})
			return time.Time{}, time.Time{}, false
		}
	}
	if qs := c.Query("to"); qs != "" {
		if to, err = parseQueryTime(qs); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errToInvalid})
			return time.Time{}, time.Time{}, false
		}
		if isDateOnly(qs) {
			to = to.Add(24*time.Hour - time.Nanosecond).UTC()
		}
	}
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "'from' must be <= 'to'"})
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}
