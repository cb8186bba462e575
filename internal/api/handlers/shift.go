package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rsheldon/courierlog/internal/models"
	"github.com/rsheldon/courierlog/internal/timeframe"
)

// resolveRange builds the time window from the period query params.
// The tz parameter names an IANA zone; boundaries are computed in that
// zone so month and day edges land where the caller expects.
func (h *Handler) resolveRange(c *gin.Context) (*timeframe.Range, bool) {
	loc := time.UTC
	if tz := c.Query("tz"); tz != "" {
		parsed, err := time.LoadLocation(tz)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown timezone", "fields": gin.H{"tz": tz}})
			return nil, false
		}
		loc = parsed
	}

	rng, err := timeframe.Resolve(
		timeframe.Period(c.Query("period")),
		c.Query("start_date"),
		c.Query("end_date"),
		time.Now(),
		loc,
	)
	if err != nil {
		h.writeError(c, err, "resolve range")
		return nil, false
	}
	return rng, true
}

func shiftID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid shift ID"})
		return 0, false
	}
	return id, true
}

// ListShifts returns shifts in the requested window, newest first.
func (h *Handler) ListShifts(c *gin.Context) {
	svc, ok := h.services(c)
	if !ok {
		return
	}
	rng, ok := h.resolveRange(c)
	if !ok {
		return
	}

	shifts, err := svc.Shifts.List(c.Request.Context(), rng)
	if err != nil {
		h.writeError(c, err, "list shifts")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": shifts})
}

// GetActiveShift returns the open shift, or null when off duty.
func (h *Handler) GetActiveShift(c *gin.Context) {
	svc, ok := h.services(c)
	if !ok {
		return
	}

	shift, err := svc.Shifts.Active(c.Request.Context())
	if err != nil {
		h.writeError(c, err, "get active shift")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": shift})
}

// StartShift opens a new shift.
func (h *Handler) StartShift(c *gin.Context) {
	svc, ok := h.services(c)
	if !ok {
		return
	}

	var req models.StartShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	shift, err := svc.Shifts.Start(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err, "start shift")
		return
	}

	h.logger.Info("Shift started via API", zap.Int64("shift_id", shift.ID))
	c.JSON(http.StatusCreated, gin.H{"data": shift})
}

// EndShift closes an open shift with its final odometer and earnings.
func (h *Handler) EndShift(c *gin.Context) {
	svc, ok := h.services(c)
	if !ok {
		return
	}
	id, ok := shiftID(c)
	if !ok {
		return
	}

	var req models.EndShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	shift, err := svc.Shifts.End(c.Request.Context(), id, req)
	if err != nil {
		h.writeError(c, err, "end shift")
		return
	}

	h.logger.Info("Shift ended via API", zap.Int64("shift_id", id))
	c.JSON(http.StatusOK, gin.H{"data": shift})
}

// UpdateShift edits any fields of an existing shift. Derived values
// are recomputed from whatever the shift looks like afterwards.
func (h *Handler) UpdateShift(c *gin.Context) {
	svc, ok := h.services(c)
	if !ok {
		return
	}
	id, ok := shiftID(c)
	if !ok {
		return
	}

	var req models.UpdateShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	shift, err := svc.Shifts.Update(c.Request.Context(), id, req)
	if err != nil {
		h.writeError(c, err, "update shift")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": shift})
}

// DeleteShift removes a shift.
func (h *Handler) DeleteShift(c *gin.Context) {
	svc, ok := h.services(c)
	if !ok {
		return
	}
	id, ok := shiftID(c)
	if !ok {
		return
	}

	if err := svc.Shifts.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err, "delete shift")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Shift deleted", "shift_id": id})
}

// GetShiftStats aggregates closed shifts in the requested window.
func (h *Handler) GetShiftStats(c *gin.Context) {
	svc, ok := h.services(c)
	if !ok {
		return
	}
	rng, ok := h.resolveRange(c)
	if !ok {
		return
	}

	stats, err := svc.Shifts.Stats(c.Request.Context(), rng)
	if err != nil {
		h.writeError(c, err, "shift stats")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": stats})
}

// ExportShifts streams the requested window as a CSV attachment.
func (h *Handler) ExportShifts(c *gin.Context) {
	svc, ok := h.services(c)
	if !ok {
		return
	}
	rng, ok := h.resolveRange(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="shifts.csv"`)

	if err := svc.Shifts.ExportCSV(c.Request.Context(), c.Writer, rng); err != nil {
		h.logger.Error("Failed to export shifts", zap.Error(err))
	}
}

// GetStatus reports the duty state machine and the open shift, if any.
func (h *Handler) GetStatus(c *gin.Context) {
	svc, ok := h.services(c)
	if !ok {
		return
	}

	status, err := svc.Shifts.Status(c.Request.Context())
	if err != nil {
		h.writeError(c, err, "duty status")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": status})
}
