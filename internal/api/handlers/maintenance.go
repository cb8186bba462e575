package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rsheldon/courierlog/internal/models"
)

func maintenanceID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid maintenance item ID"})
		return 0, false
	}
	return id, true
}

// ListMaintenance returns every reminder with remaining mileage.
func (h *Handler) ListMaintenance(c *gin.Context) {
	svc, ok := h.services(c)
	if !ok {
		return
	}

	items, err := svc.Maintenance.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err, "list maintenance")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": items})
}

// GetDueMaintenance returns the items currently due and the odometer
// reading they were evaluated against.
func (h *Handler) GetDueMaintenance(c *gin.Context) {
	svc, ok := h.services(c)
	if !ok {
		return
	}

	due, err := svc.Maintenance.Due(c.Request.Context())
	if err != nil {
		h.writeError(c, err, "due maintenance")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": due})
}

// CreateMaintenance adds a new reminder.
func (h *Handler) CreateMaintenance(c *gin.Context) {
	svc, ok := h.services(c)
	if !ok {
		return
	}

	var req models.CreateMaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	item, err := svc.Maintenance.Create(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err, "create maintenance")
		return
	}

	h.logger.Info("Maintenance item created via API",
		zap.Int64("item_id", item.ID),
		zap.String("name", item.Name))
	c.JSON(http.StatusCreated, gin.H{"data": item})
}

// UpdateMaintenance edits a reminder.
func (h *Handler) UpdateMaintenance(c *gin.Context) {
	svc, ok := h.services(c)
	if !ok {
		return
	}
	id, ok := maintenanceID(c)
	if !ok {
		return
	}

	var req models.UpdateMaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	item, err := svc.Maintenance.Update(c.Request.Context(), id, req)
	if err != nil {
		h.writeError(c, err, "update maintenance")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": item})
}

// DeleteMaintenance removes a reminder.
func (h *Handler) DeleteMaintenance(c *gin.Context) {
	svc, ok := h.services(c)
	if !ok {
		return
	}
	id, ok := maintenanceID(c)
	if !ok {
		return
	}

	if err := svc.Maintenance.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err, "delete maintenance")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Maintenance item deleted", "item_id": id})
}
