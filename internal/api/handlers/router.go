package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires the API routes onto the engine.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.Use(corsMiddleware())

	api := r.Group("/api")
	{
		// Shifts
		api.GET("/shifts", h.ListShifts)
		api.GET("/shifts/active", h.GetActiveShift)
		api.GET("/shifts/stats", h.GetShiftStats)
		api.GET("/shifts/export", h.ExportShifts)
		api.POST("/shifts/start", h.StartShift)
		api.POST("/shifts/:id/end", h.EndShift)
		api.PUT("/shifts/:id", h.UpdateShift)
		api.DELETE("/shifts/:id", h.DeleteShift)

		// Maintenance
		api.GET("/maintenance", h.ListMaintenance)
		api.GET("/maintenance/due", h.GetDueMaintenance)
		api.POST("/maintenance", h.CreateMaintenance)
		api.PUT("/maintenance/:id", h.UpdateMaintenance)
		api.DELETE("/maintenance/:id", h.DeleteMaintenance)

		// Duty status
		api.GET("/status", h.GetStatus)
	}

	r.GET("/health", h.HealthCheck)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// HealthCheck reports the serving mode and, in demo mode, how many
// sessions are live.
func (h *Handler) HealthCheck(c *gin.Context) {
	body := gin.H{"status": "ok", "mode": "persistent"}
	if h.demoMode {
		body["mode"] = "demo"
		body["sessions"] = h.sessions.Count()
	}
	c.JSON(http.StatusOK, body)
}
