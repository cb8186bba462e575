package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rsheldon/courierlog/internal/domain"
	"github.com/rsheldon/courierlog/internal/service"
	"github.com/rsheldon/courierlog/internal/session"
)

// Handler routes HTTP requests to the service layer. The provider
// resolves which service bundle backs a request: the shared one in
// persistent mode, or the caller's session in demo mode.
type Handler struct {
	logger   *zap.Logger
	provider session.Provider
	demoMode bool
	sessions *session.Manager
}

func NewHandler(logger *zap.Logger, provider session.Provider) *Handler {
	h := &Handler{logger: logger, provider: provider}
	if m, ok := provider.(*session.Manager); ok {
		h.demoMode = true
		h.sessions = m
	}
	return h
}

func (h *Handler) services(c *gin.Context) (*service.Services, bool) {
	svc, err := h.provider.Services(c)
	if err != nil {
		h.logger.Error("Failed to resolve session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve session"})
		return nil, false
	}
	return svc, true
}

// writeError maps domain errors onto HTTP statuses. Storage failures
// get an opaque body; the detail goes to the log only.
func (h *Handler) writeError(c *gin.Context, err error, op string) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error(), "fields": verr.Fields})
	case errors.Is(err, domain.ErrActiveShiftExists):
		c.JSON(http.StatusConflict, gin.H{"error": "A shift is already active"})
	case errors.Is(err, domain.ErrShiftNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Shift not found"})
	case errors.Is(err, domain.ErrMaintenanceNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Maintenance item not found"})
	default:
		h.logger.Error("Request failed", zap.String("op", op), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
