package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/herdbook/internal/domain/models"
	"github.com/mamadbah2/herdbook/internal/service/alerts"
)

// AlertService is what the alert routes need.
type AlertService interface {
	Timeline(ctx context.Context, owner uuid.UUID) (alerts.Timeline, error)
	Create(ctx context.Context, owner uuid.UUID, alert models.Alert) (models.Alert, error)
	Conclude(ctx context.Context, owner, id uuid.UUID) (models.Alert, error)
	Delete(ctx context.Context, owner, id uuid.UUID) error
}

// AlertHandler serves the alert timeline and alert writes.
type AlertHandler struct {
	svc    AlertService
	logger *zap.Logger
}

func NewAlertHandler(svc AlertService, logger *zap.Logger) *AlertHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AlertHandler{svc: svc, logger: logger}
}

// Timeline returns calvings, vaccinations and explicit alerts in one view.
func (h *AlertHandler) Timeline(c *gin.Context) {
	tl, err := h.svc.Timeline(c.Request.Context(), owner(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, tl)
}

func (h *AlertHandler) Create(c *gin.Context) {
	var alert models.Alert
	if err := c.ShouldBindJSON(&alert); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	created, err := h.svc.Create(c.Request.Context(), owner(c), alert)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *AlertHandler) Conclude(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	alert, err := h.svc.Conclude(c.Request.Context(), owner(c), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, alert)
}

func (h *AlertHandler) Delete(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if err := h.svc.Delete(c.Request.Context(), owner(c), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
