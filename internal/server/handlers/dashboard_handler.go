package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/herdbook/internal/domain/models"
)

const defaultHistoryLimit = 30

// ReportingService is what the dashboard routes need.
type ReportingService interface {
	Snapshot(ctx context.Context, owner uuid.UUID) (models.DailySnapshot, error)
	Digest(ctx context.Context, owner uuid.UUID) (string, error)
	History(ctx context.Context, owner uuid.UUID, limit int64) ([]models.DailySnapshot, error)
}

// DashboardHandler serves today's figures and the snapshot history.
type DashboardHandler struct {
	svc    ReportingService
	logger *zap.Logger
}

func NewDashboardHandler(svc ReportingService, logger *zap.Logger) *DashboardHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardHandler{svc: svc, logger: logger}
}

func (h *DashboardHandler) Snapshot(c *gin.Context) {
	snap, err := h.svc.Snapshot(c.Request.Context(), owner(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *DashboardHandler) Digest(c *gin.Context) {
	text, err := h.svc.Digest(c.Request.Context(), owner(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"digest": text})
}

// History handles GET /dashboard/history?limit=.
func (h *DashboardHandler) History(c *gin.Context) {
	limit, err := intQuery(c, "limit", defaultHistoryLimit)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	list, err := h.svc.History(c.Request.Context(), owner(c), int64(limit))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, list)
}
