package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/herdbook/internal/domain/calendar"
	"github.com/mamadbah2/herdbook/internal/domain/models"
	"github.com/mamadbah2/herdbook/internal/service/finance"
)

// FinanceService is what the ledger routes need.
type FinanceService interface {
	Ledger(ctx context.Context, owner uuid.UUID, rng *calendar.Range) (finance.Ledger, error)
	Record(ctx context.Context, owner uuid.UUID, rec models.FinancialRecord) (models.FinancialRecord, error)
	Delete(ctx context.Context, owner, id uuid.UUID) error
}

// FinanceHandler serves the ledger.
type FinanceHandler struct {
	svc    FinanceService
	loc    *time.Location
	logger *zap.Logger
}

func NewFinanceHandler(svc FinanceService, loc *time.Location, logger *zap.Logger) *FinanceHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FinanceHandler{svc: svc, loc: loc, logger: logger}
}

// Ledger handles GET /finance?start=&end=. Without a range every record counts.
func (h *FinanceHandler) Ledger(c *gin.Context) {
	rng, err := rangeQuery(c, h.loc)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	ledger, err := h.svc.Ledger(c.Request.Context(), owner(c), rng)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, ledger)
}

func (h *FinanceHandler) Record(c *gin.Context) {
	var rec models.FinancialRecord
	if err := c.ShouldBindJSON(&rec); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	created, err := h.svc.Record(c.Request.Context(), owner(c), rec)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *FinanceHandler) Delete(c *gin.Context) {
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

// Categories lists the suggested categories per kind.
func (h *FinanceHandler) Categories(c *gin.Context) {
	c.JSON(http.StatusOK, finance.Categories())
}
