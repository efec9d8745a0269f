package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-sql/civil"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/herdbook/internal/domain/calendar"
	"github.com/mamadbah2/herdbook/internal/domain/models"
	"github.com/mamadbah2/herdbook/internal/service/production"
)

// ProductionService is what the milk routes need.
type ProductionService interface {
	Overview(ctx context.Context, owner uuid.UUID, rng *calendar.Range) (production.Overview, error)
	RecordIndividual(ctx context.Context, owner, animalID uuid.UUID, date civil.Date, period models.Period, liters float64) (models.MilkRecord, error)
	RecordHerdTotal(ctx context.Context, owner uuid.UUID, date *civil.Date, liters float64) (models.MilkRecord, error)
	Delete(ctx context.Context, owner, id uuid.UUID) error
}

// MilkHandler serves production figures and milk record writes.
type MilkHandler struct {
	svc    ProductionService
	loc    *time.Location
	logger *zap.Logger
}

func NewMilkHandler(svc ProductionService, loc *time.Location, logger *zap.Logger) *MilkHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MilkHandler{svc: svc, loc: loc, logger: logger}
}

// Overview handles GET /milk?start=&end=. Without a range it covers today.
func (h *MilkHandler) Overview(c *gin.Context) {
	rng, err := rangeQuery(c, h.loc)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	ov, err := h.svc.Overview(c.Request.Context(), owner(c), rng)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, ov)
}

type individualRequest struct {
	AnimalID uuid.UUID     `json:"animal_id"`
	Date     civil.Date    `json:"date"`
	Period   models.Period `json:"period"`
	Quantity float64       `json:"quantity"`
}

func (h *MilkHandler) RecordIndividual(c *gin.Context) {
	var req individualRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	rec, err := h.svc.RecordIndividual(c.Request.Context(), owner(c), req.AnimalID, req.Date, req.Period, req.Quantity)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

type herdTotalRequest struct {
	Date     *civil.Date `json:"date"`
	Quantity *float64    `json:"quantity"`
}

// RecordHerdTotal stores a whole-herd figure. A missing date means today.
func (h *MilkHandler) RecordHerdTotal(c *gin.Context) {
	var req herdTotalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	if req.Quantity == nil {
		respondError(c, h.logger, models.NewValidationError("quantity", "is required"))
		return
	}
	rec, err := h.svc.RecordHerdTotal(c.Request.Context(), owner(c), req.Date, *req.Quantity)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

func (h *MilkHandler) Delete(c *gin.Context) {
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
