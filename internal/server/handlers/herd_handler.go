package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/golang-sql/civil"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/herdbook/internal/domain/models"
)

// HerdService is what the herd routes need from the herd service.
type HerdService interface {
	List(ctx context.Context, owner uuid.UUID) ([]models.Animal, error)
	Get(ctx context.Context, owner, id uuid.UUID) (models.Animal, error)
	Create(ctx context.Context, owner uuid.UUID, animal models.Animal) (models.Animal, error)
	Update(ctx context.Context, owner, id uuid.UUID, animal models.Animal) (models.Animal, error)
	Delete(ctx context.Context, owner, id uuid.UUID) error
	RecordCalving(ctx context.Context, owner, id uuid.UUID, nextCalving *civil.Date) (models.Animal, error)
	RecordVaccination(ctx context.Context, owner, id uuid.UUID, v models.Vaccination) (models.Animal, error)
	RemoveVaccination(ctx context.Context, owner, id uuid.UUID, list models.VaccinationList, index int) (models.Animal, error)
	FeedRecords(ctx context.Context, owner, animalID uuid.UUID) ([]models.FeedRecord, error)
	RecordFeed(ctx context.Context, owner uuid.UUID, rec models.FeedRecord) (models.FeedRecord, error)
	Profile(ctx context.Context, owner uuid.UUID) (models.FarmProfile, error)
	UpdateProfile(ctx context.Context, owner uuid.UUID, farmName, city string) (models.FarmProfile, error)
}

// HerdHandler serves animals, feed records and the farm profile.
type HerdHandler struct {
	svc    HerdService
	logger *zap.Logger
}

// NewHerdHandler constructs the herd routes.
func NewHerdHandler(svc HerdService, logger *zap.Logger) *HerdHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HerdHandler{svc: svc, logger: logger}
}

func (h *HerdHandler) ListAnimals(c *gin.Context) {
	animals, err := h.svc.List(c.Request.Context(), owner(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, animals)
}

func (h *HerdHandler) GetAnimal(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	animal, err := h.svc.Get(c.Request.Context(), owner(c), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, animal)
}

func (h *HerdHandler) CreateAnimal(c *gin.Context) {
	var animal models.Animal
	if err := c.ShouldBindJSON(&animal); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	created, err := h.svc.Create(c.Request.Context(), owner(c), animal)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *HerdHandler) UpdateAnimal(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	var animal models.Animal
	if err := c.ShouldBindJSON(&animal); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	updated, err := h.svc.Update(c.Request.Context(), owner(c), id, animal)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *HerdHandler) DeleteAnimal(c *gin.Context) {
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

type calvingRequest struct {
	NextCalving *civil.Date `json:"next_calving_date"`
}

// RecordCalving increments the parity and replaces the next calving date.
func (h *HerdHandler) RecordCalving(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	var req calvingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	animal, err := h.svc.RecordCalving(c.Request.Context(), owner(c), id, req.NextCalving)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, animal)
}

func (h *HerdHandler) RecordVaccination(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	var v models.Vaccination
	if err := c.ShouldBindJSON(&v); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	animal, err := h.svc.RecordVaccination(c.Request.Context(), owner(c), id, v)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, animal)
}

// RemoveVaccination handles DELETE /animals/:id/vaccinations/:list/:index.
func (h *HerdHandler) RemoveVaccination(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		respondError(c, h.logger, models.NewValidationError("index", "must be an integer"))
		return
	}
	list := models.VaccinationList(c.Param("list"))
	animal, err := h.svc.RemoveVaccination(c.Request.Context(), owner(c), id, list, index)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, animal)
}

// ListFeed returns feed records, optionally for the animal named by ?animal_id.
func (h *HerdHandler) ListFeed(c *gin.Context) {
	animalID := uuid.Nil
	if raw := c.Query("animal_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			respondError(c, h.logger, models.NewValidationError("animal_id", "must be a uuid"))
			return
		}
		animalID = parsed
	}
	records, err := h.svc.FeedRecords(c.Request.Context(), owner(c), animalID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

func (h *HerdHandler) RecordFeed(c *gin.Context) {
	var rec models.FeedRecord
	if err := c.ShouldBindJSON(&rec); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	created, err := h.svc.RecordFeed(c.Request.Context(), owner(c), rec)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *HerdHandler) GetProfile(c *gin.Context) {
	profile, err := h.svc.Profile(c.Request.Context(), owner(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

type profileRequest struct {
	FarmName string `json:"farm_name"`
	City     string `json:"city"`
}

func (h *HerdHandler) UpdateProfile(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	profile, err := h.svc.UpdateProfile(c.Request.Context(), owner(c), req.FarmName, req.City)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
