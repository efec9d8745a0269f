package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/herdbook/internal/auth"
	"github.com/mamadbah2/herdbook/internal/domain/calendar"
	"github.com/mamadbah2/herdbook/internal/domain/models"
)

// respondError maps service errors onto status codes. Unknown errors are
// logged and hidden from the client.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "fields": verr.Errors})
	case errors.Is(err, models.ErrNotAuthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
	case errors.Is(err, models.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, models.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrBackend):
		logger.Error("backend failure", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "backend unavailable"})
	default:
		logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func badRequest(c *gin.Context, logger *zap.Logger, err error) {
	logger.Debug("invalid request body", zap.Error(err))
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
}

// owner returns the caller set by RequireAuth.
func owner(c *gin.Context) uuid.UUID {
	id, _ := auth.FromContext(c.Request.Context())
	return id.Owner
}

func uuidParam(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, models.NewValidationError(name, "must be a uuid")
	}
	return id, nil
}

// rangeQuery reads the optional start and end query values. Both or neither
// must be present.
func rangeQuery(c *gin.Context, loc *time.Location) (*calendar.Range, error) {
	startRaw, endRaw := strings.TrimSpace(c.Query("start")), strings.TrimSpace(c.Query("end"))
	if startRaw == "" && endRaw == "" {
		return nil, nil
	}
	if startRaw == "" || endRaw == "" {
		return nil, models.NewValidationError("range", "start and end go together")
	}

	start, err := calendar.ParseDay(startRaw, loc)
	if err != nil {
		return nil, models.NewValidationError("start", "must be YYYY-MM-DD")
	}
	end, err := calendar.ParseDay(endRaw, loc)
	if err != nil {
		return nil, models.NewValidationError("end", "must be YYYY-MM-DD")
	}
	rng, err := calendar.NewRange(start, end)
	if err != nil {
		return nil, models.NewValidationError("range", err.Error())
	}
	return &rng, nil
}

func intQuery(c *gin.Context, name string, fallback int) (int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, models.NewValidationError(name, "must be a non-negative integer")
	}
	return n, nil
}
