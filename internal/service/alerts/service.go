// Package alerts turns alert rows and animal schedules into the alert
// timeline, and applies the farmer's alert actions.
package alerts

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/herdbook/internal/cache"
	"github.com/mamadbah2/herdbook/internal/domain/calendar"
	"github.com/mamadbah2/herdbook/internal/domain/models"
)

// Store is the slice of the backend the alert service needs.
type Store interface {
	ListAlerts(ctx context.Context, owner uuid.UUID) ([]models.Alert, error)
	ListAnimals(ctx context.Context, owner uuid.UUID) ([]models.Animal, error)
	InsertAlert(ctx context.Context, alert models.Alert) (models.Alert, error)
	UpdateAlertStatus(ctx context.Context, owner, id uuid.UUID, status models.AlertStatus) (models.Alert, error)
	DeleteAlert(ctx context.Context, owner, id uuid.UUID) error
}

// Service exposes the alert timeline and alert actions.
type Service struct {
	store       Store
	cache       *cache.QueryCache
	settings    calendar.Settings
	horizonDays int
	logger      *zap.Logger
	now         func() time.Time
}

// NewService wires an alert service.
func NewService(store Store, queryCache *cache.QueryCache, settings calendar.Settings, horizonDays int, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if horizonDays <= 0 {
		horizonDays = DefaultHorizonDays
	}
	return &Service{
		store:       store,
		cache:       queryCache,
		settings:    settings,
		horizonDays: horizonDays,
		logger:      logger,
		now:         time.Now,
	}
}

// Timeline builds the alert views from the owner's current records.
func (s *Service) Timeline(ctx context.Context, owner uuid.UUID) (Timeline, error) {
	alertList, err := s.alerts(ctx, owner)
	if err != nil {
		return Timeline{}, err
	}
	animals, err := s.animals(ctx, owner)
	if err != nil {
		return Timeline{}, err
	}

	return BuildTimeline(alertList, animals, s.settings.Today(s.now()), s.settings.Corrector, s.horizonDays), nil
}

// Create stores a new pending alert.
func (s *Service) Create(ctx context.Context, owner uuid.UUID, alert models.Alert) (models.Alert, error) {
	alert.ID = uuid.New()
	alert.OwnerID = owner
	alert.CreatedAt = nil
	if alert.Status == "" {
		alert.Status = models.AlertPending
	}
	if err := alert.Validate(); err != nil {
		return models.Alert{}, err
	}

	created, err := s.store.InsertAlert(ctx, alert)
	if err != nil {
		s.logger.Error("failed to create alert", zap.Stringer("owner", owner), zap.Error(err))
		return models.Alert{}, fmt.Errorf("create alert: %w", err)
	}

	s.cache.Invalidate(cache.Key{Owner: owner, Resource: cache.Alerts})
	return created, nil
}

// Conclude moves a pending alert to done. Done alerts stay done.
func (s *Service) Conclude(ctx context.Context, owner, id uuid.UUID) (models.Alert, error) {
	current, err := s.store.ListAlerts(ctx, owner)
	if err != nil {
		s.logger.Error("failed to load alerts", zap.Stringer("owner", owner), zap.Error(err))
		return models.Alert{}, fmt.Errorf("conclude alert %s: %w", id, err)
	}

	var found *models.Alert
	for i := range current {
		if current[i].ID == id {
			found = &current[i]
			break
		}
	}
	if found == nil {
		return models.Alert{}, fmt.Errorf("conclude alert %s: %w", id, models.ErrNotFound)
	}
	if found.Status == models.AlertDone {
		return models.Alert{}, fmt.Errorf("conclude alert %s: already done: %w", id, models.ErrConflict)
	}

	updated, err := s.store.UpdateAlertStatus(ctx, owner, id, models.AlertDone)
	if err != nil {
		s.logger.Error("failed to conclude alert", zap.Stringer("alert", id), zap.Error(err))
		return models.Alert{}, fmt.Errorf("conclude alert %s: %w", id, err)
	}

	s.cache.Invalidate(cache.Key{Owner: owner, Resource: cache.Alerts})
	s.logger.Info("alert concluded", zap.Stringer("alert", id))
	return updated, nil
}

// Delete removes one alert.
func (s *Service) Delete(ctx context.Context, owner, id uuid.UUID) error {
	if err := s.store.DeleteAlert(ctx, owner, id); err != nil {
		s.logger.Error("failed to delete alert", zap.Stringer("alert", id), zap.Error(err))
		return fmt.Errorf("delete alert %s: %w", id, err)
	}

	s.cache.Invalidate(cache.Key{Owner: owner, Resource: cache.Alerts})
	s.logger.Info("alert deleted", zap.Stringer("alert", id))
	return nil
}

func (s *Service) alerts(ctx context.Context, owner uuid.UUID) ([]models.Alert, error) {
	list, err := cache.Fetch(ctx, s.cache, cache.Key{Owner: owner, Resource: cache.Alerts}, func(ctx context.Context) ([]models.Alert, error) {
		return s.store.ListAlerts(ctx, owner)
	})
	if err != nil {
		s.logger.Error("failed to load alerts", zap.Stringer("owner", owner), zap.Error(err))
		return nil, fmt.Errorf("load alerts: %w", err)
	}
	return list, nil
}

func (s *Service) animals(ctx context.Context, owner uuid.UUID) ([]models.Animal, error) {
	list, err := cache.Fetch(ctx, s.cache, cache.Key{Owner: owner, Resource: cache.Animals}, func(ctx context.Context) ([]models.Animal, error) {
		return s.store.ListAnimals(ctx, owner)
	})
	if err != nil {
		s.logger.Error("failed to load animals", zap.Stringer("owner", owner), zap.Error(err))
		return nil, fmt.Errorf("load animals: %w", err)
	}
	return list, nil
}
