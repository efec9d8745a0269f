// Package herd manages the animals of a farm, their reproductive and
// vaccination history, their feed records and the farm profile.
package herd

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-sql/civil"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/herdbook/internal/cache"
	"github.com/mamadbah2/herdbook/internal/domain/calendar"
	"github.com/mamadbah2/herdbook/internal/domain/models"
)

// Store is the slice of the backend the herd service needs.
type Store interface {
	ListAnimals(ctx context.Context, owner uuid.UUID) ([]models.Animal, error)
	GetAnimal(ctx context.Context, owner, id uuid.UUID) (models.Animal, error)
	InsertAnimal(ctx context.Context, animal models.Animal) (models.Animal, error)
	UpdateAnimal(ctx context.Context, animal models.Animal) (models.Animal, error)
	DeleteAnimal(ctx context.Context, owner, id uuid.UUID) error

	ListFeedRecords(ctx context.Context, owner, animalID uuid.UUID) ([]models.FeedRecord, error)
	InsertFeedRecord(ctx context.Context, rec models.FeedRecord) (models.FeedRecord, error)

	GetFarmProfile(ctx context.Context, owner uuid.UUID) (models.FarmProfile, error)
	InsertFarmProfile(ctx context.Context, profile models.FarmProfile) (models.FarmProfile, error)
	UpdateFarmProfile(ctx context.Context, profile models.FarmProfile) (models.FarmProfile, error)
}

// Service applies herd actions for one owner at a time.
type Service struct {
	store    Store
	cache    *cache.QueryCache
	settings calendar.Settings
	logger   *zap.Logger
	now      func() time.Time
}

// NewService wires a herd service.
func NewService(store Store, queryCache *cache.QueryCache, settings calendar.Settings, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, cache: queryCache, settings: settings, logger: logger, now: time.Now}
}

// List returns the owner's animals.
func (s *Service) List(ctx context.Context, owner uuid.UUID) ([]models.Animal, error) {
	list, err := cache.Fetch(ctx, s.cache, cache.Key{Owner: owner, Resource: cache.Animals}, func(ctx context.Context) ([]models.Animal, error) {
		return s.store.ListAnimals(ctx, owner)
	})
	if err != nil {
		s.logger.Error("failed to load animals", zap.Stringer("owner", owner), zap.Error(err))
		return nil, fmt.Errorf("load animals: %w", err)
	}
	return list, nil
}

// Get returns one animal.
func (s *Service) Get(ctx context.Context, owner, id uuid.UUID) (models.Animal, error) {
	animal, err := s.store.GetAnimal(ctx, owner, id)
	if err != nil {
		return models.Animal{}, fmt.Errorf("get animal %s: %w", id, err)
	}
	return animal, nil
}

// Create registers a new animal.
func (s *Service) Create(ctx context.Context, owner uuid.UUID, animal models.Animal) (models.Animal, error) {
	animal.ID = uuid.New()
	animal.OwnerID = owner
	animal.CreatedAt = nil
	if animal.Status == "" {
		animal.Status = models.AnimalActive
	}
	normalizeVaccinations(&animal)
	if err := animal.Validate(); err != nil {
		return models.Animal{}, err
	}

	created, err := s.store.InsertAnimal(ctx, animal)
	if err != nil {
		s.logger.Error("failed to create animal", zap.Stringer("owner", owner), zap.Error(err))
		return models.Animal{}, fmt.Errorf("create animal: %w", err)
	}

	s.invalidateAnimals(owner)
	s.logger.Info("animal registered", zap.Stringer("animal", created.ID), zap.String("tag", created.TagNumber))
	return created, nil
}

// Update replaces the editable fields of an animal.
func (s *Service) Update(ctx context.Context, owner, id uuid.UUID, animal models.Animal) (models.Animal, error) {
	animal.ID = id
	animal.OwnerID = owner
	if animal.Status == "" {
		animal.Status = models.AnimalActive
	}
	normalizeVaccinations(&animal)
	if err := animal.Validate(); err != nil {
		return models.Animal{}, err
	}
	return s.save(ctx, animal, "update animal")
}

// Delete removes an animal. Its alerts, milk and feed records go with it, so
// every cached list of the owner is dropped.
func (s *Service) Delete(ctx context.Context, owner, id uuid.UUID) error {
	if err := s.store.DeleteAnimal(ctx, owner, id); err != nil {
		s.logger.Error("failed to delete animal", zap.Stringer("animal", id), zap.Error(err))
		return fmt.Errorf("delete animal %s: %w", id, err)
	}
	s.cache.InvalidateOwner(owner)
	return nil
}

// RecordCalving increments the parity by exactly one and replaces the next
// calving date. A nil date clears it.
func (s *Service) RecordCalving(ctx context.Context, owner, id uuid.UUID, nextCalving *civil.Date) (models.Animal, error) {
	animal, err := s.Get(ctx, owner, id)
	if err != nil {
		return models.Animal{}, err
	}
	if animal.Sex != models.SexFemale {
		return models.Animal{}, models.NewValidationError("sex", "only female animals calve")
	}
	if nextCalving != nil && !nextCalving.IsValid() {
		return models.Animal{}, models.NewValidationError("next_calving_date", "is not a valid date")
	}

	animal.Parity++
	animal.NextCalving = nextCalving
	normalizeVaccinations(&animal)

	updated, err := s.save(ctx, animal, "record calving")
	if err != nil {
		return models.Animal{}, err
	}
	s.logger.Info("calving recorded", zap.Stringer("animal", id), zap.Int("parity", updated.Parity))
	return updated, nil
}

// RecordVaccination files v under past history when its date is today or
// earlier, otherwise under upcoming vaccinations.
func (s *Service) RecordVaccination(ctx context.Context, owner, id uuid.UUID, v models.Vaccination) (models.Animal, error) {
	if v.Name == "" {
		return models.Animal{}, models.NewValidationError("name", "is required")
	}
	if !v.Date.IsValid() {
		return models.Animal{}, models.NewValidationError("date", "is required")
	}

	animal, err := s.Get(ctx, owner, id)
	if err != nil {
		return models.Animal{}, err
	}
	normalizeVaccinations(&animal)

	if v.Date.After(s.settings.Today(s.now())) {
		animal.UpcomingVaccinations = append(animal.UpcomingVaccinations, v)
	} else {
		animal.PastVaccinations = append(animal.PastVaccinations, v)
	}

	return s.save(ctx, animal, "record vaccination")
}

// RemoveVaccination deletes the entry at index from the selected list.
func (s *Service) RemoveVaccination(ctx context.Context, owner, id uuid.UUID, list models.VaccinationList, index int) (models.Animal, error) {
	animal, err := s.Get(ctx, owner, id)
	if err != nil {
		return models.Animal{}, err
	}
	normalizeVaccinations(&animal)

	var target *[]models.Vaccination
	switch list {
	case models.VaccinationsPast:
		target = &animal.PastVaccinations
	case models.VaccinationsUpcoming:
		target = &animal.UpcomingVaccinations
	default:
		return models.Animal{}, models.NewValidationError("list", "must be past or upcoming")
	}
	if index < 0 || index >= len(*target) {
		return models.Animal{}, fmt.Errorf("vaccination %d in %s list: %w", index, list, models.ErrNotFound)
	}

	kept := make([]models.Vaccination, 0, len(*target)-1)
	kept = append(kept, (*target)[:index]...)
	kept = append(kept, (*target)[index+1:]...)
	*target = kept

	return s.save(ctx, animal, "remove vaccination")
}

func (s *Service) save(ctx context.Context, animal models.Animal, action string) (models.Animal, error) {
	updated, err := s.store.UpdateAnimal(ctx, animal)
	if err != nil {
		s.logger.Error("failed to "+action, zap.Stringer("animal", animal.ID), zap.Error(err))
		return models.Animal{}, fmt.Errorf("%s %s: %w", action, animal.ID, err)
	}
	s.invalidateAnimals(animal.OwnerID)
	return updated, nil
}

func (s *Service) invalidateAnimals(owner uuid.UUID) {
	s.cache.Invalidate(cache.Key{Owner: owner, Resource: cache.Animals})
}

// normalizeVaccinations replaces nil lists so they are written as [] rather
// than null.
func normalizeVaccinations(a *models.Animal) {
	if a.PastVaccinations == nil {
		a.PastVaccinations = []models.Vaccination{}
	}
	if a.UpcomingVaccinations == nil {
		a.UpcomingVaccinations = []models.Vaccination{}
	}
}
