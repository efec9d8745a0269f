package herd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/herdbook/internal/cache"
	"github.com/mamadbah2/herdbook/internal/domain/models"
)

// Profile returns the owner's farm profile, creating an empty one on first
// access.
func (s *Service) Profile(ctx context.Context, owner uuid.UUID) (models.FarmProfile, error) {
	return cache.Fetch(ctx, s.cache, cache.Key{Owner: owner, Resource: cache.FarmProfile}, func(ctx context.Context) (models.FarmProfile, error) {
		profile, err := s.store.GetFarmProfile(ctx, owner)
		if err == nil {
			return profile, nil
		}
		if !errors.Is(err, models.ErrNotFound) {
			s.logger.Error("failed to load farm profile", zap.Stringer("owner", owner), zap.Error(err))
			return models.FarmProfile{}, fmt.Errorf("load farm profile: %w", err)
		}

		created, err := s.store.InsertFarmProfile(ctx, models.FarmProfile{ID: uuid.New(), OwnerID: owner})
		if err != nil {
			s.logger.Error("failed to create farm profile", zap.Stringer("owner", owner), zap.Error(err))
			return models.FarmProfile{}, fmt.Errorf("create farm profile: %w", err)
		}
		s.logger.Info("farm profile created", zap.Stringer("owner", owner))
		return created, nil
	})
}

// UpdateProfile sets the farm name and city.
func (s *Service) UpdateProfile(ctx context.Context, owner uuid.UUID, farmName, city string) (models.FarmProfile, error) {
	current, err := s.Profile(ctx, owner)
	if err != nil {
		return models.FarmProfile{}, err
	}

	current.FarmName = strings.TrimSpace(farmName)
	current.City = strings.TrimSpace(city)

	updated, err := s.store.UpdateFarmProfile(ctx, current)
	if err != nil {
		s.logger.Error("failed to update farm profile", zap.Stringer("owner", owner), zap.Error(err))
		return models.FarmProfile{}, fmt.Errorf("update farm profile: %w", err)
	}

	s.cache.Invalidate(cache.Key{Owner: owner, Resource: cache.FarmProfile})
	return updated, nil
}
