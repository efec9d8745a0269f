package herd

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/herdbook/internal/cache"
	"github.com/mamadbah2/herdbook/internal/domain/models"
)

// FeedRecords returns the owner's feed records. Passing uuid.Nil as animalID
// returns the records of every animal.
func (s *Service) FeedRecords(ctx context.Context, owner, animalID uuid.UUID) ([]models.FeedRecord, error) {
	if animalID != uuid.Nil {
		records, err := s.store.ListFeedRecords(ctx, owner, animalID)
		if err != nil {
			return nil, fmt.Errorf("load feed records of %s: %w", animalID, err)
		}
		return records, nil
	}

	records, err := cache.Fetch(ctx, s.cache, cache.Key{Owner: owner, Resource: cache.FeedRecords}, func(ctx context.Context) ([]models.FeedRecord, error) {
		return s.store.ListFeedRecords(ctx, owner, uuid.Nil)
	})
	if err != nil {
		s.logger.Error("failed to load feed records", zap.Stringer("owner", owner), zap.Error(err))
		return nil, fmt.Errorf("load feed records: %w", err)
	}
	return records, nil
}

// RecordFeed stores a ration given to one animal.
func (s *Service) RecordFeed(ctx context.Context, owner uuid.UUID, rec models.FeedRecord) (models.FeedRecord, error) {
	rec.ID = uuid.New()
	rec.OwnerID = owner
	rec.CreatedAt = nil
	if err := rec.Validate(); err != nil {
		return models.FeedRecord{}, err
	}

	created, err := s.store.InsertFeedRecord(ctx, rec)
	if err != nil {
		s.logger.Error("failed to record feed", zap.Stringer("animal", rec.AnimalID), zap.Error(err))
		return models.FeedRecord{}, fmt.Errorf("record feed: %w", err)
	}

	s.cache.Invalidate(cache.Key{Owner: owner, Resource: cache.FeedRecords})
	return created, nil
}
