package herd

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/herdbook/internal/domain/models"
)

func TestService_Profile_CreatedOnFirstAccess(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	inserts := 0
	store := &storeMock{
		GetFarmProfileFunc: func(context.Context, uuid.UUID) (models.FarmProfile, error) {
			return models.FarmProfile{}, models.ErrNotFound
		},
		InsertFarmProfileFunc: func(_ context.Context, p models.FarmProfile) (models.FarmProfile, error) {
			inserts++
			return p, nil
		},
	}
	svc := newTestService(store)

	p, err := svc.Profile(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, owner, p.OwnerID)
	assert.Empty(t, p.FarmName)

	_, err = svc.Profile(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, 1, inserts)
}

func TestService_Profile_BackendFailure(t *testing.T) {
	t.Parallel()

	store := &storeMock{
		GetFarmProfileFunc: func(context.Context, uuid.UUID) (models.FarmProfile, error) {
			return models.FarmProfile{}, models.ErrBackend
		},
	}
	svc := newTestService(store)

	_, err := svc.Profile(context.Background(), uuid.New())
	assert.ErrorIs(t, err, models.ErrBackend)
}

func TestService_UpdateProfile(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	existing := models.FarmProfile{ID: uuid.New(), OwnerID: owner, FarmName: "Old"}
	var saved models.FarmProfile
	store := &storeMock{
		GetFarmProfileFunc: func(context.Context, uuid.UUID) (models.FarmProfile, error) { return existing, nil },
		UpdateFarmProfileFunc: func(_ context.Context, p models.FarmProfile) (models.FarmProfile, error) {
			saved = p
			return p, nil
		},
	}
	svc := newTestService(store)

	got, err := svc.UpdateProfile(context.Background(), owner, "  Sunrise Dairy ", "Thiès")
	require.NoError(t, err)
	assert.Equal(t, existing.ID, saved.ID)
	assert.Equal(t, "Sunrise Dairy", got.FarmName)
	assert.Equal(t, "Thiès", got.City)
}

func TestService_RecordFeed(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	animalID := uuid.New()
	listCalls := 0
	store := &storeMock{
		ListFeedRecordsFunc: func(_ context.Context, _ uuid.UUID, a uuid.UUID) ([]models.FeedRecord, error) {
			listCalls++
			return nil, nil
		},
		InsertFeedRecordFunc: func(_ context.Context, r models.FeedRecord) (models.FeedRecord, error) { return r, nil },
	}
	svc := newTestService(store)
	ctx := context.Background()

	_, err := svc.FeedRecords(ctx, owner, uuid.Nil)
	require.NoError(t, err)

	rec, err := svc.RecordFeed(ctx, owner, models.FeedRecord{
		AnimalID: animalID,
		Date:     day(2024, time.March, 1),
		Ration:   "Silage",
		Quantity: 12.5,
	})
	require.NoError(t, err)
	assert.Equal(t, owner, rec.OwnerID)

	_, err = svc.FeedRecords(ctx, owner, uuid.Nil)
	require.NoError(t, err)
	assert.Equal(t, 2, listCalls)

	_, err = svc.RecordFeed(ctx, owner, models.FeedRecord{AnimalID: animalID, Date: day(2024, time.March, 1), Quantity: 0})
	assert.ErrorIs(t, err, models.ErrValidation)
}
