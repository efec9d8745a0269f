// Package production aggregates milk records into daily and period figures.
package production

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

// Store is the slice of the backend the production service needs.
type Store interface {
	ListMilkRecords(ctx context.Context, owner uuid.UUID) ([]models.MilkRecord, error)
	InsertMilkRecord(ctx context.Context, rec models.MilkRecord) (models.MilkRecord, error)
	DeleteMilkRecord(ctx context.Context, owner, id uuid.UUID) error
}

// Overview is the production page for one owner and one range.
type Overview struct {
	Range       calendar.Range      `json:"range"`
	Today       TodayFigures        `json:"today"`
	RangeSums   RangeSums           `json:"range_sums"`
	Daily       []DailyYield        `json:"daily"`
	HerdTotals  []models.MilkRecord `json:"herd_totals"`
	Individuals []models.MilkRecord `json:"individuals"`
}

// Service records milk and computes production figures.
type Service struct {
	store    Store
	cache    *cache.QueryCache
	settings calendar.Settings
	logger   *zap.Logger
	now      func() time.Time
}

// NewService wires a production service.
func NewService(store Store, queryCache *cache.QueryCache, settings calendar.Settings, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, cache: queryCache, settings: settings, logger: logger, now: time.Now}
}

// Overview computes today's figures and the figures of rng. A nil rng means
// today only.
func (s *Service) Overview(ctx context.Context, owner uuid.UUID, rng *calendar.Range) (Overview, error) {
	records, err := s.Records(ctx, owner)
	if err != nil {
		return Overview{}, err
	}

	today := s.settings.Today(s.now())
	selected := calendar.SingleDay(today)
	if rng != nil {
		selected = *rng
	}

	corr := s.settings.Corrector
	inRange := Filter(records, selected, corr)

	ov := Overview{
		Range:       selected,
		Today:       Today(records, today, corr),
		RangeSums:   SumRange(records, selected, corr),
		Daily:       GroupDaily(inRange, corr),
		HerdTotals:  []models.MilkRecord{},
		Individuals: []models.MilkRecord{},
	}
	for _, rec := range inRange {
		if rec.IsHerdTotal() {
			ov.HerdTotals = append(ov.HerdTotals, rec)
		} else {
			ov.Individuals = append(ov.Individuals, rec)
		}
	}
	return ov, nil
}

// Records returns every milk record of the owner.
func (s *Service) Records(ctx context.Context, owner uuid.UUID) ([]models.MilkRecord, error) {
	records, err := cache.Fetch(ctx, s.cache, cache.Key{Owner: owner, Resource: cache.MilkRecords}, func(ctx context.Context) ([]models.MilkRecord, error) {
		return s.store.ListMilkRecords(ctx, owner)
	})
	if err != nil {
		s.logger.Error("failed to load milk records", zap.Stringer("owner", owner), zap.Error(err))
		return nil, fmt.Errorf("load milk records: %w", err)
	}
	return records, nil
}

// RecordIndividual stores one animal's yield for one session.
func (s *Service) RecordIndividual(ctx context.Context, owner, animalID uuid.UUID, date civil.Date, period models.Period, liters float64) (models.MilkRecord, error) {
	return s.insert(ctx, models.MilkRecord{
		OwnerID:  owner,
		Date:     date,
		Quantity: liters,
		Entry:    models.IndividualYield{AnimalID: animalID, Period: period},
	})
}

// RecordHerdTotal stores a whole-herd figure. A nil date means today.
func (s *Service) RecordHerdTotal(ctx context.Context, owner uuid.UUID, date *civil.Date, liters float64) (models.MilkRecord, error) {
	d := s.settings.Today(s.now())
	if date != nil {
		d = *date
	}
	return s.insert(ctx, models.MilkRecord{
		OwnerID:  owner,
		Date:     d,
		Quantity: liters,
		Entry:    models.HerdTotal{},
	})
}

// Delete removes one milk record.
func (s *Service) Delete(ctx context.Context, owner, id uuid.UUID) error {
	if err := s.store.DeleteMilkRecord(ctx, owner, id); err != nil {
		s.logger.Error("failed to delete milk record", zap.Stringer("record", id), zap.Error(err))
		return fmt.Errorf("delete milk record %s: %w", id, err)
	}
	s.cache.Invalidate(cache.Key{Owner: owner, Resource: cache.MilkRecords})
	return nil
}

func (s *Service) insert(ctx context.Context, rec models.MilkRecord) (models.MilkRecord, error) {
	if err := rec.Validate(); err != nil {
		return models.MilkRecord{}, err
	}
	rec.ID = uuid.New()

	created, err := s.store.InsertMilkRecord(ctx, rec)
	if err != nil {
		s.logger.Error("failed to record milk", zap.Stringer("owner", rec.OwnerID), zap.Error(err))
		return models.MilkRecord{}, fmt.Errorf("record milk: %w", err)
	}

	s.cache.Invalidate(cache.Key{Owner: rec.OwnerID, Resource: cache.MilkRecords})
	s.logger.Debug("milk recorded", zap.Stringer("record", created.ID), zap.Float64("liters", created.Quantity))
	return created, nil
}
