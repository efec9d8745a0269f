// Package finance keeps the farm ledger and its totals.
package finance

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/herdbook/internal/cache"
	"github.com/mamadbah2/herdbook/internal/domain/calendar"
	"github.com/mamadbah2/herdbook/internal/domain/models"
)

// Store is the slice of the backend the finance service needs. Records come
// back sorted by date, newest first.
type Store interface {
	ListFinancialRecords(ctx context.Context, owner uuid.UUID) ([]models.FinancialRecord, error)
	InsertFinancialRecord(ctx context.Context, rec models.FinancialRecord) (models.FinancialRecord, error)
	DeleteFinancialRecord(ctx context.Context, owner, id uuid.UUID) error
}

// Ledger is the finance page for one owner.
type Ledger struct {
	Range   *calendar.Range          `json:"range,omitempty"`
	Records []models.FinancialRecord `json:"records"`
	Totals  Totals                   `json:"totals"`
}

// Service records transactions and computes the ledger totals.
type Service struct {
	store    Store
	cache    *cache.QueryCache
	settings calendar.Settings
	logger   *zap.Logger
}

// NewService wires a finance service.
func NewService(store Store, queryCache *cache.QueryCache, settings calendar.Settings, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, cache: queryCache, settings: settings, logger: logger}
}

// Ledger returns the owner's records and totals, restricted to rng when set.
func (s *Service) Ledger(ctx context.Context, owner uuid.UUID, rng *calendar.Range) (Ledger, error) {
	records, err := s.Records(ctx, owner)
	if err != nil {
		return Ledger{}, err
	}

	if rng != nil {
		records = FilterRange(records, *rng, s.settings.Corrector)
	} else {
		records = append(make([]models.FinancialRecord, 0, len(records)), records...)
	}
	SortNewestFirst(records)

	return Ledger{
		Range:   rng,
		Records: records,
		Totals:  Summarize(records, nil, s.settings.Corrector),
	}, nil
}

// Records returns every transaction of the owner, newest first.
func (s *Service) Records(ctx context.Context, owner uuid.UUID) ([]models.FinancialRecord, error) {
	records, err := cache.Fetch(ctx, s.cache, cache.Key{Owner: owner, Resource: cache.FinancialRecords}, func(ctx context.Context) ([]models.FinancialRecord, error) {
		return s.store.ListFinancialRecords(ctx, owner)
	})
	if err != nil {
		s.logger.Error("failed to load financial records", zap.Stringer("owner", owner), zap.Error(err))
		return nil, fmt.Errorf("load financial records: %w", err)
	}
	return records, nil
}

// Record stores a new transaction.
func (s *Service) Record(ctx context.Context, owner uuid.UUID, rec models.FinancialRecord) (models.FinancialRecord, error) {
	rec.ID = uuid.New()
	rec.OwnerID = owner
	rec.CreatedAt = nil
	if err := rec.Validate(); err != nil {
		return models.FinancialRecord{}, err
	}

	created, err := s.store.InsertFinancialRecord(ctx, rec)
	if err != nil {
		s.logger.Error("failed to record transaction", zap.Stringer("owner", owner), zap.Error(err))
		return models.FinancialRecord{}, fmt.Errorf("record transaction: %w", err)
	}

	s.cache.Invalidate(cache.Key{Owner: owner, Resource: cache.FinancialRecords})
	return created, nil
}

// Delete removes one transaction.
func (s *Service) Delete(ctx context.Context, owner, id uuid.UUID) error {
	if err := s.store.DeleteFinancialRecord(ctx, owner, id); err != nil {
		s.logger.Error("failed to delete transaction", zap.Stringer("record", id), zap.Error(err))
		return fmt.Errorf("delete transaction %s: %w", id, err)
	}
	s.cache.Invalidate(cache.Key{Owner: owner, Resource: cache.FinancialRecords})
	return nil
}

// Categories returns the suggested categories per kind.
func Categories() map[models.TransactionKind][]string {
	out := make(map[models.TransactionKind][]string, len(models.SuggestedCategories))
	for kind, list := range models.SuggestedCategories {
		out[kind] = append([]string(nil), list...)
	}
	return out
}

// SortNewestFirst orders records by date descending, keeping ties stable.
func SortNewestFirst(records []models.FinancialRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date.After(records[j].Date)
	})
}
