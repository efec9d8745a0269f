package postgrest

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/mamadbah2/herdbook/internal/domain/models"
)

// ListAnimals returns the owner's animals, newest first.
func (s *Store) ListAnimals(ctx context.Context, owner uuid.UUID) ([]models.Animal, error) {
	q := ownerFilter(owner)
	q.Set("order", "created_at.desc")
	return selectRows[models.Animal](ctx, s, tableAnimals, q)
}

// GetAnimal returns one owned animal.
func (s *Store) GetAnimal(ctx context.Context, owner, id uuid.UUID) (models.Animal, error) {
	rows, err := selectRows[models.Animal](ctx, s, tableAnimals, ownedRow(owner, id))
	if err != nil {
		return models.Animal{}, err
	}
	if len(rows) == 0 {
		return models.Animal{}, fmt.Errorf("animal %s: %w", id, models.ErrNotFound)
	}
	return rows[0], nil
}

func (s *Store) InsertAnimal(ctx context.Context, animal models.Animal) (models.Animal, error) {
	return mutate[models.Animal](ctx, s, http.MethodPost, tableAnimals, nil, animal)
}

func (s *Store) UpdateAnimal(ctx context.Context, animal models.Animal) (models.Animal, error) {
	animal.CreatedAt = nil
	return mutate[models.Animal](ctx, s, http.MethodPatch, tableAnimals, ownedRow(animal.OwnerID, animal.ID), animal)
}

func (s *Store) DeleteAnimal(ctx context.Context, owner, id uuid.UUID) error {
	_, err := mutate[models.Animal](ctx, s, http.MethodDelete, tableAnimals, ownedRow(owner, id), nil)
	return err
}

// ListAlerts returns the owner's alerts by date.
func (s *Store) ListAlerts(ctx context.Context, owner uuid.UUID) ([]models.Alert, error) {
	q := ownerFilter(owner)
	q.Set("order", "date.asc")
	return selectRows[models.Alert](ctx, s, tableAlerts, q)
}

func (s *Store) InsertAlert(ctx context.Context, alert models.Alert) (models.Alert, error) {
	return mutate[models.Alert](ctx, s, http.MethodPost, tableAlerts, nil, alert)
}

func (s *Store) UpdateAlertStatus(ctx context.Context, owner, id uuid.UUID, status models.AlertStatus) (models.Alert, error) {
	body := map[string]models.AlertStatus{"status": status}
	return mutate[models.Alert](ctx, s, http.MethodPatch, tableAlerts, ownedRow(owner, id), body)
}

func (s *Store) DeleteAlert(ctx context.Context, owner, id uuid.UUID) error {
	_, err := mutate[models.Alert](ctx, s, http.MethodDelete, tableAlerts, ownedRow(owner, id), nil)
	return err
}

// ListMilkRecords returns the owner's milk records, newest first.
func (s *Store) ListMilkRecords(ctx context.Context, owner uuid.UUID) ([]models.MilkRecord, error) {
	q := ownerFilter(owner)
	q.Set("order", "date.desc")
	return selectRows[models.MilkRecord](ctx, s, tableMilkRecords, q)
}

func (s *Store) InsertMilkRecord(ctx context.Context, rec models.MilkRecord) (models.MilkRecord, error) {
	return mutate[models.MilkRecord](ctx, s, http.MethodPost, tableMilkRecords, nil, rec)
}

func (s *Store) DeleteMilkRecord(ctx context.Context, owner, id uuid.UUID) error {
	_, err := mutate[models.MilkRecord](ctx, s, http.MethodDelete, tableMilkRecords, ownedRow(owner, id), nil)
	return err
}

// ListFinancialRecords returns the owner's ledger, newest first.
func (s *Store) ListFinancialRecords(ctx context.Context, owner uuid.UUID) ([]models.FinancialRecord, error) {
	q := ownerFilter(owner)
	q.Set("order", "date.desc,created_at.desc")
	return selectRows[models.FinancialRecord](ctx, s, tableFinancialRecords, q)
}

func (s *Store) InsertFinancialRecord(ctx context.Context, rec models.FinancialRecord) (models.FinancialRecord, error) {
	return mutate[models.FinancialRecord](ctx, s, http.MethodPost, tableFinancialRecords, nil, rec)
}

func (s *Store) DeleteFinancialRecord(ctx context.Context, owner, id uuid.UUID) error {
	_, err := mutate[models.FinancialRecord](ctx, s, http.MethodDelete, tableFinancialRecords, ownedRow(owner, id), nil)
	return err
}

// ListFeedRecords returns feed records, newest first. uuid.Nil selects every
// animal.
func (s *Store) ListFeedRecords(ctx context.Context, owner, animalID uuid.UUID) ([]models.FeedRecord, error) {
	q := ownerFilter(owner)
	if animalID != uuid.Nil {
		q.Set("animal_id", "eq."+animalID.String())
	}
	q.Set("order", "date.desc")
	return selectRows[models.FeedRecord](ctx, s, tableFeedRecords, q)
}

func (s *Store) InsertFeedRecord(ctx context.Context, rec models.FeedRecord) (models.FeedRecord, error) {
	return mutate[models.FeedRecord](ctx, s, http.MethodPost, tableFeedRecords, nil, rec)
}

// GetFarmProfile returns the owner's profile or models.ErrNotFound.
func (s *Store) GetFarmProfile(ctx context.Context, owner uuid.UUID) (models.FarmProfile, error) {
	q := ownerFilter(owner)
	q.Set("limit", "1")
	rows, err := selectRows[models.FarmProfile](ctx, s, tableFarmProfiles, q)
	if err != nil {
		return models.FarmProfile{}, err
	}
	if len(rows) == 0 {
		return models.FarmProfile{}, fmt.Errorf("farm profile of %s: %w", owner, models.ErrNotFound)
	}
	return rows[0], nil
}

func (s *Store) InsertFarmProfile(ctx context.Context, profile models.FarmProfile) (models.FarmProfile, error) {
	return mutate[models.FarmProfile](ctx, s, http.MethodPost, tableFarmProfiles, nil, profile)
}

func (s *Store) UpdateFarmProfile(ctx context.Context, profile models.FarmProfile) (models.FarmProfile, error) {
	body := map[string]string{"farm_name": profile.FarmName, "city": profile.City}
	return mutate[models.FarmProfile](ctx, s, http.MethodPatch, tableFarmProfiles, ownedRow(profile.OwnerID, profile.ID), body)
}
