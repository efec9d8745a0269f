package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/mamadbah2/herdbook/internal/domain/models"
)

func owned(owner, id uuid.UUID) squirrel.Eq {
	return squirrel.Eq{"user_id": owner, "id": id}
}

func returning(cols []string) string {
	return "RETURNING " + strings.Join(cols, ", ")
}

// ListAnimals returns the owner's animals, newest first.
func (s *Store) ListAnimals(ctx context.Context, owner uuid.UUID) ([]models.Animal, error) {
	q := psql.Select(animalColumns...).From("animals").
		Where(squirrel.Eq{"user_id": owner}).
		OrderBy("created_at DESC")
	return queryRows(ctx, s, q, collect(scanAnimal))
}

// GetAnimal returns one owned animal.
func (s *Store) GetAnimal(ctx context.Context, owner, id uuid.UUID) (models.Animal, error) {
	q := psql.Select(animalColumns...).From("animals").Where(owned(owner, id))
	a, err := queryOne(ctx, s, q, scanAnimal)
	if err != nil {
		return models.Animal{}, fmt.Errorf("animal %s: %w", id, err)
	}
	return a, nil
}

func (s *Store) InsertAnimal(ctx context.Context, a models.Animal) (models.Animal, error) {
	past, err := vaccinationsArg(a.PastVaccinations)
	if err != nil {
		return models.Animal{}, err
	}
	upcoming, err := vaccinationsArg(a.UpcomingVaccinations)
	if err != nil {
		return models.Animal{}, err
	}

	q := psql.Insert("animals").
		Columns(animalColumns[:len(animalColumns)-1]...).
		Values(a.ID, a.OwnerID, a.TagNumber, a.Name, dateArg(a.BirthDate), a.Breed, a.Sex, a.Parity,
			optionalDateArg(a.NextCalving), a.Status, past, upcoming).
		Suffix(returning(animalColumns))
	return queryOne(ctx, s, q, scanAnimal)
}

func (s *Store) UpdateAnimal(ctx context.Context, a models.Animal) (models.Animal, error) {
	past, err := vaccinationsArg(a.PastVaccinations)
	if err != nil {
		return models.Animal{}, err
	}
	upcoming, err := vaccinationsArg(a.UpcomingVaccinations)
	if err != nil {
		return models.Animal{}, err
	}

	q := psql.Update("animals").
		Set("tag_number", a.TagNumber).
		Set("name", a.Name).
		Set("birth_date", dateArg(a.BirthDate)).
		Set("breed", a.Breed).
		Set("sex", a.Sex).
		Set("parity", a.Parity).
		Set("next_calving_date", optionalDateArg(a.NextCalving)).
		Set("status", a.Status).
		Set("past_vaccinations", past).
		Set("upcoming_vaccinations", upcoming).
		Where(owned(a.OwnerID, a.ID)).
		Suffix(returning(animalColumns))
	return writeOne(ctx, s, q, scanAnimal)
}

func (s *Store) DeleteAnimal(ctx context.Context, owner, id uuid.UUID) error {
	return s.deleteOwned(ctx, psql.Delete("animals").Where(owned(owner, id)))
}

// ListAlerts returns the owner's alerts by date.
func (s *Store) ListAlerts(ctx context.Context, owner uuid.UUID) ([]models.Alert, error) {
	q := psql.Select(alertColumns...).From("alerts").
		Where(squirrel.Eq{"user_id": owner}).
		OrderBy("date ASC")
	return queryRows(ctx, s, q, collect(scanAlert))
}

func (s *Store) InsertAlert(ctx context.Context, a models.Alert) (models.Alert, error) {
	q := psql.Insert("alerts").
		Columns(alertColumns[:len(alertColumns)-1]...).
		Values(a.ID, a.OwnerID, a.AnimalID, a.Kind, dateArg(a.Date), a.Description, a.Status).
		Suffix(returning(alertColumns))
	return queryOne(ctx, s, q, scanAlert)
}

func (s *Store) UpdateAlertStatus(ctx context.Context, owner, id uuid.UUID, status models.AlertStatus) (models.Alert, error) {
	q := psql.Update("alerts").
		Set("status", status).
		Where(owned(owner, id)).
		Suffix(returning(alertColumns))
	return writeOne(ctx, s, q, scanAlert)
}

func (s *Store) DeleteAlert(ctx context.Context, owner, id uuid.UUID) error {
	return s.deleteOwned(ctx, psql.Delete("alerts").Where(owned(owner, id)))
}

// ListMilkRecords returns the owner's milk records, newest first.
func (s *Store) ListMilkRecords(ctx context.Context, owner uuid.UUID) ([]models.MilkRecord, error) {
	q := psql.Select(milkColumns...).From("milk_records").
		Where(squirrel.Eq{"user_id": owner}).
		OrderBy("date DESC")
	return queryRows(ctx, s, q, collect(scanMilkRecord))
}

func (s *Store) InsertMilkRecord(ctx context.Context, rec models.MilkRecord) (models.MilkRecord, error) {
	animalID, period := rec.Row()
	q := psql.Insert("milk_records").
		Columns(milkColumns[:len(milkColumns)-1]...).
		Values(rec.ID, rec.OwnerID, animalID, dateArg(rec.Date), rec.Quantity, period).
		Suffix(returning(milkColumns))
	return queryOne(ctx, s, q, scanMilkRecord)
}

func (s *Store) DeleteMilkRecord(ctx context.Context, owner, id uuid.UUID) error {
	return s.deleteOwned(ctx, psql.Delete("milk_records").Where(owned(owner, id)))
}

// ListFinancialRecords returns the owner's ledger, newest first.
func (s *Store) ListFinancialRecords(ctx context.Context, owner uuid.UUID) ([]models.FinancialRecord, error) {
	q := psql.Select(financeColumns...).From("financial_records").
		Where(squirrel.Eq{"user_id": owner}).
		OrderBy("date DESC", "created_at DESC")
	return queryRows(ctx, s, q, collect(scanFinancialRecord))
}

func (s *Store) InsertFinancialRecord(ctx context.Context, r models.FinancialRecord) (models.FinancialRecord, error) {
	q := psql.Insert("financial_records").
		Columns(financeColumns[:len(financeColumns)-1]...).
		Values(r.ID, r.OwnerID, dateArg(r.Date), r.Kind, r.Category, r.Amount, r.Description).
		Suffix(returning(financeColumns))
	return queryOne(ctx, s, q, scanFinancialRecord)
}

func (s *Store) DeleteFinancialRecord(ctx context.Context, owner, id uuid.UUID) error {
	return s.deleteOwned(ctx, psql.Delete("financial_records").Where(owned(owner, id)))
}

// ListFeedRecords returns feed records, newest first. uuid.Nil selects every
// animal.
func (s *Store) ListFeedRecords(ctx context.Context, owner, animalID uuid.UUID) ([]models.FeedRecord, error) {
	where := squirrel.Eq{"user_id": owner}
	if animalID != uuid.Nil {
		where["animal_id"] = animalID
	}
	q := psql.Select(feedColumns...).From("feed_records").Where(where).OrderBy("date DESC")
	return queryRows(ctx, s, q, collect(scanFeedRecord))
}

func (s *Store) InsertFeedRecord(ctx context.Context, r models.FeedRecord) (models.FeedRecord, error) {
	q := psql.Insert("feed_records").
		Columns(feedColumns[:len(feedColumns)-1]...).
		Values(r.ID, r.OwnerID, r.AnimalID, dateArg(r.Date), r.Ration, r.Quantity, r.Notes).
		Suffix(returning(feedColumns))
	return queryOne(ctx, s, q, scanFeedRecord)
}

// GetFarmProfile returns the owner's profile or models.ErrNotFound.
func (s *Store) GetFarmProfile(ctx context.Context, owner uuid.UUID) (models.FarmProfile, error) {
	q := psql.Select(profileColumns...).From("farm_profiles").Where(squirrel.Eq{"user_id": owner})
	p, err := queryOne(ctx, s, q, scanProfile)
	if err != nil {
		return models.FarmProfile{}, fmt.Errorf("farm profile of %s: %w", owner, err)
	}
	return p, nil
}

func (s *Store) InsertFarmProfile(ctx context.Context, p models.FarmProfile) (models.FarmProfile, error) {
	q := psql.Insert("farm_profiles").
		Columns(profileColumns[:len(profileColumns)-1]...).
		Values(p.ID, p.OwnerID, p.FarmName, p.City).
		Suffix(returning(profileColumns))
	return queryOne(ctx, s, q, scanProfile)
}

func (s *Store) UpdateFarmProfile(ctx context.Context, p models.FarmProfile) (models.FarmProfile, error) {
	q := psql.Update("farm_profiles").
		Set("farm_name", p.FarmName).
		Set("city", p.City).
		Where(owned(p.OwnerID, p.ID)).
		Suffix(returning(profileColumns))
	return writeOne(ctx, s, q, scanProfile)
}
