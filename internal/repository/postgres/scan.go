package postgres

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/golang-sql/civil"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/mamadbah2/herdbook/internal/domain/models"
)

var (
	animalColumns = []string{"id", "user_id", "tag_number", "name", "birth_date", "breed", "sex", "parity",
		"next_calving_date", "status", "past_vaccinations", "upcoming_vaccinations", "created_at"}
	alertColumns   = []string{"id", "user_id", "animal_id", "kind", "date", "description", "status", "created_at"}
	milkColumns    = []string{"id", "user_id", "animal_id", "date", "quantity", "period", "created_at"}
	financeColumns = []string{"id", "user_id", "date", "kind", "category", "amount", "description", "created_at"}
	feedColumns    = []string{"id", "user_id", "animal_id", "date", "ration", "quantity", "notes", "created_at"}
	profileColumns = []string{"id", "user_id", "farm_name", "city", "created_at"}
)

// dateArg converts a calendar day into a value pgx encodes as date.
func dateArg(d civil.Date) time.Time {
	return d.In(time.UTC)
}

func optionalDateArg(d *civil.Date) any {
	if d == nil {
		return nil
	}
	return dateArg(*d)
}

func vaccinationsArg(list []models.Vaccination) (string, error) {
	if list == nil {
		list = []models.Vaccination{}
	}
	raw, err := json.Marshal(list)
	if err != nil {
		return "", fmt.Errorf("encode vaccinations: %w", err)
	}
	return string(raw), nil
}

func scanAnimal(row pgx.Row) (models.Animal, error) {
	var (
		a             models.Animal
		birth         time.Time
		nextCalving   *time.Time
		past, planned []byte
		createdAt     time.Time
	)
	if err := row.Scan(&a.ID, &a.OwnerID, &a.TagNumber, &a.Name, &birth, &a.Breed, &a.Sex, &a.Parity,
		&nextCalving, &a.Status, &past, &planned, &createdAt); err != nil {
		return models.Animal{}, err
	}

	a.BirthDate = civil.DateOf(birth)
	if nextCalving != nil {
		d := civil.DateOf(*nextCalving)
		a.NextCalving = &d
	}
	if err := decodeVaccinations(past, &a.PastVaccinations); err != nil {
		return models.Animal{}, err
	}
	if err := decodeVaccinations(planned, &a.UpcomingVaccinations); err != nil {
		return models.Animal{}, err
	}
	a.CreatedAt = &createdAt
	return a, nil
}

func decodeVaccinations(raw []byte, dst *[]models.Vaccination) error {
	*dst = []models.Vaccination{}
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode vaccinations: %w", err)
	}
	return nil
}

func scanAlert(row pgx.Row) (models.Alert, error) {
	var (
		a         models.Alert
		date      time.Time
		createdAt time.Time
	)
	if err := row.Scan(&a.ID, &a.OwnerID, &a.AnimalID, &a.Kind, &date, &a.Description, &a.Status, &createdAt); err != nil {
		return models.Alert{}, err
	}
	a.Date = civil.DateOf(date)
	a.CreatedAt = &createdAt
	return a, nil
}

func scanMilkRecord(row pgx.Row) (models.MilkRecord, error) {
	var (
		id, owner uuid.UUID
		animalID  *uuid.UUID
		date      time.Time
		quantity  float64
		period    models.Period
		createdAt time.Time
	)
	if err := row.Scan(&id, &owner, &animalID, &date, &quantity, &period, &createdAt); err != nil {
		return models.MilkRecord{}, err
	}
	return models.MilkRecordFromRow(id, owner, animalID, civil.DateOf(date), quantity, period, &createdAt)
}

func scanFinancialRecord(row pgx.Row) (models.FinancialRecord, error) {
	var (
		r         models.FinancialRecord
		date      time.Time
		amount    decimal.Decimal
		createdAt time.Time
	)
	if err := row.Scan(&r.ID, &r.OwnerID, &date, &r.Kind, &r.Category, &amount, &r.Description, &createdAt); err != nil {
		return models.FinancialRecord{}, err
	}
	r.Date = civil.DateOf(date)
	r.Amount = amount
	r.CreatedAt = &createdAt
	return r, nil
}

func scanFeedRecord(row pgx.Row) (models.FeedRecord, error) {
	var (
		r         models.FeedRecord
		date      time.Time
		createdAt time.Time
	)
	if err := row.Scan(&r.ID, &r.OwnerID, &r.AnimalID, &date, &r.Ration, &r.Quantity, &r.Notes, &createdAt); err != nil {
		return models.FeedRecord{}, err
	}
	r.Date = civil.DateOf(date)
	r.CreatedAt = &createdAt
	return r, nil
}

func scanProfile(row pgx.Row) (models.FarmProfile, error) {
	var (
		p         models.FarmProfile
		createdAt time.Time
	)
	if err := row.Scan(&p.ID, &p.OwnerID, &p.FarmName, &p.City, &createdAt); err != nil {
		return models.FarmProfile{}, err
	}
	p.CreatedAt = &createdAt
	return p, nil
}

// collect adapts a row scanner for pgx.CollectRows.
func collect[T any](scan func(pgx.Row) (T, error)) func(pgx.CollectableRow) (T, error) {
	return func(row pgx.CollectableRow) (T, error) {
		return scan(row)
	}
}
