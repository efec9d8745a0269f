package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/golang-sql/civil"
	"github.com/google/uuid"
)

// Period is the milking session of an individual yield.
type Period string

const (
	PeriodMorning   Period = "morning"
	PeriodAfternoon Period = "afternoon"
	// PeriodTotal only appears on the wire, for herd totals.
	PeriodTotal Period = "total"
)

// MilkEntry is either an IndividualYield or a HerdTotal.
type MilkEntry interface {
	isMilkEntry()
}

// IndividualYield is milk measured from one animal in one session.
type IndividualYield struct {
	AnimalID uuid.UUID
	Period   Period
}

// HerdTotal is a manually entered whole-herd figure. It is accounted apart
// from individual yields and never added to them.
type HerdTotal struct{}

func (IndividualYield) isMilkEntry() {}
func (HerdTotal) isMilkEntry()       {}

// MilkRecord is one production entry in liters.
type MilkRecord struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	Date      civil.Date
	Quantity  float64
	Entry     MilkEntry
	CreatedAt *time.Time
}

// IsHerdTotal reports whether the record is a whole-herd figure.
func (r MilkRecord) IsHerdTotal() bool {
	_, ok := r.Entry.(HerdTotal)
	return ok
}

// Validate checks the record before it is stored.
func (r MilkRecord) Validate() error {
	var verr ValidationError
	if !r.Date.IsValid() {
		verr.Add("date", "is required")
	}
	switch e := r.Entry.(type) {
	case IndividualYield:
		if e.AnimalID == uuid.Nil {
			verr.Add("animal_id", "is required")
		}
		if e.Period != PeriodMorning && e.Period != PeriodAfternoon {
			verr.Add("period", "must be morning or afternoon")
		}
		if r.Quantity <= 0 {
			verr.Add("quantity", "must be positive")
		}
	case HerdTotal:
		if r.Quantity < 0 {
			verr.Add("quantity", "must not be negative")
		}
	default:
		verr.Add("period", "unknown milk entry")
	}
	return verr.OrNil()
}

type milkRow struct {
	ID        uuid.UUID  `json:"id,omitempty"`
	OwnerID   uuid.UUID  `json:"user_id"`
	AnimalID  *uuid.UUID `json:"animal_id"`
	Date      civil.Date `json:"date"`
	Quantity  float64    `json:"quantity"`
	Period    Period     `json:"period"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// MilkRecordFromRow rebuilds the variant from the stored row shape.
func MilkRecordFromRow(id, owner uuid.UUID, animalID *uuid.UUID, date civil.Date, quantity float64, period Period, createdAt *time.Time) (MilkRecord, error) {
	rec := MilkRecord{ID: id, OwnerID: owner, Date: date, Quantity: quantity, CreatedAt: createdAt}
	switch period {
	case PeriodTotal:
		if animalID != nil {
			return MilkRecord{}, fmt.Errorf("milk record %s: herd total carries animal %s", id, animalID)
		}
		rec.Entry = HerdTotal{}
	case PeriodMorning, PeriodAfternoon:
		if animalID == nil {
			return MilkRecord{}, fmt.Errorf("milk record %s: %s yield without animal", id, period)
		}
		rec.Entry = IndividualYield{AnimalID: *animalID, Period: period}
	default:
		return MilkRecord{}, fmt.Errorf("milk record %s: unknown period %q", id, period)
	}
	return rec, nil
}

// Row returns the nullable animal id and the period stored for r.
func (r MilkRecord) Row() (*uuid.UUID, Period) {
	switch e := r.Entry.(type) {
	case IndividualYield:
		id := e.AnimalID
		return &id, e.Period
	default:
		return nil, PeriodTotal
	}
}

func (r MilkRecord) MarshalJSON() ([]byte, error) {
	animalID, period := r.Row()
	return json.Marshal(milkRow{
		ID:        r.ID,
		OwnerID:   r.OwnerID,
		AnimalID:  animalID,
		Date:      r.Date,
		Quantity:  r.Quantity,
		Period:    period,
		CreatedAt: r.CreatedAt,
	})
}

func (r *MilkRecord) UnmarshalJSON(data []byte) error {
	var row milkRow
	if err := json.Unmarshal(data, &row); err != nil {
		return err
	}
	rec, err := MilkRecordFromRow(row.ID, row.OwnerID, row.AnimalID, row.Date, row.Quantity, row.Period, row.CreatedAt)
	if err != nil {
		return err
	}
	*r = rec
	return nil
}
