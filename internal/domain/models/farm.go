package models

import (
	"strconv"
	"time"

	"github.com/golang-sql/civil"
	"github.com/google/uuid"
)

// FarmProfile exists once per owner.
type FarmProfile struct {
	ID        uuid.UUID  `json:"id"`
	OwnerID   uuid.UUID  `json:"user_id"`
	FarmName  string     `json:"farm_name"`
	City      string     `json:"city"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// FeedRecord captures a ration given to one animal.
type FeedRecord struct {
	ID        uuid.UUID  `json:"id"`
	OwnerID   uuid.UUID  `json:"user_id"`
	AnimalID  uuid.UUID  `json:"animal_id"`
	Date      civil.Date `json:"date"`
	Ration    string     `json:"ration"`
	Quantity  float64    `json:"quantity"`
	Notes     string     `json:"notes,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// Validate checks a feed record before it is stored.
func (r FeedRecord) Validate() error {
	var verr ValidationError
	if r.AnimalID == uuid.Nil {
		verr.Add("animal_id", "is required")
	}
	if !r.Date.IsValid() {
		verr.Add("date", "is required")
	}
	if r.Ration == "" {
		verr.Add("ration", "is required")
	}
	if r.Quantity <= 0 {
		verr.Add("quantity", "must be positive")
	}
	return verr.OrNil()
}

func itoa(i int) string { return strconv.Itoa(i) }
