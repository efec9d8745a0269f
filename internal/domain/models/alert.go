package models

import (
	"time"

	"github.com/golang-sql/civil"
	"github.com/google/uuid"
)

// AlertKind enumerates the obligations an alert may track.
type AlertKind string

const (
	AlertVaccine      AlertKind = "vaccine"
	AlertCalving      AlertKind = "calving"
	AlertInsemination AlertKind = "insemination"
)

// Valid reports whether k is a known alert kind.
func (k AlertKind) Valid() bool {
	switch k {
	case AlertVaccine, AlertCalving, AlertInsemination:
		return true
	}
	return false
}

// AlertStatus is pending until the farmer concludes the alert.
type AlertStatus string

const (
	AlertPending AlertStatus = "pending"
	AlertDone    AlertStatus = "done"
)

// Alert is an explicit date-driven reminder tied to one animal.
type Alert struct {
	ID          uuid.UUID   `json:"id"`
	OwnerID     uuid.UUID   `json:"user_id"`
	AnimalID    uuid.UUID   `json:"animal_id"`
	Kind        AlertKind   `json:"kind"`
	Date        civil.Date  `json:"date"`
	Description string      `json:"description"`
	Status      AlertStatus `json:"status"`
	CreatedAt   *time.Time  `json:"created_at,omitempty"`
}

// Validate checks an alert before it is stored.
func (a Alert) Validate() error {
	var verr ValidationError
	if a.AnimalID == uuid.Nil {
		verr.Add("animal_id", "is required")
	}
	if !a.Kind.Valid() {
		verr.Add("kind", "must be vaccine, calving or insemination")
	}
	if !a.Date.IsValid() {
		verr.Add("date", "is required")
	}
	if a.Status != AlertPending && a.Status != AlertDone {
		verr.Add("status", "must be pending or done")
	}
	return verr.OrNil()
}
