package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DailySnapshot is the dashboard view of one farm on one day.
type DailySnapshot struct {
	OwnerID            uuid.UUID       `json:"owner_id"`
	Day                string          `json:"day"`
	ActiveAnimals      int             `json:"active_animals"`
	PendingAlerts      int             `json:"pending_alerts"`
	ExpectedCalvings   int             `json:"expected_calvings"`
	UpcomingCalvings   int             `json:"upcoming_calvings"`
	UrgentVaccinations int             `json:"urgent_vaccinations"`
	HerdTotalLiters    float64         `json:"herd_total_liters"`
	IndividualLiters   float64         `json:"individual_liters"`
	Income             decimal.Decimal `json:"income"`
	Expense            decimal.Decimal `json:"expense"`
	Balance            decimal.Decimal `json:"balance"`
	CreatedAt          time.Time       `json:"created_at"`
}
