package reporting

import (
	"github.com/golang-sql/civil"
	"github.com/google/uuid"

	"github.com/mamadbah2/herdbook/internal/domain/calendar"
	"github.com/mamadbah2/herdbook/internal/domain/models"
	"github.com/mamadbah2/herdbook/internal/service/alerts"
	"github.com/mamadbah2/herdbook/internal/service/finance"
	"github.com/mamadbah2/herdbook/internal/service/production"
)

// Compute derives the dashboard figures from already loaded records.
func Compute(owner uuid.UUID, animals []models.Animal, tl alerts.Timeline, milk []models.MilkRecord, ledger []models.FinancialRecord, today civil.Date, corr calendar.Corrector) models.DailySnapshot {
	snap := models.DailySnapshot{
		OwnerID:          owner,
		Day:              today.String(),
		PendingAlerts:    len(tl.Pending),
		UpcomingCalvings: len(tl.UpcomingCalvings),
	}

	for _, a := range animals {
		if a.Status == models.AnimalActive {
			snap.ActiveAnimals++
		}
	}

	for _, p := range tl.Pending {
		if p.Kind == models.AlertCalving && calendar.DaysBetween(today, p.DisplayDate) <= ExpectedCalvingDays {
			snap.ExpectedCalvings++
		}
	}

	for _, v := range tl.UpcomingVaccinations {
		if v.Urgency == alerts.Overdue || v.Urgency == alerts.Urgent {
			snap.UrgentVaccinations++
		}
	}

	figures := production.Today(milk, today, corr)
	snap.HerdTotalLiters = figures.HerdTotal
	snap.IndividualLiters = figures.Individual

	totals := finance.Summarize(ledger, nil, corr)
	snap.Income = totals.Income
	snap.Expense = totals.Expense
	snap.Balance = totals.Balance

	return snap
}
