package alerts

import (
	"sort"

	"github.com/golang-sql/civil"
	"github.com/google/uuid"

	"github.com/mamadbah2/herdbook/internal/domain/calendar"
	"github.com/mamadbah2/herdbook/internal/domain/models"
)

// DefaultHorizonDays bounds how far ahead calvings and vaccinations are shown.
const DefaultHorizonDays = 30

// CalvingDue is an animal expected to calve inside the horizon.
type CalvingDue struct {
	AnimalID   uuid.UUID  `json:"animal_id"`
	AnimalName string     `json:"animal_name"`
	Date       civil.Date `json:"date"`
	DaysLeft   int        `json:"days_left"`
}

// VaccinationDue is one scheduled vaccination lifted out of its animal.
type VaccinationDue struct {
	AnimalID   uuid.UUID  `json:"animal_id"`
	AnimalName string     `json:"animal_name"`
	Name       string     `json:"name"`
	Date       civil.Date `json:"date"`
	Notes      string     `json:"notes,omitempty"`
	Urgency    Urgency    `json:"urgency"`

	stored civil.Date
}

// PendingAlert is a pending alert annotated for display.
type PendingAlert struct {
	models.Alert
	DisplayDate civil.Date `json:"display_date"`
	Urgency     Urgency    `json:"urgency"`
}

// Timeline merges explicit alerts with obligations derived from animals.
type Timeline struct {
	UpcomingCalvings     []CalvingDue     `json:"upcoming_calvings"`
	UpcomingVaccinations []VaccinationDue `json:"upcoming_vaccinations"`
	Pending              []PendingAlert   `json:"pending"`
	Done                 []models.Alert   `json:"done"`
}

// BuildTimeline derives the alert views for one owner. It does not modify its
// inputs.
func BuildTimeline(alertList []models.Alert, animals []models.Animal, today civil.Date, corr calendar.Corrector, horizonDays int) Timeline {
	if horizonDays <= 0 {
		horizonDays = DefaultHorizonDays
	}

	tl := Timeline{
		UpcomingCalvings:     []CalvingDue{},
		UpcomingVaccinations: []VaccinationDue{},
		Pending:              []PendingAlert{},
		Done:                 []models.Alert{},
	}

	for _, animal := range animals {
		if animal.NextCalving != nil {
			due := corr.Correct(*animal.NextCalving)
			days := calendar.DaysBetween(today, due)
			if days > 0 && days <= horizonDays {
				tl.UpcomingCalvings = append(tl.UpcomingCalvings, CalvingDue{
					AnimalID:   animal.ID,
					AnimalName: animal.DisplayName(),
					Date:       due,
					DaysLeft:   days,
				})
			}
		}

		for _, v := range animal.UpcomingVaccinations {
			due := corr.Correct(v.Date)
			if calendar.DaysBetween(today, due) > horizonDays {
				continue
			}
			tl.UpcomingVaccinations = append(tl.UpcomingVaccinations, VaccinationDue{
				AnimalID:   animal.ID,
				AnimalName: animal.DisplayName(),
				Name:       v.Name,
				Date:       due,
				Notes:      v.Notes,
				Urgency:    Classify(due, today),
				stored:     v.Date,
			})
		}
	}

	sort.SliceStable(tl.UpcomingVaccinations, func(i, j int) bool {
		return tl.UpcomingVaccinations[i].stored.Before(tl.UpcomingVaccinations[j].stored)
	})

	for _, a := range alertList {
		switch a.Status {
		case models.AlertDone:
			tl.Done = append(tl.Done, a)
		default:
			due := corr.Correct(a.Date)
			tl.Pending = append(tl.Pending, PendingAlert{Alert: a, DisplayDate: due, Urgency: Classify(due, today)})
		}
	}

	return tl
}

// CountByUrgency tallies pending alerts and vaccinations per tier.
func (tl Timeline) CountByUrgency() map[Urgency]int {
	counts := make(map[Urgency]int, 4)
	for _, p := range tl.Pending {
		counts[p.Urgency]++
	}
	for _, v := range tl.UpcomingVaccinations {
		counts[v.Urgency]++
	}
	return counts
}
