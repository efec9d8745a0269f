package alerts

import (
	"testing"
	"time"

	"github.com/golang-sql/civil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/herdbook/internal/domain/calendar"
	"github.com/mamadbah2/herdbook/internal/domain/models"
)

func ptr[T any](v T) *T { return &v }

func TestBuildTimeline_VaccinationHorizon(t *testing.T) {
	t.Parallel()

	today := day(2024, time.January, 1)
	corr := calendar.Corrector{OffsetDays: 1}

	animal := models.Animal{
		ID:        uuid.New(),
		TagNumber: "7",
		UpcomingVaccinations: []models.Vaccination{
			// corrected: exactly 30 days out
			{Name: "in", Date: today.AddDays(29)},
			// corrected: 31 days out
			{Name: "out", Date: today.AddDays(30)},
			// corrected: already overdue
			{Name: "late", Date: today.AddDays(-10)},
		},
	}

	tl := BuildTimeline(nil, []models.Animal{animal}, today, corr, 30)

	require.Len(t, tl.UpcomingVaccinations, 2)
	assert.Equal(t, "late", tl.UpcomingVaccinations[0].Name)
	assert.Equal(t, Overdue, tl.UpcomingVaccinations[0].Urgency)
	assert.Equal(t, "in", tl.UpcomingVaccinations[1].Name)
	assert.Equal(t, Future, tl.UpcomingVaccinations[1].Urgency)
	assert.Equal(t, today.AddDays(30), tl.UpcomingVaccinations[1].Date)
	assert.Equal(t, animal.ID, tl.UpcomingVaccinations[1].AnimalID)
	assert.Equal(t, "#7", tl.UpcomingVaccinations[1].AnimalName)
}

func TestBuildTimeline_VaccinationsSortedAcrossAnimals(t *testing.T) {
	t.Parallel()

	today := day(2024, time.March, 1)
	a := models.Animal{ID: uuid.New(), Name: "A", UpcomingVaccinations: []models.Vaccination{
		{Name: "a-late", Date: today.AddDays(12)},
		{Name: "a-early", Date: today.AddDays(2)},
	}}
	b := models.Animal{ID: uuid.New(), Name: "B", UpcomingVaccinations: []models.Vaccination{
		{Name: "b-mid", Date: today.AddDays(5)},
		{Name: "b-tie", Date: today.AddDays(12)},
	}}

	tl := BuildTimeline(nil, []models.Animal{a, b}, today, calendar.Corrector{}, 30)

	names := make([]string, 0, len(tl.UpcomingVaccinations))
	for _, v := range tl.UpcomingVaccinations {
		names = append(names, v.Name)
	}
	assert.Equal(t, []string{"a-early", "b-mid", "a-late", "b-tie"}, names)
	assert.Equal(t, Urgent, tl.UpcomingVaccinations[0].Urgency)
	assert.Equal(t, Upcoming, tl.UpcomingVaccinations[2].Urgency)
}

func TestBuildTimeline_UpcomingCalvings(t *testing.T) {
	t.Parallel()

	today := day(2024, time.January, 1)
	corr := calendar.Corrector{OffsetDays: 2}

	animals := []models.Animal{
		{ID: uuid.New(), Name: "today", NextCalving: ptr(today.AddDays(-2))},
		{ID: uuid.New(), Name: "tomorrow", NextCalving: ptr(today.AddDays(-1))},
		{ID: uuid.New(), Name: "none"},
		{ID: uuid.New(), Name: "edge", NextCalving: ptr(today.AddDays(28))},
		{ID: uuid.New(), Name: "beyond", NextCalving: ptr(today.AddDays(29))},
		{ID: uuid.New(), Name: "soon", NextCalving: ptr(today.AddDays(3))},
	}

	tl := BuildTimeline(nil, animals, today, corr, 30)

	require.Len(t, tl.UpcomingCalvings, 3)
	assert.Equal(t, "tomorrow", tl.UpcomingCalvings[0].AnimalName)
	assert.Equal(t, 1, tl.UpcomingCalvings[0].DaysLeft)
	assert.Equal(t, "edge", tl.UpcomingCalvings[1].AnimalName)
	assert.Equal(t, 30, tl.UpcomingCalvings[1].DaysLeft)
	assert.Equal(t, "soon", tl.UpcomingCalvings[2].AnimalName)
	assert.Equal(t, today.AddDays(5), tl.UpcomingCalvings[2].Date)
}

func TestBuildTimeline_PartitionsAlerts(t *testing.T) {
	t.Parallel()

	today := day(2024, time.January, 1)
	pending := models.Alert{ID: uuid.New(), Kind: models.AlertVaccine, Date: day(2023, time.December, 30), Status: models.AlertPending}
	done := models.Alert{ID: uuid.New(), Kind: models.AlertCalving, Date: today, Status: models.AlertDone}
	later := models.Alert{ID: uuid.New(), Kind: models.AlertInsemination, Date: day(2024, time.January, 20), Status: models.AlertPending}

	tl := BuildTimeline([]models.Alert{pending, done, later}, nil, today, calendar.Corrector{OffsetDays: 1}, 30)

	require.Len(t, tl.Pending, 2)
	require.Len(t, tl.Done, 1)
	assert.Equal(t, pending.ID, tl.Pending[0].ID)
	assert.Equal(t, Overdue, tl.Pending[0].Urgency)
	assert.Equal(t, day(2023, time.December, 31), tl.Pending[0].DisplayDate)
	assert.Equal(t, Future, tl.Pending[1].Urgency)
	assert.Equal(t, done, tl.Done[0])

	counts := tl.CountByUrgency()
	assert.Equal(t, 1, counts[Overdue])
	assert.Equal(t, 1, counts[Future])
}

func TestBuildTimeline_DeletedAlertDisappears(t *testing.T) {
	t.Parallel()

	today := day(2024, time.January, 1)
	a := models.Alert{ID: uuid.New(), Description: "a", Date: today, Status: models.AlertPending}
	b := models.Alert{ID: uuid.New(), Description: "b", Date: today, Status: models.AlertDone}
	c := models.Alert{ID: uuid.New(), Description: "c", Date: today, Status: models.AlertPending}

	after := []models.Alert{a, c}
	tl := BuildTimeline(after, nil, today, calendar.Corrector{}, 30)

	require.Len(t, tl.Pending, 2)
	assert.Empty(t, tl.Done)
	assert.Equal(t, a, tl.Pending[0].Alert)
	assert.Equal(t, c, tl.Pending[1].Alert)
	for _, p := range tl.Pending {
		assert.NotEqual(t, b.ID, p.ID)
	}
}

func TestBuildTimeline_EmptyInputs(t *testing.T) {
	t.Parallel()

	tl := BuildTimeline(nil, nil, civil.Date{Year: 2024, Month: 1, Day: 1}, calendar.Corrector{}, 0)
	assert.NotNil(t, tl.UpcomingCalvings)
	assert.NotNil(t, tl.UpcomingVaccinations)
	assert.NotNil(t, tl.Pending)
	assert.NotNil(t, tl.Done)
}
