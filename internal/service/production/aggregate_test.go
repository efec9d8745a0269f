package production

import (
	"testing"
	"time"

	"github.com/golang-sql/civil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/mamadbah2/herdbook/internal/domain/calendar"
	"github.com/mamadbah2/herdbook/internal/domain/models"
)

func day(y int, m time.Month, d int) civil.Date {
	return civil.Date{Year: y, Month: m, Day: d}
}

func yield(d civil.Date, p models.Period, q float64) models.MilkRecord {
	return models.MilkRecord{ID: uuid.New(), Date: d, Quantity: q, Entry: models.IndividualYield{AnimalID: uuid.New(), Period: p}}
}

func herd(d civil.Date, q float64) models.MilkRecord {
	return models.MilkRecord{ID: uuid.New(), Date: d, Quantity: q, Entry: models.HerdTotal{}}
}

func TestGroupDaily(t *testing.T) {
	t.Parallel()

	records := []models.MilkRecord{
		yield(day(2024, time.March, 1), models.PeriodMorning, 5),
		yield(day(2024, time.March, 1), models.PeriodAfternoon, 3),
		herd(day(2024, time.March, 1), 100),
		yield(day(2024, time.March, 2), models.PeriodMorning, 2),
	}

	got := GroupDaily(records, calendar.Corrector{})

	assert.Equal(t, []DailyYield{
		{Day: day(2024, time.March, 1), Morning: 5, Afternoon: 3, Total: 8},
		{Day: day(2024, time.March, 2), Morning: 2, Afternoon: 0, Total: 2},
	}, got)
}

func TestGroupDaily_FirstSeenOrderOnCorrectedDays(t *testing.T) {
	t.Parallel()

	records := []models.MilkRecord{
		yield(day(2024, time.March, 5), models.PeriodMorning, 1),
		yield(day(2024, time.March, 1), models.PeriodMorning, 1),
		yield(day(2024, time.March, 5), models.PeriodAfternoon, 1.5),
	}

	got := GroupDaily(records, calendar.Corrector{OffsetDays: 1})

	assert.Len(t, got, 2)
	assert.Equal(t, day(2024, time.March, 6), got[0].Day)
	assert.Equal(t, 2.5, got[0].Total)
	assert.Equal(t, day(2024, time.March, 2), got[1].Day)
}

func TestSumRange_KeepsTracksApart(t *testing.T) {
	t.Parallel()

	records := []models.MilkRecord{
		yield(day(2024, time.March, 1), models.PeriodMorning, 5),
		herd(day(2024, time.March, 1), 40),
		yield(day(2024, time.March, 3), models.PeriodAfternoon, 2.25),
		herd(day(2024, time.March, 4), 38),
	}
	rng, err := calendar.NewRange(day(2024, time.March, 1), day(2024, time.March, 3))
	assert.NoError(t, err)

	sums := SumRange(records, rng, calendar.Corrector{})
	assert.Equal(t, RangeSums{Individual: 7.25, HerdTotal: 40}, sums)

	filtered := Filter(records, rng, calendar.Corrector{})
	assert.Len(t, filtered, 3)
}

func TestToday(t *testing.T) {
	t.Parallel()

	today := day(2024, time.March, 2)
	corr := calendar.Corrector{OffsetDays: 1}
	records := []models.MilkRecord{
		yield(day(2024, time.March, 1), models.PeriodMorning, 5),
		yield(day(2024, time.March, 1), models.PeriodAfternoon, 4),
		herd(day(2024, time.March, 1), 30),
		herd(day(2024, time.March, 2), 99),
	}

	assert.Equal(t, TodayFigures{HerdTotal: 30, Individual: 9}, Today(records, today, corr))
}

func TestSumsDoNotRound(t *testing.T) {
	t.Parallel()

	d := day(2024, time.March, 1)
	records := []models.MilkRecord{
		yield(d, models.PeriodMorning, 0.04),
		yield(d, models.PeriodMorning, 0.04),
	}

	sums := SumRange(records, calendar.SingleDay(d), calendar.Corrector{})
	assert.InDelta(t, 0.08, sums.Individual, 1e-9)
	assert.Equal(t, 0.1, Round1(sums.Individual))
	assert.Equal(t, 12.3, Round1(12.34))
}
