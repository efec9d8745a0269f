package production

import (
	"math"

	"github.com/golang-sql/civil"

	"github.com/mamadbah2/herdbook/internal/domain/calendar"
	"github.com/mamadbah2/herdbook/internal/domain/models"
)

// DailyYield is the per-day split of individual yields.
type DailyYield struct {
	Day       civil.Date `json:"day"`
	Morning   float64    `json:"morning"`
	Afternoon float64    `json:"afternoon"`
	Total     float64    `json:"total"`
}

// RangeSums keeps the two accounting tracks apart.
type RangeSums struct {
	Individual float64 `json:"individual"`
	HerdTotal  float64 `json:"herd_total"`
}

// TodayFigures are reported side by side, never added.
type TodayFigures struct {
	HerdTotal  float64 `json:"herd_total"`
	Individual float64 `json:"individual"`
}

// GroupDaily groups individual yields by corrected day, in order of first
// appearance. Herd totals are skipped.
func GroupDaily(records []models.MilkRecord, corr calendar.Corrector) []DailyYield {
	out := []DailyYield{}
	index := make(map[civil.Date]int)

	for _, rec := range records {
		entry, ok := rec.Entry.(models.IndividualYield)
		if !ok {
			continue
		}

		d := corr.Correct(rec.Date)
		i, seen := index[d]
		if !seen {
			i = len(out)
			index[d] = i
			out = append(out, DailyYield{Day: d})
		}

		switch entry.Period {
		case models.PeriodMorning:
			out[i].Morning += rec.Quantity
		case models.PeriodAfternoon:
			out[i].Afternoon += rec.Quantity
		}
		out[i].Total += rec.Quantity
	}

	return out
}

// Filter keeps records whose corrected day falls inside rng.
func Filter(records []models.MilkRecord, rng calendar.Range, corr calendar.Corrector) []models.MilkRecord {
	out := make([]models.MilkRecord, 0, len(records))
	for _, rec := range records {
		if rng.Contains(corr.Correct(rec.Date)) {
			out = append(out, rec)
		}
	}
	return out
}

// SumRange sums quantities inside rng, once per accounting track.
func SumRange(records []models.MilkRecord, rng calendar.Range, corr calendar.Corrector) RangeSums {
	var sums RangeSums
	for _, rec := range records {
		if !rng.Contains(corr.Correct(rec.Date)) {
			continue
		}
		if rec.IsHerdTotal() {
			sums.HerdTotal += rec.Quantity
		} else {
			sums.Individual += rec.Quantity
		}
	}
	return sums
}

// Today returns today's herd total and today's individual sum.
func Today(records []models.MilkRecord, today civil.Date, corr calendar.Corrector) TodayFigures {
	sums := SumRange(records, calendar.SingleDay(today), corr)
	return TodayFigures{HerdTotal: sums.HerdTotal, Individual: sums.Individual}
}

// Round1 rounds a liter figure to one decimal for display.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
