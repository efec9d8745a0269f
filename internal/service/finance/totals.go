package finance

import (
	"github.com/shopspring/decimal"

	"github.com/mamadbah2/herdbook/internal/domain/calendar"
	"github.com/mamadbah2/herdbook/internal/domain/models"
)

// Totals is the running income, expense and balance of a ledger.
type Totals struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Balance decimal.Decimal `json:"balance"`
}

// Summarize sums records by kind. When rng is set only records whose
// corrected date falls inside it count.
func Summarize(records []models.FinancialRecord, rng *calendar.Range, corr calendar.Corrector) Totals {
	income, expense := decimal.Zero, decimal.Zero

	for _, rec := range records {
		if rng != nil && !rng.Contains(corr.Correct(rec.Date)) {
			continue
		}
		switch rec.Kind {
		case models.Income:
			income = income.Add(rec.Amount)
		case models.Expense:
			expense = expense.Add(rec.Amount)
		}
	}

	return Totals{Income: income, Expense: expense, Balance: income.Sub(expense)}
}

// FilterRange keeps records whose corrected date falls inside rng, preserving
// order.
func FilterRange(records []models.FinancialRecord, rng calendar.Range, corr calendar.Corrector) []models.FinancialRecord {
	out := make([]models.FinancialRecord, 0, len(records))
	for _, rec := range records {
		if rng.Contains(corr.Correct(rec.Date)) {
			out = append(out, rec)
		}
	}
	return out
}
