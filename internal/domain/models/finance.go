package models

import (
	"time"

	"github.com/golang-sql/civil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionKind separates income from expense.
type TransactionKind string

const (
	Income  TransactionKind = "income"
	Expense TransactionKind = "expense"
)

// Valid reports whether k is a known kind.
func (k TransactionKind) Valid() bool {
	return k == Income || k == Expense
}

// FinancialRecord is a single income or expense entry.
type FinancialRecord struct {
	ID          uuid.UUID       `json:"id"`
	OwnerID     uuid.UUID       `json:"user_id"`
	Date        civil.Date      `json:"date"`
	Kind        TransactionKind `json:"kind"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	CreatedAt   *time.Time      `json:"created_at,omitempty"`
}

// Validate checks the record before it is stored.
func (r FinancialRecord) Validate() error {
	var verr ValidationError
	if !r.Date.IsValid() {
		verr.Add("date", "is required")
	}
	if !r.Kind.Valid() {
		verr.Add("kind", "must be income or expense")
	}
	if r.Category == "" {
		verr.Add("category", "is required")
	}
	if !r.Amount.IsPositive() {
		verr.Add("amount", "must be positive")
	}
	return verr.OrNil()
}

// SuggestedCategories lists the categories offered per kind. Other values are
// accepted as free text.
var SuggestedCategories = map[TransactionKind][]string{
	Income:  {"Milk sales", "Animal sales", "Other"},
	Expense: {"Feed", "Medication", "Maintenance", "Staff", "Electricity", "Water", "Other"},
}
