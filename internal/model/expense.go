package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is a single logged spend. Expenses are never edited; they are
// deleted and re-added instead.
type Expense struct {
	Date       time.Time       `json:"date" yaml:"date"`
	ID         string          `json:"id" yaml:"id"`
	CategoryID string          `json:"categoryId" yaml:"categoryId"`
	Note       string          `json:"note,omitempty" yaml:"note,omitempty"`
	Amount     decimal.Decimal `json:"amount" yaml:"amount"`
}
