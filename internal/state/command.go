// Package state owns the canonical budget state and the transitions that change it.
package state

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/spend-squad/internal/model"
)

// Command is a state transition request. The set of implementations is closed;
// Apply switches over all of them.
type Command interface {
	// Kind identifies the command in logs.
	Kind() string
	isCommand()
}

// CompleteOnboarding initializes the budget from the onboarding answers.
type CompleteOnboarding struct {
	Currency      string
	UserType      model.UserType
	Categories    []model.Category
	Balance       decimal.Decimal
	MonthlyIncome decimal.Decimal
}

// AddExpense logs a new expense and debits the balance.
type AddExpense struct {
	Date       time.Time
	CategoryID string
	Note       string
	Amount     decimal.Decimal
}

// DeleteExpense removes an expense and credits the balance.
type DeleteExpense struct {
	ID string
}

// ToggleEmergencyMode flips emergency mode, optionally setting the budget.
type ToggleEmergencyMode struct {
	BudgetOverride *decimal.Decimal
}

// SetEmergencyBudget sets the emergency ceiling without touching the mode.
type SetEmergencyBudget struct {
	Amount decimal.Decimal
}

// AddCategory appends a category.
type AddCategory struct {
	Name        string
	IsEssential bool
}

// DeleteCategory removes a category nothing references.
type DeleteCategory struct {
	ID string
}

// UpdateBalance overwrites the balance.
type UpdateBalance struct {
	Value decimal.Decimal
}

// UpdateMonthlyIncome overwrites the monthly income.
type UpdateMonthlyIncome struct {
	Value decimal.Decimal
}

// RefreshQuote picks a different motivational quote.
type RefreshQuote struct{}

func (CompleteOnboarding) Kind() string  { return "complete_onboarding" }
func (AddExpense) Kind() string          { return "add_expense" }
func (DeleteExpense) Kind() string       { return "delete_expense" }
func (ToggleEmergencyMode) Kind() string { return "toggle_emergency_mode" }
func (SetEmergencyBudget) Kind() string  { return "set_emergency_budget" }
func (AddCategory) Kind() string         { return "add_category" }
func (DeleteCategory) Kind() string      { return "delete_category" }
func (UpdateBalance) Kind() string       { return "update_balance" }
func (UpdateMonthlyIncome) Kind() string { return "update_monthly_income" }
func (RefreshQuote) Kind() string        { return "refresh_quote" }

func (CompleteOnboarding) isCommand()  {}
func (AddExpense) isCommand()          {}
func (DeleteExpense) isCommand()       {}
func (ToggleEmergencyMode) isCommand() {}
func (SetEmergencyBudget) isCommand()  {}
func (AddCategory) isCommand()         {}
func (DeleteCategory) isCommand()      {}
func (UpdateBalance) isCommand()       {}
func (UpdateMonthlyIncome) isCommand() {}
func (RefreshQuote) isCommand()        {}
