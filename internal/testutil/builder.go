package testutil

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/Veraticus/spend-squad/internal/model"
)

// Budget is a fluent builder for onboarded BudgetState values.
//
// Example:
//
//	st := testutil.NewBudget().
//		WithIncome("1000").
//		WithEmergencyBudget("100").
//		WithExpense("e1", "food", "80", now).
//		Build()
type Budget struct {
	state model.BudgetState
}

// NewBudget starts from an onboarded state with the default categories and
// the first quote.
func NewBudget() *Budget {
	return &Budget{state: model.BudgetState{
		IsOnboarded:  true,
		Currency:     model.DefaultCurrency,
		UserType:     model.UserTypeWorking,
		Categories:   model.DefaultCategories(),
		Expenses:     []model.Expense{},
		CurrentQuote: model.MotivationalQuotes[0],
	}}
}

// WithBalance sets the balance.
func (b *Budget) WithBalance(amount string) *Budget {
	b.state.Balance = decimal.RequireFromString(amount)
	return b
}

// WithIncome sets the monthly income.
func (b *Budget) WithIncome(amount string) *Budget {
	b.state.MonthlyIncome = decimal.RequireFromString(amount)
	return b
}

// WithEmergencyMode turns emergency mode on or off.
func (b *Budget) WithEmergencyMode(on bool) *Budget {
	b.state.EmergencyMode = on
	return b
}

// WithEmergencyBudget sets the emergency budget.
func (b *Budget) WithEmergencyBudget(amount string) *Budget {
	budget := decimal.RequireFromString(amount)
	b.state.EmergencyBudget = &budget
	return b
}

// WithCategory appends a category.
func (b *Budget) WithCategory(id, name string, essential bool) *Budget {
	b.state.Categories = append(b.state.Categories, model.Category{ID: id, Name: name, IsEssential: essential})
	return b
}

// WithExpense prepends an expense without touching the balance.
func (b *Budget) WithExpense(id, categoryID, amount string, date time.Time) *Budget {
	b.state.Expenses = append([]model.Expense{{
		ID:         id,
		CategoryID: categoryID,
		Amount:     decimal.RequireFromString(amount),
		Date:       date,
	}}, b.state.Expenses...)
	return b
}

// NotOnboarded clears the onboarded flag.
func (b *Budget) NotOnboarded() *Budget {
	b.state.IsOnboarded = false
	return b
}

// Build returns the state.
func (b *Budget) Build() model.BudgetState {
	return b.state.Clone()
}

// AssertDecimal compares decimals by value rather than representation.
func AssertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) bool {
	t.Helper()
	expected := decimal.RequireFromString(want)
	if expected.Equal(got) {
		return true
	}
	return assert.Fail(t, "decimal mismatch: expected "+expected.String()+", got "+got.String(), msgAndArgs...)
}

// AssertStatesEqual compares two states field by field, treating decimals and
// times by value.
func AssertStatesEqual(t *testing.T, want, got model.BudgetState) {
	t.Helper()

	assert.Equal(t, want.IsOnboarded, got.IsOnboarded, "isOnboarded")
	assert.Equal(t, want.Currency, got.Currency, "currency")
	assert.Equal(t, want.UserType, got.UserType, "userType")
	assert.True(t, want.Balance.Equal(got.Balance), "balance: want %s got %s", want.Balance, got.Balance)
	assert.True(t, want.MonthlyIncome.Equal(got.MonthlyIncome), "monthlyIncome: want %s got %s", want.MonthlyIncome, got.MonthlyIncome)
	assert.Equal(t, want.Categories, got.Categories, "categories")
	assert.Equal(t, want.EmergencyMode, got.EmergencyMode, "emergencyMode")
	assert.Equal(t, want.CurrentQuote, got.CurrentQuote, "currentQuote")

	if want.EmergencyBudget == nil || got.EmergencyBudget == nil {
		assert.Equal(t, want.EmergencyBudget == nil, got.EmergencyBudget == nil, "emergencyBudget nullness")
	} else {
		assert.True(t, want.EmergencyBudget.Equal(*got.EmergencyBudget), "emergencyBudget: want %s got %s", want.EmergencyBudget, got.EmergencyBudget)
	}

	if assert.Len(t, got.Expenses, len(want.Expenses), "expenses") {
		for i := range want.Expenses {
			w, g := want.Expenses[i], got.Expenses[i]
			assert.Equal(t, w.ID, g.ID, "expense %d id", i)
			assert.Equal(t, w.CategoryID, g.CategoryID, "expense %d category", i)
			assert.Equal(t, w.Note, g.Note, "expense %d note", i)
			assert.True(t, w.Amount.Equal(g.Amount), "expense %d amount: want %s got %s", i, w.Amount, g.Amount)
			assert.True(t, w.Date.Equal(g.Date), "expense %d date: want %v got %v", i, w.Date, g.Date)
		}
	}
}
