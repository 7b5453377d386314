package state

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Veraticus/spend-squad/internal/common"
	"github.com/Veraticus/spend-squad/internal/model"
	"github.com/Veraticus/spend-squad/internal/service"
)

// DefaultEmergencyShare is the fraction of monthly income used as the
// emergency budget when none has been set.
var DefaultEmergencyShare = decimal.RequireFromString("0.7")

// Env carries the nondeterministic inputs transitions need.
type Env struct {
	NewID  func() string
	Rand   service.RandSource
	Quotes []string
}

// DefaultEnv uses uuid ids, the global random source, and the built-in quotes.
func DefaultEnv() Env {
	return Env{
		NewID:  uuid.NewString,
		Rand:   service.DefaultRand(),
		Quotes: model.MotivationalQuotes,
	}
}

// NewFirstRunState builds the state used when nothing has been stored yet.
func NewFirstRunState(env Env) model.BudgetState {
	return model.BudgetState{
		Currency:     model.DefaultCurrency,
		Categories:   model.DefaultCategories(),
		Expenses:     []model.Expense{},
		CurrentQuote: pickQuote(env.Quotes, env.Rand, ""),
	}
}

// Apply computes the state that results from cmd. It never mutates st.
// The boolean reports whether anything changed; no-op commands return st as is.
func Apply(st model.BudgetState, cmd Command, env Env) (model.BudgetState, bool, error) {
	next := st.Clone()

	switch c := cmd.(type) {
	case CompleteOnboarding:
		if st.IsOnboarded {
			return st, false, common.ErrAlreadyOnboarded
		}
		if _, err := model.ParseUserType(string(c.UserType)); err != nil {
			return st, false, fmt.Errorf("%w: %v", common.ErrInvalidUserType, err)
		}
		categories, err := onboardingCategories(c.Categories, env)
		if err != nil {
			return st, false, err
		}
		next.Currency = strings.TrimSpace(c.Currency)
		if next.Currency == "" {
			next.Currency = model.DefaultCurrency
		}
		next.UserType = c.UserType
		next.Balance = c.Balance
		next.MonthlyIncome = c.MonthlyIncome
		next.Categories = categories
		next.IsOnboarded = true
		next.Expenses = []model.Expense{}
		next.EmergencyMode = false
		next.EmergencyBudget = nil
		next.CurrentQuote = pickQuote(env.Quotes, env.Rand, "")
		return next, true, nil

	case AddExpense:
		if !c.Amount.IsPositive() {
			return st, false, fmt.Errorf("%w: amount must be positive, got %s", common.ErrInvalidExpense, c.Amount)
		}
		if st.FindCategory(c.CategoryID) < 0 {
			return st, false, fmt.Errorf("%w: unknown category %q", common.ErrInvalidExpense, c.CategoryID)
		}
		expense := model.Expense{
			ID:         env.NewID(),
			Amount:     c.Amount,
			CategoryID: c.CategoryID,
			Date:       c.Date,
			Note:       c.Note,
		}
		next.Expenses = append([]model.Expense{expense}, st.Expenses...)
		next.Balance = st.Balance.Sub(c.Amount)
		return next, true, nil

	case DeleteExpense:
		idx := st.FindExpense(c.ID)
		if idx < 0 {
			return st, false, nil
		}
		removed := st.Expenses[idx]
		next.Expenses = append(next.Expenses[:idx:idx], st.Expenses[idx+1:]...)
		next.Balance = st.Balance.Add(removed.Amount)
		return next, true, nil

	case ToggleEmergencyMode:
		if c.BudgetOverride != nil && c.BudgetOverride.IsNegative() {
			return st, false, fmt.Errorf("%w: %s is negative", common.ErrInvalidBudget, c.BudgetOverride)
		}
		next.EmergencyMode = !st.EmergencyMode
		switch {
		case c.BudgetOverride != nil:
			budget := *c.BudgetOverride
			next.EmergencyBudget = &budget
		case next.EmergencyMode && st.EmergencyBudget == nil:
			budget := st.MonthlyIncome.Mul(DefaultEmergencyShare).Round(0)
			next.EmergencyBudget = &budget
		}
		return next, true, nil

	case SetEmergencyBudget:
		if c.Amount.IsNegative() {
			return st, false, fmt.Errorf("%w: %s is negative", common.ErrInvalidBudget, c.Amount)
		}
		budget := c.Amount
		next.EmergencyBudget = &budget
		return next, true, nil

	case AddCategory:
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return st, false, fmt.Errorf("%w: name is required", common.ErrInvalidCategory)
		}
		next.Categories = append(next.Categories, model.Category{
			ID:          env.NewID(),
			Name:        name,
			IsEssential: c.IsEssential,
		})
		return next, true, nil

	case DeleteCategory:
		idx := st.FindCategory(c.ID)
		if idx < 0 || st.CategoryInUse(c.ID) {
			return st, false, nil
		}
		next.Categories = append(next.Categories[:idx:idx], st.Categories[idx+1:]...)
		return next, true, nil

	case UpdateBalance:
		next.Balance = c.Value
		return next, true, nil

	case UpdateMonthlyIncome:
		next.MonthlyIncome = c.Value
		return next, true, nil

	case RefreshQuote:
		if len(env.Quotes) <= 1 {
			return st, false, nil
		}
		next.CurrentQuote = pickQuote(env.Quotes, env.Rand, st.CurrentQuote)
		return next, next.CurrentQuote != st.CurrentQuote, nil

	default:
		return st, false, fmt.Errorf("unknown command %T", cmd)
	}
}

// onboardingCategories fills missing ids and rejects duplicates and blank names.
func onboardingCategories(in []model.Category, env Env) ([]model.Category, error) {
	if len(in) == 0 {
		return model.DefaultCategories(), nil
	}

	out := make([]model.Category, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, cat := range in {
		cat.Name = strings.TrimSpace(cat.Name)
		if cat.Name == "" {
			return nil, fmt.Errorf("%w: name is required", common.ErrInvalidCategory)
		}
		if cat.ID == "" {
			cat.ID = env.NewID()
		}
		if _, dup := seen[cat.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %q", common.ErrInvalidCategory, cat.ID)
		}
		seen[cat.ID] = struct{}{}
		out = append(out, cat)
	}
	return out, nil
}

// pickQuote draws uniformly from quotes, never returning exclude unless it is
// the only choice.
func pickQuote(quotes []string, r service.RandSource, exclude string) string {
	candidates := make([]string, 0, len(quotes))
	for _, q := range quotes {
		if q != exclude {
			candidates = append(candidates, q)
		}
	}
	if len(candidates) == 0 {
		return exclude
	}
	return candidates[r.IntN(len(candidates))]
}
