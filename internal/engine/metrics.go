// Package engine derives budget metrics from a BudgetState and gates commands
// through the spending policy before they reach the state store.
package engine

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/spend-squad/internal/model"
)

var hundred = decimal.NewFromInt(100)

// MonthStart returns midnight on the first day of now's month, in now's location.
func MonthStart(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
}

// DaysInMonth returns the number of days in now's month.
func DaysInMonth(now time.Time) int {
	return time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, now.Location()).Day()
}

// TotalSpent sums every expense ever recorded.
func TotalSpent(st model.BudgetState) decimal.Decimal {
	total := decimal.Zero
	for _, e := range st.Expenses {
		total = total.Add(e.Amount)
	}
	return total
}

// MonthlySpent sums expenses dated between the start of now's month and now.
func MonthlySpent(st model.BudgetState, now time.Time) decimal.Decimal {
	start := MonthStart(now)
	total := decimal.Zero
	for _, e := range st.Expenses {
		if inMonth(e.Date, start, now) {
			total = total.Add(e.Amount)
		}
	}
	return total
}

func inMonth(date, start, now time.Time) bool {
	return !date.Before(start) && !date.After(now)
}

// DailyBudget spreads what is left for the month over the remaining days,
// today included. In emergency mode with a budget set, what is left is the
// unspent emergency budget; otherwise it is income minus this month's spend
// and may be negative.
func DailyBudget(st model.BudgetState, now time.Time) decimal.Decimal {
	remainingDays := int64(DaysInMonth(now) - now.Day() + 1)
	spent := MonthlySpent(st, now)

	var available decimal.Decimal
	if st.EmergencyMode && st.EmergencyBudget != nil {
		available = decimal.Max(decimal.Zero, st.EmergencyBudget.Sub(spent))
	} else {
		available = st.MonthlyIncome.Sub(spent)
	}

	return available.Div(decimal.NewFromInt(remainingDays))
}

// RemainingEmergencyBudget returns nil when no emergency budget is set.
func RemainingEmergencyBudget(st model.BudgetState, now time.Time) *decimal.Decimal {
	if st.EmergencyBudget == nil {
		return nil
	}
	remaining := decimal.Max(decimal.Zero, st.EmergencyBudget.Sub(MonthlySpent(st, now)))
	return &remaining
}

// CategoryByID looks a category up by id.
func CategoryByID(st model.BudgetState, id string) (model.Category, bool) {
	if idx := st.FindCategory(id); idx >= 0 {
		return st.Categories[idx], true
	}
	return model.Category{}, false
}

// CategorySpend is one row of the monthly category breakdown.
type CategorySpend struct {
	Category model.Category
	Amount   decimal.Decimal
	// Share is the percentage of this month's spend that went to Category.
	Share decimal.Decimal
}

// CategoryBreakdown groups this month's spend by category, largest first.
// Categories with no spend are left out.
func CategoryBreakdown(st model.BudgetState, now time.Time) []CategorySpend {
	start := MonthStart(now)
	totals := make(map[string]decimal.Decimal)
	monthTotal := decimal.Zero
	for _, e := range st.Expenses {
		if !inMonth(e.Date, start, now) {
			continue
		}
		totals[e.CategoryID] = totals[e.CategoryID].Add(e.Amount)
		monthTotal = monthTotal.Add(e.Amount)
	}

	rows := make([]CategorySpend, 0, len(totals))
	for id, amount := range totals {
		if amount.IsZero() {
			continue
		}
		cat, ok := CategoryByID(st, id)
		if !ok {
			cat = model.Category{ID: id, Name: id}
		}
		rows = append(rows, CategorySpend{
			Category: cat,
			Amount:   amount,
			Share:    amount.Div(monthTotal).Mul(hundred),
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if c := rows[i].Amount.Cmp(rows[j].Amount); c != 0 {
			return c > 0
		}
		return rows[i].Category.Name < rows[j].Category.Name
	})
	return rows
}

// ExpensesByDate returns the expenses newest first. Expenses sharing a date
// keep their ledger order.
func ExpensesByDate(st model.BudgetState) []model.Expense {
	out := append([]model.Expense(nil), st.Expenses...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}

// MonthlySpentPercent is this month's spend as a percentage of income,
// clamped to [0, 100]. Zero when income is not positive.
func MonthlySpentPercent(st model.BudgetState, now time.Time) decimal.Decimal {
	return percentOfIncome(MonthlySpent(st, now), st.MonthlyIncome)
}

// BalancePercent is the balance as a percentage of income, clamped to [0, 100].
// Zero when income is not positive.
func BalancePercent(st model.BudgetState) decimal.Decimal {
	return percentOfIncome(st.Balance, st.MonthlyIncome)
}

func percentOfIncome(value, income decimal.Decimal) decimal.Decimal {
	if !income.IsPositive() {
		return decimal.Zero
	}
	pct := value.Div(income).Mul(hundred)
	return decimal.Min(hundred, decimal.Max(decimal.Zero, pct))
}

// Summary bundles the metrics a dashboard shows.
type Summary struct {
	Now                      time.Time
	RemainingEmergencyBudget *decimal.Decimal
	Breakdown                []CategorySpend
	TotalSpent               decimal.Decimal
	MonthlySpent             decimal.Decimal
	DailyBudget              decimal.Decimal
	MonthlySpentPercent      decimal.Decimal
	BalancePercent           decimal.Decimal
	RemainingDays            int
}

// Summarize computes every metric for st at now.
func Summarize(st model.BudgetState, now time.Time) Summary {
	return Summary{
		Now:                      now,
		TotalSpent:               TotalSpent(st),
		MonthlySpent:             MonthlySpent(st, now),
		DailyBudget:              DailyBudget(st, now),
		RemainingEmergencyBudget: RemainingEmergencyBudget(st, now),
		Breakdown:                CategoryBreakdown(st, now),
		MonthlySpentPercent:      MonthlySpentPercent(st, now),
		BalancePercent:           BalancePercent(st),
		RemainingDays:            DaysInMonth(now) - now.Day() + 1,
	}
}
