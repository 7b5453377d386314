package state

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/spend-squad/internal/common"
	"github.com/Veraticus/spend-squad/internal/model"
	"github.com/Veraticus/spend-squad/internal/testutil"
)

func testEnv() Env {
	return Env{
		NewID:  testutil.SequentialIDs("id"),
		Rand:   &testutil.SeqRand{},
		Quotes: model.MotivationalQuotes,
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func mustApply(t *testing.T, st model.BudgetState, cmd Command, env Env) model.BudgetState {
	t.Helper()
	next, _, err := Apply(st, cmd, env)
	require.NoError(t, err, "applying %s", cmd.Kind())
	return next
}

func TestNewFirstRunState(t *testing.T) {
	st := NewFirstRunState(testEnv())

	assert.False(t, st.IsOnboarded)
	assert.Equal(t, "$", st.Currency)
	assert.Equal(t, model.UserTypeUnset, st.UserType)
	assert.True(t, st.Balance.IsZero())
	assert.True(t, st.MonthlyIncome.IsZero())
	assert.Len(t, st.Categories, 8)
	assert.Empty(t, st.Expenses)
	assert.False(t, st.EmergencyMode)
	assert.Nil(t, st.EmergencyBudget)
	assert.True(t, model.IsQuote(model.MotivationalQuotes, st.CurrentQuote))

	essential := map[string]bool{}
	for _, c := range st.Categories {
		essential[c.Name] = c.IsEssential
	}
	assert.Equal(t, map[string]bool{
		"Food": true, "Housing": true, "Utilities": true, "Transportation": true,
		"Healthcare": true, "Entertainment": false, "Shopping": false, "Education": true,
	}, essential)
}

func TestApply_CompleteOnboarding(t *testing.T) {
	env := testEnv()

	t.Run("sets fields and resets emergency state", func(t *testing.T) {
		start := NewFirstRunState(env)
		start.EmergencyMode = true
		start.Expenses = []model.Expense{{ID: "stale", CategoryID: "food", Amount: dec("1")}}

		next, changed, err := Apply(start, CompleteOnboarding{
			Currency:      "€",
			UserType:      model.UserTypeStudent,
			Balance:       dec("500"),
			MonthlyIncome: dec("1200"),
			Categories: []model.Category{
				{ID: "rent", Name: "Rent", IsEssential: true},
				{Name: " Games ", IsEssential: false},
			},
		}, env)
		require.NoError(t, err)
		assert.True(t, changed)
		assert.True(t, next.IsOnboarded)
		assert.Equal(t, "€", next.Currency)
		assert.Equal(t, model.UserTypeStudent, next.UserType)
		testutil.AssertDecimal(t, "500", next.Balance)
		testutil.AssertDecimal(t, "1200", next.MonthlyIncome)
		assert.Empty(t, next.Expenses)
		assert.False(t, next.EmergencyMode)
		assert.Nil(t, next.EmergencyBudget)
		require.Len(t, next.Categories, 2)
		assert.Equal(t, "rent", next.Categories[0].ID)
		assert.Equal(t, "Games", next.Categories[1].Name)
		assert.NotEmpty(t, next.Categories[1].ID)
		assert.True(t, model.IsQuote(env.Quotes, next.CurrentQuote))
	})

	t.Run("empty category list uses defaults", func(t *testing.T) {
		next := mustApply(t, NewFirstRunState(env), CompleteOnboarding{UserType: model.UserTypeWorking}, env)
		assert.Equal(t, model.DefaultCategories(), next.Categories)
		assert.Equal(t, "$", next.Currency)
	})

	t.Run("second onboarding is refused", func(t *testing.T) {
		onboarded := testutil.NewBudget().WithBalance("10").Build()
		next, changed, err := Apply(onboarded, CompleteOnboarding{Balance: dec("999")}, env)
		assert.ErrorIs(t, err, common.ErrAlreadyOnboarded)
		assert.False(t, changed)
		testutil.AssertDecimal(t, "10", next.Balance)
	})

	t.Run("duplicate category ids are refused", func(t *testing.T) {
		_, _, err := Apply(NewFirstRunState(env), CompleteOnboarding{
			UserType:   model.UserTypeStudent,
			Categories: []model.Category{{ID: "a", Name: "A"}, {ID: "a", Name: "B"}},
		}, env)
		assert.ErrorIs(t, err, common.ErrInvalidCategory)
	})

	t.Run("unknown user type is refused", func(t *testing.T) {
		_, _, err := Apply(NewFirstRunState(env), CompleteOnboarding{UserType: "retired"}, env)
		assert.ErrorIs(t, err, common.ErrInvalidUserType)
	})

	t.Run("unset user type is refused", func(t *testing.T) {
		start := NewFirstRunState(env)
		next, changed, err := Apply(start, CompleteOnboarding{Balance: dec("10"), MonthlyIncome: dec("20")}, env)
		assert.ErrorIs(t, err, common.ErrInvalidUserType)
		assert.False(t, changed)
		assert.False(t, next.IsOnboarded)
	})
}

func TestApply_AddExpense(t *testing.T) {
	env := testEnv()
	date := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	start := testutil.NewBudget().WithBalance("100").Build()

	next, changed, err := Apply(start, AddExpense{Amount: dec("12.50"), CategoryID: "food", Date: date, Note: "lunch"}, env)
	require.NoError(t, err)
	assert.True(t, changed)
	testutil.AssertDecimal(t, "87.5", next.Balance)
	require.Len(t, next.Expenses, 1)
	assert.Equal(t, "id-1", next.Expenses[0].ID)
	assert.Equal(t, "lunch", next.Expenses[0].Note)
	assert.True(t, date.Equal(next.Expenses[0].Date))

	// Newest insert goes first.
	next = mustApply(t, next, AddExpense{Amount: dec("1"), CategoryID: "housing", Date: date}, env)
	assert.Equal(t, "id-2", next.Expenses[0].ID)

	// The input state is never mutated.
	assert.Empty(t, start.Expenses)
	testutil.AssertDecimal(t, "100", start.Balance)

	tests := []struct {
		name string
		cmd  AddExpense
	}{
		{name: "zero amount", cmd: AddExpense{Amount: dec("0"), CategoryID: "food"}},
		{name: "negative amount", cmd: AddExpense{Amount: dec("-3"), CategoryID: "food"}},
		{name: "unknown category", cmd: AddExpense{Amount: dec("3"), CategoryID: "nope"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed, err := Apply(start, tt.cmd, env)
			assert.ErrorIs(t, err, common.ErrInvalidExpense)
			assert.False(t, changed)
			assert.Empty(t, got.Expenses)
			testutil.AssertDecimal(t, "100", got.Balance)
		})
	}
}

func TestApply_DeleteExpense(t *testing.T) {
	env := testEnv()
	st := testutil.NewBudget().WithBalance("100").Build()
	st = mustApply(t, st, AddExpense{Amount: dec("30"), CategoryID: "food"}, env)

	t.Run("unknown id is a no-op", func(t *testing.T) {
		next, changed, err := Apply(st, DeleteExpense{ID: "missing"}, env)
		require.NoError(t, err)
		assert.False(t, changed)
		testutil.AssertStatesEqual(t, st, next)
	})

	t.Run("credits the balance", func(t *testing.T) {
		next, changed, err := Apply(st, DeleteExpense{ID: st.Expenses[0].ID}, env)
		require.NoError(t, err)
		assert.True(t, changed)
		assert.Empty(t, next.Expenses)
		testutil.AssertDecimal(t, "100", next.Balance)
		assert.Len(t, st.Expenses, 1, "input state must not change")
	})
}

func TestApply_LedgerConsistency(t *testing.T) {
	env := testEnv()
	initial := dec("1000")
	st := testutil.NewBudget().WithBalance("1000").Build()

	ops := []Command{
		AddExpense{Amount: dec("10.10"), CategoryID: "food"},
		AddExpense{Amount: dec("200"), CategoryID: "housing"},
		AddExpense{Amount: dec("0.99"), CategoryID: "shopping"},
		DeleteExpense{ID: "id-2"},
		DeleteExpense{ID: "id-2"},
		AddExpense{Amount: dec("45"), CategoryID: "food"},
		DeleteExpense{ID: "id-1"},
		DeleteExpense{ID: "does-not-exist"},
	}

	for i, op := range ops {
		st = mustApply(t, st, op, env)

		present := decimal.Zero
		for _, e := range st.Expenses {
			present = present.Add(e.Amount)
		}
		assert.True(t, initial.Sub(present).Equal(st.Balance),
			"step %d (%s): balance %s != %s - %s", i, op.Kind(), st.Balance, initial, present)
	}
}

func TestApply_DeleteCategory(t *testing.T) {
	env := testEnv()
	st := testutil.NewBudget().Build()
	st = mustApply(t, st, AddExpense{Amount: dec("5"), CategoryID: "food"}, env)

	t.Run("referenced category is kept", func(t *testing.T) {
		next, changed, err := Apply(st, DeleteCategory{ID: "food"}, env)
		require.NoError(t, err)
		assert.False(t, changed)
		assert.GreaterOrEqual(t, next.FindCategory("food"), 0)
	})

	t.Run("unreferenced category is removed", func(t *testing.T) {
		next, changed, err := Apply(st, DeleteCategory{ID: "shopping"}, env)
		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, -1, next.FindCategory("shopping"))
		assert.Len(t, next.Categories, len(st.Categories)-1)
	})

	t.Run("removable again once the expense is gone", func(t *testing.T) {
		cleared := mustApply(t, st, DeleteExpense{ID: st.Expenses[0].ID}, env)
		next, changed, err := Apply(cleared, DeleteCategory{ID: "food"}, env)
		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, -1, next.FindCategory("food"))
	})

	t.Run("unknown id is a no-op", func(t *testing.T) {
		_, changed, err := Apply(st, DeleteCategory{ID: "ghost"}, env)
		require.NoError(t, err)
		assert.False(t, changed)
	})
}

func TestApply_AddCategory(t *testing.T) {
	env := testEnv()
	st := testutil.NewBudget().Build()

	next := mustApply(t, st, AddCategory{Name: "Pets", IsEssential: true}, env)
	next = mustApply(t, next, AddCategory{Name: "Pets"}, env)

	require.Len(t, next.Categories, len(st.Categories)+2)
	a, b := next.Categories[len(next.Categories)-2], next.Categories[len(next.Categories)-1]
	assert.Equal(t, a.Name, b.Name, "names need not be unique")
	assert.NotEqual(t, a.ID, b.ID)
	assert.True(t, a.IsEssential)

	_, _, err := Apply(st, AddCategory{Name: "   "}, env)
	assert.ErrorIs(t, err, common.ErrInvalidCategory)
}

func TestApply_ToggleEmergencyMode(t *testing.T) {
	env := testEnv()

	t.Run("default budget is 70 percent of income", func(t *testing.T) {
		st := testutil.NewBudget().WithIncome("1000").Build()
		next := mustApply(t, st, ToggleEmergencyMode{}, env)
		assert.True(t, next.EmergencyMode)
		require.NotNil(t, next.EmergencyBudget)
		testutil.AssertDecimal(t, "700", *next.EmergencyBudget)
	})

	t.Run("default budget is rounded", func(t *testing.T) {
		st := testutil.NewBudget().WithIncome("1234.5").Build()
		next := mustApply(t, st, ToggleEmergencyMode{}, env)
		testutil.AssertDecimal(t, "864", *next.EmergencyBudget)
	})

	t.Run("existing budget is kept on activation", func(t *testing.T) {
		st := testutil.NewBudget().WithIncome("1000").WithEmergencyBudget("250").Build()
		next := mustApply(t, st, ToggleEmergencyMode{}, env)
		testutil.AssertDecimal(t, "250", *next.EmergencyBudget)
	})

	t.Run("deactivation remembers the budget", func(t *testing.T) {
		st := testutil.NewBudget().WithIncome("1000").WithEmergencyMode(true).WithEmergencyBudget("300").Build()
		next := mustApply(t, st, ToggleEmergencyMode{}, env)
		assert.False(t, next.EmergencyMode)
		require.NotNil(t, next.EmergencyBudget)
		testutil.AssertDecimal(t, "300", *next.EmergencyBudget)
	})

	t.Run("override applies in both directions", func(t *testing.T) {
		override := dec("123")
		on := mustApply(t, testutil.NewBudget().WithIncome("1000").Build(), ToggleEmergencyMode{BudgetOverride: &override}, env)
		testutil.AssertDecimal(t, "123", *on.EmergencyBudget)

		other := dec("50")
		off := mustApply(t, on, ToggleEmergencyMode{BudgetOverride: &other}, env)
		assert.False(t, off.EmergencyMode)
		testutil.AssertDecimal(t, "50", *off.EmergencyBudget)
	})

	t.Run("negative override is refused", func(t *testing.T) {
		negative := dec("-1")
		st := testutil.NewBudget().Build()
		next, changed, err := Apply(st, ToggleEmergencyMode{BudgetOverride: &negative}, env)
		assert.ErrorIs(t, err, common.ErrInvalidBudget)
		assert.False(t, changed)
		assert.False(t, next.EmergencyMode)
	})
}

func TestApply_SetEmergencyBudget(t *testing.T) {
	env := testEnv()
	st := testutil.NewBudget().Build()

	next := mustApply(t, st, SetEmergencyBudget{Amount: dec("0")}, env)
	require.NotNil(t, next.EmergencyBudget)
	assert.True(t, next.EmergencyBudget.IsZero())
	assert.False(t, next.EmergencyMode, "mode is independent")

	_, _, err := Apply(st, SetEmergencyBudget{Amount: dec("-0.01")}, env)
	assert.ErrorIs(t, err, common.ErrInvalidBudget)
}

func TestApply_DirectOverwrites(t *testing.T) {
	env := testEnv()
	st := testutil.NewBudget().WithBalance("100").WithIncome("1000").Build()
	st = mustApply(t, st, AddExpense{Amount: dec("10"), CategoryID: "food"}, env)

	next := mustApply(t, st, UpdateBalance{Value: dec("5000")}, env)
	testutil.AssertDecimal(t, "5000", next.Balance)
	assert.Len(t, next.Expenses, 1)

	next = mustApply(t, next, UpdateMonthlyIncome{Value: dec("2500")}, env)
	testutil.AssertDecimal(t, "2500", next.MonthlyIncome)
	testutil.AssertDecimal(t, "5000", next.Balance)
}

func TestApply_RefreshQuote(t *testing.T) {
	t.Run("never repeats the previous quote", func(t *testing.T) {
		env := testEnv()
		st := testutil.NewBudget().Build()
		for i := 0; i < 50; i++ {
			next := mustApply(t, st, RefreshQuote{}, env)
			assert.NotEqual(t, st.CurrentQuote, next.CurrentQuote, "iteration %d", i)
			assert.True(t, model.IsQuote(env.Quotes, next.CurrentQuote))
			st = next
		}
	})

	t.Run("single quote set is a no-op", func(t *testing.T) {
		env := testEnv()
		env.Quotes = []string{"only"}
		st := testutil.NewBudget().Build()
		st.CurrentQuote = "only"
		next, changed, err := Apply(st, RefreshQuote{}, env)
		require.NoError(t, err)
		assert.False(t, changed)
		assert.Equal(t, "only", next.CurrentQuote)
	})

	t.Run("covers every other quote", func(t *testing.T) {
		env := testEnv()
		st := testutil.NewBudget().Build()
		seen := map[string]bool{}
		for i := 0; i < len(env.Quotes)*3; i++ {
			st = mustApply(t, st, RefreshQuote{}, env)
			seen[st.CurrentQuote] = true
		}
		assert.Len(t, seen, len(env.Quotes))
	})
}

func TestCommandKinds(t *testing.T) {
	commands := []Command{
		CompleteOnboarding{},
		AddExpense{},
		DeleteExpense{},
		ToggleEmergencyMode{},
		SetEmergencyBudget{},
		AddCategory{Name: "Pets"},
		DeleteCategory{},
		UpdateBalance{},
		UpdateMonthlyIncome{},
		RefreshQuote{},
	}

	seen := make(map[string]bool, len(commands))
	for _, cmd := range commands {
		kind := cmd.Kind()
		assert.NotEmpty(t, kind, "%T", cmd)
		assert.False(t, seen[kind], "duplicate kind %q", kind)
		seen[kind] = true
	}
	assert.Equal(t, "add_category", AddCategory{Name: "Pets"}.Kind())
}
