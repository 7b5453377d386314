package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUserType(t *testing.T) {
	tests := []struct {
		input   string
		want    UserType
		wantErr bool
	}{
		{input: "", wantErr: true},
		{input: "student", want: UserTypeStudent},
		{input: "working", want: UserTypeWorking},
		{input: "Working", wantErr: true},
		{input: "retired", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseUserType(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUserType_JSON(t *testing.T) {
	data, err := json.Marshal(UserTypeUnset)
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))

	data, err = json.Marshal(UserTypeStudent)
	require.NoError(t, err)
	assert.Equal(t, `"student"`, string(data))

	var u UserType = UserTypeWorking
	require.NoError(t, json.Unmarshal([]byte("null"), &u))
	assert.Equal(t, UserTypeUnset, u)

	u = UserTypeStudent
	require.NoError(t, json.Unmarshal([]byte(`""`), &u))
	assert.Equal(t, UserTypeUnset, u)

	require.NoError(t, json.Unmarshal([]byte(`"working"`), &u))
	assert.Equal(t, UserTypeWorking, u)

	assert.Error(t, json.Unmarshal([]byte(`"retired"`), &u))
	assert.Error(t, json.Unmarshal([]byte(`7`), &u))
}

func TestBudgetState_Lookups(t *testing.T) {
	st := BudgetState{
		Categories: DefaultCategories(),
		Expenses: []Expense{
			{ID: "e1", CategoryID: "food", Amount: decimal.NewFromInt(5)},
			{ID: "e2", CategoryID: "shopping", Amount: decimal.NewFromInt(7)},
		},
	}

	assert.Equal(t, 0, st.FindCategory("food"))
	assert.Equal(t, -1, st.FindCategory("pets"))
	assert.Equal(t, 1, st.FindExpense("e2"))
	assert.Equal(t, -1, st.FindExpense("e3"))
	assert.True(t, st.CategoryInUse("shopping"))
	assert.False(t, st.CategoryInUse("housing"))
}

func TestBudgetState_CloneIsDeep(t *testing.T) {
	budget := decimal.NewFromInt(100)
	st := BudgetState{
		EmergencyBudget: &budget,
		Categories:      DefaultCategories(),
		Expenses:        []Expense{{ID: "e1", CategoryID: "food", Date: time.Now()}},
	}

	clone := st.Clone()
	clone.Categories[0].Name = "Groceries"
	clone.Expenses[0].Note = "changed"
	*clone.EmergencyBudget = decimal.NewFromInt(1)

	assert.Equal(t, "Food", st.Categories[0].Name)
	assert.Empty(t, st.Expenses[0].Note)
	assert.True(t, st.EmergencyBudget.Equal(decimal.NewFromInt(100)))
}

func TestBudgetState_CloneKeepsNil(t *testing.T) {
	clone := BudgetState{}.Clone()
	assert.Nil(t, clone.Categories)
	assert.Nil(t, clone.Expenses)
	assert.Nil(t, clone.EmergencyBudget)
}

func TestDefaultCategories(t *testing.T) {
	cats := DefaultCategories()
	require.Len(t, cats, 8)

	nonEssential := 0
	seen := make(map[string]bool)
	for _, c := range cats {
		assert.False(t, seen[c.ID], "duplicate id %s", c.ID)
		seen[c.ID] = true
		if !c.IsEssential {
			nonEssential++
		}
	}
	assert.Equal(t, 2, nonEssential)

	cats[0].Name = "mutated"
	assert.Equal(t, "Food", DefaultCategories()[0].Name)
}

func TestIsQuote(t *testing.T) {
	assert.True(t, IsQuote(MotivationalQuotes, MotivationalQuotes[3]))
	assert.False(t, IsQuote(MotivationalQuotes, "Spend it all."))
	assert.False(t, IsQuote(nil, ""))
}
