package model

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// UserType describes who the budget belongs to. The zero value means unset.
type UserType string

const (
	// UserTypeUnset is used before onboarding.
	UserTypeUnset UserType = ""
	// UserTypeStudent is a student budget.
	UserTypeStudent UserType = "student"
	// UserTypeWorking is a working professional budget.
	UserTypeWorking UserType = "working"
)

// ParseUserType converts user input to a UserType. Only student and working
// are accepted.
func ParseUserType(s string) (UserType, error) {
	switch UserType(s) {
	case UserTypeStudent, UserTypeWorking:
		return UserType(s), nil
	default:
		return UserTypeUnset, fmt.Errorf("unknown user type %q", s)
	}
}

// MarshalJSON encodes an unset user type as null.
func (u UserType) MarshalJSON() ([]byte, error) {
	if u == UserTypeUnset {
		return []byte("null"), nil
	}
	return json.Marshal(string(u))
}

// UnmarshalJSON decodes null or an empty string as an unset user type.
func (u *UserType) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*u = UserTypeUnset
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*u = UserTypeUnset
		return nil
	}
	parsed, err := ParseUserType(s)
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}

// DefaultCurrency is the currency symbol used before onboarding.
const DefaultCurrency = "$"

// BudgetState is the root aggregate holding everything the app knows about one user.
type BudgetState struct {
	EmergencyBudget *decimal.Decimal `json:"emergencyBudget" yaml:"emergencyBudget"`
	Currency        string           `json:"currency" yaml:"currency"`
	UserType        UserType         `json:"userType" yaml:"userType"`
	CurrentQuote    string           `json:"currentQuote" yaml:"currentQuote"`
	Categories      []Category       `json:"categories" yaml:"categories"`
	Expenses        []Expense        `json:"expenses" yaml:"expenses"`
	Balance         decimal.Decimal  `json:"balance" yaml:"balance"`
	MonthlyIncome   decimal.Decimal  `json:"monthlyIncome" yaml:"monthlyIncome"`
	IsOnboarded     bool             `json:"isOnboarded" yaml:"isOnboarded"`
	EmergencyMode   bool             `json:"emergencyMode" yaml:"emergencyMode"`
}

// FindCategory returns the index of the category with the given id, or -1.
func (s *BudgetState) FindCategory(id string) int {
	for i := range s.Categories {
		if s.Categories[i].ID == id {
			return i
		}
	}
	return -1
}

// FindExpense returns the index of the expense with the given id, or -1.
func (s *BudgetState) FindExpense(id string) int {
	for i := range s.Expenses {
		if s.Expenses[i].ID == id {
			return i
		}
	}
	return -1
}

// CategoryInUse reports whether any expense references the category.
func (s *BudgetState) CategoryInUse(id string) bool {
	for i := range s.Expenses {
		if s.Expenses[i].CategoryID == id {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers can read it without racing the store.
func (s BudgetState) Clone() BudgetState {
	out := s
	if s.Categories != nil {
		out.Categories = append([]Category(nil), s.Categories...)
	}
	if s.Expenses != nil {
		out.Expenses = append([]Expense(nil), s.Expenses...)
	}
	if s.EmergencyBudget != nil {
		b := *s.EmergencyBudget
		out.EmergencyBudget = &b
	}
	return out
}
