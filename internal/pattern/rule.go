// Package pattern matches statement payees against user rules to pick an
// expense category during import.
package pattern

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/spend-squad/internal/common"
)

// Amount operators.
const (
	OpAny          = ""
	OpLessThan     = "<"
	OpLessEqual    = "<="
	OpEqual        = "="
	OpGreaterEqual = ">="
	OpGreaterThan  = ">"
	OpRange        = "range"
)

// Rule files payees that match Payee (case-insensitive exact match, or a
// regular expression when IsRegex) under Category. Higher Priority wins.
type Rule struct {
	Name     string
	Payee    string
	Category string
	Amount   Condition
	Priority int
	IsRegex  bool
}

// Condition restricts the amounts a rule applies to. The zero value matches
// every amount.
type Condition struct {
	Value *decimal.Decimal
	Min   *decimal.Decimal
	Max   *decimal.Decimal
	Op    string
}

// ParseCondition reads "", "<20", "<=20", "=20", ">=20", ">20", or "10-50".
func ParseCondition(s string) (Condition, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	if s == "" || strings.EqualFold(s, "any") {
		return Condition{}, nil
	}

	for _, op := range []string{OpLessEqual, OpGreaterEqual, OpLessThan, OpGreaterThan, OpEqual} {
		if rest, ok := strings.CutPrefix(s, op); ok {
			value, err := decimal.NewFromString(rest)
			if err != nil {
				return Condition{}, fmt.Errorf("%w: amount %q: %w", common.ErrInvalidConfig, s, err)
			}
			return Condition{Op: op, Value: &value}, nil
		}
	}

	lo, hi, ok := strings.Cut(s, "-")
	if !ok {
		return Condition{}, fmt.Errorf("%w: amount %q: expected an operator or a range", common.ErrInvalidConfig, s)
	}
	minimum, err := decimal.NewFromString(lo)
	if err != nil {
		return Condition{}, fmt.Errorf("%w: amount %q: %w", common.ErrInvalidConfig, s, err)
	}
	maximum, err := decimal.NewFromString(hi)
	if err != nil {
		return Condition{}, fmt.Errorf("%w: amount %q: %w", common.ErrInvalidConfig, s, err)
	}
	if maximum.LessThan(minimum) {
		return Condition{}, fmt.Errorf("%w: amount %q: range is reversed", common.ErrInvalidConfig, s)
	}
	return Condition{Op: OpRange, Min: &minimum, Max: &maximum}, nil
}

// Matches reports whether amount satisfies the condition.
func (c Condition) Matches(amount decimal.Decimal) bool {
	switch c.Op {
	case OpAny:
		return true
	case OpLessThan:
		return amount.LessThan(*c.Value)
	case OpLessEqual:
		return amount.LessThanOrEqual(*c.Value)
	case OpEqual:
		return amount.Equal(*c.Value)
	case OpGreaterEqual:
		return amount.GreaterThanOrEqual(*c.Value)
	case OpGreaterThan:
		return amount.GreaterThan(*c.Value)
	case OpRange:
		return !amount.LessThan(*c.Min) && !amount.GreaterThan(*c.Max)
	}
	return false
}

func (c Condition) String() string {
	switch c.Op {
	case OpAny:
		return "any"
	case OpRange:
		return c.Min.String() + "-" + c.Max.String()
	default:
		return c.Op + c.Value.String()
	}
}
