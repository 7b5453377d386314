package pattern

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/spend-squad/internal/common"
)

// Matcher evaluates payees against a fixed rule set.
type Matcher struct {
	compiled map[int]*regexp.Regexp
	rules    []Rule
}

// NewMatcher compiles rules, highest priority first. Rules with equal
// priority keep their configured order.
func NewMatcher(rules []Rule) (*Matcher, error) {
	m := &Matcher{
		rules:    make([]Rule, len(rules)),
		compiled: make(map[int]*regexp.Regexp),
	}
	copy(m.rules, rules)
	sort.SliceStable(m.rules, func(i, j int) bool {
		return m.rules[i].Priority > m.rules[j].Priority
	})

	for i, rule := range m.rules {
		if strings.TrimSpace(rule.Payee) == "" {
			return nil, fmt.Errorf("%w: rule %q has no payee", common.ErrInvalidConfig, rule.Name)
		}
		if rule.Category == "" {
			return nil, fmt.Errorf("%w: rule %q has no category", common.ErrInvalidConfig, rule.Name)
		}
		if rule.IsRegex {
			re, err := regexp.Compile("(?i)" + rule.Payee)
			if err != nil {
				return nil, fmt.Errorf("%w: rule %q: %w", common.ErrInvalidConfig, rule.Name, err)
			}
			m.compiled[i] = re
		}
	}

	return m, nil
}

// Match returns every rule the payee and amount satisfy, highest priority first.
func (m *Matcher) Match(payee string, amount decimal.Decimal) []Rule {
	var matches []Rule
	for i, rule := range m.rules {
		if m.matchesPayee(i, rule, payee) && rule.Amount.Matches(amount) {
			matches = append(matches, rule)
		}
	}
	return matches
}

// Categorize returns the category of the best matching rule.
func (m *Matcher) Categorize(payee string, amount decimal.Decimal) (string, bool) {
	matches := m.Match(payee, amount)
	if len(matches) == 0 {
		return "", false
	}
	return matches[0].Category, true
}

// Len returns the number of rules.
func (m *Matcher) Len() int {
	return len(m.rules)
}

func (m *Matcher) matchesPayee(i int, rule Rule, payee string) bool {
	if re, ok := m.compiled[i]; ok {
		return re.MatchString(payee)
	}
	return strings.EqualFold(strings.TrimSpace(rule.Payee), strings.TrimSpace(payee))
}
