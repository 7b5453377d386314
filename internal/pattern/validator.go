package pattern

import (
	"fmt"
	"strings"

	"github.com/Veraticus/spend-squad/internal/common"
	"github.com/Veraticus/spend-squad/internal/model"
)

// ResolveCategories rewrites each rule's category, given as an id or a
// name, to the id of an existing category.
func ResolveCategories(rules []Rule, categories []model.Category) ([]Rule, error) {
	out := make([]Rule, len(rules))
	for i, rule := range rules {
		id, ok := lookup(rule.Category, categories)
		if !ok {
			return nil, fmt.Errorf("%w: rule %q references unknown category %q",
				common.ErrInvalidCategory, rule.Name, rule.Category)
		}
		rule.Category = id
		out[i] = rule
	}
	return out, nil
}

func lookup(ref string, categories []model.Category) (string, bool) {
	for _, cat := range categories {
		if cat.ID == ref {
			return cat.ID, true
		}
	}
	for _, cat := range categories {
		if strings.EqualFold(cat.Name, ref) {
			return cat.ID, true
		}
	}
	return "", false
}
