package model

// Category groups expenses. Essential categories are exempt from emergency-mode warnings.
type Category struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	IsEssential bool   `json:"isEssential" yaml:"isEssential"`
}

// DefaultCategories returns the category set a fresh install starts with.
// The ids are stable so expenses imported on one machine resolve on another.
func DefaultCategories() []Category {
	return []Category{
		{ID: "food", Name: "Food", IsEssential: true},
		{ID: "housing", Name: "Housing", IsEssential: true},
		{ID: "utilities", Name: "Utilities", IsEssential: true},
		{ID: "transportation", Name: "Transportation", IsEssential: true},
		{ID: "healthcare", Name: "Healthcare", IsEssential: true},
		{ID: "entertainment", Name: "Entertainment", IsEssential: false},
		{ID: "shopping", Name: "Shopping", IsEssential: false},
		{ID: "education", Name: "Education", IsEssential: true},
	}
}
