package constants

import (
	"strings"
)

type Category string

const (
	Organic     Category = "Organic"
	Supplements Category = "Supplements"
	Bulk        Category = "Bulk"
	Cosmetics   Category = "Cosmetics"
	Groceries   Category = "Groceries"
)

// GSTRate is the fixed goods-and-services tax applied to ex-tax amounts.
const GSTRate = 0.10

var allCategories = []Category{
	Organic,
	Supplements,
	Bulk,
	Cosmetics,
	Groceries,
}

// markups maps each category to its retail markup multiplier.
var markups = map[Category]float64{
	Organic:     0.50,
	Supplements: 0.60,
	Bulk:        0.35,
	Cosmetics:   0.55,
	Groceries:   0.40,
}

// keywordRule pairs a category with the substrings that select it.
// Order matters: the first rule whose keyword appears in the description wins.
type keywordRule struct {
	Category Category
	Keywords []string
}

var keywordRules = []keywordRule{
	{Organic, []string{"organic", "biodynamic", "certified org"}},
	{Supplements, []string{"vitamin", "supplement", "probiotic", "magnesium", "zinc", "omega", "capsule", "tablet"}},
	{Bulk, []string{"bulk", "5kg", "10kg", "25kg", "sack", "drum"}},
	{Cosmetics, []string{"soap", "shampoo", "conditioner", "lotion", "balm", "moisturiser", "skincare", "deodorant"}},
}

func AsStringSlice() []string {
	result := make([]string, len(allCategories))
	for i, cat := range allCategories {
		result[i] = string(cat)
	}
	return result
}

// Classify assigns a category to an item description by case-insensitive
// substring match. Rules are checked in order; the first match wins and
// anything unmatched falls through to Groceries.
func Classify(description string) Category {
	desc := strings.ToLower(description)
	for _, rule := range keywordRules {
		for _, kw := range rule.Keywords {
			if strings.Contains(desc, kw) {
				return rule.Category
			}
		}
	}
	return Groceries
}

// MarkupFor returns the retail markup multiplier for a category.
func MarkupFor(cat Category) float64 {
	if m, ok := markups[cat]; ok {
		return m
	}
	return markups[Groceries]
}

// Canonicalize maps a free-form category label (e.g. from a remote
// enhancement response) onto the fixed taxonomy. The bool reports whether
// the label was recognized.
func Canonicalize(input string) (Category, bool) {
	if input == "" {
		return Groceries, false
	}

	normalized := strings.ToLower(strings.TrimSpace(input))

	// synonyms map
	synonyms := map[string]Category{
		"health food":   Organic,
		"organics":      Organic,
		"vitamins":      Supplements,
		"supplement":    Supplements,
		"bulk goods":    Bulk,
		"wholefoods":    Bulk,
		"beauty":        Cosmetics,
		"personal care": Cosmetics,
		"grocery":       Groceries,
		"general":       Groceries,
	}

	if cat, ok := synonyms[normalized]; ok {
		return cat, true
	}

	// check if it matches any category string
	for _, cat := range allCategories {
		if normalized == strings.ToLower(string(cat)) {
			return cat, true
		}
	}

	return Groceries, false
}
