// Package enhance applies the retail business rules to extracted line
// items: category classification, markup lookup and GST-inclusive retail
// pricing. A remote enhancement service may be consulted first, but the
// local rule engine is always the authority of last resort.
package enhance

import (
	"github.com/HJantango/wild-octave-invoice/constants"
	"github.com/HJantango/wild-octave-invoice/internal/entity"
)

// minProductCodeLen below which an item is flagged for manual review.
const minProductCodeLen = 3

// RuleEngine is the local, deterministic enhancer.
type RuleEngine struct{}

func NewRuleEngine() *RuleEngine {
	return &RuleEngine{}
}

// Apply classifies each item, attaches its markup and computes the
// GST-inclusive retail price. Pure: the input slice is not mutated.
func (e *RuleEngine) Apply(items []entity.LineItem) []entity.LineItem {
	out := make([]entity.LineItem, len(items))
	for i, li := range items {
		out[i] = e.applyOne(li)
	}
	return out
}

func (e *RuleEngine) applyOne(li entity.LineItem) entity.LineItem {
	li.Category = constants.Classify(li.Description)
	li.Markup = constants.MarkupFor(li.Category)
	li.RetailPrice = RetailPrice(li.UnitCost, li.Markup)
	if len(li.ProductCode) < minProductCodeLen || li.UnitCost == 0 {
		li.NeedsReview = true
	}
	return li
}

// RetailPrice computes the GST-inclusive retail price for an ex-tax unit
// cost and markup multiplier.
func RetailPrice(unitCost, markup float64) float64 {
	return entity.Round2(unitCost * (1 + markup) * (1 + constants.GSTRate))
}
