package enhance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HJantango/wild-octave-invoice/constants"
	"github.com/HJantango/wild-octave-invoice/internal/entity"
)

func TestRetailPriceFormula(t *testing.T) {
	// cost 10.00, groceries markup 0.40, GST 10% -> 15.40
	assert.Equal(t, 15.40, RetailPrice(10.00, 0.40))
	assert.Equal(t, 0.0, RetailPrice(0, 0.40))
}

func TestApplyClassifiesAndPrices(t *testing.T) {
	items := []entity.LineItem{
		{Description: "Organic Vitamin C", ProductCode: "WO1001", UnitCost: 10.00},
		{Description: "Plain Crackers", ProductCode: "WO1002", UnitCost: 10.00},
	}

	out := NewRuleEngine().Apply(items)

	require.Len(t, out, 2)
	// "organic" outranks "vitamin" in the keyword order
	assert.Equal(t, constants.Organic, out[0].Category)
	assert.Equal(t, 0.50, out[0].Markup)
	assert.Equal(t, 16.50, out[0].RetailPrice)

	assert.Equal(t, constants.Groceries, out[1].Category)
	assert.Equal(t, 15.40, out[1].RetailPrice)
}

func TestApplyFlagsForReview(t *testing.T) {
	items := []entity.LineItem{
		{Description: "Short code", ProductCode: "AB", UnitCost: 5.00},
		{Description: "Zero cost", ProductCode: "WO1003", UnitCost: 0},
		{Description: "Fine", ProductCode: "WO1004", UnitCost: 5.00},
	}

	out := NewRuleEngine().Apply(items)

	assert.True(t, out[0].NeedsReview)
	assert.True(t, out[1].NeedsReview)
	assert.False(t, out[2].NeedsReview)
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	items := []entity.LineItem{{Description: "Organic Oats", ProductCode: "WO1005", UnitCost: 4.00}}
	NewRuleEngine().Apply(items)
	assert.Empty(t, items[0].Category)
	assert.Zero(t, items[0].RetailPrice)
}
