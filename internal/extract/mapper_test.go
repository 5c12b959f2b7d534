package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func itemValue(desc, code string, qty, unitPrice, amount float64) Value {
	return Value{Obj: map[string]Value{
		fieldDescription: {Str: desc},
		fieldProductCode: {Str: code},
		fieldQuantity:    {Num: qty, HasNum: true},
		fieldUnitPrice:   {Num: unitPrice, HasNum: true},
		fieldAmount:      {Num: amount, HasNum: true},
	}}
}

func TestMapDocumentCarriesEveryItem(t *testing.T) {
	doc := Document{Fields: map[string]Value{
		fieldVendorName: {Str: "ABC Organics Pty Ltd"},
		fieldInvoiceID:  {Str: "INV-123"},
		fieldItems: {Arr: []Value{
			itemValue("Organic Apples", "WO1001", 3, 12.50, 37.50),
			itemValue("Almond Meal", "WO1002", 2, 8.40, 16.80),
		}},
	}}

	inv := MapDocument(doc)

	assert.Equal(t, "ABC Organics Pty Ltd", inv.Supplier.Name)
	assert.Equal(t, "INV-123", inv.Meta.Number)
	assert.Equal(t, "structured", inv.Method)
	require.Len(t, inv.LineItems, 2)
	assert.Equal(t, "Organic Apples", inv.LineItems[0].Description)
	assert.Equal(t, 37.50, inv.LineItems[0].LineTotalExTax)
}

func TestMapDocumentDerivesTaxFromExTaxTotal(t *testing.T) {
	doc := Document{Fields: map[string]Value{
		fieldItems: {Arr: []Value{
			itemValue("Buckwheat Flour", "", 1, 10.00, 10.00),
		}},
	}}

	inv := MapDocument(doc)

	require.Len(t, inv.LineItems, 1)
	li := inv.LineItems[0]
	assert.Equal(t, 1.00, li.TaxAmount)
	assert.Equal(t, 11.00, li.LineTotalIncTax)
}

func TestMapDocumentDefaultsMissingFields(t *testing.T) {
	doc := Document{Fields: map[string]Value{
		fieldItems: {Arr: []Value{
			{Obj: map[string]Value{fieldAmount: {Num: 9.90, HasNum: true}}},
		}},
	}}

	inv := MapDocument(doc)

	assert.Equal(t, "Unknown Supplier", inv.Supplier.Name)
	require.Len(t, inv.LineItems, 1)
	li := inv.LineItems[0]
	assert.Equal(t, "Unlabelled item", li.Description)
	assert.Equal(t, 1.0, li.Quantity)       // quantity defaults to one
	assert.Equal(t, 9.90, li.UnitCost)      // derived from amount / qty
	assert.Equal(t, 10.89, li.LineTotalIncTax)
}

func TestMapDocumentEmptyItemsYieldsOnePlaceholder(t *testing.T) {
	inv := MapDocument(Document{Fields: map[string]Value{
		fieldVendorName: {Str: "ABC Organics Pty Ltd"},
	}})

	require.Len(t, inv.LineItems, 1)
	assert.True(t, inv.LineItems[0].NeedsReview)
	assert.Zero(t, inv.LineItems[0].UnitCost)
	assert.NotEmpty(t, inv.Notes)
}

func TestValueStringFallsBackToContent(t *testing.T) {
	v := Value{Content: "raw span"}
	assert.Equal(t, "raw span", v.String())
	assert.Equal(t, "typed", Value{Str: "typed", Content: "raw span"}.String())
}
