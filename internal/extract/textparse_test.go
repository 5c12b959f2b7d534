package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupplierNameHeuristic(t *testing.T) {
	text := strings.Join([]string{
		"ABC Organics Pty Ltd",
		"Invoice #123",
		"Date: 01/01/2024",
		"Apples $5.00",
	}, "\n")

	inv := NewTextParser(nil).ParseInvoice(text)
	assert.Equal(t, "ABC Organics Pty Ltd", inv.Supplier.Name)
}

func TestSupplierNameDefaultsWhenNothingQualifies(t *testing.T) {
	text := "Invoice #99\n01/02/2024\nGST Total $1.00"
	inv := NewTextParser(nil).ParseInvoice(text)
	assert.Equal(t, "Unknown Supplier", inv.Supplier.Name)
}

func TestQtyUnitPriceTemplate(t *testing.T) {
	items := NewTextParser(nil).Items("Organic Apples 3 kg $12.50")
	require.Len(t, items, 1)
	assert.Equal(t, "Organic Apples", items[0].Description)
	assert.Equal(t, 3.0, items[0].Quantity)
	assert.Equal(t, "kg", items[0].Unit)
	assert.Equal(t, 12.50, items[0].UnitCost)
	assert.Equal(t, 37.50, items[0].LineTotalExTax)
}

func TestPriceQtyTemplate(t *testing.T) {
	items := NewTextParser(nil).Items("Almond Meal $8.40 x 2")
	require.Len(t, items, 1)
	assert.Equal(t, "Almond Meal", items[0].Description)
	assert.Equal(t, 2.0, items[0].Quantity)
	assert.Equal(t, 8.40, items[0].UnitCost)
}

func TestDescPriceTemplate(t *testing.T) {
	items := NewTextParser(nil).Items("Buckwheat Flour $6.95")
	require.Len(t, items, 1)
	assert.Equal(t, "Buckwheat Flour", items[0].Description)
	assert.Equal(t, 1.0, items[0].Quantity)
	assert.Equal(t, 6.95, items[0].UnitCost)
}

func TestProductCodePrefixIsSplitOff(t *testing.T) {
	items := NewTextParser(nil).Items("WO1042 Raw Almonds $14.20")
	require.Len(t, items, 1)
	assert.Equal(t, "WO1042", items[0].ProductCode)
	assert.Equal(t, "Raw Almonds", items[0].Description)
}

func TestPricePlausibilityRange(t *testing.T) {
	p := NewTextParser(nil)

	// page numbers and cents-level noise are rejected
	assert.Empty(t, p.Items("Delivery docket $0.20"))
	// normal prices pass
	assert.Len(t, p.Items("Apples box $5.00"), 1)
	// absurd amounts are rejected
	assert.Empty(t, p.Items("Reference number $99999.00"))
}

func TestStopKeywordLinesAreSkipped(t *testing.T) {
	p := NewTextParser(nil)
	assert.Empty(t, p.Items("GST amount $4.00"))
	assert.Empty(t, p.Items("Total due $120.00"))
	assert.Empty(t, p.Items("Invoice fee $8.00"))
}

func TestGenericCurrencyFallback(t *testing.T) {
	// Nothing line-shaped, but currency tokens exist in running text.
	text := "scanned page fragment $4.20 smudge $7.10, more noise $2.25 and $9.99 again"
	inv := NewTextParser(nil).ParseInvoice(text)

	require.Len(t, inv.LineItems, 3) // capped at three generic items
	for _, li := range inv.LineItems {
		assert.True(t, li.NeedsReview)
		assert.Positive(t, li.UnitCost)
	}
	assert.NotEmpty(t, inv.Notes)
}

func TestNoRecoverableTextYieldsPlaceholder(t *testing.T) {
	inv := NewTextParser(nil).ParseInvoice("")
	require.Len(t, inv.LineItems, 1)
	assert.Equal(t, PlaceholderDescription, inv.LineItems[0].Description)
	assert.Zero(t, inv.LineItems[0].UnitCost)
	assert.True(t, inv.LineItems[0].NeedsReview)
}
