package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/HJantango/wild-octave-invoice/internal/entity"
)

func exportRequest() Request {
	return Request{
		Supplier: "ABC Organics Pty Ltd",
		Items: []entity.LineItem{
			{Description: "Organic Apples", ProductCode: "WO1001", Quantity: 3, Unit: "kg", UnitCost: 12.50, Category: "Organic", Markup: 0.50, RetailPrice: 20.63},
			{Description: "Almond Meal", ProductCode: "WO1002", Quantity: 2, UnitCost: 8.40, Category: "Groceries", Markup: 0.40, RetailPrice: 12.94, NeedsReview: true},
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewService(nil).WriteCSV(&buf, exportRequest()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, columns, records[0])
	assert.Equal(t, []string{
		"ABC Organics Pty Ltd", "Organic Apples", "WO1001", "3", "kg",
		"12.50", "Organic", "0.50", "20.63", "false",
	}, records[1])
	assert.Equal(t, "true", records[2][9])
}

func TestWriteCSVEmptyItemsIsHeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewService(nil).WriteCSV(&buf, Request{Supplier: "X"}))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
}

func TestBuildXLSX(t *testing.T) {
	bs, err := NewService(nil).BuildXLSX(exportRequest())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(bs))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows("Pricing")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Product", rows[0][1])
	assert.Equal(t, "Organic Apples", rows[1][1])
	assert.Equal(t, "ABC Organics Pty Ltd", rows[1][0])
}
