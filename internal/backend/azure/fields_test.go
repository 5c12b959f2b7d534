package azure

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HJantango/wild-octave-invoice/internal/extract"
)

const analyzeFixture = `{
  "status": "succeeded",
  "analyzeResult": {
    "documents": [
      {
        "docType": "invoice",
        "fields": {
          "VendorName": {"type": "string", "valueString": "ABC Organics Pty Ltd", "content": "ABC Organics Pty Ltd"},
          "InvoiceId": {"type": "string", "valueString": "INV-2041"},
          "InvoiceDate": {"type": "date", "valueDate": "2024-01-01", "content": "01/01/2024"},
          "Items": {
            "type": "array",
            "valueArray": [
              {
                "type": "object",
                "valueObject": {
                  "Description": {"type": "string", "valueString": "Organic Apples"},
                  "Quantity": {"type": "number", "valueNumber": 3},
                  "UnitPrice": {"type": "currency", "valueCurrency": {"amount": 12.5, "currencyCode": "AUD"}},
                  "Amount": {"type": "currency", "valueCurrency": {"amount": 37.5, "currencyCode": "AUD"}}
                }
              }
            ]
          }
        }
      }
    ]
  }
}`

func TestAnalyzeResponseDecodesToDocument(t *testing.T) {
	var resp analyzeResponse
	require.NoError(t, json.Unmarshal([]byte(analyzeFixture), &resp))
	require.Equal(t, "succeeded", resp.Status)
	require.Len(t, resp.AnalyzeResult.Documents, 1)

	doc := resp.AnalyzeResult.Documents[0].toDocument()
	assert.Equal(t, "ABC Organics Pty Ltd", doc.Field("VendorName").String())
	assert.Equal(t, "2024-01-01", doc.Field("InvoiceDate").String())

	items := doc.Field("Items").Items()
	require.Len(t, items, 1)
	assert.Equal(t, "Organic Apples", items[0].Member("Description").String())
	assert.Equal(t, 3.0, items[0].Member("Quantity").Number())
	assert.Equal(t, 12.5, items[0].Member("UnitPrice").Number())
}

func TestFixtureMapsToInvoice(t *testing.T) {
	var resp analyzeResponse
	require.NoError(t, json.Unmarshal([]byte(analyzeFixture), &resp))

	inv := extract.MapDocument(resp.AnalyzeResult.Documents[0].toDocument())
	require.Len(t, inv.LineItems, 1)
	assert.Equal(t, "ABC Organics Pty Ltd", inv.Supplier.Name)
	assert.Equal(t, 41.25, inv.LineItems[0].LineTotalIncTax) // 37.50 plus GST
}

func TestContentFallbackWhenTypedValueMissing(t *testing.T) {
	f := rawField{Type: "string", Content: "raw OCR span"}
	assert.Equal(t, "raw OCR span", f.toValue().String())
}
