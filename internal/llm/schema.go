package llm

// BuildInvoiceJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map. It is handed to the model as an output constraint and used
// locally to validate what comes back.
func BuildInvoiceJSONSchema() map[string]any {
	lineProps := map[string]any{
		"description":  map[string]any{"type": "string", "minLength": 1},
		"product_code": map[string]any{"type": "string"},
		"quantity":     map[string]any{"type": "number", "minimum": 0},
		"unit":         map[string]any{"type": "string"},
		"unit_price":   map[string]any{"type": "number", "minimum": 0},
		"line_total":   map[string]any{"type": "number", "minimum": 0},
	}

	props := map[string]any{
		"supplier_name":  map[string]any{"type": "string", "minLength": 1},
		"supplier_abn":   map[string]any{"type": "string"},
		"invoice_number": map[string]any{"type": "string"},
		"invoice_date":   map[string]any{"type": "string", "pattern": `^\d{4}-\d{2}-\d{2}$`},
		"line_items": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"properties":           lineProps,
				"required":             []string{"description"},
			},
		},
		"confidence": map[string]any{"type": "number", "minimum": 0.0, "maximum": 1.0},
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
		"required":             []string{"supplier_name", "line_items"},
	}
}
