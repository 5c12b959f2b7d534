package llm

import "context"

// InvoiceFields is the normalized shape we want from the model.
type InvoiceFields struct {
	SupplierName    string       `json:"supplier_name"`
	SupplierABN     string       `json:"supplier_abn,omitempty"`
	InvoiceNumber   string       `json:"invoice_number,omitempty"`
	InvoiceDate     string       `json:"invoice_date,omitempty"` // YYYY-MM-DD
	LineItems       []LineFields `json:"line_items"`
	ModelConfidence float32      `json:"confidence,omitempty"` // optional (0..1)
}

// LineFields is one line item as the model reports it. Amounts are ex-GST.
type LineFields struct {
	Description string  `json:"description"`
	ProductCode string  `json:"product_code,omitempty"`
	Quantity    float64 `json:"quantity,omitempty"`
	Unit        string  `json:"unit,omitempty"`
	UnitPrice   float64 `json:"unit_price,omitempty"`
	LineTotal   float64 `json:"line_total,omitempty"`
}

type ExtractRequest struct {
	OCRText      string
	FilenameHint string
	Locale       string
}

// FieldExtractor is the interface the AI backend depends on.
type FieldExtractor interface {
	ExtractInvoice(ctx context.Context, req ExtractRequest) (InvoiceFields, []byte /*rawJSON*/, error)
}
