package entity

import (
	"math"

	"github.com/HJantango/wild-octave-invoice/constants"
)

// Supplier identifies the business that issued the invoice.
type Supplier struct {
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	TaxID   string `json:"tax_id,omitempty"`
}

// InvoiceMeta holds document-level identifiers.
type InvoiceMeta struct {
	Number   string `json:"number,omitempty"`
	Date     string `json:"date,omitempty"` // YYYY-MM-DD when the backend provides one
	DueDate  string `json:"due_date,omitempty"`
	PONumber string `json:"po_number,omitempty"`
}

// Totals holds document-level amounts.
type Totals struct {
	SubTotal float64 `json:"sub_total"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// LineItem is the canonical line-item record produced by normalization and
// enriched by the rule engine. Amounts default to zero rather than failing
// when the backend leaves them out; quantity defaults to 1 when not derivable.
type LineItem struct {
	Description     string             `json:"description"`
	ProductCode     string             `json:"product_code,omitempty"`
	Quantity        float64            `json:"quantity"`
	Unit            string             `json:"unit,omitempty"`
	UnitCost        float64            `json:"unit_cost"`
	LineTotalExTax  float64            `json:"line_total_ex_tax"`
	TaxAmount       float64            `json:"tax_amount"`
	LineTotalIncTax float64            `json:"line_total_inc_tax"`
	Category        constants.Category `json:"category,omitempty"`
	Markup          float64            `json:"markup,omitempty"`
	RetailPrice     float64            `json:"retail_price,omitempty"`
	NeedsReview     bool               `json:"needs_review,omitempty"`
}

// Invoice is the aggregate for one processed document. It lives only for
// the lifetime of a single request.
type Invoice struct {
	Supplier  Supplier       `json:"supplier"`
	Meta      InvoiceMeta    `json:"meta"`
	LineItems []LineItem     `json:"line_items"`
	Totals    Totals         `json:"totals"`
	Method    string         `json:"method"` // "structured" | "text" | "ai" | "placeholder"
	Notes     []string       `json:"notes,omitempty"`
}

// UploadedFile is the decoded multipart upload. Immutable; discarded at
// request end.
type UploadedFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Round2 rounds a monetary amount to cents.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// FillDerived completes the amount triple for a line item: ex-tax total from
// quantity × unit cost when absent, then tax and inc-tax totals at the fixed
// GST rate.
func (li *LineItem) FillDerived() {
	if li.Quantity <= 0 {
		li.Quantity = 1
	}
	if li.LineTotalExTax == 0 && li.UnitCost > 0 {
		li.LineTotalExTax = Round2(li.UnitCost * li.Quantity)
	}
	if li.UnitCost == 0 && li.LineTotalExTax > 0 {
		li.UnitCost = Round2(li.LineTotalExTax / li.Quantity)
	}
	li.TaxAmount = Round2(li.LineTotalExTax * constants.GSTRate)
	li.LineTotalIncTax = Round2(li.LineTotalExTax * (1 + constants.GSTRate))
}

// RecalcTotals recomputes document totals from the line items.
func (inv *Invoice) RecalcTotals() {
	var t Totals
	for _, li := range inv.LineItems {
		t.SubTotal += li.LineTotalExTax
		t.Tax += li.TaxAmount
		t.Total += li.LineTotalIncTax
	}
	t.SubTotal = Round2(t.SubTotal)
	t.Tax = Round2(t.Tax)
	t.Total = Round2(t.Total)
	inv.Totals = t
}
