package extract

import (
	"github.com/HJantango/wild-octave-invoice/internal/entity"
)

// Field names produced by the structured invoice model (Azure prebuilt
// invoice naming, which the neutral Document preserves).
const (
	fieldVendorName    = "VendorName"
	fieldVendorAddress = "VendorAddress"
	fieldVendorTaxID   = "VendorTaxId"
	fieldInvoiceID     = "InvoiceId"
	fieldInvoiceDate   = "InvoiceDate"
	fieldDueDate       = "DueDate"
	fieldPurchaseOrder = "PurchaseOrder"
	fieldItems         = "Items"
	fieldDescription   = "Description"
	fieldProductCode   = "ProductCode"
	fieldQuantity      = "Quantity"
	fieldUnit          = "Unit"
	fieldUnitPrice     = "UnitPrice"
	fieldAmount        = "Amount"
)

// PlaceholderDescription is the human-readable description used whenever no
// usable line items could be recovered. The UI contract requires a non-empty
// items array, so degraded paths emit exactly one of these.
const PlaceholderDescription = "Processing error - please add items manually"

// MapDocument converts a structured field dictionary into a canonical
// Invoice. Every lookup is defaulted: missing fields become empty strings or
// zeros, and an empty item array is replaced with a single explanatory
// placeholder so the output is never silently empty.
func MapDocument(doc Document) *entity.Invoice {
	inv := &entity.Invoice{
		Supplier: entity.Supplier{
			Name:    orDefault(doc.Field(fieldVendorName).String(), "Unknown Supplier"),
			Address: doc.Field(fieldVendorAddress).String(),
			TaxID:   doc.Field(fieldVendorTaxID).String(),
		},
		Meta: entity.InvoiceMeta{
			Number:   doc.Field(fieldInvoiceID).String(),
			Date:     doc.Field(fieldInvoiceDate).String(),
			DueDate:  doc.Field(fieldDueDate).String(),
			PONumber: doc.Field(fieldPurchaseOrder).String(),
		},
		Method: "structured",
	}

	for _, item := range doc.Field(fieldItems).Items() {
		li := entity.LineItem{
			Description:    orDefault(item.Member(fieldDescription).String(), "Unlabelled item"),
			ProductCode:    item.Member(fieldProductCode).String(),
			Quantity:       item.Member(fieldQuantity).Number(),
			Unit:           item.Member(fieldUnit).String(),
			UnitCost:       item.Member(fieldUnitPrice).Number(),
			LineTotalExTax: item.Member(fieldAmount).Number(),
		}
		li.FillDerived()
		inv.LineItems = append(inv.LineItems, li)
	}

	if len(inv.LineItems) == 0 {
		inv.LineItems = []entity.LineItem{PlaceholderItem("No line items detected - please add items manually")}
		inv.Notes = append(inv.Notes, "structured model returned no line items")
	}

	inv.RecalcTotals()
	return inv
}

// PlaceholderItem builds the single explanatory item used on degraded paths.
func PlaceholderItem(description string) entity.LineItem {
	return entity.LineItem{
		Description: description,
		Quantity:    1,
		NeedsReview: true,
	}
}

// PlaceholderInvoice is the minimal well-formed result returned when every
// extraction path failed. The UI always receives this shape rather than an
// error.
func PlaceholderInvoice(note string) *entity.Invoice {
	inv := &entity.Invoice{
		Supplier:  entity.Supplier{Name: "Unknown Supplier"},
		LineItems: []entity.LineItem{PlaceholderItem(PlaceholderDescription)},
		Method:    "placeholder",
	}
	if note != "" {
		inv.Notes = append(inv.Notes, note)
	}
	inv.RecalcTotals()
	return inv
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
