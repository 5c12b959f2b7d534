package server

import (
	"github.com/HJantango/wild-octave-invoice/internal/entity"
)

// Fixed JSON contract consumed by the review UI.

type processResponse struct {
	Supplier        string         `json:"supplier"`
	Items           []responseItem `json:"items"`
	ProcessingNotes []string       `json:"processingNotes"`
	Summary         summary        `json:"summary"`
}

type responseItem struct {
	Product     string  `json:"product"`
	Quantity    float64 `json:"quantity"`
	Unit        string  `json:"unit"`
	CostExGST   float64 `json:"costExGST"`
	Category    string  `json:"category"`
	Markup      float64 `json:"markup"`
	RetailPrice float64 `json:"retailPrice"`
	NeedsReview bool    `json:"needsReview"`
}

type summary struct {
	TotalItems  int     `json:"totalItems"`
	TotalCost   float64 `json:"totalCost"`
	TotalRetail float64 `json:"totalRetail"`
	ReviewCount int     `json:"reviewCount"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// buildResponse reshapes the enhanced invoice into the UI contract. Always
// well-formed: notes and items are never null, even on degraded paths.
func buildResponse(inv *entity.Invoice, items []entity.LineItem) processResponse {
	resp := processResponse{
		Supplier:        inv.Supplier.Name,
		Items:           make([]responseItem, 0, len(items)),
		ProcessingNotes: append([]string{}, inv.Notes...),
	}

	for _, li := range items {
		resp.Items = append(resp.Items, responseItem{
			Product:     li.Description,
			Quantity:    li.Quantity,
			Unit:        li.Unit,
			CostExGST:   li.UnitCost,
			Category:    string(li.Category),
			Markup:      li.Markup,
			RetailPrice: li.RetailPrice,
			NeedsReview: li.NeedsReview,
		})
		resp.Summary.TotalCost += li.LineTotalExTax
		resp.Summary.TotalRetail += entity.Round2(li.RetailPrice * li.Quantity)
		if li.NeedsReview {
			resp.Summary.ReviewCount++
		}
	}
	resp.Summary.TotalItems = len(items)
	resp.Summary.TotalCost = entity.Round2(resp.Summary.TotalCost)
	resp.Summary.TotalRetail = entity.Round2(resp.Summary.TotalRetail)
	return resp
}
