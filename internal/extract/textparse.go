package extract

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/HJantango/wild-octave-invoice/internal/entity"
)

// Text-pattern parsing knobs. Inherently lossy: this recovers line items
// from whatever the OCR produced, it does not parse invoice grammar.
const (
	supplierScanLines = 8
	minItemLineLen    = 8
	minPlausiblePrice = 0.50
	maxPlausiblePrice = 10000.0
	maxGenericItems   = 3
)

// stopKeywords mark header/footer lines that are never supplier names or
// line items.
var stopKeywords = []string{"invoice", "tax", "gst", "total", "date"}

// Ordered line templates; the first match wins.
var (
	// "Organic Apples  3 kg  $12.50"  -> desc, qty, unit, price
	reQtyUnitPrice = regexp.MustCompile(`^(.{3,}?)\s+(\d+(?:\.\d+)?)\s*(ea|each|kg|g|l|ltr|ml|box|pack|pkt|ctn|bag|bunch|unit)\b\.?\s+\$?(\d+(?:,\d{3})*\.\d{2})$`)
	// "Organic Apples  $12.50 x 3"   -> desc, price, qty
	rePriceQty = regexp.MustCompile(`^(.+?)\s+\$?(\d+(?:,\d{3})*\.\d{2})\s+[xX]\s*(\d+(?:\.\d+)?)$`)
	// "Organic Apples  $12.50"       -> desc, price
	reDescPrice = regexp.MustCompile(`^(.+?)\s+\$?(\d+(?:,\d{3})*\.\d{2})$`)

	// SKU-like token at the start of a description, e.g. "WO1042 Almonds".
	reProductCode = regexp.MustCompile(`^([A-Z][A-Z0-9-]{3,})\s+(.+)$`)

	// Any currency-like token, for the last-resort scan.
	reCurrencyToken = regexp.MustCompile(`\$\s?(\d+(?:,\d{3})*\.\d{2})`)
)

// TextParser recovers an Invoice from a raw OCR text blob by applying
// ordered regular-expression templates per line.
type TextParser struct {
	logger *slog.Logger
}

func NewTextParser(logger *slog.Logger) *TextParser {
	if logger == nil {
		logger = slog.Default()
	}
	return &TextParser{logger: logger}
}

// ParseInvoice runs the supplier heuristic and the line-item templates over
// the text. The result is always well-formed: when nothing matches it holds
// generic placeholder items recovered from currency tokens, or a single
// explanatory placeholder.
func (p *TextParser) ParseInvoice(text string) *entity.Invoice {
	lines := splitLines(text)

	inv := &entity.Invoice{
		Supplier: entity.Supplier{Name: p.supplierName(lines)},
		Method:   "text",
	}

	inv.LineItems = p.Items(text)
	if len(inv.LineItems) == 0 {
		inv.LineItems = p.genericItems(text)
		if len(inv.LineItems) > 0 {
			inv.Notes = append(inv.Notes, "no line patterns matched; recovered amounts from currency tokens")
		}
	}
	if len(inv.LineItems) == 0 {
		inv.LineItems = []entity.LineItem{PlaceholderItem(PlaceholderDescription)}
		inv.Notes = append(inv.Notes, "no recoverable text")
	}

	inv.RecalcTotals()
	p.logger.Debug("textparse.done",
		"supplier", inv.Supplier.Name,
		"items", len(inv.LineItems),
	)
	return inv
}

// Items applies the line templates and returns the candidate line items.
// Exposed separately so the parser can be swapped without touching the rest
// of the pipeline.
func (p *TextParser) Items(text string) []entity.LineItem {
	var items []entity.LineItem
	for _, line := range splitLines(text) {
		if len(line) < minItemLineLen || containsStopKeyword(line) {
			continue
		}
		if li, ok := p.parseLine(line); ok {
			items = append(items, li)
		}
	}
	return items
}

func (p *TextParser) parseLine(line string) (entity.LineItem, bool) {
	if m := reQtyUnitPrice.FindStringSubmatch(line); m != nil {
		price := parseAmount(m[4])
		if !plausiblePrice(price) {
			return entity.LineItem{}, false
		}
		qty, _ := strconv.ParseFloat(m[2], 64)
		return p.newItem(m[1], qty, m[3], price), true
	}
	if m := rePriceQty.FindStringSubmatch(line); m != nil {
		price := parseAmount(m[2])
		if !plausiblePrice(price) {
			return entity.LineItem{}, false
		}
		qty, _ := strconv.ParseFloat(m[3], 64)
		return p.newItem(m[1], qty, "", price), true
	}
	if m := reDescPrice.FindStringSubmatch(line); m != nil {
		price := parseAmount(m[2])
		if !plausiblePrice(price) {
			return entity.LineItem{}, false
		}
		return p.newItem(m[1], 1, "", price), true
	}
	return entity.LineItem{}, false
}

func (p *TextParser) newItem(desc string, qty float64, unit string, unitCost float64) entity.LineItem {
	desc = strings.TrimSpace(desc)
	code := ""
	if m := reProductCode.FindStringSubmatch(desc); m != nil {
		code = m[1]
		desc = m[2]
	}
	li := entity.LineItem{
		Description: desc,
		ProductCode: code,
		Quantity:    qty,
		Unit:        unit,
		UnitCost:    unitCost,
	}
	li.FillDerived()
	return li
}

// supplierName scans the first few lines and picks the first one that looks
// like a business name: long enough, not starting with a digit, and free of
// header keywords.
func (p *TextParser) supplierName(lines []string) string {
	limit := supplierScanLines
	if len(lines) < limit {
		limit = len(lines)
	}
	for _, line := range lines[:limit] {
		if len(line) <= 5 {
			continue
		}
		if line[0] >= '0' && line[0] <= '9' {
			continue
		}
		if containsStopKeyword(line) {
			continue
		}
		return line
	}
	return "Unknown Supplier"
}

// genericItems is the last resort: scan the whole text for currency-like
// tokens and emit up to three generic items for manual review.
func (p *TextParser) genericItems(text string) []entity.LineItem {
	var items []entity.LineItem
	for _, m := range reCurrencyToken.FindAllStringSubmatch(text, -1) {
		price := parseAmount(m[1])
		if !plausiblePrice(price) {
			continue
		}
		li := PlaceholderItem("Detected item - please review description")
		li.UnitCost = price
		li.FillDerived()
		items = append(items, li)
		if len(items) == maxGenericItems {
			break
		}
	}
	return items
}

func splitLines(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		l = strings.TrimSpace(l)
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

func containsStopKeyword(line string) bool {
	lower := strings.ToLower(line)
	for _, kw := range stopKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func parseAmount(s string) float64 {
	v, _ := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	return v
}

func plausiblePrice(v float64) bool {
	return v > minPlausiblePrice && v < maxPlausiblePrice
}
