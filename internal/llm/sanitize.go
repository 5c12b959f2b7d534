package llm

import (
	"encoding/json"
	"fmt"
	"maps"
	"strconv"
	"strings"
)

// SanitizeFields normalizes a model response that almost matches the schema
// so the document can still validate:
//   - strips markdown code fences around the JSON
//   - drops null/empty optionals and unknown keys
//   - coerces numeric strings to numbers for amount fields
//
// Only optionals are touched; a missing supplier_name or line_items still
// fails validation afterwards.
func SanitizeFields(raw []byte) ([]byte, []string, error) {
	raw = stripCodeFences(raw)

	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, nil, fmt.Errorf("sanitize: decode: %w", err)
	}

	var dropped []string

	// top-level strings: trim, drop empties
	for _, k := range []string{"supplier_abn", "invoice_number", "invoice_date"} {
		if v, ok := m[k]; ok {
			s, isStr := v.(string)
			if !isStr || strings.TrimSpace(s) == "" {
				delete(m, k)
				dropped = append(dropped, k)
				continue
			}
			m[k] = strings.TrimSpace(s)
		}
	}

	// line items: coerce numerics, drop unknown keys
	if items, ok := m["line_items"].([]any); ok {
		numeric := []string{"quantity", "unit_price", "line_total"}
		allowed := map[string]struct{}{
			"description": {}, "product_code": {}, "quantity": {},
			"unit": {}, "unit_price": {}, "line_total": {},
		}
		for i, it := range items {
			obj, ok := it.(map[string]any)
			if !ok {
				continue
			}
			for _, k := range numeric {
				if v, ok := obj[k]; ok {
					switch t := v.(type) {
					case string:
						if f, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
							obj[k] = f
						} else {
							delete(obj, k)
							dropped = append(dropped, fmt.Sprintf("line_items[%d].%s", i, k))
						}
					case nil:
						delete(obj, k)
						dropped = append(dropped, fmt.Sprintf("line_items[%d].%s", i, k))
					}
				}
			}
			for k := range maps.Clone(obj) {
				if _, ok := allowed[k]; !ok {
					delete(obj, k)
					dropped = append(dropped, fmt.Sprintf("line_items[%d].%s(unknown)", i, k))
				}
			}
		}
	}

	// unknown top-level keys
	allowedTop := map[string]struct{}{
		"supplier_name": {}, "supplier_abn": {}, "invoice_number": {},
		"invoice_date": {}, "line_items": {}, "confidence": {},
	}
	for k := range maps.Clone(m) {
		if _, ok := allowedTop[k]; !ok {
			delete(m, k)
			dropped = append(dropped, k+"(unknown)")
		}
	}

	out, err := json.Marshal(m)
	if err != nil {
		return nil, dropped, fmt.Errorf("sanitize: encode: %w", err)
	}
	return out, dropped, nil
}

func stripCodeFences(raw []byte) []byte {
	s := strings.TrimSpace(string(raw))
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return []byte(strings.TrimSpace(s))
}
