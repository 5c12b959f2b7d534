package enhance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/HJantango/wild-octave-invoice/internal/common"
	"github.com/HJantango/wild-octave-invoice/internal/entity"
	"github.com/HJantango/wild-octave-invoice/internal/llm"
)

// RemoteEnhancer is the optional external AI call that attempts to improve
// categorization and markup beyond the local rule table.
type RemoteEnhancer interface {
	EnhanceItems(ctx context.Context, items []entity.LineItem) ([]entity.LineItem, error)
}

// Wire shapes for the enhancement service.
type enhanceRequestItem struct {
	Description string  `json:"description"`
	ProductCode string  `json:"product_code,omitempty"`
	UnitCost    float64 `json:"unit_cost"`
}

type enhanceResponse struct {
	Items []enhanceResponseItem `json:"items"`
}

type enhanceResponseItem struct {
	Category string  `json:"category"`
	Markup   float64 `json:"markup"`
}

// enhanceResponseSchema constrains what the service may return; anything
// else is treated as a failure and falls through to the local rules.
func enhanceResponseSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []string{"items"},
		"properties": map[string]any{
			"items": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"required":             []string{"category", "markup"},
					"properties": map[string]any{
						"category": map[string]any{"type": "string", "minLength": 1},
						"markup":   map[string]any{"type": "number", "minimum": 0, "maximum": 2},
					},
				},
			},
		},
	}
}

// HTTPEnhancer posts line items to a configured enhancement endpoint and
// applies the returned categories/markups. Strictly best-effort.
type HTTPEnhancer struct {
	endpoint string
	apiKey   string
	client   *http.Client
	rules    *RuleEngine
	logger   *slog.Logger
}

func NewHTTPEnhancer(cfg common.EnhanceConfig, rules *RuleEngine, logger *slog.Logger) *HTTPEnhancer {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPEnhancer{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		client:   &http.Client{Timeout: cfg.Timeout},
		rules:    rules,
		logger:   logger,
	}
}

func (h *HTTPEnhancer) EnhanceItems(ctx context.Context, items []entity.LineItem) ([]entity.LineItem, error) {
	reqID := uuid.New().String()
	start := time.Now()

	payload := struct {
		Items []enhanceRequestItem `json:"items"`
	}{Items: make([]enhanceRequestItem, len(items))}
	for i, li := range items {
		payload.Items[i] = enhanceRequestItem{
			Description: li.Description,
			ProductCode: li.ProductCode,
			UnitCost:    li.UnitCost,
		}
	}

	bs, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint, bytes.NewReader(bs))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if h.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+h.apiKey)
	}

	h.logger.Info("enhance.http.request",
		"req_id", reqID,
		"items", len(items),
		"content_length", len(bs),
	)

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			h.logger.Warn("enhance.http.body_close_error", "req_id", reqID, "error", cerr)
		}
	}()

	raw, _ := io.ReadAll(resp.Body)
	h.logger.Info("enhance.http.response",
		"req_id", reqID,
		"status", resp.StatusCode,
		"bytes", len(raw),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("non-2xx status: %d", resp.StatusCode)
	}

	if err := llm.ValidateJSONAgainstSchema(enhanceResponseSchema(), raw); err != nil {
		return nil, fmt.Errorf("malformed enhancement response: %w", err)
	}
	var decoded enhanceResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("decode enhancement response: %w", err)
	}
	if len(decoded.Items) != len(items) {
		return nil, fmt.Errorf("enhancement item count mismatch: sent %d, got %d", len(items), len(decoded.Items))
	}

	return h.merge(items, decoded.Items), nil
}

// merge applies remote categories/markups on top of the local rule pass, so
// review flags and pricing arithmetic stay consistent regardless of where
// the category came from.
func (h *HTTPEnhancer) merge(items []entity.LineItem, remote []enhanceResponseItem) []entity.LineItem {
	out := h.rules.Apply(items)
	for i := range out {
		cat, ok := canonicalCategory(remote[i].Category)
		if !ok {
			continue
		}
		out[i].Category = cat
		if remote[i].Markup > 0 {
			out[i].Markup = remote[i].Markup
		}
		out[i].RetailPrice = RetailPrice(out[i].UnitCost, out[i].Markup)
	}
	return out
}
