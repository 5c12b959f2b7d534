package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/openai/openai-go/v3/responses"
	"github.com/openai/openai-go/v3/shared"

	"github.com/HJantango/wild-octave-invoice/internal/llm"
)

// ExtractInvoice implements llm.FieldExtractor over OCR text. The response
// is validated against the invoice schema; a near-miss gets one sanitize
// pass before being rejected.
func (c *Client) ExtractInvoice(ctx context.Context, req llm.ExtractRequest) (llm.InvoiceFields, []byte, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.log.Info("llm.extract.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"text_len", len(req.OCRText),
		"filename", req.FilenameHint,
	)

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	schema := llm.BuildInvoiceJSONSchema()
	sys := buildSystemPrompt(req.Locale) + "\n\nJSON Schema:\n" + mustJSON(schema)
	user := buildUserPrompt(req.OCRText, req.FilenameHint)

	resp, err := c.client.Responses.New(ctx, responses.ResponseNewParams{
		Model: shared.ResponsesModel(c.cfg.Model),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: responses.ResponseInputParam{
				responses.ResponseInputItemParamOfMessage(sys, responses.EasyInputMessageRoleSystem),
				responses.ResponseInputItemParamOfMessage(user, responses.EasyInputMessageRoleUser),
			},
		},
	})
	if err != nil {
		c.log.Error("llm.extract.http_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.InvoiceFields{}, nil, fmt.Errorf("call openai: %w", err)
	}

	content := strings.TrimSpace(resp.OutputText())
	if content == "" {
		return llm.InvoiceFields{}, nil, fmt.Errorf("model returned an empty response")
	}
	rawContent := []byte(content)

	// Validate strictly first; sanitize once on failure.
	if err := llm.ValidateJSONAgainstSchema(schema, rawContent); err != nil {
		cleaned, dropped, sErr := llm.SanitizeFields(rawContent)
		if sErr != nil {
			c.log.Error("llm.extract.sanitize_failed",
				"req_id", rid, "error", sErr,
				"elapsed_ms", time.Since(start).Milliseconds(),
			)
			return llm.InvoiceFields{}, rawContent, fmt.Errorf("sanitize failed: %w", sErr)
		}
		if vErr := llm.ValidateJSONAgainstSchema(schema, cleaned); vErr != nil {
			c.log.Error("llm.extract.schema_validation_failed",
				"req_id", rid, "error", vErr, "content", string(rawContent),
				"elapsed_ms", time.Since(start).Milliseconds(),
			)
			return llm.InvoiceFields{}, rawContent, fmt.Errorf("schema validation failed: %w", vErr)
		}
		c.log.Warn("llm.extract.sanitize_applied",
			"req_id", rid, "dropped", dropped,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		rawContent = cleaned
	}

	var out llm.InvoiceFields
	if err := json.Unmarshal(rawContent, &out); err != nil {
		c.log.Error("llm.extract.unmarshal_failed",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.InvoiceFields{}, rawContent, fmt.Errorf("unmarshal fields: %w", err)
	}

	c.log.Info("llm.extract.ok",
		"req_id", rid,
		"supplier", out.SupplierName,
		"items", len(out.LineItems),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, rawContent, nil
}

func buildSystemPrompt(locale string) string {
	parts := []string{
		"You are an invoice parser for a health food retailer. Return ONLY JSON that matches the JSON Schema provided.",
		"All amounts are ex-GST decimals. Use ISO-8601 dates (YYYY-MM-DD).",
		"Extract every line item you can see: description, product code, quantity, unit, unit price and line total.",
		"Never output null. If a field is not present, omit it.",
	}
	if locale != "" {
		parts = append(parts, "The invoice locale is "+locale+".")
	}
	return strings.Join(parts, " ")
}

func buildUserPrompt(ocr, filename string) string {
	var b strings.Builder
	b.WriteString("Filename: ")
	b.WriteString(filename)
	b.WriteString("\n\nOCR text (first ~6k chars):\n")
	if len(ocr) > 6000 {
		b.WriteString(ocr[:6000])
	} else {
		b.WriteString(ocr)
	}
	return b.String()
}

func mustJSON(v any) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}
