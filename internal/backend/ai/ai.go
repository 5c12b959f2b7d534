// Package ai implements the AI-assisted extraction backend: plain-text OCR
// from a delegate backend, then a model pass that turns the text into
// structured invoice fields.
package ai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/HJantango/wild-octave-invoice/constants"
	"github.com/HJantango/wild-octave-invoice/internal/entity"
	"github.com/HJantango/wild-octave-invoice/internal/extract"
	"github.com/HJantango/wild-octave-invoice/internal/llm"
)

// TextSource produces the OCR text the model parses. Any extraction
// backend satisfies it.
type TextSource interface {
	ExtractText(ctx context.Context, file entity.UploadedFile) (extract.TextResult, error)
}

type Backend struct {
	text   TextSource
	fields llm.FieldExtractor
	logger *slog.Logger
}

func New(text TextSource, fields llm.FieldExtractor, logger *slog.Logger) *Backend {
	if logger == nil {
		logger = slog.Default()
	}
	return &Backend{text: text, fields: fields, logger: logger}
}

func (b *Backend) Name() string {
	return string(constants.ProviderOpenAI)
}

// ExtractStructured runs OCR then the model pass. Zero recovered line items
// count as no documents so the adapter can fall through to pattern parsing.
func (b *Backend) ExtractStructured(ctx context.Context, file entity.UploadedFile, locale string) (*entity.Invoice, error) {
	res, err := b.text.ExtractText(ctx, file)
	if err != nil {
		return nil, fmt.Errorf("ocr for ai parse: %w", err)
	}
	if strings.TrimSpace(res.Text) == "" {
		return nil, extract.ErrNoDocuments
	}

	fields, _, err := b.fields.ExtractInvoice(ctx, llm.ExtractRequest{
		OCRText:      res.Text,
		FilenameHint: file.Filename,
		Locale:       locale,
	})
	if err != nil {
		return nil, fmt.Errorf("ai parse: %w", err)
	}
	if len(fields.LineItems) == 0 {
		return nil, extract.ErrNoDocuments
	}

	return fieldsToInvoice(fields), nil
}

// ExtractText delegates to the OCR source so the adapter's fallback chain
// still works when the model pass fails.
func (b *Backend) ExtractText(ctx context.Context, file entity.UploadedFile) (extract.TextResult, error) {
	return b.text.ExtractText(ctx, file)
}

func fieldsToInvoice(fields llm.InvoiceFields) *entity.Invoice {
	inv := &entity.Invoice{
		Supplier: entity.Supplier{
			Name:  fields.SupplierName,
			TaxID: fields.SupplierABN,
		},
		Meta: entity.InvoiceMeta{
			Number: fields.InvoiceNumber,
			Date:   fields.InvoiceDate,
		},
		Method: "ai",
	}
	if inv.Supplier.Name == "" {
		inv.Supplier.Name = "Unknown Supplier"
	}

	for _, lf := range fields.LineItems {
		li := entity.LineItem{
			Description:    lf.Description,
			ProductCode:    lf.ProductCode,
			Quantity:       lf.Quantity,
			Unit:           lf.Unit,
			UnitCost:       lf.UnitPrice,
			LineTotalExTax: lf.LineTotal,
		}
		li.FillDerived()
		inv.LineItems = append(inv.LineItems, li)
	}

	inv.RecalcTotals()
	return inv
}
