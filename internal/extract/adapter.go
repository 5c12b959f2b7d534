package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/HJantango/wild-octave-invoice/internal/common"
	"github.com/HJantango/wild-octave-invoice/internal/entity"
	"github.com/HJantango/wild-octave-invoice/internal/metrics"
)

// Adapter dispatches an uploaded file to the selected backend and applies
// the fallback chain: structured extraction, then one plain-text OCR retry
// against the same backend, then a placeholder Invoice. It never returns an
// error; the UI must always receive a well-formed shape.
type Adapter struct {
	backends map[string]Backend
	order    []string
	parser   *TextParser
	locale   string
	logger   *slog.Logger
}

func NewAdapter(locale string, parser *TextParser, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}
	if parser == nil {
		parser = NewTextParser(logger)
	}
	return &Adapter{
		backends: make(map[string]Backend),
		parser:   parser,
		locale:   locale,
		logger:   logger,
	}
}

// Register adds a configured backend. Registration order decides the
// default provider when a request does not name one.
func (a *Adapter) Register(b Backend) {
	a.backends[b.Name()] = b
	a.order = append(a.order, b.Name())
}

// Providers lists the registered backend names in registration order.
func (a *Adapter) Providers() []string {
	return a.order
}

// DefaultProvider returns the first registered backend name, or "".
func (a *Adapter) DefaultProvider() string {
	if len(a.order) == 0 {
		return ""
	}
	return a.order[0]
}

// Process runs the extraction chain for one upload. The returned Invoice is
// always non-nil and always has at least one line item.
func (a *Adapter) Process(ctx context.Context, provider string, file entity.UploadedFile) *entity.Invoice {
	start := time.Now()
	reqID := common.RequestIDFromContext(ctx)

	if provider == "" {
		provider = a.DefaultProvider()
	}
	b, ok := a.backends[provider]
	if !ok {
		a.logger.Warn("extract.provider_unavailable", "req_id", reqID, "provider", provider)
		metrics.PlaceholderResponses.Inc()
		return PlaceholderInvoice(fmt.Sprintf("provider %q is not configured (missing credentials)", provider))
	}

	inv, err := b.ExtractStructured(ctx, file, a.locale)
	if err == nil {
		metrics.InvoicesProcessed.WithLabelValues(provider, inv.Method).Inc()
		a.logger.Info("extract.structured.ok",
			"req_id", reqID,
			"provider", provider,
			"items", len(inv.LineItems),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return inv
	}

	// Structured mode failed or is unsupported: retry once against the same
	// backend's plain-text OCR.
	reason := "error"
	switch {
	case errors.Is(err, ErrUnsupported):
		reason = "unsupported"
	case errors.Is(err, ErrNoDocuments):
		reason = "no_documents"
	}
	metrics.ExtractionFallbacks.WithLabelValues(provider, reason).Inc()
	a.logger.Warn("extract.structured.fallback",
		"req_id", reqID,
		"provider", provider,
		"reason", reason,
		"error", err,
	)

	res, terr := b.ExtractText(ctx, file)
	if terr != nil || strings.TrimSpace(res.Text) == "" {
		if terr != nil {
			a.logger.Error("extract.text.failed", "req_id", reqID, "provider", provider, "error", terr)
		}
		metrics.PlaceholderResponses.Inc()
		return PlaceholderInvoice(fmt.Sprintf("extraction failed for provider %q", provider))
	}

	inv = a.parser.ParseInvoice(res.Text)
	inv.Notes = append(inv.Notes, fmt.Sprintf("structured extraction unavailable; parsed %s output", res.Method))
	metrics.InvoicesProcessed.WithLabelValues(provider, inv.Method).Inc()
	a.logger.Info("extract.text.ok",
		"req_id", reqID,
		"provider", provider,
		"method", res.Method,
		"items", len(inv.LineItems),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return inv
}
