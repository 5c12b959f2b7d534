// Package tesseract implements the local OCR backend. It has no structured
// invoice mode; the adapter always takes the text-parse path for it.
//
// The Tesseract engine is linked in only when building with the "ocr" tag:
//
//	go build -tags ocr
//
// Without the tag a stub engine reports OCR as unavailable, which the
// pipeline degrades through like any other backend failure.
package tesseract

import (
	"context"
	"log/slog"
	"time"

	"github.com/HJantango/wild-octave-invoice/constants"
	"github.com/HJantango/wild-octave-invoice/internal/common"
	"github.com/HJantango/wild-octave-invoice/internal/entity"
	"github.com/HJantango/wild-octave-invoice/internal/extract"
)

type Backend struct {
	cfg    common.LocalOCRConfig
	logger *slog.Logger
}

func New(cfg common.LocalOCRConfig, logger *slog.Logger) *Backend {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Language == "" {
		cfg.Language = "eng"
	}
	return &Backend{cfg: cfg, logger: logger}
}

func (b *Backend) Name() string {
	return string(constants.ProviderTesseract)
}

// ExtractStructured always reports unsupported; Tesseract only produces text.
func (b *Backend) ExtractStructured(ctx context.Context, file entity.UploadedFile, locale string) (*entity.Invoice, error) {
	return nil, extract.ErrUnsupported
}

func (b *Backend) ExtractText(ctx context.Context, file entity.UploadedFile) (extract.TextResult, error) {
	start := time.Now()

	data := file.Data
	if b.cfg.Preprocess {
		if enhanced, err := enhanceForOCR(data); err == nil {
			data = enhanced
		} else {
			b.logger.Warn("tesseract.preprocess_failed", "error", err)
		}
	}

	text, err := recognize(data, b.cfg.Language)
	if err != nil {
		return extract.TextResult{}, err
	}

	b.logger.Info("tesseract.ocr.ok",
		"req_id", common.RequestIDFromContext(ctx),
		"bytes", len(text),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return extract.TextResult{
		Text:     text,
		Pages:    1,
		Method:   "tesseract",
		Duration: time.Since(start),
	}, nil
}
