// Package azure implements the Azure extraction backend. Structured mode
// submits the document to the Document Intelligence prebuilt invoice model
// and polls the analyze operation; plain-text mode calls the Computer
// Vision printed-text OCR on the same cognitive-services resource.
package azure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/services/cognitiveservices/v3.0/computervision"
	"github.com/Azure/go-autorest/autorest"

	"github.com/HJantango/wild-octave-invoice/constants"
	"github.com/HJantango/wild-octave-invoice/internal/common"
	"github.com/HJantango/wild-octave-invoice/internal/entity"
	"github.com/HJantango/wild-octave-invoice/internal/extract"
)

const invoiceModelPath = "/formrecognizer/documentModels/prebuilt-invoice:analyze"

// Backend talks to one Azure cognitive-services resource.
type Backend struct {
	cfg    common.AzureConfig
	http   *http.Client
	vision *computervision.BaseClient
	logger *slog.Logger
}

func New(cfg common.AzureConfig, logger *slog.Logger) (*Backend, error) {
	if cfg.Endpoint == "" || cfg.APIKey == "" {
		return nil, extract.ErrNoCredential
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Second
	}
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = 60 * time.Second
	}

	client := computervision.New(cfg.Endpoint)
	client.Authorizer = autorest.NewCognitiveServicesAuthorizer(cfg.APIKey)

	return &Backend{
		cfg:    cfg,
		http:   &http.Client{Timeout: 30 * time.Second},
		vision: &client,
		logger: logger,
	}, nil
}

func (b *Backend) Name() string {
	return string(constants.ProviderAzure)
}

// ExtractStructured submits the bytes to the prebuilt invoice model and
// polls until the analyze operation completes.
func (b *Backend) ExtractStructured(ctx context.Context, file entity.UploadedFile, locale string) (*entity.Invoice, error) {
	start := time.Now()
	if locale == "" {
		locale = b.cfg.Locale
	}

	opURL, err := b.submitAnalyze(ctx, file, locale)
	if err != nil {
		return nil, fmt.Errorf("submit analyze: %w", err)
	}

	result, err := b.pollAnalyze(ctx, opURL)
	if err != nil {
		return nil, err
	}
	if len(result.AnalyzeResult.Documents) == 0 {
		return nil, extract.ErrNoDocuments
	}

	doc := result.AnalyzeResult.Documents[0].toDocument()
	inv := extract.MapDocument(doc)
	b.logger.Info("azure.invoice.ok",
		"req_id", common.RequestIDFromContext(ctx),
		"items", len(inv.LineItems),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return inv, nil
}

// ExtractText runs the Computer Vision printed-text OCR and joins the
// recognized regions into a line-per-row text blob.
func (b *Backend) ExtractText(ctx context.Context, file entity.UploadedFile) (extract.TextResult, error) {
	start := time.Now()

	imageReader := io.NopCloser(bytes.NewReader(file.Data))
	result, err := b.vision.RecognizePrintedTextInStream(
		ctx,
		true,
		imageReader,
		computervision.OcrLanguages(computervision.En),
	)
	if err != nil {
		return extract.TextResult{}, fmt.Errorf("recognize printed text: %w", err)
	}

	text := joinOCRResult(result)
	b.logger.Info("azure.ocr.ok",
		"req_id", common.RequestIDFromContext(ctx),
		"bytes", len(text),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return extract.TextResult{
		Text:     text,
		Pages:    1,
		Method:   "azure-ocr",
		Duration: time.Since(start),
	}, nil
}

func (b *Backend) submitAnalyze(ctx context.Context, file entity.UploadedFile, locale string) (string, error) {
	url := fmt.Sprintf("%s%s?api-version=%s&locale=%s",
		strings.TrimRight(b.cfg.Endpoint, "/"), invoiceModelPath, b.cfg.APIVersion, locale)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(file.Data))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Ocp-Apim-Subscription-Key", b.cfg.APIKey)

	resp, err := b.http.Do(req)
	if err != nil {
		return "", err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			b.logger.Warn("azure.analyze.body_close_error", "error", cerr)
		}
	}()

	if resp.StatusCode != http.StatusAccepted {
		raw, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("analyze submit status %d: %s", resp.StatusCode, string(raw))
	}
	opURL := resp.Header.Get("Operation-Location")
	if opURL == "" {
		return "", fmt.Errorf("analyze submit: missing Operation-Location header")
	}
	return opURL, nil
}

func (b *Backend) pollAnalyze(ctx context.Context, opURL string) (*analyzeResponse, error) {
	deadline := time.Now().Add(b.cfg.PollTimeout)
	ticker := time.NewTicker(b.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("analyze operation timed out after %s", b.cfg.PollTimeout)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, opURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build poll request: %w", err)
		}
		req.Header.Set("Ocp-Apim-Subscription-Key", b.cfg.APIKey)

		resp, err := b.http.Do(req)
		if err != nil {
			return nil, err
		}
		raw, err := io.ReadAll(resp.Body)
		if cerr := resp.Body.Close(); cerr != nil {
			b.logger.Warn("azure.poll.body_close_error", "error", cerr)
		}
		if err != nil {
			return nil, fmt.Errorf("read poll response: %w", err)
		}
		if resp.StatusCode/100 != 2 {
			return nil, fmt.Errorf("analyze poll status %d: %s", resp.StatusCode, string(raw))
		}

		var ar analyzeResponse
		if err := json.Unmarshal(raw, &ar); err != nil {
			return nil, fmt.Errorf("decode poll response: %w", err)
		}
		switch ar.Status {
		case "succeeded":
			return &ar, nil
		case "failed":
			return nil, fmt.Errorf("analyze operation failed: %s", ar.Error.Message)
		}
		// notStarted / running: keep polling
	}
}

func joinOCRResult(result computervision.OcrResult) string {
	var sb strings.Builder
	if result.Regions == nil {
		return ""
	}
	for _, region := range *result.Regions {
		if region.Lines == nil {
			continue
		}
		for _, line := range *region.Lines {
			if line.Words == nil {
				continue
			}
			var lineText strings.Builder
			for _, word := range *line.Words {
				if word.Text == nil {
					continue
				}
				if lineText.Len() > 0 {
					lineText.WriteString(" ")
				}
				lineText.WriteString(*word.Text)
			}
			sb.WriteString(lineText.String())
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
