package openai

import (
	"log/slog"
	"time"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/HJantango/wild-octave-invoice/internal/extract"
)

type Config struct {
	APIKey      string
	Model       string
	Temperature float32
	Timeout     time.Duration
}

// Client implements llm.FieldExtractor against the OpenAI Responses API.
type Client struct {
	client *openai.Client
	cfg    Config
	log    *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, extract.ErrNoCredential
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 45 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	client := openai.NewClient(option.WithAPIKey(cfg.APIKey))
	return &Client{client: &client, cfg: cfg, log: logger}, nil
}
