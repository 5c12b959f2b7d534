package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig
	Azure   AzureConfig
	OpenAI  OpenAIConfig
	Local   LocalOCRConfig
	Enhance EnhanceConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr            string
	CORSOrigin      string
	MaxUploadBytes  int64
	ShutdownTimeout time.Duration
}

// AzureConfig holds the Azure Document Intelligence / Computer Vision pair.
// Both modes share one cognitive-services endpoint and key.
type AzureConfig struct {
	Endpoint     string
	APIKey       string
	APIVersion   string
	Locale       string
	PollInterval time.Duration
	PollTimeout  time.Duration
}

// OpenAIConfig holds the AI-assisted parser configuration
type OpenAIConfig struct {
	APIKey      string
	Model       string
	Temperature float32
	Timeout     time.Duration
}

// LocalOCRConfig holds the local Tesseract backend configuration
type LocalOCRConfig struct {
	Language   string
	Preprocess bool
}

// EnhanceConfig holds the optional remote enhancement call configuration.
// An empty endpoint disables the remote call entirely.
type EnhanceConfig struct {
	Endpoint string
	APIKey   string
	Timeout  time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            getEnv("HTTP_ADDR", ":8080"),
			CORSOrigin:      getEnv("CORS_ORIGIN", "*"),
			MaxUploadBytes:  getEnvAsInt64("MAX_UPLOAD_BYTES", 15<<20),
			ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Azure: AzureConfig{
			Endpoint:     getEnv("AZURE_ENDPOINT", ""),
			APIKey:       getEnv("AZURE_API_KEY", ""),
			APIVersion:   getEnv("AZURE_API_VERSION", "2023-07-31"),
			Locale:       getEnv("AZURE_LOCALE", "en-AU"),
			PollInterval: getEnvAsDuration("AZURE_POLL_INTERVAL", 1*time.Second),
			PollTimeout:  getEnvAsDuration("AZURE_POLL_TIMEOUT", 60*time.Second),
		},
		OpenAI: OpenAIConfig{
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			Model:       getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			Temperature: getEnvAsFloat32("OPENAI_TEMPERATURE", 0.0),
			Timeout:     getEnvAsDuration("OPENAI_TIMEOUT", 45*time.Second),
		},
		Local: LocalOCRConfig{
			Language:   getEnv("TESSERACT_LANG", "eng"),
			Preprocess: getEnvAsBool("OCR_PREPROCESS", true),
		},
		Enhance: EnhanceConfig{
			Endpoint: getEnv("ENHANCE_ENDPOINT", ""),
			APIKey:   getEnv("ENHANCE_API_KEY", ""),
			Timeout:  getEnvAsDuration("ENHANCE_TIMEOUT", 30*time.Second),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration. Missing backend credentials
// are not fatal: the pipeline degrades to a placeholder result instead, so
// only the server address is strictly required.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return NewAppError("CONFIG_ERROR", "HTTP_ADDR is required", ErrInvalidInput)
	}
	if c.Azure.Endpoint != "" && c.Azure.APIKey == "" {
		return NewAppError("CONFIG_ERROR", "AZURE_API_KEY is required when AZURE_ENDPOINT is set", ErrInvalidInput)
	}
	return nil
}

// MissingCredentials lists the backend credentials that are absent, for
// startup logging and degraded-mode processing notes.
func (c *Config) MissingCredentials() []string {
	var missing []string
	if c.Azure.Endpoint == "" || c.Azure.APIKey == "" {
		missing = append(missing, "AZURE_ENDPOINT/AZURE_API_KEY")
	}
	if c.OpenAI.APIKey == "" {
		missing = append(missing, "OPENAI_API_KEY")
	}
	return missing
}
