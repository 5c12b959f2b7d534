package constants

// Provider identifies an OCR/AI extraction backend.
type Provider string

// Stable values (these exact strings arrive in the multipart "provider" field).
const (
	ProviderAzure     Provider = "azure"     // structured invoice model + printed-text OCR
	ProviderOpenAI    Provider = "openai"    // AI-assisted parse over OCR text
	ProviderTesseract Provider = "tesseract" // local printed-text OCR only
)

// DefaultLocale is the hint passed to structured invoice backends.
const DefaultLocale = "en-AU"
