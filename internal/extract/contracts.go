package extract

import (
	"context"
	"errors"
	"time"

	"github.com/HJantango/wild-octave-invoice/internal/entity"
)

// Backend is one OCR/AI extraction provider. Every backend exposes both
// capabilities; a mode it cannot serve returns ErrUnsupported so the adapter
// can fall through deterministically.
type Backend interface {
	Name() string
	// ExtractStructured submits the file to the backend's structured invoice
	// model with a locale hint and returns the mapped Invoice.
	// Returns ErrNoDocuments when the model found nothing usable.
	ExtractStructured(ctx context.Context, file entity.UploadedFile, locale string) (*entity.Invoice, error)
	// ExtractText runs plain-text OCR over the file.
	ExtractText(ctx context.Context, file entity.UploadedFile) (TextResult, error)
}

// Sentinel errors shared by backends.
var (
	ErrUnsupported  = errors.New("extraction mode not supported by backend")
	ErrNoDocuments  = errors.New("backend returned no structured documents")
	ErrNoCredential = errors.New("backend credentials not configured")
)

// TextResult is the outcome of a plain-text OCR call.
type TextResult struct {
	Text     string
	Pages    int
	Method   string // "azure-ocr" | "tesseract" | ...
	Duration time.Duration
}

// Document is a provider-neutral field dictionary: the decoded shape of one
// structured invoice document. Lookups never fail; absent fields yield zero
// values so the mapper stays total.
type Document struct {
	Fields map[string]Value
}

// Value is one field of a structured document. Exactly one of the typed
// members is meaningful depending on what the backend returned.
type Value struct {
	Str     string
	Num     float64
	HasNum  bool
	Arr     []Value
	Obj     map[string]Value
	Content string // raw text span, used as display fallback
}

// Field returns the named top-level field, or a zero Value.
func (d Document) Field(name string) Value {
	if v, ok := d.Fields[name]; ok {
		return v
	}
	return Value{}
}

// String returns the string value, falling back to the raw content span.
func (v Value) String() string {
	if v.Str != "" {
		return v.Str
	}
	return v.Content
}

// Number returns the numeric value, defaulting to 0 when absent.
func (v Value) Number() float64 {
	if v.HasNum {
		return v.Num
	}
	return 0
}

// Items returns the array members, defaulting to an empty list.
func (v Value) Items() []Value {
	return v.Arr
}

// Member returns a named member of an object value, or a zero Value.
func (v Value) Member(name string) Value {
	if m, ok := v.Obj[name]; ok {
		return m
	}
	return Value{}
}
