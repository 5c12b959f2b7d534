package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HJantango/wild-octave-invoice/internal/entity"
)

type fakeBackend struct {
	name      string
	invoice   *entity.Invoice
	structErr error
	text      string
	textErr   error
}

func (f *fakeBackend) Name() string { return f.name }

func (f *fakeBackend) ExtractStructured(ctx context.Context, file entity.UploadedFile, locale string) (*entity.Invoice, error) {
	if f.structErr != nil {
		return nil, f.structErr
	}
	return f.invoice, nil
}

func (f *fakeBackend) ExtractText(ctx context.Context, file entity.UploadedFile) (TextResult, error) {
	if f.textErr != nil {
		return TextResult{}, f.textErr
	}
	return TextResult{Text: f.text, Method: "fake"}, nil
}

func testFile() entity.UploadedFile {
	return entity.UploadedFile{Filename: "invoice.pdf", ContentType: "application/pdf", Data: []byte("%PDF")}
}

func TestProcessReturnsStructuredResult(t *testing.T) {
	want := &entity.Invoice{
		Supplier:  entity.Supplier{Name: "ABC Organics Pty Ltd"},
		LineItems: []entity.LineItem{{Description: "Organic Apples", Quantity: 1, UnitCost: 5}},
		Method:    "structured",
	}
	a := NewAdapter("en-AU", nil, nil)
	a.Register(&fakeBackend{name: "azure", invoice: want})

	got := a.Process(context.Background(), "azure", testFile())
	assert.Same(t, want, got)
}

func TestProcessDefaultsToFirstRegisteredProvider(t *testing.T) {
	want := &entity.Invoice{Method: "structured", LineItems: []entity.LineItem{{Description: "x"}}}
	a := NewAdapter("en-AU", nil, nil)
	a.Register(&fakeBackend{name: "azure", invoice: want})
	a.Register(&fakeBackend{name: "tesseract", structErr: ErrUnsupported, textErr: errors.New("nope")})

	got := a.Process(context.Background(), "", testFile())
	assert.Same(t, want, got)
	assert.Equal(t, "azure", a.DefaultProvider())
}

func TestProcessUnknownProviderYieldsPlaceholder(t *testing.T) {
	a := NewAdapter("en-AU", nil, nil)
	a.Register(&fakeBackend{name: "azure"})

	got := a.Process(context.Background(), "openai", testFile())
	require.Len(t, got.LineItems, 1)
	assert.Equal(t, "placeholder", got.Method)
	assert.Equal(t, PlaceholderDescription, got.LineItems[0].Description)
}

func TestProcessFallsBackToTextOCR(t *testing.T) {
	a := NewAdapter("en-AU", nil, nil)
	a.Register(&fakeBackend{
		name:      "azure",
		structErr: ErrNoDocuments,
		text:      "ABC Organics Pty Ltd\nOrganic Apples $5.00",
	})

	got := a.Process(context.Background(), "azure", testFile())
	assert.Equal(t, "text", got.Method)
	assert.Equal(t, "ABC Organics Pty Ltd", got.Supplier.Name)
	require.Len(t, got.LineItems, 1)
	assert.NotEmpty(t, got.Notes)
}

func TestProcessBothModesFailingYieldsPlaceholder(t *testing.T) {
	a := NewAdapter("en-AU", nil, nil)
	a.Register(&fakeBackend{
		name:      "azure",
		structErr: errors.New("analyze exploded"),
		textErr:   errors.New("ocr exploded"),
	})

	got := a.Process(context.Background(), "azure", testFile())
	require.NotNil(t, got)
	require.Len(t, got.LineItems, 1)
	assert.Equal(t, "placeholder", got.Method)
	assert.True(t, got.LineItems[0].NeedsReview)
}

func TestProcessBlankOCRTextYieldsPlaceholder(t *testing.T) {
	a := NewAdapter("en-AU", nil, nil)
	a.Register(&fakeBackend{name: "azure", structErr: ErrUnsupported, text: "   \n  "})

	got := a.Process(context.Background(), "azure", testFile())
	assert.Equal(t, "placeholder", got.Method)
}
