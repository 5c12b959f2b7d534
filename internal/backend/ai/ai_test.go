package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HJantango/wild-octave-invoice/internal/entity"
	"github.com/HJantango/wild-octave-invoice/internal/extract"
	"github.com/HJantango/wild-octave-invoice/internal/llm"
)

type fakeText struct {
	text string
	err  error
}

func (f fakeText) ExtractText(ctx context.Context, file entity.UploadedFile) (extract.TextResult, error) {
	return extract.TextResult{Text: f.text, Method: "fake-ocr"}, f.err
}

type fakeFields struct {
	fields llm.InvoiceFields
	err    error
	gotReq llm.ExtractRequest
}

func (f *fakeFields) ExtractInvoice(ctx context.Context, req llm.ExtractRequest) (llm.InvoiceFields, []byte, error) {
	f.gotReq = req
	return f.fields, nil, f.err
}

func upload() entity.UploadedFile {
	return entity.UploadedFile{Filename: "scan.jpg", Data: []byte{0xFF, 0xD8}}
}

func TestExtractStructuredBuildsInvoice(t *testing.T) {
	fe := &fakeFields{fields: llm.InvoiceFields{
		SupplierName: "ABC Organics Pty Ltd",
		LineItems: []llm.LineFields{
			{Description: "Organic Apples", Quantity: 3, UnitPrice: 12.50},
		},
	}}
	b := New(fakeText{text: "some ocr text"}, fe, nil)

	inv, err := b.ExtractStructured(context.Background(), upload(), "en-AU")
	require.NoError(t, err)

	assert.Equal(t, "ai", inv.Method)
	assert.Equal(t, "ABC Organics Pty Ltd", inv.Supplier.Name)
	require.Len(t, inv.LineItems, 1)
	assert.Equal(t, 37.50, inv.LineItems[0].LineTotalExTax)
	assert.Equal(t, 41.25, inv.LineItems[0].LineTotalIncTax)

	assert.Equal(t, "some ocr text", fe.gotReq.OCRText)
	assert.Equal(t, "scan.jpg", fe.gotReq.FilenameHint)
	assert.Equal(t, "en-AU", fe.gotReq.Locale)
}

func TestExtractStructuredEmptyOCRTextIsNoDocuments(t *testing.T) {
	b := New(fakeText{text: "  \n "}, &fakeFields{}, nil)
	_, err := b.ExtractStructured(context.Background(), upload(), "en-AU")
	assert.ErrorIs(t, err, extract.ErrNoDocuments)
}

func TestExtractStructuredZeroItemsIsNoDocuments(t *testing.T) {
	fe := &fakeFields{fields: llm.InvoiceFields{SupplierName: "ABC"}}
	b := New(fakeText{text: "ocr"}, fe, nil)
	_, err := b.ExtractStructured(context.Background(), upload(), "en-AU")
	assert.ErrorIs(t, err, extract.ErrNoDocuments)
}

func TestExtractStructuredPropagatesModelError(t *testing.T) {
	fe := &fakeFields{err: errors.New("rate limited")}
	b := New(fakeText{text: "ocr"}, fe, nil)
	_, err := b.ExtractStructured(context.Background(), upload(), "en-AU")
	require.Error(t, err)
	assert.NotErrorIs(t, err, extract.ErrNoDocuments)
}

func TestExtractTextDelegates(t *testing.T) {
	b := New(fakeText{text: "raw"}, &fakeFields{}, nil)
	res, err := b.ExtractText(context.Background(), upload())
	require.NoError(t, err)
	assert.Equal(t, "raw", res.Text)
	assert.Equal(t, "fake-ocr", res.Method)
}
