//go:build !ocr

package tesseract

import "errors"

// ErrOCRNotEnabled is returned when the binary was built without the "ocr"
// tag. Rebuild with -tags ocr (requires the Tesseract C library).
var ErrOCRNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

func recognize(imageData []byte, lang string) (string, error) {
	return "", ErrOCRNotEnabled
}
