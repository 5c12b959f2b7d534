package tesseract

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
)

// enhanceForOCR sharpens a scanned document image before recognition:
// grayscale for contrast, then contrast, sharpen, brightness and gamma
// adjustments tuned for printed invoices.
func enhanceForOCR(data []byte) ([]byte, error) {
	src, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	img := imaging.Grayscale(src)
	img = imaging.AdjustContrast(img, 30)
	img = imaging.Sharpen(img, 1.5)
	img = imaging.AdjustBrightness(img, 10)
	img = imaging.AdjustGamma(img, 1.2)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), nil
}
