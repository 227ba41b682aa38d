// Package preview renders page thumbnails for the organize tool's page grid.
package preview

import (
	"bytes"
	"fmt"
	"image/jpeg"

	"github.com/gen2brain/go-fitz"
	"github.com/rs/zerolog/log"
)

// RenderPageJPEG renders one page of the PDF at path as a JPEG thumbnail.
// pageNum is 1-based. Returns the JPEG bytes plus pixel dimensions.
func RenderPageJPEG(path string, pageNum, dpi, quality int) ([]byte, int, int, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	if pageNum < 1 || pageNum > doc.NumPage() {
		return nil, 0, 0, fmt.Errorf("page %d out of range (document has %d pages)", pageNum, doc.NumPage())
	}

	// go-fitz uses 0-based indexing
	img, err := doc.ImageDPI(pageNum-1, float64(dpi))
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to render page %d: %w", pageNum, err)
	}

	bounds := img.Bounds()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, 0, 0, fmt.Errorf("failed to encode JPEG: %w", err)
	}

	log.Debug().
		Str("file", path).
		Int("page", pageNum).
		Int("width", bounds.Dx()).
		Int("height", bounds.Dy()).
		Int("jpeg_size", buf.Len()).
		Msg("rendered page thumbnail")

	return buf.Bytes(), bounds.Dx(), bounds.Dy(), nil
}
