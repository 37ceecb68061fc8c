// Package extract reads PDF files into the structured document model.
//
// Text, images and geometry come from ledongthuc/pdf; pdfcpu validates the
// input and supplies authoritative page dimensions. Page extraction is
// best effort: a page that cannot be parsed degrades to an empty page and
// is reported as a warning rather than failing the whole document.
package extract

import (
	"fmt"

	"github.com/docpack/pdfxml/internal/cluster"
	"github.com/docpack/pdfxml/internal/document"
)

const (
	// Fallback page geometry when neither pdfcpu nor the page dictionary
	// yields a usable MediaBox (US Letter in points).
	fallbackPageWidth  = 612.0
	fallbackPageHeight = 792.0

	extractionMethod = "positioned-text"
)

// PageContent is the raw harvest of a single page before clustering.
// Coordinates are in document space, origin top-left, y growing downward.
type PageContent struct {
	Width  float64
	Height float64
	Spans  []cluster.GlyphSpan
	Images []document.Image
	Shapes []document.Shape
}

// PageExtractor yields per-page content for 1-based page numbers.
type PageExtractor interface {
	PageCount() int
	Metadata() document.Metadata
	ExtractPage(pageNo int) (PageContent, error)
}

// PageError reports a page whose extraction failed. The converter records
// it as a warning and emits an empty page in its place.
type PageError struct {
	Page int
	Err  error
}

func (e *PageError) Error() string {
	return fmt.Sprintf("page %d: %v", e.Page, e.Err)
}

func (e *PageError) Unwrap() error {
	return e.Err
}
