// Package render replays structured documents onto drawing backends.
//
// The Canvas boundary uses canvas space: origin at the bottom-left of the
// page, y growing upward, text anchored at its baseline. Backends that draw
// top-down flip internally.
package render

import (
	"fmt"

	"github.com/docpack/pdfxml/internal/typeface"
)

// Canvas is the drawing surface a reconstructed page is replayed onto.
// Set* calls apply to subsequent draw calls on the current page.
type Canvas interface {
	BeginPage(width, height float64)
	SetFont(font typeface.FontID, size float64)
	SetFillColor(rgb [3]float64)
	SetStrokeColor(rgb [3]float64)
	DrawText(x, y float64, text string) error
	DrawImage(data []byte, x, y, w, h float64) error
	DrawLine(x1, y1, x2, y2, width float64) error
	DrawRect(x, y, w, h float64, filled bool) error
	EndPage()
	Save() ([]byte, error)
}

// MetadataWriter is implemented by canvases that can carry document
// metadata in their output format.
type MetadataWriter interface {
	SetMetadata(title, author, subject, creator string)
}

// DrawError reports a single primitive that could not be drawn. The
// reconstructor logs it and continues with the rest of the page.
type DrawError struct {
	Page      int
	Primitive string
	Err       error
}

func (e *DrawError) Error() string {
	return fmt.Sprintf("page %d: draw %s: %v", e.Page, e.Primitive, e.Err)
}

func (e *DrawError) Unwrap() error {
	return e.Err
}
