package render

import (
	"fmt"
	"log"

	"github.com/docpack/pdfxml/internal/colors"
	"github.com/docpack/pdfxml/internal/document"
	"github.com/docpack/pdfxml/internal/geom"
	"github.com/docpack/pdfxml/internal/typeface"
)

// Reconstructor replays a document onto a canvas. Individual primitives
// that fail to draw are logged and skipped; the remainder of the page and
// document still render.
type Reconstructor struct {
	logger *log.Logger
}

func NewReconstructor(logger *log.Logger) *Reconstructor {
	return &Reconstructor{logger: logger}
}

// Render draws every page of doc onto canvas and returns the saved output.
func (r *Reconstructor) Render(doc *document.Document, canvas Canvas) ([]byte, error) {
	if mw, ok := canvas.(MetadataWriter); ok {
		mw.SetMetadata(doc.Metadata.Title, doc.Metadata.Author, doc.Metadata.Subject, doc.Metadata.Creator)
	}

	for i := range doc.Pages {
		r.renderPage(&doc.Pages[i], canvas)
	}

	out, err := canvas.Save()
	if err != nil {
		return nil, fmt.Errorf("save rendered document: %w", err)
	}
	return out, nil
}

func (r *Reconstructor) renderPage(p *document.Page, canvas Canvas) {
	width, height := p.Width, p.Height
	if width <= 0 || height <= 0 {
		width, height = 595, 842
	}
	canvas.BeginPage(width, height)

	for _, b := range p.TextBlocks {
		r.renderTextBlock(p.Number, &b, height, canvas)
	}
	for _, img := range p.Images {
		r.renderImage(p.Number, &img, height, canvas)
	}
	for _, s := range p.Shapes {
		r.renderShape(p.Number, s, height, canvas)
	}

	canvas.EndPage()
}

// renderTextBlock anchors text at its baseline: the document-space y marks
// the top of the block, so the transform uses the font size as text height.
func (r *Reconstructor) renderTextBlock(pageNo int, b *document.TextBlock, pageHeight float64, canvas Canvas) {
	font := typeface.RenderableFont(b.FontFamily, b.FontWeight, b.FontStyle)
	canvas.SetFont(font, b.FontSize)
	canvas.SetFillColor(colors.Encode(b.Color))

	x, y := geom.ToCanvas(b.X, b.Y, pageHeight, b.FontSize)
	if err := canvas.DrawText(x, y, b.Text); err != nil {
		r.warn(&DrawError{Page: pageNo, Primitive: "text", Err: err})
	}
}

func (r *Reconstructor) renderImage(pageNo int, img *document.Image, pageHeight float64, canvas Canvas) {
	if len(img.Data) == 0 {
		r.warn(&DrawError{Page: pageNo, Primitive: "image", Err: fmt.Errorf("%s: empty payload", img.ID)})
		return
	}
	x, y := geom.RectToCanvas(img.X, img.Y, img.Height, pageHeight)
	if err := canvas.DrawImage(img.Data, x, y, img.Width, img.Height); err != nil {
		r.warn(&DrawError{Page: pageNo, Primitive: "image", Err: err})
	}
}

func (r *Reconstructor) renderShape(pageNo int, s document.Shape, pageHeight float64, canvas Canvas) {
	switch sh := s.(type) {
	case document.Line:
		canvas.SetStrokeColor(colors.Encode(sh.Color))
		x1, y1 := geom.ToCanvas(sh.X1, sh.Y1, pageHeight, 0)
		x2, y2 := geom.ToCanvas(sh.X2, sh.Y2, pageHeight, 0)
		if err := canvas.DrawLine(x1, y1, x2, y2, sh.Width); err != nil {
			r.warn(&DrawError{Page: pageNo, Primitive: "line", Err: err})
		}
	case document.Rectangle:
		rgb := colors.Encode(sh.Color)
		canvas.SetStrokeColor(rgb)
		filled := sh.Fill == document.FillSolid
		if filled {
			canvas.SetFillColor(rgb)
		}
		x, y := geom.RectToCanvas(sh.X, sh.Y, sh.Height, pageHeight)
		if err := canvas.DrawRect(x, y, sh.Width, sh.Height, filled); err != nil {
			r.warn(&DrawError{Page: pageNo, Primitive: "rectangle", Err: err})
		}
	}
}

func (r *Reconstructor) warn(err *DrawError) {
	if r.logger != nil {
		r.logger.Printf("warning: %v", err)
	}
}
