package render

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/docpack/pdfxml/internal/typeface"
)

// PDFCanvas renders onto a PDF document via gofpdf. gofpdf draws with a
// top-left origin and y growing downward, so every y coordinate crossing
// the Canvas boundary is flipped against the current page height.
type PDFCanvas struct {
	doc        *gofpdf.Fpdf
	pageHeight float64
	imageSeq   int
}

func NewPDFCanvas() *PDFCanvas {
	doc := gofpdf.New("P", "pt", "A4", "")
	doc.SetAutoPageBreak(false, 0)
	return &PDFCanvas{doc: doc}
}

func (c *PDFCanvas) SetMetadata(title, author, subject, creator string) {
	if title != "" {
		c.doc.SetTitle(title, true)
	}
	if author != "" {
		c.doc.SetAuthor(author, true)
	}
	if subject != "" {
		c.doc.SetSubject(subject, true)
	}
	if creator != "" {
		c.doc.SetCreator(creator, true)
	}
}

// BeginPage always passes "P": gofpdf takes the size verbatim for portrait
// but swaps Wd/Ht itself for "L", which would undo dimensions that are
// already landscape.
func (c *PDFCanvas) BeginPage(width, height float64) {
	c.pageHeight = height
	c.doc.AddPageFormat("P", gofpdf.SizeType{Wd: width, Ht: height})
}

func (c *PDFCanvas) SetFont(font typeface.FontID, size float64) {
	c.doc.SetFont(font.Family, font.Style, size)
}

func (c *PDFCanvas) SetFillColor(rgb [3]float64) {
	r, g, b := to255(rgb)
	c.doc.SetTextColor(r, g, b)
	c.doc.SetFillColor(r, g, b)
}

func (c *PDFCanvas) SetStrokeColor(rgb [3]float64) {
	r, g, b := to255(rgb)
	c.doc.SetDrawColor(r, g, b)
}

func (c *PDFCanvas) DrawText(x, y float64, text string) error {
	c.doc.Text(x, c.flip(y), text)
	return c.doc.Error()
}

func (c *PDFCanvas) DrawImage(data []byte, x, y, w, h float64) error {
	format := sniffImageFormat(data)
	if format == "" {
		return fmt.Errorf("unsupported image payload")
	}

	c.imageSeq++
	name := fmt.Sprintf("img-%d", c.imageSeq)
	opts := gofpdf.ImageOptions{ImageType: format}
	c.doc.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	if err := c.doc.Error(); err != nil {
		return err
	}

	// (x, y) is the bottom-left corner in canvas space; gofpdf wants the
	// top-left corner.
	c.doc.ImageOptions(name, x, c.flip(y)-h, w, h, false, opts, 0, "")
	return c.doc.Error()
}

func (c *PDFCanvas) DrawLine(x1, y1, x2, y2, width float64) error {
	c.doc.SetLineWidth(width)
	c.doc.Line(x1, c.flip(y1), x2, c.flip(y2))
	return c.doc.Error()
}

func (c *PDFCanvas) DrawRect(x, y, w, h float64, filled bool) error {
	style := "D"
	if filled {
		style = "F"
	}
	c.doc.Rect(x, c.flip(y)-h, w, h, style)
	return c.doc.Error()
}

func (c *PDFCanvas) EndPage() {}

func (c *PDFCanvas) Save() ([]byte, error) {
	var buf bytes.Buffer
	if err := c.doc.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c *PDFCanvas) flip(y float64) float64 {
	return c.pageHeight - y
}

func to255(rgb [3]float64) (int, int, int) {
	clamp := func(v float64) int {
		n := int(v*255 + 0.5)
		if n < 0 {
			return 0
		}
		if n > 255 {
			return 255
		}
		return n
	}
	return clamp(rgb[0]), clamp(rgb[1]), clamp(rgb[2])
}

// sniffImageFormat identifies the payload formats gofpdf can embed.
func sniffImageFormat(data []byte) string {
	switch {
	case len(data) > 3 && data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF:
		return "JPG"
	case len(data) > 8 && bytes.Equal(data[:8], []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n'}):
		return "PNG"
	case len(data) > 6 && (bytes.Equal(data[:6], []byte("GIF87a")) || bytes.Equal(data[:6], []byte("GIF89a"))):
		return "GIF"
	default:
		return ""
	}
}
