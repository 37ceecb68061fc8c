package render

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/docpack/pdfxml/internal/typeface"
)

// RasterCanvas renders pages to PNG images via gg, used for previews.
// Pages render at a configurable scale; Save returns the PNG bytes of the
// most recently finished page, and Pages returns all of them.
//
// The Go font collection stands in for the PDF core fonts: sans variants
// cover Helvetica and Times, mono variants cover Courier.
type RasterCanvas struct {
	scale float64

	ctx        *gg.Context
	pageHeight float64

	strokeColor [3]float64
	fillColor   [3]float64
	lineWidth   float64

	pages [][]byte
	err   error
}

func NewRasterCanvas(scale float64) *RasterCanvas {
	if scale <= 0 {
		scale = 1
	}
	return &RasterCanvas{scale: scale}
}

var (
	fontOnce  sync.Once
	fontTable map[typeface.FontID]*truetype.Font
)

func loadFonts() {
	parse := func(ttf []byte) *truetype.Font {
		f, err := truetype.Parse(ttf)
		if err != nil {
			panic(fmt.Sprintf("embedded font failed to parse: %v", err))
		}
		return f
	}

	regular := parse(goregular.TTF)
	bold := parse(gobold.TTF)
	italic := parse(goitalic.TTF)
	boldItalic := parse(gobolditalic.TTF)
	mono := parse(gomono.TTF)
	monoBold := parse(gomonobold.TTF)
	monoItalic := parse(gomonoitalic.TTF)
	monoBoldItalic := parse(gomonobolditalic.TTF)

	fontTable = map[typeface.FontID]*truetype.Font{}
	for _, family := range []string{"Helvetica", "Times"} {
		fontTable[typeface.FontID{Family: family, Style: ""}] = regular
		fontTable[typeface.FontID{Family: family, Style: "B"}] = bold
		fontTable[typeface.FontID{Family: family, Style: "I"}] = italic
		fontTable[typeface.FontID{Family: family, Style: "BI"}] = boldItalic
	}
	fontTable[typeface.FontID{Family: "Courier", Style: ""}] = mono
	fontTable[typeface.FontID{Family: "Courier", Style: "B"}] = monoBold
	fontTable[typeface.FontID{Family: "Courier", Style: "I"}] = monoItalic
	fontTable[typeface.FontID{Family: "Courier", Style: "BI"}] = monoBoldItalic
}

func (c *RasterCanvas) BeginPage(width, height float64) {
	c.pageHeight = height
	c.ctx = gg.NewContext(int(width*c.scale+0.5), int(height*c.scale+0.5))
	c.ctx.SetRGB(1, 1, 1)
	c.ctx.Clear()
	c.ctx.Scale(c.scale, c.scale)
	c.strokeColor = [3]float64{0, 0, 0}
	c.fillColor = [3]float64{0, 0, 0}
	c.lineWidth = 1
}

func (c *RasterCanvas) SetFont(font typeface.FontID, size float64) {
	fontOnce.Do(loadFonts)
	f, ok := fontTable[font]
	if !ok {
		f = fontTable[typeface.FontID{Family: "Helvetica", Style: ""}]
	}
	c.ctx.SetFontFace(truetype.NewFace(f, &truetype.Options{Size: size * c.scale}))
}

func (c *RasterCanvas) SetFillColor(rgb [3]float64) {
	c.fillColor = rgb
}

func (c *RasterCanvas) SetStrokeColor(rgb [3]float64) {
	c.strokeColor = rgb
}

func (c *RasterCanvas) DrawText(x, y float64, text string) error {
	c.ctx.SetRGB(c.fillColor[0], c.fillColor[1], c.fillColor[2])
	c.ctx.DrawString(text, x, c.flip(y))
	return nil
}

func (c *RasterCanvas) DrawImage(data []byte, x, y, w, h float64) error {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return fmt.Errorf("empty image")
	}

	c.ctx.Push()
	top := c.flip(y) - h
	c.ctx.Translate(x, top)
	c.ctx.Scale(w/float64(bounds.Dx()), h/float64(bounds.Dy()))
	c.ctx.DrawImage(img, 0, 0)
	c.ctx.Pop()
	return nil
}

func (c *RasterCanvas) DrawLine(x1, y1, x2, y2, width float64) error {
	c.ctx.SetRGB(c.strokeColor[0], c.strokeColor[1], c.strokeColor[2])
	c.ctx.SetLineWidth(width)
	c.ctx.DrawLine(x1, c.flip(y1), x2, c.flip(y2))
	c.ctx.Stroke()
	return nil
}

func (c *RasterCanvas) DrawRect(x, y, w, h float64, filled bool) error {
	c.ctx.DrawRectangle(x, c.flip(y)-h, w, h)
	if filled {
		c.ctx.SetRGB(c.fillColor[0], c.fillColor[1], c.fillColor[2])
		c.ctx.Fill()
		return nil
	}
	c.ctx.SetRGB(c.strokeColor[0], c.strokeColor[1], c.strokeColor[2])
	c.ctx.SetLineWidth(1)
	c.ctx.Stroke()
	return nil
}

func (c *RasterCanvas) EndPage() {
	var buf bytes.Buffer
	if err := c.ctx.EncodePNG(&buf); err != nil {
		if c.err == nil {
			c.err = err
		}
		return
	}
	c.pages = append(c.pages, buf.Bytes())
}

// Save returns the PNG of the last rendered page.
func (c *RasterCanvas) Save() ([]byte, error) {
	if c.err != nil {
		return nil, c.err
	}
	if len(c.pages) == 0 {
		return nil, fmt.Errorf("no pages rendered")
	}
	return c.pages[len(c.pages)-1], nil
}

// Pages returns one PNG per rendered page, in page order.
func (c *RasterCanvas) Pages() [][]byte {
	return c.pages
}

func (c *RasterCanvas) flip(y float64) float64 {
	return c.pageHeight - y
}
