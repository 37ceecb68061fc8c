// Package document defines the structured representation of a paginated
// document and its canonical XML serialization.
package document

import "github.com/docpack/pdfxml/internal/typeface"

// Direction is the text direction of a block. Only left-to-right text is
// supported.
const DirectionLTR = "ltr"

// Fill describes how a rectangle shape is painted.
type Fill string

const (
	FillNone  Fill = "none"
	FillSolid Fill = "solid"
)

// Document is the root entity of one conversion pass: metadata plus pages in
// source order. It is assembled once and never mutated afterwards.
type Document struct {
	Metadata Metadata
	Pages    []Page
}

// Metadata is the flat document information record. All fields are optional
// strings except PageCount, which matches len(Pages) at serialization time.
type Metadata struct {
	Title            string
	Author           string
	Subject          string
	Creator          string
	Producer         string
	CreationDate     string
	ModificationDate string
	PageCount        int
}

// Page holds one page's content in reading order (top-to-bottom, then
// left-to-right). Ordering of the three slices is preserved through
// serialization.
type Page struct {
	Number           int
	Width            float64
	Height           float64
	ExtractionMethod string
	CharCount        int
	TextLength       int
	TextBlocks       []TextBlock
	Images           []Image
	Shapes           []Shape
}

// TextBlock is a clustered run of text with uniform styling. Coordinates are
// document space (origin top-left, y down); the box is the bounding box of
// the block's constituent glyph spans.
type TextBlock struct {
	Text       string
	X          float64
	Y          float64
	Width      float64
	Height     float64
	FontSize   float64
	FontFamily string
	FontWeight typeface.Weight
	FontStyle  typeface.Style
	Color      string
	Rotation   float64
	Direction  string
}

// Image is a raster image placed on a page. Data holds the raw payload; it
// is base64-encoded only in the XML form.
type Image struct {
	ID       string
	X        float64
	Y        float64
	Width    float64
	Height   float64
	Rotation float64
	Encoding string
	Format   string
	Data     []byte
}

// Shape is the closed set of vector primitives a page can carry.
type Shape interface {
	shape()
}

// Line is a stroked segment between two points.
type Line struct {
	X1    float64
	Y1    float64
	X2    float64
	Y2    float64
	Color string
	Width float64
}

// Rectangle is an axis-aligned rectangle anchored at its top-left corner.
type Rectangle struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
	Color  string
	Fill   Fill
}

func (Line) shape()      {}
func (Rectangle) shape() {}
