package document

import (
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/docpack/pdfxml/internal/typeface"
)

// Deserialization defaults for optional attributes.
const (
	defaultBoxSize    = 100.0
	defaultFontSize   = 12.0
	defaultFontFamily = "Helvetica"
	defaultColor      = "#000000"
	defaultLineWidth  = 1.0
	defaultPageWidth  = 595.0
	defaultPageHeight = 842.0
)

// ParseError reports an input that could not be parsed as a structured
// document at all. It is fatal to the whole conversion, unlike the per-page
// and per-element degradation applied to recoverable damage.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed document: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Serialize renders a document to the canonical XML form. Float attributes
// are written with 2 decimal places (font sizes with 1); element ids are
// derived from page number and position.
func Serialize(doc *Document) ([]byte, error) {
	x := xmlDocument{
		Metadata: xmlMetadata{
			Title:            doc.Metadata.Title,
			Author:           doc.Metadata.Author,
			Subject:          doc.Metadata.Subject,
			Creator:          doc.Metadata.Creator,
			Producer:         doc.Metadata.Producer,
			CreationDate:     doc.Metadata.CreationDate,
			ModificationDate: doc.Metadata.ModificationDate,
			PageCount:        strconv.Itoa(len(doc.Pages)),
		},
	}

	for i := range doc.Pages {
		x.Pages.Pages = append(x.Pages.Pages, serializePage(&doc.Pages[i]))
	}

	out, err := xml.MarshalIndent(&x, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serialize document: %w", err)
	}
	return append([]byte(xml.Header), append(out, '\n')...), nil
}

func serializePage(p *Page) xmlPage {
	xp := xmlPage{
		Number:           strconv.Itoa(p.Number),
		Width:            formatCoord(p.Width),
		Height:           formatCoord(p.Height),
		ExtractionMethod: p.ExtractionMethod,
		CharCount:        strconv.Itoa(p.CharCount),
		TextLength:       strconv.Itoa(p.TextLength),
	}
	xp.PageInfo.Dimensions.Width = formatCoord(p.Width)
	xp.PageInfo.Dimensions.Height = formatCoord(p.Height)
	xp.PageInfo.Stats.TextBlocks = strconv.Itoa(len(p.TextBlocks))
	xp.PageInfo.Stats.Images = strconv.Itoa(len(p.Images))
	xp.PageInfo.Stats.Shapes = strconv.Itoa(len(p.Shapes))
	xp.PageInfo.Stats.Characters = strconv.Itoa(p.CharCount)

	xp.TextBlocks.Count = strconv.Itoa(len(p.TextBlocks))
	for i, b := range p.TextBlocks {
		xp.TextBlocks.Blocks = append(xp.TextBlocks.Blocks, xmlTextBlock{
			ID:         fmt.Sprintf("block-%d-%d", p.Number, i+1),
			X:          formatCoord(b.X),
			Y:          formatCoord(b.Y),
			Width:      formatCoord(b.Width),
			Height:     formatCoord(b.Height),
			FontSize:   formatFontSize(b.FontSize),
			FontFamily: b.FontFamily,
			FontWeight: string(b.FontWeight),
			FontStyle:  string(b.FontStyle),
			Color:      b.Color,
			Rotation:   formatRotation(b.Rotation),
			Direction:  b.Direction,
			Text:       b.Text,
		})
	}

	xp.Images.Count = strconv.Itoa(len(p.Images))
	for i, img := range p.Images {
		id := img.ID
		if id == "" {
			id = fmt.Sprintf("image-%d-%d", p.Number, i+1)
		}
		xp.Images.Images = append(xp.Images.Images, xmlImage{
			ID:       id,
			X:        formatCoord(img.X),
			Y:        formatCoord(img.Y),
			Width:    formatCoord(img.Width),
			Height:   formatCoord(img.Height),
			Rotation: formatRotation(img.Rotation),
			Encoding: "base64",
			Format:   img.Format,
			Data:     base64.StdEncoding.EncodeToString(img.Data),
		})
	}

	if len(p.Shapes) > 0 {
		xs := &xmlShapes{Count: strconv.Itoa(len(p.Shapes))}
		for j, s := range p.Shapes {
			switch sh := s.(type) {
			case Line:
				xs.Items = append(xs.Items, xmlShapeItem{Line: &xmlLine{
					ID:    fmt.Sprintf("line-%d-%d", p.Number, j+1),
					X1:    formatCoord(sh.X1),
					Y1:    formatCoord(sh.Y1),
					X2:    formatCoord(sh.X2),
					Y2:    formatCoord(sh.Y2),
					Color: sh.Color,
					Width: formatCoord(sh.Width),
				}})
			case Rectangle:
				xs.Items = append(xs.Items, xmlShapeItem{Rect: &xmlRect{
					ID:     fmt.Sprintf("rect-%d-%d", p.Number, j+1),
					X:      formatCoord(sh.X),
					Y:      formatCoord(sh.Y),
					Width:  formatCoord(sh.Width),
					Height: formatCoord(sh.Height),
					Color:  sh.Color,
					Fill:   string(sh.Fill),
				}})
			}
		}
		xp.Shapes = xs
	}

	return xp
}

// Deserialize parses the canonical XML form back into a document. An
// unparsable input is fatal; a structurally damaged page degrades to an empty
// Page and a damaged individual element is skipped, mirroring the
// partial-result policy of the forward direction.
func Deserialize(data []byte) (*Document, error) {
	var x xmlDocument
	if err := xml.Unmarshal(data, &x); err != nil {
		return nil, &ParseError{Err: err}
	}

	doc := &Document{
		Metadata: Metadata{
			Title:            x.Metadata.Title,
			Author:           x.Metadata.Author,
			Subject:          x.Metadata.Subject,
			Creator:          x.Metadata.Creator,
			Producer:         x.Metadata.Producer,
			CreationDate:     x.Metadata.CreationDate,
			ModificationDate: x.Metadata.ModificationDate,
		},
	}
	if n, err := strconv.Atoi(strings.TrimSpace(x.Metadata.PageCount)); err == nil {
		doc.Metadata.PageCount = n
	}

	for i := range x.Pages.Pages {
		doc.Pages = append(doc.Pages, deserializePage(&x.Pages.Pages[i], i+1))
	}
	return doc, nil
}

func deserializePage(xp *xmlPage, position int) Page {
	number, numberOK := parseIntAttr(xp.Number, position)
	width, widthOK := parseFloatAttr(xp.Width, defaultPageWidth)
	height, heightOK := parseFloatAttr(xp.Height, defaultPageHeight)
	if !widthOK {
		width = defaultPageWidth
	}
	if !heightOK {
		height = defaultPageHeight
	}

	p := Page{
		Number:           number,
		Width:            width,
		Height:           height,
		ExtractionMethod: xp.ExtractionMethod,
	}

	// Unparsable page geometry degrades the whole page to empty rather than
	// guessing at content placement.
	if !numberOK || !widthOK || !heightOK {
		return p
	}

	for _, xb := range xp.TextBlocks.Blocks {
		if b, ok := deserializeTextBlock(&xb); ok {
			p.TextBlocks = append(p.TextBlocks, b)
		}
	}
	for _, xi := range xp.Images.Images {
		if img, ok := deserializeImage(&xi); ok {
			p.Images = append(p.Images, img)
		}
	}
	if xp.Shapes != nil {
		for _, item := range xp.Shapes.Items {
			if s, ok := deserializeShape(item); ok {
				p.Shapes = append(p.Shapes, s)
			}
		}
	}

	if n, ok := parseIntAttr(xp.CharCount, 0); ok {
		p.CharCount = n
	}
	if n, ok := parseIntAttr(xp.TextLength, 0); ok && n > 0 {
		p.TextLength = n
	} else {
		for _, b := range p.TextBlocks {
			p.TextLength += len(b.Text)
		}
	}
	return p
}

func deserializeTextBlock(xb *xmlTextBlock) (TextBlock, bool) {
	text := strings.TrimSpace(xb.Text)
	if text == "" {
		return TextBlock{}, false
	}

	b := TextBlock{
		Text:       text,
		FontFamily: xb.FontFamily,
		Color:      xb.Color,
		Direction:  DirectionLTR,
	}
	if b.FontFamily == "" {
		b.FontFamily = defaultFontFamily
	}
	if b.Color == "" {
		b.Color = defaultColor
	}

	var ok bool
	if b.X, ok = parseFloatAttr(xb.X, 0); !ok {
		return TextBlock{}, false
	}
	if b.Y, ok = parseFloatAttr(xb.Y, 0); !ok {
		return TextBlock{}, false
	}
	if b.Width, ok = parseFloatAttr(xb.Width, defaultBoxSize); !ok {
		return TextBlock{}, false
	}
	if b.Height, ok = parseFloatAttr(xb.Height, defaultBoxSize); !ok {
		return TextBlock{}, false
	}
	if b.FontSize, ok = parseFloatAttr(xb.FontSize, defaultFontSize); !ok {
		return TextBlock{}, false
	}
	if b.Rotation, ok = parseFloatAttr(xb.Rotation, 0); !ok {
		return TextBlock{}, false
	}

	b.FontWeight = typeface.WeightNormal
	if xb.FontWeight == string(typeface.WeightBold) {
		b.FontWeight = typeface.WeightBold
	}
	b.FontStyle = typeface.StyleNormal
	if xb.FontStyle == string(typeface.StyleItalic) {
		b.FontStyle = typeface.StyleItalic
	}
	return b, true
}

func deserializeImage(xi *xmlImage) (Image, bool) {
	img := Image{
		ID:       xi.ID,
		Encoding: "base64",
		Format:   xi.Format,
	}

	var ok bool
	if img.X, ok = parseFloatAttr(xi.X, 0); !ok {
		return Image{}, false
	}
	if img.Y, ok = parseFloatAttr(xi.Y, 0); !ok {
		return Image{}, false
	}
	if img.Width, ok = parseFloatAttr(xi.Width, defaultBoxSize); !ok {
		return Image{}, false
	}
	if img.Height, ok = parseFloatAttr(xi.Height, defaultBoxSize); !ok {
		return Image{}, false
	}
	if img.Rotation, ok = parseFloatAttr(xi.Rotation, 0); !ok {
		return Image{}, false
	}

	payload := strings.Join(strings.Fields(xi.Data), "")
	if payload != "" {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return Image{}, false
		}
		img.Data = data
	}
	return img, true
}

func deserializeShape(item xmlShapeItem) (Shape, bool) {
	switch {
	case item.Line != nil:
		l := Line{Color: item.Line.Color}
		if l.Color == "" {
			l.Color = defaultColor
		}
		var ok bool
		if l.X1, ok = parseFloatAttr(item.Line.X1, 0); !ok {
			return nil, false
		}
		if l.Y1, ok = parseFloatAttr(item.Line.Y1, 0); !ok {
			return nil, false
		}
		if l.X2, ok = parseFloatAttr(item.Line.X2, 0); !ok {
			return nil, false
		}
		if l.Y2, ok = parseFloatAttr(item.Line.Y2, 0); !ok {
			return nil, false
		}
		if l.Width, ok = parseFloatAttr(item.Line.Width, defaultLineWidth); !ok {
			return nil, false
		}
		return l, true
	case item.Rect != nil:
		r := Rectangle{Color: item.Rect.Color, Fill: FillNone}
		if r.Color == "" {
			r.Color = defaultColor
		}
		if item.Rect.Fill == string(FillSolid) {
			r.Fill = FillSolid
		}
		var ok bool
		if r.X, ok = parseFloatAttr(item.Rect.X, 0); !ok {
			return nil, false
		}
		if r.Y, ok = parseFloatAttr(item.Rect.Y, 0); !ok {
			return nil, false
		}
		if r.Width, ok = parseFloatAttr(item.Rect.Width, defaultBoxSize); !ok {
			return nil, false
		}
		if r.Height, ok = parseFloatAttr(item.Rect.Height, defaultBoxSize); !ok {
			return nil, false
		}
		return r, true
	}
	return nil, false
}

// parseFloatAttr distinguishes a missing attribute (empty string, which takes
// the documented default) from a present but unparsable one, which marks the
// element malformed.
func parseFloatAttr(s string, def float64) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func parseIntAttr(s string, def int) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, true
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def, false
	}
	return v, true
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatFontSize(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func formatRotation(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
