package document

import (
	"encoding/xml"
	"io"
)

// Wire representation of the structured document. Attribute values are kept
// as strings so serialization controls the numeric formatting and
// deserialization can apply defaults for absent attributes.

type xmlDocument struct {
	XMLName  xml.Name    `xml:"pdf-document"`
	Metadata xmlMetadata `xml:"metadata"`
	Pages    xmlPages    `xml:"pages"`
}

type xmlMetadata struct {
	Title            string `xml:"title"`
	Author           string `xml:"author"`
	Subject          string `xml:"subject"`
	Creator          string `xml:"creator"`
	Producer         string `xml:"producer"`
	CreationDate     string `xml:"creation-date"`
	ModificationDate string `xml:"modification-date"`
	PageCount        string `xml:"page-count"`
}

type xmlPages struct {
	Pages []xmlPage `xml:"page"`
}

type xmlPage struct {
	Number           string `xml:"number,attr"`
	Width            string `xml:"width,attr"`
	Height           string `xml:"height,attr"`
	ExtractionMethod string `xml:"extraction-method,attr,omitempty"`
	CharCount        string `xml:"char-count,attr,omitempty"`
	TextLength       string `xml:"text-length,attr,omitempty"`

	PageInfo   xmlPageInfo   `xml:"page-info"`
	TextBlocks xmlTextBlocks `xml:"text-blocks"`
	Images     xmlImages     `xml:"images"`
	Shapes     *xmlShapes    `xml:"shapes"`
}

type xmlPageInfo struct {
	Dimensions struct {
		Width  string `xml:"width,attr"`
		Height string `xml:"height,attr"`
	} `xml:"dimensions"`
	Stats struct {
		TextBlocks string `xml:"text-blocks,attr"`
		Images     string `xml:"images,attr"`
		Shapes     string `xml:"shapes,attr"`
		Characters string `xml:"characters,attr"`
	} `xml:"content-stats"`
}

type xmlTextBlocks struct {
	Count  string         `xml:"count,attr"`
	Blocks []xmlTextBlock `xml:"text-block"`
}

type xmlTextBlock struct {
	ID         string `xml:"id,attr"`
	X          string `xml:"x,attr"`
	Y          string `xml:"y,attr"`
	Width      string `xml:"width,attr"`
	Height     string `xml:"height,attr"`
	FontSize   string `xml:"font-size,attr"`
	FontFamily string `xml:"font-family,attr"`
	FontWeight string `xml:"font-weight,attr"`
	FontStyle  string `xml:"font-style,attr"`
	Color      string `xml:"color,attr"`
	Rotation   string `xml:"rotation,attr"`
	Direction  string `xml:"direction,attr"`
	Text       string `xml:",chardata"`
}

type xmlImages struct {
	Count  string     `xml:"count,attr"`
	Images []xmlImage `xml:"image"`
}

type xmlImage struct {
	ID       string `xml:"id,attr"`
	X        string `xml:"x,attr"`
	Y        string `xml:"y,attr"`
	Width    string `xml:"width,attr"`
	Height   string `xml:"height,attr"`
	Rotation string `xml:"rotation,attr"`
	Encoding string `xml:"encoding,attr"`
	Format   string `xml:"format,attr"`
	Data     string `xml:",chardata"`
}

type xmlLine struct {
	ID    string `xml:"id,attr"`
	X1    string `xml:"x1,attr"`
	Y1    string `xml:"y1,attr"`
	X2    string `xml:"x2,attr"`
	Y2    string `xml:"y2,attr"`
	Color string `xml:"color,attr"`
	Width string `xml:"width,attr"`
}

type xmlRect struct {
	ID     string `xml:"id,attr"`
	X      string `xml:"x,attr"`
	Y      string `xml:"y,attr"`
	Width  string `xml:"width,attr"`
	Height string `xml:"height,attr"`
	Color  string `xml:"color,attr"`
	Fill   string `xml:"fill,attr"`
}

// xmlShapeItem holds exactly one of its fields; which one records whether the
// child was a line or a rectangle at that position.
type xmlShapeItem struct {
	Line *xmlLine
	Rect *xmlRect
}

// xmlShapes carries a mixed, order-preserving sequence of line and rectangle
// children, which the struct-tag mapping of encoding/xml cannot express on
// its own.
type xmlShapes struct {
	Count string
	Items []xmlShapeItem
}

func (s *xmlShapes) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Attr = append(start.Attr, xml.Attr{
		Name:  xml.Name{Local: "count"},
		Value: s.Count,
	})
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	for _, item := range s.Items {
		switch {
		case item.Line != nil:
			if err := e.EncodeElement(item.Line, xml.StartElement{Name: xml.Name{Local: "line"}}); err != nil {
				return err
			}
		case item.Rect != nil:
			if err := e.EncodeElement(item.Rect, xml.StartElement{Name: xml.Name{Local: "rectangle"}}); err != nil {
				return err
			}
		}
	}
	return e.EncodeToken(start.End())
}

func (s *xmlShapes) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for _, attr := range start.Attr {
		if attr.Name.Local == "count" {
			s.Count = attr.Value
		}
	}
	for {
		tok, err := d.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "line":
				var l xmlLine
				if err := d.DecodeElement(&l, &t); err != nil {
					return err
				}
				s.Items = append(s.Items, xmlShapeItem{Line: &l})
			case "rectangle":
				var r xmlRect
				if err := d.DecodeElement(&r, &t); err != nil {
					return err
				}
				s.Items = append(s.Items, xmlShapeItem{Rect: &r})
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			if t.Name.Local == start.Name.Local {
				return nil
			}
		}
	}
}
