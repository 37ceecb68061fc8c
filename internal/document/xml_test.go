package document

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docpack/pdfxml/internal/typeface"
)

func sampleDocument() *Document {
	return &Document{
		Metadata: Metadata{
			Title:     "Quarterly Report",
			Author:    "A. Writer",
			Producer:  "pdfxml",
			PageCount: 1,
		},
		Pages: []Page{
			{
				Number:           1,
				Width:            595,
				Height:           842,
				ExtractionMethod: "positioned-text",
				CharCount:        11,
				TextLength:       11,
				TextBlocks: []TextBlock{
					{
						Text: "Hello world",
						X:    50, Y: 100, Width: 120, Height: 14,
						FontSize:   12,
						FontFamily: "Helvetica",
						FontWeight: typeface.WeightNormal,
						FontStyle:  typeface.StyleNormal,
						Color:      "#000000",
						Direction:  DirectionLTR,
					},
				},
				Images: []Image{
					{
						ID: "image-1-1",
						X:  200, Y: 300, Width: 100, Height: 80,
						Encoding: "base64",
						Format:   "jpeg",
						Data:     []byte{0xFF, 0xD8, 0xFF, 0xE0},
					},
				},
				Shapes: []Shape{
					Line{X1: 50, Y1: 400, X2: 545, Y2: 400, Color: "#000000", Width: 1},
					Rectangle{X: 50, Y: 450, Width: 200, Height: 100, Color: "#ff0000", Fill: FillSolid},
					Line{X1: 50, Y1: 600, X2: 50, Y2: 700, Color: "#000000", Width: 2},
				},
			},
		},
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	doc := sampleDocument()

	data, err := Serialize(doc)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "<?xml"))

	got, err := Deserialize(data)
	require.NoError(t, err)

	require.Len(t, got.Pages, 1)
	page := got.Pages[0]

	assert.Equal(t, 1, got.Metadata.PageCount)
	assert.Equal(t, "Quarterly Report", got.Metadata.Title)
	assert.Equal(t, 1, page.Number)
	assert.Equal(t, 595.0, page.Width)
	assert.Equal(t, 842.0, page.Height)

	require.Len(t, page.TextBlocks, 1)
	block := page.TextBlocks[0]
	assert.Equal(t, "Hello world", block.Text)
	assert.Equal(t, 50.0, block.X)
	assert.Equal(t, 100.0, block.Y)
	assert.Equal(t, 12.0, block.FontSize)
	assert.Equal(t, "#000000", block.Color)

	require.Len(t, page.Images, 1)
	assert.Equal(t, "image-1-1", page.Images[0].ID)
	assert.Equal(t, []byte{0xFF, 0xD8, 0xFF, 0xE0}, page.Images[0].Data)

	// Interleaved shape order survives the round trip.
	require.Len(t, page.Shapes, 3)
	_, ok := page.Shapes[0].(Line)
	assert.True(t, ok)
	rect, ok := page.Shapes[1].(Rectangle)
	require.True(t, ok)
	assert.Equal(t, FillSolid, rect.Fill)
	line, ok := page.Shapes[2].(Line)
	require.True(t, ok)
	assert.Equal(t, 2.0, line.Width)
}

func TestSerializeFormatting(t *testing.T) {
	doc := sampleDocument()
	doc.Pages[0].TextBlocks[0].X = 50.12345
	doc.Pages[0].TextBlocks[0].FontSize = 12.34

	data, err := Serialize(doc)
	require.NoError(t, err)
	xml := string(data)

	assert.Contains(t, xml, `x="50.12"`)
	assert.Contains(t, xml, `font-size="12.3"`)
	assert.Contains(t, xml, `id="block-1-1"`)
	assert.Contains(t, xml, `id="line-1-1"`)
	assert.Contains(t, xml, `id="rect-1-2"`)
	assert.Contains(t, xml, `id="line-1-3"`)
	assert.Contains(t, xml, `<content-stats text-blocks="1" images="1" shapes="3" characters="11"`)
}

func TestSerializeEscapesReservedCharacters(t *testing.T) {
	doc := sampleDocument()
	doc.Pages[0].TextBlocks[0].Text = `a < b & "c"`

	data, err := Serialize(doc)
	require.NoError(t, err)
	assert.NotContains(t, string(data), `a < b & "c"`)

	got, err := Deserialize(data)
	require.NoError(t, err)
	assert.Equal(t, `a < b & "c"`, got.Pages[0].TextBlocks[0].Text)
}

func TestDeserializeDefaults(t *testing.T) {
	input := `<?xml version="1.0"?>
<pdf-document>
  <metadata><page-count>1</page-count></metadata>
  <pages>
    <page>
      <text-blocks>
        <text-block>Some text</text-block>
      </text-blocks>
    </page>
  </pages>
</pdf-document>`

	doc, err := Deserialize([]byte(input))
	require.NoError(t, err)
	require.Len(t, doc.Pages, 1)

	page := doc.Pages[0]
	assert.Equal(t, 1, page.Number)
	assert.Equal(t, 595.0, page.Width)
	assert.Equal(t, 842.0, page.Height)

	require.Len(t, page.TextBlocks, 1)
	block := page.TextBlocks[0]
	assert.Equal(t, "Some text", block.Text)
	assert.Equal(t, 0.0, block.X)
	assert.Equal(t, 100.0, block.Width)
	assert.Equal(t, 100.0, block.Height)
	assert.Equal(t, 12.0, block.FontSize)
	assert.Equal(t, "Helvetica", block.FontFamily)
	assert.Equal(t, typeface.WeightNormal, block.FontWeight)
	assert.Equal(t, typeface.StyleNormal, block.FontStyle)
	assert.Equal(t, "#000000", block.Color)
	assert.Equal(t, DirectionLTR, block.Direction)
}

func TestDeserializeSkipsMalformedElements(t *testing.T) {
	input := `<?xml version="1.0"?>
<pdf-document>
  <metadata/>
  <pages>
    <page number="1" width="595" height="842">
      <text-blocks>
        <text-block x="not-a-number">Broken block</text-block>
        <text-block x="10" y="20">Good block</text-block>
        <text-block x="10" y="40">   </text-block>
      </text-blocks>
      <shapes>
        <line x1="bad"/>
        <rectangle x="1" y="2" width="3" height="4"/>
      </shapes>
    </page>
  </pages>
</pdf-document>`

	doc, err := Deserialize([]byte(input))
	require.NoError(t, err)
	require.Len(t, doc.Pages, 1)

	page := doc.Pages[0]
	require.Len(t, page.TextBlocks, 1)
	assert.Equal(t, "Good block", page.TextBlocks[0].Text)

	require.Len(t, page.Shapes, 1)
	_, ok := page.Shapes[0].(Rectangle)
	assert.True(t, ok)
}

func TestDeserializeMalformedPageDegradesToEmpty(t *testing.T) {
	input := `<?xml version="1.0"?>
<pdf-document>
  <metadata/>
  <pages>
    <page number="1" width="oops" height="842">
      <text-blocks>
        <text-block x="10" y="20">Should be dropped</text-block>
      </text-blocks>
    </page>
    <page number="2" width="595" height="842"/>
  </pages>
</pdf-document>`

	doc, err := Deserialize([]byte(input))
	require.NoError(t, err)
	require.Len(t, doc.Pages, 2)

	assert.Empty(t, doc.Pages[0].TextBlocks)
	assert.Equal(t, 595.0, doc.Pages[0].Width)
	assert.Equal(t, 2, doc.Pages[1].Number)
}

func TestDeserializeRejectsUnparsableInput(t *testing.T) {
	_, err := Deserialize([]byte("this is not xml at all <"))
	require.Error(t, err)

	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestDeserializeInvalidImagePayloadSkipped(t *testing.T) {
	input := `<?xml version="1.0"?>
<pdf-document>
  <metadata/>
  <pages>
    <page number="1" width="595" height="842">
      <images>
        <image id="image-1-1" x="0" y="0" width="10" height="10">%%%not-base64%%%</image>
        <image id="image-1-2" x="0" y="0" width="10" height="10">aGVsbG8=</image>
      </images>
    </page>
  </pages>
</pdf-document>`

	doc, err := Deserialize([]byte(input))
	require.NoError(t, err)
	require.Len(t, doc.Pages, 1)
	require.Len(t, doc.Pages[0].Images, 1)
	assert.Equal(t, "image-1-2", doc.Pages[0].Images[0].ID)
	assert.Equal(t, []byte("hello"), doc.Pages[0].Images[0].Data)
}
