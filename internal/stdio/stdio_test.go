package stdio

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docpack/pdfxml/internal/cluster"
	"github.com/docpack/pdfxml/internal/extract"
	"github.com/docpack/pdfxml/internal/render"
)

func newTestService() *Service {
	converter := extract.NewConverter(cluster.New(cluster.DefaultPolicy()), 2, nil)
	return NewService(converter, render.NewReconstructor(nil), 0, nil)
}

const backwardXML = `<?xml version="1.0"?>
<pdf-document>
  <metadata>
    <title>Round Trip</title>
    <page-count>1</page-count>
  </metadata>
  <pages>
    <page number="1" width="595.00" height="842.00">
      <text-blocks count="1">
        <text-block id="block-1-1" x="50.00" y="100.00" width="120.00" height="14.00"
                    font-size="12.0" font-family="Helvetica" font-weight="normal"
                    font-style="normal" color="#000000" rotation="0"
                    direction="ltr">Hello world</text-block>
      </text-blocks>
      <shapes count="1">
        <line id="line-1-1" x1="50.00" y1="400.00" x2="545.00" y2="400.00" color="#000000" width="1.00"/>
      </shapes>
    </page>
  </pages>
</pdf-document>`

func TestBackwardProducesPDF(t *testing.T) {
	req, err := json.Marshal(BackwardRequest{XMLContent: backwardXML, FileName: "out.pdf"})
	require.NoError(t, err)

	var out bytes.Buffer
	err = newTestService().Backward(bytes.NewReader(req), &out)
	require.NoError(t, err)

	var resp BackwardResponse
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))

	assert.True(t, resp.Success)
	assert.Empty(t, resp.Error)
	assert.Equal(t, "out.pdf", resp.Filename)
	assert.Equal(t, "gofpdf", resp.ConversionMethod)

	pdfBytes, err := base64.StdEncoding.DecodeString(resp.PDFData)
	require.NoError(t, err)
	assert.Equal(t, resp.Size, len(pdfBytes))
	assert.True(t, bytes.HasPrefix(pdfBytes, []byte("%PDF")))
}

func TestBackwardDefaultFilename(t *testing.T) {
	req, err := json.Marshal(BackwardRequest{XMLContent: backwardXML})
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, newTestService().Backward(bytes.NewReader(req), &out))

	var resp BackwardResponse
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.Equal(t, "converted.pdf", resp.Filename)
}

func TestBackwardErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{name: "empty input", input: "", wantErr: "No data received"},
		{name: "invalid json", input: "{not json", wantErr: "Invalid JSON input"},
		{name: "missing xml", input: `{"fileName":"x.pdf"}`, wantErr: "No XML content provided"},
		{name: "unparsable xml", input: `{"xmlContent":"not xml <","fileName":"x.pdf"}`, wantErr: "Conversion error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			require.NoError(t, newTestService().Backward(strings.NewReader(tt.input), &out))

			var resp BackwardResponse
			require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
			assert.False(t, resp.Success)
			assert.Contains(t, resp.Error, tt.wantErr)
		})
	}
}

func TestForwardErrors(t *testing.T) {
	t.Run("empty stdin", func(t *testing.T) {
		var out bytes.Buffer
		err := newTestService().Forward(context.Background(), strings.NewReader(""), &out, "")
		require.NoError(t, err)

		var resp ForwardResponse
		require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
		assert.False(t, resp.Success)
		assert.Equal(t, "No PDF data received", resp.Error)
		assert.Equal(t, "failed", resp.ExtractionMethod)
	})

	t.Run("missing file", func(t *testing.T) {
		var out bytes.Buffer
		err := newTestService().Forward(context.Background(), nil, &out, "/nonexistent/input.pdf")
		require.NoError(t, err)

		var resp ForwardResponse
		require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
		assert.Contains(t, resp.Error, "File not found")
	})

	t.Run("garbage bytes", func(t *testing.T) {
		var out bytes.Buffer
		err := newTestService().Forward(context.Background(), strings.NewReader("this is not a pdf"), &out, "")
		require.NoError(t, err)

		var resp ForwardResponse
		require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
		assert.False(t, resp.Success)
		assert.NotEmpty(t, resp.Error)
	})
}
