package extract

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docpack/pdfxml/internal/cluster"
	"github.com/docpack/pdfxml/internal/document"
)

// fakeExtractor serves synthetic page content and can be told to fail
// specific pages.
type fakeExtractor struct {
	pages    int
	meta     document.Metadata
	failPage map[int]bool
}

func (f *fakeExtractor) PageCount() int { return f.pages }

func (f *fakeExtractor) Metadata() document.Metadata { return f.meta }

func (f *fakeExtractor) ExtractPage(pageNo int) (PageContent, error) {
	if f.failPage[pageNo] {
		return PageContent{}, &PageError{Page: pageNo, Err: fmt.Errorf("synthetic failure")}
	}

	return PageContent{
		Width:  595,
		Height: 842,
		Spans: []cluster.GlyphSpan{
			{
				Text:     fmt.Sprintf("page %d content", pageNo),
				X:        50,
				Y:        100,
				Width:    90,
				Height:   12,
				FontName: "Helvetica",
				FontSize: 12,
				Color:    "#000000",
			},
		},
		Shapes: []document.Shape{
			document.Line{X1: 0, Y1: 0, X2: 100, Y2: 0, Color: "#000000", Width: 1},
		},
	}, nil
}

func newTestConverter(workers int) *Converter {
	return NewConverter(cluster.New(cluster.DefaultPolicy()), workers, nil)
}

func TestConvertPreservesPageOrder(t *testing.T) {
	ex := &fakeExtractor{
		pages: 16,
		meta:  document.Metadata{Title: "ordered"},
	}

	result, err := newTestConverter(8).Convert(context.Background(), ex)
	require.NoError(t, err)
	require.Len(t, result.Document.Pages, 16)

	for i, page := range result.Document.Pages {
		assert.Equal(t, i+1, page.Number)
		require.Len(t, page.TextBlocks, 1)
		assert.Equal(t, fmt.Sprintf("page %d content", i+1), page.TextBlocks[0].Text)
	}
}

func TestConvertDegradedPage(t *testing.T) {
	ex := &fakeExtractor{
		pages:    3,
		failPage: map[int]bool{2: true},
	}

	result, err := newTestConverter(2).Convert(context.Background(), ex)
	require.NoError(t, err)
	require.Len(t, result.Document.Pages, 3)

	// The failing page degrades to empty but keeps its slot.
	assert.NotEmpty(t, result.Document.Pages[0].TextBlocks)
	assert.Empty(t, result.Document.Pages[1].TextBlocks)
	assert.Empty(t, result.Document.Pages[1].Shapes)
	assert.Equal(t, 2, result.Document.Pages[1].Number)
	assert.NotEmpty(t, result.Document.Pages[2].TextBlocks)

	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "page 2")
}

func TestConvertMetadataAndCounts(t *testing.T) {
	ex := &fakeExtractor{
		pages: 2,
		meta:  document.Metadata{Title: "T", Author: "A"},
	}

	result, err := newTestConverter(1).Convert(context.Background(), ex)
	require.NoError(t, err)

	doc := result.Document
	assert.Equal(t, "T", doc.Metadata.Title)
	assert.Equal(t, "A", doc.Metadata.Author)
	assert.Equal(t, 2, doc.Metadata.PageCount)

	page := doc.Pages[0]
	assert.Equal(t, len("page 1 content"), page.CharCount)
	assert.Equal(t, len("page 1 content"), page.TextLength)
	assert.Equal(t, "positioned-text", page.ExtractionMethod)
	assert.Len(t, page.Shapes, 1)
}

func TestConvertCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ex := &fakeExtractor{pages: 100}
	_, err := newTestConverter(4).Convert(ctx, ex)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open("/nonexistent/file.pdf", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestPageErrorUnwrap(t *testing.T) {
	inner := fmt.Errorf("boom")
	err := &PageError{Page: 3, Err: inner}
	assert.Equal(t, "page 3: boom", err.Error())
	assert.ErrorIs(t, err, inner)
}
