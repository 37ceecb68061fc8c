package extract

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/docpack/pdfxml/internal/cluster"
	"github.com/docpack/pdfxml/internal/document"
)

// Converter drives a PageExtractor across all pages and assembles the
// structured document. Pages are processed by a bounded worker pool and
// written into their slot by page number, so output order never depends on
// scheduling.
type Converter struct {
	clusterer *cluster.Clusterer
	workers   int
	logger    *log.Logger
}

// Result carries the assembled document plus warnings for pages that
// degraded instead of failing the conversion.
type Result struct {
	Document *document.Document
	Warnings []string
}

func NewConverter(clusterer *cluster.Clusterer, workers int, logger *log.Logger) *Converter {
	if workers < 1 {
		workers = 1
	}
	return &Converter{
		clusterer: clusterer,
		workers:   workers,
		logger:    logger,
	}
}

// Convert extracts every page of ex into a document. A page that fails to
// extract contributes an empty page and a warning; only context cancellation
// aborts the run.
func (c *Converter) Convert(ctx context.Context, ex PageExtractor) (*Result, error) {
	pageCount := ex.PageCount()

	doc := &document.Document{
		Metadata: ex.Metadata(),
		Pages:    make([]document.Page, pageCount),
	}
	doc.Metadata.PageCount = pageCount

	jobs := make(chan int)
	var (
		wg        sync.WaitGroup
		warningMu sync.Mutex
		warnings  []string
	)

	warn := func(msg string) {
		warningMu.Lock()
		warnings = append(warnings, msg)
		warningMu.Unlock()
		if c.logger != nil {
			c.logger.Printf("warning: %s", msg)
		}
	}

	for w := 0; w < c.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for pageNo := range jobs {
				doc.Pages[pageNo-1] = c.convertPage(ex, pageNo, warn)
			}
		}()
	}

	var cancelled error
	for pageNo := 1; pageNo <= pageCount; pageNo++ {
		if err := ctx.Err(); err != nil {
			cancelled = err
			break
		}
		select {
		case <-ctx.Done():
			cancelled = ctx.Err()
		case jobs <- pageNo:
			continue
		}
		break
	}
	close(jobs)
	wg.Wait()

	if cancelled != nil {
		return nil, fmt.Errorf("conversion aborted: %w", cancelled)
	}
	return &Result{Document: doc, Warnings: warnings}, nil
}

func (c *Converter) convertPage(ex PageExtractor, pageNo int, warn func(string)) document.Page {
	pc, err := ex.ExtractPage(pageNo)
	if err != nil {
		warn(err.Error())
		return document.Page{
			Number:           pageNo,
			Width:            fallbackPageWidth,
			Height:           fallbackPageHeight,
			ExtractionMethod: extractionMethod,
		}
	}

	page := document.Page{
		Number:           pageNo,
		Width:            pc.Width,
		Height:           pc.Height,
		ExtractionMethod: extractionMethod,
		TextBlocks:       c.clusterer.Cluster(pc.Spans),
		Images:           pc.Images,
		Shapes:           pc.Shapes,
	}
	for _, s := range pc.Spans {
		page.CharCount += len(s.Text)
	}
	for _, b := range page.TextBlocks {
		page.TextLength += len(b.Text)
	}
	return page
}

// ConvertFile is the one-call forward conversion: open, validate, extract
// all pages and close the file.
func (c *Converter) ConvertFile(ctx context.Context, path string, maxFileSize int64) (*Result, error) {
	rd, err := Open(path, maxFileSize)
	if err != nil {
		return nil, err
	}
	defer rd.Close()
	return c.Convert(ctx, rd)
}
