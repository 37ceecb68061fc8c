package extract

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"sync"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/docpack/pdfxml/internal/cluster"
	"github.com/docpack/pdfxml/internal/colors"
	"github.com/docpack/pdfxml/internal/document"
)

// Rects thinner than this in one dimension are treated as drawn lines
// rather than rectangles.
const lineThickness = 1.0

// Reader extracts document content from a PDF file. It combines two
// libraries: pdfcpu validates the file and provides page dimensions, and
// ledongthuc/pdf walks the content streams for positioned text, rectangles
// and image XObjects.
//
// The underlying parser is not safe for concurrent use, so page extraction
// is serialized internally. Callers may still fan out over pages; they just
// won't overlap inside the parser.
type Reader struct {
	mu     sync.Mutex
	file   *os.File
	reader *pdf.Reader

	pageCount int
	dims      []types.Dim
	meta      document.Metadata
}

// Open validates the PDF at path and prepares it for page extraction.
// A maxFileSize of 0 disables the size check.
func Open(path string, maxFileSize int64) (*Reader, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("file does not exist: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot access file: %w", err)
	}
	if maxFileSize > 0 && info.Size() > maxFileSize {
		return nil, fmt.Errorf("file too large: %d bytes (limit %d)", info.Size(), maxFileSize)
	}

	pageCount, dims, err := validate(path)
	if err != nil {
		return nil, err
	}

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}

	rd := &Reader{
		file:      f,
		reader:    r,
		pageCount: pageCount,
		dims:      dims,
	}
	rd.meta = rd.readMetadata()
	return rd, nil
}

// validate reads the file with pdfcpu in relaxed mode and returns the page
// count and per-page dimensions.
func validate(path string) (int, []types.Dim, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(f, conf)
	if err != nil {
		return 0, nil, fmt.Errorf("not a readable PDF: %w", err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return 0, nil, fmt.Errorf("failed to determine page count: %w", err)
	}

	dims, err := ctx.PageDims()
	if err != nil {
		// Dimensions fall back to each page's MediaBox later.
		dims = nil
	}
	return ctx.PageCount, dims, nil
}

func (r *Reader) Close() error {
	return r.file.Close()
}

func (r *Reader) PageCount() int {
	return r.pageCount
}

func (r *Reader) Metadata() document.Metadata {
	return r.meta
}

func (r *Reader) readMetadata() (meta document.Metadata) {
	defer func() {
		recover()
	}()

	meta.PageCount = r.pageCount

	trailer := r.reader.Trailer()
	if trailer.IsNull() {
		return meta
	}
	info := trailer.Key("Info")
	if info.IsNull() {
		return meta
	}

	read := func(key string) string {
		v := info.Key(key)
		if v.IsNull() {
			return ""
		}
		return strings.TrimSpace(v.Text())
	}

	meta.Title = read("Title")
	meta.Author = read("Author")
	meta.Subject = read("Subject")
	meta.Creator = read("Creator")
	meta.Producer = read("Producer")
	meta.CreationDate = read("CreationDate")
	meta.ModificationDate = read("ModDate")
	return meta
}

// ExtractPage harvests one page (1-based). Parse panics inside the PDF
// library surface as a PageError instead of taking down the process.
func (r *Reader) ExtractPage(pageNo int) (pc PageContent, err error) {
	if pageNo < 1 || pageNo > r.pageCount {
		return PageContent{}, &PageError{Page: pageNo, Err: fmt.Errorf("page out of range 1..%d", r.pageCount)}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	defer func() {
		if rec := recover(); rec != nil {
			err = &PageError{Page: pageNo, Err: fmt.Errorf("parse failure: %v", rec)}
		}
	}()

	page := r.reader.Page(pageNo)
	if page.V.IsNull() {
		return PageContent{}, &PageError{Page: pageNo, Err: fmt.Errorf("page object is null")}
	}

	pc.Width, pc.Height = r.pageSize(page, pageNo)

	content := page.Content()
	for _, t := range content.Text {
		pc.Spans = append(pc.Spans, cluster.GlyphSpan{
			Text:     t.S,
			X:        t.X,
			Y:        pc.Height - t.Y - t.FontSize,
			Width:    t.W,
			Height:   t.FontSize,
			FontName: t.Font,
			FontSize: t.FontSize,
			Color:    colors.Decode(colors.Unknown{}),
		})
	}

	for _, rect := range content.Rect {
		pc.Shapes = append(pc.Shapes, convertRect(rect, pc.Height))
	}

	pc.Images = append(pc.Images, r.extractImages(page, pageNo, pc.Width, pc.Height)...)
	return pc, nil
}

// pageSize prefers pdfcpu's dimensions, then the page MediaBox, then a
// US Letter fallback.
func (r *Reader) pageSize(page pdf.Page, pageNo int) (float64, float64) {
	if pageNo-1 < len(r.dims) {
		d := r.dims[pageNo-1]
		if d.Width > 0 && d.Height > 0 {
			return d.Width, d.Height
		}
	}

	box := page.V.Key("MediaBox")
	if !box.IsNull() && box.Len() == 4 {
		w := box.Index(2).Float64() - box.Index(0).Float64()
		h := box.Index(3).Float64() - box.Index(1).Float64()
		if w > 0 && h > 0 {
			return w, h
		}
	}
	return fallbackPageWidth, fallbackPageHeight
}

// convertRect maps a content-stream rectangle into the shape model. The PDF
// parser reports no stroke color or fill state, so shapes default to black
// outlines. Rects that are thin in one dimension become lines.
func convertRect(r pdf.Rect, pageHeight float64) document.Shape {
	w := r.Max.X - r.Min.X
	h := r.Max.Y - r.Min.Y

	switch {
	case h <= lineThickness && w > lineThickness:
		y := pageHeight - r.Min.Y
		return document.Line{
			X1: r.Min.X, Y1: y,
			X2: r.Max.X, Y2: y,
			Color: colors.DefaultHex,
			Width: math.Max(h, 1),
		}
	case w <= lineThickness && h > lineThickness:
		return document.Line{
			X1: r.Min.X, Y1: pageHeight - r.Min.Y,
			X2: r.Min.X, Y2: pageHeight - r.Max.Y,
			Color: colors.DefaultHex,
			Width: math.Max(w, 1),
		}
	default:
		return document.Rectangle{
			X:      r.Min.X,
			Y:      pageHeight - r.Max.Y,
			Width:  w,
			Height: h,
			Color:  colors.DefaultHex,
			Fill:   document.FillNone,
		}
	}
}

// extractImages walks the page's XObject dictionary for image streams.
// Content streams are not interpreted, so placement is unknown; images are
// anchored at the page origin with their intrinsic pixel size clamped to
// the page.
func (r *Reader) extractImages(page pdf.Page, pageNo int, pageW, pageH float64) []document.Image {
	defer func() {
		recover()
	}()

	resources := page.V.Key("Resources")
	if resources.IsNull() {
		return nil
	}
	xObjects := resources.Key("XObject")
	if xObjects.IsNull() || xObjects.Kind() != pdf.Dict {
		return nil
	}

	var images []document.Image
	for i, key := range xObjects.Keys() {
		obj := xObjects.Key(key)
		if obj.IsNull() {
			continue
		}
		if subtype := obj.Key("Subtype"); subtype.IsNull() || subtype.Name() != "Image" {
			continue
		}
		if img, ok := readImage(obj, pageNo, i+1, pageW, pageH); ok {
			images = append(images, img)
		}
	}
	return images
}

func readImage(obj pdf.Value, pageNo, ordinal int, pageW, pageH float64) (img document.Image, ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()

	w := obj.Key("Width").Int64()
	h := obj.Key("Height").Int64()
	if w <= 0 || h <= 0 {
		return document.Image{}, false
	}

	img = document.Image{
		ID:       fmt.Sprintf("image-%d-%d", pageNo, ordinal),
		X:        0,
		Y:        0,
		Width:    math.Min(float64(w), pageW),
		Height:   math.Min(float64(h), pageH),
		Encoding: "base64",
		Format:   "raw",
	}

	filter := ""
	if f := obj.Key("Filter"); !f.IsNull() {
		filter = f.Name()
	}

	switch filter {
	case "DCTDecode":
		img.Format = "jpeg"
	case "JPXDecode":
		img.Format = "jp2"
	case "FlateDecode", "":
		// Raw decoded samples. Only these filters are decodable here.
		if data, err := io.ReadAll(obj.Reader()); err == nil {
			img.Data = data
		}
	default:
		img.Format = strings.ToLower(strings.TrimSuffix(filter, "Decode"))
	}

	return img, true
}
