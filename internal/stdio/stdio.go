// Package stdio implements the JSON-over-pipes process boundary: PDF bytes
// in and an XML payload out for the forward direction, an XML payload in
// and base64 PDF bytes out for the backward direction.
//
// Failures are reported as a JSON error object on stdout with a zero exit,
// so a supervising process always gets a parseable response.
package stdio

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/docpack/pdfxml/internal/document"
	"github.com/docpack/pdfxml/internal/extract"
	"github.com/docpack/pdfxml/internal/render"
)

const (
	forwardMethod  = "ledongthuc/pdf + pdfcpu"
	backwardMethod = "gofpdf"
)

// ForwardResponse is the reply of the PDF to XML direction.
type ForwardResponse struct {
	Success          bool              `json:"success,omitempty"`
	XMLContent       string            `json:"xml_content,omitempty"`
	Metadata         map[string]string `json:"metadata,omitempty"`
	ExtractionMethod string            `json:"extraction_method,omitempty"`
	Warnings         []string          `json:"warnings,omitempty"`
	Error            string            `json:"error,omitempty"`
}

// BackwardRequest is the input of the XML to PDF direction.
type BackwardRequest struct {
	XMLContent string `json:"xmlContent"`
	FileName   string `json:"fileName"`
}

// BackwardResponse is the reply of the XML to PDF direction.
type BackwardResponse struct {
	Success          bool   `json:"success,omitempty"`
	PDFData          string `json:"pdf_data,omitempty"`
	Filename         string `json:"filename,omitempty"`
	Size             int    `json:"size,omitempty"`
	ConversionMethod string `json:"conversion_method,omitempty"`
	Error            string `json:"error,omitempty"`
}

// Service runs one conversion per invocation over reader/writer pairs.
type Service struct {
	converter     *extract.Converter
	reconstructor *render.Reconstructor
	maxFileSize   int64
	logger        *log.Logger
}

func NewService(converter *extract.Converter, reconstructor *render.Reconstructor, maxFileSize int64, logger *log.Logger) *Service {
	return &Service{
		converter:     converter,
		reconstructor: reconstructor,
		maxFileSize:   maxFileSize,
		logger:        logger,
	}
}

// Forward converts the PDF at path, or the PDF bytes on in when path is
// empty, and writes a ForwardResponse to out. Conversion failures become
// JSON error responses, not returned errors.
func (s *Service) Forward(ctx context.Context, in io.Reader, out io.Writer, path string) error {
	cleanup := func() {}
	if path == "" {
		data, err := io.ReadAll(in)
		if err != nil {
			return s.forwardError(out, fmt.Sprintf("failed to read input: %v", err))
		}
		if len(data) == 0 {
			return s.forwardError(out, "No PDF data received")
		}

		tmp, err := os.CreateTemp("", "pdfxml-*.pdf")
		if err != nil {
			return s.forwardError(out, fmt.Sprintf("failed to create temp file: %v", err))
		}
		path = tmp.Name()
		cleanup = func() { os.Remove(path) }

		_, werr := tmp.Write(data)
		cerr := tmp.Close()
		if werr != nil || cerr != nil {
			cleanup()
			return s.forwardError(out, "failed to stage PDF data")
		}
	} else if _, err := os.Stat(path); err != nil {
		return s.forwardError(out, fmt.Sprintf("File not found: %s", path))
	}
	defer cleanup()

	result, err := s.converter.ConvertFile(ctx, path, s.maxFileSize)
	if err != nil {
		return s.forwardError(out, err.Error())
	}

	xmlBytes, err := document.Serialize(result.Document)
	if err != nil {
		return s.forwardError(out, err.Error())
	}

	return writeJSON(out, ForwardResponse{
		Success:          true,
		XMLContent:       string(xmlBytes),
		Metadata:         metadataMap(result.Document.Metadata),
		ExtractionMethod: forwardMethod,
		Warnings:         result.Warnings,
	})
}

// Backward reads a BackwardRequest from in, renders the document and writes
// a BackwardResponse to out.
func (s *Service) Backward(in io.Reader, out io.Writer) error {
	data, err := io.ReadAll(in)
	if err != nil {
		return s.backwardError(out, fmt.Sprintf("failed to read input: %v", err))
	}
	if len(data) == 0 {
		return s.backwardError(out, "No data received")
	}

	var req BackwardRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return s.backwardError(out, fmt.Sprintf("Invalid JSON input: %v", err))
	}
	if req.XMLContent == "" {
		return s.backwardError(out, "No XML content provided")
	}
	if req.FileName == "" {
		req.FileName = "converted.pdf"
	}

	doc, err := document.Deserialize([]byte(req.XMLContent))
	if err != nil {
		return s.backwardError(out, fmt.Sprintf("Conversion error: %v", err))
	}

	pdfBytes, err := s.reconstructor.Render(doc, render.NewPDFCanvas())
	if err != nil {
		return s.backwardError(out, fmt.Sprintf("Conversion error: %v", err))
	}

	return writeJSON(out, BackwardResponse{
		Success:          true,
		PDFData:          base64.StdEncoding.EncodeToString(pdfBytes),
		Filename:         req.FileName,
		Size:             len(pdfBytes),
		ConversionMethod: backwardMethod,
	})
}

func (s *Service) forwardError(out io.Writer, msg string) error {
	if s.logger != nil {
		s.logger.Printf("forward conversion failed: %s", msg)
	}
	return writeJSON(out, ForwardResponse{Error: msg, ExtractionMethod: "failed"})
}

func (s *Service) backwardError(out io.Writer, msg string) error {
	if s.logger != nil {
		s.logger.Printf("backward conversion failed: %s", msg)
	}
	return writeJSON(out, BackwardResponse{Error: msg})
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	return enc.Encode(v)
}

func metadataMap(m document.Metadata) map[string]string {
	return map[string]string{
		"title":             m.Title,
		"author":            m.Author,
		"subject":           m.Subject,
		"creator":           m.Creator,
		"producer":          m.Producer,
		"creation_date":     m.CreationDate,
		"modification_date": m.ModificationDate,
		"page_count":        fmt.Sprintf("%d", m.PageCount),
	}
}
