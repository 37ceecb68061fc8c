// Package mcp exposes the converter over the Model Context Protocol so
// agent hosts can call both conversion directions as tools.
package mcp

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/docpack/pdfxml/internal/config"
	"github.com/docpack/pdfxml/internal/descriptions"
	"github.com/docpack/pdfxml/internal/document"
	"github.com/docpack/pdfxml/internal/extract"
	"github.com/docpack/pdfxml/internal/render"
)

// Server wraps an MCP stdio server with the two conversion tools.
type Server struct {
	config        *config.Config
	converter     *extract.Converter
	reconstructor *render.Reconstructor
	mcpServer     *server.MCPServer
}

// NewServer creates the MCP server and registers its tools.
func NewServer(cfg *config.Config, converter *extract.Converter, reconstructor *render.Reconstructor) (*Server, error) {
	if converter == nil {
		return nil, fmt.Errorf("converter cannot be nil")
	}
	if reconstructor == nil {
		return nil, fmt.Errorf("reconstructor cannot be nil")
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false),
	)

	s := &Server{
		config:        cfg,
		converter:     converter,
		reconstructor: reconstructor,
		mcpServer:     mcpServer,
	}
	s.registerTools()
	return s, nil
}

func (s *Server) registerTools() {
	pdfToXMLTool := mcp.NewTool(
		"pdf_to_xml",
		mcp.WithDescription(descriptions.GetToolDescription("pdf_to_xml")),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the PDF file, relative paths resolve against the configured directory"),
		),
	)
	s.mcpServer.AddTool(pdfToXMLTool, s.handlePDFToXML)

	xmlToPDFTool := mcp.NewTool(
		"xml_to_pdf",
		mcp.WithDescription(descriptions.GetToolDescription("xml_to_pdf")),
		mcp.WithString("xml",
			mcp.Required(),
			mcp.Description("The structured XML document content"),
		),
		mcp.WithString("output",
			mcp.Required(),
			mcp.Description("Path to write the reconstructed PDF, relative paths resolve against the configured directory"),
		),
	)
	s.mcpServer.AddTool(xmlToPDFTool, s.handleXMLToPDF)
}

func (s *Server) handlePDFToXML(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	path, err = s.resolvePath(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.converter.ConvertFile(ctx, path, s.config.MaxFileSize)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	xmlBytes, err := document.Serialize(result.Document)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Converted %s (%d pages)\n", path, len(result.Document.Pages))
	for _, w := range result.Warnings {
		fmt.Fprintf(&sb, "Warning: %s\n", w)
	}
	sb.WriteString("\n")
	sb.Write(xmlBytes)
	return mcp.NewToolResultText(sb.String()), nil
}

func (s *Server) handleXMLToPDF(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	xmlContent, err := request.RequireString("xml")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	output, err := request.RequireString("output")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	output, err = s.resolvePath(output)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	doc, err := document.Deserialize([]byte(xmlContent))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	pdfBytes, err := s.reconstructor.Render(doc, render.NewPDFCanvas())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := os.WriteFile(output, pdfBytes, 0o600); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to write output: %v", err)), nil
	}

	return mcp.NewToolResultText(
		fmt.Sprintf("Reconstructed %d pages into %s (%d bytes)", len(doc.Pages), output, len(pdfBytes)),
	), nil
}

// resolvePath anchors relative paths at the configured directory and rejects
// any path that resolves outside it, including traversal via "..".
func (s *Server) resolvePath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("path cannot be empty")
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.config.Directory, path)
	}
	path = filepath.Clean(path)

	dir := filepath.Clean(s.config.Directory)
	prefix := dir
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	if path != dir && !strings.HasPrefix(path, prefix) {
		return "", fmt.Errorf("security validation failed: path %s is outside the configured directory", path)
	}
	return path, nil
}

// Run serves the MCP protocol over stdin/stdout until the peer disconnects.
func (s *Server) Run(ctx context.Context) error {
	if s.config.IsDebug() {
		log.Printf("Starting %s MCP server in stdio mode", s.config.ServerName)
		log.Printf("Base directory: %s", s.config.Directory)
	}

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}
