package main

import (
	"github.com/spf13/cobra"

	"github.com/docpack/pdfxml/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve both conversion directions as MCP tools over stdio",
	Long: `Starts a Model Context Protocol server on stdin/stdout exposing two
tools: pdf_to_xml converts a PDF file to its structured XML form, and
xml_to_pdf reconstructs a PDF from XML content. Relative paths in tool
calls resolve against the configured directory.`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	srv, err := mcp.NewServer(cfg, newConverter(), newReconstructor())
	if err != nil {
		return err
	}
	return srv.Run(cmd.Context())
}
