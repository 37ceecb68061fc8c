package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/docpack/pdfxml/internal/stdio"
)

var stdioForwardCmd = &cobra.Command{
	Use:   "stdio-forward [input.pdf]",
	Short: "Convert PDF bytes on stdin (or a file) to XML, replying with JSON on stdout",
	Long: `Reads raw PDF bytes from stdin, or from the given file when a path is
supplied, and writes a JSON object to stdout: on success it carries the
XML content and document metadata, on failure an error message. The
command always exits zero when a JSON reply was written, so supervising
processes can rely on parsing the reply.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStdioForward,
}

var stdioBackwardCmd = &cobra.Command{
	Use:   "stdio-backward",
	Short: "Reconstruct a PDF from a JSON request on stdin, replying with JSON on stdout",
	Long: `Reads a JSON object {"xmlContent": "...", "fileName": "..."} from stdin
and writes a JSON reply to stdout carrying the base64-encoded PDF bytes,
or an error message on failure.`,
	Args: cobra.NoArgs,
	RunE: runStdioBackward,
}

func init() {
	rootCmd.AddCommand(stdioForwardCmd)
	rootCmd.AddCommand(stdioBackwardCmd)
}

func newStdioService() *stdio.Service {
	return stdio.NewService(newConverter(), newReconstructor(), cfg.MaxFileSize, logger)
}

func runStdioForward(cmd *cobra.Command, args []string) error {
	path := ""
	if len(args) == 1 {
		path = args[0]
	}
	return newStdioService().Forward(cmd.Context(), os.Stdin, os.Stdout, path)
}

func runStdioBackward(cmd *cobra.Command, args []string) error {
	return newStdioService().Backward(os.Stdin, os.Stdout)
}
