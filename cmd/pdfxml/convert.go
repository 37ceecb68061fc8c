package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/docpack/pdfxml/internal/document"
	"github.com/docpack/pdfxml/internal/render"
)

var convertForwardCmd = &cobra.Command{
	Use:   "convert-forward <input.pdf> <output.xml>",
	Short: "Convert a PDF file to structured XML",
	Args:  cobra.ExactArgs(2),
	RunE:  runConvertForward,
}

var convertBackwardCmd = &cobra.Command{
	Use:   "convert-backward <input.xml> <output.pdf>",
	Short: "Reconstruct a PDF file from structured XML",
	Args:  cobra.ExactArgs(2),
	RunE:  runConvertBackward,
}

func init() {
	rootCmd.AddCommand(convertForwardCmd)
	rootCmd.AddCommand(convertBackwardCmd)
}

func runConvertForward(cmd *cobra.Command, args []string) error {
	input, output := args[0], args[1]

	result, err := newConverter().ConvertFile(cmd.Context(), input, cfg.MaxFileSize)
	if err != nil {
		return fmt.Errorf("convert %s: %w", input, err)
	}
	for _, w := range result.Warnings {
		logger.Printf("warning: %s", w)
	}

	xmlBytes, err := document.Serialize(result.Document)
	if err != nil {
		return err
	}
	if err := os.WriteFile(output, xmlBytes, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	logger.Printf("converted %s: %d pages -> %s", input, len(result.Document.Pages), output)
	return nil
}

func runConvertBackward(cmd *cobra.Command, args []string) error {
	input, output := args[0], args[1]

	xmlBytes, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("read %s: %w", input, err)
	}

	doc, err := document.Deserialize(xmlBytes)
	if err != nil {
		return fmt.Errorf("parse %s: %w", input, err)
	}

	pdfBytes, err := newReconstructor().Render(doc, render.NewPDFCanvas())
	if err != nil {
		return err
	}
	if err := os.WriteFile(output, pdfBytes, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	logger.Printf("reconstructed %s: %d pages -> %s (%d bytes)", input, len(doc.Pages), output, len(pdfBytes))
	return nil
}
