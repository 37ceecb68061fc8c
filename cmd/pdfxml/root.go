package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/docpack/pdfxml/internal/cluster"
	"github.com/docpack/pdfxml/internal/config"
	"github.com/docpack/pdfxml/internal/extract"
	"github.com/docpack/pdfxml/internal/render"
)

var (
	cfg    *config.Config
	logger *log.Logger
)

var rootCmd = &cobra.Command{
	Use:   "pdfxml",
	Short: "Convert PDF documents to structured XML and back",
	Long: `pdfxml converts paginated PDF documents into a structured XML
representation that preserves text blocks, images and vector shapes with
their positions and styling, and reconstructs PDF documents from that XML.

Conversion is best effort: pages or primitives that cannot be processed
are skipped with a warning instead of failing the whole document.`,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cmd.Flags())
		if err != nil {
			return err
		}

		// stdout carries conversion output, diagnostics go to stderr.
		logger = log.New(os.Stderr, "pdfxml: ", log.LstdFlags)
		if !cfg.IsDebug() {
			logger.SetFlags(0)
		}
		return nil
	},
}

func init() {
	config.DefaultConfig().RegisterFlags(rootCmd.PersistentFlags())
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newConverter() *extract.Converter {
	policy := cluster.DefaultPolicy()
	policy.MergeGapFactor = cfg.MergeGap
	policy.SpaceGapFactor = cfg.SpaceGap
	policy.SizeTolerance = cfg.SizeTol
	return extract.NewConverter(cluster.New(policy), cfg.Workers, logger)
}

func newReconstructor() *render.Reconstructor {
	return render.NewReconstructor(logger)
}
