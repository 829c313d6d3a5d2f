package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/ocr-pdftotext/internal/config"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "ocr-pdftotext",
	Short: "PDF to text with an OCR fallback",
	Long:  "Extracts text from PDFs with pdftotext and, when the text layer is unusable, rasterizes each page with Ghostscript and recognizes it with tesseract.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// convert disables flag parsing, so --config only reaches the other
		// commands. OCRPDF_CONFIG works everywhere.
		path := cfgFile
		if path == "" {
			path = os.Getenv("OCRPDF_CONFIG")
		}

		c, err := config.Load(path)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		l, err := config.InitLogger(cfg.Log)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		logger = l

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to a config file (default ./config.yaml)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
