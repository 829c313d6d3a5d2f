package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/ocr-pdftotext/internal/config"
	"github.com/sells-group/ocr-pdftotext/internal/model"
	"github.com/sells-group/ocr-pdftotext/internal/ocr"
	"github.com/sells-group/ocr-pdftotext/internal/pipeline"
	"github.com/sells-group/ocr-pdftotext/internal/runner"
	"github.com/sells-group/ocr-pdftotext/internal/store"
)

var convertCmd = &cobra.Command{
	Use:   "convert [pdftotext options] <input.pdf> <output.txt>",
	Short: "Convert a PDF to text",
	Long: "Runs pdftotext with the given arguments. When the extracted text is not usable, " +
		"every page is rasterized and OCRed instead. All arguments are forwarded to pdftotext " +
		"unchanged, except the output path which is replaced by stdout.",
	DisableFlagParsing: true,
	SilenceUsage:       true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if wantsHelp(args) {
			return cmd.Help()
		}
		if err := cfg.Validate("convert"); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger.Debug("called with args", zap.Strings("args", args))
		return finish(cfg, logger, runConvert(ctx, cfg, logger, args))
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)
}

func wantsHelp(args []string) bool {
	return len(args) == 1 && (args[0] == "-h" || args[0] == "--help")
}

// converter is satisfied by *pipeline.Pipeline.
type converter interface {
	Run(ctx context.Context, args []string) (*model.RunResult, error)
}

// buildPipeline wires the tool wrappers described by cfg.
func buildPipeline(cfg *config.Config, log *zap.Logger) (*pipeline.Pipeline, error) {
	exec := runner.New(log, runner.WithTimeout(cfg.Tools.Timeout()))

	gs := ocr.NewGhostscript(cfg.Tools.GhostscriptPath, exec)
	tess, err := ocr.NewTesseract(ocr.TesseractConfig{
		BinPath: cfg.Tools.TesseractPath,
		Options: cfg.OCR.TesseractArgs,
		TempDir: cfg.OCR.TempDir,
	}, exec, gs, log)
	if err != nil {
		return nil, err
	}

	doc := ocr.NewDocument(ocr.PDFPageCounter{}, tess, cfg.OCR.Workers, log)
	return pipeline.New(ocr.NewPdfToText(cfg.Tools.PdfToTextPath, exec), doc, log), nil
}

// openStore returns nil when run history is disabled.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	if cfg.Store.Path == "" {
		return nil, nil
	}
	st, err := store.NewSQLite(cfg.Store.Path)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, err
	}
	return st, nil
}

func runConvert(ctx context.Context, cfg *config.Config, log *zap.Logger, args []string) error {
	p, err := buildPipeline(cfg, log)
	if err != nil {
		return err
	}

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	if st != nil {
		defer st.Close() //nolint:errcheck
	}

	_, err = convertWithHistory(ctx, p, st, log, args)
	return err
}

// convertWithHistory runs one conversion and records it in st when st is
// non-nil. History failures are logged and never fail the conversion.
func convertWithHistory(ctx context.Context, p converter, st store.Store, log *zap.Logger, args []string) (*model.RunResult, error) {
	if st == nil || len(args) < 2 {
		return p.Run(ctx, args)
	}

	run, err := st.CreateRun(ctx, model.Conversion{
		Input:  args[len(args)-2],
		Output: args[len(args)-1],
		Args:   args,
	})
	if err != nil {
		log.Warn("convert: record run", zap.Error(err))
		return p.Run(ctx, args)
	}
	log = log.With(zap.String("run_id", run.ID))

	result, runErr := p.Run(ctx, args)
	if runErr != nil {
		if err := st.FailRun(ctx, run.ID, runErr); err != nil {
			log.Warn("convert: record failure", zap.Error(err))
		}
		return nil, runErr
	}

	if err := st.CompleteRun(ctx, run.ID, result); err != nil {
		log.Warn("convert: record completion", zap.Error(err))
	}
	return result, nil
}

// finish logs a failed conversion and decides whether it reaches the exit
// status.
func finish(cfg *config.Config, log *zap.Logger, err error) error {
	if err == nil {
		return nil
	}
	log.Error("conversion failed", zap.Error(err))
	if cfg.Pipeline.ExitZeroOnError {
		return nil
	}
	return eris.Wrap(err, "convert")
}
