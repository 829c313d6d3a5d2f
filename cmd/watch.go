package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/mattn/go-shellwords"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/ocr-pdftotext/internal/config"
	"github.com/sells-group/ocr-pdftotext/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Convert PDFs as they land in a directory",
	Long: "Watches a directory and converts each new or rewritten PDF to <out>/<name>.txt. " +
		"Files are identified by content, so a PDF without a .pdf extension is still converted.",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("watch"); err != nil {
			return err
		}

		outDir, _ := cmd.Flags().GetString("out")
		extractorArgs, _ := cmd.Flags().GetString("extractor-args")
		if extractorArgs == "" {
			extractorArgs = cfg.Watch.ExtractorArgs
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return runWatch(ctx, cfg, logger, args[0], outDir, extractorArgs)
	},
}

func init() {
	watchCmd.Flags().String("out", "", "directory for .txt output (default: the watched directory)")
	watchCmd.Flags().String("extractor-args", "", "extra pdftotext options, shell-quoted (e.g. \"-layout -enc UTF-8\")")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(ctx context.Context, cfg *config.Config, log *zap.Logger, dir, outDir, extractorArgs string) error {
	extra, err := shellwords.Parse(extractorArgs)
	if err != nil {
		return eris.Wrapf(err, "watch: parse extractor args %q", extractorArgs)
	}

	if outDir != "" {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return eris.Wrapf(err, "watch: create %s", outDir)
		}
	}

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

	handle := func(ctx context.Context, path string) error {
		args := append(append([]string{}, extra...), path, outputPath(path, outDir))
		log.Debug("called with args", zap.Strings("args", args))
		_, err := convertWithHistory(ctx, p, st, log, args)
		return err
	}

	w := watch.New(dir, watch.Config{
		Debounce:   time.Duration(cfg.Watch.DebounceMS) * time.Millisecond,
		RatePerSec: cfg.Watch.RatePerSec,
		Burst:      cfg.Watch.Burst,
	}, handle, log)
	return w.Run(ctx)
}

// outputPath maps dir/name.pdf to outDir/name.txt. An empty outDir keeps the
// input's directory. A PDF that is itself named name.txt maps to
// name.ocr.txt so the input is never overwritten.
func outputPath(input, outDir string) string {
	base := filepath.Base(input)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if outDir == "" {
		outDir = filepath.Dir(input)
	}
	out := filepath.Join(outDir, stem+".txt")
	if filepath.Clean(out) == filepath.Clean(input) {
		out = filepath.Join(outDir, stem+".ocr.txt")
	}
	return out
}
