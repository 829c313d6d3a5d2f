package ocr

import (
	"context"
	"os"

	"github.com/mattn/go-shellwords"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// DefaultTesseractOptions selects English recognition.
const DefaultTesseractOptions = "-l eng"

// TesseractConfig configures the page OCR stage.
type TesseractConfig struct {
	BinPath string
	// Options is a shell-quoted argument string appended after "stdout".
	Options string
	// TempDir holds the per-page raster images. Empty uses os.TempDir.
	TempDir string
}

// Tesseract OCRs single PDF pages: rasterize to a scoped temp file, then run
// tesseract on it with output to stdout.
type Tesseract struct {
	binPath string
	options []string
	tempDir string
	run     Runner
	raster  Rasterizer
	log     *zap.Logger
}

// NewTesseract creates the page OCR stage. If BinPath is empty, "tesseract" is used.
func NewTesseract(cfg TesseractConfig, r Runner, raster Rasterizer, log *zap.Logger) (*Tesseract, error) {
	if cfg.BinPath == "" {
		cfg.BinPath = "tesseract"
	}
	if log == nil {
		log = zap.L()
	}
	opts, err := shellwords.Parse(cfg.Options)
	if err != nil {
		return nil, eris.Wrapf(err, "ocr: parse tesseract options %q", cfg.Options)
	}
	return &Tesseract{
		binPath: cfg.BinPath,
		options: opts,
		tempDir: cfg.TempDir,
		run:     r,
		raster:  raster,
		log:     log,
	}, nil
}

// OCRPage rasterizes page of inputPath and returns tesseract's stdout. The
// raster image is removed before returning on every path.
func (t *Tesseract) OCRPage(ctx context.Context, inputPath string, page int) ([]byte, error) {
	img, err := os.CreateTemp(t.tempDir, "ocr-page-*.png")
	if err != nil {
		return nil, eris.Wrap(err, "ocr: create raster temp file")
	}
	imgPath := img.Name()
	defer func() {
		if err := os.Remove(imgPath); err != nil && !os.IsNotExist(err) {
			t.log.Warn("ocr: remove raster temp file", zap.String("path", imgPath), zap.Error(err))
		}
	}()
	if err := img.Close(); err != nil {
		return nil, eris.Wrap(err, "ocr: close raster temp file")
	}

	if err := t.raster.Rasterize(ctx, inputPath, imgPath, page); err != nil {
		return nil, err
	}

	args := make([]string, 0, len(t.options)+2)
	args = append(args, imgPath, "stdout")
	args = append(args, t.options...)

	res, err := t.run.Run(ctx, ToolTesseract, t.binPath, args...)
	if err != nil {
		return nil, eris.Wrapf(err, "ocr: tesseract page %d", page)
	}
	return res.Stdout, nil
}
