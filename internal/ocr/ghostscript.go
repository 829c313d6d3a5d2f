package ocr

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"
)

const (
	rasterDevice     = "png16m"
	rasterResolution = "300x300"
)

// Ghostscript rasterizes PDF pages with the gs CLI tool.
type Ghostscript struct {
	binPath string
	run     Runner
}

// NewGhostscript creates a Ghostscript rasterizer. If binPath is empty, "gs" is used.
func NewGhostscript(binPath string, r Runner) *Ghostscript {
	if binPath == "" {
		binPath = "gs"
	}
	return &Ghostscript{binPath: binPath, run: r}
}

// Rasterize renders page of inputPath into outputPath as a 24-bit PNG at
// 300x300 DPI, overwriting outputPath. A non-zero gs exit only shows up in
// the logs.
func (g *Ghostscript) Rasterize(ctx context.Context, inputPath, outputPath string, page int) error {
	if page < 1 {
		return eris.Errorf("ocr: invalid page %d", page)
	}
	if _, err := g.run.Run(ctx, ToolGhostscript, g.binPath, rasterArgs(inputPath, outputPath, page)...); err != nil {
		return eris.Wrapf(err, "ocr: rasterize page %d", page)
	}
	return nil
}

func rasterArgs(inputPath, outputPath string, page int) []string {
	return []string{
		"-dQUIET",
		"-dSAFER",
		"-dBATCH",
		"-dNOPAUSE",
		"-sDEVICE=" + rasterDevice,
		fmt.Sprintf("-dFirstPage=%d", page),
		fmt.Sprintf("-dLastPage=%d", page),
		"-o", outputPath,
		"-r" + rasterResolution,
		inputPath,
	}
}
