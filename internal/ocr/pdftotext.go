package ocr

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/ocr-pdftotext/internal/runner"
)

// PdfToText extracts the embedded text layer using the pdftotext CLI tool.
type PdfToText struct {
	binPath string
	run     Runner
}

// NewPdfToText creates a PdfToText extractor. If binPath is empty, "pdftotext" is used.
func NewPdfToText(binPath string, r Runner) *PdfToText {
	if binPath == "" {
		binPath = "pdftotext"
	}
	return &PdfToText{binPath: binPath, run: r}
}

// Extract runs pdftotext with every argument but the last (the caller's
// output path), followed by "-" so the text lands on stdout.
func (p *PdfToText) Extract(ctx context.Context, args []string) (*runner.Result, error) {
	if len(args) == 0 {
		return nil, eris.New("ocr: pdftotext needs at least an output argument")
	}

	pdfArgs := make([]string, 0, len(args))
	pdfArgs = append(pdfArgs, args[:len(args)-1]...)
	pdfArgs = append(pdfArgs, "-")

	res, err := p.run.Run(ctx, ToolPdfToText, p.binPath, pdfArgs...)
	if err != nil {
		return nil, eris.Wrap(err, "ocr: pdftotext")
	}
	return res, nil
}
