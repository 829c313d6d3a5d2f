// Package ocr turns PDF documents into text by shelling out to pdftotext,
// Ghostscript and Tesseract.
package ocr

import (
	"context"

	"github.com/sells-group/ocr-pdftotext/internal/runner"
)

// Logical tool names used to tag runner log lines.
const (
	ToolPdfToText   = "pdftotext"
	ToolGhostscript = "ghostscript"
	ToolTesseract   = "tesseract"
)

// Runner invokes an external program and captures its output.
type Runner interface {
	Run(ctx context.Context, tool, bin string, args ...string) (*runner.Result, error)
}

// Rasterizer renders a single PDF page to an image file.
type Rasterizer interface {
	Rasterize(ctx context.Context, inputPath, outputPath string, page int) error
}

// PageRecognizer returns the recognized text of one page of a PDF.
type PageRecognizer interface {
	OCRPage(ctx context.Context, inputPath string, page int) ([]byte, error)
}

// PageCounter reports the number of pages in a PDF.
type PageCounter interface {
	PageCount(path string) (int, error)
}
