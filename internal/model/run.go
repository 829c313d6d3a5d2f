package model

import "time"

// RunStatus represents the current state of a conversion run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// ConversionPath records which source produced the output text.
type ConversionPath string

const (
	PathText ConversionPath = "text" // pdftotext output used as-is
	PathOCR  ConversionPath = "ocr"  // rasterize + tesseract fallback
)

// Conversion describes one PDF-to-text request.
type Conversion struct {
	Input  string   `json:"input"`
	Output string   `json:"output"`
	Args   []string `json:"args"`
}

// Run represents a single recorded conversion.
type Run struct {
	ID         string     `json:"id"`
	Conversion Conversion `json:"conversion"`
	Status     RunStatus  `json:"status"`
	Result     *RunResult `json:"result,omitempty"`
	Error      string     `json:"error,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// RunResult holds the final outcome of a conversion.
type RunResult struct {
	Path       ConversionPath `json:"path"`
	Pages      int            `json:"pages"`
	Bytes      int            `json:"bytes"`
	DurationMs int64          `json:"duration_ms"`
}
