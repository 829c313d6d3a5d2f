package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sells-group/ocr-pdftotext/internal/ocr/ocrtest"
)

func TestOutputPath(t *testing.T) {
	tests := []struct {
		input  string
		outDir string
		want   string
	}{
		{"/in/scan.pdf", "/out", "/out/scan.txt"},
		{"/in/scan.pdf", "", "/in/scan.txt"},
		{"/in/scan", "/out", "/out/scan.txt"},
		{"/in/report.v2.PDF", "/out", "/out/report.v2.txt"},
		{"/in/scan.txt", "", "/in/scan.ocr.txt"},
		{"/in/scan.txt", "/in", "/in/scan.ocr.txt"},
		{"/in/scan.txt", "/out", "/out/scan.txt"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, outputPath(tt.input, tt.outDir), tt.input)
	}
}

func TestRunWatch_ConvertsDroppedPDF(t *testing.T) {
	tools := ocrtest.StubTools(t)
	inDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "out")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runWatch(ctx, testConfig(tools), zap.NewNop(), inDir, outDir, "-layout") }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Error("watch did not stop")
		}
	})

	time.Sleep(100 * time.Millisecond)
	ocrtest.WritePDF(t, inDir, "scan.pdf", 2)

	want := ocrtest.PageText(1) + "\n" + ocrtest.PageText(2)
	require.Eventually(t, func() bool {
		data, err := os.ReadFile(filepath.Join(outDir, "scan.txt"))
		return err == nil && string(data) == want
	}, 10*time.Second, 50*time.Millisecond)
}

func TestRunWatch_PDFNamedTxtKeepsInput(t *testing.T) {
	tools := ocrtest.StubTools(t)
	dir := t.TempDir()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runWatch(ctx, testConfig(tools), zap.NewNop(), dir, "", "") }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Error("watch did not stop")
		}
	})

	time.Sleep(100 * time.Millisecond)
	in := ocrtest.WritePDF(t, dir, "scan.txt", 1)

	want := ocrtest.PageText(1)
	require.Eventually(t, func() bool {
		data, err := os.ReadFile(filepath.Join(dir, "scan.ocr.txt"))
		return err == nil && string(data) == want
	}, 10*time.Second, 50*time.Millisecond)

	data, err := os.ReadFile(in)
	require.NoError(t, err)
	assert.Equal(t, ocrtest.PDF(1), data)
}

func TestRunWatch_BadExtractorArgs(t *testing.T) {
	err := runWatch(context.Background(), testConfig(ocrtest.StubTools(t)), zap.NewNop(), t.TempDir(), "", `"unterminated`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse extractor args")
}
