package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/sells-group/ocr-pdftotext/internal/config"
	"github.com/sells-group/ocr-pdftotext/internal/model"
	"github.com/sells-group/ocr-pdftotext/internal/ocr/ocrtest"
	"github.com/sells-group/ocr-pdftotext/internal/store"
)

func testConfig(tools ocrtest.Tools) *config.Config {
	return &config.Config{
		Tools: config.ToolsConfig{
			PdfToTextPath:   tools.PdfToText,
			GhostscriptPath: tools.Ghostscript,
			TesseractPath:   tools.Tesseract,
		},
		OCR:   config.OCRConfig{TesseractArgs: "-l eng", Workers: 1},
		Watch: config.WatchConfig{DebounceMS: 20, RatePerSec: 100, Burst: 10},
	}
}

func listRuns(t *testing.T, path string) []model.Run {
	t.Helper()
	st, err := store.NewSQLite(path)
	require.NoError(t, err)
	defer st.Close() //nolint:errcheck
	runs, err := st.ListRuns(context.Background(), store.RunFilter{})
	require.NoError(t, err)
	return runs
}

type fakeConverter struct {
	calls  [][]string
	result *model.RunResult
	err    error
}

func (f *fakeConverter) Run(_ context.Context, args []string) (*model.RunResult, error) {
	f.calls = append(f.calls, args)
	return f.result, f.err
}

func TestWantsHelp(t *testing.T) {
	assert.True(t, wantsHelp([]string{"-h"}))
	assert.True(t, wantsHelp([]string{"--help"}))
	assert.False(t, wantsHelp([]string{"-h", "in.pdf", "out.txt"}))
	assert.False(t, wantsHelp(nil))
}

func TestRunConvert_OCRFallback(t *testing.T) {
	tools := ocrtest.StubTools(t)
	dir := t.TempDir()
	in := ocrtest.WritePDF(t, dir, "scan.pdf", 2)
	out := filepath.Join(dir, "scan.txt")

	err := runConvert(context.Background(), testConfig(tools), zap.NewNop(), []string{"-layout", in, out})
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, ocrtest.PageText(1)+"\n"+ocrtest.PageText(2), string(data))
}

func TestRunConvert_ParallelPagesKeepOrder(t *testing.T) {
	tools := ocrtest.StubTools(t)
	dir := t.TempDir()
	in := ocrtest.WritePDF(t, dir, "scan.pdf", 4)
	out := filepath.Join(dir, "scan.txt")

	cfg := testConfig(tools)
	cfg.OCR.Workers = 3
	require.NoError(t, runConvert(context.Background(), cfg, zap.NewNop(), []string{in, out}))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "recognized page 1\nrecognized page 2\nrecognized page 3\nrecognized page 4", string(data))
}

func TestRunConvert_RecordsCompletedRun(t *testing.T) {
	tools := ocrtest.StubTools(t)
	dir := t.TempDir()
	in := ocrtest.WritePDF(t, dir, "scan.pdf", 2)
	out := filepath.Join(dir, "scan.txt")

	cfg := testConfig(tools)
	cfg.Store.Path = filepath.Join(dir, "runs.db")
	require.NoError(t, runConvert(context.Background(), cfg, zap.NewNop(), []string{in, out}))

	runs := listRuns(t, cfg.Store.Path)
	require.Len(t, runs, 1)
	assert.Equal(t, model.RunStatusComplete, runs[0].Status)
	assert.Equal(t, in, runs[0].Conversion.Input)
	assert.Equal(t, out, runs[0].Conversion.Output)
	require.NotNil(t, runs[0].Result)
	assert.Equal(t, model.PathOCR, runs[0].Result.Path)
	assert.Equal(t, 2, runs[0].Result.Pages)
}

func TestRunConvert_RecordsFailedRun(t *testing.T) {
	tools := ocrtest.StubTools(t)
	dir := t.TempDir()
	in := filepath.Join(dir, "missing.pdf")
	out := filepath.Join(dir, "missing.txt")

	cfg := testConfig(tools)
	cfg.Store.Path = filepath.Join(dir, "runs.db")
	err := runConvert(context.Background(), cfg, zap.NewNop(), []string{in, out})
	require.Error(t, err)

	runs := listRuns(t, cfg.Store.Path)
	require.Len(t, runs, 1)
	assert.Equal(t, model.RunStatusFailed, runs[0].Status)
	assert.NotEmpty(t, runs[0].Error)
	assert.NoFileExists(t, out)
}

func TestRunConvert_TooFewArgs(t *testing.T) {
	tools := ocrtest.StubTools(t)
	err := runConvert(context.Background(), testConfig(tools), zap.NewNop(), []string{"only.pdf"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "need input and output paths")
}

func TestRunConvert_BadTesseractArgs(t *testing.T) {
	cfg := testConfig(ocrtest.StubTools(t))
	cfg.OCR.TesseractArgs = `-l "eng`
	err := runConvert(context.Background(), cfg, zap.NewNop(), []string{"in.pdf", "out.txt"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse tesseract options")
}

func TestConvertWithHistory_NoStore(t *testing.T) {
	fc := &fakeConverter{result: &model.RunResult{Path: model.PathOCR}}
	res, err := convertWithHistory(context.Background(), fc, nil, zap.NewNop(), []string{"a.pdf", "a.txt"})
	require.NoError(t, err)
	assert.Equal(t, model.PathOCR, res.Path)
	assert.Len(t, fc.calls, 1)
}

func TestFinish(t *testing.T) {
	cause := errors.New("ocr: page 2: tesseract not found")

	t.Run("success", func(t *testing.T) {
		assert.NoError(t, finish(&config.Config{}, zap.NewNop(), nil))
	})

	t.Run("failure exits non-zero", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		err := finish(&config.Config{}, zap.New(core), cause)
		require.Error(t, err)
		assert.Contains(t, err.Error(), cause.Error())
		assert.Equal(t, 1, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
	})

	t.Run("exit zero on error", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		cfg := &config.Config{Pipeline: config.PipelineConfig{ExitZeroOnError: true}}
		assert.NoError(t, finish(cfg, zap.New(core), cause))
		require.Equal(t, 1, logs.Len())
		assert.Equal(t, "conversion failed", logs.All()[0].Message)
	})
}
