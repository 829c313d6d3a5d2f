package pipeline

import (
	"context"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/ocr-pdftotext/internal/model"
	"github.com/sells-group/ocr-pdftotext/internal/runner"
)

// Extractor runs the direct text extractor over the CLI arguments.
type Extractor interface {
	Extract(ctx context.Context, args []string) (*runner.Result, error)
}

// DocumentOCR recognizes every page of a PDF.
type DocumentOCR interface {
	PageCount(inputPath string) (int, error)
	OCRPages(ctx context.Context, inputPath string, n int) ([]byte, error)
}

// Pipeline converts a PDF to text: extract directly, check readability,
// fall back to OCR, write the output file.
type Pipeline struct {
	extractor Extractor
	doc       DocumentOCR
	readable  Gate
	log       *zap.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithGate replaces the default readability gate.
func WithGate(g Gate) Option {
	return func(p *Pipeline) { p.readable = g }
}

// New creates a Pipeline. A nil logger falls back to zap.L().
func New(ext Extractor, doc DocumentOCR, log *zap.Logger, opts ...Option) *Pipeline {
	if log == nil {
		log = zap.L()
	}
	p := &Pipeline{
		extractor: ext,
		doc:       doc,
		readable:  SeemsHumanReadable,
		log:       log,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run converts using CLI-style args: extractor options, then the input PDF,
// then the output path. The output file is truncated and written once.
func (p *Pipeline) Run(ctx context.Context, args []string) (*model.RunResult, error) {
	if len(args) < 2 {
		return nil, eris.Errorf("pipeline: need input and output paths, got %d args", len(args))
	}
	inputPath := args[len(args)-2]
	outputPath := args[len(args)-1]
	start := time.Now()

	log := p.log.With(zap.String("input", inputPath), zap.String("output", outputPath))

	extracted, err := p.extractor.Extract(ctx, args)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: extract text")
	}

	text, err := decodeUTF8(extracted.Stdout)
	if err != nil {
		return nil, err
	}

	result := &model.RunResult{}
	var out []byte

	if p.readable(text) {
		result.Path = model.PathText
		out = extracted.Stdout
	} else {
		result.Path = model.PathOCR
		n, err := p.doc.PageCount(inputPath)
		if err != nil {
			return nil, eris.Wrap(err, "pipeline: ocr fallback")
		}
		result.Pages = n
		out, err = p.doc.OCRPages(ctx, inputPath, n)
		if err != nil {
			return nil, eris.Wrap(err, "pipeline: ocr fallback")
		}
	}

	if err := os.WriteFile(outputPath, out, 0o644); err != nil {
		return nil, eris.Wrapf(err, "pipeline: write output %s", outputPath)
	}

	result.Bytes = len(out)
	result.DurationMs = time.Since(start).Milliseconds()

	log.Info("pipeline: conversion complete",
		zap.String("path", string(result.Path)),
		zap.Int("pages", result.Pages),
		zap.Int("bytes", result.Bytes),
		zap.Int64("duration_ms", result.DurationMs),
	)

	return result, nil
}
