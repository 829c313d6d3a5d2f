package ocr

import (
	"bytes"
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var pageSeparator = []byte("\n")

// Document OCRs every page of a PDF and joins the results in page order.
type Document struct {
	counter PageCounter
	pages   PageRecognizer
	workers int
	log     *zap.Logger
}

// NewDocument creates a document OCR driver. workers bounds how many pages
// are processed at once; values below 1 mean one page at a time.
func NewDocument(counter PageCounter, pages PageRecognizer, workers int, log *zap.Logger) *Document {
	if workers < 1 {
		workers = 1
	}
	if log == nil {
		log = zap.L()
	}
	return &Document{counter: counter, pages: pages, workers: workers, log: log}
}

// OCR returns the recognized text of inputPath, one "\n" between pages.
// A document with no pages yields empty output.
func (d *Document) OCR(ctx context.Context, inputPath string) ([]byte, error) {
	n, err := d.PageCount(inputPath)
	if err != nil {
		return nil, err
	}
	return d.OCRPages(ctx, inputPath, n)
}

// PageCount reports the number of pages of inputPath.
func (d *Document) PageCount(inputPath string) (int, error) {
	n, err := d.counter.PageCount(inputPath)
	if err != nil {
		return 0, eris.Wrap(err, "ocr: document page count")
	}
	return n, nil
}

// OCRPages recognizes pages 1..n of inputPath. With a single worker pages
// are handled strictly in ascending order; with more, results are collected
// by page index so the joined output keeps page order either way.
func (d *Document) OCRPages(ctx context.Context, inputPath string, n int) ([]byte, error) {
	d.log.Info("ocr: document",
		zap.String("input", inputPath),
		zap.Int("pages", n),
		zap.Int("workers", d.workers),
	)

	results := make([][]byte, n)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.workers)

	for i := range n {
		page := i + 1
		g.Go(func() error {
			text, err := d.pages.OCRPage(gctx, inputPath, page)
			if err != nil {
				return eris.Wrapf(err, "ocr: page %d", page)
			}
			results[i] = text
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return bytes.Join(results, pageSeparator), nil
}
