// Package watch converts PDFs as they appear in a directory.
package watch

import (
	"context"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gabriel-vasile/mimetype"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const pdfMIME = "application/pdf"

// Handler processes one settled PDF.
type Handler func(ctx context.Context, path string) error

// Config controls event coalescing and throughput.
type Config struct {
	Debounce   time.Duration
	RatePerSec float64
	Burst      int
}

// Watcher feeds new or rewritten PDFs in a directory to a Handler, one at a
// time. Files present before Run starts are ignored.
type Watcher struct {
	dir      string
	handle   Handler
	debounce time.Duration
	limiter  *rate.Limiter
	log      *zap.Logger
}

// New creates a Watcher for dir.
func New(dir string, cfg Config, handle Handler, log *zap.Logger) *Watcher {
	if log == nil {
		log = zap.L()
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}
	limit := rate.Inf
	if cfg.RatePerSec > 0 {
		limit = rate.Limit(cfg.RatePerSec)
	}
	return &Watcher{
		dir:      dir,
		handle:   handle,
		debounce: cfg.Debounce,
		limiter:  rate.NewLimiter(limit, burst),
		log:      log.With(zap.String("dir", dir)),
	}
}

// Run watches until ctx is done. Handler errors are logged, not returned.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return eris.Wrap(err, "watch: create watcher")
	}
	defer fw.Close() //nolint:errcheck

	if err := fw.Add(w.dir); err != nil {
		return eris.Wrapf(err, "watch: add %s", w.dir)
	}

	g, gctx := errgroup.WithContext(ctx)
	queue := make(chan string, 64)

	deb := NewDebouncer(w.debounce, func(path string) {
		select {
		case queue <- path:
		case <-gctx.Done():
		}
	})
	defer deb.Stop()

	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case path := <-queue:
				w.process(gctx, path)
			}
		}
	})

	g.Go(func() error {
		w.log.Info("watch: started")
		for {
			select {
			case <-gctx.Done():
				return nil
			case event, ok := <-fw.Events:
				if !ok {
					return eris.New("watch: event channel closed")
				}
				if event.Has(fsnotify.Create) || event.Has(fsnotify.Write) {
					deb.Trigger(event.Name)
				}
			case err, ok := <-fw.Errors:
				if !ok {
					return eris.New("watch: error channel closed")
				}
				w.log.Warn("watch: fsnotify error", zap.Error(err))
			}
		}
	})

	return g.Wait()
}

func (w *Watcher) process(ctx context.Context, path string) {
	log := w.log.With(zap.String("path", path))

	ok, err := IsPDF(path)
	if err != nil {
		log.Debug("watch: skip unreadable file", zap.Error(err))
		return
	}
	if !ok {
		log.Debug("watch: skip non-PDF file")
		return
	}

	if err := w.limiter.Wait(ctx); err != nil {
		return
	}

	if err := w.handle(ctx, path); err != nil {
		log.Error("watch: convert failed", zap.Error(err))
	}
}

// IsPDF sniffs the file content; the extension is ignored.
func IsPDF(path string) (bool, error) {
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return false, eris.Wrapf(err, "watch: detect %s", path)
	}
	return mt.Is(pdfMIME), nil
}
