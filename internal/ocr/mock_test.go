package ocr

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/ocr-pdftotext/internal/runner"
)

// --- Runner Mock ---

type mockRunner struct {
	mock.Mock
}

func (m *mockRunner) Run(ctx context.Context, tool, bin string, args ...string) (*runner.Result, error) {
	ret := m.Called(ctx, tool, bin, args)
	if ret.Get(0) == nil {
		return nil, ret.Error(1)
	}
	return ret.Get(0).(*runner.Result), ret.Error(1)
}

// --- Rasterizer Mock ---

type mockRasterizer struct {
	mock.Mock
}

func (m *mockRasterizer) Rasterize(ctx context.Context, inputPath, outputPath string, page int) error {
	return m.Called(ctx, inputPath, outputPath, page).Error(0)
}

// --- Page recognizer fake ---

// recordingPages returns "page N" for every page and records call order.
type recordingPages struct {
	mu    sync.Mutex
	calls []int
	fail  map[int]error
}

func (r *recordingPages) OCRPage(_ context.Context, _ string, page int) ([]byte, error) {
	r.mu.Lock()
	r.calls = append(r.calls, page)
	err := r.fail[page]
	r.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return []byte(pageLabel(page)), nil
}

type fixedCounter struct {
	n   int
	err error
}

func (f fixedCounter) PageCount(string) (int, error) {
	return f.n, f.err
}
